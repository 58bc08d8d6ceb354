package models

// QuestionType identifies one of the three reasoning batteries
type QuestionType string

const (
	TypeVerbal       QuestionType = "verbal"
	TypeQuantitative QuestionType = "quantitative"
	TypeNonVerbal    QuestionType = "nonverbal"
)

// AllQuestionTypes lists the batteries in canonical order
var AllQuestionTypes = []QuestionType{TypeVerbal, TypeQuantitative, TypeNonVerbal}

// IsValid reports whether t is a known question type
func (t QuestionType) IsValid() bool {
	switch t {
	case TypeVerbal, TypeQuantitative, TypeNonVerbal:
		return true
	}
	return false
}

// Level is an ordinal difficulty/grade tier
type Level string

const (
	Level1 Level = "level_1"
	Level2 Level = "level_2"
	Level3 Level = "level_3"
)

// AllLevels lists the tiers from easiest to hardest
var AllLevels = []Level{Level1, Level2, Level3}

// IsValid reports whether l is a known tier
func (l Level) IsValid() bool {
	switch l {
	case Level1, Level2, Level3:
		return true
	}
	return false
}

// Difficulty tags a question within its level
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Sub-type tags per battery
const (
	SubTypeAnalogies            = "analogies"
	SubTypeSentenceCompletion   = "sentence_completion"
	SubTypeClassification       = "classification"
	SubTypeNumberSeries         = "number_series"
	SubTypeNumberAnalogies      = "number_analogies"
	SubTypeMathPuzzles          = "math_puzzles"
	SubTypeFigureMatrices       = "figure_matrices"
	SubTypePaperFolding         = "paper_folding"
	SubTypeFigureClassification = "figure_classification"
)

// SubTypesFor returns the sub-type tags belonging to a battery
func SubTypesFor(t QuestionType) []string {
	switch t {
	case TypeVerbal:
		return []string{SubTypeAnalogies, SubTypeSentenceCompletion, SubTypeClassification}
	case TypeQuantitative:
		return []string{SubTypeNumberSeries, SubTypeNumberAnalogies, SubTypeMathPuzzles}
	case TypeNonVerbal:
		return []string{SubTypeFigureMatrices, SubTypePaperFolding, SubTypeFigureClassification}
	}
	return nil
}

// OptionCount is the fixed number of answer options per question.
// Scoring and the presentation layer assume exactly four options with
// one correct index in range.
const OptionCount = 4

// QuestionRecord is an immutable multiple-choice question.
// Records are created once when the bank is built and never mutated.
type QuestionRecord struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	SubType       string       `json:"sub_type"`
	Level         Level        `json:"level"`
	Difficulty    Difficulty   `json:"difficulty"`
	Stem          string       `json:"stem"`
	StemAr        string       `json:"stem_ar"`
	Options       [4]string    `json:"options"`
	OptionsAr     [4]string    `json:"options_ar"`
	CorrectIndex  int          `json:"correct_index"`
	Explanation   string       `json:"explanation"`
	ExplanationAr string       `json:"explanation_ar"`
	// Synthetic marks placeholder records produced by the repository
	// fallback tier rather than the content bank
	Synthetic bool `json:"synthetic,omitempty"`
}

// StemIn returns the stem in the requested language, falling back to English
func (q *QuestionRecord) StemIn(lang string) string {
	if lang == "ar" && q.StemAr != "" {
		return q.StemAr
	}
	return q.Stem
}

// OptionsIn returns the options in the requested language, falling back to English
func (q *QuestionRecord) OptionsIn(lang string) [4]string {
	if lang == "ar" && q.OptionsAr[0] != "" {
		return q.OptionsAr
	}
	return q.Options
}

// ExplanationIn returns the explanation in the requested language, falling back to English
func (q *QuestionRecord) ExplanationIn(lang string) string {
	if lang == "ar" && q.ExplanationAr != "" {
		return q.ExplanationAr
	}
	return q.Explanation
}
