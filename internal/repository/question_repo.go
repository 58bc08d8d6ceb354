package repository

import (
	"errors"
	"fmt"

	"cogniprep/internal/models"
)

// ErrUnknownLevel signals a configuration error: the requested level is
// not one of the known tiers. Unlike missing type/sub-type matches this
// is never compensated for.
var ErrUnknownLevel = errors.New("unknown question level")

// QuestionFilter narrows a level's corpus. Zero values mean "no filter".
type QuestionFilter struct {
	Type       models.QuestionType
	SubType    string
	Difficulty models.Difficulty
}

// QuestionRepository holds the full question corpus partitioned by
// level. It is read-only after construction and safe for concurrent use.
type QuestionRepository struct {
	byLevel map[models.Level][]models.QuestionRecord
	byID    map[string]models.QuestionRecord
}

// NewQuestionRepository indexes the given corpus by level and id
func NewQuestionRepository(records []models.QuestionRecord) *QuestionRepository {
	repo := &QuestionRepository{
		byLevel: make(map[models.Level][]models.QuestionRecord),
		byID:    make(map[string]models.QuestionRecord, len(records)),
	}
	for _, q := range records {
		repo.byLevel[q.Level] = append(repo.byLevel[q.Level], q)
		repo.byID[q.ID] = q
	}
	return repo
}

// GetByID returns the record for an id and whether it exists
func (r *QuestionRepository) GetByID(id string) (models.QuestionRecord, bool) {
	q, ok := r.byID[id]
	return q, ok
}

// Count returns the corpus size for a level
func (r *QuestionRepository) Count(level models.Level) int {
	return len(r.byLevel[level])
}

// GetQuestions returns questions for the level matching the filter.
// Missing matches are never an error: filters are dropped progressively
// (difficulty, then sub-type, then type) and as a last resort
// placeholder questions are synthesized, so callers never receive an
// empty corpus. Only an unknown level fails.
func (r *QuestionRepository) GetQuestions(level models.Level, filter QuestionFilter) ([]models.QuestionRecord, error) {
	if !level.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}

	if qs := r.filter(level, filter); len(qs) > 0 {
		return qs, nil
	}

	// Broaden progressively: difficulty first, then sub-type, then type
	if filter.Difficulty != "" {
		filter.Difficulty = ""
		if qs := r.filter(level, filter); len(qs) > 0 {
			return qs, nil
		}
	}
	if filter.SubType != "" {
		filter.SubType = ""
		if qs := r.filter(level, filter); len(qs) > 0 {
			return qs, nil
		}
	}
	if filter.Type != "" {
		filter.Type = ""
		if qs := r.filter(level, filter); len(qs) > 0 {
			return qs, nil
		}
	}

	return synthesizeQuestions(level, filter), nil
}

func (r *QuestionRepository) filter(level models.Level, filter QuestionFilter) []models.QuestionRecord {
	var out []models.QuestionRecord
	for _, q := range r.byLevel[level] {
		if filter.Type != "" && q.Type != filter.Type {
			continue
		}
		if filter.SubType != "" && q.SubType != filter.SubType {
			continue
		}
		if filter.Difficulty != "" && q.Difficulty != filter.Difficulty {
			continue
		}
		out = append(out, q)
	}
	return out
}

// syntheticBatchSize is how many placeholders the synthesis tier produces
const syntheticBatchSize = 10

// synthesizeQuestions is the explicit last-resort tier for an empty
// corpus. The placeholders carry the requested type and level so
// downstream filtering and scoring still behave consistently.
func synthesizeQuestions(level models.Level, filter QuestionFilter) []models.QuestionRecord {
	qType := filter.Type
	if qType == "" {
		qType = models.TypeVerbal
	}
	subType := filter.SubType
	if subType == "" {
		subType = models.SubTypesFor(qType)[0]
	}

	out := make([]models.QuestionRecord, 0, syntheticBatchSize)
	for i := 0; i < syntheticBatchSize; i++ {
		out = append(out, models.QuestionRecord{
			ID:           fmt.Sprintf("synthetic-%s-%s-%s-%03d", qType, subType, level, i),
			Type:         qType,
			SubType:      subType,
			Level:        level,
			Difficulty:   models.DifficultyMedium,
			Stem:         fmt.Sprintf("Placeholder question %d: which option is listed first?", i+1),
			StemAr:       fmt.Sprintf("سؤال مؤقت %d: أي خيار مذكور أولاً؟", i+1),
			Options:      [4]string{"option A", "option B", "option C", "option D"},
			OptionsAr:    [4]string{"الخيار أ", "الخيار ب", "الخيار ج", "الخيار د"},
			CorrectIndex: 0,
			Explanation:  "Placeholder item generated because no bank questions matched.",
			Synthetic:    true,
		})
	}
	return out
}
