package content

import (
	"fmt"

	"cogniprep/internal/models"
)

// The bank is generated deterministically from templates so every
// process sees the same corpus. Records are immutable after Build.

// perCell is how many questions each (level, sub-type, difficulty)
// combination contributes
const perCell = 8

// verbalTemplate is a fixed verbal item with a known correct option
type verbalTemplate struct {
	subType string
	stem    string
	stemAr  string
	options [4]string
	correct int
	explain string
}

var verbalTemplates = []verbalTemplate{
	{
		subType: models.SubTypeAnalogies,
		stem:    "Bird is to nest as bee is to ___",
		stemAr:  "العصفور للعش كما النحلة لـ ___",
		options: [4]string{"flower", "hive", "honey", "wing"},
		correct: 1,
		explain: "A nest is where a bird lives; a hive is where a bee lives.",
	},
	{
		subType: models.SubTypeAnalogies,
		stem:    "Pen is to write as knife is to ___",
		stemAr:  "القلم للكتابة كما السكين لـ ___",
		options: [4]string{"cut", "sharpen", "cook", "hold"},
		correct: 0,
		explain: "A pen's function is writing; a knife's function is cutting.",
	},
	{
		subType: models.SubTypeSentenceCompletion,
		stem:    "The desert was so ___ that no plants could grow there.",
		stemAr:  "كانت الصحراء ___ جداً حتى أنه لا يمكن لأي نبات أن ينمو فيها.",
		options: [4]string{"green", "dry", "small", "cold"},
		correct: 1,
		explain: "Dryness is what prevents plant growth in a desert.",
	},
	{
		subType: models.SubTypeSentenceCompletion,
		stem:    "She spoke so ___ that everyone in the large hall heard her.",
		stemAr:  "تحدثت ___ لدرجة أن الجميع في القاعة الكبيرة سمعها.",
		options: [4]string{"quietly", "slowly", "loudly", "sadly"},
		correct: 2,
		explain: "Being heard across a large hall requires speaking loudly.",
	},
	{
		subType: models.SubTypeClassification,
		stem:    "Which word does not belong: apple, banana, carrot, cherry?",
		stemAr:  "أي كلمة لا تنتمي: تفاحة، موزة، جزرة، كرزة؟",
		options: [4]string{"apple", "banana", "carrot", "cherry"},
		correct: 2,
		explain: "A carrot is a vegetable; the others are fruits.",
	},
	{
		subType: models.SubTypeClassification,
		stem:    "Which word does not belong: oak, pine, rose, maple?",
		stemAr:  "أي كلمة لا تنتمي: بلوط، صنوبر، وردة، قيقب؟",
		options: [4]string{"oak", "pine", "rose", "maple"},
		correct: 2,
		explain: "A rose is a flower; the others are trees.",
	},
}

// nonVerbalTemplate describes figure items in words; rendering is the
// presentation layer's concern
type nonVerbalTemplate struct {
	subType string
	stem    string
	stemAr  string
	options [4]string
	correct int
	explain string
}

var nonVerbalTemplates = []nonVerbalTemplate{
	{
		subType: models.SubTypeFigureMatrices,
		stem:    "A circle grows larger across each row. Which figure completes the third row?",
		stemAr:  "تكبر الدائرة عبر كل صف. أي شكل يكمل الصف الثالث؟",
		options: [4]string{"small circle", "medium circle", "large circle", "square"},
		correct: 2,
		explain: "The pattern grows by one size step per column.",
	},
	{
		subType: models.SubTypeFigureMatrices,
		stem:    "Each row rotates the arrow 90 degrees clockwise. Which arrow comes next?",
		stemAr:  "يدور السهم 90 درجة باتجاه عقارب الساعة في كل صف. أي سهم يأتي بعد ذلك؟",
		options: [4]string{"arrow up", "arrow right", "arrow down", "arrow left"},
		correct: 2,
		explain: "Right rotated a quarter turn clockwise points down.",
	},
	{
		subType: models.SubTypePaperFolding,
		stem:    "A square sheet is folded in half once and a hole is punched in the center. How many holes appear when unfolded?",
		stemAr:  "طُويت ورقة مربعة مرة واحدة وثُقبت في المنتصف. كم ثقباً يظهر عند فتحها؟",
		options: [4]string{"one", "two", "three", "four"},
		correct: 1,
		explain: "One fold doubles the punched hole.",
	},
	{
		subType: models.SubTypePaperFolding,
		stem:    "A sheet folded in half twice is punched once in the corner. How many holes appear when unfolded?",
		stemAr:  "ورقة طُويت مرتين وثُقبت مرة في الزاوية. كم ثقباً يظهر عند فتحها؟",
		options: [4]string{"two", "three", "four", "six"},
		correct: 2,
		explain: "Two folds quadruple the punched hole.",
	},
	{
		subType: models.SubTypeFigureClassification,
		stem:    "Which figure does not belong: triangle, square, pentagon, circle?",
		stemAr:  "أي شكل لا ينتمي: مثلث، مربع، خماسي، دائرة؟",
		options: [4]string{"triangle", "square", "pentagon", "circle"},
		correct: 3,
		explain: "The circle has no straight sides; the others are polygons.",
	},
	{
		subType: models.SubTypeFigureClassification,
		stem:    "Which figure does not belong: three shaded squares and one unshaded square?",
		stemAr:  "أي شكل لا ينتمي: ثلاثة مربعات مظللة ومربع واحد غير مظلل؟",
		options: [4]string{"first shaded", "second shaded", "third shaded", "unshaded"},
		correct: 3,
		explain: "Shading is the distinguishing attribute.",
	},
}

// difficultyStep widens the numeric range used by quantitative items
func difficultyStep(level models.Level, diff models.Difficulty) int {
	step := 2
	switch level {
	case models.Level2:
		step = 3
	case models.Level3:
		step = 4
	}
	switch diff {
	case models.DifficultyMedium:
		step += 2
	case models.DifficultyHard:
		step += 4
	}
	return step
}

// Build assembles the full static corpus for every level, battery,
// sub-type and difficulty.
func Build() []models.QuestionRecord {
	var bank []models.QuestionRecord
	for _, level := range models.AllLevels {
		for _, diff := range []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
			bank = append(bank, buildVerbal(level, diff)...)
			bank = append(bank, buildQuantitative(level, diff)...)
			bank = append(bank, buildNonVerbal(level, diff)...)
		}
	}
	return bank
}

func buildVerbal(level models.Level, diff models.Difficulty) []models.QuestionRecord {
	var out []models.QuestionRecord
	for _, subType := range models.SubTypesFor(models.TypeVerbal) {
		for i := 0; i < perCell; i++ {
			t := pickVerbal(subType, i)
			out = append(out, models.QuestionRecord{
				ID:           questionID(models.TypeVerbal, subType, level, diff, i),
				Type:         models.TypeVerbal,
				SubType:      subType,
				Level:        level,
				Difficulty:   diff,
				Stem:         t.stem,
				StemAr:       t.stemAr,
				Options:      t.options,
				OptionsAr:    t.options,
				CorrectIndex: t.correct,
				Explanation:  t.explain,
			})
		}
	}
	return out
}

func pickVerbal(subType string, i int) verbalTemplate {
	matching := make([]verbalTemplate, 0, len(verbalTemplates))
	for _, t := range verbalTemplates {
		if t.subType == subType {
			matching = append(matching, t)
		}
	}
	return matching[i%len(matching)]
}

func buildNonVerbal(level models.Level, diff models.Difficulty) []models.QuestionRecord {
	var out []models.QuestionRecord
	for _, subType := range models.SubTypesFor(models.TypeNonVerbal) {
		for i := 0; i < perCell; i++ {
			t := pickNonVerbal(subType, i)
			out = append(out, models.QuestionRecord{
				ID:           questionID(models.TypeNonVerbal, subType, level, diff, i),
				Type:         models.TypeNonVerbal,
				SubType:      subType,
				Level:        level,
				Difficulty:   diff,
				Stem:         t.stem,
				StemAr:       t.stemAr,
				Options:      t.options,
				OptionsAr:    t.options,
				CorrectIndex: t.correct,
				Explanation:  t.explain,
			})
		}
	}
	return out
}

func pickNonVerbal(subType string, i int) nonVerbalTemplate {
	matching := make([]nonVerbalTemplate, 0, len(nonVerbalTemplates))
	for _, t := range nonVerbalTemplates {
		if t.subType == subType {
			matching = append(matching, t)
		}
	}
	return matching[i%len(matching)]
}

// buildQuantitative generates numeric items whose correct option is
// computed, so the answer key is always genuinely correct
func buildQuantitative(level models.Level, diff models.Difficulty) []models.QuestionRecord {
	step := difficultyStep(level, diff)
	var out []models.QuestionRecord
	for _, subType := range models.SubTypesFor(models.TypeQuantitative) {
		for i := 0; i < perCell; i++ {
			var q models.QuestionRecord
			switch subType {
			case models.SubTypeNumberSeries:
				q = numberSeriesQuestion(level, diff, step, i)
			case models.SubTypeNumberAnalogies:
				q = numberAnalogyQuestion(level, diff, step, i)
			case models.SubTypeMathPuzzles:
				q = mathPuzzleQuestion(level, diff, step, i)
			}
			out = append(out, q)
		}
	}
	return out
}

func numberSeriesQuestion(level models.Level, diff models.Difficulty, step, i int) models.QuestionRecord {
	start := 1 + i
	a, b, c := start, start+step, start+2*step
	answer := start + 3*step
	stem := fmt.Sprintf("What number comes next: %d, %d, %d, ___?", a, b, c)
	stemAr := fmt.Sprintf("ما العدد التالي: %d، %d، %d، ___؟", a, b, c)
	options, correct := numericOptions(answer, step, i)
	return models.QuestionRecord{
		ID:           questionID(models.TypeQuantitative, models.SubTypeNumberSeries, level, diff, i),
		Type:         models.TypeQuantitative,
		SubType:      models.SubTypeNumberSeries,
		Level:        level,
		Difficulty:   diff,
		Stem:         stem,
		StemAr:       stemAr,
		Options:      options,
		OptionsAr:    options,
		CorrectIndex: correct,
		Explanation:  fmt.Sprintf("Each term increases by %d.", step),
	}
}

func numberAnalogyQuestion(level models.Level, diff models.Difficulty, step, i int) models.QuestionRecord {
	base := 2 + i
	answer := (base + step) * 2
	stem := fmt.Sprintf("%d is to %d as %d is to ___", base, base*2, base+step)
	stemAr := fmt.Sprintf("%d إلى %d كما %d إلى ___", base, base*2, base+step)
	options, correct := numericOptions(answer, step, i+1)
	return models.QuestionRecord{
		ID:           questionID(models.TypeQuantitative, models.SubTypeNumberAnalogies, level, diff, i),
		Type:         models.TypeQuantitative,
		SubType:      models.SubTypeNumberAnalogies,
		Level:        level,
		Difficulty:   diff,
		Stem:         stem,
		StemAr:       stemAr,
		Options:      options,
		OptionsAr:    options,
		CorrectIndex: correct,
		Explanation:  "The second number is double the first.",
	}
}

func mathPuzzleQuestion(level models.Level, diff models.Difficulty, step, i int) models.QuestionRecord {
	per := step + 1
	groups := 3 + i%3
	answer := per * groups
	stem := fmt.Sprintf("A box holds %d pencils. How many pencils are in %d boxes?", per, groups)
	stemAr := fmt.Sprintf("تحتوي العلبة على %d قلماً. كم قلماً في %d علب؟", per, groups)
	options, correct := numericOptions(answer, per, i+2)
	return models.QuestionRecord{
		ID:           questionID(models.TypeQuantitative, models.SubTypeMathPuzzles, level, diff, i),
		Type:         models.TypeQuantitative,
		SubType:      models.SubTypeMathPuzzles,
		Level:        level,
		Difficulty:   diff,
		Stem:         stem,
		StemAr:       stemAr,
		Options:      options,
		OptionsAr:    options,
		CorrectIndex: correct,
		Explanation:  fmt.Sprintf("%d groups of %d make %d.", groups, per, answer),
	}
}

// numericOptions places the answer among three plausible distractors.
// The correct slot rotates with salt so answers are not always in the
// same position.
func numericOptions(answer, spread, salt int) ([4]string, int) {
	if spread < 1 {
		spread = 1
	}
	correct := salt % 4
	distractors := []int{answer - spread, answer + spread, answer + 2*spread}
	var options [4]string
	d := 0
	for slot := 0; slot < 4; slot++ {
		if slot == correct {
			options[slot] = fmt.Sprintf("%d", answer)
			continue
		}
		options[slot] = fmt.Sprintf("%d", distractors[d])
		d++
	}
	return options, correct
}

func questionID(t models.QuestionType, subType string, level models.Level, diff models.Difficulty, i int) string {
	return fmt.Sprintf("%s-%s-%s-%s-%03d", t, subType, level, diff, i)
}
