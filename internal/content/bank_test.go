package content

import (
	"testing"

	"cogniprep/internal/models"
)

func TestBuildCorpusShape(t *testing.T) {
	records := Build()
	if len(records) == 0 {
		t.Fatal("Build() returned an empty corpus")
	}

	perLevel := make(map[models.Level]int)
	seen := make(map[string]bool)
	for _, q := range records {
		if seen[q.ID] {
			t.Errorf("Duplicate question id: %s", q.ID)
		}
		seen[q.ID] = true

		if !q.Type.IsValid() {
			t.Errorf("Question %s has invalid type %q", q.ID, q.Type)
		}
		if !q.Level.IsValid() {
			t.Errorf("Question %s has invalid level %q", q.ID, q.Level)
		}
		if q.SubType == "" {
			t.Errorf("Question %s has no sub-type", q.ID)
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= models.OptionCount {
			t.Errorf("Question %s has correct index %d out of range", q.ID, q.CorrectIndex)
		}
		for i, opt := range q.Options {
			if opt == "" {
				t.Errorf("Question %s has empty option %d", q.ID, i)
			}
		}
		if q.Stem == "" || q.StemAr == "" {
			t.Errorf("Question %s is missing a localized stem", q.ID)
		}
		if q.Synthetic {
			t.Errorf("Question %s from the bank must not be marked synthetic", q.ID)
		}
		perLevel[q.Level]++
	}

	// Each level must cover its full-mock volume without padding
	for _, level := range models.AllLevels {
		if perLevel[level] < models.FullMockQuestionCount(level) {
			t.Errorf("Level %s has %d questions, need at least %d for a full mock",
				level, perLevel[level], models.FullMockQuestionCount(level))
		}
	}
}

func TestBuildCoversEveryCell(t *testing.T) {
	records := Build()

	type cell struct {
		level      models.Level
		subType    string
		difficulty models.Difficulty
	}
	counts := make(map[cell]int)
	for _, q := range records {
		counts[cell{q.Level, q.SubType, q.Difficulty}]++
	}

	difficulties := []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard}
	for _, level := range models.AllLevels {
		for _, qt := range models.AllQuestionTypes {
			for _, st := range models.SubTypesFor(qt) {
				for _, d := range difficulties {
					if counts[cell{level, st, d}] == 0 {
						t.Errorf("No questions for level=%s sub_type=%s difficulty=%s", level, st, d)
					}
				}
			}
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a := Build()
	b := Build()
	if len(a) != len(b) {
		t.Fatalf("Build() sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].CorrectIndex != b[i].CorrectIndex {
			t.Fatalf("Build() is not deterministic at index %d", i)
		}
	}
}
