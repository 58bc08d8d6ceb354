package service

import (
	"fmt"
	"math/rand"
	"testing"

	"cogniprep/internal/models"
	"cogniprep/internal/repository"
)

func testCorpus(level models.Level, perSubType int) []models.QuestionRecord {
	var records []models.QuestionRecord
	difficulties := []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard}
	for _, qt := range models.AllQuestionTypes {
		for _, st := range models.SubTypesFor(qt) {
			for i := 0; i < perSubType; i++ {
				records = append(records, models.QuestionRecord{
					ID:         fmt.Sprintf("%s-%s-%d", st, level, i),
					Type:       qt,
					SubType:    st,
					Level:      level,
					Difficulty: difficulties[i%len(difficulties)],
					Stem:       "stem",
					Options:    [4]string{"a", "b", "c", "d"},
				})
			}
		}
	}
	return records
}

func newTestSelector(t *testing.T, corpus []models.QuestionRecord, seed int64) *PoolSelector {
	t.Helper()
	repo := repository.NewQuestionRepository(corpus)
	return NewPoolSelector(repo, rand.New(rand.NewSource(seed)))
}

func TestSelectReturnsExactCount(t *testing.T) {
	selector := newTestSelector(t, testCorpus(models.Level2, 10), 1)

	tests := []struct {
		name   string
		config models.TestConfiguration
		want   int
	}{
		{"quick", models.TestConfiguration{Kind: models.TestKindQuick, Level: models.Level2}, 10},
		{"standard", models.TestConfiguration{Kind: models.TestKindStandard, Level: models.Level2}, 40},
		{"full mock level 2", models.TestConfiguration{Kind: models.TestKindFull, Level: models.Level2}, 154},
		{"custom", models.TestConfiguration{Kind: models.TestKindCustom, Level: models.Level2, QuestionCount: 7}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := selector.Select(tt.config)
			if err != nil {
				t.Fatalf("Select() error: %v", err)
			}
			if len(qs) != tt.want {
				t.Errorf("Select() returned %d questions, want %d", len(qs), tt.want)
			}
		})
	}
}

func TestSelectZeroCount(t *testing.T) {
	selector := newTestSelector(t, testCorpus(models.Level2, 10), 1)

	qs, err := selector.Select(models.TestConfiguration{
		Kind:          models.TestKindCustom,
		Level:         models.Level2,
		QuestionCount: 0,
	})
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if len(qs) != 0 {
		t.Errorf("Zero-question request returned %d questions", len(qs))
	}
}

func TestSelectPadsSmallPool(t *testing.T) {
	// 90 questions total per level corpus; a level-3 full mock needs 176
	corpus := testCorpus(models.Level3, 10)
	selector := newTestSelector(t, corpus, 1)

	qs, err := selector.Select(models.TestConfiguration{Kind: models.TestKindFull, Level: models.Level3})
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if len(qs) != 176 {
		t.Fatalf("Select() returned %d questions, want 176", len(qs))
	}

	// Padding means duplicates, and every id must come from the corpus
	valid := make(map[string]bool, len(corpus))
	for _, q := range corpus {
		valid[q.ID] = true
	}
	counts := make(map[string]int)
	for _, q := range qs {
		if !valid[q.ID] {
			t.Errorf("Question %s is not from the corpus", q.ID)
		}
		counts[q.ID]++
	}
	duplicated := false
	for _, n := range counts {
		if n > 1 {
			duplicated = true
			break
		}
	}
	if !duplicated {
		t.Error("Expected duplicates when padding past the pool size")
	}
}

func TestSelectHonorsTypeFilter(t *testing.T) {
	selector := newTestSelector(t, testCorpus(models.Level2, 10), 1)

	qs, err := selector.Select(models.TestConfiguration{
		Kind:          models.TestKindCustom,
		Level:         models.Level2,
		QuestionCount: 20,
		Types:         []models.QuestionType{models.TypeQuantitative},
	})
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	for _, q := range qs {
		if q.Type != models.TypeQuantitative {
			t.Errorf("Question %s has type %s, want quantitative only", q.ID, q.Type)
		}
	}
}

func TestSelectDeterministicWithSeed(t *testing.T) {
	corpus := testCorpus(models.Level2, 10)
	config := models.TestConfiguration{Kind: models.TestKindCustom, Level: models.Level2, QuestionCount: 15}

	a, err := newTestSelector(t, corpus, 42).Select(config)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	b, err := newTestSelector(t, corpus, 42).Select(config)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}

	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("Same seed produced different orders at index %d: %s vs %s", i, a[i].ID, b[i].ID)
		}
	}
}

func TestSelectShuffles(t *testing.T) {
	corpus := testCorpus(models.Level2, 10)
	config := models.TestConfiguration{Kind: models.TestKindCustom, Level: models.Level2, QuestionCount: 30}

	a, err := newTestSelector(t, corpus, 1).Select(config)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	b, err := newTestSelector(t, corpus, 2).Select(config)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}

	same := true
	for i := range a {
		if a[i].ID != b[i].ID {
			same = false
			break
		}
	}
	if same {
		t.Error("Different seeds produced identical orders; shuffle looks broken")
	}
}
