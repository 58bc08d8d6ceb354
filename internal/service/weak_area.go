package service

import (
	"fmt"
	"sort"
	"strings"

	"cogniprep/internal/models"
)

// Attempt thresholds and score cutoffs per diagnostic dimension. The
// battery dimension reports on any history at all; the finer dimensions
// need a minimum sample before they are trusted.
const (
	typeWeakThreshold       = 80.0
	subTypeWeakThreshold    = 75.0
	subTypeMinAttempts      = 2
	difficultyWeakThreshold = 70.0
	difficultyMinAttempts   = 3
)

type scoreAccumulator struct {
	sum   float64
	count int
}

func (a *scoreAccumulator) add(pct float64) {
	a.sum += pct
	a.count++
}

func (a *scoreAccumulator) mean() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

// AnalyzeWeakAreas derives weak-area diagnostics from a profile's
// result history. Test results contribute per-battery percentages;
// practice results contribute to whichever of the three dimensions
// their labels identify. The output is ordered most severe first, ties
// broken by lower average, and the ordering is stable.
func AnalyzeWeakAreas(tests []models.TestResult, practice []models.PracticeResult) []models.WeakArea {
	byType := make(map[models.QuestionType]*scoreAccumulator)
	bySubType := make(map[string]*scoreAccumulator)
	subTypeOwner := make(map[string]models.QuestionType)
	byDifficulty := make(map[models.Difficulty]*scoreAccumulator)

	accumulate := func(m map[models.QuestionType]*scoreAccumulator, k models.QuestionType, pct float64) {
		if m[k] == nil {
			m[k] = &scoreAccumulator{}
		}
		m[k].add(pct)
	}

	for i := range tests {
		t := &tests[i]
		for _, qt := range models.AllQuestionTypes {
			if cat := t.CategoryFor(qt); cat.Total > 0 {
				accumulate(byType, qt, cat.Percentage())
			}
		}
	}

	for i := range practice {
		p := &practice[i]
		if p.Total == 0 {
			continue
		}
		pct := p.Percentage()
		if p.Type != "" {
			accumulate(byType, p.Type, pct)
		}
		if p.SubType != "" {
			if bySubType[p.SubType] == nil {
				bySubType[p.SubType] = &scoreAccumulator{}
			}
			bySubType[p.SubType].add(pct)
			subTypeOwner[p.SubType] = p.Type
		}
		if p.Difficulty != "" {
			if byDifficulty[p.Difficulty] == nil {
				byDifficulty[p.Difficulty] = &scoreAccumulator{}
			}
			byDifficulty[p.Difficulty].add(pct)
		}
	}

	var areas []models.WeakArea

	for _, qt := range models.AllQuestionTypes {
		acc := byType[qt]
		if acc == nil || acc.mean() >= typeWeakThreshold {
			continue
		}
		areas = append(areas, models.WeakArea{
			Type:         qt,
			Title:        typeTitle(qt),
			Description:  fmt.Sprintf("Averaging %.0f%% across %d attempts in the %s battery.", acc.mean(), acc.count, typeTitle(qt)),
			AverageScore: acc.mean(),
			SampleCount:  acc.count,
			Severity:     models.SeverityFor(acc.mean()),
		})
	}

	// Iterate sub-types in canonical battery order for deterministic output
	for _, qt := range models.AllQuestionTypes {
		for _, st := range models.SubTypesFor(qt) {
			acc := bySubType[st]
			if acc == nil || acc.count < subTypeMinAttempts || acc.mean() >= subTypeWeakThreshold {
				continue
			}
			areas = append(areas, models.WeakArea{
				Type:         subTypeOwner[st],
				SubType:      st,
				Title:        humanizeTag(st),
				Description:  fmt.Sprintf("Averaging %.0f%% over %d %s practice sessions.", acc.mean(), acc.count, humanizeTag(st)),
				AverageScore: acc.mean(),
				SampleCount:  acc.count,
				Severity:     models.SeverityFor(acc.mean()),
			})
		}
	}

	for _, d := range []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
		acc := byDifficulty[d]
		if acc == nil || acc.count < difficultyMinAttempts || acc.mean() >= difficultyWeakThreshold {
			continue
		}
		areas = append(areas, models.WeakArea{
			Difficulty:   d,
			Title:        humanizeTag(string(d)) + " difficulty",
			Description:  fmt.Sprintf("Averaging %.0f%% on %s questions over %d sessions.", acc.mean(), d, acc.count),
			AverageScore: acc.mean(),
			SampleCount:  acc.count,
			Severity:     models.SeverityFor(acc.mean()),
		})
	}

	sort.SliceStable(areas, func(i, j int) bool {
		if areas[i].Severity != areas[j].Severity {
			return areas[i].Severity < areas[j].Severity
		}
		return areas[i].AverageScore < areas[j].AverageScore
	})
	return areas
}

func typeTitle(t models.QuestionType) string {
	switch t {
	case models.TypeVerbal:
		return "Verbal Reasoning"
	case models.TypeQuantitative:
		return "Quantitative Reasoning"
	case models.TypeNonVerbal:
		return "Non-Verbal Reasoning"
	}
	return string(t)
}

// humanizeTag turns a snake_case tag into a title-cased label
func humanizeTag(tag string) string {
	words := strings.Split(tag, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
