package models

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name          string
		config        TestConfiguration
		wantCount     int
		wantTimeLimit time.Duration
	}{
		{
			name:          "quick test",
			config:        TestConfiguration{Kind: TestKindQuick, Timed: true},
			wantCount:     10,
			wantTimeLimit: 10 * time.Minute,
		},
		{
			name:          "standard test",
			config:        TestConfiguration{Kind: TestKindStandard, Timed: true},
			wantCount:     40,
			wantTimeLimit: 30 * time.Minute,
		},
		{
			name:          "full mock level 3",
			config:        TestConfiguration{Kind: TestKindFull, Level: Level3, Timed: true},
			wantCount:     176,
			wantTimeLimit: 72 * time.Minute,
		},
		{
			name:          "full mock level 1",
			config:        TestConfiguration{Kind: TestKindFull, Level: Level1, Timed: true},
			wantCount:     118,
			wantTimeLimit: 60 * time.Minute,
		},
		{
			name:          "custom keeps explicit count",
			config:        TestConfiguration{Kind: TestKindCustom, QuestionCount: 25, Timed: true, TimeLimit: 20 * time.Minute},
			wantCount:     25,
			wantTimeLimit: 20 * time.Minute,
		},
		{
			name:          "negative count clamps to zero",
			config:        TestConfiguration{Kind: TestKindCustom, QuestionCount: -5},
			wantCount:     0,
			wantTimeLimit: 0,
		},
		{
			name:          "untimed zeroes the limit",
			config:        TestConfiguration{Kind: TestKindCustom, QuestionCount: 10, TimeLimit: 30 * time.Minute},
			wantCount:     10,
			wantTimeLimit: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.config.Normalize()
			if got.QuestionCount != tt.wantCount {
				t.Errorf("QuestionCount = %d, want %d", got.QuestionCount, tt.wantCount)
			}
			if got.TimeLimit != tt.wantTimeLimit {
				t.Errorf("TimeLimit = %v, want %v", got.TimeLimit, tt.wantTimeLimit)
			}
			if len(got.Types) == 0 {
				t.Error("Normalize() must default Types to all batteries")
			}
		})
	}
}

func TestTestResultScoring(t *testing.T) {
	tests := []struct {
		name           string
		score, total   int
		wantPercentage float64
		wantGifted     bool
		wantPercentile int
	}{
		{"perfect score caps percentile", 100, 100, 100, true, 99},
		{"gifted threshold exactly", 85, 100, 85, true, 85},
		{"just below gifted", 84, 100, 84, false, 84},
		{"half right", 5, 10, 50, false, 50},
		{"empty test", 0, 0, 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := TestResult{Score: tt.score, TotalQuestions: tt.total}
			if got := r.Percentage(); got != tt.wantPercentage {
				t.Errorf("Percentage() = %v, want %v", got, tt.wantPercentage)
			}
			if got := r.GiftedRange(); got != tt.wantGifted {
				t.Errorf("GiftedRange() = %v, want %v", got, tt.wantGifted)
			}
			if got := r.Percentile(); got != tt.wantPercentile {
				t.Errorf("Percentile() = %v, want %v", got, tt.wantPercentile)
			}
		})
	}
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		avg  float64
		want Severity
	}{
		{0, SeverityCritical},
		{49.9, SeverityCritical},
		{50, SeverityModerate},
		{69.9, SeverityModerate},
		{70, SeverityMinor},
		{79.9, SeverityMinor},
	}
	for _, tt := range tests {
		if got := SeverityFor(tt.avg); got != tt.want {
			t.Errorf("SeverityFor(%v) = %v, want %v", tt.avg, got, tt.want)
		}
	}
}

func TestTouchActivityStreaks(t *testing.T) {
	day := func(n int) time.Time {
		return time.Date(2026, 3, n, 12, 0, 0, 0, time.UTC)
	}

	p := NewUserProgress(1)

	p.TouchActivity(day(2), 10)
	if p.CurrentStreak != 1 {
		t.Fatalf("First activity: streak = %d, want 1", p.CurrentStreak)
	}

	// Same day does not extend the streak
	p.TouchActivity(day(2), 5)
	if p.CurrentStreak != 1 {
		t.Errorf("Same day: streak = %d, want 1", p.CurrentStreak)
	}

	// Consecutive days extend it
	p.TouchActivity(day(3), 5)
	p.TouchActivity(day(4), 5)
	if p.CurrentStreak != 3 {
		t.Errorf("Consecutive days: streak = %d, want 3", p.CurrentStreak)
	}
	if p.LongestStreak != 3 {
		t.Errorf("LongestStreak = %d, want 3", p.LongestStreak)
	}

	// A gap resets the current streak but not the longest
	p.TouchActivity(day(10), 5)
	if p.CurrentStreak != 1 {
		t.Errorf("After gap: streak = %d, want 1", p.CurrentStreak)
	}
	if p.LongestStreak != 3 {
		t.Errorf("After gap: longest = %d, want 3", p.LongestStreak)
	}
}

func TestWeeklyQuestionsResetAtISOWeek(t *testing.T) {
	p := NewUserProgress(1)

	// 2026-03-06 is a Friday, 2026-03-09 the following Monday
	friday := time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	p.TouchActivity(friday, 30)
	p.TouchActivity(saturday, 20)
	if p.WeeklyQuestions != 50 {
		t.Fatalf("Same week: WeeklyQuestions = %d, want 50", p.WeeklyQuestions)
	}

	p.TouchActivity(monday, 10)
	if p.WeeklyQuestions != 10 {
		t.Errorf("New ISO week: WeeklyQuestions = %d, want 10", p.WeeklyQuestions)
	}
}

func TestWeeklyGoalReached(t *testing.T) {
	p := NewUserProgress(1)
	p.WeeklyGoal = 20
	p.WeeklyQuestions = 19
	if p.WeeklyGoalReached() {
		t.Error("Goal should not be reached at 19/20")
	}
	p.WeeklyQuestions = 20
	if !p.WeeklyGoalReached() {
		t.Error("Goal should be reached at 20/20")
	}
}

func TestSessionKindNavigation(t *testing.T) {
	if SessionKindFullMock.AllowsBackwardNavigation() {
		t.Error("Full mock must not allow backward navigation")
	}
	if !SessionKindPractice.AllowsBackwardNavigation() {
		t.Error("Practice must allow backward navigation")
	}
	if !SessionKindTypeRestricted.AllowsBackwardNavigation() {
		t.Error("Type restricted practice must allow backward navigation")
	}
}

func TestQuestionLocalization(t *testing.T) {
	q := QuestionRecord{
		Stem:      "english stem",
		StemAr:    "arabic stem",
		Options:   [4]string{"a", "b", "c", "d"},
		OptionsAr: [4]string{"aa", "bb", "cc", "dd"},
	}
	if got := q.StemIn("ar"); got != "arabic stem" {
		t.Errorf("StemIn(ar) = %q", got)
	}
	if got := q.StemIn("en"); got != "english stem" {
		t.Errorf("StemIn(en) = %q", got)
	}

	// Missing translation falls back to English
	q.StemAr = ""
	if got := q.StemIn("ar"); got != "english stem" {
		t.Errorf("StemIn(ar) fallback = %q", got)
	}
}
