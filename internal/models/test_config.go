package models

import "time"

// TestKind selects the overall shape of a requested test
type TestKind string

const (
	TestKindQuick    TestKind = "quick"
	TestKindStandard TestKind = "standard"
	TestKindFull     TestKind = "full"
	TestKindCustom   TestKind = "custom"
)

// Per-level full-mock volumes and time limits
var fullMockQuestionCounts = map[Level]int{
	Level1: 118,
	Level2: 154,
	Level3: 176,
}

var fullMockTimeLimits = map[Level]time.Duration{
	Level1: 60 * time.Minute,
	Level2: 66 * time.Minute,
	Level3: 72 * time.Minute,
}

// FullMockQuestionCount returns the default full-mock volume for a level
func FullMockQuestionCount(level Level) int {
	return fullMockQuestionCounts[level]
}

// FullMockTimeLimit returns the default full-mock time limit for a level
func FullMockTimeLimit(level Level) time.Duration {
	return fullMockTimeLimits[level]
}

// TestConfiguration captures a user's request for a test. It is
// immutable once handed to the pool selector and session engine.
type TestConfiguration struct {
	Level         Level          `json:"level"`
	Kind          TestKind       `json:"kind"`
	QuestionCount int            `json:"question_count"`
	TimeLimit     time.Duration  `json:"time_limit"`
	Timed         bool           `json:"timed"`
	Types         []QuestionType `json:"types"`
	SubType       string         `json:"sub_type,omitempty"`
	Difficulty    Difficulty     `json:"difficulty,omitempty"`
	// AutoSubmit controls timeout behavior: when true the session
	// completes itself as the clock hits zero, otherwise it waits for
	// an explicit submit with the timer stopped
	AutoSubmit bool `json:"auto_submit"`
}

// Normalize fills in kind-derived defaults and guarantees a positive
// question count and a non-empty type filter.
func (c TestConfiguration) Normalize() TestConfiguration {
	switch c.Kind {
	case TestKindQuick:
		c.QuestionCount = 10
		c.TimeLimit = 10 * time.Minute
	case TestKindStandard:
		c.QuestionCount = 40
		c.TimeLimit = 30 * time.Minute
	case TestKindFull:
		c.QuestionCount = FullMockQuestionCount(c.Level)
		c.TimeLimit = FullMockTimeLimit(c.Level)
	}

	if c.QuestionCount < 0 {
		c.QuestionCount = 0
	}
	if len(c.Types) == 0 {
		c.Types = append([]QuestionType(nil), AllQuestionTypes...)
	}
	if !c.Timed {
		c.TimeLimit = 0
	}
	return c
}

// TimeLimitSeconds returns the time limit in whole seconds, 0 for untimed
func (c TestConfiguration) TimeLimitSeconds() int {
	if !c.Timed {
		return 0
	}
	return int(c.TimeLimit / time.Second)
}
