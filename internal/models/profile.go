package models

import "time"

// Profile is a test-taker account. Profiles authenticate with a short
// generated PIN and get a kid-friendly generated handle.
type Profile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Handle   string `json:"handle"`
	PINHash  string `json:"-"`
	Level    Level  `json:"level"`
	Language string `json:"language"`
	// GuardianEmail receives the weekly summary and goal emails;
	// empty disables them for the profile
	GuardianEmail string    `json:"guardian_email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Settings is the per-profile app settings blob. The engine only reads
// DefaultAutoSubmit and Language; the rest belongs to the presentation
// layer and round-trips through the blob store untouched.
type Settings struct {
	Language          string `json:"language"`
	DefaultAutoSubmit bool   `json:"default_auto_submit"`
	SoundEnabled      bool   `json:"sound_enabled"`
	HapticsEnabled    bool   `json:"haptics_enabled"`
	WeeklyGoal        int    `json:"weekly_goal"`
}

// DefaultSettings returns the settings used before a profile saves any
func DefaultSettings() Settings {
	return Settings{
		Language:          "en",
		DefaultAutoSubmit: true,
		SoundEnabled:      true,
		HapticsEnabled:    true,
		WeeklyGoal:        DefaultWeeklyGoal,
	}
}
