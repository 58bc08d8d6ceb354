package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cogniprep/internal/models"
	"cogniprep/internal/repository"
)

// ProgressService owns the per-profile progress aggregate and settings.
// The aggregate lives in the blob store and is the single source of
// truth for streaks and goals; the results tables are an append-only
// history used for listing and backup.
type ProgressService struct {
	blobs    *repository.BlobRepository
	results  *repository.ResultRepository
	profiles *repository.ProfileRepository
	email    *EmailService
}

// NewProgressService creates a new progress service. The email service
// may be disabled; notifications are then skipped.
func NewProgressService(blobs *repository.BlobRepository, results *repository.ResultRepository, profiles *repository.ProfileRepository, email *EmailService) *ProgressService {
	return &ProgressService{
		blobs:    blobs,
		results:  results,
		profiles: profiles,
		email:    email,
	}
}

// GetProgress loads a profile's aggregate, returning a fresh one for
// profiles with no recorded activity.
func (s *ProgressService) GetProgress(profileID int64) (*models.UserProgress, error) {
	data, err := s.blobs.Load(repository.ProgressKey(profileID))
	if err != nil {
		return nil, fmt.Errorf("failed to load progress for profile %d: %w", profileID, err)
	}
	if data == nil {
		return models.NewUserProgress(profileID), nil
	}
	var progress models.UserProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("failed to decode progress for profile %d: %w", profileID, err)
	}
	return &progress, nil
}

func (s *ProgressService) saveProgress(progress *models.UserProgress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	return s.blobs.Save(repository.ProgressKey(progress.ProfileID), data)
}

// RecordTestResult folds a scored test into the aggregate and appends
// it to the history table.
func (s *ProgressService) RecordTestResult(res models.TestResult) error {
	progress, err := s.GetProgress(res.ProfileID)
	if err != nil {
		return err
	}
	goalWasReached := progress.WeeklyGoalReached()
	progress.RecordTestResult(res, time.Now())
	if err := s.saveProgress(progress); err != nil {
		return err
	}
	if err := s.results.SaveTestResult(res); err != nil {
		return fmt.Errorf("failed to append test result: %w", err)
	}
	if !goalWasReached && progress.WeeklyGoalReached() {
		s.notifyGoalReached(res.ProfileID, progress)
	}
	return nil
}

// RecordPracticeResult folds a scored practice session into the
// aggregate and appends it to the history table.
func (s *ProgressService) RecordPracticeResult(res models.PracticeResult) error {
	progress, err := s.GetProgress(res.ProfileID)
	if err != nil {
		return err
	}
	goalWasReached := progress.WeeklyGoalReached()
	progress.RecordPracticeResult(res, time.Now())
	if err := s.saveProgress(progress); err != nil {
		return err
	}
	if err := s.results.SavePracticeResult(res); err != nil {
		return fmt.Errorf("failed to append practice result: %w", err)
	}
	if !goalWasReached && progress.WeeklyGoalReached() {
		s.notifyGoalReached(res.ProfileID, progress)
	}
	return nil
}

// notifyGoalReached sends the goal email off the request path; a send
// failure only logs.
func (s *ProgressService) notifyGoalReached(profileID int64, progress *models.UserProgress) {
	if s.email == nil || !s.email.IsEnabled() {
		return
	}
	profile, err := s.profiles.GetProfileByID(profileID)
	if err != nil || profile == nil {
		log.Printf("Warning: cannot load profile %d for goal email: %v", profileID, err)
		return
	}
	snapshot := *progress
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.email.SendGoalAchievedEmail(ctx, profile, &snapshot); err != nil {
			log.Printf("Warning: goal email for profile %d failed: %v", profileID, err)
		}
	}()
}

// WeakAreas recomputes the weak-area diagnostics from the aggregate's
// result history.
func (s *ProgressService) WeakAreas(profileID int64) ([]models.WeakArea, error) {
	progress, err := s.GetProgress(profileID)
	if err != nil {
		return nil, err
	}
	return AnalyzeWeakAreas(progress.TestHistory, progress.PracticeHistory), nil
}

// GetSettings loads a profile's settings, falling back to defaults
func (s *ProgressService) GetSettings(profileID int64) (models.Settings, error) {
	data, err := s.blobs.Load(repository.SettingsKey(profileID))
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings for profile %d: %w", profileID, err)
	}
	if data == nil {
		return models.DefaultSettings(), nil
	}
	var settings models.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return models.Settings{}, fmt.Errorf("failed to decode settings for profile %d: %w", profileID, err)
	}
	return settings, nil
}

// SaveSettings persists a profile's settings. A changed weekly goal is
// mirrored into the progress aggregate so goal checks use it.
func (s *ProgressService) SaveSettings(profileID int64, settings models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.blobs.Save(repository.SettingsKey(profileID), data); err != nil {
		return err
	}

	progress, err := s.GetProgress(profileID)
	if err != nil {
		return err
	}
	if settings.WeeklyGoal > 0 && settings.WeeklyGoal != progress.WeeklyGoal {
		progress.WeeklyGoal = settings.WeeklyGoal
		return s.saveProgress(progress)
	}
	return nil
}

// SendWeeklySummaries mails every profile's guardian the week in
// review. Intended to run on a scheduler; individual failures do not
// stop the batch.
func (s *ProgressService) SendWeeklySummaries(ctx context.Context) error {
	if s.email == nil || !s.email.IsEnabled() {
		return nil
	}
	profiles, err := s.profiles.ListProfiles()
	if err != nil {
		return fmt.Errorf("failed to list profiles for weekly summaries: %w", err)
	}
	for i := range profiles {
		p := &profiles[i]
		if p.GuardianEmail == "" {
			continue
		}
		progress, err := s.GetProgress(p.ID)
		if err != nil {
			log.Printf("Warning: skipping weekly summary for profile %d: %v", p.ID, err)
			continue
		}
		weakAreas := AnalyzeWeakAreas(progress.TestHistory, progress.PracticeHistory)
		if err := s.email.SendWeeklySummary(ctx, p, progress, weakAreas); err != nil {
			log.Printf("Warning: weekly summary for profile %d failed: %v", p.ID, err)
		}
	}
	return nil
}
