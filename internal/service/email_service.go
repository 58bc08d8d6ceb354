package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"cogniprep/internal/models"
)

// EmailService sends guardian notifications via Amazon SES
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
	debug     bool
}

// NewEmailService creates a new email service. An empty fromEmail
// yields a disabled service that silently skips every send.
func NewEmailService(awsRegion, fromEmail, fromName string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &EmailService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		debug:     debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendGoalAchievedEmail congratulates a guardian when the profile hits
// its weekly question goal.
func (s *EmailService) SendGoalAchievedEmail(ctx context.Context, profile *models.Profile, progress *models.UserProgress) error {
	if !s.enabled || profile.GuardianEmail == "" {
		if s.debug {
			log.Printf("[DEBUG] Skipping goal email for profile %d (disabled or no guardian email)", profile.ID)
		}
		return nil
	}

	subject := fmt.Sprintf("%s reached this week's practice goal!", profile.Name)
	textBody := fmt.Sprintf(`Hi,

%s just reached the weekly goal of %d practice questions. The current daily streak is %d days.

Keep up the great work!

---
This is an automated email from CogniPrep. Please do not reply.
`, profile.Name, progress.WeeklyGoal, progress.CurrentStreak)

	htmlBody := fmt.Sprintf(`<html><body>
<p>Hi,</p>
<p><strong>%s</strong> just reached the weekly goal of <strong>%d</strong> practice questions.
The current daily streak is <strong>%d</strong> days.</p>
<p>Keep up the great work!</p>
<p style="font-size:12px;color:#666;">This is an automated email from CogniPrep. Please do not reply.</p>
</body></html>`, profile.Name, progress.WeeklyGoal, progress.CurrentStreak)

	return s.sendEmail(ctx, profile.GuardianEmail, subject, htmlBody, textBody)
}

// SendWeeklySummary reports the week's activity and the current weak
// areas to the guardian.
func (s *EmailService) SendWeeklySummary(ctx context.Context, profile *models.Profile, progress *models.UserProgress, weakAreas []models.WeakArea) error {
	if !s.enabled || profile.GuardianEmail == "" {
		if s.debug {
			log.Printf("[DEBUG] Skipping weekly summary for profile %d (disabled or no guardian email)", profile.ID)
		}
		return nil
	}

	var weakText strings.Builder
	var weakHTML strings.Builder
	if len(weakAreas) == 0 {
		weakText.WriteString("No weak areas detected this week.\n")
		weakHTML.WriteString("<p>No weak areas detected this week.</p>")
	} else {
		weakText.WriteString("Areas that could use more practice:\n")
		weakHTML.WriteString("<p>Areas that could use more practice:</p><ul>")
		for _, wa := range weakAreas {
			weakText.WriteString(fmt.Sprintf("- %s: averaging %.0f%% (%s)\n", wa.Title, wa.AverageScore, wa.Severity))
			weakHTML.WriteString(fmt.Sprintf("<li><strong>%s</strong>: averaging %.0f%% (%s)</li>", wa.Title, wa.AverageScore, wa.Severity))
		}
		weakHTML.WriteString("</ul>")
	}

	subject := fmt.Sprintf("Weekly practice summary for %s", profile.Name)
	textBody := fmt.Sprintf(`Hi,

Here is this week's summary for %s:

- Questions answered this week: %d of %d goal
- Current daily streak: %d days (longest: %d)
- Best test score so far: %.0f%%

%s
---
This is an automated email from CogniPrep. Please do not reply.
`, profile.Name, progress.WeeklyQuestions, progress.WeeklyGoal,
		progress.CurrentStreak, progress.LongestStreak, progress.BestPercentage, weakText.String())

	htmlBody := fmt.Sprintf(`<html><body>
<p>Hi,</p>
<p>Here is this week's summary for <strong>%s</strong>:</p>
<ul>
<li>Questions answered this week: <strong>%d</strong> of %d goal</li>
<li>Current daily streak: <strong>%d</strong> days (longest: %d)</li>
<li>Best test score so far: <strong>%.0f%%</strong></li>
</ul>
%s
<p style="font-size:12px;color:#666;">This is an automated email from CogniPrep. Please do not reply.</p>
</body></html>`, profile.Name, progress.WeeklyQuestions, progress.WeeklyGoal,
		progress.CurrentStreak, progress.LongestStreak, progress.BestPercentage, weakHTML.String())

	return s.sendEmail(ctx, profile.GuardianEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}
	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message id: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
