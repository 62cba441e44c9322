package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends transactional email through Amazon SES. When no
// from-address is configured the service is disabled and every send is a
// logged no-op, which keeps local development mail-free.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates an email service from ambient AWS credentials
func NewEmailService(ctx context.Context, region, fromEmail, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: no from-address configured")
		return &EmailService{enabled: false, appBaseURL: appBaseURL}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// IsEnabled reports whether outbound email is configured
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendPasswordResetEmail sends the reset link for a reset ticket
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, to, username, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.appBaseURL, token)

	subject := "Réinitialisation de votre mot de passe Tiakaly"
	textBody := fmt.Sprintf(
		"Bonjour %s,\n\n"+
			"Une demande de réinitialisation de mot de passe a été faite pour votre compte.\n"+
			"Pour choisir un nouveau mot de passe, ouvrez ce lien (valable 1 heure) :\n\n"+
			"%s\n\n"+
			"Si vous n'êtes pas à l'origine de cette demande, ignorez simplement ce message.\n\n"+
			"L'équipe Tiakaly",
		username, resetURL)
	htmlBody := fmt.Sprintf(
		`<p>Bonjour %s,</p>
<p>Une demande de réinitialisation de mot de passe a été faite pour votre compte.</p>
<p><a href="%s">Choisir un nouveau mot de passe</a> (lien valable 1 heure)</p>
<p>Si vous n'êtes pas à l'origine de cette demande, ignorez simplement ce message.</p>
<p>L'équipe Tiakaly</p>`,
		username, resetURL)

	return s.send(ctx, to, subject, textBody, htmlBody)
}

// SendWelcomeEmail greets a newly registered user
func (s *EmailService) SendWelcomeEmail(ctx context.Context, to, username string) error {
	subject := "Bienvenue sur Tiakaly !"
	textBody := fmt.Sprintf(
		"Bonjour %s,\n\n"+
			"Bienvenue sur Tiakaly, le guide des bonnes adresses où manger à Madagascar.\n\n"+
			"Bonne découverte !\nL'équipe Tiakaly",
		username)
	htmlBody := fmt.Sprintf(
		`<p>Bonjour %s,</p>
<p>Bienvenue sur <strong>Tiakaly</strong>, le guide des bonnes adresses où manger à Madagascar.</p>
<p>Bonne découverte !<br>L'équipe Tiakaly</p>`,
		username)

	return s.send(ctx, to, subject, textBody, htmlBody)
}

func (s *EmailService) send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	if !s.enabled {
		log.Printf("Email service disabled, skipping send to %s (%s)", to, subject)
		return nil
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(textBody)},
					Html: &types.Content{Data: aws.String(htmlBody)},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}
