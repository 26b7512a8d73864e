package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"

	"fitai-backend/pkg/logging"
)

var ErrNotConfigured = errors.New("mailer not configured")

// Mailer sends transactional email
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) (string, error)
	// SendAsync sends in the background and only logs the outcome
	SendAsync(to, subject, html string)
}

// emailSender is the part of the Resend client the mailer uses
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type resendMailer struct {
	emails  emailSender
	from    string
	timeout time.Duration
}

// NewResendMailer creates a Mailer backed by Resend. An empty API key yields a
// mailer that logs and drops every message.
func NewResendMailer(apiKey, from string) Mailer {
	if apiKey == "" {
		return &resendMailer{from: from, timeout: 10 * time.Second}
	}
	client := resend.NewClient(apiKey)
	return &resendMailer{emails: client.Emails, from: from, timeout: 10 * time.Second}
}

func (m *resendMailer) Send(ctx context.Context, to, subject, html string) (string, error) {
	if m.emails == nil {
		logging.Component("mailer").Warn().Str("to", to).Str("subject", subject).Msg("RESEND_API_KEY not set, email dropped")
		return "", ErrNotConfigured
	}
	if to == "" {
		return "", errors.New("recipient is required")
	}

	sent, err := m.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return "", fmt.Errorf("resend send: %w", err)
	}
	return sent.Id, nil
}

func (m *resendMailer) SendAsync(to, subject, html string) {
	go func() {
		log := logging.Component("mailer")
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		id, err := m.Send(ctx, to, subject, html)
		if err != nil {
			if !errors.Is(err, ErrNotConfigured) {
				log.Error().Err(err).Str("subject", subject).Msg("failed to send email")
			}
			return
		}
		log.Info().Str("email_id", id).Str("subject", subject).Msg("email sent")
	}()
}
