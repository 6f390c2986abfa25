package email

import (
	"context"
	"fmt"
	"time"

	"larder/internal/config"
	"larder/internal/logger"
	"larder/internal/models"

	"github.com/mailgun/mailgun-go/v5"
)

// Service sends transactional mail through Mailgun. It stays disabled (and
// every send fails fast) unless a domain and API key are configured.
type Service struct {
	client      mailgun.Mailgun
	domain      string
	senderEmail string
	senderName  string
	enabled     bool
}

func NewService(cfg *config.Config) *Service {
	enabled := cfg.MailgunDomain != "" && cfg.MailgunAPIKey != ""

	var client mailgun.Mailgun
	if enabled {
		client = mailgun.NewMailgun(cfg.MailgunAPIKey)
	}

	return &Service{
		client:      client,
		domain:      cfg.MailgunDomain,
		senderEmail: cfg.MailgunSenderEmail,
		senderName:  cfg.MailgunSenderName,
		enabled:     enabled,
	}
}

func (s *Service) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail greets a freshly registered user. The recipient address
// is supplied by the caller, since accounts are keyed by username alone.
func (s *Service) SendWelcomeEmail(user *models.User, recipient string) error {
	if !s.enabled {
		return fmt.Errorf("email service is not configured")
	}

	subject := fmt.Sprintf("Welcome to Larder, %s!", user.Username)
	htmlBody := s.generateWelcomeHTML(user)
	textBody := s.generateWelcomeText(user)

	message := mailgun.NewMessage(
		s.domain,
		fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail),
		subject,
		textBody,
		recipient,
	)
	message.SetHTML(htmlBody)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	logger.Info("Welcome email sent", "username", user.Username, "message_id", resp)
	return nil
}
