package email

import (
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendPasswordResetEmail(toEmail, toName, resetURL string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendPasswordResetEmail mails the reset link to the user. With no SMTP
// credentials configured the mail is logged instead of sent, which keeps
// local development working without a mail server.
func (s *EmailServiceImpl) SendPasswordResetEmail(toEmail, toName, resetURL string) error {
	subject := "Password Reset Token"
	body := fmt.Sprintf(
		"You are receiving this email because you (or someone else) has requested the reset of a password. "+
			"Please make a PUT request to:\n\n%s", resetURL)

	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Info().
			Str("to", toEmail).
			Str("resetUrl", resetURL).
			Msg("SMTP not configured, logging password reset email instead of sending")
		return nil
	}

	msg := []byte(fmt.Sprintf("From: %s <%s>\r\nTo: %s <%s>\r\nSubject: %s\r\n\r\n%s",
		s.config.FromName, s.config.FromEmail, toName, toEmail, subject, body))

	addr := s.config.Host + ":" + strconv.Itoa(s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{toEmail}, msg); err != nil {
		s.logger.Error().Err(err).Str("to", toEmail).Msg("Failed to send password reset email")
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}
