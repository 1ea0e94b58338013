package email

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations. It stands in for
// the platform's serverless email functions.
type EmailService interface {
	SendVerificationEmail(toEmail, toName, token string) error
	SendAccountDeletionEmail(toEmail, toName string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	BaseURL   string
}

type emailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &emailServiceImpl{config: config, logger: logger}
}

// SendVerificationEmail sends an email with a verification link. When SMTP
// credentials are not configured the token is logged instead, so local
// development can proceed without a mail server.
func (s *emailServiceImpl) SendVerificationEmail(toEmail, toName, token string) error {
	verificationURL := fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", s.config.BaseURL, token)

	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("verificationURL", verificationURL).
			Msg("SMTP credentials not configured, verification email not sent")
		return nil
	}

	subject := "Verify your email address"
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nVerify your college email address to finish setting up your account:\r\n%s\r\n\r\nThe link expires in 24 hours.\r\n",
		toName, verificationURL,
	)

	return s.send(toEmail, subject, body)
}

// SendAccountDeletionEmail confirms a completed account deletion
func (s *emailServiceImpl) SendAccountDeletionEmail(toEmail, toName string) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().Str("toEmail", toEmail).Msg("SMTP credentials not configured, deletion email not sent")
		return nil
	}

	subject := "Your account has been deleted"
	body := fmt.Sprintf("Hello %s,\r\n\r\nYour account and its data have been removed.\r\n", toName)

	return s.send(toEmail, subject, body)
}

func (s *emailServiceImpl) send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.config.FromName, s.config.FromEmail, to, subject, body)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info().Str("to", to).Str("subject", subject).Msg("Email sent")
	return nil
}
