package service

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/vhvplatform/go-clinic-lifecycle/internal/metrics"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/shared/logger"
)

// EmailConfig holds email service configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// EmailService sends HTML email via SMTP
type EmailService struct {
	config EmailConfig
	log    *logger.Logger
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig, log *logger.Logger) *EmailService {
	return &EmailService{
		config: config,
		log:    log,
	}
}

// Send sends one HTML email
func (s *EmailService) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.sendSMTPEmail(to, subject, htmlBody); err != nil {
		metrics.EmailFailures.Inc()
		s.log.Error("Failed to send email", "error", err, "recipient", to)
		return err
	}

	metrics.EmailsSent.Inc()
	return nil
}

// buildMessage assembles the raw SMTP message
func (s *EmailService) buildMessage(to, subject, body string) string {
	from := s.config.FromEmail
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	}

	return fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s",
		from, to, subject, body)
}

// sendSMTPEmail sends an email via SMTP
func (s *EmailService) sendSMTPEmail(to, subject, body string) error {
	message := s.buildMessage(to, subject, body)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	// Use implicit TLS if port is 465
	if s.config.SMTPPort == 465 {
		tlsConfig := &tls.Config{
			ServerName: s.config.SMTPHost,
		}

		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.SMTPHost)
		if err != nil {
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
		defer client.Quit()

		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}

		if err = client.Mail(s.config.FromEmail); err != nil {
			return fmt.Errorf("failed to set sender: %w", err)
		}

		if err = client.Rcpt(to); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("failed to get data writer: %w", err)
		}

		if _, err = w.Write([]byte(message)); err != nil {
			return fmt.Errorf("failed to write message: %w", err)
		}

		return w.Close()
	}

	// Use STARTTLS for other ports
	return smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, []byte(message))
}
