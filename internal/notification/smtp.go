package notification

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/spec-kit/helpdesk/internal/config"
)

// SMTPGateway sends notifications over SMTP via gomail.
type SMTPGateway struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPGateway builds the gateway from SMTP configuration.
func NewSMTPGateway(cfg config.SMTPConfig) *SMTPGateway {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPGateway{cfg: cfg, dialer: dialer}
}

// Notify renders the template and sends a single message.
func (g *SMTPGateway) Notify(ctx context.Context, recipientEmail, templateKey string, fields Fields) error {
	subject, body, err := render(templateKey, fields)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", g.cfg.From)
	msg.SetHeader("To", recipientEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := g.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send %s to %s: %w", templateKey, recipientEmail, err)
	}
	return nil
}
