package notification

import (
	"context"

	"go.uber.org/zap"
)

// LogGateway writes notifications to the log instead of sending mail.
// Used in development when no SMTP host is configured.
type LogGateway struct {
	logger *zap.Logger
}

// NewLogGateway builds the gateway.
func NewLogGateway(logger *zap.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

// Notify logs the rendered message.
func (g *LogGateway) Notify(ctx context.Context, recipientEmail, templateKey string, fields Fields) error {
	subject, body, err := render(templateKey, fields)
	if err != nil {
		return err
	}
	g.logger.Info("notification",
		zap.String("to", recipientEmail),
		zap.String("template", templateKey),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}
