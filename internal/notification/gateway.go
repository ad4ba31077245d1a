// Package notification delivers best-effort emails to ticket authors.
// Delivery is an attached effect of a mutation, never a gate: callers
// persist first and surface a send failure as a distinct condition.
package notification

import (
	"context"
	"fmt"
)

// Template keys understood by the gateway.
const (
	TemplateStatusChanged = "ticket-status-changed"
	TemplateReplyAdded    = "ticket-reply-added"
)

// Fields carries template context values.
type Fields map[string]string

// Gateway sends one notification to one recipient.
type Gateway interface {
	Notify(ctx context.Context, recipientEmail, templateKey string, fields Fields) error
}

// render turns a template key and its fields into a subject and body.
func render(templateKey string, fields Fields) (subject, body string, err error) {
	switch templateKey {
	case TemplateStatusChanged:
		subject = fmt.Sprintf("Ticket %q status changed", fields["ticket_title"])
		body = fmt.Sprintf(
			"Hello %s,\n\nthe status of your ticket %q changed from %q to %q.\n",
			fields["recipient_name"], fields["ticket_title"], fields["old_status"], fields["new_status"])
	case TemplateReplyAdded:
		subject = fmt.Sprintf("New reply on ticket %q", fields["ticket_title"])
		body = fmt.Sprintf(
			"Hello %s,\n\n%s replied to your ticket %q:\n\n%s\n",
			fields["recipient_name"], fields["author"], fields["ticket_title"], fields["content"])
	default:
		return "", "", fmt.Errorf("unknown notification template %q", templateKey)
	}
	return subject, body, nil
}
