package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/authz"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notification"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// ReplyService governs the ticket reply workflow: the closed-ticket gate
// on adds, operator-only removal, and author notification with the
// self-reply suppression rule.
type ReplyService struct {
	tickets    repository.TicketRepository
	replies    repository.TicketReplyRepository
	statuses   repository.StatusRepository
	users      repository.UserRepository
	policy     *authz.Policy
	gateway    notification.Gateway
	dispatcher events.Dispatcher
}

// ReplyDependencies bundles collaborators for the reply service.
type ReplyDependencies struct {
	TicketRepo repository.TicketRepository
	ReplyRepo  repository.TicketReplyRepository
	StatusRepo repository.StatusRepository
	UserRepo   repository.UserRepository
	Policy     *authz.Policy
	Gateway    notification.Gateway
	Dispatcher events.Dispatcher
}

// NewReplyService constructs the service.
func NewReplyService(deps ReplyDependencies) *ReplyService {
	return &ReplyService{
		tickets:    deps.TicketRepo,
		replies:    deps.ReplyRepo,
		statuses:   deps.StatusRepo,
		users:      deps.UserRepo,
		policy:     deps.Policy,
		gateway:    deps.Gateway,
		dispatcher: deps.Dispatcher,
	}
}

// AddReply appends a reply to an open ticket. The closed-ticket gate
// holds for everyone, operators included; only a status change reopens
// the thread. The ticket author is notified unless they wrote the reply
// themselves.
func (s *ReplyService) AddReply(ctx context.Context, ticketID int64, content string, principal authz.Principal) (*domain.TicketReply, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", ticketID)
	}
	status, err := s.statuses.GetByID(ctx, ticket.StatusID)
	if err != nil {
		return nil, util.MapError(err)
	}
	if err := s.policy.CanReply(principal, ticket, status); err != nil {
		return nil, err
	}

	reply := &domain.TicketReply{
		TicketID: ticket.ID,
		UserID:   principal.UserID,
		Content:  strings.TrimSpace(content),
	}
	if err := s.replies.Create(ctx, reply); err != nil {
		return nil, util.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketReplyAdded,
		TicketID: ticket.ID,
		ActorID:  principal.UserID,
		Payload: events.TicketReplyAddedPayload{
			ReplyID:      reply.ID,
			AuthorUserID: reply.UserID,
		},
	})

	// Author replying to their own ticket stays silent.
	if ticket.UserID == principal.UserID {
		return reply, nil
	}
	author, err := s.users.GetByID(ctx, ticket.UserID)
	if err != nil {
		return reply, util.NewNotificationFailed(err)
	}
	if err := s.gateway.Notify(ctx, author.Email, notification.TemplateReplyAdded, notification.Fields{
		"recipient_name": author.Name,
		"ticket_title":   ticket.Title,
		"author":         principal.Username,
		"content":        reply.Content,
	}); err != nil {
		return reply, util.NewNotificationFailed(err)
	}
	return reply, nil
}

// DeleteReply removes a reply. Replies are managed by support staff, so
// this is operator-or-above with no ownership check.
func (s *ReplyService) DeleteReply(ctx context.Context, replyID int64, principal authz.Principal) error {
	if err := s.policy.CanDeleteReply(principal); err != nil {
		return err
	}
	reply, err := s.replies.GetByID(ctx, replyID)
	if err != nil {
		return notFoundOr(err, "ticket reply", replyID)
	}
	if err := s.replies.Delete(ctx, reply.ID); err != nil {
		return util.MapError(err)
	}
	return nil
}

func (s *ReplyService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
