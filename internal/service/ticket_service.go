package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/authz"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notification"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// TicketService orchestrates the ticket lifecycle: create, update, status
// change, image management and deletion. Every mutation asks the policy
// first and resolves foreign references before any write.
type TicketService struct {
	tickets    repository.TicketRepository
	replies    repository.TicketReplyRepository
	images     repository.ImageRepository
	statuses   repository.StatusRepository
	categories repository.CategoryRepository
	priorities repository.PriorityRepository
	software   repository.SoftwareRepository
	users      repository.UserRepository
	tx         repository.Transactor
	policy     *authz.Policy
	gateway    notification.Gateway
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	ReplyRepo    repository.TicketReplyRepository
	ImageRepo    repository.ImageRepository
	StatusRepo   repository.StatusRepository
	CategoryRepo repository.CategoryRepository
	PriorityRepo repository.PriorityRepository
	SoftwareRepo repository.SoftwareRepository
	UserRepo     repository.UserRepository
	Tx           repository.Transactor
	Policy       *authz.Policy
	Gateway      notification.Gateway
	Dispatcher   events.Dispatcher
}

// TicketCreateInput describes the ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Version     string
	CategoryID  int64
	PriorityID  int64
	SoftwareID  int64
	StatusID    *int64
	Images      []ImageInput
}

// TicketUpdateInput describes an edit to an existing ticket. Author,
// creation date, images and replies are never touched by an update.
type TicketUpdateInput struct {
	Title       string
	Description string
	Version     string
	CategoryID  int64
	PriorityID  int64
	SoftwareID  int64
}

// ImageInput carries one uploaded file.
type ImageInput struct {
	FileName string
	Content  []byte
}

// TicketDetail is the full projection returned to authorized readers.
type TicketDetail struct {
	Ticket   *domain.Ticket
	Status   *domain.Status
	Category *domain.Category
	Priority *domain.Priority
	Software *domain.Software
	Author   *domain.User
	Replies  []domain.TicketReply
	Images   []domain.Image
}

// TicketFilter re-exports the repository filter for callers.
type TicketFilter = repository.TicketFilter

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		replies:    deps.ReplyRepo,
		images:     deps.ImageRepo,
		statuses:   deps.StatusRepo,
		categories: deps.CategoryRepo,
		priorities: deps.PriorityRepo,
		software:   deps.SoftwareRepo,
		users:      deps.UserRepo,
		tx:         deps.Tx,
		policy:     deps.Policy,
		gateway:    deps.Gateway,
		dispatcher: deps.Dispatcher,
	}
}

// Create files a new ticket for the principal. References are resolved
// before any write; the status falls back to the system default when the
// input does not name one. The ticket and its images persist atomically.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput, principal authz.Principal) (*domain.Ticket, error) {
	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		return nil, notFoundOr(err, "category", input.CategoryID)
	}
	if _, err := s.priorities.GetByID(ctx, input.PriorityID); err != nil {
		return nil, notFoundOr(err, "priority", input.PriorityID)
	}
	if _, err := s.software.GetByID(ctx, input.SoftwareID); err != nil {
		return nil, notFoundOr(err, "software", input.SoftwareID)
	}

	var status *domain.Status
	var err error
	if input.StatusID != nil {
		status, err = s.statuses.GetByID(ctx, *input.StatusID)
		if err != nil {
			return nil, notFoundOr(err, "status", *input.StatusID)
		}
	} else {
		status, err = s.statuses.GetDefault(ctx)
		if err != nil {
			return nil, notFoundOr(err, "default status", nil)
		}
	}

	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Version:     strings.TrimSpace(input.Version),
		CategoryID:  input.CategoryID,
		PriorityID:  input.PriorityID,
		StatusID:    status.ID,
		SoftwareID:  input.SoftwareID,
		UserID:      principal.UserID,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tickets.Create(ctx, ticket); err != nil {
			return err
		}
		for _, file := range input.Images {
			image := &domain.Image{
				TicketID: ticket.ID,
				FileName: file.FileName,
				Content:  file.Content,
			}
			if err := s.images.Create(ctx, image); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, util.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  principal.UserID,
		Payload: events.TicketCreatedPayload{
			Title:      ticket.Title,
			CategoryID: ticket.CategoryID,
			PriorityID: ticket.PriorityID,
			SoftwareID: ticket.SoftwareID,
			StatusID:   ticket.StatusID,
		},
	})
	return ticket, nil
}

// Update edits a ticket's fields after an authorization check.
func (s *TicketService) Update(ctx context.Context, ticketID int64, input TicketUpdateInput, principal authz.Principal) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", ticketID)
	}
	if err := s.policy.CanMutate(principal, ticket, "update", "ticket"); err != nil {
		return nil, err
	}

	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		return nil, notFoundOr(err, "category", input.CategoryID)
	}
	if _, err := s.priorities.GetByID(ctx, input.PriorityID); err != nil {
		return nil, notFoundOr(err, "priority", input.PriorityID)
	}
	if _, err := s.software.GetByID(ctx, input.SoftwareID); err != nil {
		return nil, notFoundOr(err, "software", input.SoftwareID)
	}

	ticket.Title = strings.TrimSpace(input.Title)
	ticket.Description = strings.TrimSpace(input.Description)
	ticket.Version = strings.TrimSpace(input.Version)
	ticket.CategoryID = input.CategoryID
	ticket.PriorityID = input.PriorityID
	ticket.SoftwareID = input.SoftwareID

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, util.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		ActorID:  principal.UserID,
	})
	return ticket, nil
}

// ChangeStatus moves a ticket to another status. Operators only. Setting
// the current status again is applied idempotently and stays silent;
// every actual change notifies the ticket author unless the actor is the
// author. A failed notification does not undo the change: the ticket is
// returned together with a NOTIFICATION_FAILED error.
func (s *TicketService) ChangeStatus(ctx context.Context, ticketID, statusID int64, principal authz.Principal) (*domain.Ticket, error) {
	if err := s.policy.CanChangeStatus(principal); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", ticketID)
	}
	status, err := s.statuses.GetByID(ctx, statusID)
	if err != nil {
		return nil, notFoundOr(err, "status", statusID)
	}

	if ticket.StatusID == status.ID {
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return nil, util.MapError(err)
		}
		return ticket, nil
	}

	oldStatusID := ticket.StatusID
	oldStatus, err := s.statuses.GetByID(ctx, oldStatusID)
	if err != nil {
		return nil, util.MapError(err)
	}
	ticket.StatusID = status.ID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, util.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  principal.UserID,
		Payload: events.TicketStatusChangedPayload{
			OldStatusID: oldStatusID,
			NewStatusID: status.ID,
		},
	})

	if ticket.UserID == principal.UserID {
		return ticket, nil
	}
	author, err := s.users.GetByID(ctx, ticket.UserID)
	if err != nil {
		return ticket, util.NewNotificationFailed(err)
	}
	if err := s.gateway.Notify(ctx, author.Email, notification.TemplateStatusChanged, notification.Fields{
		"recipient_name": author.Name,
		"ticket_title":   ticket.Title,
		"old_status":     oldStatus.Name,
		"new_status":     status.Name,
	}); err != nil {
		return ticket, util.NewNotificationFailed(err)
	}
	return ticket, nil
}

// Delete removes a ticket with its replies and images. Children go first
// so no reader ever observes an orphaned child row; the whole cascade is
// one transaction.
func (s *TicketService) Delete(ctx context.Context, ticketID int64, principal authz.Principal) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return notFoundOr(err, "ticket", ticketID)
	}
	if err := s.policy.CanMutate(principal, ticket, "delete", "ticket"); err != nil {
		return err
	}

	replies, err := s.replies.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return util.MapError(err)
	}
	images, err := s.images.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return util.MapError(err)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.replies.DeleteByTicket(ctx, ticket.ID); err != nil {
			return err
		}
		if err := s.images.DeleteByTicket(ctx, ticket.ID); err != nil {
			return err
		}
		return s.tickets.Delete(ctx, ticket.ID)
	})
	if err != nil {
		return util.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		ActorID:  principal.UserID,
		Payload: events.TicketDeletedPayload{
			ReplyCount: len(replies),
			ImageCount: len(images),
		},
	})
	return nil
}

// GetByID returns the full detail projection for an authorized reader.
func (s *TicketService) GetByID(ctx context.Context, ticketID int64, principal authz.Principal) (*TicketDetail, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", ticketID)
	}
	if err := s.policy.CanAccess(principal, ticket); err != nil {
		return nil, err
	}

	detail := &TicketDetail{Ticket: ticket}
	if detail.Status, err = s.statuses.GetByID(ctx, ticket.StatusID); err != nil {
		return nil, util.MapError(err)
	}
	if detail.Category, err = s.categories.GetByID(ctx, ticket.CategoryID); err != nil {
		return nil, util.MapError(err)
	}
	if detail.Priority, err = s.priorities.GetByID(ctx, ticket.PriorityID); err != nil {
		return nil, util.MapError(err)
	}
	if detail.Software, err = s.software.GetByID(ctx, ticket.SoftwareID); err != nil {
		return nil, util.MapError(err)
	}
	if detail.Author, err = s.users.GetByID(ctx, ticket.UserID); err != nil {
		return nil, util.MapError(err)
	}
	if detail.Replies, err = s.replies.ListByTicket(ctx, ticket.ID); err != nil {
		return nil, util.MapError(err)
	}
	if detail.Images, err = s.images.ListByTicket(ctx, ticket.ID); err != nil {
		return nil, util.MapError(err)
	}
	return detail, nil
}

// List returns tickets visible to the principal. Plain users only ever
// see their own tickets regardless of the requested filter.
func (s *TicketService) List(ctx context.Context, filter TicketFilter, principal authz.Principal) ([]domain.Ticket, error) {
	if !principal.OperatorOrAbove() {
		filter.UserID = &principal.UserID
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, util.MapError(err)
	}
	return tickets, nil
}

// AddImage appends uploaded files to a ticket.
func (s *TicketService) AddImage(ctx context.Context, ticketID int64, files []ImageInput, principal authz.Principal) ([]domain.Image, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket", ticketID)
	}
	if err := s.policy.CanMutate(principal, ticket, "add image to", "ticket"); err != nil {
		return nil, err
	}

	stored := make([]domain.Image, 0, len(files))
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, file := range files {
			image := &domain.Image{
				TicketID: ticket.ID,
				FileName: file.FileName,
				Content:  file.Content,
			}
			if err := s.images.Create(ctx, image); err != nil {
				return err
			}
			stored = append(stored, *image)
		}
		return nil
	})
	if err != nil {
		return nil, util.MapError(err)
	}

	ids := make([]int64, 0, len(stored))
	for _, image := range stored {
		ids = append(ids, image.ID)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketImageAdded,
		TicketID: ticket.ID,
		ActorID:  principal.UserID,
		Payload:  events.TicketImageAddedPayload{ImageIDs: ids},
	})
	return stored, nil
}

// GetImage returns one image with its content for an authorized reader.
func (s *TicketService) GetImage(ctx context.Context, imageID int64, principal authz.Principal) (*domain.Image, error) {
	image, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return nil, notFoundOr(err, "image", imageID)
	}
	ticket, err := s.tickets.GetByID(ctx, image.TicketID)
	if err != nil {
		return nil, util.MapError(err)
	}
	if err := s.policy.CanAccess(principal, ticket); err != nil {
		return nil, err
	}
	return image, nil
}

// DeleteImage removes a single image after checking mutate permission on
// the owning ticket.
func (s *TicketService) DeleteImage(ctx context.Context, imageID int64, principal authz.Principal) error {
	image, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return notFoundOr(err, "image", imageID)
	}
	ticket, err := s.tickets.GetByID(ctx, image.TicketID)
	if err != nil {
		return util.MapError(err)
	}
	if err := s.policy.CanMutate(principal, ticket, "delete", "image"); err != nil {
		return err
	}
	if err := s.images.Delete(ctx, image.ID); err != nil {
		return util.MapError(err)
	}
	return nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
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

// notFoundOr maps a missing row to a NOT_FOUND naming the resource and
// id, and anything else to an internal error.
func notFoundOr(err error, resource string, id any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return util.NewNotFound(resource, id)
	}
	return util.MapError(err)
}
