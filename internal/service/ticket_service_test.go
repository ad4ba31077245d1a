package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/authz"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notification"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// ticketWorld wires a ticket service against in-memory fakes with a
// seeded author, operator, stranger, two statuses and one row in each
// reference table.
type ticketWorld struct {
	tickets    *fakeTicketRepo
	replies    *fakeReplyRepo
	images     *fakeImageRepo
	statuses   *fakeStatusRepo
	users      *fakeUserRepo
	gateway    *fakeGateway
	dispatcher *recordingDispatcher
	svc        *TicketService

	author   authz.Principal
	operator authz.Principal
	stranger authz.Principal

	open   domain.Status
	closed domain.Status
}

func newTicketWorld(t *testing.T) *ticketWorld {
	t.Helper()
	ctx := context.Background()

	w := &ticketWorld{
		tickets:    newFakeTicketRepo(),
		replies:    newFakeReplyRepo(),
		images:     newFakeImageRepo(),
		statuses:   newFakeStatusRepo(),
		users:      newFakeUserRepo(),
		gateway:    &fakeGateway{},
		dispatcher: &recordingDispatcher{},
	}

	categories := newFakeCategoryRepo()
	priorities := newFakePriorityRepo()
	software := newFakeSoftwareRepo()

	require.NoError(t, categories.Create(ctx, &domain.Category{Name: "Billing"}))
	require.NoError(t, priorities.Create(ctx, &domain.Priority{Name: "High"}))
	require.NoError(t, software.Create(ctx, &domain.Software{Name: "Portal", Version: "2.1"}))

	open := domain.Status{Name: "Open", DefaultStatus: true}
	require.NoError(t, w.statuses.Create(ctx, &open))
	closed := domain.Status{Name: "Closed", CloseTicket: true}
	require.NoError(t, w.statuses.Create(ctx, &closed))
	w.open = open
	w.closed = closed

	seedUser := func(username, email string, roles ...domain.Role) authz.Principal {
		user := domain.User{
			Username: username,
			Email:    email,
			Name:     username,
			Enabled:  true,
			Roles:    domain.NewRoleSet(roles...),
		}
		require.NoError(t, w.users.Create(ctx, &user))
		return authz.Principal{UserID: user.ID, Username: user.Username, Roles: user.Roles}
	}
	w.author = seedUser("alice", "alice@example.com", domain.RoleUser)
	w.operator = seedUser("otto", "otto@example.com", domain.RoleUser, domain.RoleOperator)
	w.stranger = seedUser("mallory", "mallory@example.com", domain.RoleUser)

	w.svc = NewTicketService(TicketDependencies{
		TicketRepo:   w.tickets,
		ReplyRepo:    w.replies,
		ImageRepo:    w.images,
		StatusRepo:   w.statuses,
		CategoryRepo: categories,
		PriorityRepo: priorities,
		SoftwareRepo: software,
		UserRepo:     w.users,
		Tx:           fakeTransactor{},
		Policy:       authz.NewPolicy(),
		Gateway:      w.gateway,
		Dispatcher:   w.dispatcher,
	})
	return w
}

func (w *ticketWorld) createTicket(t *testing.T) *domain.Ticket {
	t.Helper()
	ticket, err := w.svc.Create(context.Background(), TicketCreateInput{
		Title:       "Cannot log in",
		Description: "Password reset loops forever",
		Version:     "2.1",
		CategoryID:  1,
		PriorityID:  1,
		SoftwareID:  1,
	}, w.author)
	require.NoError(t, err)
	return ticket
}

func (w *ticketWorld) eventTypes() []events.EventType {
	types := make([]events.EventType, 0, len(w.dispatcher.published))
	for _, event := range w.dispatcher.published {
		types = append(types, event.Type)
	}
	return types
}

func TestTicketCreateUsesDefaultStatus(t *testing.T) {
	w := newTicketWorld(t)

	ticket := w.createTicket(t)

	assert.Equal(t, w.open.ID, ticket.StatusID)
	assert.Equal(t, w.author.UserID, ticket.UserID)
	assert.Contains(t, w.eventTypes(), events.EventTicketCreated)

	detail, err := w.svc.GetByID(context.Background(), ticket.ID, w.author)
	require.NoError(t, err)
	assert.Equal(t, "Cannot log in", detail.Ticket.Title)
	assert.Equal(t, "Open", detail.Status.Name)
	assert.Equal(t, "alice", detail.Author.Username)
}

func TestTicketCreateMissingCategory(t *testing.T) {
	w := newTicketWorld(t)

	_, err := w.svc.Create(context.Background(), TicketCreateInput{
		Title:       "broken",
		Description: "broken",
		CategoryID:  42,
		PriorityID:  1,
		SoftwareID:  1,
	}, w.author)

	require.True(t, util.IsCode(err, util.CodeNotFound))
	assert.Empty(t, w.tickets.tickets)
	assert.Empty(t, w.dispatcher.published)
}

func TestTicketCreateWithoutDefaultStatus(t *testing.T) {
	w := newTicketWorld(t)
	require.NoError(t, w.statuses.ClearDefault(context.Background()))

	_, err := w.svc.Create(context.Background(), TicketCreateInput{
		Title:       "no status configured",
		Description: "no status configured",
		CategoryID:  1,
		PriorityID:  1,
		SoftwareID:  1,
	}, w.author)

	require.True(t, util.IsCode(err, util.CodeNotFound))
	assert.Contains(t, err.Error(), "default status")
	assert.Empty(t, w.tickets.tickets)
}

func TestTicketCreateStoresImages(t *testing.T) {
	w := newTicketWorld(t)

	ticket, err := w.svc.Create(context.Background(), TicketCreateInput{
		Title:       "screenshot attached",
		Description: "see image",
		CategoryID:  1,
		PriorityID:  1,
		SoftwareID:  1,
		Images: []ImageInput{
			{FileName: "error.png", Content: []byte{0x89, 0x50}},
			{FileName: "trace.png", Content: []byte{0x89, 0x51}},
		},
	}, w.author)
	require.NoError(t, err)

	images, err := w.images.ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Len(t, images, 2)
}

func TestTicketUpdateByStranger(t *testing.T) {
	w := newTicketWorld(t)
	ticket := w.createTicket(t)

	_, err := w.svc.Update(context.Background(), ticket.ID, TicketUpdateInput{
		Title:       "hijacked",
		Description: "hijacked",
		CategoryID:  1,
		PriorityID:  1,
		SoftwareID:  1,
	}, w.stranger)

	require.True(t, util.IsCode(err, util.CodeUnauthorizedAction))
	stored, err := w.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cannot log in", stored.Title)
}

func TestTicketUpdateMissingReferenceLeavesTicketUntouched(t *testing.T) {
	w := newTicketWorld(t)
	ticket := w.createTicket(t)

	_, err := w.svc.Update(context.Background(), ticket.ID, TicketUpdateInput{
		Title:       "new title",
		Description: "new description",
		CategoryID:  42,
		PriorityID:  1,
		SoftwareID:  1,
	}, w.author)

	require.True(t, util.IsCode(err, util.CodeNotFound))
	stored, err := w.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cannot log in", stored.Title)
}

func TestChangeStatusNotifiesAuthor(t *testing.T) {
	w := newTicketWorld(t)
	ticket := w.createTicket(t)

	updated, err := w.svc.ChangeStatus(context.Background(), ticket.ID, w.closed.ID, w.operator)
	require.NoError(t, err)
	assert.Equal(t, w.closed.ID, updated.StatusID)

	require.Len(t, w.gateway.sent, 1)
	sent := w.gateway.sent[0]
	assert.Equal(t, "alice@example.com", sent.Recipient)
	assert.Equal(t, notification.TemplateStatusChanged, sent.Template)
	assert.Equal(t, "Open", sent.Fields["old_status"])
	assert.Equal(t, "Closed", sent.Fields["new_status"])

	assert.Contains(t, w.eventTypes(), events.EventTicketStatusChanged)
}

func TestChangeStatusSameStatusIsSilent(t *testing.T) {
	w := newTicketWorld(t)
	ticket := w.createTicket(t)

	updated, err := w.svc.ChangeStatus(context.Background(), ticket.ID, w.open.ID, w.operator)
	require.NoError(t, err)
	assert.Equal(t, w.open.ID, updated.StatusID)
	assert.Empty(t, w.gateway.sent)
	assert.NotContains(t, w.eventTypes(), events.EventTicketStatusChanged)
}

func TestChangeStatusSelfChangeSkipsNotification(t *testing.T) {
	w := newTicketWorld(t)
	ticket, err := w.svc.Create(context.Background(), TicketCreateInput{
		Title:       "operator's own ticket",
		Description: "filed by triage",
		CategoryID:  1,
		PriorityID:  1,
		SoftwareID:  1,
	}, w.operator)
	require.NoError(t, err)

	_, err = w.svc.ChangeStatus(context.Background(), ticket.ID, w.closed.ID, w.operator)
	require.NoError(t, err)
	assert.Empty(t, w.gateway.sent)
	assert.Contains(t, w.eventTypes(), events.EventTicketStatusChanged)
}

func TestChangeStatusNotificationFailureKeepsChange(t *testing.T) {
	w := newTicketWorld(t)
	ticket := w.createTicket(t)
	w.gateway.err = assert.AnError

	updated, err := w.svc.ChangeStatus(context.Background(), ticket.ID, w.closed.ID, w.operator)

	require.NotNil(t, updated)
	require.True(t, util.IsCode(err, util.CodeNotificationFailed))
	stored, getErr := w.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, getErr)
	assert.Equal(t, w.closed.ID, stored.StatusID)
}

func TestChangeStatusRequiresOperator(t *testing.T) {
	w := newTicketWorld(t)
	ticket := w.createTicket(t)

	_, err := w.svc.ChangeStatus(context.Background(), ticket.ID, w.closed.ID, w.author)
	require.True(t, util.IsCode(err, util.CodeUnauthorizedAction))
}

func TestDeleteCascadesRepliesAndImages(t *testing.T) {
	w := newTicketWorld(t)
	ticket := w.createTicket(t)

	ctx := context.Background()
	require.NoError(t, w.replies.Create(ctx, &domain.TicketReply{TicketID: ticket.ID, UserID: w.operator.UserID, Content: "looking into it"}))
	require.NoError(t, w.images.Create(ctx, &domain.Image{TicketID: ticket.ID, FileName: "err.png", Content: []byte{1}}))

	require.NoError(t, w.svc.Delete(ctx, ticket.ID, w.author))

	_, err := w.tickets.GetByID(ctx, ticket.ID)
	assert.Error(t, err)
	replies, _ := w.replies.ListByTicket(ctx, ticket.ID)
	assert.Empty(t, replies)
	images, _ := w.images.ListByTicket(ctx, ticket.ID)
	assert.Empty(t, images)
	assert.Contains(t, w.eventTypes(), events.EventTicketDeleted)
}

func TestDeleteByStrangerLeavesEverything(t *testing.T) {
	w := newTicketWorld(t)
	ticket := w.createTicket(t)

	ctx := context.Background()
	require.NoError(t, w.replies.Create(ctx, &domain.TicketReply{TicketID: ticket.ID, UserID: w.author.UserID, Content: "still broken"}))

	err := w.svc.Delete(ctx, ticket.ID, w.stranger)
	require.True(t, util.IsCode(err, util.CodeUnauthorizedAction))

	_, getErr := w.tickets.GetByID(ctx, ticket.ID)
	assert.NoError(t, getErr)
	replies, _ := w.replies.ListByTicket(ctx, ticket.ID)
	assert.Len(t, replies, 1)
}

func TestDeleteMissingTicket(t *testing.T) {
	w := newTicketWorld(t)

	err := w.svc.Delete(context.Background(), 404, w.operator)
	require.True(t, util.IsCode(err, util.CodeNotFound))
}

func TestListScopesPlainUsersToOwnTickets(t *testing.T) {
	w := newTicketWorld(t)
	w.createTicket(t)

	other, err := w.svc.Create(context.Background(), TicketCreateInput{
		Title:       "operator ticket",
		Description: "internal",
		CategoryID:  1,
		PriorityID:  1,
		SoftwareID:  1,
	}, w.operator)
	require.NoError(t, err)

	own, err := w.svc.List(context.Background(), TicketFilter{UserID: &other.UserID}, w.author)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, w.author.UserID, own[0].UserID)

	all, err := w.svc.List(context.Background(), TicketFilter{}, w.operator)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetByIDDeniedForStranger(t *testing.T) {
	w := newTicketWorld(t)
	ticket := w.createTicket(t)

	_, err := w.svc.GetByID(context.Background(), ticket.ID, w.stranger)
	require.True(t, util.IsCode(err, util.CodeUnauthorizedAction))

	_, err = w.svc.GetByID(context.Background(), 404, w.operator)
	require.True(t, util.IsCode(err, util.CodeNotFound))
}

func TestImageLifecycle(t *testing.T) {
	w := newTicketWorld(t)
	ticket := w.createTicket(t)
	ctx := context.Background()

	stored, err := w.svc.AddImage(ctx, ticket.ID, []ImageInput{{FileName: "log.txt", Content: []byte("boom")}}, w.author)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	image, err := w.svc.GetImage(ctx, stored[0].ID, w.operator)
	require.NoError(t, err)
	assert.Equal(t, "log.txt", image.FileName)

	_, err = w.svc.GetImage(ctx, stored[0].ID, w.stranger)
	require.True(t, util.IsCode(err, util.CodeUnauthorizedAction))

	err = w.svc.DeleteImage(ctx, stored[0].ID, w.stranger)
	require.True(t, util.IsCode(err, util.CodeUnauthorizedAction))

	require.NoError(t, w.svc.DeleteImage(ctx, stored[0].ID, w.author))
	_, err = w.images.GetByID(ctx, stored[0].ID)
	assert.Error(t, err)
}
