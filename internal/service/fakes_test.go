package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notification"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// In-memory repository fakes backing the service tests. Each fake hands
// out copies so un-persisted mutations never leak into the store.

type fakeTicketRepo struct {
	nextID  int64
	tickets map[int64]domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[int64]domain.Ticket{}}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	f.nextID++
	ticket.ID = f.nextID
	f.tickets[ticket.ID] = *ticket
	return nil
}

func (f *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := f.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.tickets[ticket.ID] = *ticket
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (f *fakeTicketRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.tickets, id)
	return nil
}

func (f *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	out := []domain.Ticket{}
	for _, ticket := range f.tickets {
		if filter.UserID != nil && ticket.UserID != *filter.UserID {
			continue
		}
		if filter.CategoryID != nil && ticket.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.StatusID != nil && ticket.StatusID != *filter.StatusID {
			continue
		}
		if filter.SearchTerm != nil && !strings.Contains(ticket.Title, *filter.SearchTerm) {
			continue
		}
		out = append(out, ticket)
	}
	return out, nil
}

func (f *fakeTicketRepo) CountByForeignKey(_ context.Context, fk repository.TicketForeignKey, id int64) (int64, error) {
	var count int64
	for _, ticket := range f.tickets {
		var val int64
		switch fk {
		case repository.FKCategory:
			val = ticket.CategoryID
		case repository.FKPriority:
			val = ticket.PriorityID
		case repository.FKStatus:
			val = ticket.StatusID
		case repository.FKSoftware:
			val = ticket.SoftwareID
		case repository.FKUser:
			val = ticket.UserID
		}
		if val == id {
			count++
		}
	}
	return count, nil
}

type fakeReplyRepo struct {
	nextID  int64
	replies map[int64]domain.TicketReply
}

func newFakeReplyRepo() *fakeReplyRepo {
	return &fakeReplyRepo{replies: map[int64]domain.TicketReply{}}
}

func (f *fakeReplyRepo) Create(_ context.Context, reply *domain.TicketReply) error {
	f.nextID++
	reply.ID = f.nextID
	f.replies[reply.ID] = *reply
	return nil
}

func (f *fakeReplyRepo) GetByID(_ context.Context, id int64) (*domain.TicketReply, error) {
	reply, ok := f.replies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := reply
	return &copied, nil
}

func (f *fakeReplyRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketReply, error) {
	out := []domain.TicketReply{}
	for _, reply := range f.replies {
		if reply.TicketID == ticketID {
			out = append(out, reply)
		}
	}
	return out, nil
}

func (f *fakeReplyRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.replies[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.replies, id)
	return nil
}

func (f *fakeReplyRepo) DeleteByTicket(_ context.Context, ticketID int64) error {
	for id, reply := range f.replies {
		if reply.TicketID == ticketID {
			delete(f.replies, id)
		}
	}
	return nil
}

type fakeImageRepo struct {
	nextID int64
	images map[int64]domain.Image
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: map[int64]domain.Image{}}
}

func (f *fakeImageRepo) Create(_ context.Context, image *domain.Image) error {
	f.nextID++
	image.ID = f.nextID
	f.images[image.ID] = *image
	return nil
}

func (f *fakeImageRepo) GetByID(_ context.Context, id int64) (*domain.Image, error) {
	image, ok := f.images[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := image
	return &copied, nil
}

func (f *fakeImageRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.Image, error) {
	out := []domain.Image{}
	for _, image := range f.images {
		if image.TicketID == ticketID {
			out = append(out, image)
		}
	}
	return out, nil
}

func (f *fakeImageRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.images[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.images, id)
	return nil
}

func (f *fakeImageRepo) DeleteByTicket(_ context.Context, ticketID int64) error {
	for id, image := range f.images {
		if image.TicketID == ticketID {
			delete(f.images, id)
		}
	}
	return nil
}

type fakeStatusRepo struct {
	nextID   int64
	statuses map[int64]domain.Status
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{statuses: map[int64]domain.Status{}}
}

func (f *fakeStatusRepo) Create(_ context.Context, status *domain.Status) error {
	f.nextID++
	status.ID = f.nextID
	f.statuses[status.ID] = *status
	return nil
}

func (f *fakeStatusRepo) Update(_ context.Context, status *domain.Status) error {
	if _, ok := f.statuses[status.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.statuses[status.ID] = *status
	return nil
}

func (f *fakeStatusRepo) GetByID(_ context.Context, id int64) (*domain.Status, error) {
	status, ok := f.statuses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := status
	return &copied, nil
}

func (f *fakeStatusRepo) GetDefault(_ context.Context) (*domain.Status, error) {
	for _, status := range f.statuses {
		if status.DefaultStatus {
			copied := status
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStatusRepo) List(_ context.Context) ([]domain.Status, error) {
	out := []domain.Status{}
	for _, status := range f.statuses {
		out = append(out, status)
	}
	return out, nil
}

func (f *fakeStatusRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.statuses[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.statuses, id)
	return nil
}

func (f *fakeStatusRepo) ClearDefault(_ context.Context) error {
	for id, status := range f.statuses {
		if status.DefaultStatus {
			status.DefaultStatus = false
			f.statuses[id] = status
		}
	}
	return nil
}

type fakeCategoryRepo struct {
	nextID     int64
	categories map[int64]domain.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[int64]domain.Category{}}
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	f.nextID++
	category.ID = f.nextID
	f.categories[category.ID] = *category
	return nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	if _, ok := f.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.categories[category.ID] = *category
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := category
	return &copied, nil
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	for _, category := range f.categories {
		out = append(out, category)
	}
	return out, nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.categories, id)
	return nil
}

type fakePriorityRepo struct {
	nextID     int64
	priorities map[int64]domain.Priority
}

func newFakePriorityRepo() *fakePriorityRepo {
	return &fakePriorityRepo{priorities: map[int64]domain.Priority{}}
}

func (f *fakePriorityRepo) Create(_ context.Context, priority *domain.Priority) error {
	f.nextID++
	priority.ID = f.nextID
	f.priorities[priority.ID] = *priority
	return nil
}

func (f *fakePriorityRepo) Update(_ context.Context, priority *domain.Priority) error {
	if _, ok := f.priorities[priority.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.priorities[priority.ID] = *priority
	return nil
}

func (f *fakePriorityRepo) GetByID(_ context.Context, id int64) (*domain.Priority, error) {
	priority, ok := f.priorities[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := priority
	return &copied, nil
}

func (f *fakePriorityRepo) List(_ context.Context) ([]domain.Priority, error) {
	out := []domain.Priority{}
	for _, priority := range f.priorities {
		out = append(out, priority)
	}
	return out, nil
}

func (f *fakePriorityRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.priorities[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.priorities, id)
	return nil
}

type fakeSoftwareRepo struct {
	nextID  int64
	entries map[int64]domain.Software
}

func newFakeSoftwareRepo() *fakeSoftwareRepo {
	return &fakeSoftwareRepo{entries: map[int64]domain.Software{}}
}

func (f *fakeSoftwareRepo) Create(_ context.Context, software *domain.Software) error {
	f.nextID++
	software.ID = f.nextID
	f.entries[software.ID] = *software
	return nil
}

func (f *fakeSoftwareRepo) Update(_ context.Context, software *domain.Software) error {
	if _, ok := f.entries[software.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.entries[software.ID] = *software
	return nil
}

func (f *fakeSoftwareRepo) GetByID(_ context.Context, id int64) (*domain.Software, error) {
	software, ok := f.entries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := software
	return &copied, nil
}

func (f *fakeSoftwareRepo) List(_ context.Context) ([]domain.Software, error) {
	out := []domain.Software{}
	for _, software := range f.entries {
		out = append(out, software)
	}
	return out, nil
}

func (f *fakeSoftwareRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.entries[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.entries, id)
	return nil
}

type fakeUserRepo struct {
	nextID int64
	users  map[int64]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	out := []domain.User{}
	for _, user := range f.users {
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) CountEnabledAdmins(_ context.Context) (int64, error) {
	var count int64
	for _, user := range f.users {
		if user.Enabled && user.Roles.Has(domain.RoleAdmin) {
			count++
		}
	}
	return count, nil
}

// fakeTransactor runs the callback directly; the fakes have no real
// transaction boundary to manage.
type fakeTransactor struct{}

func (fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type sentNotification struct {
	Recipient string
	Template  string
	Fields    notification.Fields
}

type fakeGateway struct {
	sent []sentNotification
	err  error
}

func (f *fakeGateway) Notify(_ context.Context, recipientEmail, templateKey string, fields notification.Fields) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentNotification{Recipient: recipientEmail, Template: templateKey, Fields: fields})
	return nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}
