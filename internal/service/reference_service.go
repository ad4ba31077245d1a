package service

import (
	"context"
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// ReferenceService manages the admin-maintained reference tables. The
// interesting parts are the delete guards: rows referenced by tickets
// and the default status are protected, and moving the default flag
// keeps the exactly-one-default invariant inside a transaction.
type ReferenceService struct {
	statuses   repository.StatusRepository
	categories repository.CategoryRepository
	priorities repository.PriorityRepository
	software   repository.SoftwareRepository
	tickets    repository.TicketRepository
	tx         repository.Transactor
}

// ReferenceDependencies bundles collaborators.
type ReferenceDependencies struct {
	StatusRepo   repository.StatusRepository
	CategoryRepo repository.CategoryRepository
	PriorityRepo repository.PriorityRepository
	SoftwareRepo repository.SoftwareRepository
	TicketRepo   repository.TicketRepository
	Tx           repository.Transactor
}

// StatusInput describes a status create/update payload.
type StatusInput struct {
	Name          string
	CloseTicket   bool
	DefaultStatus bool
}

// NewReferenceService constructs the service.
func NewReferenceService(deps ReferenceDependencies) *ReferenceService {
	return &ReferenceService{
		statuses:   deps.StatusRepo,
		categories: deps.CategoryRepo,
		priorities: deps.PriorityRepo,
		software:   deps.SoftwareRepo,
		tickets:    deps.TicketRepo,
		tx:         deps.Tx,
	}
}

// CreateStatus adds a status; when it is flagged default the previous
// default is cleared in the same transaction.
func (s *ReferenceService) CreateStatus(ctx context.Context, input StatusInput) (*domain.Status, error) {
	status := &domain.Status{
		Name:          strings.TrimSpace(input.Name),
		CloseTicket:   input.CloseTicket,
		DefaultStatus: input.DefaultStatus,
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if status.DefaultStatus {
			if err := s.statuses.ClearDefault(ctx); err != nil {
				return err
			}
		}
		return s.statuses.Create(ctx, status)
	})
	if err != nil {
		return nil, util.MapError(err)
	}
	return status, nil
}

// UpdateStatus edits a status. The current default cannot be demoted
// directly; promote another status instead.
func (s *ReferenceService) UpdateStatus(ctx context.Context, id int64, input StatusInput) (*domain.Status, error) {
	status, err := s.statuses.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "status", id)
	}
	if status.DefaultStatus && !input.DefaultStatus {
		return nil, util.NewConflict("another status must be made default first", map[string]any{"id": id})
	}

	status.Name = strings.TrimSpace(input.Name)
	status.CloseTicket = input.CloseTicket
	becameDefault := input.DefaultStatus && !status.DefaultStatus
	status.DefaultStatus = input.DefaultStatus

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if becameDefault {
			if err := s.statuses.ClearDefault(ctx); err != nil {
				return err
			}
		}
		return s.statuses.Update(ctx, status)
	})
	if err != nil {
		return nil, util.MapError(err)
	}
	return status, nil
}

// DeleteStatus removes a status unless it is the default or in use.
func (s *ReferenceService) DeleteStatus(ctx context.Context, id int64) error {
	status, err := s.statuses.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "status", id)
	}
	if status.DefaultStatus {
		return util.NewDefaultEntityDeletion("status")
	}
	if err := s.guardUnreferenced(ctx, repository.FKStatus, id, "status"); err != nil {
		return err
	}
	if err := s.statuses.Delete(ctx, id); err != nil {
		return util.MapError(err)
	}
	return nil
}

// ListStatuses returns all statuses.
func (s *ReferenceService) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	statuses, err := s.statuses.List(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	return statuses, nil
}

// CreateCategory adds a category.
func (s *ReferenceService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	category := &domain.Category{Name: strings.TrimSpace(name)}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, util.MapError(err)
	}
	return category, nil
}

// UpdateCategory renames a category.
func (s *ReferenceService) UpdateCategory(ctx context.Context, id int64, name string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "category", id)
	}
	category.Name = strings.TrimSpace(name)
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, util.MapError(err)
	}
	return category, nil
}

// DeleteCategory removes a category unless tickets still reference it.
func (s *ReferenceService) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return notFoundOr(err, "category", id)
	}
	if err := s.guardUnreferenced(ctx, repository.FKCategory, id, "category"); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return util.MapError(err)
	}
	return nil
}

// ListCategories returns all categories.
func (s *ReferenceService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	return categories, nil
}

// CreatePriority adds a priority.
func (s *ReferenceService) CreatePriority(ctx context.Context, name string) (*domain.Priority, error) {
	priority := &domain.Priority{Name: strings.TrimSpace(name)}
	if err := s.priorities.Create(ctx, priority); err != nil {
		return nil, util.MapError(err)
	}
	return priority, nil
}

// UpdatePriority renames a priority.
func (s *ReferenceService) UpdatePriority(ctx context.Context, id int64, name string) (*domain.Priority, error) {
	priority, err := s.priorities.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "priority", id)
	}
	priority.Name = strings.TrimSpace(name)
	if err := s.priorities.Update(ctx, priority); err != nil {
		return nil, util.MapError(err)
	}
	return priority, nil
}

// DeletePriority removes a priority unless tickets still reference it.
func (s *ReferenceService) DeletePriority(ctx context.Context, id int64) error {
	if _, err := s.priorities.GetByID(ctx, id); err != nil {
		return notFoundOr(err, "priority", id)
	}
	if err := s.guardUnreferenced(ctx, repository.FKPriority, id, "priority"); err != nil {
		return err
	}
	if err := s.priorities.Delete(ctx, id); err != nil {
		return util.MapError(err)
	}
	return nil
}

// ListPriorities returns all priorities.
func (s *ReferenceService) ListPriorities(ctx context.Context) ([]domain.Priority, error) {
	priorities, err := s.priorities.List(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	return priorities, nil
}

// CreateSoftware adds a software catalog entry.
func (s *ReferenceService) CreateSoftware(ctx context.Context, name, version string) (*domain.Software, error) {
	software := &domain.Software{Name: strings.TrimSpace(name), Version: strings.TrimSpace(version)}
	if err := s.software.Create(ctx, software); err != nil {
		return nil, util.MapError(err)
	}
	return software, nil
}

// UpdateSoftware edits a software catalog entry.
func (s *ReferenceService) UpdateSoftware(ctx context.Context, id int64, name, version string) (*domain.Software, error) {
	software, err := s.software.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "software", id)
	}
	software.Name = strings.TrimSpace(name)
	software.Version = strings.TrimSpace(version)
	if err := s.software.Update(ctx, software); err != nil {
		return nil, util.MapError(err)
	}
	return software, nil
}

// DeleteSoftware removes a catalog entry unless tickets still reference it.
func (s *ReferenceService) DeleteSoftware(ctx context.Context, id int64) error {
	if _, err := s.software.GetByID(ctx, id); err != nil {
		return notFoundOr(err, "software", id)
	}
	if err := s.guardUnreferenced(ctx, repository.FKSoftware, id, "software"); err != nil {
		return err
	}
	if err := s.software.Delete(ctx, id); err != nil {
		return util.MapError(err)
	}
	return nil
}

// ListSoftware returns the software catalog.
func (s *ReferenceService) ListSoftware(ctx context.Context) ([]domain.Software, error) {
	software, err := s.software.List(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	return software, nil
}

func (s *ReferenceService) guardUnreferenced(ctx context.Context, fk repository.TicketForeignKey, id int64, resource string) error {
	count, err := s.tickets.CountByForeignKey(ctx, fk, id)
	if err != nil {
		return util.MapError(err)
	}
	if count > 0 {
		return util.NewConflict(resource+" is referenced by existing tickets", map[string]any{
			"resource": resource,
			"id":       id,
			"tickets":  count,
		})
	}
	return nil
}
