package service

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// UserService covers admin account management. Deleting an account is
// guarded twice: a user with tickets cannot be removed, and the system
// never loses its last enabled admin.
type UserService struct {
	users   repository.UserRepository
	tickets repository.TicketRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, tickets repository.TicketRepository) *UserService {
	return &UserService{users: users, tickets: tickets}
}

// List returns a page of accounts.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, util.MapError(err)
	}
	return users, nil
}

// Get returns one account.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	return user, nil
}

// SetRoles replaces an account's role set. Stripping ADMIN from the last
// enabled admin is refused.
func (s *UserService) SetRoles(ctx context.Context, id int64, roles domain.RoleSet) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	if user.Enabled && user.Roles.Has(domain.RoleAdmin) && !roles.Has(domain.RoleAdmin) {
		if err := s.guardLastAdmin(ctx); err != nil {
			return nil, err
		}
	}
	user.Roles = roles
	if err := s.users.Update(ctx, user); err != nil {
		return nil, util.MapError(err)
	}
	return user, nil
}

// SetEnabled toggles an account. Disabling the last enabled admin is
// refused.
func (s *UserService) SetEnabled(ctx context.Context, id int64, enabled bool) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	if user.Enabled && !enabled && user.Roles.Has(domain.RoleAdmin) {
		if err := s.guardLastAdmin(ctx); err != nil {
			return nil, err
		}
	}
	user.Enabled = enabled
	if err := s.users.Update(ctx, user); err != nil {
		return nil, util.MapError(err)
	}
	return user, nil
}

// Delete removes an account that owns no tickets and is not the last
// enabled admin.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "user", id)
	}
	if user.Enabled && user.Roles.Has(domain.RoleAdmin) {
		if err := s.guardLastAdmin(ctx); err != nil {
			return err
		}
	}
	count, err := s.tickets.CountByForeignKey(ctx, repository.FKUser, id)
	if err != nil {
		return util.MapError(err)
	}
	if count > 0 {
		return util.NewConflict("user owns existing tickets", map[string]any{"id": id, "tickets": count})
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return util.MapError(err)
	}
	return nil
}

func (s *UserService) guardLastAdmin(ctx context.Context) error {
	count, err := s.users.CountEnabledAdmins(ctx)
	if err != nil {
		return util.MapError(err)
	}
	if count <= 1 {
		return util.NewDefaultEntityDeletion("administrator")
	}
	return nil
}
