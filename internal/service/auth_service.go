package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// AuthService handles registration and login.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenManager
	passwords *auth.PasswordHasher
}

// RegisterInput describes a sign-up payload. New accounts always start
// with the USER role only; elevated roles are granted by an admin.
type RegisterInput struct {
	Username string
	Email    string
	Name     string
	Surname  string
	Password string
}

// LoginResult carries the issued token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// NewAuthService constructs the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, passwords *auth.PasswordHasher) *AuthService {
	return &AuthService{users: users, tokens: tokens, passwords: passwords}
}

// Register creates a new enabled user account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, util.NewConflict("username already taken", map[string]any{"username": username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, util.MapError(err)
	}

	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, util.MapError(err)
	}
	user := &domain.User{
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		Name:         strings.TrimSpace(input.Name),
		Surname:      strings.TrimSpace(input.Surname),
		PasswordHash: hash,
		Enabled:      true,
		Roles:        domain.NewRoleSet(domain.RoleUser),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, util.MapError(err)
	}
	return user, nil
}

// Login verifies credentials and issues a token. Disabled accounts are
// rejected with the same message as bad credentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewUnauthorized("invalid credentials")
		}
		return nil, util.MapError(err)
	}
	if !user.Enabled {
		return nil, util.NewUnauthorized("invalid credentials")
	}
	if err := s.passwords.Compare(user.PasswordHash, password); err != nil {
		return nil, util.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, util.MapError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
