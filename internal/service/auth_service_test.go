package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/pkg/util"
)

func newAuthService(users *fakeUserRepo) *AuthService {
	cfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4}
	return NewAuthService(users, auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes), auth.NewPasswordHasher(cfg.BcryptCost))
}

func TestRegisterStartsWithUserRole(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Name:     "Alice",
		Surname:  "Doe",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.True(t, user.Enabled)
	assert.True(t, user.Roles.Has(domain.RoleUser))
	assert.False(t, user.Roles.Has(domain.RoleOperator))
	assert.NotEqual(t, "correct horse", user.PasswordHash)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: "pw123456"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "b@example.com", Password: "pw123456"})
	require.True(t, util.IsCode(err, util.CodeConflict))
}

func TestLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: "pw123456"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, "alice", "pw123456")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	_, err = svc.Login(ctx, "alice", "wrong")
	require.True(t, util.IsCode(err, util.CodeUnauthorized))

	_, err = svc.Login(ctx, "nobody", "pw123456")
	require.True(t, util.IsCode(err, util.CodeUnauthorized))
}

func TestLoginDisabledAccountLooksLikeBadCredentials(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: "pw123456"})
	require.NoError(t, err)
	user.Enabled = false
	require.NoError(t, users.Update(ctx, user))

	_, err = svc.Login(ctx, "alice", "pw123456")
	require.True(t, util.IsCode(err, util.CodeUnauthorized))
	assert.Contains(t, err.Error(), "invalid credentials")
}
