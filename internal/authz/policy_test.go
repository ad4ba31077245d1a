package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/pkg/util"
)

func userPrincipal(id int64) Principal {
	return Principal{UserID: id, Username: "user", Roles: domain.NewRoleSet(domain.RoleUser)}
}

func operatorPrincipal(id int64) Principal {
	return Principal{UserID: id, Username: "op", Roles: domain.NewRoleSet(domain.RoleUser, domain.RoleOperator)}
}

func adminPrincipal(id int64) Principal {
	return Principal{UserID: id, Username: "admin", Roles: domain.NewRoleSet(domain.RoleAdmin)}
}

func TestCanAccess(t *testing.T) {
	policy := NewPolicy()
	ticket := &domain.Ticket{ID: 1, UserID: 10}

	tests := []struct {
		name      string
		principal Principal
		wantCode  string
	}{
		{name: "author reads own ticket", principal: userPrincipal(10)},
		{name: "operator reads any ticket", principal: operatorPrincipal(99)},
		{name: "admin reads any ticket", principal: adminPrincipal(99)},
		{name: "stranger is denied", principal: userPrincipal(11), wantCode: util.CodeUnauthorizedAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.CanAccess(tt.principal, ticket)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, util.IsCode(err, tt.wantCode))
		})
	}
}

func TestCanMutateDenialNamesActionAndResource(t *testing.T) {
	policy := NewPolicy()
	ticket := &domain.Ticket{ID: 1, UserID: 10}

	err := policy.CanMutate(userPrincipal(11), ticket, "delete", "ticket")
	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeUnauthorizedAction))
	assert.Contains(t, err.Error(), "delete")
	assert.Contains(t, err.Error(), "ticket")
}

func TestCanReply(t *testing.T) {
	policy := NewPolicy()
	ticket := &domain.Ticket{ID: 1, UserID: 10}
	open := &domain.Status{ID: 1, Name: "Open"}
	closed := &domain.Status{ID: 2, Name: "Closed", CloseTicket: true}

	t.Run("author replies to open ticket", func(t *testing.T) {
		assert.NoError(t, policy.CanReply(userPrincipal(10), ticket, open))
	})

	t.Run("closed gate blocks the author", func(t *testing.T) {
		err := policy.CanReply(userPrincipal(10), ticket, closed)
		assert.True(t, util.IsCode(err, util.CodeClosedTicket))
	})

	t.Run("closed gate blocks operators too", func(t *testing.T) {
		err := policy.CanReply(operatorPrincipal(99), ticket, closed)
		assert.True(t, util.IsCode(err, util.CodeClosedTicket))
	})

	t.Run("stranger denied before the closed gate", func(t *testing.T) {
		err := policy.CanReply(userPrincipal(11), ticket, closed)
		assert.True(t, util.IsCode(err, util.CodeUnauthorizedAction))
	})
}

func TestCanChangeStatus(t *testing.T) {
	policy := NewPolicy()

	assert.NoError(t, policy.CanChangeStatus(operatorPrincipal(1)))
	assert.NoError(t, policy.CanChangeStatus(adminPrincipal(1)))

	err := policy.CanChangeStatus(userPrincipal(1))
	assert.True(t, util.IsCode(err, util.CodeUnauthorizedAction))
}

func TestCanDeleteReply(t *testing.T) {
	policy := NewPolicy()

	assert.NoError(t, policy.CanDeleteReply(operatorPrincipal(1)))

	err := policy.CanDeleteReply(userPrincipal(1))
	assert.True(t, util.IsCode(err, util.CodeUnauthorizedAction))
}

func TestOperatorOrAboveIsSetBased(t *testing.T) {
	multi := Principal{UserID: 1, Roles: domain.NewRoleSet(domain.RoleUser, domain.RoleOperator, domain.RoleAdmin)}
	assert.True(t, multi.OperatorOrAbove())

	plain := Principal{UserID: 1, Roles: domain.NewRoleSet(domain.RoleUser)}
	assert.False(t, plain.OperatorOrAbove())

	none := Principal{UserID: 1, Roles: domain.NewRoleSet()}
	assert.False(t, none.OperatorOrAbove())
}
