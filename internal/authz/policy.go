// Package authz decides whether a principal may perform an action on a
// ticket. Decisions are pure: the principal is an explicit parameter and
// no call touches storage or carries side effects.
package authz

import (
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// Principal is the authenticated actor behind a request.
type Principal struct {
	UserID   int64
	Username string
	Roles    domain.RoleSet
}

// OperatorOrAbove reports whether the principal holds OPERATOR or ADMIN.
func (p Principal) OperatorOrAbove() bool {
	return p.Roles.HasAny(domain.RoleOperator, domain.RoleAdmin)
}

// Policy groups the ticket access rules: ownership-or-elevated-role,
// with the closed-ticket gate layered on top for replies.
type Policy struct{}

// NewPolicy constructs the policy.
func NewPolicy() *Policy {
	return &Policy{}
}

// CanAccess permits operators-or-above and the ticket author to read the
// ticket.
func (Policy) CanAccess(p Principal, ticket *domain.Ticket) error {
	if p.OperatorOrAbove() || p.UserID == ticket.UserID {
		return nil
	}
	return util.NewUnauthorizedAction("access", "ticket")
}

// CanMutate applies the same ownership-or-elevated-role rule; each call
// site passes its own action verb so denials stay specific.
func (Policy) CanMutate(p Principal, ticket *domain.Ticket, action, resource string) error {
	if p.OperatorOrAbove() || p.UserID == ticket.UserID {
		return nil
	}
	return util.NewUnauthorizedAction(action, resource)
}

// CanReply requires mutate permission AND a non-closing current status.
// The ownership check runs first so a stranger is told about the missing
// permission, not about the closed thread.
func (pol Policy) CanReply(p Principal, ticket *domain.Ticket, status *domain.Status) error {
	if err := pol.CanMutate(p, ticket, "add reply to", "ticket"); err != nil {
		return err
	}
	if status.CloseTicket {
		return util.NewClosedTicket()
	}
	return nil
}

// CanChangeStatus restricts triage to operators-or-above; ownership is
// irrelevant here.
func (Policy) CanChangeStatus(p Principal) error {
	if p.OperatorOrAbove() {
		return nil
	}
	return util.NewUnauthorizedAction("change the status of", "ticket")
}

// CanDeleteReply restricts reply removal to operators-or-above; replies
// are managed by support staff, not their authors.
func (Policy) CanDeleteReply(p Principal) error {
	if p.OperatorOrAbove() {
		return nil
	}
	return util.NewUnauthorizedAction("delete", "ticket reply")
}
