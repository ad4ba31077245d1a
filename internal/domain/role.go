package domain

// Role is a capability tag attached to a user. Roles are additive: an
// operator usually also holds USER, an admin holds all three.
type Role string

const (
	RoleUser     Role = "USER"
	RoleOperator Role = "OPERATOR"
	RoleAdmin    Role = "ADMIN"
)

// IsValid reports whether the role is one of the known tags.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleOperator || r == RoleAdmin
}

// RoleSet holds the roles granted to a principal. Membership checks are
// set-based rather than rank comparisons so roles may overlap freely.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles, dropping unknown tags.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		if role.IsValid() {
			set[role] = struct{}{}
		}
	}
	return set
}

// ParseRoles converts stored role strings into a RoleSet.
func ParseRoles(raw []string) RoleSet {
	set := make(RoleSet, len(raw))
	for _, s := range raw {
		role := Role(s)
		if role.IsValid() {
			set[role] = struct{}{}
		}
	}
	return set
}

// Has reports whether the set contains the role.
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// HasAny reports whether the set contains at least one of the roles.
func (s RoleSet) HasAny(roles ...Role) bool {
	for _, role := range roles {
		if s.Has(role) {
			return true
		}
	}
	return false
}

// Strings returns the set in stable order for storage.
func (s RoleSet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, role := range []Role{RoleUser, RoleOperator, RoleAdmin} {
		if s.Has(role) {
			out = append(out, string(role))
		}
	}
	return out
}
