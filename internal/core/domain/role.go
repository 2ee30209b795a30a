package domain

import (
	"strings"
)

// Role is a capability tier. The set is closed: anything not listed in
// roleRank is not a role and never satisfies a requirement.
type Role string

const (
	RoleTester    Role = "tester"
	RoleDeveloper Role = "developer"
	RoleAdmin     Role = "admin"
)

// roleRank orders roles from lowest to highest privilege. Rank 0 is reserved
// for unknown values.
var roleRank = map[Role]int{
	RoleTester:    1,
	RoleDeveloper: 2,
	RoleAdmin:     3,
}

// Rank returns the privilege rank of r, or 0 when r is not a known role.
func (r Role) Rank() int {
	return roleRank[r]
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	return r.Rank() > 0
}

func (r Role) String() string {
	return string(r)
}

// Satisfies reports whether actual meets a requirement of required.
// Unknown roles on either side never satisfy.
func Satisfies(actual, required Role) bool {
	a, r := actual.Rank(), required.Rank()
	if a == 0 || r == 0 {
		return false
	}
	return a >= r
}

// ParseRole normalises s and returns the matching Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

// Roles returns the known roles ordered from lowest to highest rank.
func Roles() []Role {
	return []Role{RoleTester, RoleDeveloper, RoleAdmin}
}
