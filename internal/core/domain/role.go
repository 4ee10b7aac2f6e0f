package domain

import "fmt"

// Role is the closed set of author roles. The string value is what gets
// persisted and embedded in access tokens.
type Role string

const (
	RoleStandard Role = "User"
	RoleAdmin    Role = "Admin"
)

// Capability names an action gated by role.
type Capability string

const (
	CapWriteOwnContent Capability = "content:write-own"
	CapListAuthors     Capability = "authors:list"
	CapManageAuthors   Capability = "authors:manage"
)

// roleRank orders roles; a higher rank includes every lower one.
var roleRank = map[Role]int{
	RoleStandard: 1,
	RoleAdmin:    2,
}

var roleCapabilities = map[Role][]Capability{
	RoleStandard: {CapWriteOwnContent},
	RoleAdmin:    {CapWriteOwnContent, CapListAuthors, CapManageAuthors},
}

// ParseRole converts a persisted or client-supplied value into a Role.
// The empty string yields RoleStandard.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleStandard, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", Invalid("role must be one of: %s %s", RoleStandard, RoleAdmin)
	}
	return r, nil
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r ranks at or above min. Unknown roles never pass.
func (r Role) AtLeast(min Role) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	want, ok := roleRank[min]
	if !ok {
		return false
	}
	return have >= want
}

// Can reports whether r grants the capability c.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// GoString keeps %#v output readable in test failures.
func (r Role) GoString() string { return fmt.Sprintf("domain.Role(%q)", string(r)) }
