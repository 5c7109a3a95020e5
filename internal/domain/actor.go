package domain

import (
	"strings"
)

// Role is the closed set of actor roles the catalog understands. Raw role
// strings from tokens are resolved into this enumeration exactly once, at the
// access-policy boundary; everything below it compares Roles, never strings.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleMerchant Role = "merchant"
	RoleCustomer Role = "customer"
)

// ParseRole resolves a raw role claim into a Role. Comparison is
// case-insensitive. Unknown roles are rejected rather than defaulted.
func ParseRole(raw string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return RoleAdmin, true
	case "merchant":
		return RoleMerchant, true
	case "customer":
		return RoleCustomer, true
	default:
		return "", false
	}
}

// Actor is an authenticated caller with an already-resolved role.
type Actor struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsMerchant reports whether the actor has the merchant role.
func (a Actor) IsMerchant() bool {
	return a.Role == RoleMerchant
}

// CanMutateCatalog reports whether the actor's role permits catalog writes
// at all. Ownership of individual products is checked separately.
func (a Actor) CanMutateCatalog() bool {
	return a.Role == RoleAdmin || a.Role == RoleMerchant
}
