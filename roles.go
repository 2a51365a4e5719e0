package auth

import "strings"

// UserRole is a canonical platform role.
type UserRole string

const (
	// RoleClient can browse and book accommodations.
	RoleClient UserRole = "CLIENT"
	// RoleOwner can publish and manage accommodations.
	RoleOwner UserRole = "OWNER"
	// RoleAdmin can manage users and approve requests.
	RoleAdmin UserRole = "ADMIN"
)

const rolePrefix = "ROLE_"

// NormalizeRole maps the heterogeneous role representations found in
// token claims onto the canonical set. The issuer claim wins over the
// dedicated rol claim; the value is uppercased and a single ROLE_
// prefix is stripped. Unrecognized values pass through unchanged so
// callers can decide how strict to be (see UserRole.IsValid).
// Normalization is idempotent.
func NormalizeRole(claims *Claims) (UserRole, bool) {
	if claims == nil {
		return "", false
	}

	raw := claims.Issuer
	if raw == "" {
		raw = claims.Rol
	}
	if raw == "" {
		return "", false
	}

	role := strings.ToUpper(raw)
	role = strings.TrimPrefix(role, rolePrefix)

	return UserRole(role), true
}

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleClient, RoleOwner, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAtLeast checks if this role meets the minimum required level
func (r UserRole) IsAtLeast(minRole UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleClient: 0,
		RoleOwner:  1,
		RoleAdmin:  2,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleClient,
		RoleOwner,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, role.IsValid()
}
