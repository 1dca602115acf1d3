package repositories

import "context"

// AdminRole is the role required to persist sync results
const AdminRole = "admin"

// RoleRepository looks up backend-verified roles for a caller identity
type RoleRepository interface {
	// HasRole reports whether the user holds the given role
	HasRole(ctx context.Context, userID, role string) (bool, error)
}
