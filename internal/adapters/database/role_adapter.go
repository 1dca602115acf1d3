package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/santegabon/carto-backend/internal/domain/repositories"
	"github.com/santegabon/carto-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/santegabon/carto-backend/pkg/errors"
)

// RoleAdapter implements the RoleRepository interface
type RoleAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewRoleAdapter creates a new role adapter
func NewRoleAdapter(client *postgres.Client) repositories.RoleRepository {
	return &RoleAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// HasRole reports whether the user holds the given role
func (a *RoleAdapter) HasRole(ctx context.Context, userID, role string) (bool, error) {
	query, args, err := a.db.Select(goqu.COUNT("*")).
		From("user_roles").
		Where(goqu.Ex{"user_id": userID, "role": role}).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, apperrors.NewInternalError("failed to check user role", err)
	}

	return count > 0, nil
}
