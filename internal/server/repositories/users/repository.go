// Package users declares the identity-store contract and its PostgreSQL
// implementation.
package users

import (
	"context"

	"github.com/shelfshare/shelfshare/internal/server/models"
)

// Repository is the identity store consumed by the session resolver and the
// services. Lookups return common.ErrNotFound for absent users; Create and
// Update return common.ErrAlreadyExists on username/email collisions.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error

	// SearchByUsername matches usernames by case-insensitive substring.
	SearchByUsername(ctx context.Context, query string) ([]*models.User, error)
}
