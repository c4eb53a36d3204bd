// Package friendships declares the friendship-edge repository contract plus
// its PostgreSQL and in-memory implementations.
package friendships

import (
	"context"

	"github.com/shelfshare/shelfshare/internal/server/models"
)

// Repository stores friendship edges. An unordered pair has at most one edge;
// GetByPair must find it regardless of direction. Create surfaces
// common.ErrAlreadyExists when the pair uniqueness constraint fires, so the
// service can translate a lost race into the precise duplicate outcome.
type Repository interface {
	Create(ctx context.Context, edge *models.Friendship) (*models.Friendship, error)
	GetByID(ctx context.Context, id int64) (*models.Friendship, error)
	GetByPair(ctx context.Context, userA, userB int64) (*models.Friendship, error)
	UpdateStatus(ctx context.Context, id int64, status models.FriendshipStatus) error
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error

	ListAcceptedFor(ctx context.Context, userID int64) ([]*models.Friendship, error)
	ListPendingReceived(ctx context.Context, userID int64) ([]*models.Friendship, error)
	ListPendingSent(ctx context.Context, userID int64) ([]*models.Friendship, error)
}
