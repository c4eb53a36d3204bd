// Package sessions declares the stored-session (refresh token) repository
// contract and its PostgreSQL implementation.
package sessions

import (
	"context"
	"time"

	"github.com/shelfshare/shelfshare/internal/server/models"
)

// Repository stores opaque session tokens with expiry.
type Repository interface {
	// Create stores a new session for userID expiring at now+validity.
	Create(ctx context.Context, userID int64, token string, validity time.Duration) error

	// Find looks up a session by its opaque token. Absent tokens return
	// common.ErrNotFound.
	Find(ctx context.Context, token string) (*models.Session, error)

	// Delete removes a session. Deleting a non-existent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByUser removes every session of a user; used when a stale
	// session is detected and on account deletion.
	DeleteByUser(ctx context.Context, userID int64) error
}
