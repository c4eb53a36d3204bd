// Package session resolves an inbound access token into a concrete user
// identity, exactly once per request.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shelfshare/shelfshare/internal/common"
	"github.com/shelfshare/shelfshare/internal/server/auth"
	"github.com/shelfshare/shelfshare/internal/server/repositories/sessions"
	"github.com/shelfshare/shelfshare/internal/server/repositories/users"
)

// Identity is the read-only result of resolving a credential.
type Identity struct {
	UserID   int64
	Username string
	Email    string
}

// Resolver resolves one token for the lifetime of one request. Repeated
// Resolve calls return the cached identity without hitting the identity
// store again.
type Resolver struct {
	token     string
	secretKey []byte
	users     users.Repository
	sessions  sessions.Repository

	once     sync.Once
	identity *Identity
	err      error
}

// NewResolver builds a request-scoped resolver for the given bearer token.
func NewResolver(token string, secretKey []byte, userRepo users.Repository, sessionRepo sessions.Repository) *Resolver {
	return &Resolver{
		token:     token,
		secretKey: secretKey,
		users:     userRepo,
		sessions:  sessionRepo,
	}
}

// Resolve verifies the token and loads the user behind it. A token whose
// user no longer exists is treated as unauthenticated, and that user's
// stored sessions are cleared so the stale credential cannot refresh.
func (r *Resolver) Resolve(ctx context.Context) (*Identity, error) {
	r.once.Do(func() {
		r.identity, r.err = r.resolve(ctx)
	})
	return r.identity, r.err
}

func (r *Resolver) resolve(ctx context.Context) (*Identity, error) {
	if r.token == "" {
		return nil, common.ErrUnauthenticated
	}

	userID, err := auth.GetUserIDFromToken(r.token, r.secretKey)
	if err != nil {
		if errors.Is(err, common.ErrSessionExpired) {
			return nil, common.ErrSessionExpired
		}
		return nil, common.ErrUnauthenticated
	}

	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// stale credential: the user was deleted after the token
			// was issued
			if derr := r.sessions.DeleteByUser(ctx, userID); derr != nil {
				return nil, fmt.Errorf("clearing stale sessions: %w", derr)
			}
			return nil, common.ErrUnauthenticated
		}
		return nil, err
	}

	return &Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}
