// Package services implements the application operations on top of the
// repository layer. Every authorization decision is delegated to the access
// package; services translate storage errors into the shared sentinel
// taxonomy and keep multi-row mutations inside one transaction.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shelfshare/shelfshare/internal/common"
	"github.com/shelfshare/shelfshare/internal/dbx"
	"github.com/shelfshare/shelfshare/internal/server/auth"
	"github.com/shelfshare/shelfshare/internal/server/blob"
	"github.com/shelfshare/shelfshare/internal/server/config"
	"github.com/shelfshare/shelfshare/internal/server/models"
	"github.com/shelfshare/shelfshare/internal/server/repositories/repomanager"
)

// TokenPair is what a successful login or refresh yields: a short-lived
// signed access token and an opaque stored session token.
type TokenPair struct {
	AccessToken  string
	SessionToken string
}

const sessionTokenBytes = 32

// UserService covers registration, login, token refresh, profile updates
// and account deletion.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	blobs                       blob.Store
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	sessionValidityDuration     time.Duration
}

// NewUserService wires the service from shared infrastructure.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, blobs blob.Store, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		blobs:                       blobs,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		sessionValidityDuration:     cfg.SessionValidityDuration,
	}
}

// Register creates a new account. Username/email collisions surface as
// common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := models.NewUser(username, email, hash)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	user, err = repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues a token pair. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrUnauthenticated
		}
		return nil, nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, nil, common.ErrUnauthenticated
	}

	pair, err := s.generateTokenPair(ctx, s.db, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh rotates a stored session token: the old one is deleted and a new
// pair is issued in the same transaction.
func (s *UserService) Refresh(ctx context.Context, sessionToken string) (*TokenPair, error) {
	sessionRepo := s.repomanager.Sessions(s.db)

	session, err := sessionRepo.Find(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, err
	}

	if session.Expires.Before(time.Now()) {
		return nil, common.ErrSessionExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Sessions(tx).Delete(ctx, sessionToken); err != nil {
			return fmt.Errorf("error deleting session: %w", err)
		}
		pair, err = s.generateTokenPair(ctx, tx, session.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// Logout drops the stored session token. Unknown tokens are a no-op.
func (s *UserService) Logout(ctx context.Context, sessionToken string) error {
	return s.repomanager.Sessions(s.db).Delete(ctx, sessionToken)
}

// GetByID loads a single user.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// Update changes username and/or email, preserving uniqueness. Empty fields
// keep their current value.
func (s *UserService) Update(ctx context.Context, userID int64, username, email string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}

	// re-run model validation on the merged result
	validated, err := models.NewUser(user.Username, user.Email, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	validated.ID = user.ID
	validated.CreatedAt = user.CreatedAt

	if err := repo.Update(ctx, validated); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return validated, nil
}

// Delete removes the account and everything it owns in one transaction:
// books with their notes and file metadata, notes on other users' books,
// friendship edges and sessions. Stored blobs are deleted after commit,
// since the object store cannot join the transaction.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	var staleKeys []string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		keys, err := s.repomanager.Files(tx).ListStorageKeysByOwner(ctx, userID)
		if err != nil {
			return err
		}
		staleKeys = keys

		if err := s.repomanager.Notes(tx).DeleteByAuthor(ctx, userID); err != nil {
			return err
		}
		if err := s.repomanager.Books(tx).DeleteByOwner(ctx, userID); err != nil {
			return err
		}
		if err := s.repomanager.Friendships(tx).DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := s.repomanager.Sessions(tx).DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}

	for _, key := range staleKeys {
		// best effort; an orphaned blob is preferable to a failed delete
		_ = s.blobs.Delete(ctx, key)
	}

	return nil
}

// SearchByUsername finds users whose username contains query
// (case-insensitive). Queries shorter than 2 characters are rejected.
func (s *UserService) SearchByUsername(ctx context.Context, query string) ([]*models.User, error) {
	if len(query) < 2 {
		return nil, fmt.Errorf("%w: query must be at least 2 characters long", common.ErrValidation)
	}
	return s.repomanager.Users(s.db).SearchByUsername(ctx, query)
}

func (s *UserService) generateTokenPair(ctx context.Context, db dbx.DBTX, userID int64) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	sessionToken, err := common.MakeRandHexString(sessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("error generating session token: %w", err)
	}

	if err := s.repomanager.Sessions(db).Create(ctx, userID, sessionToken, s.sessionValidityDuration); err != nil {
		return nil, fmt.Errorf("error storing session: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, SessionToken: sessionToken}, nil
}
