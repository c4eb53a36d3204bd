package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfshare/shelfshare/internal/common"
	"github.com/shelfshare/shelfshare/internal/server/auth"
	"github.com/shelfshare/shelfshare/internal/server/models"
)

type fakeUserRepo struct {
	user *models.User
	err  error

	getCalls int
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUserRepo) Update(ctx context.Context, u *models.User) error {
	return errors.New("not implemented")
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	return errors.New("not implemented")
}

func (f *fakeUserRepo) SearchByUsername(ctx context.Context, query string) ([]*models.User, error) {
	return nil, errors.New("not implemented")
}

type fakeSessionRepo struct {
	deletedUserID int64
}

func (f *fakeSessionRepo) Create(ctx context.Context, userID int64, token string, validity time.Duration) error {
	return nil
}

func (f *fakeSessionRepo) Find(ctx context.Context, token string) (*models.Session, error) {
	return nil, common.ErrNotFound
}

func (f *fakeSessionRepo) Delete(ctx context.Context, token string) error {
	return nil
}

func (f *fakeSessionRepo) DeleteByUser(ctx context.Context, userID int64) error {
	f.deletedUserID = userID
	return nil
}

var testSecret = []byte("test-secret")

func validToken(t *testing.T, userID int64) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	return tok
}

func TestResolve_Success(t *testing.T) {
	userRepo := &fakeUserRepo{user: &models.User{ID: 7, Username: "alice", Email: "alice@example.com"}}
	r := NewResolver(validToken(t, 7), testSecret, userRepo, &fakeSessionRepo{})

	identity, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.UserID != 7 || identity.Username != "alice" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestResolve_CachesWithinRequest(t *testing.T) {
	userRepo := &fakeUserRepo{user: &models.User{ID: 7, Username: "alice"}}
	r := NewResolver(validToken(t, 7), testSecret, userRepo, &fakeSessionRepo{})

	first, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatal("expected the same cached identity")
	}
	if userRepo.getCalls != 1 {
		t.Fatalf("expected 1 identity-store lookup, got %d", userRepo.getCalls)
	}
}

func TestResolve_MissingToken(t *testing.T) {
	r := NewResolver("", testSecret, &fakeUserRepo{}, &fakeSessionRepo{})

	_, err := r.Resolve(context.Background())
	if !errors.Is(err, common.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolve_GarbageToken(t *testing.T) {
	r := NewResolver("not.a.jwt", testSecret, &fakeUserRepo{}, &fakeSessionRepo{})

	_, err := r.Resolve(context.Background())
	if !errors.Is(err, common.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolve_ExpiredToken(t *testing.T) {
	tok, err := auth.GenerateToken(7, testSecret, -time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	r := NewResolver(tok, testSecret, &fakeUserRepo{}, &fakeSessionRepo{})

	_, err = r.Resolve(context.Background())
	if !errors.Is(err, common.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestResolve_StaleUserClearsSessions(t *testing.T) {
	userRepo := &fakeUserRepo{err: common.ErrNotFound}
	sessionRepo := &fakeSessionRepo{}
	r := NewResolver(validToken(t, 42), testSecret, userRepo, sessionRepo)

	_, err := r.Resolve(context.Background())
	if !errors.Is(err, common.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if sessionRepo.deletedUserID != 42 {
		t.Fatalf("expected sessions of user 42 cleared, got %d", sessionRepo.deletedUserID)
	}
}
