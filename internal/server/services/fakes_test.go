package services

// Hand-rolled in-memory fakes shared by the service tests. The friendship
// fake lives in the friendships package because the concurrency tests there
// need it too.

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shelfshare/shelfshare/internal/common"
	"github.com/shelfshare/shelfshare/internal/dbx"
	"github.com/shelfshare/shelfshare/internal/server/models"
	"github.com/shelfshare/shelfshare/internal/server/repositories/books"
	"github.com/shelfshare/shelfshare/internal/server/repositories/files"
	"github.com/shelfshare/shelfshare/internal/server/repositories/friendships"
	"github.com/shelfshare/shelfshare/internal/server/repositories/notes"
	"github.com/shelfshare/shelfshare/internal/server/repositories/sessions"
	"github.com/shelfshare/shelfshare/internal/server/repositories/users"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	byID   map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[int64]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, common.ErrAlreadyExists
		}
	}
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.nextID++
	r.byID[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return common.ErrNotFound
	}
	for id, u := range r.byID {
		if id != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return common.ErrAlreadyExists
		}
	}
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeUserRepo) SearchByUsername(ctx context.Context, query string) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.User
	for _, u := range r.byID {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) {
			result = append(result, u)
		}
	}
	return result, nil
}

type fakeBookRepo struct {
	mu     sync.Mutex
	byID   map[int64]*models.Book
	nextID int64
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{byID: make(map[int64]*models.Book), nextID: 1}
}

func (r *fakeBookRepo) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	book.ID = r.nextID
	book.CreatedAt = time.Now()
	r.nextID++
	r.byID[book.ID] = book
	return book, nil
}

func (r *fakeBookRepo) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.byID[id]; ok {
		return b, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeBookRepo) Update(ctx context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[book.ID]; !ok {
		return common.ErrNotFound
	}
	r.byID[book.ID] = book
	return nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeBookRepo) DeleteByOwner(ctx context.Context, ownerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, b := range r.byID {
		if b.OwnerID == ownerID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *fakeBookRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Book
	for _, b := range r.byID {
		if b.OwnerID == ownerID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeBookRepo) ListPublicByOwner(ctx context.Context, ownerID int64) ([]*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Book
	for _, b := range r.byID {
		if b.OwnerID == ownerID && b.Visibility == models.VisibilityPublic {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeBookRepo) ListVisible(ctx context.Context, requesterID int64) ([]*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Book
	for _, b := range r.byID {
		if b.Visibility == models.VisibilityPublic || b.OwnerID == requesterID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeBookRepo) Search(ctx context.Context, requesterID int64, query string) ([]*models.Book, error) {
	visible, _ := r.ListVisible(ctx, requesterID)
	q := strings.ToLower(query)
	var result []*models.Book
	for _, b := range visible {
		if strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Author), q) {
			result = append(result, b)
		}
	}
	return result, nil
}

type fakeNoteRepo struct {
	mu     sync.Mutex
	byID   map[int64]*models.Note
	nextID int64
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{byID: make(map[int64]*models.Note), nextID: 1}
}

func (r *fakeNoteRepo) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	note.ID = r.nextID
	note.CreatedAt = time.Now()
	r.nextID++
	r.byID[note.ID] = note
	return note, nil
}

func (r *fakeNoteRepo) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.byID[id]; ok {
		return n, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeNoteRepo) Update(ctx context.Context, note *models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[note.ID]; !ok {
		return common.ErrNotFound
	}
	r.byID[note.ID] = note
	return nil
}

func (r *fakeNoteRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeNoteRepo) DeleteByAuthor(ctx context.Context, authorID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range r.byID {
		if n.AuthorID == authorID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *fakeNoteRepo) ListByBookAndAuthor(ctx context.Context, bookID, authorID int64) ([]*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Note
	for _, n := range r.byID {
		if n.BookID == bookID && n.AuthorID == authorID {
			result = append(result, n)
		}
	}
	return result, nil
}

type fakeFileRepo struct {
	mu       sync.Mutex
	byBookID map[int64]*models.FileMetadata
	nextID   int64
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{byBookID: make(map[int64]*models.FileMetadata), nextID: 1}
}

func (r *fakeFileRepo) Create(ctx context.Context, fm *models.FileMetadata) (*models.FileMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byBookID[fm.BookID]; ok {
		return nil, common.ErrAlreadyExists
	}
	fm.ID = r.nextID
	fm.UploadedAt = time.Now()
	r.nextID++
	r.byBookID[fm.BookID] = fm
	return fm, nil
}

func (r *fakeFileRepo) GetByBookID(ctx context.Context, bookID int64) (*models.FileMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fm, ok := r.byBookID[bookID]; ok {
		return fm, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeFileRepo) DeleteByBookID(ctx context.Context, bookID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byBookID, bookID)
	return nil
}

func (r *fakeFileRepo) ListStorageKeysByOwner(ctx context.Context, ownerID int64) ([]string, error) {
	// owner join not modelled; tests seed books and files consistently
	r.mu.Lock()
	defer r.mu.Unlock()
	var keys []string
	for _, fm := range r.byBookID {
		keys = append(keys, fm.StorageKey)
	}
	return keys, nil
}

type fakeSessionRepo struct {
	mu      sync.Mutex
	byToken map[string]*models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byToken: make(map[string]*models.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, userID int64, token string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byToken[token] = &models.Session{Token: token, UserID: userID, Expires: time.Now().Add(validity)}
	return nil
}

func (r *fakeSessionRepo) Find(ctx context.Context, token string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byToken[token]; ok {
		return s, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeSessionRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byToken, token)
	return nil
}

func (r *fakeSessionRepo) DeleteByUser(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, s := range r.byToken {
		if s.UserID == userID {
			delete(r.byToken, token)
		}
	}
	return nil
}

// fakeRepoManager hands out the same fake repositories regardless of the
// DBTX, so transactional code paths exercise the fakes too.
type fakeRepoManager struct {
	users       *fakeUserRepo
	friendships *friendships.InMemoryRepository
	books       *fakeBookRepo
	notes       *fakeNoteRepo
	files       *fakeFileRepo
	sessions    *fakeSessionRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:       newFakeUserRepo(),
		friendships: friendships.NewInMemoryRepository(),
		books:       newFakeBookRepo(),
		notes:       newFakeNoteRepo(),
		files:       newFakeFileRepo(),
		sessions:    newFakeSessionRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository { return m.users }

func (m *fakeRepoManager) Friendships(db dbx.DBTX) friendships.Repository { return m.friendships }

func (m *fakeRepoManager) Books(db dbx.DBTX) books.Repository { return m.books }

func (m *fakeRepoManager) Notes(db dbx.DBTX) notes.Repository { return m.notes }

func (m *fakeRepoManager) Files(db dbx.DBTX) files.Repository { return m.files }

func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessions.Repository { return m.sessions }

type fakeBlobStore struct {
	mu      sync.Mutex
	counter int
	deleted []string
}

func (b *fakeBlobStore) PresignPut(ctx context.Context) (string, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.counter++
	key := fmt.Sprintf("books/test/%d", b.counter)
	return key, "http://blob.test/put/" + key, nil
}

func (b *fakeBlobStore) PresignGet(ctx context.Context, key string) (string, error) {
	return "http://blob.test/get/" + key, nil
}

func (b *fakeBlobStore) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, key)
	return nil
}
