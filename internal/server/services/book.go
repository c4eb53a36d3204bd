package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shelfshare/shelfshare/internal/common"
	"github.com/shelfshare/shelfshare/internal/dbx"
	"github.com/shelfshare/shelfshare/internal/server/access"
	"github.com/shelfshare/shelfshare/internal/server/blob"
	"github.com/shelfshare/shelfshare/internal/server/models"
	"github.com/shelfshare/shelfshare/internal/server/repositories/repomanager"
)

// BookService owns books and their attached files. Read denials surface as
// common.ErrAccessDenied; the transport boundary decides whether to present
// them as not-found.
type BookService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blob.Store
}

// NewBookService wires the service from shared infrastructure.
func NewBookService(db *sql.DB, m repomanager.RepositoryManager, blobs blob.Store) *BookService {
	return &BookService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
	}
}

// Create validates and stores a new book owned by ownerID.
func (s *BookService) Create(ctx context.Context, ownerID int64, title, author, genre string, visibility models.Visibility) (*models.Book, error) {
	book, err := models.NewBook(title, author, genre, visibility, ownerID)
	if err != nil {
		return nil, err
	}

	book, err = s.repomanager.Books(s.db).Create(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("error creating book: %w", err)
	}

	return book, nil
}

// Get loads a book the requester may read.
func (s *BookService) Get(ctx context.Context, requesterID, bookID int64) (*models.Book, error) {
	book, err := s.repomanager.Books(s.db).GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if d := access.CanRead(requesterID, book.Snapshot()); !d.OK {
		return nil, fmt.Errorf("%w: %s", common.ErrAccessDenied, d.Reason)
	}

	return book, nil
}

// ListOwn returns the requester's books, private ones included.
func (s *BookService) ListOwn(ctx context.Context, requesterID int64) ([]*models.Book, error) {
	return s.repomanager.Books(s.db).ListByOwner(ctx, requesterID)
}

// ListVisible returns every book the requester may read: public books plus
// the requester's own.
func (s *BookService) ListVisible(ctx context.Context, requesterID int64) ([]*models.Book, error) {
	return s.repomanager.Books(s.db).ListVisible(ctx, requesterID)
}

// ListFriendBooks returns friendID's public books. The requester must be
// connected to the friend by an accepted edge; anything less is forbidden.
func (s *BookService) ListFriendBooks(ctx context.Context, requesterID, friendID int64) ([]*models.Book, error) {
	edge, err := s.repomanager.Friendships(s.db).GetByPair(ctx, requesterID, friendID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: not friends with this user", common.ErrForbidden)
		}
		return nil, err
	}
	if edge.Status != models.StatusAccepted {
		return nil, fmt.Errorf("%w: not friends with this user", common.ErrForbidden)
	}

	return s.repomanager.Books(s.db).ListPublicByOwner(ctx, friendID)
}

// Update changes a book's fields; owner only. Empty fields keep their
// current value.
func (s *BookService) Update(ctx context.Context, requesterID, bookID int64, title, author, genre string, visibility models.Visibility) (*models.Book, error) {
	repo := s.repomanager.Books(s.db)

	book, err := repo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if d := access.CanWrite(requesterID, book.Snapshot()); !d.OK {
		return nil, fmt.Errorf("%w: %s", common.ErrAccessDenied, d.Reason)
	}

	if title != "" {
		book.Title = title
	}
	if author != "" {
		book.Author = author
	}
	if genre != "" {
		book.Genre = genre
	}
	if visibility != "" {
		book.Visibility = visibility
	}

	validated, err := models.NewBook(book.Title, book.Author, book.Genre, book.Visibility, book.OwnerID)
	if err != nil {
		return nil, err
	}
	validated.ID = book.ID
	validated.CreatedAt = book.CreatedAt

	if err := repo.Update(ctx, validated); err != nil {
		return nil, fmt.Errorf("error updating book: %w", err)
	}

	return validated, nil
}

// Delete removes a book with its notes and file metadata in one transaction;
// owner only. The stored blob, if any, is deleted after commit.
func (s *BookService) Delete(ctx context.Context, requesterID, bookID int64) error {
	book, err := s.repomanager.Books(s.db).GetByID(ctx, bookID)
	if err != nil {
		return err
	}

	if d := access.CanDelete(requesterID, book.Snapshot()); !d.OK {
		return fmt.Errorf("%w: %s", common.ErrAccessDenied, d.Reason)
	}

	var staleKey string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		fm, err := s.repomanager.Files(tx).GetByBookID(ctx, bookID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		if fm != nil {
			staleKey = fm.StorageKey
			if err := s.repomanager.Files(tx).DeleteByBookID(ctx, bookID); err != nil {
				return err
			}
		}
		return s.repomanager.Books(tx).Delete(ctx, bookID)
	})
	if err != nil {
		return fmt.Errorf("error deleting book: %w", err)
	}

	if staleKey != "" {
		// best effort; an orphaned blob is preferable to a failed delete
		_ = s.blobs.Delete(ctx, staleKey)
	}

	return nil
}

// FileUpload is the result of starting a file attachment: the client PUTs
// the bytes to URL, and the metadata row already references the key.
type FileUpload struct {
	Metadata *models.FileMetadata
	URL      string
}

// AttachFile records file metadata for a book and returns a presigned PUT
// URL for the bytes; owner only, one file per book.
func (s *BookService) AttachFile(ctx context.Context, requesterID, bookID int64, fileName, fileType string, size int64) (*FileUpload, error) {
	book, err := s.repomanager.Books(s.db).GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if d := access.CanWrite(requesterID, book.Snapshot()); !d.OK {
		return nil, fmt.Errorf("%w: %s", common.ErrAccessDenied, d.Reason)
	}

	key, url, err := s.blobs.PresignPut(ctx)
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	fm, err := models.NewFileMetadata(fileName, fileType, size, bookID, key)
	if err != nil {
		return nil, err
	}

	fm, err = s.repomanager.Files(s.db).Create(ctx, fm)
	if err != nil {
		return nil, fmt.Errorf("error recording file metadata: %w", err)
	}

	return &FileUpload{Metadata: fm, URL: url}, nil
}

// FileDownload is a presigned GET plus the metadata describing the object.
type FileDownload struct {
	Metadata *models.FileMetadata
	URL      string
}

// GetFileURL returns a presigned GET URL for a book's file. Access rides on
// the book's read rule.
func (s *BookService) GetFileURL(ctx context.Context, requesterID, bookID int64) (*FileDownload, error) {
	book, err := s.repomanager.Books(s.db).GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if d := access.CanAccessFile(requesterID, book.Snapshot()); !d.OK {
		return nil, fmt.Errorf("%w: %s", common.ErrAccessDenied, d.Reason)
	}

	fm, err := s.repomanager.Files(s.db).GetByBookID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	url, err := s.blobs.PresignGet(ctx, fm.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("error presigning download: %w", err)
	}

	return &FileDownload{Metadata: fm, URL: url}, nil
}

// DetachFile removes a book's file metadata and blob; owner only.
func (s *BookService) DetachFile(ctx context.Context, requesterID, bookID int64) error {
	book, err := s.repomanager.Books(s.db).GetByID(ctx, bookID)
	if err != nil {
		return err
	}

	if d := access.CanWrite(requesterID, book.Snapshot()); !d.OK {
		return fmt.Errorf("%w: %s", common.ErrAccessDenied, d.Reason)
	}

	fm, err := s.repomanager.Files(s.db).GetByBookID(ctx, bookID)
	if err != nil {
		return err
	}

	if err := s.repomanager.Files(s.db).DeleteByBookID(ctx, bookID); err != nil {
		return err
	}

	_ = s.blobs.Delete(ctx, fm.StorageKey)
	return nil
}

// Search matches title or author among books visible to the requester.
// Queries shorter than 2 characters are rejected.
func (s *BookService) Search(ctx context.Context, requesterID int64, query string) ([]*models.Book, error) {
	if len(query) < 2 {
		return nil, fmt.Errorf("%w: query must be at least 2 characters long", common.ErrValidation)
	}
	return s.repomanager.Books(s.db).Search(ctx, requesterID, query)
}
