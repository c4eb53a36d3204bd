// Package notes declares the note repository contract and its PostgreSQL
// implementation.
package notes

import (
	"context"

	"github.com/shelfshare/shelfshare/internal/server/models"
)

// Repository stores notes. Listing is always scoped to (book, author): notes
// are private annotations, so no query crosses authors.
type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	GetByID(ctx context.Context, id int64) (*models.Note, error)
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, id int64) error
	DeleteByAuthor(ctx context.Context, authorID int64) error

	// ListByBookAndAuthor returns the author's notes on a book ordered by
	// page number.
	ListByBookAndAuthor(ctx context.Context, bookID, authorID int64) ([]*models.Note, error)
}
