// Package books declares the book repository contract and its PostgreSQL
// implementation.
package books

import (
	"context"

	"github.com/shelfshare/shelfshare/internal/server/models"
)

// Repository stores books. Relationship traversal is explicit query methods
// over indexed foreign keys; there are no back-references.
type Repository interface {
	Create(ctx context.Context, book *models.Book) (*models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id int64) error
	DeleteByOwner(ctx context.Context, ownerID int64) error

	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Book, error)
	// ListPublicByOwner returns only the owner's public books.
	ListPublicByOwner(ctx context.Context, ownerID int64) ([]*models.Book, error)
	// ListVisible returns public books plus the requester's own.
	ListVisible(ctx context.Context, requesterID int64) ([]*models.Book, error)
	// Search matches title or author (case-insensitive substring) among the
	// books visible to the requester.
	Search(ctx context.Context, requesterID int64, query string) ([]*models.Book, error)
}
