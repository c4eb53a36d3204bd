// Package files declares the file-metadata repository contract and its
// PostgreSQL implementation. Access to a file is never decided here; it is
// inherited from the parent book.
package files

import (
	"context"

	"github.com/shelfshare/shelfshare/internal/server/models"
)

// Repository stores file metadata, 1:1 with books.
type Repository interface {
	// Create inserts the record; a second file for the same book returns
	// common.ErrAlreadyExists.
	Create(ctx context.Context, fm *models.FileMetadata) (*models.FileMetadata, error)
	GetByBookID(ctx context.Context, bookID int64) (*models.FileMetadata, error)
	DeleteByBookID(ctx context.Context, bookID int64) error

	// ListStorageKeysByOwner returns the storage keys of all files attached
	// to the owner's books, for blob cleanup on cascade deletes.
	ListStorageKeysByOwner(ctx context.Context, ownerID int64) ([]string, error)
}
