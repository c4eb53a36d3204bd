package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shelfshare/shelfshare/internal/common"
	"github.com/shelfshare/shelfshare/internal/dbx"
	"github.com/shelfshare/shelfshare/internal/server/models"
	"github.com/shelfshare/shelfshare/internal/server/repositories/pgerr"
)

// PostgresRepository implements file-metadata storage over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, fm *models.FileMetadata) (*models.FileMetadata, error) {
	query := `
		INSERT INTO file_metadata (file_name, file_type, size, book_id, storage_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, uploaded_at
	`
	err := r.db.QueryRowContext(ctx, query,
		fm.FileName, fm.FileType, fm.Size, fm.BookID, fm.StorageKey).
		Scan(&fm.ID, &fm.UploadedAt)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: book already has a file", common.ErrAlreadyExists)
		}
		return nil, pgerr.Wrap(err)
	}
	return fm, nil
}

func (r *PostgresRepository) GetByBookID(ctx context.Context, bookID int64) (*models.FileMetadata, error) {
	query := `
		SELECT id, file_name, file_type, size, book_id, storage_key, uploaded_at
		FROM file_metadata
		WHERE book_id = $1
	`
	fm := &models.FileMetadata{}
	err := r.db.QueryRowContext(ctx, query, bookID).
		Scan(&fm.ID, &fm.FileName, &fm.FileType, &fm.Size, &fm.BookID, &fm.StorageKey, &fm.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, pgerr.Wrap(err)
	}
	return fm, nil
}

func (r *PostgresRepository) DeleteByBookID(ctx context.Context, bookID int64) error {
	query := `
		DELETE FROM file_metadata
		WHERE book_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, bookID); err != nil {
		return pgerr.Wrap(err)
	}
	return nil
}

func (r *PostgresRepository) ListStorageKeysByOwner(ctx context.Context, ownerID int64) ([]string, error) {
	query := `
		SELECT fm.storage_key
		FROM file_metadata fm
		JOIN books b ON b.id = fm.book_id
		WHERE b.owner_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, pgerr.Wrap(err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return keys, nil
}
