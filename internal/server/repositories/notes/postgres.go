package notes

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

// PostgresRepository implements note storage over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const noteColumns = `id, content, page_number, book_id, author_id, created_at`

func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	query := `
		INSERT INTO notes (content, page_number, book_id, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		note.Content, note.PageNumber, note.BookID, note.AuthorID).
		Scan(&note.ID, &note.CreatedAt)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	return note, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	query := `
		SELECT ` + noteColumns + ` FROM notes
		WHERE id = $1
	`
	note := &models.Note{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&note.ID, &note.Content, &note.PageNumber, &note.BookID, &note.AuthorID, &note.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, pgerr.Wrap(err)
	}
	return note, nil
}

func (r *PostgresRepository) Update(ctx context.Context, note *models.Note) error {
	query := `
		UPDATE notes SET content = $2, page_number = $3
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, note.ID, note.Content, note.PageNumber)
	if err != nil {
		return pgerr.Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM notes
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return pgerr.Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByAuthor(ctx context.Context, authorID int64) error {
	query := `
		DELETE FROM notes
		WHERE author_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, authorID); err != nil {
		return pgerr.Wrap(err)
	}
	return nil
}

func (r *PostgresRepository) ListByBookAndAuthor(ctx context.Context, bookID, authorID int64) ([]*models.Note, error) {
	query := `
		SELECT ` + noteColumns + ` FROM notes
		WHERE book_id = $1 AND author_id = $2
		ORDER BY page_number
	`
	rows, err := r.db.QueryContext(ctx, query, bookID, authorID)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	var result []*models.Note
	for rows.Next() {
		note := &models.Note{}
		if err := rows.Scan(&note.ID, &note.Content, &note.PageNumber,
			&note.BookID, &note.AuthorID, &note.CreatedAt); err != nil {
			return nil, pgerr.Wrap(err)
		}
		result = append(result, note)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return result, nil
}
