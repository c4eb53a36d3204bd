package books

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

// PostgresRepository implements book storage over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const bookColumns = `id, title, author, genre, visibility, owner_id, created_at`

func (r *PostgresRepository) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	query := `
		INSERT INTO books (title, author, genre, visibility, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		book.Title, book.Author, book.Genre, book.Visibility, book.OwnerID).
		Scan(&book.ID, &book.CreatedAt)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	return book, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	query := `
		SELECT ` + bookColumns + ` FROM books
		WHERE id = $1
	`
	return scanBook(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Update(ctx context.Context, book *models.Book) error {
	query := `
		UPDATE books SET title = $2, author = $3, genre = $4, visibility = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		book.ID, book.Title, book.Author, book.Genre, book.Visibility)
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
		DELETE FROM books
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

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID int64) error {
	query := `
		DELETE FROM books
		WHERE owner_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, ownerID); err != nil {
		return pgerr.Wrap(err)
	}
	return nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Book, error) {
	query := `
		SELECT ` + bookColumns + ` FROM books
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, ownerID)
}

func (r *PostgresRepository) ListPublicByOwner(ctx context.Context, ownerID int64) ([]*models.Book, error) {
	query := `
		SELECT ` + bookColumns + ` FROM books
		WHERE owner_id = $1 AND visibility = 'public'
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, ownerID)
}

func (r *PostgresRepository) ListVisible(ctx context.Context, requesterID int64) ([]*models.Book, error) {
	query := `
		SELECT ` + bookColumns + ` FROM books
		WHERE visibility = 'public' OR owner_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, requesterID)
}

func (r *PostgresRepository) Search(ctx context.Context, requesterID int64, q string) ([]*models.Book, error) {
	query := `
		SELECT ` + bookColumns + ` FROM books
		WHERE (visibility = 'public' OR owner_id = $1)
		  AND (title ILIKE '%' || $2 || '%' OR author ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, requesterID, q)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Book, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		book := &models.Book{}
		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &book.Genre,
			&book.Visibility, &book.OwnerID, &book.CreatedAt); err != nil {
			return nil, pgerr.Wrap(err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return books, nil
}

func scanBook(row *sql.Row) (*models.Book, error) {
	book := &models.Book{}
	err := row.Scan(&book.ID, &book.Title, &book.Author, &book.Genre,
		&book.Visibility, &book.OwnerID, &book.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, pgerr.Wrap(err)
	}
	return book, nil
}
