package files

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shelfshare/shelfshare/internal/common"
	"github.com/shelfshare/shelfshare/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("error creating mock: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+file_metadata.*RETURNING\s+id,\s*uploaded_at`).
		WithArgs("dune.pdf", "pdf", int64(2048), int64(7), "a1b2c3").
		WillReturnRows(sqlmock.NewRows([]string{"id", "uploaded_at"}).AddRow(int64(5), time.Now()))

	fm := &models.FileMetadata{FileName: "dune.pdf", FileType: "pdf", Size: 2048, BookID: 7, StorageKey: "a1b2c3"}
	created, err := repo.Create(context.Background(), fm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 5 {
		t.Fatalf("expected id 5, got %d", created.ID)
	}
}

func TestCreateDuplicateBook(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+file_metadata`).
		WithArgs("dune.pdf", "pdf", int64(2048), int64(7), "a1b2c3").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	fm := &models.FileMetadata{FileName: "dune.pdf", FileType: "pdf", Size: 2048, BookID: 7, StorageKey: "a1b2c3"}
	_, err := repo.Create(context.Background(), fm)
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetByBookIDNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*SELECT\s+.*FROM\s+file_metadata\s+WHERE\s+book_id\s*=\s*\$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByBookID(context.Background(), 99)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListStorageKeysByOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"storage_key"}).AddRow("k1").AddRow("k2")
	mock.ExpectQuery(`(?s)^\s*SELECT\s+fm\.storage_key\s+FROM\s+file_metadata\s+fm\s+JOIN\s+books`).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	keys, err := repo.ListStorageKeysByOwner(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 2 || keys[0] != "k1" || keys[1] != "k2" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}
