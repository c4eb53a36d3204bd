package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shelfshare/shelfshare/internal/common"
	"github.com/shelfshare/shelfshare/internal/server/access"
	"github.com/shelfshare/shelfshare/internal/server/models"
	"github.com/shelfshare/shelfshare/internal/server/repositories/repomanager"
)

// NoteService owns private annotations on books. A note never changes its
// book's visibility and is readable only by its author.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewNoteService wires the service from shared infrastructure.
func NewNoteService(db *sql.DB, m repomanager.RepositoryManager) *NoteService {
	return &NoteService{db: db, repomanager: m}
}

// Create adds a note on a book the author may read.
func (s *NoteService) Create(ctx context.Context, authorID, bookID int64, content string, pageNumber int) (*models.Note, error) {
	book, err := s.repomanager.Books(s.db).GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if d := access.CanRead(authorID, book.Snapshot()); !d.OK {
		return nil, fmt.Errorf("%w: %s", common.ErrAccessDenied, d.Reason)
	}

	note, err := models.NewNote(content, pageNumber, bookID, authorID)
	if err != nil {
		return nil, err
	}

	note, err = s.repomanager.Notes(s.db).Create(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("error creating note: %w", err)
	}

	return note, nil
}

// Get loads a single note; author only.
func (s *NoteService) Get(ctx context.Context, requesterID, noteID int64) (*models.Note, error) {
	note, err := s.repomanager.Notes(s.db).GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if d := access.CanReadNote(requesterID, note.Snapshot()); !d.OK {
		return nil, fmt.Errorf("%w: %s", common.ErrAccessDenied, d.Reason)
	}

	return note, nil
}

// ListByBook returns the requester's own notes on a book, ordered by page.
func (s *NoteService) ListByBook(ctx context.Context, requesterID, bookID int64) ([]*models.Note, error) {
	return s.repomanager.Notes(s.db).ListByBookAndAuthor(ctx, bookID, requesterID)
}

// Update changes a note's content and/or page number; author only. A zero
// pageNumber keeps the current page.
func (s *NoteService) Update(ctx context.Context, requesterID, noteID int64, content string, pageNumber int) (*models.Note, error) {
	repo := s.repomanager.Notes(s.db)

	note, err := repo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if d := access.CanReadNote(requesterID, note.Snapshot()); !d.OK {
		return nil, fmt.Errorf("%w: %s", common.ErrAccessDenied, d.Reason)
	}

	if content != "" {
		note.Content = content
	}
	if pageNumber != 0 {
		note.PageNumber = pageNumber
	}

	validated, err := models.NewNote(note.Content, note.PageNumber, note.BookID, note.AuthorID)
	if err != nil {
		return nil, err
	}
	validated.ID = note.ID
	validated.CreatedAt = note.CreatedAt

	if err := repo.Update(ctx, validated); err != nil {
		return nil, fmt.Errorf("error updating note: %w", err)
	}

	return validated, nil
}

// Delete removes a note; author only.
func (s *NoteService) Delete(ctx context.Context, requesterID, noteID int64) error {
	repo := s.repomanager.Notes(s.db)

	note, err := repo.GetByID(ctx, noteID)
	if err != nil {
		return err
	}

	if d := access.CanReadNote(requesterID, note.Snapshot()); !d.OK {
		return fmt.Errorf("%w: %s", common.ErrAccessDenied, d.Reason)
	}

	return repo.Delete(ctx, noteID)
}
