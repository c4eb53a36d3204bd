package models

import (
	"fmt"
	"time"

	"github.com/shelfshare/shelfshare/internal/common"
)

// Note is a page-scoped private annotation on a book. Notes are visible only
// to their author, regardless of the book's visibility.
type Note struct {
	ID         int64
	Content    string
	PageNumber int
	BookID     int64
	AuthorID   int64
	CreatedAt  time.Time
}

// NewNote validates fields and returns an unsaved Note.
func NewNote(content string, pageNumber int, bookID, authorID int64) (*Note, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content cannot be empty", common.ErrValidation)
	}
	if pageNumber <= 0 {
		return nil, fmt.Errorf("%w: page number must be positive", common.ErrValidation)
	}
	return &Note{
		Content:    content,
		PageNumber: pageNumber,
		BookID:     bookID,
		AuthorID:   authorID,
	}, nil
}

// Snapshot returns the projection the access engine needs.
func (n *Note) Snapshot() NoteSnapshot {
	return NoteSnapshot{AuthorID: n.AuthorID}
}

// NoteSnapshot is the read-only projection of a note used for authorization.
type NoteSnapshot struct {
	AuthorID int64
}
