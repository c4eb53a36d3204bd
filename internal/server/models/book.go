package models

import (
	"fmt"
	"time"

	"github.com/shelfshare/shelfshare/internal/common"
)

// Visibility controls default read access to a book.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// ValidGenres is the closed set of accepted book genres.
var ValidGenres = []string{
	"Fiction", "Non-Fiction", "Fantasy", "Sci-Fi", "Mystery",
	"Thriller", "Romance", "Biography", "History", "Self-Help",
	"Poetry", "Academic", "Unknown",
}

// Book is owned by exactly one user and carries the visibility flag the
// access engine decides on.
type Book struct {
	ID         int64
	Title      string
	Author     string
	Genre      string
	Visibility Visibility
	OwnerID    int64
	CreatedAt  time.Time
}

// NewBook validates fields and returns an unsaved Book. An empty genre
// defaults to "Unknown".
func NewBook(title, author, genre string, visibility Visibility, ownerID int64) (*Book, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", common.ErrValidation)
	}
	if len(title) < 2 {
		return nil, fmt.Errorf("%w: title must be at least 2 characters long", common.ErrValidation)
	}
	if author == "" {
		return nil, fmt.Errorf("%w: author cannot be empty", common.ErrValidation)
	}
	if genre == "" {
		genre = "Unknown"
	}
	if !validGenre(genre) {
		return nil, fmt.Errorf("%w: unknown genre %q", common.ErrValidation, genre)
	}
	if visibility != VisibilityPublic && visibility != VisibilityPrivate {
		return nil, fmt.Errorf("%w: visibility must be public or private", common.ErrValidation)
	}
	return &Book{
		Title:      title,
		Author:     author,
		Genre:      genre,
		Visibility: visibility,
		OwnerID:    ownerID,
	}, nil
}

func validGenre(genre string) bool {
	for _, g := range ValidGenres {
		if g == genre {
			return true
		}
	}
	return false
}

// Snapshot returns the minimal projection the access engine needs.
func (b *Book) Snapshot() BookSnapshot {
	return BookSnapshot{OwnerID: b.OwnerID, Visibility: b.Visibility}
}

// BookSnapshot is the read-only projection of a book used for authorization
// decisions without further storage access.
type BookSnapshot struct {
	OwnerID    int64
	Visibility Visibility
}
