package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/shelfshare/shelfshare/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser_Valid(t *testing.T) {
	u, err := NewUser("alice_1", "alice@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, "alice_1", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
}

func TestNewUser_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		hash     string
	}{
		{"empty username", "", "a@b.com", "h"},
		{"username with spaces", "a b", "a@b.com", "h"},
		{"username with dash", "a-b", "a@b.com", "h"},
		{"empty email", "alice", "", "h"},
		{"malformed email", "alice", "not-an-email", "h"},
		{"empty hash", "alice", "a@b.com", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser(tc.username, tc.email, tc.hash)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestNewFriendship_SelfTarget(t *testing.T) {
	_, err := NewFriendship(7, 7)
	assert.ErrorIs(t, err, common.ErrInvalidTarget)
}

func TestNewFriendship_Pending(t *testing.T) {
	f, err := NewFriendship(1, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, f.Status)
	assert.Equal(t, int64(2), f.OtherParty(1))
	assert.Equal(t, int64(1), f.OtherParty(2))
	assert.True(t, f.Involves(1))
	assert.True(t, f.Involves(2))
	assert.False(t, f.Involves(3))
}

func TestNewBook_Valid(t *testing.T) {
	b, err := NewBook("Dune", "Frank Herbert", "Sci-Fi", VisibilityPrivate, 1)
	require.NoError(t, err)
	assert.Equal(t, VisibilityPrivate, b.Visibility)

	snap := b.Snapshot()
	assert.Equal(t, int64(1), snap.OwnerID)
	assert.Equal(t, VisibilityPrivate, snap.Visibility)
}

func TestNewBook_DefaultsGenre(t *testing.T) {
	b, err := NewBook("Dune", "Frank Herbert", "", VisibilityPublic, 1)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", b.Genre)
}

func TestNewBook_Invalid(t *testing.T) {
	_, err := NewBook("D", "Frank Herbert", "Sci-Fi", VisibilityPublic, 1)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = NewBook("Dune", "Frank Herbert", "Cookbook", VisibilityPublic, 1)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = NewBook("Dune", "Frank Herbert", "Sci-Fi", Visibility("friends"), 1)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestNewNote_PageNumber(t *testing.T) {
	_, err := NewNote("margin note", 0, 1, 1)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = NewNote("margin note", -3, 1, 1)
	assert.ErrorIs(t, err, common.ErrValidation)

	n, err := NewNote("margin note", 12, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 12, n.PageNumber)
	assert.Equal(t, int64(2), n.Snapshot().AuthorID)
}

func TestNewFileMetadata(t *testing.T) {
	fm, err := NewFileMetadata("dune.pdf", "pdf", 1024, 1, "books/2026/abc")
	require.NoError(t, err)
	assert.Equal(t, int64(1024), fm.Size)

	_, err = NewFileMetadata("du<ne.pdf", "pdf", 1024, 1, "k")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = NewFileMetadata("dune.exe", "exe", 1024, 1, "k")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = NewFileMetadata("dune.pdf", "pdf", 0, 1, "k")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = NewFileMetadata("dune.pdf", "pdf", MaxFileSize+1, 1, "k")
	require.Error(t, err)
	if !errors.Is(err, common.ErrValidation) || !strings.Contains(err.Error(), "100 MB") {
		t.Fatalf("expected size validation error, got %v", err)
	}
}
