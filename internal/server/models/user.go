// Package models defines server-side data models persisted in the database.
// Constructors validate fields up front and return an error instead of
// allowing an invalid value to be assigned later.
package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shelfshare/shelfshare/internal/common"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
)

// User is a registered identity. Username and email are unique across the
// store; PasswordHash is an opaque credential reference (bcrypt).
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser validates username and email and returns an unsaved User.
func NewUser(username, email, passwordHash string) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", common.ErrValidation)
	}
	if !usernameRe.MatchString(username) {
		return nil, fmt.Errorf("%w: username can only contain letters, numbers, and underscores", common.ErrValidation)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", common.ErrValidation)
	}
	if !emailRe.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", common.ErrValidation)
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("%w: password hash cannot be empty", common.ErrValidation)
	}
	return &User{Username: username, Email: email, PasswordHash: passwordHash}, nil
}
