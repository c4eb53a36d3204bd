package models

import "time"

// Session is a server-stored refresh token. Access tokens are stateless
// JWTs; sessions are what gets rotated on refresh and cleared when a user
// disappears under a live token.
type Session struct {
	Token   string
	UserID  int64
	Expires time.Time
}
