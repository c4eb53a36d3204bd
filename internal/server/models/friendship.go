package models

import (
	"fmt"
	"time"

	"github.com/shelfshare/shelfshare/internal/common"
)

// FriendshipStatus is the state of a friendship edge.
type FriendshipStatus string

const (
	// StatusPending means the request is awaiting the recipient's decision.
	StatusPending FriendshipStatus = "pending"
	// StatusAccepted means both parties are friends.
	StatusAccepted FriendshipStatus = "accepted"
	// StatusNone is a query result for "no edge between the pair".
	// It is never stored.
	StatusNone FriendshipStatus = "none"
)

// Friendship is a directed request / undirected relationship edge between
// two distinct users. At most one edge exists per unordered pair; a rejected
// or removed edge is deleted, not kept in a terminal state.
type Friendship struct {
	ID          int64
	RequesterID int64
	RecipientID int64
	Status      FriendshipStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewFriendship returns an unsaved pending edge. Self-friendship is rejected
// here so it is unrepresentable in storage.
func NewFriendship(requesterID, recipientID int64) (*Friendship, error) {
	if requesterID == recipientID {
		return nil, fmt.Errorf("%w: cannot befriend yourself", common.ErrInvalidTarget)
	}
	return &Friendship{
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      StatusPending,
	}, nil
}

// OtherParty returns the endpoint of the edge that is not userID.
func (f *Friendship) OtherParty(userID int64) int64 {
	if f.RequesterID == userID {
		return f.RecipientID
	}
	return f.RequesterID
}

// Involves reports whether userID is one of the edge's endpoints.
func (f *Friendship) Involves(userID int64) bool {
	return f.RequesterID == userID || f.RecipientID == userID
}
