package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/shelfshare/shelfshare/internal/common"
	"github.com/shelfshare/shelfshare/internal/server/models"
	"github.com/shelfshare/shelfshare/internal/server/repositories/repomanager"
	"github.com/shelfshare/shelfshare/internal/server/repositories/users"
)

// pairLocks serializes friendship mutations per unordered user pair, so two
// concurrent requests from opposite directions cannot both pass the
// existence check. The storage unique index over (LEAST, GREATEST) is the
// backstop when the service runs in more than one process.
type pairLocks struct {
	mu    sync.Mutex
	locks map[[2]int64]*sync.Mutex
}

func newPairLocks() *pairLocks {
	return &pairLocks{locks: make(map[[2]int64]*sync.Mutex)}
}

func (p *pairLocks) lock(a, b int64) func() {
	if a > b {
		a, b = b, a
	}
	key := [2]int64{a, b}

	p.mu.Lock()
	l, ok := p.locks[key]
	if !ok {
		l = &sync.Mutex{}
		p.locks[key] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// FriendshipService owns the friendship graph: requests, responses, removal
// and relationship queries.
type FriendshipService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	pairs       *pairLocks
}

// NewFriendshipService wires the service from shared infrastructure.
func NewFriendshipService(db *sql.DB, m repomanager.RepositoryManager) *FriendshipService {
	return &FriendshipService{
		db:          db,
		repomanager: m,
		pairs:       newPairLocks(),
	}
}

// SendRequest creates a pending edge from requester to recipient.
// Outcomes for an existing edge are distinguished precisely:
//   - accepted edge          → ErrAlreadyFriends
//   - own pending request    → ErrDuplicateRequest
//   - pending from the other → ErrRequestPending (respond to it instead)
func (s *FriendshipService) SendRequest(ctx context.Context, requesterID, recipientID int64) (*models.Friendship, error) {
	edge, err := models.NewFriendship(requesterID, recipientID)
	if err != nil {
		return nil, err
	}

	userRepo := s.repomanager.Users(s.db)
	if _, err := userRepo.GetByID(ctx, recipientID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: recipient", common.ErrNotFound)
		}
		return nil, err
	}

	unlock := s.pairs.lock(requesterID, recipientID)
	defer unlock()

	repo := s.repomanager.Friendships(s.db)

	existing, err := repo.GetByPair(ctx, requesterID, recipientID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, existingEdgeError(existing, requesterID)
	}

	created, err := repo.Create(ctx, edge)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			// lost a cross-process race; re-read to report precisely
			if existing, gerr := repo.GetByPair(ctx, requesterID, recipientID); gerr == nil {
				return nil, existingEdgeError(existing, requesterID)
			}
			return nil, common.ErrDuplicateRequest
		}
		return nil, err
	}

	return created, nil
}

func existingEdgeError(edge *models.Friendship, requesterID int64) error {
	switch {
	case edge.Status == models.StatusAccepted:
		return common.ErrAlreadyFriends
	case edge.RequesterID == requesterID:
		return common.ErrDuplicateRequest
	default:
		return common.ErrRequestPending
	}
}

// Respond accepts or rejects a pending request. Only the recipient may
// respond; rejection deletes the edge so a later request starts fresh.
func (s *FriendshipService) Respond(ctx context.Context, actorID, friendshipID int64, accept bool) error {
	repo := s.repomanager.Friendships(s.db)

	// first read only locates the pair so the lock can be taken; the
	// checks run on a re-read under the lock
	edge, err := repo.GetByID(ctx, friendshipID)
	if err != nil {
		return err
	}

	unlock := s.pairs.lock(edge.RequesterID, edge.RecipientID)
	defer unlock()

	edge, err = repo.GetByID(ctx, friendshipID)
	if err != nil {
		return err
	}

	if edge.RecipientID != actorID {
		if !edge.Involves(actorID) {
			return common.ErrNotFound
		}
		return fmt.Errorf("%w: only the recipient can respond", common.ErrForbidden)
	}
	if edge.Status != models.StatusPending {
		return fmt.Errorf("%w: request is not pending", common.ErrInvalidState)
	}

	if accept {
		return repo.UpdateStatus(ctx, friendshipID, models.StatusAccepted)
	}
	return repo.Delete(ctx, friendshipID)
}

// Remove deletes the edge between the two users, whatever its status:
// unfriending an accepted edge and cancelling one's own pending request go
// through the same path. Either endpoint may remove it.
func (s *FriendshipService) Remove(ctx context.Context, actorID, otherID int64) error {
	unlock := s.pairs.lock(actorID, otherID)
	defer unlock()

	repo := s.repomanager.Friendships(s.db)

	edge, err := repo.GetByPair(ctx, actorID, otherID)
	if err != nil {
		return err
	}

	return repo.Delete(ctx, edge.ID)
}

// StatusOf reports the relationship between two users: accepted, pending, or
// none. It never errors on an absent edge.
func (s *FriendshipService) StatusOf(ctx context.Context, userA, userB int64) (models.FriendshipStatus, error) {
	if userA == userB {
		return models.StatusNone, fmt.Errorf("%w: same user", common.ErrInvalidTarget)
	}

	edge, err := s.repomanager.Friendships(s.db).GetByPair(ctx, userA, userB)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.StatusNone, nil
		}
		return models.StatusNone, err
	}

	return edge.Status, nil
}

// AreFriends reports whether an accepted edge connects the two users.
func (s *FriendshipService) AreFriends(ctx context.Context, userA, userB int64) (bool, error) {
	status, err := s.StatusOf(ctx, userA, userB)
	if err != nil {
		return false, err
	}
	return status == models.StatusAccepted, nil
}

// ListFriends returns the users connected to userID by accepted edges.
func (s *FriendshipService) ListFriends(ctx context.Context, userID int64) ([]*models.User, error) {
	edges, err := s.repomanager.Friendships(s.db).ListAcceptedFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.otherParties(ctx, s.repomanager.Users(s.db), edges, userID)
}

// ListPendingReceived returns requests awaiting userID's decision.
func (s *FriendshipService) ListPendingReceived(ctx context.Context, userID int64) ([]*models.Friendship, error) {
	return s.repomanager.Friendships(s.db).ListPendingReceived(ctx, userID)
}

// ListPendingSent returns userID's own outstanding requests.
func (s *FriendshipService) ListPendingSent(ctx context.Context, userID int64) ([]*models.Friendship, error) {
	return s.repomanager.Friendships(s.db).ListPendingSent(ctx, userID)
}

func (s *FriendshipService) otherParties(ctx context.Context, userRepo users.Repository, edges []*models.Friendship, userID int64) ([]*models.User, error) {
	result := make([]*models.User, 0, len(edges))
	for _, edge := range edges {
		user, err := userRepo.GetByID(ctx, edge.OtherParty(userID))
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, user)
	}
	return result, nil
}
