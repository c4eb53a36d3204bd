package friendships

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shelfshare/shelfshare/internal/common"
	"github.com/shelfshare/shelfshare/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used by tests, including the
// concurrency properties of the friendship service. It enforces the same
// unordered-pair uniqueness the Postgres index does.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	edges  map[int64]*models.Friendship
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{edges: make(map[int64]*models.Friendship)}
}

func pairKey(a, b int64) [2]int64 {
	if a > b {
		a, b = b, a
	}
	return [2]int64{a, b}
}

func (r *InMemoryRepository) Create(ctx context.Context, edge *models.Friendship) (*models.Friendship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := pairKey(edge.RequesterID, edge.RecipientID)
	for _, e := range r.edges {
		if pairKey(e.RequesterID, e.RecipientID) == want {
			return nil, fmt.Errorf("%w: edge exists for pair", common.ErrAlreadyExists)
		}
	}

	r.nextID++
	stored := *edge
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.edges[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*models.Friendship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.edges[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *e
	return &out, nil
}

func (r *InMemoryRepository) GetByPair(ctx context.Context, userA, userB int64) (*models.Friendship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := pairKey(userA, userB)
	for _, e := range r.edges {
		if pairKey(e.RequesterID, e.RecipientID) == want {
			out := *e
			return &out, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id int64, status models.FriendshipStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.edges[id]
	if !ok {
		return common.ErrNotFound
	}
	e.Status = status
	e.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.edges[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.edges, id)
	return nil
}

func (r *InMemoryRepository) DeleteByUser(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, e := range r.edges {
		if e.Involves(userID) {
			delete(r.edges, id)
		}
	}
	return nil
}

func (r *InMemoryRepository) ListAcceptedFor(ctx context.Context, userID int64) ([]*models.Friendship, error) {
	return r.filter(func(e *models.Friendship) bool {
		return e.Involves(userID) && e.Status == models.StatusAccepted
	})
}

func (r *InMemoryRepository) ListPendingReceived(ctx context.Context, userID int64) ([]*models.Friendship, error) {
	return r.filter(func(e *models.Friendship) bool {
		return e.RecipientID == userID && e.Status == models.StatusPending
	})
}

func (r *InMemoryRepository) ListPendingSent(ctx context.Context, userID int64) ([]*models.Friendship, error) {
	return r.filter(func(e *models.Friendship) bool {
		return e.RequesterID == userID && e.Status == models.StatusPending
	})
}

// Len reports the number of stored edges; test helper.
func (r *InMemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.edges)
}

func (r *InMemoryRepository) filter(keep func(*models.Friendship) bool) ([]*models.Friendship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var edges []*models.Friendship
	for _, e := range r.edges {
		if keep(e) {
			out := *e
			edges = append(edges, &out)
		}
	}
	return edges, nil
}
