package friendships

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shelfshare/shelfshare/internal/common"
	"github.com/shelfshare/shelfshare/internal/dbx"
	"github.com/shelfshare/shelfshare/internal/server/models"
	"github.com/shelfshare/shelfshare/internal/server/repositories/pgerr"
)

// PostgresRepository implements edge storage over dbx.DBTX. The
// friendships_pair_uniq index backs the one-edge-per-pair invariant; a
// violated insert comes back as common.ErrAlreadyExists.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const edgeColumns = `id, requester_id, recipient_id, status, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, edge *models.Friendship) (*models.Friendship, error) {
	query := `
		INSERT INTO friendships (requester_id, recipient_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		edge.RequesterID, edge.RecipientID, edge.Status).
		Scan(&edge.ID, &edge.CreatedAt, &edge.UpdatedAt)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: edge exists for pair", common.ErrAlreadyExists)
		}
		return nil, pgerr.Wrap(err)
	}
	return edge, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Friendship, error) {
	query := `
		SELECT ` + edgeColumns + ` FROM friendships
		WHERE id = $1
	`
	return scanEdge(r.db.QueryRowContext(ctx, query, id))
}

// GetByPair checks both orderings; the pair is unordered even though the
// columns are not.
func (r *PostgresRepository) GetByPair(ctx context.Context, userA, userB int64) (*models.Friendship, error) {
	query := `
		SELECT ` + edgeColumns + ` FROM friendships
		WHERE (requester_id = $1 AND recipient_id = $2)
		   OR (requester_id = $2 AND recipient_id = $1)
	`
	return scanEdge(r.db.QueryRowContext(ctx, query, userA, userB))
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status models.FriendshipStatus) error {
	query := `
		UPDATE friendships SET status = $2, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return pgerr.Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM friendships
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return pgerr.Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID int64) error {
	query := `
		DELETE FROM friendships
		WHERE requester_id = $1 OR recipient_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return pgerr.Wrap(err)
	}
	return nil
}

func (r *PostgresRepository) ListAcceptedFor(ctx context.Context, userID int64) ([]*models.Friendship, error) {
	query := `
		SELECT ` + edgeColumns + ` FROM friendships
		WHERE (requester_id = $1 OR recipient_id = $1) AND status = $2
		ORDER BY created_at
	`
	return r.list(ctx, query, userID, models.StatusAccepted)
}

func (r *PostgresRepository) ListPendingReceived(ctx context.Context, userID int64) ([]*models.Friendship, error) {
	query := `
		SELECT ` + edgeColumns + ` FROM friendships
		WHERE recipient_id = $1 AND status = $2
		ORDER BY created_at
	`
	return r.list(ctx, query, userID, models.StatusPending)
}

func (r *PostgresRepository) ListPendingSent(ctx context.Context, userID int64) ([]*models.Friendship, error) {
	query := `
		SELECT ` + edgeColumns + ` FROM friendships
		WHERE requester_id = $1 AND status = $2
		ORDER BY created_at
	`
	return r.list(ctx, query, userID, models.StatusPending)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Friendship, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	var edges []*models.Friendship
	for rows.Next() {
		edge := &models.Friendship{}
		if err := rows.Scan(&edge.ID, &edge.RequesterID, &edge.RecipientID,
			&edge.Status, &edge.CreatedAt, &edge.UpdatedAt); err != nil {
			return nil, pgerr.Wrap(err)
		}
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return edges, nil
}

func scanEdge(row *sql.Row) (*models.Friendship, error) {
	edge := &models.Friendship{}
	err := row.Scan(&edge.ID, &edge.RequesterID, &edge.RecipientID,
		&edge.Status, &edge.CreatedAt, &edge.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, pgerr.Wrap(err)
	}
	return edge, nil
}
