package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/dberrors"
)

// ConnectionRepository handles database operations for connection edges
type ConnectionRepository struct {
	DB *pgxpool.Pool
}

// NewConnectionRepository creates a new ConnectionRepository
func NewConnectionRepository(db *pgxpool.Pool) *ConnectionRepository {
	return &ConnectionRepository{DB: db}
}

// Create inserts a new pending connection request. The unique index on the
// unordered pair rejects a second request while one is pending or accepted.
func (r *ConnectionRepository) Create(ctx context.Context, c *models.Connection) error {
	query := `
		INSERT INTO connections (id, requester_id, receiver_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query, c.ID, c.RequesterID, c.ReceiverID, c.Status).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDuplicateRequest
		}
		return fmt.Errorf("error creating connection: %w", err)
	}
	return nil
}

// GetByID retrieves a connection by its identifier
func (r *ConnectionRepository) GetByID(ctx context.Context, id string) (*models.Connection, error) {
	query := `
		SELECT id, requester_id, receiver_id, status, created_at, updated_at
		FROM connections WHERE id = $1
	`
	var c models.Connection
	err := r.DB.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.RequesterID, &c.ReceiverID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrConnectionNotFound
		}
		return nil, fmt.Errorf("error retrieving connection: %w", err)
	}
	return &c, nil
}

// GetLatestBetween returns the most-recently-updated connection row between
// two users regardless of direction. Historical rows may exist (rejected then
// re-requested); only the latest one decides eligibility.
func (r *ConnectionRepository) GetLatestBetween(ctx context.Context, userA, userB string) (*models.Connection, error) {
	query := `
		SELECT id, requester_id, receiver_id, status, created_at, updated_at
		FROM connections
		WHERE (requester_id = $1 AND receiver_id = $2)
		   OR (requester_id = $2 AND receiver_id = $1)
		ORDER BY updated_at DESC
		LIMIT 1
	`
	var c models.Connection
	err := r.DB.QueryRow(ctx, query, userA, userB).
		Scan(&c.ID, &c.RequesterID, &c.ReceiverID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrConnectionNotFound
		}
		return nil, fmt.Errorf("error retrieving connection between users: %w", err)
	}
	return &c, nil
}

// UpdateStatus transitions a connection's status
func (r *ConnectionRepository) UpdateStatus(ctx context.Context, id string, status models.ConnectionStatus) error {
	result, err := r.DB.Exec(ctx,
		`UPDATE connections SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("error updating connection status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrConnectionNotFound
	}
	return nil
}

// Rerequest returns a rejected edge to pending under a fresh requester. The
// status guard keeps a racing accept or block from being overwritten.
func (r *ConnectionRepository) Rerequest(ctx context.Context, id, requesterID, receiverID string) error {
	result, err := r.DB.Exec(ctx, `
		UPDATE connections
		SET requester_id = $2, receiver_id = $3, status = 'pending', updated_at = NOW()
		WHERE id = $1 AND status = 'rejected'
	`, id, requesterID, receiverID)
	if err != nil {
		return fmt.Errorf("error re-requesting connection: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrDuplicateRequest
	}
	return nil
}

// SetBlocked rewrites an edge as a block owned by blockerID
func (r *ConnectionRepository) SetBlocked(ctx context.Context, id, blockerID, blockedID string) error {
	result, err := r.DB.Exec(ctx, `
		UPDATE connections
		SET requester_id = $2, receiver_id = $3, status = 'blocked', updated_at = NOW()
		WHERE id = $1
	`, id, blockerID, blockedID)
	if err != nil {
		return fmt.Errorf("error blocking connection: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrConnectionNotFound
	}
	return nil
}

// Delete removes a connection row
func (r *ConnectionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.Exec(ctx, `DELETE FROM connections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting connection: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrConnectionNotFound
	}
	return nil
}

// ListForUser lists a user's connections with the peer profile denormalized.
// status filters when non-empty.
func (r *ConnectionRepository) ListForUser(ctx context.Context, userID string, status models.ConnectionStatus, offset uint64, limit int) ([]*models.Connection, int64, error) {
	builder := squirrel.Select(
		"c.id", "c.requester_id", "c.receiver_id", "c.status", "c.created_at", "c.updated_at",
		"p.id", "p.full_name", "p.headline", "p.role", "p.avatar_url",
	).
		From("connections c").
		Join("profiles p ON p.id = CASE WHEN c.requester_id = ? THEN c.receiver_id ELSE c.requester_id END", userID).
		Where(squirrel.Or{
			squirrel.Eq{"c.requester_id": userID},
			squirrel.Eq{"c.receiver_id": userID},
		}).
		OrderBy("c.updated_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	countBuilder := squirrel.Select("COUNT(*)").
		From("connections c").
		Where(squirrel.Or{
			squirrel.Eq{"c.requester_id": userID},
			squirrel.Eq{"c.receiver_id": userID},
		}).
		PlaceholderFormat(squirrel.Dollar)

	if status != "" {
		builder = builder.Where(squirrel.Eq{"c.status": status})
		countBuilder = countBuilder.Where(squirrel.Eq{"c.status": status})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var connections []*models.Connection
	for rows.Next() {
		var c models.Connection
		var peer models.Profile
		if err := rows.Scan(
			&c.ID, &c.RequesterID, &c.ReceiverID, &c.Status, &c.CreatedAt, &c.UpdatedAt,
			&peer.ID, &peer.FullName, &peer.Headline, &peer.Role, &peer.AvatarURL,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning connection row: %w", err)
		}
		if peer.ID == c.RequesterID {
			c.Requester = &peer
		} else {
			c.Receiver = &peer
		}
		connections = append(connections, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating connection rows: %w", err)
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count SQL: %w", err)
	}
	var total int64
	if err := r.DB.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting connections: %w", err)
	}

	return connections, total, nil
}

// CountMutual is the hand-rolled fallback for the mutual-connections stored
// procedure: peers connected (accepted) to both users.
func (r *ConnectionRepository) CountMutual(ctx context.Context, userA, userB string) (int64, error) {
	query := `
		WITH peers AS (
			SELECT CASE WHEN requester_id = $1 THEN receiver_id ELSE requester_id END AS peer
			FROM connections
			WHERE status = 'accepted' AND (requester_id = $1 OR receiver_id = $1)
		)
		SELECT COUNT(*)
		FROM connections c
		JOIN peers ON peers.peer = CASE WHEN c.requester_id = $2 THEN c.receiver_id ELSE c.requester_id END
		WHERE c.status = 'accepted' AND (c.requester_id = $2 OR c.receiver_id = $2)
	`
	var count int64
	if err := r.DB.QueryRow(ctx, query, userA, userB).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting mutual connections: %w", err)
	}
	return count, nil
}
