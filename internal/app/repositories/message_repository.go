package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campuslink/internal/app/models"
)

// MessageRepository handles database operations for direct messages
type MessageRepository struct {
	DB *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{DB: db}
}

// Create inserts a new message row
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, content, college_domain)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.DB.QueryRow(ctx, query, m.ID, m.SenderID, m.ReceiverID, m.Content, m.CollegeDomain).
		Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating message: %w", err)
	}
	return nil
}

// ListBetween returns the message history between two users, newest first,
// with the sender profile denormalized.
func (r *MessageRepository) ListBetween(ctx context.Context, userA, userB string, offset uint64, limit int) ([]*models.Message, int64, error) {
	query := `
		SELECT m.id, m.sender_id, m.receiver_id, m.content, m.college_domain, m.is_read, m.created_at,
		       p.id, p.full_name, p.headline, p.role, p.avatar_url
		FROM messages m
		JOIN profiles p ON p.id = m.sender_id
		WHERE (m.sender_id = $1 AND m.receiver_id = $2)
		   OR (m.sender_id = $2 AND m.receiver_id = $1)
		ORDER BY m.created_at DESC
		OFFSET $3 LIMIT $4
	`
	rows, err := r.DB.Query(ctx, query, userA, userB, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var m models.Message
		var sender models.Profile
		if err := rows.Scan(
			&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CollegeDomain, &m.IsRead, &m.CreatedAt,
			&sender.ID, &sender.FullName, &sender.Headline, &sender.Role, &sender.AvatarURL,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning message row: %w", err)
		}
		m.Sender = &sender
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating message rows: %w", err)
	}

	var total int64
	countQuery := `
		SELECT COUNT(*) FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
	`
	if err := r.DB.QueryRow(ctx, countQuery, userA, userB).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting messages: %w", err)
	}

	return messages, total, nil
}

// MarkRead marks all messages from peer to user as read
func (r *MessageRepository) MarkRead(ctx context.Context, userID, peerID string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE messages SET is_read = TRUE WHERE receiver_id = $1 AND sender_id = $2 AND is_read = FALSE`,
		userID, peerID)
	if err != nil {
		return fmt.Errorf("error marking messages read: %w", err)
	}
	return nil
}

// Conversations summarizes the caller's conversations: one row per peer with
// the latest message and the unread count.
func (r *MessageRepository) Conversations(ctx context.Context, userID string) ([]*models.Conversation, error) {
	query := `
		WITH latest AS (
			SELECT DISTINCT ON (peer)
				CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS peer,
				id, sender_id, receiver_id, content, is_read, created_at
			FROM messages
			WHERE sender_id = $1 OR receiver_id = $1
			ORDER BY peer, created_at DESC
		)
		SELECT l.peer, l.id, l.sender_id, l.receiver_id, l.content, l.is_read, l.created_at,
		       p.full_name, p.headline, p.role, p.avatar_url,
		       (SELECT COUNT(*) FROM messages u
		         WHERE u.receiver_id = $1 AND u.sender_id = l.peer AND u.is_read = FALSE)
		FROM latest l
		JOIN profiles p ON p.id = l.peer
		ORDER BY l.created_at DESC
	`
	rows, err := r.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*models.Conversation
	for rows.Next() {
		var conv models.Conversation
		var msg models.Message
		var peer models.Profile
		if err := rows.Scan(
			&conv.PeerID, &msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.IsRead, &msg.CreatedAt,
			&peer.FullName, &peer.Headline, &peer.Role, &peer.AvatarURL,
			&conv.UnreadCount,
		); err != nil {
			return nil, fmt.Errorf("error scanning conversation row: %w", err)
		}
		peer.ID = conv.PeerID
		conv.Peer = &peer
		conv.LastMessage = &msg
		conv.UpdatedAt = msg.CreatedAt
		conversations = append(conversations, &conv)
	}
	return conversations, rows.Err()
}
