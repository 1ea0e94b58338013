package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

// TokenRepository handles database operations for refresh and email
// verification tokens
type TokenRepository struct {
	DB *pgxpool.Pool
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{DB: db}
}

// StoreRefreshToken persists an opaque refresh token for a user
func (r *TokenRepository) StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.DB.Exec(ctx, query, token, userID, expiresAt); err != nil {
		return fmt.Errorf("error storing refresh token: %w", err)
	}
	return nil
}

// ConsumeRefreshToken validates a refresh token, deletes it and returns the
// owning user ID. Single use: a replayed token fails.
func (r *TokenRepository) ConsumeRefreshToken(ctx context.Context, token string) (string, error) {
	query := `
		DELETE FROM refresh_tokens
		WHERE token = $1 AND expires_at > NOW()
		RETURNING user_id
	`
	var userID string
	err := r.DB.QueryRow(ctx, query, token).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrTokenInvalid
		}
		return "", fmt.Errorf("error consuming refresh token: %w", err)
	}
	return userID, nil
}

// RevokeRefreshTokens deletes all of a user's refresh tokens (logout
// everywhere, account deactivation)
func (r *TokenRepository) RevokeRefreshTokens(ctx context.Context, userID string) error {
	if _, err := r.DB.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("error revoking refresh tokens: %w", err)
	}
	return nil
}

// StoreVerificationToken persists an email verification token, replacing any
// earlier token for the same user.
func (r *TokenRepository) StoreVerificationToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO verification_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET token = $1, expires_at = $3
	`
	if _, err := r.DB.Exec(ctx, query, token, userID, expiresAt); err != nil {
		return fmt.Errorf("error storing verification token: %w", err)
	}
	return nil
}

// ConsumeVerificationToken validates and deletes a verification token,
// returning the owning user ID.
func (r *TokenRepository) ConsumeVerificationToken(ctx context.Context, token string) (string, error) {
	query := `
		DELETE FROM verification_tokens
		WHERE token = $1 AND expires_at > NOW()
		RETURNING user_id
	`
	var userID string
	err := r.DB.QueryRow(ctx, query, token).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrTokenInvalid
		}
		return "", fmt.Errorf("error consuming verification token: %w", err)
	}
	return userID, nil
}

// DeleteExpired clears expired tokens of both kinds. Run periodically.
func (r *TokenRepository) DeleteExpired(ctx context.Context) error {
	if _, err := r.DB.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= NOW()`); err != nil {
		return fmt.Errorf("error deleting expired refresh tokens: %w", err)
	}
	if _, err := r.DB.Exec(ctx, `DELETE FROM verification_tokens WHERE expires_at <= NOW()`); err != nil {
		return fmt.Errorf("error deleting expired verification tokens: %w", err)
	}
	return nil
}
