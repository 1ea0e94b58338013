package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/dberrors"
)

// SavedItemRepository handles database operations for saved/bookmarked items
type SavedItemRepository struct {
	DB *pgxpool.Pool
}

// NewSavedItemRepository creates a new SavedItemRepository
func NewSavedItemRepository(db *pgxpool.Pool) *SavedItemRepository {
	return &SavedItemRepository{DB: db}
}

// Toggle saves the item if it is not saved, or removes the save if it is.
// Returns the resulting state.
func (r *SavedItemRepository) Toggle(ctx context.Context, item *models.SavedItem) (saved bool, err error) {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM saved_items WHERE profile_id = $1 AND item_type = $2 AND item_id = $3`,
		item.ProfileID, item.ItemType, item.ItemID)
	if err != nil {
		return false, fmt.Errorf("error toggling saved item: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	query := `
		INSERT INTO saved_items (id, profile_id, item_type, item_id)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.DB.Exec(ctx, query, item.ID, item.ProfileID, item.ItemType, item.ItemID); err != nil {
		if dberrors.IsUniqueViolation(err) {
			// Concurrent toggle won the insert; treat as saved.
			return true, nil
		}
		if dberrors.IsForeignKeyViolation(err) {
			return false, apperrors.ErrResourceNotFound
		}
		return false, fmt.Errorf("error inserting saved item: %w", err)
	}
	return true, nil
}

// IsSaved reports whether the profile has saved the item
func (r *SavedItemRepository) IsSaved(ctx context.Context, profileID, itemType, itemID string) (bool, error) {
	var saved bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM saved_items
			WHERE profile_id = $1 AND item_type = $2 AND item_id = $3
		)
	`
	if err := r.DB.QueryRow(ctx, query, profileID, itemType, itemID).Scan(&saved); err != nil {
		return false, fmt.Errorf("error checking saved state: %w", err)
	}
	return saved, nil
}

// ListForProfile returns the profile's saved items, newest first, optionally
// filtered by item type.
func (r *SavedItemRepository) ListForProfile(ctx context.Context, profileID, itemType string) ([]*models.SavedItem, error) {
	query := `
		SELECT id, profile_id, item_type, item_id, created_at
		FROM saved_items
		WHERE profile_id = $1 AND ($2 = '' OR item_type = $2)
		ORDER BY created_at DESC
	`
	rows, err := r.DB.Query(ctx, query, profileID, itemType)
	if err != nil {
		return nil, fmt.Errorf("error listing saved items: %w", err)
	}
	defer rows.Close()

	var items []*models.SavedItem
	for rows.Next() {
		var item models.SavedItem
		if err := rows.Scan(&item.ID, &item.ProfileID, &item.ItemType, &item.ItemID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning saved item row: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}
