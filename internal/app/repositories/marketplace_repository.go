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
)

// MarketplaceRepository handles database operations for marketplace listings
type MarketplaceRepository struct {
	DB *pgxpool.Pool
}

// NewMarketplaceRepository creates a new MarketplaceRepository
func NewMarketplaceRepository(db *pgxpool.Pool) *MarketplaceRepository {
	return &MarketplaceRepository{DB: db}
}

// Create inserts a new listing
func (r *MarketplaceRepository) Create(ctx context.Context, item *models.MarketplaceItem) error {
	query := `
		INSERT INTO marketplace_items (id, seller_id, title, description, price_cents, college_domain, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		item.ID, item.SellerID, item.Title, item.Description, item.PriceCents,
		item.CollegeDomain, item.ImageURL).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating marketplace item: %w", err)
	}
	return nil
}

// GetByID retrieves a listing with the seller profile joined
func (r *MarketplaceRepository) GetByID(ctx context.Context, id string) (*models.MarketplaceItem, error) {
	query := `
		SELECT i.id, i.seller_id, i.title, i.description, i.price_cents, i.college_domain,
		       i.image_url, i.is_sold, i.created_at, i.updated_at,
		       p.full_name, p.headline, p.role, p.avatar_url
		FROM marketplace_items i
		JOIN profiles p ON p.id = i.seller_id
		WHERE i.id = $1
	`
	var item models.MarketplaceItem
	var seller models.Profile
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.SellerID, &item.Title, &item.Description, &item.PriceCents, &item.CollegeDomain,
		&item.ImageURL, &item.IsSold, &item.CreatedAt, &item.UpdatedAt,
		&seller.FullName, &seller.Headline, &seller.Role, &seller.AvatarURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving marketplace item: %w", err)
	}
	seller.ID = item.SellerID
	item.Seller = &seller
	return &item, nil
}

// List returns a tenant's listings filtered by search text and sold state
func (r *MarketplaceRepository) List(ctx context.Context, collegeDomain, search string, includeSold bool, offset uint64, limit int) ([]*models.MarketplaceItem, int64, error) {
	builder := squirrel.Select(
		"i.id", "i.seller_id", "i.title", "i.description", "i.price_cents", "i.college_domain",
		"i.image_url", "i.is_sold", "i.created_at", "i.updated_at",
		"p.full_name", "p.headline", "p.role", "p.avatar_url",
	).
		From("marketplace_items i").
		Join("profiles p ON p.id = i.seller_id").
		Where(squirrel.Eq{"i.college_domain": collegeDomain}).
		OrderBy("i.created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	countBuilder := squirrel.Select("COUNT(*)").
		From("marketplace_items i").
		Where(squirrel.Eq{"i.college_domain": collegeDomain}).
		PlaceholderFormat(squirrel.Dollar)

	if search != "" {
		like := squirrel.ILike{"i.title": "%" + search + "%"}
		builder = builder.Where(like)
		countBuilder = countBuilder.Where(like)
	}
	if !includeSold {
		builder = builder.Where(squirrel.Eq{"i.is_sold": false})
		countBuilder = countBuilder.Where(squirrel.Eq{"i.is_sold": false})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing marketplace items: %w", err)
	}
	defer rows.Close()

	var items []*models.MarketplaceItem
	for rows.Next() {
		var item models.MarketplaceItem
		var seller models.Profile
		if err := rows.Scan(
			&item.ID, &item.SellerID, &item.Title, &item.Description, &item.PriceCents, &item.CollegeDomain,
			&item.ImageURL, &item.IsSold, &item.CreatedAt, &item.UpdatedAt,
			&seller.FullName, &seller.Headline, &seller.Role, &seller.AvatarURL,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning marketplace row: %w", err)
		}
		seller.ID = item.SellerID
		item.Seller = &seller
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating marketplace rows: %w", err)
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count SQL: %w", err)
	}
	var total int64
	if err := r.DB.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting marketplace items: %w", err)
	}

	return items, total, nil
}

// Update edits a listing owned by sellerID
func (r *MarketplaceRepository) Update(ctx context.Context, item *models.MarketplaceItem) error {
	query := `
		UPDATE marketplace_items
		SET title = $3, description = $4, price_cents = $5, is_sold = $6, updated_at = NOW()
		WHERE id = $1 AND seller_id = $2
	`
	result, err := r.DB.Exec(ctx, query,
		item.ID, item.SellerID, item.Title, item.Description, item.PriceCents, item.IsSold)
	if err != nil {
		return fmt.Errorf("error updating marketplace item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// SetImageURL swaps the listing image and returns the previous URL so the
// caller can clean up the orphaned file.
func (r *MarketplaceRepository) SetImageURL(ctx context.Context, id, sellerID string, imageURL *string) (previous *string, err error) {
	query := `
		UPDATE marketplace_items new
		SET image_url = $3, updated_at = NOW()
		FROM marketplace_items old
		WHERE new.id = old.id AND new.id = $1 AND new.seller_id = $2
		RETURNING old.image_url
	`
	err = r.DB.QueryRow(ctx, query, id, sellerID, imageURL).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error setting listing image: %w", err)
	}
	return previous, nil
}

// Delete removes a listing owned by sellerID
func (r *MarketplaceRepository) Delete(ctx context.Context, id, sellerID string) error {
	result, err := r.DB.Exec(ctx,
		`DELETE FROM marketplace_items WHERE id = $1 AND seller_id = $2`, id, sellerID)
	if err != nil {
		return fmt.Errorf("error deleting marketplace item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
