package services

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/auth"
	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/permissions"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/filestorage"
	"github.com/campuslink/campuslink/internal/pkg/validation"
	"github.com/campuslink/campuslink/internal/tenant"
)

// marketplaceRepository is the slice of the marketplace repository this
// service consumes.
type marketplaceRepository interface {
	Create(ctx context.Context, item *models.MarketplaceItem) error
	GetByID(ctx context.Context, id string) (*models.MarketplaceItem, error)
	List(ctx context.Context, collegeDomain, search string, includeSold bool, offset uint64, limit int) ([]*models.MarketplaceItem, int64, error)
	Update(ctx context.Context, item *models.MarketplaceItem) error
	SetImageURL(ctx context.Context, id, sellerID string, imageURL *string) (*string, error)
	Delete(ctx context.Context, id, sellerID string) error
}

// savedStateReader reports and flips saved state for listings.
type savedStateReader interface {
	Toggle(ctx context.Context, item *models.SavedItem) (bool, error)
	IsSaved(ctx context.Context, profileID, itemType, itemID string) (bool, error)
}

// MarketplaceService defines the interface for marketplace operations
type MarketplaceService interface {
	Create(ctx context.Context, caller *auth.Identity, req *dto.CreateItemRequest) (*models.MarketplaceItem, error)
	Get(ctx context.Context, caller *auth.Identity, itemID string) (*models.MarketplaceItem, bool, error)
	List(ctx context.Context, caller *auth.Identity, search string, includeSold bool, offset uint64, limit int) ([]*models.MarketplaceItem, int64, error)
	Update(ctx context.Context, caller *auth.Identity, itemID string, req *dto.UpdateItemRequest) (*models.MarketplaceItem, error)
	MarkSold(ctx context.Context, caller *auth.Identity, itemID string) (*models.MarketplaceItem, error)
	UploadImage(ctx context.Context, caller *auth.Identity, itemID string, file *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, caller *auth.Identity, itemID string) error
	ToggleSave(ctx context.Context, caller *auth.Identity, itemID string) (bool, error)
}

type marketplaceServiceImpl struct {
	items   marketplaceRepository
	saves   savedStateReader
	guard   *tenant.Guard
	storage filestorage.Storage
	logger  zerolog.Logger
}

// NewMarketplaceService creates a new MarketplaceService
func NewMarketplaceService(
	items marketplaceRepository,
	saves savedStateReader,
	guard *tenant.Guard,
	storage filestorage.Storage,
	logger zerolog.Logger,
) MarketplaceService {
	return &marketplaceServiceImpl{
		items:   items,
		saves:   saves,
		guard:   guard,
		storage: storage,
		logger:  logger,
	}
}

// Create publishes a listing in the caller's tenant
func (s *marketplaceServiceImpl) Create(ctx context.Context, caller *auth.Identity, req *dto.CreateItemRequest) (*models.MarketplaceItem, error) {
	if !caller.Can(permissions.CapListMarketplaceItem) {
		return nil, apperrors.NewForbiddenError("your role cannot list marketplace items")
	}
	title, err := validation.RequiredText("title", req.Title, validation.TitleMaxLength)
	if err != nil {
		return nil, err
	}
	if req.PriceCents < 0 {
		return nil, apperrors.NewValidationError("priceCents must not be negative")
	}

	item := &models.MarketplaceItem{
		ID:            uuid.New().String(),
		SellerID:      caller.UserID,
		Title:         title,
		Description:   req.Description,
		PriceCents:    req.PriceCents,
		CollegeDomain: caller.CollegeDomain,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// getVisible loads a listing and applies the tenant check
func (s *marketplaceServiceImpl) getVisible(ctx context.Context, caller *auth.Identity, itemID string) (*models.MarketplaceItem, error) {
	if err := validation.ResourceID(itemID); err != nil {
		return nil, err
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !s.guard.SameTenant(ctx, caller.CollegeDomain, item.CollegeDomain) {
		return nil, apperrors.ErrResourceNotFound
	}
	return item, nil
}

// Get returns a listing visible to the caller, with the caller's saved state
func (s *marketplaceServiceImpl) Get(ctx context.Context, caller *auth.Identity, itemID string) (*models.MarketplaceItem, bool, error) {
	item, err := s.getVisible(ctx, caller, itemID)
	if err != nil {
		return nil, false, err
	}
	saved, err := s.saves.IsSaved(ctx, caller.UserID, "marketplace_item", itemID)
	if err != nil {
		return nil, false, err
	}
	return item, saved, nil
}

// List returns the caller's tenant listings
func (s *marketplaceServiceImpl) List(ctx context.Context, caller *auth.Identity, search string, includeSold bool, offset uint64, limit int) ([]*models.MarketplaceItem, int64, error) {
	return s.items.List(ctx, caller.CollegeDomain, search, includeSold, offset, limit)
}

// Update edits a listing. Only the seller may edit.
func (s *marketplaceServiceImpl) Update(ctx context.Context, caller *auth.Identity, itemID string, req *dto.UpdateItemRequest) (*models.MarketplaceItem, error) {
	item, err := s.getVisible(ctx, caller, itemID)
	if err != nil {
		return nil, err
	}
	if item.SellerID != caller.UserID {
		return nil, apperrors.NewForbiddenError("only the seller can edit a listing")
	}

	if req.Title != nil {
		title, err := validation.RequiredText("title", *req.Title, validation.TitleMaxLength)
		if err != nil {
			return nil, err
		}
		item.Title = title
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return nil, apperrors.NewValidationError("priceCents must not be negative")
		}
		item.PriceCents = *req.PriceCents
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// MarkSold flags a listing as sold
func (s *marketplaceServiceImpl) MarkSold(ctx context.Context, caller *auth.Identity, itemID string) (*models.MarketplaceItem, error) {
	item, err := s.getVisible(ctx, caller, itemID)
	if err != nil {
		return nil, err
	}
	if item.SellerID != caller.UserID {
		return nil, apperrors.NewForbiddenError("only the seller can mark a listing sold")
	}
	item.IsSold = true
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UploadImage stores a listing image and cleans up the replaced file in the
// background.
func (s *marketplaceServiceImpl) UploadImage(ctx context.Context, caller *auth.Identity, itemID string, file *multipart.FileHeader) (string, error) {
	if _, err := s.getVisible(ctx, caller, itemID); err != nil {
		return "", err
	}

	url, err := s.storage.Save(file, filestorage.KindListing)
	if err != nil {
		return "", err
	}
	previous, err := s.items.SetImageURL(ctx, itemID, caller.UserID, &url)
	if err != nil {
		goBackground(s.logger, "delete_orphaned_listing_image", func(context.Context) error {
			return s.storage.Delete(url)
		})
		return "", err
	}
	if previous != nil {
		old := *previous
		goBackground(s.logger, "delete_replaced_listing_image", func(context.Context) error {
			return s.storage.Delete(old)
		})
	}
	return url, nil
}

// Delete removes a listing owned by the caller
func (s *marketplaceServiceImpl) Delete(ctx context.Context, caller *auth.Identity, itemID string) error {
	item, err := s.getVisible(ctx, caller, itemID)
	if err != nil {
		return err
	}
	if err := s.items.Delete(ctx, itemID, caller.UserID); err != nil {
		return err
	}
	if item.ImageURL != nil {
		old := *item.ImageURL
		goBackground(s.logger, "delete_listing_image", func(context.Context) error {
			return s.storage.Delete(old)
		})
	}
	return nil
}

// ToggleSave flips the caller's saved state for a listing. The tenant check
// runs first: a cross-tenant listing cannot be saved.
func (s *marketplaceServiceImpl) ToggleSave(ctx context.Context, caller *auth.Identity, itemID string) (bool, error) {
	if _, err := s.getVisible(ctx, caller, itemID); err != nil {
		return false, err
	}
	return s.saves.Toggle(ctx, &models.SavedItem{
		ID:        uuid.New().String(),
		ProfileID: caller.UserID,
		ItemType:  "marketplace_item",
		ItemID:    itemID,
	})
}
