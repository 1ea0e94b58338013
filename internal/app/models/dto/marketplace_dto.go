package dto

import "time"

// CreateItemRequest creates a marketplace listing
type CreateItemRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	PriceCents  int64   `json:"priceCents" binding:"min=0"`
}

// UpdateItemRequest edits a marketplace listing
type UpdateItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"priceCents"`
}

// ItemResponse is the wire shape of a marketplace listing
type ItemResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description *string               `json:"description,omitempty"`
	PriceCents  int64                 `json:"priceCents"`
	ImageURL    *string               `json:"imageUrl,omitempty"`
	IsSold      bool                  `json:"isSold"`
	Seller      *ProfileBasicResponse `json:"seller,omitempty"`
	SavedByCaller bool                `json:"savedByCaller"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// ItemListResponse is a page of marketplace listings
type ItemListResponse struct {
	Items          []ItemResponse `json:"items"`
	PaginationInfo PaginationInfo `json:"pagination"`
}

// SaveStateResponse reports the caller-visible saved state after toggle
type SaveStateResponse struct {
	ItemID string `json:"itemId"`
	Saved  bool   `json:"saved"`
}

// ReportRequest files a moderation report
type ReportRequest struct {
	ResourceType string `json:"resourceType" binding:"required"`
	ResourceID   string `json:"resourceId" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
}
