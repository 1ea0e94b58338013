package models

import "time"

// MarketplaceItem defines a listing based on the 'marketplace_items' table
type MarketplaceItem struct {
	ID            string    `json:"id" db:"id"`
	SellerID      string    `json:"sellerId" db:"seller_id"`
	Title         string    `json:"title" db:"title"`
	Description   *string   `json:"description,omitempty" db:"description"`
	PriceCents    int64     `json:"priceCents" db:"price_cents"`
	CollegeDomain string    `json:"collegeDomain" db:"college_domain"`
	ImageURL      *string   `json:"imageUrl,omitempty" db:"image_url"`
	IsSold        bool      `json:"isSold" db:"is_sold"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	Seller *Profile `json:"seller,omitempty"`
}

// Report defines a moderation report against a resource
type Report struct {
	ID           string    `json:"id" db:"id"`
	ReporterID   string    `json:"reporterId" db:"reporter_id"`
	ResourceType string    `json:"resourceType" db:"resource_type"`
	ResourceID   string    `json:"resourceId" db:"resource_id"`
	Reason       string    `json:"reason" db:"reason"`
	Resolved     bool      `json:"resolved" db:"resolved"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
