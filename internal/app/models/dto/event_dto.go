package dto

import "time"

// CreateEventRequest creates an event
type CreateEventRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    time.Time  `json:"startsAt" binding:"required"`
	EndsAt      *time.Time `json:"endsAt"`
	Capacity    *int       `json:"capacity"`
}

// UpdateEventRequest edits an event; nil fields are left unchanged
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	Capacity    *int       `json:"capacity"`
}

// EventResponse is the wire shape of an event
type EventResponse struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Description   *string               `json:"description,omitempty"`
	Location      *string               `json:"location,omitempty"`
	StartsAt      time.Time             `json:"startsAt"`
	EndsAt        *time.Time            `json:"endsAt,omitempty"`
	Capacity      *int                  `json:"capacity,omitempty"`
	AttendeeCount int                   `json:"attendeeCount"`
	IsCancelled   bool                  `json:"isCancelled"`
	Organizer     *ProfileBasicResponse `json:"organizer,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// EventListResponse is a page of events
type EventListResponse struct {
	Events         []EventResponse `json:"events"`
	PaginationInfo PaginationInfo  `json:"pagination"`
}
