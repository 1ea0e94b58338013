package models

import "time"

// Event defines the event model based on the 'events' table
type Event struct {
	ID            string     `json:"id" db:"id"`
	OrganizerID   string     `json:"organizerId" db:"organizer_id"`
	Title         string     `json:"title" db:"title"`
	Description   *string    `json:"description,omitempty" db:"description"`
	Location      *string    `json:"location,omitempty" db:"location"`
	CollegeDomain string     `json:"collegeDomain" db:"college_domain"`
	StartsAt      time.Time  `json:"startsAt" db:"starts_at"`
	EndsAt        *time.Time `json:"endsAt,omitempty" db:"ends_at"`
	Capacity      *int       `json:"capacity,omitempty" db:"capacity"`
	AttendeeCount int        `json:"attendeeCount" db:"attendee_count"`
	IsCancelled   bool       `json:"isCancelled" db:"is_cancelled"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`

	Organizer *Profile `json:"organizer,omitempty"`
}

// EventRSVP defines an attendance row. One per (event, profile) pair.
type EventRSVP struct {
	ID        string    `json:"id" db:"id"`
	EventID   string    `json:"eventId" db:"event_id"`
	ProfileID string    `json:"profileId" db:"profile_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
