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

// EventRepository handles database operations for events and RSVPs
type EventRepository struct {
	DB *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{DB: db}
}

// Create inserts a new event
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO events (id, organizer_id, title, description, location, college_domain, starts_at, ends_at, capacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		e.ID, e.OrganizerID, e.Title, e.Description, e.Location, e.CollegeDomain,
		e.StartsAt, e.EndsAt, e.Capacity).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// GetByID retrieves an event with the organizer profile joined
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := `
		SELECT e.id, e.organizer_id, e.title, e.description, e.location, e.college_domain,
		       e.starts_at, e.ends_at, e.capacity, e.attendee_count, e.is_cancelled,
		       e.created_at, e.updated_at,
		       p.full_name, p.headline, p.role, p.avatar_url
		FROM events e
		JOIN profiles p ON p.id = e.organizer_id
		WHERE e.id = $1
	`
	var e models.Event
	var organizer models.Profile
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.OrganizerID, &e.Title, &e.Description, &e.Location, &e.CollegeDomain,
		&e.StartsAt, &e.EndsAt, &e.Capacity, &e.AttendeeCount, &e.IsCancelled,
		&e.CreatedAt, &e.UpdatedAt,
		&organizer.FullName, &organizer.Headline, &organizer.Role, &organizer.AvatarURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}
	organizer.ID = e.OrganizerID
	e.Organizer = &organizer
	return &e, nil
}

// List returns a tenant's events. upcomingOnly filters out past and
// cancelled events.
func (r *EventRepository) List(ctx context.Context, collegeDomain string, upcomingOnly bool, offset uint64, limit int) ([]*models.Event, int64, error) {
	builder := squirrel.Select(
		"e.id", "e.organizer_id", "e.title", "e.description", "e.location", "e.college_domain",
		"e.starts_at", "e.ends_at", "e.capacity", "e.attendee_count", "e.is_cancelled",
		"e.created_at", "e.updated_at",
		"p.full_name", "p.headline", "p.role", "p.avatar_url",
	).
		From("events e").
		Join("profiles p ON p.id = e.organizer_id").
		Where(squirrel.Eq{"e.college_domain": collegeDomain}).
		OrderBy("e.starts_at ASC").
		Offset(offset).
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	countBuilder := squirrel.Select("COUNT(*)").
		From("events e").
		Where(squirrel.Eq{"e.college_domain": collegeDomain}).
		PlaceholderFormat(squirrel.Dollar)

	if upcomingOnly {
		builder = builder.Where("e.starts_at >= NOW()").Where(squirrel.Eq{"e.is_cancelled": false})
		countBuilder = countBuilder.Where("e.starts_at >= NOW()").Where(squirrel.Eq{"e.is_cancelled": false})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var e models.Event
		var organizer models.Profile
		if err := rows.Scan(
			&e.ID, &e.OrganizerID, &e.Title, &e.Description, &e.Location, &e.CollegeDomain,
			&e.StartsAt, &e.EndsAt, &e.Capacity, &e.AttendeeCount, &e.IsCancelled,
			&e.CreatedAt, &e.UpdatedAt,
			&organizer.FullName, &organizer.Headline, &organizer.Role, &organizer.AvatarURL,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning event row: %w", err)
		}
		organizer.ID = e.OrganizerID
		e.Organizer = &organizer
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating event rows: %w", err)
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count SQL: %w", err)
	}
	var total int64
	if err := r.DB.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting events: %w", err)
	}

	return events, total, nil
}

// Update edits event details owned by organizerID
func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	query := `
		UPDATE events
		SET title = $3, description = $4, location = $5, starts_at = $6, ends_at = $7,
		    capacity = $8, updated_at = NOW()
		WHERE id = $1 AND organizer_id = $2
	`
	result, err := r.DB.Exec(ctx, query,
		e.ID, e.OrganizerID, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.Capacity)
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// Cancel marks an event cancelled instead of deleting it, so attendees can
// still see what happened.
func (r *EventRepository) Cancel(ctx context.Context, id, organizerID string) error {
	result, err := r.DB.Exec(ctx,
		`UPDATE events SET is_cancelled = TRUE, updated_at = NOW() WHERE id = $1 AND organizer_id = $2`,
		id, organizerID)
	if err != nil {
		return fmt.Errorf("error cancelling event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// CreateRSVP registers attendance. The unique (event_id, profile_id) index
// makes a repeated RSVP a conflict rather than a duplicate row.
func (r *EventRepository) CreateRSVP(ctx context.Context, rsvp *models.EventRSVP) error {
	query := `
		INSERT INTO event_rsvps (id, event_id, profile_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	if err := r.DB.QueryRow(ctx, query, rsvp.ID, rsvp.EventID, rsvp.ProfileID).Scan(&rsvp.CreatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrResourceNotFound
		}
		return fmt.Errorf("error creating RSVP: %w", err)
	}
	return nil
}

// DeleteRSVP withdraws attendance
func (r *EventRepository) DeleteRSVP(ctx context.Context, eventID, profileID string) error {
	result, err := r.DB.Exec(ctx,
		`DELETE FROM event_rsvps WHERE event_id = $1 AND profile_id = $2`, eventID, profileID)
	if err != nil {
		return fmt.Errorf("error deleting RSVP: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// RecountAttendees recomputes the denormalized counter from RSVP rows so a
// retried RSVP step converges instead of drifting.
func (r *EventRepository) RecountAttendees(ctx context.Context, eventID string) (int, error) {
	query := `
		UPDATE events
		SET attendee_count = (SELECT COUNT(*) FROM event_rsvps WHERE event_id = $1)
		WHERE id = $1
		RETURNING attendee_count
	`
	var count int
	if err := r.DB.QueryRow(ctx, query, eventID).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrResourceNotFound
		}
		return 0, fmt.Errorf("error recounting attendees: %w", err)
	}
	return count, nil
}

// ListAttendees returns the profiles attending an event
func (r *EventRepository) ListAttendees(ctx context.Context, eventID string) ([]*models.Profile, error) {
	query := `
		SELECT p.id, p.full_name, p.headline, p.role, p.avatar_url
		FROM event_rsvps r
		JOIN profiles p ON p.id = r.profile_id
		WHERE r.event_id = $1
		ORDER BY r.created_at ASC
	`
	rows, err := r.DB.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("error listing attendees: %w", err)
	}
	defer rows.Close()

	var attendees []*models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.FullName, &p.Headline, &p.Role, &p.AvatarURL); err != nil {
			return nil, fmt.Errorf("error scanning attendee row: %w", err)
		}
		attendees = append(attendees, &p)
	}
	return attendees, rows.Err()
}
