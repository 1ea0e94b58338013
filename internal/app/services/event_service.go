package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/auth"
	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/permissions"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/realtime"
	"github.com/campuslink/campuslink/internal/pkg/validation"
	"github.com/campuslink/campuslink/internal/tenant"
)

// eventRepository is the slice of the event repository this service consumes.
type eventRepository interface {
	Create(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, collegeDomain string, upcomingOnly bool, offset uint64, limit int) ([]*models.Event, int64, error)
	Update(ctx context.Context, e *models.Event) error
	Cancel(ctx context.Context, id, organizerID string) error
	CreateRSVP(ctx context.Context, rsvp *models.EventRSVP) error
	DeleteRSVP(ctx context.Context, eventID, profileID string) error
	RecountAttendees(ctx context.Context, eventID string) (int, error)
	ListAttendees(ctx context.Context, eventID string) ([]*models.Profile, error)
}

// EventService defines the interface for event and RSVP operations
type EventService interface {
	Create(ctx context.Context, caller *auth.Identity, req *dto.CreateEventRequest) (*models.Event, error)
	Get(ctx context.Context, caller *auth.Identity, eventID string) (*models.Event, error)
	List(ctx context.Context, caller *auth.Identity, upcomingOnly bool, offset uint64, limit int) ([]*models.Event, int64, error)
	Update(ctx context.Context, caller *auth.Identity, eventID string, req *dto.UpdateEventRequest) (*models.Event, error)
	Cancel(ctx context.Context, caller *auth.Identity, eventID string) error
	RSVP(ctx context.Context, caller *auth.Identity, eventID string) (attendeeCount int, err error)
	WithdrawRSVP(ctx context.Context, caller *auth.Identity, eventID string) (attendeeCount int, err error)
	ListAttendees(ctx context.Context, caller *auth.Identity, eventID string) ([]*models.Profile, error)
}

type eventServiceImpl struct {
	events eventRepository
	guard  *tenant.Guard
	hub    eventPublisher
	logger zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(events eventRepository, guard *tenant.Guard, hub eventPublisher, logger zerolog.Logger) EventService {
	return &eventServiceImpl{events: events, guard: guard, hub: hub, logger: logger}
}

// Create schedules an event. Only roles holding the create-event capability
// (faculty, organizations) may organize.
func (s *eventServiceImpl) Create(ctx context.Context, caller *auth.Identity, req *dto.CreateEventRequest) (*models.Event, error) {
	if !caller.Can(permissions.CapCreateEvent) {
		return nil, apperrors.NewForbiddenError("your role cannot create events")
	}
	title, err := validation.RequiredText("title", req.Title, validation.TitleMaxLength)
	if err != nil {
		return nil, err
	}
	if req.StartsAt.Before(time.Now()) {
		return nil, apperrors.NewValidationError("startsAt must be in the future")
	}
	if req.EndsAt != nil && req.EndsAt.Before(req.StartsAt) {
		return nil, apperrors.NewValidationError("endsAt must not precede startsAt")
	}
	if req.Capacity != nil && *req.Capacity <= 0 {
		return nil, apperrors.NewValidationError("capacity must be positive")
	}

	event := &models.Event{
		ID:            uuid.New().String(),
		OrganizerID:   caller.UserID,
		Title:         title,
		Description:   req.Description,
		Location:      req.Location,
		CollegeDomain: caller.CollegeDomain,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
		Capacity:      req.Capacity,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	channel := realtime.EventChannel(caller.CollegeDomain)
	goBackground(s.logger, "publish_event", func(context.Context) error {
		s.hub.Publish(channel, "event", event)
		return nil
	})

	return event, nil
}

// getVisible loads an event and applies the tenant check
func (s *eventServiceImpl) getVisible(ctx context.Context, caller *auth.Identity, eventID string) (*models.Event, error) {
	if err := validation.ResourceID(eventID); err != nil {
		return nil, err
	}
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !s.guard.SameTenant(ctx, caller.CollegeDomain, event.CollegeDomain) {
		return nil, apperrors.ErrResourceNotFound
	}
	return event, nil
}

// Get returns an event visible to the caller
func (s *eventServiceImpl) Get(ctx context.Context, caller *auth.Identity, eventID string) (*models.Event, error) {
	return s.getVisible(ctx, caller, eventID)
}

// List returns the caller's tenant events
func (s *eventServiceImpl) List(ctx context.Context, caller *auth.Identity, upcomingOnly bool, offset uint64, limit int) ([]*models.Event, int64, error) {
	return s.events.List(ctx, caller.CollegeDomain, upcomingOnly, offset, limit)
}

// Update edits an event. Only the organizer may edit.
func (s *eventServiceImpl) Update(ctx context.Context, caller *auth.Identity, eventID string, req *dto.UpdateEventRequest) (*models.Event, error) {
	event, err := s.getVisible(ctx, caller, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != caller.UserID {
		return nil, apperrors.NewForbiddenError("only the organizer can edit an event")
	}

	if req.Title != nil {
		title, err := validation.RequiredText("title", *req.Title, validation.TitleMaxLength)
		if err != nil {
			return nil, err
		}
		event.Title = title
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.Location != nil {
		event.Location = req.Location
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = req.EndsAt
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, apperrors.NewValidationError("capacity must be positive")
		}
		event.Capacity = req.Capacity
	}
	if event.EndsAt != nil && event.EndsAt.Before(event.StartsAt) {
		return nil, apperrors.NewValidationError("endsAt must not precede startsAt")
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Cancel marks an event cancelled. Only the organizer or a moderator may
// cancel.
func (s *eventServiceImpl) Cancel(ctx context.Context, caller *auth.Identity, eventID string) error {
	event, err := s.getVisible(ctx, caller, eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != caller.UserID {
		if !caller.Can(permissions.CapModerateContent) {
			return apperrors.NewForbiddenError("only the organizer or a moderator can cancel an event")
		}
	}
	return s.events.Cancel(ctx, eventID, event.OrganizerID)
}

// RSVP registers the caller as attending. The attendee counter is recomputed
// from RSVP rows afterwards, so a retried call converges instead of
// double-counting.
func (s *eventServiceImpl) RSVP(ctx context.Context, caller *auth.Identity, eventID string) (int, error) {
	event, err := s.getVisible(ctx, caller, eventID)
	if err != nil {
		return 0, err
	}
	if event.IsCancelled {
		return 0, apperrors.NewConflictError("event has been cancelled")
	}
	if event.Capacity != nil && event.AttendeeCount >= *event.Capacity {
		return 0, apperrors.NewConflictError("event is at capacity")
	}

	rsvp := &models.EventRSVP{
		ID:        uuid.New().String(),
		EventID:   eventID,
		ProfileID: caller.UserID,
	}
	if err := s.events.CreateRSVP(ctx, rsvp); err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			// Already attending; recount and report current state.
			return s.events.RecountAttendees(ctx, eventID)
		}
		return 0, err
	}

	return s.events.RecountAttendees(ctx, eventID)
}

// WithdrawRSVP removes the caller's attendance and recounts
func (s *eventServiceImpl) WithdrawRSVP(ctx context.Context, caller *auth.Identity, eventID string) (int, error) {
	if _, err := s.getVisible(ctx, caller, eventID); err != nil {
		return 0, err
	}
	if err := s.events.DeleteRSVP(ctx, eventID, caller.UserID); err != nil {
		return 0, err
	}
	return s.events.RecountAttendees(ctx, eventID)
}

// ListAttendees returns the attendees of an event visible to the caller
func (s *eventServiceImpl) ListAttendees(ctx context.Context, caller *auth.Identity, eventID string) ([]*models.Profile, error) {
	if _, err := s.getVisible(ctx, caller, eventID); err != nil {
		return nil, err
	}
	return s.events.ListAttendees(ctx, eventID)
}
