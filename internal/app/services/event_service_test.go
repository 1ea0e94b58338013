package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/auth"
	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/permissions"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/tenant"
)

const (
	homeEventID    = "b1f6c8d2-9e04-4f1a-b3a7-58e2c0d4aa11"
	foreignEventID = "c2a7d9e3-0f15-4a2b-8c49-69f3d1e5bb22"
)

type fakeEvents struct {
	events map[string]*models.Event
	rsvps  map[string]map[string]bool // eventID -> profileID

	cancelled []string
}

func (f *fakeEvents) Create(_ context.Context, e *models.Event) error {
	f.events[e.ID] = e
	return nil
}

func (f *fakeEvents) GetByID(_ context.Context, id string) (*models.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return e, nil
}

func (f *fakeEvents) List(context.Context, string, bool, uint64, int) ([]*models.Event, int64, error) {
	return nil, 0, nil
}

func (f *fakeEvents) Update(_ context.Context, e *models.Event) error {
	f.events[e.ID] = e
	return nil
}

func (f *fakeEvents) Cancel(_ context.Context, id, _ string) error {
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeEvents) CreateRSVP(_ context.Context, rsvp *models.EventRSVP) error {
	attendees, ok := f.rsvps[rsvp.EventID]
	if !ok {
		attendees = map[string]bool{}
		f.rsvps[rsvp.EventID] = attendees
	}
	if attendees[rsvp.ProfileID] {
		return apperrors.ErrConflict
	}
	attendees[rsvp.ProfileID] = true
	return nil
}

func (f *fakeEvents) DeleteRSVP(_ context.Context, eventID, profileID string) error {
	delete(f.rsvps[eventID], profileID)
	return nil
}

func (f *fakeEvents) RecountAttendees(_ context.Context, eventID string) (int, error) {
	count := len(f.rsvps[eventID])
	if e, ok := f.events[eventID]; ok {
		e.AttendeeCount = count
	}
	return count, nil
}

func (f *fakeEvents) ListAttendees(context.Context, string) ([]*models.Profile, error) {
	return nil, nil
}

func newEventService() (EventService, *fakeEvents) {
	events := &fakeEvents{
		events: map[string]*models.Event{
			homeEventID:    {ID: homeEventID, OrganizerID: receiverID, Title: "Career fair", CollegeDomain: "stanford.edu", StartsAt: time.Now().Add(time.Hour)},
			foreignEventID: {ID: foreignEventID, OrganizerID: outsiderID, Title: "Hack night", CollegeDomain: "mit.edu", StartsAt: time.Now().Add(time.Hour)},
		},
		rsvps: map[string]map[string]bool{},
	}
	svc := NewEventService(events, tenant.NewGuard(nil, zerolog.Nop()), &fakeHub{}, zerolog.Nop())
	return svc, events
}

func facultyIdentity() *auth.Identity {
	id := studentIdentity()
	id.Role = permissions.RoleFaculty
	return id
}

func TestCreateEvent_StudentForbidden(t *testing.T) {
	svc, _ := newEventService()

	_, err := svc.Create(context.Background(), studentIdentity(), &dto.CreateEventRequest{
		Title:    "Study group",
		StartsAt: time.Now().Add(time.Hour),
	})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("got %v, want ErrPermissionDenied", err)
	}
}

func TestCreateEvent_PastStartRejected(t *testing.T) {
	svc, _ := newEventService()

	_, err := svc.Create(context.Background(), facultyIdentity(), &dto.CreateEventRequest{
		Title:    "Yesterday",
		StartsAt: time.Now().Add(-time.Hour),
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("got %v, want ErrValidationFailed", err)
	}
}

func TestGetEvent_CrossTenantNotFound(t *testing.T) {
	svc, _ := newEventService()

	_, err := svc.Get(context.Background(), studentIdentity(), foreignEventID)
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("got %v, want ErrResourceNotFound", err)
	}
}

func TestRSVP_RetryConverges(t *testing.T) {
	svc, _ := newEventService()
	caller := studentIdentity()

	count, err := svc.RSVP(context.Background(), caller, homeEventID)
	if err != nil {
		t.Fatalf("RSVP: %v", err)
	}
	if count != 1 {
		t.Errorf("first RSVP count = %d, want 1", count)
	}

	count, err = svc.RSVP(context.Background(), caller, homeEventID)
	if err != nil {
		t.Fatalf("repeated RSVP: %v", err)
	}
	if count != 1 {
		t.Errorf("repeated RSVP count = %d, want 1", count)
	}
}

func TestRSVP_AtCapacityConflicts(t *testing.T) {
	svc, events := newEventService()
	capacity := 1
	events.events[homeEventID].Capacity = &capacity
	events.events[homeEventID].AttendeeCount = 1

	_, err := svc.RSVP(context.Background(), studentIdentity(), homeEventID)
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
}

func TestRSVP_CancelledEventConflicts(t *testing.T) {
	svc, events := newEventService()
	events.events[homeEventID].IsCancelled = true

	_, err := svc.RSVP(context.Background(), studentIdentity(), homeEventID)
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
}

func TestWithdrawRSVP_Recounts(t *testing.T) {
	svc, _ := newEventService()
	caller := studentIdentity()

	if _, err := svc.RSVP(context.Background(), caller, homeEventID); err != nil {
		t.Fatalf("RSVP: %v", err)
	}
	count, err := svc.WithdrawRSVP(context.Background(), caller, homeEventID)
	if err != nil {
		t.Fatalf("WithdrawRSVP: %v", err)
	}
	if count != 0 {
		t.Errorf("count after withdraw = %d, want 0", count)
	}
}

func TestCancelEvent_NonOrganizerForbidden(t *testing.T) {
	svc, events := newEventService()

	err := svc.Cancel(context.Background(), studentIdentity(), homeEventID)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("got %v, want ErrPermissionDenied", err)
	}
	if len(events.cancelled) != 0 {
		t.Errorf("event was cancelled by a non-organizer")
	}
}

func TestCancelEvent_ModeratorAllowed(t *testing.T) {
	svc, events := newEventService()

	if err := svc.Cancel(context.Background(), facultyIdentity(), homeEventID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(events.cancelled) != 1 {
		t.Errorf("cancelled = %d, want 1", len(events.cancelled))
	}
}
