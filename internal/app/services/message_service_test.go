package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/auth"
	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/permissions"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/tenant"
)

const (
	studentID  = "0b9fb461-91f0-40b5-9c74-f4e42a91d359"
	receiverID = "4fb7f0d9-2ad2-42ea-afe8-6a9d25f3d4a0"
	outsiderID = "9c03a6f5-87a8-49b8-bd4c-2b3f2f221b61"
)

type fakeMessages struct {
	created []*models.Message
}

func (f *fakeMessages) Create(_ context.Context, m *models.Message) error {
	f.created = append(f.created, m)
	return nil
}

func (f *fakeMessages) ListBetween(context.Context, string, string, uint64, int) ([]*models.Message, int64, error) {
	return nil, 0, nil
}

func (f *fakeMessages) MarkRead(context.Context, string, string) error { return nil }

func (f *fakeMessages) Conversations(context.Context, string) ([]*models.Conversation, error) {
	return nil, nil
}

type fakeConnections struct {
	latest *models.Connection
}

func (f *fakeConnections) GetLatestBetween(context.Context, string, string) (*models.Connection, error) {
	if f.latest == nil {
		return nil, apperrors.ErrConnectionNotFound
	}
	return f.latest, nil
}

type fakeProfileStore struct {
	profiles map[string]*models.Profile
}

func (f *fakeProfileStore) GetByID(_ context.Context, id string) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return p, nil
}

type fakeHub struct {
	published int
}

func (f *fakeHub) Publish(string, string, interface{}) { f.published++ }

func studentIdentity() *auth.Identity {
	return &auth.Identity{
		UserID:        studentID,
		Role:          permissions.RoleStudent,
		CollegeDomain: "stanford.edu",
	}
}

func newMessageService(conns *fakeConnections, profiles map[string]*models.Profile) (MessageService, *fakeMessages) {
	messages := &fakeMessages{}
	svc := NewMessageService(
		messages,
		conns,
		&fakeProfileStore{profiles: profiles},
		tenant.NewGuard(nil, zerolog.Nop()),
		&fakeHub{},
		zerolog.Nop(),
	)
	return svc, messages
}

func TestSend_StudentWithoutConnectionDenied(t *testing.T) {
	svc, messages := newMessageService(&fakeConnections{}, map[string]*models.Profile{
		receiverID: {ID: receiverID, CollegeDomain: "stanford.edu", IsActive: true},
	})

	_, err := svc.Send(context.Background(), studentIdentity(), receiverID, "hey")
	if !errors.Is(err, apperrors.ErrNotConnected) {
		t.Fatalf("got %v, want ErrNotConnected", err)
	}
	if len(messages.created) != 0 {
		t.Errorf("message was persisted despite denial")
	}
}

func TestSend_AfterAcceptSucceedsAndTrims(t *testing.T) {
	conns := &fakeConnections{latest: &models.Connection{
		RequesterID: studentID,
		ReceiverID:  receiverID,
		Status:      models.ConnectionAccepted,
	}}
	svc, messages := newMessageService(conns, map[string]*models.Profile{
		receiverID: {ID: receiverID, CollegeDomain: "stanford.edu", IsActive: true},
	})

	msg, err := svc.Send(context.Background(), studentIdentity(), receiverID, "  hello there  ")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if msg.Content != "hello there" {
		t.Errorf("content = %q, want trimmed %q", msg.Content, "hello there")
	}
	if len(messages.created) != 1 {
		t.Fatalf("created %d messages, want 1", len(messages.created))
	}
}

func TestSend_BlockedDeniesPrivilegedSender(t *testing.T) {
	conns := &fakeConnections{latest: &models.Connection{
		RequesterID: receiverID,
		ReceiverID:  studentID,
		Status:      models.ConnectionBlocked,
	}}
	svc, _ := newMessageService(conns, map[string]*models.Profile{
		receiverID: {ID: receiverID, CollegeDomain: "stanford.edu", IsActive: true},
	})

	caller := studentIdentity()
	caller.Role = permissions.RoleFaculty
	_, err := svc.Send(context.Background(), caller, receiverID, "hello")
	if !errors.Is(err, apperrors.ErrBlocked) {
		t.Fatalf("got %v, want ErrBlocked", err)
	}
}

func TestSend_AlumniWithoutConnectionAllowed(t *testing.T) {
	svc, messages := newMessageService(&fakeConnections{}, map[string]*models.Profile{
		receiverID: {ID: receiverID, CollegeDomain: "stanford.edu", IsActive: true},
	})

	caller := studentIdentity()
	caller.Role = permissions.RoleAlumni
	if _, err := svc.Send(context.Background(), caller, receiverID, "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(messages.created) != 1 {
		t.Errorf("created %d messages, want 1", len(messages.created))
	}
}

func TestSend_CrossTenantReceiverNotFound(t *testing.T) {
	svc, _ := newMessageService(&fakeConnections{}, map[string]*models.Profile{
		outsiderID: {ID: outsiderID, CollegeDomain: "mit.edu", IsActive: true},
	})

	caller := studentIdentity()
	caller.Role = permissions.RoleAlumni
	_, err := svc.Send(context.Background(), caller, outsiderID, "hello")
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("got %v, want ErrResourceNotFound", err)
	}
}

func TestSend_EmptyContentRejected(t *testing.T) {
	conns := &fakeConnections{latest: &models.Connection{Status: models.ConnectionAccepted}}
	svc, _ := newMessageService(conns, map[string]*models.Profile{
		receiverID: {ID: receiverID, CollegeDomain: "stanford.edu", IsActive: true},
	})

	_, err := svc.Send(context.Background(), studentIdentity(), receiverID, "   ")
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("got %v, want ErrValidationFailed", err)
	}
}
