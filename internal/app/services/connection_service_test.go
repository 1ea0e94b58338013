package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/tenant"
)

// fakeConnectionStore enforces the unordered-pair uniqueness the real schema
// provides via its unique index.
type fakeConnectionStore struct {
	rows map[string]*models.Connection
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

func (f *fakeConnectionStore) Create(_ context.Context, c *models.Connection) error {
	key := pairKey(c.RequesterID, c.ReceiverID)
	if _, exists := f.rows[key]; exists {
		return apperrors.ErrDuplicateRequest
	}
	f.rows[key] = c
	return nil
}

func (f *fakeConnectionStore) GetByID(_ context.Context, id string) (*models.Connection, error) {
	for _, c := range f.rows {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.ErrConnectionNotFound
}

func (f *fakeConnectionStore) GetLatestBetween(_ context.Context, a, b string) (*models.Connection, error) {
	c, ok := f.rows[pairKey(a, b)]
	if !ok {
		return nil, apperrors.ErrConnectionNotFound
	}
	return c, nil
}

func (f *fakeConnectionStore) UpdateStatus(_ context.Context, id string, status models.ConnectionStatus) error {
	for _, c := range f.rows {
		if c.ID == id {
			c.Status = status
			return nil
		}
	}
	return apperrors.ErrConnectionNotFound
}

func (f *fakeConnectionStore) Rerequest(_ context.Context, id, requesterID, receiverID string) error {
	for _, c := range f.rows {
		if c.ID == id && c.Status == models.ConnectionRejected {
			c.RequesterID = requesterID
			c.ReceiverID = receiverID
			c.Status = models.ConnectionPending
			return nil
		}
	}
	return apperrors.ErrDuplicateRequest
}

func (f *fakeConnectionStore) SetBlocked(_ context.Context, id, blockerID, blockedID string) error {
	for _, c := range f.rows {
		if c.ID == id {
			c.RequesterID = blockerID
			c.ReceiverID = blockedID
			c.Status = models.ConnectionBlocked
			return nil
		}
	}
	return apperrors.ErrConnectionNotFound
}

func (f *fakeConnectionStore) Delete(_ context.Context, id string) error {
	for key, c := range f.rows {
		if c.ID == id {
			delete(f.rows, key)
			return nil
		}
	}
	return apperrors.ErrConnectionNotFound
}

func (f *fakeConnectionStore) ListForUser(context.Context, string, models.ConnectionStatus, uint64, int) ([]*models.Connection, int64, error) {
	return nil, 0, nil
}

func (f *fakeConnectionStore) CountMutual(context.Context, string, string) (int64, error) {
	return 2, nil
}

type fakeMutualRPC struct {
	unavailable bool
}

func (f *fakeMutualRPC) MutualConnectionCount(context.Context, string, string) (int64, error) {
	if f.unavailable {
		return 0, apperrors.NewRemoteError("get_mutual_connection_count", errors.New("undefined function"))
	}
	return 5, nil
}

func newConnectionService(rpc mutualCounter) (ConnectionService, *fakeConnectionStore) {
	store := &fakeConnectionStore{rows: map[string]*models.Connection{}}
	profiles := &fakeProfileStore{profiles: map[string]*models.Profile{
		studentID:  {ID: studentID, CollegeDomain: "stanford.edu", IsActive: true},
		receiverID: {ID: receiverID, CollegeDomain: "stanford.edu", IsActive: true},
		outsiderID: {ID: outsiderID, CollegeDomain: "mit.edu", IsActive: true},
	}}
	svc := NewConnectionService(store, profiles, rpc, tenant.NewGuard(nil, zerolog.Nop()), zerolog.Nop())
	return svc, store
}

func TestRequest_SecondRequestConflicts(t *testing.T) {
	svc, _ := newConnectionService(&fakeMutualRPC{})
	caller := studentIdentity()

	if _, err := svc.Request(context.Background(), caller, receiverID); err != nil {
		t.Fatalf("first request: %v", err)
	}
	_, err := svc.Request(context.Background(), caller, receiverID)
	if !errors.Is(err, apperrors.ErrDuplicateRequest) {
		t.Fatalf("second request: got %v, want ErrDuplicateRequest", err)
	}
}

func TestRequest_ReverseDirectionAlsoConflicts(t *testing.T) {
	svc, _ := newConnectionService(&fakeMutualRPC{})

	if _, err := svc.Request(context.Background(), studentIdentity(), receiverID); err != nil {
		t.Fatalf("first request: %v", err)
	}

	reverse := studentIdentity()
	reverse.UserID = receiverID
	_, err := svc.Request(context.Background(), reverse, studentID)
	if !errors.Is(err, apperrors.ErrDuplicateRequest) {
		t.Fatalf("reverse request: got %v, want ErrDuplicateRequest", err)
	}
}

func TestRequest_SelfRejected(t *testing.T) {
	svc, _ := newConnectionService(&fakeMutualRPC{})
	_, err := svc.Request(context.Background(), studentIdentity(), studentID)
	if !errors.Is(err, apperrors.ErrSelfConnection) {
		t.Fatalf("got %v, want ErrSelfConnection", err)
	}
}

func TestRequest_CrossTenantNotFound(t *testing.T) {
	svc, _ := newConnectionService(&fakeMutualRPC{})
	_, err := svc.Request(context.Background(), studentIdentity(), outsiderID)
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("got %v, want ErrResourceNotFound", err)
	}
}

func TestRespond_OnlyReceiverMayRespond(t *testing.T) {
	svc, _ := newConnectionService(&fakeMutualRPC{})
	caller := studentIdentity()

	conn, err := svc.Request(context.Background(), caller, receiverID)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	// The requester cannot accept their own request.
	if _, err := svc.Respond(context.Background(), caller, conn.ID, true); !errors.Is(err, apperrors.ErrNotReceiver) {
		t.Fatalf("requester respond: got %v, want ErrNotReceiver", err)
	}

	receiver := studentIdentity()
	receiver.UserID = receiverID
	resolved, err := svc.Respond(context.Background(), receiver, conn.ID, true)
	if err != nil {
		t.Fatalf("receiver respond: %v", err)
	}
	if resolved.Status != models.ConnectionAccepted {
		t.Errorf("status = %q, want accepted", resolved.Status)
	}

	// A second response to the resolved request conflicts.
	if _, err := svc.Respond(context.Background(), receiver, conn.ID, false); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("double respond: got %v, want ErrConflict", err)
	}
}

func TestRequest_AfterRejectionReturnsToPending(t *testing.T) {
	svc, _ := newConnectionService(&fakeMutualRPC{})
	caller := studentIdentity()

	conn, err := svc.Request(context.Background(), caller, receiverID)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	receiver := studentIdentity()
	receiver.UserID = receiverID
	if _, err := svc.Respond(context.Background(), receiver, conn.ID, false); err != nil {
		t.Fatalf("reject: %v", err)
	}

	again, err := svc.Request(context.Background(), caller, receiverID)
	if err != nil {
		t.Fatalf("re-request after rejection: %v", err)
	}
	if again.ID != conn.ID {
		t.Errorf("re-request created a new edge instead of reusing the rejected one")
	}
	if again.Status != models.ConnectionPending {
		t.Errorf("status = %q, want pending", again.Status)
	}
}

func TestRequest_BlockedPairNotFound(t *testing.T) {
	svc, _ := newConnectionService(&fakeMutualRPC{})

	blocker := studentIdentity()
	blocker.UserID = receiverID
	if err := svc.Block(context.Background(), blocker, studentID); err != nil {
		t.Fatalf("block: %v", err)
	}

	_, err := svc.Request(context.Background(), studentIdentity(), receiverID)
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("got %v, want ErrResourceNotFound", err)
	}
}

func TestRemove_AcceptedRemovableByEitherParty(t *testing.T) {
	svc, store := newConnectionService(&fakeMutualRPC{})

	conn, err := svc.Request(context.Background(), studentIdentity(), receiverID)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	receiver := studentIdentity()
	receiver.UserID = receiverID
	if _, err := svc.Respond(context.Background(), receiver, conn.ID, true); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if err := svc.Remove(context.Background(), receiver, conn.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(store.rows) != 0 {
		t.Errorf("edge still present after removal")
	}
}

func TestRemove_PendingNotRemovable(t *testing.T) {
	svc, _ := newConnectionService(&fakeMutualRPC{})

	conn, err := svc.Request(context.Background(), studentIdentity(), receiverID)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if err := svc.Remove(context.Background(), studentIdentity(), conn.ID); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
}

func TestRemove_BlockedPartyCannotLiftBlock(t *testing.T) {
	svc, store := newConnectionService(&fakeMutualRPC{})

	blocker := studentIdentity()
	blocker.UserID = receiverID
	if err := svc.Block(context.Background(), blocker, studentID); err != nil {
		t.Fatalf("block: %v", err)
	}
	edge := store.rows[pairKey(studentID, receiverID)]

	err := svc.Remove(context.Background(), studentIdentity(), edge.ID)
	if !errors.Is(err, apperrors.ErrConnectionNotFound) {
		t.Fatalf("got %v, want ErrConnectionNotFound", err)
	}
	if _, ok := store.rows[pairKey(studentID, receiverID)]; !ok {
		t.Errorf("blocked party deleted the block edge")
	}
}

func TestRemove_BlockerMayLiftBlock(t *testing.T) {
	svc, store := newConnectionService(&fakeMutualRPC{})

	blocker := studentIdentity()
	blocker.UserID = receiverID
	if err := svc.Block(context.Background(), blocker, studentID); err != nil {
		t.Fatalf("block: %v", err)
	}
	edge := store.rows[pairKey(studentID, receiverID)]

	if err := svc.Remove(context.Background(), blocker, edge.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(store.rows) != 0 {
		t.Errorf("edge still present after the blocker lifted it")
	}
}

func TestBlock_SupersedesExistingEdgeOwnership(t *testing.T) {
	svc, store := newConnectionService(&fakeMutualRPC{})

	// student requested; receiver blocks, taking over the edge.
	if _, err := svc.Request(context.Background(), studentIdentity(), receiverID); err != nil {
		t.Fatalf("request: %v", err)
	}
	blocker := studentIdentity()
	blocker.UserID = receiverID
	if err := svc.Block(context.Background(), blocker, studentID); err != nil {
		t.Fatalf("block: %v", err)
	}

	edge := store.rows[pairKey(studentID, receiverID)]
	if edge.Status != models.ConnectionBlocked {
		t.Errorf("status = %q, want blocked", edge.Status)
	}
	if edge.RequesterID != receiverID {
		t.Errorf("block owner = %q, want the blocker %q", edge.RequesterID, receiverID)
	}
}

func TestMutualCount_PrefersProcedure(t *testing.T) {
	svc, _ := newConnectionService(&fakeMutualRPC{})
	count, err := svc.MutualCount(context.Background(), studentIdentity(), receiverID)
	if err != nil {
		t.Fatalf("MutualCount: %v", err)
	}
	if count != 5 {
		t.Errorf("count = %d, want 5 from procedure", count)
	}
}

func TestMutualCount_FallsBackWhenUnavailable(t *testing.T) {
	svc, _ := newConnectionService(&fakeMutualRPC{unavailable: true})
	count, err := svc.MutualCount(context.Background(), studentIdentity(), receiverID)
	if err != nil {
		t.Fatalf("MutualCount: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2 from fallback query", count)
	}
}
