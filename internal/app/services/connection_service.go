package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/auth"
	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/middleware"
	"github.com/campuslink/campuslink/internal/permissions"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/validation"
	"github.com/campuslink/campuslink/internal/tenant"
)

// connectionRepository is the slice of the connection repository this service
// consumes.
type connectionRepository interface {
	Create(ctx context.Context, c *models.Connection) error
	GetByID(ctx context.Context, id string) (*models.Connection, error)
	GetLatestBetween(ctx context.Context, userA, userB string) (*models.Connection, error)
	UpdateStatus(ctx context.Context, id string, status models.ConnectionStatus) error
	Rerequest(ctx context.Context, id, requesterID, receiverID string) error
	SetBlocked(ctx context.Context, id, blockerID, blockedID string) error
	Delete(ctx context.Context, id string) error
	ListForUser(ctx context.Context, userID string, status models.ConnectionStatus, offset uint64, limit int) ([]*models.Connection, int64, error)
	CountMutual(ctx context.Context, userA, userB string) (int64, error)
}

// connectionProfileGetter loads peers for tenant checks.
type connectionProfileGetter interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

// mutualCounter calls the mutual-connections stored procedure.
type mutualCounter interface {
	MutualConnectionCount(ctx context.Context, userA, userB string) (int64, error)
}

// ConnectionService defines the interface for connection operations
type ConnectionService interface {
	Request(ctx context.Context, caller *auth.Identity, receiverID string) (*models.Connection, error)
	Respond(ctx context.Context, caller *auth.Identity, connectionID string, accept bool) (*models.Connection, error)
	Block(ctx context.Context, caller *auth.Identity, peerID string) error
	Remove(ctx context.Context, caller *auth.Identity, connectionID string) error
	List(ctx context.Context, caller *auth.Identity, status models.ConnectionStatus, offset uint64, limit int) ([]*models.Connection, int64, error)
	MutualCount(ctx context.Context, caller *auth.Identity, peerID string) (int64, error)
}

type connectionServiceImpl struct {
	connections connectionRepository
	profiles    connectionProfileGetter
	rpc         mutualCounter
	guard       *tenant.Guard
	logger      zerolog.Logger
}

// NewConnectionService creates a new ConnectionService
func NewConnectionService(
	connections connectionRepository,
	profiles connectionProfileGetter,
	rpc mutualCounter,
	guard *tenant.Guard,
	logger zerolog.Logger,
) ConnectionService {
	return &connectionServiceImpl{
		connections: connections,
		profiles:    profiles,
		rpc:         rpc,
		guard:       guard,
		logger:      logger,
	}
}

// Request sends a pending connection request to receiverID. A rejected pair
// may re-request: the rejected row returns to pending under the new
// requester. For pending and accepted rows a second request conflicts, and
// the unique index on the unordered pair backs this up against races.
func (s *connectionServiceImpl) Request(ctx context.Context, caller *auth.Identity, receiverID string) (*models.Connection, error) {
	if err := validation.UserID(receiverID); err != nil {
		return nil, err
	}
	if receiverID == caller.UserID {
		return nil, apperrors.ErrSelfConnection
	}
	if !caller.Can(permissions.CapSendConnectionRequest) {
		return nil, apperrors.NewForbiddenError("your role cannot send connection requests")
	}

	receiver, err := s.profiles.GetByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if !s.guard.SameTenant(ctx, caller.CollegeDomain, receiver.CollegeDomain) {
		return nil, apperrors.ErrResourceNotFound
	}

	latest, err := s.connections.GetLatestBetween(ctx, caller.UserID, receiverID)
	if err == nil {
		switch latest.Status {
		case models.ConnectionRejected:
			if err := s.connections.Rerequest(ctx, latest.ID, caller.UserID, receiverID); err != nil {
				return nil, err
			}
			latest.RequesterID = caller.UserID
			latest.ReceiverID = receiverID
			latest.Status = models.ConnectionPending
			s.logger.Info().Str("requesterId", caller.UserID).Str("receiverId", receiverID).Msg("Connection re-requested after rejection")
			return latest, nil
		case models.ConnectionBlocked:
			// A blocked pair reads as if the peer does not exist.
			return nil, apperrors.ErrResourceNotFound
		default:
			return nil, apperrors.ErrDuplicateRequest
		}
	}
	if !apperrors.Is(err, apperrors.ErrConnectionNotFound) {
		return nil, err
	}

	connection := &models.Connection{
		ID:          uuid.New().String(),
		RequesterID: caller.UserID,
		ReceiverID:  receiverID,
		Status:      models.ConnectionPending,
	}
	if err := s.connections.Create(ctx, connection); err != nil {
		return nil, err
	}

	s.logger.Info().Str("requesterId", caller.UserID).Str("receiverId", receiverID).Msg("Connection requested")
	return connection, nil
}

// Respond accepts or rejects a pending request. Only the receiver may
// respond, and only while the request is pending.
func (s *connectionServiceImpl) Respond(ctx context.Context, caller *auth.Identity, connectionID string, accept bool) (*models.Connection, error) {
	if err := validation.ResourceID(connectionID); err != nil {
		return nil, err
	}

	connection, err := s.connections.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if connection.ReceiverID != caller.UserID {
		return nil, apperrors.ErrNotReceiver
	}
	if connection.Status != models.ConnectionPending {
		return nil, apperrors.NewConflictError("connection request has already been resolved")
	}

	status := models.ConnectionRejected
	if accept {
		status = models.ConnectionAccepted
	}
	if err := s.connections.UpdateStatus(ctx, connectionID, status); err != nil {
		return nil, err
	}
	connection.Status = status

	s.logger.Info().Str("connectionId", connectionID).Str("status", string(status)).Msg("Connection request resolved")
	return connection, nil
}

// Block marks the edge between the caller and peerID as blocked, creating
// the edge when none exists. A block supersedes any earlier state and denies
// messaging for both sides. The blocker is recorded as the edge's requester
// so only they can later lift it.
func (s *connectionServiceImpl) Block(ctx context.Context, caller *auth.Identity, peerID string) error {
	if err := validation.UserID(peerID); err != nil {
		return err
	}
	if peerID == caller.UserID {
		return apperrors.ErrSelfConnection
	}

	latest, err := s.connections.GetLatestBetween(ctx, caller.UserID, peerID)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrConnectionNotFound) {
			return err
		}
		blocked := &models.Connection{
			ID:          uuid.New().String(),
			RequesterID: caller.UserID,
			ReceiverID:  peerID,
			Status:      models.ConnectionBlocked,
		}
		return s.connections.Create(ctx, blocked)
	}

	return s.connections.SetBlocked(ctx, latest.ID, caller.UserID, peerID)
}

// Remove deletes a connection edge the caller is part of. Only accepted
// connections can be removed by either party; a block can only be lifted by
// the party that placed it, so being blocked cannot be undone from the
// blocked side.
func (s *connectionServiceImpl) Remove(ctx context.Context, caller *auth.Identity, connectionID string) error {
	if err := validation.ResourceID(connectionID); err != nil {
		return err
	}
	connection, err := s.connections.GetByID(ctx, connectionID)
	if err != nil {
		return err
	}
	if !connection.Involves(caller.UserID) {
		return apperrors.ErrConnectionNotFound
	}

	switch connection.Status {
	case models.ConnectionAccepted:
	case models.ConnectionBlocked:
		if connection.RequesterID != caller.UserID {
			return apperrors.ErrConnectionNotFound
		}
	default:
		return apperrors.NewConflictError("only accepted connections can be removed")
	}

	return s.connections.Delete(ctx, connectionID)
}

// List returns the caller's connections, optionally filtered by status
func (s *connectionServiceImpl) List(ctx context.Context, caller *auth.Identity, status models.ConnectionStatus, offset uint64, limit int) ([]*models.Connection, int64, error) {
	return s.connections.ListForUser(ctx, caller.UserID, status, offset, limit)
}

// MutualCount returns the number of shared connections with peerID. The
// stored procedure is preferred; when it is unavailable the hand-rolled
// query answers instead, so the endpoint degrades rather than fails.
func (s *connectionServiceImpl) MutualCount(ctx context.Context, caller *auth.Identity, peerID string) (int64, error) {
	if err := validation.UserID(peerID); err != nil {
		return 0, err
	}

	count, err := s.rpc.MutualConnectionCount(ctx, caller.UserID, peerID)
	if err == nil {
		return count, nil
	}
	if !apperrors.Is(err, apperrors.ErrRemoteUnavailable) {
		return 0, err
	}

	s.logger.Warn().Msg("Mutual connection procedure unavailable, using fallback query")
	middleware.CountRPCFallback("get_mutual_connection_count")
	return s.connections.CountMutual(ctx, caller.UserID, peerID)
}
