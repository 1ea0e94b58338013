package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/auth"
	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/realtime"
	"github.com/campuslink/campuslink/internal/pkg/validation"
	"github.com/campuslink/campuslink/internal/tenant"
)

// messageRepository is the slice of the message repository this service
// consumes.
type messageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	ListBetween(ctx context.Context, userA, userB string, offset uint64, limit int) ([]*models.Message, int64, error)
	MarkRead(ctx context.Context, userID, peerID string) error
	Conversations(ctx context.Context, userID string) ([]*models.Conversation, error)
}

// latestConnectionGetter loads the deciding connection row for the messaging
// policy.
type latestConnectionGetter interface {
	GetLatestBetween(ctx context.Context, userA, userB string) (*models.Connection, error)
}

// messageProfileGetter loads the receiver for the tenant check.
type messageProfileGetter interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

// eventPublisher fans change notifications out to realtime subscribers.
type eventPublisher interface {
	Publish(channel, kind string, payload interface{})
}

// MessageService defines the interface for direct messaging
type MessageService interface {
	Send(ctx context.Context, caller *auth.Identity, receiverID, content string) (*models.Message, error)
	ListConversation(ctx context.Context, caller *auth.Identity, peerID string, offset uint64, limit int) ([]*models.Message, int64, error)
	Conversations(ctx context.Context, caller *auth.Identity) ([]*models.Conversation, error)
}

type messageServiceImpl struct {
	messages    messageRepository
	connections latestConnectionGetter
	profiles    messageProfileGetter
	guard       *tenant.Guard
	hub         eventPublisher
	logger      zerolog.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(
	messages messageRepository,
	connections latestConnectionGetter,
	profiles messageProfileGetter,
	guard *tenant.Guard,
	hub eventPublisher,
	logger zerolog.Logger,
) MessageService {
	return &messageServiceImpl{
		messages:    messages,
		connections: connections,
		profiles:    profiles,
		guard:       guard,
		hub:         hub,
		logger:      logger,
	}
}

// Send delivers a direct message. The chain is fail-fast: identifier and
// content validation, then the tenant check, then the eligibility policy
// over the latest connection row. Only after all pass is the message written
// and fanned out.
func (s *messageServiceImpl) Send(ctx context.Context, caller *auth.Identity, receiverID, content string) (*models.Message, error) {
	if err := validation.UserID(receiverID); err != nil {
		return nil, err
	}
	if receiverID == caller.UserID {
		return nil, apperrors.NewValidationError("cannot message yourself")
	}
	trimmed, err := validation.RequiredText("content", content, validation.ContentMaxLength)
	if err != nil {
		return nil, err
	}

	receiver, err := s.profiles.GetByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if !s.guard.SameTenant(ctx, caller.CollegeDomain, receiver.CollegeDomain) {
		return nil, apperrors.ErrResourceNotFound
	}

	latest, err := s.connections.GetLatestBetween(ctx, caller.UserID, receiverID)
	if err != nil && !apperrors.Is(err, apperrors.ErrConnectionNotFound) {
		return nil, err
	}
	if err := auth.CanMessage(caller.Role, latest); err != nil {
		return nil, err
	}

	message := &models.Message{
		ID:            uuid.New().String(),
		SenderID:      caller.UserID,
		ReceiverID:    receiverID,
		Content:       trimmed,
		CollegeDomain: caller.CollegeDomain,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	channel := realtime.MessageChannel(caller.UserID, receiverID)
	goBackground(s.logger, "publish_message", func(context.Context) error {
		s.hub.Publish(channel, "message", message)
		return nil
	})

	return message, nil
}

// ListConversation returns the history with peerID and marks the peer's
// messages read in the background.
func (s *messageServiceImpl) ListConversation(ctx context.Context, caller *auth.Identity, peerID string, offset uint64, limit int) ([]*models.Message, int64, error) {
	if err := validation.UserID(peerID); err != nil {
		return nil, 0, err
	}

	messages, total, err := s.messages.ListBetween(ctx, caller.UserID, peerID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	callerID := caller.UserID
	goBackground(s.logger, "mark_messages_read", func(ctx context.Context) error {
		return s.messages.MarkRead(ctx, callerID, peerID)
	})

	return messages, total, nil
}

// Conversations summarizes the caller's conversations
func (s *messageServiceImpl) Conversations(ctx context.Context, caller *auth.Identity) ([]*models.Conversation, error) {
	return s.messages.Conversations(ctx, caller.UserID)
}
