package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/realtime"
	"github.com/campuslink/campuslink/internal/pkg/validation"
)

// RealtimeController upgrades authenticated requests to websocket subscriptions
type RealtimeController struct {
	hub    *realtime.Hub
	logger zerolog.Logger
}

// NewRealtimeController creates a new RealtimeController
func NewRealtimeController(hub *realtime.Hub, logger zerolog.Logger) *RealtimeController {
	return &RealtimeController{hub: hub, logger: logger}
}

// SubscribeMessages godoc
// @Summary Subscribe to the direct-message stream with one peer
// @Description Upgrades to a websocket; the caller only ever joins channels for pairs it belongs to
// @Tags realtime
// @Security BearerAuth
// @Param peerId path string true "Peer profile ID"
// @Success 101 "Switching Protocols"
// @Router /ws/messages/{peerId} [get]
func (rc *RealtimeController) SubscribeMessages(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	peerID := c.Param("peerId")
	if err := validation.UserID(peerID); err != nil {
		_ = c.Error(err)
		return
	}

	// The channel name is derived from the caller's own identity, so a caller
	// can never subscribe to a conversation it is not part of.
	channel := realtime.MessageChannel(identity.UserID, peerID)
	if err := rc.hub.Serve(c.Writer, c.Request, identity.UserID, channel); err != nil {
		rc.logger.Warn().Err(err).Str("channel", channel).Msg("Websocket upgrade failed")
		_ = c.Error(apperrors.NewValidationError("websocket upgrade failed"))
	}
}

// SubscribeFeed subscribes the caller to its own college's post feed
func (rc *RealtimeController) SubscribeFeed(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	channel := realtime.FeedChannel(identity.CollegeDomain)
	if err := rc.hub.Serve(c.Writer, c.Request, identity.UserID, channel); err != nil {
		rc.logger.Warn().Err(err).Str("channel", channel).Msg("Websocket upgrade failed")
		_ = c.Error(apperrors.NewValidationError("websocket upgrade failed"))
	}
}

// SubscribeEvents subscribes the caller to its own college's event stream
func (rc *RealtimeController) SubscribeEvents(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	channel := realtime.EventChannel(identity.CollegeDomain)
	if err := rc.hub.Serve(c.Writer, c.Request, identity.UserID, channel); err != nil {
		rc.logger.Warn().Err(err).Str("channel", channel).Msg("Websocket upgrade failed")
		_ = c.Error(apperrors.NewValidationError("websocket upgrade failed"))
	}
}
