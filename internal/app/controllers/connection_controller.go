package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/app/services"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/helpers"
)

// ConnectionController handles connection-edge endpoints
type ConnectionController struct {
	connectionService services.ConnectionService
	logger            zerolog.Logger
}

// NewConnectionController creates a new ConnectionController
func NewConnectionController(connectionService services.ConnectionService, logger zerolog.Logger) *ConnectionController {
	return &ConnectionController{connectionService: connectionService, logger: logger}
}

// Request godoc
// @Summary Send a connection request
// @Tags connections
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SendConnectionRequest true "Receiver"
// @Success 201 {object} dto.APIResponse{data=dto.ConnectionResponse}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /connections [post]
func (cc *ConnectionController) Request(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.SendConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	connection, err := cc.connectionService.Request(c.Request.Context(), identity, req.ReceiverID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(toConnectionResponse(connection, identity.UserID)))
}

// Respond accepts or rejects a pending request
func (cc *ConnectionController) Respond(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req struct {
		Accept bool `json:"accept"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	connection, err := cc.connectionService.Respond(c.Request.Context(), identity, c.Param("id"), req.Accept)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toConnectionResponse(connection, identity.UserID)))
}

// Block blocks a peer, superseding any existing edge
func (cc *ConnectionController) Block(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	if err := cc.connectionService.Block(c.Request.Context(), identity, c.Param("peerId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "user blocked"}))
}

// Remove deletes a connection edge the caller is part of
func (cc *ConnectionController) Remove(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	if err := cc.connectionService.Remove(c.Request.Context(), identity, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "connection removed"}))
}

// List godoc
// @Summary List the caller's connections
// @Tags connections
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status (pending, accepted, rejected, blocked)"
// @Param page query int false "Page"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ConnectionListResponse}
// @Router /connections [get]
func (cc *ConnectionController) List(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(c)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	connections, total, err := cc.connectionService.List(
		c.Request.Context(), identity, models.ConnectionStatus(c.Query("status")), offset, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	results := make([]dto.ConnectionResponse, 0, len(connections))
	for _, conn := range connections {
		results = append(results, toConnectionResponse(conn, identity.UserID))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ConnectionListResponse{
		Connections:    results,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}))
}

// MutualCount godoc
// @Summary Count mutual connections with a peer
// @Description Falls back to a direct query when the stored procedure is unavailable
// @Tags connections
// @Security BearerAuth
// @Produce json
// @Param peerId path string true "Peer profile ID"
// @Success 200 {object} dto.APIResponse{data=dto.MutualConnectionsResponse}
// @Router /connections/mutual/{peerId} [get]
func (cc *ConnectionController) MutualCount(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	peerID := c.Param("peerId")
	count, err := cc.connectionService.MutualCount(c.Request.Context(), identity, peerID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MutualConnectionsResponse{PeerID: peerID, Count: count}))
}
