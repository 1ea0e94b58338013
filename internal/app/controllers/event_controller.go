package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/app/services"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/helpers"
)

// EventController handles event and RSVP endpoints
type EventController struct {
	eventService services.EventService
	logger       zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService, logger zerolog.Logger) *EventController {
	return &EventController{eventService: eventService, logger: logger}
}

// Create godoc
// @Summary Create an event
// @Tags events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event data"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /events [post]
func (ec *EventController) Create(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	event, err := ec.eventService.Create(c.Request.Context(), identity, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(toEventResponse(event)))
}

// Get godoc
// @Summary Get an event by ID
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /events/{id} [get]
func (ec *EventController) Get(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	event, err := ec.eventService.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toEventResponse(event)))
}

// List godoc
// @Summary List events in the caller's college
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param upcoming query bool false "Only future events"
// @Param page query int false "Page"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.EventListResponse}
// @Router /events [get]
func (ec *EventController) List(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(c)
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	upcomingOnly := c.Query("upcoming") == "true"

	events, total, err := ec.eventService.List(c.Request.Context(), identity, upcomingOnly, offset, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	results := make([]dto.EventResponse, 0, len(events))
	for _, event := range events {
		results = append(results, toEventResponse(event))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.EventListResponse{
		Events:         results,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}))
}

// Update edits an event; only the organizer may do this
func (ec *EventController) Update(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	event, err := ec.eventService.Update(c.Request.Context(), identity, c.Param("id"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toEventResponse(event)))
}

// Cancel soft-cancels an event (organizer or moderator)
func (ec *EventController) Cancel(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	if err := ec.eventService.Cancel(c.Request.Context(), identity, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "event cancelled"}))
}

// RSVP godoc
// @Summary RSVP to an event
// @Description Repeat RSVPs converge on the attending state
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /events/{id}/rsvp [post]
func (ec *EventController) RSVP(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	count, err := ec.eventService.RSVP(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"attending": true, "attendeeCount": count}))
}

// WithdrawRSVP removes the caller's RSVP
func (ec *EventController) WithdrawRSVP(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	count, err := ec.eventService.WithdrawRSVP(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"attending": false, "attendeeCount": count}))
}

// ListAttendees returns the profiles attending an event
func (ec *EventController) ListAttendees(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	attendees, err := ec.eventService.ListAttendees(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	results := make([]dto.ProfileBasicResponse, 0, len(attendees))
	for _, profile := range attendees {
		results = append(results, *toProfileBasic(profile))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(results))
}
