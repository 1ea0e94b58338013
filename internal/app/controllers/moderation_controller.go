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

// ModerationController handles report filing and the moderation queue
type ModerationController struct {
	moderationService services.ModerationService
	logger            zerolog.Logger
}

// NewModerationController creates a new ModerationController
func NewModerationController(moderationService services.ModerationService, logger zerolog.Logger) *ModerationController {
	return &ModerationController{moderationService: moderationService, logger: logger}
}

// Report godoc
// @Summary Report a resource
// @Description Repeat reports of the same resource by the same caller conflict
// @Tags moderation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ReportRequest true "Report"
// @Success 201 {object} dto.APIResponse{data=models.Report}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /reports [post]
func (mc *ModerationController) Report(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	report, err := mc.moderationService.Report(c.Request.Context(), identity, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(report))
}

// Queue godoc
// @Summary List unresolved reports
// @Description Requires content-moderation permission
// @Tags moderation
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /reports [get]
func (mc *ModerationController) Queue(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(c)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	reports, total, err := mc.moderationService.Queue(c.Request.Context(), identity, offset, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"reports":    reports,
		"pagination": helpers.NewPaginationInfo(total, page, size),
	}))
}

// Resolve marks a report handled; requires content-moderation permission
func (mc *ModerationController) Resolve(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req struct {
		Remove bool `json:"remove"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	if err := mc.moderationService.Resolve(c.Request.Context(), identity, c.Param("id"), req.Remove); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "report resolved"}))
}
