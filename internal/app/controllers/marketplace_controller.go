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

// MarketplaceController handles marketplace listing endpoints
type MarketplaceController struct {
	marketplaceService services.MarketplaceService
	logger             zerolog.Logger
}

// NewMarketplaceController creates a new MarketplaceController
func NewMarketplaceController(marketplaceService services.MarketplaceService, logger zerolog.Logger) *MarketplaceController {
	return &MarketplaceController{marketplaceService: marketplaceService, logger: logger}
}

// Create godoc
// @Summary Create a marketplace listing
// @Tags marketplace
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateItemRequest true "Listing data"
// @Success 201 {object} dto.APIResponse{data=dto.ItemResponse}
// @Router /marketplace [post]
func (mc *MarketplaceController) Create(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	item, err := mc.marketplaceService.Create(c.Request.Context(), identity, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(toItemResponse(item, false)))
}

// Get godoc
// @Summary Get a marketplace listing by ID
// @Tags marketplace
// @Security BearerAuth
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} dto.APIResponse{data=dto.ItemResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /marketplace/{id} [get]
func (mc *MarketplaceController) Get(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	item, saved, err := mc.marketplaceService.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toItemResponse(item, saved)))
}

// List godoc
// @Summary List marketplace listings in the caller's college
// @Tags marketplace
// @Security BearerAuth
// @Produce json
// @Param q query string false "Search text"
// @Param includeSold query bool false "Include sold listings"
// @Param page query int false "Page"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ItemListResponse}
// @Router /marketplace [get]
func (mc *MarketplaceController) List(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(c)
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	includeSold := c.Query("includeSold") == "true"

	items, total, err := mc.marketplaceService.List(c.Request.Context(), identity, c.Query("q"), includeSold, offset, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	results := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		results = append(results, toItemResponse(item, false))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ItemListResponse{
		Items:          results,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}))
}

// Update edits a listing; only the seller may do this
func (mc *MarketplaceController) Update(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	item, err := mc.marketplaceService.Update(c.Request.Context(), identity, c.Param("id"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toItemResponse(item, false)))
}

// MarkSold flags a listing as sold; only the seller may do this
func (mc *MarketplaceController) MarkSold(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	item, err := mc.marketplaceService.MarkSold(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toItemResponse(item, false)))
}

// UploadImage stores a listing photo, replacing any previous one
func (mc *MarketplaceController) UploadImage(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(apperrors.NewValidationError("file is required"))
		return
	}
	url, err := mc.marketplaceService.UploadImage(c.Request.Context(), identity, c.Param("id"), file)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"imageUrl": url}))
}

// Delete removes a listing; only the seller may do this
func (mc *MarketplaceController) Delete(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	if err := mc.marketplaceService.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "listing deleted"}))
}

// ToggleSave godoc
// @Summary Toggle a listing in the caller's saved items
// @Tags marketplace
// @Security BearerAuth
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} dto.APIResponse{data=dto.SaveStateResponse}
// @Router /marketplace/{id}/save [post]
func (mc *MarketplaceController) ToggleSave(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	itemID := c.Param("id")
	saved, err := mc.marketplaceService.ToggleSave(c.Request.Context(), identity, itemID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SaveStateResponse{ItemID: itemID, Saved: saved}))
}
