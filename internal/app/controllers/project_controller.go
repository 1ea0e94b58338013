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

// ProjectController handles team-up project endpoints
type ProjectController struct {
	projectService services.ProjectService
	logger         zerolog.Logger
}

// NewProjectController creates a new ProjectController
func NewProjectController(projectService services.ProjectService, logger zerolog.Logger) *ProjectController {
	return &ProjectController{projectService: projectService, logger: logger}
}

// Create godoc
// @Summary Create a project
// @Tags projects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateProjectRequest true "Project data"
// @Success 201 {object} dto.APIResponse{data=dto.ProjectResponse}
// @Router /projects [post]
func (pc *ProjectController) Create(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	project, err := pc.projectService.Create(c.Request.Context(), identity, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(toProjectResponse(project)))
}

// Get returns a project by ID
func (pc *ProjectController) Get(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	project, err := pc.projectService.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toProjectResponse(project)))
}

// List godoc
// @Summary List projects in the caller's college
// @Tags projects
// @Security BearerAuth
// @Produce json
// @Param open query bool false "Only projects with open roles"
// @Param page query int false "Page"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ProjectListResponse}
// @Router /projects [get]
func (pc *ProjectController) List(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(c)
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	openOnly := c.Query("open") == "true"

	projects, total, err := pc.projectService.List(c.Request.Context(), identity, openOnly, offset, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	results := make([]dto.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		results = append(results, toProjectResponse(project))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ProjectListResponse{
		Projects:       results,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}))
}

// Update edits a project; only the owner may do this
func (pc *ProjectController) Update(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	project, err := pc.projectService.Update(
		c.Request.Context(), identity, c.Param("id"), req.Title, req.Description, req.TeamSize, req.IsOpen)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toProjectResponse(project)))
}

// Delete removes a project; only the owner may do this
func (pc *ProjectController) Delete(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	if err := pc.projectService.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "project deleted"}))
}

// Apply godoc
// @Summary Apply to join a project
// @Tags projects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body dto.ApplyToProjectRequest false "Optional pitch"
// @Success 201 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /projects/{id}/applications [post]
func (pc *ProjectController) Apply(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.ApplyToProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	application, err := pc.projectService.Apply(c.Request.Context(), identity, c.Param("id"), req.Pitch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(toApplicationResponse(application)))
}

// ListApplications returns pending applications; only the owner may see them
func (pc *ProjectController) ListApplications(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	applications, err := pc.projectService.ListApplications(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	results := make([]dto.ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		results = append(results, toApplicationResponse(application))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(results))
}

// RespondToApplication godoc
// @Summary Accept or reject a project application
// @Description Acceptance adds the applicant as a member and recomputes the project counters
// @Tags projects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param applicationId path string true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProjectResponse}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /projects/applications/{applicationId} [put]
func (pc *ProjectController) RespondToApplication(c *gin.Context) {
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
	project, err := pc.projectService.RespondToApplication(c.Request.Context(), identity, c.Param("applicationId"), req.Accept)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toProjectResponse(project)))
}

// ListMembers returns the profiles on a project team
func (pc *ProjectController) ListMembers(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	members, err := pc.projectService.ListMembers(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	results := make([]dto.ProfileBasicResponse, 0, len(members))
	for _, profile := range members {
		results = append(results, *toProfileBasic(profile))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(results))
}
