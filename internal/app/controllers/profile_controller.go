package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appauth "github.com/campuslink/campuslink/internal/app/auth"
	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/app/services"
	"github.com/campuslink/campuslink/internal/middleware"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/helpers"
)

// ProfileController handles profile, experience, skill and upload endpoints
type ProfileController struct {
	profileService services.ProfileService
	logger         zerolog.Logger
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService, logger zerolog.Logger) *ProfileController {
	return &ProfileController{profileService: profileService, logger: logger}
}

func identityOrAbort(c *gin.Context) (*appauth.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		_ = c.Error(apperrors.ErrAuthenticationRequired)
	}
	return identity, ok
}

// GetMe godoc
// @Summary Get the caller's own profile
// @Tags profiles
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Router /profiles/me [get]
func (pc *ProfileController) GetMe(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	profile, err := pc.profileService.Get(c.Request.Context(), identity, identity.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toProfileResponse(profile)))
}

// Get godoc
// @Summary Get a profile by ID
// @Tags profiles
// @Security BearerAuth
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /profiles/{id} [get]
func (pc *ProfileController) Get(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	profile, err := pc.profileService.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toProfileResponse(profile)))
}

// Update godoc
// @Summary Update the caller's profile
// @Tags profiles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Router /profiles/me [put]
func (pc *ProfileController) Update(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	profile, err := pc.profileService.Update(c.Request.Context(), identity, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toProfileResponse(profile)))
}

// Search godoc
// @Summary Search profiles in the caller's college
// @Tags profiles
// @Security BearerAuth
// @Produce json
// @Param q query string false "Search text"
// @Param page query int false "Page"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse
// @Router /profiles [get]
func (pc *ProfileController) Search(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(c)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	profiles, total, err := pc.profileService.Search(c.Request.Context(), identity, c.Query("q"), offset, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	results := make([]dto.ProfileBasicResponse, 0, len(profiles))
	for _, p := range profiles {
		results = append(results, *toProfileBasic(p))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"profiles":   results,
		"pagination": helpers.NewPaginationInfo(total, page, size),
	}))
}

// UploadAvatar stores a new profile picture
func (pc *ProfileController) UploadAvatar(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(apperrors.NewValidationError("file is required"))
		return
	}
	url, err := pc.profileService.UploadAvatar(c.Request.Context(), identity, file)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"avatarUrl": url}))
}

// UploadResume stores a new resume document
func (pc *ProfileController) UploadResume(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(apperrors.NewValidationError("file is required"))
		return
	}
	url, err := pc.profileService.UploadResume(c.Request.Context(), identity, file)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"resumeUrl": url}))
}

// Deactivate soft-deletes the caller's account
func (pc *ProfileController) Deactivate(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	if err := pc.profileService.Deactivate(c.Request.Context(), identity); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "account deactivated"}))
}

// AddExperience creates an experience entry
func (pc *ProfileController) AddExperience(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.AddExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	experience, err := pc.profileService.AddExperience(c.Request.Context(), identity, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(experience))
}

// ListExperiences returns a profile's experience entries
func (pc *ProfileController) ListExperiences(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	experiences, err := pc.profileService.ListExperiences(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(experiences))
}

// DeleteExperience removes one of the caller's experience entries
func (pc *ProfileController) DeleteExperience(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	if err := pc.profileService.DeleteExperience(c.Request.Context(), identity, c.Param("experienceId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "experience deleted"}))
}

// AddSkill attaches a skill to the caller's profile
func (pc *ProfileController) AddSkill(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.AddSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	skill, err := pc.profileService.AddSkill(c.Request.Context(), identity, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(skill))
}

// ListSkills returns a profile's skills
func (pc *ProfileController) ListSkills(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	skills, err := pc.profileService.ListSkills(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(skills))
}

// DeleteSkill removes one of the caller's skills
func (pc *ProfileController) DeleteSkill(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	if err := pc.profileService.DeleteSkill(c.Request.Context(), identity, c.Param("skillId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "skill deleted"}))
}

// AnalyzeSkills godoc
// @Summary Get the caller's derived skill analysis
// @Description Degrades to empty lists when the backing procedure is unavailable
// @Tags profiles
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SkillAnalysisResponse}
// @Router /profiles/me/skill-analysis [get]
func (pc *ProfileController) AnalyzeSkills(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	analysis, err := pc.profileService.AnalyzeSkills(c.Request.Context(), identity)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(analysis))
}
