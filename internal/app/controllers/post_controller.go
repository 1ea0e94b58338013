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

// PostController handles post, comment, reaction and feed endpoints
type PostController struct {
	postService services.PostService
	feedService services.FeedService
	logger      zerolog.Logger
}

// NewPostController creates a new PostController
func NewPostController(postService services.PostService, feedService services.FeedService, logger zerolog.Logger) *PostController {
	return &PostController{postService: postService, feedService: feedService, logger: logger}
}

// Create godoc
// @Summary Create a post
// @Tags posts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreatePostRequest true "Post content"
// @Success 201 {object} dto.APIResponse{data=dto.PostResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /posts [post]
func (pc *PostController) Create(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	post, err := pc.postService.Create(c.Request.Context(), identity, req.Content, req.AttachmentURL)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(toPostResponse(post)))
}

// UploadAttachment stores an attachment and returns its URL
func (pc *PostController) UploadAttachment(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(apperrors.NewValidationError("file is required"))
		return
	}
	url, err := pc.postService.UploadAttachment(c.Request.Context(), identity, file)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"attachmentUrl": url}))
}

// Get godoc
// @Summary Get a post by ID
// @Tags posts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.PostResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /posts/{id} [get]
func (pc *PostController) Get(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	post, err := pc.postService.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toPostResponse(post)))
}

// Update edits the caller's own post
func (pc *PostController) Update(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	post, err := pc.postService.Update(c.Request.Context(), identity, c.Param("id"), req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toPostResponse(post)))
}

// Delete removes a post (author or moderator)
func (pc *PostController) Delete(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	if err := pc.postService.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "post deleted"}))
}

// Comment godoc
// @Summary Comment on a post
// @Tags posts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body dto.CreateCommentRequest true "Comment content"
// @Success 201 {object} dto.APIResponse{data=dto.CommentResponse}
// @Router /posts/{id}/comments [post]
func (pc *PostController) Comment(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	comment, err := pc.postService.Comment(c.Request.Context(), identity, c.Param("id"), req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(toCommentResponse(comment)))
}

// ListComments returns all comments on a post, oldest first
func (pc *PostController) ListComments(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	comments, err := pc.postService.ListComments(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	results := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		results = append(results, toCommentResponse(comment))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(results))
}

// DeleteComment removes one of the caller's comments
func (pc *PostController) DeleteComment(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	if err := pc.postService.DeleteComment(c.Request.Context(), identity, c.Param("commentId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "comment deleted"}))
}

// ToggleReaction godoc
// @Summary Toggle the caller's reaction on a post
// @Description Uses the stored procedure when available, otherwise a direct toggle
// @Tags posts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body dto.ReactRequest false "Reaction kind"
// @Success 200 {object} dto.APIResponse{data=dto.ReactionStateResponse}
// @Router /posts/{id}/reactions [post]
func (pc *PostController) ToggleReaction(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	var req dto.ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		_ = c.Error(apperrors.NewValidationError(err.Error()))
		return
	}
	postID := c.Param("id")
	reacted, count, err := pc.postService.ToggleReaction(c.Request.Context(), identity, postID, req.Kind)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ReactionStateResponse{
		PostID:  postID,
		Reacted: reacted,
		Count:   count,
	}))
}

// ToggleSave godoc
// @Summary Toggle a post in the caller's saved items
// @Tags posts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.SaveStateResponse}
// @Router /posts/{id}/save [post]
func (pc *PostController) ToggleSave(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	postID := c.Param("id")
	saved, err := pc.postService.ToggleSave(c.Request.Context(), identity, postID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SaveStateResponse{ItemID: postID, Saved: saved}))
}

// ListSaved godoc
// @Summary List the caller's saved items
// @Tags posts
// @Security BearerAuth
// @Produce json
// @Param type query string false "Filter by item type (post, marketplace_item)"
// @Success 200 {object} dto.APIResponse
// @Router /saved [get]
func (pc *PostController) ListSaved(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	items, err := pc.postService.ListSaved(c.Request.Context(), identity, c.Query("type"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(items))
}

// Feed godoc
// @Summary Get the caller's college feed
// @Tags feed
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PostListResponse}
// @Router /feed [get]
func (pc *PostController) Feed(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(c)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	posts, total, err := pc.feedService.Feed(c.Request.Context(), identity, offset, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	results := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		results = append(results, toPostResponse(post))
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PostListResponse{
		Posts:          results,
		PaginationInfo: helpers.NewPaginationInfo(total, page, size),
	}))
}

// Trending godoc
// @Summary Get trending topics for the caller's college
// @Description Cosmetic endpoint; returns an empty list when the backing procedure is unavailable
// @Tags feed
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.TrendingTopicResponse}
// @Router /feed/trending [get]
func (pc *PostController) Trending(c *gin.Context) {
	identity, ok := identityOrAbort(c)
	if !ok {
		return
	}
	topics, err := pc.feedService.Trending(c.Request.Context(), identity)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(topics))
}
