package services

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/auth"
	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/middleware"
	"github.com/campuslink/campuslink/internal/permissions"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/filestorage"
	"github.com/campuslink/campuslink/internal/pkg/realtime"
	"github.com/campuslink/campuslink/internal/pkg/validation"
	"github.com/campuslink/campuslink/internal/tenant"
)

// postRepository is the slice of the post repository this service consumes.
type postRepository interface {
	Create(ctx context.Context, p *models.Post) error
	GetByID(ctx context.Context, id, callerID string) (*models.Post, error)
	Update(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
	IncrementViewCount(ctx context.Context, id string) error
	CreateComment(ctx context.Context, c *models.Comment) error
	ListComments(ctx context.Context, postID string) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, id, authorID string) error
	ToggleReaction(ctx context.Context, reaction *models.Reaction) (bool, int64, error)
}

// reactionToggler calls the reaction stored procedure.
type reactionToggler interface {
	ToggleReaction(ctx context.Context, postID, profileID, kind string) (bool, int64, error)
}

// savedItemToggler flips the saved state of an item and lists saved items.
type savedItemToggler interface {
	Toggle(ctx context.Context, item *models.SavedItem) (bool, error)
	ListForProfile(ctx context.Context, profileID, itemType string) ([]*models.SavedItem, error)
}

// PostService defines the interface for post, comment and reaction operations
type PostService interface {
	Create(ctx context.Context, caller *auth.Identity, content string, attachmentURL *string) (*models.Post, error)
	UploadAttachment(ctx context.Context, caller *auth.Identity, file *multipart.FileHeader) (string, error)
	Get(ctx context.Context, caller *auth.Identity, postID string) (*models.Post, error)
	Update(ctx context.Context, caller *auth.Identity, postID, content string) (*models.Post, error)
	Delete(ctx context.Context, caller *auth.Identity, postID string) error
	Comment(ctx context.Context, caller *auth.Identity, postID, content string) (*models.Comment, error)
	ListComments(ctx context.Context, caller *auth.Identity, postID string) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, caller *auth.Identity, commentID string) error
	ToggleReaction(ctx context.Context, caller *auth.Identity, postID, kind string) (reacted bool, count int64, err error)
	ToggleSave(ctx context.Context, caller *auth.Identity, postID string) (saved bool, err error)
	ListSaved(ctx context.Context, caller *auth.Identity, itemType string) ([]*models.SavedItem, error)
}

type postServiceImpl struct {
	posts   postRepository
	rpc     reactionToggler
	saves   savedItemToggler
	guard   *tenant.Guard
	hub     eventPublisher
	storage filestorage.Storage
	logger  zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	posts postRepository,
	rpc reactionToggler,
	saves savedItemToggler,
	guard *tenant.Guard,
	hub eventPublisher,
	storage filestorage.Storage,
	logger zerolog.Logger,
) PostService {
	return &postServiceImpl{
		posts:   posts,
		rpc:     rpc,
		saves:   saves,
		guard:   guard,
		hub:     hub,
		storage: storage,
		logger:  logger,
	}
}

// Create publishes a post into the caller's tenant feed
func (s *postServiceImpl) Create(ctx context.Context, caller *auth.Identity, content string, attachmentURL *string) (*models.Post, error) {
	if !caller.Can(permissions.CapCreatePost) {
		return nil, apperrors.NewForbiddenError("your role cannot create posts")
	}
	trimmed, err := validation.RequiredText("content", content, validation.ContentMaxLength)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:            uuid.New().String(),
		AuthorID:      caller.UserID,
		Content:       trimmed,
		CollegeDomain: caller.CollegeDomain,
		AttachmentURL: attachmentURL,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	channel := realtime.FeedChannel(caller.CollegeDomain)
	goBackground(s.logger, "publish_post", func(context.Context) error {
		s.hub.Publish(channel, "post", post)
		return nil
	})

	return post, nil
}

// UploadAttachment stores a post attachment and returns its URL for use in a
// subsequent create call.
func (s *postServiceImpl) UploadAttachment(_ context.Context, caller *auth.Identity, file *multipart.FileHeader) (string, error) {
	if !caller.Can(permissions.CapCreatePost) {
		return "", apperrors.NewForbiddenError("your role cannot create posts")
	}
	return s.storage.Save(file, filestorage.KindAttachment)
}

// getVisible loads a post and applies the tenant check. Cross-tenant posts
// read as not found so existence does not leak.
func (s *postServiceImpl) getVisible(ctx context.Context, caller *auth.Identity, postID string) (*models.Post, error) {
	if err := validation.ResourceID(postID); err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, postID, caller.UserID)
	if err != nil {
		return nil, err
	}
	if !s.guard.SameTenant(ctx, caller.CollegeDomain, post.CollegeDomain) {
		return nil, apperrors.ErrResourceNotFound
	}
	return post, nil
}

// Get returns a post visible to the caller and bumps its view counter in the
// background.
func (s *postServiceImpl) Get(ctx context.Context, caller *auth.Identity, postID string) (*models.Post, error) {
	post, err := s.getVisible(ctx, caller, postID)
	if err != nil {
		return nil, err
	}

	goBackground(s.logger, "increment_view_count", func(ctx context.Context) error {
		return s.posts.IncrementViewCount(ctx, postID)
	})

	return post, nil
}

// Update edits a post. Only the author may edit.
func (s *postServiceImpl) Update(ctx context.Context, caller *auth.Identity, postID, content string) (*models.Post, error) {
	trimmed, err := validation.RequiredText("content", content, validation.ContentMaxLength)
	if err != nil {
		return nil, err
	}
	post, err := s.getVisible(ctx, caller, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != caller.UserID {
		return nil, apperrors.NewForbiddenError("only the author can edit a post")
	}
	if err := s.posts.Update(ctx, postID, trimmed); err != nil {
		return nil, err
	}
	post.Content = trimmed
	return post, nil
}

// Delete removes a post. The author or a moderator may delete.
func (s *postServiceImpl) Delete(ctx context.Context, caller *auth.Identity, postID string) error {
	post, err := s.getVisible(ctx, caller, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != caller.UserID && !caller.Can(permissions.CapModerateContent) {
		return apperrors.NewForbiddenError("only the author or a moderator can delete a post")
	}
	return s.posts.Delete(ctx, postID)
}

// Comment adds a comment to a post in the caller's tenant
func (s *postServiceImpl) Comment(ctx context.Context, caller *auth.Identity, postID, content string) (*models.Comment, error) {
	if !caller.Can(permissions.CapComment) {
		return nil, apperrors.NewForbiddenError("your role cannot comment")
	}
	trimmed, err := validation.RequiredText("content", content, validation.ContentMaxLength)
	if err != nil {
		return nil, err
	}
	if _, err := s.getVisible(ctx, caller, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:       uuid.New().String(),
		PostID:   postID,
		AuthorID: caller.UserID,
		Content:  trimmed,
	}
	if err := s.posts.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a post's comments, tenant-checked
func (s *postServiceImpl) ListComments(ctx context.Context, caller *auth.Identity, postID string) ([]*models.Comment, error) {
	if _, err := s.getVisible(ctx, caller, postID); err != nil {
		return nil, err
	}
	return s.posts.ListComments(ctx, postID)
}

// DeleteComment removes a comment owned by the caller
func (s *postServiceImpl) DeleteComment(ctx context.Context, caller *auth.Identity, commentID string) error {
	if err := validation.ResourceID(commentID); err != nil {
		return err
	}
	return s.posts.DeleteComment(ctx, commentID, caller.UserID)
}

// ToggleReaction flips the caller's reaction on a post. The stored procedure
// is preferred for its atomicity; when unavailable the direct-table fallback
// answers, trading atomicity under concurrency for availability.
func (s *postServiceImpl) ToggleReaction(ctx context.Context, caller *auth.Identity, postID, kind string) (bool, int64, error) {
	if !caller.Can(permissions.CapReact) {
		return false, 0, apperrors.NewForbiddenError("your role cannot react")
	}
	if _, err := s.getVisible(ctx, caller, postID); err != nil {
		return false, 0, err
	}
	if kind == "" {
		kind = "like"
	}

	reacted, count, err := s.rpc.ToggleReaction(ctx, postID, caller.UserID, kind)
	if err == nil {
		return reacted, count, nil
	}
	if !apperrors.Is(err, apperrors.ErrRemoteUnavailable) {
		return false, 0, err
	}

	s.logger.Warn().Str("postId", postID).Msg("Reaction procedure unavailable, using direct toggle")
	middleware.CountRPCFallback("toggle_post_reaction")
	return s.posts.ToggleReaction(ctx, &models.Reaction{
		ID:        uuid.New().String(),
		PostID:    postID,
		ProfileID: caller.UserID,
		Kind:      kind,
	})
}

// ToggleSave flips the caller's saved state for a post. The tenant check
// runs first: a cross-tenant post cannot be saved.
func (s *postServiceImpl) ToggleSave(ctx context.Context, caller *auth.Identity, postID string) (bool, error) {
	if _, err := s.getVisible(ctx, caller, postID); err != nil {
		return false, err
	}
	return s.saves.Toggle(ctx, &models.SavedItem{
		ID:        uuid.New().String(),
		ProfileID: caller.UserID,
		ItemType:  "post",
		ItemID:    postID,
	})
}

// ListSaved returns the caller's bookmarks, newest first. itemType narrows the
// result to one resource family; empty means everything.
func (s *postServiceImpl) ListSaved(ctx context.Context, caller *auth.Identity, itemType string) ([]*models.SavedItem, error) {
	switch itemType {
	case "", "post", "marketplace_item":
	default:
		return nil, apperrors.NewValidationError("unknown item type")
	}
	return s.saves.ListForProfile(ctx, caller.UserID, itemType)
}
