package dto

import "time"

// CreatePostRequest creates a post
type CreatePostRequest struct {
	Content       string  `json:"content" binding:"required"`
	AttachmentURL *string `json:"attachmentUrl"`
}

// UpdatePostRequest edits a post's content
type UpdatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

// PostResponse is the wire shape of a post with denormalized author data
type PostResponse struct {
	ID            string                `json:"id"`
	Content       string                `json:"content"`
	Author        *ProfileBasicResponse `json:"author,omitempty"`
	AttachmentURL *string               `json:"attachmentUrl,omitempty"`
	CommentCount  int64                 `json:"commentCount"`
	ReactionCount int64                 `json:"reactionCount"`
	SavedByCaller bool                  `json:"savedByCaller"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// PostListResponse is a page of posts
type PostListResponse struct {
	Posts          []PostResponse `json:"posts"`
	PaginationInfo PaginationInfo `json:"pagination"`
}

// CreateCommentRequest creates a comment on a post
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CommentResponse is the wire shape of a comment
type CommentResponse struct {
	ID        string                `json:"id"`
	PostID    string                `json:"postId"`
	Content   string                `json:"content"`
	Author    *ProfileBasicResponse `json:"author,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
}

// ReactRequest toggles a reaction on a post. Kind defaults to "like".
type ReactRequest struct {
	Kind string `json:"kind"`
}

// ReactionStateResponse reports the caller-visible reaction state after toggle
type ReactionStateResponse struct {
	PostID  string `json:"postId"`
	Reacted bool   `json:"reacted"`
	Count   int64  `json:"count"`
}

// TrendingTopicResponse is one trending topic entry; cosmetic, may be empty
type TrendingTopicResponse struct {
	Topic string `json:"topic"`
	Count int64  `json:"count"`
}
