package models

import "time"

// Post defines the post model based on the 'posts' table. CollegeDomain is
// copied from the author at creation time and scopes visibility.
type Post struct {
	ID            string    `json:"id" db:"id"`
	AuthorID      string    `json:"authorId" db:"author_id"`
	Content       string    `json:"content" db:"content"`
	CollegeDomain string    `json:"collegeDomain" db:"college_domain"`
	AttachmentURL *string   `json:"attachmentUrl,omitempty" db:"attachment_url"`
	ViewCount     int64     `json:"viewCount" db:"view_count"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	Author        *Profile `json:"author,omitempty"`
	CommentCount  int64    `json:"commentCount"`
	ReactionCount int64    `json:"reactionCount"`
	SavedByCaller bool     `json:"savedByCaller"`
}

// Comment defines a comment on a post
type Comment struct {
	ID        string    `json:"id" db:"id"`
	PostID    string    `json:"postId" db:"post_id"`
	AuthorID  string    `json:"authorId" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Author *Profile `json:"author,omitempty"`
}

// Reaction defines a reaction on a post. One row per (post, profile) pair.
type Reaction struct {
	ID        string    `json:"id" db:"id"`
	PostID    string    `json:"postId" db:"post_id"`
	ProfileID string    `json:"profileId" db:"profile_id"`
	Kind      string    `json:"kind" db:"kind"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// SavedItem marks a resource saved by a profile. ItemType distinguishes the
// resource family (post, marketplace_item, ...).
type SavedItem struct {
	ID        string    `json:"id" db:"id"`
	ProfileID string    `json:"profileId" db:"profile_id"`
	ItemType  string    `json:"itemType" db:"item_type"`
	ItemID    string    `json:"itemId" db:"item_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
