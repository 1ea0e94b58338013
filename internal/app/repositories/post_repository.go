package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/dberrors"
)

// PostRepository handles database operations for posts, comments and reactions
type PostRepository struct {
	DB *pgxpool.Pool
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{DB: db}
}

// Create inserts a new post
func (r *PostRepository) Create(ctx context.Context, p *models.Post) error {
	query := `
		INSERT INTO posts (id, author_id, content, college_domain, attachment_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query, p.ID, p.AuthorID, p.Content, p.CollegeDomain, p.AttachmentURL).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating post: %w", err)
	}
	return nil
}

// GetByID retrieves a post with author and engagement counts denormalized.
// callerID drives the saved-by-caller flag.
func (r *PostRepository) GetByID(ctx context.Context, id, callerID string) (*models.Post, error) {
	query := `
		SELECT p.id, p.author_id, p.content, p.college_domain, p.attachment_url,
		       p.view_count, p.created_at, p.updated_at,
		       a.full_name, a.headline, a.role, a.avatar_url,
		       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id),
		       (SELECT COUNT(*) FROM reactions x WHERE x.post_id = p.id),
		       EXISTS (SELECT 1 FROM saved_items s
		               WHERE s.profile_id = $2 AND s.item_type = 'post' AND s.item_id = p.id)
		FROM posts p
		JOIN profiles a ON a.id = p.author_id
		WHERE p.id = $1
	`
	var p models.Post
	var author models.Profile
	err := r.DB.QueryRow(ctx, query, id, callerID).Scan(
		&p.ID, &p.AuthorID, &p.Content, &p.CollegeDomain, &p.AttachmentURL,
		&p.ViewCount, &p.CreatedAt, &p.UpdatedAt,
		&author.FullName, &author.Headline, &author.Role, &author.AvatarURL,
		&p.CommentCount, &p.ReactionCount, &p.SavedByCaller,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving post: %w", err)
	}
	author.ID = p.AuthorID
	p.Author = &author
	return &p, nil
}

// ListFeed is the hand-rolled fallback for the feed stored procedure:
// tenant-scoped posts, newest first, with author and counts joined.
func (r *PostRepository) ListFeed(ctx context.Context, collegeDomain, callerID string, offset uint64, limit int) ([]*models.Post, int64, error) {
	builder := squirrel.Select(
		"p.id", "p.author_id", "p.content", "p.college_domain", "p.attachment_url",
		"p.view_count", "p.created_at", "p.updated_at",
		"a.full_name", "a.headline", "a.role", "a.avatar_url",
		"(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)",
		"(SELECT COUNT(*) FROM reactions x WHERE x.post_id = p.id)",
	).
		Column(squirrel.Expr(
			"EXISTS (SELECT 1 FROM saved_items s WHERE s.profile_id = ? AND s.item_type = 'post' AND s.item_id = p.id)",
			callerID)).
		From("posts p").
		Join("profiles a ON a.id = p.author_id").
		Where(squirrel.Expr("(p.college_domain = ? OR p.college_domain = '')", collegeDomain)).
		OrderBy("p.created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing feed query: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var p models.Post
		var author models.Profile
		if err := rows.Scan(
			&p.ID, &p.AuthorID, &p.Content, &p.CollegeDomain, &p.AttachmentURL,
			&p.ViewCount, &p.CreatedAt, &p.UpdatedAt,
			&author.FullName, &author.Headline, &author.Role, &author.AvatarURL,
			&p.CommentCount, &p.ReactionCount, &p.SavedByCaller,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning post row: %w", err)
		}
		author.ID = p.AuthorID
		p.Author = &author
		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating post rows: %w", err)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM posts WHERE college_domain = $1 OR college_domain = ''`
	if err := r.DB.QueryRow(ctx, countQuery, collegeDomain).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting posts: %w", err)
	}

	return posts, total, nil
}

// Update edits a post's content
func (r *PostRepository) Update(ctx context.Context, id, content string) error {
	result, err := r.DB.Exec(ctx,
		`UPDATE posts SET content = $2, updated_at = NOW() WHERE id = $1`, id, content)
	if err != nil {
		return fmt.Errorf("error updating post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// Delete removes a post and its dependents (cascaded by the schema)
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// IncrementViewCount bumps the analytics counter. Called fire-and-forget;
// failures are non-fatal by policy.
func (r *PostRepository) IncrementViewCount(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx, `UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error incrementing view count: %w", err)
	}
	return nil
}

// CreateComment inserts a comment on a post
func (r *PostRepository) CreateComment(ctx context.Context, c *models.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, author_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	if err := r.DB.QueryRow(ctx, query, c.ID, c.PostID, c.AuthorID, c.Content).Scan(&c.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrResourceNotFound
		}
		return fmt.Errorf("error creating comment: %w", err)
	}
	return nil
}

// ListComments returns a post's comments, oldest first, with authors joined
func (r *PostRepository) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, c.content, c.created_at,
		       a.full_name, a.headline, a.role, a.avatar_url
		FROM comments c
		JOIN profiles a ON a.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC
	`
	rows, err := r.DB.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var c models.Comment
		var author models.Profile
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt,
			&author.FullName, &author.Headline, &author.Role, &author.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("error scanning comment row: %w", err)
		}
		author.ID = c.AuthorID
		c.Author = &author
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

// DeleteComment removes a comment owned by authorID
func (r *PostRepository) DeleteComment(ctx context.Context, id, authorID string) error {
	result, err := r.DB.Exec(ctx,
		`DELETE FROM comments WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// ToggleReaction is the direct-table fallback for the reaction stored
// procedure: inserts the reaction, or removes it when it already exists.
// Returns the resulting state and total count.
func (r *PostRepository) ToggleReaction(ctx context.Context, reaction *models.Reaction) (reacted bool, count int64, err error) {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM reactions WHERE post_id = $1 AND profile_id = $2`,
		reaction.PostID, reaction.ProfileID)
	if err != nil {
		return false, 0, fmt.Errorf("error toggling reaction: %w", err)
	}

	if tag.RowsAffected() == 0 {
		query := `
			INSERT INTO reactions (id, post_id, profile_id, kind)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := r.DB.Exec(ctx, query, reaction.ID, reaction.PostID, reaction.ProfileID, reaction.Kind); err != nil {
			if dberrors.IsUniqueViolation(err) {
				// Concurrent toggle won the insert; treat as reacted.
				reacted = true
			} else if dberrors.IsForeignKeyViolation(err) {
				return false, 0, apperrors.ErrResourceNotFound
			} else {
				return false, 0, fmt.Errorf("error inserting reaction: %w", err)
			}
		}
		reacted = true
	}

	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM reactions WHERE post_id = $1`, reaction.PostID).Scan(&count); err != nil {
		return reacted, 0, fmt.Errorf("error counting reactions: %w", err)
	}
	return reacted, count, nil
}
