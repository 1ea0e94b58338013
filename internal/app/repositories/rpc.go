package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/dberrors"
)

// TrendingTopic is one entry returned by the trending stored procedure
type TrendingTopic struct {
	Topic string
	Count int64
}

// SkillAnalysis is the derived skill-gap result
type SkillAnalysis struct {
	TopSkills     []string
	MissingSkills []string
}

// RPCClient calls the database-side stored procedures that back derived
// endpoints. These procedures may be absent or revoked on a given
// environment; callers treat ErrRemoteUnavailable as a signal to fall back
// or degrade, never as a fatal error.
type RPCClient struct {
	DB      *pgxpool.Pool
	breaker *gobreaker.CircuitBreaker
	logger  zerolog.Logger
}

// NewRPCClient creates an RPCClient with a shared circuit breaker. After
// repeated failures the breaker opens and calls fail fast for a cooldown
// period instead of hammering a broken procedure.
func NewRPCClient(db *pgxpool.Pool, logger zerolog.Logger) *RPCClient {
	settings := gobreaker.Settings{
		Name:    "db-rpc",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("RPC circuit breaker state change")
		},
	}
	return &RPCClient{
		DB:      db,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// call runs fn through the breaker and maps failures to the degradation
// sentinel. A missing or unauthorized procedure (undefined_function,
// insufficient_privilege) is a deployment gap, not a caller error.
func (c *RPCClient) call(operation string, fn func() (interface{}, error)) (interface{}, error) {
	result, err := c.breaker.Execute(fn)
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, apperrors.NewRemoteError(operation, err)
		}
		if dberrors.IsProcedureUnavailable(err) {
			c.logger.Warn().Err(err).Str("operation", operation).Msg("Stored procedure unavailable")
			return nil, apperrors.NewRemoteError(operation, err)
		}
		return nil, fmt.Errorf("rpc %s: %w", operation, err)
	}
	return result, nil
}

// TrendingTopics returns the tenant's trending topics via the
// get_trending_topics procedure.
func (c *RPCClient) TrendingTopics(ctx context.Context, collegeDomain string, limit int) ([]TrendingTopic, error) {
	result, err := c.call("get_trending_topics", func() (interface{}, error) {
		rows, err := c.DB.Query(ctx,
			`SELECT topic, post_count FROM get_trending_topics($1, $2)`, collegeDomain, limit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var topics []TrendingTopic
		for rows.Next() {
			var t TrendingTopic
			if err := rows.Scan(&t.Topic, &t.Count); err != nil {
				return nil, err
			}
			topics = append(topics, t)
		}
		return topics, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]TrendingTopic), nil
}

// FeedPage returns one page of the tenant feed via the get_feed procedure.
// Every row carries the unpaged total in its last column.
func (c *RPCClient) FeedPage(ctx context.Context, collegeDomain, callerID string, offset uint64, limit int) ([]*models.Post, int64, error) {
	type feedPage struct {
		posts []*models.Post
		total int64
	}
	result, err := c.call("get_feed", func() (interface{}, error) {
		rows, err := c.DB.Query(ctx, `
			SELECT id, author_id, content, college_domain, attachment_url,
			       view_count, created_at, updated_at,
			       author_name, author_headline, author_role, author_avatar_url,
			       comment_count, reaction_count, saved_by_caller, total_count
			FROM get_feed($1, $2, $3, $4)`,
			collegeDomain, callerID, offset, limit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var page feedPage
		for rows.Next() {
			var p models.Post
			var author models.Profile
			if err := rows.Scan(
				&p.ID, &p.AuthorID, &p.Content, &p.CollegeDomain, &p.AttachmentURL,
				&p.ViewCount, &p.CreatedAt, &p.UpdatedAt,
				&author.FullName, &author.Headline, &author.Role, &author.AvatarURL,
				&p.CommentCount, &p.ReactionCount, &p.SavedByCaller,
				&page.total,
			); err != nil {
				return nil, err
			}
			author.ID = p.AuthorID
			p.Author = &author
			page.posts = append(page.posts, &p)
		}
		return page, rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	page := result.(feedPage)
	return page.posts, page.total, nil
}

// MutualConnectionCount returns the number of shared accepted connections
// between two users via the get_mutual_connection_count procedure.
func (c *RPCClient) MutualConnectionCount(ctx context.Context, userA, userB string) (int64, error) {
	result, err := c.call("get_mutual_connection_count", func() (interface{}, error) {
		var count int64
		err := c.DB.QueryRow(ctx,
			`SELECT get_mutual_connection_count($1, $2)`, userA, userB).Scan(&count)
		return count, err
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

// AnalyzeSkills returns the profile's derived skill analysis via the
// analyze_profile_skills procedure.
func (c *RPCClient) AnalyzeSkills(ctx context.Context, profileID string) (*SkillAnalysis, error) {
	result, err := c.call("analyze_profile_skills", func() (interface{}, error) {
		var analysis SkillAnalysis
		err := c.DB.QueryRow(ctx,
			`SELECT top_skills, missing_skills FROM analyze_profile_skills($1)`, profileID).
			Scan(&analysis.TopSkills, &analysis.MissingSkills)
		return &analysis, err
	})
	if err != nil {
		return nil, err
	}
	return result.(*SkillAnalysis), nil
}

// ToggleReaction toggles a reaction via the toggle_post_reaction procedure,
// returning the resulting state and total count.
func (c *RPCClient) ToggleReaction(ctx context.Context, postID, profileID, kind string) (reacted bool, count int64, err error) {
	type toggleResult struct {
		reacted bool
		count   int64
	}
	result, err := c.call("toggle_post_reaction", func() (interface{}, error) {
		var tr toggleResult
		err := c.DB.QueryRow(ctx,
			`SELECT reacted, reaction_count FROM toggle_post_reaction($1, $2, $3)`,
			postID, profileID, kind).
			Scan(&tr.reacted, &tr.count)
		return tr, err
	})
	if err != nil {
		return false, 0, err
	}
	tr := result.(toggleResult)
	return tr.reacted, tr.count, nil
}
