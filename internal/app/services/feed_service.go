package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/auth"
	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/app/repositories"
	"github.com/campuslink/campuslink/internal/middleware"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

const (
	trendingCacheKeyPrefix = "trending:"
	trendingCacheTTL       = 5 * time.Minute
	trendingLimit          = 10
)

// feedLister is the tenant-scoped feed query.
type feedLister interface {
	ListFeed(ctx context.Context, collegeDomain, callerID string, offset uint64, limit int) ([]*models.Post, int64, error)
}

// feedProcedures calls the feed and trending stored procedures.
type feedProcedures interface {
	FeedPage(ctx context.Context, collegeDomain, callerID string, offset uint64, limit int) ([]*models.Post, int64, error)
	TrendingTopics(ctx context.Context, collegeDomain string, limit int) ([]repositories.TrendingTopic, error)
}

// FeedService defines the interface for the tenant feed and its derived
// trending endpoint
type FeedService interface {
	Feed(ctx context.Context, caller *auth.Identity, offset uint64, limit int) ([]*models.Post, int64, error)
	Trending(ctx context.Context, caller *auth.Identity) ([]dto.TrendingTopicResponse, error)
}

type feedServiceImpl struct {
	posts  feedLister
	rpc    feedProcedures
	rdb    *redis.Client // optional cache; nil disables
	logger zerolog.Logger
}

// NewFeedService creates a new FeedService. rdb may be nil.
func NewFeedService(posts feedLister, rpc feedProcedures, rdb *redis.Client, logger zerolog.Logger) FeedService {
	return &feedServiceImpl{posts: posts, rpc: rpc, rdb: rdb, logger: logger}
}

// Feed returns the caller's tenant feed, newest first. The stored procedure
// is preferred; when it is unavailable the hand-rolled query answers instead,
// so the endpoint degrades rather than fails.
func (s *feedServiceImpl) Feed(ctx context.Context, caller *auth.Identity, offset uint64, limit int) ([]*models.Post, int64, error) {
	posts, total, err := s.rpc.FeedPage(ctx, caller.CollegeDomain, caller.UserID, offset, limit)
	if err == nil {
		return posts, total, nil
	}
	if !apperrors.Is(err, apperrors.ErrRemoteUnavailable) {
		return nil, 0, err
	}

	s.logger.Warn().Str("domain", caller.CollegeDomain).Msg("Feed procedure unavailable, using fallback query")
	middleware.CountRPCFallback("get_feed")
	return s.posts.ListFeed(ctx, caller.CollegeDomain, caller.UserID, offset, limit)
}

// Trending returns the tenant's trending topics. The result is cached for a
// few minutes per tenant; when the backing procedure is unavailable the
// endpoint degrades to an empty list, it never fails the page.
func (s *feedServiceImpl) Trending(ctx context.Context, caller *auth.Identity) ([]dto.TrendingTopicResponse, error) {
	cacheKey := trendingCacheKeyPrefix + caller.CollegeDomain

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var topics []dto.TrendingTopicResponse
			if err := json.Unmarshal([]byte(cached), &topics); err == nil {
				return topics, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("Trending cache read failed")
		}
	}

	raw, err := s.rpc.TrendingTopics(ctx, caller.CollegeDomain, trendingLimit)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrRemoteUnavailable) {
			s.logger.Warn().Str("domain", caller.CollegeDomain).Msg("Trending procedure unavailable, returning empty list")
			middleware.CountRPCFallback("get_trending_topics")
			return []dto.TrendingTopicResponse{}, nil
		}
		return nil, err
	}

	topics := make([]dto.TrendingTopicResponse, 0, len(raw))
	for _, t := range raw {
		topics = append(topics, dto.TrendingTopicResponse{Topic: t.Topic, Count: t.Count})
	}

	if s.rdb != nil {
		if data, err := json.Marshal(topics); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, trendingCacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("Trending cache write failed")
			}
		}
	}

	return topics, nil
}
