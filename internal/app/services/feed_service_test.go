package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/repositories"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

type fakeFeedRPC struct {
	unavailable bool
	calls       int
}

func (f *fakeFeedRPC) FeedPage(_ context.Context, _, _ string, _ uint64, _ int) ([]*models.Post, int64, error) {
	f.calls++
	if f.unavailable {
		return nil, 0, apperrors.NewRemoteError("get_feed", errors.New("undefined function"))
	}
	return []*models.Post{{ID: homePostID}}, 1, nil
}

func (f *fakeFeedRPC) TrendingTopics(context.Context, string, int) ([]repositories.TrendingTopic, error) {
	return nil, nil
}

type fakeFeedLister struct {
	calls int
}

func (f *fakeFeedLister) ListFeed(_ context.Context, _, _ string, _ uint64, _ int) ([]*models.Post, int64, error) {
	f.calls++
	return []*models.Post{{ID: homePostID}, {ID: foreignPostID}}, 2, nil
}

func TestFeed_PrefersProcedure(t *testing.T) {
	rpc := &fakeFeedRPC{}
	lister := &fakeFeedLister{}
	svc := NewFeedService(lister, rpc, nil, zerolog.Nop())

	posts, total, err := svc.Feed(context.Background(), studentIdentity(), 0, 20)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if total != 1 || len(posts) != 1 {
		t.Errorf("total = %d len = %d, want 1 1 from procedure", total, len(posts))
	}
	if lister.calls != 0 {
		t.Errorf("fallback query ran despite procedure being available")
	}
}

func TestFeed_FallsBackWhenProcedureUnavailable(t *testing.T) {
	rpc := &fakeFeedRPC{unavailable: true}
	lister := &fakeFeedLister{}
	svc := NewFeedService(lister, rpc, nil, zerolog.Nop())

	posts, total, err := svc.Feed(context.Background(), studentIdentity(), 0, 20)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if total != 2 || len(posts) != 2 {
		t.Errorf("total = %d len = %d, want 2 2 from fallback query", total, len(posts))
	}
	if rpc.calls != 1 {
		t.Errorf("rpc calls = %d, want 1", rpc.calls)
	}
	if lister.calls != 1 {
		t.Errorf("fallback calls = %d, want 1", lister.calls)
	}
}
