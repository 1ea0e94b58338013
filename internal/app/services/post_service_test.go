package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/permissions"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/tenant"
)

const (
	homePostID    = "3d1b5df7-5a3c-47cd-96a5-cb5af3ebc301"
	foreignPostID = "7a0e55d8-3b41-4a57-8a71-14f63d0a8b02"
)

type fakePosts struct {
	posts map[string]*models.Post

	toggled []*models.Reaction
}

func (f *fakePosts) Create(_ context.Context, p *models.Post) error {
	f.posts[p.ID] = p
	return nil
}

func (f *fakePosts) GetByID(_ context.Context, id, _ string) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return p, nil
}

func (f *fakePosts) Update(_ context.Context, id, content string) error {
	p, ok := f.posts[id]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	p.Content = content
	return nil
}

func (f *fakePosts) Delete(_ context.Context, id string) error {
	delete(f.posts, id)
	return nil
}

func (f *fakePosts) IncrementViewCount(context.Context, string) error { return nil }

func (f *fakePosts) CreateComment(context.Context, *models.Comment) error { return nil }

func (f *fakePosts) ListComments(context.Context, string) ([]*models.Comment, error) {
	return nil, nil
}

func (f *fakePosts) DeleteComment(context.Context, string, string) error { return nil }

func (f *fakePosts) ToggleReaction(_ context.Context, r *models.Reaction) (bool, int64, error) {
	f.toggled = append(f.toggled, r)
	return true, int64(len(f.toggled)), nil
}

type fakeReactionRPC struct {
	unavailable bool
	calls       int
}

func (f *fakeReactionRPC) ToggleReaction(_ context.Context, _, _, _ string) (bool, int64, error) {
	f.calls++
	if f.unavailable {
		return false, 0, apperrors.NewRemoteError("toggle_post_reaction", errors.New("undefined function"))
	}
	return true, 1, nil
}

type fakeSaves struct {
	saved map[string]bool
}

func (f *fakeSaves) Toggle(_ context.Context, item *models.SavedItem) (bool, error) {
	key := item.ItemType + ":" + item.ItemID
	f.saved[key] = !f.saved[key]
	return f.saved[key], nil
}

func (f *fakeSaves) ListForProfile(_ context.Context, _, itemType string) ([]*models.SavedItem, error) {
	var items []*models.SavedItem
	for key, saved := range f.saved {
		if !saved {
			continue
		}
		parts := strings.SplitN(key, ":", 2)
		if itemType != "" && parts[0] != itemType {
			continue
		}
		items = append(items, &models.SavedItem{ItemType: parts[0], ItemID: parts[1]})
	}
	return items, nil
}

func newPostService(rpc reactionToggler) (PostService, *fakePosts, *fakeSaves) {
	posts := &fakePosts{posts: map[string]*models.Post{
		homePostID:    {ID: homePostID, AuthorID: receiverID, Content: "hi", CollegeDomain: "stanford.edu"},
		foreignPostID: {ID: foreignPostID, AuthorID: outsiderID, Content: "yo", CollegeDomain: "mit.edu"},
	}}
	saves := &fakeSaves{saved: map[string]bool{}}
	svc := NewPostService(posts, rpc, saves, tenant.NewGuard(nil, zerolog.Nop()), &fakeHub{}, nil, zerolog.Nop())
	return svc, posts, saves
}

func TestToggleSave_CrossTenantNotFound(t *testing.T) {
	svc, _, saves := newPostService(&fakeReactionRPC{})

	_, err := svc.ToggleSave(context.Background(), studentIdentity(), foreignPostID)
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("got %v, want ErrResourceNotFound", err)
	}
	if len(saves.saved) != 0 {
		t.Errorf("cross-tenant save was persisted")
	}
}

func TestToggleSave_SameTenantFlips(t *testing.T) {
	svc, _, _ := newPostService(&fakeReactionRPC{})
	caller := studentIdentity()

	saved, err := svc.ToggleSave(context.Background(), caller, homePostID)
	if err != nil {
		t.Fatalf("ToggleSave: %v", err)
	}
	if !saved {
		t.Errorf("first toggle: saved = false, want true")
	}

	saved, err = svc.ToggleSave(context.Background(), caller, homePostID)
	if err != nil {
		t.Fatalf("ToggleSave: %v", err)
	}
	if saved {
		t.Errorf("second toggle: saved = true, want false")
	}
}

func TestToggleReaction_FallsBackWhenProcedureUnavailable(t *testing.T) {
	rpc := &fakeReactionRPC{unavailable: true}
	svc, posts, _ := newPostService(rpc)

	reacted, count, err := svc.ToggleReaction(context.Background(), studentIdentity(), homePostID, "like")
	if err != nil {
		t.Fatalf("ToggleReaction: %v", err)
	}
	if !reacted || count != 1 {
		t.Errorf("reacted = %v count = %d, want true 1", reacted, count)
	}
	if rpc.calls != 1 {
		t.Errorf("rpc calls = %d, want 1", rpc.calls)
	}
	if len(posts.toggled) != 1 {
		t.Errorf("fallback toggles = %d, want 1", len(posts.toggled))
	}
}

func TestToggleReaction_UsesProcedureWhenAvailable(t *testing.T) {
	rpc := &fakeReactionRPC{}
	svc, posts, _ := newPostService(rpc)

	if _, _, err := svc.ToggleReaction(context.Background(), studentIdentity(), homePostID, "like"); err != nil {
		t.Fatalf("ToggleReaction: %v", err)
	}
	if len(posts.toggled) != 0 {
		t.Errorf("fallback ran despite procedure being available")
	}
}

func TestUpdate_NonAuthorForbidden(t *testing.T) {
	svc, _, _ := newPostService(&fakeReactionRPC{})

	_, err := svc.Update(context.Background(), studentIdentity(), homePostID, "edited")
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("got %v, want ErrPermissionDenied", err)
	}
}

func TestDelete_ModeratorMayDeleteOthersPost(t *testing.T) {
	svc, posts, _ := newPostService(&fakeReactionRPC{})

	caller := studentIdentity()
	caller.Role = permissions.RoleFaculty
	if err := svc.Delete(context.Background(), caller, homePostID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := posts.posts[homePostID]; ok {
		t.Errorf("post still present after moderator delete")
	}
}
