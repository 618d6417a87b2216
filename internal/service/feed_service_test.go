package service

import (
	"context"
	"errors"
	"testing"

	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/pagination"
	"github.com/trailgram/social-graph-service/internal/repository"
)

func TestExploreExcludesPrivateOwners(t *testing.T) {
	db := newTestDB(t)
	reels := repository.NewGormReelRepository(db)
	graph := repository.NewGormGraphRepository(db)
	accounts := repository.NewGormAccountRepository(db)
	svc := NewFeedService(reels, graph, accounts)
	ctx := context.Background()

	seedAccount(t, db, 1, false)
	seedAccount(t, db, 2, true)

	visible := seedReel(t, db, 1, domain.ReelPublic)
	seedReel(t, db, 1, domain.ReelFollowers) // wrong tier
	seedReel(t, db, 2, domain.ReelPublic)    // private owner

	rows, total, err := svc.Explore(ctx, repository.ExploreFilter{Page: pagination.Normalize(1, 10)})
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].ID != visible {
		t.Errorf("explore = %+v (total %d), want only the public reel from the open account", rows, total)
	}
}

func TestFollowerFeedAllowedSet(t *testing.T) {
	db := newTestDB(t)
	reels := repository.NewGormReelRepository(db)
	graph := repository.NewGormGraphRepository(db)
	accounts := repository.NewGormAccountRepository(db)
	svc := NewFeedService(reels, graph, accounts)
	ctx := context.Background()

	const viewer = 1
	for id := uint64(2); id <= 4; id++ {
		seedAccount(t, db, id, false)
	}

	if err := graph.Follow(ctx, viewer, 2); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := graph.Follow(ctx, viewer, 3); err != nil {
		t.Fatalf("follow: %v", err)
	}

	followedPublic := seedReel(t, db, 2, domain.ReelPublic)
	followedFollowers := seedReel(t, db, 3, domain.ReelFollowers)
	seedReel(t, db, 3, domain.ReelPrivate) // private never appears
	ownReel := seedReel(t, db, viewer, domain.ReelFollowers)
	seedReel(t, db, 4, domain.ReelPublic) // not followed

	rows, total, err := svc.FollowerFeed(ctx, viewer, pagination.Normalize(1, 10))
	if err != nil {
		t.Fatalf("follower feed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3: %+v", total, rows)
	}

	got := make(map[uint64]bool, len(rows))
	for _, row := range rows {
		got[row.ID] = true
	}
	for _, id := range []uint64{followedPublic, followedFollowers, ownReel} {
		if !got[id] {
			t.Errorf("reel %d missing from follower feed", id)
		}
	}
}

func TestFollowerFeedExcludesBlocked(t *testing.T) {
	db := newTestDB(t)
	reels := repository.NewGormReelRepository(db)
	graph := repository.NewGormGraphRepository(db)
	accounts := repository.NewGormAccountRepository(db)
	svc := NewFeedService(reels, graph, accounts)
	ctx := context.Background()

	const viewer = 1
	seedAccount(t, db, 2, false)

	if err := graph.Follow(ctx, viewer, 2); err != nil {
		t.Fatalf("follow: %v", err)
	}
	seedReel(t, db, 2, domain.ReelPublic)

	// An incoming block leaves the follow edge untouched only if it was
	// created directly; the feed must still drop the owner via the union set.
	edge := domain.BlockModel{BlockerID: 2, BlockedID: viewer}
	if err := db.Create(&edge).Error; err != nil {
		t.Fatalf("seed block edge: %v", err)
	}

	rows, total, err := svc.FollowerFeed(ctx, viewer, pagination.Normalize(1, 10))
	if err != nil {
		t.Fatalf("follower feed: %v", err)
	}
	if total != 0 || len(rows) != 0 {
		t.Errorf("feed = %+v (total %d), want empty after block", rows, total)
	}
}

func TestFollowerFeedEmptyGraph(t *testing.T) {
	db := newTestDB(t)
	reels := repository.NewGormReelRepository(db)
	graph := repository.NewGormGraphRepository(db)
	accounts := repository.NewGormAccountRepository(db)
	svc := NewFeedService(reels, graph, accounts)

	rows, total, err := svc.FollowerFeed(context.Background(), 1, pagination.Normalize(1, 10))
	if err != nil {
		t.Fatalf("follower feed: %v", err)
	}
	if total != 0 || len(rows) != 0 {
		t.Errorf("feed for empty graph = %+v (total %d), want empty page", rows, total)
	}
}

func TestProfileFeedGating(t *testing.T) {
	db := newTestDB(t)
	reels := repository.NewGormReelRepository(db)
	graph := repository.NewGormGraphRepository(db)
	accounts := repository.NewGormAccountRepository(db)
	svc := NewFeedService(reels, graph, accounts)
	ctx := context.Background()

	const owner = 2
	seedAccount(t, db, owner, true)
	publicReel := seedReel(t, db, owner, domain.ReelPublic)
	followersReel := seedReel(t, db, owner, domain.ReelFollowers)
	seedReel(t, db, owner, domain.ReelPrivate)

	// Stranger on a private profile sees nothing at all.
	if _, _, err := svc.ProfileFeed(ctx, 1, owner, pagination.Normalize(1, 10)); !errors.Is(err, ErrHiddenProfile) {
		t.Errorf("stranger: error = %v, want ErrHiddenProfile", err)
	}

	// Anonymous likewise.
	if _, _, err := svc.ProfileFeed(ctx, 0, owner, pagination.Normalize(1, 10)); !errors.Is(err, ErrHiddenProfile) {
		t.Errorf("anonymous: error = %v, want ErrHiddenProfile", err)
	}

	// A follower sees public and followers tiers.
	if err := graph.Follow(ctx, 1, owner); err != nil {
		t.Fatalf("follow: %v", err)
	}
	rows, total, err := svc.ProfileFeed(ctx, 1, owner, pagination.Normalize(1, 10))
	if err != nil {
		t.Fatalf("follower: %v", err)
	}
	if total != 2 {
		t.Fatalf("follower total = %d, want 2: %+v", total, rows)
	}
	got := map[uint64]bool{}
	for _, row := range rows {
		got[row.ID] = true
	}
	if !got[publicReel] || !got[followersReel] {
		t.Errorf("follower rows = %+v, want public and followers reels", rows)
	}

	// The owner sees all three tiers.
	_, total, err = svc.ProfileFeed(ctx, owner, owner, pagination.Normalize(1, 10))
	if err != nil || total != 3 {
		t.Errorf("owner total = %d, %v, want 3", total, err)
	}
}

func TestGetReelVisibility(t *testing.T) {
	db := newTestDB(t)
	reels := repository.NewGormReelRepository(db)
	graph := repository.NewGormGraphRepository(db)
	accounts := repository.NewGormAccountRepository(db)
	svc := NewFeedService(reels, graph, accounts)
	ctx := context.Background()

	seedAccount(t, db, 2, false)
	privateReel := seedReel(t, db, 2, domain.ReelPrivate)
	publicReel := seedReel(t, db, 2, domain.ReelPublic)

	if _, err := svc.GetReel(ctx, 1, 999); !errors.Is(err, ErrReelNotFound) {
		t.Errorf("missing reel: error = %v, want ErrReelNotFound", err)
	}
	if _, err := svc.GetReel(ctx, 1, privateReel); !errors.Is(err, ErrForbidden) {
		t.Errorf("private reel: error = %v, want ErrForbidden", err)
	}

	reel, err := svc.GetReel(ctx, 1, publicReel)
	if err != nil || reel.ID != publicReel {
		t.Errorf("public reel = %+v, %v", reel, err)
	}

	// The owner reads their own private reel.
	reel, err = svc.GetReel(ctx, 2, privateReel)
	if err != nil || reel.ID != privateReel {
		t.Errorf("owner read = %+v, %v", reel, err)
	}

	// Anonymous reads public content from an open account.
	reel, err = svc.GetReel(ctx, 0, publicReel)
	if err != nil || reel.ID != publicReel {
		t.Errorf("anonymous read = %+v, %v", reel, err)
	}
}
