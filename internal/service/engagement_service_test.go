package service

import (
	"context"
	"errors"
	"testing"

	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/events"
	"github.com/trailgram/social-graph-service/internal/repository"
)

func TestToggleForbiddenBeforeMutation(t *testing.T) {
	db := newTestDB(t)
	engagements := repository.NewGormEngagementRepository(db)
	reels := repository.NewGormReelRepository(db)
	graph := repository.NewGormGraphRepository(db)
	accounts := repository.NewGormAccountRepository(db)
	fake := newFakeEngagementStore()
	svc := NewEngagementService(engagements, reels, graph, accounts, fake, events.NopPublisher{})
	ctx := context.Background()

	seedAccount(t, db, 2, false)
	privateReel := seedReel(t, db, 2, domain.ReelPrivate)

	if _, _, err := svc.Toggle(ctx, 1, privateReel, domain.EngagementLike); !errors.Is(err, ErrForbidden) {
		t.Fatalf("toggle on private reel: error = %v, want ErrForbidden", err)
	}

	// Nothing was written.
	count, err := engagements.CountActive(ctx, privateReel, domain.EngagementLike)
	if err != nil || count != 0 {
		t.Errorf("rows after forbidden toggle = %d, %v, want 0", count, err)
	}

	if _, _, err := svc.Toggle(ctx, 1, 999, domain.EngagementLike); !errors.Is(err, ErrReelNotFound) {
		t.Errorf("missing reel: error = %v, want ErrReelNotFound", err)
	}
}

func TestToggleInvalidatesCache(t *testing.T) {
	db := newTestDB(t)
	engagements := repository.NewGormEngagementRepository(db)
	reels := repository.NewGormReelRepository(db)
	graph := repository.NewGormGraphRepository(db)
	accounts := repository.NewGormAccountRepository(db)
	fake := newFakeEngagementStore()
	svc := NewEngagementService(engagements, reels, graph, accounts, fake, events.NopPublisher{})
	ctx := context.Background()

	seedAccount(t, db, 2, false)
	reelID := seedReel(t, db, 2, domain.ReelPublic)

	// A toggle drops the cached total rather than writing the new one: the
	// request transaction may still roll back, so the next read repopulates
	// the key from the committed row instead.
	fake.counts[reelID] = 99

	active, total, err := svc.Toggle(ctx, 1, reelID, domain.EngagementWasHere)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !active || total != 1 {
		t.Errorf("toggle = (%v, %d), want (true, 1)", active, total)
	}
	if _, cached := fake.counts[reelID]; cached {
		t.Error("cached count survived the toggle")
	}

	// The next read repopulates from the database.
	count, err := svc.WasHereCount(ctx, reelID)
	if err != nil || count != 1 {
		t.Fatalf("WasHereCount after toggle = %d, %v, want 1", count, err)
	}
	if fake.counts[reelID] != 1 {
		t.Errorf("cache after read-through = %d, want 1", fake.counts[reelID])
	}

	// Off-toggle invalidates again.
	if _, _, err := svc.Toggle(ctx, 1, reelID, domain.EngagementWasHere); err != nil {
		t.Fatalf("off toggle: %v", err)
	}
	if _, cached := fake.counts[reelID]; cached {
		t.Error("cached count survived the off-toggle")
	}
}

func TestWasHereCountCacheAside(t *testing.T) {
	db := newTestDB(t)
	engagements := repository.NewGormEngagementRepository(db)
	reels := repository.NewGormReelRepository(db)
	graph := repository.NewGormGraphRepository(db)
	accounts := repository.NewGormAccountRepository(db)
	fake := newFakeEngagementStore()
	svc := NewEngagementService(engagements, reels, graph, accounts, fake, events.NopPublisher{})
	ctx := context.Background()

	seedAccount(t, db, 2, false)
	reelID := seedReel(t, db, 2, domain.ReelPublic)

	// Populate the database behind the cache's back.
	for _, userID := range []uint64{5, 6, 7} {
		if _, _, err := engagements.Toggle(ctx, userID, reelID, domain.EngagementWasHere); err != nil {
			t.Fatalf("seed toggle: %v", err)
		}
	}
	delete(fake.counts, reelID)

	// Miss: falls back to the database and populates the cache.
	count, err := svc.WasHereCount(ctx, reelID)
	if err != nil || count != 3 {
		t.Fatalf("WasHereCount = %d, %v, want 3", count, err)
	}
	if fake.counts[reelID] != 3 {
		t.Errorf("cache not populated on miss: %d", fake.counts[reelID])
	}

	// Hit: the cached value is served even if stale.
	fake.counts[reelID] = 99
	count, err = svc.WasHereCount(ctx, reelID)
	if err != nil || count != 99 {
		t.Errorf("WasHereCount on hit = %d, %v, want cached 99", count, err)
	}

	// Every read records a hot-key access.
	if fake.accesses[reelID] != 2 {
		t.Errorf("recorded accesses = %d, want 2", fake.accesses[reelID])
	}
}
