package repository

import (
	"context"
	"testing"

	"github.com/trailgram/social-graph-service/internal/domain"
)

func TestToggleHardKind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEngagementRepository(db)
	ctx := context.Background()

	reel := domain.ReelModel{OwnerID: 1, Title: "trail"}
	if err := db.Create(&reel).Error; err != nil {
		t.Fatalf("seed reel: %v", err)
	}

	active, total, err := repo.Toggle(ctx, 7, reel.ID, domain.EngagementLike)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !active || total != 1 {
		t.Errorf("first toggle = (%v, %d), want (true, 1)", active, total)
	}

	active, total, err = repo.Toggle(ctx, 7, reel.ID, domain.EngagementLike)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if active || total != 0 {
		t.Errorf("second toggle = (%v, %d), want (false, 0)", active, total)
	}

	// Hard kinds leave no tombstones behind.
	var rows int64
	db.Unscoped().Model(&domain.EngagementModel{}).
		Where("kind = ?", domain.EngagementLike).
		Count(&rows)
	if rows != 0 {
		t.Errorf("like rows after off-toggle = %d, want 0", rows)
	}
}

func TestToggleSoftKind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEngagementRepository(db)
	ctx := context.Background()

	reel := domain.ReelModel{OwnerID: 1, Title: "trail"}
	if err := db.Create(&reel).Error; err != nil {
		t.Fatalf("seed reel: %v", err)
	}

	// On, off, on again: the pair must reuse one row.
	for i, want := range []bool{true, false, true} {
		active, _, err := repo.Toggle(ctx, 7, reel.ID, domain.EngagementWasHere)
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if active != want {
			t.Errorf("toggle %d active = %v, want %v", i, active, want)
		}
	}

	var rows int64
	db.Unscoped().Model(&domain.EngagementModel{}).
		Where("user_id = ? AND reel_id = ?", 7, reel.ID).
		Count(&rows)
	if rows != 1 {
		t.Errorf("was_here rows including tombstones = %d, want 1 (restore, not recreate)", rows)
	}
}

func TestToggleUpdatesDenormalizedCount(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEngagementRepository(db)
	ctx := context.Background()

	reel := domain.ReelModel{OwnerID: 1, Title: "trail"}
	if err := db.Create(&reel).Error; err != nil {
		t.Fatalf("seed reel: %v", err)
	}

	for _, userID := range []uint64{7, 8} {
		if _, _, err := repo.Toggle(ctx, userID, reel.ID, domain.EngagementWasHere); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}

	var got domain.ReelModel
	if err := db.First(&got, reel.ID).Error; err != nil {
		t.Fatalf("reload reel: %v", err)
	}
	if got.WasHereCount != 2 {
		t.Errorf("was_here_count = %d, want 2", got.WasHereCount)
	}

	// Off-toggle drops it back.
	if _, _, err := repo.Toggle(ctx, 7, reel.ID, domain.EngagementWasHere); err != nil {
		t.Fatalf("off toggle: %v", err)
	}
	if err := db.First(&got, reel.ID).Error; err != nil {
		t.Fatalf("reload reel: %v", err)
	}
	if got.WasHereCount != 1 {
		t.Errorf("was_here_count after off-toggle = %d, want 1", got.WasHereCount)
	}

	// Like toggles never touch was_here_count.
	if _, _, err := repo.Toggle(ctx, 9, reel.ID, domain.EngagementLike); err != nil {
		t.Fatalf("like toggle: %v", err)
	}
	if err := db.First(&got, reel.ID).Error; err != nil {
		t.Fatalf("reload reel: %v", err)
	}
	if got.WasHereCount != 1 {
		t.Errorf("was_here_count after like = %d, want 1", got.WasHereCount)
	}
}

func TestIsActiveAndCountActive(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEngagementRepository(db)
	ctx := context.Background()

	reel := domain.ReelModel{OwnerID: 1, Title: "trail"}
	if err := db.Create(&reel).Error; err != nil {
		t.Fatalf("seed reel: %v", err)
	}

	if _, _, err := repo.Toggle(ctx, 7, reel.ID, domain.EngagementWasHere); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, _, err := repo.Toggle(ctx, 8, reel.ID, domain.EngagementWasHere); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	// Tombstoned fact must not count.
	if _, _, err := repo.Toggle(ctx, 8, reel.ID, domain.EngagementWasHere); err != nil {
		t.Fatalf("off toggle: %v", err)
	}

	active, err := repo.IsActive(ctx, 7, reel.ID, domain.EngagementWasHere)
	if err != nil || !active {
		t.Errorf("IsActive(7) = %v, %v, want true", active, err)
	}
	active, err = repo.IsActive(ctx, 8, reel.ID, domain.EngagementWasHere)
	if err != nil || active {
		t.Errorf("IsActive(8) = %v, %v, want false", active, err)
	}

	count, err := repo.CountActive(ctx, reel.ID, domain.EngagementWasHere)
	if err != nil || count != 1 {
		t.Errorf("CountActive = %d, %v, want 1", count, err)
	}
}

// Kinds are independent facts: toggling one never disturbs another.
func TestToggleKindsIndependent(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEngagementRepository(db)
	ctx := context.Background()

	reel := domain.ReelModel{OwnerID: 1, Title: "trail"}
	if err := db.Create(&reel).Error; err != nil {
		t.Fatalf("seed reel: %v", err)
	}

	if _, _, err := repo.Toggle(ctx, 7, reel.ID, domain.EngagementWasHere); err != nil {
		t.Fatalf("was_here toggle: %v", err)
	}
	if _, _, err := repo.Toggle(ctx, 7, reel.ID, domain.EngagementLike); err != nil {
		t.Fatalf("like toggle: %v", err)
	}
	if _, _, err := repo.Toggle(ctx, 7, reel.ID, domain.EngagementLike); err != nil {
		t.Fatalf("like off-toggle: %v", err)
	}

	active, err := repo.IsActive(ctx, 7, reel.ID, domain.EngagementWasHere)
	if err != nil || !active {
		t.Errorf("was_here after like off-toggle = %v, %v, want still true", active, err)
	}
}
