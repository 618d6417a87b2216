package service

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/repository"
	"github.com/trailgram/social-graph-service/internal/store"
)

// newTestDB opens an in-memory sqlite database with the production schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("underlying sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, id uint64, isPrivate bool) {
	t.Helper()
	account := domain.AccountModel{ID: id, Username: "user", IsPrivate: isPrivate}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("seed account %d: %v", id, err)
	}
}

func seedReel(t *testing.T, db *gorm.DB, ownerID uint64, v domain.ReelVisibility) uint64 {
	t.Helper()
	reel := domain.ReelModel{OwnerID: ownerID, Title: "trail", Visibility: v}
	if err := db.Create(&reel).Error; err != nil {
		t.Fatalf("seed reel: %v", err)
	}
	return reel.ID
}

func seedGeoReel(t *testing.T, db *gorm.DB, ownerID uint64, lat, lng float64) uint64 {
	t.Helper()
	reel := domain.ReelModel{
		OwnerID:    ownerID,
		Title:      "trail",
		Visibility: domain.ReelPublic,
		Lat:        &lat,
		Lng:        &lng,
	}
	if err := db.Create(&reel).Error; err != nil {
		t.Fatalf("seed geo reel: %v", err)
	}
	return reel.ID
}

// fakeEngagementStore is an in-memory stand-in for the Redis store.
type fakeEngagementStore struct {
	counts   map[uint64]int64
	accesses map[uint64]int
}

func newFakeEngagementStore() *fakeEngagementStore {
	return &fakeEngagementStore{
		counts:   make(map[uint64]int64),
		accesses: make(map[uint64]int),
	}
}

func (s *fakeEngagementStore) GetWasHereCount(ctx context.Context, reelID uint64) (int64, bool, error) {
	count, ok := s.counts[reelID]
	return count, ok, nil
}

func (s *fakeEngagementStore) SetWasHereCount(ctx context.Context, reelID uint64, count int64) error {
	s.counts[reelID] = count
	return nil
}

func (s *fakeEngagementStore) InvalidateWasHereCount(ctx context.Context, reelID uint64) error {
	delete(s.counts, reelID)
	return nil
}

func (s *fakeEngagementStore) RecordAccess(ctx context.Context, reelID uint64) error {
	s.accesses[reelID]++
	return nil
}

func (s *fakeEngagementStore) GetTopHotReels(ctx context.Context, n int64) ([]uint64, error) {
	ids := make([]uint64, 0, len(s.accesses))
	for id := range s.accesses {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *fakeEngagementStore) ResetHotReelScores(ctx context.Context) error {
	s.accesses = make(map[uint64]int)
	return nil
}

func (s *fakeEngagementStore) Close() error { return nil }

var _ store.EngagementStore = (*fakeEngagementStore)(nil)
