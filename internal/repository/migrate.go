package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/trailgram/social-graph-service/internal/domain"
)

// Migrate runs auto-migration for every model this service owns and ensures
// the unique pair indexes the idempotent primitives rely on. Shared between
// cmd/main.go and the repository tests so both run against the same schema.
//
// The engagement index is partial: only one ACTIVE row per
// (user, reel, kind), so tombstoned was_here rows do not block restore.
// Partial indexes require postgres or sqlite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.AccountModel{},
		&domain.FollowModel{},
		&domain.BlockModel{},
		&domain.FollowRequestModel{},
		&domain.ReelModel{},
		&domain.MemoryModel{},
		&domain.EngagementModel{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	ddl := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_follow_pair
		 ON follow_edges (follower_id, followee_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_block_pair
		 ON block_edges (blocker_id, blocked_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_request_pair
		 ON follow_requests (requester_id, target_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_engagement_active
		 ON reel_engagements (user_id, reel_id, kind)
		 WHERE deleted_at IS NULL`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}
	return nil
}

// isNotFound checks if the error is a "record not found" error.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
