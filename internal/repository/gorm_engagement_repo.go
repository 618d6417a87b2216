package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/uow"
)

// softDeleteKinds marks engagement kinds that tombstone and restore instead
// of hard-deleting. The strategy is fixed per kind; call sites never branch
// on delete style.
var softDeleteKinds = map[domain.EngagementKind]bool{
	domain.EngagementWasHere: true,
}

// GormEngagementRepository implements the idempotent toggle contract using
// GORM. Correctness under concurrent toggles of the same (user, reel, kind)
// rests on the partial unique live-row index: the losing insert hits the
// conflict clause, affects zero rows, and adopts the winner's state. Inserts
// never raise the violation itself, which on postgres would abort the
// enclosing transaction before the recount.
type GormEngagementRepository struct {
	db *gorm.DB
}

// NewGormEngagementRepository creates a new GORM-backed engagement repository.
func NewGormEngagementRepository(db *gorm.DB) *GormEngagementRepository {
	return &GormEngagementRepository{db: db}
}

// Toggle flips the engagement fact and returns the post-state plus the live
// total for the reel. The flip, the recount, and the denormalized
// was_here_count update share one transaction.
func (r *GormEngagementRepository) Toggle(ctx context.Context, userID, reelID uint64, kind domain.EngagementKind) (bool, int64, error) {
	var (
		active bool
		total  int64
	)
	err := uow.DB(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if softDeleteKinds[kind] {
			active, err = r.toggleSoft(tx, userID, reelID, kind)
		} else {
			active, err = r.toggleHard(tx, userID, reelID, kind)
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&domain.EngagementModel{}).
			Where("reel_id = ? AND kind = ?", reelID, kind).
			Count(&total).Error; err != nil {
			return err
		}

		if kind == domain.EngagementWasHere {
			if err := tx.Model(&domain.ReelModel{}).
				Where("id = ?", reelID).
				Update("was_here_count", total).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return active, total, nil
}

// toggleHard: a live row is deleted for keeps; absence creates one.
func (r *GormEngagementRepository) toggleHard(tx *gorm.DB, userID, reelID uint64, kind domain.EngagementKind) (bool, error) {
	result := tx.Unscoped().
		Where("user_id = ? AND reel_id = ? AND kind = ?", userID, reelID, kind).
		Delete(&domain.EngagementModel{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return false, nil
	}

	model := domain.EngagementModel{UserID: userID, ReelID: reelID, Kind: kind}
	result = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
	if result.Error != nil {
		return false, result.Error
	}
	// Zero rows: a concurrent toggle won the insert; the fact is active.
	return true, nil
}

// toggleSoft: a live row is tombstoned; a tombstoned row is restored rather
// than recreated, so the pair never accumulates history rows.
func (r *GormEngagementRepository) toggleSoft(tx *gorm.DB, userID, reelID uint64, kind domain.EngagementKind) (bool, error) {
	// Step 1: tombstone the live row if there is one.
	result := tx.
		Where("user_id = ? AND reel_id = ? AND kind = ?", userID, reelID, kind).
		Delete(&domain.EngagementModel{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return false, nil
	}

	// Step 2: restore an existing tombstoned row.
	result = tx.Unscoped().
		Model(&domain.EngagementModel{}).
		Where("user_id = ? AND reel_id = ? AND kind = ? AND deleted_at IS NOT NULL", userID, reelID, kind).
		Update("deleted_at", nil)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// Step 3: first toggle ever for this pair.
	model := domain.EngagementModel{UserID: userID, ReelID: reelID, Kind: kind}
	result = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
	if result.Error != nil {
		return false, result.Error
	}
	return true, nil
}

// IsActive reports whether the fact is currently live.
func (r *GormEngagementRepository) IsActive(ctx context.Context, userID, reelID uint64, kind domain.EngagementKind) (bool, error) {
	var count int64
	err := uow.DB(ctx, r.db).WithContext(ctx).Model(&domain.EngagementModel{}).
		Where("user_id = ? AND reel_id = ? AND kind = ?", userID, reelID, kind).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountActive returns the live total for a reel and kind.
func (r *GormEngagementRepository) CountActive(ctx context.Context, reelID uint64, kind domain.EngagementKind) (int64, error) {
	var count int64
	err := uow.DB(ctx, r.db).WithContext(ctx).Model(&domain.EngagementModel{}).
		Where("reel_id = ? AND kind = ?", reelID, kind).
		Count(&count).Error
	return count, err
}

// Ensure interface is satisfied at compile time.
var _ EngagementRepository = (*GormEngagementRepository)(nil)
