package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/pagination"
	"github.com/trailgram/social-graph-service/internal/uow"
)

// GormGraphRepository implements GraphRepository using GORM.
type GormGraphRepository struct {
	db *gorm.DB
}

// NewGormGraphRepository creates a new GORM-backed graph repository.
func NewGormGraphRepository(db *gorm.DB) *GormGraphRepository {
	return &GormGraphRepository{db: db}
}

func (r *GormGraphRepository) conn(ctx context.Context) *gorm.DB {
	return uow.DB(ctx, r.db).WithContext(ctx)
}

// Follow creates the follow edge via find-or-create. The insert carries
// ON CONFLICT DO NOTHING so a pair that already exists (repeat call or lost
// race) affects zero rows instead of raising a unique violation. On postgres
// a raised violation would abort the enclosing request transaction; the
// conflict clause keeps it usable.
func (r *GormGraphRepository) Follow(ctx context.Context, followerID, followeeID uint64) error {
	model := domain.FollowModel{FollowerID: followerID, FolloweeID: followeeID}
	return r.conn(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model).Error
}

// Unfollow removes the follow edge.
func (r *GormGraphRepository) Unfollow(ctx context.Context, followerID, followeeID uint64) error {
	result := r.conn(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&domain.FollowModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFollowNotFound
	}
	return nil
}

// IsFollowing checks if followerID follows followeeID.
func (r *GormGraphRepository) IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&domain.FollowModel{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListFollowingIDs returns every account the follower follows.
func (r *GormGraphRepository) ListFollowingIDs(ctx context.Context, followerID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.conn(ctx).Model(&domain.FollowModel{}).
		Where("follower_id = ?", followerID).
		Pluck("followee_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CountFollowers returns the number of followers for a user.
func (r *GormGraphRepository) CountFollowers(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&domain.FollowModel{}).
		Where("followee_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountFollowing returns the number of accounts a user follows.
func (r *GormGraphRepository) CountFollowing(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&domain.FollowModel{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Block find-or-creates the block edge and, in the same transaction, removes
// follow edges and follow requests in both directions between the pair.
// Under a request unit of work the inner transaction becomes a savepoint.
func (r *GormGraphRepository) Block(ctx context.Context, blockerID, blockedID uint64) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		model := domain.BlockModel{BlockerID: blockerID, BlockedID: blockedID}
		if err := tx.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model).Error; err != nil {
			return err
		}

		if err := tx.
			Where("(follower_id = ? AND followee_id = ?) OR (follower_id = ? AND followee_id = ?)",
				blockerID, blockedID, blockedID, blockerID).
			Delete(&domain.FollowModel{}).Error; err != nil {
			return err
		}

		return tx.
			Where("(requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?)",
				blockerID, blockedID, blockedID, blockerID).
			Delete(&domain.FollowRequestModel{}).Error
	})
}

// Unblock removes the blocker's own block edge. The reverse edge, if any,
// belongs to the other party and stays.
func (r *GormGraphRepository) Unblock(ctx context.Context, blockerID, blockedID uint64) error {
	result := r.conn(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&domain.BlockModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlockNotFound
	}
	return nil
}

// IsBlockedEither reports whether a block edge exists between a and b in
// either direction.
func (r *GormGraphRepository) IsBlockedEither(ctx context.Context, a, b uint64) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&domain.BlockModel{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListBlockedIDs returns the union of both block directions for the viewer.
func (r *GormGraphRepository) ListBlockedIDs(ctx context.Context, viewerID uint64) ([]uint64, error) {
	var rows []domain.BlockModel
	err := r.conn(ctx).
		Where("blocker_id = ? OR blocked_id = ?", viewerID, viewerID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64]struct{}, len(rows))
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		other := row.BlockedID
		if other == viewerID {
			other = row.BlockerID
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		ids = append(ids, other)
	}
	return ids, nil
}

// ListBlockedAccounts returns the viewer's own outgoing blocks, newest first.
func (r *GormGraphRepository) ListBlockedAccounts(ctx context.Context, viewerID uint64, p pagination.Params) ([]domain.BlockModel, int64, error) {
	db := r.conn(ctx)

	var total int64
	if err := db.Model(&domain.BlockModel{}).
		Where("blocker_id = ?", viewerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.BlockModel
	err := db.
		Preload("Blocked").
		Where("blocker_id = ?", viewerID).
		Order("created_at DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CreateFollowRequest find-or-creates the pending request row. An existing
// rejected row is reset to pending rather than replaced; an existing pending
// or accepted row is returned unchanged.
func (r *GormGraphRepository) CreateFollowRequest(ctx context.Context, requesterID, targetID uint64) (*domain.FollowRequestModel, error) {
	db := r.conn(ctx)

	var req domain.FollowRequestModel
	err := db.
		Where("requester_id = ? AND target_id = ?", requesterID, targetID).
		First(&req).Error
	if err == nil {
		if req.Status == domain.RequestRejected {
			req.Status = domain.RequestPending
			if err := db.Model(&req).Update("status", domain.RequestPending).Error; err != nil {
				return nil, err
			}
		}
		return &req, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	req = domain.FollowRequestModel{
		RequesterID: requesterID,
		TargetID:    targetID,
		Status:      domain.RequestPending,
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&req)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost the insert race; the winner's row is the desired state.
		if err := db.
			Where("requester_id = ? AND target_id = ?", requesterID, targetID).
			First(&req).Error; err != nil {
			return nil, err
		}
	}
	return &req, nil
}

// GetFollowRequest loads one request by primary key.
func (r *GormGraphRepository) GetFollowRequest(ctx context.Context, id uint64) (*domain.FollowRequestModel, error) {
	var req domain.FollowRequestModel
	if err := r.conn(ctx).First(&req, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// SetRequestStatus transitions a request row.
func (r *GormGraphRepository) SetRequestStatus(ctx context.Context, id uint64, status domain.RequestStatus) error {
	result := r.conn(ctx).Model(&domain.FollowRequestModel{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (r *GormGraphRepository) listRequests(ctx context.Context, column string, userID uint64, preload string, p pagination.Params) ([]domain.FollowRequestModel, int64, error) {
	db := r.conn(ctx)

	var total int64
	if err := db.Model(&domain.FollowRequestModel{}).
		Where(column+" = ? AND status = ?", userID, domain.RequestPending).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.FollowRequestModel
	err := db.
		Preload(preload).
		Where(column+" = ? AND status = ?", userID, domain.RequestPending).
		Order("created_at DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListIncomingRequests returns pending requests addressed to the target.
func (r *GormGraphRepository) ListIncomingRequests(ctx context.Context, targetID uint64, p pagination.Params) ([]domain.FollowRequestModel, int64, error) {
	return r.listRequests(ctx, "target_id", targetID, "Requester", p)
}

// ListOutgoingRequests returns pending requests the requester has sent.
func (r *GormGraphRepository) ListOutgoingRequests(ctx context.Context, requesterID uint64, p pagination.Params) ([]domain.FollowRequestModel, int64, error) {
	return r.listRequests(ctx, "requester_id", requesterID, "Target", p)
}

// Ensure interface is satisfied at compile time.
var _ GraphRepository = (*GormGraphRepository)(nil)
