package repository

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/pagination"
	"github.com/trailgram/social-graph-service/internal/uow"
)

// GormMemoryRepository implements MemoryRepository using GORM.
type GormMemoryRepository struct {
	db *gorm.DB
}

// NewGormMemoryRepository creates a new GORM-backed memory repository.
func NewGormMemoryRepository(db *gorm.DB) *GormMemoryRepository {
	return &GormMemoryRepository{db: db}
}

// Get loads one memory folder by id.
func (r *GormMemoryRepository) Get(ctx context.Context, id uint64) (*domain.MemoryModel, error) {
	var memory domain.MemoryModel
	if err := uow.DB(ctx, r.db).WithContext(ctx).First(&memory, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrMemoryNotFound
		}
		return nil, err
	}
	return &memory, nil
}

// ListByOwner returns one owner's folders filtered by the precomputed
// privacy set, newest first.
func (r *GormMemoryRepository) ListByOwner(ctx context.Context, ownerID uint64, privacy []domain.MemoryPrivacy, p pagination.Params) ([]domain.MemoryModel, int64, error) {
	if len(privacy) == 0 {
		return []domain.MemoryModel{}, 0, nil
	}

	query := func(db *gorm.DB) *gorm.DB {
		return db.Model(&domain.MemoryModel{}).
			Where("owner_id = ?", ownerID).
			Where("privacy IN ?", privacy)
	}

	var (
		total int64
		rows  []domain.MemoryModel
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return query(r.db.WithContext(gctx)).Count(&total).Error
	})
	g.Go(func() error {
		return query(r.db.WithContext(gctx)).
			Order("created_at DESC").
			Offset(p.Offset()).Limit(p.Limit).
			Find(&rows).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Ensure interface is satisfied at compile time.
var _ MemoryRepository = (*GormMemoryRepository)(nil)
