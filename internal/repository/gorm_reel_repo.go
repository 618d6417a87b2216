package repository

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/geo"
	"github.com/trailgram/social-graph-service/internal/pagination"
	"github.com/trailgram/social-graph-service/internal/uow"
)

// GormReelRepository implements ReelRepository using GORM.
//
// List queries run on the base connection: they serve read-only requests
// that never open a unit of work, and the count/page pair is issued
// concurrently, which a single transaction handle would not allow.
type GormReelRepository struct {
	db *gorm.DB
}

// NewGormReelRepository creates a new GORM-backed reel repository.
func NewGormReelRepository(db *gorm.DB) *GormReelRepository {
	return &GormReelRepository{db: db}
}

// Get loads one reel by id.
func (r *GormReelRepository) Get(ctx context.Context, id uint64) (*domain.ReelModel, error) {
	var reel domain.ReelModel
	if err := uow.DB(ctx, r.db).WithContext(ctx).First(&reel, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrReelNotFound
		}
		return nil, err
	}
	return &reel, nil
}

// publiclyEligible scopes a reel query to rows anyone may see: public
// visibility and a non-private owner. Shared by explore and geo.
func (r *GormReelRepository) publiclyEligible(db *gorm.DB) *gorm.DB {
	return db.Model(&domain.ReelModel{}).
		Joins("JOIN accounts ON accounts.id = reels.owner_id").
		Where("reels.visibility = ?", domain.ReelPublic).
		Where("accounts.is_private = ?", false)
}

func (r *GormReelRepository) exploreQuery(db *gorm.DB, f ExploreFilter) *gorm.DB {
	q := r.publiclyEligible(db)
	if f.OwnerID != 0 {
		q = q.Where("reels.owner_id = ?", f.OwnerID)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("reels.title LIKE ? OR reels.caption LIKE ?", pattern, pattern)
	}
	if f.From != nil {
		q = q.Where("reels.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("reels.created_at <= ?", *f.To)
	}
	return q
}

// ListExplore returns the publicly eligible explore feed. The count and page
// queries run concurrently.
func (r *GormReelRepository) ListExplore(ctx context.Context, f ExploreFilter) ([]domain.ReelModel, int64, error) {
	order := "reels.created_at DESC"
	if f.Sort == SortWasHere {
		order = "reels.was_here_count DESC, reels.created_at DESC"
	}

	var (
		total int64
		rows  []domain.ReelModel
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.exploreQuery(r.db.WithContext(gctx), f).Count(&total).Error
	})
	g.Go(func() error {
		return r.exploreQuery(r.db.WithContext(gctx), f).
			Order(order).
			Offset(f.Page.Offset()).Limit(f.Page.Limit).
			Find(&rows).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func ownerScopedQuery(db *gorm.DB, ownerIDs []uint64, visibility []domain.ReelVisibility) *gorm.DB {
	return db.Model(&domain.ReelModel{}).
		Where("owner_id IN ?", ownerIDs).
		Where("visibility IN ?", visibility)
}

func (r *GormReelRepository) listOwnerScoped(ctx context.Context, ownerIDs []uint64, visibility []domain.ReelVisibility, p pagination.Params) ([]domain.ReelModel, int64, error) {
	if len(ownerIDs) == 0 || len(visibility) == 0 {
		return []domain.ReelModel{}, 0, nil
	}

	var (
		total int64
		rows  []domain.ReelModel
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ownerScopedQuery(r.db.WithContext(gctx), ownerIDs, visibility).Count(&total).Error
	})
	g.Go(func() error {
		return ownerScopedQuery(r.db.WithContext(gctx), ownerIDs, visibility).
			Order("created_at DESC").
			Offset(p.Offset()).Limit(p.Limit).
			Find(&rows).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListByOwners powers the follower feed, newest first.
func (r *GormReelRepository) ListByOwners(ctx context.Context, ownerIDs []uint64, visibility []domain.ReelVisibility, p pagination.Params) ([]domain.ReelModel, int64, error) {
	return r.listOwnerScoped(ctx, ownerIDs, visibility, p)
}

// ListByOwner powers the per-profile feed with its precomputed visibility
// set.
func (r *GormReelRepository) ListByOwner(ctx context.Context, ownerID uint64, visibility []domain.ReelVisibility, p pagination.Params) ([]domain.ReelModel, int64, error) {
	return r.listOwnerScoped(ctx, []uint64{ownerID}, visibility, p)
}

// ListGeoCandidates returns publicly eligible reels with coordinates,
// optionally restricted to a bounding box. Distance math happens in the geo
// aggregator, not in SQL.
func (r *GormReelRepository) ListGeoCandidates(ctx context.Context, bounds *geo.Bounds) ([]domain.ReelModel, error) {
	q := r.publiclyEligible(r.db.WithContext(ctx)).
		Where("reels.lat IS NOT NULL AND reels.lng IS NOT NULL")
	if bounds != nil {
		q = q.Where("reels.lat BETWEEN ? AND ?", *bounds.SouthWest.Lat, *bounds.NorthEast.Lat).
			Where("reels.lng BETWEEN ? AND ?", *bounds.SouthWest.Lng, *bounds.NorthEast.Lng)
	}

	var rows []domain.ReelModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Ensure interface is satisfied at compile time.
var _ ReelRepository = (*GormReelRepository)(nil)
