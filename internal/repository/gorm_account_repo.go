package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/uow"
)

// GormAccountRepository implements AccountRepository over the local account
// replica.
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GORM-backed account repository.
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

func (r *GormAccountRepository) conn(ctx context.Context) *gorm.DB {
	return uow.DB(ctx, r.db).WithContext(ctx)
}

// Get loads one account by id.
func (r *GormAccountRepository) Get(ctx context.Context, id uint64) (*domain.AccountModel, error) {
	var account domain.AccountModel
	if err := r.conn(ctx).First(&account, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// Upsert writes the replica row, overwriting username and privacy on
// conflict. Driven by the user-events consumer.
func (r *GormAccountRepository) Upsert(ctx context.Context, account *domain.AccountModel) error {
	return r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "is_private"}),
	}).Create(account).Error
}

// Delete removes the replica row. Missing rows are fine; deletion events can
// arrive more than once.
func (r *GormAccountRepository) Delete(ctx context.Context, id uint64) error {
	return r.conn(ctx).Delete(&domain.AccountModel{}, id).Error
}

// Ensure interface is satisfied at compile time.
var _ AccountRepository = (*GormAccountRepository)(nil)
