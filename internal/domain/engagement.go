package domain

import (
	"time"

	"gorm.io/gorm"
)

// EngagementKind names a per-(user, reel) boolean fact with a toggle contract.
type EngagementKind string

const (
	EngagementWasHere EngagementKind = "was_here"
	EngagementLike    EngagementKind = "like"
	EngagementView    EngagementKind = "view"
	EngagementShare   EngagementKind = "share"
)

// Valid reports whether k is a known engagement kind.
func (k EngagementKind) Valid() bool {
	switch k {
	case EngagementWasHere, EngagementLike, EngagementView, EngagementShare:
		return true
	}
	return false
}

// EngagementModel is the GORM model for engagement records. Existence of a
// live row means the fact is active. was_here rows are tombstoned and
// restored on re-toggle; the other kinds are hard-deleted. A partial unique
// index on (user_id, reel_id, kind) WHERE deleted_at IS NULL guarantees at
// most one live row per pair and serializes concurrent toggles.
type EngagementModel struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64         `gorm:"column:user_id;not null;index" json:"userId"`
	ReelID    uint64         `gorm:"column:reel_id;not null;index" json:"reelId"`
	Kind      EngagementKind `gorm:"type:varchar(16);not null" json:"kind"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (EngagementModel) TableName() string { return "reel_engagements" }
