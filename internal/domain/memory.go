package domain

import "time"

// MemoryPrivacy is the two-state privacy vocabulary for memory folders.
// open_to_all is followers-gated public; memories have no fully-anonymous
// tier the way reels do.
type MemoryPrivacy string

const (
	MemoryPrivate   MemoryPrivacy = "private"
	MemoryOpenToAll MemoryPrivacy = "open_to_all"
)

// Valid reports whether p is a known privacy state.
func (p MemoryPrivacy) Valid() bool {
	return p == MemoryPrivate || p == MemoryOpenToAll
}

// MemoryModel is the GORM model for memory folders. As with reels, CRUD is
// external; this service evaluates visibility.
type MemoryModel struct {
	ID        uint64        `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID   uint64        `gorm:"column:owner_id;not null;index" json:"ownerId"`
	Name      string        `gorm:"type:varchar(255)" json:"name"`
	Privacy   MemoryPrivacy `gorm:"type:varchar(16);not null;default:private" json:"privacy"`
	CreatedAt time.Time     `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (MemoryModel) TableName() string { return "memory_folders" }
