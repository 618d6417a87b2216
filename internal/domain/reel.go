package domain

import "time"

// ReelVisibility is the three-tier visibility vocabulary for reels.
// It is deliberately a distinct type from MemoryPrivacy; the two content
// kinds do not share an enum.
type ReelVisibility string

const (
	ReelPublic    ReelVisibility = "public"
	ReelFollowers ReelVisibility = "followers"
	ReelPrivate   ReelVisibility = "private"
)

// Valid reports whether v is a known visibility tier.
func (v ReelVisibility) Valid() bool {
	switch v {
	case ReelPublic, ReelFollowers, ReelPrivate:
		return true
	}
	return false
}

// ReelModel is the GORM model for reels. CRUD of reels belongs to the content
// service; this service reads them for visibility evaluation, feeds, geo
// aggregation, and owns the denormalized was_here_count.
type ReelModel struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID      uint64         `gorm:"column:owner_id;not null;index" json:"ownerId"`
	Title        string         `gorm:"type:varchar(255)" json:"title"`
	Caption      string         `gorm:"type:text" json:"caption"`
	Visibility   ReelVisibility `gorm:"type:varchar(16);not null;default:public;index" json:"visibility"`
	Lat          *float64       `json:"lat,omitempty"`
	Lng          *float64       `json:"lng,omitempty"`
	WasHereCount int64          `gorm:"not null;default:0" json:"wasHereCount"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (ReelModel) TableName() string { return "reels" }

// HasCoordinates reports whether the reel carries a geo placement.
func (r *ReelModel) HasCoordinates() bool {
	return r.Lat != nil && r.Lng != nil
}

// NearbyReel is a reel annotated with its distance from a query point.
type NearbyReel struct {
	ReelModel
	DistanceKm float64 `json:"distanceKm"`
}
