package domain

import "time"

// FollowModel is the GORM model for follow edges. At most one row exists per
// ordered (follower, followee) pair; the pair is never reflexive.
type FollowModel struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowerID uint64    `gorm:"column:follower_id;not null;index" json:"followerId"`
	FolloweeID uint64    `gorm:"column:followee_id;not null;index" json:"followeeId"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (FollowModel) TableName() string { return "follow_edges" }

// BlockModel is the GORM model for block edges. Rows are directional but the
// visibility resolver evaluates them symmetrically.
type BlockModel struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	BlockerID uint64    `gorm:"column:blocker_id;not null;index" json:"blockerId"`
	BlockedID uint64    `gorm:"column:blocked_id;not null;index" json:"blockedId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Blocked *AccountModel `gorm:"foreignKey:BlockedID" json:"blocked,omitempty"`
}

func (BlockModel) TableName() string { return "block_edges" }

// RequestStatus is the follow-request state machine.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// FollowRequestModel is the GORM model for follow requests against private
// accounts. One row per ordered (requester, target) pair; a rejected row is
// reset to pending on resubmission rather than replaced.
type FollowRequestModel struct {
	ID          uint64        `gorm:"primaryKey;autoIncrement" json:"id"`
	RequesterID uint64        `gorm:"column:requester_id;not null;index" json:"requesterId"`
	TargetID    uint64        `gorm:"column:target_id;not null;index" json:"targetId"`
	Status      RequestStatus `gorm:"type:varchar(16);not null;default:pending" json:"status"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`

	Requester *AccountModel `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Target    *AccountModel `gorm:"foreignKey:TargetID" json:"target,omitempty"`
}

func (FollowRequestModel) TableName() string { return "follow_requests" }
