package domain

import "time"

// AccountModel is a local read replica of the identity system's account
// record. Rows are written only by the user-events consumer; everything else
// treats them as read-only.
type AccountModel struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Username  string    `gorm:"type:varchar(64)" json:"username"`
	IsPrivate bool      `gorm:"not null;default:false" json:"isPrivate"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (AccountModel) TableName() string { return "accounts" }
