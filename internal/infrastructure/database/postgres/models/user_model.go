package models

import (
	"time"

	"github.com/google/uuid"
)

// UserModel is a read-only mapping over the externally-owned users table.
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Username  string    `gorm:"type:varchar(150);not null;uniqueIndex"`
	Role      string    `gorm:"type:varchar(50);not null;index"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}
