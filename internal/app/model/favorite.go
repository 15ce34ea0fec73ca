package model

import (
	"time"
)

// Favorite marks a service as a favorite of a user. The unique index on
// the pair keeps a user from favoriting the same service twice.
type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_favorite_user_service,unique" json:"users_id"`
	ServiceID uint      `gorm:"not null;index:idx_favorite_user_service,unique" json:"service_id"`
	CreatedAt time.Time `json:"created_at"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Service Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}
