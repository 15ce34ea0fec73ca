package model

import (
	"time"
)

// Comment has a composite identity: at most one comment per user per
// service, enforced by the primary key on the pair.
type Comment struct {
	ServiceID uint      `gorm:"primaryKey;autoIncrement:false" json:"service_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"users_id"`
	Title     string    `json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `json:"created_at"`

	// Author display name, joined at read time.
	FullName string `gorm:"-" json:"full_name,omitempty"`

	Service Service `gorm:"foreignKey:ServiceID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}
