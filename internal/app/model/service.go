package model

import (
	"time"
)

type Service struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Address     string    `json:"address"`
	Geolocation string    `json:"geolocation"`
	Type        string    `gorm:"type:varchar(50);index" json:"type"`
	Phone       string    `gorm:"type:varchar(20)" json:"phone"`
	Website     string    `json:"website"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Derived at read time, never persisted. Nil when the service has no
	// comments.
	AverageRating *float64 `gorm:"-" json:"average_rating,omitempty"`
	ImageURLs     []string `gorm:"-" json:"image_urls"`
	MainImageURL  *string  `gorm:"-" json:"main_image_url,omitempty"`

	Images      []ServiceImage `gorm:"foreignKey:ServiceID" json:"-"`
	Comments    []Comment      `gorm:"foreignKey:ServiceID" json:"-"`
	OwnServices []OwnService   `gorm:"foreignKey:ServiceID" json:"-"`
	Favorites   []Favorite     `gorm:"foreignKey:ServiceID" json:"-"`
}

func (Service) TableName() string {
	return "services"
}

// ServiceImage belongs to exactly one service and is removed with it.
type ServiceImage struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	ServiceID uint   `gorm:"not null;index" json:"service_id"`
	ImageURL  string `gorm:"type:text;not null" json:"image_url"`

	Service Service `gorm:"foreignKey:ServiceID" json:"-"`
}

func (ServiceImage) TableName() string {
	return "service_images"
}

// OwnService links a user to a service they own. A user may own multiple
// services.
type OwnService struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ServiceID uint `gorm:"primaryKey;autoIncrement:false" json:"service_id"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Service Service `gorm:"foreignKey:ServiceID" json:"-"`
}

func (OwnService) TableName() string {
	return "own_services"
}
