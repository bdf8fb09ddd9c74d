package models

import "time"

// Favorite marks an amigo saved by a user.
type Favorite struct {
	UserID    uint      `json:"userId" gorm:"primaryKey"`
	AmigoID   uint      `json:"amigoId" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`

	User  *User `json:"-" gorm:"foreignKey:UserID"`
	Amigo *User `json:"-" gorm:"foreignKey:AmigoID"`
}
