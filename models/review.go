package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type Review struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	BookingID  uint      `json:"bookingId" gorm:"index;not null"`
	ReviewerID uint      `json:"reviewerId" gorm:"not null"`
	RevieweeID uint      `json:"revieweeId" gorm:"index;not null"`
	Rating     int       `json:"rating" gorm:"not null"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`

	Booking  *Booking `json:"-" gorm:"foreignKey:BookingID"`
	Reviewer *User    `json:"-" gorm:"foreignKey:ReviewerID"`
	Reviewee *User    `json:"-" gorm:"foreignKey:RevieweeID"`
}

// BeforeCreate hook to validate rating
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}
