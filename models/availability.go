package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrInvalidWindow = errors.New("availability end time must be after start time")

// Availability is one contiguous window in which an amigo can be booked.
type Availability struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"index;not null"`
	Date      time.Time `json:"date" gorm:"not null"`
	StartTime time.Time `json:"startTime" gorm:"not null"`
	EndTime   time.Time `json:"endTime" gorm:"not null"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

func (a *Availability) BeforeCreate(tx *gorm.DB) error {
	return a.Validate()
}

func (a *Availability) Validate() error {
	if !a.EndTime.After(a.StartTime) {
		return ErrInvalidWindow
	}
	return nil
}

func (Availability) TableName() string {
	return "availability"
}
