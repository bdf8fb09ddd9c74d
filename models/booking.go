package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrInvalidTransition is returned when a status change is not a legal move.
var ErrInvalidTransition = errors.New("invalid status transition")

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// ParseBookingStatus rejects anything outside the four known states.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch st := BookingStatus(s); st {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

// CanTransitionTo reports whether next is a legal move from s.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCompleted || next == BookingCancelled
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch st := PaymentStatus(s); st {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return st, nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

// CanTransitionTo reports whether next is a legal move from s. Self moves are
// legal so webhook replays are no-ops; paid never leaves paid.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentFailed:
		return next == PaymentPending || next == PaymentPaid || next == PaymentFailed
	case PaymentPaid:
		return next == PaymentPaid
	}
	return false
}

type Booking struct {
	ID                    uint          `json:"id" gorm:"primaryKey"`
	ClientID              uint          `json:"clientId" gorm:"index;not null"`
	AmigoID               uint          `json:"amigoId" gorm:"index;not null"`
	Date                  time.Time     `json:"date" gorm:"not null"`
	StartTime             time.Time     `json:"startTime" gorm:"not null"`
	EndTime               time.Time     `json:"endTime" gorm:"not null"`
	Location              string        `json:"location" gorm:"not null"`
	Status                BookingStatus `json:"status" gorm:"type:text;not null;default:pending"`
	TotalAmount           int           `json:"totalAmount" gorm:"not null"`
	PaymentStatus         PaymentStatus `json:"paymentStatus" gorm:"type:text;not null;default:pending"`
	StripePaymentIntentID *string       `json:"stripePaymentIntentId"`
	CreatedAt             time.Time     `json:"createdAt"`

	Client *User `json:"-" gorm:"foreignKey:ClientID"`
	Amigo  *User `json:"-" gorm:"foreignKey:AmigoID"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = BookingPending
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = PaymentPending
	}
	return nil
}

// Overlaps reports whether the booking holds the slot [start, end).
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.Status != BookingCancelled && b.StartTime.Before(end) && b.EndTime.After(start)
}

// UpdateStatus moves the booking to next or returns ErrInvalidTransition.
func (b *Booking) UpdateStatus(next BookingStatus) error {
	if !b.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: booking %s to %s", ErrInvalidTransition, b.Status, next)
	}
	b.Status = next
	return nil
}

// UpdatePaymentStatus moves the payment state to next and records intentID
// unless it is empty, in which case the stored id is kept. A booking that is
// already completed or cancelled cannot become paid.
func (b *Booking) UpdatePaymentStatus(next PaymentStatus, intentID string) error {
	if !b.PaymentStatus.CanTransitionTo(next) {
		return fmt.Errorf("%w: payment %s to %s", ErrInvalidTransition, b.PaymentStatus, next)
	}
	if next == PaymentPaid && b.PaymentStatus != PaymentPaid && b.Status.IsTerminal() {
		return fmt.Errorf("%w: payment of a %s booking", ErrInvalidTransition, b.Status)
	}
	b.PaymentStatus = next
	if intentID != "" {
		id := intentID
		b.StripePaymentIntentID = &id
	}
	return nil
}

// IsParty reports whether userID is the client or the amigo of the booking.
func (b *Booking) IsParty(userID uint) bool {
	return b.ClientID == userID || b.AmigoID == userID
}
