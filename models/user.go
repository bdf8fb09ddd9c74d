package models

import (
	"time"

	"github.com/lib/pq"
)

// User is either a client or an amigo, told apart by IsAmigo.
type User struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	Email            string         `json:"email" gorm:"uniqueIndex;not null"`
	Username         string         `json:"username" gorm:"not null"`
	Password         string         `json:"-" gorm:"not null"`
	Name             string         `json:"name" gorm:"not null"`
	Bio              string         `json:"bio"`
	About            string         `json:"about"`
	Location         string         `json:"location"`
	Avatar           string         `json:"avatar"`
	IsVerified       bool           `json:"isVerified"`
	IsAmigo          bool           `json:"isAmigo"`
	Interests        pq.StringArray `json:"interests" gorm:"type:text[]"`
	HourlyRate       *int           `json:"hourlyRate"`
	StripeCustomerID *string        `json:"stripeCustomerId"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// ProfileUpdate carries the user-editable profile fields. Nil fields are left
// untouched.
type ProfileUpdate struct {
	Username   *string   `json:"username"`
	Name       *string   `json:"name"`
	Bio        *string   `json:"bio"`
	About      *string   `json:"about"`
	Location   *string   `json:"location"`
	Avatar     *string   `json:"avatar"`
	Interests  *[]string `json:"interests"`
	HourlyRate *int      `json:"hourlyRate"`
}

// Apply copies the non-nil fields of p onto u.
func (p ProfileUpdate) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.About != nil {
		u.About = *p.About
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Interests != nil {
		u.Interests = pq.StringArray(*p.Interests)
	}
	if p.HourlyRate != nil {
		rate := *p.HourlyRate
		u.HourlyRate = &rate
	}
}

// HasInterest reports whether any of wanted appears in the user's interests.
func (u *User) HasInterest(wanted []string) bool {
	for _, w := range wanted {
		for _, have := range u.Interests {
			if have == w {
				return true
			}
		}
	}
	return false
}

// AmigoProfile is an amigo with the review aggregates derived on read.
type AmigoProfile struct {
	User
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// AmigoDetail extends AmigoProfile with the amigo's calendar and reviews.
type AmigoDetail struct {
	AmigoProfile
	Availability []Availability `json:"availability"`
	Reviews      []Review       `json:"reviews"`
}
