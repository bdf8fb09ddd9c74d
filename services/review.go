package services

import (
	"context"

	"github.com/meinhoongagan/amigos-app/apperrors"
	"github.com/meinhoongagan/amigos-app/models"
	"github.com/meinhoongagan/amigos-app/storage"
	"github.com/rs/zerolog/log"
)

type ReviewService struct {
	store storage.Storage
}

func NewReviewService(store storage.Storage) *ReviewService {
	return &ReviewService{store: store}
}

type ReviewInput struct {
	BookingID  uint   `json:"bookingId"`
	ReviewerID *uint  `json:"reviewerId"`
	RevieweeID uint   `json:"revieweeId"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// CreateReview records a review left by one party of a booking about the
// other party.
func (s *ReviewService) CreateReview(ctx context.Context, actorID uint, in ReviewInput) (*models.Review, error) {
	reviewerID := actorID
	if in.ReviewerID != nil {
		reviewerID = *in.ReviewerID
	}

	booking, err := s.store.GetBookingByID(ctx, in.BookingID)
	if err != nil {
		return nil, storeError(err, "Booking not found")
	}
	if _, err := s.store.GetUser(ctx, reviewerID); err != nil {
		return nil, storeError(err, "Reviewer not found")
	}
	if _, err := s.store.GetUser(ctx, in.RevieweeID); err != nil {
		return nil, storeError(err, "Reviewee not found")
	}

	if reviewerID != actorID {
		return nil, apperrors.NewForbiddenError("You can only post reviews as yourself")
	}
	if reviewerID == in.RevieweeID || !booking.IsParty(reviewerID) || !booking.IsParty(in.RevieweeID) {
		return nil, apperrors.NewValidationError("Validation error", apperrors.FieldError{
			Path:    "revieweeId",
			Message: "reviewer and reviewee must be the two parties of the booking",
		})
	}

	review, err := s.store.CreateReview(ctx, &models.Review{
		BookingID:  booking.ID,
		ReviewerID: reviewerID,
		RevieweeID: in.RevieweeID,
		Rating:     in.Rating,
		Comment:    in.Comment,
	})
	if err != nil {
		return nil, storeError(err, "Booking not found")
	}

	log.Info().Uint("review_id", review.ID).Uint("booking_id", booking.ID).Int("rating", review.Rating).Msg("review created")
	return review, nil
}

func (s *ReviewService) ListReviewsForUser(ctx context.Context, userID uint) ([]models.Review, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, storeError(err, "User not found")
	}
	reviews, err := s.store.GetReviewsForUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return reviews, nil
}
