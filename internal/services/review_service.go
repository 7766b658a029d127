package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/JJ8s/Space-GYM/internal/models"
)

type ReviewService struct {
	reviewsRepo  models.ReviewsRepo
	bookingsRepo models.BookingsRepo
}

func NewReviewService(reviewsRepo models.ReviewsRepo, bookingsRepo models.BookingsRepo) *ReviewService {
	return &ReviewService{
		reviewsRepo:  reviewsRepo,
		bookingsRepo: bookingsRepo,
	}
}

// RateBooking attaches the one allowed review to a booking. Only the booking's
// customer may rate, and only after the booking was redeemed.
func (rs *ReviewService) RateBooking(ctx context.Context, bookingID, userID uuid.UUID, rating int, comment string) (*models.Review, error) {
	booking, err := rs.bookingsRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, models.ErrForbidden
	}
	if booking.Status != models.BookingCompleted {
		return nil, models.ErrBookingNotableYet
	}

	// Advisory duplicate check; the unique booking_id index is the backstop
	// for concurrent submissions.
	existing, err := rs.reviewsRepo.GetReviewByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrReviewExists
	}

	review := &models.Review{
		BookingID: bookingID,
		SpaceID:   booking.SpaceID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	}
	return rs.reviewsRepo.CreateReview(ctx, review)
}

func (rs *ReviewService) ListSpaceReviews(ctx context.Context, spaceID uuid.UUID, limit int) ([]*models.Review, error) {
	if spaceID == uuid.Nil {
		return nil, fmt.Errorf("invalid space ID")
	}
	if limit <= 0 {
		limit = 20
	}
	return rs.reviewsRepo.ListReviewsBySpace(ctx, spaceID, limit)
}
