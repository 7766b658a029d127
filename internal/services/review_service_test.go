package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/JJ8s/Space-GYM/internal/models"
)

type fakeReviews struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]*models.Review // keyed by booking id
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{reviews: make(map[uuid.UUID]*models.Review)}
}

func (f *fakeReviews) CreateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := review.Validate(); err != nil {
		return nil, err
	}
	if _, exists := f.reviews[review.BookingID]; exists {
		return nil, models.ErrReviewExists
	}
	review.BeforeCreate()
	stored := *review
	f.reviews[review.BookingID] = &stored
	copied := stored
	return &copied, nil
}

func (f *fakeReviews) GetReviewByBooking(ctx context.Context, bookingID uuid.UUID) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reviews[bookingID]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReviews) ListReviewsBySpace(ctx context.Context, spaceID uuid.UUID, limit int) ([]*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Review
	for _, r := range f.reviews {
		if r.SpaceID == spaceID && len(out) < limit {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func newReviewFixture(t *testing.T) (*ReviewService, *bookingFixture) {
	t.Helper()
	fx := newBookingFixture(t)
	return NewReviewService(newFakeReviews(), fx.bookings), fx
}

func TestRateBooking(t *testing.T) {
	svc, fx := newReviewFixture(t)
	ctx := context.Background()

	booking, err := fx.svc.CreateBooking(ctx, fx.draft("10:00", 2), fx.userID, "")
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	// Not redeemed yet.
	if _, err := svc.RateBooking(ctx, booking.ID, fx.userID, 5, "great court"); !errors.Is(err, models.ErrBookingNotableYet) {
		t.Errorf("unredeemed booking: want ErrBookingNotableYet, got %v", err)
	}

	if _, err := fx.svc.CheckIn(ctx, booking.ID.String(), fx.ownerID, ""); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	// Only the customer may rate.
	if _, err := svc.RateBooking(ctx, booking.ID, uuid.New(), 5, ""); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("stranger review: want ErrForbidden, got %v", err)
	}

	review, err := svc.RateBooking(ctx, booking.ID, fx.userID, 4, "great court")
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if review.SpaceID != fx.space.ID {
		t.Error("review should carry the booking's space id")
	}

	// One review per booking.
	if _, err := svc.RateBooking(ctx, booking.ID, fx.userID, 5, "even better"); !errors.Is(err, models.ErrReviewExists) {
		t.Errorf("duplicate review: want ErrReviewExists, got %v", err)
	}

	reviews, err := svc.ListSpaceReviews(ctx, fx.space.ID, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reviews) != 1 {
		t.Errorf("space has %d reviews, want 1", len(reviews))
	}
}

func TestRateBookingValidation(t *testing.T) {
	svc, fx := newReviewFixture(t)
	ctx := context.Background()

	booking, err := fx.svc.CreateBooking(ctx, fx.draft("10:00", 2), fx.userID, "")
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	if _, err := fx.svc.CheckIn(ctx, booking.ID.String(), fx.ownerID, ""); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	if _, err := svc.RateBooking(ctx, booking.ID, fx.userID, 0, ""); !models.IsValidation(err) {
		t.Errorf("rating 0: want validation error, got %v", err)
	}
	if _, err := svc.RateBooking(ctx, booking.ID, fx.userID, 6, ""); !models.IsValidation(err) {
		t.Errorf("rating 6: want validation error, got %v", err)
	}
}
