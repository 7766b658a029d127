package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JJ8s/Space-GYM/internal/clock"
	"github.com/JJ8s/Space-GYM/internal/helpers"
	"github.com/JJ8s/Space-GYM/internal/models"
	"github.com/JJ8s/Space-GYM/internal/notify"
)

const dateLayout = "2006-01-02"

// BookingService drives the reservation lifecycle: the advisory availability
// check, the conflict-guarded insert, cancellation, and owner-side check-in.
type BookingService struct {
	bookings   models.BookingsRepo
	spaces     models.SpacesRepo
	users      models.UserRepo
	dispatcher notify.Dispatcher
	clk        clock.Clock
	logger     *slog.Logger
}

func NewBookingService(
	bookings models.BookingsRepo,
	spaces models.SpacesRepo,
	users models.UserRepo,
	dispatcher notify.Dispatcher,
	clk clock.Clock,
	logger *slog.Logger,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		spaces:     spaces,
		users:      users,
		dispatcher: dispatcher,
		clk:        clk,
		logger:     logger,
	}
}

// validateDraft rejects malformed input before any store access and returns
// the claimed interval.
func (bs *BookingService) validateDraft(draft *models.BookingDraft) (models.Interval, error) {
	if draft.SpaceID == uuid.Nil {
		return models.Interval{}, models.NewValidationError("space_id", "required")
	}
	if draft.Date == "" {
		return models.Interval{}, models.NewValidationError("date", "required")
	}
	day, err := time.Parse(dateLayout, draft.Date)
	if err != nil {
		return models.Interval{}, models.NewValidationError("date", "expected YYYY-MM-DD")
	}
	today := bs.clk.Now().Truncate(24 * time.Hour)
	if day.Before(today) {
		return models.Interval{}, models.NewValidationError("date", "cannot book a past date")
	}
	if draft.StartTime == "" {
		return models.Interval{}, models.NewValidationError("start_time", "required")
	}
	if draft.DurationHours < 1 {
		return models.Interval{}, models.NewValidationError("duration_hours", "must be at least 1")
	}
	if draft.Days == 0 {
		draft.Days = 1
	}
	if draft.Days < 1 {
		return models.Interval{}, models.NewValidationError("days", "must be at least 1")
	}

	iv, err := models.BookingInterval(draft.StartTime, draft.DurationHours)
	if err != nil {
		return models.Interval{}, models.NewValidationError("start_time", err.Error())
	}
	return iv, nil
}

// CheckAvailability is the advisory pre-check run before the payment step.
// It reports ErrSlotTaken on any overlap with a slot-holding booking, then
// ErrClosed if the interval escapes every schedule block. A nil result is a
// hint, not a hold: only the insert-time conflict guard grants exclusivity.
func (bs *BookingService) CheckAvailability(ctx context.Context, draft *models.BookingDraft) error {
	iv, err := bs.validateDraft(draft)
	if err != nil {
		return err
	}

	space, err := bs.spaces.GetSpaceByID(ctx, draft.SpaceID)
	if err != nil {
		return err
	}

	existing, err := bs.bookings.QueryOverlapping(ctx, draft.SpaceID, draft.Date)
	if err != nil {
		return fmt.Errorf("availability read failed: %w", err)
	}
	for _, other := range existing {
		otherIv, err := other.Interval()
		if err != nil {
			continue
		}
		if iv.Overlaps(otherIv) {
			return models.ErrSlotTaken
		}
	}

	if !models.WithinSchedule(space.Schedule, iv) {
		return models.ErrClosed
	}
	return nil
}

// CreateBooking persists a reservation after the caller has observed payment
// success. The store's atomic check-and-insert supplies the exclusivity
// guarantee; on ErrSlotTaken nothing was written and nothing is published.
func (bs *BookingService) CreateBooking(ctx context.Context, draft *models.BookingDraft, userID uuid.UUID, userEmail string) (*models.Booking, error) {
	iv, err := bs.validateDraft(draft)
	if err != nil {
		return nil, err
	}

	space, err := bs.spaces.GetSpaceByID(ctx, draft.SpaceID)
	if err != nil {
		return nil, err
	}
	if !models.WithinSchedule(space.Schedule, iv) {
		return nil, models.ErrClosed
	}

	now := bs.clk.Now()
	booking := &models.Booking{
		ID:            uuid.New(),
		SpaceID:       space.ID,
		OwnerID:       space.OwnerID,
		UserID:        userID,
		SpaceName:     space.Name,
		Date:          draft.Date,
		StartTime:     draft.StartTime,
		DurationHours: draft.DurationHours,
		Days:          draft.Days,
		Total:         models.TotalPrice(space.PricePerDay, draft.Days),
		Status:        models.BookingConfirmed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := bs.bookings.InsertBooking(ctx, booking); err != nil {
		return nil, err
	}

	bs.dispatcher.Publish(ctx, notify.RKBookingCreated, notify.BookingCreated{
		BookingID: booking.ID.String(),
		SpaceName: space.Name,
		Location:  space.Location,
		Date:      booking.Date,
		StartTime: booking.StartTime,
		Total:     booking.Total,
		Recipient: userEmail,
	})

	return booking, nil
}

// CancelBooking soft-cancels a confirmed reservation. The customer may cancel
// their own booking before redemption; the owner may cancel any booking on
// their spaces. Terminal bookings report ErrAlreadyFinalized untouched.
func (bs *BookingService) CancelBooking(ctx context.Context, id, actorID uuid.UUID) (*models.Booking, error) {
	booking, err := bs.bookings.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID != booking.UserID && actorID != booking.OwnerID {
		return nil, models.ErrForbidden
	}
	if booking.Status.Terminal() {
		return nil, models.ErrAlreadyFinalized
	}

	cancelled, err := bs.bookings.UpdateBookingStatus(ctx, id, models.BookingCancelled, models.BookingConfirmed)
	if err != nil {
		if errors.Is(err, models.ErrBookingNotFound) {
			// Lost a race with a concurrent finalize; reclassify.
			return nil, models.ErrAlreadyFinalized
		}
		return nil, err
	}

	bs.dispatcher.Publish(ctx, notify.RKBookingCancelled, notify.BookingCancelled{
		BookingID: cancelled.ID.String(),
		SpaceName: cancelled.SpaceName,
		Date:      cancelled.Date,
	})

	return cancelled, nil
}

// CheckIn redeems a presented token for one-time physical admission. The
// gates run in a fixed order: existence, ownership, already-redeemed,
// cancelled, then a compare-and-swap to completed so a concurrent double-scan
// settles to exactly one receipt.
func (bs *BookingService) CheckIn(ctx context.Context, rawToken string, ownerID uuid.UUID, accessToken string) (*models.Receipt, error) {
	token := helpers.NormalizeToken(rawToken)
	bookingID, err := uuid.Parse(token)
	if err != nil {
		return nil, models.ErrBookingNotFound
	}

	booking, err := bs.bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: this ticket is for %q", models.ErrWrongSpace, booking.SpaceName)
	}
	if booking.Status == models.BookingCompleted {
		return nil, models.ErrAlreadyRedeemed
	}
	if booking.Status == models.BookingCancelled {
		return nil, models.ErrBookingCancelled
	}

	redeemed, err := bs.bookings.UpdateBookingStatus(ctx, bookingID, models.BookingCompleted, models.BookingConfirmed)
	if err != nil {
		if errors.Is(err, models.ErrBookingNotFound) {
			// Someone else's scan won the swap between our read and write.
			return nil, models.ErrAlreadyRedeemed
		}
		return nil, err
	}

	customerName := ""
	if customer, err := bs.users.GetUser(ctx, redeemed.UserID, accessToken); err != nil {
		bs.logger.Info("could not resolve customer profile for receipt",
			"booking_id", redeemed.ID, "error", err)
	} else {
		customerName = customer.FullName
	}

	receipt := &models.Receipt{
		BookingID:    redeemed.ID,
		CustomerName: customerName,
		SpaceName:    redeemed.SpaceName,
		Total:        redeemed.Total,
		RedeemedAt:   bs.clk.Now(),
	}

	bs.dispatcher.Publish(ctx, notify.RKBookingRedeemed, notify.BookingRedeemed{
		BookingID:    redeemed.ID.String(),
		SpaceName:    redeemed.SpaceName,
		CustomerName: customerName,
		Total:        redeemed.Total,
	})

	return receipt, nil
}

// Earnings is the owner dashboard projection: the settled sum over confirmed
// and completed bookings across the owner's spaces.
func (bs *BookingService) Earnings(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	if ownerID == uuid.Nil {
		return 0, fmt.Errorf("invalid owner ID")
	}
	return bs.bookings.OwnerEarnings(ctx, ownerID)
}

func (bs *BookingService) ListMyBookings(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.Booking, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit")
	}
	return bs.bookings.ListBookingsByUser(ctx, userID, offset, limit)
}

func (bs *BookingService) ListOwnerBookings(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*models.Booking, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit")
	}
	return bs.bookings.ListBookingsByOwner(ctx, ownerID, offset, limit)
}

// GetBooking returns one booking, visible only to its customer or the space
// owner (the QR surface goes through here).
func (bs *BookingService) GetBooking(ctx context.Context, id, actorID uuid.UUID) (*models.Booking, error) {
	booking, err := bs.bookings.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID != booking.UserID && actorID != booking.OwnerID {
		return nil, models.ErrForbidden
	}
	return booking, nil
}
