package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JJ8s/Space-GYM/internal/clock"
	"github.com/JJ8s/Space-GYM/internal/models"
)

// fakeBookings is an in-memory BookingsRepo. InsertBooking performs the same
// check-and-insert under a single lock that the Mongo implementation performs
// inside a transaction, so concurrency tests exercise the real contract.
type fakeBookings struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*models.Booking
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{bookings: make(map[uuid.UUID]*models.Booking)}
}

func (f *fakeBookings) InsertBooking(ctx context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	iv, err := booking.Interval()
	if err != nil {
		return err
	}
	for _, other := range f.bookings {
		if other.SpaceID != booking.SpaceID || other.Date != booking.Date {
			continue
		}
		if other.Status != models.BookingConfirmed && other.Status != models.BookingCompleted {
			continue
		}
		otherIv, err := other.Interval()
		if err != nil {
			continue
		}
		if iv.Overlaps(otherIv) {
			return models.ErrSlotTaken
		}
	}

	stored := *booking
	f.bookings[booking.ID] = &stored
	return nil
}

func (f *fakeBookings) GetBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, models.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookings) QueryOverlapping(ctx context.Context, spaceID uuid.UUID, date string) ([]*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Booking
	for _, b := range f.bookings {
		if b.SpaceID != spaceID || b.Date != date {
			continue
		}
		if b.Status != models.BookingConfirmed && b.Status != models.BookingCompleted {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeBookings) UpdateBookingStatus(ctx context.Context, id uuid.UUID, to, expectedCurrent models.BookingStatus) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != expectedCurrent {
		return nil, models.ErrBookingNotFound
	}
	b.Status = to
	copied := *b
	return &copied, nil
}

func (f *fakeBookings) ListBookingsByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.Booking, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, len(out), nil
}

func (f *fakeBookings) ListBookingsByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*models.Booking, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Booking
	for _, b := range f.bookings {
		if b.OwnerID == ownerID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, len(out), nil
}

func (f *fakeBookings) OwnerEarnings(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total float64
	for _, b := range f.bookings {
		if b.OwnerID != ownerID {
			continue
		}
		if b.Status == models.BookingConfirmed || b.Status == models.BookingCompleted {
			total += b.Total
		}
	}
	return total, nil
}

func (f *fakeBookings) DeleteBookingsBySpace(ctx context.Context, spaceID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, b := range f.bookings {
		if b.SpaceID == spaceID {
			delete(f.bookings, id)
		}
	}
	return nil
}

type fakeSpaces struct {
	mu     sync.Mutex
	spaces map[uuid.UUID]*models.SportSpace
}

func newFakeSpaces() *fakeSpaces {
	return &fakeSpaces{spaces: make(map[uuid.UUID]*models.SportSpace)}
}

func (f *fakeSpaces) CreateSpace(ctx context.Context, space *models.SportSpace) (*models.SportSpace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *space
	f.spaces[space.ID] = &stored
	copied := stored
	return &copied, nil
}

func (f *fakeSpaces) GetSpaceByID(ctx context.Context, id uuid.UUID) (*models.SportSpace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.spaces[id]
	if !ok {
		return nil, models.ErrSpaceNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSpaces) ListSpaces(ctx context.Context, filters models.SpaceFilters, offset, limit int) ([]*models.SportSpace, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.SportSpace
	for _, s := range f.spaces {
		copied := *s
		out = append(out, &copied)
	}
	return out, len(out), nil
}

func (f *fakeSpaces) ListSpacesByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*models.SportSpace, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.SportSpace
	for _, s := range f.spaces {
		if s.OwnerID == ownerID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, len(out), nil
}

func (f *fakeSpaces) UpdateSpace(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.SportSpace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.spaces[id]
	if !ok {
		return nil, models.ErrSpaceNotFound
	}
	if blocks, ok := updates["schedule"].([]models.ScheduleBlock); ok {
		s.Schedule = blocks
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSpaces) DeleteSpace(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.spaces, id)
	return nil
}

type fakeUsers struct {
	profiles map[uuid.UUID]*models.User
}

func (f *fakeUsers) CreateUser(ctx context.Context, user *models.User) (interface{}, error) {
	return user, nil
}

func (f *fakeUsers) AuthenticateUser(ctx context.Context, email, password string) (interface{}, error) {
	return nil, errors.New("not supported in tests")
}

func (f *fakeUsers) RefreshToken(ctx context.Context, refreshToken string) (interface{}, error) {
	return nil, errors.New("not supported in tests")
}

func (f *fakeUsers) GetUser(ctx context.Context, id uuid.UUID, accessToken string) (*models.User, error) {
	u, ok := f.profiles[id]
	if !ok {
		return nil, errors.New("profile not found")
	}
	return u, nil
}

func (f *fakeUsers) UpdateUser(ctx context.Context, updates map[string]interface{}, userID uuid.UUID, accessToken string) (*models.User, error) {
	return nil, errors.New("not supported in tests")
}

// recordingDispatcher captures published routing keys.
type recordingDispatcher struct {
	mu   sync.Mutex
	keys []string
}

func (r *recordingDispatcher) Publish(ctx context.Context, key string, event any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
}

func (r *recordingDispatcher) published() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

type bookingFixture struct {
	svc        *BookingService
	bookings   *fakeBookings
	spaces     *fakeSpaces
	dispatcher *recordingDispatcher
	space      *models.SportSpace
	ownerID    uuid.UUID
	userID     uuid.UUID
}

var testLogger = slog.New(slog.NewTextHandler(discard{}, nil))

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// newBookingFixture wires a service against a space open 09:00-18:00 at 50
// per day, with the clock pinned well before the test booking date.
func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	ownerID := uuid.New()
	userID := uuid.New()
	space := &models.SportSpace{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        "Centro Padel Norte",
		Location:    "Valencia",
		PricePerDay: 50,
		Schedule:    []models.ScheduleBlock{{Open: "09:00", Close: "18:00"}},
	}

	spaces := newFakeSpaces()
	if _, err := spaces.CreateSpace(context.Background(), space); err != nil {
		t.Fatalf("seeding space: %v", err)
	}

	bookings := newFakeBookings()
	users := &fakeUsers{profiles: map[uuid.UUID]*models.User{
		userID: {ID: userID, FullName: "Marta Gil", Role: models.RoleCustomer},
	}}
	dispatcher := &recordingDispatcher{}

	fixed := clock.NewFixed(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	svc := NewBookingService(bookings, spaces, users, dispatcher, fixed, testLogger)

	return &bookingFixture{
		svc:        svc,
		bookings:   bookings,
		spaces:     spaces,
		dispatcher: dispatcher,
		space:      space,
		ownerID:    ownerID,
		userID:     userID,
	}
}

func (fx *bookingFixture) draft(startTime string, hours int) *models.BookingDraft {
	return &models.BookingDraft{
		SpaceID:       fx.space.ID,
		Date:          "2026-03-15",
		StartTime:     startTime,
		DurationHours: hours,
	}
}

func TestCheckAvailability(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	// Seed one confirmed booking 10:00-12:00.
	if _, err := fx.svc.CreateBooking(ctx, fx.draft("10:00", 2), fx.userID, "marta@example.com"); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	if err := fx.svc.CheckAvailability(ctx, fx.draft("11:00", 2)); !errors.Is(err, models.ErrSlotTaken) {
		t.Errorf("11:00-13:00 overlaps the seed, want ErrSlotTaken, got %v", err)
	}
	if err := fx.svc.CheckAvailability(ctx, fx.draft("12:00", 2)); err != nil {
		t.Errorf("12:00-14:00 touches the seed without overlap, want nil, got %v", err)
	}
	if err := fx.svc.CheckAvailability(ctx, fx.draft("08:00", 1)); !errors.Is(err, models.ErrClosed) {
		t.Errorf("08:00 is before opening, want ErrClosed, got %v", err)
	}
	if err := fx.svc.CheckAvailability(ctx, fx.draft("17:00", 2)); !errors.Is(err, models.ErrClosed) {
		t.Errorf("17:00-19:00 runs past closing, want ErrClosed, got %v", err)
	}
}

func TestCheckAvailabilityReportsConflictBeforeClosed(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	if _, err := fx.svc.CreateBooking(ctx, fx.draft("16:00", 2), fx.userID, ""); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	// 17:00-19:00 both overlaps the seed and escapes the schedule; the
	// conflict wins.
	if err := fx.svc.CheckAvailability(ctx, fx.draft("17:00", 2)); !errors.Is(err, models.ErrSlotTaken) {
		t.Errorf("want ErrSlotTaken to take precedence over ErrClosed, got %v", err)
	}
}

func TestCreateBooking(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	draft := fx.draft("10:00", 2)
	draft.Days = 3
	booking, err := fx.svc.CreateBooking(ctx, draft, fx.userID, "marta@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != models.BookingConfirmed {
		t.Errorf("new booking status = %s, want confirmed", booking.Status)
	}
	if booking.Total != 150 {
		t.Errorf("total = %v, want 150 (50/day over 3 days)", booking.Total)
	}
	if booking.OwnerID != fx.ownerID {
		t.Error("owner id was not denormalized onto the booking")
	}
	if booking.SpaceName != fx.space.Name {
		t.Error("space name was not denormalized onto the booking")
	}

	keys := fx.dispatcher.published()
	if len(keys) != 1 || keys[0] != "booking.created" {
		t.Errorf("published keys = %v, want [booking.created]", keys)
	}
}

func TestCreateBookingConflictWritesNothing(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	if _, err := fx.svc.CreateBooking(ctx, fx.draft("10:00", 2), fx.userID, ""); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	_, err := fx.svc.CreateBooking(ctx, fx.draft("11:00", 2), uuid.New(), "")
	if !errors.Is(err, models.ErrSlotTaken) {
		t.Fatalf("want ErrSlotTaken, got %v", err)
	}

	if n := len(fx.bookings.bookings); n != 1 {
		t.Errorf("store holds %d bookings after rejected insert, want 1", n)
	}
	if keys := fx.dispatcher.published(); len(keys) != 1 {
		t.Errorf("a rejected booking must not publish, got %v", keys)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	past := fx.draft("10:00", 2)
	past.Date = "2026-02-01"
	if _, err := fx.svc.CreateBooking(ctx, past, fx.userID, ""); !models.IsValidation(err) {
		t.Errorf("past date: want validation error, got %v", err)
	}

	midnight := fx.draft("23:00", 3)
	if _, err := fx.svc.CreateBooking(ctx, midnight, fx.userID, ""); !models.IsValidation(err) {
		t.Errorf("past-midnight interval: want validation error, got %v", err)
	}

	closed := fx.draft("07:00", 2)
	if _, err := fx.svc.CreateBooking(ctx, closed, fx.userID, ""); !errors.Is(err, models.ErrClosed) {
		t.Errorf("outside schedule: want ErrClosed, got %v", err)
	}
}

func TestConcurrentCreateHasOneWinner(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.svc.CreateBooking(ctx, fx.draft("10:00", 2), uuid.New(), "")
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, models.ErrSlotTaken):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != attempts-1 {
		t.Errorf("wins=%d conflicts=%d, want exactly one winner", wins, conflicts)
	}
}

func TestCheckInIsIdempotent(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	booking, err := fx.svc.CreateBooking(ctx, fx.draft("10:00", 2), fx.userID, "")
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	token := booking.ID.String()

	receipt, err := fx.svc.CheckIn(ctx, token, fx.ownerID, "tok")
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	if receipt.CustomerName != "Marta Gil" {
		t.Errorf("receipt customer = %q, want Marta Gil", receipt.CustomerName)
	}
	if receipt.Total != booking.Total {
		t.Errorf("receipt total = %v, want %v", receipt.Total, booking.Total)
	}

	if _, err := fx.svc.CheckIn(ctx, token, fx.ownerID, "tok"); !errors.Is(err, models.ErrAlreadyRedeemed) {
		t.Errorf("second scan: want ErrAlreadyRedeemed, got %v", err)
	}

	// Redemption flips status but the booking was already earned; the total
	// is counted exactly once.
	earned, err := fx.svc.Earnings(ctx, fx.ownerID)
	if err != nil {
		t.Fatalf("earnings: %v", err)
	}
	if earned != booking.Total {
		t.Errorf("earnings = %v, want %v", earned, booking.Total)
	}
}

func TestCheckInGates(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	booking, err := fx.svc.CreateBooking(ctx, fx.draft("10:00", 2), fx.userID, "")
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	if _, err := fx.svc.CheckIn(ctx, "not-a-token", fx.ownerID, ""); !errors.Is(err, models.ErrBookingNotFound) {
		t.Errorf("garbage token: want ErrBookingNotFound, got %v", err)
	}
	if _, err := fx.svc.CheckIn(ctx, uuid.New().String(), fx.ownerID, ""); !errors.Is(err, models.ErrBookingNotFound) {
		t.Errorf("unknown id: want ErrBookingNotFound, got %v", err)
	}
	if _, err := fx.svc.CheckIn(ctx, booking.ID.String(), uuid.New(), ""); !errors.Is(err, models.ErrWrongSpace) {
		t.Errorf("foreign owner: want ErrWrongSpace, got %v", err)
	}

	// Quoted and padded tokens still resolve.
	if _, err := fx.svc.CheckIn(ctx, "  \""+booking.ID.String()+"\"  ", fx.ownerID, ""); err != nil {
		t.Errorf("quoted token should redeem, got %v", err)
	}
}

func TestCheckInCancelledBooking(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	booking, err := fx.svc.CreateBooking(ctx, fx.draft("10:00", 2), fx.userID, "")
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	if _, err := fx.svc.CancelBooking(ctx, booking.ID, fx.userID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := fx.svc.CheckIn(ctx, booking.ID.String(), fx.ownerID, ""); !errors.Is(err, models.ErrBookingCancelled) {
		t.Errorf("want ErrBookingCancelled, got %v", err)
	}
}

func TestCancelBooking(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	booking, err := fx.svc.CreateBooking(ctx, fx.draft("10:00", 2), fx.userID, "")
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	// A stranger cannot cancel.
	if _, err := fx.svc.CancelBooking(ctx, booking.ID, uuid.New()); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("stranger cancel: want ErrForbidden, got %v", err)
	}

	cancelled, err := fx.svc.CancelBooking(ctx, booking.ID, fx.userID)
	if err != nil {
		t.Fatalf("customer cancel: %v", err)
	}
	if cancelled.Status != models.BookingCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}

	// Terminal states are immutable.
	if _, err := fx.svc.CancelBooking(ctx, booking.ID, fx.userID); !errors.Is(err, models.ErrAlreadyFinalized) {
		t.Errorf("double cancel: want ErrAlreadyFinalized, got %v", err)
	}

	// A cancelled booking releases its slot.
	if err := fx.svc.CheckAvailability(ctx, fx.draft("10:00", 2)); err != nil {
		t.Errorf("slot should be free after cancel, got %v", err)
	}

	// Cancelled bookings never count toward earnings.
	earned, err := fx.svc.Earnings(ctx, fx.ownerID)
	if err != nil {
		t.Fatalf("earnings: %v", err)
	}
	if earned != 0 {
		t.Errorf("earnings = %v, want 0", earned)
	}
}

func TestCancelAfterRedemption(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	booking, err := fx.svc.CreateBooking(ctx, fx.draft("10:00", 2), fx.userID, "")
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	if _, err := fx.svc.CheckIn(ctx, booking.ID.String(), fx.ownerID, ""); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	if _, err := fx.svc.CancelBooking(ctx, booking.ID, fx.userID); !errors.Is(err, models.ErrAlreadyFinalized) {
		t.Errorf("cancel after redemption: want ErrAlreadyFinalized, got %v", err)
	}
}

func TestOwnerMayCancel(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	booking, err := fx.svc.CreateBooking(ctx, fx.draft("10:00", 2), fx.userID, "")
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	if _, err := fx.svc.CancelBooking(ctx, booking.ID, fx.ownerID); err != nil {
		t.Errorf("owner cancel should succeed, got %v", err)
	}
}

func TestGetBookingVisibility(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	booking, err := fx.svc.CreateBooking(ctx, fx.draft("10:00", 2), fx.userID, "")
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	if _, err := fx.svc.GetBooking(ctx, booking.ID, fx.userID); err != nil {
		t.Errorf("customer read: %v", err)
	}
	if _, err := fx.svc.GetBooking(ctx, booking.ID, fx.ownerID); err != nil {
		t.Errorf("owner read: %v", err)
	}
	if _, err := fx.svc.GetBooking(ctx, booking.ID, uuid.New()); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("stranger read: want ErrForbidden, got %v", err)
	}
}
