package notify

import "encoding/json"

// Routing keys on the booking topic exchange.
const (
	RKBookingCreated   = "booking.created"
	RKBookingRedeemed  = "booking.redeemed"
	RKBookingCancelled = "booking.cancelled"
)

// BookingCreated is emitted after a conflict-guarded insert commits. It
// carries everything the receipt email needs; the recipient address comes
// from the identity provider at publish time.
type BookingCreated struct {
	BookingID string  `json:"booking_id"`
	SpaceName string  `json:"space_name"`
	Location  string  `json:"location"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	Total     float64 `json:"total"`
	Recipient string  `json:"recipient"`
}

// BookingRedeemed is emitted after a successful check-in.
type BookingRedeemed struct {
	BookingID    string  `json:"booking_id"`
	SpaceName    string  `json:"space_name"`
	CustomerName string  `json:"customer_name"`
	Total        float64 `json:"total"`
}

// BookingCancelled is emitted after a soft-cancel.
type BookingCancelled struct {
	BookingID string `json:"booking_id"`
	SpaceName string `json:"space_name"`
	Date      string `json:"date"`
}

// MustUnmarshal decodes an event payload of the given type.
func MustUnmarshal[T any](body []byte) (T, error) {
	var ev T
	err := json.Unmarshal(body, &ev)
	return ev, err
}
