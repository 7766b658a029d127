package notify

import (
	"fmt"
	"log/slog"
)

// Notifier delivers a rendered notification to a recipient. The console
// implementation is the default; an SMTP or provider-backed one slots in
// behind the same interface.
type Notifier interface {
	Notify(recipient, subject, message string) error
}

type ConsoleNotifier struct {
	Logger *slog.Logger
}

func NewConsole(logger *slog.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{Logger: logger}
}

func (c *ConsoleNotifier) Notify(recipient, subject, message string) error {
	c.Logger.Info("notification delivered",
		"recipient", recipient,
		"subject", subject,
		"message", message,
	)
	return nil
}

// RenderBookingCreated formats the confirmation receipt the way the checkout
// email reads.
func RenderBookingCreated(ev BookingCreated) (subject, message string) {
	subject = fmt.Sprintf("Reservation confirmed: %s", ev.SpaceName)
	message = fmt.Sprintf("Booking %s at %s (%s) on %s from %s. Total: $%.2f",
		ev.BookingID, ev.SpaceName, ev.Location, ev.Date, ev.StartTime, ev.Total)
	return subject, message
}

func RenderBookingRedeemed(ev BookingRedeemed) (subject, message string) {
	subject = fmt.Sprintf("Check-in complete: %s", ev.SpaceName)
	message = fmt.Sprintf("Booking %s redeemed by %s. Settled amount: $%.2f",
		ev.BookingID, ev.CustomerName, ev.Total)
	return subject, message
}

func RenderBookingCancelled(ev BookingCancelled) (subject, message string) {
	subject = fmt.Sprintf("Reservation cancelled: %s", ev.SpaceName)
	message = fmt.Sprintf("Booking %s for %s on %s was cancelled.",
		ev.BookingID, ev.SpaceName, ev.Date)
	return subject, message
}
