package models

import (
	"testing"
)

func TestTotalPrice(t *testing.T) {
	cases := []struct {
		pricePerDay float64
		days        int
		want        float64
	}{
		{50, 1, 50},
		{50, 3, 150},
		{79.99, 2, 159.98},
		{0, 5, 0},
	}
	for _, tc := range cases {
		if got := TotalPrice(tc.pricePerDay, tc.days); got != tc.want {
			t.Errorf("TotalPrice(%v, %d) = %v, want %v", tc.pricePerDay, tc.days, got, tc.want)
		}
	}
}

func TestBookingStatusTerminal(t *testing.T) {
	if BookingConfirmed.Terminal() {
		t.Error("confirmed must accept further transitions")
	}
	if !BookingCompleted.Terminal() {
		t.Error("completed is terminal")
	}
	if !BookingCancelled.Terminal() {
		t.Error("cancelled is terminal")
	}
}

func TestBookingIntervalFromDocument(t *testing.T) {
	b := Booking{StartTime: "10:00", DurationHours: 2}
	iv, err := b.Interval()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iv.Start != 600 || iv.End != 720 {
		t.Errorf("got %v, want [600, 720)", iv)
	}
}
