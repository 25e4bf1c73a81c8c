package queue

import (
	"testing"

	"garageQueue/models"
)

func TestAdvance_FullCycleReturnsToStart(t *testing.T) {
	for _, s := range models.AllStatuses {
		got := Advance(Advance(Advance(Advance(s))))
		if got != s {
			t.Fatalf("four advances from %q = %q", s, got)
		}
	}
}

func TestAdvance_FixedOrder(t *testing.T) {
	cases := []struct {
		in, want models.OrderStatus
	}{
		{models.OrderStatusWaiting, models.OrderStatusProcessing},
		{models.OrderStatusProcessing, models.OrderStatusDone},
		{models.OrderStatusDone, models.OrderStatusHoldover},
		{models.OrderStatusHoldover, models.OrderStatusWaiting},
	}
	for _, c := range cases {
		if got := Advance(c.in); got != c.want {
			t.Fatalf("Advance(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAdvance_UnknownMapsToWaiting(t *testing.T) {
	for _, s := range []models.OrderStatus{"", "batal", "PROSES"} {
		if got := Advance(s); got != models.OrderStatusWaiting {
			t.Fatalf("Advance(%q) = %q, want menunggu", s, got)
		}
	}
}

func TestAssign_AnyToAny(t *testing.T) {
	for _, from := range models.AllStatuses {
		for _, to := range models.AllStatuses {
			if got := Assign(from, to); got != to {
				t.Fatalf("Assign(%q, %q) = %q", from, to, got)
			}
		}
	}
}

func TestAssign_DiffersFromAdvance(t *testing.T) {
	// Picking "selesai" straight from "menunggu" skips "proses".
	if Assign(models.OrderStatusWaiting, models.OrderStatusDone) == Advance(models.OrderStatusWaiting) {
		t.Fatalf("assign and advance should not agree here")
	}
}
