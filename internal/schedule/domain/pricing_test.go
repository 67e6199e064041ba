package domain

import (
	"testing"
	"time"
)

func TestFeeBands(t *testing.T) {
	t.Parallel()

	thursday := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	friday := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	tuesday := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		date time.Time
		slot Slot
		want int
	}{
		{"thursday complete", thursday, SlotComplete, 120},
		{"thursday warmup", thursday, SlotWarmup, 40},
		{"thursday peaktime", thursday, SlotPeaktime, 80},
		{"friday complete", friday, SlotComplete, 200},
		{"friday warmup", friday, SlotWarmup, 50},
		{"friday peaktime", friday, SlotPeaktime, 150},
		{"saturday complete", saturday, SlotComplete, 200},
		{"tuesday complete", tuesday, SlotComplete, 100},
		{"tuesday warmup", tuesday, SlotWarmup, 30},
		{"tuesday peaktime", tuesday, SlotPeaktime, 70},
	}
	for _, tc := range cases {
		if got := Fee(tc.date, tc.slot); got != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestFeeIsDeterministic(t *testing.T) {
	t.Parallel()

	friday := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	first := Fee(friday, SlotPeaktime)
	second := Fee(friday, SlotPeaktime)
	if first != second {
		t.Fatalf("expected identical fees, got %d then %d", first, second)
	}
}

func TestFeeUnknownSlotIsZero(t *testing.T) {
	t.Parallel()

	friday := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	if got := Fee(friday, Slot("afterhours")); got != 0 {
		t.Fatalf("expected fallback fee 0, got %d", got)
	}
}
