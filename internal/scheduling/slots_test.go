package scheduling

import (
	"testing"
	"time"

	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/wallclock"
	"github.com/stretchr/testify/assert"
)

func tod(s string) wallclock.TimeOfDay { return wallclock.MustTimeOfDay(s) }

func labels(slots []wallclock.TimeOfDay) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}

func TestFreeSlotsClosedDay(t *testing.T) {
	w := Window{IsOpen: false, Start: tod("08:00"), End: tod("17:00")}
	slots := FreeSlots(w, 30, nil)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestFreeSlotsExcludesBookedSlot(t *testing.T) {
	w := Window{IsOpen: true, Start: tod("08:00"), End: tod("17:00")}
	booked := []Interval{NewInterval(tod("09:00"), 30)}

	got := labels(FreeSlots(w, 30, booked))

	assert.Equal(t, []string{"08:00", "08:30", "09:30", "10:00"}, got[:4])
	assert.NotContains(t, got, "09:00")
	assert.Len(t, got, 17)
	assert.Equal(t, "16:30", got[len(got)-1])
}

func TestFreeSlotsDropsTrailingPartialSlot(t *testing.T) {
	w := Window{IsOpen: true, Start: tod("08:00"), End: tod("09:40")}
	got := labels(FreeSlots(w, 30, nil))
	assert.Equal(t, []string{"08:00", "08:30", "09:00"}, got)
}

func TestFreeSlotsLongerBookingBlocksOverlaps(t *testing.T) {
	w := Window{IsOpen: true, Start: tod("08:00"), End: tod("10:00")}
	booked := []Interval{NewInterval(tod("08:15"), 45)}

	got := labels(FreeSlots(w, 30, booked))
	assert.Equal(t, []string{"09:00", "09:30"}, got)
}

func TestFreeSlotsDefaultsDuration(t *testing.T) {
	w := Window{IsOpen: true, Start: tod("08:00"), End: tod("09:00")}
	assert.Equal(t, []string{"08:00", "08:30"}, labels(FreeSlots(w, 0, nil)))
}

func TestFreeSlotsEmptyWindow(t *testing.T) {
	w := Window{IsOpen: true, Start: tod("08:00"), End: tod("08:00")}
	assert.Empty(t, FreeSlots(w, 30, nil))
}

func TestCheckSlot(t *testing.T) {
	w := Window{IsOpen: true, Start: tod("08:00"), End: tod("17:00")}

	assert.NoError(t, CheckSlot(w, tod("08:00"), 30))
	assert.NoError(t, CheckSlot(w, tod("16:30"), 30))
	assert.ErrorIs(t, CheckSlot(w, tod("07:30"), 30), ErrOutsideHours)
	assert.ErrorIs(t, CheckSlot(w, tod("16:45"), 30), ErrOutsideHours)
	assert.ErrorIs(t, CheckSlot(w, tod("17:00"), 30), ErrOutsideHours)
	assert.ErrorIs(t, CheckSlot(w, tod("09:15"), 30), ErrOffGrid)
	assert.ErrorIs(t, CheckSlot(Window{}, tod("09:00"), 30), ErrClosed)
}

func TestIntervalOverlapsIsHalfOpen(t *testing.T) {
	a := NewInterval(tod("09:00"), 30)
	assert.False(t, a.Overlaps(NewInterval(tod("09:30"), 30)))
	assert.False(t, a.Overlaps(NewInterval(tod("08:30"), 30)))
	assert.True(t, a.Overlaps(NewInterval(tod("09:29"), 30)))
}

func TestCanCancel(t *testing.T) {
	start := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)

	assert.True(t, CanCancel(start, start.Add(-25*time.Hour)))
	assert.True(t, CanCancel(start, start.Add(-24*time.Hour-time.Second)))
	assert.False(t, CanCancel(start, start.Add(-24*time.Hour)))
	assert.False(t, CanCancel(start, start.Add(-2*time.Hour)))
	assert.False(t, CanCancel(start, start.Add(time.Hour)))
}
