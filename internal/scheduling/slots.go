package scheduling

import (
	"errors"
	"time"

	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/wallclock"
)

const (
	DefaultSlotMinutes = 30
	CancellationNotice = 24 * time.Hour
)

var (
	ErrClosed       = errors.New("provider is closed on this day")
	ErrOutsideHours = errors.New("time is outside working hours")
	ErrOffGrid      = errors.New("time is not aligned to the consultation grid")
)

// Window is one weekday of a provider's working hours.
type Window struct {
	IsOpen bool
	Start  wallclock.TimeOfDay
	End    wallclock.TimeOfDay
}

// Interval is half-open: [Start, End).
type Interval struct {
	Start wallclock.TimeOfDay
	End   wallclock.TimeOfDay
}

func NewInterval(start wallclock.TimeOfDay, minutes int) Interval {
	return Interval{Start: start, End: start.Add(minutes)}
}

func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// FreeSlots returns the slot start times inside w, stepping by slotMinutes,
// that do not overlap any booked interval. A slot must end at or before w.End.
func FreeSlots(w Window, slotMinutes int, booked []Interval) []wallclock.TimeOfDay {
	slots := make([]wallclock.TimeOfDay, 0)
	if !w.IsOpen {
		return slots
	}
	if slotMinutes <= 0 {
		slotMinutes = DefaultSlotMinutes
	}

	for t := w.Start; t.Add(slotMinutes) <= w.End; t = t.Add(slotMinutes) {
		candidate := NewInterval(t, slotMinutes)
		if overlapsAny(candidate, booked) {
			continue
		}
		slots = append(slots, t)
	}
	return slots
}

// CheckSlot reports whether a booking of slotMinutes starting at t fits w.
func CheckSlot(w Window, t wallclock.TimeOfDay, slotMinutes int) error {
	if !w.IsOpen {
		return ErrClosed
	}
	if slotMinutes <= 0 {
		slotMinutes = DefaultSlotMinutes
	}
	if t < w.Start || t.Add(slotMinutes) > w.End {
		return ErrOutsideHours
	}
	if (t.Minutes()-w.Start.Minutes())%slotMinutes != 0 {
		return ErrOffGrid
	}
	return nil
}

// CanCancel is true only while strictly more than CancellationNotice remains
// before start.
func CanCancel(start, now time.Time) bool {
	return start.Sub(now) > CancellationNotice
}

func overlapsAny(candidate Interval, booked []Interval) bool {
	for _, b := range booked {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}
