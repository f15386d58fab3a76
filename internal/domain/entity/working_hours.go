package entity

import (
	"strings"
	"time"

	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/wallclock"
	"github.com/google/uuid"
)

// Weekday is the lowercase English day name used as the schedule key.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists the week starting on Saturday, the Algerian working week.
var Weekdays = []Weekday{Saturday, Sunday, Monday, Tuesday, Wednesday, Thursday, Friday}

func WeekdayOf(d time.Weekday) Weekday {
	return Weekday(strings.ToLower(d.String()))
}

func (w Weekday) Valid() bool {
	for _, d := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// WorkingHours is one row of a provider's weekly schedule table.
type WorkingHours struct {
	ID         int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	ProviderID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_working_hours_provider_day" json:"provider_id"`
	Weekday    Weekday             `gorm:"type:varchar(10);not null;uniqueIndex:idx_working_hours_provider_day" json:"weekday"`
	StartTime  wallclock.TimeOfDay `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime    wallclock.TimeOfDay `gorm:"type:varchar(5);not null" json:"end_time"`
	IsOpen     bool                `gorm:"not null" json:"is_open"`
	CreatedAt  time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WorkingHours) TableName() string {
	return "working_hours"
}

// Valid enforces start <= end on open days. Closed days carry no constraint.
func (w *WorkingHours) Valid() bool {
	if !w.IsOpen {
		return true
	}
	return !w.EndTime.Before(w.StartTime)
}
