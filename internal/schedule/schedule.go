// Package schedule is the appointment slot engine: it turns a doctor's working-hours
// configuration and the set of existing busy intervals for a day into the ordered list
// of bookable slots, and validates proposed bookings against the same overlap rules.
//
// The package is pure. All state comes in as arguments; nothing here touches the
// database or the clock except through the explicit `now` parameter of Validate.
package schedule

import (
	"time"
)

// ConsultationStyle is a coarse, doctor-chosen pacing preference that maps to a
// concrete slot duration.
type ConsultationStyle string

const (
	StyleFast     ConsultationStyle = "fast"     // high volume
	StyleNormal   ConsultationStyle = "normal"   // standard checkup
	StyleDetailed ConsultationStyle = "detailed" // comprehensive
	StyleSurgery  ConsultationStyle = "surgery"  // procedures
)

func (s ConsultationStyle) IsValid() bool {
	switch s {
	case StyleFast, StyleNormal, StyleDetailed, StyleSurgery:
		return true
	}
	return false
}

// Duration returns the slot duration for the style. Unknown styles get the
// standard 30 minutes.
func (s ConsultationStyle) Duration() time.Duration {
	switch s {
	case StyleFast:
		return 15 * time.Minute
	case StyleNormal:
		return 30 * time.Minute
	case StyleDetailed:
		return 45 * time.Minute
	case StyleSurgery:
		return 60 * time.Minute
	}
	return 30 * time.Minute
}

// TimeOfDay is a wall-clock time within a day, independent of date and zone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// On anchors the time-of-day onto a calendar date, in that date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

func (t TimeOfDay) String() string {
	return t.On(time.Time{}).Format("15:04")
}

// Minutes returns the offset from midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// ParseTimeOfDay parses a 24-hour "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, ErrInvalidScheduleConfig
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// Config is a doctor's slot-generation settings. It is owned by the doctor
// profile; this package only consumes it.
type Config struct {
	WorkStart     TimeOfDay
	WorkEnd       TimeOfDay
	SlotDuration  time.Duration
	BreakDuration time.Duration // inserted after every generated slot
}

// DefaultConfig is the window used when a doctor has no configuration on record
// or when the stored configuration is malformed: 09:00-17:00, 30-minute slots,
// no breaks.
func DefaultConfig() Config {
	return Config{
		WorkStart:    TimeOfDay{Hour: 9},
		WorkEnd:      TimeOfDay{Hour: 17},
		SlotDuration: 30 * time.Minute,
	}
}

// ParseConfig builds a Config from the raw persisted fields. Malformed input —
// unparsable times, an inverted or empty window, a non-positive slot duration or
// a negative break — falls back wholesale to DefaultConfig. Callers never see an
// error from bad configuration; a doctor with a corrupt profile still gets a
// working calendar.
func ParseConfig(workStart, workEnd string, slotMins, breakMins int) Config {
	start, err := ParseTimeOfDay(workStart)
	if err != nil {
		return DefaultConfig()
	}
	end, err := ParseTimeOfDay(workEnd)
	if err != nil {
		return DefaultConfig()
	}
	if end.Minutes() <= start.Minutes() {
		return DefaultConfig()
	}
	if slotMins <= 0 || breakMins < 0 {
		return DefaultConfig()
	}
	return Config{
		WorkStart:     start,
		WorkEnd:       end,
		SlotDuration:  time.Duration(slotMins) * time.Minute,
		BreakDuration: time.Duration(breakMins) * time.Minute,
	}
}
