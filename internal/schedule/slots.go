package schedule

import (
	"time"

	"github.com/google/uuid"
)

// Status mirrors the appointment lifecycle states that matter to slot
// generation. Anything other than cancelled occupies its interval.
type Status string

const (
	StatusConfirmed  Status = "confirmed"
	StatusBlocked    Status = "blocked"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Interval is a read-only projection of an existing appointment or operator
// block on a doctor's calendar.
type Interval struct {
	Start  time.Time
	End    time.Time
	Status Status
}

// Busy reports whether the interval occupies calendar time. Cancelled
// intervals are transparent: cancelling an appointment re-offers its slot.
func (iv Interval) Busy() bool {
	return iv.Status != StatusCancelled
}

// Slot is a candidate, not-yet-booked appointment window. Slots are computed
// on demand and never persisted; the ID is a deterministic short-lived
// reference for UI and chat round-trips.
type Slot struct {
	ID       string    `json:"slot_id"`
	DoctorID uuid.UUID `json:"doctor_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Generate produces the ordered, earliest-first list of bookable slots for a
// doctor on the given date.
//
// The cursor starts at work-start and always advances by slot+break, whether
// or not the candidate conflicted. A conflicting candidate is skipped, not
// retried at finer granularity, so every slot boundary in a day is a fixed
// multiple from work-start and slot IDs stay stable across regenerations.
// This trades packing optimality around odd-length busy intervals for a
// calendar a patient-facing UI can render predictably.
//
// Generation is date-agnostic: past dates still produce slots. Rejecting
// past-time bookings is Validate's job.
func Generate(cfg Config, doctorID uuid.UUID, date time.Time, busy []Interval) ([]Slot, error) {
	if cfg.SlotDuration <= 0 {
		return nil, ErrInvalidSlotDuration
	}

	workStart := cfg.WorkStart.On(date)
	workEnd := cfg.WorkEnd.On(date)

	var slots []Slot
	for cur := workStart; !cur.Add(cfg.SlotDuration).After(workEnd); cur = cur.Add(cfg.SlotDuration + cfg.BreakDuration) {
		slotEnd := cur.Add(cfg.SlotDuration)
		if conflicting(cur, slotEnd, busy) == nil {
			slots = append(slots, Slot{
				ID:       EncodeSlotID(doctorID, cur),
				DoctorID: doctorID,
				Start:    cur,
				End:      slotEnd,
			})
		}
	}
	return slots, nil
}

// Overlaps is the half-open interval test: [aStart,aEnd) and [bStart,bEnd)
// overlap iff aStart < bEnd && aEnd > bStart. Back-to-back intervals sharing
// a boundary do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// conflicting returns the first busy interval overlapping [start,end), or nil.
func conflicting(start, end time.Time, busy []Interval) *Interval {
	for i := range busy {
		if !busy[i].Busy() {
			continue
		}
		if Overlaps(start, end, busy[i].Start, busy[i].End) {
			return &busy[i]
		}
	}
	return nil
}
