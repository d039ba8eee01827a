package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EncodeSlotID builds the deterministic slot reference handed to UI and chat
// callers: "<doctor-uuid>_<HHMM>". It deliberately carries no date — slot IDs
// are short-lived, single-day references, and the caller supplies the date
// out-of-band when redeeming one.
func EncodeSlotID(doctorID uuid.UUID, start time.Time) string {
	return fmt.Sprintf("%s_%02d%02d", doctorID, start.Hour(), start.Minute())
}

// DecodeSlotID parses a slot reference back into its doctor and time-of-day.
// Malformed input returns ErrInvalidSlotID; treat that as user input error
// (the slot list is stale or mangled, ask the user to search again), not a
// system fault.
func DecodeSlotID(slotID string) (uuid.UUID, TimeOfDay, error) {
	idx := strings.LastIndex(slotID, "_")
	if idx < 0 {
		return uuid.Nil, TimeOfDay{}, ErrInvalidSlotID
	}

	doctorID, err := uuid.Parse(slotID[:idx])
	if err != nil {
		return uuid.Nil, TimeOfDay{}, ErrInvalidSlotID
	}

	raw := slotID[idx+1:]
	if len(raw) != 4 {
		return uuid.Nil, TimeOfDay{}, ErrInvalidSlotID
	}
	parsed, err := time.Parse("1504", raw)
	if err != nil {
		return uuid.Nil, TimeOfDay{}, ErrInvalidSlotID
	}

	return doctorID, TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}
