package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDoctorID = uuid.MustParse("7f9c24e5-2b8a-4d3e-9e1f-6a5b4c3d2e1f")

func day(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
}

func at(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2026, 3, 12, hour, min, 0, 0, time.UTC)
}

func shortConfig() Config {
	// 09:00-11:00, 30-minute slots, no breaks
	return Config{
		WorkStart:    TimeOfDay{Hour: 9},
		WorkEnd:      TimeOfDay{Hour: 11},
		SlotDuration: 30 * time.Minute,
	}
}

func TestGenerate_EmptyCalendar(t *testing.T) {
	slots, err := Generate(shortConfig(), testDoctorID, day(t), nil)
	require.NoError(t, err)
	require.Len(t, slots, 4)

	wantStarts := []time.Time{at(t, 9, 0), at(t, 9, 30), at(t, 10, 0), at(t, 10, 30)}
	for i, s := range slots {
		assert.True(t, s.Start.Equal(wantStarts[i]), "slot %d start = %s", i, s.Start)
		assert.True(t, s.End.Equal(wantStarts[i].Add(30*time.Minute)), "slot %d end = %s", i, s.End)
		assert.Equal(t, testDoctorID, s.DoctorID)
	}
}

func TestGenerate_WithholdsConflictingSlot(t *testing.T) {
	busy := []Interval{
		{Start: at(t, 9, 30), End: at(t, 10, 0), Status: StatusConfirmed},
	}

	slots, err := Generate(shortConfig(), testDoctorID, day(t), busy)
	require.NoError(t, err)
	require.Len(t, slots, 3)

	assert.True(t, slots[0].Start.Equal(at(t, 9, 0)))
	assert.True(t, slots[1].Start.Equal(at(t, 10, 0)))
	assert.True(t, slots[2].Start.Equal(at(t, 10, 30)))
}

func TestGenerate_BreakCadence(t *testing.T) {
	cfg := shortConfig()
	cfg.BreakDuration = 10 * time.Minute

	slots, err := Generate(cfg, testDoctorID, day(t), nil)
	require.NoError(t, err)

	// 09:00-09:30, 09:40-10:10, 10:20-10:50; the next candidate at 11:00
	// would end past the window.
	require.Len(t, slots, 3)
	assert.True(t, slots[0].Start.Equal(at(t, 9, 0)))
	assert.True(t, slots[1].Start.Equal(at(t, 9, 40)))
	assert.True(t, slots[2].Start.Equal(at(t, 10, 20)))

	for i := 1; i < len(slots); i++ {
		assert.Equal(t, cfg.BreakDuration, slots[i].Start.Sub(slots[i-1].End))
	}
}

func TestGenerate_WholeDayBlock(t *testing.T) {
	busy := []Interval{
		{Start: at(t, 0, 0), End: at(t, 23, 59), Status: StatusBlocked},
	}

	slots, err := Generate(shortConfig(), testDoctorID, day(t), busy)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerate_CancelledIntervalIsTransparent(t *testing.T) {
	busy := []Interval{
		{Start: at(t, 9, 30), End: at(t, 10, 0), Status: StatusCancelled},
	}

	slots, err := Generate(shortConfig(), testDoctorID, day(t), busy)
	require.NoError(t, err)
	assert.Len(t, slots, 4, "a cancelled appointment must not withhold its slot")
}

func TestGenerate_BoundaryExactness(t *testing.T) {
	// 09:00-10:30 with 45-minute slots: 09:00-09:45 fits, 09:45-10:30 ends
	// exactly on work end and must be included. A third slot would overrun.
	cfg := Config{
		WorkStart:    TimeOfDay{Hour: 9},
		WorkEnd:      TimeOfDay{Hour: 10, Minute: 30},
		SlotDuration: 45 * time.Minute,
	}

	slots, err := Generate(cfg, testDoctorID, day(t), nil)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.True(t, slots[1].End.Equal(at(t, 10, 30)))
}

func TestGenerate_SlotOverrunningWindowExcluded(t *testing.T) {
	// 09:00-10:29: the 09:45 candidate would end at 10:30, one minute past
	// the window, and must be excluded.
	cfg := Config{
		WorkStart:    TimeOfDay{Hour: 9},
		WorkEnd:      TimeOfDay{Hour: 10, Minute: 29},
		SlotDuration: 45 * time.Minute,
	}

	slots, err := Generate(cfg, testDoctorID, day(t), nil)
	require.NoError(t, err)
	require.Len(t, slots, 1)
}

func TestGenerate_NoOverlapInvariant(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BreakDuration = 5 * time.Minute
	busy := []Interval{
		{Start: at(t, 9, 10), End: at(t, 9, 50), Status: StatusConfirmed},
		{Start: at(t, 12, 0), End: at(t, 13, 0), Status: StatusBlocked},
		{Start: at(t, 14, 0), End: at(t, 14, 30), Status: StatusCancelled},
		{Start: at(t, 16, 45), End: at(t, 17, 30), Status: StatusInProgress},
	}

	slots, err := Generate(cfg, testDoctorID, day(t), busy)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for i, s := range slots {
		for _, iv := range busy {
			if iv.Busy() {
				assert.False(t, Overlaps(s.Start, s.End, iv.Start, iv.End),
					"slot %s overlaps busy interval %s", s.Start, iv.Start)
			}
		}
		if i > 0 {
			assert.False(t, Overlaps(s.Start, s.End, slots[i-1].Start, slots[i-1].End),
				"emitted slots must not overlap each other")
			assert.True(t, s.Start.After(slots[i-1].Start), "slots must be ordered")
		}
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	busy := []Interval{
		{Start: at(t, 10, 0), End: at(t, 10, 30), Status: StatusConfirmed},
	}

	first, err := Generate(shortConfig(), testDoctorID, day(t), busy)
	require.NoError(t, err)
	second, err := Generate(shortConfig(), testDoctorID, day(t), busy)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerate_PastDateStillGenerates(t *testing.T) {
	past := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	slots, err := Generate(shortConfig(), testDoctorID, past, nil)
	require.NoError(t, err)
	assert.Len(t, slots, 4, "generation is date-agnostic; past rejection belongs to Validate")
}

func TestGenerate_AdjacentIntervalDoesNotConflict(t *testing.T) {
	// Half-open semantics: a booking ending exactly at 09:30 leaves the
	// 09:30 slot free.
	busy := []Interval{
		{Start: at(t, 9, 0), End: at(t, 9, 30), Status: StatusConfirmed},
	}

	slots, err := Generate(shortConfig(), testDoctorID, day(t), busy)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.True(t, slots[0].Start.Equal(at(t, 9, 30)))
}

func TestGenerate_InvalidSlotDuration(t *testing.T) {
	cfg := shortConfig()
	cfg.SlotDuration = -30 * time.Minute

	_, err := Generate(cfg, testDoctorID, day(t), nil)
	assert.ErrorIs(t, err, ErrInvalidSlotDuration)
}

func TestGenerate_SlotIDsMatchCodec(t *testing.T) {
	slots, err := Generate(shortConfig(), testDoctorID, day(t), nil)
	require.NoError(t, err)

	for _, s := range slots {
		docID, tod, err := DecodeSlotID(s.ID)
		require.NoError(t, err)
		assert.Equal(t, testDoctorID, docID)
		assert.True(t, tod.On(day(t)).Equal(s.Start))
	}
}
