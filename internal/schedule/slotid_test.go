package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotID_RoundTrip(t *testing.T) {
	start := time.Date(2026, 3, 12, 9, 5, 0, 0, time.UTC)
	id := EncodeSlotID(testDoctorID, start)
	assert.Equal(t, testDoctorID.String()+"_0905", id)

	docID, tod, err := DecodeSlotID(id)
	require.NoError(t, err)
	assert.Equal(t, testDoctorID, docID)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 5}, tod)
}

func TestDecodeSlotID_Malformed(t *testing.T) {
	cases := []string{
		"",
		"no-separator",
		"not-a-uuid_0930",
		testDoctorID.String(),          // missing time part
		testDoctorID.String() + "_",    // empty time part
		testDoctorID.String() + "_930", // short time part
		testDoctorID.String() + "_2460",
		testDoctorID.String() + "_ab30",
	}

	for _, raw := range cases {
		_, _, err := DecodeSlotID(raw)
		assert.ErrorIs(t, err, ErrInvalidSlotID, "input %q", raw)
	}
}

func TestDecodeSlotID_NilUUIDStillParses(t *testing.T) {
	// uuid.Nil is syntactically valid; rejecting unknown doctors is the
	// booking layer's job, not the codec's.
	docID, tod, err := DecodeSlotID(uuid.Nil.String() + "_1200")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, docID)
	assert.Equal(t, TimeOfDay{Hour: 12}, tod)
}
