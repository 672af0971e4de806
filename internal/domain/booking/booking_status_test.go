package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitionTable(t *testing.T) {
	all := []BookingStatus{
		StatusPending, StatusConfirmed, StatusActive,
		StatusCompleted, StatusCancelled, StatusRejected,
	}

	allowed := map[BookingStatus][]BookingStatus{
		StatusPending:   {StatusConfirmed, StatusRejected, StatusCancelled},
		StatusConfirmed: {StatusActive, StatusCancelled},
		StatusActive:    {StatusCompleted},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())

	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())
}

func TestOccupyingSet(t *testing.T) {
	assert.False(t, StatusPending.IsOccupying(), "pending requests may overlap freely")
	assert.True(t, StatusConfirmed.IsOccupying())
	assert.True(t, StatusActive.IsOccupying())
	assert.False(t, StatusCompleted.IsOccupying())
	assert.False(t, StatusCancelled.IsOccupying())
	assert.False(t, StatusRejected.IsOccupying())

	assert.ElementsMatch(t, []string{"confirmed", "active"}, OccupyingStatusStrings())
}

func TestParseBookingStatus(t *testing.T) {
	s, err := ParseBookingStatus("confirmed")
	assert.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseBookingStatus("approved")
	assert.Error(t, err)
}
