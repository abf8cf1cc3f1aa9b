package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockevent/internal/status"
)

func TestCreateEvent(t *testing.T) {
	l, rec, _ := newTestLedger(t)

	date := testNow.Add(30 * 24 * time.Hour)
	id, err := l.CreateEvent(organizer, testNow, "Concert Rock", date, 150)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	ev, err := l.EventInfo(id)
	require.NoError(t, err)
	assert.Equal(t, "Concert Rock", ev.Name)
	assert.Equal(t, organizer, ev.Organizer)
	assert.True(t, ev.Date.Equal(date))
	assert.True(t, ev.IsActive)
	assert.False(t, ev.IsCancelled)
	assert.Empty(t, ev.TierIDs)

	require.Len(t, rec.recs, 1)
	assert.Equal(t, EventCreated{EventID: 1, Name: "Concert Rock", Organizer: organizer}, rec.recs[0])

	// Ids are sequential.
	id2, err := l.CreateEvent(organizer, testNow, "Second", date, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id2)
}

func TestCreateEventValidation(t *testing.T) {
	l, _, _ := newTestLedger(t)

	tests := []struct {
		name      string
		date      time.Time
		resalePct uint64
		wantErr   error
	}{
		{"past date", testNow.Add(-24 * time.Hour), 150, status.ErrInvalidSchedule},
		{"exactly now", testNow, 150, status.ErrInvalidSchedule},
		{"resale below 100", testNow.Add(time.Hour), 99, status.ErrInvalidResaleBound},
		{"resale above 200", testNow.Add(time.Hour), 250, status.ErrInvalidResaleBound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.CreateEvent(organizer, testNow, "Bad", tt.date, tt.resalePct)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Nothing was allocated by the failed attempts.
	_, err := l.EventInfo(1)
	assert.ErrorIs(t, err, status.ErrNoSuchEvent)
}

func TestCancelEvent(t *testing.T) {
	l, rec, _ := newTestLedger(t)
	eventID, _ := setupEventWithTier(t, l)

	require.NoError(t, l.CancelEvent(organizer, testNow, eventID))

	ev, err := l.EventInfo(eventID)
	require.NoError(t, err)
	assert.True(t, ev.IsCancelled)
	assert.False(t, ev.IsActive)
	assert.Contains(t, rec.kinds(), "event_cancelled")
}

func TestCancelEventValidation(t *testing.T) {
	l, _, _ := newTestLedger(t)
	eventID, _ := setupEventWithTier(t, l)

	assert.ErrorIs(t, l.CancelEvent(buyer1, testNow, eventID), status.ErrUnauthorized)
	assert.ErrorIs(t, l.CancelEvent(organizer, testNow, 99), status.ErrNoSuchEvent)

	// Past the event date cancellation is no longer possible.
	after := testNow.Add(31 * 24 * time.Hour)
	assert.ErrorIs(t, l.CancelEvent(organizer, after, eventID), status.ErrEventAlreadyOccurred)

	require.NoError(t, l.CancelEvent(organizer, testNow, eventID))
	assert.ErrorIs(t, l.CancelEvent(organizer, testNow, eventID), status.ErrAlreadyCancelled)
}
