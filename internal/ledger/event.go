package ledger

import (
	"time"

	"blockevent/internal/status"
)

// Event is an organizer's registered event. Events are never deleted,
// only flagged cancelled.
type Event struct {
	ID                  uint64    `json:"id"`
	Name                string    `json:"name"`
	Organizer           Identity  `json:"organizer"`
	Date                time.Time `json:"date"`
	MaxResalePercentage uint64    `json:"max_resale_percentage"`
	IsActive            bool      `json:"is_active"`
	IsCancelled         bool      `json:"is_cancelled"`
	Revenue             uint64    `json:"revenue"`
	VoteCount           uint64    `json:"vote_count"`
	TierIDs             []uint64  `json:"tier_ids"`
}

// CreateEvent registers a new event with the caller as organizer.
func (l *Ledger) CreateEvent(caller Identity, now time.Time, name string, date time.Time, maxResalePct uint64) (uint64, error) {
	if !date.After(now) {
		return 0, status.ErrInvalidSchedule
	}
	if maxResalePct < 100 || maxResalePct > 200 {
		return 0, status.ErrInvalidResaleBound
	}

	id := l.st.nextEventID
	l.st.nextEventID++

	l.st.events[id] = &Event{
		ID:                  id,
		Name:                name,
		Organizer:           caller,
		Date:                date,
		MaxResalePercentage: maxResalePct,
		IsActive:            true,
	}

	l.emit(EventCreated{EventID: id, Name: name, Organizer: caller})
	return id, nil
}

// CancelEvent flags an upcoming event as cancelled. Organizer only.
func (l *Ledger) CancelEvent(caller Identity, now time.Time, eventID uint64) error {
	ev, ok := l.st.events[eventID]
	if !ok {
		return status.ErrNoSuchEvent
	}
	if ev.Organizer != caller {
		return status.ErrUnauthorized
	}
	if ev.IsCancelled {
		return status.ErrAlreadyCancelled
	}
	if !now.Before(ev.Date) {
		return status.ErrEventAlreadyOccurred
	}

	ev.IsCancelled = true
	ev.IsActive = false

	l.emit(EventCancelled{EventID: eventID})
	return nil
}

// EventInfo returns a copy of the event record, tier list included.
func (l *Ledger) EventInfo(eventID uint64) (Event, error) {
	ev, ok := l.st.events[eventID]
	if !ok {
		return Event{}, status.ErrNoSuchEvent
	}
	out := *ev
	out.TierIDs = append([]uint64(nil), ev.TierIDs...)
	return out, nil
}
