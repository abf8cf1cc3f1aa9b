package ledger

import (
	"time"

	"blockevent/internal/status"
)

// VoteForEvent casts the caller's one vote for an event. Voting
// requires holding reward tokens, rewards the organizer, and arms the
// caller's one-shot purchase discount.
func (l *Ledger) VoteForEvent(caller Identity, now time.Time, eventID uint64) error {
	ev, ok := l.st.events[eventID]
	if !ok {
		return status.ErrNoSuchEvent
	}
	if l.RewardBalanceOf(caller) == 0 {
		return status.ErrNoStake
	}
	if l.st.votes[eventID][caller] {
		return status.ErrAlreadyVoted
	}
	if !l.mintable(l.pol.VoteReward) {
		return status.ErrSupplyCapExceeded
	}

	voters, ok := l.st.votes[eventID]
	if !ok {
		voters = make(map[Identity]bool)
		l.st.votes[eventID] = voters
	}
	voters[caller] = true
	ev.VoteCount++
	l.st.discounts[caller] = true

	l.creditReward(ev.Organizer, l.pol.VoteReward, now)
	l.touchActivity(caller, now)

	l.emit(UserVoted{Holder: caller, EventID: eventID})
	return nil
}

// HasVoted reports whether the holder already voted for the event.
func (l *Ledger) HasVoted(eventID uint64, holder Identity) bool {
	return l.st.votes[eventID][holder]
}
