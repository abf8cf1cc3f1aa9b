package ledger

import (
	"time"

	"blockevent/internal/status"
)

// ValidateTicket records attendance for a holder at the door: flips the
// one-way used flag for (tier, holder). Organizer only, and only once
// the event date has arrived.
func (l *Ledger) ValidateTicket(caller Identity, now time.Time, tierID uint64, holder Identity) error {
	tier, ok := l.st.tiers[tierID]
	if !ok {
		return status.ErrNoSuchTier
	}
	ev := l.st.events[tier.EventID]
	if ev.Organizer != caller {
		return status.ErrUnauthorized
	}
	if now.Before(ev.Date) {
		return status.ErrTooEarly
	}
	if l.HasUsedTicket(tierID, holder) {
		return status.ErrAlreadyUsed
	}
	if l.BalanceOf(holder, tierID) == 0 {
		return status.ErrNoSuchTicket
	}

	l.markUsed(tierID, holder)
	l.emit(TicketUsed{Holder: holder, TierID: tierID})
	return nil
}

// MintCertificate issues the proof-of-attendance asset for a validated
// ticket: one unit at tier id + CertificateIDOffset. Special
// certificates additionally mint the policy bonus to the holder. A
// holder gets at most one certificate per tier.
func (l *Ledger) MintCertificate(caller Identity, now time.Time, tierID uint64, holder Identity, isSpecial bool) (uint64, error) {
	tier, ok := l.st.tiers[tierID]
	if !ok {
		return 0, status.ErrNoSuchTier
	}
	ev := l.st.events[tier.EventID]
	if ev.Organizer != caller {
		return 0, status.ErrUnauthorized
	}
	if !l.HasUsedTicket(tierID, holder) {
		return 0, status.ErrAttendanceNotRecorded
	}

	certID := tierID + CertificateIDOffset
	if l.BalanceOf(holder, certID) > 0 {
		return 0, status.ErrAlreadyUsed
	}
	if isSpecial && !l.mintable(l.pol.CertificateBonus) {
		return 0, status.ErrSupplyCapExceeded
	}

	l.creditAsset(holder, certID, 1)
	if isSpecial {
		l.creditReward(holder, l.pol.CertificateBonus, now)
	}

	l.emit(CertificateMinted{Holder: holder, TierID: tierID, CertificateID: certID})
	return certID, nil
}
