package ledger

import (
	"fmt"
	"time"

	"blockevent/internal/status"
)

// Purchase is the committed outcome of BuyTickets.
type Purchase struct {
	TierID         uint64 `json:"tier_id"`
	Quantity       uint64 `json:"quantity"`
	Charged        uint64 `json:"charged"`
	Refund         uint64 `json:"refund"`
	DiscountTaken  bool   `json:"discount_taken"`
	BuyerReward    uint64 `json:"buyer_reward"`
	OrganizerReward uint64 `json:"organizer_reward"`
	TreasuryReward uint64 `json:"treasury_reward"`
}

// Withdrawal is the committed outcome of WithdrawFunds.
type Withdrawal struct {
	EventID         uint64 `json:"event_id"`
	Gross           uint64 `json:"gross"`
	Fee             uint64 `json:"fee"`
	OrganizerAmount uint64 `json:"organizer_amount"`
}

// BuyTickets settles a ticket purchase: validates payment and supply,
// commits inventory and revenue, mints the reward split, and only then
// refunds any overpayment through the Payer. A pending voter discount
// reduces the effective charge and is consumed.
//
// All preconditions are checked before the first mutation; a failed
// purchase leaves the store untouched. If the refund transfer itself
// fails the committed state stands and the error is reported.
func (l *Ledger) BuyTickets(buyer Identity, now time.Time, tierID, quantity, valueSent uint64) (Purchase, error) {
	if l.st.settling {
		return Purchase{}, status.ErrReentrant
	}

	tier, ok := l.st.tiers[tierID]
	if !ok {
		return Purchase{}, status.ErrNoSuchTier
	}
	ev := l.st.events[tier.EventID]

	total, ok := mulU64(tier.Price, quantity)
	if !ok {
		return Purchase{}, status.ErrInsufficientPayment
	}

	charged := total
	discount := l.st.discounts[buyer]
	if discount {
		charged = total - pctOf(total, l.pol.DiscountPercentage)
	}
	if valueSent < charged {
		return Purchase{}, status.ErrInsufficientPayment
	}

	supply, ok := addU64(tier.CurrentSupply, quantity)
	if !ok || supply > tier.MaxSupply {
		return Purchase{}, status.ErrSoldOut
	}

	if _, ok := addU64(l.BalanceOf(buyer, tierID), quantity); !ok {
		return Purchase{}, status.ErrSoldOut
	}

	revenue, ok := addU64(ev.Revenue, charged)
	if !ok {
		return Purchase{}, status.ErrSupplyCapExceeded
	}

	reward, ok := mulU64(charged, l.pol.RewardRateNum)
	if !ok {
		return Purchase{}, status.ErrSupplyCapExceeded
	}
	reward /= l.pol.RewardRateDen

	buyerShare := pctOf(reward, l.pol.BuyerSharePct)
	organizerShare := pctOf(reward, l.pol.OrganizerSharePct)
	treasuryShare := reward - buyerShare - organizerShare
	if !l.mintable(reward) {
		return Purchase{}, status.ErrSupplyCapExceeded
	}

	// Commit.
	tier.CurrentSupply = supply
	l.creditAsset(buyer, tierID, quantity)
	ev.Revenue = revenue
	if discount {
		delete(l.st.discounts, buyer)
	}

	// The three shares sum to reward, which fits under the cap per
	// the check above, so these mints cannot fail.
	l.creditReward(buyer, buyerShare, now)
	l.creditReward(ev.Organizer, organizerShare, now)
	l.creditReward(l.pol.Treasury, treasuryShare, now)
	l.touchActivity(buyer, now)

	l.emit(TicketPurchased{Buyer: buyer, TierID: tierID, Quantity: quantity})

	p := Purchase{
		TierID:          tierID,
		Quantity:        quantity,
		Charged:         charged,
		Refund:          valueSent - charged,
		DiscountTaken:   discount,
		BuyerReward:     buyerShare,
		OrganizerReward: organizerShare,
		TreasuryReward:  treasuryShare,
	}

	if p.Refund > 0 && l.payer != nil {
		l.st.settling = true
		defer func() { l.st.settling = false }()
		if err := l.payer.Pay(buyer, p.Refund); err != nil {
			return p, fmt.Errorf("refund of %d to %s: %w", p.Refund, buyer, err)
		}
	}
	return p, nil
}

// WithdrawFunds pays out an event's accrued revenue after the event
// date: the platform fee to the treasury, the rest to the organizer.
// The withdrawable balance is zeroed before any outbound transfer is
// issued, and the settlement guard blocks nested re-entry for the
// duration of the transfers. Withdrawing an already-cleared balance is
// a successful zero transfer.
func (l *Ledger) WithdrawFunds(caller Identity, now time.Time, eventID uint64) (Withdrawal, error) {
	if l.st.settling {
		return Withdrawal{}, status.ErrReentrant
	}

	ev, ok := l.st.events[eventID]
	if !ok {
		return Withdrawal{}, status.ErrNoSuchEvent
	}
	if ev.Organizer != caller {
		return Withdrawal{}, status.ErrUnauthorized
	}
	if now.Before(ev.Date) {
		return Withdrawal{}, status.ErrTooEarly
	}

	gross := ev.Revenue
	ev.Revenue = 0

	fee := permilleOf(gross, l.pol.PlatformFeePermille)
	w := Withdrawal{
		EventID:         eventID,
		Gross:           gross,
		Fee:             fee,
		OrganizerAmount: gross - fee,
	}

	if gross > 0 {
		l.emit(FundsWithdrawn{
			EventID:         eventID,
			Organizer:       ev.Organizer,
			OrganizerAmount: w.OrganizerAmount,
			FeeAmount:       fee,
		})
	}

	if l.payer != nil {
		l.st.settling = true
		defer func() { l.st.settling = false }()
		if fee > 0 {
			if err := l.payer.Pay(l.pol.Treasury, fee); err != nil {
				return w, fmt.Errorf("fee payout of %d: %w", fee, err)
			}
		}
		if w.OrganizerAmount > 0 {
			if err := l.payer.Pay(ev.Organizer, w.OrganizerAmount); err != nil {
				return w, fmt.Errorf("organizer payout of %d: %w", w.OrganizerAmount, err)
			}
		}
	}
	return w, nil
}

// HasVoteDiscount reports whether the holder's next purchase will be
// discounted.
func (l *Ledger) HasVoteDiscount(holder Identity) bool {
	return l.st.discounts[holder]
}
