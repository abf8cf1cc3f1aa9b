package ledger

import (
	"blockevent/internal/status"
)

// TicketType is a purchasable ticket category within an event. Tier ids
// share the asset-id namespace with certificates (see
// CertificateIDOffset).
type TicketType struct {
	ID                uint64 `json:"id"`
	EventID           uint64 `json:"event_id"`
	Name              string `json:"name"`
	Price             uint64 `json:"price"`
	MaxSupply         uint64 `json:"max_supply"`
	CurrentSupply     uint64 `json:"current_supply"`
	HasOptions        bool   `json:"has_options"`
	OptionDescription string `json:"option_description"`
	RoyaltyPercentage uint64 `json:"royalty_percentage"`
	ResalePrice       uint64 `json:"resale_price"`
}

// CreateTicketType adds a ticket tier to an event. Organizer only.
// ResalePrice starts at the face price.
func (l *Ledger) CreateTicketType(caller Identity, eventID uint64, name string, price, maxSupply uint64, hasOptions bool, optionDescription string, royaltyPct uint64) (uint64, error) {
	ev, ok := l.st.events[eventID]
	if !ok {
		return 0, status.ErrNoSuchEvent
	}
	if ev.Organizer != caller {
		return 0, status.ErrUnauthorized
	}
	if royaltyPct > 10 {
		return 0, status.ErrRoyaltyTooHigh
	}

	id := l.st.nextTierID
	l.st.nextTierID++

	l.st.tiers[id] = &TicketType{
		ID:                id,
		EventID:           eventID,
		Name:              name,
		Price:             price,
		MaxSupply:         maxSupply,
		HasOptions:        hasOptions,
		OptionDescription: optionDescription,
		RoyaltyPercentage: royaltyPct,
		ResalePrice:       price,
	}
	ev.TierIDs = append(ev.TierIDs, id)

	l.emit(TicketTypeCreated{TierID: id, EventID: eventID, Name: name})
	return id, nil
}

// SetResalePrice updates a tier's resale price, bounded by the event's
// resale ceiling. Organizer only.
func (l *Ledger) SetResalePrice(caller Identity, tierID, newPrice uint64) error {
	tier, ok := l.st.tiers[tierID]
	if !ok {
		return status.ErrNoSuchTier
	}
	ev := l.st.events[tier.EventID]
	if ev.Organizer != caller {
		return status.ErrUnauthorized
	}

	ceiling, ok := mulU64(tier.Price, ev.MaxResalePercentage)
	if !ok {
		return status.ErrResaleCeilingExceeded
	}
	if newPrice > ceiling/100 {
		return status.ErrResaleCeilingExceeded
	}

	tier.ResalePrice = newPrice
	l.emit(ResalePriceSet{TierID: tierID, Price: newPrice})
	return nil
}

// SetApproval lets the caller authorize (or revoke) an operator to
// transfer assets on their behalf.
func (l *Ledger) SetApproval(caller, operator Identity, approved bool) {
	ops, ok := l.st.approvals[caller]
	if !ok {
		ops = make(map[Identity]bool)
		l.st.approvals[caller] = ops
	}
	if approved {
		ops[operator] = true
	} else {
		delete(ops, operator)
	}
}

// IsApproved reports whether operator may move owner's assets.
func (l *Ledger) IsApproved(owner, operator Identity) bool {
	return l.st.approvals[owner][operator]
}

// Transfer moves amount units of an asset (ticket or certificate) from
// one holder to another. The caller must be the sender or an approved
// operator.
func (l *Ledger) Transfer(caller, from, to Identity, assetID, amount uint64) error {
	if caller != from && !l.IsApproved(from, caller) {
		return status.ErrUnauthorized
	}
	if l.BalanceOf(from, assetID) < amount {
		return status.ErrInsufficientBalance
	}
	if _, ok := addU64(l.BalanceOf(to, assetID), amount); !ok {
		return status.ErrSupplyCapExceeded
	}

	l.debitAsset(from, assetID, amount)
	l.creditAsset(to, assetID, amount)

	l.emit(TicketTransferred{From: from, To: to, AssetID: assetID, Amount: amount})
	return nil
}

// BalanceOf returns the quantity of an asset held.
func (l *Ledger) BalanceOf(holder Identity, assetID uint64) uint64 {
	return l.st.holdings[holder][assetID]
}

// HasUsedTicket reports the one-way used flag for (tier, holder).
func (l *Ledger) HasUsedTicket(tierID uint64, holder Identity) bool {
	return l.st.used[tierID][holder]
}

// TicketTypeInfo returns a copy of the tier record.
func (l *Ledger) TicketTypeInfo(tierID uint64) (TicketType, error) {
	tier, ok := l.st.tiers[tierID]
	if !ok {
		return TicketType{}, status.ErrNoSuchTier
	}
	return *tier, nil
}

func (l *Ledger) creditAsset(holder Identity, assetID, amount uint64) {
	assets, ok := l.st.holdings[holder]
	if !ok {
		assets = make(map[uint64]uint64)
		l.st.holdings[holder] = assets
	}
	assets[assetID] += amount
}

func (l *Ledger) debitAsset(holder Identity, assetID, amount uint64) {
	assets := l.st.holdings[holder]
	assets[assetID] -= amount
	if assets[assetID] == 0 {
		delete(assets, assetID)
	}
}

func (l *Ledger) markUsed(tierID uint64, holder Identity) {
	holders, ok := l.st.used[tierID]
	if !ok {
		holders = make(map[Identity]bool)
		l.st.used[tierID] = holders
	}
	holders[holder] = true
}
