package ledger

import (
	"fmt"
	"time"

	"blockevent/internal/status"
)

// Identity is an account identifier as authenticated by the surrounding
// application (a PocketBase auth record id in production, any string in
// tests).
type Identity string

// CertificateIDOffset separates certificate asset ids from ticket tier
// ids inside the shared ownership namespace. Certificate id for tier t
// is t + CertificateIDOffset.
const CertificateIDOffset uint64 = 1_000_000

// Policy holds the economic parameters of the ledger. These are
// configuration, not invariants: the supply cap and the bounds checked
// by the operations themselves are the invariants.
type Policy struct {
	// MaxSupply caps the aggregate reward token supply.
	MaxSupply uint64

	// InactivityWindow is how long a reward account can sit idle
	// before BurnInactiveTokens may decay it.
	InactivityWindow time.Duration

	// DecayPercentage of the balance burned per decay, integer floor.
	DecayPercentage uint64

	// PlatformFeePermille taken from withdrawn revenue for the treasury.
	PlatformFeePermille uint64

	// VoteReward minted to an event's organizer per received vote.
	VoteReward uint64

	// CertificateBonus minted to a holder for a special certificate.
	CertificateBonus uint64

	// RewardRateNum/RewardRateDen convert purchase spend into reward
	// tokens: reward = spend * num / den.
	RewardRateNum uint64
	RewardRateDen uint64

	// BuyerSharePct and OrganizerSharePct split the purchase reward;
	// the treasury takes the remainder.
	BuyerSharePct     uint64
	OrganizerSharePct uint64

	// DiscountPercentage applied to a buyer's next purchase after a vote.
	DiscountPercentage uint64

	// Treasury receives the platform fee and the treasury reward share.
	Treasury Identity
}

// Validate rejects parameter sets the operations cannot compute with:
// a zero reward-rate denominator divides by zero, and percentages over
// their base break the no-wrap guarantee of the percentage helpers.
func (p Policy) Validate() error {
	switch {
	case p.RewardRateDen == 0:
		return fmt.Errorf("%w: reward rate denominator is zero", status.ErrInvalidPolicy)
	case p.BuyerSharePct+p.OrganizerSharePct > 100:
		return fmt.Errorf("%w: reward shares sum to %d%%", status.ErrInvalidPolicy, p.BuyerSharePct+p.OrganizerSharePct)
	case p.DiscountPercentage > 100:
		return fmt.Errorf("%w: discount percentage %d above 100", status.ErrInvalidPolicy, p.DiscountPercentage)
	case p.DecayPercentage > 100:
		return fmt.Errorf("%w: decay percentage %d above 100", status.ErrInvalidPolicy, p.DecayPercentage)
	case p.PlatformFeePermille > 1000:
		return fmt.Errorf("%w: platform fee %d above 1000 permille", status.ErrInvalidPolicy, p.PlatformFeePermille)
	}
	return nil
}

// DefaultPolicy returns the stock parameters.
func DefaultPolicy() Policy {
	return Policy{
		MaxSupply:           1_000_000_000,
		InactivityWindow:    365 * 24 * time.Hour,
		DecayPercentage:     10,
		PlatformFeePermille: 25,
		VoteReward:          5,
		CertificateBonus:    10,
		RewardRateNum:       1,
		RewardRateDen:       10,
		BuyerSharePct:       50,
		OrganizerSharePct:   30,
		DiscountPercentage:  10,
		Treasury:            "treasury",
	}
}

// RewardAccount tracks a holder's fungible reward balance and the
// activity clock driving inactivity decay.
type RewardAccount struct {
	Balance      uint64
	LastActivity time.Time
}

// Store is the full persistent state of the ledger: plain tables keyed
// by id and identity. It is passed by reference into a Ledger so tests
// can build, snapshot, and replay state deterministically.
type Store struct {
	events    map[uint64]*Event
	tiers     map[uint64]*TicketType
	holdings  map[Identity]map[uint64]uint64
	used      map[uint64]map[Identity]bool
	approvals map[Identity]map[Identity]bool
	rewards   map[Identity]*RewardAccount
	votes     map[uint64]map[Identity]bool
	discounts map[Identity]bool

	tokenSupply uint64
	nextEventID uint64
	nextTierID  uint64

	// settling is the single-flight guard for settlement operations.
	// Set while an outbound value transfer is in flight so a transfer
	// callback cannot re-enter buy/withdraw.
	settling bool
}

// NewStore returns an empty ledger state.
func NewStore() *Store {
	return &Store{
		events:      make(map[uint64]*Event),
		tiers:       make(map[uint64]*TicketType),
		holdings:    make(map[Identity]map[uint64]uint64),
		used:        make(map[uint64]map[Identity]bool),
		approvals:   make(map[Identity]map[Identity]bool),
		rewards:     make(map[Identity]*RewardAccount),
		votes:       make(map[uint64]map[Identity]bool),
		discounts:   make(map[Identity]bool),
		nextEventID: 1,
		nextTierID:  1,
	}
}

// Payer issues outbound value transfers (refunds, withdrawal payouts).
// The ledger commits all state mutations before calling Pay, and holds
// the settlement guard for the duration of the call.
type Payer interface {
	Pay(to Identity, amount uint64) error
}

// Recorder receives the observable record emitted by each committed
// transition. Implementations must not call back into the ledger.
type Recorder interface {
	Record(rec Record)
}

// Ledger applies atomic state transitions to a Store. Operations take
// the caller identity and the current time explicitly; the ledger keeps
// no clock of its own. Callers are responsible for serializing
// operations (the service layer holds a mutex); the ledger itself only
// guards against re-entry through the Payer.
type Ledger struct {
	pol   Policy
	st    *Store
	rec   Recorder
	payer Payer
}

// New builds a Ledger over the given store. The policy is validated
// here so no operation can hit an uncomputable parameter later.
func New(pol Policy, st *Store, rec Recorder, payer Payer) (*Ledger, error) {
	if err := pol.Validate(); err != nil {
		return nil, err
	}
	return &Ledger{pol: pol, st: st, rec: rec, payer: payer}, nil
}

// Policy returns the active economic parameters.
func (l *Ledger) Policy() Policy { return l.pol }

func (l *Ledger) emit(r Record) {
	if l.rec != nil {
		l.rec.Record(r)
	}
}

// addU64 and mulU64 are the checked arithmetic used on every balance,
// supply, and price computation. Overflow is reported, never wrapped.
func addU64(a, b uint64) (uint64, bool) {
	s := a + b
	return s, s >= a
}

func mulU64(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	return p, p/a == b
}

// pctOf returns amount * pct / 100 exactly, splitting the computation
// so the intermediate product cannot wrap. Requires pct <= 100,
// enforced by Policy.Validate.
func pctOf(amount, pct uint64) uint64 {
	return amount/100*pct + amount%100*pct/100
}

// permilleOf returns amount * pm / 1000 exactly. Requires pm <= 1000,
// enforced by Policy.Validate.
func permilleOf(amount, pm uint64) uint64 {
	return amount/1000*pm + amount%1000*pm/1000
}
