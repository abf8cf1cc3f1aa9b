package ledger

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockevent/internal/status"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	organizer = Identity("organizer")
	buyer1    = Identity("buyer1")
	buyer2    = Identity("buyer2")
	treasury  = Identity("dao")
)

type captureRecorder struct {
	recs []Record
}

func (c *captureRecorder) Record(r Record) {
	c.recs = append(c.recs, r)
}

func (c *captureRecorder) kinds() []string {
	out := make([]string, 0, len(c.recs))
	for _, r := range c.recs {
		out = append(out, r.Kind())
	}
	return out
}

type testPayment struct {
	to     Identity
	amount uint64
}

type fakePayer struct {
	payments []testPayment
	err      error

	// onPay lets a test re-enter the ledger mid-transfer.
	onPay func(to Identity, amount uint64)
}

func (p *fakePayer) Pay(to Identity, amount uint64) error {
	if p.onPay != nil {
		p.onPay(to, amount)
	}
	if p.err != nil {
		return p.err
	}
	p.payments = append(p.payments, testPayment{to: to, amount: amount})
	return nil
}

func newTestLedger(t *testing.T) (*Ledger, *captureRecorder, *fakePayer) {
	t.Helper()
	pol := DefaultPolicy()
	pol.Treasury = treasury
	return newTestLedgerWithPolicy(t, pol)
}

func newTestLedgerWithPolicy(t *testing.T, pol Policy) (*Ledger, *captureRecorder, *fakePayer) {
	t.Helper()
	rec := &captureRecorder{}
	payer := &fakePayer{}
	l, err := New(pol, NewStore(), rec, payer)
	require.NoError(t, err)
	return l, rec, payer
}

// setupEventWithTier creates an event 30 days out (resale bound 150)
// with a single tier: price 100000, supply 100, royalty 5.
func setupEventWithTier(t *testing.T, l *Ledger) (eventID, tierID uint64) {
	t.Helper()
	eventID, err := l.CreateEvent(organizer, testNow, "Concert Rock", testNow.Add(30*24*time.Hour), 150)
	require.NoError(t, err)
	tierID, err = l.CreateTicketType(organizer, eventID, "Standard", 100_000, 100, false, "", 5)
	require.NoError(t, err)
	return eventID, tierID
}

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Policy)
	}{
		{"zero reward rate denominator", func(p *Policy) { p.RewardRateDen = 0 }},
		{"shares above 100", func(p *Policy) { p.BuyerSharePct = 70; p.OrganizerSharePct = 40 }},
		{"discount above 100", func(p *Policy) { p.DiscountPercentage = 101 }},
		{"decay above 100", func(p *Policy) { p.DecayPercentage = 150 }},
		{"fee above 1000 permille", func(p *Policy) { p.PlatformFeePermille = 1001 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pol := DefaultPolicy()
			tc.mutate(&pol)
			_, err := New(pol, NewStore(), nil, nil)
			assert.ErrorIs(t, err, status.ErrInvalidPolicy)
		})
	}

	assert.NoError(t, DefaultPolicy().Validate())
}

// Tier supply never exceeds its cap under a random purchase sequence,
// and the aggregate token supply stays under the policy cap throughout.
func TestSupplyInvariantsUnderRandomPurchases(t *testing.T) {
	l, _, _ := newTestLedger(t)
	_, tierID := setupEventWithTier(t, l)

	rng := rand.New(rand.NewSource(42))
	buyers := []Identity{buyer1, buyer2, "buyer3", "buyer4"}

	for i := 0; i < 500; i++ {
		qty := uint64(rng.Intn(8))
		buyer := buyers[rng.Intn(len(buyers))]

		before, err := l.TicketTypeInfo(tierID)
		require.NoError(t, err)

		_, buyErr := l.BuyTickets(buyer, testNow, tierID, qty, qty*100_000)
		if before.CurrentSupply+qty > before.MaxSupply {
			require.ErrorIs(t, buyErr, status.ErrSoldOut)
		} else {
			require.NoError(t, buyErr)
		}

		after, err := l.TicketTypeInfo(tierID)
		require.NoError(t, err)
		require.LessOrEqual(t, after.CurrentSupply, after.MaxSupply)
		require.LessOrEqual(t, l.TokenSupply(), l.Policy().MaxSupply)
	}

	// Balance sheet: the sum of holdings equals the minted supply.
	tier, err := l.TicketTypeInfo(tierID)
	require.NoError(t, err)
	var held uint64
	for _, b := range buyers {
		held += l.BalanceOf(b, tierID)
	}
	assert.Equal(t, tier.CurrentSupply, held)
}

// Reward balances always sum to the reported token supply.
func TestTokenSupplyMatchesBalances(t *testing.T) {
	l, _, _ := newTestLedger(t)
	_, tierID := setupEventWithTier(t, l)

	_, err := l.BuyTickets(buyer1, testNow, tierID, 3, 300_000)
	require.NoError(t, err)
	_, err = l.BuyTickets(buyer2, testNow, tierID, 1, 100_000)
	require.NoError(t, err)
	require.NoError(t, l.VoteForEvent(buyer1, testNow, 1))

	total := l.RewardBalanceOf(buyer1) +
		l.RewardBalanceOf(buyer2) +
		l.RewardBalanceOf(organizer) +
		l.RewardBalanceOf(treasury)
	assert.Equal(t, l.TokenSupply(), total)
}
