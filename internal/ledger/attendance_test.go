package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockevent/internal/status"
)

func TestValidateTicket(t *testing.T) {
	l, rec, _ := newTestLedger(t)
	_, tierID := setupEventWithTier(t, l)

	_, err := l.BuyTickets(buyer1, testNow, tierID, 1, 100_000)
	require.NoError(t, err)

	eventDay := testNow.Add(30 * 24 * time.Hour)
	require.NoError(t, l.ValidateTicket(organizer, eventDay, tierID, buyer1))
	assert.True(t, l.HasUsedTicket(tierID, buyer1))
	assert.Contains(t, rec.kinds(), "ticket_used")
}

func TestValidateTicketValidation(t *testing.T) {
	l, _, _ := newTestLedger(t)
	_, tierID := setupEventWithTier(t, l)

	_, err := l.BuyTickets(buyer1, testNow, tierID, 1, 100_000)
	require.NoError(t, err)

	eventDay := testNow.Add(30 * 24 * time.Hour)

	// Before the event date validation is premature.
	assert.ErrorIs(t, l.ValidateTicket(organizer, testNow, tierID, buyer1), status.ErrTooEarly)

	// Only the organizer validates.
	assert.ErrorIs(t, l.ValidateTicket(buyer2, eventDay, tierID, buyer1), status.ErrUnauthorized)

	// Holders without the ticket cannot be validated.
	assert.ErrorIs(t, l.ValidateTicket(organizer, eventDay, tierID, buyer2), status.ErrNoSuchTicket)

	// The used flag is one-way: a second validation always fails.
	require.NoError(t, l.ValidateTicket(organizer, eventDay, tierID, buyer1))
	assert.ErrorIs(t, l.ValidateTicket(organizer, eventDay, tierID, buyer1), status.ErrAlreadyUsed)
	assert.True(t, l.HasUsedTicket(tierID, buyer1))
}

func TestMintCertificate(t *testing.T) {
	l, rec, _ := newTestLedger(t)
	_, tierID := setupEventWithTier(t, l)

	_, err := l.BuyTickets(buyer1, testNow, tierID, 1, 100_000)
	require.NoError(t, err)

	eventDay := testNow.Add(30 * 24 * time.Hour)
	require.NoError(t, l.ValidateTicket(organizer, eventDay, tierID, buyer1))

	certID, err := l.MintCertificate(organizer, eventDay, tierID, buyer1, false)
	require.NoError(t, err)
	assert.Equal(t, tierID+CertificateIDOffset, certID)
	assert.Equal(t, uint64(1), l.BalanceOf(buyer1, certID))
	assert.Contains(t, rec.kinds(), "certificate_minted")
}

func TestMintCertificateSpecialBonus(t *testing.T) {
	l, _, _ := newTestLedger(t)
	_, tierID := setupEventWithTier(t, l)

	_, err := l.BuyTickets(buyer1, testNow, tierID, 1, 100_000)
	require.NoError(t, err)

	eventDay := testNow.Add(30 * 24 * time.Hour)
	require.NoError(t, l.ValidateTicket(organizer, eventDay, tierID, buyer1))

	before := l.RewardBalanceOf(buyer1)
	_, err = l.MintCertificate(organizer, eventDay, tierID, buyer1, true)
	require.NoError(t, err)
	assert.Equal(t, before+l.Policy().CertificateBonus, l.RewardBalanceOf(buyer1))
}

func TestMintCertificateValidation(t *testing.T) {
	l, _, _ := newTestLedger(t)
	_, tierID := setupEventWithTier(t, l)

	_, err := l.BuyTickets(buyer1, testNow, tierID, 1, 100_000)
	require.NoError(t, err)

	eventDay := testNow.Add(30 * 24 * time.Hour)

	// No attendance recorded yet.
	_, err = l.MintCertificate(organizer, eventDay, tierID, buyer1, false)
	assert.ErrorIs(t, err, status.ErrAttendanceNotRecorded)

	require.NoError(t, l.ValidateTicket(organizer, eventDay, tierID, buyer1))

	_, err = l.MintCertificate(buyer2, eventDay, tierID, buyer1, false)
	assert.ErrorIs(t, err, status.ErrUnauthorized)

	// One certificate per validated attendance.
	_, err = l.MintCertificate(organizer, eventDay, tierID, buyer1, false)
	require.NoError(t, err)
	_, err = l.MintCertificate(organizer, eventDay, tierID, buyer1, false)
	assert.ErrorIs(t, err, status.ErrAlreadyUsed)
	assert.Equal(t, uint64(1), l.BalanceOf(buyer1, tierID+CertificateIDOffset))
}

// Certificates live in the same ownership ledger as tickets and can be
// transferred through the same operation.
func TestCertificateTransfer(t *testing.T) {
	l, _, _ := newTestLedger(t)
	_, tierID := setupEventWithTier(t, l)

	_, err := l.BuyTickets(buyer1, testNow, tierID, 1, 100_000)
	require.NoError(t, err)

	eventDay := testNow.Add(30 * 24 * time.Hour)
	require.NoError(t, l.ValidateTicket(organizer, eventDay, tierID, buyer1))
	certID, err := l.MintCertificate(organizer, eventDay, tierID, buyer1, false)
	require.NoError(t, err)

	require.NoError(t, l.Transfer(buyer1, buyer1, buyer2, certID, 1))
	assert.Equal(t, uint64(1), l.BalanceOf(buyer2, certID))
}
