package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockevent/config"
	"blockevent/internal/ledger"
	"blockevent/internal/status"
)

var serviceNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		TreasuryAccount:     "dao-treasury",
		MaxTokenSupply:      1_000_000_000,
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
		SettlementLockTTL:   30 * time.Second,
	}
}

func setupTestLedgerService(t *testing.T) (*LedgerService, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	s, err := NewLedgerService(nil, db, nil, nil, testConfig())
	require.NoError(t, err)
	s.now = func() time.Time { return serviceNow }
	return s, mock
}

func TestNewLedgerServiceRejectsBadPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.RewardRateDen = 0

	_, err := NewLedgerService(nil, nil, nil, nil, cfg)
	assert.ErrorIs(t, err, status.ErrInvalidPolicy)
}

func seedEventWithSale(t *testing.T, s *LedgerService) uint64 {
	t.Helper()
	eventID, err := s.CreateEvent("organizer", "Concert Rock", serviceNow.Add(30*24*time.Hour), 150)
	require.NoError(t, err)
	tierID, err := s.CreateTicketType("organizer", eventID, "Standard", 100_000, 100, false, "", 5)
	require.NoError(t, err)
	_, err = s.BuyTickets("buyer", tierID, 2, 200_000)
	require.NoError(t, err)
	return eventID
}

func TestWithdrawFundsTakesSettlementLock(t *testing.T) {
	s, mock := setupTestLedgerService(t)
	eventID := seedEventWithSale(t, s)

	// Move past the event date for the withdrawal.
	s.now = func() time.Time { return serviceNow.Add(31 * 24 * time.Hour) }

	mock.ExpectSetNX("lock:settlement:1", "organizer", 30*time.Second).SetVal(true)
	mock.ExpectDel("lock:settlement:1").SetVal(1)

	w, err := s.WithdrawFunds(context.Background(), "organizer", eventID)
	require.NoError(t, err)
	assert.Equal(t, uint64(200_000), w.Gross)
	assert.Equal(t, uint64(5_000), w.Fee)
	assert.Equal(t, uint64(195_000), w.OrganizerAmount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawFundsLockHeldElsewhere(t *testing.T) {
	s, mock := setupTestLedgerService(t)
	eventID := seedEventWithSale(t, s)
	s.now = func() time.Time { return serviceNow.Add(31 * 24 * time.Hour) }

	mock.ExpectSetNX("lock:settlement:1", "organizer", 30*time.Second).SetVal(false)

	_, err := s.WithdrawFunds(context.Background(), "organizer", eventID)
	assert.ErrorIs(t, err, status.ErrReentrant)

	// The balance is untouched for the holder of the lock.
	ev, infoErr := s.EventInfo(eventID)
	require.NoError(t, infoErr)
	assert.Equal(t, uint64(200_000), ev.Revenue)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMirrorRecord(t *testing.T) {
	s, mock := setupTestLedgerService(t)

	rec := ledger.TicketPurchased{Buyer: "buyer", TierID: 1, Quantity: 2}
	payload, err := json.Marshal(map[string]interface{}{
		"kind":   rec.Kind(),
		"record": rec,
	})
	require.NoError(t, err)

	mock.ExpectLPush("ledger:records", payload).SetVal(1)
	mock.ExpectLTrim("ledger:records", 0, 999).SetVal("OK")

	s.mirrorRecord(context.Background(), rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceEndToEnd(t *testing.T) {
	s, _ := setupTestLedgerService(t)
	eventID := seedEventWithSale(t, s)

	require.NoError(t, s.VoteForEvent("buyer", eventID))
	assert.True(t, s.HasVoteDiscount("buyer"))
	assert.Equal(t, uint64(2), s.BalanceOf("buyer", 1))
	assert.Positive(t, s.RewardBalanceOf("organizer"))

	// Attendance on the event day, then the certificate.
	s.now = func() time.Time { return serviceNow.Add(30 * 24 * time.Hour) }
	require.NoError(t, s.ValidateTicket("organizer", 1, "buyer"))
	certID, err := s.MintCertificate("organizer", 1, "buyer", true)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), s.BalanceOf("buyer", certID))
}
