package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pocketbase/pocketbase/core"
	pubnub "github.com/pubnub/go/v7"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"blockevent/config"
	"blockevent/internal/ledger"
	"blockevent/internal/status"
	"blockevent/monitoring"
	"blockevent/services/payout"
	"blockevent/utils"
)

const (
	recordsChannel  = "ledger-records"
	recordsMirror   = "ledger:records"
	recordsMirrorN  = 1000
	recordsCollName = "ledger_records"
)

// LedgerService fronts the ledger core: it serializes operations,
// applies the cross-instance settlement lock, streams observable
// records to PocketBase, PubNub and redis, and keeps the metrics
// current. All HTTP handlers go through here.
type LedgerService struct {
	app    core.App
	Redis  redis.Cmdable
	PubNub *pubnub.PubNub

	cfg    *config.Config
	logger *slog.Logger

	mu     sync.Mutex
	ledger *ledger.Ledger

	// now is swapped out in tests for deterministic replay.
	now func() time.Time

	records chan ledger.Record
}

func NewLedgerService(app core.App, redisClient redis.Cmdable, pn *pubnub.PubNub, gateway payout.Gateway, cfg *config.Config) (*LedgerService, error) {
	s := &LedgerService{
		app:     app,
		Redis:   redisClient,
		PubNub:  pn,
		cfg:     cfg,
		logger:  slog.Default(),
		now:     time.Now,
		records: make(chan ledger.Record, 256),
	}

	pol := ledger.Policy{
		MaxSupply:           cfg.MaxTokenSupply,
		InactivityWindow:    cfg.InactivityWindow,
		DecayPercentage:     cfg.DecayPercentage,
		PlatformFeePermille: cfg.PlatformFeePermille,
		VoteReward:          cfg.VoteReward,
		CertificateBonus:    cfg.CertificateBonus,
		RewardRateNum:       cfg.RewardRateNum,
		RewardRateDen:       cfg.RewardRateDen,
		BuyerSharePct:       cfg.BuyerSharePct,
		OrganizerSharePct:   cfg.OrganizerSharePct,
		DiscountPercentage:  cfg.DiscountPercentage,
		Treasury:            ledger.Identity(cfg.TreasuryAccount),
	}
	l, err := ledger.New(pol, ledger.NewStore(), s, &gatewayPayer{gateway: gateway, logger: s.logger})
	if err != nil {
		return nil, fmt.Errorf("ledger policy from config: %w", err)
	}
	s.ledger = l

	return s, nil
}

// Record implements ledger.Recorder: records are queued and shipped by
// ProcessRecords so a slow sink never holds up a transition.
func (s *LedgerService) Record(rec ledger.Record) {
	select {
	case s.records <- rec:
	default:
		s.logger.Warn("record queue full, dropping", "kind", rec.Kind())
	}
}

// ProcessRecords drains the record queue into the three sinks. Run it
// as a background goroutine for the lifetime of the app.
func (s *LedgerService) ProcessRecords(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case rec := <-s.records:
			s.persistRecord(rec)
			s.publishRecord(rec)
			s.mirrorRecord(ctx, rec)
		}
	}
}

func (s *LedgerService) persistRecord(rec ledger.Record) {
	if s.app == nil {
		return
	}
	collection, err := s.app.FindCollectionByNameOrId(recordsCollName)
	if err != nil {
		s.logger.Error("record collection lookup", "err", err)
		return
	}

	payload, _ := json.Marshal(rec)
	r := core.NewRecord(collection)
	r.Set("kind", rec.Kind())
	r.Set("payload", string(payload))
	if err := s.app.Save(r); err != nil {
		s.logger.Error("persist record", "kind", rec.Kind(), "err", err)
		return
	}
	monitoring.TrackRecordPublished(rec.Kind(), "pocketbase")
}

func (s *LedgerService) publishRecord(rec ledger.Record) {
	if s.PubNub == nil {
		return
	}
	_, _, err := s.PubNub.Publish().
		Channel(recordsChannel).
		Message(map[string]interface{}{
			"kind":   rec.Kind(),
			"record": rec,
		}).
		Execute()
	if err != nil {
		s.logger.Error("publish record", "kind", rec.Kind(), "err", err)
		return
	}
	monitoring.TrackRecordPublished(rec.Kind(), "pubnub")
}

func (s *LedgerService) mirrorRecord(ctx context.Context, rec ledger.Record) {
	if s.Redis == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"kind":   rec.Kind(),
		"record": rec,
	})
	if err := s.Redis.LPush(ctx, recordsMirror, payload).Err(); err != nil {
		s.logger.Error("mirror record", "kind", rec.Kind(), "err", err)
		return
	}
	s.Redis.LTrim(ctx, recordsMirror, 0, recordsMirrorN-1)
	monitoring.TrackRecordPublished(rec.Kind(), "redis")
}

// --- event registry ---

func (s *LedgerService) CreateEvent(caller, name string, date time.Time, maxResalePct uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.ledger.CreateEvent(ledger.Identity(caller), s.now(), name, date, maxResalePct)
	monitoring.TrackOperation("create_event", err)
	return id, err
}

func (s *LedgerService) CancelEvent(caller string, eventID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.ledger.CancelEvent(ledger.Identity(caller), s.now(), eventID)
	monitoring.TrackOperation("cancel_event", err)
	return err
}

func (s *LedgerService) EventInfo(eventID uint64) (ledger.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.EventInfo(eventID)
}

// --- ticket inventory ---

func (s *LedgerService) CreateTicketType(caller string, eventID uint64, name string, price, maxSupply uint64, hasOptions bool, optionDescription string, royaltyPct uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.ledger.CreateTicketType(ledger.Identity(caller), eventID, name, price, maxSupply, hasOptions, optionDescription, royaltyPct)
	monitoring.TrackOperation("create_ticket_type", err)
	return id, err
}

func (s *LedgerService) SetResalePrice(caller string, tierID, newPrice uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.ledger.SetResalePrice(ledger.Identity(caller), tierID, newPrice)
	monitoring.TrackOperation("set_resale_price", err)
	return err
}

func (s *LedgerService) Transfer(caller, from, to string, assetID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.ledger.Transfer(ledger.Identity(caller), ledger.Identity(from), ledger.Identity(to), assetID, amount)
	monitoring.TrackOperation("transfer", err)
	return err
}

func (s *LedgerService) SetApproval(caller, operator string, approved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.SetApproval(ledger.Identity(caller), ledger.Identity(operator), approved)
	monitoring.TrackOperation("set_approval", nil)
}

func (s *LedgerService) TicketTypeInfo(tierID uint64) (ledger.TicketType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.TicketTypeInfo(tierID)
}

func (s *LedgerService) BalanceOf(holder string, assetID uint64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.BalanceOf(ledger.Identity(holder), assetID)
}

func (s *LedgerService) HasUsedTicket(tierID uint64, holder string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.HasUsedTicket(tierID, ledger.Identity(holder))
}

// --- settlement ---

func (s *LedgerService) BuyTickets(buyer string, tierID, quantity, valueSent uint64) (ledger.Purchase, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.ledger.BuyTickets(ledger.Identity(buyer), s.now(), tierID, quantity, valueSent)
	monitoring.TrackOperation("buy_tickets", err)
	monitoring.TrackSettlement("buy_tickets", time.Since(start))
	if err == nil {
		monitoring.SetTokenSupply(s.ledger.TokenSupply())
		if tier, infoErr := s.ledger.TicketTypeInfo(tierID); infoErr == nil {
			monitoring.SetTierSupply(tierID, tier.CurrentSupply)
		}
	}
	return p, err
}

// WithdrawFunds performs the payout under a redis single-flight lock so
// two app instances cannot settle the same event concurrently; the
// in-store guard still covers re-entry through the payout callback.
func (s *LedgerService) WithdrawFunds(ctx context.Context, caller string, eventID uint64) (ledger.Withdrawal, error) {
	lockKey := fmt.Sprintf("lock:settlement:%d", eventID)
	if s.Redis != nil {
		acquired, err := s.Redis.SetNX(ctx, lockKey, caller, s.cfg.SettlementLockTTL).Result()
		if err != nil {
			return ledger.Withdrawal{}, fmt.Errorf("settlement lock: %w", err)
		}
		if !acquired {
			monitoring.TrackOperation("withdraw_funds", status.ErrReentrant)
			return ledger.Withdrawal{}, status.ErrReentrant
		}
		defer s.Redis.Del(ctx, lockKey)
	}

	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.ledger.WithdrawFunds(ledger.Identity(caller), s.now(), eventID)
	monitoring.TrackOperation("withdraw_funds", err)
	monitoring.TrackSettlement("withdraw_funds", time.Since(start))
	return w, err
}

// --- attendance ---

func (s *LedgerService) ValidateTicket(caller string, tierID uint64, holder string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.ledger.ValidateTicket(ledger.Identity(caller), s.now(), tierID, ledger.Identity(holder))
	monitoring.TrackOperation("validate_ticket", err)
	return err
}

func (s *LedgerService) MintCertificate(caller string, tierID uint64, holder string, isSpecial bool) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	certID, err := s.ledger.MintCertificate(ledger.Identity(caller), s.now(), tierID, ledger.Identity(holder), isSpecial)
	monitoring.TrackOperation("mint_certificate", err)
	if err == nil {
		monitoring.SetTokenSupply(s.ledger.TokenSupply())
	}
	return certID, err
}

// --- voting ---

func (s *LedgerService) VoteForEvent(caller string, eventID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.ledger.VoteForEvent(ledger.Identity(caller), s.now(), eventID)
	monitoring.TrackOperation("vote_for_event", err)
	if err == nil {
		monitoring.SetTokenSupply(s.ledger.TokenSupply())
	}
	return err
}

func (s *LedgerService) HasVoted(eventID uint64, holder string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.HasVoted(eventID, ledger.Identity(holder))
}

func (s *LedgerService) HasVoteDiscount(holder string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.HasVoteDiscount(ledger.Identity(holder))
}

// --- reward token ---

func (s *LedgerService) BurnInactiveTokens(holder string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	burned := s.ledger.BurnInactiveTokens(ledger.Identity(holder), s.now())
	monitoring.TrackOperation("burn_inactive_tokens", nil)
	monitoring.SetTokenSupply(s.ledger.TokenSupply())
	return burned
}

func (s *LedgerService) RewardBalanceOf(holder string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.RewardBalanceOf(ledger.Identity(holder))
}

func (s *LedgerService) TokenSupply() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.TokenSupply()
}

// gatewayPayer adapts the payout gateway to the ledger's Payer. The
// ledger's integer currency units are centimes on the wire.
type gatewayPayer struct {
	gateway payout.Gateway
	logger  *slog.Logger
}

func (p *gatewayPayer) Pay(to ledger.Identity, amount uint64) error {
	if p.gateway == nil {
		return nil
	}

	ref, err := utils.GenerateCode(8)
	if err != nil {
		ref = "REF-FALLBACK"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err = p.gateway.Transfer(ctx, &payout.TransferRequest{
		Account:   string(to),
		Amount:    decimal.New(int64(amount), -2),
		Currency:  "EUR",
		Reference: ref,
	})
	monitoring.TrackPayout(err)
	if err != nil {
		p.logger.Error("payout transfer", "to", to, "amount", amount, "err", err)
		return err
	}
	return nil
}
