package status

import "errors"

// Ledger operation errors. Every precondition violation in the core
// surfaces as exactly one of these values; callers match with errors.Is.
var (
	ErrInvalidSchedule       = errors.New("event: scheduled time must be in the future")
	ErrInvalidResaleBound    = errors.New("event: max resale percentage must be between 100 and 200")
	ErrUnauthorized          = errors.New("ledger: caller is not authorized")
	ErrAlreadyCancelled      = errors.New("event: already cancelled")
	ErrEventAlreadyOccurred  = errors.New("event: already occurred")
	ErrRoyaltyTooHigh        = errors.New("ticket: royalty percentage above 10")
	ErrResaleCeilingExceeded = errors.New("ticket: resale price above allowed ceiling")
	ErrInsufficientBalance   = errors.New("ledger: insufficient balance")
	ErrInsufficientPayment   = errors.New("settlement: insufficient payment")
	ErrSoldOut               = errors.New("ticket: not enough supply left")
	ErrTooEarly              = errors.New("ledger: event has not occurred yet")
	ErrAlreadyUsed           = errors.New("ticket: already used")
	ErrNoSuchTicket          = errors.New("ticket: holder has no such ticket")
	ErrAttendanceNotRecorded = errors.New("certificate: attendance not recorded")
	ErrNoStake               = errors.New("vote: caller holds no reward tokens")
	ErrAlreadyVoted          = errors.New("vote: already voted for this event")
	ErrSupplyCapExceeded     = errors.New("token: max supply exceeded")
	ErrReentrant             = errors.New("settlement: reentrant call")

	ErrNoSuchEvent = errors.New("event: not found")
	ErrNoSuchTier  = errors.New("ticket: ticket type not found")

	// ErrInvalidPolicy rejects an economic parameter set at
	// construction, before any operation can divide by zero or wrap.
	ErrInvalidPolicy = errors.New("ledger: invalid policy")
)

// Payout gateway errors.
var (
	ErrFailedPayout      = errors.New("payout: transfer failed")
	ErrPayoutUnavailable = errors.New("payout: gateway unavailable")
	ErrRefCodeNotFound   = errors.New("payout: ref code not found")
)
