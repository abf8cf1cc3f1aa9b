package payout

import (
	"context"

	"github.com/shopspring/decimal"
)

// TransferRequest is an outbound value transfer: a refund to a buyer or
// a withdrawal payout to an organizer or the treasury. Amounts travel
// as decimals on the wire; the ledger's integer units are scaled by the
// caller.
type TransferRequest struct {
	Account   string          `json:"account"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Reference string          `json:"reference"`
}

// Gateway moves value out of the platform. Implementations must treat
// Transfer as fire-once: the ledger has already committed by the time
// it is called, there is no rollback path.
type Gateway interface {
	Transfer(ctx context.Context, req *TransferRequest) error
	Close(ctx context.Context) error
}
