package models

// Request payloads for the ledger API. Amounts and prices are integer
// currency units (centimes); dates are RFC3339.

type CreateEventRequest struct {
	Name                string `json:"name"`
	Date                string `json:"date"`
	MaxResalePercentage uint64 `json:"max_resale_percentage"`
}

type CreateTicketTypeRequest struct {
	EventID           uint64 `json:"event_id"`
	Name              string `json:"name"`
	Price             uint64 `json:"price"`
	MaxSupply         uint64 `json:"max_supply"`
	HasOptions        bool   `json:"has_options"`
	OptionDescription string `json:"option_description"`
	RoyaltyPercentage uint64 `json:"royalty_percentage"`
}

type SetResalePriceRequest struct {
	TierID uint64 `json:"tier_id"`
	Price  uint64 `json:"price"`
}

type BuyTicketsRequest struct {
	TierID   uint64 `json:"tier_id"`
	Quantity uint64 `json:"quantity"`
	// ValueSent is the payment attached to the call, as validated by
	// the payment front. Overpayment is refunded.
	ValueSent uint64 `json:"value_sent"`
}

type TransferRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	AssetID uint64 `json:"asset_id"`
	Amount  uint64 `json:"amount"`
}

type SetApprovalRequest struct {
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

type ValidateTicketRequest struct {
	TierID uint64 `json:"tier_id"`
	Holder string `json:"holder"`
}

type MintCertificateRequest struct {
	TierID    uint64 `json:"tier_id"`
	Holder    string `json:"holder"`
	IsSpecial bool   `json:"is_special"`
}

type VoteRequest struct {
	EventID uint64 `json:"event_id"`
}

type BurnInactiveRequest struct {
	Holder string `json:"holder"`
}
