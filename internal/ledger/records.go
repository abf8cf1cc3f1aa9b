package ledger

// Record is the observable side of a committed transition, consumed by
// off-core indexing (dashboards, realtime feeds). Records carry ids and
// identities only; amounts are included where the indexer needs them.
type Record interface {
	Kind() string
}

type EventCreated struct {
	EventID   uint64   `json:"event_id"`
	Name      string   `json:"name"`
	Organizer Identity `json:"organizer"`
}

func (EventCreated) Kind() string { return "event_created" }

type EventCancelled struct {
	EventID uint64 `json:"event_id"`
}

func (EventCancelled) Kind() string { return "event_cancelled" }

type TicketTypeCreated struct {
	TierID  uint64 `json:"tier_id"`
	EventID uint64 `json:"event_id"`
	Name    string `json:"name"`
}

func (TicketTypeCreated) Kind() string { return "ticket_type_created" }

type ResalePriceSet struct {
	TierID uint64 `json:"tier_id"`
	Price  uint64 `json:"price"`
}

func (ResalePriceSet) Kind() string { return "resale_price_set" }

type TicketPurchased struct {
	Buyer    Identity `json:"buyer"`
	TierID   uint64   `json:"tier_id"`
	Quantity uint64   `json:"quantity"`
}

func (TicketPurchased) Kind() string { return "ticket_purchased" }

type TicketTransferred struct {
	From    Identity `json:"from"`
	To      Identity `json:"to"`
	AssetID uint64   `json:"asset_id"`
	Amount  uint64   `json:"amount"`
}

func (TicketTransferred) Kind() string { return "ticket_transferred" }

type TicketUsed struct {
	Holder Identity `json:"holder"`
	TierID uint64   `json:"tier_id"`
}

func (TicketUsed) Kind() string { return "ticket_used" }

type CertificateMinted struct {
	Holder        Identity `json:"holder"`
	TierID        uint64   `json:"tier_id"`
	CertificateID uint64   `json:"certificate_id"`
}

func (CertificateMinted) Kind() string { return "certificate_minted" }

type UserVoted struct {
	Holder  Identity `json:"holder"`
	EventID uint64   `json:"event_id"`
}

func (UserVoted) Kind() string { return "user_voted" }

type FundsWithdrawn struct {
	EventID         uint64   `json:"event_id"`
	Organizer       Identity `json:"organizer"`
	OrganizerAmount uint64   `json:"organizer_amount"`
	FeeAmount       uint64   `json:"fee_amount"`
}

func (FundsWithdrawn) Kind() string { return "funds_withdrawn" }

type TokensMinted struct {
	To     Identity `json:"to"`
	Amount uint64   `json:"amount"`
}

func (TokensMinted) Kind() string { return "tokens_minted" }

type TokensBurned struct {
	Holder Identity `json:"holder"`
	Amount uint64   `json:"amount"`
}

func (TokensBurned) Kind() string { return "tokens_burned" }
