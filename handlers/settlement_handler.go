package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"blockevent/models"
	"blockevent/services"
)

type SettlementHandler struct {
	app    *pocketbase.PocketBase
	ledger *services.LedgerService
}

func NewSettlementHandler(app *pocketbase.PocketBase, ledgerService *services.LedgerService) *SettlementHandler {
	return &SettlementHandler{
		app:    app,
		ledger: ledgerService,
	}
}

// BuyTickets - Settle a purchase: payment check, inventory, rewards,
// refund of overpayment
func (h *SettlementHandler) BuyTickets(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req models.BuyTicketsRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	purchase, err := h.ledger.BuyTickets(e.Auth.Id, req.TierID, req.Quantity, req.ValueSent)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, purchase)
}

// WithdrawFunds - Pay out an event's accrued revenue (organizer only,
// after the event date)
func (h *SettlementHandler) WithdrawFunds(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	eventID, err := pathID(e, "eventId")
	if err != nil {
		return err
	}

	w, err := h.ledger.WithdrawFunds(e.Request.Context(), e.Auth.Id, eventID)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, w)
}
