package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"blockevent/models"
	"blockevent/services"
)

type TicketHandler struct {
	app    *pocketbase.PocketBase
	ledger *services.LedgerService
}

func NewTicketHandler(app *pocketbase.PocketBase, ledgerService *services.LedgerService) *TicketHandler {
	return &TicketHandler{
		app:    app,
		ledger: ledgerService,
	}
}

// CreateTicketType - Add a ticket tier to an event (organizer only)
func (h *TicketHandler) CreateTicketType(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req models.CreateTicketTypeRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	tierID, err := h.ledger.CreateTicketType(
		e.Auth.Id,
		req.EventID,
		req.Name,
		req.Price,
		req.MaxSupply,
		req.HasOptions,
		req.OptionDescription,
		req.RoyaltyPercentage,
	)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"tier_id": tierID})
}

// SetResalePrice - Update a tier's resale price within the event bound
func (h *TicketHandler) SetResalePrice(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req models.SetResalePriceRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := h.ledger.SetResalePrice(e.Auth.Id, req.TierID, req.Price); err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"tier_id": req.TierID, "resale_price": req.Price})
}

// GetTicketType - Tier record with current supply
func (h *TicketHandler) GetTicketType(e *core.RequestEvent) error {
	tierID, err := pathID(e, "tierId")
	if err != nil {
		return err
	}

	tier, err := h.ledger.TicketTypeInfo(tierID)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, tier)
}

// Transfer - Move tickets or certificates to another holder
func (h *TicketHandler) Transfer(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req models.TransferRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := h.ledger.Transfer(e.Auth.Id, req.From, req.To, req.AssetID, req.Amount); err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"transferred": req.Amount})
}

// SetApproval - Authorize or revoke an operator for the caller's assets
func (h *TicketHandler) SetApproval(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req models.SetApprovalRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	h.ledger.SetApproval(e.Auth.Id, req.Operator, req.Approved)
	return e.JSON(http.StatusOK, map[string]any{"operator": req.Operator, "approved": req.Approved})
}

// GetBalance - A holder's balance for one asset id. Balances are
// public, same as the reward token ones.
func (h *TicketHandler) GetBalance(e *core.RequestEvent) error {
	assetID, err := pathID(e, "assetId")
	if err != nil {
		return err
	}

	holder := e.Request.PathValue("holder")
	if holder == "" {
		return apis.NewBadRequestError("Missing holder", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"asset_id": assetID,
		"holder":   holder,
		"balance":  h.ledger.BalanceOf(holder, assetID),
	})
}
