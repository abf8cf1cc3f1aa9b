package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"blockevent/models"
	"blockevent/services"
)

type GovernanceHandler struct {
	app    *pocketbase.PocketBase
	ledger *services.LedgerService
}

func NewGovernanceHandler(app *pocketbase.PocketBase, ledgerService *services.LedgerService) *GovernanceHandler {
	return &GovernanceHandler{
		app:    app,
		ledger: ledgerService,
	}
}

// Vote - Cast a vote for an event. Requires holding at least one ticket
// of the event; rewards the organizer and grants the voter a one-shot
// purchase discount.
func (h *GovernanceHandler) Vote(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req models.VoteRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := h.ledger.VoteForEvent(e.Auth.Id, req.EventID); err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"event_id": req.EventID, "voted": true})
}

// BurnInactive - Apply the inactivity decay to a holder's reward
// balance. Anyone may trigger it; within the activity window it is a
// no-op.
func (h *GovernanceHandler) BurnInactive(e *core.RequestEvent) error {
	var req models.BurnInactiveRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if req.Holder == "" {
		return apis.NewBadRequestError("Missing holder", nil)
	}

	burned := h.ledger.BurnInactiveTokens(req.Holder)

	return e.JSON(http.StatusOK, map[string]any{"holder": req.Holder, "burned": burned})
}

// GetVote - Whether a holder voted for an event
func (h *GovernanceHandler) GetVote(e *core.RequestEvent) error {
	eventID, err := pathID(e, "eventId")
	if err != nil {
		return err
	}

	holder := e.Request.PathValue("holder")
	if holder == "" {
		return apis.NewBadRequestError("Missing holder", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"event_id": eventID,
		"holder":   holder,
		"voted":    h.ledger.HasVoted(eventID, holder),
	})
}

// GetRewardBalance - Current reward token balance of a holder
func (h *GovernanceHandler) GetRewardBalance(e *core.RequestEvent) error {
	holder := e.Request.PathValue("holder")
	if holder == "" {
		return apis.NewBadRequestError("Missing holder", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"holder":  holder,
		"balance": h.ledger.RewardBalanceOf(holder),
	})
}

// GetTokenSupply - Circulating reward token supply
func (h *GovernanceHandler) GetTokenSupply(e *core.RequestEvent) error {
	return e.JSON(http.StatusOK, map[string]any{"supply": h.ledger.TokenSupply()})
}

// GetDiscount - Whether the authenticated account holds an unconsumed
// voter discount
func (h *GovernanceHandler) GetDiscount(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"holder":   e.Auth.Id,
		"discount": h.ledger.HasVoteDiscount(e.Auth.Id),
	})
}
