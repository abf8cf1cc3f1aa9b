package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"blockevent/models"
	"blockevent/services"
)

type AttendanceHandler struct {
	app    *pocketbase.PocketBase
	ledger *services.LedgerService
}

func NewAttendanceHandler(app *pocketbase.PocketBase, ledgerService *services.LedgerService) *AttendanceHandler {
	return &AttendanceHandler{
		app:    app,
		ledger: ledgerService,
	}
}

// ValidateTicket - Record attendance at the door (organizer only)
func (h *AttendanceHandler) ValidateTicket(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req models.ValidateTicketRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := h.ledger.ValidateTicket(e.Auth.Id, req.TierID, req.Holder); err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"tier_id": req.TierID, "holder": req.Holder, "used": true})
}

// MintCertificate - Issue the proof-of-attendance asset for a validated
// ticket; special certificates carry a reward token bonus
func (h *AttendanceHandler) MintCertificate(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req models.MintCertificateRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	certID, err := h.ledger.MintCertificate(e.Auth.Id, req.TierID, req.Holder, req.IsSpecial)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"certificate_id": certID, "holder": req.Holder})
}

// GetUsage - Whether a holder's ticket for a tier has been validated
func (h *AttendanceHandler) GetUsage(e *core.RequestEvent) error {
	tierID, err := pathID(e, "tierId")
	if err != nil {
		return err
	}

	holder := e.Request.PathValue("holder")
	if holder == "" {
		return apis.NewBadRequestError("Missing holder", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"tier_id": tierID,
		"holder":  holder,
		"used":    h.ledger.HasUsedTicket(tierID, holder),
	})
}
