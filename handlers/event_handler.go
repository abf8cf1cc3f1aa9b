package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"blockevent/models"
	"blockevent/services"
)

type EventHandler struct {
	app    *pocketbase.PocketBase
	ledger *services.LedgerService
}

func NewEventHandler(app *pocketbase.PocketBase, ledgerService *services.LedgerService) *EventHandler {
	return &EventHandler{
		app:    app,
		ledger: ledgerService,
	}
}

// CreateEvent - Register a new event with the caller as organizer
func (h *EventHandler) CreateEvent(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req models.CreateEventRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return apis.NewBadRequestError("Invalid date, want RFC3339", err)
	}

	eventID, err := h.ledger.CreateEvent(e.Auth.Id, req.Name, date, req.MaxResalePercentage)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"event_id": eventID})
}

// CancelEvent - Flag an upcoming event as cancelled (organizer only)
func (h *EventHandler) CancelEvent(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	eventID, err := pathID(e, "eventId")
	if err != nil {
		return err
	}

	if err := h.ledger.CancelEvent(e.Auth.Id, eventID); err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"cancelled": true})
}

// GetEvent - Full event record including its tier ids
func (h *EventHandler) GetEvent(e *core.RequestEvent) error {
	eventID, err := pathID(e, "eventId")
	if err != nil {
		return err
	}

	ev, err := h.ledger.EventInfo(eventID)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, ev)
}

// pathID parses a uint64 path parameter.
func pathID(e *core.RequestEvent, name string) (uint64, error) {
	raw := e.Request.PathValue(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apis.NewBadRequestError("Invalid "+name, err)
	}
	return id, nil
}
