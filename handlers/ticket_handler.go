package handlers

import (
	"net/http"

	"campus-events/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type TicketHandler struct {
	inventory *services.InventoryService
}

func NewTicketHandler(inventory *services.InventoryService) *TicketHandler {
	return &TicketHandler{inventory: inventory}
}

// BookTicket - book quantity slots on an approved event
func (h *TicketHandler) BookTicket(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		EventID  string `json:"event_id"`
		Quantity int    `json:"quantity"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	ticket, err := h.inventory.Book(e.Request.Context(), e.Auth.Id, req.EventID, req.Quantity)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Booked successfully",
		"data":    ticket,
	})
}

// CancelTicket - cancel a booked ticket and release its slots
func (h *TicketHandler) CancelTicket(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	ticket, err := h.inventory.Cancel(e.Request.Context(), e.Auth.Id, e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Ticket cancelled",
		"data":    ticket,
	})
}

// GetTicket - one ticket, owner only
func (h *TicketHandler) GetTicket(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	ticket, err := h.inventory.GetTicket(e.Request.Context(), e.Auth.Id, e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Ticket fetched",
		"data":    ticket,
	})
}

// ListMyTickets - the user's booked tickets with event summaries
func (h *TicketHandler) ListMyTickets(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	tickets, err := h.inventory.ListUserTickets(e.Request.Context(), e.Auth.Id)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Tickets fetched",
		"data":    tickets,
	})
}
