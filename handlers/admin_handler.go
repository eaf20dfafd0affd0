package handlers

import (
	"net/http"

	"campus-events/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type AdminHandler struct {
	approval *services.ApprovalService
}

func NewAdminHandler(approval *services.ApprovalService) *AdminHandler {
	return &AdminHandler{approval: approval}
}

// RequireAdmin gates a route group on the users.role field; superusers
// always pass.
func RequireAdmin() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Auth == nil {
			return apis.NewUnauthorizedError("Unauthorized", nil)
		}
		if !e.Auth.IsSuperuser() && e.Auth.GetString("role") != "admin" {
			return apis.NewForbiddenError("Admin role required", nil)
		}
		return e.Next()
	}
}

// ListAllEvents - the review queue across all organizers
func (h *AdminHandler) ListAllEvents(e *core.RequestEvent) error {
	events, err := h.approval.AllEvents(e.Request.Context(), e.Auth.Id)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Events fetched",
		"data":    events,
	})
}

// ApproveEvent - approve a pending event
func (h *AdminHandler) ApproveEvent(e *core.RequestEvent) error {
	event, err := h.approval.Approve(e.Request.Context(), e.Auth.Id, e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Event approved",
		"data":    event,
	})
}

// RejectEvent - reject a pending event
func (h *AdminHandler) RejectEvent(e *core.RequestEvent) error {
	event, err := h.approval.Reject(e.Request.Context(), e.Auth.Id, e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Event rejected",
		"data":    event,
	})
}
