package handlers

import (
	"net/http"

	"campus-events/models"
	"campus-events/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
)

type EventHandler struct {
	approval *services.ApprovalService
}

func NewEventHandler(approval *services.ApprovalService) *EventHandler {
	return &EventHandler{approval: approval}
}

// CreateEvent - organizer submits a new event, always pending approval
func (h *EventHandler) CreateEvent(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var form services.EventForm
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	event, err := h.approval.Create(e.Request.Context(), e.Auth.Id, form, uploadedImage(e))
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusCreated, map[string]any{
		"message": "Event created, pending approval",
		"data":    event,
	})
}

// UpdateEvent - organizer edits a pending/rejected event
func (h *EventHandler) UpdateEvent(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var form services.EventUpdateForm
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	event, err := h.approval.Update(e.Request.Context(), e.Auth.Id, e.Request.PathValue("id"), form, uploadedImage(e))
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Event updated successfully",
		"data":    event,
	})
}

// ListOwnEvents - all events organized by the current user
func (h *EventHandler) ListOwnEvents(e *core.RequestEvent) error {
	return h.listOwn(e, "")
}

// ListOwnPending - the current user's events still waiting for review
func (h *EventHandler) ListOwnPending(e *core.RequestEvent) error {
	return h.listOwn(e, models.EventStatusPending)
}

// ListOwnApproved - the current user's approved events
func (h *EventHandler) ListOwnApproved(e *core.RequestEvent) error {
	return h.listOwn(e, models.EventStatusApproved)
}

func (h *EventHandler) listOwn(e *core.RequestEvent, filter models.EventStatus) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	events, err := h.approval.OwnEvents(e.Request.Context(), e.Auth.Id, filter)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Events fetched",
		"data":    events,
	})
}

// BrowseEvents - approved events from other organizers, the catalog view
func (h *EventHandler) BrowseEvents(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	events, err := h.approval.BrowseApproved(e.Request.Context(), e.Auth.Id)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Events fetched",
		"data":    events,
	})
}

// GetEvent - one event with its organizer info joined in
func (h *EventHandler) GetEvent(e *core.RequestEvent) error {
	detail, err := h.approval.GetDetail(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Event fetched",
		"data":    detail,
	})
}

func uploadedImage(e *core.RequestEvent) *filesystem.File {
	files, err := e.FindUploadedFiles("image")
	if err != nil || len(files) == 0 {
		return nil
	}
	return files[0]
}
