package handlers

import (
	"net/http"

	"campus-events/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type FeedbackHandler struct {
	feedback *services.FeedbackService
}

func NewFeedbackHandler(feedback *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// SubmitFeedback - attendee leaves a rating on an event they booked
func (h *FeedbackHandler) SubmitFeedback(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var form services.FeedbackForm
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	feedback, err := h.feedback.Submit(e.Request.Context(), e.Auth.Id, e.Request.PathValue("id"), form)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusCreated, map[string]any{
		"message": "Feedback submitted",
		"data":    feedback,
	})
}

// ListFeedback - all feedback for an event
func (h *FeedbackHandler) ListFeedback(e *core.RequestEvent) error {
	feedback, err := h.feedback.ListForEvent(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Feedback fetched",
		"data":    feedback,
	})
}
