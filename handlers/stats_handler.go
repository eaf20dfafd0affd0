package handlers

import (
	"net/http"

	"campus-events/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type StatsHandler struct {
	stats *services.StatsService
}

func NewStatsHandler(stats *services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// ApprovedTrailing - count of the organizer's approved events in the
// trailing window
func (h *StatsHandler) ApprovedTrailing(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	total, err := h.stats.ApprovedEventCountTrailing(e.Request.Context(), e.Auth.Id)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Approved events in trailing window",
		"total":   total,
	})
}

// ApprovedLeading - count of the organizer's approved events in the
// leading window
func (h *StatsHandler) ApprovedLeading(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	total, err := h.stats.ApprovedEventCountLeading(e.Request.Context(), e.Auth.Id)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Approved events in leading window",
		"total":   total,
	})
}

// TotalAttendees - attendees over the organizer's recent approved events
func (h *StatsHandler) TotalAttendees(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	total, err := h.stats.TotalAttendees(e.Request.Context(), e.Auth.Id)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message":        "Total attendees in trailing window",
		"totalAttendees": total,
	})
}

// TotalRevenue - attendees x price over the organizer's recent approved
// events
func (h *StatsHandler) TotalRevenue(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	total, err := h.stats.TotalRevenue(e.Request.Context(), e.Auth.Id)
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message":      "Total revenue in trailing window",
		"totalRevenue": total,
	})
}
