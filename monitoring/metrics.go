package monitoring

import (
	"context"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Ticket booking attempts by outcome",
		},
		[]string{"event_id", "outcome"},
	)

	cancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_cancellations_total",
			Help: "Cancelled tickets per event",
		},
		[]string{"event_id"},
	)

	approvalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_decisions_total",
			Help: "Admin approve/reject decisions",
		},
		[]string{"decision"},
	)

	capacityUtilization = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "event_capacity_utilization",
			Help: "attendees / expected_attendees per approved event",
		},
		[]string{"event_id"},
	)
)

// TrackBooking counts one booking attempt.
func TrackBooking(eventID, outcome string) {
	bookingsTotal.WithLabelValues(eventID, outcome).Inc()
}

// TrackCancellation counts one cancelled ticket.
func TrackCancellation(eventID string) {
	cancellationsTotal.WithLabelValues(eventID).Inc()
}

// TrackApproval counts one admin decision.
func TrackApproval(decision string) {
	approvalsTotal.WithLabelValues(decision).Inc()
}

type Monitor struct {
	app core.App
}

func NewMonitor(ctx context.Context, app core.App) *Monitor {
	monitor := &Monitor{app: app}

	go monitor.collectMetrics(ctx)

	return monitor
}

func (m *Monitor) collectMetrics(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collectCapacityMetrics()
		}
	}
}

func (m *Monitor) collectCapacityMetrics() {
	rows := []struct {
		ID        string  `db:"id"`
		Attendees float64 `db:"attendees"`
		Expected  float64 `db:"expected_attendees"`
	}{}

	err := m.app.DB().
		Select("id", "attendees", "expected_attendees").
		From("events").
		Where(dbx.HashExp{"status": "approved"}).
		All(&rows)
	if err != nil {
		return
	}

	for _, row := range rows {
		if row.Expected <= 0 {
			continue
		}
		capacityUtilization.WithLabelValues(row.ID).Set(row.Attendees / row.Expected)
	}
}
