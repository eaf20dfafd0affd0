package services

import (
	"context"
	"fmt"
	"log/slog"

	"campus-events/internal/status"
	"campus-events/models"
	"campus-events/monitoring"
	"campus-events/utils"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
	"github.com/shopspring/decimal"
)

// InventoryService owns every write to events.attendees. Bookings and
// cancellations run as one SQLite transaction around a conditional
// UPDATE, so the capacity check and the counter change cannot be split
// by a concurrent request.
type InventoryService struct {
	app    core.App
	notify *NotifyService
	secret string
}

func NewInventoryService(app core.App, notify *NotifyService, secret string) *InventoryService {
	return &InventoryService{
		app:    app,
		notify: notify,
		secret: secret,
	}
}

// Book creates a booked ticket for quantity slots and bumps the event's
// attendee counter. The WHERE clause carries the capacity invariant:
// the increment applies only while attendees + quantity stays within
// expected_attendees and the event is approved.
func (s *InventoryService) Book(ctx context.Context, userID, eventID string, quantity int) (*models.Ticket, error) {
	if quantity < 1 {
		return nil, status.ErrInvalidQuantity
	}

	var ticket *models.Ticket

	err := s.app.RunInTransaction(func(tx core.App) error {
		res, err := tx.DB().NewQuery(`
			UPDATE events
			SET attendees = attendees + {:qty}
			WHERE id = {:id}
			  AND status = {:status}
			  AND attendees + {:qty} <= expected_attendees
		`).Bind(dbx.Params{
			"qty":    quantity,
			"id":     eventID,
			"status": string(models.EventStatusApproved),
		}).Execute()
		if err != nil {
			return fmt.Errorf("increment attendees: %w", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("increment attendees: %w", err)
		}
		if rows == 0 {
			return s.classifyBookFailure(tx, eventID, quantity)
		}

		event, err := tx.FindRecordById("events", eventID)
		if err != nil {
			return fmt.Errorf("load event after increment: %w", err)
		}

		total := decimal.NewFromFloat(event.GetFloat("price")).
			Mul(decimal.NewFromInt(int64(quantity)))
		totalPrice, _ := total.Float64()

		reference, err := utils.GenerateTicketReference()
		if err != nil {
			return fmt.Errorf("ticket reference: %w", err)
		}

		collection, err := tx.FindCollectionByNameOrId("tickets")
		if err != nil {
			return err
		}

		record := core.NewRecord(collection)
		record.Set("user", userID)
		record.Set("event", eventID)
		record.Set("quantity", quantity)
		record.Set("total_price", totalPrice)
		record.Set("status", string(models.TicketStatusBooked))
		record.Set("reference", reference)

		s.attachQRCode(record, reference, eventID, userID, quantity)

		// Save inside the same transaction: if the ticket insert fails the
		// attendee increment rolls back with it.
		if err := tx.Save(record); err != nil {
			return fmt.Errorf("save ticket: %w", err)
		}

		ticket = models.TicketFromRecord(record)
		return nil
	})
	if err != nil {
		monitoring.TrackBooking(eventID, bookingOutcome(err))
		return nil, err
	}

	monitoring.TrackBooking(eventID, "success")
	s.notify.BookingConfirmed(ticket)

	return ticket, nil
}

// classifyBookFailure re-reads the event to turn a zero-row conditional
// update into the right caller error.
func (s *InventoryService) classifyBookFailure(tx core.App, eventID string, quantity int) error {
	event, err := tx.FindRecordById("events", eventID)
	if err != nil {
		return status.ErrEventNotFound
	}
	if models.EventStatus(event.GetString("status")) != models.EventStatusApproved {
		return status.ErrEventNotBookable
	}
	slog.Info("booking rejected on capacity",
		"event", eventID,
		"requested", quantity,
		"remaining", event.GetInt("expected_attendees")-event.GetInt("attendees"),
	)
	return status.ErrCapacityExceeded
}

func (s *InventoryService) attachQRCode(record *core.Record, reference, eventID, userID string, quantity int) {
	png, err := utils.TicketQRPNG(s.secret, utils.TicketClaim{
		Reference: reference,
		EventID:   eventID,
		UserID:    userID,
		Quantity:  quantity,
	})
	if err != nil {
		// The QR image is a convenience artifact; booking proceeds without it.
		slog.Error("ticket qr generation failed", "reference", reference, "error", err)
		return
	}

	file, err := filesystem.NewFileFromBytes(png, reference+".png")
	if err != nil {
		slog.Error("ticket qr file failed", "reference", reference, "error", err)
		return
	}
	record.Set("qr_code", file)
}

// Cancel flips a booked ticket to cancelled and releases its slots. The
// decrement is clamped at zero; attendees must never go negative even if
// the counter was corrupted out of band.
func (s *InventoryService) Cancel(ctx context.Context, userID, ticketID string) (*models.Ticket, error) {
	var ticket *models.Ticket

	err := s.app.RunInTransaction(func(tx core.App) error {
		record, err := tx.FindFirstRecordByFilter(
			"tickets",
			"id = {:id} && user = {:user}",
			dbx.Params{"id": ticketID, "user": userID},
		)
		if err != nil {
			// Someone else's ticket reads the same as a missing one.
			return status.ErrTicketNotFound
		}

		if !models.TicketStatus(record.GetString("status")).Cancellable() {
			return status.ErrTicketNotCancellable
		}

		_, err = tx.DB().NewQuery(`
			UPDATE events
			SET attendees = MAX(attendees - {:qty}, 0)
			WHERE id = {:id}
		`).Bind(dbx.Params{
			"qty": record.GetInt("quantity"),
			"id":  record.GetString("event"),
		}).Execute()
		if err != nil {
			return fmt.Errorf("decrement attendees: %w", err)
		}

		record.Set("status", string(models.TicketStatusCancelled))
		if err := tx.Save(record); err != nil {
			return fmt.Errorf("save ticket: %w", err)
		}

		ticket = models.TicketFromRecord(record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.TrackCancellation(ticket.EventID)
	return ticket, nil
}

// GetTicket returns a single ticket scoped to its owner.
func (s *InventoryService) GetTicket(ctx context.Context, userID, ticketID string) (*models.Ticket, error) {
	record, err := s.app.FindFirstRecordByFilter(
		"tickets",
		"id = {:id} && user = {:user}",
		dbx.Params{"id": ticketID, "user": userID},
	)
	if err != nil {
		return nil, status.ErrTicketNotFound
	}
	return models.TicketFromRecord(record), nil
}

// ListUserTickets returns the user's booked tickets, newest first, with
// the owning event summary joined in at read time.
func (s *InventoryService) ListUserTickets(ctx context.Context, userID string) ([]*models.TicketWithEvent, error) {
	records, err := s.app.FindRecordsByFilter(
		"tickets",
		"user = {:user} && status = {:status}",
		"-created",
		200,
		0,
		dbx.Params{"user": userID, "status": string(models.TicketStatusBooked)},
	)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	result := make([]*models.TicketWithEvent, 0, len(records))
	for _, record := range records {
		item := &models.TicketWithEvent{Ticket: models.TicketFromRecord(record)}

		if event, err := s.app.FindRecordById("events", record.GetString("event")); err == nil {
			item.EventTitle = event.GetString("title")
			item.EventDate = event.GetDateTime("date").Time()
			item.Location = event.GetString("location")
		}

		result = append(result, item)
	}

	return result, nil
}

func bookingOutcome(err error) string {
	switch err {
	case status.ErrCapacityExceeded:
		return "capacity_exceeded"
	case status.ErrEventNotFound:
		return "event_not_found"
	case status.ErrEventNotBookable:
		return "not_bookable"
	case status.ErrInvalidQuantity:
		return "invalid_quantity"
	default:
		return "error"
	}
}
