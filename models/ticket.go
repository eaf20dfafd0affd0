package models

import (
	"time"

	"github.com/pocketbase/pocketbase/core"
)

type TicketStatus string

const (
	TicketStatusBooked    TicketStatus = "booked"
	TicketStatusCancelled TicketStatus = "cancelled"
)

// Cancellable reports whether the ticket can still be cancelled.
// Cancellation is irreversible, so only booked tickets qualify.
func (s TicketStatus) Cancellable() bool {
	return s == TicketStatusBooked
}

type Ticket struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id"`
	EventID    string       `json:"event_id"`
	Quantity   int          `json:"quantity"`
	TotalPrice float64      `json:"total_price"`
	Status     TicketStatus `json:"status"`
	Reference  string       `json:"reference"`
	QRCode     string       `json:"qr_code,omitempty"`
	Created    time.Time    `json:"created"`
}

func TicketFromRecord(r *core.Record) *Ticket {
	return &Ticket{
		ID:         r.Id,
		UserID:     r.GetString("user"),
		EventID:    r.GetString("event"),
		Quantity:   r.GetInt("quantity"),
		TotalPrice: r.GetFloat("total_price"),
		Status:     TicketStatus(r.GetString("status")),
		Reference:  r.GetString("reference"),
		QRCode:     r.GetString("qr_code"),
		Created:    r.GetDateTime("created").Time(),
	}
}

// TicketWithEvent is what the ticket listing returns: the ticket plus a
// summary of the event it was booked for.
type TicketWithEvent struct {
	Ticket     *Ticket   `json:"ticket"`
	EventTitle string    `json:"event_title"`
	EventDate  time.Time `json:"event_date"`
	Location   string    `json:"location"`
}
