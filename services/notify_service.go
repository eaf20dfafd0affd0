package services

import (
	"fmt"
	"log/slog"
	"net/mail"

	"campus-events/models"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/mailer"
	pubnub "github.com/pubnub/go/v7"
)

// NotifyService pushes workflow notifications to organizers and
// attendees. Everything here is fire-and-forget: a mail or publish
// failure is logged and never rolls back store state.
type NotifyService struct {
	app core.App
	pn  *pubnub.PubNub
}

func NewNotifyService(app core.App, pn *pubnub.PubNub) *NotifyService {
	return &NotifyService{app: app, pn: pn}
}

// EventDecision tells the organizer their event was approved or rejected,
// by email and on their realtime channel.
func (n *NotifyService) EventDecision(event *models.Event, organizer *models.OrganizerInfo, decision models.EventStatus) {
	go n.sendDecisionMail(event, organizer, decision)
	go n.publish(fmt.Sprintf("user-%s", organizer.ID), map[string]any{
		"type":     "event_decision",
		"event_id": event.ID,
		"title":    event.Title,
		"status":   string(decision),
	})
}

// BookingConfirmed pushes the booked ticket to the buyer's channel.
func (n *NotifyService) BookingConfirmed(ticket *models.Ticket) {
	go n.publish(fmt.Sprintf("user-%s", ticket.UserID), map[string]any{
		"type":      "booking_confirmed",
		"ticket_id": ticket.ID,
		"event_id":  ticket.EventID,
		"reference": ticket.Reference,
		"quantity":  ticket.Quantity,
	})
}

func (n *NotifyService) sendDecisionMail(event *models.Event, organizer *models.OrganizerInfo, decision models.EventStatus) {
	if organizer.Email == "" {
		return
	}

	subject := fmt.Sprintf("Your event %q was %s", event.Title, decision)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour event %q (%s) has been %s by the administrators.\n",
		organizer.Username, event.Title, event.Date.Format("2006-01-02"), decision,
	)
	if decision == models.EventStatusRejected {
		body += "\nYou can edit the event and resubmit it for review.\n"
	}

	message := &mailer.Message{
		From: mail.Address{
			Name:    n.app.Settings().Meta.SenderName,
			Address: n.app.Settings().Meta.SenderAddress,
		},
		To:      []mail.Address{{Address: organizer.Email}},
		Subject: subject,
		Text:    body,
	}

	if err := n.app.NewMailClient().Send(message); err != nil {
		slog.Error("decision mail failed", "event", event.ID, "to", organizer.Email, "error", err)
	}
}

func (n *NotifyService) publish(channel string, payload map[string]any) {
	if n.pn == nil {
		return
	}

	_, _, err := n.pn.Publish().
		Channel(channel).
		Message(payload).
		Execute()
	if err != nil {
		slog.Error("pubnub publish failed", "channel", channel, "error", err)
	}
}
