package models

import (
	"time"

	"github.com/pocketbase/pocketbase/core"
)

type EventStatus string

const (
	EventStatusPending  EventStatus = "pending"
	EventStatusApproved EventStatus = "approved"
	EventStatusRejected EventStatus = "rejected"
)

func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusPending, EventStatusApproved, EventStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo is the single place that knows the event state machine:
// pending may be approved or rejected, rejected goes back to pending when
// the organizer resubmits, approved is terminal.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	switch s {
	case EventStatusPending:
		return next == EventStatusApproved || next == EventStatusRejected
	case EventStatusRejected:
		return next == EventStatusPending
	}
	return false
}

// Editable reports whether content fields may still change.
func (s EventStatus) Editable() bool {
	return s == EventStatusPending || s == EventStatusRejected
}

var EventCategories = []string{"academic", "cultural", "sports", "workshop", "other"}

type Event struct {
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	Date              time.Time   `json:"date"`
	Time              string      `json:"time"`
	Location          string      `json:"location"`
	Description       string      `json:"description"`
	Category          string      `json:"category"`
	Price             float64     `json:"price"`
	ExpectedAttendees int         `json:"expected_attendees"`
	Attendees         int         `json:"attendees"`
	Image             string      `json:"image,omitempty"`
	OrganizerID       string      `json:"organizer_id"`
	Status            EventStatus `json:"status"`
	Created           time.Time   `json:"created"`
	Updated           time.Time   `json:"updated"`
}

// Remaining is the number of attendance slots still open.
func (e *Event) Remaining() int {
	r := e.ExpectedAttendees - e.Attendees
	if r < 0 {
		return 0
	}
	return r
}

func EventFromRecord(r *core.Record) *Event {
	return &Event{
		ID:                r.Id,
		Title:             r.GetString("title"),
		Date:              r.GetDateTime("date").Time(),
		Time:              r.GetString("time"),
		Location:          r.GetString("location"),
		Description:       r.GetString("description"),
		Category:          r.GetString("category"),
		Price:             r.GetFloat("price"),
		ExpectedAttendees: r.GetInt("expected_attendees"),
		Attendees:         r.GetInt("attendees"),
		Image:             r.GetString("image"),
		OrganizerID:       r.GetString("organizer"),
		Status:            EventStatus(r.GetString("status")),
		Created:           r.GetDateTime("created").Time(),
		Updated:           r.GetDateTime("updated").Time(),
	}
}

// OrganizerInfo is the read-time join of an event's owner, kept separate
// from the Event itself so user edits never touch stored events.
type OrganizerInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type EventDetail struct {
	Event     *Event         `json:"event"`
	Organizer *OrganizerInfo `json:"organizer,omitempty"`
}
