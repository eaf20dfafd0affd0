package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStatus_IsValid(t *testing.T) {
	tests := []struct {
		status   EventStatus
		expected bool
	}{
		{EventStatusPending, true},
		{EventStatusApproved, true},
		{EventStatusRejected, true},
		{EventStatus(""), false},
		{EventStatus("cancelled"), false},
		{EventStatus("PENDING"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.status.IsValid(), "status %q", tt.status)
	}
}

func TestEventStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name     string
		from     EventStatus
		to       EventStatus
		expected bool
	}{
		{"pending to approved", EventStatusPending, EventStatusApproved, true},
		{"pending to rejected", EventStatusPending, EventStatusRejected, true},
		{"pending to pending", EventStatusPending, EventStatusPending, false},
		{"rejected to pending", EventStatusRejected, EventStatusPending, true},
		{"rejected to approved", EventStatusRejected, EventStatusApproved, false},
		{"rejected to rejected", EventStatusRejected, EventStatusRejected, false},
		{"approved is terminal (pending)", EventStatusApproved, EventStatusPending, false},
		{"approved is terminal (rejected)", EventStatusApproved, EventStatusRejected, false},
		{"approved is terminal (approved)", EventStatusApproved, EventStatusApproved, false},
		{"unknown status transitions nowhere", EventStatus("draft"), EventStatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestEventStatus_Editable(t *testing.T) {
	assert.True(t, EventStatusPending.Editable())
	assert.True(t, EventStatusRejected.Editable())
	assert.False(t, EventStatusApproved.Editable())
	assert.False(t, EventStatus("").Editable())
}

func TestEvent_Remaining(t *testing.T) {
	tests := []struct {
		name      string
		expected  int
		attendees int
		remaining int
	}{
		{"empty event", 100, 0, 100},
		{"partially booked", 100, 37, 63},
		{"full event", 100, 100, 0},
		{"overbooked counter clamps to zero", 100, 120, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := Event{
				ExpectedAttendees: tt.expected,
				Attendees:         tt.attendees,
			}
			assert.Equal(t, tt.remaining, event.Remaining())
		})
	}
}

func TestTicketStatus_Cancellable(t *testing.T) {
	assert.True(t, TicketStatusBooked.Cancellable())
	assert.False(t, TicketStatusCancelled.Cancellable())
	assert.False(t, TicketStatus("").Cancellable())
}

func TestEvent_JSONSerialization(t *testing.T) {
	date := time.Now().Add(48 * time.Hour)

	event := Event{
		ID:                "event-123",
		Title:             "Robotics Workshop",
		Date:              date,
		Time:              "14:00",
		Location:          "Lab 2",
		Description:       "Hands-on intro to line followers",
		Category:          "workshop",
		Price:             25.50,
		ExpectedAttendees: 40,
		Attendees:         12,
		OrganizerID:       "user-456",
		Status:            EventStatusApproved,
	}

	jsonData, err := json.Marshal(event)
	require.NoError(t, err)

	var unmarshaled Event
	err = json.Unmarshal(jsonData, &unmarshaled)
	require.NoError(t, err)

	assert.Equal(t, event.ID, unmarshaled.ID)
	assert.Equal(t, event.Title, unmarshaled.Title)
	assert.Equal(t, event.Location, unmarshaled.Location)
	assert.Equal(t, event.Category, unmarshaled.Category)
	assert.Equal(t, event.Price, unmarshaled.Price)
	assert.Equal(t, event.ExpectedAttendees, unmarshaled.ExpectedAttendees)
	assert.Equal(t, event.Attendees, unmarshaled.Attendees)
	assert.Equal(t, event.OrganizerID, unmarshaled.OrganizerID)
	assert.Equal(t, event.Status, unmarshaled.Status)
	assert.WithinDuration(t, event.Date, unmarshaled.Date, time.Second)
}

func TestTicket_JSONSerialization(t *testing.T) {
	ticket := Ticket{
		ID:         "ticket-123",
		UserID:     "user-456",
		EventID:    "event-789",
		Quantity:   3,
		TotalPrice: 76.50,
		Status:     TicketStatusBooked,
		Reference:  "TKT-4F09A1C2",
		Created:    time.Now(),
	}

	jsonData, err := json.Marshal(ticket)
	require.NoError(t, err)

	var unmarshaled Ticket
	err = json.Unmarshal(jsonData, &unmarshaled)
	require.NoError(t, err)

	assert.Equal(t, ticket.ID, unmarshaled.ID)
	assert.Equal(t, ticket.UserID, unmarshaled.UserID)
	assert.Equal(t, ticket.EventID, unmarshaled.EventID)
	assert.Equal(t, ticket.Quantity, unmarshaled.Quantity)
	assert.Equal(t, ticket.TotalPrice, unmarshaled.TotalPrice)
	assert.Equal(t, ticket.Status, unmarshaled.Status)
	assert.Equal(t, ticket.Reference, unmarshaled.Reference)
	assert.WithinDuration(t, ticket.Created, unmarshaled.Created, time.Second)
}

func TestEventCategories_AreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range EventCategories {
		assert.False(t, seen[c], "duplicate category %q", c)
		seen[c] = true
	}
}

func BenchmarkEvent_JSONMarshal(b *testing.B) {
	event := Event{
		ID:                "event-123",
		Title:             "Benchmark Fair",
		Date:              time.Now(),
		Location:          "Main Hall",
		Category:          "academic",
		Price:             10,
		ExpectedAttendees: 500,
		Attendees:         250,
		Status:            EventStatusApproved,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		json.Marshal(event)
	}
}
