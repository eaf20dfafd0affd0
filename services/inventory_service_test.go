package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"campus-events/internal/status"
	"campus-events/models"

	_ "campus-events/migrations"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp spins up an in-process PocketBase app on a throwaway data
// dir and applies this module's migrations, so services run against the
// real SQLite store. Returns the app and an existing auth record to own
// events and tickets.
func newTestApp(t *testing.T) (*tests.TestApp, *core.Record) {
	t.Helper()

	app, err := tests.NewTestApp()
	require.NoError(t, err)
	t.Cleanup(app.Cleanup)

	user, err := app.FindFirstRecordByFilter("users", "id != ''")
	require.NoError(t, err)

	return app, user
}

func newTestInventoryService(app core.App) *InventoryService {
	return NewInventoryService(app, NewNotifyService(app, nil), "test-secret")
}

func createTestEvent(t *testing.T, app core.App, organizerID string, capacity int, eventStatus models.EventStatus) *core.Record {
	t.Helper()

	collection, err := app.FindCollectionByNameOrId("events")
	require.NoError(t, err)

	record := core.NewRecord(collection)
	record.Set("title", "Robotics Workshop")
	record.Set("date", "2026-10-15 00:00:00.000Z")
	record.Set("time", "14:00")
	record.Set("location", "Lab 2")
	record.Set("category", "workshop")
	record.Set("price", 10.0)
	record.Set("expected_attendees", capacity)
	record.Set("attendees", 0)
	record.Set("organizer", organizerID)
	record.Set("status", string(eventStatus))
	require.NoError(t, app.Save(record))

	return record
}

func eventAttendees(t *testing.T, app core.App, eventID string) int {
	t.Helper()

	record, err := app.FindRecordById("events", eventID)
	require.NoError(t, err)
	return record.GetInt("attendees")
}

func TestInventoryService_Book_FillsCapacityThenRejects(t *testing.T) {
	app, user := newTestApp(t)
	service := newTestInventoryService(app)
	event := createTestEvent(t, app, user.Id, 3, models.EventStatusApproved)
	ctx := context.Background()

	first, err := service.Book(ctx, user.Id, event.Id, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)
	assert.Equal(t, 20.0, first.TotalPrice)
	assert.Equal(t, models.TicketStatusBooked, first.Status)
	assert.NotEmpty(t, first.Reference)

	_, err = service.Book(ctx, user.Id, event.Id, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, eventAttendees(t, app, event.Id))

	// The event is full now; one more slot must be refused.
	_, err = service.Book(ctx, user.Id, event.Id, 1)
	assert.ErrorIs(t, err, status.ErrCapacityExceeded)
	assert.Equal(t, 3, eventAttendees(t, app, event.Id))
}

func TestInventoryService_Book_OversizedRequestRejectedWhole(t *testing.T) {
	app, user := newTestApp(t)
	service := newTestInventoryService(app)
	event := createTestEvent(t, app, user.Id, 5, models.EventStatusApproved)
	ctx := context.Background()

	_, err := service.Book(ctx, user.Id, event.Id, 4)
	require.NoError(t, err)

	// Only one slot left; a request for two must not partially fill.
	_, err = service.Book(ctx, user.Id, event.Id, 2)
	assert.ErrorIs(t, err, status.ErrCapacityExceeded)
	assert.Equal(t, 4, eventAttendees(t, app, event.Id))
}

func TestInventoryService_Book_RequiresApprovedEvent(t *testing.T) {
	app, user := newTestApp(t)
	service := newTestInventoryService(app)
	ctx := context.Background()

	pending := createTestEvent(t, app, user.Id, 10, models.EventStatusPending)
	_, err := service.Book(ctx, user.Id, pending.Id, 1)
	assert.ErrorIs(t, err, status.ErrEventNotBookable)
	assert.Equal(t, 0, eventAttendees(t, app, pending.Id))

	rejected := createTestEvent(t, app, user.Id, 10, models.EventStatusRejected)
	_, err = service.Book(ctx, user.Id, rejected.Id, 1)
	assert.ErrorIs(t, err, status.ErrEventNotBookable)

	_, err = service.Book(ctx, user.Id, "missing0000001", 1)
	assert.ErrorIs(t, err, status.ErrEventNotFound)
}

func TestInventoryService_Book_InvalidQuantity(t *testing.T) {
	service := &InventoryService{}

	for _, quantity := range []int{0, -1, -100} {
		ticket, err := service.Book(context.Background(), "user-1", "event-1", quantity)

		assert.Nil(t, ticket)
		assert.ErrorIs(t, err, status.ErrInvalidQuantity)
	}
}

func TestInventoryService_Cancel_ReleasesSlotsOnce(t *testing.T) {
	app, user := newTestApp(t)
	service := newTestInventoryService(app)
	event := createTestEvent(t, app, user.Id, 5, models.EventStatusApproved)
	ctx := context.Background()

	ticket, err := service.Book(ctx, user.Id, event.Id, 3)
	require.NoError(t, err)
	require.Equal(t, 3, eventAttendees(t, app, event.Id))

	cancelled, err := service.Cancel(ctx, user.Id, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusCancelled, cancelled.Status)
	assert.Equal(t, 0, eventAttendees(t, app, event.Id))

	// Cancelling again must fail and must not decrement a second time.
	_, err = service.Cancel(ctx, user.Id, ticket.ID)
	assert.ErrorIs(t, err, status.ErrTicketNotCancellable)
	assert.Equal(t, 0, eventAttendees(t, app, event.Id))

	// The released slots are bookable again.
	_, err = service.Book(ctx, user.Id, event.Id, 5)
	assert.NoError(t, err)
}

func TestInventoryService_Cancel_OtherUsersTicketHidden(t *testing.T) {
	app, user := newTestApp(t)
	service := newTestInventoryService(app)
	event := createTestEvent(t, app, user.Id, 5, models.EventStatusApproved)
	ctx := context.Background()

	ticket, err := service.Book(ctx, user.Id, event.Id, 1)
	require.NoError(t, err)

	_, err = service.Cancel(ctx, "someone-else000", ticket.ID)
	assert.ErrorIs(t, err, status.ErrTicketNotFound)
	assert.Equal(t, 1, eventAttendees(t, app, event.Id))
}

func TestInventoryService_Book_ConcurrentLastSlot(t *testing.T) {
	app, user := newTestApp(t)
	service := newTestInventoryService(app)
	event := createTestEvent(t, app, user.Id, 1, models.EventStatusApproved)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Book(context.Background(), user.Id, event.Id, 1)
		}(i)
	}
	wg.Wait()

	var succeeded, refused int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, status.ErrCapacityExceeded):
			refused++
		default:
			t.Fatalf("unexpected booking error: %v", err)
		}
	}

	// Exactly one of the two racing bookings may win the last slot.
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, refused)
	assert.Equal(t, 1, eventAttendees(t, app, event.Id))
}

func TestBookingOutcome(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"capacity exceeded", status.ErrCapacityExceeded, "capacity_exceeded"},
		{"event not found", status.ErrEventNotFound, "event_not_found"},
		{"event not bookable", status.ErrEventNotBookable, "not_bookable"},
		{"invalid quantity", status.ErrInvalidQuantity, "invalid_quantity"},
		{"unexpected error", errors.New("disk full"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, bookingOutcome(tt.err))
		})
	}
}
