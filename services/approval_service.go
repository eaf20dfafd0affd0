package services

import (
	"context"
	"fmt"

	"campus-events/internal/status"
	"campus-events/models"
	"campus-events/monitoring"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
)

const dateLayout = "2006-01-02"

// EventForm carries the organizer-supplied content fields of an event.
type EventForm struct {
	Title             string  `json:"title"`
	Date              string  `json:"date"`
	Time              string  `json:"time"`
	Location          string  `json:"location"`
	Description       string  `json:"description"`
	Category          string  `json:"category"`
	Price             float64 `json:"price"`
	ExpectedAttendees int     `json:"expected_attendees"`
}

func (f EventForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required, validation.Length(3, 200)),
		validation.Field(&f.Date, validation.Required, validation.Date(dateLayout)),
		validation.Field(&f.Location, validation.Required),
		validation.Field(&f.Category, validation.Required, validation.In(categoryValues()...)),
		validation.Field(&f.Price, validation.Min(0.0)),
		validation.Field(&f.ExpectedAttendees, validation.Required, validation.Min(1)),
	)
}

// EventUpdateForm is the partial-update variant: nil means keep the
// stored value.
type EventUpdateForm struct {
	Title             *string  `json:"title"`
	Date              *string  `json:"date"`
	Time              *string  `json:"time"`
	Location          *string  `json:"location"`
	Description       *string  `json:"description"`
	Category          *string  `json:"category"`
	Price             *float64 `json:"price"`
	ExpectedAttendees *int     `json:"expected_attendees"`
}

func (f EventUpdateForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.NilOrNotEmpty, validation.Length(3, 200)),
		validation.Field(&f.Date, validation.Date(dateLayout)),
		validation.Field(&f.Location, validation.NilOrNotEmpty),
		validation.Field(&f.Category, validation.In(categoryValues()...)),
		validation.Field(&f.Price, validation.Min(0.0)),
		validation.Field(&f.ExpectedAttendees, validation.NilOrNotEmpty, validation.Min(1)),
	)
}

func categoryValues() []any {
	values := make([]any, len(models.EventCategories))
	for i, c := range models.EventCategories {
		values[i] = c
	}
	return values
}

// ApprovalService guards the event status state machine: organizers
// create and edit pending/rejected events, admins decide on pending ones,
// approved content is frozen.
type ApprovalService struct {
	app    core.App
	notify *NotifyService
}

func NewApprovalService(app core.App, notify *NotifyService) *ApprovalService {
	return &ApprovalService{app: app, notify: notify}
}

// Create stores a new event owned by organizerID, always in pending.
func (s *ApprovalService) Create(ctx context.Context, organizerID string, form EventForm, image *filesystem.File) (*models.Event, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	collection, err := s.app.FindCollectionByNameOrId("events")
	if err != nil {
		return nil, err
	}

	record := core.NewRecord(collection)
	record.Set("title", form.Title)
	record.Set("date", form.Date)
	record.Set("time", form.Time)
	record.Set("location", form.Location)
	record.Set("description", form.Description)
	record.Set("category", form.Category)
	record.Set("price", form.Price)
	record.Set("expected_attendees", form.ExpectedAttendees)
	record.Set("attendees", 0)
	record.Set("organizer", organizerID)
	record.Set("status", string(models.EventStatusPending))
	if image != nil {
		record.Set("image", image)
	}

	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("save event: %w", err)
	}

	return models.EventFromRecord(record), nil
}

// Update edits an event's content fields. Only the owner may edit, and
// only while the status allows it; editing a rejected event resubmits it
// as pending.
func (s *ApprovalService) Update(ctx context.Context, organizerID, eventID string, form EventUpdateForm, image *filesystem.File) (*models.Event, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	var event *models.Event

	// The ownership/status gates and the save share one transaction, so an
	// admin decision cannot land between the read and the write and be
	// overwritten by a stale snapshot.
	err := s.app.RunInTransaction(func(tx core.App) error {
		record, err := tx.FindRecordById("events", eventID)
		if err != nil {
			return status.ErrEventNotFound
		}

		if record.GetString("organizer") != organizerID {
			return status.ErrNotOwner
		}

		current := models.EventStatus(record.GetString("status"))
		if !current.Editable() {
			return status.ErrEditForbidden
		}

		applyUpdateForm(record, form)
		if image != nil {
			record.Set("image", image)
		}

		if current == models.EventStatusRejected {
			// Resubmission: the edit sends the event back into review.
			if !current.CanTransitionTo(models.EventStatusPending) {
				return status.ErrInvalidTransition
			}
			record.Set("status", string(models.EventStatusPending))
		}

		if err := tx.Save(record); err != nil {
			return fmt.Errorf("save event: %w", err)
		}

		event = models.EventFromRecord(record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return event, nil
}

func applyUpdateForm(record *core.Record, form EventUpdateForm) {
	if form.Title != nil {
		record.Set("title", *form.Title)
	}
	if form.Date != nil {
		record.Set("date", *form.Date)
	}
	if form.Time != nil {
		record.Set("time", *form.Time)
	}
	if form.Location != nil {
		record.Set("location", *form.Location)
	}
	if form.Description != nil {
		record.Set("description", *form.Description)
	}
	if form.Category != nil {
		record.Set("category", *form.Category)
	}
	if form.Price != nil {
		record.Set("price", *form.Price)
	}
	if form.ExpectedAttendees != nil {
		record.Set("expected_attendees", *form.ExpectedAttendees)
	}
}

// Approve moves a pending event to approved. Admin only.
func (s *ApprovalService) Approve(ctx context.Context, adminID, eventID string) (*models.Event, error) {
	return s.decide(ctx, adminID, eventID, models.EventStatusApproved)
}

// Reject moves a pending event to rejected. Admin only.
func (s *ApprovalService) Reject(ctx context.Context, adminID, eventID string) (*models.Event, error) {
	return s.decide(ctx, adminID, eventID, models.EventStatusRejected)
}

func (s *ApprovalService) decide(ctx context.Context, adminID, eventID string, decision models.EventStatus) (*models.Event, error) {
	if err := s.requireAdmin(adminID); err != nil {
		return nil, err
	}

	var event *models.Event

	// Transition check and flip run in one transaction; two concurrent
	// decisions cannot both pass the pending gate.
	err := s.app.RunInTransaction(func(tx core.App) error {
		record, err := tx.FindRecordById("events", eventID)
		if err != nil {
			return status.ErrEventNotFound
		}

		current := models.EventStatus(record.GetString("status"))
		if !current.CanTransitionTo(decision) {
			return status.ErrInvalidTransition
		}

		record.Set("status", string(decision))
		if err := tx.Save(record); err != nil {
			return fmt.Errorf("save event: %w", err)
		}

		event = models.EventFromRecord(record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.TrackApproval(string(decision))

	if organizer, err := s.organizerInfo(event.OrganizerID); err == nil {
		s.notify.EventDecision(event, organizer, decision)
	}

	return event, nil
}

// requireAdmin accepts users carrying the admin role and superusers.
func (s *ApprovalService) requireAdmin(userID string) error {
	if user, err := s.app.FindRecordById("users", userID); err == nil && user.GetString("role") == "admin" {
		return nil
	}
	if _, err := s.app.FindRecordById(core.CollectionNameSuperusers, userID); err == nil {
		return nil
	}
	return status.ErrNotAdmin
}

// OwnEvents lists the organizer's events, optionally filtered by status.
func (s *ApprovalService) OwnEvents(ctx context.Context, organizerID string, filter models.EventStatus) ([]*models.Event, error) {
	expr := "organizer = {:organizer}"
	params := dbx.Params{"organizer": organizerID}
	if filter != "" {
		expr += " && status = {:status}"
		params["status"] = string(filter)
	}

	records, err := s.app.FindRecordsByFilter("events", expr, "-created", 500, 0, params)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return eventsFromRecords(records), nil
}

// BrowseApproved lists everyone else's approved events, the student-facing
// catalog view.
func (s *ApprovalService) BrowseApproved(ctx context.Context, excludeUserID string) ([]*models.Event, error) {
	records, err := s.app.FindRecordsByFilter(
		"events",
		"status = {:status} && organizer != {:organizer}",
		"date",
		500,
		0,
		dbx.Params{"status": string(models.EventStatusApproved), "organizer": excludeUserID},
	)
	if err != nil {
		return nil, fmt.Errorf("browse events: %w", err)
	}

	return eventsFromRecords(records), nil
}

// AllEvents is the admin review list across organizers.
func (s *ApprovalService) AllEvents(ctx context.Context, adminID string) ([]*models.Event, error) {
	if err := s.requireAdmin(adminID); err != nil {
		return nil, err
	}

	records, err := s.app.FindRecordsByFilter("events", "id != ''", "-created", 500, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return eventsFromRecords(records), nil
}

// GetDetail returns one event with its organizer joined in at read time.
func (s *ApprovalService) GetDetail(ctx context.Context, eventID string) (*models.EventDetail, error) {
	record, err := s.app.FindRecordById("events", eventID)
	if err != nil {
		return nil, status.ErrEventNotFound
	}

	detail := &models.EventDetail{Event: models.EventFromRecord(record)}
	if organizer, err := s.organizerInfo(detail.Event.OrganizerID); err == nil {
		detail.Organizer = organizer
	}

	return detail, nil
}

func (s *ApprovalService) organizerInfo(organizerID string) (*models.OrganizerInfo, error) {
	user, err := s.app.FindRecordById("users", organizerID)
	if err != nil {
		return nil, err
	}
	return &models.OrganizerInfo{
		ID:       user.Id,
		Username: user.GetString("username"),
		Email:    user.Email(),
	}, nil
}

func eventsFromRecords(records []*core.Record) []*models.Event {
	events := make([]*models.Event, 0, len(records))
	for _, record := range records {
		events = append(events, models.EventFromRecord(record))
	}
	return events
}
