package services

import (
	"context"
	"fmt"

	"campus-events/internal/status"
	"campus-events/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

type FeedbackForm struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (f FeedbackForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&f.Comment, validation.Length(0, 2000)),
	)
}

// FeedbackService records attendee feedback on events: one entry per
// user and event, and only from users holding a booked ticket.
type FeedbackService struct {
	app core.App
}

func NewFeedbackService(app core.App) *FeedbackService {
	return &FeedbackService{app: app}
}

func (s *FeedbackService) Submit(ctx context.Context, userID, eventID string, form FeedbackForm) (*models.Feedback, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.app.FindRecordById("events", eventID); err != nil {
		return nil, status.ErrEventNotFound
	}

	// Feedback requires attendance: the user must hold a booked ticket.
	if _, err := s.app.FindFirstRecordByFilter(
		"tickets",
		"user = {:user} && event = {:event} && status = {:status}",
		dbx.Params{"user": userID, "event": eventID, "status": string(models.TicketStatusBooked)},
	); err != nil {
		return nil, status.ErrTicketNotFound
	}

	if _, err := s.app.FindFirstRecordByFilter(
		"feedback",
		"user = {:user} && event = {:event}",
		dbx.Params{"user": userID, "event": eventID},
	); err == nil {
		return nil, status.ErrFeedbackExists
	}

	collection, err := s.app.FindCollectionByNameOrId("feedback")
	if err != nil {
		return nil, err
	}

	record := core.NewRecord(collection)
	record.Set("user", userID)
	record.Set("event", eventID)
	record.Set("rating", form.Rating)
	record.Set("comment", form.Comment)

	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}

	return models.FeedbackFromRecord(record), nil
}

func (s *FeedbackService) ListForEvent(ctx context.Context, eventID string) ([]*models.Feedback, error) {
	records, err := s.app.FindRecordsByFilter(
		"feedback",
		"event = {:event}",
		"-created",
		500,
		0,
		dbx.Params{"event": eventID},
	)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	result := make([]*models.Feedback, 0, len(records))
	for _, record := range records {
		item := models.FeedbackFromRecord(record)
		if user, err := s.app.FindRecordById("users", item.UserID); err == nil {
			item.Username = user.GetString("username")
		}
		result = append(result, item)
	}
	return result, nil
}
