package models

import (
	"time"

	"github.com/pocketbase/pocketbase/core"
)

type Feedback struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	EventID string    `json:"event_id"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
	Created time.Time `json:"created"`

	// Username is joined in at read time for listings.
	Username string `json:"username,omitempty"`
}

func FeedbackFromRecord(r *core.Record) *Feedback {
	return &Feedback{
		ID:      r.Id,
		UserID:  r.GetString("user"),
		EventID: r.GetString("event"),
		Rating:  r.GetInt("rating"),
		Comment: r.GetString("comment"),
		Created: r.GetDateTime("created").Time(),
	}
}
