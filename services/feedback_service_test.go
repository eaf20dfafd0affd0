package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedbackForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		form    FeedbackForm
		wantErr bool
	}{
		{"minimum rating", FeedbackForm{Rating: 1}, false},
		{"maximum rating", FeedbackForm{Rating: 5}, false},
		{"with comment", FeedbackForm{Rating: 4, Comment: "Great session"}, false},
		{"missing rating", FeedbackForm{Comment: "no stars given"}, true},
		{"rating too high", FeedbackForm{Rating: 6}, true},
		{"rating negative", FeedbackForm{Rating: -1}, true},
		{"comment too long", FeedbackForm{Rating: 3, Comment: strings.Repeat("x", 2001)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
