package status

import "errors"

var (
	ErrEventNotFound        = errors.New("event: event not found")
	ErrEventNotBookable     = errors.New("event: event is not open for booking")
	ErrCapacityExceeded     = errors.New("event: not enough tickets remaining")
	ErrEditForbidden        = errors.New("event: approved event cannot be edited")
	ErrNotOwner             = errors.New("event: not the event organizer")
	ErrInvalidTransition    = errors.New("event: illegal status transition")
	ErrTicketNotFound       = errors.New("ticket: ticket not found")
	ErrTicketNotCancellable = errors.New("ticket: ticket cannot be cancelled")
	ErrInvalidQuantity      = errors.New("ticket: quantity must be a positive integer")
	ErrNotAdmin             = errors.New("auth: admin role required")
	ErrFeedbackExists       = errors.New("feedback: feedback already submitted for this event")
)
