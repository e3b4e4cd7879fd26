// Package repository defines error types that are reused across multiple
// repositories. These sentinel values let handlers distinguish failure
// scenarios without inspecting driver errors: ErrSeatTaken surfaces the
// unique-key rejection that resolves concurrent bookings, ErrForbidden
// covers ownership and authorization failures, and the NotFound family
// maps to 404 responses.
package repository

import "errors"

// ErrSeatTaken is returned when a reservation insert loses the race for
// a (match, seat label) pair, or the fast-path availability check finds
// the seat occupied. Handlers translate this into HTTP 409.
var ErrSeatTaken = errors.New("seat already reserved")

// ErrCancellationClosed is returned when a cancellation arrives inside
// the cancellation window before kickoff. Handlers translate this into
// HTTP 403.
var ErrCancellationClosed = errors.New("cancellation window closed")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrUnavailable wraps storage or broker failures that are transient and
// safe to retry. Handlers translate this into HTTP 503.
var ErrUnavailable = errors.New("storage unavailable")

// Not-found sentinels for the individual entities.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrStadiumNotFound = errors.New("stadium not found")
	ErrMatchNotFound   = errors.New("match not found")
	ErrTicketNotFound  = errors.New("ticket not found")
)

// Uniqueness violations on user identity columns.
var (
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")
	ErrStadiumExists  = errors.New("stadium name already exists")
)
