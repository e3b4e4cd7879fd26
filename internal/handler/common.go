package handler // handler defines the HTTP handlers

import (
	"github.com/labstack/echo/v4"
)

// Error response codes carried alongside the field-attributed message.
// Clients switch on the code; the per-field strings are for humans.
const (
	codeValidation         = "validation"
	codeNotFound           = "not_found"
	codeInvalidSeat        = "invalid_seat"
	codeSeatTaken          = "seat_taken"
	codeCancellationClosed = "cancellation_closed"
	codeForbidden          = "forbidden"
	codeConflict           = "conflict"
	codeUnavailable        = "unavailable"
)

// fieldError writes the standard error body: a machine-checkable code
// plus the offending field mapped to its human messages, e.g.
//
//	{"code": "seat_taken", "seat_id": ["Seat already reserved"]}
func fieldError(c echo.Context, status int, code, field, msg string) error {
	return c.JSON(status, echo.Map{"code": code, field: []string{msg}})
}
