package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/omarhegazy/matchday/internal/middleware"
	"github.com/omarhegazy/matchday/internal/repository"
	"github.com/omarhegazy/matchday/internal/service"
)

// ReservationHandler exposes the reservation ledger over HTTP.  All
// methods assume JWT authentication, identity loading and the access
// rule table have already run; the current user is read from context.
type ReservationHandler struct {
	Reservations service.Reservations
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(svc service.Reservations) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: svc}
}

// ----- DTOs -----

type reserveReq struct {
	MatchID string `json:"match_id"`
	SeatID  string `json:"seat_id"`
}

type ticketResp struct {
	TicketID string `json:"ticket_id"`
	SeatID   string `json:"seat_id"`
	MatchID  string `json:"match_id"`
}

// Reserve handles POST /reservations/.  It books one seat for the
// authenticated user: 201 with the ticket on success, 404 for an
// unknown match, 400 for a label outside the venue's VIP grid, 409
// when the seat is already held by anyone (including the caller
// retrying a reserve that already succeeded), and 503 when storage is
// unreachable.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return fieldError(c, http.StatusBadRequest, codeValidation, "body", "invalid request body")
	}
	if req.MatchID == "" {
		return fieldError(c, http.StatusBadRequest, codeValidation, "match_id", "This field is required")
	}
	if req.SeatID == "" {
		return fieldError(c, http.StatusBadRequest, codeValidation, "seat_id", "This field is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	seat, err := h.Reservations.Reserve(ctx, user.ID, req.MatchID, req.SeatID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMatchNotFound):
			return fieldError(c, http.StatusNotFound, codeNotFound, "match_id", "There is no match with the given id")
		case errors.Is(err, service.ErrInvalidSeat):
			return fieldError(c, http.StatusBadRequest, codeInvalidSeat, "seat_id", "Invalid seat_id")
		case errors.Is(err, repository.ErrSeatTaken):
			return fieldError(c, http.StatusConflict, codeSeatTaken, "seat_id", "Seat already reserved")
		default:
			return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to book; retry")
		}
	}
	return c.JSON(http.StatusCreated, ticketResp{
		TicketID: seat.TicketID,
		SeatID:   seat.SeatLabel,
		MatchID:  seat.MatchID,
	})
}

// Cancel handles DELETE /reservations/?ticket_id=.  Tickets owned by
// other users are reported as missing.  Inside the cancellation window
// the ticket survives and 403 is returned.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticketID := c.QueryParam("ticket_id")
	if ticketID == "" {
		return fieldError(c, http.StatusBadRequest, codeValidation, "ticket_id", "This field is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reservations.Cancel(ctx, user.ID, ticketID); err != nil {
		switch {
		case errors.Is(err, repository.ErrTicketNotFound):
			return fieldError(c, http.StatusNotFound, codeNotFound, "ticket_id", "There is no reservation with the given id")
		case errors.Is(err, repository.ErrCancellationClosed):
			return fieldError(c, http.StatusForbidden, codeCancellationClosed, "ticket_id", "Reservations can no longer be cancelled this close to the match")
		default:
			return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to cancel; retry")
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /reservations/.  It returns the caller's tickets,
// newest first; an account with no bookings gets an empty array.
func (h *ReservationHandler) List(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	seats, err := h.Reservations.List(ctx, user.ID)
	if err != nil {
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to load reservations; retry")
	}
	items := make([]ticketResp, 0, len(seats))
	for _, s := range seats {
		items = append(items, ticketResp{TicketID: s.TicketID, SeatID: s.SeatLabel, MatchID: s.MatchID})
	}
	return c.JSON(http.StatusOK, items)
}
