package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarhegazy/matchday/internal/model"
	"github.com/omarhegazy/matchday/internal/repository"
	"github.com/omarhegazy/matchday/internal/service"
)

// stubReservations scripts the service layer so the handler's status
// code mapping can be tested without storage.
type stubReservations struct {
	reserveSeat *model.Seat
	reserveErr  error
	cancelErr   error
	listSeats   []model.Seat
	listErr     error
}

func (s *stubReservations) Reserve(context.Context, string, string, string) (*model.Seat, error) {
	return s.reserveSeat, s.reserveErr
}
func (s *stubReservations) Cancel(context.Context, string, string) error { return s.cancelErr }
func (s *stubReservations) List(context.Context, string) ([]model.Seat, error) {
	return s.listSeats, s.listErr
}

// newReservationCtx builds an echo context with an authenticated fan
// already loaded, the way the JWT and identity middleware leave it.
func newReservationCtx(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("current_user", &model.User{ID: "user-1", Role: model.RoleFan, Authorized: true})
	return c, rec
}

func TestReserveCreated(t *testing.T) {
	h := NewReservationHandler(&stubReservations{
		reserveSeat: &model.Seat{TicketID: "t-1", MatchID: "m-1", SeatLabel: "A4"},
	})
	c, rec := newReservationCtx(t, http.MethodPost, "/reservations/",
		`{"match_id":"m-1","seat_id":"A4"}`)

	require.NoError(t, h.Reserve(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "t-1", resp["ticket_id"])
	assert.Equal(t, "A4", resp["seat_id"])
	assert.Equal(t, "m-1", resp["match_id"])
}

func TestReserveStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unknown match", repository.ErrMatchNotFound, http.StatusNotFound, "not_found"},
		{"invalid seat", service.ErrInvalidSeat, http.StatusBadRequest, "invalid_seat"},
		{"seat taken", repository.ErrSeatTaken, http.StatusConflict, "seat_taken"},
		{"storage down", repository.ErrUnavailable, http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewReservationHandler(&stubReservations{reserveErr: tc.err})
			c, rec := newReservationCtx(t, http.MethodPost, "/reservations/",
				`{"match_id":"m-1","seat_id":"A4"}`)

			require.NoError(t, h.Reserve(c))
			assert.Equal(t, tc.wantStatus, rec.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantCode, resp["code"])
		})
	}
}

func TestReserveMissingFields(t *testing.T) {
	h := NewReservationHandler(&stubReservations{})

	c, rec := newReservationCtx(t, http.MethodPost, "/reservations/", `{"seat_id":"A4"}`)
	require.NoError(t, h.Reserve(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newReservationCtx(t, http.MethodPost, "/reservations/", `{"match_id":"m-1"}`)
	require.NoError(t, h.Reserve(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"success", nil, http.StatusNoContent},
		{"unknown ticket", repository.ErrTicketNotFound, http.StatusNotFound},
		{"window closed", repository.ErrCancellationClosed, http.StatusForbidden},
		{"storage down", repository.ErrUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewReservationHandler(&stubReservations{cancelErr: tc.err})
			c, rec := newReservationCtx(t, http.MethodDelete, "/reservations/?ticket_id=t-1", "")

			require.NoError(t, h.Cancel(c))
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestCancelRequiresTicketID(t *testing.T) {
	h := NewReservationHandler(&stubReservations{})
	c, rec := newReservationCtx(t, http.MethodDelete, "/reservations/", "")

	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListReturnsTickets(t *testing.T) {
	h := NewReservationHandler(&stubReservations{listSeats: []model.Seat{
		{TicketID: "t-1", MatchID: "m-1", SeatLabel: "A4"},
		{TicketID: "t-2", MatchID: "m-2", SeatLabel: "B1"},
	}})
	c, rec := newReservationCtx(t, http.MethodGet, "/reservations/", "")

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "t-1", resp[0]["ticket_id"])
	assert.Equal(t, "B1", resp[1]["seat_id"])
}

func TestListEmptyIsAnArray(t *testing.T) {
	h := NewReservationHandler(&stubReservations{})
	c, rec := newReservationCtx(t, http.MethodGet, "/reservations/", "")

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	h := NewReservationHandler(&stubReservations{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/reservations/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
