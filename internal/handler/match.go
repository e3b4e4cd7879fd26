package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/omarhegazy/matchday/internal/config"
	"github.com/omarhegazy/matchday/internal/model"
	"github.com/omarhegazy/matchday/internal/repository"
)

// MatchHandler serves the match schedule: a paginated public listing
// and manager-only create and update.
type MatchHandler struct {
	Matches *repository.MatchRepo
	Seats   *repository.SeatRepo
	Cfg     config.Config
}

// NewMatchHandler constructs a MatchHandler.
func NewMatchHandler(matches *repository.MatchRepo, seats *repository.SeatRepo, cfg config.Config) *MatchHandler {
	return &MatchHandler{Matches: matches, Seats: seats, Cfg: cfg}
}

type matchReq struct {
	HomeTeam  string   `json:"home_team"`
	AwayTeam  string   `json:"away_team"`
	Date      string   `json:"date"` // RFC 3339, e.g. 2026-10-01T18:00:00Z
	Referee   string   `json:"referee"`
	Linesmen  []string `json:"linesmen"`
	StadiumID string   `json:"stadium_id"`
}

type matchResp struct {
	ID          string       `json:"id"`
	HomeTeam    string       `json:"home_team"`
	AwayTeam    string       `json:"away_team"`
	Date        time.Time    `json:"date"`
	Referee     string       `json:"referee"`
	Linesmen    []string     `json:"linesmen"`
	Venue       *stadiumResp `json:"venue,omitempty"`
	SeatsBooked []string     `json:"seats_booked,omitempty"`
}

func toMatchResp(m *model.Match) matchResp {
	resp := matchResp{
		ID:       m.ID,
		HomeTeam: m.HomeTeam,
		AwayTeam: m.AwayTeam,
		Date:     m.Date,
		Referee:  m.Referee,
		Linesmen: m.Linesmen,
	}
	if m.Venue != nil {
		v := toStadiumResp(m.Venue)
		resp.Venue = &v
	}
	return resp
}

type matchPageResp struct {
	Count   int         `json:"count"`
	Page    int         `json:"page"`
	Matches []matchResp `json:"matches"`
}

// List handles GET /matches/?page=.  Requested pages past the end clamp
// to the last non-empty page rather than returning nothing.  The
// listing omits per-match booked seats; Get exposes those.
func (h *MatchHandler) List(c echo.Context) error {
	page := queryInt(c, "page", 1)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	matches, total, err := h.Matches.List(ctx, h.Cfg.MatchesPerPage, page)
	if err != nil {
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to list matches; retry")
	}
	if len(matches) == 0 && total > 0 {
		page = repository.ClampPage(page, h.Cfg.MatchesPerPage, total)
		matches, total, err = h.Matches.List(ctx, h.Cfg.MatchesPerPage, page)
		if err != nil {
			return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to list matches; retry")
		}
	}
	items := make([]matchResp, 0, len(matches))
	for i := range matches {
		items = append(items, toMatchResp(&matches[i]))
	}
	return c.JSON(http.StatusOK, matchPageResp{Count: total, Page: page, Matches: items})
}

// Get handles GET /matches/:id/.  The response carries the booked seat
// labels so clients can render the VIP grid without a second call.
func (h *MatchHandler) Get(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Matches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return fieldError(c, http.StatusNotFound, codeNotFound, "match_id", "There is no match with the given id")
		}
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to load match; retry")
	}
	resp := toMatchResp(m)
	seats, err := h.Seats.ListByMatch(ctx, m.ID)
	if err != nil {
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to load match; retry")
	}
	labels := make([]string, 0, len(seats))
	for _, s := range seats {
		labels = append(labels, s.SeatLabel)
	}
	resp.SeatsBooked = labels
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /matches/.  Teams come from the league
// enumeration and must differ; kickoff must be in the future; at least
// two linesmen are required; the venue must exist.
func (h *MatchHandler) Create(c echo.Context) error {
	var req matchReq
	if err := c.Bind(&req); err != nil {
		return fieldError(c, http.StatusBadRequest, codeValidation, "body", "invalid request body")
	}
	m, field, msg := buildMatch(&req)
	if field != "" {
		return fieldError(c, http.StatusBadRequest, codeValidation, field, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Matches.Create(ctx, m)
	if err != nil {
		if errors.Is(err, repository.ErrStadiumNotFound) {
			return fieldError(c, http.StatusNotFound, codeNotFound, "stadium_id", "There is no stadium with the given id")
		}
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to create match; retry")
	}
	created, err := h.Matches.GetByID(ctx, id)
	if err != nil {
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to create match; retry")
	}
	return c.JSON(http.StatusCreated, toMatchResp(created))
}

// Update handles PUT /matches/:id/.  The whole mutable record is
// replaced, venue included; already-sold seats stay attached to the
// match regardless.
func (h *MatchHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var req matchReq
	if err := c.Bind(&req); err != nil {
		return fieldError(c, http.StatusBadRequest, codeValidation, "body", "invalid request body")
	}
	m, field, msg := buildMatch(&req)
	if field != "" {
		return fieldError(c, http.StatusBadRequest, codeValidation, field, msg)
	}
	m.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Matches.Update(ctx, m); err != nil {
		switch {
		case errors.Is(err, repository.ErrMatchNotFound):
			return fieldError(c, http.StatusNotFound, codeNotFound, "match_id", "There is no match with the given id")
		case errors.Is(err, repository.ErrStadiumNotFound):
			return fieldError(c, http.StatusNotFound, codeNotFound, "stadium_id", "There is no stadium with the given id")
		default:
			return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to update match; retry")
		}
	}
	updated, err := h.Matches.GetByID(ctx, id)
	if err != nil {
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to update match; retry")
	}
	return c.JSON(http.StatusOK, toMatchResp(updated))
}

// buildMatch validates a match payload and returns the model, or the
// first offending field with a message.
func buildMatch(req *matchReq) (m *model.Match, field, msg string) {
	home := strings.ToLower(strings.TrimSpace(req.HomeTeam))
	away := strings.ToLower(strings.TrimSpace(req.AwayTeam))
	if !model.Teams[home] {
		return nil, "home_team", "Not a valid team"
	}
	if !model.Teams[away] {
		return nil, "away_team", "Not a valid team"
	}
	if home == away {
		return nil, "away_team", "Home and away teams must differ"
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return nil, "date", "Date must be in RFC 3339 format"
	}
	if !date.After(time.Now().UTC()) {
		return nil, "date", "Match date must be in the future"
	}
	if strings.TrimSpace(req.Referee) == "" {
		return nil, "referee", "This field is required"
	}
	if len(req.Linesmen) < 2 {
		return nil, "linesmen", "At least two linesmen are required"
	}
	for _, l := range req.Linesmen {
		if strings.TrimSpace(l) == "" {
			return nil, "linesmen", "Linesman names must not be empty"
		}
	}
	if req.StadiumID == "" {
		return nil, "stadium_id", "This field is required"
	}
	return &model.Match{
		HomeTeam:  home,
		AwayTeam:  away,
		Date:      date.UTC(),
		Referee:   strings.TrimSpace(req.Referee),
		Linesmen:  req.Linesmen,
		StadiumID: req.StadiumID,
	}, "", ""
}
