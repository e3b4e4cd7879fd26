package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/omarhegazy/matchday/internal/model"
	"github.com/omarhegazy/matchday/internal/repository"
)

// StadiumHandler serves the venue catalogue.  Stadiums are create-only;
// once matches reference a venue its VIP geometry is fixed.
type StadiumHandler struct {
	Stadiums *repository.StadiumRepo
}

// NewStadiumHandler constructs a StadiumHandler.
func NewStadiumHandler(stadiums *repository.StadiumRepo) *StadiumHandler {
	return &StadiumHandler{Stadiums: stadiums}
}

type stadiumReq struct {
	Name           string `json:"name"`
	Capacity       uint32 `json:"capacity"`
	VIPSeatsPerRow uint32 `json:"vip_seats_per_row"`
	VIPRows        uint32 `json:"vip_rows"`
}

type stadiumResp struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Capacity       uint32 `json:"capacity"`
	VIPSeatsPerRow uint32 `json:"vip_seats_per_row"`
	VIPRows        uint32 `json:"vip_rows"`
}

func toStadiumResp(s *model.Stadium) stadiumResp {
	return stadiumResp{
		ID:             s.ID,
		Name:           s.Name,
		Capacity:       s.Capacity,
		VIPSeatsPerRow: s.VIPSeatsPerRow,
		VIPRows:        s.VIPRows,
	}
}

// List handles GET /stadiums/.
func (h *StadiumHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stadiums, err := h.Stadiums.List(ctx)
	if err != nil {
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to list stadiums; retry")
	}
	items := make([]stadiumResp, 0, len(stadiums))
	for i := range stadiums {
		items = append(items, toStadiumResp(&stadiums[i]))
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /stadiums/.  Geometry must fit the VIP grid
// bounds and the declared capacity must cover at least the minimum.
func (h *StadiumHandler) Create(c echo.Context) error {
	var req stadiumReq
	if err := c.Bind(&req); err != nil {
		return fieldError(c, http.StatusBadRequest, codeValidation, "body", "invalid request body")
	}
	if name := strings.TrimSpace(req.Name); name == "" || len(name) > model.StadiumNameMaxLen {
		return fieldError(c, http.StatusBadRequest, codeValidation, "name", "This field is required")
	}
	if req.Capacity < model.StadiumMinCapacity {
		return fieldError(c, http.StatusBadRequest, codeValidation, "capacity", "Capacity is below the minimum")
	}
	if req.VIPRows < model.VIPRowsMin || req.VIPRows > model.VIPRowsMax {
		return fieldError(c, http.StatusBadRequest, codeValidation, "vip_rows", "VIP rows out of range")
	}
	if req.VIPSeatsPerRow < model.VIPSeatsPerRowMin || req.VIPSeatsPerRow > model.VIPSeatsPerRowMax {
		return fieldError(c, http.StatusBadRequest, codeValidation, "vip_seats_per_row", "VIP seats per row out of range")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := &model.Stadium{
		Name:           strings.TrimSpace(req.Name),
		Capacity:       req.Capacity,
		VIPSeatsPerRow: req.VIPSeatsPerRow,
		VIPRows:        req.VIPRows,
	}
	id, err := h.Stadiums.Create(ctx, s)
	if err != nil {
		if errors.Is(err, repository.ErrStadiumExists) {
			return fieldError(c, http.StatusConflict, codeConflict, "name", "A stadium with that name already exists")
		}
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to create stadium; retry")
	}
	s.ID = id
	return c.JSON(http.StatusCreated, toStadiumResp(s))
}
