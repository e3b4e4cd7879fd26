package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/omarhegazy/matchday/internal/config"
	"github.com/omarhegazy/matchday/internal/middleware"
	"github.com/omarhegazy/matchday/internal/model"
	"github.com/omarhegazy/matchday/internal/repository"
	"github.com/omarhegazy/matchday/internal/utils"
)

// UserHandler covers the admin user directory (list, authorize, delete)
// and self-service profile and password updates.
type UserHandler struct {
	Users *repository.UserRepo
	Cfg   config.Config
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users *repository.UserRepo, cfg config.Config) *UserHandler {
	return &UserHandler{Users: users, Cfg: cfg}
}

type userResp struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Birthdate  string  `json:"birthdate"`
	Gender     string  `json:"gender"`
	City       string  `json:"city"`
	Address    *string `json:"address"`
	Role       string  `json:"role"`
	Authorized bool    `json:"authorized"`
}

func toUserResp(u *model.User) userResp {
	return userResp{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Birthdate:  u.Birthdate.Format("2006-01-02"),
		Gender:     u.Gender,
		City:       u.City,
		Address:    u.Address,
		Role:       u.Role,
		Authorized: u.Authorized,
	}
}

type userPageResp struct {
	Count int        `json:"count"`
	Page  int        `json:"page"`
	Users []userResp `json:"users"`
}

// List handles GET /users/?page=&unauthorized=.  Admin only (enforced
// by the access rules).  The unauthorized filter surfaces accounts
// still awaiting approval.
func (h *UserHandler) List(c echo.Context) error {
	page := queryInt(c, "page", 1)
	unauthorizedOnly := c.QueryParam("unauthorized") == "true"

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, total, err := h.Users.List(ctx, unauthorizedOnly, h.Cfg.UsersPerPage, page)
	if err != nil {
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to list users; retry")
	}
	if len(users) == 0 && total > 0 {
		page = repository.ClampPage(page, h.Cfg.UsersPerPage, total)
		users, total, err = h.Users.List(ctx, unauthorizedOnly, h.Cfg.UsersPerPage, page)
		if err != nil {
			return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to list users; retry")
		}
	}
	items := make([]userResp, 0, len(users))
	for i := range users {
		items = append(items, toUserResp(&users[i]))
	}
	return c.JSON(http.StatusOK, userPageResp{Count: total, Page: page, Users: items})
}

// Authorize handles PATCH /users/authorize/?user_id=.  Flipping the
// flag takes effect on the target's next request because identity is
// reloaded from the database per request, not from the JWT.
func (h *UserHandler) Authorize(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return fieldError(c, http.StatusBadRequest, codeValidation, "user_id", "This field is required")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Authorize(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fieldError(c, http.StatusNotFound, codeNotFound, "user_id", "There is no user with the given id")
		}
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to authorize; retry")
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /users/?user_id=.  Reservations and sessions
// cascade away with the row.
func (h *UserHandler) Delete(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return fieldError(c, http.StatusBadRequest, codeValidation, "user_id", "This field is required")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fieldError(c, http.StatusNotFound, codeNotFound, "user_id", "There is no user with the given id")
		}
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to delete; retry")
	}
	return c.NoContent(http.StatusNoContent)
}

type profileReq struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Birthdate string  `json:"birthdate"`
	Gender    string  `json:"gender"`
	City      string  `json:"city"`
	Address   *string `json:"address"`
}

// UpdateProfile handles PUT /users/.  Users edit only their own
// personal fields; username, email, role and the authorized flag are
// immutable here.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return fieldError(c, http.StatusBadRequest, codeValidation, "body", "invalid request body")
	}
	if n := strings.TrimSpace(req.FirstName); n == "" || len(n) > model.NameMaxLen {
		return fieldError(c, http.StatusBadRequest, codeValidation, "first_name", "This field is required")
	}
	if n := strings.TrimSpace(req.LastName); n == "" || len(n) > model.NameMaxLen {
		return fieldError(c, http.StatusBadRequest, codeValidation, "last_name", "This field is required")
	}
	birthdate, err := time.Parse("2006-01-02", req.Birthdate)
	if err != nil {
		return fieldError(c, http.StatusBadRequest, codeValidation, "birthdate", "Date must be in YYYY-MM-DD format")
	}
	if !birthdate.Before(time.Now().UTC()) {
		return fieldError(c, http.StatusBadRequest, codeValidation, "birthdate", "Birthdate must be in the past")
	}
	if !model.Genders[strings.ToLower(req.Gender)] {
		return fieldError(c, http.StatusBadRequest, codeValidation, "gender", "Not a valid gender")
	}
	if !model.Cities[strings.ToLower(req.City)] {
		return fieldError(c, http.StatusBadRequest, codeValidation, "city", "Not a valid city")
	}
	if req.Address != nil && len(*req.Address) > model.AddressMaxLen {
		return fieldError(c, http.StatusBadRequest, codeValidation, "address", "Address is too long")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Users.UpdateProfile(ctx, user.ID,
		strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName),
		birthdate, strings.ToLower(req.Gender), strings.ToLower(req.City), req.Address)
	if err != nil {
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to update profile; retry")
	}
	updated, err := h.Users.GetByID(ctx, user.ID)
	if err != nil {
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to update profile; retry")
	}
	return c.JSON(http.StatusOK, toUserResp(updated))
}

type passwordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword handles PATCH /users/.  The old password must verify
// before the new one is stored.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req passwordReq
	if err := c.Bind(&req); err != nil {
		return fieldError(c, http.StatusBadRequest, codeValidation, "body", "invalid request body")
	}
	if len(req.NewPassword) < 8 {
		return fieldError(c, http.StatusBadRequest, codeValidation, "new_password", "Password must be at least 8 characters")
	}
	if !utils.VerifyPassword(user.PasswordHash, req.OldPassword) {
		return fieldError(c, http.StatusForbidden, codeForbidden, "old_password", "Wrong password")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdatePassword(ctx, user.ID, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to change password; retry")
	}
	return c.NoContent(http.StatusNoContent)
}

// queryInt reads a positive integer query parameter with a default.
func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
