package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/omarhegazy/matchday/internal/config"
	"github.com/omarhegazy/matchday/internal/model"
	"github.com/omarhegazy/matchday/internal/repository"
	"github.com/omarhegazy/matchday/internal/utils"
)

// AuthHandler owns registration, login and refresh-token rotation.
type AuthHandler struct {
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Cfg    config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users *repository.UserRepo, tokens *repository.TokenRepo, cfg config.Config) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens, Cfg: cfg}
}

type registerReq struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Birthdate string  `json:"birthdate"` // YYYY-MM-DD
	Gender    string  `json:"gender"`
	City      string  `json:"city"`
	Address   *string `json:"address"`
	Role      string  `json:"role"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPairResp struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Register handles POST /account/registration/.  New accounts start
// unauthorized; an admin flips the flag later.  Admin accounts cannot
// be self-registered.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fieldError(c, http.StatusBadRequest, codeValidation, "body", "invalid request body")
	}
	if field, msg := validateRegistration(&req); field != "" {
		return fieldError(c, http.StatusBadRequest, codeValidation, field, msg)
	}
	birthdate, _ := time.Parse("2006-01-02", req.Birthdate) // validated above

	u := &model.User{
		Username:  strings.TrimSpace(req.Username),
		Email:     req.Email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Birthdate: birthdate,
		Gender:    strings.ToLower(req.Gender),
		City:      strings.ToLower(req.City),
		Address:   req.Address,
		Role:      strings.ToLower(req.Role),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Users.Create(ctx, u, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return fieldError(c, http.StatusConflict, codeConflict, "username", "A user with that username already exists")
		case errors.Is(err, repository.ErrEmailExists):
			return fieldError(c, http.StatusConflict, codeConflict, "email", "A user with that email already exists")
		default:
			return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to register; retry")
		}
	}

	created, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to register; retry")
	}
	return c.JSON(http.StatusCreated, toUserResp(created))
}

// Login handles POST /account/login/.  A successful login revokes any
// prior session before issuing a fresh access/refresh pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fieldError(c, http.StatusBadRequest, codeValidation, "body", "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return fieldError(c, http.StatusBadRequest, codeValidation, "username", "Username and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fieldError(c, http.StatusUnauthorized, codeValidation, "detail", "Invalid username or password")
		}
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to log in; retry")
	}
	if !utils.VerifyPassword(user.PasswordHash, req.Password) {
		return fieldError(c, http.StatusUnauthorized, codeValidation, "detail", "Invalid username or password")
	}
	return h.issuePair(c, ctx, user)
}

// Refresh handles POST /account/refresh/.  The presented token is
// retired and a new pair is issued (refresh rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return fieldError(c, http.StatusBadRequest, codeValidation, "body", "invalid request body")
	}
	if req.RefreshToken == "" {
		return fieldError(c, http.StatusBadRequest, codeValidation, "refresh_token", "This field is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash := utils.HashRefreshRaw(req.RefreshToken)
	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fieldError(c, http.StatusUnauthorized, codeValidation, "refresh_token", "Invalid or expired refresh token")
		}
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to refresh; retry")
	}
	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fieldError(c, http.StatusUnauthorized, codeValidation, "refresh_token", "Invalid or expired refresh token")
		}
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to refresh; retry")
	}
	return h.issuePair(c, ctx, user)
}

// issuePair mints an access token and a fresh refresh token for user,
// storing only the refresh token's hash.  StoreRefresh revokes the
// previous session so at most one refresh token stays live per user.
func (h *AuthHandler) issuePair(c echo.Context, ctx context.Context, user *model.User) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.ID, user.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to issue tokens; retry")
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to issue tokens; retry")
	}
	if err := h.Tokens.StoreRefresh(ctx, user.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return fieldError(c, http.StatusServiceUnavailable, codeUnavailable, "detail", "Temporarily unable to issue tokens; retry")
	}
	return c.JSON(http.StatusOK, tokenPairResp{
		AccessToken:  access.Token,
		RefreshToken: refresh.Raw,
		ExpiresAt:    access.Exp,
	})
}

// validateRegistration checks every registration field and returns the
// first offending field with a message, or ("", "") when valid.
func validateRegistration(req *registerReq) (field, msg string) {
	if strings.TrimSpace(req.Username) == "" {
		return "username", "This field is required"
	}
	if !strings.Contains(req.Email, "@") {
		return "email", "Enter a valid email address"
	}
	if len(req.Password) < 8 {
		return "password", "Password must be at least 8 characters"
	}
	if n := strings.TrimSpace(req.FirstName); n == "" || len(n) > model.NameMaxLen {
		return "first_name", "This field is required"
	}
	if n := strings.TrimSpace(req.LastName); n == "" || len(n) > model.NameMaxLen {
		return "last_name", "This field is required"
	}
	birthdate, err := time.Parse("2006-01-02", req.Birthdate)
	if err != nil {
		return "birthdate", "Date must be in YYYY-MM-DD format"
	}
	if !birthdate.Before(time.Now().UTC()) {
		return "birthdate", "Birthdate must be in the past"
	}
	if !model.Genders[strings.ToLower(req.Gender)] {
		return "gender", "Not a valid gender"
	}
	if !model.Cities[strings.ToLower(req.City)] {
		return "city", "Not a valid city"
	}
	if req.Address != nil && len(*req.Address) > model.AddressMaxLen {
		return "address", "Address is too long"
	}
	switch strings.ToLower(req.Role) {
	case model.RoleFan, model.RoleManager:
	default:
		return "role", "Role must be fan or manager"
	}
	return "", ""
}
