package middleware

// identity.go loads the authenticated user's database record after the
// JWT has been validated.  The role and authorized flag must come from
// the database rather than the token: an admin may authorize a user
// mid-session and the grant has to take effect on the next request.

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/omarhegazy/matchday/internal/model"
	"github.com/omarhegazy/matchday/internal/repository"
)

// contextUserKey is the context key under which the loaded user row is
// stored for handlers and the access-rule middleware.
const contextUserKey = "current_user"

// LoadIdentity returns a middleware that resolves the JWT subject to a
// user row.  A token whose subject no longer exists (deleted account)
// is rejected with 401.
func LoadIdentity(users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := c.Get("user_id").(string)
			if !ok || id == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.GetByID(ctx, id)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			c.Set(contextUserKey, u)
			return next(c)
		}
	}
}

// CurrentUser returns the user record loaded by LoadIdentity, or nil
// when the request is unauthenticated.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(contextUserKey).(*model.User)
	return u
}
