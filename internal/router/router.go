package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/omarhegazy/matchday/internal/config"
	"github.com/omarhegazy/matchday/internal/handler"
	"github.com/omarhegazy/matchday/internal/middleware"
	"github.com/omarhegazy/matchday/internal/repository"
)

// Handlers bundles every handler the router wires.
type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Stadiums     *handler.StadiumHandler
	Matches      *handler.MatchHandler
	Reservations *handler.ReservationHandler
}

// Register wires the whole HTTP surface onto e.
//
// Three tiers of access:
//   - public: health check and the match/stadium browse endpoints, with
//     an optional Redis response cache in front;
//   - account: registration, login and refresh, no token required;
//   - protected: everything else, behind JWT validation, a per-request
//     identity reload and the declarative access rules.  Reservation
//     writes additionally pass the Redis token-bucket rate limiter.
func Register(e *echo.Echo, h *Handlers, users *repository.UserRepo, jwtSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Public browse endpoints; cache applies to GETs only and degrades
	// to a pass-through when Redis is absent.
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.GET("/matches/", h.Matches.List, cache)
	e.GET("/matches/:id/", h.Matches.Get, cache)
	e.GET("/stadiums/", h.Stadiums.List, cache)

	account := e.Group("/account")
	account.POST("/registration/", h.Auth.Register)
	account.POST("/login/", h.Auth.Login)
	account.POST("/refresh/", h.Auth.Refresh)

	authed := func(resource string) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{
			middleware.JWTAuth(jwtSecret),
			middleware.LoadIdentity(users),
			middleware.RequireAccess(resource),
		}
	}

	// Writes on matches and stadiums are manager territory; the browse
	// routes above stay public.
	e.POST("/matches/", h.Matches.Create, authed(middleware.ResourceMatches)...)
	e.PUT("/matches/:id/", h.Matches.Update, authed(middleware.ResourceMatches)...)
	e.POST("/stadiums/", h.Stadiums.Create, authed(middleware.ResourceStadiums)...)

	// Reservation routes carry the token bucket so a single account
	// cannot hammer the booking path.
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	res := e.Group("/reservations", append(authed(middleware.ResourceReservations), limiter)...)
	res.GET("/", h.Reservations.List)
	res.POST("/", h.Reservations.Reserve)
	res.DELETE("/", h.Reservations.Cancel)

	usersGrp := e.Group("/users", authed(middleware.ResourceUsers)...)
	usersGrp.GET("/", h.Users.List)
	usersGrp.PUT("/", h.Users.UpdateProfile)
	usersGrp.PATCH("/", h.Users.ChangePassword)
	usersGrp.DELETE("/", h.Users.Delete)

	e.PATCH("/users/authorize/", h.Users.Authorize, authed(middleware.ResourceAuthorize)...)
}
