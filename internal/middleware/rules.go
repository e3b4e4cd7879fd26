package middleware

// rules.go declares endpoint authorization as data instead of nested
// predicate trees.  Each resource+method pair maps to an accessRule;
// the Allow function evaluating a rule is pure and unit-testable
// without any request pipeline.

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/omarhegazy/matchday/internal/model"
)

// Resource names used as keys in the rule table.
const (
	ResourceMatches      = "matches"
	ResourceStadiums     = "stadiums"
	ResourceReservations = "reservations"
	ResourceUsers        = "users"
	ResourceAuthorize    = "users/authorize"
)

// accessRule states who may perform one method on one resource.
// An empty Roles set admits any authenticated role.  Authorized
// additionally requires the admin-granted approval flag (admins are
// implicitly authorized).
type accessRule struct {
	Roles      []string
	Authorized bool
}

// ruleTable is the whole authorization policy.  Reads on matches and
// stadiums are public and therefore absent; everything listed here sits
// behind authentication.
var ruleTable = map[string]map[string]accessRule{
	ResourceMatches: {
		http.MethodPost: {Roles: []string{model.RoleManager, model.RoleAdmin}, Authorized: true},
		http.MethodPut:  {Roles: []string{model.RoleManager, model.RoleAdmin}, Authorized: true},
	},
	ResourceStadiums: {
		http.MethodPost: {Roles: []string{model.RoleManager, model.RoleAdmin}, Authorized: true},
	},
	ResourceReservations: {
		http.MethodGet:    {},                 // any authenticated user may list their own tickets
		http.MethodPost:   {Authorized: true}, // booking requires the approval flag
		http.MethodDelete: {Authorized: true},
	},
	ResourceUsers: {
		http.MethodGet:    {Roles: []string{model.RoleAdmin}},
		http.MethodDelete: {Roles: []string{model.RoleAdmin}},
		http.MethodPut:    {}, // self profile update
		http.MethodPatch:  {}, // self password change
	},
	ResourceAuthorize: {
		http.MethodPatch: {Roles: []string{model.RoleAdmin}},
	},
}

// Allow reports whether a caller with the given role and approval flag
// may perform method on resource.  Unknown resource/method pairs are
// denied.
func Allow(method, resource, role string, authorized bool) bool {
	methods, ok := ruleTable[resource]
	if !ok {
		return false
	}
	rule, ok := methods[method]
	if !ok {
		return false
	}
	if rule.Authorized && !(authorized || role == model.RoleAdmin) {
		return false
	}
	if len(rule.Roles) == 0 {
		return true
	}
	for _, r := range rule.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RequireAccess returns a middleware enforcing the rule table for one
// resource.  It assumes LoadIdentity has populated the current user.
func RequireAccess(resource string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := CurrentUser(c)
			if u == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if !Allow(c.Request().Method, resource, u.Role, u.Authorized) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
