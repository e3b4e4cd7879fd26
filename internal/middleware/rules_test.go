package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omarhegazy/matchday/internal/model"
)

func TestAllowMatches(t *testing.T) {
	cases := []struct {
		name       string
		method     string
		role       string
		authorized bool
		want       bool
	}{
		{"authorized manager may create", http.MethodPost, model.RoleManager, true, true},
		{"unauthorized manager may not create", http.MethodPost, model.RoleManager, false, false},
		{"admin may create without flag", http.MethodPost, model.RoleAdmin, false, true},
		{"fan may not create", http.MethodPost, model.RoleFan, true, false},
		{"authorized manager may update", http.MethodPut, model.RoleManager, true, true},
		{"get is not in the table", http.MethodGet, model.RoleFan, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Allow(tc.method, ResourceMatches, tc.role, tc.authorized))
		})
	}
}

func TestAllowReservations(t *testing.T) {
	// Any authenticated role may list its own tickets.
	assert.True(t, Allow(http.MethodGet, ResourceReservations, model.RoleFan, false))
	assert.True(t, Allow(http.MethodGet, ResourceReservations, model.RoleManager, false))

	// Booking and cancellation require the approval flag.
	assert.False(t, Allow(http.MethodPost, ResourceReservations, model.RoleFan, false))
	assert.True(t, Allow(http.MethodPost, ResourceReservations, model.RoleFan, true))
	assert.False(t, Allow(http.MethodDelete, ResourceReservations, model.RoleFan, false))
	assert.True(t, Allow(http.MethodDelete, ResourceReservations, model.RoleFan, true))

	// Admins are implicitly authorized.
	assert.True(t, Allow(http.MethodPost, ResourceReservations, model.RoleAdmin, false))
}

func TestAllowUsers(t *testing.T) {
	assert.True(t, Allow(http.MethodGet, ResourceUsers, model.RoleAdmin, false))
	assert.False(t, Allow(http.MethodGet, ResourceUsers, model.RoleManager, true))
	assert.True(t, Allow(http.MethodDelete, ResourceUsers, model.RoleAdmin, false))
	assert.False(t, Allow(http.MethodDelete, ResourceUsers, model.RoleFan, true))

	// Everyone may edit their own profile and password.
	assert.True(t, Allow(http.MethodPut, ResourceUsers, model.RoleFan, false))
	assert.True(t, Allow(http.MethodPatch, ResourceUsers, model.RoleManager, false))

	assert.True(t, Allow(http.MethodPatch, ResourceAuthorize, model.RoleAdmin, false))
	assert.False(t, Allow(http.MethodPatch, ResourceAuthorize, model.RoleManager, true))
}

func TestAllowUnknownResource(t *testing.T) {
	assert.False(t, Allow(http.MethodGet, "unknown", model.RoleAdmin, true))
}
