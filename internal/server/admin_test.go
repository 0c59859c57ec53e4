package server_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fliptech/ftab/internal/env"
	"github.com/fliptech/ftab/internal/server"
)

func TestAdmin_RequiresToken(t *testing.T) {
	srv, _ := setupTestServer(t)
	b := newBrowser(t, srv.Handler(), "fliptechpro.com")

	assert.Equal(t, http.StatusUnauthorized, b.do(http.MethodGet, "/admin/overrides", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, b.do(http.MethodGet, "/admin?token=wrong", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, b.do(http.MethodGet, "/admin/overrides", nil, "X-Admin-Token", "wrong").Code)
}

func TestAdmin_TokenQuerySetsCookie(t *testing.T) {
	srv, _ := setupTestServer(t)
	b := newBrowser(t, srv.Handler(), "fliptechpro.com")

	w := b.do(http.MethodGet, "/admin?token="+testToken, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))

	w = b.do(http.MethodGet, "/admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "hero_section")
	assert.Contains(t, body, "fliptechpro.com (smb)")
	assert.NotContains(t, body, "pricing_section")
}

func TestAdmin_OverrideLifecycle(t *testing.T) {
	srv, _ := setupTestServer(t)
	b := newBrowser(t, srv.Handler(), "fliptechpro.com")

	w := b.admin(http.MethodPost, "/admin/overrides", server.OverrideRequest{TestID: "hero_section", VariantID: "bold"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp server.OverridesResponse
	decode(t, w, &resp)
	assert.Equal(t, map[string]string{"hero_section": "bold"}, resp.Overrides)
	require.Contains(t, b.cookies, env.OverrideKey("hero_section"))

	for i := 0; i < 5; i++ {
		var a server.AssignmentResponse
		decode(t, b.do(http.MethodGet, "/api/assign?test=hero_section", nil), &a)
		assert.Equal(t, "bold", a.VariantID)
	}

	w = b.admin(http.MethodDelete, "/admin/overrides?test=hero_section", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Empty(t, resp.Overrides)
	assert.NotContains(t, b.cookies, env.OverrideKey("hero_section"))
}

func TestAdmin_OverrideValidation(t *testing.T) {
	srv, _ := setupTestServer(t)
	b := newBrowser(t, srv.Handler(), "fliptechpro.com")

	assert.Equal(t, http.StatusBadRequest, b.admin(http.MethodPost, "/admin/overrides", server.OverrideRequest{TestID: "pricing_section", VariantID: "control"}).Code)
	assert.Equal(t, http.StatusBadRequest, b.admin(http.MethodPost, "/admin/overrides", server.OverrideRequest{TestID: "hero_section"}).Code)
	assert.Equal(t, http.StatusBadRequest, b.admin(http.MethodDelete, "/admin/overrides", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, b.admin(http.MethodPut, "/admin/overrides", nil).Code)
}

func TestAdmin_Mode(t *testing.T) {
	srv, _ := setupTestServer(t)
	b := newBrowser(t, srv.Handler(), "fliptechpro.com")

	w := b.admin(http.MethodPost, "/admin/mode", map[string]bool{"enabled": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", b.cookies[env.AdminModeKey].Value)

	var resp server.OverridesResponse
	decode(t, b.admin(http.MethodGet, "/admin/overrides", nil), &resp)
	assert.True(t, resp.AdminMode)
}

func TestAdmin_IdentityReset(t *testing.T) {
	srv, _ := setupTestServer(t)
	b := newBrowser(t, srv.Handler(), "fliptechpro.com")

	var before server.AssignmentResponse
	decode(t, b.do(http.MethodGet, "/api/assign?test=hero_section", nil), &before)
	b.admin(http.MethodPost, "/admin/overrides", server.OverrideRequest{TestID: "cta_test", VariantID: "urgent"})

	w := b.admin(http.MethodPost, "/admin/identity/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reset server.IdentityResetResponse
	decode(t, w, &reset)
	assert.True(t, reset.Reset)
	assert.Equal(t, []string{"cta_test"}, reset.OverridesCleared)
	assert.Empty(t, reset.OverridesFailed)
	assert.NotContains(t, b.cookies, env.UserIDKey)
	assert.NotContains(t, b.cookies, env.OverrideKey("cta_test"))

	var after server.AssignmentResponse
	decode(t, b.do(http.MethodGet, "/api/assign?test=hero_section", nil), &after)
	assert.NotEqual(t, before.UserID, after.UserID)
}
