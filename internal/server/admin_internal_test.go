package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fliptech/ftab/internal/config"
	"github.com/fliptech/ftab/internal/env"
	"github.com/fliptech/ftab/internal/site"
)

// stuckOverrides refuses to remove override keys.
type stuckOverrides struct {
	*env.MemoryStorage
}

func (s stuckOverrides) Remove(key string) error {
	if strings.HasPrefix(key, env.OverrideKeyPrefix) {
		return errors.New("write blocked")
	}
	return s.MemoryStorage.Remove(key)
}

func TestIdentityReset_ReportsOverridesThatCouldNotBeCleared(t *testing.T) {
	cat := config.Default()
	reg, err := cat.Registry()
	require.NoError(t, err)
	res, err := cat.Resolver()
	require.NoError(t, err)

	obs, logs := observer.New(zapcore.WarnLevel)
	core := &site.Core{Registry: reg, Resolver: res, Logger: zap.NewNop()}
	srv := New(core, 0, "", WithLogger(zap.New(obs)))

	storage := stuckOverrides{env.NewMemoryStorage()}
	require.NoError(t, storage.Set(env.OverrideKey("cta_test"), "urgent"))
	client := core.NewClient(env.Environment{Storage: storage})
	client.UserID()

	req := httptest.NewRequest(http.MethodPost, "/admin/identity/reset", nil)
	req = req.WithContext(context.WithValue(req.Context(), visitorKey{}, client))
	w := httptest.NewRecorder()
	srv.handleIdentityReset(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp IdentityResetResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Reset)
	assert.Empty(t, resp.OverridesCleared)
	assert.Equal(t, []string{"cta_test"}, resp.OverridesFailed)

	_, ok, _ := storage.Get(env.UserIDKey)
	assert.False(t, ok)

	entries := logs.FilterMessage("failed to clear override").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "cta_test", entries[0].ContextMap()["experiment"])
}
