package identity

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fliptech/ftab/internal/env"
)

var userIDPattern = regexp.MustCompile(`^user_\d+_[0-9a-f]{9}$`)

func TestGetOrCreateUserID_Stable(t *testing.T) {
	s := New(env.NewMemoryStorage())

	first := s.GetOrCreateUserID()
	second := s.GetOrCreateUserID()

	assert.Equal(t, first, second)
	assert.Regexp(t, userIDPattern, first)
}

func TestGetOrCreateUserID_Format(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	s := New(env.NewMemoryStorage(),
		WithClock(func() time.Time { return at }),
		WithSuffix(func() string { return "abc123xyz" }),
	)

	assert.Equal(t, "user_1700000000123_abc123xyz", s.GetOrCreateUserID())
}

func TestGetOrCreateUserID_ReadsExisting(t *testing.T) {
	storage := env.NewMemoryStorage()
	require.NoError(t, storage.Set(env.UserIDKey, "user_123"))

	assert.Equal(t, "user_123", New(storage).GetOrCreateUserID())
}

func TestGetOrCreateUserID_SharedStorage(t *testing.T) {
	storage := env.NewMemoryStorage()
	a := New(storage)
	b := New(storage)

	assert.Equal(t, a.GetOrCreateUserID(), b.GetOrCreateUserID())
}

func TestGetOrCreateUserID_StorageUnavailable(t *testing.T) {
	s := New(env.UnavailableStorage{})

	id := s.GetOrCreateUserID()
	assert.Regexp(t, userIDPattern, id)
	assert.NotEqual(t, id, s.GetOrCreateUserID(), "degraded mode mints a new id per call")
}

func TestGetOrCreateUserID_NilStorage(t *testing.T) {
	assert.Regexp(t, userIDPattern, New(nil).GetOrCreateUserID())
}

func TestResetUserID(t *testing.T) {
	storage := env.NewMemoryStorage()
	n := 0
	s := New(storage, WithSuffix(func() string {
		n++
		return []string{"aaaaaaaaa", "bbbbbbbbb"}[n-1]
	}))

	first := s.GetOrCreateUserID()
	require.NoError(t, s.ResetUserID())
	_, ok, _ := storage.Get(env.UserIDKey)
	assert.False(t, ok)

	second := s.GetOrCreateUserID()
	assert.NotEqual(t, first, second)
	assert.Equal(t, second, s.GetOrCreateUserID())
}

func TestResetUserID_Unavailable(t *testing.T) {
	assert.ErrorIs(t, New(env.UnavailableStorage{}).ResetUserID(), env.ErrUnavailable)
	assert.ErrorIs(t, New(nil).ResetUserID(), env.ErrUnavailable)
}
