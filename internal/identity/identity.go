// Package identity keeps one stable anonymous id per visitor storage context.
package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fliptech/ftab/internal/env"
)

const suffixLen = 9

// Store generates and persists the visitor id.
type Store struct {
	storage env.Storage
	now     func() time.Time
	suffix  func() string
}

type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSuffix overrides the random suffix source.
func WithSuffix(fn func() string) Option {
	return func(s *Store) { s.suffix = fn }
}

func New(storage env.Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		now:     time.Now,
		suffix:  randomSuffix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreateUserID returns the stored id, creating and persisting one if
// absent. When storage is unavailable a fresh id is still returned; it just
// won't survive to the next call.
func (s *Store) GetOrCreateUserID() string {
	if s.storage != nil {
		if id, ok, err := s.storage.Get(env.UserIDKey); err == nil && ok && id != "" {
			return id
		}
	}

	id := fmt.Sprintf("user_%d_%s", s.now().UnixMilli(), s.suffix())
	if s.storage != nil {
		_ = s.storage.Set(env.UserIDKey, id)
	}
	return id
}

// ResetUserID forgets the stored id. The next GetOrCreateUserID call mints
// a new one, so callers should re-resolve assignments afterwards.
func (s *Store) ResetUserID() error {
	if s.storage == nil {
		return env.ErrUnavailable
	}
	if err := s.storage.Remove(env.UserIDKey); err != nil {
		return fmt.Errorf("failed to reset user id: %w", err)
	}
	return nil
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLen]
}
