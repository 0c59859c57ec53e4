// Package env describes the capabilities the experimentation core needs from
// its host: durable key-value storage, the current hostname and an analytics
// sink. Callers build an Environment once and pass it in explicitly.
package env

import "errors"

// Storage keys shared by the identity store and the assignment engine.
const (
	UserIDKey         = "ab_test_user_id"
	OverrideKeyPrefix = "ab_test_override_"
	AdminModeKey      = "ab_test_admin_mode"
)

// ErrUnavailable is returned by storage that cannot be read or written,
// e.g. a browser profile in privacy mode.
var ErrUnavailable = errors.New("storage unavailable")

// OverrideKey returns the storage key holding the forced variant for an experiment.
func OverrideKey(experimentID string) string {
	return OverrideKeyPrefix + experimentID
}

// Storage is client-side durable key-value storage. Writes are last-writer-wins.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Clear() error
}

// Command is the first argument of a tag-based analytics call.
type Command string

const (
	CommandConfig Command = "config"
	CommandEvent  Command = "event"
	CommandJS     Command = "js"
)

// Sink is the external analytics binding (gtag-style).
type Sink interface {
	Send(command Command, target string, params map[string]any) error
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(command Command, target string, params map[string]any) error

func (f SinkFunc) Send(command Command, target string, params map[string]any) error {
	return f(command, target, params)
}

// Environment bundles the host capabilities. Any field may be nil; the core
// degrades instead of failing.
type Environment struct {
	Storage  Storage
	Hostname func() string
	Sink     Sink
}

// CurrentHostname returns the host's hostname, or "" when none is wired.
func (e Environment) CurrentHostname() string {
	if e.Hostname == nil {
		return ""
	}
	return e.Hostname()
}

// StaticHostname returns a hostname getter that always reports host.
func StaticHostname(host string) func() string {
	return func() string { return host }
}
