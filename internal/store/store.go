package store

import "context"

// Store defines durable key-value storage grouped by namespace. A namespace
// plays the role of one browser's local storage.
type Store interface {
	// Key-value operations
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
	Clear(ctx context.Context, namespace string) error
	List(ctx context.Context, namespace string) ([]*Entry, error)

	// Settings operations
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	// Lifecycle
	Close() error
}
