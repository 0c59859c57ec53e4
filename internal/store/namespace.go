package store

import (
	"context"
	"errors"

	"github.com/fliptech/ftab/internal/env"
)

// DefaultNamespace is the profile used by the CLI when none is given.
const DefaultNamespace = "default"

// Namespace adapts one namespace of a Store to env.Storage.
type Namespace struct {
	store Store
	name  string
}

var _ env.Storage = (*Namespace)(nil)

func NewNamespace(s Store, name string) *Namespace {
	return &Namespace{store: s, name: name}
}

func (n *Namespace) Name() string {
	return n.name
}

func (n *Namespace) Get(key string) (string, bool, error) {
	v, err := n.store.Get(context.Background(), n.name, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (n *Namespace) Set(key, value string) error {
	return n.store.Set(context.Background(), n.name, key, value)
}

func (n *Namespace) Remove(key string) error {
	return n.store.Delete(context.Background(), n.name, key)
}

func (n *Namespace) Clear() error {
	return n.store.Clear(context.Background(), n.name)
}
