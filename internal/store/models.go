package store

import "time"

// Entry is one stored key in a profile namespace.
type Entry struct {
	Namespace string
	Key       string
	Value     string
	UpdatedAt time.Time
}
