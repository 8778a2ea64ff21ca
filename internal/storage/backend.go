// Package storage is the key-value persistence layer under the wardrobe
// stores. A Backend holds raw strings; the Adapter layers JSON encoding and
// the fail-soft error policy on top of it.
package storage

import "context"

// Backend is a string key-value store.
type Backend interface {
	// Get returns the value stored under key. ok is false if the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
