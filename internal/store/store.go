// Package store holds the wardrobe entity stores. Each store owns one
// collection, reads it through the storage adapter, and writes the whole
// collection back on every mutation.
package store

import (
	"time"

	"github.com/rs/xid"

	"github.com/erazemk/omara/internal/storage"
)

// Option configures a store.
type Option func(*base)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

// WithIDs replaces the identifier generator.
func WithIDs(gen func() string) Option {
	return func(b *base) { b.newID = gen }
}

// NewID returns a globally unique, time-ordered identifier.
func NewID() string {
	return xid.New().String()
}

type base struct {
	kv    *storage.Adapter
	now   func() time.Time
	newID func() string
}

func newBase(kv *storage.Adapter, opts []Option) base {
	b := base{kv: kv, now: time.Now, newID: NewID}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b base) timestamp() time.Time {
	return b.now().UTC()
}
