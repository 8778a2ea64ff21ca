package storage

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Storage keys. Each holds one JSON document, except KeyDataVersion and
// KeyLastSync which hold plain strings.
const (
	KeyCategoryItems  = "wardrobe_category_items"
	KeyOutfits        = "wardrobe_outfits"
	KeyCategories     = "wardrobe_categories"
	KeyCategoryImages = "wardrobe_category_images"
	KeyDataVersion    = "wardrobe_data_version"
	KeyLastSync       = "wardrobe_last_sync"
	KeyUserData       = "wardrobe_user_data"
	KeyUploadedImages = "wardrobe_uploaded_images"
	KeySessionSecret  = "wardrobe_session_secret"
)

// Keys lists every key the application writes.
var Keys = []string{
	KeyCategoryItems,
	KeyOutfits,
	KeyCategories,
	KeyCategoryImages,
	KeyDataVersion,
	KeyLastSync,
	KeyUserData,
	KeyUploadedImages,
	KeySessionSecret,
}

// Adapter reads and writes JSON values through a Backend. Storage is best
// effort: failures are logged and absorbed, never returned.
type Adapter struct {
	backend Backend
	log     *slog.Logger
}

// NewAdapter wraps backend. A nil logger means slog.Default().
func NewAdapter(backend Backend, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{backend: backend, log: log.With("component", "storage")}
}

// Backend returns the underlying backend.
func (a *Adapter) Backend() Backend {
	return a.backend
}

// Read decodes the JSON value stored under key. It returns def if the key is
// absent, unreadable, or does not decode into T.
func Read[T any](ctx context.Context, a *Adapter, key string, def T) T {
	raw, ok := a.ReadString(ctx, key)
	if !ok {
		return def
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		a.log.Warn("discarding corrupt stored value", "key", key, "error", err)
		return def
	}
	return v
}

// Write stores v as JSON under key. On failure the previous value is left in
// place and the error is logged.
func Write[T any](ctx context.Context, a *Adapter, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		a.log.Error("encoding value for storage", "key", key, "error", err)
		return
	}
	a.WriteString(ctx, key, string(data))
}

// ReadString returns the raw string stored under key.
func (a *Adapter) ReadString(ctx context.Context, key string) (string, bool) {
	raw, ok, err := a.backend.Get(ctx, key)
	if err != nil {
		a.log.Error("reading from storage", "key", key, "error", err)
		return "", false
	}
	return raw, ok
}

// WriteString stores a raw string under key.
func (a *Adapter) WriteString(ctx context.Context, key, value string) {
	if err := a.backend.Set(ctx, key, value); err != nil {
		a.log.Error("writing to storage", "key", key, "error", err)
	}
}

// Remove deletes key.
func (a *Adapter) Remove(ctx context.Context, key string) {
	if err := a.backend.Remove(ctx, key); err != nil {
		a.log.Error("removing from storage", "key", key, "error", err)
	}
}
