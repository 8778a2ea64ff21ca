// Package datasync owns the default dataset, the stored data version, and
// whole-wardrobe backup, restore and reset.
//
// Stored data is trusted only when its version tag equals CurrentVersion.
// Any other tag, or none, replaces everything with the seed data. There is no
// incremental migration between versions.
package datasync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/erazemk/omara/internal/apperror"
	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/storage"
	"github.com/erazemk/omara/internal/store"
)

// CurrentVersion is the data version this build reads and writes.
const CurrentVersion = "1.0.0"

// Never is reported as the last sync time when none is stored.
const Never = "Never"

// UnknownVersion is reported when no version tag is stored.
const UnknownVersion = "unknown"

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// Manager coordinates the item and category stores for operations that span
// both of them.
type Manager struct {
	kv         *storage.Adapter
	items      *store.ItemStore
	categories *store.CategoryStore
	now        func() time.Time
	log        *slog.Logger
}

// NewManager returns a Manager over kv.
func NewManager(kv *storage.Adapter, opts ...Option) *Manager {
	m := &Manager{kv: kv, now: time.Now, log: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With("component", "datasync")
	m.items = store.NewItemStore(kv, store.WithClock(m.now))
	m.categories = store.NewCategoryStore(kv, store.WithClock(m.now))
	return m
}

// Initialize returns the stored wardrobe, resetting it to the defaults first
// if the stored version is missing or different from CurrentVersion.
func (m *Manager) Initialize(ctx context.Context) (*model.SyncData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	version, ok := m.kv.ReadString(ctx, storage.KeyDataVersion)
	if !ok || version != CurrentVersion {
		m.log.Info("stored data version does not match, resetting to defaults",
			"stored", version, "current", CurrentVersion)
		return m.ResetToDefaults(ctx)
	}

	last, ok := m.lastSync(ctx)
	if !ok {
		last = m.now().UnixMilli()
	}
	return &model.SyncData{
		Items:          m.LoadItems(ctx),
		Categories:     m.LoadCategories(ctx),
		CategoryImages: m.LoadCategoryImages(ctx),
		Version:        CurrentVersion,
		LastSync:       last,
	}, nil
}

// ResetToDefaults overwrites the items, categories and category images with
// the seed data and stamps the current version.
func (m *Manager) ResetToDefaults(ctx context.Context) (*model.SyncData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := &model.SyncData{
		Items:          model.SeedItems(),
		Categories:     model.SeedCategories(),
		CategoryImages: model.SeedCategoryImages(),
		Version:        CurrentVersion,
		LastSync:       m.now().UnixMilli(),
	}
	if err := m.save(ctx, data); err != nil {
		return nil, err
	}
	return data, nil
}

// LoadItems returns every stored item, or the seed items if none are stored
// or the stored value is unreadable.
func (m *Manager) LoadItems(ctx context.Context) []model.ClothingItem {
	idx := storage.Read(ctx, m.kv, storage.KeyCategoryItems, model.IndexItems(model.SeedItems()))
	return idx.All()
}

// LoadCategories returns the category list, or the seed categories.
func (m *Manager) LoadCategories(ctx context.Context) []string {
	names := storage.Read(ctx, m.kv, storage.KeyCategories, model.SeedCategories())
	if names == nil {
		return model.SeedCategories()
	}
	return names
}

// LoadCategoryImages returns the category image map, or the seed images.
func (m *Manager) LoadCategoryImages(ctx context.Context) map[string]string {
	images := storage.Read(ctx, m.kv, storage.KeyCategoryImages, model.SeedCategoryImages())
	if images == nil {
		return model.SeedCategoryImages()
	}
	return images
}

// SaveItems replaces every stored item.
func (m *Manager) SaveItems(ctx context.Context, items []model.ClothingItem) error {
	if err := m.items.Replace(ctx, items); err != nil {
		return err
	}
	m.Touch(ctx)
	return nil
}

// SaveCategories replaces the category list.
func (m *Manager) SaveCategories(ctx context.Context, names []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	storage.Write(ctx, m.kv, storage.KeyCategories, model.UniqueCategories(names))
	m.Touch(ctx)
	return nil
}

// SaveCategoryImages replaces the category image map.
func (m *Manager) SaveCategoryImages(ctx context.Context, images map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if images == nil {
		images = map[string]string{}
	}
	storage.Write(ctx, m.kv, storage.KeyCategoryImages, images)
	m.Touch(ctx)
	return nil
}

// Touch records now as the last sync time.
func (m *Manager) Touch(ctx context.Context) {
	m.kv.WriteString(ctx, storage.KeyLastSync, strconv.FormatInt(m.now().UnixMilli(), 10))
}

func (m *Manager) save(ctx context.Context, data *model.SyncData) error {
	if err := m.items.Replace(ctx, data.Items); err != nil {
		return fmt.Errorf("saving items: %w", err)
	}
	storage.Write(ctx, m.kv, storage.KeyCategories, data.Categories)
	storage.Write(ctx, m.kv, storage.KeyCategoryImages, data.CategoryImages)
	m.kv.WriteString(ctx, storage.KeyDataVersion, data.Version)
	m.kv.WriteString(ctx, storage.KeyLastSync, strconv.FormatInt(data.LastSync, 10))
	return nil
}

func (m *Manager) lastSync(ctx context.Context) (int64, bool) {
	raw, ok := m.kv.ReadString(ctx, storage.KeyLastSync)
	if !ok {
		return 0, false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		m.log.Warn("ignoring unreadable last sync time", "value", raw, "error", err)
		return 0, false
	}
	return ms, true
}

// Export returns the current wardrobe as indented JSON.
func (m *Manager) Export(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := model.SyncData{
		Items:          m.LoadItems(ctx),
		Categories:     m.LoadCategories(ctx),
		CategoryImages: m.LoadCategoryImages(ctx),
		Version:        CurrentVersion,
		LastSync:       m.now().UnixMilli(),
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return out, nil
}

// snapshot mirrors model.SyncData with every field optional, so that missing
// sections can be told apart from empty ones.
type snapshot struct {
	Items          *[]model.ClothingItem `json:"items"`
	Categories     *[]string             `json:"categories"`
	CategoryImages *map[string]string    `json:"categoryImages"`
	Version        string                `json:"version"`
	LastSync       int64                 `json:"lastSync"`
}

// Import replaces the stored wardrobe with an exported one. It reports false,
// leaving the stored data untouched, if data does not parse or lacks any of
// the items, categories or categoryImages sections.
func (m *Manager) Import(ctx context.Context, data []byte) bool {
	if ctx.Err() != nil {
		return false
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		m.log.Error("import failed", "error", err)
		return false
	}
	if snap.Items == nil || snap.Categories == nil || snap.CategoryImages == nil {
		m.log.Error("import failed", "error", "invalid data structure")
		return false
	}

	lastSync := snap.LastSync
	if lastSync == 0 {
		lastSync = m.now().UnixMilli()
	}
	if snap.Version != "" && snap.Version != CurrentVersion {
		m.log.Warn("importing data from another version", "version", snap.Version)
	}

	err := m.save(ctx, &model.SyncData{
		Items:          *snap.Items,
		Categories:     model.UniqueCategories(*snap.Categories),
		CategoryImages: *snap.CategoryImages,
		Version:        CurrentVersion,
		LastSync:       lastSync,
	})
	if err != nil {
		m.log.Error("import failed", "error", err)
		return false
	}
	return true
}

// ClearAll removes every key the application writes.
func (m *Manager) ClearAll(ctx context.Context) {
	for _, key := range storage.Keys {
		m.kv.Remove(ctx, key)
	}
}

// Stats summarizes the stored data. The last sync time is formatted in the
// local time zone.
func (m *Manager) Stats(ctx context.Context) model.DataStats {
	stats := model.DataStats{
		ItemCount:     len(m.LoadItems(ctx)),
		CategoryCount: len(m.LoadCategories(ctx)),
		LastSync:      Never,
		Version:       UnknownVersion,
	}
	if ms, ok := m.lastSync(ctx); ok {
		stats.LastSync = time.UnixMilli(ms).Local().Format(time.DateTime)
	}
	if v, ok := m.kv.ReadString(ctx, storage.KeyDataVersion); ok && v != "" {
		stats.Version = v
	}
	return stats
}

// AddCategory adds a category with its image. An empty imageURL uses the
// default category image. Adding a name that already exists, in any case,
// fails with apperror.ErrConflict and changes nothing.
func (m *Manager) AddCategory(ctx context.Context, name, imageURL string) error {
	added, err := m.categories.Add(ctx, name)
	if err != nil {
		return err
	}
	if !added {
		return apperror.Conflict("category", name)
	}

	if imageURL == "" {
		imageURL = model.DefaultCategoryImage
	}
	if err := m.categories.SetImage(ctx, name, imageURL); err != nil {
		return err
	}
	m.Touch(ctx)
	return nil
}

// DeleteCategory removes a category, its image, and every item filed under
// it. It returns the number of items removed.
func (m *Manager) DeleteCategory(ctx context.Context, name string) (int, error) {
	if _, err := m.categories.Remove(ctx, name); err != nil {
		return 0, err
	}
	if err := m.categories.RemoveImage(ctx, name); err != nil {
		return 0, err
	}
	removed, err := m.items.DeleteCategory(ctx, name)
	if err != nil {
		return 0, err
	}
	m.log.Info("deleted category", "category", name, "items", removed)
	m.Touch(ctx)
	return removed, nil
}
