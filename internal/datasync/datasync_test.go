package datasync

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/omara/internal/apperror"
	"github.com/erazemk/omara/internal/db"
	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/storage"
	"github.com/erazemk/omara/internal/store"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(t *testing.T) (*Manager, *storage.Adapter) {
	t.Helper()
	kv := storage.NewAdapter(storage.NewSQLite(db.NewTestDB(t)), quietLogger())
	m := NewManager(kv, WithClock(func() time.Time { return testNow }), WithLogger(quietLogger()))
	return m, kv
}

func TestInitializeEmptyStorageSeeds(t *testing.T) {
	ctx := context.Background()
	m, kv := newTestManager(t)

	data, err := m.Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SeedItems(), data.Items)
	assert.Equal(t, model.SeedCategories(), data.Categories)
	assert.Equal(t, model.SeedCategoryImages(), data.CategoryImages)
	assert.Equal(t, CurrentVersion, data.Version)
	assert.Equal(t, testNow.UnixMilli(), data.LastSync)

	version, ok := kv.ReadString(ctx, storage.KeyDataVersion)
	require.True(t, ok)
	assert.Equal(t, CurrentVersion, version)
}

func TestInitializeVersionMismatchResets(t *testing.T) {
	ctx := context.Background()
	m, kv := newTestManager(t)

	items := store.NewItemStore(kv)
	_, err := items.Create(ctx, "Hats", model.ItemInput{Name: "Beanie"})
	require.NoError(t, err)
	storage.Write(ctx, kv, storage.KeyCategories, []string{"Hats"})
	kv.WriteString(ctx, storage.KeyDataVersion, "0.9.0")

	data, err := m.Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SeedItems(), data.Items)
	assert.Equal(t, model.SeedCategories(), data.Categories)

	hats, err := items.List(ctx, "Hats")
	require.NoError(t, err)
	assert.Empty(t, hats)
	assert.Equal(t, model.SeedCategories(), m.LoadCategories(ctx))
}

func TestInitializeKeepsCurrentData(t *testing.T) {
	ctx := context.Background()
	m, kv := newTestManager(t)

	_, err := m.Initialize(ctx)
	require.NoError(t, err)
	require.NoError(t, m.AddCategory(ctx, "Hats", ""))
	_, err = store.NewItemStore(kv).Create(ctx, "Hats", model.ItemInput{Name: "Beanie"})
	require.NoError(t, err)

	data, err := m.Initialize(ctx)
	require.NoError(t, err)
	assert.Len(t, data.Items, len(model.SeedItems())+1)
	assert.Contains(t, data.Categories, "Hats")
	assert.Equal(t, model.DefaultCategoryImage, data.CategoryImages["Hats"])
}

func TestLoadCorruptValuesFallBackToSeed(t *testing.T) {
	ctx := context.Background()
	m, kv := newTestManager(t)

	kv.WriteString(ctx, storage.KeyCategoryItems, "definitely not json")
	kv.WriteString(ctx, storage.KeyCategories, "[")
	kv.WriteString(ctx, storage.KeyCategoryImages, "42")

	assert.Equal(t, model.SeedItems(), m.LoadItems(ctx))
	assert.Equal(t, model.SeedCategories(), m.LoadCategories(ctx))
	assert.Equal(t, model.SeedCategoryImages(), m.LoadCategoryImages(ctx))
}

func TestExportIsIndented(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	_, err := m.ResetToDefaults(ctx)
	require.NoError(t, err)

	out, err := m.Export(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "{\n  \"items\": ["))

	var data model.SyncData
	require.NoError(t, json.Unmarshal(out, &data))
	assert.Equal(t, CurrentVersion, data.Version)
	assert.Equal(t, testNow.UnixMilli(), data.LastSync)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, kv := newTestManager(t)
	_, err := m.ResetToDefaults(ctx)
	require.NoError(t, err)

	_, err = store.NewItemStore(kv).Create(ctx, "Tops", model.ItemInput{Name: "Linen Shirt", Tags: []string{"summer"}})
	require.NoError(t, err)
	require.NoError(t, m.AddCategory(ctx, "Hats", "https://example.com/hat.jpg"))

	before := m.LoadItems(ctx)
	exported, err := m.Export(ctx)
	require.NoError(t, err)

	other, _ := newTestManager(t)
	require.True(t, other.Import(ctx, exported))

	assert.Equal(t, before, other.LoadItems(ctx))
	assert.ElementsMatch(t, m.LoadCategories(ctx), other.LoadCategories(ctx))
	assert.Equal(t, m.LoadCategoryImages(ctx), other.LoadCategoryImages(ctx))
}

func TestImportRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{oops"},
		{"missing items", `{"categories": [], "categoryImages": {}}`},
		{"missing categories", `{"items": [], "categoryImages": {}}`},
		{"missing images", `{"items": [], "categories": []}`},
		{"null items", `{"items": null, "categories": [], "categoryImages": {}}`},
		{"items not a list", `{"items": 5, "categories": [], "categoryImages": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			m, _ := newTestManager(t)
			_, err := m.ResetToDefaults(ctx)
			require.NoError(t, err)

			assert.False(t, m.Import(ctx, []byte(tt.data)))
			assert.Equal(t, model.SeedItems(), m.LoadItems(ctx))
			assert.Equal(t, model.SeedCategories(), m.LoadCategories(ctx))
		})
	}
}

func TestImportAcceptsEmptySections(t *testing.T) {
	ctx := context.Background()
	m, kv := newTestManager(t)
	_, err := m.ResetToDefaults(ctx)
	require.NoError(t, err)

	require.True(t, m.Import(ctx, []byte(`{"items": [], "categories": [], "categoryImages": {}, "version": "0.9.0"}`)))
	assert.Empty(t, m.LoadItems(ctx))
	assert.Empty(t, m.LoadCategories(ctx))

	version, _ := kv.ReadString(ctx, storage.KeyDataVersion)
	assert.Equal(t, CurrentVersion, version)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	m, kv := newTestManager(t)
	_, err := m.ResetToDefaults(ctx)
	require.NoError(t, err)
	storage.Write(ctx, kv, storage.KeyOutfits, []model.Outfit{{ID: "o1", Name: "x"}})

	m.ClearAll(ctx)

	keys, err := kv.Backend().Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	stats := m.Stats(ctx)
	assert.Equal(t, Never, stats.LastSync)
	assert.Equal(t, UnknownVersion, stats.Version)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	_, err := m.ResetToDefaults(ctx)
	require.NoError(t, err)

	stats := m.Stats(ctx)
	assert.Equal(t, 3, stats.ItemCount)
	assert.Equal(t, 10, stats.CategoryCount)
	assert.Equal(t, CurrentVersion, stats.Version)
	assert.Equal(t, testNow.Local().Format(time.DateTime), stats.LastSync)
}

func TestAddCategoryDuplicate(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	_, err := m.ResetToDefaults(ctx)
	require.NoError(t, err)

	err = m.AddCategory(ctx, "jeans", "https://example.com/other.jpg")
	assert.ErrorIs(t, err, apperror.ErrConflict)

	assert.Equal(t, model.SeedCategories(), m.LoadCategories(ctx))
	assert.Equal(t, model.SeedCategoryImages(), m.LoadCategoryImages(ctx))
}

func TestDeleteCategoryCascades(t *testing.T) {
	ctx := context.Background()
	m, kv := newTestManager(t)
	_, err := m.ResetToDefaults(ctx)
	require.NoError(t, err)

	items := store.NewItemStore(kv)
	_, err = items.Create(ctx, "Jackets", model.ItemInput{Name: "Rain Jacket"})
	require.NoError(t, err)

	removed, err := m.DeleteCategory(ctx, "jackets")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	for _, it := range m.LoadItems(ctx) {
		assert.False(t, model.SameCategory(it.Category, "Jackets"), "item %s survived", it.ID)
	}
	assert.NotContains(t, m.LoadCategories(ctx), "Jackets")
	_, ok := model.LookupCategory(m.LoadCategoryImages(ctx), "Jackets")
	assert.False(t, ok)
}

func TestSavesRefreshLastSync(t *testing.T) {
	ctx := context.Background()
	m, kv := newTestManager(t)
	_, err := m.ResetToDefaults(ctx)
	require.NoError(t, err)

	later := testNow.Add(time.Hour)
	m.now = func() time.Time { return later }

	require.NoError(t, m.SaveCategories(ctx, []string{"Tops", "tops", " Hats "}))
	assert.Equal(t, []string{"Tops", "Hats"}, m.LoadCategories(ctx))

	require.NoError(t, m.SaveCategoryImages(ctx, nil))
	assert.Empty(t, m.LoadCategoryImages(ctx))

	require.NoError(t, m.SaveItems(ctx, model.SeedItems()[:1]))
	assert.Len(t, m.LoadItems(ctx), 1)

	raw, ok := kv.ReadString(ctx, storage.KeyLastSync)
	require.True(t, ok)
	assert.Equal(t, strconv.FormatInt(later.UnixMilli(), 10), raw)
}
