package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/omara/internal/apperror"
	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/storage"
)

func TestCreateItem(t *testing.T) {
	ctx := context.Background()
	s := NewItemStore(newTestAdapter(t), fixedOpts()...)

	item, err := s.Create(ctx, "Tops", model.ItemInput{Name: "  Blue Shirt "})
	require.NoError(t, err)

	assert.Equal(t, "id-1", item.ID)
	assert.Equal(t, "Blue Shirt", item.Name)
	assert.Equal(t, "Tops", item.Category)
	assert.Equal(t, model.DefaultColor, item.Color)
	assert.Equal(t, model.SeasonAll, item.Season)
	assert.False(t, item.IsFavorite)
	assert.Equal(t, testNow, item.CreatedAt)
	assert.Equal(t, testNow, item.UpdatedAt)

	items, err := s.List(ctx, "Tops")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, *item, items[0])
}

func TestCreateItemValidation(t *testing.T) {
	ctx := context.Background()
	s := NewItemStore(newTestAdapter(t))

	rating := 7
	tests := []struct {
		name     string
		category string
		in       model.ItemInput
	}{
		{"blank name", "Tops", model.ItemInput{Name: "   "}},
		{"blank category", " ", model.ItemInput{Name: "Shirt"}},
		{"bad season", "Tops", model.ItemInput{Name: "Shirt", Season: "Monsoon"}},
		{"bad rating", "Tops", model.ItemInput{Name: "Shirt", Rating: &rating}},
		{"negative wear count", "Tops", model.ItemInput{Name: "Shirt", WearCount: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.category, tt.in)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListUnknownCategoryIsEmpty(t *testing.T) {
	s := NewItemStore(newTestAdapter(t))

	items, err := s.List(context.Background(), "Nope")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestListIgnoresCategoryCase(t *testing.T) {
	ctx := context.Background()
	s := NewItemStore(newTestAdapter(t), fixedOpts()...)

	_, err := s.Create(ctx, "Tops", model.ItemInput{Name: "A"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "tops ", model.ItemInput{Name: "B"})
	require.NoError(t, err)

	items, err := s.List(ctx, "TOPS")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "B", items[1].Name)
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()
	s := NewItemStore(newTestAdapter(t), fixedOpts()...)

	item, err := s.Create(ctx, "Tops", model.ItemInput{Name: "Shirt", Color: "Red"})
	require.NoError(t, err)

	later := testNow.Add(time.Hour)
	s.now = func() time.Time { return later }

	brand := "Acme"
	updated, err := s.Update(ctx, "Tops", item.ID, model.ItemPatch{Brand: &brand})
	require.NoError(t, err)

	assert.Equal(t, item.ID, updated.ID)
	assert.Equal(t, "Acme", updated.Brand)
	assert.Equal(t, "Red", updated.Color)
	assert.Equal(t, testNow, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)
}

func TestUpdateItemNotFound(t *testing.T) {
	s := NewItemStore(newTestAdapter(t))

	name := "x"
	_, err := s.Update(context.Background(), "Tops", "missing", model.ItemPatch{Name: &name})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "item not found with id missing", appErr.Message)
}

func TestUpdateItemRejectsBlankName(t *testing.T) {
	ctx := context.Background()
	s := NewItemStore(newTestAdapter(t), fixedOpts()...)

	item, err := s.Create(ctx, "Tops", model.ItemInput{Name: "Shirt"})
	require.NoError(t, err)

	blank := "  "
	_, err = s.Update(ctx, "Tops", item.ID, model.ItemPatch{Name: &blank})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	got, err := s.Get(ctx, "Tops", item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shirt", got.Name)
}

func TestUpdateItemMovesCategory(t *testing.T) {
	ctx := context.Background()
	s := NewItemStore(newTestAdapter(t), fixedOpts()...)

	item, err := s.Create(ctx, "Tops", model.ItemInput{Name: "Hoodie"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "Jackets", model.ItemInput{Name: "Parka"})
	require.NoError(t, err)

	jackets := "Jackets"
	moved, err := s.Update(ctx, "Tops", item.ID, model.ItemPatch{Category: &jackets})
	require.NoError(t, err)
	assert.Equal(t, "Jackets", moved.Category)

	tops, err := s.List(ctx, "Tops")
	require.NoError(t, err)
	assert.Empty(t, tops)

	list, err := s.List(ctx, "Jackets")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Parka", list[0].Name)
	assert.Equal(t, item.ID, list[1].ID)
}

func TestToggleFavorite(t *testing.T) {
	ctx := context.Background()
	s := NewItemStore(newTestAdapter(t), fixedOpts()...)

	item, err := s.Create(ctx, "Tops", model.ItemInput{Name: "Shirt"})
	require.NoError(t, err)

	toggled, err := s.ToggleFavorite(ctx, "Tops", item.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsFavorite)

	toggled, err = s.ToggleFavorite(ctx, "Tops", item.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsFavorite)

	_, err = s.ToggleFavorite(ctx, "Tops", "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestMarkWorn(t *testing.T) {
	ctx := context.Background()
	s := NewItemStore(newTestAdapter(t), fixedOpts()...)

	item, err := s.Create(ctx, "Jeans", model.ItemInput{Name: "Denim", WearCount: 2})
	require.NoError(t, err)

	worn, err := s.MarkWorn(ctx, "Jeans", item.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, 3, worn.WearCount)
	assert.Equal(t, "2025-03-14T09:30:00Z", worn.LastWorn)
}

func TestDeleteItemIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewItemStore(newTestAdapter(t), fixedOpts()...)

	a, err := s.Create(ctx, "Tops", model.ItemInput{Name: "A"})
	require.NoError(t, err)
	b, err := s.Create(ctx, "Tops", model.ItemInput{Name: "B"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "Tops", a.ID))
	require.NoError(t, s.Delete(ctx, "Tops", a.ID))
	require.NoError(t, s.Delete(ctx, "Nowhere", "x"))

	items, err := s.List(ctx, "Tops")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)
}

func TestDeleteCategoryItems(t *testing.T) {
	ctx := context.Background()
	kv := newTestAdapter(t)
	s := NewItemStore(kv, fixedOpts()...)

	_, err := s.Create(ctx, "Shoes", model.ItemInput{Name: "Boots"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "Tops", model.ItemInput{Name: "Tee"})
	require.NoError(t, err)

	// An item filed under Tops that claims to be a shoe is swept too.
	idx := storage.Read(ctx, kv, storage.KeyCategoryItems, model.ItemIndex{})
	idx.Append("Tops", model.ClothingItem{ID: "stray", Name: "Sandal", Category: "shoes"})
	storage.Write(ctx, kv, storage.KeyCategoryItems, idx)

	removed, err := s.DeleteCategory(ctx, "SHOES")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Tee", all[0].Name)

	removed, err = s.DeleteCategory(ctx, "Shoes")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestReplaceGroupsByFirstSeenCategory(t *testing.T) {
	ctx := context.Background()
	s := NewItemStore(newTestAdapter(t))

	items := []model.ClothingItem{
		{ID: "1", Name: "a", Category: "Tops"},
		{ID: "2", Name: "b", Category: "Jeans"},
		{ID: "3", Name: "c", Category: "Tops"},
	}
	require.NoError(t, s.Replace(ctx, items))

	all, err := s.All(ctx)
	require.NoError(t, err)
	ids := make([]string, len(all))
	for i, it := range all {
		ids[i] = it.ID
	}
	assert.Equal(t, []string{"1", "3", "2"}, ids)
}

func TestCorruptItemsReadAsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := newTestAdapter(t)
	kv.WriteString(ctx, storage.KeyCategoryItems, "{not json")

	s := NewItemStore(kv, fixedOpts()...)
	items, err := s.List(ctx, "Tops")
	require.NoError(t, err)
	assert.Empty(t, items)

	// The next write replaces the corrupt value.
	_, err = s.Create(ctx, "Tops", model.ItemInput{Name: "Shirt"})
	require.NoError(t, err)
	items, err = s.List(ctx, "Tops")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewItemStore(newTestAdapter(t))
	_, err := s.Create(ctx, "Tops", model.ItemInput{Name: "Shirt"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPropertyCreatedItemsHaveUniqueIDs(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every created item gets a distinct id", prop.ForAll(
		func(n int) bool {
			ctx := context.Background()
			s := NewItemStore(storage.NewAdapter(storage.NewMemory(), quietLogger()))
			seen := make(map[string]bool, n)
			for i := 0; i < n; i++ {
				item, err := s.Create(ctx, "Tops", model.ItemInput{Name: "Shirt"})
				if err != nil || seen[item.ID] {
					return false
				}
				seen[item.ID] = true
			}
			all, err := s.All(ctx)
			return err == nil && len(all) == n
		},
		gen.IntRange(1, 50),
	))

	properties.TestingRun(t)
}

func TestPropertyDeleteTwiceEqualsDeleteOnce(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("deleting an item twice leaves the same list as once", prop.ForAll(
		func(n, pick int) bool {
			ctx := context.Background()
			s := NewItemStore(storage.NewAdapter(storage.NewMemory(), quietLogger()), fixedOpts()...)
			var ids []string
			for i := 0; i < n; i++ {
				item, err := s.Create(ctx, "Tops", model.ItemInput{Name: "Shirt"})
				if err != nil {
					return false
				}
				ids = append(ids, item.ID)
			}
			target := ids[pick%n]

			if err := s.Delete(ctx, "Tops", target); err != nil {
				return false
			}
			once, _ := s.List(ctx, "Tops")
			if err := s.Delete(ctx, "Tops", target); err != nil {
				return false
			}
			twice, _ := s.List(ctx, "Tops")

			return len(once) == n-1 && assert.ObjectsAreEqual(once, twice)
		},
		gen.IntRange(1, 20),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
