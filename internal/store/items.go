package store

import (
	"context"
	"strings"
	"time"

	"github.com/erazemk/omara/internal/apperror"
	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/storage"
)

// ItemStore keeps clothing items partitioned by category.
type ItemStore struct {
	base
}

// NewItemStore returns an ItemStore over kv.
func NewItemStore(kv *storage.Adapter, opts ...Option) *ItemStore {
	return &ItemStore{base: newBase(kv, opts)}
}

func (s *ItemStore) load(ctx context.Context) model.ItemIndex {
	return storage.Read(ctx, s.kv, storage.KeyCategoryItems, model.ItemIndex{})
}

func (s *ItemStore) save(ctx context.Context, idx model.ItemIndex) {
	storage.Write(ctx, s.kv, storage.KeyCategoryItems, idx)
}

// List returns the items in category. An unknown category yields an empty list.
func (s *ItemStore) List(ctx context.Context, category string) ([]model.ClothingItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx := s.load(ctx)
	items := idx.Get(category)
	if items == nil {
		return []model.ClothingItem{}, nil
	}
	return items, nil
}

// All returns every item, grouped by category in the order categories were
// first stored.
func (s *ItemStore) All(ctx context.Context) ([]model.ClothingItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx := s.load(ctx)
	return idx.All(), nil
}

// Get returns a single item.
func (s *ItemStore) Get(ctx context.Context, category, id string) (*model.ClothingItem, error) {
	items, err := s.List(ctx, category)
	if err != nil {
		return nil, err
	}
	i := indexOfItem(items, id)
	if i < 0 {
		return nil, apperror.NotFound("item", id)
	}
	return &items[i], nil
}

// Create adds a new item to category.
func (s *ItemStore) Create(ctx context.Context, category string, in model.ItemInput) (*model.ClothingItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apperror.ValidationFailed("category", "category is required")
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := model.Validate(in); err != nil {
		return nil, err
	}

	item := model.NewItem(category, in)
	item.ID = s.newID()
	now := s.timestamp()
	item.CreatedAt = now
	item.UpdatedAt = now

	idx := s.load(ctx)
	idx.Append(category, item)
	s.save(ctx, idx)

	return &item, nil
}

// Update merges patch into the item. Changing the category moves the item to
// the end of the new category.
func (s *ItemStore) Update(ctx context.Context, category, id string, patch model.ItemPatch) (*model.ClothingItem, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "name is required")
		}
		patch.Name = &name
	}
	if patch.Category != nil {
		c := strings.TrimSpace(*patch.Category)
		if c == "" {
			return nil, apperror.ValidationFailed("category", "category is required")
		}
		patch.Category = &c
	}
	if err := model.Validate(patch); err != nil {
		return nil, err
	}

	return s.mutate(ctx, category, id, func(it *model.ClothingItem) {
		patch.Apply(it)
	})
}

// ToggleFavorite flips the item's favorite flag.
func (s *ItemStore) ToggleFavorite(ctx context.Context, category, id string) (*model.ClothingItem, error) {
	return s.mutate(ctx, category, id, func(it *model.ClothingItem) {
		it.IsFavorite = !it.IsFavorite
	})
}

// MarkWorn records that the item was worn at the given time.
func (s *ItemStore) MarkWorn(ctx context.Context, category, id string, at time.Time) (*model.ClothingItem, error) {
	return s.mutate(ctx, category, id, func(it *model.ClothingItem) {
		it.WearCount++
		it.LastWorn = at.UTC().Format(time.RFC3339)
	})
}

func (s *ItemStore) mutate(ctx context.Context, category, id string, fn func(*model.ClothingItem)) (*model.ClothingItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx := s.load(ctx)
	items := idx.Get(category)
	i := indexOfItem(items, id)
	if i < 0 {
		return nil, apperror.NotFound("item", id)
	}

	item := items[i]
	createdAt := item.CreatedAt
	fn(&item)
	item.ID = id
	item.CreatedAt = createdAt
	item.UpdatedAt = s.timestamp()

	if model.SameCategory(item.Category, category) {
		items[i] = item
		idx.Put(category, items)
	} else {
		idx.Put(category, append(items[:i:i], items[i+1:]...))
		idx.Append(item.Category, item)
	}
	s.save(ctx, idx)

	return &item, nil
}

// Delete removes the item. Deleting a missing item is not an error.
func (s *ItemStore) Delete(ctx context.Context, category, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	idx := s.load(ctx)
	items := idx.Get(category)
	i := indexOfItem(items, id)
	if i < 0 {
		return nil
	}
	idx.Put(category, append(items[:i:i], items[i+1:]...))
	s.save(ctx, idx)
	return nil
}

// DeleteCategory removes every item whose category matches, wherever it is
// filed, and returns how many were removed.
func (s *ItemStore) DeleteCategory(ctx context.Context, category string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	idx := s.load(ctx)
	removed := idx.Delete(category)
	for _, key := range idx.Keys() {
		items := idx.Get(key)
		kept := items[:0:0]
		for _, it := range items {
			if model.SameCategory(it.Category, category) {
				removed++
				continue
			}
			kept = append(kept, it)
		}
		if len(kept) != len(items) {
			idx.Put(key, kept)
		}
	}
	if removed > 0 {
		s.save(ctx, idx)
	}
	return removed, nil
}

// Replace overwrites the whole collection with items.
func (s *ItemStore) Replace(ctx context.Context, items []model.ClothingItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.save(ctx, model.IndexItems(items))
	return nil
}

func indexOfItem(items []model.ClothingItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
