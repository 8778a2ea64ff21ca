package store

import (
	"context"
	"strings"

	"github.com/erazemk/omara/internal/apperror"
	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/storage"
)

// CategoryStore keeps the category list and the category image map. It does
// not touch items; cascading deletes are done by the sync manager.
type CategoryStore struct {
	base
}

// NewCategoryStore returns a CategoryStore over kv.
func NewCategoryStore(kv *storage.Adapter, opts ...Option) *CategoryStore {
	return &CategoryStore{base: newBase(kv, opts)}
}

// List returns the category names in display order.
func (s *CategoryStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names := storage.Read(ctx, s.kv, storage.KeyCategories, []string{})
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Contains reports whether a category with this name exists, ignoring case.
func (s *CategoryStore) Contains(ctx context.Context, name string) (bool, error) {
	names, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if model.SameCategory(n, name) {
			return true, nil
		}
	}
	return false, nil
}

// Add appends name to the list. It returns false, and changes nothing, if the
// category already exists.
func (s *CategoryStore) Add(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, apperror.ValidationFailed("name", "category name is required")
	}

	names, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if model.SameCategory(n, name) {
			return false, nil
		}
	}

	storage.Write(ctx, s.kv, storage.KeyCategories, append(names, name))
	return true, nil
}

// Remove drops name from the list and reports whether it was present.
func (s *CategoryStore) Remove(ctx context.Context, name string) (bool, error) {
	names, err := s.List(ctx)
	if err != nil {
		return false, err
	}

	kept := make([]string, 0, len(names))
	for _, n := range names {
		if !model.SameCategory(n, name) {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(names) {
		return false, nil
	}

	storage.Write(ctx, s.kv, storage.KeyCategories, kept)
	return true, nil
}

// Images returns the category image map.
func (s *CategoryStore) Images(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	images := storage.Read(ctx, s.kv, storage.KeyCategoryImages, map[string]string{})
	if images == nil {
		images = map[string]string{}
	}
	return images, nil
}

// ImageFor returns the stored image for a category, falling back to the
// built-in image for that category.
func (s *CategoryStore) ImageFor(ctx context.Context, name string) (string, error) {
	images, err := s.Images(ctx)
	if err != nil {
		return "", err
	}
	if url, ok := model.LookupCategory(images, name); ok && url != "" {
		return url, nil
	}
	return model.CategoryImage(name), nil
}

// SetImage stores url as the image for name, replacing any entry that differs
// only in case.
func (s *CategoryStore) SetImage(ctx context.Context, name, url string) error {
	images, err := s.Images(ctx)
	if err != nil {
		return err
	}
	dropCategory(images, name)
	images[strings.TrimSpace(name)] = url
	storage.Write(ctx, s.kv, storage.KeyCategoryImages, images)
	return nil
}

// RemoveImage drops the image mapping for name.
func (s *CategoryStore) RemoveImage(ctx context.Context, name string) error {
	images, err := s.Images(ctx)
	if err != nil {
		return err
	}
	if dropCategory(images, name) {
		storage.Write(ctx, s.kv, storage.KeyCategoryImages, images)
	}
	return nil
}

func dropCategory(images map[string]string, name string) bool {
	dropped := false
	for k := range images {
		if model.SameCategory(k, name) {
			delete(images, k)
			dropped = true
		}
	}
	return dropped
}
