package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// CategoryKey is the canonical form of a category name. Names are displayed
// as entered but always compared through their key.
func CategoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameCategory reports whether a and b name the same category.
func SameCategory(a, b string) bool {
	return CategoryKey(a) == CategoryKey(b)
}

// ItemIndex groups items by category key. Keys keep their insertion order,
// both in memory and in the JSON encoding, so flattening the index is stable.
type ItemIndex struct {
	keys  []string
	parts map[string][]ClothingItem
}

// IndexItems groups items by category in first-seen order.
func IndexItems(items []ClothingItem) ItemIndex {
	var idx ItemIndex
	for _, it := range items {
		idx.Append(it.Category, it)
	}
	return idx
}

// Get returns the items filed under category.
func (x *ItemIndex) Get(category string) []ClothingItem {
	return x.parts[CategoryKey(category)]
}

// Has reports whether category has a partition, even an empty one.
func (x *ItemIndex) Has(category string) bool {
	_, ok := x.parts[CategoryKey(category)]
	return ok
}

// Put replaces the items filed under category.
func (x *ItemIndex) Put(category string, items []ClothingItem) {
	key := CategoryKey(category)
	if x.parts == nil {
		x.parts = make(map[string][]ClothingItem)
	}
	if _, ok := x.parts[key]; !ok {
		x.keys = append(x.keys, key)
	}
	if items == nil {
		items = []ClothingItem{}
	}
	x.parts[key] = items
}

// Append adds items to the end of category's partition.
func (x *ItemIndex) Append(category string, items ...ClothingItem) {
	x.Put(category, append(x.Get(category), items...))
}

// Delete drops category's partition and returns how many items it held.
func (x *ItemIndex) Delete(category string) int {
	key := CategoryKey(category)
	items, ok := x.parts[key]
	if !ok {
		return 0
	}
	delete(x.parts, key)
	keys := make([]string, 0, len(x.keys))
	for _, k := range x.keys {
		if k != key {
			keys = append(keys, k)
		}
	}
	x.keys = keys
	return len(items)
}

// Keys returns the category keys in insertion order.
func (x *ItemIndex) Keys() []string {
	return append([]string(nil), x.keys...)
}

// All flattens the index in key order.
func (x *ItemIndex) All() []ClothingItem {
	all := []ClothingItem{}
	for _, k := range x.keys {
		all = append(all, x.parts[k]...)
	}
	return all
}

// Len returns the total number of items.
func (x *ItemIndex) Len() int {
	n := 0
	for _, items := range x.parts {
		n += len(items)
	}
	return n
}

func (x ItemIndex) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range x.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		items, err := json.Marshal(x.parts[k])
		if err != nil {
			return nil, fmt.Errorf("encoding category %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(items)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of category -> items, keeping key order.
// Keys that differ only in case are merged.
func (x *ItemIndex) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*x = ItemIndex{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("item index: expected object, got %v", tok)
	}

	var idx ItemIndex
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("item index: expected key, got %v", tok)
		}
		var items []ClothingItem
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("item index: category %q: %w", key, err)
		}
		idx.Append(key, items...)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*x = idx
	return nil
}

// Image URLs for categories without an explicit image.
const (
	DefaultCategoryImage = "https://images.unsplash.com/photo-1594633312681-425c7b97ccd1?w=300&h=300&fit=crop"
	PlaceholderImage     = "https://images.unsplash.com/photo-1441986300917-64674bd600d8?w=300&h=300&fit=crop"
)

// CategoryImage returns the built-in image for a seed category, or the
// generic placeholder.
func CategoryImage(category string) string {
	if url, ok := LookupCategory(seedCategoryImages, category); ok {
		return url
	}
	return PlaceholderImage
}

// LookupCategory finds category in a map keyed by display name.
func LookupCategory(m map[string]string, category string) (string, bool) {
	if v, ok := m[category]; ok {
		return v, true
	}
	key := CategoryKey(category)
	for name, v := range m {
		if CategoryKey(name) == key {
			return v, true
		}
	}
	return "", false
}

// UniqueCategories drops blank names and later duplicates of a category,
// keeping the first spelling seen.
func UniqueCategories(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		key := CategoryKey(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(name))
	}
	return out
}
