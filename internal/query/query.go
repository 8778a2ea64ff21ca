// Package query derives filtered views and statistics from item snapshots.
// Nothing here touches storage.
package query

import (
	"slices"
	"strings"
	"time"

	"github.com/erazemk/omara/internal/model"
)

// NoCategory is reported as the most worn category of an empty wardrobe.
const NoCategory = "None"

// RecentWindow is how far back a purchase counts as recent.
const RecentWindow = 30 * 24 * time.Hour

// LeastWornLimit caps the least worn list.
const LeastWornLimit = 3

// Criteria selects items. Empty fields match everything; set fields must all
// match.
type Criteria struct {
	Search        string
	Categories    []string
	Seasons       []model.Season
	FavoritesOnly bool
}

// Filter returns the items matching c, in their original order.
func Filter(items []model.ClothingItem, c Criteria) []model.ClothingItem {
	term := strings.ToLower(strings.TrimSpace(c.Search))
	out := []model.ClothingItem{}
	for _, it := range items {
		if term != "" && !matchesSearch(it, term) {
			continue
		}
		if len(c.Categories) > 0 && !slices.ContainsFunc(c.Categories, func(name string) bool {
			return model.SameCategory(name, it.Category)
		}) {
			continue
		}
		if len(c.Seasons) > 0 && !slices.Contains(c.Seasons, it.SeasonOrAll()) {
			continue
		}
		if c.FavoritesOnly && !it.IsFavorite {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matchesSearch(it model.ClothingItem, term string) bool {
	for _, field := range []string{it.Name, it.Brand, it.Color, it.Category} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	for _, tag := range it.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// ComputeStats summarizes items as of now.
func ComputeStats(items []model.ClothingItem, now time.Time) model.WardrobeStats {
	stats := model.WardrobeStats{
		TotalItems:       len(items),
		MostWornCategory: mostWornCategory(items),
		LeastWornItems:   leastWorn(items, LeastWornLimit),
		RecentlyAdded:    []model.ClothingItem{},
	}

	cutoff := now.Add(-RecentWindow)
	for _, it := range items {
		if it.IsFavorite {
			stats.FavoriteItems++
		}
		if bought, ok := ParseDate(it.PurchaseDate); ok && bought.After(cutoff) {
			stats.RecentlyAdded = append(stats.RecentlyAdded, it)
		}
	}
	return stats
}

// mostWornCategory sums wear counts per category and returns the first
// category seen among those with the highest total.
func mostWornCategory(items []model.ClothingItem) string {
	var (
		order  []string
		totals = make(map[string]int)
		names  = make(map[string]string)
	)
	for _, it := range items {
		key := model.CategoryKey(it.Category)
		if _, ok := totals[key]; !ok {
			order = append(order, key)
			names[key] = strings.TrimSpace(it.Category)
		}
		totals[key] += it.WearCount
	}

	best := NoCategory
	bestTotal := 0
	for i, key := range order {
		if i == 0 || totals[key] > bestTotal {
			best, bestTotal = names[key], totals[key]
		}
	}
	return best
}

func leastWorn(items []model.ClothingItem, n int) []model.ClothingItem {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b model.ClothingItem) int {
		return a.WearCount - b.WearCount
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	if sorted == nil {
		sorted = []model.ClothingItem{}
	}
	return sorted
}

// ParseDate reads a date in the forms items are stored with: a calendar date
// (taken as UTC midnight) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Categories returns the distinct item categories in first-seen order.
func Categories(items []model.ClothingItem) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Category)
	}
	return model.UniqueCategories(names)
}

// Seasons returns every season in display order.
func Seasons() []model.Season {
	return slices.Clone(model.Seasons)
}

// Favorites returns the favorite items.
func Favorites(items []model.ClothingItem) []model.ClothingItem {
	return Filter(items, Criteria{FavoritesOnly: true})
}

// ResolveOutfit returns the outfit's items in outfit order. IDs with no
// matching item are skipped.
func ResolveOutfit(o model.Outfit, items []model.ClothingItem) []model.ClothingItem {
	byID := make(map[string]model.ClothingItem, len(items))
	for _, it := range items {
		if _, ok := byID[it.ID]; !ok {
			byID[it.ID] = it
		}
	}
	out := []model.ClothingItem{}
	for _, id := range o.Items {
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out
}
