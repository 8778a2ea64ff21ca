package model

import (
	"maps"
	"slices"
	"time"
)

// SeedTime stamps the seed items.
var SeedTime = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

var seedCategories = []string{
	"Jeans", "Tops", "Skirts", "Shirts", "Skorts", "Shorts", "Dress", "T-shirt", "Jackets", "Indian wear",
}

var seedCategoryImages = map[string]string{
	"Jeans":       "https://images.unsplash.com/photo-1542272604-787c3835535d?w=300&h=300&fit=crop",
	"Tops":        "https://images.unsplash.com/photo-1434389677669-e08b4cac3105?w=300&h=300&fit=crop",
	"Skirts":      "https://images.unsplash.com/photo-1552902865-b72c031ac5ea?w=300&h=300&fit=crop",
	"Shirts":      "https://images.unsplash.com/photo-1582562124811-c09040d0a901?w=300&h=300&fit=crop",
	"Skorts":      "https://images.unsplash.com/photo-1551698618-1dfe5d97d256?w=300&h=300&fit=crop",
	"Shorts":      "https://images.unsplash.com/photo-1594633312681-425c7b97ccd1?w=300&h=300&fit=crop",
	"Dress":       "https://images.unsplash.com/photo-1515372039744-b8f02a3ae446?w=300&h=300&fit=crop",
	"T-shirt":     "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=300&h=300&fit=crop",
	"Jackets":     "https://images.unsplash.com/photo-1539533113208-f6df8cc8b543?w=300&h=300&fit=crop",
	"Indian wear": "https://images.unsplash.com/photo-1594633312681-425c7b97ccd1?w=300&h=300&fit=crop",
}

// SeedCategories returns a fresh copy of the default category list.
func SeedCategories() []string {
	return slices.Clone(seedCategories)
}

// SeedCategoryImages returns a fresh copy of the default category images.
func SeedCategoryImages() map[string]string {
	return maps.Clone(seedCategoryImages)
}

// SeedItems returns a fresh copy of the sample items.
func SeedItems() []ClothingItem {
	return []ClothingItem{
		{
			ID:         "1",
			Name:       "Classic White Button Shirt",
			Category:   "Tops",
			Color:      "White",
			Brand:      "Zara",
			Season:     SeasonAll,
			IsFavorite: true,
			Rating:     intPtr(5),
			WearCount:  15,
			Tags:       []string{"professional", "versatile"},
			ImageURL:   "https://images.unsplash.com/photo-1582562124811-c09040d0a901?w=300&h=300&fit=crop",
			CreatedAt:  SeedTime,
			UpdatedAt:  SeedTime,
		},
		{
			ID:         "2",
			Name:       "Black Leather Jacket",
			Category:   "Jackets",
			Color:      "Black",
			Brand:      "AllSaints",
			Season:     SeasonFall,
			IsFavorite: true,
			Rating:     intPtr(5),
			WearCount:  8,
			Tags:       []string{"edgy", "casual"},
			ImageURL:   "https://images.unsplash.com/photo-1535268647677-300390c465d1?w=300&h=300&fit=crop",
			CreatedAt:  SeedTime,
			UpdatedAt:  SeedTime,
		},
		{
			ID:         "3",
			Name:       "Blue Denim Jeans",
			Category:   "Jeans",
			Color:      "Blue",
			Brand:      "Levi's",
			Season:     SeasonAll,
			IsFavorite: false,
			Rating:     intPtr(4),
			WearCount:  25,
			Tags:       []string{"casual", "everyday"},
			ImageURL:   "https://images.unsplash.com/photo-1465146344425-f00d5f5c8f07?w=300&h=300&fit=crop",
			CreatedAt:  SeedTime,
			UpdatedAt:  SeedTime,
		},
	}
}

func intPtr(n int) *int {
	return &n
}
