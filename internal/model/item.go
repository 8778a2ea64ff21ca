package model

import "time"

// Season is the part of the year a garment is worn in.
type Season string

// Seasons.
const (
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonFall   Season = "Fall"
	SeasonWinter Season = "Winter"
	SeasonAll    Season = "All"
)

// Seasons lists every season in display order.
var Seasons = []Season{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter, SeasonAll}

// DefaultColor is used when an item is created without a color.
const DefaultColor = "Unknown"

// ClothingItem is a single garment in the wardrobe.
type ClothingItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Subcategory  string    `json:"subcategory,omitempty"`
	Brand        string    `json:"brand,omitempty"`
	Color        string    `json:"color"`
	Season       Season    `json:"season,omitempty"`
	Size         string    `json:"size,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	PurchaseDate string    `json:"purchaseDate,omitempty"`
	Price        *float64  `json:"price,omitempty"`
	IsFavorite   bool      `json:"isFavorite"`
	Rating       *int      `json:"rating,omitempty"`
	WearCount    int       `json:"wearCount"`
	LastWorn     string    `json:"lastWorn,omitempty"`
	Tags         []string  `json:"tags"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SeasonOrAll returns the item's season, treating an unset season as All.
func (it ClothingItem) SeasonOrAll() Season {
	if it.Season == "" {
		return SeasonAll
	}
	return it.Season
}

// ItemInput holds the fields accepted when creating an item. The category is
// passed separately as the store scope.
type ItemInput struct {
	Name         string   `json:"name" validate:"required"`
	Subcategory  string   `json:"subcategory"`
	Brand        string   `json:"brand"`
	Color        string   `json:"color"`
	Season       Season   `json:"season" validate:"omitempty,oneof=Spring Summer Fall Winter All"`
	Size         string   `json:"size"`
	ImageURL     string   `json:"imageUrl"`
	PurchaseDate string   `json:"purchaseDate"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	IsFavorite   bool     `json:"isFavorite"`
	Rating       *int     `json:"rating" validate:"omitempty,min=1,max=5"`
	WearCount    int      `json:"wearCount" validate:"gte=0"`
	LastWorn     string   `json:"lastWorn"`
	Tags         []string `json:"tags"`
	Notes        string   `json:"notes"`
}

// ItemPatch is a partial update. Nil fields are left unchanged.
type ItemPatch struct {
	Name         *string   `json:"name" validate:"omitempty,min=1"`
	Category     *string   `json:"category" validate:"omitempty,min=1"`
	Subcategory  *string   `json:"subcategory"`
	Brand        *string   `json:"brand"`
	Color        *string   `json:"color"`
	Season       *Season   `json:"season" validate:"omitempty,oneof=Spring Summer Fall Winter All"`
	Size         *string   `json:"size"`
	ImageURL     *string   `json:"imageUrl"`
	PurchaseDate *string   `json:"purchaseDate"`
	Price        *float64  `json:"price" validate:"omitempty,gte=0"`
	IsFavorite   *bool     `json:"isFavorite"`
	Rating       *int      `json:"rating" validate:"omitempty,min=1,max=5"`
	WearCount    *int      `json:"wearCount" validate:"omitempty,gte=0"`
	LastWorn     *string   `json:"lastWorn"`
	Tags         *[]string `json:"tags"`
	Notes        *string   `json:"notes"`
}

// NewItem builds an item from input with defaults applied. ID and timestamps
// are left for the store to assign.
func NewItem(category string, in ItemInput) ClothingItem {
	it := ClothingItem{
		Name:         in.Name,
		Category:     category,
		Subcategory:  in.Subcategory,
		Brand:        in.Brand,
		Color:        in.Color,
		Season:       in.Season,
		Size:         in.Size,
		ImageURL:     in.ImageURL,
		PurchaseDate: in.PurchaseDate,
		Price:        in.Price,
		IsFavorite:   in.IsFavorite,
		Rating:       in.Rating,
		WearCount:    in.WearCount,
		LastWorn:     in.LastWorn,
		Tags:         append([]string{}, in.Tags...),
		Notes:        in.Notes,
	}
	if it.Color == "" {
		it.Color = DefaultColor
	}
	if it.Season == "" {
		it.Season = SeasonAll
	}
	return it
}

// Apply merges the non-nil fields of p into it.
func (p ItemPatch) Apply(it *ClothingItem) {
	setString(&it.Name, p.Name)
	setString(&it.Category, p.Category)
	setString(&it.Subcategory, p.Subcategory)
	setString(&it.Brand, p.Brand)
	setString(&it.Color, p.Color)
	setString(&it.Size, p.Size)
	setString(&it.ImageURL, p.ImageURL)
	setString(&it.PurchaseDate, p.PurchaseDate)
	setString(&it.LastWorn, p.LastWorn)
	setString(&it.Notes, p.Notes)
	if p.Season != nil {
		it.Season = *p.Season
	}
	if p.Price != nil {
		price := *p.Price
		it.Price = &price
	}
	if p.IsFavorite != nil {
		it.IsFavorite = *p.IsFavorite
	}
	if p.Rating != nil {
		rating := *p.Rating
		it.Rating = &rating
	}
	if p.WearCount != nil {
		it.WearCount = *p.WearCount
	}
	if p.Tags != nil {
		it.Tags = append([]string{}, (*p.Tags)...)
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
