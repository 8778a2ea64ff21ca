package model

import "time"

// Outfit is a named set of item IDs. The IDs are not checked against the
// item collections; dangling references are allowed.
type Outfit struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Items     []string  `json:"items"`
	Occasion  string    `json:"occasion,omitempty"`
	Rating    *int      `json:"rating,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	LastWorn  string    `json:"lastWorn,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OutfitInput holds the fields accepted when creating an outfit.
type OutfitInput struct {
	Name     string   `json:"name" validate:"required"`
	Items    []string `json:"items"`
	Occasion string   `json:"occasion"`
	Rating   *int     `json:"rating" validate:"omitempty,min=1,max=5"`
	ImageURL string   `json:"imageUrl"`
}

// OutfitPatch is a partial outfit update.
type OutfitPatch struct {
	Name     *string   `json:"name" validate:"omitempty,min=1"`
	Items    *[]string `json:"items"`
	Occasion *string   `json:"occasion"`
	Rating   *int      `json:"rating" validate:"omitempty,min=1,max=5"`
	ImageURL *string   `json:"imageUrl"`
}

// Apply merges the non-nil fields of p into o.
func (p OutfitPatch) Apply(o *Outfit) {
	setString(&o.Name, p.Name)
	setString(&o.Occasion, p.Occasion)
	setString(&o.ImageURL, p.ImageURL)
	if p.Items != nil {
		o.Items = append([]string{}, (*p.Items)...)
	}
	if p.Rating != nil {
		rating := *p.Rating
		o.Rating = &rating
	}
}
