package model

// SyncData is the unit of backup, restore and reset.
type SyncData struct {
	Items          []ClothingItem    `json:"items"`
	Categories     []string          `json:"categories"`
	CategoryImages map[string]string `json:"categoryImages"`
	Version        string            `json:"version"`
	LastSync       int64             `json:"lastSync"` // epoch milliseconds
}

// DataStats summarizes what is currently stored.
type DataStats struct {
	ItemCount     int    `json:"itemCount"`
	CategoryCount int    `json:"categoryCount"`
	LastSync      string `json:"lastSync"`
	Version       string `json:"version"`
}

// WardrobeStats is the dashboard summary derived from an item list.
type WardrobeStats struct {
	TotalItems       int            `json:"totalItems"`
	FavoriteItems    int            `json:"favoriteItems"`
	MostWornCategory string         `json:"mostWornCategory"`
	LeastWornItems   []ClothingItem `json:"leastWornItems"`
	RecentlyAdded    []ClothingItem `json:"recentlyAdded"`
}
