package model

import "time"

// Store maps a row of the stores table. Coordinates are optional; stores
// created before geocoding ran have neither.
type Store struct {
	ID        int64
	Name      string
	Address   string
	City      string
	Lng       *float64
	Lat       *float64
	Hours     string
	Phone     string
	Status    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoreItem is the public list shape; phone and status are admin-only.
type StoreItem struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	City    string   `json:"city"`
	Lng     *float64 `json:"lng"`
	Lat     *float64 `json:"lat"`
	Hours   string   `json:"hours"`
}

type AdminStoreItem struct {
	StoreItem
	Phone  string `json:"phone"`
	Status int    `json:"status"`
}

func (s *Store) Item() StoreItem {
	return StoreItem{
		ID:      s.ID,
		Name:    s.Name,
		Address: s.Address,
		City:    s.City,
		Lng:     s.Lng,
		Lat:     s.Lat,
		Hours:   s.Hours,
	}
}

func (s *Store) AdminItem() AdminStoreItem {
	return AdminStoreItem{StoreItem: s.Item(), Phone: s.Phone, Status: s.Status}
}

// StoreRequest covers create and update; lng/lat accept number, numeric
// string, or empty string (clears the coordinate), as the admin frontend
// sends all three.
type StoreRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Lng     any     `json:"lng"`
	Lat     any     `json:"lat"`
	Hours   *string `json:"hours"`
	Phone   *string `json:"phone"`
	Status  *int    `json:"status"`
}
