package sipper

import "time"

type Profile struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	PreferredRadiusKM float64   `json:"preferred_radius_km"`
	FavoriteDrink     string    `json:"favorite_drink,omitempty"`
	LocationLat       *float64  `json:"location_lat"`
	LocationLng       *float64  `json:"location_lng"`
	CreatedAt         time.Time `json:"created_at"`
}

type Favorite struct {
	ID        string    `json:"id"`
	SipperID  string    `json:"sipper_id"`
	MakerID   string    `json:"maker_id"`
	CreatedAt time.Time `json:"created_at"`
}
