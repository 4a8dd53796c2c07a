package maker

import "time"

type Profile struct {
	ID            string   `json:"id"`
	UserID        string   `json:"user_id"`
	ShopName      string   `json:"shop_name"`
	Bio           string   `json:"bio,omitempty"`
	LogoURL       string   `json:"logo_url,omitempty"`
	CoverImageURL string   `json:"cover_image_url,omitempty"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	LocationLabel string   `json:"location_label,omitempty"`
	IsLive        bool     `json:"is_live"`
	// avg_rating/total_ratings are maintained by the review service, never
	// written directly through profile updates.
	AvgRating     float64   `json:"avg_rating"`
	TotalRatings  int       `json:"total_ratings"`
	TotalProducts int       `json:"total_products"`
	CreatedAt     time.Time `json:"created_at"`
}

// Nearby is a profile plus the distance computed by the get_nearby_makers
// stored procedure.
type Nearby struct {
	Profile
	DistanceKM float64 `json:"distance_km"`
}

// ProfileUpdate carries the maker-editable fields. Nil pointers leave the
// column untouched.
type ProfileUpdate struct {
	ShopName      *string
	Bio           *string
	Latitude      *float64
	Longitude     *float64
	LocationLabel *string
	IsLive        *bool
}
