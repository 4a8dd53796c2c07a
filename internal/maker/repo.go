package maker

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("maker profile not found")

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	List(ctx context.Context, limit int) ([]Profile, error)
	Nearby(ctx context.Context, lat, lng, radiusKM float64) ([]Nearby, error)
	Update(ctx context.Context, id string, upd ProfileUpdate) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const profileCols = `id, user_id, shop_name, COALESCE(bio,''), COALESCE(logo_url,''),
	COALESCE(cover_image_url,''), latitude, longitude, COALESCE(location_label,''),
	is_live, avg_rating, total_ratings, total_products, created_at`

func (r *PGRepo) Create(ctx context.Context, p *Profile) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO maker_profiles (id, user_id, shop_name, is_live,
		                            avg_rating, total_ratings, total_products, created_at)
		VALUES ($1,$2,$3,$4,0,0,0,NOW())
	`, p.ID, p.UserID, p.ShopName, p.IsLive)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Profile
	err := r.db.QueryRow(ctx, `SELECT `+profileCols+` FROM maker_profiles WHERE id=$1`, id).
		Scan(&p.ID, &p.UserID, &p.ShopName, &p.Bio, &p.LogoURL, &p.CoverImageURL,
			&p.Latitude, &p.Longitude, &p.LocationLabel, &p.IsLive,
			&p.AvgRating, &p.TotalRatings, &p.TotalProducts, &p.CreatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *PGRepo) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Profile
	err := r.db.QueryRow(ctx, `SELECT `+profileCols+` FROM maker_profiles WHERE user_id=$1`, userID).
		Scan(&p.ID, &p.UserID, &p.ShopName, &p.Bio, &p.LogoURL, &p.CoverImageURL,
			&p.Latitude, &p.Longitude, &p.LocationLabel, &p.IsLive,
			&p.AvgRating, &p.TotalRatings, &p.TotalProducts, &p.CreatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &p, nil
}

// List is the no-location fallback: makers with coordinates, best rated
// first.
func (r *PGRepo) List(ctx context.Context, limit int) ([]Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+profileCols+`
		FROM maker_profiles
		WHERE latitude IS NOT NULL
		ORDER BY avg_rating DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.UserID, &p.ShopName, &p.Bio, &p.LogoURL, &p.CoverImageURL,
			&p.Latitude, &p.Longitude, &p.LocationLabel, &p.IsLive,
			&p.AvgRating, &p.TotalRatings, &p.TotalProducts, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Nearby delegates the geospatial ranking to the get_nearby_makers stored
// procedure; this code never computes distances itself.
func (r *PGRepo) Nearby(ctx context.Context, lat, lng, radiusKM float64) ([]Nearby, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+profileCols+`, distance_km
		FROM get_nearby_makers($1, $2, $3)
	`, lat, lng, radiusKM)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Nearby
	for rows.Next() {
		var n Nearby
		if err := rows.Scan(&n.ID, &n.UserID, &n.ShopName, &n.Bio, &n.LogoURL, &n.CoverImageURL,
			&n.Latitude, &n.Longitude, &n.LocationLabel, &n.IsLive,
			&n.AvgRating, &n.TotalRatings, &n.TotalProducts, &n.CreatedAt, &n.DistanceKM); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, id string, upd ProfileUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE maker_profiles
		SET shop_name      = COALESCE($2, shop_name),
		    bio            = COALESCE($3, bio),
		    latitude       = COALESCE($4, latitude),
		    longitude      = COALESCE($5, longitude),
		    location_label = COALESCE($6, location_label),
		    is_live        = COALESCE($7, is_live)
		WHERE id = $1
	`, id, upd.ShopName, upd.Bio, upd.Latitude, upd.Longitude, upd.LocationLabel, upd.IsLive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
