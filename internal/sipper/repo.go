package sipper

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("sipper profile not found")

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	AddFavorite(ctx context.Context, f *Favorite) error
	RemoveFavorite(ctx context.Context, sipperID, makerID string) (bool, error)
	ListFavorites(ctx context.Context, sipperID string) ([]Favorite, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, p *Profile) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO sipper_profiles (id, user_id, preferred_radius_km, created_at)
		VALUES ($1,$2,$3,NOW())
	`, p.ID, p.UserID, p.PreferredRadiusKM)
	return err
}

func (r *PGRepo) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Profile
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, preferred_radius_km, COALESCE(favorite_drink,''),
		       location_lat, location_lng, created_at
		FROM sipper_profiles WHERE user_id=$1
	`, userID).Scan(&p.ID, &p.UserID, &p.PreferredRadiusKM, &p.FavoriteDrink,
		&p.LocationLat, &p.LocationLng, &p.CreatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &p, nil
}

// AddFavorite is idempotent; favoriting twice keeps a single row.
func (r *PGRepo) AddFavorite(ctx context.Context, f *Favorite) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO favorites (id, sipper_id, maker_id, created_at)
		VALUES ($1,$2,$3,NOW())
		ON CONFLICT (sipper_id, maker_id) DO NOTHING
	`, f.ID, f.SipperID, f.MakerID)
	return err
}

func (r *PGRepo) RemoveFavorite(ctx context.Context, sipperID, makerID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `
		DELETE FROM favorites WHERE sipper_id=$1 AND maker_id=$2
	`, sipperID, makerID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) ListFavorites(ctx context.Context, sipperID string) ([]Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, sipper_id, maker_id, created_at
		FROM favorites WHERE sipper_id=$1
		ORDER BY created_at DESC
	`, sipperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Favorite
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.ID, &f.SipperID, &f.MakerID, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
