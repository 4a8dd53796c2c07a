package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coffeecarriers/coffee-carriers/internal/auth"
)

var ErrValidation = errors.New("validation")

type Review struct {
	ID        string    `json:"id"`
	SipperID  string    `json:"sipper_id"`
	MakerID   string    `json:"maker_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	Upsert(ctx context.Context, rv *Review) error
	ListByMaker(ctx context.Context, makerID string) ([]Review, error)
	RefreshMakerAggregates(ctx context.Context, makerID string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// Upsert keeps one review per (sipper, maker) pair; a resubmission
// overwrites rating and comment.
func (r *PGRepo) Upsert(ctx context.Context, rv *Review) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO reviews (id, sipper_id, maker_id, rating, comment, created_at)
		VALUES ($1,$2,$3,$4,NULLIF($5,''),NOW())
		ON CONFLICT (sipper_id, maker_id)
		DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment
	`, rv.ID, rv.SipperID, rv.MakerID, rv.Rating, rv.Comment)
	return err
}

func (r *PGRepo) ListByMaker(ctx context.Context, makerID string) ([]Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, sipper_id, maker_id, rating, COALESCE(comment,''), created_at
		FROM reviews WHERE maker_id=$1
		ORDER BY created_at DESC
	`, makerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.SipperID, &rv.MakerID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// RefreshMakerAggregates recomputes avg_rating/total_ratings from the
// reviews table; the aggregation itself stays in the store.
func (r *PGRepo) RefreshMakerAggregates(ctx context.Context, makerID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		UPDATE maker_profiles m
		SET avg_rating    = COALESCE((SELECT ROUND(AVG(rating)::numeric, 2) FROM reviews WHERE maker_id = m.id), 0),
		    total_ratings = (SELECT COUNT(*) FROM reviews WHERE maker_id = m.id)
		WHERE m.id = $1
	`, makerID)
	return err
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

// Submit upserts the caller's review of a maker and refreshes that maker's
// rating aggregates.
func (s *Service) Submit(ctx context.Context, principal auth.Principal, makerID string, rating int, comment string) error {
	if !principal.IsSipper() {
		return auth.ErrForbidden
	}
	if makerID == "" || rating < 1 || rating > 5 {
		return fmt.Errorf("%w: makerId and rating (1-5) are required", ErrValidation)
	}
	rv := &Review{
		ID:       uuid.NewString(),
		SipperID: principal.SipperID,
		MakerID:  makerID,
		Rating:   rating,
		Comment:  comment,
	}
	if err := s.repo.Upsert(ctx, rv); err != nil {
		return err
	}
	return s.repo.RefreshMakerAggregates(ctx, makerID)
}

func (s *Service) ListByMaker(ctx context.Context, makerID string) ([]Review, error) {
	return s.repo.ListByMaker(ctx, makerID)
}
