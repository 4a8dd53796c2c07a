package blog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("blog post not found")

type Repository interface {
	GetAuthorByUserID(ctx context.Context, userID string) (*Author, error)
	CreateAuthor(ctx context.Context, a *Author) error
	CreatePost(ctx context.Context, p *Post) error
	ListPublished(ctx context.Context) ([]Post, error)
	ListPending(ctx context.Context) ([]Post, error)
	Approve(ctx context.Context, id, reviewerID string) error
	Reject(ctx context.Context, id, reviewerID, notes string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) GetAuthorByUserID(ctx context.Context, userID string) (*Author, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a Author
	err := r.db.QueryRow(ctx, `
		SELECT id, COALESCE(user_id,''), name, COALESCE(bio,''), COALESCE(avatar_url,''), created_at
		FROM blog_authors WHERE user_id=$1
	`, userID).Scan(&a.ID, &a.UserID, &a.Name, &a.Bio, &a.AvatarURL, &a.CreatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *PGRepo) CreateAuthor(ctx context.Context, a *Author) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO blog_authors (id, user_id, name, created_at)
		VALUES ($1,$2,$3,NOW())
	`, a.ID, a.UserID, a.Name)
	return err
}

func (r *PGRepo) CreatePost(ctx context.Context, p *Post) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO blog_posts (id, author_id, slug, title, excerpt, content,
		                        status, locale, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
	`, p.ID, p.AuthorID, p.Slug, p.Title, p.Excerpt, p.Content, p.Status, p.Locale)
	return err
}

const postCols = `p.id, p.author_id, a.name, p.slug, p.title, COALESCE(p.excerpt,''), p.content,
	p.status, COALESCE(p.reviewed_by,''), COALESCE(p.review_notes,''), p.locale,
	p.published_at, p.created_at, p.updated_at`

func (r *PGRepo) ListPublished(ctx context.Context) ([]Post, error) {
	return r.listByStatus(ctx, StatusPublished, `p.published_at DESC`)
}

// ListPending is the moderation queue, oldest submissions first.
func (r *PGRepo) ListPending(ctx context.Context) ([]Post, error) {
	return r.listByStatus(ctx, StatusPendingReview, `p.created_at ASC`)
}

func (r *PGRepo) listByStatus(ctx context.Context, status PostStatus, orderBy string) ([]Post, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+postCols+`
		FROM blog_posts p
		JOIN blog_authors a ON a.id = p.author_id
		WHERE p.status = $1
		ORDER BY `+orderBy, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Slug, &p.Title, &p.Excerpt, &p.Content,
			&p.Status, &p.ReviewedBy, &p.ReviewNotes, &p.Locale, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Approve and Reject only touch rows still in pending_review; anything else
// reports not found, which is how the queue prevents double moderation.

func (r *PGRepo) Approve(ctx context.Context, id, reviewerID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE blog_posts
		SET status = 'published', published_at = NOW(), reviewed_by = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending_review'
	`, id, reviewerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Reject(ctx context.Context, id, reviewerID, notes string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE blog_posts
		SET status = 'rejected', review_notes = NULLIF($3,''), reviewed_by = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending_review'
	`, id, reviewerID, notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
