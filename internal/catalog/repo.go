package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("product not found")

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	ListByMaker(ctx context.Context, makerID string) ([]Product, error)
	List(ctx context.Context, q Query) ([]Product, error)
	Update(ctx context.Context, id string, upd Update) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const productCols = `id, maker_id, name, COALESCE(description,''), price::text,
	COALESCE(image_url,''), category, is_available, sort_order, created_at`

func scanProduct(dst *Product, scan func(...any) error) error {
	return scan(&dst.ID, &dst.MakerID, &dst.Name, &dst.Description, &dst.Price,
		&dst.ImageURL, &dst.Category, &dst.IsAvailable, &dst.SortOrder, &dst.CreatedAt)
}

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, maker_id, name, description, price, category,
		                      is_available, sort_order, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
	`, p.ID, p.MakerID, p.Name, p.Description, p.Price, p.Category, p.IsAvailable, p.SortOrder)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		UPDATE maker_profiles SET total_products = total_products + 1 WHERE id = $1
	`, p.MakerID)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Product
	row := r.db.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id)
	if err := scanProduct(&p, row.Scan); err != nil {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *PGRepo) GetByIDs(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+productCols+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(&p, rows.Scan); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) ListByMaker(ctx context.Context, makerID string) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+productCols+` FROM products
		WHERE maker_id=$1
		ORDER BY sort_order ASC, created_at DESC
	`, makerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(&p, rows.Scan); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	search := strings.TrimSpace(q.Q)

	rows, err := r.db.Query(ctx, `
		SELECT `+productCols+` FROM products
		WHERE ($1 = '' OR name ILIKE '%'||$1||'%' OR description ILIKE '%'||$1||'%')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(&p, rows.Scan); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, id string, upd Update) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name         = COALESCE($2, name),
		    description  = COALESCE($3, description),
		    price        = COALESCE($4::numeric, price),
		    category     = COALESCE($5, category),
		    is_available = COALESCE($6, is_available),
		    sort_order   = COALESCE($7, sort_order)
		WHERE id = $1
	`, id, upd.Name, upd.Description, upd.Price, upd.Category, upd.IsAvailable, upd.SortOrder)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var makerID string
	err := r.db.QueryRow(ctx, `DELETE FROM products WHERE id=$1 RETURNING maker_id`, id).Scan(&makerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	_, err = r.db.Exec(ctx, `
		UPDATE maker_profiles
		SET total_products = GREATEST(total_products - 1, 0)
		WHERE id = $1
	`, makerID)
	return true, err
}
