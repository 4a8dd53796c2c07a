package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrStaleStatus means the row's status no longer matched the expected
	// one when the guarded update ran; the caller acted on stale state.
	ErrStaleStatus = errors.New("order status changed concurrently")
)

type Repository interface {
	Create(ctx context.Context, o *Order, items []Item) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListBySipper(ctx context.Context, sipperID string) ([]Order, error)
	ListByMaker(ctx context.Context, makerID string) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, from, to Status) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const orderCols = `id, order_number, sipper_id, maker_id, status, total_amount::text,
	COALESCE(notes,''), payment_status, estimated_ready_at, created_at, updated_at`

// Create persists the order and its items in one transaction, so a failed
// item insert never leaves a headless order behind.
func (r *PGRepo) Create(ctx context.Context, o *Order, items []Item) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (id, order_number, sipper_id, maker_id, status, total_amount,
		                    notes, payment_status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''),$8,NOW(),NOW())
	`, o.ID, o.OrderNumber, o.SipperID, o.MakerID, o.Status, o.TotalAmount, o.Notes, o.PaymentStatus); err != nil {
		return err
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price, subtotal)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, it.ID, o.ID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.Subtotal); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	if err := r.db.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.OrderNumber, &o.SipperID, &o.MakerID, &o.Status, &o.TotalAmount,
			&o.Notes, &o.PaymentStatus, &o.EstimatedReadyAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, ErrNotFound
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price::text, subtotal::text
		FROM order_items WHERE order_id=$1
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return &o, rows.Err()
}

func (r *PGRepo) ListBySipper(ctx context.Context, sipperID string) ([]Order, error) {
	return r.list(ctx, `sipper_id`, sipperID)
}

func (r *PGRepo) ListByMaker(ctx context.Context, makerID string) ([]Order, error) {
	return r.list(ctx, `maker_id`, makerID)
}

func (r *PGRepo) list(ctx context.Context, ownerCol, ownerID string) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+orderCols+` FROM orders
		WHERE `+ownerCol+`=$1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.SipperID, &o.MakerID, &o.Status, &o.TotalAmount,
			&o.Notes, &o.PaymentStatus, &o.EstimatedReadyAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus only moves the row when it is still in the expected state, so
// a writer holding a stale view affects nothing and hears about it.
func (r *PGRepo) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrStaleStatus
	}
	return nil
}
