package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrAlreadyExist = errors.New("user already exists")
	ErrNoFields     = errors.New("no valid fields to update")
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateFlags(ctx context.Context, id string, upd FlagUpdate) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const userCols = `id, email, role, display_name,
	COALESCE(avatar_url,''), COALESCE(phone,''), password_hash,
	is_verified, is_active, preferred_language, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Role, &u.DisplayName, &u.AvatarURL, &u.Phone,
		&u.PasswordHash, &u.IsVerified, &u.IsActive, &u.PreferredLanguage, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PGRepo) Create(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, role, display_name, password_hash,
		                   is_verified, is_active, preferred_language, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
	`, u.ID, u.Email, u.Role, u.DisplayName, u.PasswordHash, u.IsVerified, u.IsActive, u.PreferredLanguage)
	if err != nil {
		// UNIQUE on email
		return ErrAlreadyExist
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
	if err != nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email=$1`, email))
	if err != nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (r *PGRepo) List(ctx context.Context) ([]User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+userCols+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.DisplayName, &u.AvatarURL, &u.Phone,
			&u.PasswordHash, &u.IsVerified, &u.IsActive, &u.PreferredLanguage, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateFlags touches is_verified/is_active only, and never on admin rows.
func (r *PGRepo) UpdateFlags(ctx context.Context, id string, upd FlagUpdate) error {
	if upd.Empty() {
		return ErrNoFields
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET is_verified = COALESCE($2, is_verified),
		    is_active   = COALESCE($3, is_active),
		    updated_at  = NOW()
		WHERE id = $1 AND role <> 'admin'
	`, id, upd.IsVerified, upd.IsActive)
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

	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
