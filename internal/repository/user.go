package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/genghao161-arch/anyue-lemon-project/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, phone, password_hash, is_staff, is_admin, is_active, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Phone, &u.PasswordHash, &u.IsStaff, &u.IsAdmin, &u.IsActive,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, phone, passwordHash string, isStaff, isAdmin bool) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (phone, password_hash, is_staff, is_admin)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
		RETURNING `+userColumns+`
	`, phone, passwordHash, isStaff, isAdmin))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("duplicate key")
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone))
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u := model.User{}
		if err := rows.Scan(&u.ID, &u.Phone, &u.PasswordHash, &u.IsStaff, &u.IsAdmin, &u.IsActive,
			&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateLoginTime(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	return err
}

// Promote grants staff+admin. Used for phones on the admin allowlist whose
// rows predate the allowlist entry.
func (r *UserRepository) Promote(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET is_staff = TRUE, is_admin = TRUE, updated_at = NOW() WHERE id = $1`, id)
	return err
}

// Update applies the non-nil fields. passwordHash, when set, replaces the
// stored hash (the caller hashes).
func (r *UserRepository) Update(ctx context.Context, id int64, req *model.UpdateUserRequest, passwordHash *string) error {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	idx := 2

	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if passwordHash != nil {
		add("password_hash", *passwordHash)
	}
	if req.IsStaff != nil {
		add("is_staff", *req.IsStaff)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $1`, strings.Join(sets, ", "))
	_, err := r.pool.Exec(ctx, query, args...)
	if err != nil && strings.Contains(err.Error(), "unique") {
		return fmt.Errorf("duplicate key")
	}
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
