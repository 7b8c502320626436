package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/genghao161-arch/anyue-lemon-project/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StoreRepository struct {
	pool *pgxpool.Pool
}

func NewStoreRepository(pool *pgxpool.Pool) *StoreRepository {
	return &StoreRepository{pool: pool}
}

const storeColumns = `id, name, address, city, longitude, latitude, hours, phone, status, created_at, updated_at`

func scanStore(row pgx.Row) (*model.Store, error) {
	s := &model.Store{}
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.Lng, &s.Lat, &s.Hours, &s.Phone,
		&s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StoreRepository) list(ctx context.Context, query string) ([]model.Store, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := []model.Store{}
	for rows.Next() {
		s := model.Store{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.Lng, &s.Lat, &s.Hours, &s.Phone,
			&s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

// ListActive returns open stores only, for the public storefront map.
func (r *StoreRepository) ListActive(ctx context.Context) ([]model.Store, error) {
	return r.list(ctx, `SELECT `+storeColumns+` FROM stores WHERE status = 1 ORDER BY id`)
}

func (r *StoreRepository) ListAll(ctx context.Context) ([]model.Store, error) {
	return r.list(ctx, `SELECT `+storeColumns+` FROM stores ORDER BY id`)
}

func (r *StoreRepository) GetByID(ctx context.Context, id int64) (*model.Store, error) {
	return scanStore(r.pool.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id))
}

func (r *StoreRepository) Create(ctx context.Context, s *model.Store) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO stores (name, address, city, longitude, latitude, hours, phone, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, s.Name, s.Address, s.City, s.Lng, s.Lat, s.Hours, s.Phone, s.Status).Scan(&id)
	return id, err
}

// Update applies non-nil fields. Coordinates use a presence flag because the
// admin frontend can explicitly clear them with an empty value.
func (r *StoreRepository) Update(ctx context.Context, id int64, req *model.StoreRequest, lng, lat *float64, setLng, setLat bool) error {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	idx := 2

	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Address != nil {
		add("address", *req.Address)
	}
	if req.City != nil {
		add("city", *req.City)
	}
	if setLng {
		add("longitude", lng)
	}
	if setLat {
		add("latitude", lat)
	}
	if req.Hours != nil {
		add("hours", *req.Hours)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}

	query := fmt.Sprintf(`UPDATE stores SET %s WHERE id = $1`, strings.Join(sets, ", "))
	_, err := r.pool.Exec(ctx, query, args...)
	return err
}

func (r *StoreRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	return err
}
