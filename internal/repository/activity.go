package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/genghao161-arch/anyue-lemon-project/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

const activityColumns = `id, title, subtitle, description, cover_image, poster, click_count,
	start_date, end_date, status, type, participants, created_at, updated_at`

func scanActivity(row pgx.Row) (*model.Activity, error) {
	a := &model.Activity{}
	err := row.Scan(&a.ID, &a.Title, &a.Subtitle, &a.Description, &a.CoverImage, &a.Poster,
		&a.ClickCount, &a.StartDate, &a.EndDate, &a.Status, &a.Type, &a.Participants,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *ActivityRepository) List(ctx context.Context) ([]model.Activity, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+activityColumns+` FROM activities ORDER BY start_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []model.Activity{}
	for rows.Next() {
		a := model.Activity{}
		if err := rows.Scan(&a.ID, &a.Title, &a.Subtitle, &a.Description, &a.CoverImage, &a.Poster,
			&a.ClickCount, &a.StartDate, &a.EndDate, &a.Status, &a.Type, &a.Participants,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (r *ActivityRepository) GetByID(ctx context.Context, id string) (*model.Activity, error) {
	return scanActivity(r.pool.QueryRow(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = $1`, id))
}

// IncrementClick bumps the click counter and returns the fresh row.
func (r *ActivityRepository) IncrementClick(ctx context.Context, id string) (*model.Activity, error) {
	return scanActivity(r.pool.QueryRow(ctx, `
		UPDATE activities SET click_count = click_count + 1 WHERE id = $1
		RETURNING `+activityColumns+`
	`, id))
}

func (r *ActivityRepository) Create(ctx context.Context, a *model.Activity) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO activities (id, title, subtitle, description, cover_image, poster,
		                        start_date, end_date, status, type, participants)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0)
	`, a.ID, a.Title, a.Subtitle, a.Description, a.CoverImage, a.Poster,
		a.StartDate, a.EndDate, a.Status, a.Type)
	return err
}

func (r *ActivityRepository) Update(ctx context.Context, id string, req *model.UpdateActivityRequest) error {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	idx := 2

	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if req.Title != nil {
		add("title", *req.Title)
	}
	if req.Subtitle != nil {
		add("subtitle", *req.Subtitle)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.CoverImage != nil {
		add("cover_image", *req.CoverImage)
	}
	if req.Poster != nil {
		add("poster", *req.Poster)
	}
	if req.StartDate != nil {
		d, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
		add("start_date", d)
	}
	if req.EndDate != nil {
		d, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
		add("end_date", d)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.Type != nil {
		add("type", *req.Type)
	}

	query := fmt.Sprintf(`UPDATE activities SET %s WHERE id = $1`, strings.Join(sets, ", "))
	_, err := r.pool.Exec(ctx, query, args...)
	return err
}

func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	return err
}
