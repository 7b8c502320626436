package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/genghao161-arch/anyue-lemon-project/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, category, tag, title, subtitle, description, detail, price, image, images,
	taobao_url, stock, sales, status, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	p := &model.Product{}
	err := row.Scan(&p.ID, &p.Category, &p.Tag, &p.Title, &p.Subtitle, &p.Description, &p.Detail,
		&p.Price, &p.Image, &p.Images, &p.TaobaoURL, &p.Stock, &p.Sales, &p.Status,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) list(ctx context.Context, query string) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p := model.Product{}
		if err := rows.Scan(&p.ID, &p.Category, &p.Tag, &p.Title, &p.Subtitle, &p.Description, &p.Detail,
			&p.Price, &p.Image, &p.Images, &p.TaobaoURL, &p.Stock, &p.Sales, &p.Status,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListPublic returns only listed products, oldest first (the storefront shows
// them in curation order).
func (r *ProductRepository) ListPublic(ctx context.Context) ([]model.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE status = 1 ORDER BY created_at ASC`)
}

func (r *ProductRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	created, err := scanProduct(r.pool.QueryRow(ctx, `
		INSERT INTO products (id, category, tag, title, description, detail, price, image, images,
		                      taobao_url, stock, sales, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT DO NOTHING
		RETURNING `+productColumns+`
	`, p.ID, p.Category, p.Tag, p.Title, p.Description, p.Detail, p.Price, p.Image, p.Images,
		p.TaobaoURL, p.Stock, p.Sales, p.Status))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("duplicate key")
		}
		return nil, err
	}
	return created, nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, req *model.UpdateProductRequest, detail *string, images *string) error {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	idx := 2

	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if req.Category != nil {
		add("category", *req.Category)
	}
	if req.Tag != nil {
		add("tag", *req.Tag)
	}
	if req.Title != nil {
		add("title", *req.Title)
	}
	if req.Desc != nil {
		add("description", *req.Desc)
	}
	if req.Price != nil {
		add("price", *req.Price)
	}
	if req.Img != nil {
		add("image", *req.Img)
	}
	if images != nil {
		add("images", *images)
	}
	if req.TaobaoURL != nil {
		add("taobao_url", *req.TaobaoURL)
	}
	if req.Stock != nil {
		add("stock", *req.Stock)
	}
	if req.Sales != nil {
		add("sales", *req.Sales)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if detail != nil {
		add("detail", *detail)
	}

	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $1`, strings.Join(sets, ", "))
	_, err := r.pool.Exec(ctx, query, args...)
	return err
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}
