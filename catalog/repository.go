package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository reads products.
type Repository interface {
	List(ctx context.Context, q ListQuery) (Page, error)
	Get(ctx context.Context, id int64) (Product, error)
	// GetMany returns the products that exist among ids, keyed by id.
	GetMany(ctx context.Context, ids []int64) (map[int64]Product, error)
}

const productColumns = `id, name, price_cents, discount_percent, stock, low_stock_threshold, rating, image_url, created_at`

// PostgresRepository reads products with sqlx.
type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, q ListQuery) (Page, error) {
	q, err := q.Normalize()
	if err != nil {
		return Page{}, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM products WHERE rating >= $1`, q.MinRating); err != nil {
		return Page{}, fmt.Errorf("failed to count products: %w", err)
	}

	items := make([]Product, 0, q.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM products WHERE rating >= $1 ORDER BY %s LIMIT $2 OFFSET $3`,
		productColumns, q.orderClause())
	if err := r.db.SelectContext(ctx, &items, query, q.MinRating, q.PageSize, q.Offset()); err != nil {
		return Page{}, fmt.Errorf("failed to list products: %w", err)
	}

	return Page{Items: items, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.db.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return p, nil
}

func (r *PostgresRepository) GetMany(ctx context.Context, ids []int64) (map[int64]Product, error) {
	out := make(map[int64]Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []Product
	err := r.db.SelectContext(ctx, &rows, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}
