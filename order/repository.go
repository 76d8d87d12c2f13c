// Package order persists placed orders and announces them to the rest of the
// platform.
package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/annamerheb/storefront/order/logic"
	"github.com/annamerheb/storefront/pricing"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrInsufficientStock is returned when stock ran out between validation
	// and commit. Nothing is written in that case.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Repository stores orders.
type Repository interface {
	Create(ctx context.Context, o logic.Order) error
	Get(ctx context.Context, id uuid.UUID) (logic.Order, error)
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]logic.Order, error)
}

const orderColumns = `id, customer_id, status, subtotal_cents, discount_cents, delivery_cents, tax_cents, total_cents, coupon_code, delivery_option, shipping_address, payment_method, created_at`

const itemColumns = `order_id, product_id, name, unit_price_cents, discount_percent, quantity, line_total_cents`

type orderRow struct {
	ID              uuid.UUID     `db:"id"`
	CustomerID      string        `db:"customer_id"`
	Status          string        `db:"status"`
	SubtotalCents   pricing.Cents `db:"subtotal_cents"`
	DiscountCents   pricing.Cents `db:"discount_cents"`
	DeliveryCents   pricing.Cents `db:"delivery_cents"`
	TaxCents        pricing.Cents `db:"tax_cents"`
	TotalCents      pricing.Cents `db:"total_cents"`
	CouponCode      string        `db:"coupon_code"`
	DeliveryOption  string        `db:"delivery_option"`
	ShippingAddress []byte        `db:"shipping_address"`
	PaymentMethod   string        `db:"payment_method"`
	CreatedAt       time.Time     `db:"created_at"`
}

type itemRow struct {
	OrderID uuid.UUID `db:"order_id"`
	logic.Item
}

func (r orderRow) order(items []logic.Item) (logic.Order, error) {
	var addr logic.Address
	if err := json.Unmarshal(r.ShippingAddress, &addr); err != nil {
		return logic.Order{}, fmt.Errorf("failed to decode shipping address of order %s: %w", r.ID, err)
	}
	if items == nil {
		items = []logic.Item{}
	}
	after := r.SubtotalCents - r.DiscountCents
	if after < 0 {
		after = 0
	}
	return logic.Order{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		Status:     logic.Status(r.Status),
		Items:      items,
		Totals: pricing.Totals{
			Subtotal:              r.SubtotalCents,
			Discount:              r.DiscountCents,
			SubtotalAfterDiscount: after,
			Delivery:              r.DeliveryCents,
			Tax:                   r.TaxCents,
			Total:                 r.TotalCents,
		},
		CouponCode:      r.CouponCode,
		DeliveryOption:  r.DeliveryOption,
		ShippingAddress: addr,
		PaymentMethod:   r.PaymentMethod,
		CreatedAt:       r.CreatedAt,
	}, nil
}

// PostgresRepository stores orders with sqlx.
type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the order and its lines and decrements stock for every line
// in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, o logic.Order) (err error) {
	addr, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to encode shipping address: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.CustomerID, string(o.Status),
		o.Totals.Subtotal, o.Totals.Discount, o.Totals.Delivery, o.Totals.Tax, o.Totals.Total,
		o.CouponCode, o.DeliveryOption, addr, o.PaymentMethod, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i, item := range o.Items {
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1`,
			item.Quantity, item.ProductID)
		if err != nil {
			return fmt.Errorf("failed to reserve stock for product %d: %w", item.ProductID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to reserve stock for product %d: %w", item.ProductID, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: product %d (%s)", ErrInsufficientStock, item.ProductID, item.Name)
		}

		_, err = tx.ExecContext(ctx, `INSERT INTO order_items (position, `+itemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			i, o.ID, item.ProductID, item.Name, item.UnitPrice, item.DiscountPercent, item.Quantity, item.LineTotal)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (logic.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return logic.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return logic.Order{}, fmt.Errorf("failed to get order %s: %w", id, err)
	}

	items, err := r.items(ctx, []uuid.UUID{id})
	if err != nil {
		return logic.Order{}, err
	}
	return row.order(items[id])
}

// ListByCustomer returns a customer's most recent orders, newest first.
func (r *PostgresRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]logic.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []orderRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC LIMIT $2`,
		customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders of %s: %w", customerID, err)
	}

	orders := make([]logic.Order, 0, len(rows))
	if len(rows) == 0 {
		return orders, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		o, err := row.order(items[row.ID])
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *PostgresRepository) items(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]logic.Item, error) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}
	var rows []itemRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+itemColumns+` FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY order_id, position`,
		pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	out := make(map[uuid.UUID][]logic.Item, len(ids))
	for _, row := range rows {
		out[row.OrderID] = append(out[row.OrderID], row.Item)
	}
	return out, nil
}
