package order

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annamerheb/storefront/order/logic"
	"github.com/annamerheb/storefront/pricing"
)

var (
	orderCols = []string{"id", "customer_id", "status", "subtotal_cents", "discount_cents", "delivery_cents", "tax_cents", "total_cents", "coupon_code", "delivery_option", "shipping_address", "payment_method", "created_at"}
	itemCols  = []string{"order_id", "product_id", "name", "unit_price_cents", "discount_percent", "quantity", "line_total_cents"}
)

const addressJSON = `{"recipient":"Ada","street":"1 Loop","city":"Paris","postal_code":"75001","country":"FR"}`

func sampleOrder() logic.Order {
	ten := 10.0
	items := []logic.Item{
		logic.NewItem(1, "Widget", 10000, &ten, 2),
		logic.NewItem(3, "Gizmo", 18000, nil, 1),
	}
	return logic.Order{
		ID:             uuid.MustParse("6f1c1f9e-2b4a-4c55-9a55-9d3b0f3c1a01"),
		CustomerID:     "c-1",
		Status:         logic.StatusPlaced,
		Items:          items,
		Totals:         pricing.Compose(36000, 1000, 1299, decimal.RequireFromString("0.08")),
		CouponCode:     "WELCOME10",
		DeliveryOption: "express",
		ShippingAddress: logic.Address{
			Recipient: "Ada", Street: "1 Loop", City: "Paris", PostalCode: "75001", Country: "FR",
		},
		PaymentMethod: logic.PaymentCard,
		CreatedAt:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).
		WithArgs(o.ID, "c-1", "placed", int64(36000), int64(1000), int64(1299), int64(2904), int64(39203),
			"WELCOME10", "express", sqlmock.AnyArg(), "card", o.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1`)).
		WithArgs(int32(2), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WithArgs(0, o.ID, int64(1), "Widget", int64(10000), sqlmock.AnyArg(), int32(2), int64(18000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET stock`)).
		WithArgs(int32(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), o))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateRollsBackOnShortStock(t *testing.T) {
	repo, mock := newMockRepo(t)
	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET stock`)).
		WithArgs(int32(2), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), o)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "product 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateRollsBackOnInsertFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).WillReturnError(boom)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), sampleOrder())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Get(t *testing.T) {
	repo, mock := newMockRepo(t)
	o := sampleOrder()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE id = $1`)).
		WithArgs(o.ID).
		WillReturnRows(sqlmock.NewRows(orderCols).AddRow(
			o.ID.String(), "c-1", "placed", 36000, 1000, 1299, 2904, 39203,
			"WELCOME10", "express", []byte(addressJSON), "card", o.CreatedAt))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY order_id, position`)).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow(o.ID.String(), 1, "Widget", 10000, "10.00", 2, 18000).
			AddRow(o.ID.String(), 3, "Gizmo", 18000, nil, 1, 18000))

	got, err := repo.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, logic.StatusPlaced, got.Status)
	assert.Equal(t, o.Totals, got.Totals)
	assert.Equal(t, "Paris", got.ShippingAddress.City)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Widget", got.Items[0].Name)
	require.NotNil(t, got.Items[0].DiscountPercent)
	assert.Equal(t, 10.0, *got.Items[0].DiscountPercent)
	assert.Nil(t, got.Items[1].DiscountPercent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(orderCols))

	_, err := repo.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestPostgresRepository_ListByCustomer(t *testing.T) {
	repo, mock := newMockRepo(t)
	first, second := uuid.New(), uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE customer_id = $1 ORDER BY created_at DESC LIMIT $2`)).
		WithArgs("c-1", 20).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(first.String(), "c-1", "placed", 2550, 0, 499, 244, 3293, "", "standard", []byte(addressJSON), "paypal", now).
			AddRow(second.String(), "c-1", "placed", 18000, 0, 0, 1440, 19440, "", "pickup", []byte(addressJSON), "card", now.Add(-time.Hour)))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items`)).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow(first.String(), 2, "Gadget", 2550, nil, 1, 2550).
			AddRow(second.String(), 3, "Gizmo", 18000, nil, 1, 18000))

	orders, err := repo.ListByCustomer(context.Background(), "c-1", 0)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, first, orders[0].ID)
	assert.Equal(t, "Gadget", orders[0].Items[0].Name)
	assert.Equal(t, "Gizmo", orders[1].Items[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ListByCustomerEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE customer_id = $1`)).
		WithArgs("nobody", 5).
		WillReturnRows(sqlmock.NewRows(orderCols))

	orders, err := repo.ListByCustomer(context.Background(), "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}
