package catalog

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "name", "price_cents", "discount_percent", "stock", "low_stock_threshold", "rating", "image_url", "created_at"}

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresRepository_List(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products WHERE rating >= $1`)).
		WithArgs(4.0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE rating >= $1 ORDER BY price_cents DESC, id ASC LIMIT $2 OFFSET $3`)).
		WithArgs(4.0, 10, 10).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, "Widget", 10000, "10.00", 3, 5, "4.50", "", created).
			AddRow(2, "Gadget", 2550, nil, 40, 5, "4.10", "https://img/2.png", created))

	page, err := repo.List(context.Background(), ListQuery{Page: 2, PageSize: 10, MinRating: 4, Ordering: "-price"})
	require.NoError(t, err)
	assert.Equal(t, 21, page.Total)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Items, 2)
	require.NotNil(t, page.Items[0].DiscountPercent)
	assert.Equal(t, 10.0, *page.Items[0].DiscountPercent)
	assert.Nil(t, page.Items[1].DiscountPercent)
	assert.Equal(t, 4.5, page.Items[0].Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ListRejectsOrdering(t *testing.T) {
	repo, mock := newMockRepo(t)
	_, err := repo.List(context.Background(), ListQuery{Ordering: "stock"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Get(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(1, "Widget", 10000, nil, 3, 5, "4.50", "", time.Now()))

	p, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)
	assert.EqualValues(t, 10000, p.PriceCents)
	assert.EqualValues(t, 3, p.Stock)
}

func TestPostgresRepository_GetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id = $1`)).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.Get(context.Background(), 9)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestPostgresRepository_GetMany(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id = ANY($1)`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, "Widget", 10000, nil, 3, 5, "4.50", "", time.Now()))

	products, err := repo.GetMany(context.Background(), []int64{1, 9})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "Widget", products[1].Name)

	empty, err := repo.GetMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}
