package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/annamerheb/storefront/cart"
	"github.com/annamerheb/storefront/catalog"
	"github.com/annamerheb/storefront/inventory"
	invlogic "github.com/annamerheb/storefront/inventory/logic"
	"github.com/annamerheb/storefront/order"
	orderlogic "github.com/annamerheb/storefront/order/logic"
	"github.com/annamerheb/storefront/pricing"
	"github.com/annamerheb/storefront/store"
	"github.com/annamerheb/storefront/wishlist"
)

const customer = "c-1"

type recordingPublisher struct {
	mu     sync.Mutex
	orders []orderlogic.Order
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, o orderlogic.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.orders = append(p.orders, o)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type recordingSessions struct {
	cleared     []string
	cartCleared []string
}

func (s *recordingSessions) Clear(_ context.Context, customerID string) error {
	s.cleared = append(s.cleared, customerID)
	return nil
}

func (s *recordingSessions) ClearCart(_ context.Context, customerID string) error {
	s.cartCleared = append(s.cartCleared, customerID)
	return nil
}

type failingValidator struct{}

func (failingValidator) Validate(context.Context, []invlogic.Line) ([]string, error) {
	return nil, errors.New("inventory unavailable")
}

type harness struct {
	svc       *Service
	products  *catalog.MemoryRepository
	orders    *order.MemoryRepository
	publisher *recordingPublisher
	sessions  *recordingSessions
	logs      *observer.ObservedLogs
}

func pct(v float64) *float64 { return &v }

func newHarness(t *testing.T, validator inventory.Validator) *harness {
	t.Helper()
	products := catalog.NewMemoryRepository(
		catalog.Product{ID: 1, Name: "Widget", PriceCents: 10000, DiscountPercent: pct(10), Stock: 3},
		catalog.Product{ID: 2, Name: "Gadget", PriceCents: 2550, Stock: 40},
		catalog.Product{ID: 3, Name: "Gizmo", PriceCents: 18000, Stock: 0},
	)
	if validator == nil {
		validator = inventory.NewLocalValidator(catalog.NewStockSource(products))
	}
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	h := &harness{
		products:  products,
		orders:    order.NewMemoryRepository(products),
		publisher: &recordingPublisher{},
		sessions:  &recordingSessions{},
		logs:      logs,
	}
	h.svc = NewService(Deps{
		Carts:     cart.NewLedger(logger, pricing.DefaultTaxRate),
		Wishlists: wishlist.NewService(logger),
		Catalog:   products,
		Validator: validator,
		Orders:    h.orders,
		Publisher: h.publisher,
		Sessions:  h.sessions,
		Logger:    logger,
	})
	h.svc.now = func() time.Time { return time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC) }
	return h
}

func shipping() PlaceOrderRequest {
	return PlaceOrderRequest{
		ShippingAddress: orderlogic.Address{
			Recipient: "Ada", Street: "1 Loop", City: "Paris", PostalCode: "75001", Country: "FR",
		},
		PaymentMethod: orderlogic.PaymentCard,
	}
}

func TestAddToCart_snapshotsCatalogProduct(t *testing.T) {
	h := newHarness(t, nil)

	view, err := h.svc.AddToCart(context.Background(), customer, 1, 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Widget", view.Items[0].Product.Name)
	assert.EqualValues(t, 18000, view.TotalPrice)
}

func TestAddToCart_rejectsOutOfStockAndUnknown(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.svc.AddToCart(context.Background(), customer, 3, 1)
	cmdErr, ok := store.AsCommandError(err)
	require.True(t, ok)
	assert.Equal(t, store.StatusFailedPrecondition, cmdErr.Code)

	_, err = h.svc.AddToCart(context.Background(), customer, 42, 1)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestPlaceOrder_emptyCart(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.svc.PlaceOrder(context.Background(), customer, shipping())
	cmdErr, ok := store.AsCommandError(err)
	require.True(t, ok)
	assert.Equal(t, "Cart is empty", cmdErr.Message)
}

func TestPlaceOrder_success(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.svc.AddToCart(ctx, customer, 1, 2)
	require.NoError(t, err)
	_, err = h.svc.carts.ApplyCoupon(ctx, customer, "WELCOME10")
	require.NoError(t, err)
	_, err = h.svc.carts.SelectDelivery(ctx, customer, "express")
	require.NoError(t, err)

	conf, err := h.svc.PlaceOrder(ctx, customer, shipping())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, conf.OrderID)
	assert.EqualValues(t, 18000, conf.Totals.Subtotal)
	assert.EqualValues(t, 1000, conf.Totals.Discount)
	assert.EqualValues(t, 1299, conf.Totals.Delivery)
	assert.EqualValues(t, 1464, conf.Totals.Tax)
	assert.EqualValues(t, 19763, conf.Totals.Total)
	assert.EqualValues(t, 2, conf.ItemCount)
	assert.Equal(t, "express", conf.DeliveryOption)
	assert.Equal(t, time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC), conf.EstimatedArrival)

	stored, err := h.orders.Get(ctx, conf.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", stored.CouponCode)

	p, _ := h.products.Get(ctx, 1)
	assert.EqualValues(t, 1, p.Stock)

	require.Len(t, h.publisher.orders, 1)
	assert.Equal(t, conf.OrderID, h.publisher.orders[0].ID)
	assert.Equal(t, []string{customer}, h.sessions.cartCleared)

	view, err := h.svc.carts.Get(ctx, customer)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Nil(t, view.Coupon)
	assert.Equal(t, invlogic.PhaseIdle, h.svc.StockStatus(customer).Phase)
}

func TestPlaceOrder_insufficientStockLeavesCartUntouched(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.svc.AddToCart(ctx, customer, 1, 5)
	require.NoError(t, err)

	_, err = h.svc.PlaceOrder(ctx, customer, shipping())
	var stockErr *invlogic.StockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Errors, 1)
	assert.Contains(t, stockErr.Errors[0], "product 1")

	view, err := h.svc.carts.Get(ctx, customer)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.EqualValues(t, 5, view.Items[0].Quantity)
	assert.Equal(t, invlogic.PhaseInvalid, h.svc.StockStatus(customer).Phase)
	assert.Empty(t, h.publisher.orders)
}

func TestPlaceOrder_validatorFailure(t *testing.T) {
	h := newHarness(t, failingValidator{})
	ctx := context.Background()

	_, err := h.svc.AddToCart(ctx, customer, 2, 1)
	require.NoError(t, err)

	_, err = h.svc.PlaceOrder(ctx, customer, shipping())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inventory unavailable")
	assert.Equal(t, invlogic.PhaseIdle, h.svc.StockStatus(customer).Phase)

	view, _ := h.svc.carts.Get(ctx, customer)
	assert.Len(t, view.Items, 1)
}

func TestPlaceOrder_stockRaceLostAtCommit(t *testing.T) {
	h := newHarness(t, inventory.NewLocalValidator(inventory.StaticStock{
		1: {ProductID: 1, Name: "Widget", Available: 100},
	}))
	ctx := context.Background()

	_, err := h.svc.AddToCart(ctx, customer, 1, 3)
	require.NoError(t, err)
	h.products.Put(catalog.Product{ID: 1, Name: "Widget", PriceCents: 10000, DiscountPercent: pct(10), Stock: 1})

	_, err = h.svc.PlaceOrder(ctx, customer, shipping())
	var stockErr *invlogic.StockError
	require.ErrorAs(t, err, &stockErr)

	view, _ := h.svc.carts.Get(ctx, customer)
	assert.Len(t, view.Items, 1)
	orders, _ := h.orders.ListByCustomer(ctx, customer, 10)
	assert.Empty(t, orders)
}

func TestPlaceOrder_invalidAddress(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.svc.AddToCart(ctx, customer, 2, 1)
	require.NoError(t, err)

	req := shipping()
	req.ShippingAddress.City = ""
	_, err = h.svc.PlaceOrder(ctx, customer, req)
	cmdErr, ok := store.AsCommandError(err)
	require.True(t, ok)
	assert.Equal(t, orderlogic.ErrMsgCityRequired, cmdErr.Message)

	p, _ := h.products.Get(ctx, 2)
	assert.EqualValues(t, 40, p.Stock)
}

func TestPlaceOrder_publishFailureIsLogged(t *testing.T) {
	h := newHarness(t, nil)
	h.publisher.err = errors.New("broker down")
	ctx := context.Background()

	_, err := h.svc.AddToCart(ctx, customer, 2, 1)
	require.NoError(t, err)

	_, err = h.svc.PlaceOrder(ctx, customer, shipping())
	require.NoError(t, err)
	assert.Equal(t, 1, h.logs.FilterMessage("order event not published").Len())
}

func TestValidateStock_recordsPhase(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.svc.AddToCart(ctx, customer, 1, 2)
	require.NoError(t, err)
	result, err := h.svc.ValidateStock(ctx, customer)
	require.NoError(t, err)
	assert.True(t, result.Valid())

	_, err = h.svc.carts.SetQuantity(ctx, customer, 1, 9)
	require.NoError(t, err)
	result, err = h.svc.ValidateStock(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, invlogic.PhaseInvalid, result.Phase)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, result, h.svc.StockStatus(customer))
}

func TestMoveToCart(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	wl, err := h.svc.SaveForLater(ctx, customer, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, wl.Count)
	assert.EqualValues(t, 9000, wl.Items[0].Price)

	view, err := h.svc.MoveToCart(ctx, customer, 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.EqualValues(t, 1, view.Items[0].Quantity)

	wl, err = h.svc.wishlists.Get(ctx, customer)
	require.NoError(t, err)
	assert.Zero(t, wl.Count)

	_, err = h.svc.MoveToCart(ctx, customer, 1)
	cmdErr, ok := store.AsCommandError(err)
	require.True(t, ok)
	assert.Equal(t, ErrMsgNotInWishlist, cmdErr.Message)
}

func TestQuote_estimatesArrival(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.svc.AddToCart(ctx, customer, 2, 2)
	require.NoError(t, err)

	q, err := h.svc.Quote(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, "standard", q.Delivery.ID)
	assert.Equal(t, time.Date(2024, 6, 8, 9, 0, 0, 0, time.UTC), q.EstimatedArrival)
	assert.EqualValues(t, 5100, q.Totals.Subtotal)
}

func TestLogout(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.svc.AddToCart(ctx, customer, 2, 1)
	require.NoError(t, err)
	_, err = h.svc.SaveForLater(ctx, customer, 1)
	require.NoError(t, err)

	require.NoError(t, h.svc.Logout(ctx, customer))

	view, _ := h.svc.carts.Get(ctx, customer)
	assert.Empty(t, view.Items)
	wl, _ := h.svc.wishlists.Get(ctx, customer)
	assert.Zero(t, wl.Count)
	assert.Equal(t, []string{customer}, h.sessions.cleared)
}

func TestLines(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	_, err := h.svc.AddToCart(ctx, customer, 2, 4)
	require.NoError(t, err)

	state, _, err := h.svc.carts.State(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, []invlogic.Line{{ProductID: 2, Name: "Gadget", Quantity: 4}}, Lines(state))
}
