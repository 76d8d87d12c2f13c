// Package checkout turns carts into orders: it moves catalog products into
// carts and wishlists, quotes totals, gates placement on stock validation,
// and clears the session once an order is committed.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/annamerheb/storefront/cart"
	cartlogic "github.com/annamerheb/storefront/cart/logic"
	"github.com/annamerheb/storefront/catalog"
	"github.com/annamerheb/storefront/inventory"
	invlogic "github.com/annamerheb/storefront/inventory/logic"
	"github.com/annamerheb/storefront/order"
	orderlogic "github.com/annamerheb/storefront/order/logic"
	"github.com/annamerheb/storefront/pricing"
	"github.com/annamerheb/storefront/store"
	"github.com/annamerheb/storefront/wishlist"
	wishlogic "github.com/annamerheb/storefront/wishlist/logic"
)

// Error message constants for checkout.
const (
	ErrMsgOutOfStock      = "Product %d (%s) is out of stock"
	ErrMsgNotInWishlist   = "Item not in wishlist"
	ErrMsgCheckoutRunning = "Checkout already in progress"
)

// SessionStore drops persisted customer state.
type SessionStore interface {
	Clear(ctx context.Context, customerID string) error
	ClearCart(ctx context.Context, customerID string) error
}

// Deps are the collaborators of a Service.
type Deps struct {
	Carts     *cart.Ledger
	Wishlists *wishlist.Service
	Catalog   catalog.Repository
	Validator inventory.Validator
	Orders    order.Repository
	Publisher order.Publisher
	Sessions  SessionStore // optional
	Logger    *zap.Logger
}

// Service coordinates carts, wishlists, stock checks and orders.
type Service struct {
	carts     *cart.Ledger
	wishlists *wishlist.Service
	catalog   catalog.Repository
	validator inventory.Validator
	orders    order.Repository
	publisher order.Publisher
	sessions  SessionStore
	logger    *zap.Logger

	mu      sync.Mutex
	checks  map[string]*invlogic.StockCheck
	placing map[string]bool

	now   func() time.Time
	newID func() uuid.UUID
}

func NewService(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = order.NopPublisher{}
	}
	return &Service{
		carts:     deps.Carts,
		wishlists: deps.Wishlists,
		catalog:   deps.Catalog,
		validator: deps.Validator,
		orders:    deps.Orders,
		publisher: publisher,
		sessions:  deps.Sessions,
		logger:    logger,
		checks:    make(map[string]*invlogic.StockCheck),
		placing:   make(map[string]bool),
		now:       time.Now,
		newID:     uuid.New,
	}
}

// CartProduct snapshots a catalog product for a cart line.
func CartProduct(p catalog.Product) cartlogic.Product {
	return cartlogic.Product{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.PriceCents,
		DiscountPercent: p.DiscountPercent,
		ImageURL:        p.ImageURL,
	}
}

// WishlistItem snapshots a catalog product for a wishlist entry.
func WishlistItem(p catalog.Product) wishlogic.Item {
	return wishlogic.Item{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.DiscountedPrice(),
		ImageURL: p.ImageURL,
		Stock:    p.Stock,
	}
}

// AddToCart adds quantity of a catalog product to a customer's cart.
func (s *Service) AddToCart(ctx context.Context, customerID string, productID int64, quantity int32) (cart.View, error) {
	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return cart.View{}, err
	}
	if !p.InStock() {
		return cart.View{}, store.NewFailedPreconditionf(ErrMsgOutOfStock, p.ID, p.Name)
	}
	return s.carts.AddItem(ctx, customerID, CartProduct(p), quantity)
}

// SaveForLater adds a catalog product to a customer's wishlist.
func (s *Service) SaveForLater(ctx context.Context, customerID string, productID int64) (wishlist.View, error) {
	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return wishlist.View{}, err
	}
	return s.wishlists.Add(ctx, customerID, WishlistItem(p))
}

// MoveToCart adds one unit of a saved product to the cart, priced from the
// current catalog, and removes it from the wishlist.
func (s *Service) MoveToCart(ctx context.Context, customerID string, productID int64) (cart.View, error) {
	_, ok, err := s.wishlists.Find(ctx, customerID, productID)
	if err != nil {
		return cart.View{}, err
	}
	if !ok {
		return cart.View{}, store.NewFailedPrecondition(ErrMsgNotInWishlist)
	}

	view, err := s.AddToCart(ctx, customerID, productID, 1)
	if err != nil {
		return cart.View{}, err
	}
	if _, err := s.wishlists.Remove(ctx, customerID, productID); err != nil {
		return cart.View{}, err
	}
	return view, nil
}

// Quote is a cart with its delivery estimate.
type Quote struct {
	cart.View
	EstimatedArrival time.Time `json:"estimated_arrival"`
}

// Quote returns the current cart, its totals and the expected arrival date.
func (s *Service) Quote(ctx context.Context, customerID string) (Quote, error) {
	view, err := s.carts.Get(ctx, customerID)
	if err != nil {
		return Quote{}, err
	}
	return Quote{View: view, EstimatedArrival: view.Delivery.EstimatedArrival(s.now())}, nil
}

// ValidateStock checks the customer's cart against stock and records the outcome.
func (s *Service) ValidateStock(ctx context.Context, customerID string) (invlogic.Result, error) {
	state, _, err := s.carts.State(ctx, customerID)
	if err != nil {
		return invlogic.Result{}, err
	}
	result, err := s.check(customerID).Run(ctx, s.validator.Validate, Lines(state))
	if err != nil {
		s.logger.Warn("stock validation failed",
			zap.String("customer_id", customerID),
			zap.Error(err))
		return result, fmt.Errorf("failed to validate stock: %w", err)
	}
	return result, nil
}

// StockStatus returns the outcome of the last stock validation.
func (s *Service) StockStatus(customerID string) invlogic.Result {
	return s.check(customerID).Result()
}

// PlaceOrderRequest carries what the cart does not know.
type PlaceOrderRequest struct {
	ShippingAddress orderlogic.Address `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
}

// Confirmation is returned for a placed order.
type Confirmation struct {
	OrderID          uuid.UUID      `json:"order_id"`
	Status           string         `json:"status"`
	Totals           pricing.Totals `json:"totals"`
	ItemCount        int32          `json:"item_count"`
	DeliveryOption   string         `json:"delivery_option"`
	EstimatedArrival time.Time      `json:"estimated_arrival"`
	PlacedAt         time.Time      `json:"placed_at"`
}

// PlaceOrder validates stock, commits the order and clears the cart.
//
// Nothing changes when validation fails or the order cannot be stored. Once
// the order is committed, failures to publish or to clear the session are
// logged and the order stands.
func (s *Service) PlaceOrder(ctx context.Context, customerID string, req PlaceOrderRequest) (Confirmation, error) {
	if !s.begin(customerID) {
		return Confirmation{}, store.NewFailedPrecondition(ErrMsgCheckoutRunning)
	}
	defer s.end(customerID)

	view, err := s.carts.Get(ctx, customerID)
	if err != nil {
		return Confirmation{}, err
	}
	if err := store.RequireItems(view.Items, cartlogic.ErrMsgCartEmpty); err != nil {
		return Confirmation{}, err
	}

	lines := viewLines(view)
	result, err := s.check(customerID).Run(ctx, s.validator.Validate, lines)
	if err != nil {
		return Confirmation{}, fmt.Errorf("failed to validate stock: %w", err)
	}
	if !result.Valid() {
		return Confirmation{}, &invlogic.StockError{Errors: result.Errors}
	}

	now := s.now()
	o, err := orderlogic.Place(draft(customerID, view, req), s.newID(), now)
	if err != nil {
		return Confirmation{}, err
	}

	if err := s.orders.Create(ctx, o); err != nil {
		if errors.Is(err, order.ErrInsufficientStock) {
			s.check(customerID).Reset()
			return Confirmation{}, &invlogic.StockError{Errors: []string{err.Error()}}
		}
		return Confirmation{}, fmt.Errorf("failed to store order: %w", err)
	}

	s.logger.Info("order placed",
		zap.String("order_id", o.ID.String()),
		zap.String("customer_id", customerID),
		zap.Int64("total_cents", int64(o.Totals.Total)))

	if err := s.publisher.PublishOrderPlaced(ctx, o); err != nil {
		s.logger.Error("order event not published", zap.String("order_id", o.ID.String()), zap.Error(err))
	}
	if _, err := s.carts.Clear(ctx, customerID); err != nil {
		s.logger.Error("cart not cleared after order", zap.String("customer_id", customerID), zap.Error(err))
	}
	s.clearCartSession(ctx, customerID)
	s.forgetCheck(customerID)

	return Confirmation{
		OrderID:          o.ID,
		Status:           string(o.Status),
		Totals:           o.Totals,
		ItemCount:        o.ItemCount(),
		DeliveryOption:   o.DeliveryOption,
		EstimatedArrival: view.Delivery.EstimatedArrival(now),
		PlacedAt:         o.CreatedAt,
	}, nil
}

// Logout empties the customer's cart and wishlist and drops their session.
func (s *Service) Logout(ctx context.Context, customerID string) error {
	if _, err := s.carts.Clear(ctx, customerID); err != nil {
		return err
	}
	if _, err := s.wishlists.Clear(ctx, customerID); err != nil {
		return err
	}
	s.forgetCheck(customerID)
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Clear(ctx, customerID)
}

// Lines converts cart lines to stock validation lines.
func Lines(state cartlogic.CartState) []invlogic.Line {
	lines := make([]invlogic.Line, 0, len(state.Items))
	for _, item := range state.Items {
		lines = append(lines, invlogic.Line{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
		})
	}
	return lines
}

func viewLines(view cart.View) []invlogic.Line {
	return Lines(cartlogic.CartState{Items: view.Items})
}

func draft(customerID string, view cart.View, req PlaceOrderRequest) orderlogic.Draft {
	items := make([]orderlogic.Item, 0, len(view.Items))
	for _, line := range view.Items {
		p := line.Product
		items = append(items, orderlogic.NewItem(p.ID, p.Name, p.Price, p.DiscountPercent, line.Quantity))
	}
	var code string
	if view.Coupon != nil {
		code = view.Coupon.Code
	}
	return orderlogic.Draft{
		CustomerID:      customerID,
		Items:           items,
		Totals:          view.Totals,
		CouponCode:      code,
		DeliveryOption:  view.Delivery.ID,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	}
}

func (s *Service) check(customerID string) *invlogic.StockCheck {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.checks[customerID]
	if !ok {
		c = invlogic.NewStockCheck()
		s.checks[customerID] = c
	}
	return c
}

func (s *Service) forgetCheck(customerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.checks, customerID)
}

func (s *Service) begin(customerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.placing[customerID] {
		return false
	}
	s.placing[customerID] = true
	return true
}

func (s *Service) end(customerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.placing, customerID)
}

func (s *Service) clearCartSession(ctx context.Context, customerID string) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.ClearCart(ctx, customerID); err != nil {
		s.logger.Warn("session not cleared", zap.String("customer_id", customerID), zap.Error(err))
	}
}
