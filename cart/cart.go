// Package cart serves customer carts from the cart aggregate.
package cart

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/annamerheb/storefront/cart/logic"
	"github.com/annamerheb/storefront/pricing"
	"github.com/annamerheb/storefront/store"
)

// View is a cart together with its derived values.
type View struct {
	CustomerID string                 `json:"customer_id"`
	Items      []logic.CartItem       `json:"items"`
	Coupon     *pricing.Coupon        `json:"coupon,omitempty"`
	Delivery   pricing.DeliveryOption `json:"delivery"`
	ItemCount  int32                  `json:"item_count"`
	TotalPrice pricing.Cents          `json:"total_price"`
	Totals     pricing.Totals         `json:"totals"`
	Version    uint32                 `json:"version"`
}

// Ledger executes cart commands and derives views through memoized selectors.
type Ledger struct {
	agg       *store.Aggregate[logic.CartState]
	selectors *logic.Selectors
	logger    *zap.Logger
}

// NewLedger creates a cart ledger. opts configure the underlying aggregate
// (listeners, hydrator, snapshotting).
func NewLedger(logger *zap.Logger, taxRate decimal.Decimal, opts ...store.AggregateOption[logic.CartState]) *Ledger {
	builder := logic.NewStateBuilder()
	opts = append([]store.AggregateOption[logic.CartState]{store.WithLogger[logic.CartState](logger)}, opts...)
	return &Ledger{
		agg:       store.NewAggregate(logic.NewRouter(builder), builder, opts...),
		selectors: logic.NewSelectors(taxRate),
		logger:    logger,
	}
}

// Execute runs a cart command for a customer and returns the resulting view.
func (l *Ledger) Execute(ctx context.Context, customerID string, cmd store.Command) (View, error) {
	cover := store.CartCover(customerID)
	commit, err := l.agg.Execute(ctx, cover, cmd)
	if err != nil {
		l.logger.Info("cart command rejected",
			zap.String("customer_id", customerID),
			zap.String("command", commandName(cmd)),
			zap.Error(err))
		return View{}, err
	}
	return l.view(customerID, commit.Version(), commit.State), nil
}

// Get returns the current cart of a customer.
func (l *Ledger) Get(ctx context.Context, customerID string) (View, error) {
	state, version, err := l.State(ctx, customerID)
	if err != nil {
		return View{}, err
	}
	return l.view(customerID, version, state), nil
}

// State returns the raw cart state and its version.
func (l *Ledger) State(ctx context.Context, customerID string) (logic.CartState, store.Version, error) {
	cover := store.CartCover(customerID)
	state, seq, err := l.agg.State(ctx, cover)
	if err != nil {
		return logic.CartState{}, store.Version{}, err
	}
	return state, store.Version{Root: cover.Root, Sequence: seq}, nil
}

func (l *Ledger) AddItem(ctx context.Context, customerID string, product logic.Product, quantity int32) (View, error) {
	l.logger.Info("adding item",
		zap.String("customer_id", customerID),
		zap.Int64("product_id", product.ID),
		zap.Int32("quantity", quantity))
	return l.Execute(ctx, customerID, logic.AddItem{Product: product, Quantity: quantity})
}

func (l *Ledger) RemoveItem(ctx context.Context, customerID string, productID int64) (View, error) {
	return l.Execute(ctx, customerID, logic.RemoveItem{ProductID: productID})
}

func (l *Ledger) SetQuantity(ctx context.Context, customerID string, productID int64, quantity int32) (View, error) {
	return l.Execute(ctx, customerID, logic.SetQuantity{ProductID: productID, Quantity: quantity})
}

func (l *Ledger) Clear(ctx context.Context, customerID string) (View, error) {
	return l.Execute(ctx, customerID, logic.ClearCart{})
}

func (l *Ledger) ApplyCoupon(ctx context.Context, customerID, code string) (View, error) {
	l.logger.Info("applying coupon", zap.String("customer_id", customerID), zap.String("code", code))
	return l.Execute(ctx, customerID, logic.ApplyCoupon{Code: code})
}

func (l *Ledger) RemoveCoupon(ctx context.Context, customerID string) (View, error) {
	return l.Execute(ctx, customerID, logic.RemoveCoupon{})
}

func (l *Ledger) SelectDelivery(ctx context.Context, customerID, optionID string) (View, error) {
	return l.Execute(ctx, customerID, logic.SelectDelivery{OptionID: optionID})
}

// TaxRate is the rate the ledger composes totals with.
func (l *Ledger) TaxRate() decimal.Decimal {
	return l.selectors.TaxRate()
}

func (l *Ledger) view(customerID string, v store.Version, state logic.CartState) View {
	return View{
		CustomerID: customerID,
		Items:      state.Items,
		Coupon:     state.Coupon,
		Delivery:   state.Delivery(),
		ItemCount:  l.selectors.ItemCount(v, state),
		TotalPrice: l.selectors.TotalPrice(v, state),
		Totals:     l.selectors.Totals(v, state),
		Version:    v.Sequence,
	}
}

func commandName(cmd store.Command) string {
	if cmd == nil {
		return ""
	}
	return cmd.CommandName()
}
