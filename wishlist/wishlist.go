// Package wishlist serves customer wishlists from the wishlist aggregate.
package wishlist

import (
	"context"

	"go.uber.org/zap"

	"github.com/annamerheb/storefront/store"
	"github.com/annamerheb/storefront/wishlist/logic"
)

// View is a customer's wishlist.
type View struct {
	CustomerID string       `json:"customer_id"`
	Items      []logic.Item `json:"items"`
	Count      int          `json:"count"`
}

type Service struct {
	agg    *store.Aggregate[logic.State]
	logger *zap.Logger
}

func NewService(logger *zap.Logger, opts ...store.AggregateOption[logic.State]) *Service {
	builder := logic.NewStateBuilder()
	opts = append([]store.AggregateOption[logic.State]{store.WithLogger[logic.State](logger)}, opts...)
	return &Service{
		agg:    store.NewAggregate(logic.NewRouter(builder), builder, opts...),
		logger: logger,
	}
}

func (s *Service) Add(ctx context.Context, customerID string, item logic.Item) (View, error) {
	s.logger.Info("saving to wishlist", zap.String("customer_id", customerID), zap.Int64("product_id", item.ID))
	return s.execute(ctx, customerID, logic.AddItem{Item: item})
}

func (s *Service) Remove(ctx context.Context, customerID string, productID int64) (View, error) {
	return s.execute(ctx, customerID, logic.RemoveItem{ProductID: productID})
}

func (s *Service) Clear(ctx context.Context, customerID string) (View, error) {
	return s.execute(ctx, customerID, logic.Clear{})
}

func (s *Service) Get(ctx context.Context, customerID string) (View, error) {
	state, _, err := s.agg.State(ctx, store.WishlistCover(customerID))
	if err != nil {
		return View{}, err
	}
	return newView(customerID, state), nil
}

// Find returns the saved item for productID.
func (s *Service) Find(ctx context.Context, customerID string, productID int64) (logic.Item, bool, error) {
	state, _, err := s.agg.State(ctx, store.WishlistCover(customerID))
	if err != nil {
		return logic.Item{}, false, err
	}
	for _, item := range state.Items {
		if item.ID == productID {
			return item, true, nil
		}
	}
	return logic.Item{}, false, nil
}

func (s *Service) execute(ctx context.Context, customerID string, cmd store.Command) (View, error) {
	commit, err := s.agg.Execute(ctx, store.WishlistCover(customerID), cmd)
	if err != nil {
		return View{}, err
	}
	return newView(customerID, commit.State), nil
}

func newView(customerID string, state logic.State) View {
	return View{CustomerID: customerID, Items: state.Items, Count: len(state.Items)}
}
