package logic

import (
	"github.com/annamerheb/storefront/pricing"
	"github.com/annamerheb/storefront/store"
)

// Error message constants for wishlist domain.
const (
	ErrMsgProductIDRequired = "Product ID is required"
	ErrMsgNameRequired      = "Product name is required"
)

// Command names.
const (
	CmdAddItem    = "AddWishlistItem"
	CmdRemoveItem = "RemoveWishlistItem"
	CmdClear      = "ClearWishlist"
)

// Event names.
const (
	EvtItemAdded   = "WishlistItemAdded"
	EvtItemRemoved = "WishlistItemRemoved"
	EvtCleared     = "WishlistCleared"
)

// Item is a product saved for later.
type Item struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Price    pricing.Cents `json:"price"`
	ImageURL string        `json:"image_url,omitempty"`
	Stock    int32         `json:"stock"`
}

type AddItem struct{ Item Item }
type RemoveItem struct{ ProductID int64 }
type Clear struct{}

func (AddItem) CommandName() string    { return CmdAddItem }
func (RemoveItem) CommandName() string { return CmdRemoveItem }
func (Clear) CommandName() string      { return CmdClear }

type ItemAdded struct {
	Item Item `json:"item"`
}

type ItemRemoved struct {
	ProductID int64 `json:"product_id"`
}

type Cleared struct {
	Count int `json:"count"`
}

func (ItemAdded) EventName() string   { return EvtItemAdded }
func (ItemRemoved) EventName() string { return EvtItemRemoved }
func (Cleared) EventName() string     { return EvtCleared }

// State is a customer's wishlist in the order items were saved.
type State struct {
	Items []Item `json:"items"`
}

func EmptyState() State {
	return State{Items: []Item{}}
}

func (s *State) Contains(productID int64) bool {
	return s.find(productID) >= 0
}

func (s *State) find(productID int64) int {
	for i, item := range s.Items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

// HandleAddItem saves a product. Saving a product twice changes nothing.
func HandleAddItem(cover store.Cover, cmd AddItem, state *State, seq uint32) (*store.EventBook, error) {
	if cmd.Item.ID <= 0 {
		return nil, store.NewInvalidArgument(ErrMsgProductIDRequired)
	}
	if err := store.RequireNotEmpty(cmd.Item.Name, ErrMsgNameRequired); err != nil {
		return nil, err
	}
	if state.Contains(cmd.Item.ID) {
		return store.NoEvents(cover), nil
	}
	return store.PackEvent(cover, ItemAdded{Item: cmd.Item}, seq), nil
}

func HandleRemoveItem(cover store.Cover, cmd RemoveItem, state *State, seq uint32) (*store.EventBook, error) {
	if !state.Contains(cmd.ProductID) {
		return store.NoEvents(cover), nil
	}
	return store.PackEvent(cover, ItemRemoved{ProductID: cmd.ProductID}, seq), nil
}

func HandleClear(cover store.Cover, _ Clear, state *State, seq uint32) (*store.EventBook, error) {
	if len(state.Items) == 0 {
		return store.NoEvents(cover), nil
	}
	return store.PackEvent(cover, Cleared{Count: len(state.Items)}, seq), nil
}

func NewStateBuilder() *store.StateBuilder[State] {
	return store.NewStateBuilder(EmptyState).
		WithSnapshot(store.LoadJSONSnapshot[State]()).
		On(EvtItemAdded, store.Reduce(func(s *State, e ItemAdded) {
			items := make([]Item, len(s.Items), len(s.Items)+1)
			copy(items, s.Items)
			s.Items = append(items, e.Item)
		})).
		On(EvtItemRemoved, store.Reduce(func(s *State, e ItemRemoved) {
			items := make([]Item, 0, len(s.Items))
			for _, item := range s.Items {
				if item.ID != e.ProductID {
					items = append(items, item)
				}
			}
			s.Items = items
		})).
		On(EvtCleared, store.Reduce(func(s *State, _ Cleared) {
			*s = EmptyState()
		}))
}

func NewRouter(builder *store.StateBuilder[State]) *store.CommandRouter[State] {
	return store.NewCommandRouter(store.DomainWishlist, builder.RebuildFunc()).
		On(CmdAddItem, store.Handle(HandleAddItem)).
		On(CmdRemoveItem, store.Handle(HandleRemoveItem)).
		On(CmdClear, store.Handle(HandleClear))
}
