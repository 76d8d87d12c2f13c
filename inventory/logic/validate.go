package logic

import (
	"fmt"
	"strings"
)

// Error message constants for inventory domain.
const (
	ErrMsgInsufficientStock = "Insufficient stock for product %d (%s): requested %d, available %d"
	ErrMsgUnknownProduct    = "Product %d is no longer available"
	ErrMsgNoItems           = "No items to validate"
	ErrMsgQuantityPositive  = "Quantity must be positive"
)

// Line is a requested quantity of one product.
type Line struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Quantity  int32  `json:"quantity"`
}

// Stock is the available quantity of one product.
type Stock struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Available int32  `json:"available"`
}

// Validate checks every line against available stock and returns one message
// per line that cannot be fulfilled. The result is empty when all lines fit.
func Validate(lines []Line, stock map[int64]Stock) []string {
	errs := make([]string, 0)
	for _, line := range lines {
		s, ok := stock[line.ProductID]
		if !ok {
			errs = append(errs, fmt.Sprintf(ErrMsgUnknownProduct, line.ProductID))
			continue
		}
		if line.Quantity > s.Available {
			name := s.Name
			if name == "" {
				name = line.Name
			}
			errs = append(errs, fmt.Sprintf(ErrMsgInsufficientStock, line.ProductID, name, line.Quantity, s.Available))
		}
	}
	return errs
}

// ProductIDs returns the distinct product ids of lines in order.
func ProductIDs(lines []Line) []int64 {
	seen := make(map[int64]bool, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	return ids
}

// StockError reports lines that failed stock validation.
type StockError struct {
	Errors []string
}

func (e *StockError) Error() string {
	return strings.Join(e.Errors, "; ")
}
