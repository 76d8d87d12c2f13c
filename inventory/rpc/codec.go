package rpc

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/annamerheb/storefront/inventory/logic"
)

// EncodeRequest builds a ValidateStock request.
func EncodeRequest(lines []logic.Line) (*structpb.Struct, error) {
	items := make([]interface{}, 0, len(lines))
	for _, line := range lines {
		items = append(items, map[string]interface{}{
			"product":  line.ProductID,
			"quantity": line.Quantity,
			"name":     line.Name,
		})
	}
	return structpb.NewStruct(map[string]interface{}{"items": items})
}

// DecodeRequest reads the lines of a ValidateStock request.
func DecodeRequest(req *structpb.Struct) ([]logic.Line, error) {
	values := req.GetFields()["items"].GetListValue().GetValues()
	lines := make([]logic.Line, 0, len(values))
	for i, v := range values {
		item := v.GetStructValue()
		if item == nil {
			return nil, fmt.Errorf("item %d is not an object", i)
		}
		product, err := wholeNumber(item, "product")
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		quantity, err := wholeNumber(item, "quantity")
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if quantity > math.MaxInt32 || quantity < math.MinInt32 {
			return nil, fmt.Errorf("item %d: quantity out of range", i)
		}
		lines = append(lines, logic.Line{
			ProductID: product,
			Name:      item.GetFields()["name"].GetStringValue(),
			Quantity:  int32(quantity),
		})
	}
	return lines, nil
}

// EncodeResponse builds a ValidateStock response.
func EncodeResponse(errs []string) (*structpb.Struct, error) {
	list := make([]interface{}, 0, len(errs))
	for _, e := range errs {
		list = append(list, e)
	}
	return structpb.NewStruct(map[string]interface{}{
		"valid":  len(errs) == 0,
		"errors": list,
	})
}

// DecodeResponse reads the errors of a ValidateStock response.
func DecodeResponse(resp *structpb.Struct) []string {
	values := resp.GetFields()["errors"].GetListValue().GetValues()
	errs := make([]string, 0, len(values))
	for _, v := range values {
		errs = append(errs, v.GetStringValue())
	}
	return errs
}

func wholeNumber(s *structpb.Struct, field string) (int64, error) {
	v, ok := s.GetFields()[field]
	if !ok {
		return 0, fmt.Errorf("%s is required", field)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", field)
	}
	if n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, fmt.Errorf("%s must be a whole number", field)
	}
	return int64(n.NumberValue), nil
}
