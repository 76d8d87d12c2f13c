// Package rpc exposes stock validation over gRPC. Messages are
// google.protobuf.Struct values so no generated stubs are needed:
//
//	request:  {"items": [{"product": 1, "quantity": 5, "name": "Widget"}]}
//	response: {"valid": false, "errors": ["..."]}
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName         = "storefront.inventory.v1.Inventory"
	ValidateStockMethod = "/" + ServiceName + "/ValidateStock"
)

// InventoryServer is the server API for the inventory service.
type InventoryServer interface {
	ValidateStock(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the inventory service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InventoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ValidateStock", Handler: validateStockHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/inventory/v1/inventory.proto",
}

// RegisterInventoryServer registers srv on s.
func RegisterInventoryServer(s grpc.ServiceRegistrar, srv InventoryServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func validateStockHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryServer).ValidateStock(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ValidateStockMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(InventoryServer).ValidateStock(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
