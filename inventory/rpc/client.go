package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/annamerheb/storefront/inventory/logic"
)

// RemoteValidator validates stock through the inventory service.
type RemoteValidator struct {
	conn grpc.ClientConnInterface
}

func NewRemoteValidator(conn grpc.ClientConnInterface) *RemoteValidator {
	return &RemoteValidator{conn: conn}
}

// Dial connects to the inventory service at addr.
func Dial(addr string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to inventory at %s: %w", addr, err)
	}
	return conn, nil
}

func (v *RemoteValidator) Validate(ctx context.Context, lines []logic.Line) ([]string, error) {
	if len(lines) == 0 {
		return []string{}, nil
	}
	req, err := EncodeRequest(lines)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stock request: %w", err)
	}
	resp := new(structpb.Struct)
	if err := v.conn.Invoke(ctx, ValidateStockMethod, req, resp); err != nil {
		return nil, fmt.Errorf("stock validation call failed: %w", err)
	}
	return DecodeResponse(resp), nil
}
