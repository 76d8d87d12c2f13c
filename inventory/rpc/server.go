package rpc

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/annamerheb/storefront/inventory"
	"github.com/annamerheb/storefront/inventory/logic"
	"github.com/annamerheb/storefront/store"
)

// Server answers ValidateStock calls with a validator.
type Server struct {
	validator inventory.Validator
	logger    *zap.Logger
}

func NewServer(validator inventory.Validator, logger *zap.Logger) *Server {
	return &Server{validator: validator, logger: logger}
}

func (s *Server) ValidateStock(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	lines, err := DecodeRequest(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}
	if err := store.RequireItems(lines, logic.ErrMsgNoItems); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Message)
	}
	for _, line := range lines {
		if err := store.RequirePositive(line.Quantity, logic.ErrMsgQuantityPositive); err != nil {
			return nil, store.MapCommandError(err)
		}
	}

	errs, err := s.validator.Validate(ctx, lines)
	if err != nil {
		s.logger.Error("stock validation failed", zap.Error(err))
		return nil, status.Error(codes.Unavailable, "stock validation unavailable")
	}

	s.logger.Info("stock validated",
		zap.Int("lines", len(lines)),
		zap.Int("errors", len(errs)))
	return EncodeResponse(errs)
}

// Register returns a store.RegisterFunc that installs the server.
func (s *Server) Register() store.RegisterFunc {
	return func(g *grpc.Server) {
		RegisterInventoryServer(g, s)
	}
}
