package store

import (
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MapCommandError converts a CommandError to a gRPC status error.
// Non-CommandError values are wrapped as Internal.
func MapCommandError(err error) error {
	if cmdErr, ok := AsCommandError(err); ok {
		if code := cmdErr.Code.GRPCCode(); code != codes.Unknown {
			return status.Error(code, cmdErr.Message)
		}
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Errorf(codes.Internal, "internal error: %v", err)
}

// HTTPStatus picks the HTTP status for an error returned by a command.
func HTTPStatus(err error) int {
	switch status.Code(MapCommandError(err)) {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.FailedPrecondition:
		return http.StatusConflict
	case codes.NotFound:
		return http.StatusNotFound
	case codes.Unavailable, codes.DeadlineExceeded:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
