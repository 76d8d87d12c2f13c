package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/annamerheb/storefront/catalog"
	invlogic "github.com/annamerheb/storefront/inventory/logic"
	"github.com/annamerheb/storefront/order"
	"github.com/annamerheb/storefront/store"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var stockErr *invlogic.StockError
	switch {
	case errors.As(err, &stockErr):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound
	}
	return store.HTTPStatus(err)
}

// respondError writes err as a single message. Stock failures also carry the
// per-line messages.
func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{
		"error":      err.Error(),
		"request_id": c.GetString(requestIDKey),
	}
	var stockErr *invlogic.StockError
	if errors.As(err, &stockErr) {
		body["errors"] = stockErr.Errors
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request error",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		_ = c.Error(err)
	}
	c.JSON(status, body)
}

func (s *Server) badRequest(c *gin.Context, msg string, err error) {
	body := gin.H{
		"error":      msg,
		"request_id": c.GetString(requestIDKey),
	}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}
