// Package api is the storefront's public HTTP interface.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/annamerheb/storefront/cart"
	"github.com/annamerheb/storefront/catalog"
	"github.com/annamerheb/storefront/checkout"
	"github.com/annamerheb/storefront/order"
	"github.com/annamerheb/storefront/pricing"
	"github.com/annamerheb/storefront/wishlist"
)

// Deps are the services the API serves.
type Deps struct {
	Checkout  *checkout.Service
	Carts     *cart.Ledger
	Wishlists *wishlist.Service
	Catalog   catalog.Repository
	Orders    order.Repository
	Metrics   *Metrics
	Limiter   *RateLimiter // optional
	Logger    *zap.Logger
	// Health reports dependency problems; nil means healthy.
	Health func() map[string]error
}

// Server holds the HTTP handlers.
type Server struct {
	checkout  *checkout.Service
	carts     *cart.Ledger
	wishlists *wishlist.Service
	catalog   catalog.Repository
	orders    order.Repository
	metrics   *Metrics
	logger    *zap.Logger
	health    func() map[string]error
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	s := &Server{
		checkout:  deps.Checkout,
		carts:     deps.Carts,
		wishlists: deps.Wishlists,
		catalog:   deps.Catalog,
		orders:    deps.Orders,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		health:    deps.Health,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(Logger(deps.Logger))
	router.Use(deps.Metrics.Middleware())

	router.GET("/health", s.healthCheck)
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	if deps.Limiter != nil {
		v1.Use(deps.Limiter.Middleware())
	}
	{
		v1.GET("/products", s.listProducts)
		v1.GET("/products/:id", s.getProduct)
		v1.GET("/coupons", s.listCoupons)
		v1.GET("/delivery-options", s.listDeliveryOptions)

		carts := v1.Group("/carts/:customer")
		carts.GET("", s.getCart)
		carts.DELETE("", s.clearCart)
		carts.POST("/items", s.addCartItem)
		carts.PUT("/items/:product", s.setCartQuantity)
		carts.DELETE("/items/:product", s.removeCartItem)
		carts.PUT("/coupon", s.applyCoupon)
		carts.DELETE("/coupon", s.removeCoupon)
		carts.PUT("/delivery", s.selectDelivery)
		carts.POST("/validate", s.validateStock)
		carts.GET("/validation", s.stockStatus)
		carts.POST("/checkout", s.placeOrder)

		wishlists := v1.Group("/wishlists/:customer")
		wishlists.GET("", s.getWishlist)
		wishlists.POST("/items", s.addWishlistItem)
		wishlists.DELETE("/items/:product", s.removeWishlistItem)
		wishlists.POST("/items/:product/move", s.moveToCart)

		v1.DELETE("/sessions/:customer", s.logout)
		v1.GET("/customers/:customer/orders", s.listOrders)
		v1.GET("/orders/:id", s.getOrder)
	}

	return router
}

func (s *Server) healthCheck(c *gin.Context) {
	status := gin.H{"status": "healthy", "service": "storefront"}
	if s.health != nil {
		unhealthy := false
		for name, err := range s.health() {
			if err != nil {
				status[name] = "unhealthy"
				unhealthy = true
			} else {
				status[name] = "healthy"
			}
		}
		if unhealthy {
			status["status"] = "degraded"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
	}
	c.JSON(http.StatusOK, status)
}

func productParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "invalid product id",
			"request_id": c.GetString(requestIDKey),
		})
		return 0, false
	}
	return id, true
}

// catalog

type listProductsQuery struct {
	Page      int     `form:"page"`
	PageSize  int     `form:"page_size"`
	MinRating float64 `form:"min_rating"`
	Ordering  string  `form:"ordering"`
}

func (s *Server) listProducts(c *gin.Context) {
	var q listProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.badRequest(c, "Invalid query", err)
		return
	}
	page, err := s.catalog.List(c.Request.Context(), catalog.ListQuery{
		Page:      q.Page,
		PageSize:  q.PageSize,
		MinRating: q.MinRating,
		Ordering:  q.Ordering,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := productParam(c, "id")
	if !ok {
		return
	}
	p, err := s.catalog.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product":          p,
		"discounted_price": p.DiscountedPrice(),
		"in_stock":         p.InStock(),
		"low_stock":        p.LowStock(),
	})
}

func (s *Server) listCoupons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"coupons": pricing.Coupons()})
}

func (s *Server) listDeliveryOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"options": pricing.DeliveryOptions(),
		"default": pricing.DefaultDelivery().ID,
	})
}

// carts

type addItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int32 `json:"quantity"`
}

type quantityRequest struct {
	Quantity *int32 `json:"quantity" binding:"required"`
}

type couponRequest struct {
	Code string `json:"code"`
}

type deliveryRequest struct {
	OptionID string `json:"option_id"`
}

func (s *Server) getCart(c *gin.Context) {
	q, err := s.checkout.Quote(c.Request.Context(), c.Param("customer"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (s *Server) respondCart(c *gin.Context, view cart.View, err error) {
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request format", err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	view, err := s.checkout.AddToCart(c.Request.Context(), c.Param("customer"), req.ProductID, req.Quantity)
	s.respondCart(c, view, err)
}

func (s *Server) setCartQuantity(c *gin.Context) {
	id, ok := productParam(c, "product")
	if !ok {
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request format", err)
		return
	}
	view, err := s.carts.SetQuantity(c.Request.Context(), c.Param("customer"), id, *req.Quantity)
	s.respondCart(c, view, err)
}

func (s *Server) removeCartItem(c *gin.Context) {
	id, ok := productParam(c, "product")
	if !ok {
		return
	}
	view, err := s.carts.RemoveItem(c.Request.Context(), c.Param("customer"), id)
	s.respondCart(c, view, err)
}

func (s *Server) clearCart(c *gin.Context) {
	view, err := s.carts.Clear(c.Request.Context(), c.Param("customer"))
	s.respondCart(c, view, err)
}

func (s *Server) applyCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request format", err)
		return
	}
	view, err := s.carts.ApplyCoupon(c.Request.Context(), c.Param("customer"), req.Code)
	s.respondCart(c, view, err)
}

func (s *Server) removeCoupon(c *gin.Context) {
	view, err := s.carts.RemoveCoupon(c.Request.Context(), c.Param("customer"))
	s.respondCart(c, view, err)
}

func (s *Server) selectDelivery(c *gin.Context) {
	var req deliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request format", err)
		return
	}
	view, err := s.carts.SelectDelivery(c.Request.Context(), c.Param("customer"), req.OptionID)
	s.respondCart(c, view, err)
}

func (s *Server) validateStock(c *gin.Context) {
	result, err := s.checkout.ValidateStock(c.Request.Context(), c.Param("customer"))
	if err != nil {
		s.metrics.RecordStockValidation("error")
		s.respondError(c, err)
		return
	}
	s.metrics.RecordStockValidation(string(result.Phase))
	c.JSON(http.StatusOK, gin.H{
		"valid":  result.Valid(),
		"phase":  result.Phase,
		"errors": result.Errors,
	})
}

func (s *Server) stockStatus(c *gin.Context) {
	result := s.checkout.StockStatus(c.Param("customer"))
	c.JSON(http.StatusOK, gin.H{
		"valid":  result.Valid(),
		"phase":  result.Phase,
		"errors": result.Errors,
	})
}

func (s *Server) placeOrder(c *gin.Context) {
	var req checkout.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request format", err)
		return
	}
	conf, err := s.checkout.PlaceOrder(c.Request.Context(), c.Param("customer"), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.metrics.RecordOrder(int64(conf.Totals.Total))
	c.JSON(http.StatusCreated, conf)
}

// wishlists

type wishlistItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

func (s *Server) respondWishlist(c *gin.Context, view wishlist.View, err error) {
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) getWishlist(c *gin.Context) {
	view, err := s.wishlists.Get(c.Request.Context(), c.Param("customer"))
	s.respondWishlist(c, view, err)
}

func (s *Server) addWishlistItem(c *gin.Context) {
	var req wishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request format", err)
		return
	}
	view, err := s.checkout.SaveForLater(c.Request.Context(), c.Param("customer"), req.ProductID)
	s.respondWishlist(c, view, err)
}

func (s *Server) removeWishlistItem(c *gin.Context) {
	id, ok := productParam(c, "product")
	if !ok {
		return
	}
	view, err := s.wishlists.Remove(c.Request.Context(), c.Param("customer"), id)
	s.respondWishlist(c, view, err)
}

func (s *Server) moveToCart(c *gin.Context) {
	id, ok := productParam(c, "product")
	if !ok {
		return
	}
	view, err := s.checkout.MoveToCart(c.Request.Context(), c.Param("customer"), id)
	s.respondCart(c, view, err)
}

// sessions and orders

func (s *Server) logout(c *gin.Context) {
	if err := s.checkout.Logout(c.Request.Context(), c.Param("customer")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listOrders(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		s.badRequest(c, "invalid limit", err)
		return
	}
	orders, err := s.orders.ListByCustomer(c.Request.Context(), c.Param("customer"), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (s *Server) getOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.badRequest(c, "invalid order id", err)
		return
	}
	o, err := s.orders.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
