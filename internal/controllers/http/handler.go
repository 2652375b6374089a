package http

import (
	"errors"
	"net/http"
	"strconv"

	"shop-service/internal/domain"
	"shop-service/internal/services"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

type Handler struct {
	orders   *services.OrderService
	products *services.ProductService
}

func NewHandler(orders *services.OrderService, products *services.ProductService) *Handler {
	return &Handler{orders: orders, products: products}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	r.GET("/products", h.ListProducts)
	r.GET("/products/:slug", h.GetProduct)
	r.GET("/categories", h.ListCategories)

	authed := r.Group("/", RequireUser())
	authed.POST("/orders", h.PlaceOrder)
	authed.GET("/orders", h.ListOrders)
	authed.GET("/orders/:id", h.GetOrder)
	authed.POST("/orders/:id/cancel", h.CancelOrder)
}

// RequireUser trusts the gateway-authenticated user id header. Actual
// authentication happens upstream.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

func currentUser(c *gin.Context) uint64 {
	return c.GetUint64(userIDKey)
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]domain.ItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.ItemRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), currentUser(c), req.ShippingAddress, req.Notes, items)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), currentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id, currentUser(c))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.orders.CancelOrder(c.Request.Context(), id, currentUser(c))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.products.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

func writeOrderError(c *gin.Context, err error) {
	var notFound *domain.ProductNotFoundError
	var unavailable *domain.ProductUnavailableError
	var outOfStock *domain.InsufficientStockError

	switch {
	case errors.Is(err, domain.ErrEmptyOrder), errors.Is(err, domain.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "productId": notFound.ProductID})
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &unavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "productId": unavailable.ProductID})
	case errors.As(err, &outOfStock):
		c.JSON(http.StatusConflict, gin.H{
			"error":     err.Error(),
			"productId": outOfStock.ProductID,
			"requested": outOfStock.Requested,
			"available": outOfStock.Available,
		})
	case errors.Is(err, domain.ErrNotOrderOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrOrderNotCancellable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTransientStorage):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "retryable": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
