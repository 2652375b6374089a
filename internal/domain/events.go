package domain

import "time"

// Routing keys for events published on the order exchange.
const (
	EventOrderConfirmed  = "order.confirmed"
	EventProductLowStock = "product.low_stock"
)

type OrderConfirmedEvent struct {
	OrderID     uint64    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	UserID      uint64    `json:"userId"`
	ItemCount   int       `json:"itemCount"`
	TotalCents  int64     `json:"totalCents"`
	CreatedAt   time.Time `json:"createdAt"`
}

type LowStockEvent struct {
	ProductID uint64 `json:"productId"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Remaining int64  `json:"remaining"`
}
