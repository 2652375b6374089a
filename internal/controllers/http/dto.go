package http

type PlaceOrderItem struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderRequest struct {
	ShippingAddress string           `json:"shippingAddress" binding:"required"`
	Notes           string           `json:"notes"`
	Items           []PlaceOrderItem `json:"items" binding:"required,min=1,dive"`
}
