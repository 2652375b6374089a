package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// validNext documents the full lifecycle even though this service only ever
// performs pending -> cancelled; confirmed/shipped/delivered belong to the
// fulfillment integration.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:   {StatusDelivered: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

type Order struct {
	ID              uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber     string      `json:"orderNumber" gorm:"size:36;uniqueIndex;not null"`
	UserID          uint64      `json:"userId" gorm:"not null;index:idx_orders_user_status"`
	Status          OrderStatus `json:"status" gorm:"type:enum('pending','confirmed','shipped','delivered','cancelled');default:'pending';index:idx_orders_user_status"`
	TotalCents      int64       `json:"totalCents" gorm:"not null;default:0"`
	ShippingAddress string      `json:"shippingAddress" gorm:"type:text;not null"`
	Notes           string      `json:"notes" gorm:"type:text"`
	Items           []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time   `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time   `json:"updatedAt" gorm:"autoUpdateTime"`
}

// OrderItem snapshots the product name and price at placement time, so old
// orders stay readable after the catalog changes or a product is deleted.
type OrderItem struct {
	ID                uint64  `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID           uint64  `json:"orderId" gorm:"not null;index"`
	ProductID         *uint64 `json:"productId" gorm:"index"`
	ProductName       string  `json:"productName" gorm:"size:255;not null"`
	ProductPriceCents int64   `json:"productPriceCents" gorm:"not null"`
	Quantity          int64   `json:"quantity" gorm:"not null"`
}

func (i OrderItem) SubtotalCents() int64 {
	return i.ProductPriceCents * i.Quantity
}

// CalculateTotal recomputes the order total from its item snapshots.
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.SubtotalCents()
	}
	o.TotalCents = total
	return total
}

// ItemRequest is one line of a placement request, before any validation.
type ItemRequest struct {
	ProductID uint64
	Quantity  int64
}

// StockLevel reports where a product's stock landed after a reservation.
type StockLevel struct {
	ProductID uint64
	Name      string
	SKU       string
	Remaining int64
}
