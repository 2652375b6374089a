package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending can be confirmed", StatusPending, StatusConfirmed, true},
		{"pending can be cancelled", StatusPending, StatusCancelled, true},
		{"pending cannot ship directly", StatusPending, StatusShipped, false},
		{"confirmed can ship", StatusConfirmed, StatusShipped, true},
		{"confirmed can be cancelled", StatusConfirmed, StatusCancelled, true},
		{"shipped can be delivered", StatusShipped, StatusDelivered, true},
		{"shipped cannot be cancelled", StatusShipped, StatusCancelled, false},
		{"delivered is terminal", StatusDelivered, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"cancelled cannot be confirmed", StatusCancelled, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCalculateTotal(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{ProductPriceCents: 4999, Quantity: 2},
			{ProductPriceCents: 1250, Quantity: 1},
		},
	}

	total := order.CalculateTotal()

	assert.Equal(t, int64(2*4999+1250), total)
	assert.Equal(t, total, order.TotalCents)
}

func TestCalculateTotalEmptyOrder(t *testing.T) {
	order := &Order{TotalCents: 42}
	assert.Equal(t, int64(0), order.CalculateTotal())
	assert.Equal(t, int64(0), order.TotalCents)
}

func TestSubtotalCents(t *testing.T) {
	item := OrderItem{ProductPriceCents: 4999, Quantity: 3}
	assert.Equal(t, int64(14997), item.SubtotalCents())
}

func TestDiscountPercent(t *testing.T) {
	full := int64(10000)

	p := Product{PriceCents: 7500, CompareAtPriceCents: &full}
	assert.Equal(t, 25, p.DiscountPercent())

	p = Product{PriceCents: 10000, CompareAtPriceCents: &full}
	assert.Equal(t, 0, p.DiscountPercent())

	p = Product{PriceCents: 7500}
	assert.Equal(t, 0, p.DiscountPercent())
}
