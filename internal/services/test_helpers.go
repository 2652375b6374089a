package services

import (
	"shop-service/internal/domain"
)

func testProduct(id uint64, name string, priceCents, stock int64) domain.Product {
	return domain.Product{
		ID:            id,
		Name:          name,
		Slug:          name,
		SKU:           name,
		PriceCents:    priceCents,
		StockQuantity: stock,
		IsActive:      true,
	}
}

const (
	testUserID    = uint64(7)
	testOrderID   = uint64(1)
	testProductID = uint64(1)
)
