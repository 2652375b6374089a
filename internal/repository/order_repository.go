package repository

import (
	"context"
	"time"

	"shop-service/internal/domain"
)

type OrderRepository interface {
	// CreateReserved runs the whole placement transaction: per-product row
	// locks in ascending product-id order, stock re-check, snapshot items,
	// stock decrement and total recomputation. On any failure nothing is
	// persisted. Returns the post-decrement stock level of every product
	// touched.
	CreateReserved(ctx context.Context, order *domain.Order, items []domain.ItemRequest) ([]domain.StockLevel, error)

	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error)

	// CancelAndRestock atomically re-checks that the order is still pending,
	// restores stock for every item whose product still exists, and marks the
	// order cancelled. Both manual cancellation and the stale-order reaper go
	// through this single guarded path.
	CancelAndRestock(ctx context.Context, orderID uint64) (*domain.Order, error)

	FindStalePendingIDs(ctx context.Context, olderThan time.Time) ([]uint64, error)
}

type ProductRepository interface {
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ListActive(ctx context.Context, categorySlug string) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
