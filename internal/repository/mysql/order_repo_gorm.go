package mysql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"shop-service/internal/domain"
	"shop-service/internal/repository"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// translateErr maps MySQL lock-wait timeouts (1205) and deadlocks (1213) to
// the retryable error class; the whole placement call is safe to rerun.
func translateErr(err error) error {
	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1205, 1213:
			return fmt.Errorf("%w: %v", domain.ErrTransientStorage, err)
		}
	}
	return err
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) CreateReserved(ctx context.Context, order *domain.Order, items []domain.ItemRequest) ([]domain.StockLevel, error) {
	// Lock products in ascending id order so two overlapping multi-item
	// orders can't deadlock each other.
	sorted := make([]domain.ItemRequest, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	var levels []domain.StockLevel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, req := range sorted {
			var product domain.Product
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, req.ProductID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &domain.ProductNotFoundError{ProductID: req.ProductID}
			}
			if err != nil {
				return err
			}

			if !product.IsActive {
				return &domain.ProductUnavailableError{ProductID: product.ID, Name: product.Name}
			}

			// Re-check under the lock: stock may have moved since the
			// caller's pre-check.
			if product.StockQuantity < req.Quantity {
				return &domain.InsufficientStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Requested: req.Quantity,
					Available: product.StockQuantity,
				}
			}

			productID := product.ID
			item := domain.OrderItem{
				OrderID:           order.ID,
				ProductID:         &productID,
				ProductName:       product.Name,
				ProductPriceCents: product.PriceCents,
				Quantity:          req.Quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			order.Items = append(order.Items, item)

			if err := tx.Model(&product).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", req.Quantity)).Error; err != nil {
				return err
			}

			levels = append(levels, domain.StockLevel{
				ProductID: product.ID,
				Name:      product.Name,
				SKU:       product.SKU,
				Remaining: product.StockQuantity - req.Quantity,
			})
		}

		order.CalculateTotal()
		return tx.Model(order).Update("total_cents", order.TotalCents).Error
	})
	if err != nil {
		return nil, translateErr(err)
	}
	return levels, nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) CancelAndRestock(ctx context.Context, orderID uint64) (*domain.Order, error) {
	var order domain.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		// The FSM also allows confirmed -> cancelled, but that edge belongs
		// to fulfillment; buyer-facing cancellation stops at pending.
		if order.Status != domain.StatusPending {
			return domain.ErrOrderNotCancellable
		}

		var items []domain.OrderItem
		if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
			return err
		}

		for _, item := range items {
			if item.ProductID == nil {
				// product was deleted after the order; nothing to restore
				continue
			}
			err := tx.Model(&domain.Product{}).
				Where("id = ?", *item.ProductID).
				Update("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error
			if err != nil {
				return err
			}
		}

		if err := tx.Model(&order).Update("status", domain.StatusCancelled).Error; err != nil {
			return err
		}
		order.Status = domain.StatusCancelled
		order.Items = items
		return nil
	})
	if err != nil {
		return nil, translateErr(err)
	}
	return &order, nil
}

func (r *orderRepo) FindStalePendingIDs(ctx context.Context, olderThan time.Time) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("status = ? AND created_at < ?", domain.StatusPending, olderThan).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
