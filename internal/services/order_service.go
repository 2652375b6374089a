package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"shop-service/internal/domain"
	rabbit "shop-service/internal/infra/rabbitmq"
	"shop-service/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultStaleAfter = 24 * time.Hour

type OrderService struct {
	orders      repository.OrderRepository
	products    repository.ProductRepository
	publisher   rabbit.PublisherInterface
	redisClient *redis.Client
	staleAfter  time.Duration
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, pub rabbit.PublisherInterface) *OrderService {
	return &OrderService{
		orders:     orders,
		products:   products,
		publisher:  pub,
		staleAfter: defaultStaleAfter,
	}
}

func (s *OrderService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

func (s *OrderService) SetStaleAfter(d time.Duration) {
	if d > 0 {
		s.staleAfter = d
	}
}

// PlaceOrder validates the request against current catalog state, then runs
// the locking reservation transaction. The first pass exists to fail fast
// with a precise error before any lock is taken; the in-transaction re-check
// is what actually prevents overselling.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint64, shippingAddress, notes string, items []domain.ItemRequest) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	for _, req := range items {
		if req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %d", domain.ErrInvalidQuantity, req.ProductID)
		}
	}

	ids := make([]uint64, 0, len(items))
	for _, req := range items {
		ids = append(ids, req.ProductID)
	}
	known, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, req := range items {
		product, ok := known[req.ProductID]
		if !ok {
			return nil, &domain.ProductNotFoundError{ProductID: req.ProductID}
		}
		if !product.IsActive {
			return nil, &domain.ProductUnavailableError{ProductID: product.ID, Name: product.Name}
		}
		if product.StockQuantity < req.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Requested: req.Quantity,
				Available: product.StockQuantity,
			}
		}
	}

	order := &domain.Order{
		OrderNumber:     uuid.NewString(),
		UserID:          userID,
		Status:          domain.StatusPending,
		ShippingAddress: shippingAddress,
		Notes:           notes,
	}

	levels, err := s.orders.CreateReserved(ctx, order, items)
	if err != nil {
		return nil, err
	}

	// Best-effort side effects. None of these may fail the order, which is
	// already durable at this point.
	go s.publishOrderConfirmed(context.Background(), order)
	go s.publishLowStockAlerts(context.Background(), levels)
	s.invalidateProductCache(ctx)

	return order, nil
}

// GetOrder is owner-scoped: an order belonging to another user is
// indistinguishable from a missing one.
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID uint64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint64) ([]domain.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

func (s *OrderService) CancelOrder(ctx context.Context, orderID, userID uint64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrNotOrderOwner
	}

	cancelled, err := s.orders.CancelAndRestock(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.invalidateProductCache(ctx)
	return cancelled, nil
}

// ReapStaleOrders cancels every pending order older than the staleness
// threshold. Each order is handled in its own transaction so one failure
// doesn't block the rest of the batch.
func (s *OrderService) ReapStaleOrders(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.staleAfter)
	ids, err := s.orders.FindStalePendingIDs(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, id := range ids {
		if _, err := s.orders.CancelAndRestock(ctx, id); err != nil {
			// a concurrent manual cancel shows up here as not-cancellable,
			// which is exactly the no-op we want
			log.Printf("reaper: skipping order %d: %v", id, err)
			continue
		}
		count++
	}

	if count > 0 {
		s.invalidateProductCache(ctx)
	}
	log.Printf("reaper: cancelled %d stale orders", count)
	return count, nil
}

func (s *OrderService) publishOrderConfirmed(ctx context.Context, order *domain.Order) {
	if s.publisher == nil {
		return
	}
	evt := domain.OrderConfirmedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		ItemCount:   len(order.Items),
		TotalCents:  order.TotalCents,
		CreatedAt:   order.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, domain.EventOrderConfirmed, evt); err != nil {
		log.Printf("Failed to publish order confirmation for %s: %v", order.OrderNumber, err)
	}
}

func (s *OrderService) publishLowStockAlerts(ctx context.Context, levels []domain.StockLevel) {
	if s.publisher == nil {
		return
	}
	for _, lvl := range levels {
		if lvl.Remaining >= domain.LowStockThreshold {
			continue
		}
		evt := domain.LowStockEvent{
			ProductID: lvl.ProductID,
			Name:      lvl.Name,
			SKU:       lvl.SKU,
			Remaining: lvl.Remaining,
		}
		if err := s.publisher.Publish(ctx, domain.EventProductLowStock, evt); err != nil {
			log.Printf("Failed to publish low stock alert for %s: %v", lvl.SKU, err)
		}
	}
}

// invalidateProductCache drops every storefront read-model key after a stock
// movement: the category-scoped lists and the per-slug details, not just the
// uncategorized list, all repopulate on the next read.
func (s *OrderService) invalidateProductCache(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	for _, pattern := range []string{productListCacheKey("*"), productCacheKey("*")} {
		keys, err := s.redisClient.Keys(ctx, pattern).Result()
		if err != nil || len(keys) == 0 {
			continue
		}
		s.redisClient.Del(ctx, keys...)
	}
}
