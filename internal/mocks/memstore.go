package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"shop-service/internal/domain"
)

// MemStore is an in-memory stand-in for the MySQL repositories. A single
// mutex plays the role of the row locks: every reservation or cancellation
// runs as one critical section, so the all-or-nothing and no-oversell
// semantics match the real transactional implementation.
type MemStore struct {
	mu         sync.Mutex
	products   map[uint64]*domain.Product
	categories []domain.Category
	orders     map[uint64]*domain.Order
	nextOrder  uint64
	nextItem   uint64
}

func NewMemStore() *MemStore {
	return &MemStore{
		products: make(map[uint64]*domain.Product),
		orders:   make(map[uint64]*domain.Order),
	}
}

func (s *MemStore) AddProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.products[p.ID] = &cp
}

func (s *MemStore) AddCategory(c domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, c)
}

// Product returns a snapshot of the stored product for assertions.
func (s *MemStore) Product(id uint64) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, false
	}
	return *p, true
}

func (s *MemStore) UpdateProduct(id uint64, fn func(*domain.Product)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		fn(p)
	}
}

// DeleteProduct removes a product and nulls out the reference on existing
// order items, the way the schema's ON DELETE SET NULL does.
func (s *MemStore) DeleteProduct(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
	for _, o := range s.orders {
		for i := range o.Items {
			if o.Items[i].ProductID != nil && *o.Items[i].ProductID == id {
				o.Items[i].ProductID = nil
			}
		}
	}
}

func (s *MemStore) Order(id uint64) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, false
	}
	return cloneOrder(o), true
}

func (s *MemStore) SetOrderCreatedAt(id uint64, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		o.CreatedAt = t
	}
}

func (s *MemStore) CreateReserved(ctx context.Context, order *domain.Order, items []domain.ItemRequest) ([]domain.StockLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := make([]domain.ItemRequest, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	s.nextOrder++
	order.ID = s.nextOrder
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt

	// Check-and-decrement per line, like the SQL transaction: each line sees
	// the stock left after the lines before it, so duplicate product lines
	// cannot jointly oversell. On any failure, undo and leave no trace.
	taken := make(map[uint64]int64)
	rollback := func() {
		for id, qty := range taken {
			s.products[id].StockQuantity += qty
		}
		order.ID = 0
		order.Items = nil
	}

	var levels []domain.StockLevel
	for _, req := range sorted {
		p, ok := s.products[req.ProductID]
		if !ok {
			rollback()
			return nil, &domain.ProductNotFoundError{ProductID: req.ProductID}
		}
		if !p.IsActive {
			rollback()
			return nil, &domain.ProductUnavailableError{ProductID: p.ID, Name: p.Name}
		}
		if p.StockQuantity < req.Quantity {
			err := &domain.InsufficientStockError{
				ProductID: p.ID,
				Name:      p.Name,
				Requested: req.Quantity,
				Available: p.StockQuantity,
			}
			rollback()
			return nil, err
		}

		productID := p.ID
		s.nextItem++
		order.Items = append(order.Items, domain.OrderItem{
			ID:                s.nextItem,
			OrderID:           order.ID,
			ProductID:         &productID,
			ProductName:       p.Name,
			ProductPriceCents: p.PriceCents,
			Quantity:          req.Quantity,
		})
		p.StockQuantity -= req.Quantity
		taken[p.ID] += req.Quantity
		levels = append(levels, domain.StockLevel{
			ProductID: p.ID,
			Name:      p.Name,
			SKU:       p.SKU,
			Remaining: p.StockQuantity,
		})
	}

	order.CalculateTotal()
	stored := cloneOrder(order)
	s.orders[order.ID] = &stored
	return levels, nil
}

func (s *MemStore) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (s *MemStore) FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemStore) CancelAndRestock(ctx context.Context, orderID uint64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if o.Status != domain.StatusPending {
		return nil, domain.ErrOrderNotCancellable
	}

	for _, item := range o.Items {
		if item.ProductID == nil {
			continue
		}
		if p, ok := s.products[*item.ProductID]; ok {
			p.StockQuantity += item.Quantity
		}
	}
	o.Status = domain.StatusCancelled
	o.UpdatedAt = time.Now()

	cp := cloneOrder(o)
	return &cp, nil
}

func (s *MemStore) FindStalePendingIDs(ctx context.Context, olderThan time.Time) ([]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uint64
	for id, o := range s.orders {
		if o.Status == domain.StatusPending && o.CreatedAt.Before(olderThan) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MemStore) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uint64]domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = *p
		}
	}
	return out, nil
}

func (s *MemStore) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemStore) ListActive(ctx context.Context, categorySlug string) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var categoryID *uint64
	if categorySlug != "" {
		for _, c := range s.categories {
			if c.Slug == categorySlug {
				id := c.ID
				categoryID = &id
				break
			}
		}
		if categoryID == nil {
			return nil, nil
		}
	}

	var out []domain.Product
	for _, p := range s.products {
		if !p.IsActive {
			continue
		}
		if categoryID != nil && (p.CategoryID == nil || *p.CategoryID != *categoryID) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

func cloneOrder(o *domain.Order) domain.Order {
	cp := *o
	cp.Items = make([]domain.OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	for i := range cp.Items {
		if o.Items[i].ProductID != nil {
			id := *o.Items[i].ProductID
			cp.Items[i].ProductID = &id
		}
	}
	return cp
}
