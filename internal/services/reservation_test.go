package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shop-service/internal/domain"
	"shop-service/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newStoreService(t *testing.T) (*mocks.MemStore, *OrderService) {
	t.Helper()
	store := mocks.NewMemStore()
	return store, NewOrderService(store, store, nil)
}

func TestPlaceOrder_NoOversellUnderConcurrency(t *testing.T) {
	store, service := newStoreService(t)
	store.AddProduct(testProduct(testProductID, "Bluetooth Speaker", 4999, 5))

	const buyers = 20
	results := make([]error, buyers)

	var g errgroup.Group
	for i := 0; i < buyers; i++ {
		i := i
		g.Go(func() error {
			_, err := service.PlaceOrder(context.Background(), uint64(i+1), "1 Race St", "",
				[]domain.ItemRequest{{ProductID: testProductID, Quantity: 1}})
			results[i] = err
			return nil
		})
	}
	require.NoError(t, g.Wait())

	succeeded, outOfStock := 0, 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var short *domain.InsufficientStockError
		require.ErrorAs(t, err, &short)
		outOfStock++
	}

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, buyers-5, outOfStock)

	p, ok := store.Product(testProductID)
	require.True(t, ok)
	assert.Equal(t, int64(0), p.StockQuantity)
}

func TestPlaceOrder_MultiItemAtomicity(t *testing.T) {
	store, service := newStoreService(t)
	store.AddProduct(testProduct(1, "Speaker", 4999, 10))
	store.AddProduct(testProduct(2, "Cable", 599, 1))

	order, err := service.PlaceOrder(context.Background(), testUserID, "123 Test St", "",
		[]domain.ItemRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 5},
		})

	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, uint64(2), short.ProductID)
	assert.Nil(t, order)

	// nothing was reserved for the item that would have succeeded
	p1, _ := store.Product(1)
	p2, _ := store.Product(2)
	assert.Equal(t, int64(10), p1.StockQuantity)
	assert.Equal(t, int64(1), p2.StockQuantity)

	orders, err := service.ListOrders(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPlaceOrder_DuplicateLinesCannotOversell(t *testing.T) {
	store, service := newStoreService(t)
	store.AddProduct(testProduct(testProductID, "Bluetooth Speaker", 4999, 5))

	// two lines for the same product that fit individually but not jointly
	order, err := service.PlaceOrder(context.Background(), testUserID, "123 Test St", "",
		[]domain.ItemRequest{
			{ProductID: testProductID, Quantity: 3},
			{ProductID: testProductID, Quantity: 3},
		})

	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, int64(3), short.Requested)
	assert.Equal(t, int64(2), short.Available, "second line sees stock net of the first")
	assert.Nil(t, order)

	p, _ := store.Product(testProductID)
	assert.Equal(t, int64(5), p.StockQuantity, "failed reservation leaves stock untouched")

	orders, err := service.ListOrders(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Empty(t, orders)

	// duplicate lines that do fit jointly reserve their sum
	order, err = service.PlaceOrder(context.Background(), testUserID, "123 Test St", "",
		[]domain.ItemRequest{
			{ProductID: testProductID, Quantity: 3},
			{ProductID: testProductID, Quantity: 2},
		})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.Equal(t, int64(5*4999), order.TotalCents)

	p, _ = store.Product(testProductID)
	assert.Equal(t, int64(0), p.StockQuantity)
}

func TestPlaceThenCancelRestoresStockExactly(t *testing.T) {
	store, service := newStoreService(t)
	store.AddProduct(testProduct(testProductID, "Bluetooth Speaker", 4999, 10))

	order, err := service.PlaceOrder(context.Background(), testUserID, "123 Test St", "",
		[]domain.ItemRequest{{ProductID: testProductID, Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(9998), order.TotalCents)

	p, _ := store.Product(testProductID)
	assert.Equal(t, int64(8), p.StockQuantity)

	cancelled, err := service.CancelOrder(context.Background(), order.ID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, int64(9998), cancelled.TotalCents, "historical total is preserved")

	p, _ = store.Product(testProductID)
	assert.Equal(t, int64(10), p.StockQuantity)

	// cancelling again must not double-restore
	_, err = service.CancelOrder(context.Background(), order.ID, testUserID)
	assert.ErrorIs(t, err, domain.ErrOrderNotCancellable)

	p, _ = store.Product(testProductID)
	assert.Equal(t, int64(10), p.StockQuantity)
}

func TestReaperCancelsOnlyStaleOrders(t *testing.T) {
	store, service := newStoreService(t)
	store.AddProduct(testProduct(testProductID, "Bluetooth Speaker", 4999, 10))

	stale, err := service.PlaceOrder(context.Background(), testUserID, "123 Test St", "",
		[]domain.ItemRequest{{ProductID: testProductID, Quantity: 2}})
	require.NoError(t, err)

	fresh, err := service.PlaceOrder(context.Background(), testUserID, "123 Test St", "",
		[]domain.ItemRequest{{ProductID: testProductID, Quantity: 1}})
	require.NoError(t, err)

	store.SetOrderCreatedAt(stale.ID, time.Now().Add(-25*time.Hour))

	count, err := service.ReapStaleOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	reaped, _ := store.Order(stale.ID)
	assert.Equal(t, domain.StatusCancelled, reaped.Status)

	untouched, _ := store.Order(fresh.ID)
	assert.Equal(t, domain.StatusPending, untouched.Status)

	// only the stale order's two units came back
	p, _ := store.Product(testProductID)
	assert.Equal(t, int64(9), p.StockQuantity)
}

func TestOrderSnapshotSurvivesCatalogChanges(t *testing.T) {
	store, service := newStoreService(t)
	store.AddProduct(testProduct(testProductID, "Bluetooth Speaker", 4999, 10))

	order, err := service.PlaceOrder(context.Background(), testUserID, "123 Test St", "",
		[]domain.ItemRequest{{ProductID: testProductID, Quantity: 1}})
	require.NoError(t, err)

	store.UpdateProduct(testProductID, func(p *domain.Product) {
		p.Name = "Renamed Speaker"
		p.PriceCents = 9999
	})

	got, err := service.GetOrder(context.Background(), order.ID, testUserID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Bluetooth Speaker", got.Items[0].ProductName)
	assert.Equal(t, int64(4999), got.Items[0].ProductPriceCents)
	assert.Equal(t, int64(4999), got.TotalCents)

	// deleting the product nulls the reference but keeps the snapshot
	store.DeleteProduct(testProductID)

	got, err = service.GetOrder(context.Background(), order.ID, testUserID)
	require.NoError(t, err)
	assert.Nil(t, got.Items[0].ProductID)
	assert.Equal(t, "Bluetooth Speaker", got.Items[0].ProductName)

	// cancelling skips the vanished product instead of failing
	cancelled, err := service.CancelOrder(context.Background(), order.ID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
}

func TestListOrders_OwnershipIsolation(t *testing.T) {
	store, service := newStoreService(t)
	store.AddProduct(testProduct(testProductID, "Bluetooth Speaker", 4999, 10))

	order, err := service.PlaceOrder(context.Background(), testUserID, "123 Test St", "",
		[]domain.ItemRequest{{ProductID: testProductID, Quantity: 1}})
	require.NoError(t, err)

	mine, err := service.ListOrders(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := service.ListOrders(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	_, err = service.GetOrder(context.Background(), order.ID, 42)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestConcurrentCancelAndReap(t *testing.T) {
	store, service := newStoreService(t)
	store.AddProduct(testProduct(testProductID, "Bluetooth Speaker", 4999, 10))

	order, err := service.PlaceOrder(context.Background(), testUserID, "123 Test St", "",
		[]domain.ItemRequest{{ProductID: testProductID, Quantity: 2}})
	require.NoError(t, err)
	store.SetOrderCreatedAt(order.ID, time.Now().Add(-25*time.Hour))

	var wg sync.WaitGroup
	var cancelErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, cancelErr = service.CancelOrder(context.Background(), order.ID, testUserID)
	}()
	go func() {
		defer wg.Done()
		_, _ = service.ReapStaleOrders(context.Background())
	}()
	wg.Wait()

	// whichever path lost the race saw the pending-only guard; stock is
	// restored exactly once either way
	if cancelErr != nil {
		assert.True(t, errors.Is(cancelErr, domain.ErrOrderNotCancellable))
	}
	p, _ := store.Product(testProductID)
	assert.Equal(t, int64(10), p.StockQuantity)

	final, _ := store.Order(order.ID)
	assert.Equal(t, domain.StatusCancelled, final.Status)
}
