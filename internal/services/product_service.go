package services

import (
	"context"
	"encoding/json"
	"time"

	"shop-service/internal/domain"
	"shop-service/internal/repository"

	"github.com/redis/go-redis/v9"
)

const (
	productListTTL = 30 * time.Second
	productTTL     = time.Minute
	categoriesTTL  = 10 * time.Minute
)

func productListCacheKey(categorySlug string) string {
	return "products:active:" + categorySlug
}

func productCacheKey(slug string) string {
	return "product:" + slug
}

// ProductService is the storefront read model. Stock is mutated only by the
// order side; everything here is cache-aside reads.
type ProductService struct {
	products    repository.ProductRepository
	redisClient *redis.Client
}

func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

func (s *ProductService) List(ctx context.Context, categorySlug string) ([]domain.Product, error) {
	key := productListCacheKey(categorySlug)

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, key).Result(); err == nil {
			var products []domain.Product
			if err := json.Unmarshal([]byte(cached), &products); err == nil {
				return products, nil
			}
		}
	}

	products, err := s.products.ListActive(ctx, categorySlug)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(products); err == nil {
			s.redisClient.Set(ctx, key, data, productListTTL)
		}
	}
	return products, nil
}

func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	key := productCacheKey(slug)

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, key).Result(); err == nil {
			var product domain.Product
			if err := json.Unmarshal([]byte(cached), &product); err == nil {
				return &product, nil
			}
		}
	}

	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(product); err == nil {
			s.redisClient.Set(ctx, key, data, productTTL)
		}
	}
	return product, nil
}

func (s *ProductService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const key = "categories"

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, key).Result(); err == nil {
			var categories []domain.Category
			if err := json.Unmarshal([]byte(cached), &categories); err == nil {
				return categories, nil
			}
		}
	}

	categories, err := s.products.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(categories); err == nil {
			s.redisClient.Set(ctx, key, data, categoriesTTL)
		}
	}
	return categories, nil
}
