package mysql

import (
	"context"
	"errors"

	"shop-service/internal/domain"
	"shop-service/internal/repository"

	"gorm.io/gorm"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]domain.Product, error) {
	var products []domain.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	out := make(map[uint64]domain.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *productRepo) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) ListActive(ctx context.Context, categorySlug string) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if categorySlug != "" {
		q = q.Where("category_id IN (?)",
			r.db.Model(&domain.Category{}).Select("id").Where("slug = ?", categorySlug))
	}

	var products []domain.Product
	if err := q.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
