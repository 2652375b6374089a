package domain

import "time"

// LowStockThreshold is the level below which a low-stock alert is published
// for the seller after a reservation.
const LowStockThreshold = 5

type Category struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"size:150;uniqueIndex;not null"`
	Slug        string    `json:"slug" gorm:"size:160;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	ParentID    *uint64   `json:"parentId" gorm:"index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

type Product struct {
	ID                  uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name                string    `json:"name" gorm:"size:255;not null"`
	Slug                string    `json:"slug" gorm:"size:270;uniqueIndex;not null"`
	Description         string    `json:"description" gorm:"type:text"`
	PriceCents          int64     `json:"priceCents" gorm:"not null"`
	CompareAtPriceCents *int64    `json:"compareAtPriceCents"`
	SKU                 string    `json:"sku" gorm:"size:50;uniqueIndex;not null"`
	StockQuantity       int64     `json:"stockQuantity" gorm:"not null;default:0"`
	CategoryID          *uint64   `json:"categoryId" gorm:"index:idx_products_category_active"`
	SellerID            uint64    `json:"sellerId" gorm:"not null;index"`
	ImageURL            string    `json:"imageUrl" gorm:"size:500"`
	IsActive            bool      `json:"isActive" gorm:"not null;default:true;index:idx_products_category_active"`
	CreatedAt           time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt           time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

// DiscountPercent is derived from the compare-at price when one is set and
// actually higher than the current price.
func (p Product) DiscountPercent() int {
	if p.CompareAtPriceCents == nil || *p.CompareAtPriceCents <= p.PriceCents {
		return 0
	}
	return int(100 - (p.PriceCents*100)/(*p.CompareAtPriceCents))
}
