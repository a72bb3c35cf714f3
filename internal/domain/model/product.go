package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID                 int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID           int64           `gorm:"not null;index" json:"seller_id"`
	Name               string          `gorm:"type:varchar(255);not null" json:"name"`
	Description        string          `gorm:"type:text" json:"description"`
	BasePrice          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"base_price"`
	DiscountPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount_percentage"`
	StockQuantity      int64           `gorm:"not null;check:chk_products_stock,stock_quantity >= 0" json:"stock_quantity"`
	IsAvailable        bool            `gorm:"not null;default:false" json:"is_available"`
	CreatedAt          time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`
}

// 商品のバリエーション（サイズ・色など）
type ProductVariant struct {
	ID                 int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID          int64           `gorm:"not null;index" json:"product_id"`
	VariantName        string          `gorm:"type:varchar(255);not null" json:"variant_name"`
	SKU                string          `gorm:"column:sku;type:varchar(100)" json:"sku"`
	Price              decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	DiscountPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount_percentage"`
	StockQuantity      int64           `gorm:"not null;check:chk_product_variants_stock,stock_quantity >= 0" json:"stock_quantity"`
	IsAvailable        bool            `gorm:"not null;default:false" json:"is_available"`
}
