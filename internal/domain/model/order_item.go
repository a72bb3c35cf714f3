package model

import "github.com/shopspring/decimal"

// 購入時点の価格を保存（作成後は変更しない）
type OrderItem struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SubOrderID      int64           `gorm:"column:suborder_id;not null;index" json:"suborder_id"`
	ProductID       int64           `gorm:"not null;index" json:"product_id"`
	VariantID       *int64          `gorm:"index" json:"variant_id,omitempty"`
	Quantity        int64           `gorm:"not null;check:chk_order_items_quantity,quantity > 0" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_at_purchase"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
}
