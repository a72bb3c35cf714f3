package model

import "time"

// 在庫の増減履歴（注文・キャンセルごとに1行）
type InventoryAdjustment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	VariantID *int64    `gorm:"index" json:"variant_id,omitempty"`
	OrderID   *int64    `gorm:"index" json:"order_id,omitempty"`
	Delta     int64     `gorm:"not null" json:"delta"`
	Reason    string    `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

const (
	AdjustmentReasonOrder  = "order"
	AdjustmentReasonCancel = "cancel"
)
