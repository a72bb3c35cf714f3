package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypeFixed      DiscountType = "Fixed"
	DiscountTypePercentage DiscountType = "Percentage"
)

type Coupon struct {
	ID              int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Code            string           `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Description     string           `gorm:"type:text" json:"description"`
	DiscountAmount  decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"discount_amount"`
	DiscountType    DiscountType     `gorm:"type:varchar(20);not null" json:"discount_type"`
	MinimumPurchase *decimal.Decimal `gorm:"type:numeric(12,2)" json:"minimum_purchase,omitempty"`
	StartDate       time.Time        `gorm:"not null" json:"start_date"`
	EndDate         time.Time        `gorm:"not null" json:"end_date"`
	IsActive        bool             `gorm:"not null;default:false" json:"is_active"`
	UsageLimit      *int64           `json:"usage_limit,omitempty"`
	UsageCount      int64            `gorm:"not null;default:0" json:"usage_count"`
}
