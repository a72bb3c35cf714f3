package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 決済ステータス（固定の値のみ）
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

// 遷移表。自分自身への遷移はCanTransitionToで別扱い
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:           {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusFailed:            {PaymentStatusPending, PaymentStatusPaid},
	PaymentStatusPaid:              {PaymentStatusRefunded, PaymentStatusPartiallyRefunded},
	PaymentStatusPartiallyRefunded: {PaymentStatusPartiallyRefunded, PaymentStatusRefunded},
	PaymentStatusRefunded:          {},
}

// ParsePaymentStatus は文字列を決済ステータスに変換する。
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	st := PaymentStatus(s)
	if _, ok := paymentTransitions[st]; !ok {
		return "", NewError(KindInvalidStatus, "invalid payment status: "+s)
	}
	return st, nil
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, to := range paymentTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// 注文（1チェックアウト = 1注文）
type Order struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID     int64           `gorm:"not null;index;uniqueIndex:idx_orders_customer_idem,priority:1" json:"customer_id"`
	AddressID      int64           `gorm:"not null" json:"address_id"`
	CouponID       *int64          `gorm:"index" json:"coupon_id,omitempty"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount_amount"`
	TaxAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"tax_amount"`
	ShippingFee    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"shipping_fee"`
	FinalAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"final_amount"`
	PaymentMethod  string          `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus  PaymentStatus   `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	AffiliateID    *int64          `json:"affiliate_id,omitempty"`
	AffiliateCode  *string         `gorm:"type:varchar(20)" json:"affiliate_code,omitempty"`
	// 二重送信防止（任意）
	IdempotencyKey *string   `gorm:"type:varchar(255);uniqueIndex:idx_orders_customer_idem,priority:2" json:"-"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`

	SubOrders []SubOrder `gorm:"foreignKey:OrderID" json:"sub_orders"`
}

// SubtotalOfSubOrders は子注文の小計の合計。
func (o Order) SubtotalOfSubOrders() decimal.Decimal {
	sum := decimal.Zero
	for _, so := range o.SubOrders {
		sum = sum.Add(so.Subtotal)
	}
	return sum
}
