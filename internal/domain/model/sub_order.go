package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 出荷ステータス
type SubOrderStatus string

const (
	SubOrderStatusPending    SubOrderStatus = "pending"
	SubOrderStatusProcessing SubOrderStatus = "processing"
	SubOrderStatusShipped    SubOrderStatus = "shipped"
	SubOrderStatusDelivered  SubOrderStatus = "delivered"
	SubOrderStatusCancelled  SubOrderStatus = "cancelled"
	SubOrderStatusReturned   SubOrderStatus = "returned"
)

var subOrderTransitions = map[SubOrderStatus][]SubOrderStatus{
	SubOrderStatusPending:    {SubOrderStatusProcessing, SubOrderStatusShipped, SubOrderStatusCancelled},
	SubOrderStatusProcessing: {SubOrderStatusShipped, SubOrderStatusCancelled},
	SubOrderStatusShipped:    {SubOrderStatusDelivered, SubOrderStatusReturned},
	SubOrderStatusDelivered:  {SubOrderStatusReturned},
	SubOrderStatusCancelled:  {},
	SubOrderStatusReturned:   {},
}

func ParseSubOrderStatus(s string) (SubOrderStatus, error) {
	st := SubOrderStatus(s)
	if _, ok := subOrderTransitions[st]; !ok {
		return "", NewError(KindInvalidStatus, "invalid sub-order status: "+s)
	}
	return st, nil
}

func (s SubOrderStatus) CanTransitionTo(next SubOrderStatus) bool {
	for _, to := range subOrderTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// 出荷済み以降か（キャンセル不可の判定に使う）
func (s SubOrderStatus) HasShipped() bool {
	return s == SubOrderStatusShipped || s == SubOrderStatusDelivered || s == SubOrderStatusReturned
}

// 販売者ごとの子注文
type SubOrder struct {
	ID               int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID          int64           `gorm:"not null;index" json:"order_id"`
	SellerID         int64           `gorm:"not null;index" json:"seller_id"`
	Subtotal         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Status           SubOrderStatus  `gorm:"type:varchar(20);not null;index" json:"status"`
	StatusUpdatedAt  time.Time       `gorm:"not null" json:"status_updated_at"`
	TrackingNumber   *string         `gorm:"type:varchar(100)" json:"tracking_number,omitempty"`
	ShippingProvider *string         `gorm:"type:varchar(100)" json:"shipping_provider,omitempty"`

	Items []OrderItem `gorm:"foreignKey:SubOrderID" json:"items"`
}
