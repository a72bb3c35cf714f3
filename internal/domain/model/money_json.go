package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// 金額はJSONでも常に小数2桁の文字列で出す（"142.50"）
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order
	return json.Marshal(struct {
		plain
		TotalAmount    string `json:"total_amount"`
		DiscountAmount string `json:"discount_amount"`
		TaxAmount      string `json:"tax_amount"`
		ShippingFee    string `json:"shipping_fee"`
		FinalAmount    string `json:"final_amount"`
	}{
		plain:          plain(o),
		TotalAmount:    money(o.TotalAmount),
		DiscountAmount: money(o.DiscountAmount),
		TaxAmount:      money(o.TaxAmount),
		ShippingFee:    money(o.ShippingFee),
		FinalAmount:    money(o.FinalAmount),
	})
}

func (so SubOrder) MarshalJSON() ([]byte, error) {
	type plain SubOrder
	return json.Marshal(struct {
		plain
		Subtotal string `json:"subtotal"`
	}{
		plain:    plain(so),
		Subtotal: money(so.Subtotal),
	})
}

func (it OrderItem) MarshalJSON() ([]byte, error) {
	type plain OrderItem
	return json.Marshal(struct {
		plain
		PriceAtPurchase string `json:"price_at_purchase"`
		TotalPrice      string `json:"total_price"`
	}{
		plain:           plain(it),
		PriceAtPurchase: money(it.PriceAtPurchase),
		TotalPrice:      money(it.TotalPrice),
	})
}
