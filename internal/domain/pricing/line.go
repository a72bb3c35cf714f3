package pricing

import (
	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Priceable は1明細の価格の出どころ。商品かバリエーションかは解決時に一度だけ決める。
type Priceable interface {
	ProductID() int64
	VariantID() *int64
	SellerID() int64
	BasePrice() decimal.Decimal
	DiscountPercentage() decimal.Decimal
	AvailableStock() int64
}

// バリエーション指定なし
type ProductLine struct {
	Product model.Product
}

func (l ProductLine) ProductID() int64                    { return l.Product.ID }
func (l ProductLine) VariantID() *int64                   { return nil }
func (l ProductLine) SellerID() int64                     { return l.Product.SellerID }
func (l ProductLine) BasePrice() decimal.Decimal          { return l.Product.BasePrice }
func (l ProductLine) DiscountPercentage() decimal.Decimal { return l.Product.DiscountPercentage }
func (l ProductLine) AvailableStock() int64               { return l.Product.StockQuantity }

// バリエーション指定あり（価格・割引・在庫はバリエーション側）
type VariantLine struct {
	Product model.Product
	Variant model.ProductVariant
}

func (l VariantLine) ProductID() int64 { return l.Product.ID }

func (l VariantLine) VariantID() *int64 {
	id := l.Variant.ID
	return &id
}

func (l VariantLine) SellerID() int64                     { return l.Product.SellerID }
func (l VariantLine) BasePrice() decimal.Decimal          { return l.Variant.Price }
func (l VariantLine) DiscountPercentage() decimal.Decimal { return l.Variant.DiscountPercentage }
func (l VariantLine) AvailableStock() int64               { return l.Variant.StockQuantity }

// UnitPrice は割引後の単価（小数第2位で丸め）。
func UnitPrice(p Priceable) decimal.Decimal {
	return Round(ApplyPercentOff(p.BasePrice(), p.DiscountPercentage()))
}
