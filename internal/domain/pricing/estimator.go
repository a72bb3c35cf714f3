package pricing

import "github.com/shopspring/decimal"

type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Final    decimal.Decimal
}

// Estimator は税と送料を小計から出す。
type Estimator struct {
	cfg Config
}

func NewEstimator(cfg Config) *Estimator {
	return &Estimator{cfg: cfg}
}

func (e *Estimator) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return Round(subtotal.Mul(e.cfg.TaxRate))
}

func (e *Estimator) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	for _, t := range e.cfg.ShippingTiers {
		if subtotal.LessThanOrEqual(t.UpTo) {
			return t.Fee
		}
	}
	return e.cfg.FeeAboveTiers
}

// Totals は割引・税・送料を合わせた最終金額を出す。
func (e *Estimator) Totals(subtotal, discount decimal.Decimal) Totals {
	tax := e.Tax(subtotal)
	shipping := e.Shipping(subtotal)
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Shipping: shipping,
		Final:    FinalAmount(subtotal, discount, tax, shipping),
	}
}

// 最終金額 = 小計 - 割引 + 税 + 送料
func FinalAmount(subtotal, discount, tax, shipping decimal.Decimal) decimal.Decimal {
	return Round(subtotal.Sub(discount).Add(tax).Add(shipping))
}
