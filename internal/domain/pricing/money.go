// Package pricing は注文の金額計算（単価・クーポン・税・送料）をまとめる。
// DBやHTTPには依存しない。
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round は小数第2位で丸める（0.5は0から遠い方へ）。
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ApplyPercentOff は price から percent% を引いた値を返す（丸めはしない）。
func ApplyPercentOff(price, percent decimal.Decimal) decimal.Decimal {
	if !percent.IsPositive() {
		return price
	}
	return price.Sub(price.Mul(percent).Div(hundred))
}
