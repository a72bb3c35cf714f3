package pricing

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// 小計がUpTo以下ならFeeを適用する
type ShippingTier struct {
	UpTo decimal.Decimal
	Fee  decimal.Decimal
}

// Config は税率と送料テーブル。ロジックには埋め込まず外から渡す。
type Config struct {
	TaxRate       decimal.Decimal
	ShippingTiers []ShippingTier
	FeeAboveTiers decimal.Decimal
}

func DefaultConfig() Config {
	return Config{
		TaxRate: decimal.RequireFromString("0.05"),
		ShippingTiers: []ShippingTier{
			{UpTo: decimal.NewFromInt(100), Fee: decimal.RequireFromString("10.00")},
			{UpTo: decimal.NewFromInt(200), Fee: decimal.RequireFromString("5.00")},
		},
		FeeAboveTiers: decimal.Zero,
	}
}

// Validate は設定値の最低限チェック。tiersは昇順に並べ替える。
func (c *Config) Validate() error {
	if c.TaxRate.IsNegative() {
		return errors.New("tax rate must be >= 0")
	}
	if c.FeeAboveTiers.IsNegative() {
		return errors.New("shipping fee above tiers must be >= 0")
	}
	for _, t := range c.ShippingTiers {
		if t.UpTo.IsNegative() || t.Fee.IsNegative() {
			return errors.New("shipping tier values must be >= 0")
		}
	}
	sort.SliceStable(c.ShippingTiers, func(i, j int) bool {
		return c.ShippingTiers[i].UpTo.LessThan(c.ShippingTiers[j].UpTo)
	})
	for i := 1; i < len(c.ShippingTiers); i++ {
		if c.ShippingTiers[i].UpTo.Equal(c.ShippingTiers[i-1].UpTo) {
			return errors.New("shipping tiers must have distinct thresholds")
		}
	}
	return nil
}
