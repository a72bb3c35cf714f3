package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	repo "github.com/rs-labo46/ec-order-core/internal/repository"
	"github.com/shopspring/decimal"
)

// 有効なクーポンだけを返す読み取り口
type CouponSource interface {
	FindActiveByID(ctx context.Context, couponID int64) (model.Coupon, error)
}

type CouponResult struct {
	Coupon   *model.Coupon
	Discount decimal.Decimal
}

type CouponEvaluator struct {
	coupons CouponSource
	now     func() time.Time
}

func NewCouponEvaluator(coupons CouponSource, now func() time.Time) *CouponEvaluator {
	if now == nil {
		now = time.Now
	}
	return &CouponEvaluator{coupons: coupons, now: now}
}

// Evaluate はクーポンを検証して割引額を返す。couponIDがnilなら割引0。
func (e *CouponEvaluator) Evaluate(ctx context.Context, couponID *int64, subtotal decimal.Decimal) (CouponResult, error) {
	if couponID == nil {
		return CouponResult{Discount: decimal.Zero}, nil
	}

	c, err := e.coupons.FindActiveByID(ctx, *couponID)
	if errors.Is(err, repo.ErrNotFound) {
		return CouponResult{}, model.NotFound(fmt.Sprintf("coupon %d", *couponID))
	}
	if err != nil {
		return CouponResult{}, model.WrapError(model.KindInternal, "db error", err)
	}
	if !c.IsActive {
		return CouponResult{}, model.NotFound(fmt.Sprintf("coupon %d", *couponID))
	}

	if err := CheckWindow(c, e.now()); err != nil {
		return CouponResult{}, err
	}
	if err := CheckMinimumPurchase(c, subtotal); err != nil {
		return CouponResult{}, err
	}
	if err := CheckUsage(c); err != nil {
		return CouponResult{}, err
	}

	d, err := Discount(c, subtotal)
	if err != nil {
		return CouponResult{}, err
	}
	return CouponResult{Coupon: &c, Discount: d}, nil
}

// 期間は開始・終了とも含む
func CheckWindow(c model.Coupon, now time.Time) error {
	if now.Before(c.StartDate) {
		return model.NewError(model.KindCouponNotYetValid, fmt.Sprintf("coupon %s is not valid until %s", c.Code, c.StartDate.Format(time.RFC3339)))
	}
	if now.After(c.EndDate) {
		return model.NewError(model.KindCouponExpired, fmt.Sprintf("coupon %s expired at %s", c.Code, c.EndDate.Format(time.RFC3339)))
	}
	return nil
}

func CheckMinimumPurchase(c model.Coupon, subtotal decimal.Decimal) error {
	if c.MinimumPurchase == nil {
		return nil
	}
	if subtotal.LessThan(*c.MinimumPurchase) {
		return model.NewError(model.KindMinimumPurchaseNotMet,
			fmt.Sprintf("coupon %s requires a minimum purchase of %s", c.Code, c.MinimumPurchase.StringFixed(2)))
	}
	return nil
}

func CheckUsage(c model.Coupon) error {
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return model.Invalid(fmt.Sprintf("coupon %s usage limit reached", c.Code))
	}
	return nil
}

// Discount は割引額。小計を超えない。
func Discount(c model.Coupon, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if c.DiscountAmount.IsNegative() {
		return decimal.Zero, model.Invalid(fmt.Sprintf("coupon %s has a negative discount", c.Code))
	}

	var d decimal.Decimal
	switch c.DiscountType {
	case model.DiscountTypeFixed:
		d = c.DiscountAmount
	case model.DiscountTypePercentage:
		d = subtotal.Mul(c.DiscountAmount).Div(hundred)
	default:
		return decimal.Zero, model.Invalid(fmt.Sprintf("coupon %s has unknown discount type %q", c.Code, c.DiscountType))
	}

	if d.GreaterThan(subtotal) {
		d = subtotal
	}
	if d.IsNegative() {
		d = decimal.Zero
	}
	return Round(d), nil
}
