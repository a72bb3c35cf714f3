package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	"github.com/rs-labo46/ec-order-core/internal/domain/pricing"
	repo "github.com/rs-labo46/ec-order-core/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// nilの項目は変更しない
type UpdateOrderInput struct {
	CouponID       *int64
	DiscountAmount *decimal.Decimal
	ShippingFee    *decimal.Decimal
	TaxAmount      *decimal.Decimal
	FinalAmount    *decimal.Decimal
	PaymentStatus  *string
}

func (in UpdateOrderInput) empty() bool {
	return in.CouponID == nil && in.DiscountAmount == nil && in.ShippingFee == nil &&
		in.TaxAmount == nil && in.FinalAmount == nil && in.PaymentStatus == nil
}

// 決済ステータスだけの変更か（監査ログのアクション分け）
func (in UpdateOrderInput) paymentOnly() bool {
	return in.PaymentStatus != nil && in.CouponID == nil && in.DiscountAmount == nil &&
		in.ShippingFee == nil && in.TaxAmount == nil && in.FinalAmount == nil
}

type UpdateSubOrderInput struct {
	Status           *string
	TrackingNumber   *string
	ShippingProvider *string
}

// UpdateOrder は注文の金額・クーポン・決済ステータスを部分更新する。
// クーポンを変えたときは期間・最低購入額・利用上限を再検証し、
// 割引額や最終金額が指定されていなければ再計算する。
func (u *OrderUsecase) UpdateOrder(ctx context.Context, actorUserID, orderID int64, in UpdateOrderInput) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, model.Invalid("invalid id")
	}
	if in.empty() {
		return model.Order{}, model.Invalid("no fields to update")
	}

	var out model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return lookupError(err, "order", orderID)
		}
		before := orderAudit(o)

		if err := u.applyOrderUpdate(ctx, r, &o, in); err != nil {
			return err
		}

		// 何も変わらなければ書き込まない（一部返金の繰り返しは記録する）
		repeatRefund := in.PaymentStatus != nil && o.PaymentStatus == model.PaymentStatusPartiallyRefunded
		if auditJSON(orderAudit(o)) == auditJSON(before) && !repeatRefund {
			out, err = loadOrderAggregate(ctx, r, o)
			return err
		}
		o.UpdatedAt = u.clock.Now()

		if err := r.Orders().Update(ctx, o); err != nil {
			return lookupError(err, "order", orderID)
		}

		action := model.AuditActionUpdateOrder
		if in.paymentOnly() {
			action = model.AuditActionUpdatePaymentStatus
		}
		if err := u.writeAudit(ctx, r, actorUserID, action, model.AuditResourceOrder, o.ID, before, orderAudit(o)); err != nil {
			return err
		}

		out, err = loadOrderAggregate(ctx, r, o)
		return err
	})
	if err != nil {
		return model.Order{}, err
	}

	u.invalidate(ctx, orderID)
	u.log.Info("order updated", zap.Int64("order_id", orderID), zap.Int64("actor_user_id", actorUserID))
	return out, nil
}

// UpdatePaymentStatus は決済ステータスだけを変える
func (u *OrderUsecase) UpdatePaymentStatus(ctx context.Context, actorUserID, orderID int64, status string) (model.Order, error) {
	s := strings.TrimSpace(status)
	return u.UpdateOrder(ctx, actorUserID, orderID, UpdateOrderInput{PaymentStatus: &s})
}

func (u *OrderUsecase) applyOrderUpdate(ctx context.Context, r repo.TxRepos, o *model.Order, in UpdateOrderInput) error {
	if in.PaymentStatus != nil {
		next, err := model.ParsePaymentStatus(strings.TrimSpace(*in.PaymentStatus))
		if err != nil {
			return err
		}
		//同じなら何もしない（一部返金の繰り返しは許可）
		if next != o.PaymentStatus || next == model.PaymentStatusPartiallyRefunded {
			if !o.PaymentStatus.CanTransitionTo(next) {
				return model.NewError(model.KindInvalidStatus,
					fmt.Sprintf("cannot change payment status from %s to %s", o.PaymentStatus, next))
			}
			o.PaymentStatus = next
		}
	}

	recompute := false

	if in.CouponID != nil && (o.CouponID == nil || *o.CouponID != *in.CouponID) {
		if *in.CouponID <= 0 {
			return model.Invalid("invalid coupon_id")
		}
		subs, err := r.SubOrders().ListByOrderID(ctx, o.ID)
		if err != nil {
			return dbError(err)
		}
		if allCancelled(subs) {
			return model.NewError(model.KindInvalidStatus, "cannot change coupon of a cancelled order")
		}

		res, err := pricing.NewCouponEvaluator(r.Coupons(), u.clock.Now).Evaluate(ctx, in.CouponID, o.TotalAmount)
		if err != nil {
			return err
		}
		if err := incrementCouponUsage(ctx, r, *res.Coupon); err != nil {
			return err
		}
		// 外したクーポンの利用回数は戻す
		if o.CouponID != nil {
			if err := r.Coupons().DecrementUsage(ctx, *o.CouponID); err != nil {
				return dbError(err)
			}
		}
		id := *in.CouponID
		o.CouponID = &id
		if in.DiscountAmount == nil {
			o.DiscountAmount = res.Discount
			recompute = true
		}
	}

	if in.DiscountAmount != nil {
		d, err := nonNegativeAmount("discount_amount", *in.DiscountAmount)
		if err != nil {
			return err
		}
		if d.GreaterThan(o.TotalAmount) {
			return model.Invalid("discount_amount exceeds total_amount")
		}
		o.DiscountAmount = d
		recompute = true
	}
	if in.ShippingFee != nil {
		v, err := nonNegativeAmount("shipping_fee", *in.ShippingFee)
		if err != nil {
			return err
		}
		o.ShippingFee = v
		recompute = true
	}
	if in.TaxAmount != nil {
		v, err := nonNegativeAmount("tax_amount", *in.TaxAmount)
		if err != nil {
			return err
		}
		o.TaxAmount = v
		recompute = true
	}

	// 最終金額は指定があればそれを優先
	if in.FinalAmount != nil {
		v, err := nonNegativeAmount("final_amount", *in.FinalAmount)
		if err != nil {
			return err
		}
		o.FinalAmount = v
	} else if recompute {
		o.FinalAmount = pricing.FinalAmount(o.TotalAmount, o.DiscountAmount, o.TaxAmount, o.ShippingFee)
	}
	return nil
}

func nonNegativeAmount(field string, v decimal.Decimal) (decimal.Decimal, error) {
	if v.IsNegative() {
		return decimal.Zero, model.Invalid(field + " must be >= 0")
	}
	return pricing.Round(v), nil
}

// UpdateSubOrderStatus は出荷ステータス・追跡番号・配送業者を更新する。
// 空文字は「変更なし」。cancelledにしたときは明細分の在庫を戻し、
// 最後の子注文だった場合はCancelOrderと同じく注文全体を閉じる。
func (u *OrderUsecase) UpdateSubOrderStatus(ctx context.Context, actorUserID, subOrderID int64, in UpdateSubOrderInput) (model.SubOrder, error) {
	if subOrderID <= 0 {
		return model.SubOrder{}, model.Invalid("invalid id")
	}
	status := trimmed(in.Status)
	tracking := trimmed(in.TrackingNumber)
	provider := trimmed(in.ShippingProvider)
	if status == "" && tracking == "" && provider == "" {
		return model.SubOrder{}, model.Invalid("no fields to update")
	}
	if len(tracking) > 100 || len(provider) > 100 {
		return model.SubOrder{}, model.Invalid("tracking_number or shipping_provider too long")
	}

	var out model.SubOrder

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		so, err := r.SubOrders().FindByID(ctx, subOrderID)
		if err != nil {
			return lookupError(err, "sub order", subOrderID)
		}
		before := subOrderAudit(so)
		now := u.clock.Now()
		cancelled := false

		if status != "" {
			next, err := model.ParseSubOrderStatus(status)
			if err != nil {
				return err
			}
			if next != so.Status {
				if !so.Status.CanTransitionTo(next) {
					return model.NewError(model.KindInvalidStatus,
						fmt.Sprintf("cannot change sub order status from %s to %s", so.Status, next))
				}
				so.Status = next
				so.StatusUpdatedAt = now

				if next == model.SubOrderStatusCancelled {
					withItems, err := attachItems(ctx, r, []model.SubOrder{so})
					if err != nil {
						return err
					}
					if err := restockItems(ctx, r, so.OrderID, withItems[0].Items, now); err != nil {
						return err
					}
					cancelled = true
				}
			}
		}
		if tracking != "" {
			so.TrackingNumber = &tracking
		}
		if provider != "" {
			so.ShippingProvider = &provider
		}

		if auditJSON(subOrderAudit(so)) != auditJSON(before) {
			if err := r.SubOrders().Update(ctx, so); err != nil {
				return lookupError(err, "sub order", subOrderID)
			}
			if err := u.writeAudit(ctx, r, actorUserID, model.AuditActionUpdateSubOrderStatus,
				model.AuditResourceSubOrder, so.ID, before, subOrderAudit(so)); err != nil {
				return err
			}
		}

		if cancelled {
			if err := u.closeIfAllCancelled(ctx, r, actorUserID, so.OrderID, now); err != nil {
				return err
			}
		}

		withItems, err := attachItems(ctx, r, []model.SubOrder{so})
		if err != nil {
			return err
		}
		out = withItems[0]
		return nil
	})
	if err != nil {
		return model.SubOrder{}, err
	}

	u.invalidate(ctx, out.OrderID)
	u.log.Info("sub order updated",
		zap.Int64("sub_order_id", out.ID),
		zap.String("status", string(out.Status)),
		zap.Int64("actor_user_id", actorUserID),
	)
	return out, nil
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
