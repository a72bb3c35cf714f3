package usecase

import (
	"context"
	"time"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	repo "github.com/rs-labo46/ec-order-core/internal/repository"

	"go.uber.org/zap"
)

// CancelOrder は未出荷の子注文をすべてcancelledにして在庫を戻す。
// 1つでも出荷済みならINVALID_STATUS。支払い済みはrefunded、未払いはfailedにする。
func (u *OrderUsecase) CancelOrder(ctx context.Context, actorUserID, orderID int64) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, model.Invalid("invalid id")
	}

	var out model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return lookupError(err, "order", orderID)
		}
		subs, err := r.SubOrders().ListByOrderID(ctx, orderID)
		if err != nil {
			return dbError(err)
		}

		open := make([]model.SubOrder, 0, len(subs))
		for _, so := range subs {
			if so.Status.HasShipped() {
				return model.NewError(model.KindInvalidStatus, "order already shipped")
			}
			if so.Status != model.SubOrderStatusCancelled {
				open = append(open, so)
			}
		}
		if len(open) == 0 {
			return model.NewError(model.KindInvalidStatus, "order already cancelled")
		}

		before := orderAudit(o)
		now := u.clock.Now()

		open, err = attachItems(ctx, r, open)
		if err != nil {
			return err
		}
		for _, so := range open {
			so.Status = model.SubOrderStatusCancelled
			so.StatusUpdatedAt = now
			if err := r.SubOrders().Update(ctx, so); err != nil {
				return dbError(err)
			}
			if err := restockItems(ctx, r, orderID, so.Items, now); err != nil {
				return err
			}
		}

		if err := closeCancelledOrder(ctx, r, &o); err != nil {
			return err
		}
		o.UpdatedAt = now
		if err := r.Orders().Update(ctx, o); err != nil {
			return dbError(err)
		}

		if err := u.writeAudit(ctx, r, actorUserID, model.AuditActionCancelOrder,
			model.AuditResourceOrder, orderID, before, orderAudit(o)); err != nil {
			return err
		}

		out, err = loadOrderAggregate(ctx, r, o)
		return err
	})
	if err != nil {
		return model.Order{}, err
	}

	u.invalidate(ctx, orderID)
	u.log.Info("order cancelled", zap.Int64("order_id", orderID), zap.Int64("actor_user_id", actorUserID))
	return out, nil
}

// 子注文がすべてcancelledになった注文の後始末。
// 支払い済みはrefunded、未払いはfailedにし、クーポンの利用回数を戻す。
func closeCancelledOrder(ctx context.Context, r repo.TxRepos, o *model.Order) error {
	switch o.PaymentStatus {
	case model.PaymentStatusPaid:
		o.PaymentStatus = model.PaymentStatusRefunded
	case model.PaymentStatusPending:
		o.PaymentStatus = model.PaymentStatusFailed
	}
	if o.CouponID != nil {
		if err := r.Coupons().DecrementUsage(ctx, *o.CouponID); err != nil {
			return dbError(err)
		}
	}
	return nil
}

// 子注文を1件ずつキャンセルして最後の1件になったときに呼ぶ
func (u *OrderUsecase) closeIfAllCancelled(ctx context.Context, r repo.TxRepos, actorUserID, orderID int64, now time.Time) error {
	subs, err := r.SubOrders().ListByOrderID(ctx, orderID)
	if err != nil {
		return dbError(err)
	}
	if !allCancelled(subs) {
		return nil
	}

	o, err := r.Orders().FindByID(ctx, orderID)
	if err != nil {
		return lookupError(err, "order", orderID)
	}
	before := orderAudit(o)
	if err := closeCancelledOrder(ctx, r, &o); err != nil {
		return err
	}
	o.UpdatedAt = now
	if err := r.Orders().Update(ctx, o); err != nil {
		return dbError(err)
	}
	return u.writeAudit(ctx, r, actorUserID, model.AuditActionCancelOrder,
		model.AuditResourceOrder, orderID, before, orderAudit(o))
}

func allCancelled(subs []model.SubOrder) bool {
	if len(subs) == 0 {
		return false
	}
	for _, so := range subs {
		if so.Status != model.SubOrderStatusCancelled {
			return false
		}
	}
	return true
}

// DeleteOrder は明細→子注文→注文の順に消す。在庫は戻さない。
func (u *OrderUsecase) DeleteOrder(ctx context.Context, actorUserID, orderID int64) error {
	if orderID <= 0 {
		return model.Invalid("invalid id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return lookupError(err, "order", orderID)
		}
		subs, err := r.SubOrders().ListByOrderID(ctx, orderID)
		if err != nil {
			return dbError(err)
		}

		if len(subs) > 0 {
			if err := r.OrderItems().DeleteBySubOrderIDs(ctx, subOrderIDs(subs)); err != nil {
				return dbError(err)
			}
		}
		if err := r.SubOrders().DeleteByOrderID(ctx, orderID); err != nil {
			return dbError(err)
		}
		if err := r.Orders().Delete(ctx, orderID); err != nil {
			return lookupError(err, "order", orderID)
		}

		return u.writeAudit(ctx, r, actorUserID, model.AuditActionDeleteOrder,
			model.AuditResourceOrder, orderID, orderAudit(o), struct{}{})
	})
	if err != nil {
		return err
	}

	u.invalidate(ctx, orderID)
	u.log.Info("order deleted", zap.Int64("order_id", orderID), zap.Int64("actor_user_id", actorUserID))
	return nil
}

// 明細分の在庫を戻して履歴を残す
func restockItems(ctx context.Context, r repo.TxRepos, orderID int64, items []model.OrderItem, now time.Time) error {
	for _, it := range items {
		if it.VariantID != nil {
			if err := r.Inventory().IncreaseVariantStock(ctx, *it.VariantID, it.Quantity); err != nil {
				return dbError(err)
			}
		}
		if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
			return dbError(err)
		}

		oid := orderID
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			OrderID:   &oid,
			Delta:     it.Quantity,
			Reason:    model.AdjustmentReasonCancel,
			CreatedAt: now,
		}); err != nil {
			return dbError(err)
		}
	}
	return nil
}
