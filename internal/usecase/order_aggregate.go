package usecase

import (
	"context"
	"encoding/json"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	repo "github.com/rs-labo46/ec-order-core/internal/repository"
)

// 注文に子注文・明細を詰めて返す
func loadOrderAggregate(ctx context.Context, r repo.TxRepos, o model.Order) (model.Order, error) {
	subs, err := r.SubOrders().ListByOrderID(ctx, o.ID)
	if err != nil {
		return model.Order{}, dbError(err)
	}
	subs, err = attachItems(ctx, r, subs)
	if err != nil {
		return model.Order{}, err
	}
	o.SubOrders = subs
	return o, nil
}

// 子注文ごとに明細を1回のクエリでまとめて取得
func attachItems(ctx context.Context, r repo.TxRepos, subs []model.SubOrder) ([]model.SubOrder, error) {
	if len(subs) == 0 {
		return []model.SubOrder{}, nil
	}

	ids := subOrderIDs(subs)
	items, err := r.OrderItems().ListBySubOrderIDs(ctx, ids)
	if err != nil {
		return nil, dbError(err)
	}

	bySub := make(map[int64][]model.OrderItem, len(subs))
	for _, it := range items {
		bySub[it.SubOrderID] = append(bySub[it.SubOrderID], it)
	}
	out := make([]model.SubOrder, len(subs))
	for i, so := range subs {
		so.Items = bySub[so.ID]
		if so.Items == nil {
			so.Items = []model.OrderItem{}
		}
		out[i] = so
	}
	return out, nil
}

func subOrderIDs(subs []model.SubOrder) []int64 {
	ids := make([]int64, 0, len(subs))
	for _, so := range subs {
		ids = append(ids, so.ID)
	}
	return ids
}

// 監査ログ用。変更前後の対象フィールドだけを渡す
func auditJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

type orderAuditView struct {
	CouponID       *int64              `json:"coupon_id,omitempty"`
	DiscountAmount string              `json:"discount_amount"`
	TaxAmount      string              `json:"tax_amount"`
	ShippingFee    string              `json:"shipping_fee"`
	FinalAmount    string              `json:"final_amount"`
	PaymentStatus  model.PaymentStatus `json:"payment_status"`
}

func orderAudit(o model.Order) orderAuditView {
	return orderAuditView{
		CouponID:       o.CouponID,
		DiscountAmount: o.DiscountAmount.StringFixed(2),
		TaxAmount:      o.TaxAmount.StringFixed(2),
		ShippingFee:    o.ShippingFee.StringFixed(2),
		FinalAmount:    o.FinalAmount.StringFixed(2),
		PaymentStatus:  o.PaymentStatus,
	}
}

type subOrderAuditView struct {
	Status           model.SubOrderStatus `json:"status"`
	TrackingNumber   *string              `json:"tracking_number,omitempty"`
	ShippingProvider *string              `json:"shipping_provider,omitempty"`
}

func subOrderAudit(so model.SubOrder) subOrderAuditView {
	return subOrderAuditView{
		Status:           so.Status,
		TrackingNumber:   so.TrackingNumber,
		ShippingProvider: so.ShippingProvider,
	}
}

func (u *OrderUsecase) writeAudit(
	ctx context.Context,
	r repo.TxRepos,
	actorUserID int64,
	action model.AuditAction,
	resource model.AuditResourceType,
	resourceID int64,
	before, after any,
) error {
	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
		BeforeJSON:   auditJSON(before),
		AfterJSON:    auditJSON(after),
		CreatedAt:    u.clock.Now(),
	}); err != nil {
		return dbError(err)
	}
	return nil
}
