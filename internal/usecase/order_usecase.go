package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	"github.com/rs-labo46/ec-order-core/internal/domain/pricing"
	"github.com/rs-labo46/ec-order-core/internal/logger"
	repo "github.com/rs-labo46/ec-order-core/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderUsecase struct {
	tx        repo.TransactionManager
	estimator *pricing.Estimator
	cache     OrderCache
	log       *zap.Logger
	clock     Clock
}

// DI
func NewOrderUsecase(
	tx repo.TransactionManager,
	pricingCfg pricing.Config,
	cache OrderCache,
	log *zap.Logger,
	clock Clock,
) *OrderUsecase {
	if cache == nil {
		cache = NopOrderCache{}
	}
	if clock == nil {
		clock = systemClock{}
	}
	return &OrderUsecase{
		tx:        tx,
		estimator: pricing.NewEstimator(pricingCfg),
		cache:     cache,
		log:       logger.OrNop(log).Named("order"),
		clock:     clock,
	}
}

type OrderItemInput struct {
	ProductID int64
	VariantID *int64
	Quantity  int64
}

type SubOrderInput struct {
	SellerID int64
	Items    []OrderItemInput
}

type CreateOrderInput struct {
	CustomerID    int64
	AddressID     int64
	CouponID      *int64
	PaymentMethod string
	AffiliateID   *int64
	AffiliateCode *string
	// 空なら冪等性チェックなし
	IdempotencyKey string
	SubOrders      []SubOrderInput
}

// 販売者ごとにまとめた明細
type sellerGroup struct {
	sellerID int64
	items    []OrderItemInput
}

// 価格確定済みの子注文
type pricedSubOrder struct {
	sellerID int64
	subtotal decimal.Decimal
	items    []model.OrderItem
}

// 在庫の合算チェック用（同じ商品/バリエーションが複数行にある場合）
type stockKey struct {
	productID int64
	variantID int64
}

// CreateOrder は検証→価格計算→保存→在庫減算を1トランザクションで行い、
// 子注文・明細込みの注文を返す。途中で失敗したら何も残らない。
func (u *OrderUsecase) CreateOrder(ctx context.Context, in CreateOrderInput) (model.Order, error) {
	run := u.newCreation(in.CustomerID)

	run.enter(StageValidating)
	groups, err := validateCreateInput(in)
	if err != nil {
		return model.Order{}, run.fail(err)
	}
	key := strings.TrimSpace(in.IdempotencyKey)

	var out model.Order

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		if key != "" {
			existing, found, err := r.Orders().FindByIdempotencyKey(ctx, in.CustomerID, key)
			if err != nil {
				return dbError(err)
			}
			if found {
				run.replayed(existing.ID)
				out, err = loadOrderAggregate(ctx, r, existing)
				return err
			}
		}

		if err := validateParties(ctx, r, in, groups); err != nil {
			return err
		}

		run.enter(StagePricing)
		priced, subtotal, err := priceSubOrders(ctx, r, groups)
		if err != nil {
			return err
		}
		coupon, err := pricing.NewCouponEvaluator(r.Coupons(), u.clock.Now).Evaluate(ctx, in.CouponID, subtotal)
		if err != nil {
			return err
		}
		totals := u.estimator.Totals(subtotal, coupon.Discount)

		run.enter(StagePersisting)
		order, err := u.persistOrder(ctx, r, in, key, priced, totals)
		if err != nil {
			return err
		}
		if coupon.Coupon != nil {
			if err := incrementCouponUsage(ctx, r, *coupon.Coupon); err != nil {
				return err
			}
		}

		run.enter(StageInventoryUpdate)
		if err := decrementInventory(ctx, r, order, u.clock.Now()); err != nil {
			return err
		}

		out = order
		return nil
	})
	if err != nil {
		return model.Order{}, run.fail(err)
	}

	run.enter(StageCommitted)
	u.invalidate(ctx, out.ID)
	u.log.Info("order created",
		zap.Int64("order_id", out.ID),
		zap.Int64("customer_id", out.CustomerID),
		zap.Int("sub_orders", len(out.SubOrders)),
		zap.String("final_amount", out.FinalAmount.StringFixed(2)),
	)
	return out, nil
}

// 形式チェックと、同じ販売者の子注文のマージ（入力順は保つ）
func validateCreateInput(in CreateOrderInput) ([]sellerGroup, error) {
	if in.CustomerID <= 0 {
		return nil, model.Invalid("invalid customer_id")
	}
	if in.AddressID <= 0 {
		return nil, model.Invalid("invalid address_id")
	}
	if in.CouponID != nil && *in.CouponID <= 0 {
		return nil, model.Invalid("invalid coupon_id")
	}
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" || len(method) > 20 {
		return nil, model.Invalid("invalid payment_method")
	}
	if in.AffiliateCode != nil && len(*in.AffiliateCode) > 20 {
		return nil, model.Invalid("affiliate_code too long")
	}
	if len(in.IdempotencyKey) > 255 {
		return nil, model.Invalid("invalid idempotency_key")
	}
	if len(in.SubOrders) == 0 {
		return nil, model.Invalid("order has no sub orders")
	}

	groups := make([]sellerGroup, 0, len(in.SubOrders))
	index := make(map[int64]int, len(in.SubOrders))
	for _, so := range in.SubOrders {
		if so.SellerID <= 0 {
			return nil, model.Invalid("invalid seller_id")
		}
		if len(so.Items) == 0 {
			return nil, model.Invalid(fmt.Sprintf("sub order for seller %d has no items", so.SellerID))
		}
		for _, it := range so.Items {
			if it.ProductID <= 0 {
				return nil, model.Invalid("invalid product_id")
			}
			if it.VariantID != nil && *it.VariantID <= 0 {
				return nil, model.Invalid("invalid variant_id")
			}
			if it.Quantity <= 0 {
				return nil, model.Invalid("quantity must be > 0")
			}
		}

		if i, ok := index[so.SellerID]; ok {
			groups[i].items = append(groups[i].items, so.Items...)
			continue
		}
		index[so.SellerID] = len(groups)
		groups = append(groups, sellerGroup{
			sellerID: so.SellerID,
			items:    append([]OrderItemInput(nil), so.Items...),
		})
	}
	return groups, nil
}

// 顧客・住所（所有チェック込み）・販売者の存在確認
func validateParties(ctx context.Context, r repo.TxRepos, in CreateOrderInput, groups []sellerGroup) error {
	if _, err := r.Customers().FindByID(ctx, in.CustomerID); err != nil {
		return lookupError(err, "customer", in.CustomerID)
	}

	owned, err := r.Addresses().IsOwnedByCustomer(ctx, in.AddressID, in.CustomerID)
	if err != nil {
		return dbError(err)
	}
	// 他人の住所は存在しない扱い
	if !owned {
		return model.NotFound(fmt.Sprintf("address %d", in.AddressID))
	}

	for _, g := range groups {
		s, err := r.Sellers().FindByID(ctx, g.sellerID)
		if err != nil {
			return lookupError(err, "seller", g.sellerID)
		}
		if !s.IsVerified {
			return model.Invalid(fmt.Sprintf("seller %d is not verified", g.sellerID))
		}
	}
	return nil
}

// 明細ごとに価格を確定して、子注文小計と注文小計を返す
func priceSubOrders(ctx context.Context, r repo.TxRepos, groups []sellerGroup) ([]pricedSubOrder, decimal.Decimal, error) {
	calc := pricing.NewCalculator(r.Products())
	requested := make(map[stockKey]int64)

	out := make([]pricedSubOrder, 0, len(groups))
	total := decimal.Zero
	for _, g := range groups {
		so := pricedSubOrder{sellerID: g.sellerID, subtotal: decimal.Zero}
		for _, it := range g.items {
			pl, err := calc.PriceLine(ctx, pricing.LineRequest{
				ProductID: it.ProductID,
				VariantID: it.VariantID,
				Quantity:  it.Quantity,
			})
			if err != nil {
				return nil, decimal.Zero, err
			}
			if pl.Line.SellerID() != g.sellerID {
				return nil, decimal.Zero, model.Invalid(
					fmt.Sprintf("product %d does not belong to seller %d", it.ProductID, g.sellerID))
			}

			k := stockKey{productID: it.ProductID}
			if it.VariantID != nil {
				k.variantID = *it.VariantID
			}
			requested[k] += it.Quantity
			if requested[k] > pl.Line.AvailableStock() {
				return nil, decimal.Zero, model.NewError(model.KindInsufficientStock,
					fmt.Sprintf("insufficient stock for product %d", it.ProductID))
			}

			so.items = append(so.items, model.OrderItem{
				ProductID:       it.ProductID,
				VariantID:       it.VariantID,
				Quantity:        it.Quantity,
				PriceAtPurchase: pl.UnitPrice,
				TotalPrice:      pl.Total,
			})
			so.subtotal = so.subtotal.Add(pl.Total)
		}
		out = append(out, so)
		total = total.Add(so.subtotal)
	}
	return out, total, nil
}

// 注文→子注文→明細の順に保存
func (u *OrderUsecase) persistOrder(
	ctx context.Context,
	r repo.TxRepos,
	in CreateOrderInput,
	key string,
	priced []pricedSubOrder,
	totals pricing.Totals,
) (model.Order, error) {
	now := u.clock.Now()

	order := model.Order{
		CustomerID:     in.CustomerID,
		AddressID:      in.AddressID,
		CouponID:       in.CouponID,
		TotalAmount:    totals.Subtotal,
		DiscountAmount: totals.Discount,
		TaxAmount:      totals.Tax,
		ShippingFee:    totals.Shipping,
		FinalAmount:    totals.Final,
		PaymentMethod:  strings.TrimSpace(in.PaymentMethod),
		PaymentStatus:  model.PaymentStatusPending,
		AffiliateID:    in.AffiliateID,
		AffiliateCode:  in.AffiliateCode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if key != "" {
		order.IdempotencyKey = &key
	}

	created, err := r.Orders().Create(ctx, order)
	if errors.Is(err, repo.ErrConflict) {
		//同時に同じキーで登録された
		return model.Order{}, model.Invalid("idempotency conflict")
	}
	if err != nil {
		return model.Order{}, dbError(err)
	}

	created.SubOrders = make([]model.SubOrder, 0, len(priced))
	for _, p := range priced {
		so, err := r.SubOrders().Create(ctx, model.SubOrder{
			OrderID:         created.ID,
			SellerID:        p.sellerID,
			Subtotal:        p.subtotal,
			Status:          model.SubOrderStatusPending,
			StatusUpdatedAt: now,
		})
		if err != nil {
			return model.Order{}, dbError(err)
		}

		items, err := r.OrderItems().CreateBulk(ctx, so.ID, p.items)
		if err != nil {
			return model.Order{}, dbError(err)
		}
		so.Items = items
		created.SubOrders = append(created.SubOrders, so)
	}
	return created, nil
}

func incrementCouponUsage(ctx context.Context, r repo.TxRepos, c model.Coupon) error {
	ok, err := r.Coupons().IncrementUsage(ctx, c.ID)
	if err != nil {
		return dbError(err)
	}
	if !ok {
		return model.Invalid(fmt.Sprintf("coupon %s usage limit reached", c.Code))
	}
	return nil
}

// バリエーションがあればバリエーション在庫と商品在庫の両方を減らす
func decrementInventory(ctx context.Context, r repo.TxRepos, order model.Order, now time.Time) error {
	for _, so := range order.SubOrders {
		for _, it := range so.Items {
			if it.VariantID != nil {
				ok, err := r.Inventory().DecreaseVariantStockIfEnough(ctx, *it.VariantID, it.Quantity)
				if err != nil {
					return dbError(err)
				}
				if !ok {
					return model.NewError(model.KindInsufficientStock,
						fmt.Sprintf("insufficient stock for variant %d", *it.VariantID))
				}
			}

			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return dbError(err)
			}
			if !ok {
				return model.NewError(model.KindInsufficientStock,
					fmt.Sprintf("insufficient stock for product %d", it.ProductID))
			}

			orderID := order.ID
			if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
				ProductID: it.ProductID,
				VariantID: it.VariantID,
				OrderID:   &orderID,
				Delta:     -it.Quantity,
				Reason:    model.AdjustmentReasonOrder,
				CreatedAt: now,
			}); err != nil {
				return dbError(err)
			}
		}
	}
	return nil
}

// キャッシュ削除の失敗はログだけ
func (u *OrderUsecase) invalidate(ctx context.Context, orderID int64) {
	if err := u.cache.InvalidateOrder(ctx, orderID); err != nil {
		u.log.Warn("order cache invalidate failed", zap.Int64("order_id", orderID), zap.Error(err))
	}
}
