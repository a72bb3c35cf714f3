package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	"github.com/rs-labo46/ec-order-core/internal/domain/pricing"
	"github.com/rs-labo46/ec-order-core/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// CreateOrder 正常系
// =====================

func TestCreateOrder_TwoSellers_TwoSubOrdersAndTotals(t *testing.T) {
	env := newEnv(t, nil)

	o := mustCreateTwoSellerOrder(t, env)

	assert.NotZero(t, o.ID)
	assert.Equal(t, model.PaymentStatusPending, o.PaymentStatus)
	require.Len(t, o.SubOrders, 2)

	assert.Equal(t, sellerA, o.SubOrders[0].SellerID)
	assertDec(t, "90.00", o.SubOrders[0].Subtotal)
	assert.Equal(t, sellerB, o.SubOrders[1].SellerID)
	assertDec(t, "50.00", o.SubOrders[1].Subtotal)
	for _, so := range o.SubOrders {
		assert.Equal(t, model.SubOrderStatusPending, so.Status)
		assert.Equal(t, o.ID, so.OrderID)
		assert.NotEmpty(t, so.Items)
	}

	// 140 - 20 + 7.00 + 5.00
	assertDec(t, "140.00", o.TotalAmount)
	assertDec(t, "140.00", o.SubtotalOfSubOrders())
	assertDec(t, "20.00", o.DiscountAmount)
	assertDec(t, "7.00", o.TaxAmount)
	assertDec(t, "5.00", o.ShippingFee)
	assertDec(t, "132.00", o.FinalAmount)

	it := o.SubOrders[0].Items[0]
	assertDec(t, "90.00", it.PriceAtPurchase)
	assertDec(t, "90.00", it.TotalPrice)

	// 在庫・履歴・クーポン利用回数
	assert.Equal(t, int64(4), env.store.products[productA1].StockQuantity)
	assert.Equal(t, int64(8), env.store.products[productB1].StockQuantity)
	assert.Len(t, env.store.adjustments, 2)
	for _, a := range env.store.adjustments {
		assert.Equal(t, model.AdjustmentReasonOrder, a.Reason)
		assert.Negative(t, a.Delta)
		require.NotNil(t, a.OrderID)
		assert.Equal(t, o.ID, *a.OrderID)
	}
	assert.Equal(t, int64(1), env.store.coupons[couponFixed20].UsageCount)
	assert.Equal(t, 1, env.tx.calls)
}

func TestCreateOrder_FixedCouponOn150(t *testing.T) {
	env := newEnv(t, nil)

	in := baseInput(sub(sellerB, item(productB1, 6)))
	in.CouponID = i64(couponFixed20)

	o, err := env.uc.CreateOrder(context.Background(), in)
	require.NoError(t, err)

	assertDec(t, "150.00", o.TotalAmount)
	assertDec(t, "7.50", o.TaxAmount)
	assertDec(t, "5.00", o.ShippingFee)
	assertDec(t, "142.50", o.FinalAmount)
}

func TestCreateOrder_DiscountedQuantityTwo(t *testing.T) {
	env := newEnv(t, nil)

	o, err := env.uc.CreateOrder(context.Background(), baseInput(sub(sellerA, item(productA1, 2))))
	require.NoError(t, err)

	require.Len(t, o.SubOrders, 1)
	it := o.SubOrders[0].Items[0]
	assertDec(t, "90.00", it.PriceAtPurchase)
	assertDec(t, "180.00", it.TotalPrice)
	assertDec(t, "0", o.DiscountAmount)
	assert.Nil(t, o.CouponID)
	// 200以下なので送料5.00、税9.00
	assertDec(t, "194.00", o.FinalAmount)
}

// 同じ販売者の子注文は1つにまとめる
func TestCreateOrder_MergesSameSeller(t *testing.T) {
	env := newEnv(t, nil)

	o, err := env.uc.CreateOrder(context.Background(), baseInput(
		sub(sellerA, item(productA1, 1)),
		sub(sellerA, item(productA2, 1)),
	))
	require.NoError(t, err)

	require.Len(t, o.SubOrders, 1)
	assert.Len(t, o.SubOrders[0].Items, 2)
	assertDec(t, "120.00", o.SubOrders[0].Subtotal)
}

func TestCreateOrder_VariantDecrementsVariantAndProduct(t *testing.T) {
	env := newEnv(t, nil)

	o, err := env.uc.CreateOrder(context.Background(), baseInput(sub(sellerA, variantItem(productA1, variantA1, 2))))
	require.NoError(t, err)

	it := o.SubOrders[0].Items[0]
	require.NotNil(t, it.VariantID)
	assert.Equal(t, variantA1, *it.VariantID)
	assertDec(t, "90.00", it.PriceAtPurchase)

	assert.Equal(t, int64(0), env.store.variants[variantA1].StockQuantity)
	assert.Equal(t, int64(3), env.store.products[productA1].StockQuantity)
}

func TestCreateOrder_IdempotencyKeyReturnsSameOrder(t *testing.T) {
	env := newEnv(t, nil)
	ctx := context.Background()

	in := baseInput(sub(sellerA, item(productA1, 1)))
	in.IdempotencyKey = "key-1"

	first, err := env.uc.CreateOrder(ctx, in)
	require.NoError(t, err)
	second, err := env.uc.CreateOrder(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.SubOrders, 1)
	assert.Len(t, env.store.orders, 1)
	assert.Equal(t, int64(4), env.store.products[productA1].StockQuantity)
}

func TestCreateOrder_InvalidatesCache(t *testing.T) {
	cache := new(OrderCacheMock)
	cache.On("InvalidateOrder", mock.Anything, mock.AnythingOfType("int64")).Return(nil).Once()

	env := newEnv(t, cache)
	_, err := env.uc.CreateOrder(context.Background(), baseInput(sub(sellerA, item(productA1, 1))))
	require.NoError(t, err)

	cache.AssertExpectations(t)
}

// =====================
// CreateOrder 異常系（何も書き込まれないこと）
// =====================

func assertNothingWritten(t *testing.T, env *testEnv) {
	t.Helper()
	fresh := seedStore()
	assert.Empty(t, env.store.orders)
	assert.Empty(t, env.store.subOrders)
	assert.Empty(t, env.store.items)
	assert.Empty(t, env.store.adjustments)
	for id, p := range fresh.products {
		assert.Equal(t, p.StockQuantity, env.store.products[id].StockQuantity, "product %d stock", id)
	}
	for id, v := range fresh.variants {
		assert.Equal(t, v.StockQuantity, env.store.variants[id].StockQuantity, "variant %d stock", id)
	}
	for id, c := range fresh.coupons {
		assert.Equal(t, c.UsageCount, env.store.coupons[id].UsageCount, "coupon %d usage", id)
	}
}

func TestCreateOrder_InsufficientStock_NoWrites(t *testing.T) {
	env := newEnv(t, nil)

	_, err := env.uc.CreateOrder(context.Background(), baseInput(
		sub(sellerB, item(productB1, 1)),
		sub(sellerA, item(productA2, 2)),
	))
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	stage, ok := usecase.FailedStage(err)
	assert.True(t, ok)
	assert.Equal(t, usecase.StagePricing, stage)
	assertNothingWritten(t, env)
}

// 行ごとには足りても合計で足りない
func TestCreateOrder_InsufficientStock_SummedAcrossLines(t *testing.T) {
	env := newEnv(t, nil)

	_, err := env.uc.CreateOrder(context.Background(), baseInput(
		sub(sellerA, item(productA1, 3)),
		sub(sellerA, item(productA1, 3)),
	))
	assert.ErrorIs(t, err, model.ErrInsufficientStock)
	assertNothingWritten(t, env)
}

// バリエーション在庫は足りるが商品在庫が足りない → 在庫更新段階で失敗してrollback
func TestCreateOrder_InsufficientStock_DuringInventoryUpdate_RollsBack(t *testing.T) {
	env := newEnv(t, nil)

	_, err := env.uc.CreateOrder(context.Background(), baseInput(sub(sellerA,
		variantItem(productA1, variantA1, 2),
		variantItem(productA1, variantA1XL, 4),
	)))
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	stage, _ := usecase.FailedStage(err)
	assert.Equal(t, usecase.StageInventoryUpdate, stage)
	assertNothingWritten(t, env)
}

func TestCreateOrder_CouponErrors_NoWrites(t *testing.T) {
	cases := []struct {
		name     string
		couponID int64
		want     error
	}{
		{"expired", couponExpired, model.ErrCouponExpired},
		{"not yet valid", couponFuture, model.ErrCouponNotYetValid},
		{"minimum purchase", couponMin500, model.ErrMinimumPurchaseNotMet},
		{"inactive", couponInactive, model.ErrNotFound},
		{"missing", 999, model.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newEnv(t, nil)

			in := baseInput(sub(sellerA, item(productA1, 1)))
			in.CouponID = i64(tc.couponID)

			_, err := env.uc.CreateOrder(context.Background(), in)
			assert.ErrorIs(t, err, tc.want)
			assertNothingWritten(t, env)
		})
	}
}

func TestCreateOrder_CouponUsageLimit(t *testing.T) {
	env := newEnv(t, nil)
	ctx := context.Background()

	in := baseInput(sub(sellerA, item(productA1, 1)))
	in.CouponID = i64(couponOnce)

	_, err := env.uc.CreateOrder(ctx, in)
	require.NoError(t, err)

	_, err = env.uc.CreateOrder(ctx, in)
	assert.ErrorIs(t, err, model.ErrValidationFailed)
	assertErrContains(t, err, "usage limit")
	assert.Len(t, env.store.orders, 1)
}

func TestCreateOrder_PartyValidation(t *testing.T) {
	cases := []struct {
		name string
		in   func() usecase.CreateOrderInput
		want error
	}{
		{"unknown customer", func() usecase.CreateOrderInput {
			in := baseInput(sub(sellerA, item(productA1, 1)))
			in.CustomerID = 42
			return in
		}, model.ErrNotFound},
		{"address of another customer", func() usecase.CreateOrderInput {
			in := baseInput(sub(sellerA, item(productA1, 1)))
			in.AddressID = otherAddressID
			return in
		}, model.ErrNotFound},
		{"unknown seller", func() usecase.CreateOrderInput {
			return baseInput(sub(99, item(productA1, 1)))
		}, model.ErrNotFound},
		{"unverified seller", func() usecase.CreateOrderInput {
			return baseInput(sub(unverifiedSeller, item(productU1, 1)))
		}, model.ErrValidationFailed},
		{"product of another seller", func() usecase.CreateOrderInput {
			return baseInput(sub(sellerB, item(productA1, 1)))
		}, model.ErrValidationFailed},
		{"unknown product", func() usecase.CreateOrderInput {
			return baseInput(sub(sellerA, item(999, 1)))
		}, model.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newEnv(t, nil)

			_, err := env.uc.CreateOrder(context.Background(), tc.in())
			assert.ErrorIs(t, err, tc.want)
			assertNothingWritten(t, env)
		})
	}
}

// 形式エラーはトランザクションを開かない
func TestCreateOrder_InputValidation_NoTx(t *testing.T) {
	cases := []struct {
		name string
		in   usecase.CreateOrderInput
		msg  string
	}{
		{"no sub orders", baseInput(), "no sub orders"},
		{"empty items", baseInput(sub(sellerA)), "has no items"},
		{"zero quantity", baseInput(sub(sellerA, item(productA1, 0))), "quantity"},
		{"negative quantity", baseInput(sub(sellerA, item(productA1, -1))), "quantity"},
		{"no payment method", func() usecase.CreateOrderInput {
			in := baseInput(sub(sellerA, item(productA1, 1)))
			in.PaymentMethod = "  "
			return in
		}(), "payment_method"},
		{"long affiliate code", func() usecase.CreateOrderInput {
			in := baseInput(sub(sellerA, item(productA1, 1)))
			in.AffiliateCode = str("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
			return in
		}(), "affiliate_code"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newEnv(t, nil)

			_, err := env.uc.CreateOrder(context.Background(), tc.in)
			assert.ErrorIs(t, err, model.ErrValidationFailed)
			assertErrContains(t, err, tc.msg)

			stage, _ := usecase.FailedStage(err)
			assert.Equal(t, usecase.StageValidating, stage)
			assert.Equal(t, 0, env.tx.calls)
		})
	}
}

// clockがnilなら現在時刻を使う
func TestNewOrderUsecase_NilClockUsesSystemTime(t *testing.T) {
	store := seedStore()
	uc := usecase.NewOrderUsecase(&memTxManager{store: store}, pricing.DefaultConfig(), nil, nil, nil)

	from := time.Now()
	o, err := uc.CreateOrder(context.Background(), baseInput(sub(sellerB, item(productB1, 1))))
	require.NoError(t, err)

	assert.False(t, o.CreatedAt.Before(from))
	assert.False(t, o.CreatedAt.After(time.Now()))
}
