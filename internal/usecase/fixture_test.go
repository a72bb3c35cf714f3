package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	"github.com/rs-labo46/ec-order-core/internal/domain/pricing"
	"github.com/rs-labo46/ec-order-core/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func i64(v int64) *int64 { return &v }

func str(s string) *string { return &s }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s got %s", want, got.String())
}

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

// =====================
// fixture
// =====================

const (
	customerID      = int64(1)
	otherCustomerID = int64(2)
	customerUserID  = int64(100)
	addressID       = int64(10)
	otherAddressID  = int64(20)

	sellerA          = int64(1)
	sellerB          = int64(2)
	unverifiedSeller = int64(3)

	productA1   = int64(101) // sellerA 100.00 10%引き 在庫5
	productA2   = int64(102) // sellerA 30.00 在庫1
	productB1   = int64(201) // sellerB 25.00 在庫10
	productU1   = int64(301) // 未認証の販売者
	variantA1   = int64(1001)
	variantA1XL = int64(1002)

	couponFixed20  = int64(1)
	couponExpired  = int64(2)
	couponFuture   = int64(3)
	couponMin500   = int64(4)
	couponOnce     = int64(5)
	couponPercent  = int64(6)
	couponInactive = int64(7)
)

func seedStore() *memStore {
	s := newMemStore()

	s.customers[customerID] = model.Customer{ID: customerID, UserID: customerUserID}
	s.customers[otherCustomerID] = model.Customer{ID: otherCustomerID, UserID: 200}
	s.addresses[addressID] = model.Address{ID: addressID, CustomerID: customerID, City: "Lagos"}
	s.addresses[otherAddressID] = model.Address{ID: otherAddressID, CustomerID: otherCustomerID, City: "Cairo"}

	s.sellers[sellerA] = model.Seller{ID: sellerA, BusinessName: "A", IsVerified: true}
	s.sellers[sellerB] = model.Seller{ID: sellerB, BusinessName: "B", IsVerified: true}
	s.sellers[unverifiedSeller] = model.Seller{ID: unverifiedSeller, BusinessName: "U"}

	s.products[productA1] = model.Product{ID: productA1, SellerID: sellerA, Name: "A1",
		BasePrice: dec("100.00"), DiscountPercentage: dec("10"), StockQuantity: 5, IsAvailable: true}
	s.products[productA2] = model.Product{ID: productA2, SellerID: sellerA, Name: "A2",
		BasePrice: dec("30.00"), StockQuantity: 1, IsAvailable: true}
	s.products[productB1] = model.Product{ID: productB1, SellerID: sellerB, Name: "B1",
		BasePrice: dec("25.00"), StockQuantity: 10, IsAvailable: true}
	s.products[productU1] = model.Product{ID: productU1, SellerID: unverifiedSeller, Name: "U1",
		BasePrice: dec("10.00"), StockQuantity: 10, IsAvailable: true}

	s.variants[variantA1] = model.ProductVariant{ID: variantA1, ProductID: productA1, VariantName: "M",
		Price: dec("120.00"), DiscountPercentage: dec("25"), StockQuantity: 2, IsAvailable: true}
	s.variants[variantA1XL] = model.ProductVariant{ID: variantA1XL, ProductID: productA1, VariantName: "XL",
		Price: dec("100.00"), StockQuantity: 5, IsAvailable: true}

	day := 24 * time.Hour
	min500 := dec("500")
	s.coupons[couponFixed20] = model.Coupon{ID: couponFixed20, Code: "FIX20", DiscountType: model.DiscountTypeFixed,
		DiscountAmount: dec("20"), StartDate: testNow.Add(-day), EndDate: testNow.Add(day), IsActive: true}
	s.coupons[couponExpired] = model.Coupon{ID: couponExpired, Code: "OLD", DiscountType: model.DiscountTypeFixed,
		DiscountAmount: dec("5"), StartDate: testNow.Add(-2 * day), EndDate: testNow.Add(-day), IsActive: true}
	s.coupons[couponFuture] = model.Coupon{ID: couponFuture, Code: "SOON", DiscountType: model.DiscountTypeFixed,
		DiscountAmount: dec("5"), StartDate: testNow.Add(day), EndDate: testNow.Add(2 * day), IsActive: true}
	s.coupons[couponMin500] = model.Coupon{ID: couponMin500, Code: "BIG", DiscountType: model.DiscountTypeFixed,
		DiscountAmount: dec("50"), MinimumPurchase: &min500, StartDate: testNow.Add(-day), EndDate: testNow.Add(day), IsActive: true}
	s.coupons[couponOnce] = model.Coupon{ID: couponOnce, Code: "ONCE", DiscountType: model.DiscountTypeFixed,
		DiscountAmount: dec("1"), UsageLimit: i64(1), StartDate: testNow.Add(-day), EndDate: testNow.Add(day), IsActive: true}
	s.coupons[couponPercent] = model.Coupon{ID: couponPercent, Code: "PCT10", DiscountType: model.DiscountTypePercentage,
		DiscountAmount: dec("10"), StartDate: testNow.Add(-day), EndDate: testNow.Add(day), IsActive: true}
	s.coupons[couponInactive] = model.Coupon{ID: couponInactive, Code: "OFF", DiscountType: model.DiscountTypeFixed,
		DiscountAmount: dec("5"), StartDate: testNow.Add(-day), EndDate: testNow.Add(day), IsActive: false}

	return s
}

// =====================
// OrderCache mock
// =====================

type OrderCacheMock struct{ mock.Mock }

func (m *OrderCacheMock) GetOrder(ctx context.Context, orderID int64) (model.Order, bool, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderCacheMock) SetOrder(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderCacheMock) InvalidateOrder(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type testEnv struct {
	store *memStore
	tx    *memTxManager
	uc    *usecase.OrderUsecase
}

func newEnv(t *testing.T, cache usecase.OrderCache) *testEnv {
	t.Helper()
	store := seedStore()
	tx := &memTxManager{store: store}
	uc := usecase.NewOrderUsecase(tx, pricing.DefaultConfig(), cache, nil, fixedClock{t: testNow})
	return &testEnv{store: store, tx: tx, uc: uc}
}

func item(productID, qty int64) usecase.OrderItemInput {
	return usecase.OrderItemInput{ProductID: productID, Quantity: qty}
}

func variantItem(productID, variantID, qty int64) usecase.OrderItemInput {
	return usecase.OrderItemInput{ProductID: productID, VariantID: i64(variantID), Quantity: qty}
}

func baseInput(subs ...usecase.SubOrderInput) usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		CustomerID:    customerID,
		AddressID:     addressID,
		PaymentMethod: "card",
		SubOrders:     subs,
	}
}

func sub(sellerID int64, items ...usecase.OrderItemInput) usecase.SubOrderInput {
	return usecase.SubOrderInput{SellerID: sellerID, Items: items}
}

// 2販売者の注文（小計140、FIX20適用）を作る
func mustCreateTwoSellerOrder(t *testing.T, env *testEnv) model.Order {
	t.Helper()
	in := baseInput(sub(sellerA, item(productA1, 1)), sub(sellerB, item(productB1, 2)))
	in.CouponID = i64(couponFixed20)

	o, err := env.uc.CreateOrder(context.Background(), in)
	require.NoError(t, err)
	return o
}
