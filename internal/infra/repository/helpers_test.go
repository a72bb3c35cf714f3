package repository_test

import (
	"os"
	"testing"
	"time"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	infradb "github.com/rs-labo46/ec-order-core/internal/infra/db"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TEST_DATABASE_URL が無ければスキップ（中身は毎回空にするので専用DBを使うこと）
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	gdb, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, infradb.Migrate(gdb))

	require.NoError(t, gdb.Exec(`TRUNCATE TABLE
		audit_logs, inventory_adjustments, order_items, sub_orders, orders,
		coupons, product_variants, products, sellers, addresses, customers
		RESTART IDENTITY CASCADE`).Error)

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mustProduct(t *testing.T, gdb *gorm.DB, stock int64) model.Product {
	t.Helper()
	p := model.Product{
		SellerID:      1,
		Name:          "mug",
		BasePrice:     dec("12.50"),
		StockQuantity: stock,
		IsAvailable:   true,
	}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}

func mustVariant(t *testing.T, gdb *gorm.DB, productID, stock int64, available bool) model.ProductVariant {
	t.Helper()
	v := model.ProductVariant{
		ProductID:     productID,
		VariantName:   "large",
		Price:         dec("15.00"),
		StockQuantity: stock,
		IsAvailable:   available,
	}
	require.NoError(t, gdb.Create(&v).Error)
	return v
}

func mustCoupon(t *testing.T, gdb *gorm.DB, code string, limit *int64, active bool) model.Coupon {
	t.Helper()
	c := model.Coupon{
		Code:           code,
		DiscountAmount: dec("10"),
		DiscountType:   model.DiscountTypeFixed,
		StartDate:      testNow.Add(-24 * time.Hour),
		EndDate:        testNow.Add(24 * time.Hour),
		IsActive:       active,
		UsageLimit:     limit,
	}
	require.NoError(t, gdb.Create(&c).Error)
	return c
}

func newOrder(customerID int64, key *string) model.Order {
	return model.Order{
		CustomerID:     customerID,
		AddressID:      1,
		TotalAmount:    dec("100"),
		DiscountAmount: dec("0"),
		TaxAmount:      dec("5"),
		ShippingFee:    dec("5"),
		FinalAmount:    dec("110"),
		PaymentMethod:  "card",
		PaymentStatus:  model.PaymentStatusPending,
		IdempotencyKey: key,
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	}
}

func strPtr(s string) *string { return &s }

func i64Ptr(v int64) *int64 { return &v }
