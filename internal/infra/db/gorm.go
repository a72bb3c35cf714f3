package db

import (
	"fmt"

	"github.com/rs-labo46/ec-order-core/internal/config"
	"github.com/rs-labo46/ec-order-core/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.GoEnv)),
	}

	// DATABASE_URL があれば最優先で使う
	if cfg.DatabaseURL != "" {
		return gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	}

	return gorm.Open(postgres.Open(DSN(cfg)), gormCfg)
}

func DSN(cfg config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
	)
}

// Migrate は注文まわりのテーブルを作成・更新する。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Customer{},
		&model.Address{},
		&model.Seller{},
		&model.Product{},
		&model.ProductVariant{},
		&model.Coupon{},
		&model.Order{},
		&model.SubOrder{},
		&model.OrderItem{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	)
}

// devだけSQLを出す
func gormLogLevel(env string) gormlogger.LogLevel {
	if env == "dev" {
		return gormlogger.Info
	}
	return gormlogger.Warn
}
