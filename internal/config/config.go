package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs-labo46/ec-order-core/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あればPOSTGRES_*より優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	JWTSecret string // JWT署名シークレット

	GoEnv    string // dev/prod
	LogLevel string

	RedisAddr     string        // 空ならキャッシュなし
	OrderCacheTTL time.Duration // 注文詳細キャッシュのTTL

	Pricing pricing.Config // 税率・送料テーブル
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: os.Getenv("PORT"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv:    os.Getenv("GO_ENV"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.DatabaseURL == "" {
		pgPort, err := mustAtoi("POSTGRES_PORT")
		if err != nil {
			return Config{}, err
		}
		cfg.PostgresPort = pgPort

		if cfg.PostgresUser == "" {
			return Config{}, fmt.Errorf("POSTGRES_USER is required")
		}
		if cfg.PostgresPassword == "" {
			return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
		}
		if cfg.PostgresDB == "" {
			return Config{}, fmt.Errorf("POSTGRES_DB is required")
		}
		if cfg.PostgresHost == "" {
			return Config{}, fmt.Errorf("POSTGRES_HOST is required")
		}
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}

	ttl, err := parseDuration("ORDER_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.OrderCacheTTL = ttl

	pc, err := loadPricing()
	if err != nil {
		return Config{}, err
	}
	cfg.Pricing = pc

	return cfg, nil
}

// 未設定ならデフォルト（税5%、100以下10.00、200以下5.00、それ以上無料）
func loadPricing() (pricing.Config, error) {
	pc := pricing.DefaultConfig()

	if v := os.Getenv("TAX_RATE"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil {
			return pricing.Config{}, fmt.Errorf("TAX_RATE must be decimal: %w", err)
		}
		pc.TaxRate = rate
	}

	if v := os.Getenv("SHIPPING_TIERS"); v != "" {
		tiers, err := ParseShippingTiers(v)
		if err != nil {
			return pricing.Config{}, err
		}
		pc.ShippingTiers = tiers
	}

	if v := os.Getenv("SHIPPING_FEE_ABOVE_TIERS"); v != "" {
		fee, err := decimal.NewFromString(v)
		if err != nil {
			return pricing.Config{}, fmt.Errorf("SHIPPING_FEE_ABOVE_TIERS must be decimal: %w", err)
		}
		pc.FeeAboveTiers = fee
	}

	if err := pc.Validate(); err != nil {
		return pricing.Config{}, fmt.Errorf("pricing config: %w", err)
	}
	return pc, nil
}

// ParseShippingTiers は "100:10.00,200:5.00" 形式を読む。
func ParseShippingTiers(s string) ([]pricing.ShippingTier, error) {
	var tiers []pricing.ShippingTier
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		upTo, fee, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("SHIPPING_TIERS: %q must be <up_to>:<fee>", part)
		}
		u, err := decimal.NewFromString(strings.TrimSpace(upTo))
		if err != nil {
			return nil, fmt.Errorf("SHIPPING_TIERS: invalid threshold %q: %w", upTo, err)
		}
		f, err := decimal.NewFromString(strings.TrimSpace(fee))
		if err != nil {
			return nil, fmt.Errorf("SHIPPING_TIERS: invalid fee %q: %w", fee, err)
		}
		tiers = append(tiers, pricing.ShippingTier{UpTo: u, Fee: f})
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("SHIPPING_TIERS is empty")
	}
	return tiers, nil
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
