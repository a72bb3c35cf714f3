package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs-labo46/ec-order-core/internal/config"
	"github.com/rs-labo46/ec-order-core/internal/handler"
	"github.com/rs-labo46/ec-order-core/internal/infra/cache"
	"github.com/rs-labo46/ec-order-core/internal/infra/db"
	infraRepo "github.com/rs-labo46/ec-order-core/internal/infra/repository"
	"github.com/rs-labo46/ec-order-core/internal/logger"
	"github.com/rs-labo46/ec-order-core/internal/server"
	"github.com/rs-labo46/ec-order-core/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const serviceName = "ec-order-core"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	//.envは無くてもよい（本番は環境変数のみ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.GoEnv)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	//注文詳細キャッシュ（REDIS_ADDRが空ならなし）
	var orderCache usecase.OrderCache = usecase.NopOrderCache{}
	if cfg.RedisAddr != "" {
		rdb := cache.NewRedisClient(cfg.RedisAddr)
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("redis unavailable, order cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			orderCache = cache.NewRedisOrderCache(rdb, serviceName, cfg.OrderCacheTTL)
		}
	}

	//Usecase生成
	txm := infraRepo.NewTxManagerGorm(gormDB)
	orderUC := usecase.NewOrderUsecase(txm, cfg.Pricing, orderCache, log, nil)

	//Handler生成
	e := server.New(cfg, log, server.Handlers{
		Orders:      handler.NewOrderHandler(orderUC),
		AdminOrders: handler.NewAdminOrderHandler(orderUC),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}
	return server.Start(ctx, e, addr, log)
}
