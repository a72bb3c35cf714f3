package usecase

import (
	"context"
	"time"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// 注文詳細のキャッシュ。失敗しても注文処理自体は止めない。
type OrderCache interface {
	GetOrder(ctx context.Context, orderID int64) (model.Order, bool, error)
	SetOrder(ctx context.Context, order model.Order) error
	InvalidateOrder(ctx context.Context, orderID int64) error
}

// Redisを使わない構成用
type NopOrderCache struct{}

func (NopOrderCache) GetOrder(context.Context, int64) (model.Order, bool, error) {
	return model.Order{}, false, nil
}
func (NopOrderCache) SetOrder(context.Context, model.Order) error  { return nil }
func (NopOrderCache) InvalidateOrder(context.Context, int64) error { return nil }
