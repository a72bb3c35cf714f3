package repository

import (
	"context"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
)

type OrderListFilter struct {
	Page          int
	Limit         int
	CustomerID    *int64
	PaymentStatus *model.PaymentStatus
}

type OrderRepository interface {
	// 子注文・明細は含めずに注文だけ保存する
	Create(ctx context.Context, order model.Order) (model.Order, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
	Update(ctx context.Context, order model.Order) error
	Delete(ctx context.Context, orderID int64) error

	//検索（同じキーなら同じ結果を返す）
	FindByIdempotencyKey(ctx context.Context, customerID int64, key string) (model.Order, bool, error)
}
