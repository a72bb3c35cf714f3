package repository

import (
	"context"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, subOrderID int64, items []model.OrderItem) ([]model.OrderItem, error)
	ListBySubOrderIDs(ctx context.Context, subOrderIDs []int64) ([]model.OrderItem, error)
	DeleteBySubOrderIDs(ctx context.Context, subOrderIDs []int64) error
}
