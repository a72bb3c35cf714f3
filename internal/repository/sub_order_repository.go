package repository

import (
	"context"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
)

type SubOrderListFilter struct {
	Page     int
	Limit    int
	SellerID *int64
	Status   *model.SubOrderStatus
}

type SubOrderRepository interface {
	Create(ctx context.Context, subOrder model.SubOrder) (model.SubOrder, error)
	FindByID(ctx context.Context, subOrderID int64) (model.SubOrder, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.SubOrder, error)
	List(ctx context.Context, f SubOrderListFilter) ([]model.SubOrder, int64, error)
	Update(ctx context.Context, subOrder model.SubOrder) error
	DeleteByOrderID(ctx context.Context, orderID int64) error
}
