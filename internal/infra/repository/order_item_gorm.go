package repository

import (
	"context"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

// 採番されたIDを埋めて返す
func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, subOrderID int64, items []model.OrderItem) ([]model.OrderItem, error) {
	if len(items) == 0 {
		return []model.OrderItem{}, nil
	}
	out := make([]model.OrderItem, len(items))
	copy(out, items)
	for i := range out {
		out[i].SubOrderID = subOrderID
	}
	if err := r.db.WithContext(ctx).Create(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OrderItemGormRepository) ListBySubOrderIDs(ctx context.Context, subOrderIDs []int64) ([]model.OrderItem, error) {
	if len(subOrderIDs) == 0 {
		return []model.OrderItem{}, nil
	}
	var items []model.OrderItem
	err := r.db.WithContext(ctx).
		Where("suborder_id IN ?", subOrderIDs).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, err
	}
	return items, nil
}

func (r *OrderItemGormRepository) DeleteBySubOrderIDs(ctx context.Context, subOrderIDs []int64) error {
	if len(subOrderIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("suborder_id IN ?", subOrderIDs).Delete(&model.OrderItem{}).Error
}
