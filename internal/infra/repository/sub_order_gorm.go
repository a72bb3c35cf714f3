package repository

import (
	"context"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	repo "github.com/rs-labo46/ec-order-core/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubOrderGormRepository struct {
	db *gorm.DB
}

func NewSubOrderGormRepository(db *gorm.DB) *SubOrderGormRepository {
	return &SubOrderGormRepository{db: db}
}

func (r *SubOrderGormRepository) Create(ctx context.Context, so model.SubOrder) (model.SubOrder, error) {
	items := so.Items
	so.Items = nil

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&so).Error; err != nil {
		return model.SubOrder{}, err
	}
	so.Items = items
	return so, nil
}

func (r *SubOrderGormRepository) FindByID(ctx context.Context, subOrderID int64) (model.SubOrder, error) {
	var so model.SubOrder
	err := r.db.WithContext(ctx).Where("id = ?", subOrderID).First(&so).Error
	if isNotFound(err) {
		return model.SubOrder{}, repo.ErrNotFound
	}
	if err != nil {
		return model.SubOrder{}, err
	}
	return so, nil
}

func (r *SubOrderGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.SubOrder, error) {
	var list []model.SubOrder
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&list).Error; err != nil {
		return []model.SubOrder{}, err
	}
	return list, nil
}

// 販売者別・ステータス別の一覧（ステータス更新が新しい順）
func (r *SubOrderGormRepository) List(ctx context.Context, f repo.SubOrderListFilter) ([]model.SubOrder, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}

	q := r.db.WithContext(ctx).Model(&model.SubOrder{})
	if f.SellerID != nil {
		q = q.Where("seller_id = ?", *f.SellerID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.SubOrder{}, 0, err
	}

	var items []model.SubOrder
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("status_updated_at desc").Order("id desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.SubOrder{}, 0, err
	}
	return items, total, nil
}

func (r *SubOrderGormRepository) Update(ctx context.Context, so model.SubOrder) error {
	res := r.db.WithContext(ctx).Model(&model.SubOrder{}).
		Where("id = ?", so.ID).
		Select("status", "status_updated_at", "tracking_number", "shipping_provider").
		Updates(&so)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SubOrderGormRepository) DeleteByOrderID(ctx context.Context, orderID int64) error {
	return r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&model.SubOrder{}).Error
}
