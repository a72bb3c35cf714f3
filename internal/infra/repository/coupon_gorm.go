package repository

import (
	"context"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	repo "github.com/rs-labo46/ec-order-core/internal/repository"

	"gorm.io/gorm"
)

type couponGormRepository struct {
	db *gorm.DB
}

func NewCouponGormRepository(db *gorm.DB) repo.CouponRepository {
	return &couponGormRepository{db: db}
}

func (r *couponGormRepository) FindActiveByID(ctx context.Context, couponID int64) (model.Coupon, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", couponID, true).
		First(&c).Error
	if isNotFound(err) {
		return model.Coupon{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Coupon{}, err
	}
	return c, nil
}

// 上限なし or 上限未満のときだけ+1
func (r *couponGormRepository) IncrementUsage(ctx context.Context, couponID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Coupon{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", couponID).
		Update("usage_count", gorm.Expr("usage_count + 1"))

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *couponGormRepository) DecrementUsage(ctx context.Context, couponID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Coupon{}).
		Where("id = ? AND usage_count > 0", couponID).
		Update("usage_count", gorm.Expr("usage_count - 1")).Error
}
