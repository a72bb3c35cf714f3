package repository

import (
	"context"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	repo "github.com/rs-labo46/ec-order-core/internal/repository"

	"gorm.io/gorm"
)

type addressGormRepository struct {
	db *gorm.DB
}

// DI
func NewAddressGormRepository(db *gorm.DB) repo.AddressRepository {
	return &addressGormRepository{db: db}
}

// その住所がその顧客のものか
func (r *addressGormRepository) IsOwnedByCustomer(ctx context.Context, addressID, customerID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Address{}).
		Where("id = ? AND customer_id = ?", addressID, customerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count == 1, nil
}
