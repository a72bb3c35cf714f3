package repository

import (
	"context"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	repo "github.com/rs-labo46/ec-order-core/internal/repository"

	"gorm.io/gorm"
)

type sellerGormRepository struct {
	db *gorm.DB
}

func NewSellerGormRepository(db *gorm.DB) repo.SellerRepository {
	return &sellerGormRepository{db: db}
}

func (r *sellerGormRepository) FindByID(ctx context.Context, sellerID int64) (model.Seller, error) {
	var s model.Seller
	err := r.db.WithContext(ctx).First(&s, sellerID).Error
	if isNotFound(err) {
		return model.Seller{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Seller{}, err
	}
	return s, nil
}

type customerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) repo.CustomerRepository {
	return &customerGormRepository{db: db}
}

func (r *customerGormRepository) FindByID(ctx context.Context, customerID int64) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, customerID).Error
	if isNotFound(err) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

// JWTのsub（ユーザーID）から顧客を引く
func (r *customerGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error
	if isNotFound(err) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}
