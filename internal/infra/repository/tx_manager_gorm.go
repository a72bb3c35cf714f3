package repository

import (
	"context"

	repo "github.com/rs-labo46/ec-order-core/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	customers  repo.CustomerRepository
	addresses  repo.AddressRepository
	sellers    repo.SellerRepository
	products   repo.ProductRepository
	coupons    repo.CouponRepository
	orders     repo.OrderRepository
	subOrders  repo.SubOrderRepository
	orderItems repo.OrderItemRepository
	inventory  repo.InventoryRepository
	auditLogs  repo.AuditLogRepository
}

func (r *txReposGorm) Customers() repo.CustomerRepository   { return r.customers }
func (r *txReposGorm) Addresses() repo.AddressRepository    { return r.addresses }
func (r *txReposGorm) Sellers() repo.SellerRepository       { return r.sellers }
func (r *txReposGorm) Products() repo.ProductRepository     { return r.products }
func (r *txReposGorm) Coupons() repo.CouponRepository       { return r.coupons }
func (r *txReposGorm) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposGorm) SubOrders() repo.SubOrderRepository   { return r.subOrders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposGorm) Inventory() repo.InventoryRepository  { return r.inventory }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		return fn(newTxRepos(tx))
	})
}

func newTxRepos(db *gorm.DB) *txReposGorm {
	return &txReposGorm{
		customers:  NewCustomerGormRepository(db),
		addresses:  NewAddressGormRepository(db),
		sellers:    NewSellerGormRepository(db),
		products:   NewProductGormRepository(db),
		coupons:    NewCouponGormRepository(db),
		orders:     NewOrderGormRepository(db),
		subOrders:  NewSubOrderGormRepository(db),
		orderItems: NewOrderItemGormRepository(db),
		inventory:  NewInventoryGormRepository(db),
		auditLogs:  NewAuditLogGormRepository(db),
	}
}
