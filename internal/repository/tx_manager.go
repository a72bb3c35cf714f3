package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Customers() CustomerRepository
	Addresses() AddressRepository
	Sellers() SellerRepository
	Products() ProductRepository
	Coupons() CouponRepository
	Orders() OrderRepository
	SubOrders() SubOrderRepository
	OrderItems() OrderItemRepository
	Inventory() InventoryRepository
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがerrorを返したら全てrollbackされる。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
