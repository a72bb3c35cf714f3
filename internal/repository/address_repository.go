package repository

import "context"

// 配送先住所の所有確認
type AddressRepository interface {
	IsOwnedByCustomer(ctx context.Context, addressID, customerID int64) (bool, error)
}
