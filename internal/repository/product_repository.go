package repository

import (
	"context"
	"errors"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")
	// 一意制約違反（同じ冪等キーの同時登録など）
	ErrConflict = errors.New("conflict")
)

// 商品・バリエーションの読み取り（注文処理からは読み取り専用）
type ProductRepository interface {
	FindByID(ctx context.Context, productID int64) (model.Product, error)
	FindVariantByID(ctx context.Context, variantID int64) (model.ProductVariant, error)
}

// 販売者の取得
type SellerRepository interface {
	FindByID(ctx context.Context, sellerID int64) (model.Seller, error)
}

type CustomerRepository interface {
	FindByID(ctx context.Context, customerID int64) (model.Customer, error)
	FindByUserID(ctx context.Context, userID int64) (model.Customer, error)
}

type CouponRepository interface {
	//is_active=trueのものだけ
	FindActiveByID(ctx context.Context, couponID int64) (model.Coupon, error)
	// 上限に達していなければ使用回数を+1（足りないならfalse）
	IncrementUsage(ctx context.Context, couponID int64) (bool, error)
	// キャンセル・付け替えで使用回数を戻す（0未満にはしない）
	DecrementUsage(ctx context.Context, couponID int64) error
}
