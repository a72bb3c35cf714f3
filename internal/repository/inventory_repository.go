package repository

import (
	"context"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
)

type InventoryRepository interface {
	// 在庫が足りるときだけ減算（1回のUPDATEで判定と更新を行う）
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)
	DecreaseVariantStockIfEnough(ctx context.Context, variantID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセル）
	IncreaseStock(ctx context.Context, productID int64, qty int64) error
	IncreaseVariantStock(ctx context.Context, variantID int64, qty int64) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
