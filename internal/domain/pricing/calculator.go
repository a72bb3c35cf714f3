package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	repo "github.com/rs-labo46/ec-order-core/internal/repository"
	"github.com/shopspring/decimal"
)

// 計算に必要な商品の読み取りだけ
type CatalogSource interface {
	FindByID(ctx context.Context, productID int64) (model.Product, error)
	FindVariantByID(ctx context.Context, variantID int64) (model.ProductVariant, error)
}

type LineRequest struct {
	ProductID int64
	VariantID *int64
	Quantity  int64
}

type PricedLine struct {
	Line      Priceable
	Quantity  int64
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// Calculator は明細ごとの単価・合計を出す。在庫は読むだけで減らさない。
type Calculator struct {
	catalog CatalogSource
}

func NewCalculator(catalog CatalogSource) *Calculator {
	return &Calculator{catalog: catalog}
}

// Resolve は明細を ProductLine / VariantLine のどちらかにする。
func (c *Calculator) Resolve(ctx context.Context, req LineRequest) (Priceable, error) {
	p, err := c.catalog.FindByID(ctx, req.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, model.NotFound(fmt.Sprintf("product %d", req.ProductID))
	}
	if err != nil {
		return nil, model.WrapError(model.KindInternal, "db error", err)
	}
	if !p.IsAvailable {
		return nil, model.NotFound(fmt.Sprintf("product %d", req.ProductID))
	}

	if req.VariantID == nil {
		return ProductLine{Product: p}, nil
	}

	v, err := c.catalog.FindVariantByID(ctx, *req.VariantID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, model.NotFound(fmt.Sprintf("variant %d", *req.VariantID))
	}
	if err != nil {
		return nil, model.WrapError(model.KindInternal, "db error", err)
	}
	//別商品のバリエーション、販売停止は存在しない扱い
	if v.ProductID != p.ID || !v.IsAvailable {
		return nil, model.NotFound(fmt.Sprintf("variant %d", *req.VariantID))
	}
	return VariantLine{Product: p, Variant: v}, nil
}

// PriceLine は1明細の単価と合計を返す。
func (c *Calculator) PriceLine(ctx context.Context, req LineRequest) (PricedLine, error) {
	if req.Quantity <= 0 {
		return PricedLine{}, model.Invalid("quantity must be > 0")
	}

	line, err := c.Resolve(ctx, req)
	if err != nil {
		return PricedLine{}, err
	}

	if req.Quantity > line.AvailableStock() {
		return PricedLine{}, model.NewError(model.KindInsufficientStock,
			fmt.Sprintf("insufficient stock for product %d", req.ProductID))
	}

	if line.BasePrice().IsNegative() {
		return PricedLine{}, model.Invalid(fmt.Sprintf("invalid price for product %d", req.ProductID))
	}
	unit := UnitPrice(line)
	if !unit.IsPositive() {
		return PricedLine{}, model.Invalid(fmt.Sprintf("price for product %d must be > 0", req.ProductID))
	}

	return PricedLine{
		Line:      line,
		Quantity:  req.Quantity,
		UnitPrice: unit,
		Total:     unit.Mul(decimal.NewFromInt(req.Quantity)),
	}, nil
}
