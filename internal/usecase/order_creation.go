package usecase

import (
	"errors"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"

	"go.uber.org/zap"
)

// 注文作成の段階
// Validating → Pricing → Persisting → InventoryUpdate → Committed
// どこで失敗してもFailed（トランザクションはrollback済み）
type CreationStage string

const (
	StageValidating      CreationStage = "validating"
	StagePricing         CreationStage = "pricing"
	StagePersisting      CreationStage = "persisting"
	StageInventoryUpdate CreationStage = "inventory_update"
	StageCommitted       CreationStage = "committed"
	StageFailed          CreationStage = "failed"
)

// 1回の注文作成の進行を持つ
type orderCreation struct {
	stage CreationStage
	log   *zap.Logger
}

func (u *OrderUsecase) newCreation(customerID int64) *orderCreation {
	return &orderCreation{log: u.log.With(zap.Int64("customer_id", customerID))}
}

func (c *orderCreation) enter(s CreationStage) {
	c.stage = s
	c.log.Debug("order creation stage", zap.String("stage", string(s)))
}

// 冪等キーで既存注文を返したとき
func (c *orderCreation) replayed(orderID int64) {
	c.log.Info("order creation replayed", zap.Int64("order_id", orderID))
}

// 失敗した段階を残してエラーをそのまま返す
func (c *orderCreation) fail(err error) error {
	failedAt := c.stage
	c.stage = StageFailed

	fields := []zap.Field{
		zap.String("stage", string(failedAt)),
		zap.String("kind", string(model.KindOf(err))),
		zap.Error(err),
	}
	if model.KindOf(err) == model.KindInternal {
		c.log.Error("order creation failed", fields...)
	} else {
		c.log.Info("order creation rejected", fields...)
	}
	return &CreationError{Stage: failedAt, Err: err}
}

// CreationError は失敗した段階を持つ。errors.Is / As は中のDomainErrorに届く。
type CreationError struct {
	Stage CreationStage
	Err   error
}

func (e *CreationError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// FailedStage はCreateOrderのエラーから失敗段階を取り出す
func FailedStage(err error) (CreationStage, bool) {
	var ce *CreationError
	if !errors.As(err, &ce) {
		return "", false
	}
	return ce.Stage, true
}
