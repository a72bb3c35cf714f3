package repository

import (
	"context"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
)

// 監査ログの対象（注文 or 子注文）
type AuditTarget struct {
	Type model.AuditResourceType
	ID   int64
}

// Targetsのどれかに一致するログを新しい順で返す
type AuditLogFilter struct {
	Targets []AuditTarget
	Limit   int
	Offset  int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error

	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
