package repository

import (
	"context"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	repo "github.com/rs-labo46/ec-order-core/internal/repository"

	"gorm.io/gorm"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

func (r *auditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

func (r *auditLogGormRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	logs := []model.AuditLog{}
	if len(filter.Targets) == 0 {
		return logs, nil
	}

	//(type, id) の組をORでまとめる
	targets := r.db.Where("resource_type = ? AND resource_id = ?", filter.Targets[0].Type, filter.Targets[0].ID)
	for _, t := range filter.Targets[1:] {
		targets = targets.Or("resource_type = ? AND resource_id = ?", t.Type, t.ID)
	}

	err := r.db.WithContext(ctx).
		Where(targets).
		Order("id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
