package usecase

import (
	"errors"
	"fmt"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	repo "github.com/rs-labo46/ec-order-core/internal/repository"
)

// DB由来のエラーは中身を出さずに INTERNAL にまとめる
func dbError(err error) error {
	return model.WrapError(model.KindInternal, "db error", err)
}

// ErrNotFound なら「<what> <id> not found」、それ以外は db error
func lookupError(err error, what string, id int64) error {
	if errors.Is(err, repo.ErrNotFound) {
		return model.NotFound(fmt.Sprintf("%s %d", what, id))
	}
	return dbError(err)
}

// page/limitの最低限チェック
func validatePaging(page, limit int) error {
	if page < 1 {
		return model.Invalid("invalid page")
	}
	if limit < 1 || limit > 100 {
		return model.Invalid("invalid limit")
	}
	return nil
}
