package handler

import (
	"net/http"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	"github.com/rs-labo46/ec-order-core/internal/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// エラーの種類 → HTTPステータス
var kindStatus = map[model.ErrorKind]int{
	model.KindNotFound:              http.StatusNotFound,
	model.KindInsufficientStock:     http.StatusConflict,
	model.KindCouponNotYetValid:     http.StatusUnprocessableEntity,
	model.KindCouponExpired:         http.StatusUnprocessableEntity,
	model.KindMinimumPurchaseNotMet: http.StatusUnprocessableEntity,
	model.KindValidationFailed:      http.StatusUnprocessableEntity,
	model.KindInvalidStatus:         http.StatusBadRequest,
	model.KindForbidden:             http.StatusForbidden,
}

// StatusOf はエラーに対応するHTTPステータス（不明なら500）
func StatusOf(err error) int {
	if st, ok := kindStatus[model.KindOf(err)]; ok {
		return st
	}
	return http.StatusInternalServerError
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	de, ok := model.AsDomainError(err)
	if !ok || de.Kind == model.KindInternal {
		//500は中身を返さずログにだけ出す
		middleware.LoggerFrom(c).Error("request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "internal error",
			Code:  string(model.KindInternal),
		})
	}
	return c.JSON(StatusOf(err), ErrorResponse{Error: de.Message, Code: string(de.Kind)})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: string(model.KindValidationFailed)})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
}
