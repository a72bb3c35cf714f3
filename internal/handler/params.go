package handler

import (
	"strconv"

	"github.com/rs-labo46/ec-order-core/internal/middleware"

	"github.com/labstack/echo/v4"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

func getUserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// パスパラメータのIDを取り出す（1以上）
func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// page/limitは省略時 1/20。範囲チェックはusecase側
func parsePaging(c echo.Context) (page, limit int, msg string) {
	page = defaultPage
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, "invalid page"
		}
		page = p
	}

	limit = defaultLimit
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, "invalid limit"
		}
		limit = l
	}
	return page, limit, ""
}
