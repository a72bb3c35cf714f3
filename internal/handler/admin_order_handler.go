package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	"github.com/rs-labo46/ec-order-core/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// 管理者向け /admin が使う操作
type AdminOrderService interface {
	GetOrder(ctx context.Context, orderID int64) (model.Order, error)
	ListOrders(ctx context.Context, page, limit int) (usecase.OrderListOutput, error)
	ListCustomerOrders(ctx context.Context, customerID int64, page, limit int) (usecase.OrderListOutput, error)
	ListOrdersByPaymentStatus(ctx context.Context, status string, page, limit int) (usecase.OrderListOutput, error)
	UpdateOrder(ctx context.Context, actorUserID, orderID int64, in usecase.UpdateOrderInput) (model.Order, error)
	UpdatePaymentStatus(ctx context.Context, actorUserID, orderID int64, status string) (model.Order, error)
	CancelOrder(ctx context.Context, actorUserID, orderID int64) (model.Order, error)
	DeleteOrder(ctx context.Context, actorUserID, orderID int64) error
	ListOrderAuditLogs(ctx context.Context, orderID int64, limit, offset int) ([]model.AuditLog, error)

	GetSubOrder(ctx context.Context, subOrderID int64) (model.SubOrder, error)
	ListSellerSubOrders(ctx context.Context, sellerID int64, page, limit int) (usecase.SubOrderListOutput, error)
	ListSubOrdersByStatus(ctx context.Context, status string, page, limit int) (usecase.SubOrderListOutput, error)
	UpdateSubOrderStatus(ctx context.Context, actorUserID, subOrderID int64, in usecase.UpdateSubOrderInput) (model.SubOrder, error)
}

type AdminOrderHandler struct {
	uc AdminOrderService
}

func NewAdminOrderHandler(uc AdminOrderService) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

// 金額は "12.50" でも 12.5 でも受け付ける
type OrderUpdateRequest struct {
	CouponID       *int64           `json:"coupon_id"`
	DiscountAmount *decimal.Decimal `json:"discount_amount"`
	ShippingFee    *decimal.Decimal `json:"shipping_fee"`
	TaxAmount      *decimal.Decimal `json:"tax_amount"`
	FinalAmount    *decimal.Decimal `json:"final_amount"`
	PaymentStatus  *string          `json:"payment_status"`
}

type PaymentStatusUpdateRequest struct {
	Status string `json:"status"`
}

type SubOrderUpdateRequest struct {
	Status           *string `json:"status"`
	TrackingNumber   *string `json:"tracking_number"`
	ShippingProvider *string `json:"shipping_provider"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, auth, guard echo.MiddlewareFunc) {
	admin := e.Group("/admin")
	admin.Use(auth)
	admin.Use(guard)

	admin.GET("/orders", h.list)
	admin.GET("/orders/:id", h.detail)
	admin.PATCH("/orders/:id", h.update)
	admin.PUT("/orders/:id/payment-status", h.updatePaymentStatus)
	admin.POST("/orders/:id/cancel", h.cancel)
	admin.DELETE("/orders/:id", h.delete)
	admin.GET("/orders/:id/audit-logs", h.auditLogs)

	admin.GET("/sub-orders", h.listSubOrders)
	admin.GET("/sub-orders/:id", h.subOrderDetail)
	admin.PATCH("/sub-orders/:id", h.updateSubOrder)
	admin.GET("/sellers/:id/sub-orders", h.listSellerSubOrders)
}

// payment_status / customer_id があれば絞り込み
func (h *AdminOrderHandler) list(c echo.Context) error {
	page, limit, msg := parsePaging(c)
	if msg != "" {
		return badRequest(c, msg)
	}
	ctx := c.Request().Context()

	var (
		out usecase.OrderListOutput
		err error
	)
	switch {
	case c.QueryParam("payment_status") != "":
		out, err = h.uc.ListOrdersByPaymentStatus(ctx, c.QueryParam("payment_status"), page, limit)
	case c.QueryParam("customer_id") != "":
		customerID, perr := strconv.ParseInt(c.QueryParam("customer_id"), 10, 64)
		if perr != nil {
			return badRequest(c, "invalid customer_id")
		}
		out, err = h.uc.ListCustomerOrders(ctx, customerID, page, limit)
	default:
		out, err = h.uc.ListOrders(ctx, page, limit)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.uc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) update(c echo.Context) error {
	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req OrderUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateOrder(c.Request().Context(), actorID, id, usecase.UpdateOrderInput{
		CouponID:       req.CouponID,
		DiscountAmount: req.DiscountAmount,
		ShippingFee:    req.ShippingFee,
		TaxAmount:      req.TaxAmount,
		FinalAmount:    req.FinalAmount,
		PaymentStatus:  req.PaymentStatus,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updatePaymentStatus(c echo.Context) error {
	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req PaymentStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdatePaymentStatus(c.Request().Context(), actorID, id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) cancel(c echo.Context) error {
	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.CancelOrder(c.Request().Context(), actorID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) delete(c echo.Context) error {
	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	if err := h.uc.DeleteOrder(c.Request().Context(), actorID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminOrderHandler) auditLogs(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid limit")
		}
		limit = l
	}
	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid offset")
		}
		offset = o
	}

	out, err := h.uc.ListOrderAuditLogs(c.Request().Context(), id, limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// status 指定で絞り込み（必須）
func (h *AdminOrderHandler) listSubOrders(c echo.Context) error {
	page, limit, msg := parsePaging(c)
	if msg != "" {
		return badRequest(c, msg)
	}
	status := c.QueryParam("status")
	if status == "" {
		return badRequest(c, "status is required")
	}

	out, err := h.uc.ListSubOrdersByStatus(c.Request().Context(), status, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) subOrderDetail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.uc.GetSubOrder(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateSubOrder(c echo.Context) error {
	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req SubOrderUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateSubOrderStatus(c.Request().Context(), actorID, id, usecase.UpdateSubOrderInput{
		Status:           req.Status,
		TrackingNumber:   req.TrackingNumber,
		ShippingProvider: req.ShippingProvider,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) listSellerSubOrders(c echo.Context) error {
	sellerID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	page, limit, msg := parsePaging(c)
	if msg != "" {
		return badRequest(c, msg)
	}

	out, err := h.uc.ListSellerSubOrders(c.Request().Context(), sellerID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
