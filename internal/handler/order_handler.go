package handler

import (
	"context"
	"net/http"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	"github.com/rs-labo46/ec-order-core/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 顧客向け /orders が使う操作
type CustomerOrderService interface {
	ResolveCustomerID(ctx context.Context, userID int64) (int64, error)
	CreateOrder(ctx context.Context, in usecase.CreateOrderInput) (model.Order, error)
	ListCustomerOrders(ctx context.Context, customerID int64, page, limit int) (usecase.OrderListOutput, error)
	GetCustomerOrder(ctx context.Context, customerID, orderID int64) (model.Order, error)
	CancelOrder(ctx context.Context, actorUserID, orderID int64) (model.Order, error)
}

type OrderHandler struct {
	uc CustomerOrderService
}

func NewOrderHandler(uc CustomerOrderService) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type OrderItemRequest struct {
	ProductID int64  `json:"product_id"`
	VariantID *int64 `json:"variant_id"`
	Quantity  int64  `json:"quantity"`
}

type SubOrderRequest struct {
	SellerID int64              `json:"seller_id"`
	Items    []OrderItemRequest `json:"items"`
}

type OrderCreateRequest struct {
	AddressID     int64             `json:"address_id"`
	CouponID      *int64            `json:"coupon_id"`
	PaymentMethod string            `json:"payment_method"`
	AffiliateID   *int64            `json:"affiliate_id"`
	AffiliateCode *string           `json:"affiliate_code"`
	SubOrders     []SubOrderRequest `json:"sub_orders"`
}

func (r OrderCreateRequest) toInput(customerID int64, idemKey string) usecase.CreateOrderInput {
	in := usecase.CreateOrderInput{
		CustomerID:     customerID,
		AddressID:      r.AddressID,
		CouponID:       r.CouponID,
		PaymentMethod:  r.PaymentMethod,
		AffiliateID:    r.AffiliateID,
		AffiliateCode:  r.AffiliateCode,
		IdempotencyKey: idemKey,
		SubOrders:      make([]usecase.SubOrderInput, 0, len(r.SubOrders)),
	}
	for _, so := range r.SubOrders {
		items := make([]usecase.OrderItemInput, 0, len(so.Items))
		for _, it := range so.Items {
			items = append(items, usecase.OrderItemInput{
				ProductID: it.ProductID,
				VariantID: it.VariantID,
				Quantity:  it.Quantity,
			})
		}
		in.SubOrders = append(in.SubOrders, usecase.SubOrderInput{SellerID: so.SellerID, Items: items})
	}
	return in
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	g := e.Group("/orders")
	g.Use(auth)

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.POST("/:id/cancel", h.cancel)
}

// ログインユーザー → 顧客ID
func (h *OrderHandler) customerID(c echo.Context) (int64, error) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return 0, nil
	}
	return h.uc.ResolveCustomerID(c.Request().Context(), userID)
}

func (h *OrderHandler) create(c echo.Context) error {
	customerID, err := h.customerID(c)
	if err != nil {
		return writeError(c, err)
	}
	if customerID == 0 {
		return unauthorized(c)
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	//二重送信防止キーはヘッダーから受け取る（bodyには入れない）
	idemKey := c.Request().Header.Get("X-Idempotency-Key")

	out, err := h.uc.CreateOrder(c.Request().Context(), req.toInput(customerID, idemKey))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	customerID, err := h.customerID(c)
	if err != nil {
		return writeError(c, err)
	}
	if customerID == 0 {
		return unauthorized(c)
	}

	page, limit, msg := parsePaging(c)
	if msg != "" {
		return badRequest(c, msg)
	}

	out, err := h.uc.ListCustomerOrders(c.Request().Context(), customerID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	customerID, err := h.customerID(c)
	if err != nil {
		return writeError(c, err)
	}
	if customerID == 0 {
		return unauthorized(c)
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.GetCustomerOrder(c.Request().Context(), customerID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 本人の注文のみキャンセル可
func (h *OrderHandler) cancel(c echo.Context) error {
	customerID, err := h.customerID(c)
	if err != nil {
		return writeError(c, err)
	}
	if customerID == 0 {
		return unauthorized(c)
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	ctx := c.Request().Context()
	if _, err := h.uc.GetCustomerOrder(ctx, customerID, id); err != nil {
		return writeError(c, err)
	}

	userID, _ := getUserIDFromContext(c)
	out, err := h.uc.CancelOrder(ctx, userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
