package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	repo "github.com/rs-labo46/ec-order-core/internal/repository"

	"go.uber.org/zap"
)

type OrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type SubOrderListOutput struct {
	Items []model.SubOrder `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// GetOrder は子注文・明細込みで返す。キャッシュがあればそれを使う。
func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, model.Invalid("invalid id")
	}

	if cached, ok, err := u.cache.GetOrder(ctx, orderID); err != nil {
		u.log.Warn("order cache get failed", zap.Int64("order_id", orderID), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return lookupError(err, "order", orderID)
		}
		out, err = loadOrderAggregate(ctx, r, o)
		return err
	})
	if err != nil {
		return model.Order{}, err
	}

	if err := u.cache.SetOrder(ctx, out); err != nil {
		u.log.Warn("order cache set failed", zap.Int64("order_id", orderID), zap.Error(err))
	}
	return out, nil
}

// 顧客本人の注文だけ。他人の注文は存在しない扱い
func (u *OrderUsecase) GetCustomerOrder(ctx context.Context, customerID, orderID int64) (model.Order, error) {
	o, err := u.GetOrder(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if o.CustomerID != customerID {
		return model.Order{}, model.NotFound("order")
	}
	return o, nil
}

func (u *OrderUsecase) ListOrders(ctx context.Context, page, limit int) (OrderListOutput, error) {
	return u.listOrders(ctx, repo.OrderListFilter{Page: page, Limit: limit})
}

func (u *OrderUsecase) ListCustomerOrders(ctx context.Context, customerID int64, page, limit int) (OrderListOutput, error) {
	if customerID <= 0 {
		return OrderListOutput{}, model.Invalid("invalid customer_id")
	}
	return u.listOrders(ctx, repo.OrderListFilter{Page: page, Limit: limit, CustomerID: &customerID})
}

func (u *OrderUsecase) ListOrdersByPaymentStatus(ctx context.Context, status string, page, limit int) (OrderListOutput, error) {
	st, err := model.ParsePaymentStatus(strings.TrimSpace(status))
	if err != nil {
		return OrderListOutput{}, err
	}
	return u.listOrders(ctx, repo.OrderListFilter{Page: page, Limit: limit, PaymentStatus: &st})
}

func (u *OrderUsecase) listOrders(ctx context.Context, f repo.OrderListFilter) (OrderListOutput, error) {
	if err := validatePaging(f.Page, f.Limit); err != nil {
		return OrderListOutput{}, err
	}

	out := OrderListOutput{Items: []model.Order{}, Page: f.Page, Limit: f.Limit}
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().List(ctx, f)
		if err != nil {
			return dbError(err)
		}
		out.Total = total
		for _, o := range orders {
			full, err := loadOrderAggregate(ctx, r, o)
			if err != nil {
				return err
			}
			out.Items = append(out.Items, full)
		}
		return nil
	})
	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) GetSubOrder(ctx context.Context, subOrderID int64) (model.SubOrder, error) {
	if subOrderID <= 0 {
		return model.SubOrder{}, model.Invalid("invalid id")
	}

	var out model.SubOrder
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		so, err := r.SubOrders().FindByID(ctx, subOrderID)
		if err != nil {
			return lookupError(err, "sub order", subOrderID)
		}
		withItems, err := attachItems(ctx, r, []model.SubOrder{so})
		if err != nil {
			return err
		}
		out = withItems[0]
		return nil
	})
	if err != nil {
		return model.SubOrder{}, err
	}
	return out, nil
}

func (u *OrderUsecase) ListSellerSubOrders(ctx context.Context, sellerID int64, page, limit int) (SubOrderListOutput, error) {
	if sellerID <= 0 {
		return SubOrderListOutput{}, model.Invalid("invalid seller_id")
	}
	return u.listSubOrders(ctx, repo.SubOrderListFilter{Page: page, Limit: limit, SellerID: &sellerID})
}

func (u *OrderUsecase) ListSubOrdersByStatus(ctx context.Context, status string, page, limit int) (SubOrderListOutput, error) {
	st, err := model.ParseSubOrderStatus(strings.TrimSpace(status))
	if err != nil {
		return SubOrderListOutput{}, err
	}
	return u.listSubOrders(ctx, repo.SubOrderListFilter{Page: page, Limit: limit, Status: &st})
}

func (u *OrderUsecase) listSubOrders(ctx context.Context, f repo.SubOrderListFilter) (SubOrderListOutput, error) {
	if err := validatePaging(f.Page, f.Limit); err != nil {
		return SubOrderListOutput{}, err
	}

	out := SubOrderListOutput{Items: []model.SubOrder{}, Page: f.Page, Limit: f.Limit}
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		subs, total, err := r.SubOrders().List(ctx, f)
		if err != nil {
			return dbError(err)
		}
		out.Total = total
		withItems, err := attachItems(ctx, r, subs)
		if err != nil {
			return err
		}
		out.Items = withItems
		return nil
	})
	if err != nil {
		return SubOrderListOutput{}, err
	}
	return out, nil
}

// ListOrderAuditLogs は注文とその子注文に対する操作履歴（新しい順）。
// 削除済みの注文でも注文自体のログは返る。
func (u *OrderUsecase) ListOrderAuditLogs(ctx context.Context, orderID int64, limit, offset int) ([]model.AuditLog, error) {
	if orderID <= 0 {
		return nil, model.Invalid("invalid id")
	}
	if limit < 1 || limit > 100 {
		return nil, model.Invalid("invalid limit")
	}
	if offset < 0 {
		return nil, model.Invalid("invalid offset")
	}

	var out []model.AuditLog
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		subs, err := r.SubOrders().ListByOrderID(ctx, orderID)
		if err != nil {
			return dbError(err)
		}
		targets := []repo.AuditTarget{{Type: model.AuditResourceOrder, ID: orderID}}
		for _, so := range subs {
			targets = append(targets, repo.AuditTarget{Type: model.AuditResourceSubOrder, ID: so.ID})
		}

		logs, err := r.AuditLogs().List(ctx, repo.AuditLogFilter{
			Targets: targets,
			Limit:   limit,
			Offset:  offset,
		})
		if err != nil {
			return dbError(err)
		}
		out = logs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveCustomerID はログインユーザーに紐づく顧客IDを返す
func (u *OrderUsecase) ResolveCustomerID(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, model.NewError(model.KindForbidden, "forbidden")
	}
	var id int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Customers().FindByUserID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return model.NewError(model.KindForbidden, "customer account required")
		}
		if err != nil {
			return dbError(err)
		}
		id = c.ID
		return nil
	})
	return id, err
}
