package usecase_test

import (
	"context"
	"sort"
	"sync"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"
	repo "github.com/rs-labo46/ec-order-core/internal/repository"
)

// =====================
// in-memory store（WithinTxでerrorならスナップショットに戻す）
// =====================

type memStore struct {
	customers   map[int64]model.Customer
	addresses   map[int64]model.Address
	sellers     map[int64]model.Seller
	products    map[int64]model.Product
	variants    map[int64]model.ProductVariant
	coupons     map[int64]model.Coupon
	orders      map[int64]model.Order
	subOrders   map[int64]model.SubOrder
	items       map[int64]model.OrderItem
	adjustments []model.InventoryAdjustment
	audits      []model.AuditLog
	nextID      int64
}

func newMemStore() *memStore {
	return &memStore{
		customers: map[int64]model.Customer{},
		addresses: map[int64]model.Address{},
		sellers:   map[int64]model.Seller{},
		products:  map[int64]model.Product{},
		variants:  map[int64]model.ProductVariant{},
		coupons:   map[int64]model.Coupon{},
		orders:    map[int64]model.Order{},
		subOrders: map[int64]model.SubOrder{},
		items:     map[int64]model.OrderItem{},
		nextID:    1000,
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) clone() *memStore {
	return &memStore{
		customers:   copyMap(s.customers),
		addresses:   copyMap(s.addresses),
		sellers:     copyMap(s.sellers),
		products:    copyMap(s.products),
		variants:    copyMap(s.variants),
		coupons:     copyMap(s.coupons),
		orders:      copyMap(s.orders),
		subOrders:   copyMap(s.subOrders),
		items:       copyMap(s.items),
		adjustments: append([]model.InventoryAdjustment(nil), s.adjustments...),
		audits:      append([]model.AuditLog(nil), s.audits...),
		nextID:      s.nextID,
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

// memTxManager は repo.TransactionManager の in-memory 版
type memTxManager struct {
	mu    sync.Mutex
	store *memStore
	calls int
}

func (m *memTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	snapshot := m.store.clone()
	if err := fn(memRepos{s: m.store}); err != nil {
		*m.store = *snapshot
		return err
	}
	return nil
}

type memRepos struct{ s *memStore }

func (r memRepos) Customers() repo.CustomerRepository   { return memCustomers(r) }
func (r memRepos) Addresses() repo.AddressRepository    { return memAddresses(r) }
func (r memRepos) Sellers() repo.SellerRepository       { return memSellers(r) }
func (r memRepos) Products() repo.ProductRepository     { return memProducts(r) }
func (r memRepos) Coupons() repo.CouponRepository       { return memCoupons(r) }
func (r memRepos) Orders() repo.OrderRepository         { return memOrders(r) }
func (r memRepos) SubOrders() repo.SubOrderRepository   { return memSubOrders(r) }
func (r memRepos) OrderItems() repo.OrderItemRepository { return memOrderItems(r) }
func (r memRepos) Inventory() repo.InventoryRepository  { return memInventory(r) }
func (r memRepos) AuditLogs() repo.AuditLogRepository   { return memAuditLogs(r) }

type (
	memCustomers  memRepos
	memAddresses  memRepos
	memSellers    memRepos
	memProducts   memRepos
	memCoupons    memRepos
	memOrders     memRepos
	memSubOrders  memRepos
	memOrderItems memRepos
	memInventory  memRepos
	memAuditLogs  memRepos
)

func (r memCustomers) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok {
		return model.Customer{}, repo.ErrNotFound
	}
	return c, nil
}

func (r memCustomers) FindByUserID(ctx context.Context, userID int64) (model.Customer, error) {
	for _, c := range r.s.customers {
		if c.UserID == userID {
			return c, nil
		}
	}
	return model.Customer{}, repo.ErrNotFound
}

func (r memAddresses) IsOwnedByCustomer(ctx context.Context, addressID, customerID int64) (bool, error) {
	a, ok := r.s.addresses[addressID]
	return ok && a.CustomerID == customerID, nil
}

func (r memSellers) FindByID(ctx context.Context, id int64) (model.Seller, error) {
	s, ok := r.s.sellers[id]
	if !ok {
		return model.Seller{}, repo.ErrNotFound
	}
	return s, nil
}

func (r memProducts) FindByID(ctx context.Context, id int64) (model.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r memProducts) FindVariantByID(ctx context.Context, id int64) (model.ProductVariant, error) {
	v, ok := r.s.variants[id]
	if !ok {
		return model.ProductVariant{}, repo.ErrNotFound
	}
	return v, nil
}

func (r memCoupons) FindActiveByID(ctx context.Context, id int64) (model.Coupon, error) {
	c, ok := r.s.coupons[id]
	if !ok || !c.IsActive {
		return model.Coupon{}, repo.ErrNotFound
	}
	return c, nil
}

func (r memCoupons) IncrementUsage(ctx context.Context, id int64) (bool, error) {
	c, ok := r.s.coupons[id]
	if !ok {
		return false, nil
	}
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return false, nil
	}
	c.UsageCount++
	r.s.coupons[id] = c
	return true, nil
}

func (r memCoupons) DecrementUsage(ctx context.Context, id int64) error {
	c, ok := r.s.coupons[id]
	if ok && c.UsageCount > 0 {
		c.UsageCount--
		r.s.coupons[id] = c
	}
	return nil
}

func (r memOrders) Create(ctx context.Context, o model.Order) (model.Order, error) {
	if o.IdempotencyKey != nil {
		for _, ex := range r.s.orders {
			if ex.CustomerID == o.CustomerID && ex.IdempotencyKey != nil && *ex.IdempotencyKey == *o.IdempotencyKey {
				return model.Order{}, repo.ErrConflict
			}
		}
	}
	o.ID = r.s.id()
	o.SubOrders = nil
	r.s.orders[o.ID] = o
	return o, nil
}

func (r memOrders) FindByID(ctx context.Context, id int64) (model.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (r memOrders) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	var all []model.Order
	for _, o := range r.s.orders {
		if f.CustomerID != nil && o.CustomerID != *f.CustomerID {
			continue
		}
		if f.PaymentStatus != nil && o.PaymentStatus != *f.PaymentStatus {
			continue
		}
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return paginate(all, f.Page, f.Limit), int64(len(all)), nil
}

func (r memOrders) Update(ctx context.Context, o model.Order) error {
	if _, ok := r.s.orders[o.ID]; !ok {
		return repo.ErrNotFound
	}
	o.SubOrders = nil
	r.s.orders[o.ID] = o
	return nil
}

func (r memOrders) Delete(ctx context.Context, id int64) error {
	if _, ok := r.s.orders[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.orders, id)
	return nil
}

func (r memOrders) FindByIdempotencyKey(ctx context.Context, customerID int64, key string) (model.Order, bool, error) {
	for _, o := range r.s.orders {
		if o.CustomerID == customerID && o.IdempotencyKey != nil && *o.IdempotencyKey == key {
			return o, true, nil
		}
	}
	return model.Order{}, false, nil
}

func (r memSubOrders) Create(ctx context.Context, so model.SubOrder) (model.SubOrder, error) {
	so.ID = r.s.id()
	so.Items = nil
	r.s.subOrders[so.ID] = so
	return so, nil
}

func (r memSubOrders) FindByID(ctx context.Context, id int64) (model.SubOrder, error) {
	so, ok := r.s.subOrders[id]
	if !ok {
		return model.SubOrder{}, repo.ErrNotFound
	}
	return so, nil
}

func (r memSubOrders) ListByOrderID(ctx context.Context, orderID int64) ([]model.SubOrder, error) {
	out := []model.SubOrder{}
	for _, so := range r.s.subOrders {
		if so.OrderID == orderID {
			out = append(out, so)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memSubOrders) List(ctx context.Context, f repo.SubOrderListFilter) ([]model.SubOrder, int64, error) {
	var all []model.SubOrder
	for _, so := range r.s.subOrders {
		if f.SellerID != nil && so.SellerID != *f.SellerID {
			continue
		}
		if f.Status != nil && so.Status != *f.Status {
			continue
		}
		all = append(all, so)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return paginate(all, f.Page, f.Limit), int64(len(all)), nil
}

func (r memSubOrders) Update(ctx context.Context, so model.SubOrder) error {
	if _, ok := r.s.subOrders[so.ID]; !ok {
		return repo.ErrNotFound
	}
	so.Items = nil
	r.s.subOrders[so.ID] = so
	return nil
}

func (r memSubOrders) DeleteByOrderID(ctx context.Context, orderID int64) error {
	for id, so := range r.s.subOrders {
		if so.OrderID == orderID {
			delete(r.s.subOrders, id)
		}
	}
	return nil
}

func (r memOrderItems) CreateBulk(ctx context.Context, subOrderID int64, items []model.OrderItem) ([]model.OrderItem, error) {
	out := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		it.ID = r.s.id()
		it.SubOrderID = subOrderID
		r.s.items[it.ID] = it
		out = append(out, it)
	}
	return out, nil
}

func (r memOrderItems) ListBySubOrderIDs(ctx context.Context, ids []int64) ([]model.OrderItem, error) {
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := []model.OrderItem{}
	for _, it := range r.s.items {
		if want[it.SubOrderID] {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memOrderItems) DeleteBySubOrderIDs(ctx context.Context, ids []int64) error {
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	for id, it := range r.s.items {
		if want[it.SubOrderID] {
			delete(r.s.items, id)
		}
	}
	return nil
}

func (r memInventory) DecreaseStockIfEnough(ctx context.Context, productID, qty int64) (bool, error) {
	p, ok := r.s.products[productID]
	if !ok || p.StockQuantity < qty {
		return false, nil
	}
	p.StockQuantity -= qty
	r.s.products[productID] = p
	return true, nil
}

func (r memInventory) DecreaseVariantStockIfEnough(ctx context.Context, variantID, qty int64) (bool, error) {
	v, ok := r.s.variants[variantID]
	if !ok || v.StockQuantity < qty {
		return false, nil
	}
	v.StockQuantity -= qty
	r.s.variants[variantID] = v
	return true, nil
}

func (r memInventory) IncreaseStock(ctx context.Context, productID, qty int64) error {
	p, ok := r.s.products[productID]
	if !ok {
		return repo.ErrNotFound
	}
	p.StockQuantity += qty
	r.s.products[productID] = p
	return nil
}

func (r memInventory) IncreaseVariantStock(ctx context.Context, variantID, qty int64) error {
	v, ok := r.s.variants[variantID]
	if !ok {
		return repo.ErrNotFound
	}
	v.StockQuantity += qty
	r.s.variants[variantID] = v
	return nil
}

func (r memInventory) CreateAdjustment(ctx context.Context, a model.InventoryAdjustment) error {
	a.ID = r.s.id()
	r.s.adjustments = append(r.s.adjustments, a)
	return nil
}

func (r memAuditLogs) Create(ctx context.Context, l model.AuditLog) error {
	l.ID = r.s.id()
	r.s.audits = append(r.s.audits, l)
	return nil
}

func (r memAuditLogs) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	want := map[repo.AuditTarget]bool{}
	for _, t := range f.Targets {
		want[t] = true
	}
	out := []model.AuditLog{}
	for i := len(r.s.audits) - 1; i >= 0; i-- {
		l := r.s.audits[i]
		if want[repo.AuditTarget{Type: l.ResourceType, ID: l.ResourceID}] {
			out = append(out, l)
		}
	}
	return paginateOffset(out, f.Offset, f.Limit), nil
}

func paginate[T any](all []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(all) {
		return []T{}
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

func paginateOffset[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
