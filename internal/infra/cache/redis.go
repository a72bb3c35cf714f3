package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs-labo46/ec-order-core/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// RedisOrderCache は注文詳細（子注文・明細込み）をJSONで持つ。
type RedisOrderCache struct {
	client      *redis.Client
	serviceName string
	ttl         time.Duration
}

func NewRedisOrderCache(client *redis.Client, serviceName string, ttl time.Duration) *RedisOrderCache {
	return &RedisOrderCache{client: client, serviceName: serviceName, ttl: ttl}
}

func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// 見つからなければ (zero, false, nil)
func (c *RedisOrderCache) GetOrder(ctx context.Context, orderID int64) (model.Order, bool, error) {
	raw, err := c.client.Get(ctx, c.OrderKey(orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Order{}, false, nil
	}
	if err != nil {
		return model.Order{}, false, err
	}

	var o model.Order
	if err := json.Unmarshal(raw, &o); err != nil {
		//壊れたエントリは捨てる
		_ = c.client.Del(ctx, c.OrderKey(orderID)).Err()
		return model.Order{}, false, nil
	}
	return o, true, nil
}

func (c *RedisOrderCache) SetOrder(ctx context.Context, order model.Order) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.OrderKey(order.ID), raw, c.ttl).Err()
}

func (c *RedisOrderCache) InvalidateOrder(ctx context.Context, orderID int64) error {
	return c.client.Del(ctx, c.OrderKey(orderID)).Err()
}

func (c *RedisOrderCache) OrderKey(orderID int64) string {
	return c.GenerateKey("order", strconv.FormatInt(orderID, 10))
}

func (c *RedisOrderCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", c.serviceName, operation, key)
}
