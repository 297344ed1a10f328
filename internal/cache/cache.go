package cache

import (
	"fmt"

	"github.com/ivakhin/orderstore/internal/entities"

	lru "github.com/hashicorp/golang-lru/v2"
)

// OrderCache хранит последние запрошенные заказы по order_uid.
// Вместимость фиксируется при создании, вытеснение - LRU.
type OrderCache struct {
	lru *lru.Cache[string, entities.Order]
}

func New(capacity int) (*OrderCache, error) {
	c, err := lru.New[string, entities.Order](capacity)
	if err != nil {
		return nil, fmt.Errorf("invalid cache capacity %d: %w", capacity, err)
	}
	return &OrderCache{lru: c}, nil
}

// Get помечает запись как недавно использованную.
func (c *OrderCache) Get(orderUID string) (entities.Order, bool) {
	return c.lru.Get(orderUID)
}

func (c *OrderCache) Set(order entities.Order) {
	c.lru.Add(order.OrderUID, order)
}

func (c *OrderCache) Len() int {
	return c.lru.Len()
}
