package cache

import (
	"fmt"
	"testing"

	"github.com/ivakhin/orderstore/internal/entities"
)

func order(uid string) entities.Order {
	return entities.Order{OrderUID: uid, CustomerID: "customer-" + uid}
}

func TestOrderCache(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		actions  func(c *OrderCache, t *testing.T)
	}{
		{
			name:     "set and get",
			capacity: 2,
			actions: func(c *OrderCache, t *testing.T) {
				c.Set(order("a"))
				got, ok := c.Get("a")
				if !ok || got.CustomerID != "customer-a" {
					t.Errorf("expected customer-a, got=%v, ok=%v", got.CustomerID, ok)
				}
			},
		},
		{
			name:     "evict oldest when over capacity",
			capacity: 2,
			actions: func(c *OrderCache, t *testing.T) {
				c.Set(order("a"))
				c.Set(order("b"))
				c.Set(order("c"))
				if _, ok := c.Get("a"); ok {
					t.Errorf("expected key 'a' to be evicted")
				}
				if _, ok := c.Get("b"); !ok {
					t.Errorf("expected key 'b' to survive")
				}
				if _, ok := c.Get("c"); !ok {
					t.Errorf("expected key 'c' to survive")
				}
				if c.Len() != 2 {
					t.Errorf("expected len 2, got %d", c.Len())
				}
			},
		},
		{
			name:     "get protects entry from eviction",
			capacity: 2,
			actions: func(c *OrderCache, t *testing.T) {
				c.Set(order("a"))
				c.Set(order("b"))
				c.Get("a") // теперь самый старый - "b"
				c.Set(order("c"))
				if _, ok := c.Get("a"); !ok {
					t.Errorf("expected touched key 'a' to survive")
				}
				if _, ok := c.Get("b"); ok {
					t.Errorf("expected key 'b' to be evicted")
				}
			},
		},
		{
			name:     "overwrite keeps single entry",
			capacity: 2,
			actions: func(c *OrderCache, t *testing.T) {
				c.Set(order("a"))
				updated := order("a")
				updated.TrackNumber = "TRACK1"
				c.Set(updated)
				if c.Len() != 1 {
					t.Errorf("expected len 1, got %d", c.Len())
				}
				got, _ := c.Get("a")
				if got.TrackNumber != "TRACK1" {
					t.Errorf("expected overwritten value, got %q", got.TrackNumber)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.capacity)
			if err != nil {
				t.Fatalf("unexpected error constructing cache: %v", err)
			}
			tt.actions(c, t)
		})
	}
}

func TestOrderCache_InvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		t.Run(fmt.Sprintf("capacity=%d", capacity), func(t *testing.T) {
			if _, err := New(capacity); err == nil {
				t.Errorf("expected error for capacity %d", capacity)
			}
		})
	}
}
