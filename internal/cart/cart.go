// Package cart is the device-local wish list: a set of property references
// persisted through an injected key-value store, so it tests without any
// browser runtime.
package cart

import (
	"encoding/json"
	"sync"

	"github.com/realtyflow/api/internal/domain/property"
)

// storageKey matches the key the web build always used, so an exported
// cart file stays readable across versions.
const storageKey = "realtyflow_cart_v1"

// Store is the persistence port: a localStorage-shaped key-value surface.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, val []byte) error
}

type Item struct {
	Property property.Property `json:"property"`
}

type Cart struct {
	mu    sync.Mutex
	store Store
	items []Item
}

// New rehydrates from the store; a missing key, a read error or corrupt
// JSON all fall back to an empty cart.
func New(store Store) *Cart {
	c := &Cart{store: store}

	raw, ok, err := store.Get(storageKey)

	if err != nil || !ok {
		return c
	}

	var items []Item

	if err := json.Unmarshal(raw, &items); err != nil {
		return c
	}

	c.items = items

	return c
}

// Add is idempotent by property id; re-adding a listing is a no-op.
func (c *Cart) Add(p property.Property) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, it := range c.items {
		if it.Property.ID == p.ID {
			return nil
		}
	}

	c.items = append(c.items, Item{Property: p})

	return c.persist()
}

func (c *Cart) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]

	for _, it := range c.items {
		if it.Property.ID != id {
			kept = append(kept, it)
		}
	}

	c.items = kept

	return c.persist()
}

func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil

	return c.persist()
}

func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Item, len(c.items))
	copy(out, c.items)

	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

func (c *Cart) persist() error {
	raw, err := json.Marshal(c.items)

	if err != nil {
		return err
	}

	return c.store.Set(storageKey, raw)
}
