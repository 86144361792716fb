package cart

import (
	"sync"

	"kobetex/models"
	"kobetex/utils"
)

// IDGen produces line ids; injectable so tests get stable values.
type IDGen func() string

// Cart is the ephemeral list of priced lines pending checkout. No
// quantity merging: adding the same item twice produces two lines.
type Cart struct {
	mu    sync.Mutex
	items []models.CartItem
	newID IDGen
}

func New() *Cart {
	return &Cart{newID: utils.GetUUID}
}

func NewWithIDGen(gen IDGen) *Cart {
	return &Cart{newID: gen}
}

// Add assigns a fresh id and appends the line.
func (c *Cart) Add(item models.CartItem) models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	item.ID = c.newID()
	c.items = append(c.items, item)
	return item
}

// Remove filters out the line by id; unknown ids are a no-op.
func (c *Cart) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	for _, it := range c.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	c.items = kept
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a snapshot of the current lines.
func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total is recomputed on every read, never cached.
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for _, it := range c.items {
		total += it.Price
	}
	return total
}

// Registry holds one cart per user for the life of the process.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*Cart)}
}

// For returns the user's cart, creating it on first use.
func (r *Registry) For(userID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		c = New()
		r.carts[userID] = c
	}
	return c
}
