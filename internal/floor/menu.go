package floor

import (
	"strings"
	"sync"
	"time"
)

// MenuItem is a sellable item. The ID is a stable slug derived from the name
// at creation time; name and price stay mutable afterwards. Orders reference
// items by ID, and revenue is always priced at the current catalog value, so
// editing a price re-prices open tables but never rewrites realized stats.
type MenuItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     int       `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *MenuItem) ResourceType() string {
	return "menu-item"
}

// MenuID derives the catalog slug for a display name: lowercased, spaces
// collapsed to hyphens.
func MenuID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "-")
}

// Catalog is the in-memory registry of sellable items. It keeps insertion
// order for listings and an id index for order pricing.
type Catalog struct {
	mu    sync.RWMutex
	order []string
	items map[string]*MenuItem
}

func NewCatalog() *Catalog {
	return &Catalog{
		items: make(map[string]*MenuItem),
	}
}

// Add registers a new item under the slug of its name. The name must be
// non-empty and the price positive; a duplicate slug is rejected.
func (c *Catalog) Add(name string, price int) (*MenuItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errValidation("name is required")
	}
	if price <= 0 {
		return nil, errValidation("price must be greater than 0")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := MenuID(name)
	if _, exists := c.items[id]; exists {
		return nil, ErrMenuItemExists
	}

	now := time.Now()
	item := &MenuItem{
		ID:        id,
		Name:      name,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.items[id] = item
	c.order = append(c.order, id)
	return cloneItem(item), nil
}

// Ensure registers the item only if the slug is not taken yet. Used by
// seeding so restarts and demo re-runs stay idempotent.
func (c *Catalog) Ensure(name string, price int) (*MenuItem, bool, error) {
	c.mu.RLock()
	existing, ok := c.items[MenuID(name)]
	c.mu.RUnlock()
	if ok {
		return cloneItem(existing), false, nil
	}
	item, err := c.Add(name, price)
	if err != nil {
		return nil, false, err
	}
	return item, true, nil
}

// Update mutates name and/or price of an existing item. The id never
// changes, even when the name does: orders and stats keep their reference.
func (c *Catalog) Update(id, name string, price int) (*MenuItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errValidation("name is required")
	}
	if price <= 0 {
		return nil, errValidation("price must be greater than 0")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[id]
	if !ok {
		return nil, ErrMenuItemNotFound
	}
	item.Name = name
	item.Price = price
	item.UpdatedAt = time.Now()
	return cloneItem(item), nil
}

// Remove deletes the item. Historical orders referencing it keep their
// recorded quantities; they simply price at zero from now on.
func (c *Catalog) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return ErrMenuItemNotFound
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns a copy of the item, or ErrMenuItemNotFound.
func (c *Catalog) Get(id string) (*MenuItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		return nil, ErrMenuItemNotFound
	}
	return cloneItem(item), nil
}

// List returns copies of all items in insertion order.
func (c *Catalog) List() []*MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]*MenuItem, 0, len(c.order))
	for _, id := range c.order {
		if item, ok := c.items[id]; ok {
			items = append(items, cloneItem(item))
		}
	}
	return items
}

// Price returns the current unit price for the id. Missing items price at
// zero so revenue sums stay defined after a menu deletion.
func (c *Catalog) Price(id string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		return 0, false
	}
	return item.Price, true
}

// Name returns the current display name for the id.
func (c *Catalog) Name(id string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		return "", false
	}
	return item.Name, true
}

func cloneItem(item *MenuItem) *MenuItem {
	dup := *item
	return &dup
}
