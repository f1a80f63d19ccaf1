package floor

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

const (
	OrderPending   = "pending"
	OrderServed    = "served"
	OrderCancelled = "cancelled"
)

// Order is one line item attached to a table: a menu selection, a quantity
// and a lifecycle state. Orders are owned exclusively by their table and are
// never deleted individually, only cleared by a table reset.
type Order struct {
	ID        uuid.UUID `json:"id"`
	MenuID    string    `json:"menu_id"`
	Quantity  int       `json:"quantity"`
	Status    string    `json:"status"`
	OrderedAt time.Time `json:"ordered_at"`
}

func NewOrder(menuID string, quantity int) *Order {
	return &Order{
		ID:        apt.GenerateNewID(),
		MenuID:    menuID,
		Quantity:  quantity,
		Status:    OrderPending,
		OrderedAt: time.Now(),
	}
}

func (o *Order) GetID() uuid.UUID {
	return o.ID
}

func (o *Order) ResourceType() string {
	return "order"
}

func (o *Order) Pending() bool {
	return o.Status == OrderPending
}

// MarkServed transitions a pending order to served. It reports whether the
// transition applied; served and cancelled are terminal, so a repeat call is
// a no-op.
func (o *Order) MarkServed() bool {
	if o.Status != OrderPending {
		return false
	}
	o.Status = OrderServed
	return true
}

// Cancel transitions a pending order to cancelled. Served orders cannot be
// cancelled.
func (o *Order) Cancel() bool {
	if o.Status != OrderPending {
		return false
	}
	o.Status = OrderCancelled
	return true
}

func (o *Order) clone() *Order {
	dup := *o
	return &dup
}
