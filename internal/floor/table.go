package floor

import (
	"time"

	"github.com/google/uuid"
)

const (
	TableAvailable = "available"
	TableInUse     = "in-use"
	TableExpired   = "expired"
)

// DefaultSeatingMinutes is the time budget granted when a party enters.
const DefaultSeatingMinutes = 180

// CombineBonusMinutes is the flat bonus granted when two tables are combined.
const CombineBonusMinutes = 60

// Table is one physical service slot. Its integer ID identifies the slot and
// never changes; everything else describes the current service episode.
//
// Invariants the engine maintains:
//   - available implies no orders, zero remaining minutes and no start time
//   - zero remaining minutes implies available or expired
//   - TotalRevenue is always recomputed from the order list, never trusted
//     incrementally
type Table struct {
	ID               int        `json:"id"`
	Status           string     `json:"status"`
	RemainingMinutes int        `json:"remaining_minutes"`
	Orders           []*Order   `json:"orders"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	TotalRevenue     int        `json:"total_revenue"`
	Favorite         bool       `json:"favorite"`
}

func NewTable(id int) *Table {
	return &Table{
		ID:     id,
		Status: TableAvailable,
		Orders: []*Order{},
	}
}

func (t *Table) Occupied() bool {
	return t.Status == TableInUse || t.Status == TableExpired
}

// Enter seats a party: in use, full time budget, empty order list. The
// caller must have checked the table is available.
func (t *Table) Enter(now time.Time) {
	t.Status = TableInUse
	t.RemainingMinutes = DefaultSeatingMinutes
	t.Orders = []*Order{}
	t.StartedAt = &now
	t.TotalRevenue = 0
}

// Reset returns the slot to available and drops the whole service episode,
// orders and favorite flag included.
func (t *Table) Reset() {
	t.Status = TableAvailable
	t.RemainingMinutes = 0
	t.Orders = []*Order{}
	t.StartedAt = nil
	t.TotalRevenue = 0
	t.Favorite = false
}

// AdjustMinutes applies a signed delta to the remaining time, clamped at
// zero, and resolves the in-use/expired boundary in both directions.
func (t *Table) AdjustMinutes(delta int) {
	t.RemainingMinutes = max(0, t.RemainingMinutes+delta)
	if t.RemainingMinutes == 0 {
		t.Status = TableExpired
	} else if t.Status == TableExpired {
		t.Status = TableInUse
	}
}

// CountDown removes one minute from an in-use table. It reports whether the
// table changed and whether this call expired it. Expired and available
// tables are untouched.
func (t *Table) CountDown() (changed, expired bool) {
	if t.Status != TableInUse || t.RemainingMinutes == 0 {
		return false, false
	}
	t.RemainingMinutes--
	if t.RemainingMinutes == 0 {
		t.Status = TableExpired
		return true, true
	}
	return true, false
}

// PendingOrder returns the pending order for the menu id, if any. Used to
// merge repeat orders of the same item into one line.
func (t *Table) PendingOrder(menuID string) *Order {
	for _, o := range t.Orders {
		if o.MenuID == menuID && o.Pending() {
			return o
		}
	}
	return nil
}

// Order returns the order with the given id, if present on this table.
func (t *Table) Order(id uuid.UUID) *Order {
	for _, o := range t.Orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// PendingOrders returns the pending subset of the order list in insertion
// order.
func (t *Table) PendingOrders() []*Order {
	var pending []*Order
	for _, o := range t.Orders {
		if o.Pending() {
			pending = append(pending, o)
		}
	}
	return pending
}

func (t *Table) clone() *Table {
	dup := *t
	dup.Orders = make([]*Order, len(t.Orders))
	for i, o := range t.Orders {
		dup.Orders[i] = o.clone()
	}
	if t.StartedAt != nil {
		at := *t.StartedAt
		dup.StartedAt = &at
	}
	return &dup
}
