package floor

import (
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// DefaultTableCount matches the venue's physical grid.
const DefaultTableCount = 70

// Engine owns the table registry, the business totals and every state
// transition rule. A single mutex serializes all mutating operations and all
// snapshot reads, including clock ticks, so each operation is atomic with
// respect to the shared state and readers always observe a consistent view.
//
// Query methods return detached copies; callers never hold references into
// engine-owned state.
type Engine struct {
	mu      sync.Mutex
	tables  []*Table
	catalog *Catalog
	stats   *BusinessStats
	logger  apt.Logger
}

func NewEngine(tableCount int, catalog *Catalog, logger apt.Logger) *Engine {
	if tableCount <= 0 {
		tableCount = DefaultTableCount
	}
	if catalog == nil {
		catalog = NewCatalog()
	}
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	tables := make([]*Table, tableCount)
	for i := range tables {
		tables[i] = NewTable(i + 1)
	}

	return &Engine{
		tables:  tables,
		catalog: catalog,
		stats:   NewBusinessStats(),
		logger:  logger,
	}
}

// Catalog exposes the menu registry the engine prices orders against.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// TableCount returns the size of the fixed grid.
func (e *Engine) TableCount() int {
	return len(e.tables)
}

// computeRevenue is the single source of truth for a table's running total:
// the sum of price times quantity over all non-cancelled orders, priced at
// the current catalog value. Items no longer on the menu price at zero.
func computeRevenue(orders []*Order, catalog *Catalog) int {
	total := 0
	for _, o := range orders {
		if o.Status == OrderCancelled {
			continue
		}
		price, _ := catalog.Price(o.MenuID)
		total += price * o.Quantity
	}
	return total
}

func (e *Engine) table(id int) (*Table, error) {
	if id < 1 || id > len(e.tables) {
		return nil, ErrTableNotFound
	}
	return e.tables[id-1], nil
}

func (e *Engine) refreshRevenue(t *Table) {
	t.TotalRevenue = computeRevenue(t.Orders, e.catalog)
}

// Enter seats a party at an available table and counts it toward the served
// total. Entering a table that is not available is a benign no-op, reported
// through the applied flag so double-clicks stay silent at the caller's
// discretion.
func (e *Engine) Enter(tableID int) (*Table, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.table(tableID)
	if err != nil {
		return nil, false, err
	}
	if t.Status != TableAvailable {
		return t.clone(), false, nil
	}

	t.Enter(time.Now())
	e.stats.RecordEntry()
	return t.clone(), true, nil
}

// Exit frees the table and discards the whole episode. Pending orders are
// dropped without touching the business totals: only served orders were ever
// credited, and they stay credited.
func (e *Engine) Exit(tableID int) (*Table, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.table(tableID)
	if err != nil {
		return nil, false, err
	}
	if t.Status == TableAvailable {
		return t.clone(), false, nil
	}

	t.Reset()
	return t.clone(), true, nil
}

// AdjustTime adds or removes minutes on an occupied table, clamping at zero.
// Reaching zero expires the table; adding time to an expired table revives
// it. Adjusting an available table is a benign no-op.
func (e *Engine) AdjustTime(tableID, deltaMinutes int) (*Table, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.table(tableID)
	if err != nil {
		return nil, false, err
	}
	if !t.Occupied() {
		return t.clone(), false, nil
	}

	t.AdjustMinutes(deltaMinutes)
	return t.clone(), true, nil
}

// ToggleFavorite flips the highlight flag. The flag is independent of the
// lifecycle: available tables can be starred too. It reports the new
// membership.
func (e *Engine) ToggleFavorite(tableID int) (*Table, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.table(tableID)
	if err != nil {
		return nil, false, err
	}

	t.Favorite = !t.Favorite
	return t.clone(), t.Favorite, nil
}

// AddOrder places quantity of a menu item on an occupied table. A pending
// order for the same item absorbs the quantity instead of creating a second
// line. Both pending and served orders count toward the table total.
func (e *Engine) AddOrder(tableID int, menuID string, quantity int) (*Order, error) {
	if quantity <= 0 {
		return nil, errValidation("quantity must be greater than 0")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.table(tableID)
	if err != nil {
		return nil, err
	}
	if !t.Occupied() {
		return nil, ErrInvalidTransition
	}
	if _, ok := e.catalog.Price(menuID); !ok {
		return nil, ErrMenuItemNotFound
	}

	order := t.PendingOrder(menuID)
	if order != nil {
		order.Quantity += quantity
	} else {
		order = NewOrder(menuID, quantity)
		t.Orders = append(t.Orders, order)
	}

	e.refreshRevenue(t)
	return order.clone(), nil
}

// MarkServed realizes a pending order: the table total is recomputed and the
// business totals are credited at the current catalog price, atomically
// under the engine lock. Serving a non-pending order is a no-op so a repeat
// call can never double-credit.
func (e *Engine) MarkServed(tableID int, orderID uuid.UUID) (*Order, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.table(tableID)
	if err != nil {
		return nil, false, err
	}
	order := t.Order(orderID)
	if order == nil {
		return nil, false, ErrOrderNotFound
	}
	if !order.MarkServed() {
		return order.clone(), false, nil
	}

	price, _ := e.catalog.Price(order.MenuID)
	e.stats.RecordSale(order.MenuID, order.Quantity, price)
	e.refreshRevenue(t)
	return order.clone(), true, nil
}

// CancelOrder voids a pending order. The table total drops accordingly; the
// business totals are untouched because pending orders were never credited.
func (e *Engine) CancelOrder(tableID int, orderID uuid.UUID) (*Order, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.table(tableID)
	if err != nil {
		return nil, false, err
	}
	order := t.Order(orderID)
	if order == nil {
		return nil, false, ErrOrderNotFound
	}
	if !order.Cancel() {
		return order.clone(), false, nil
	}

	e.refreshRevenue(t)
	return order.clone(), true, nil
}

// CancelGroup cancels every pending order in the id set. Ids that do not
// match a pending order on the table are skipped silently. It returns the
// number of orders actually cancelled.
func (e *Engine) CancelGroup(tableID int, orderIDs []uuid.UUID) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.table(tableID)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, id := range orderIDs {
		if order := t.Order(id); order != nil && order.Cancel() {
			cancelled++
		}
	}
	if cancelled > 0 {
		e.refreshRevenue(t)
	}
	return cancelled, nil
}

// Combine merges the target table into the source: the source keeps both
// order lists (its own first, identity and state preserved), takes the
// larger remaining time plus a flat bonus, and is revived to in-use even if
// both sides were expired. The target is then reset exactly like an exit.
// Both tables must be occupied and distinct; the new state for both sides is
// staged before either is committed.
func (e *Engine) Combine(sourceID, targetID int) (*Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sourceID == targetID {
		return nil, ErrInvalidTransition
	}
	source, err := e.table(sourceID)
	if err != nil {
		return nil, err
	}
	target, err := e.table(targetID)
	if err != nil {
		return nil, err
	}
	if !source.Occupied() || !target.Occupied() {
		return nil, ErrInvalidTransition
	}

	minutes := max(source.RemainingMinutes, target.RemainingMinutes) + CombineBonusMinutes
	merged := make([]*Order, 0, len(source.Orders)+len(target.Orders))
	merged = append(merged, source.Orders...)
	merged = append(merged, target.Orders...)

	source.Status = TableInUse
	source.RemainingMinutes = minutes
	source.Orders = merged
	e.refreshRevenue(source)

	target.Reset()
	return source.clone(), nil
}

// Move transfers the source table's entire episode, favorite flag included,
// to an available slot and frees the source. Orders keep their identity and
// order time.
func (e *Engine) Move(sourceID, targetID int) (*Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sourceID == targetID {
		return nil, ErrInvalidTransition
	}
	source, err := e.table(sourceID)
	if err != nil {
		return nil, err
	}
	target, err := e.table(targetID)
	if err != nil {
		return nil, err
	}
	if source.Status == TableAvailable || target.Status != TableAvailable {
		return nil, ErrInvalidTransition
	}

	target.Status = source.Status
	target.RemainingMinutes = source.RemainingMinutes
	target.Orders = source.Orders
	target.StartedAt = source.StartedAt
	// Favorite membership follows the episode, but moving an unfavorited
	// party onto a starred slot does not unstar it.
	if source.Favorite {
		target.Favorite = true
	}
	e.refreshRevenue(target)

	source.Orders = nil
	source.Reset()
	return target.clone(), nil
}

// Tick removes one minute from every in-use table. It reports whether any
// table changed, so the caller can skip refreshing derived views on quiet
// ticks, and which tables expired on this call.
func (e *Engine) Tick() (bool, []int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	changedAny := false
	var expired []int
	for _, t := range e.tables {
		changed, didExpire := t.CountDown()
		if changed {
			changedAny = true
		}
		if didExpire {
			expired = append(expired, t.ID)
		}
	}
	return changedAny, expired
}

// EndBusiness resets every table and clears the business totals. It returns
// the final snapshot taken under the same lock that clears it, so the caller
// can hand a consistent copy to the export collaborator.
func (e *Engine) EndBusiness() StatsSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := e.stats.Snapshot()
	for _, t := range e.tables {
		t.Reset()
	}
	e.stats.Reset()
	return snapshot
}

// Table returns a detached copy of one table, with its running total
// refreshed against current catalog prices.
func (e *Engine) Table(tableID int) (*Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.table(tableID)
	if err != nil {
		return nil, err
	}
	e.refreshRevenue(t)
	return t.clone(), nil
}

// Tables returns detached copies of the whole grid in slot order.
func (e *Engine) Tables() []*Table {
	e.mu.Lock()
	defer e.mu.Unlock()

	tables := make([]*Table, len(e.tables))
	for i, t := range e.tables {
		e.refreshRevenue(t)
		tables[i] = t.clone()
	}
	return tables
}

// Stats returns a detached copy of the running business totals.
func (e *Engine) Stats() StatsSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.stats.Snapshot()
}
