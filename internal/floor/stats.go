package floor

// BusinessStats accumulates the running totals for the current business day.
// It is mutated only by order realization and table entry, and cleared only
// by the end-of-business reset. Cancelling a pending order never touches it:
// pending revenue was never added in the first place.
type BusinessStats struct {
	TablesServed int
	TotalRevenue int
	QuantitySold map[string]int
}

func NewBusinessStats() *BusinessStats {
	return &BusinessStats{
		QuantitySold: make(map[string]int),
	}
}

// RecordEntry counts one party seated.
func (s *BusinessStats) RecordEntry() {
	s.TablesServed++
}

// RecordSale realizes revenue for a served order at the given unit price.
func (s *BusinessStats) RecordSale(menuID string, quantity, unitPrice int) {
	s.TotalRevenue += unitPrice * quantity
	s.QuantitySold[menuID] += quantity
}

// Reset clears all totals.
func (s *BusinessStats) Reset() {
	s.TablesServed = 0
	s.TotalRevenue = 0
	s.QuantitySold = make(map[string]int)
}

// Snapshot returns a detached copy safe to hand outside the engine lock.
func (s *BusinessStats) Snapshot() StatsSnapshot {
	sold := make(map[string]int, len(s.QuantitySold))
	for id, qty := range s.QuantitySold {
		sold[id] = qty
	}
	return StatsSnapshot{
		TablesServed: s.TablesServed,
		TotalRevenue: s.TotalRevenue,
		QuantitySold: sold,
	}
}

// StatsSnapshot is a read-only copy of the business totals.
type StatsSnapshot struct {
	TablesServed int            `json:"tables_served"`
	TotalRevenue int            `json:"total_revenue"`
	QuantitySold map[string]int `json:"quantity_sold"`
}
