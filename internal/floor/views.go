package floor

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SummaryLine is one aggregated pending-order line across the whole floor.
// Lines merge by display name, so two catalog entries sharing a name show as
// one line.
type SummaryLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// QueueEntry is one occupied table waiting on pending orders. WaitingSince
// is the earliest pending order time on the table, so the longest-waiting
// table surfaces first even when a new item was just added to it.
type QueueEntry struct {
	TableID      int       `json:"table_id"`
	Summary      string    `json:"summary"`
	WaitingSince time.Time `json:"waiting_since"`
}

// PendingSummary aggregates pending quantities by menu name over every
// occupied table. Lines are sorted by name for stable output.
func (e *Engine) PendingSummary() []SummaryLine {
	e.mu.Lock()
	defer e.mu.Unlock()

	totals := make(map[string]int)
	for _, t := range e.tables {
		if !t.Occupied() {
			continue
		}
		for _, o := range t.PendingOrders() {
			name, ok := e.catalog.Name(o.MenuID)
			if !ok {
				name = o.MenuID
			}
			totals[name] += o.Quantity
		}
	}

	lines := make([]SummaryLine, 0, len(totals))
	for name, qty := range totals {
		lines = append(lines, SummaryLine{Name: name, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
	return lines
}

// ServiceQueue lists every table with at least one pending order, sorted by
// the minimum pending order time ascending: first ordered, first served.
func (e *Engine) ServiceQueue() []QueueEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	var entries []QueueEntry
	for _, t := range e.tables {
		pending := t.PendingOrders()
		if len(pending) == 0 {
			continue
		}

		earliest := pending[0].OrderedAt
		parts := make([]string, 0, len(pending))
		for _, o := range pending {
			if o.OrderedAt.Before(earliest) {
				earliest = o.OrderedAt
			}
			name, ok := e.catalog.Name(o.MenuID)
			if !ok {
				name = o.MenuID
			}
			parts = append(parts, fmt.Sprintf("%s x%d", name, o.Quantity))
		}

		entries = append(entries, QueueEntry{
			TableID:      t.ID,
			Summary:      strings.Join(parts, ", "),
			WaitingSince: earliest,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].WaitingSince.Equal(entries[j].WaitingSince) {
			return entries[i].TableID < entries[j].TableID
		}
		return entries[i].WaitingSince.Before(entries[j].WaitingSince)
	})
	return entries
}
