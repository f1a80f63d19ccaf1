package floor

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
)

// SalesReportRow is one menu item's sales for the day: quantity sold and the
// revenue realized for it.
type SalesReportRow struct {
	MenuID   string `json:"menu_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Revenue  int    `json:"revenue"`
}

// SalesReport is the export shape handed to the export collaborator: one row
// per sold menu item plus the grand total, built from a stats snapshot and
// the catalog it was accumulated against.
type SalesReport struct {
	Rows  []SalesReportRow `json:"rows"`
	Total int              `json:"total"`
}

// BuildSalesReport resolves names and prices at current catalog values, the
// same way the totals were credited. Items deleted since they were sold are
// omitted: the report only covers what is still on the menu.
func BuildSalesReport(snapshot StatsSnapshot, catalog *Catalog) SalesReport {
	rows := make([]SalesReportRow, 0, len(snapshot.QuantitySold))
	total := 0
	for menuID, qty := range snapshot.QuantitySold {
		name, ok := catalog.Name(menuID)
		if !ok {
			continue
		}
		price, _ := catalog.Price(menuID)
		revenue := price * qty
		total += revenue
		rows = append(rows, SalesReportRow{
			MenuID:   menuID,
			Name:     name,
			Quantity: qty,
			Revenue:  revenue,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return SalesReport{Rows: rows, Total: total}
}

// WriteCSV renders the report as CSV with a UTF-8 BOM so spreadsheet tools
// pick up non-ASCII menu names.
func (r SalesReport) WriteCSV(w io.Writer) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"menu", "quantity_sold", "revenue"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range r.Rows {
		record := []string{row.Name, fmt.Sprintf("%d", row.Quantity), fmt.Sprintf("%d", row.Revenue)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", row.MenuID, err)
		}
	}
	if err := cw.Write([]string{"total", "", fmt.Sprintf("%d", r.Total)}); err != nil {
		return fmt.Errorf("write total: %w", err)
	}

	cw.Flush()
	return cw.Error()
}
