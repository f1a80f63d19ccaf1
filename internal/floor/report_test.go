package floor

import (
	"bytes"
	"encoding/csv"
	"testing"
)

func salesCatalog(t *testing.T) *Catalog {
	t.Helper()

	c := NewCatalog()
	for _, s := range []struct {
		name  string
		price int
	}{
		{"Soju", 3000},
		{"Beer", 4000},
	} {
		if _, err := c.Add(s.name, s.price); err != nil {
			t.Fatalf("Add(%q) error = %v", s.name, err)
		}
	}
	return c
}

func TestBuildSalesReport(t *testing.T) {
	catalog := salesCatalog(t)
	snapshot := StatsSnapshot{
		TablesServed: 3,
		TotalRevenue: 17000,
		QuantitySold: map[string]int{"soju": 3, "beer": 2},
	}

	report := BuildSalesReport(snapshot, catalog)

	want := []SalesReportRow{
		{MenuID: "beer", Name: "Beer", Quantity: 2, Revenue: 8000},
		{MenuID: "soju", Name: "Soju", Quantity: 3, Revenue: 9000},
	}
	if len(report.Rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(report.Rows), len(want))
	}
	for i, w := range want {
		if report.Rows[i] != w {
			t.Errorf("row %d = %+v, want %+v", i, report.Rows[i], w)
		}
	}
	if report.Total != 17000 {
		t.Errorf("total = %d, want 17000", report.Total)
	}
}

func TestBuildSalesReportDeletedItem(t *testing.T) {
	catalog := salesCatalog(t)
	snapshot := StatsSnapshot{
		QuantitySold: map[string]int{"soju": 2, "makgeolli": 4},
	}

	report := BuildSalesReport(snapshot, catalog)

	// An item removed from the menu after selling drops out of the report.
	if len(report.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(report.Rows))
	}
	if report.Rows[0].MenuID != "soju" {
		t.Errorf("row = %+v, want the surviving soju line only", report.Rows[0])
	}
	if report.Total != 6000 {
		t.Errorf("total = %d, want 6000", report.Total)
	}
}

func TestWriteCSV(t *testing.T) {
	catalog := salesCatalog(t)
	snapshot := StatsSnapshot{
		QuantitySold: map[string]int{"soju": 3, "beer": 2},
	}
	report := BuildSalesReport(snapshot, catalog)

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV error = %v", err)
	}

	raw := buf.Bytes()
	if len(raw) < 3 || raw[0] != 0xEF || raw[1] != 0xBB || raw[2] != 0xBF {
		t.Fatal("output does not start with a UTF-8 BOM")
	}

	records, err := csv.NewReader(bytes.NewReader(raw[3:])).ReadAll()
	if err != nil {
		t.Fatalf("cannot parse output as CSV: %v", err)
	}

	want := [][]string{
		{"menu", "quantity_sold", "revenue"},
		{"Beer", "2", "8000"},
		{"Soju", "3", "9000"},
		{"total", "", "17000"},
	}
	if len(records) != len(want) {
		t.Fatalf("records = %d, want %d", len(records), len(want))
	}
	for i, w := range want {
		if len(records[i]) != len(w) {
			t.Fatalf("record %d has %d fields, want %d", i, len(records[i]), len(w))
		}
		for j := range w {
			if records[i][j] != w[j] {
				t.Errorf("record %d field %d = %q, want %q", i, j, records[i][j], w[j])
			}
		}
	}
}

func TestWriteCSVEmptyDay(t *testing.T) {
	report := BuildSalesReport(StatsSnapshot{QuantitySold: map[string]int{}}, NewCatalog())

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV error = %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	if err != nil {
		t.Fatalf("cannot parse output as CSV: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("records = %d, want header plus total", len(records))
	}
}
