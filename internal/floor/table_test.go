package floor

import (
	"testing"
	"time"
)

func TestTableEnterAndReset(t *testing.T) {
	table := NewTable(1)
	now := time.Now()

	table.Enter(now)
	if table.Status != TableInUse {
		t.Errorf("status = %q, want %q", table.Status, TableInUse)
	}
	if table.RemainingMinutes != DefaultSeatingMinutes {
		t.Errorf("remaining minutes = %d, want %d", table.RemainingMinutes, DefaultSeatingMinutes)
	}
	if table.StartedAt == nil || !table.StartedAt.Equal(now) {
		t.Error("start time not recorded")
	}

	table.Orders = append(table.Orders, NewOrder("soju", 1))
	table.Favorite = true

	table.Reset()
	if table.Status != TableAvailable {
		t.Errorf("status after reset = %q, want %q", table.Status, TableAvailable)
	}
	if len(table.Orders) != 0 || table.RemainingMinutes != 0 || table.StartedAt != nil || table.Favorite {
		t.Error("reset did not clear the whole episode")
	}
}

func TestTableAdjustMinutes(t *testing.T) {
	tests := []struct {
		name        string
		startStatus string
		startMin    int
		delta       int
		wantMin     int
		wantStatus  string
	}{
		{name: "add", startStatus: TableInUse, startMin: 100, delta: 30, wantMin: 130, wantStatus: TableInUse},
		{name: "subtract", startStatus: TableInUse, startMin: 100, delta: -30, wantMin: 70, wantStatus: TableInUse},
		{name: "clampBelowZero", startStatus: TableInUse, startMin: 20, delta: -50, wantMin: 0, wantStatus: TableExpired},
		{name: "exactZero", startStatus: TableInUse, startMin: 30, delta: -30, wantMin: 0, wantStatus: TableExpired},
		{name: "reviveExpired", startStatus: TableExpired, startMin: 0, delta: 45, wantMin: 45, wantStatus: TableInUse},
		{name: "expiredStaysAtZero", startStatus: TableExpired, startMin: 0, delta: -10, wantMin: 0, wantStatus: TableExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable(1)
			table.Status = tt.startStatus
			table.RemainingMinutes = tt.startMin

			table.AdjustMinutes(tt.delta)

			if table.RemainingMinutes != tt.wantMin {
				t.Errorf("remaining minutes = %d, want %d", table.RemainingMinutes, tt.wantMin)
			}
			if table.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", table.Status, tt.wantStatus)
			}
		})
	}
}

func TestTableCountDown(t *testing.T) {
	tests := []struct {
		name        string
		startStatus string
		startMin    int
		wantChanged bool
		wantExpired bool
		wantMin     int
		wantStatus  string
	}{
		{name: "normalTick", startStatus: TableInUse, startMin: 5, wantChanged: true, wantExpired: false, wantMin: 4, wantStatus: TableInUse},
		{name: "finalTick", startStatus: TableInUse, startMin: 1, wantChanged: true, wantExpired: true, wantMin: 0, wantStatus: TableExpired},
		{name: "expiredUntouched", startStatus: TableExpired, startMin: 0, wantChanged: false, wantExpired: false, wantMin: 0, wantStatus: TableExpired},
		{name: "availableUntouched", startStatus: TableAvailable, startMin: 0, wantChanged: false, wantExpired: false, wantMin: 0, wantStatus: TableAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable(1)
			table.Status = tt.startStatus
			table.RemainingMinutes = tt.startMin

			changed, expired := table.CountDown()

			if changed != tt.wantChanged || expired != tt.wantExpired {
				t.Errorf("CountDown() = (%v, %v), want (%v, %v)", changed, expired, tt.wantChanged, tt.wantExpired)
			}
			if table.RemainingMinutes != tt.wantMin {
				t.Errorf("remaining minutes = %d, want %d", table.RemainingMinutes, tt.wantMin)
			}
			if table.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", table.Status, tt.wantStatus)
			}
		})
	}
}

func TestTablePendingOrder(t *testing.T) {
	table := NewTable(1)
	table.Enter(time.Now())

	soju := NewOrder("soju", 1)
	servedBeer := NewOrder("beer", 1)
	servedBeer.MarkServed()
	table.Orders = append(table.Orders, soju, servedBeer)

	if got := table.PendingOrder("soju"); got != soju {
		t.Error("PendingOrder should find the pending soju line")
	}
	if got := table.PendingOrder("beer"); got != nil {
		t.Error("PendingOrder should skip non-pending lines")
	}
	if got := table.PendingOrder("makgeolli"); got != nil {
		t.Error("PendingOrder should return nil for an unknown item")
	}
}
