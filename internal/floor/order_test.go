package floor

import (
	"testing"
)

func TestNewOrder(t *testing.T) {
	order := NewOrder("soju", 2)

	if order.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("order id not generated")
	}
	if order.Status != OrderPending {
		t.Errorf("status = %q, want %q", order.Status, OrderPending)
	}
	if order.OrderedAt.IsZero() {
		t.Error("ordered at not set")
	}
}

func TestOrderTransitions(t *testing.T) {
	tests := []struct {
		name       string
		start      string
		transition func(o *Order) bool
		wantOK     bool
		wantStatus string
	}{
		{name: "servePending", start: OrderPending, transition: (*Order).MarkServed, wantOK: true, wantStatus: OrderServed},
		{name: "serveServed", start: OrderServed, transition: (*Order).MarkServed, wantOK: false, wantStatus: OrderServed},
		{name: "serveCancelled", start: OrderCancelled, transition: (*Order).MarkServed, wantOK: false, wantStatus: OrderCancelled},
		{name: "cancelPending", start: OrderPending, transition: (*Order).Cancel, wantOK: true, wantStatus: OrderCancelled},
		{name: "cancelServed", start: OrderServed, transition: (*Order).Cancel, wantOK: false, wantStatus: OrderServed},
		{name: "cancelCancelled", start: OrderCancelled, transition: (*Order).Cancel, wantOK: false, wantStatus: OrderCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := NewOrder("soju", 1)
			order.Status = tt.start

			if ok := tt.transition(order); ok != tt.wantOK {
				t.Errorf("transition applied = %v, want %v", ok, tt.wantOK)
			}
			if order.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", order.Status, tt.wantStatus)
			}
		})
	}
}
