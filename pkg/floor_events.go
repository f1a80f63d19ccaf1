package pkg

import "time"

const (
	// FloorTableTopic delivers authoritative occupancy changes for tables.
	FloorTableTopic = "floor.tables"
	// FloorOrderTopic delivers order lifecycle changes.
	FloorOrderTopic = "floor.orders"
	// FloorBusinessTopic delivers business-day boundary events.
	FloorBusinessTopic = "floor.business"
	// KitchenTicketsTopic carries ticket lifecycle updates from the kitchen.
	KitchenTicketsTopic = "kitchen.tickets"

	// EventTableStatusChanged identifies a table occupancy change payload.
	EventTableStatusChanged = "table.status.changed"
	// EventOrderStatusChanged identifies an order lifecycle change payload.
	EventOrderStatusChanged = "order.status.changed"
	// EventBusinessClosed identifies the end-of-business payload carrying the
	// final totals before they are cleared.
	EventBusinessClosed = "business.closed"

	// EventKitchenTicketReady signals a prepared ticket ready to serve.
	EventKitchenTicketReady = "kitchen.ticket.ready"
	// EventKitchenTicketVoided signals a ticket the kitchen cannot fulfill.
	EventKitchenTicketVoided = "kitchen.ticket.voided"
)

// TableStatusEvent captures the minimal information a consumer needs to reason
// about a table's occupancy. Reason distinguishes why the status changed
// (enter, exit, expired, revived, combine, move, tick).
type TableStatusEvent struct {
	EventType        string    `json:"event_type"`
	TableID          int       `json:"table_id"`
	Status           string    `json:"status"`
	PreviousStatus   string    `json:"previous_status,omitempty"`
	RemainingMinutes int       `json:"remaining_minutes"`
	Reason           string    `json:"reason,omitempty"`
	Source           string    `json:"source,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// OrderStatusEvent captures an order transition on a table.
type OrderStatusEvent struct {
	EventType  string    `json:"event_type"`
	TableID    int       `json:"table_id"`
	OrderID    string    `json:"order_id"`
	MenuID     string    `json:"menu_id"`
	Quantity   int       `json:"quantity"`
	Status     string    `json:"status"`
	Source     string    `json:"source,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// KitchenTicketEvent is the kitchen's report on one order's ticket. The floor
// service consumes these to settle orders without a staff round-trip.
type KitchenTicketEvent struct {
	EventType  string    `json:"event_type"`
	TableID    int       `json:"table_id"`
	OrderID    string    `json:"order_id"`
	Reason     string    `json:"reason,omitempty"`
	Source     string    `json:"source,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BusinessClosedEvent carries the final business totals taken at the moment
// the day was closed, before all state was reset.
type BusinessClosedEvent struct {
	EventType    string         `json:"event_type"`
	TablesServed int            `json:"tables_served"`
	TotalRevenue int            `json:"total_revenue"`
	QuantitySold map[string]int `json:"quantity_sold,omitempty"`
	Source       string         `json:"source,omitempty"`
	OccurredAt   time.Time      `json:"occurred_at"`
}
