package floor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/pochaclub/pocha/pkg"
)

// KitchenTicketSubscriber settles orders from kitchen ticket updates: a ready
// ticket marks the order served, a voided ticket cancels it. Both engine
// operations are idempotent, so replayed or duplicated messages are harmless.
type KitchenTicketSubscriber struct {
	subscriber events.Subscriber
	engine     *Engine
	publisher  events.Publisher
	logger     apt.Logger
}

func NewKitchenTicketSubscriber(
	subscriber events.Subscriber,
	engine *Engine,
	publisher events.Publisher,
	logger apt.Logger,
) *KitchenTicketSubscriber {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &KitchenTicketSubscriber{
		subscriber: subscriber,
		engine:     engine,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *KitchenTicketSubscriber) Start(ctx context.Context) error {
	s.logger.Info("Starting KitchenTicketSubscriber for topic: " + pkg.KitchenTicketsTopic)

	if err := s.subscriber.Subscribe(ctx, pkg.KitchenTicketsTopic, s.handleEvent); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", pkg.KitchenTicketsTopic, err)
	}

	s.logger.Info("KitchenTicketSubscriber started successfully")
	return nil
}

func (s *KitchenTicketSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var evt pkg.KitchenTicketEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Errorf("Failed to unmarshal kitchen ticket event: %v", err)
		return nil
	}

	switch evt.EventType {
	case pkg.EventKitchenTicketReady:
		return s.handleReady(ctx, &evt)
	case pkg.EventKitchenTicketVoided:
		return s.handleVoided(ctx, &evt)
	default:
		s.logger.Infof("Unknown kitchen ticket event type: %s", evt.EventType)
	}

	return nil
}

func (s *KitchenTicketSubscriber) handleReady(ctx context.Context, evt *pkg.KitchenTicketEvent) error {
	orderID, err := uuid.Parse(evt.OrderID)
	if err != nil {
		s.logger.Errorf("Invalid order_id in kitchen ticket event: %v", err)
		return nil
	}

	order, applied, err := s.engine.MarkServed(evt.TableID, orderID)
	if err != nil {
		s.logger.Errorf("Cannot serve order %s on table %d: %v", evt.OrderID, evt.TableID, err)
		return nil
	}
	if !applied {
		s.logger.Debug("Ready ticket for a settled order", "table_id", evt.TableID, "order_id", evt.OrderID)
		return nil
	}

	s.publishOrderStatus(ctx, evt.TableID, order)
	return nil
}

func (s *KitchenTicketSubscriber) handleVoided(ctx context.Context, evt *pkg.KitchenTicketEvent) error {
	orderID, err := uuid.Parse(evt.OrderID)
	if err != nil {
		s.logger.Errorf("Invalid order_id in kitchen ticket event: %v", err)
		return nil
	}

	order, applied, err := s.engine.CancelOrder(evt.TableID, orderID)
	if err != nil {
		s.logger.Errorf("Cannot cancel order %s on table %d: %v", evt.OrderID, evt.TableID, err)
		return nil
	}
	if !applied {
		s.logger.Debug("Voided ticket for a settled order", "table_id", evt.TableID, "order_id", evt.OrderID)
		return nil
	}

	s.publishOrderStatus(ctx, evt.TableID, order)
	return nil
}

func (s *KitchenTicketSubscriber) publishOrderStatus(ctx context.Context, tableID int, order *Order) {
	if s.publisher == nil || order == nil {
		return
	}

	event := pkg.OrderStatusEvent{
		EventType:  pkg.EventOrderStatusChanged,
		TableID:    tableID,
		OrderID:    order.ID.String(),
		MenuID:     order.MenuID,
		Quantity:   order.Quantity,
		Status:     order.Status,
		Source:     floorEventSource,
		OccurredAt: time.Now().UTC(),
	}
	if err := pkg.PublishJSON(ctx, s.publisher, pkg.FloorOrderTopic, event); err != nil {
		s.logger.Error("cannot publish order status event", "error", err, "table_id", tableID, "order_id", order.ID.String())
	}
}
