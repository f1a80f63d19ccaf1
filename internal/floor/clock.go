package floor

import (
	"context"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/pochaclub/pocha/pkg"
)

const clockEventSource = "floor-clock"

// DefaultTickInterval is one simulated minute.
const DefaultTickInterval = time.Minute

// Clock drives the countdown: one engine tick per interval, from a single
// goroutine. The engine mutex serializes ticks against user-initiated
// mutations, so a tick never interleaves with a handler operation.
type Clock struct {
	engine    *Engine
	interval  time.Duration
	publisher events.Publisher
	logger    apt.Logger
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewClock(engine *Engine, interval time.Duration, publisher events.Publisher, logger apt.Logger) *Clock {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Clock{
		engine:    engine,
		interval:  interval,
		publisher: publisher,
		logger:    logger,
	}
}

// Start launches the tick loop. It returns immediately; use Stop to halt.
func (c *Clock) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.run(ctx)
	return nil
}

// Stop halts the tick loop and waits for it to drain.
func (c *Clock) Stop(ctx context.Context) error {
	if c.cancel == nil {
		return nil
	}
	c.cancel()
	select {
	case <-c.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (c *Clock) run(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			changed, expired := c.engine.Tick()
			if !changed {
				continue
			}
			c.logger.Debug("tick applied", "expired", len(expired))
			c.publishExpirations(ctx, expired)
		}
	}
}

func (c *Clock) publishExpirations(ctx context.Context, expired []int) {
	for _, tableID := range expired {
		event := pkg.TableStatusEvent{
			EventType:      pkg.EventTableStatusChanged,
			TableID:        tableID,
			Status:         TableExpired,
			PreviousStatus: TableInUse,
			Reason:         "tick",
			Source:         clockEventSource,
			OccurredAt:     time.Now().UTC(),
		}
		if err := pkg.PublishJSON(ctx, c.publisher, pkg.FloorTableTopic, event); err != nil {
			c.logger.Error("cannot publish table expiration", "error", err, "table_id", tableID)
		}
	}
}
