// Package simulator advances shipping orders along their routes.
//
// Every tracked order gets one goroutine ticking at the cadence of the
// order's dispatch rule. Each tick records the next route point through the
// regular command handlers, checks for arrival and then publishes the
// position to live subscribers. The tracker is the only writer of a tracked
// order's position, so position samples of one order never race each other.
package simulator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// Tracker owns the movement tasks of all shipping orders. It implements
// ports.OrderTracker.
type Tracker struct {
	rules           *rule.Table
	recordPosition  commands.RecordPositionCommandHandler
	tryAutoArrive   commands.TryAutoArriveCommandHandler
	publisher       ports.EventPublisher
	thresholdMeters float64
	logger          *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	tasks map[kernel.UUID]context.CancelFunc
	wg    sync.WaitGroup
}

// NewTracker creates a tracker. Stop must be called on shutdown to tear down
// the running movement tasks.
func NewTracker(
	rules *rule.Table,
	recordPosition commands.RecordPositionCommandHandler,
	tryAutoArrive commands.TryAutoArriveCommandHandler,
	publisher ports.EventPublisher,
	thresholdMeters float64,
	logger *slog.Logger,
) *Tracker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Tracker{
		rules:           rules,
		recordPosition:  recordPosition,
		tryAutoArrive:   tryAutoArrive,
		publisher:       publisher,
		thresholdMeters: thresholdMeters,
		logger:          logger.With("component", "simulator"),
		ctx:             ctx,
		cancel:          cancel,
		tasks:           make(map[kernel.UUID]context.CancelFunc),
	}
}

// Track starts a movement task for the order. The insert into the task set is
// a single check-then-act under the lock, so concurrent Track calls for one
// order spawn exactly one task. Tracking an already tracked order is a no-op.
func (t *Tracker) Track(orderID kernel.UUID, ruleID int, routePath []kernel.Coordinate, startIndex int) {
	cadence, err := t.rules.Cadence(ruleID)
	if err != nil {
		t.logger.Error("refusing to track order with unknown rule",
			"orderID", orderID, "ruleID", ruleID)
		return
	}
	if len(routePath) == 0 {
		t.logger.Error("refusing to track order without route", "orderID", orderID)
		return
	}
	if startIndex < 0 || startIndex >= len(routePath) {
		startIndex = 0
	}

	t.mu.Lock()
	if _, tracked := t.tasks[orderID]; tracked {
		t.mu.Unlock()
		return
	}
	taskCtx, cancel := context.WithCancel(t.ctx)
	t.tasks[orderID] = cancel
	t.wg.Add(1)
	t.mu.Unlock()

	route := append([]kernel.Coordinate(nil), routePath...)
	go t.run(taskCtx, orderID, route, startIndex, cadence)
}

// Untrack stops the order's movement task if one is running.
func (t *Tracker) Untrack(orderID kernel.UUID) {
	t.mu.Lock()
	cancel, tracked := t.tasks[orderID]
	t.mu.Unlock()
	if tracked {
		cancel()
	}
}

// IsTracked reports whether the order currently has a movement task.
func (t *Tracker) IsTracked(orderID kernel.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, tracked := t.tasks[orderID]
	return tracked
}

// Stop cancels all movement tasks and waits for them to finish.
func (t *Tracker) Stop() {
	t.cancel()
	t.wg.Wait()
}

func (t *Tracker) remove(orderID kernel.UUID) {
	t.mu.Lock()
	if cancel, tracked := t.tasks[orderID]; tracked {
		delete(t.tasks, orderID)
		cancel()
	}
	t.mu.Unlock()
}

// run is one order's movement task. It terminates on arrival, on cancellation
// and when the order leaves the shipping flow (gone, cancelled, delivered);
// transient failures are logged and retried on the next tick.
func (t *Tracker) run(ctx context.Context, orderID kernel.UUID, route []kernel.Coordinate, cursor int, cadence time.Duration) {
	defer t.wg.Done()
	defer t.remove(orderID)

	ticker := time.NewTicker(cadence)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			done := t.tick(ctx, orderID, route[cursor])
			if done {
				return
			}
			if cursor < len(route)-1 {
				cursor++
			}
		}
	}
}

// tick records one position sample and probes for arrival. Returns true when
// the task should stop.
func (t *Tracker) tick(ctx context.Context, orderID kernel.UUID, position kernel.Coordinate) bool {
	now := time.Now()

	recordCmd, err := commands.NewRecordPositionCommand(orderID, position, now)
	if err != nil {
		t.logger.Error("invalid position sample", "orderID", orderID, "error", err)
		return true
	}

	if err = t.recordPosition.Handle(ctx, recordCmd); err != nil {
		if isTerminal(err) {
			return true
		}
		t.logger.Warn("position sample failed, retrying next tick", "orderID", orderID, "error", err)
		return false
	}

	arriveCmd, err := commands.NewTryAutoArriveCommand(orderID, t.thresholdMeters)
	if err != nil {
		t.logger.Error("invalid arrival check", "orderID", orderID, "error", err)
		return true
	}

	// The arrival check runs before the position is published: when it
	// reports the order gone or no longer shipping, the recorded sample must
	// not reach subscribers of an already finished order.
	arrived, err := t.tryAutoArrive.Handle(ctx, arriveCmd)
	if err != nil {
		if isTerminal(err) {
			return true
		}
		t.logger.Warn("arrival check failed, retrying next tick", "orderID", orderID, "error", err)
		return false
	}

	t.publisher.PublishPosition(orderID, position, now)

	return arrived
}

// isTerminal classifies errors that end a movement task: the order is gone or
// has left the shipping flow. Context cancellation also ends the task.
func isTerminal(err error) bool {
	return errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, errs.ErrInvalidState) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
