package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// AnomalyThresholds bundles the detection limits for one sweep handler.
type AnomalyThresholds struct {
	// MaxPendingAge is how long an order may stay pending before it is flagged.
	MaxPendingAge time.Duration

	// MaxShippingAge is how long an order may stay shipping before it is flagged.
	MaxShippingAge time.Duration

	// MaxPositionGap is the longest tolerated silence between position samples
	// for a shipping order.
	MaxPositionGap time.Duration

	// MaxRouteDeviationMeters is the farthest a recorded position may sit from
	// the planned route.
	MaxRouteDeviationMeters float64
}

// SweepAnomaliesCommandHandler runs the periodic anomaly detector.
//
// Four checks run in sequence: pending timeout, shipping timeout, position
// staleness, route deviation. Each check re-reads the unflagged set, so an
// order caught by an earlier check is invisible to the later ones, and the
// flag write itself is conditional on the order still being unflagged. The
// first reason to land therefore sticks; the sweep is idempotent.
//
// A per-order failure is logged and the sweep moves on. A cache write failure
// degrades that order to the persisted flag alone.
type SweepAnomaliesCommandHandler struct {
	uowFactory OrderUoWFactory
	cache      ports.AnomalyReasonCache
	thresholds AnomalyThresholds
	logger     *slog.Logger
}

// NewSweepAnomaliesCommandHandler creates a handler for anomaly sweeps.
func NewSweepAnomaliesCommandHandler(
	uowFactory OrderUoWFactory,
	cache ports.AnomalyReasonCache,
	thresholds AnomalyThresholds,
	logger *slog.Logger,
) SweepAnomaliesCommandHandler {
	return SweepAnomaliesCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
		thresholds: thresholds,
		logger:     logger.With("component", "anomaly-sweep"),
	}
}

// Handle runs one sweep over all unflagged orders.
func (h SweepAnomaliesCommandHandler) Handle(ctx context.Context, cmd SweepAnomaliesCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	now := time.Now()

	h.checkPendingTimeout(ctx, orderRepo, now)
	h.checkShippingTimeout(ctx, orderRepo, now)
	h.checkPositionStaleness(ctx, orderRepo, now)
	h.checkRouteDeviation(ctx, orderRepo)

	return uow.Commit(ctx)
}

func (h SweepAnomaliesCommandHandler) checkPendingTimeout(ctx context.Context, repo ports.OrderRepository, now time.Time) {
	orders, err := repo.GetUnflaggedInStatus(ctx, order.Pending)
	if err != nil {
		h.logger.Error("pending timeout check failed", "error", err)
		return
	}

	for _, o := range orders {
		if now.Sub(o.CreateTime()) > h.thresholds.MaxPendingAge {
			h.flag(ctx, repo, o.ID(), order.ReasonPendingTimeout)
		}
	}
}

func (h SweepAnomaliesCommandHandler) checkShippingTimeout(ctx context.Context, repo ports.OrderRepository, now time.Time) {
	orders, err := repo.GetUnflaggedInStatus(ctx, order.Shipping)
	if err != nil {
		h.logger.Error("shipping timeout check failed", "error", err)
		return
	}

	for _, o := range orders {
		// Anchored on the last position sample, not creation: an actively
		// moving order is never a shipping timeout regardless of age.
		reference := o.CreateTime()
		if o.LastUpdateTime() != nil {
			reference = *o.LastUpdateTime()
		}

		if now.Sub(reference) > h.thresholds.MaxShippingAge {
			h.flag(ctx, repo, o.ID(), order.ReasonShippingTimeout)
		}
	}
}

func (h SweepAnomaliesCommandHandler) checkPositionStaleness(ctx context.Context, repo ports.OrderRepository, now time.Time) {
	orders, err := repo.GetUnflaggedInStatus(ctx, order.Shipping)
	if err != nil {
		h.logger.Error("position staleness check failed", "error", err)
		return
	}

	for _, o := range orders {
		// An order that never reported a position is measured from creation.
		reference := o.CreateTime()
		if o.LastUpdateTime() != nil {
			reference = *o.LastUpdateTime()
		}

		if now.Sub(reference) > h.thresholds.MaxPositionGap {
			h.flag(ctx, repo, o.ID(), order.ReasonPositionStale)
		}
	}
}

func (h SweepAnomaliesCommandHandler) checkRouteDeviation(ctx context.Context, repo ports.OrderRepository) {
	orders, err := repo.GetUnflaggedInStatus(ctx, order.Shipping)
	if err != nil {
		h.logger.Error("route deviation check failed", "error", err)
		return
	}

	for _, o := range orders {
		position := o.CurrentPosition()
		route := o.RoutePath()
		if position == nil || len(route) == 0 {
			continue
		}

		if kernel.DistanceToPolyline(*position, route) > h.thresholds.MaxRouteDeviationMeters {
			h.flag(ctx, repo, o.ID(), order.ReasonRouteDeviation)
		}
	}
}

func (h SweepAnomaliesCommandHandler) flag(ctx context.Context, repo ports.OrderRepository, orderID kernel.UUID, reason order.AnomalyReason) {
	flagged, err := repo.MarkAbnormal(ctx, orderID, reason)
	if err != nil {
		h.logger.Error("failed to flag order", "orderID", orderID, "reason", reason.String(), "error", err)
		return
	}
	if !flagged {
		// Already flagged by a concurrent sweep; the first reason stands.
		return
	}

	h.logger.Info("order flagged abnormal", "orderID", orderID, "reason", reason.String())

	if err = h.cache.Put(ctx, orderID, reason); err != nil {
		h.logger.Warn("failed to cache anomaly reason", "orderID", orderID, "error", err)
	}
}
