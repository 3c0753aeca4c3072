package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// TryAutoArriveCommandHandler probes a shipping order for arrival.
//
// The probe is idempotent: a false return means "not arrived, keep going" and
// carries no error. Only the caller whose conditional Shipping -> Arrived
// update lands observes true, so concurrent probes on one order arrive it
// exactly once.
type TryAutoArriveCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewTryAutoArriveCommandHandler creates a handler for arrival probes.
func NewTryAutoArriveCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) TryAutoArriveCommandHandler {
	return TryAutoArriveCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the arrival probe.
// Returns (true, nil) when this call transitioned the order to Arrived and
// (false, nil) when the order has no position yet or is still outside the
// threshold. An order that is no longer shipping returns an
// InvalidStateError so the movement task driving the probes can tell "keep
// going" apart from "the order left the shipping flow" without being told
// out of band.
func (h TryAutoArriveCommandHandler) Handle(ctx context.Context, cmd TryAutoArriveCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return false, err
	}

	if aggregate.Status() != order.Shipping {
		return false, errs.NewInvalidStateError(
			"order", cmd.OrderID().String(),
			order.Shipping.String(), aggregate.Status().String(),
		)
	}
	if !aggregate.IsWithinArrivalDistance(cmd.ThresholdMeters()) {
		return false, nil
	}

	if err = aggregate.Arrive(); err != nil {
		return false, err
	}

	updated, err := orderRepo.UpdateIfStatus(ctx, aggregate, order.Shipping)
	if err != nil {
		return false, err
	}
	if !updated {
		// Someone else moved the order first; nothing left to do here.
		return false, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.publisher.PublishStatus(cmd.OrderID(), order.Arrived, "order arrived at recipient")

	return true, nil
}
