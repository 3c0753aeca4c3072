package commands_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sweepThresholds() commands.AnomalyThresholds {
	return commands.AnomalyThresholds{
		MaxPendingAge:           30 * time.Minute,
		MaxShippingAge:          2 * time.Hour,
		MaxPositionGap:          5 * time.Minute,
		MaxRouteDeviationMeters: 500,
	}
}

// staleShippingOrder restores a shipping order whose last position sample is
// older than the staleness threshold.
func staleShippingOrder(t *testing.T, lastUpdate time.Time) *order.Order {
	t.Helper()
	ruleID := 101
	position := coordinate(t, 120.298, 30.298)
	o, err := order.RestoreOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		2500, "A. Customer", "1 Harbor Rd",
		coordinate(t, 120.301, 30.301),
		lastUpdate.Add(-time.Hour),
		order.Shipping,
		&ruleID, route(t), &position, &lastUpdate,
		false, order.ReasonNone,
	)
	require.NoError(t, err)
	return o
}

// expectSweep wires the four per-check reads in their fixed order.
func expectSweep(ctx any, repo *MockOrderRepository, pending, shipping []*order.Order) []*mock.Call {
	return []*mock.Call{
		repo.On("GetUnflaggedInStatus", ctx, order.Pending).Return(pending, nil).Once(),
		repo.On("GetUnflaggedInStatus", ctx, order.Shipping).Return(shipping, nil).Times(3),
	}
}

func TestSweepAnomaliesCommandHandler_Handle_PendingTimeout(t *testing.T) {
	ctx := t.Context()
	stale := restoredOrder(t, kernel.NewUUID(), order.Pending) // created 10 minutes ago
	old, err := order.RestoreOrder(
		stale.ID(), stale.MerchantID(), stale.UserID(),
		stale.Amount(), stale.RecipientName(), stale.RecipientAddress(),
		stale.Recipient(), time.Now().Add(-time.Hour),
		order.Pending, nil, nil, nil, nil, false, order.ReasonNone,
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	expectSweep(ctx, repo, []*order.Order{stale, old}, nil)
	repo.On("MarkAbnormal", ctx, old.ID(), order.ReasonPendingTimeout).Return(true, nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	cache := new(MockAnomalyReasonCache)
	cache.On("Put", ctx, old.ID(), order.ReasonPendingTimeout).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSweepAnomaliesCommandHandler(factory, cache, sweepThresholds(), discardLogger())
	err = h.Handle(ctx, commands.NewSweepAnomaliesCommand())
	require.NoError(t, err)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSweepAnomaliesCommandHandler_Handle_ShippingTimeout(t *testing.T) {
	ctx := t.Context()
	ruleID := 101
	lastUpdate := time.Now().Add(-3 * time.Hour)
	position := coordinate(t, 120.298, 30.298)
	silent, err := order.RestoreOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		2500, "A. Customer", "1 Harbor Rd",
		coordinate(t, 120.301, 30.301),
		lastUpdate.Add(-time.Hour),
		order.Shipping,
		&ruleID, route(t), &position, &lastUpdate,
		false, order.ReasonNone,
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	expectSweep(ctx, repo, nil, []*order.Order{silent})
	repo.On("MarkAbnormal", ctx, silent.ID(), order.ReasonShippingTimeout).Return(true, nil).Once()
	// The staleness check sees the same row again; the conditional write
	// refuses the second reason.
	repo.On("MarkAbnormal", ctx, silent.ID(), order.ReasonPositionStale).Return(false, nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	cache := new(MockAnomalyReasonCache)
	cache.On("Put", ctx, silent.ID(), order.ReasonShippingTimeout).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSweepAnomaliesCommandHandler(factory, cache, sweepThresholds(), discardLogger())
	err = h.Handle(ctx, commands.NewSweepAnomaliesCommand())
	require.NoError(t, err)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSweepAnomaliesCommandHandler_Handle_OldButMovingOrderNotTimedOut(t *testing.T) {
	ctx := t.Context()
	ruleID := 101
	// Created three hours ago but still reporting positions: age alone must
	// not trip the shipping timeout.
	lastUpdate := time.Now().Add(-time.Minute)
	position := coordinate(t, 120.298, 30.298)
	moving, err := order.RestoreOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		2500, "A. Customer", "1 Harbor Rd",
		coordinate(t, 120.301, 30.301),
		time.Now().Add(-3*time.Hour),
		order.Shipping,
		&ruleID, route(t), &position, &lastUpdate,
		false, order.ReasonNone,
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	expectSweep(ctx, repo, nil, []*order.Order{moving})
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	cache := new(MockAnomalyReasonCache)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSweepAnomaliesCommandHandler(factory, cache, sweepThresholds(), discardLogger())
	err = h.Handle(ctx, commands.NewSweepAnomaliesCommand())
	require.NoError(t, err)
	repo.AssertNotCalled(t, "MarkAbnormal", ctx, moving.ID(), order.ReasonShippingTimeout)
	cache.AssertNotCalled(t, "Put")
}

func TestSweepAnomaliesCommandHandler_Handle_PositionStaleness(t *testing.T) {
	ctx := t.Context()
	stale := staleShippingOrder(t, time.Now().Add(-20*time.Minute))

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	expectSweep(ctx, repo, nil, []*order.Order{stale})
	repo.On("MarkAbnormal", ctx, stale.ID(), order.ReasonPositionStale).Return(true, nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	cache := new(MockAnomalyReasonCache)
	cache.On("Put", ctx, stale.ID(), order.ReasonPositionStale).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSweepAnomaliesCommandHandler(factory, cache, sweepThresholds(), discardLogger())
	err := h.Handle(ctx, commands.NewSweepAnomaliesCommand())
	require.NoError(t, err)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSweepAnomaliesCommandHandler_Handle_RouteDeviation(t *testing.T) {
	ctx := t.Context()
	ruleID := 101
	now := time.Now()
	// Position several kilometers off the planned route, sampled just now so
	// the staleness check stays quiet.
	position := coordinate(t, 120.40, 30.40)
	deviated, err := order.RestoreOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		2500, "A. Customer", "1 Harbor Rd",
		coordinate(t, 120.301, 30.301),
		now.Add(-10*time.Minute),
		order.Shipping,
		&ruleID, route(t), &position, &now,
		false, order.ReasonNone,
	)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	expectSweep(ctx, repo, nil, []*order.Order{deviated})
	repo.On("MarkAbnormal", ctx, deviated.ID(), order.ReasonRouteDeviation).Return(true, nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	cache := new(MockAnomalyReasonCache)
	cache.On("Put", ctx, deviated.ID(), order.ReasonRouteDeviation).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSweepAnomaliesCommandHandler(factory, cache, sweepThresholds(), discardLogger())
	err = h.Handle(ctx, commands.NewSweepAnomaliesCommand())
	require.NoError(t, err)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSweepAnomaliesCommandHandler_Handle_AlreadyFlaggedSkipsCache(t *testing.T) {
	ctx := t.Context()
	stale := staleShippingOrder(t, time.Now().Add(-20*time.Minute))

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	expectSweep(ctx, repo, nil, []*order.Order{stale})
	// A concurrent sweep won the flag write.
	repo.On("MarkAbnormal", ctx, stale.ID(), order.ReasonPositionStale).Return(false, nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	cache := new(MockAnomalyReasonCache)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSweepAnomaliesCommandHandler(factory, cache, sweepThresholds(), discardLogger())
	err := h.Handle(ctx, commands.NewSweepAnomaliesCommand())
	require.NoError(t, err)
	cache.AssertNotCalled(t, "Put")
}

func TestSweepAnomaliesCommandHandler_Handle_CacheFailureDoesNotFailSweep(t *testing.T) {
	ctx := t.Context()
	stale := staleShippingOrder(t, time.Now().Add(-20*time.Minute))

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	expectSweep(ctx, repo, nil, []*order.Order{stale})
	repo.On("MarkAbnormal", ctx, stale.ID(), order.ReasonPositionStale).Return(true, nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	cache := new(MockAnomalyReasonCache)
	cache.On("Put", ctx, stale.ID(), order.ReasonPositionStale).Return(errors.New("redis down")).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSweepAnomaliesCommandHandler(factory, cache, sweepThresholds(), discardLogger())
	err := h.Handle(ctx, commands.NewSweepAnomaliesCommand())
	require.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestSweepAnomaliesCommandHandler_Handle_HealthyOrdersUntouched(t *testing.T) {
	ctx := t.Context()
	fresh := restoredOrder(t, kernel.NewUUID(), order.Pending) // 10 minutes old
	moving := shippingOrderAt(t, coordinate(t, 120.298, 30.298))

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	expectSweep(ctx, repo, []*order.Order{fresh}, []*order.Order{moving})
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	cache := new(MockAnomalyReasonCache)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSweepAnomaliesCommandHandler(factory, cache, sweepThresholds(), discardLogger())
	err := h.Handle(ctx, commands.NewSweepAnomaliesCommand())
	require.NoError(t, err)
	repo.AssertNotCalled(t, "MarkAbnormal")
	cache.AssertNotCalled(t, "Put")
}
