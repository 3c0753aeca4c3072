package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// shippingOrderAt restores a shipping order whose current position is the
// given coordinate. The recipient sits at (120.301, 30.301).
func shippingOrderAt(t *testing.T, position kernel.Coordinate) *order.Order {
	t.Helper()
	ruleID := 101
	now := time.Now()
	o, err := order.RestoreOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		2500,
		"A. Customer",
		"1 Harbor Rd",
		coordinate(t, 120.301, 30.301),
		now.Add(-10*time.Minute),
		order.Shipping,
		&ruleID,
		route(t),
		&position,
		&now,
		false,
		order.ReasonNone,
	)
	require.NoError(t, err)
	return o
}

func TestTryAutoArriveCommandHandler_Handle_Arrives(t *testing.T) {
	ctx := t.Context()
	// A couple of meters from the recipient.
	o := shippingOrderAt(t, coordinate(t, 120.30101, 30.30101))
	cmd, err := commands.NewTryAutoArriveCommand(o.ID(), 50)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		repo.On("UpdateIfStatus", ctx, o, order.Shipping).Return(true, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("PublishStatus", o.ID(), order.Arrived, mock.AnythingOfType("string")).Once()

	h := commands.NewTryAutoArriveCommandHandler(factory, publisher)
	arrived, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.True(t, arrived)
	require.Equal(t, order.Arrived, o.Status())
	publisher.AssertExpectations(t)
}

func TestTryAutoArriveCommandHandler_Handle_TooFar(t *testing.T) {
	ctx := t.Context()
	// Roughly 700m out.
	o := shippingOrderAt(t, coordinate(t, 120.295, 30.298))
	cmd, err := commands.NewTryAutoArriveCommand(o.ID(), 50)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	h := commands.NewTryAutoArriveCommandHandler(factory, publisher)
	arrived, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.False(t, arrived)
	require.Equal(t, order.Shipping, o.Status())
	publisher.AssertNotCalled(t, "PublishStatus")
}

func TestTryAutoArriveCommandHandler_Handle_NotShipping(t *testing.T) {
	ctx := t.Context()
	o := restoredOrder(t, kernel.NewUUID(), order.Arrived)
	cmd, err := commands.NewTryAutoArriveCommand(o.ID(), 50)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewTryAutoArriveCommandHandler(factory, new(MockEventPublisher))
	arrived, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrInvalidState)
	require.False(t, arrived)
}

func TestTryAutoArriveCommandHandler_Handle_LostRace(t *testing.T) {
	ctx := t.Context()
	o := shippingOrderAt(t, coordinate(t, 120.30101, 30.30101))
	cmd, err := commands.NewTryAutoArriveCommand(o.ID(), 50)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		repo.On("UpdateIfStatus", ctx, o, order.Shipping).Return(false, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	h := commands.NewTryAutoArriveCommandHandler(factory, publisher)
	arrived, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.False(t, arrived)
	publisher.AssertNotCalled(t, "PublishStatus")
}
