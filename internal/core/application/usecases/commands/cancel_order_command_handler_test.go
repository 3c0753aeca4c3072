package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelOrderCommandHandler_Handle_CancelsPending(t *testing.T) {
	ctx := t.Context()
	o := restoredOrder(t, kernel.NewUUID(), order.Pending)
	cmd, err := commands.NewCancelOrderCommand(o.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		repo.On("UpdateIfStatus", ctx, o, order.Pending).Return(true, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	tracker := new(MockTracker)
	tracker.On("Untrack", o.ID()).Once()
	publisher := new(MockEventPublisher)
	publisher.On("PublishStatus", o.ID(), order.Cancelled, mock.AnythingOfType("string")).Once()

	h := commands.NewCancelOrderCommandHandler(factory, tracker, publisher)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Equal(t, order.Cancelled, o.Status())
	tracker.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_CancelsShipping(t *testing.T) {
	ctx := t.Context()
	o := restoredOrder(t, kernel.NewUUID(), order.Shipping)
	cmd, err := commands.NewCancelOrderCommand(o.ID())
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

	tracker := new(MockTracker)
	tracker.On("Untrack", o.ID()).Once()
	publisher := new(MockEventPublisher)
	publisher.On("PublishStatus", o.ID(), order.Cancelled, mock.AnythingOfType("string")).Once()

	h := commands.NewCancelOrderCommandHandler(factory, tracker, publisher)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)
	tracker.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_AlreadyDelivered(t *testing.T) {
	ctx := t.Context()
	o := restoredOrder(t, kernel.NewUUID(), order.Delivered)
	cmd, err := commands.NewCancelOrderCommand(o.ID())
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

	tracker := new(MockTracker)
	h := commands.NewCancelOrderCommandHandler(factory, tracker, new(MockEventPublisher))
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	tracker.AssertNotCalled(t, "Untrack")
}
