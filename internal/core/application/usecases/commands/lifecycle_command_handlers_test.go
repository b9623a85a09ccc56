package commands_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/events"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/restaurant"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func deliveringOrderOf(t *testing.T, account *courier.Account) *order.Order {
	t.Helper()
	o, _ := submittedOrder(t, kernel.NewUUID())
	require.NoError(t, o.AssignCourier(account.ID(), time.Now()))
	return o
}

func submittedFrom(t *testing.T, r *restaurant.Restaurant) *order.Order {
	t.Helper()
	o := cartWith(t, kernel.NewUUID(), newDish(t, r, 200), 1)
	require.NoError(t, o.Submit("Podil 3", northOf(t, r.Location(), 300), "", r, 3500, time.Now().Add(-time.Minute)))
	return o
}

func TestSubmitOrderCommandHandler_Handle(t *testing.T) {
	t.Run("submits and announces the order", func(t *testing.T) {
		ctx := t.Context()
		userID := kernel.NewUUID()
		r := newRestaurant(t)
		cart := cartWith(t, userID, newDish(t, r, 250), 3)
		cmd, err := commands.NewSubmitOrderCommand(cart.ID(), userID, "Sofiivska 5", northOf(t, r.Location(), 500), "ring twice")
		require.NoError(t, err)

		orderRepo := new(MockOrderRepository)
		restaurantRepo := new(MockRestaurantRepository)
		uow := new(MockUoW)
		factory := new(MockOrderUoWFactory)
		publisher := new(recordingPublisher)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("GetForUpdate", ctx, cart.ID()).Return(cart, nil).Once(),
			uow.On("RestaurantRepository").Return(restaurantRepo).Once(),
			restaurantRepo.On("Get", ctx, r.ID()).Return(r, nil).Once(),
			orderRepo.On("Update", ctx, cart).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		handler := commands.NewSubmitOrderCommandHandler(factory, publisher, 3500, nil)
		o, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Preparing, o.CurrentStatus())
		assert.Equal(t, 750, o.Summary())
		assert.Equal(t, "ring twice", o.Details())

		published := publisher.events()
		require.Len(t, published, 1)
		assert.Equal(t, events.CourierQueueChannel, published[0].channel)
		assert.Equal(t, events.TypeNewOrder, published[0].event.Type)

		var snapshot events.OrderSnapshot
		require.NoError(t, json.Unmarshal(published[0].event.Content, &snapshot))
		assert.Equal(t, o.ID().String(), snapshot.ID)
		assert.Equal(t, 750, snapshot.Summary)
		uow.AssertExpectations(t)
		restaurantRepo.AssertExpectations(t)
	})

	t.Run("restaurant too far publishes nothing", func(t *testing.T) {
		ctx := t.Context()
		userID := kernel.NewUUID()
		r := newRestaurant(t)
		cart := cartWith(t, userID, newDish(t, r, 250), 1)
		cmd, err := commands.NewSubmitOrderCommand(cart.ID(), userID, "Far away 1", northOf(t, r.Location(), 3600), "")
		require.NoError(t, err)

		orderRepo := new(MockOrderRepository)
		restaurantRepo := new(MockRestaurantRepository)
		uow := new(MockUoW)
		factory := new(MockOrderUoWFactory)
		publisher := new(recordingPublisher)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("GetForUpdate", ctx, cart.ID()).Return(cart, nil).Once(),
			uow.On("RestaurantRepository").Return(restaurantRepo).Once(),
			restaurantRepo.On("Get", ctx, r.ID()).Return(r, nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		_, err = commands.NewSubmitOrderCommandHandler(factory, publisher, 3500, nil).Handle(ctx, cmd)

		require.ErrorIs(t, err, order.ErrRestaurantTooFar)
		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.True(t, cart.IsOpen())
		assert.Empty(t, publisher.events())
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("empty order skips the restaurant lookup", func(t *testing.T) {
		ctx := t.Context()
		userID := kernel.NewUUID()
		cart := newCart(t, userID)
		loc, err := kernel.NewLocation(50.45, 30.52)
		require.NoError(t, err)
		cmd, err := commands.NewSubmitOrderCommand(cart.ID(), userID, "Sofiivska 5", loc, "")
		require.NoError(t, err)

		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockOrderUoWFactory)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("GetForUpdate", ctx, cart.ID()).Return(cart, nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		_, err = commands.NewSubmitOrderCommandHandler(factory, new(recordingPublisher), 3500, nil).Handle(ctx, cmd)

		require.ErrorIs(t, err, order.ErrOrderIsEmpty)
		uow.AssertNotCalled(t, "RestaurantRepository")
	})

	t.Run("publish failure does not fail the submission", func(t *testing.T) {
		ctx := t.Context()
		userID := kernel.NewUUID()
		r := newRestaurant(t)
		cart := cartWith(t, userID, newDish(t, r, 100), 1)
		cmd, err := commands.NewSubmitOrderCommand(cart.ID(), userID, "Sofiivska 5", northOf(t, r.Location(), 100), "")
		require.NoError(t, err)

		orderRepo := new(MockOrderRepository)
		restaurantRepo := new(MockRestaurantRepository)
		uow := new(MockUoW)
		factory := new(MockOrderUoWFactory)
		publisher := &recordingPublisher{err: errors.New("broker unavailable")}

		factory.On("Create").Return(uow).Once()
		uow.On("Begin", ctx).Return(nil).Once()
		uow.On("OrderRepository").Return(orderRepo).Once()
		uow.On("RestaurantRepository").Return(restaurantRepo).Once()
		orderRepo.On("GetForUpdate", ctx, cart.ID()).Return(cart, nil).Once()
		restaurantRepo.On("Get", ctx, r.ID()).Return(r, nil).Once()
		orderRepo.On("Update", ctx, cart).Return(nil).Once()
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()

		o, err := commands.NewSubmitOrderCommandHandler(factory, publisher, 3500, nil).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Preparing, o.CurrentStatus())
		assert.Len(t, publisher.events(), 1)
	})
}

func TestRecreateOrderCommandHandler_Handle(t *testing.T) {
	t.Run("copies line items into the open order", func(t *testing.T) {
		ctx := t.Context()
		userID := kernel.NewUUID()
		previous, _ := submittedOrder(t, userID)
		cart := newCart(t, userID)
		cmd, err := commands.NewRecreateOrderCommand(previous.ID(), userID)
		require.NoError(t, err)

		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockOrderUoWFactory)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("Get", ctx, previous.ID()).Return(previous, nil).Once(),
			orderRepo.On("FindOpenByUser", ctx, userID).Return(cart, nil).Once(),
			orderRepo.On("GetForUpdate", ctx, cart.ID()).Return(cart, nil).Once(),
			orderRepo.On("Update", ctx, cart).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		o, err := commands.NewRecreateOrderCommandHandler(factory).Handle(ctx, cmd)

		require.NoError(t, err)
		require.Len(t, o.Lines(), len(previous.Lines()))
		for i, line := range previous.Lines() {
			assert.True(t, line.DishID().IsEqual(o.Lines()[i].DishID()))
			assert.Equal(t, line.Quantity(), o.Lines()[i].Quantity())
		}
		uow.AssertExpectations(t)
	})

	t.Run("recreating the current order is a conflict", func(t *testing.T) {
		ctx := t.Context()
		userID := kernel.NewUUID()
		cart := cartWith(t, userID, newDish(t, newRestaurant(t), 40), 1)
		cmd, err := commands.NewRecreateOrderCommand(cart.ID(), userID)
		require.NoError(t, err)

		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockOrderUoWFactory)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("Get", ctx, cart.ID()).Return(cart, nil).Once(),
			orderRepo.On("FindOpenByUser", ctx, userID).Return(cart, nil).Once(),
			orderRepo.On("GetForUpdate", ctx, cart.ID()).Return(cart, nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		_, err = commands.NewRecreateOrderCommandHandler(factory).Handle(ctx, cmd)

		require.ErrorIs(t, err, order.ErrCannotRecreateFromCurrent)
		orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("cart submitted before the lock is replaced by a new cart", func(t *testing.T) {
		ctx := t.Context()
		userID := kernel.NewUUID()
		previous, _ := submittedOrder(t, userID)
		cart := newCart(t, userID)
		submittedMeanwhile, _ := submittedOrder(t, userID)
		cmd, err := commands.NewRecreateOrderCommand(previous.ID(), userID)
		require.NoError(t, err)

		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockOrderUoWFactory)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("Get", ctx, previous.ID()).Return(previous, nil).Once(),
			orderRepo.On("FindOpenByUser", ctx, userID).Return(cart, nil).Once(),
			orderRepo.On("GetForUpdate", ctx, cart.ID()).Return(submittedMeanwhile, nil).Once(),
			orderRepo.On("FindOpenByUser", ctx, userID).Return(nil, errs.NewObjectNotFoundError("order", userID.String())).Once(),
			orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
			orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		o, err := commands.NewRecreateOrderCommandHandler(factory).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.True(t, o.IsOpen())
		assert.False(t, o.ID().IsEqual(cart.ID()))
		assert.Len(t, o.Lines(), len(previous.Lines()))
		assert.Equal(t, order.Preparing, submittedMeanwhile.CurrentStatus())
		orderRepo.AssertNotCalled(t, "Update", mock.Anything, submittedMeanwhile)
		uow.AssertExpectations(t)
	})

	t.Run("order of another user is not found", func(t *testing.T) {
		ctx := t.Context()
		previous, _ := submittedOrder(t, kernel.NewUUID())
		cmd, err := commands.NewRecreateOrderCommand(previous.ID(), kernel.NewUUID())
		require.NoError(t, err)

		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockOrderUoWFactory)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("Get", ctx, previous.ID()).Return(previous, nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		_, err = commands.NewRecreateOrderCommandHandler(factory).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		orderRepo.AssertNotCalled(t, "FindOpenByUser", mock.Anything, mock.Anything)
	})
}

func TestAppendOrderStatusCommandHandler_Handle(t *testing.T) {
	t.Run("assigned courier delivers", func(t *testing.T) {
		ctx := t.Context()
		courierUserID := kernel.NewUUID()
		account := newAccount(t, courierUserID)
		o := deliveringOrderOf(t, account)
		cmd, err := commands.NewAppendOrderStatusCommand(o.ID(), courierUserID, "F", false)
		require.NoError(t, err)

		courierRepo := new(MockCourierRepository)
		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockUoWFactory)
		publisher := new(recordingPublisher)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("CourierRepository").Return(courierRepo).Once(),
			courierRepo.On("GetByUserID", ctx, courierUserID).Return(account, nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
			orderRepo.On("Update", ctx, o).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		entry, err := commands.NewAppendOrderStatusCommandHandler(factory, publisher, nil).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Delivered, entry.Status())
		assert.Equal(t, order.Delivered, o.CurrentStatus())

		published := publisher.events()
		require.Len(t, published, 1)
		assert.Equal(t, events.OrderChannel(o.ID()), published[0].channel)
		assert.Equal(t, events.TypeOrderStatus, published[0].event.Type)
		assert.JSONEq(t,
			`{"status":"F","timestamp":"`+entry.Timestamp().Format(events.TimestampLayout)+`"}`,
			string(published[0].event.Content))
		uow.AssertExpectations(t)
	})

	t.Run("superuser without courier account cancels", func(t *testing.T) {
		ctx := t.Context()
		adminID := kernel.NewUUID()
		o := deliveringOrderOf(t, newAccount(t, kernel.NewUUID()))
		cmd, err := commands.NewAppendOrderStatusCommand(o.ID(), adminID, "CANCELLED", true)
		require.NoError(t, err)

		courierRepo := new(MockCourierRepository)
		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockUoWFactory)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("CourierRepository").Return(courierRepo).Once(),
			courierRepo.On("GetByUserID", ctx, adminID).
				Return(nil, errs.NewObjectNotFoundError("courier", adminID.String())).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
			orderRepo.On("Update", ctx, o).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		entry, err := commands.NewAppendOrderStatusCommandHandler(factory, new(recordingPublisher), nil).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, entry.Status())
	})

	t.Run("another courier gets not found", func(t *testing.T) {
		ctx := t.Context()
		strangerUserID := kernel.NewUUID()
		stranger := newAccount(t, strangerUserID)
		o := deliveringOrderOf(t, newAccount(t, kernel.NewUUID()))
		cmd, err := commands.NewAppendOrderStatusCommand(o.ID(), strangerUserID, "F", false)
		require.NoError(t, err)

		courierRepo := new(MockCourierRepository)
		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockUoWFactory)
		publisher := new(recordingPublisher)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("CourierRepository").Return(courierRepo).Once(),
			courierRepo.On("GetByUserID", ctx, strangerUserID).Return(stranger, nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		_, err = commands.NewAppendOrderStatusCommandHandler(factory, publisher, nil).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, order.Delivering, o.CurrentStatus())
		assert.Empty(t, publisher.events())
	})

	t.Run("courier lookup failure is returned", func(t *testing.T) {
		ctx := t.Context()
		userID := kernel.NewUUID()
		cmd, err := commands.NewAppendOrderStatusCommand(kernel.NewUUID(), userID, "F", false)
		require.NoError(t, err)

		courierRepo := new(MockCourierRepository)
		uow := new(MockUoW)
		factory := new(MockUoWFactory)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("CourierRepository").Return(courierRepo).Once(),
			courierRepo.On("GetByUserID", ctx, userID).Return(nil, errors.New("connection reset")).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		_, err = commands.NewAppendOrderStatusCommandHandler(factory, new(recordingPublisher), nil).Handle(ctx, cmd)

		require.EqualError(t, err, "connection reset")
		uow.AssertNotCalled(t, "OrderRepository")
	})
}

func TestClaimOrderCommandHandler_Handle(t *testing.T) {
	dispatcher := services.NewOrderDispatcher(2000)

	t.Run("claims a free order", func(t *testing.T) {
		ctx := t.Context()
		courierUserID := kernel.NewUUID()
		account := newAccount(t, courierUserID)
		o, _ := submittedOrder(t, kernel.NewUUID())
		cmd, err := commands.NewClaimOrderCommand(o.ID(), courierUserID, northOf(t, *o.DeliveryLocation(), 1500))
		require.NoError(t, err)

		courierRepo := new(MockCourierRepository)
		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockUoWFactory)
		publisher := new(recordingPublisher)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("CourierRepository").Return(courierRepo).Once(),
			courierRepo.On("GetByUserIDForUpdate", ctx, courierUserID).Return(account, nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
			orderRepo.On("HasActiveDelivery", ctx, account.ID()).Return(false, nil).Once(),
			orderRepo.On("Update", ctx, o).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		claimed, err := commands.NewClaimOrderCommandHandler(factory, dispatcher, publisher, nil).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Delivering, claimed.CurrentStatus())
		assert.True(t, claimed.IsAssignedTo(account.ID()))

		published := publisher.events()
		require.Len(t, published, 2)
		assert.Equal(t, events.OrderChannel(o.ID()), published[0].channel)
		assert.Equal(t, events.TypeOrderStatus, published[0].event.Type)
		assert.Equal(t, events.CourierQueueChannel, published[1].channel)
		assert.Equal(t, events.TypeOrderTaken, published[1].event.Type)
		assert.JSONEq(t, `"`+o.ID().String()+`"`, string(published[1].event.Content))
		uow.AssertExpectations(t)
	})

	t.Run("courier too far leaves the order free", func(t *testing.T) {
		ctx := t.Context()
		courierUserID := kernel.NewUUID()
		account := newAccount(t, courierUserID)
		o, _ := submittedOrder(t, kernel.NewUUID())
		cmd, err := commands.NewClaimOrderCommand(o.ID(), courierUserID, northOf(t, *o.DeliveryLocation(), 2500))
		require.NoError(t, err)

		courierRepo := new(MockCourierRepository)
		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockUoWFactory)
		publisher := new(recordingPublisher)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("CourierRepository").Return(courierRepo).Once(),
			courierRepo.On("GetByUserIDForUpdate", ctx, courierUserID).Return(account, nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
			orderRepo.On("HasActiveDelivery", ctx, account.ID()).Return(false, nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		_, err = commands.NewClaimOrderCommandHandler(factory, dispatcher, publisher, nil).Handle(ctx, cmd)

		require.ErrorIs(t, err, services.ErrCourierTooFar)
		assert.Equal(t, order.Preparing, o.CurrentStatus())
		assert.Nil(t, o.Courier())
		assert.Empty(t, publisher.events())
		orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("courier already delivering", func(t *testing.T) {
		ctx := t.Context()
		courierUserID := kernel.NewUUID()
		account := newAccount(t, courierUserID)
		o, _ := submittedOrder(t, kernel.NewUUID())
		cmd, err := commands.NewClaimOrderCommand(o.ID(), courierUserID, *o.DeliveryLocation())
		require.NoError(t, err)

		courierRepo := new(MockCourierRepository)
		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockUoWFactory)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("CourierRepository").Return(courierRepo).Once(),
			courierRepo.On("GetByUserIDForUpdate", ctx, courierUserID).Return(account, nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
			orderRepo.On("HasActiveDelivery", ctx, account.ID()).Return(true, nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		_, err = commands.NewClaimOrderCommandHandler(factory, dispatcher, new(recordingPublisher), nil).Handle(ctx, cmd)

		require.ErrorIs(t, err, services.ErrCourierAlreadyDelivering)
	})

	t.Run("unknown courier account is not found", func(t *testing.T) {
		ctx := t.Context()
		userID := kernel.NewUUID()
		loc, err := kernel.NewLocation(50.45, 30.52)
		require.NoError(t, err)
		cmd, err := commands.NewClaimOrderCommand(kernel.NewUUID(), userID, loc)
		require.NoError(t, err)

		courierRepo := new(MockCourierRepository)
		uow := new(MockUoW)
		factory := new(MockUoWFactory)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("CourierRepository").Return(courierRepo).Once(),
			courierRepo.On("GetByUserIDForUpdate", ctx, userID).
				Return(nil, errs.NewObjectNotFoundError("courier", userID.String())).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		_, err = commands.NewClaimOrderCommandHandler(factory, dispatcher, new(recordingPublisher), nil).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestUpdateCourierLocationCommandHandler_Handle(t *testing.T) {
	t.Run("stores and publishes the location", func(t *testing.T) {
		ctx := t.Context()
		courierUserID := kernel.NewUUID()
		account := newAccount(t, courierUserID)
		o := deliveringOrderOf(t, account)
		here := northOf(t, *o.DeliveryLocation(), 200)
		cmd, err := commands.NewUpdateCourierLocationCommand(o.ID(), courierUserID, here)
		require.NoError(t, err)

		courierRepo := new(MockCourierRepository)
		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockUoWFactory)
		publisher := new(recordingPublisher)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("CourierRepository").Return(courierRepo).Once(),
			courierRepo.On("GetByUserID", ctx, courierUserID).Return(account, nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			courierRepo.On("AddLocation", ctx, mock.AnythingOfType("*courier.LocationPing")).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		ping, err := commands.NewUpdateCourierLocationCommandHandler(factory, publisher, nil).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.True(t, ping.CourierID().IsEqual(account.ID()))

		published := publisher.events()
		require.Len(t, published, 1)
		assert.Equal(t, events.OrderChannel(o.ID()), published[0].channel)
		assert.Equal(t, events.TypeLocation, published[0].event.Type)
		courierRepo.AssertExpectations(t)
	})

	t.Run("order of another courier is not found", func(t *testing.T) {
		ctx := t.Context()
		courierUserID := kernel.NewUUID()
		account := newAccount(t, courierUserID)
		o := deliveringOrderOf(t, newAccount(t, kernel.NewUUID()))
		cmd, err := commands.NewUpdateCourierLocationCommand(o.ID(), courierUserID, *o.DeliveryLocation())
		require.NoError(t, err)

		courierRepo := new(MockCourierRepository)
		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockUoWFactory)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("CourierRepository").Return(courierRepo).Once(),
			courierRepo.On("GetByUserID", ctx, courierUserID).Return(account, nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		_, err = commands.NewUpdateCourierLocationCommandHandler(factory, new(recordingPublisher), nil).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		courierRepo.AssertNotCalled(t, "AddLocation", mock.Anything, mock.Anything)
	})
}

func TestRemindUnclaimedOrdersCommandHandler_Handle(t *testing.T) {
	t.Run("announces every free order once", func(t *testing.T) {
		ctx := t.Context()
		r := newRestaurant(t)
		first, second := submittedFrom(t, r), submittedFrom(t, r)
		cmd, err := commands.NewRemindUnclaimedOrdersCommand(5 * time.Minute)
		require.NoError(t, err)

		orderRepo := new(MockOrderRepository)
		restaurantRepo := new(MockRestaurantRepository)
		uow := new(MockUoW)
		factory := new(MockOrderUoWFactory)
		publisher := new(recordingPublisher)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("GetFreeSubmittedBefore", ctx, mock.AnythingOfType("time.Time")).
				Return([]*order.Order{first, second}, nil).Once(),
			uow.On("RestaurantRepository").Return(restaurantRepo).Once(),
			restaurantRepo.On("Get", ctx, r.ID()).Return(r, nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		count, err := commands.NewRemindUnclaimedOrdersCommandHandler(factory, publisher, nil).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, 2, count)

		published := publisher.events()
		require.Len(t, published, 2)
		for _, p := range published {
			assert.Equal(t, events.CourierQueueChannel, p.channel)
			assert.Equal(t, events.TypeNewOrder, p.event.Type)
		}
		restaurantRepo.AssertExpectations(t)
	})

	t.Run("nothing to announce", func(t *testing.T) {
		ctx := t.Context()
		cmd, err := commands.NewRemindUnclaimedOrdersCommand(time.Minute)
		require.NoError(t, err)

		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		factory := new(MockOrderUoWFactory)
		publisher := new(recordingPublisher)

		mock.InOrder(
			factory.On("Create").Return(uow).Once(),
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("GetFreeSubmittedBefore", ctx, mock.AnythingOfType("time.Time")).
				Return([]*order.Order{}, nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)

		count, err := commands.NewRemindUnclaimedOrdersCommandHandler(factory, publisher, nil).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Empty(t, publisher.events())
	})
}
