package commands_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/events"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/restaurant"
	"fooddelivery/internal/core/ports"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindOpenByUser(ctx context.Context, userID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) HasActiveDelivery(ctx context.Context, courierID kernel.UUID) (bool, error) {
	args := m.Called(ctx, courierID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) GetFreeSubmittedBefore(ctx context.Context, t time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, a *courier.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockCourierRepository) GetByUserID(ctx context.Context, userID kernel.UUID) (*courier.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Account), args.Error(1)
}

func (m *MockCourierRepository) GetByUserIDForUpdate(ctx context.Context, userID kernel.UUID) (*courier.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Account), args.Error(1)
}

func (m *MockCourierRepository) AddLocation(ctx context.Context, p *courier.LocationPing) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockRestaurantRepository struct{ mock.Mock }

func (m *MockRestaurantRepository) Add(ctx context.Context, r *restaurant.Restaurant) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRestaurantRepository) AddDish(ctx context.Context, d *restaurant.Dish) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockRestaurantRepository) Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*restaurant.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) GetDish(ctx context.Context, id kernel.UUID) (*restaurant.Dish, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*restaurant.Dish), args.Error(1)
}

// MockUoW satisfies both commands.UoW and commands.OrderUoW.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

func (m *MockUoW) RestaurantRepository() ports.RestaurantRepository {
	args := m.Called()
	return args.Get(0).(ports.RestaurantRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu        sync.Mutex
	published []publishedEvent
	err       error
}

type publishedEvent struct {
	channel string
	event   events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, publishedEvent{channel: channel, event: event})
	return p.err
}

func (p *recordingPublisher) events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.published...)
}

// fixtures

func newRestaurant(t *testing.T) *restaurant.Restaurant {
	t.Helper()
	loc, err := kernel.NewLocation(50.4501, 30.5234)
	require.NoError(t, err)
	r, err := restaurant.NewRestaurant(kernel.NewUUID(), "Varenichna", "Khreshchatyk 1", loc, restaurant.AlwaysOpen(), time.UTC)
	require.NoError(t, err)
	return r
}

func newDish(t *testing.T, r *restaurant.Restaurant, price int) *restaurant.Dish {
	t.Helper()
	d, err := restaurant.NewDish(kernel.NewUUID(), r.ID(), "Varenyky", price, 300)
	require.NoError(t, err)
	return d
}

func newCart(t *testing.T, userID kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), userID, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	return o
}

func cartWith(t *testing.T, userID kernel.UUID, d *restaurant.Dish, quantity int) *order.Order {
	t.Helper()
	o := newCart(t, userID)
	line, err := order.NewLine(d, quantity)
	require.NoError(t, err)
	require.NoError(t, o.AddLine(line))
	return o
}

func northOf(t *testing.T, base kernel.Location, meters float64) kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(base.Latitude()+meters/(orb.EarthRadius*math.Pi/180), base.Longitude())
	require.NoError(t, err)
	return loc
}

func submittedOrder(t *testing.T, userID kernel.UUID) (*order.Order, *restaurant.Restaurant) {
	t.Helper()
	r := newRestaurant(t)
	o := cartWith(t, userID, newDish(t, r, 150), 2)
	require.NoError(t, o.Submit("Sofiivska 5", northOf(t, r.Location(), 500), "", r, 3500, time.Now().Add(-time.Minute)))
	return o, r
}

func newAccount(t *testing.T, userID kernel.UUID) *courier.Account {
	t.Helper()
	a, err := courier.NewAccount(kernel.NewUUID(), userID, "Taras", "+380501234567")
	require.NoError(t, err)
	return a
}
