// Package http exposes the order and courier use cases over a JSON API
// described by the embedded openapi.yaml.
package http

import (
	"context"
	"net/http"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Handler is a use case: a command or query handler.
type Handler[Q any, R any] interface {
	Handle(ctx context.Context, q Q) (R, error)
}

// OpenOrderHandler also reports whether the order was created.
type OpenOrderHandler interface {
	Handle(ctx context.Context, cmd commands.GetOrCreateOpenOrderCommand) (*order.Order, bool, error)
}

// Handlers are the use cases served over HTTP.
type Handlers struct {
	GetOrCreateOpenOrder  OpenOrderHandler
	AddOrderDish          Handler[commands.AddOrderDishCommand, *order.Order]
	UpdateOrderDish       Handler[commands.UpdateOrderDishCommand, *order.Order]
	RemoveOrderDish       Handler[commands.RemoveOrderDishCommand, *order.Order]
	SubmitOrder           Handler[commands.SubmitOrderCommand, *order.Order]
	RecreateOrder         Handler[commands.RecreateOrderCommand, *order.Order]
	AppendOrderStatus     Handler[commands.AppendOrderStatusCommand, order.StatusEntry]
	ClaimOrder            Handler[commands.ClaimOrderCommand, *order.Order]
	UpdateCourierLocation Handler[commands.UpdateCourierLocationCommand, *courier.LocationPing]

	GetUserOrderHistory    Handler[queries.GetUserOrderHistoryQuery, []queries.OrderCard]
	GetUserOrder           Handler[queries.GetUserOrderQuery, queries.OrderDetail]
	GetOrderStatuses       Handler[queries.GetOrderStatusesQuery, []order.StatusEntry]
	ListFreeOrders         Handler[queries.ListFreeOrdersQuery, []queries.OrderCard]
	GetCourierCurrentOrder Handler[queries.GetCourierCurrentOrderQuery, *queries.OrderCard]
	GetCourierOrderHistory Handler[queries.GetCourierOrderHistoryQuery, []queries.OrderCard]
	GetCourierOrder        Handler[queries.GetCourierOrderQuery, queries.OrderDetail]
	GetNearbyRestaurants   Handler[queries.GetNearbyRestaurantsQuery, []queries.NearbyRestaurant]
}

var _ ServerInterface = (*Server)(nil)

// Server implements ServerInterface on top of the use case handlers.
type Server struct {
	h Handlers
}

func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

func callerID(ctx echo.Context) (kernel.UUID, error) {
	identity, err := identityOf(ctx)
	if err != nil {
		return kernel.UUID{}, err
	}
	return identity.UserID, nil
}

func toKernelID(name string, id openapi_types.UUID) (kernel.UUID, error) {
	kid, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kid, nil
}

// callerAndOrder resolves the caller and the order path parameter.
func callerAndOrder(ctx echo.Context, id openapi_types.UUID) (kernel.UUID, kernel.UUID, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	orderID, err := toKernelID("id", id)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return userID, orderID, nil
}

func bindBody(ctx echo.Context, body any) error {
	if err := ctx.Bind(body); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return nil
}

func bindLocation(ctx echo.Context) (kernel.Location, error) {
	var body Location
	if err := bindBody(ctx, &body); err != nil {
		return kernel.Location{}, err
	}
	return kernel.NewLocation(body.Latitude, body.Longitude)
}

// GetCurrentOrder handles GET /api/v1/orders/current.
func (s *Server) GetCurrentOrder(ctx echo.Context) error {
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}
	cmd, err := commands.NewGetOrCreateOpenOrderCommand(userID)
	if err != nil {
		return err
	}

	o, _, err := s.h.GetOrCreateOpenOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrder(o))
}

// GetOrderHistory handles GET /api/v1/orders.
func (s *Server) GetOrderHistory(ctx echo.Context) error {
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}
	query, err := queries.NewGetUserOrderHistoryQuery(userID)
	if err != nil {
		return err
	}

	cards, err := s.h.GetUserOrderHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrderCards(cards))
}

// GetOrder handles GET /api/v1/orders/{id}.
func (s *Server) GetOrder(ctx echo.Context, id openapi_types.UUID) error {
	userID, orderID, err := callerAndOrder(ctx, id)
	if err != nil {
		return err
	}
	query, err := queries.NewGetUserOrderQuery(orderID, userID)
	if err != nil {
		return err
	}

	detail, err := s.h.GetUserOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrderDetail(detail))
}

// SubmitOrder handles PUT /api/v1/orders/{id}/submit.
func (s *Server) SubmitOrder(ctx echo.Context, id openapi_types.UUID) error {
	userID, orderID, err := callerAndOrder(ctx, id)
	if err != nil {
		return err
	}

	var body SubmitOrderRequest
	if err = bindBody(ctx, &body); err != nil {
		return err
	}
	location, err := kernel.NewLocation(body.DeliveryLocation.Latitude, body.DeliveryLocation.Longitude)
	if err != nil {
		return err
	}

	cmd, err := commands.NewSubmitOrderCommand(orderID, userID, body.DeliveryAddress, location, body.Details)
	if err != nil {
		return err
	}
	o, err := s.h.SubmitOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrder(o))
}

// RecreateOrder handles POST /api/v1/orders/{id}/recreate.
func (s *Server) RecreateOrder(ctx echo.Context, id openapi_types.UUID) error {
	userID, orderID, err := callerAndOrder(ctx, id)
	if err != nil {
		return err
	}
	cmd, err := commands.NewRecreateOrderCommand(orderID, userID)
	if err != nil {
		return err
	}

	o, err := s.h.RecreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrder(o))
}

// AddOrderDish handles POST /api/v1/orders/{id}/dishes.
func (s *Server) AddOrderDish(ctx echo.Context, id openapi_types.UUID) error {
	userID, orderID, err := callerAndOrder(ctx, id)
	if err != nil {
		return err
	}

	var body AddDishRequest
	if err = bindBody(ctx, &body); err != nil {
		return err
	}
	dishID, err := toKernelID("dish_id", body.DishID)
	if err != nil {
		return err
	}
	quantity := order.MinQuantity
	if body.Quantity != nil {
		quantity = *body.Quantity
	}

	cmd, err := commands.NewAddOrderDishCommand(orderID, userID, dishID, quantity)
	if err != nil {
		return err
	}
	o, err := s.h.AddOrderDish.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrder(o))
}

// ClearCart handles DELETE /api/v1/orders/{id}/dishes.
func (s *Server) ClearCart(ctx echo.Context, id openapi_types.UUID) error {
	userID, orderID, err := callerAndOrder(ctx, id)
	if err != nil {
		return err
	}
	cmd, err := commands.NewClearCartCommand(orderID, userID)
	if err != nil {
		return err
	}

	o, err := s.h.RemoveOrderDish.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrder(o))
}

// UpdateOrderDish handles PUT /api/v1/orders/{id}/dishes/{dish_id}.
func (s *Server) UpdateOrderDish(ctx echo.Context, id openapi_types.UUID, dishID openapi_types.UUID) error {
	userID, orderID, err := callerAndOrder(ctx, id)
	if err != nil {
		return err
	}
	dish, err := toKernelID("dish_id", dishID)
	if err != nil {
		return err
	}

	var body UpdateDishRequest
	if err = bindBody(ctx, &body); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderDishCommand(orderID, userID, dish, body.Quantity)
	if err != nil {
		return err
	}
	o, err := s.h.UpdateOrderDish.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrder(o))
}

// RemoveOrderDish handles DELETE /api/v1/orders/{id}/dishes/{dish_id}.
func (s *Server) RemoveOrderDish(ctx echo.Context, id openapi_types.UUID, dishID openapi_types.UUID) error {
	userID, orderID, err := callerAndOrder(ctx, id)
	if err != nil {
		return err
	}
	dish, err := toKernelID("dish_id", dishID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRemoveOrderDishCommand(orderID, userID, dish)
	if err != nil {
		return err
	}
	o, err := s.h.RemoveOrderDish.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrder(o))
}

// GetOrderStatuses handles GET /api/v1/orders/{id}/statuses.
func (s *Server) GetOrderStatuses(ctx echo.Context, id openapi_types.UUID) error {
	userID, orderID, err := callerAndOrder(ctx, id)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderStatusesQuery(orderID, userID)
	if err != nil {
		return err
	}

	statuses, err := s.h.GetOrderStatuses.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toStatusEntries(statuses))
}

// AppendOrderStatus handles POST /api/v1/orders/{id}/statuses.
func (s *Server) AppendOrderStatus(ctx echo.Context, id openapi_types.UUID) error {
	return s.appendStatus(ctx, id)
}

// AdminAppendOrderStatus handles POST /api/v1/admin/orders/{id}/statuses.
// The route is guarded by AdminOnly.
func (s *Server) AdminAppendOrderStatus(ctx echo.Context, id openapi_types.UUID) error {
	return s.appendStatus(ctx, id)
}

func (s *Server) appendStatus(ctx echo.Context, id openapi_types.UUID) error {
	identity, err := identityOf(ctx)
	if err != nil {
		return err
	}
	orderID, err := toKernelID("id", id)
	if err != nil {
		return err
	}

	var body AppendStatusRequest
	if err = bindBody(ctx, &body); err != nil {
		return err
	}

	cmd, err := commands.NewAppendOrderStatusCommand(orderID, identity.UserID, body.Status, identity.IsSuperuser)
	if err != nil {
		return err
	}
	entry, err := s.h.AppendOrderStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, toStatusEntry(entry))
}

// ListFreeOrders handles GET /api/v1/courier/orders/free.
func (s *Server) ListFreeOrders(ctx echo.Context) error {
	cards, err := s.h.ListFreeOrders.Handle(ctx.Request().Context(), queries.NewListFreeOrdersQuery())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrderCards(cards))
}

// ClaimOrder handles PUT /api/v1/courier/orders/{id}/claim.
func (s *Server) ClaimOrder(ctx echo.Context, id openapi_types.UUID) error {
	userID, orderID, err := callerAndOrder(ctx, id)
	if err != nil {
		return err
	}
	location, err := bindLocation(ctx)
	if err != nil {
		return err
	}

	cmd, err := commands.NewClaimOrderCommand(orderID, userID, location)
	if err != nil {
		return err
	}
	o, err := s.h.ClaimOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrder(o))
}

// UpdateCourierLocation handles POST /api/v1/courier/orders/{id}/location.
func (s *Server) UpdateCourierLocation(ctx echo.Context, id openapi_types.UUID) error {
	userID, orderID, err := callerAndOrder(ctx, id)
	if err != nil {
		return err
	}
	location, err := bindLocation(ctx)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateCourierLocationCommand(orderID, userID, location)
	if err != nil {
		return err
	}
	ping, err := s.h.UpdateCourierLocation.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, toCourierPosition(ping))
}

// GetCourierCurrentOrder handles GET /api/v1/courier/orders/current.
// An idle courier gets 204.
func (s *Server) GetCourierCurrentOrder(ctx echo.Context) error {
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}
	query, err := queries.NewGetCourierCurrentOrderQuery(userID)
	if err != nil {
		return err
	}

	card, err := s.h.GetCourierCurrentOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	if card == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	return ctx.JSON(http.StatusOK, toOrderCard(*card))
}

// GetCourierOrderHistory handles GET /api/v1/courier/orders.
func (s *Server) GetCourierOrderHistory(ctx echo.Context) error {
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}
	query, err := queries.NewGetCourierOrderHistoryQuery(userID)
	if err != nil {
		return err
	}

	cards, err := s.h.GetCourierOrderHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrderCards(cards))
}

// GetCourierOrder handles GET /api/v1/courier/orders/{id}.
func (s *Server) GetCourierOrder(ctx echo.Context, id openapi_types.UUID) error {
	userID, orderID, err := callerAndOrder(ctx, id)
	if err != nil {
		return err
	}
	query, err := queries.NewGetCourierOrderQuery(orderID, userID)
	if err != nil {
		return err
	}

	detail, err := s.h.GetCourierOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrderDetail(detail))
}

// GetNearbyRestaurants handles GET /api/v1/restaurants/nearby.
func (s *Server) GetNearbyRestaurants(ctx echo.Context, params GetNearbyRestaurantsParams) error {
	location, err := kernel.NewLocation(params.Latitude, params.Longitude)
	if err != nil {
		return err
	}
	query, err := queries.NewGetNearbyRestaurantsQuery(location, time.Now())
	if err != nil {
		return err
	}

	restaurants, err := s.h.GetNearbyRestaurants.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toNearbyRestaurants(restaurants))
}
