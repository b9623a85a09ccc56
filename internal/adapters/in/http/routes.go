package http

import (
	"fmt"
	"net/http"

	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface lists the operations of openapi.yaml.
type ServerInterface interface {
	// (GET /api/v1/orders/current)
	GetCurrentOrder(ctx echo.Context) error
	// (GET /api/v1/orders)
	GetOrderHistory(ctx echo.Context) error
	// (GET /api/v1/orders/{id})
	GetOrder(ctx echo.Context, id openapi_types.UUID) error
	// (PUT /api/v1/orders/{id}/submit)
	SubmitOrder(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/v1/orders/{id}/recreate)
	RecreateOrder(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/v1/orders/{id}/dishes)
	AddOrderDish(ctx echo.Context, id openapi_types.UUID) error
	// (DELETE /api/v1/orders/{id}/dishes)
	ClearCart(ctx echo.Context, id openapi_types.UUID) error
	// (PUT /api/v1/orders/{id}/dishes/{dish_id})
	UpdateOrderDish(ctx echo.Context, id openapi_types.UUID, dishID openapi_types.UUID) error
	// (DELETE /api/v1/orders/{id}/dishes/{dish_id})
	RemoveOrderDish(ctx echo.Context, id openapi_types.UUID, dishID openapi_types.UUID) error
	// (GET /api/v1/orders/{id}/statuses)
	GetOrderStatuses(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/v1/orders/{id}/statuses)
	AppendOrderStatus(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/v1/admin/orders/{id}/statuses)
	AdminAppendOrderStatus(ctx echo.Context, id openapi_types.UUID) error
	// (GET /api/v1/courier/orders/free)
	ListFreeOrders(ctx echo.Context) error
	// (PUT /api/v1/courier/orders/{id}/claim)
	ClaimOrder(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/v1/courier/orders/{id}/location)
	UpdateCourierLocation(ctx echo.Context, id openapi_types.UUID) error
	// (GET /api/v1/courier/orders/current)
	GetCourierCurrentOrder(ctx echo.Context) error
	// (GET /api/v1/courier/orders)
	GetCourierOrderHistory(ctx echo.Context) error
	// (GET /api/v1/courier/orders/{id})
	GetCourierOrder(ctx echo.Context, id openapi_types.UUID) error
	// (GET /api/v1/restaurants/nearby)
	GetNearbyRestaurants(ctx echo.Context, params GetNearbyRestaurantsParams) error
}

// GetNearbyRestaurantsParams are the query parameters of GetNearbyRestaurants.
type GetNearbyRestaurantsParams struct {
	Latitude  float64 `form:"latitude" json:"latitude"`
	Longitude float64 `form:"longitude" json:"longitude"`
}

// ServerInterfaceWrapper binds path and query parameters before calling
// the ServerInterface.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func bindUUID(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("invalid format for parameter %s: %w", name, err))
	}
	return id, nil
}

func (w *ServerInterfaceWrapper) withID(call func(echo.Context, openapi_types.UUID) error) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := bindUUID(ctx, "id")
		if err != nil {
			return err
		}
		return call(ctx, id)
	}
}

func (w *ServerInterfaceWrapper) withIDAndDish(
	call func(echo.Context, openapi_types.UUID, openapi_types.UUID) error,
) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := bindUUID(ctx, "id")
		if err != nil {
			return err
		}
		dishID, err := bindUUID(ctx, "dish_id")
		if err != nil {
			return err
		}
		return call(ctx, id, dishID)
	}
}

// GetNearbyRestaurants converts the query parameters.
func (w *ServerInterfaceWrapper) GetNearbyRestaurants(ctx echo.Context) error {
	var params GetNearbyRestaurantsParams

	if err := runtime.BindQueryParameter("form", true, true, "latitude", ctx.QueryParams(), &params.Latitude); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("latitude", err)
	}
	if err := runtime.BindQueryParameter("form", true, true, "longitude", ctx.QueryParams(), &params.Longitude); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("longitude", err)
	}

	return w.Handler.GetNearbyRestaurants(ctx, params)
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	Add(method string, path string, handler echo.HandlerFunc, middlewares ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers mounts every operation under baseURL. adminOnly guards the
// admin routes.
func RegisterHandlers(router EchoRouter, si ServerInterface, baseURL string, adminOnly echo.MiddlewareFunc) {
	w := &ServerInterfaceWrapper{Handler: si}

	var admin []echo.MiddlewareFunc
	if adminOnly != nil {
		admin = append(admin, adminOnly)
	}

	router.Add(http.MethodGet, baseURL+"/orders/current", si.GetCurrentOrder)
	router.Add(http.MethodGet, baseURL+"/orders", si.GetOrderHistory)
	router.Add(http.MethodGet, baseURL+"/orders/:id", w.withID(si.GetOrder))
	router.Add(http.MethodPut, baseURL+"/orders/:id/submit", w.withID(si.SubmitOrder))
	router.Add(http.MethodPost, baseURL+"/orders/:id/recreate", w.withID(si.RecreateOrder))
	router.Add(http.MethodPost, baseURL+"/orders/:id/dishes", w.withID(si.AddOrderDish))
	router.Add(http.MethodDelete, baseURL+"/orders/:id/dishes", w.withID(si.ClearCart))
	router.Add(http.MethodPut, baseURL+"/orders/:id/dishes/:dish_id", w.withIDAndDish(si.UpdateOrderDish))
	router.Add(http.MethodDelete, baseURL+"/orders/:id/dishes/:dish_id", w.withIDAndDish(si.RemoveOrderDish))
	router.Add(http.MethodGet, baseURL+"/orders/:id/statuses", w.withID(si.GetOrderStatuses))
	router.Add(http.MethodPost, baseURL+"/orders/:id/statuses", w.withID(si.AppendOrderStatus))
	router.Add(http.MethodPost, baseURL+"/admin/orders/:id/statuses", w.withID(si.AdminAppendOrderStatus), admin...)
	router.Add(http.MethodGet, baseURL+"/courier/orders/free", si.ListFreeOrders)
	router.Add(http.MethodPut, baseURL+"/courier/orders/:id/claim", w.withID(si.ClaimOrder))
	router.Add(http.MethodPost, baseURL+"/courier/orders/:id/location", w.withID(si.UpdateCourierLocation))
	router.Add(http.MethodGet, baseURL+"/courier/orders/current", si.GetCourierCurrentOrder)
	router.Add(http.MethodGet, baseURL+"/courier/orders", si.GetCourierOrderHistory)
	router.Add(http.MethodGet, baseURL+"/courier/orders/:id", w.withID(si.GetCourierOrder))
	router.Add(http.MethodGet, baseURL+"/restaurants/nearby", w.GetNearbyRestaurants)
}
