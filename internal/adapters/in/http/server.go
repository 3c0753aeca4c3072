// Package http exposes the order and zone operations over a JSON REST API
// built on echo. Handlers translate wire requests into commands and queries;
// domain errors map onto HTTP statuses through their sentinel classes.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server handles the HTTP surface of the dispatch system.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler     commands.CreateOrderCommandHandler
	shipOrderHandler       commands.ShipOrderCommandHandler
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler
	cancelOrderHandler     commands.CancelOrderCommandHandler
	createZoneHandler      commands.CreateZoneCommandHandler
	updateZoneHandler      commands.UpdateZoneCommandHandler
	deleteZoneHandler      commands.DeleteZoneCommandHandler

	// Query handlers
	getOrderTrackHandler    queries.GetOrderTrackQueryHandler
	getActiveOrdersHandler  queries.GetActiveOrdersQueryHandler
	getZonesHandler         queries.GetZonesQueryHandler
	findDeliveryRuleHandler queries.FindDeliveryRuleQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	shipOrderHandler commands.ShipOrderCommandHandler,
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	createZoneHandler commands.CreateZoneCommandHandler,
	updateZoneHandler commands.UpdateZoneCommandHandler,
	deleteZoneHandler commands.DeleteZoneCommandHandler,
	getOrderTrackHandler queries.GetOrderTrackQueryHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
	getZonesHandler queries.GetZonesQueryHandler,
	findDeliveryRuleHandler queries.FindDeliveryRuleQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:      createOrderHandler,
		shipOrderHandler:        shipOrderHandler,
		confirmDeliveryHandler:  confirmDeliveryHandler,
		cancelOrderHandler:      cancelOrderHandler,
		createZoneHandler:       createZoneHandler,
		updateZoneHandler:       updateZoneHandler,
		deleteZoneHandler:       deleteZoneHandler,
		getOrderTrackHandler:    getOrderTrackHandler,
		getActiveOrdersHandler:  getActiveOrdersHandler,
		getZonesHandler:         getZonesHandler,
		findDeliveryRuleHandler: findDeliveryRuleHandler,
	}
}

// RegisterRoutes binds all endpoints onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.GET("/orders/:id/track", s.GetOrderTrack)
	api.POST("/orders/:id/ship", s.ShipOrder)
	api.POST("/orders/:id/confirm", s.ConfirmDelivery)
	api.POST("/orders/:id/cancel", s.CancelOrder)

	api.GET("/zones", s.GetZones)
	api.POST("/zones", s.CreateZone)
	api.PUT("/zones/:id", s.UpdateZone)
	api.DELETE("/zones/:id", s.DeleteZone)

	api.GET("/delivery-rule", s.FindDeliveryRule)
}

// CreateOrder handles POST /api/v1/orders - registers a new delivery order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	merchantID, err := kernel.UUIDFromString(req.MerchantID)
	if err != nil {
		return badRequest(ctx, "Invalid merchantId: "+err.Error())
	}
	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return badRequest(ctx, "Invalid userId: "+err.Error())
	}
	recipient, err := coordinateFromPoint(req.Recipient)
	if err != nil {
		return errorResponse(ctx, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, merchantID, userID,
		req.Amount, req.RecipientName, req.RecipientAddress, recipient)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedOrderResponse{OrderID: orderID.String()})
}

// ShipOrder handles POST /api/v1/orders/:id/ship - dispatches a pending order
// along a route.
func (s *Server) ShipOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var req ShipOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	route, err := coordinatesFromPoints(req.RoutePath)
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewShipOrderCommand(orderID, req.RuleID, route)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.shipOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ConfirmDelivery handles POST /api/v1/orders/:id/confirm - the recipient
// confirms receipt of an arrived order.
func (s *Server) ConfirmDelivery(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var req ConfirmDeliveryRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return badRequest(ctx, "Invalid userId: "+err.Error())
	}

	cmd, err := commands.NewConfirmDeliveryCommand(orderID, userID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.confirmDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOrderTrack handles GET /api/v1/orders/:id/track - the full tracking view
// of one order.
func (s *Server) GetOrderTrack(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	query, err := queries.NewGetOrderTrackQuery(orderID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	track, err := s.getOrderTrackHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OrderTrackResponse{
		OrderID:         track.OrderID.String(),
		Status:          track.Status,
		Recipient:       pointFromCoordinate(track.Recipient),
		RoutePath:       pointsFromCoordinates(track.RoutePath),
		TraveledPath:    pointsFromCoordinates(track.TraveledPath),
		CurrentPosition: optionalPoint(track.CurrentPosition),
		LastUpdateTime:  track.LastUpdateTime,
		IsAbnormal:      track.IsAbnormal,
		AbnormalReason:  track.AbnormalReason,
	})
}

// GetActiveOrders handles GET /api/v1/orders/active - every order not yet
// delivered or cancelled.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	query := queries.NewGetActiveOrdersQuery()

	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]ActiveOrderResponse, len(orders))
	for i, o := range orders {
		response[i] = ActiveOrderResponse{
			OrderID:         o.OrderID.String(),
			Status:          o.Status,
			Recipient:       pointFromCoordinate(o.Recipient),
			CurrentPosition: optionalPoint(o.CurrentPosition),
			IsAbnormal:      o.IsAbnormal,
			AbnormalReason:  o.AbnormalReason,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateZone handles POST /api/v1/zones.
func (s *Server) CreateZone(ctx echo.Context) error {
	var req CreateZoneRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	merchantID, err := kernel.UUIDFromString(req.MerchantID)
	if err != nil {
		return badRequest(ctx, "Invalid merchantId: "+err.Error())
	}

	shape, err := shapeFromWire(req.Shape)
	if err != nil {
		return errorResponse(ctx, err)
	}

	zoneID := kernel.NewUUID()
	cmd, err := commands.NewCreateZoneCommand(zoneID, merchantID, req.Name,
		req.Description, req.RuleID, shape)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.createZoneHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedZoneResponse{ZoneID: zoneID.String()})
}

// UpdateZone handles PUT /api/v1/zones/:id.
func (s *Server) UpdateZone(ctx echo.Context) error {
	zoneID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid zone id: "+err.Error())
	}

	var req UpdateZoneRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	merchantID, err := kernel.UUIDFromString(req.MerchantID)
	if err != nil {
		return badRequest(ctx, "Invalid merchantId: "+err.Error())
	}

	shape, err := shapeFromWire(req.Shape)
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewUpdateZoneCommand(zoneID, merchantID, req.Name,
		req.Description, req.RuleID, shape)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.updateZoneHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeleteZone handles DELETE /api/v1/zones/:id. The owning merchant comes from
// the merchantId query parameter.
func (s *Server) DeleteZone(ctx echo.Context) error {
	zoneID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid zone id: "+err.Error())
	}

	merchantID, err := kernel.UUIDFromString(ctx.QueryParam("merchantId"))
	if err != nil {
		return badRequest(ctx, "Invalid merchantId: "+err.Error())
	}

	cmd, err := commands.NewDeleteZoneCommand(zoneID, merchantID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.deleteZoneHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetZones handles GET /api/v1/zones - a merchant's zones in creation order.
func (s *Server) GetZones(ctx echo.Context) error {
	merchantID, err := kernel.UUIDFromString(ctx.QueryParam("merchantId"))
	if err != nil {
		return badRequest(ctx, "Invalid merchantId: "+err.Error())
	}

	query, err := queries.NewGetZonesQuery(merchantID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	zones, err := s.getZonesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]ZoneResponse, len(zones))
	for i, z := range zones {
		response[i] = ZoneResponse{
			ZoneID:      z.ZoneID.String(),
			Name:        z.Name,
			Description: z.Description,
			RuleID:      z.RuleID,
			Shape:       shapeToWire(z.ShapeKind, z.Ring, z.Center, z.RadiusMeters),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// FindDeliveryRule handles GET /api/v1/delivery-rule - resolves which zone
// covers a point and which dispatch rule applies.
func (s *Server) FindDeliveryRule(ctx echo.Context) error {
	lon, err := strconv.ParseFloat(ctx.QueryParam("lon"), 64)
	if err != nil {
		return badRequest(ctx, "Invalid lon: "+err.Error())
	}
	lat, err := strconv.ParseFloat(ctx.QueryParam("lat"), 64)
	if err != nil {
		return badRequest(ctx, "Invalid lat: "+err.Error())
	}

	point, err := kernel.NewCoordinate(lon, lat)
	if err != nil {
		return errorResponse(ctx, err)
	}

	query, err := queries.NewFindDeliveryRuleQuery(point)
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := s.findDeliveryRuleHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := DeliveryRuleResponse{Deliverable: result.Deliverable}
	if result.Deliverable {
		response.RuleID = result.RuleID
		response.ZoneID = result.ZoneID.String()
	}

	return ctx.JSON(http.StatusOK, response)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// errorResponse maps a domain error onto an HTTP status via its sentinel class.
func errorResponse(ctx echo.Context, err error) error {
	status := statusFor(err)
	return ctx.JSON(status, Error{
		Code:    status,
		Message: err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, errs.ErrOutOfDeliveryArea):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
