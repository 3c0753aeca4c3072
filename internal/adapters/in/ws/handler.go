package ws

import (
	"errors"
	"log/slog"
	"net/http"

	"dispatch/internal/broadcast"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var errSendBufferFull = errors.New("subscriber send buffer is full")

// Handler upgrades HTTP requests to WebSocket subscriptions on order events.
type Handler struct {
	broadcaster  *broadcast.Broadcaster
	upgrader     websocket.Upgrader
	reorderLimit int
	logger       *slog.Logger
}

// NewHandler creates the WebSocket handler. reorderLimit bounds how many
// out-of-order events a connection withholds before flushing.
func NewHandler(broadcaster *broadcast.Broadcaster, reorderLimit int, logger *slog.Logger) *Handler {
	return &Handler{
		broadcaster: broadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		reorderLimit: reorderLimit,
		logger:       logger.With("component", "ws"),
	}
}

// RegisterRoutes binds the subscription endpoint onto the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/orders/:id", h.Subscribe)
}

// Subscribe handles GET /ws/orders/:id - upgrades the connection and streams
// the order's position and status events until the client disconnects.
func (h *Handler) Subscribe(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid order id: " + err.Error(),
		})
	}

	conn, err := h.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return err
	}

	subscriberID := kernel.NewUUID().String()
	client := newClient(subscriberID, conn, h.reorderLimit, h.logger)

	h.broadcaster.Subscribe(orderID, client)
	h.logger.Info("subscriber connected", "orderID", orderID, "subscriberID", subscriberID)

	go client.writePump()
	go client.readPump(func() {
		h.broadcaster.Unsubscribe(orderID, subscriberID)
		h.logger.Info("subscriber disconnected", "orderID", orderID, "subscriberID", subscriberID)
	})

	return nil
}
