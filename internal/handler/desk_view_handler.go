package handler

import (
	"encoding/json"
	"errors"

	"sales-assist-bff/internal/constant"
	"sales-assist-bff/internal/dto"
	"sales-assist-bff/internal/pkg/logger"
	"sales-assist-bff/internal/service"
	internalWS "sales-assist-bff/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const viewModule = "DeskViewHandler"

// DeskViewHandler streams desk events to browser views over WebSocket.
type DeskViewHandler struct {
	desks  service.IDeskService
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewDeskViewHandler(desks service.IDeskService, hub *internalWS.Hub, log logger.ILogger) *DeskViewHandler {
	return &DeskViewHandler{
		desks:  desks,
		hub:    hub,
		logger: log,
	}
}

// ServeWs upgrades the request and sends the current session before any event.
// Desks owned by another instance are served from the state that instance shares.
func (h *DeskViewHandler) ServeWs(c *fiber.Ctx) error {
	deskId := c.Params("id")

	initial, err := h.initialFrame(c, deskId)
	if err != nil {
		return err
	}
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info(viewModule, "View attached", map[string]interface{}{"desk_id": deskId})
		internalWS.ServeWs(h.hub, conn, deskId, initial)
		h.logger.Info(viewModule, "View detached", map[string]interface{}{"desk_id": deskId})
	})(c)
}

func (h *DeskViewHandler) initialFrame(c *fiber.Ctx, deskId string) ([]byte, error) {
	snap, err := h.desks.Show(c.UserContext(), deskId)
	if errors.Is(err, service.ErrDeskNotFound) {
		if frame, ok := h.hub.LastState(c.UserContext(), deskId); ok {
			h.logger.Debug(viewModule, "Attaching to desk owned by another instance", map[string]interface{}{"desk_id": deskId})
			return frame, nil
		}
		return nil, fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return nil, err
	}

	return json.Marshal(dto.DeskEventMessage{
		DeskId:  deskId,
		Type:    constant.DeskEventStateChanged,
		Session: snap,
	})
}

func (h *DeskViewHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/desks/:id", h.ServeWs)
}
