package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a view to deskId. initial, when non-nil, is sent before any event.
func ServeWs(hub *Hub, c *websocket.Conn, deskId string, initial []byte) {
	client := &Client{Hub: hub, Conn: c, DeskId: deskId, Send: make(chan []byte, 256)}
	if initial != nil {
		client.Send <- initial
	}
	if !hub.attach(client) {
		return
	}

	go client.writePump()
	client.readPump()
}
