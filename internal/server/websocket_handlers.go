package server

import (
	"encoding/json"
	"log"

	"lumen/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler upgrades the connection and registers it with the
// DM hub. One connection per user; a newer connection displaces the
// previous one.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			log.Printf("WebSocket: unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		client := s.hub.Register(userID, conn)

		// The DM socket is delivery-only; inbound frames are ignored
		// beyond keepalive handling in the read pump.

		welcome := notifications.Event{
			Type:    "connected",
			Payload: map[string]interface{}{"user_id": userID, "online_user_ids": s.hub.OnlineUserIDs()},
		}
		if welcomeJSON, err := json.Marshal(welcome); err == nil {
			client.TrySend(welcomeJSON)
		}

		go client.WritePump()

		// Read pump runs in the handler goroutine (blocking)
		client.ReadPump()
	})
}
