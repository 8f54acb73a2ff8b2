package handlers

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/soniarr234/fitlover-back/internal/middleware"
	routinews "github.com/soniarr234/fitlover-back/internal/websocket"
)

type identityResolver interface {
	Resolve(token string) (int64, error)
}

// RoutineStreamHandler upgrades authenticated requests to a websocket that
// receives the caller's routine events.
type RoutineStreamHandler struct {
	hub      *routinews.Hub
	resolver identityResolver
}

func NewRoutineStreamHandler(hub *routinews.Hub, resolver identityResolver) *RoutineStreamHandler {
	return &RoutineStreamHandler{hub: hub, resolver: resolver}
}

// Upgrade authenticates with ?token= since browsers cannot set headers on a
// websocket handshake; a bearer header is accepted as well.
func (h *RoutineStreamHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "Websocket upgrade required"})
	}

	token := c.Query("token")
	if token == "" {
		if header := c.Get(fiber.HeaderAuthorization); len(header) > len("Bearer ") {
			token = header[len("Bearer "):]
		}
	}

	userID, err := h.resolver.Resolve(token)
	if err != nil {
		return invalidToken(c)
	}
	middleware.SetUserID(c, userID)
	return c.Next()
}

func (h *RoutineStreamHandler) Stream(conn *websocket.Conn) {
	userID, ok := conn.Locals("user_id").(int64)
	if !ok || userID <= 0 {
		_ = conn.Close()
		return
	}

	client := routinews.NewClient(h.hub, conn, userID)
	h.hub.Register(client)

	go client.WritePump()
	client.ReadPump()
}
