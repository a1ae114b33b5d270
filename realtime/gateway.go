package realtime

import (
	"net/http"
	"strings"

	"kree/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// AuthFunc resolves a bearer token to a live user. It must fail for
// malformed, expired or mis-signed tokens and for identities that no longer
// exist.
type AuthFunc func(token string) (*models.User, error)

// Gateway authenticates persistent connections and attaches them to the
// room directory. Authentication failure is terminal for the attempt: the
// connection is refused before any upgrade or room join, and the client must
// reconnect with fresh credentials.
type Gateway struct {
	hub      *Hub
	auth     AuthFunc
	handler  EventHandler
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewGateway builds the session gateway.
func NewGateway(hub *Hub, auth AuthFunc, handler EventHandler, logger *zap.Logger) *Gateway {
	return &Gateway{
		hub:     hub,
		auth:    auth,
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// bearerToken extracts the handshake credential from the query string or the
// Authorization header.
func bearerToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// ServeWS is the websocket handshake endpoint.
func (g *Gateway) ServeWS(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication error"})
		return
	}

	user, err := g.auth(token)
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication error"})
		return
	}

	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(user, conn, g.hub, g.handler, g.logger)
	g.hub.Register(client)
	// Every session is addressable through its personal room without
	// further negotiation.
	g.hub.Join(client, PersonalRoom(user.Role, user.ID))

	g.logger.Info("session connected",
		zap.String("user", user.ID),
		zap.String("role", string(user.Role)))

	go client.WritePump()
	go client.ReadPump()
}

// Hub exposes the room directory for event routing.
func (g *Gateway) Hub() *Hub {
	return g.hub
}
