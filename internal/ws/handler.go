package ws

import (
	"net/http"
	"strconv"

	"github.com/codecraftak/arcade-backend/internal/pkg/middleware"
	"github.com/codecraftak/arcade-backend/internal/pkg/reject"
	"github.com/codecraftak/arcade-backend/internal/pkg/utils"
	"github.com/codecraftak/arcade-backend/internal/pkg/ws"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type wsHandler struct {
	notificationHub *ws.WebSocketNotificationHub
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func RegisterRoutes(rg *gin.RouterGroup) {
	handler := wsHandler{
		notificationHub: ws.NewNotificationHub(),
	}

	routes := rg.Group("/ws")
	routes.GET("/game/:id", middleware.VerifyAuthToken, handler.serveGameFeed)
	routes.GET("/user", middleware.VerifyAuthToken, handler.serveUserFeed)
}

// serveGameFeed streams change events for one session to any observer of it.
func (wsh *wsHandler) serveGameFeed(c *gin.Context) {
	gameId, parseErr := strconv.ParseUint(c.Param("id"), 0, 64)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	wsh.serve(c, ws.GameTopic(gameId))
}

// serveUserFeed streams invite events addressed to the calling player.
func (wsh *wsHandler) serveUserFeed(c *gin.Context) {
	wsh.serve(c, ws.UserTopic(utils.GetUserId(c)))
}

func (wsh *wsHandler) serve(c *gin.Context, topic string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Error upgrading ws connection")
		return
	}
	defer wsh.notificationHub.UnregisterListener(topic, conn)

	wsh.notificationHub.RegisterListener(topic, conn)

	for {
		var buffer any
		if err := conn.ReadJSON(&buffer); err != nil {
			log.Warn().Err(err).Msg("Error reading ws message")
			return
		}
	}
}
