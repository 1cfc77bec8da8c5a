package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/catering-app/feed"
	"github.com/yeremiapane/catering-app/middlewares"
	"github.com/yeremiapane/catering-app/utils"
)

type FeedController struct {
	Hub      *feed.Hub
	upgrader websocket.Upgrader
}

// NewFeedController accepts upgrades from the given origins; "*" accepts any.
func NewFeedController(hub *feed.Hub, origins []string) *FeedController {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	_, anyOrigin := allowed["*"]

	return &FeedController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || anyOrigin {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Connect -> websocket endpoint streaming booking and order events
func (fc *FeedController) Connect(c *gin.Context) {
	id := middlewares.CurrentIdentity(c)

	ws, err := fc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Feed upgrade failed: %v", err)
		return
	}

	fc.Hub.Register(ws, id.Role)
	utils.InfoLogger.Infof("Feed client connected: user %d (%s)", id.UserID, id.Role)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	fc.Hub.Unregister(ws)
}
