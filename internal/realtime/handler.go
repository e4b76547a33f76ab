package realtime

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type realtimeHandler struct {
	log *logrus.Entry
	hub *Hub
}

func NewHandler(hub *Hub, log *logrus.Entry) *realtimeHandler {
	return &realtimeHandler{
		log: log,
		hub: hub,
	}
}

func (h *realtimeHandler) Register(router *gin.Engine) {
	router.GET("/ws/orders", h.ordersFeed)
}

// ordersFeed streams order row changes to an admin view. An orderId query
// parameter narrows the feed to a single order detail page.
func (h *realtimeHandler) ordersFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var filter Filter
	if raw := c.Query("orderId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid orderId"))
			return
		}
		filter.OrderID = uint(id)
	}

	sub := h.hub.Subscribe(filter)
	defer sub.Close()

	// The read pump only detects the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
