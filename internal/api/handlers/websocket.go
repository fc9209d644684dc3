package handlers

import (
	"net/http"

	"github.com/dom/movie-night/internal/websocket"
	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is open for every origin
	},
}

type WebSocketHandler struct {
	hub    *websocket.Hub
	logger *zap.SugaredLogger
}

func NewWebSocketHandler(hub *websocket.Hub, logger *zap.SugaredLogger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
	}
}

// CommentFeed subscribes the connection to live comment activity for one movie.
func (h *WebSocketHandler) CommentFeed(w http.ResponseWriter, r *http.Request) {
	movieID, ok := movieIDParam(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "movieId", movieID, "error", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, movieID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
