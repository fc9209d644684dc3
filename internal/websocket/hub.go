package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/dom/movie-night/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type broadcast struct {
	movieID int64
	data    []byte
}

// Hub fans comment activity out to the clients subscribed to each movie.
// All subscription state is owned by the Run goroutine.
type Hub struct {
	feeds      map[int64]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcast
	counts     chan countRequest
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	logger     *zap.SugaredLogger
	mu         sync.RWMutex
}

type countRequest struct {
	movieID int64
	reply   chan int
}

func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		feeds:      make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcast, 256),
		counts:     make(chan countRequest),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			h.mu.Unlock()

			for _, clients := range h.feeds {
				for client := range clients {
					client.Close()
				}
			}
			h.feeds = make(map[int64]map[*Client]bool)
			return

		case client := <-h.register:
			clients, ok := h.feeds[client.movieID]
			if !ok {
				clients = make(map[*Client]bool)
				h.feeds[client.movieID] = clients
			}
			clients[client] = true

			if data, err := encode(MessageTypeSubscribed, SubscribedPayload{MovieID: client.movieID}); err == nil {
				client.trySend(data)
			}

		case client := <-h.unregister:
			h.remove(client)

		case b := <-h.broadcast:
			for client := range h.feeds[b.movieID] {
				if !client.trySend(b.data) {
					h.logger.Warnw("dropping slow comment feed client", "movieId", b.movieID)
					h.remove(client)
				}
			}

		case req := <-h.counts:
			req.reply <- len(h.feeds[req.movieID])
		}
	}
}

func (h *Hub) remove(client *Client) {
	clients, ok := h.feeds[client.movieID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	client.Close()
	if len(clients) == 0 {
		delete(h.feeds, client.movieID)
	}
}

// Stop shuts the hub down and blocks until Run has returned.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

func (h *Hub) isStopped() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stopped
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SubscriberCount returns how many clients follow movieID.
func (h *Hub) SubscriberCount(movieID int64) int {
	reply := make(chan int, 1)
	select {
	case h.counts <- countRequest{movieID: movieID, reply: reply}:
		return <-reply
	case <-h.done:
		return 0
	}
}

func (h *Hub) NotifyCommentAdded(movieID int64, userID uuid.UUID, comment domain.Comment) {
	h.publish(movieID, MessageTypeCommentAdded, CommentAddedPayload{
		MovieID: movieID,
		UserID:  userID,
		Comment: comment,
	})
}

func (h *Hub) NotifyCommentRemoved(movieID int64, userID uuid.UUID, createdAt time.Time) {
	h.publish(movieID, MessageTypeCommentRemoved, CommentRemovedPayload{
		MovieID:   movieID,
		UserID:    userID,
		CreatedAt: createdAt,
	})
}

func (h *Hub) publish(movieID int64, msgType MessageType, payload interface{}) {
	if h.isStopped() {
		return
	}

	data, err := encode(msgType, payload)
	if err != nil {
		h.logger.Errorw("failed to encode feed message", "type", msgType, "error", err)
		return
	}

	select {
	case h.broadcast <- broadcast{movieID: movieID, data: data}:
	case <-h.done:
	default:
		h.logger.Warnw("comment feed backlog full, dropping message", "movieId", movieID, "type", msgType)
	}
}

func encode(msgType MessageType, payload interface{}) ([]byte, error) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(msg)
}
