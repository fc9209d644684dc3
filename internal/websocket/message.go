package websocket

import (
	"encoding/json"
	"time"

	"github.com/dom/movie-night/internal/domain"
	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeSubscribed     MessageType = "SUBSCRIBED"
	MessageTypeCommentAdded   MessageType = "COMMENT_ADDED"
	MessageTypeCommentRemoved MessageType = "COMMENT_REMOVED"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

type SubscribedPayload struct {
	MovieID int64 `json:"movieId"`
}

type CommentAddedPayload struct {
	MovieID int64          `json:"movieId"`
	UserID  uuid.UUID      `json:"userId"`
	Comment domain.Comment `json:"comment"`
}

type CommentRemovedPayload struct {
	MovieID   int64     `json:"movieId"`
	UserID    uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
