// Package events publishes rating and comment activity to RabbitMQ so other
// consumers (feeds, recommendations) can react without polling the store.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeRatingUpserted = "rating.upserted"
	TypeCommentAdded   = "comment.added"
	TypeCommentRemoved = "comment.removed"
)

// Event is the message body. Type doubles as the routing key.
type Event struct {
	Type       string     `json:"type"`
	UserID     uuid.UUID  `json:"userId"`
	MovieID    int64      `json:"movieId"`
	RatingID   uuid.UUID  `json:"ratingId,omitempty"`
	Created    bool       `json:"created,omitempty"`
	CommentAt  *time.Time `json:"commentCreatedAt,omitempty"`
	OccurredAt time.Time  `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
