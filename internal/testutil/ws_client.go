package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dom/movie-night/internal/websocket"
	gorillaWS "github.com/gorilla/websocket"
)

// WSClient subscribes to one comment feed and buffers what it receives
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *websocket.Message
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient dials url and starts reading; the connection closes on cleanup
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := *gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *websocket.Message, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// readPump reads messages from the WebSocket connection
func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			case c.errors <- err:
			default:
			}
			return
		}

		var msg websocket.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			select {
			case c.errors <- err:
			default:
			}
			continue
		}

		select {
		case c.messages <- &msg:
		case <-c.done:
			return
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

// ExpectMessage waits for a message of the specified type, skipping others
func (c *WSClient) ExpectMessage(msgType websocket.MessageType, timeout time.Duration) *websocket.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
			}
			if msg.Type == msgType {
				return msg
			}
		case err := <-c.errors:
			c.t.Fatalf("error while waiting for %s: %v", msgType, err)
		case <-deadline:
			c.t.Fatalf("timeout waiting for message type %s", msgType)
		}
	}
}

// ExpectSubscribed waits for the subscription acknowledgement
func (c *WSClient) ExpectSubscribed(timeout time.Duration) *websocket.SubscribedPayload {
	c.t.Helper()
	return expectPayload[websocket.SubscribedPayload](c, websocket.MessageTypeSubscribed, timeout)
}

// ExpectCommentAdded waits for a COMMENT_ADDED message
func (c *WSClient) ExpectCommentAdded(timeout time.Duration) *websocket.CommentAddedPayload {
	c.t.Helper()
	return expectPayload[websocket.CommentAddedPayload](c, websocket.MessageTypeCommentAdded, timeout)
}

// ExpectCommentRemoved waits for a COMMENT_REMOVED message
func (c *WSClient) ExpectCommentRemoved(timeout time.Duration) *websocket.CommentRemovedPayload {
	c.t.Helper()
	return expectPayload[websocket.CommentRemovedPayload](c, websocket.MessageTypeCommentRemoved, timeout)
}

func expectPayload[T any](c *WSClient, msgType websocket.MessageType, timeout time.Duration) *T {
	c.t.Helper()

	msg := c.ExpectMessage(msgType, timeout)
	payload := new(T)
	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		c.t.Fatalf("failed to decode %s payload: %v", msgType, err)
	}
	return payload
}

// ExpectNoMessage verifies no messages are received within timeout
func (c *WSClient) ExpectNoMessage(timeout time.Duration) {
	c.t.Helper()

	select {
	case msg := <-c.messages:
		if msg != nil {
			c.t.Fatalf("unexpected message received: %s", msg.Type)
		}
	case <-time.After(timeout):
	}
}
