package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dom/movie-night/internal/domain"
	"github.com/dom/movie-night/internal/events"
	"github.com/google/uuid"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type notification struct {
	added     bool
	movieID   int64
	userID    uuid.UUID
	createdAt time.Time
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notification
}

func (n *recordingNotifier) NotifyCommentAdded(movieID int64, userID uuid.UUID, comment domain.Comment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{added: true, movieID: movieID, userID: userID, createdAt: comment.CreatedAt})
}

func (n *recordingNotifier) NotifyCommentRemoved(movieID int64, userID uuid.UUID, createdAt time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{movieID: movieID, userID: userID, createdAt: createdAt})
}

type memoryTokenCache struct {
	mu      sync.Mutex
	entries map[string]uuid.UUID
	gets    int
	fail    bool
}

func newMemoryTokenCache() *memoryTokenCache {
	return &memoryTokenCache{entries: make(map[string]uuid.UUID)}
}

func (c *memoryTokenCache) Get(_ context.Context, token string) (uuid.UUID, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.fail {
		return uuid.Nil, false, errors.New("cache unavailable")
	}
	id, ok := c.entries[token]
	return id, ok, nil
}

func (c *memoryTokenCache) Set(_ context.Context, token string, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("cache unavailable")
	}
	c.entries[token] = userID
	return nil
}

func intPtr(v int) *int { return &v }

func statusPtr(s domain.WatchStatus) *domain.WatchStatus { return &s }
