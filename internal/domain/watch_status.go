package domain

import (
	"bytes"
	"encoding/json"
)

// WatchStatus tracks where a user is with a movie
type WatchStatus string

const (
	WatchStatusNotStarted   WatchStatus = "not_started"
	WatchStatusWatching     WatchStatus = "watching"
	WatchStatusWatched      WatchStatus = "watched"
	WatchStatusWillNotWatch WatchStatus = "will_not_watch"
)

// AllWatchStatuses contains all valid statuses in order
var AllWatchStatuses = []WatchStatus{
	WatchStatusNotStarted,
	WatchStatusWatching,
	WatchStatusWatched,
	WatchStatusWillNotWatch,
}

// IsValid checks if a status is valid
func (s WatchStatus) IsValid() bool {
	switch s {
	case WatchStatusNotStarted, WatchStatusWatching, WatchStatusWatched, WatchStatusWillNotWatch:
		return true
	}
	return false
}

func (s WatchStatus) String() string {
	return string(s)
}

// ParseWatchStatus accepts the enum values plus the legacy "watch"/"watched"
// strings and "true"/"false" booleans older clients send.
func ParseWatchStatus(raw string) (WatchStatus, error) {
	switch raw {
	case "true":
		return WatchStatusWatched, nil
	case "false":
		return WatchStatusNotStarted, nil
	case "watch":
		return WatchStatusWatching, nil
	}
	s := WatchStatus(raw)
	if !s.IsValid() {
		return "", ErrInvalidWatchStatus
	}
	return s, nil
}

// UnmarshalJSON accepts either a status string or a legacy boolean.
func (s *WatchStatus) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")) {
		parsed, _ := ParseWatchStatus(string(data))
		*s = parsed
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrInvalidWatchStatus
	}
	parsed, err := ParseWatchStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
