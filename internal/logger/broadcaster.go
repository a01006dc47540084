package logger

import (
	"encoding/json"
	"sync"
)

const (
	defaultBufferSize = 500

	// MessageTypeLogEntry is the websocket message type for streamed entries.
	MessageTypeLogEntry = "logs:entry"
)

// Broadcaster fans a message out to every connected websocket client.
type Broadcaster interface {
	Broadcast(msgType string, payload any)
}

// LogEntry is a parsed zerolog line.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Component string         `json:"component,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// LogBroadcaster is an io.Writer fed by zerolog. It keeps the most recent
// entries and forwards each one to the attached hub.
type LogBroadcaster struct {
	mu     sync.RWMutex
	hub    Broadcaster
	buffer *RingBuffer[LogEntry]
}

// NewLogBroadcaster creates a broadcaster. hub may be nil until SetHub.
func NewLogBroadcaster(hub Broadcaster, bufferSize int) *LogBroadcaster {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &LogBroadcaster{
		hub:    hub,
		buffer: NewRingBuffer[LogEntry](bufferSize),
	}
}

// SetHub attaches the hub entries are forwarded to.
func (b *LogBroadcaster) SetHub(hub Broadcaster) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hub = hub
}

// Write implements io.Writer. Malformed lines are dropped.
func (b *LogBroadcaster) Write(p []byte) (int, error) {
	entry, ok := parseLogEntry(p)
	if !ok {
		return len(p), nil
	}

	b.buffer.Push(entry)

	b.mu.RLock()
	hub := b.hub
	b.mu.RUnlock()

	if hub != nil {
		hub.Broadcast(MessageTypeLogEntry, entry)
	}
	return len(p), nil
}

// GetRecentLogs returns all buffered entries, oldest first.
func (b *LogBroadcaster) GetRecentLogs() []LogEntry {
	return b.buffer.Last(0)
}

func parseLogEntry(data []byte) (LogEntry, bool) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return LogEntry{}, false
	}

	entry := LogEntry{Fields: make(map[string]any)}
	take := func(key string) string {
		s, _ := raw[key].(string)
		delete(raw, key)
		return s
	}
	entry.Timestamp = take(zerologTimeKey)
	entry.Level = take(zerologLevelKey)
	entry.Component = take("component")
	entry.Message = take(zerologMessageKey)

	for k, v := range raw {
		entry.Fields[k] = v
	}
	return entry, true
}

const (
	zerologTimeKey    = "time"
	zerologLevelKey   = "level"
	zerologMessageKey = "message"
)
