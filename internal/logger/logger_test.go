package logger

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHub struct {
	mu       sync.Mutex
	messages []LogEntry
}

func (h *recordingHub) Broadcast(msgType string, payload any) {
	if msgType != MessageTypeLogEntry {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, payload.(LogEntry))
}

func TestRingBuffer_Overwrites(t *testing.T) {
	rb := NewRingBuffer[int](3)
	for i := 1; i <= 5; i++ {
		rb.Push(i)
	}

	assert.Equal(t, 3, rb.Len())
	assert.Equal(t, []int{3, 4, 5}, rb.Last(0))
	assert.Equal(t, []int{4, 5}, rb.Last(2))
}

func TestRingBuffer_ZeroCapacity(t *testing.T) {
	rb := NewRingBuffer[string](0)
	rb.Push("a")
	rb.Push("b")
	assert.Equal(t, []string{"b"}, rb.Last(10))
}

func TestLogBroadcaster_ParsesAndForwards(t *testing.T) {
	hub := &recordingHub{}
	b := NewLogBroadcaster(nil, 10)

	log := zerolog.New(b)
	log.Info().Str("component", "gateway-client").Int("status", 502).Msg("Gateway returned error status")

	entries := b.GetRecentLogs()
	require.Len(t, entries, 1)
	assert.Equal(t, "info", entries[0].Level)
	assert.Equal(t, "gateway-client", entries[0].Component)
	assert.Equal(t, "Gateway returned error status", entries[0].Message)
	assert.EqualValues(t, 502, entries[0].Fields["status"])
	assert.Empty(t, hub.messages)

	b.SetHub(hub)
	log.Warn().Msg("second")
	require.Len(t, hub.messages, 1)
	assert.Equal(t, "second", hub.messages[0].Message)
}

func TestLogBroadcaster_DropsMalformedLines(t *testing.T) {
	b := NewLogBroadcaster(nil, 10)
	n, err := b.Write([]byte("not json"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Empty(t, b.GetRecentLogs())
}

func TestNew_StreamingAndFile(t *testing.T) {
	dir := t.TempDir()
	log := New(Config{Level: "info", Format: "json", Path: dir, EnableStreaming: true, BufferSize: 5})
	defer log.Close()

	componentLog := log.WithComponent("test")
	componentLog.Info().Msg("hello")

	assert.Equal(t, filepath.Join(dir, logFileName), log.LogFilePath())
	recent := log.RecentLogs()
	require.NotEmpty(t, recent)
	assert.Equal(t, "test", recent[len(recent)-1].Component)
}

func TestNew_NoStreaming(t *testing.T) {
	log := New(Config{Level: "warn", Format: "json"})
	assert.Nil(t, log.RecentLogs())
	assert.Empty(t, log.LogFilePath())
	log.SetBroadcastHub(&recordingHub{})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.TraceLevel, parseLevel("trace"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("loud"))
}
