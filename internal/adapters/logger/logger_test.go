package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"rental-listing-client/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoster struct {
	mu      sync.Mutex
	tags    []string
	records []map[string]interface{}
	closed  bool
}

func (f *fakePoster) Post(tag string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tags = append(f.tags, tag)
	fields := message.(port.Fields)
	f.records = append(f.records, map[string]interface{}(fields))
	return nil
}

func (f *fakePoster) Close() error {
	f.closed = true
	return nil
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSlogAdapter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, IsJSON: true, Level: slog.LevelInfo})

	logger.WithFields(port.Fields{"session_id": "s1"}).Error("Catalog query failed", errors.New("boom"), port.Fields{"seq": 3})
	logger.Debug("hidden", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "Catalog query failed", record["msg"])
	assert.Equal(t, "s1", record["session_id"])
	assert.Equal(t, "boom", record["error"])
	assert.Equal(t, 3.0, record["seq"])
}

func TestFluentLoggerAdapter(t *testing.T) {
	poster := &fakePoster{}
	logger, err := NewFluentLoggerAdapter(poster, slog.LevelInfo)
	require.NoError(t, err)

	scoped := logger.WithFields(port.Fields{"component": "ListingController"})
	scoped.Debug("dropped", nil)
	scoped.Warn("Failed to publish mutation event", port.Fields{"error": "closed"})

	require.Len(t, poster.records, 1)
	assert.Equal(t, []string{"warn"}, poster.tags)
	assert.Equal(t, "ListingController", poster.records[0]["component"])
	assert.Equal(t, "Failed to publish mutation event", poster.records[0]["message"])

	require.NoError(t, logger.Close())
	assert.True(t, poster.closed)

	_, err = NewFluentLoggerAdapter(nil, nil)
	assert.Error(t, err)
}

func TestMultiLoggerAdapter(t *testing.T) {
	first, second := &fakePoster{}, &fakePoster{}
	a, _ := NewFluentLoggerAdapter(first, slog.LevelDebug)
	b, _ := NewFluentLoggerAdapter(second, slog.LevelDebug)

	multi, err := NewMultiloggerAdapter(a, nil, b)
	require.NoError(t, err)
	multi.WithFields(port.Fields{"k": "v"}).Info("hello", nil)

	assert.Len(t, first.records, 1)
	assert.Len(t, second.records, 1)
	assert.Equal(t, "v", second.records[0]["k"])

	single, err := NewMultiloggerAdapter(a)
	require.NoError(t, err)
	assert.Same(t, a, single)

	_, err = NewMultiloggerAdapter()
	assert.Error(t, err)
}
