package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"recipegrip/internal/eventbus"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "recipegrip.log")
	logger, err := New(path, "debug")
	require.NoError(t, err)

	logger.Debug("hello", zap.String("query", "pasta"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "pasta")
}

func TestNewLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipegrip.log")
	logger, err := New(path, "warn")
	require.NoError(t, err)

	logger.Info("quiet")
	logger.Warn("loud")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), "loud")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "x.log"), "chatty")
	assert.Error(t, err)
}

func TestNewWithoutPathIsNop(t *testing.T) {
	logger, err := New("", "info")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestAudit(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	bus := eventbus.New(nil)
	defer bus.Close()

	stop := Audit(bus, zap.New(core))

	bus.Publish(eventbus.SearchStartedEvent{SessionID: "s1", Query: "pasta"})
	bus.Publish(eventbus.PageLoadedEvent{SessionID: "s1", Page: 1, TotalPages: 10, Records: 10})
	bus.Publish(eventbus.PageFailedEvent{SessionID: "s1", Page: 2, Reason: "transport", Err: errors.New("boom")})

	require.Eventually(t, func() bool { return logs.Len() == 3 }, time.Second, 5*time.Millisecond)

	entries := logs.AllUntimed()
	assert.Equal(t, "search", entries[0].Message)
	assert.Equal(t, "audit", entries[0].LoggerName)
	assert.Equal(t, "pasta", entries[0].ContextMap()["query"])
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, "transport", entries[2].ContextMap()["reason"])

	stop()
	bus.Publish(eventbus.SearchStartedEvent{SessionID: "s2", Query: "soup"})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 3, logs.Len(), "no logging after unsubscribe")
}
