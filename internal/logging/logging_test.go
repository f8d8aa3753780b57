package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

type captureTransport struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (t *captureTransport) Flush(time.Duration) bool      { return true }
func (t *captureTransport) Configure(sentry.ClientOptions) {}
func (t *captureTransport) SendEvent(event *sentry.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("debug"))
	assert.Equal(t, logrus.InfoLevel, GetLevel("INFO"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warning"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("error"))
	assert.Equal(t, logrus.TraceLevel, GetLevel("whatever"))
}

func TestNewOutput(t *testing.T) {
	var console bytes.Buffer

	out, description := newOutput(LoggerSetupParams{Console: &console})
	assert.Same(t, &console, out)
	assert.Equal(t, "console only", description)

	dir := t.TempDir()
	out, description = newOutput(LoggerSetupParams{LogFileName: filepath.Join(dir, "fitprogress")})
	fileLogger, ok := out.(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "fitprogress.log"), fileLogger.Filename)
	assert.Equal(t, defaultLogMaxAgeDays, fileLogger.MaxAge)
	assert.Equal(t, fileLogger.Filename, description)

	out, _ = newOutput(LoggerSetupParams{
		LogFileName:   filepath.Join(dir, "ctl.log"),
		LogToStdout:   true,
		LogMaxAgeDays: 7,
		Console:       &console,
	})
	_, err := out.Write([]byte("evaluation stored\n"))
	require.NoError(t, err)
	assert.Equal(t, "evaluation stored\n", console.String())
	written, err := os.ReadFile(filepath.Join(dir, "ctl.log"))
	require.NoError(t, err)
	assert.Equal(t, "evaluation stored\n", string(written))
}

func TestComponentHook(t *testing.T) {
	hook := &componentHook{component: "service"}
	assert.Equal(t, logrus.AllLevels, hook.Levels())

	entry := logrus.NewEntry(logrus.New())
	require.NoError(t, hook.Fire(entry))
	assert.Equal(t, "service", entry.Data["component"])

	entry = logrus.NewEntry(logrus.New()).WithField("component", "scheduler")
	require.NoError(t, hook.Fire(entry))
	assert.Equal(t, "scheduler", entry.Data["component"])
}

func TestSentryHook_Fire(t *testing.T) {
	transport := &captureTransport{}
	client, err := sentry.NewClient(sentry.ClientOptions{Transport: transport})
	require.NoError(t, err)

	hook := NewSentryHook([]logrus.Level{logrus.ErrorLevel})
	hook.hub = sentry.NewHub(client, sentry.NewScope())
	assert.Equal(t, []logrus.Level{logrus.ErrorLevel}, hook.Levels())

	entry := logrus.NewEntry(logrus.New()).
		WithField("user_id", 42).
		WithError(errors.New("inference unavailable"))
	entry.Level = logrus.ErrorLevel
	entry.Message = "evaluate training"

	require.NoError(t, hook.Fire(entry))

	require.Len(t, transport.events, 1)
	event := transport.events[0]
	assert.Equal(t, sentry.LevelError, event.Level)
	assert.Equal(t, "evaluate training", event.Message)
	assert.Equal(t, 42, event.Extra["user_id"])
	require.Len(t, event.Exception, 1)
	assert.Equal(t, "inference unavailable", event.Exception[0].Value)
}

func TestSentryHook_Fire_NoClient(t *testing.T) {
	hook := NewSentryHook([]logrus.Level{logrus.ErrorLevel})
	hook.hub = sentry.NewHub(nil, sentry.NewScope())

	entry := logrus.NewEntry(logrus.New())
	entry.Level = logrus.ErrorLevel
	assert.Error(t, hook.Fire(entry))
}
