package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"loud", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "info")

	l.Debug("hidden %d", 1)
	l.Info("shown %s", "info")
	l.Warn("careful")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown info")
	assert.Contains(t, out, "careful")
}

func TestNamed_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "debug").Named("api")

	l.Debug("GET /monitors")
	assert.Contains(t, buf.String(), "api")
	assert.Contains(t, buf.String(), "GET /monitors")
}

func TestNewFile_WritesRotatingLog(t *testing.T) {
	dir := t.TempDir()
	l, err := NewFile(filepath.Join(dir, "logs"), "debug")
	require.NoError(t, err)

	l.Info("dashboard started with %d monitors", 3)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(filepath.Join(dir, "logs", LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "dashboard started with 3 monitors")
	assert.Contains(t, string(data), `"ts"`)
}

func TestNoop(t *testing.T) {
	l := Noop()
	assert.NotPanics(t, func() {
		l.Debug("x")
		l.Info("x")
		l.Warn("x")
		l.Error("x")
	})
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Info("created %s", "Dock 1")
	l.Warn("delete failed")

	assert.True(t, l.HasLevel("info"))
	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("error"))

	msgs := l.Snapshot()
	require.Len(t, msgs, 2)
	assert.Equal(t, "created Dock 1", msgs[0].Message)

	l.Clear()
	assert.Empty(t, l.Snapshot())
}

func TestBufferLogger_Concurrent(t *testing.T) {
	l := NewBufferLogger()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Debug("msg %d", n)
		}(i)
	}
	wg.Wait()
	assert.Len(t, l.Snapshot(), 20)
}

func TestDefault_IsConsoleLogger(t *testing.T) {
	l, ok := Default().(*ZapLogger)
	require.True(t, ok)
	assert.NotNil(t, l.Zap())
	assert.False(t, l.Zap().Core().Enabled(zapcore.InfoLevel), "default only shows warnings and above")
	assert.True(t, l.Zap().Core().Enabled(zapcore.WarnLevel))
}

func TestDefaultAndSetDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	buf := NewBufferLogger()
	SetDefault(buf)
	Default().Info("hello")

	assert.True(t, buf.HasLevel("info"))
}
