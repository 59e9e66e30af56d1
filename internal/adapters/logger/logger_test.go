package logger_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/ai-kana/kb/internal/adapters/logger"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer with colors disabled.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Info(t *testing.T) {
	tests := []struct {
		name       string
		msg        string
		goldenName string
	}{
		{name: "simple message", msg: "some message", goldenName: "info_basic"},
		{name: "multiline message", msg: "line1\nline2", goldenName: "info_multiline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Info(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Warn("some warning")

	g := goldie.New(t)
	g.Assert(t, "warn_basic", buf.Bytes())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{name: "simple error", err: os.ErrPermission, goldenName: "error_simple"},
		{
			name:       "multiline error",
			err:        errors.New("yaml: unmarshal errors:\n  line 30: cannot unmarshal"),
			goldenName: "error_multiline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_ZerrChain(t *testing.T) {
	err := zerr.Wrap(
		zerr.Wrap(errors.New("exit status 1"), "command failed"),
		"build execution failed",
	)

	lg, buf := newTestLogger(t)
	lg.Error(err)

	out := buf.String()
	assert.Contains(t, out, "✗ Error: build execution failed")
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "→ command failed")
	assert.Contains(t, out, "→ exit status 1")
}

func TestLogger_Error_StdlibChain(t *testing.T) {
	inner := errors.New("connection refused")
	outer := fmt.Errorf("failed to initialize: %w", inner)

	lg, buf := newTestLogger(t)
	lg.Error(outer)

	assert.Equal(t, "✗ Error: failed to initialize: connection refused\n", buf.String())
}

func TestFormatError(t *testing.T) {
	got := logger.FormatError(errors.New("a\nb"))
	assert.Equal(t, "Error: a\n       b", got)
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_SetJSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Error(zerr.With(zerr.Wrap(errors.New("exit status 2"), "command failed"), "exit_code", 2))

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"error"`)
	assert.Contains(t, out, "command failed")
	assert.NotContains(t, out, "✗")
}

func TestLogger_FormatSwitching(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Warn("pretty")
	pretty := buf.String()
	buf.Reset()

	lg.SetJSON(true)
	lg.Warn("json")
	jsonOut := buf.String()
	buf.Reset()

	lg.SetJSON(false)
	lg.Warn("pretty again")
	back := buf.String()

	assert.Equal(t, "! pretty\n", pretty)
	assert.Contains(t, jsonOut, `"level":"WARN"`)
	assert.Equal(t, "! pretty again\n", back)
}

func TestLogger_SetOutputNil(t *testing.T) {
	require.NotPanics(t, func() {
		lg := logger.New().(*logger.Logger)
		lg.SetOutput(nil)
	})
}

func TestLogger_ConcurrentAccess(t *testing.T) {
	lg, _ := newTestLogger(t)

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() { lg.Info("concurrent info") })
		wg.Go(func() { lg.Warn("concurrent warn") })
		wg.Go(func() { lg.Error(errors.New("concurrent error")) })
	}
	wg.Wait()
}

func TestPrettyHandler_Handle(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		args       []any
		goldenName string
	}{
		{
			name:       "debug level filtered",
			level:      slog.LevelDebug,
			msg:        "debug message",
			goldenName: "handler_debug_filtered",
		},
		{
			name:       "attributes",
			level:      slog.LevelInfo,
			msg:        "compiling",
			args:       []any{"pass", 1, "files", 3},
			goldenName: "handler_attrs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			lg := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
			lg.Log(t.Context(), tt.level, tt.msg, tt.args...)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_WithAttrsAndGroup(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	var h slog.Handler = logger.NewPrettyHandler(buf, nil)
	h = h.WithGroup("build").WithAttrs([]slog.Attr{slog.String("buffer", "main")})
	slog.New(h).Info("submitting")

	assert.Equal(t, "submitting build.buffer=main\n", buf.String())
}

func TestPrettyHandler_NestedGroups(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	var h slog.Handler = logger.NewPrettyHandler(buf, nil)
	h = h.WithAttrs([]slog.Attr{slog.String("run", "1")}).WithGroup("build").WithGroup("pass")
	slog.New(h).Warn("slow", "files", 64)

	assert.Equal(t, "! slow run=1 build.pass.files=64\n", buf.String())
}
