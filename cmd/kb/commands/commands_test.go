package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ai-kana/kb/cmd/kb/commands"
	"github.com/ai-kana/kb/internal/app"
	"github.com/ai-kana/kb/internal/build"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockApp struct {
	runFunc   func(ctx context.Context, opts app.RunOptions) error
	watchFunc func(ctx context.Context, opts app.RunOptions) error
	cleaned   bool
}

func (m *mockApp) Run(ctx context.Context, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Watch(ctx context.Context, opts app.RunOptions) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Clean(context.Context) error {
	m.cleaned = true
	return nil
}

type jsonLogger struct {
	json bool
}

func (l *jsonLogger) SetJSON(enable bool) { l.json = enable }

func TestCommands_Run(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.RunOptions
		called := false

		mock := &mockApp{
			runFunc: func(_ context.Context, opts app.RunOptions) error {
				captured = opts
				called = true
				return nil
			},
		}

		cli := commands.New(mock, nil)
		cli.SetArgs([]string{
			"run", "objects", "main",
			"--config", "build/kb.yaml",
			"--no-rebuild", "--strict", "-n", "-j", "8",
			"--journal", "kb.jsonl",
		})

		require.NoError(t, cli.Execute(context.Background()))
		assert.True(t, called)
		assert.Equal(t, app.RunOptions{
			ConfigPath: "build/kb.yaml",
			Buffers:    []string{"objects", "main"},
			NoRebuild:  true,
			Strict:     true,
			DryRun:     true,
			PoolSize:   8,
			Journal:    "kb.jsonl",
		}, captured)
	})

	t.Run("defaults", func(t *testing.T) {
		var captured app.RunOptions

		mock := &mockApp{
			runFunc: func(_ context.Context, opts app.RunOptions) error {
				captured = opts
				return nil
			},
		}

		cli := commands.New(mock, nil)
		cli.SetArgs([]string{"run"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, app.RunOptions{ConfigPath: "kb.yaml"}, captured)
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(context.Context, app.RunOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock, nil)
		cli.SetArgs([]string{"run"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.ErrorContains(t, err, "simulated error")
	})
}

func TestCommands_Watch(t *testing.T) {
	var captured app.RunOptions

	mock := &mockApp{
		watchFunc: func(_ context.Context, opts app.RunOptions) error {
			captured = opts
			return nil
		},
	}

	cli := commands.New(mock, nil)
	cli.SetArgs([]string{"watch", "main", "-c", "other.yaml", "--pool-size", "2", "--journal", "watch.jsonl"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "other.yaml", captured.ConfigPath)
	assert.Equal(t, []string{"main"}, captured.Buffers)
	assert.Equal(t, 2, captured.PoolSize)
	assert.Equal(t, "watch.jsonl", captured.Journal)
}

func TestCommands_Clean(t *testing.T) {
	mock := &mockApp{}

	cli := commands.New(mock, nil)
	cli.SetArgs([]string{"clean"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, mock.cleaned)
}

func TestCommands_Clean_RejectsArgs(t *testing.T) {
	mock := &mockApp{}

	cli := commands.New(mock, nil)
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"clean", "extra"})

	require.Error(t, cli.Execute(context.Background()))
	assert.False(t, mock.cleaned)
}

func TestCommands_LogJSON(t *testing.T) {
	logger := &jsonLogger{}

	cli := commands.New(&mockApp{}, logger)
	cli.SetArgs([]string{"run", "--log-json"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, logger.json)
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{}, nil)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), "kb version "+build.Version)
}
