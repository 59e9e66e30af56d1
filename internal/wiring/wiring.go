// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/ai-kana/kb/internal/adapters/cas"
	_ "github.com/ai-kana/kb/internal/adapters/config"
	_ "github.com/ai-kana/kb/internal/adapters/fs"
	_ "github.com/ai-kana/kb/internal/adapters/logger"
	_ "github.com/ai-kana/kb/internal/adapters/shell"
	_ "github.com/ai-kana/kb/internal/adapters/telemetry"
	_ "github.com/ai-kana/kb/internal/adapters/telemetry/progrock"
	_ "github.com/ai-kana/kb/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "github.com/ai-kana/kb/internal/app"
	_ "github.com/ai-kana/kb/internal/engine/bootstrap"
	_ "github.com/ai-kana/kb/internal/engine/scheduler"
)
