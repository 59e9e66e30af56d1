// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Executor defines the interface for running a single shell command line.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs cmdline synchronously through the shell and waits for it to exit.
	//
	// The command inherits the process environment and working directory at the
	// moment of the call. A non-zero exit status is reported as an error carrying
	// the exit code.
	Execute(ctx context.Context, cmdline string, stdout, stderr io.Writer) error
}
