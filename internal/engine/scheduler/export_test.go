package scheduler

// ExitCode exposes exitCode for testing.
var ExitCode = exitCode
