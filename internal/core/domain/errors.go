package domain

import "go.trai.ch/zerr"

var (
	// ErrBufferDestroyed is returned when a destroyed buffer is submitted, directly or through a Secondary command.
	ErrBufferDestroyed = zerr.New("buffer has been destroyed")

	// ErrNilBuffer is returned when a nil buffer is submitted or referenced by a Secondary command.
	ErrNilBuffer = zerr.New("buffer is nil")

	// ErrCycleDetected is returned when a buffer is re-entered through its own Secondary chain.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrUnknownCommand is returned when a buffer holds a command of an unknown kind.
	ErrUnknownCommand = zerr.New("unknown command")

	// ErrCommandFailed is returned when a spawned shell command exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrChangeDirectoryFailed is returned when the working directory cannot be changed.
	ErrChangeDirectoryFailed = zerr.New("failed to change directory")

	// ErrBuildExecutionFailed is returned by a strict submission when at least one command failed.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrBufferAlreadyExists is returned when two buffers share a name.
	ErrBufferAlreadyExists = zerr.New("buffer already exists")

	// ErrBufferNotFound is returned when a buffer name cannot be resolved.
	ErrBufferNotFound = zerr.New("buffer not found")

	// ErrEmptyFileName is returned when a file set contains an empty name.
	ErrEmptyFileName = zerr.New("file name must not be empty")

	// ErrInvalidStep is returned when a configured step does not declare exactly one action.
	ErrInvalidStep = zerr.New("step must declare exactly one of compile, link, secondary or chdir")

	// ErrMissingField is returned when a required configuration field is empty.
	ErrMissingField = zerr.New("missing required field")

	// ErrUnsupportedVersion is returned when the configuration version is not supported.
	ErrUnsupportedVersion = zerr.New("unsupported configuration version")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrEnvFileLoadFailed is returned when an env file listed in the config cannot be loaded.
	ErrEnvFileLoadFailed = zerr.New("failed to load env file")

	// ErrSelfRebuildFailed is returned when the rebuilt binary cannot be launched.
	ErrSelfRebuildFailed = zerr.New("failed to relaunch rebuilt binary")

	// ErrStoreCreateFailed is returned when the build record store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create build record store directory")

	// ErrStoreReadFailed is returned when a build record cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build record")

	// ErrStoreUnmarshalFailed is returned when a build record cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build record")

	// ErrStoreMarshalFailed is returned when a build record cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build record")

	// ErrStoreWriteFailed is returned when a build record cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build record")

	// ErrFailedToCleanArtifact is returned when a recorded artifact cannot be removed.
	ErrFailedToCleanArtifact = zerr.New("failed to clean artifact")

	// ErrListFilesFailed is returned when a directory cannot be listed.
	ErrListFilesFailed = zerr.New("failed to list files")

	// ErrWatcherFailed is returned when the file system watcher cannot be started.
	ErrWatcherFailed = zerr.New("failed to start file watcher")

	// ErrJournalCreateFailed is returned when the telemetry journal cannot be created.
	ErrJournalCreateFailed = zerr.New("failed to create telemetry journal")
)
