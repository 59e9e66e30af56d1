package domain

import "path/filepath"

const (
	// KbDirName is the name of the internal workspace directory.
	KbDirName = ".kb"

	// StoreDirName is the name of the build record store directory.
	StoreDirName = "store"

	// ConfigFileName is the name of the default build description file.
	ConfigFileName = "kb.yaml"

	// DefaultEntryBuffer is the buffer submitted when none is named.
	DefaultEntryBuffer = "main"

	// ReservedPrefix marks files that belong to the build program itself.
	// File listings never return names starting with it.
	ReservedPrefix = "kb"

	// ObjectExtension is the extension of compiled object files.
	ObjectExtension = ".o"

	// SourceExtension is the extension of C source files.
	SourceExtension = ".c"

	// DefaultPoolSize is the number of compile workers used when a pass does not set one.
	DefaultPoolSize = 4

	// DefaultBufferCapacity is the initial number of command slots of a new buffer.
	DefaultBufferCapacity = 8

	// DefaultSelfCompiler is the compiler used to rebuild the build program.
	DefaultSelfCompiler = "cc"

	// DefaultSelfSource is the source file of the build program.
	DefaultSelfSource = "kb.c"

	// DefaultSelfBinary is the binary produced from DefaultSelfSource.
	DefaultSelfBinary = "kb"

	// DirPerm is the permission of kb's internal directories (rwxr-x---).
	DirPerm = 0o750

	// OutputDirPerm is the permission of build and object directories (rwxr-xr-x).
	OutputDirPerm = 0o755

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStorePath returns the build record store directory below root.
func DefaultStorePath(root string) string {
	return filepath.Join(root, KbDirName, StoreDirName)
}
