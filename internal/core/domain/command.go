// Package domain contains the core domain models for recording and describing build commands.
package domain

import (
	"path/filepath"
	"strings"
)

// CommandKind identifies the variant of a Command.
type CommandKind uint8

const (
	// KindCompilationPass identifies a CompilationPass command.
	KindCompilationPass CommandKind = iota
	// KindLinkPass identifies a LinkPass command.
	KindLinkPass
	// KindSecondary identifies a Secondary command.
	KindSecondary
	// KindChangeDirectory identifies a ChangeDirectory command.
	KindChangeDirectory
)

// String returns the string representation of the CommandKind.
func (k CommandKind) String() string {
	switch k {
	case KindCompilationPass:
		return "compile"
	case KindLinkPass:
		return "link"
	case KindSecondary:
		return "secondary"
	case KindChangeDirectory:
		return "chdir"
	default:
		return "unknown"
	}
}

// Command is a single recorded build action.
// The set of implementations is closed: CompilationPass, LinkPass, Secondary and ChangeDirectory.
type Command interface {
	Kind() CommandKind
	sealed()
}

// FileSet is an ordered sequence of file names.
// Order is significant for link lines and irrelevant for compile parallelism.
type FileSet []string

// CompilationPass turns every file of Files into one object file inside BuildDir.
type CompilationPass struct {
	Files    FileSet
	Flags    string
	Compiler string
	BuildDir string
	// PoolSize caps the number of concurrent workers. Zero means DefaultPoolSize.
	PoolSize int
}

// Kind implements Command.
func (CompilationPass) Kind() CommandKind { return KindCompilationPass }

func (CompilationPass) sealed() {}

// ObjectPath returns the object file produced for file:
// BuildDir, a slash, then file with its final extension replaced by ObjectExtension.
func (p CompilationPass) ObjectPath(file string) string {
	return p.BuildDir + "/" + ReplaceExtension(file, ObjectExtension)
}

// CommandLine formats the shell command compiling file into object.
func (p CompilationPass) CommandLine(file, object string) string {
	return p.Compiler + " " + p.Flags + " -c -o " + object + " " + file
}

// Workers returns the worker pool size used to dispatch this pass.
func (p CompilationPass) Workers() int {
	size := p.PoolSize
	if size <= 0 {
		size = DefaultPoolSize
	}
	return min(size, len(p.Files))
}

// LinkPass combines Files into a single output artifact.
type LinkPass struct {
	Files      FileSet
	Flags      string
	Linker     string
	BuildDir   string
	OutputName string
}

// Kind implements Command.
func (LinkPass) Kind() CommandKind { return KindLinkPass }

func (LinkPass) sealed() {}

// OutputPath returns the path of the linked artifact.
func (p LinkPass) OutputPath() string {
	return p.BuildDir + "/" + p.OutputName
}

// CommandLine formats the shell command for the link step.
// Every file is followed by a single space, in input order.
func (p LinkPass) CommandLine() string {
	var files strings.Builder
	for _, f := range p.Files {
		files.WriteString(f)
		files.WriteByte(' ')
	}
	return p.Linker + " " + p.Flags + " -o " + p.OutputPath() + " " + files.String()
}

// Secondary nests another buffer's full command sequence.
//
// Buffer is a non-owning reference: the referencing buffer never destroys it,
// and it must outlive every submission of the referencing buffer.
type Secondary struct {
	Buffer *Buffer
}

// Kind implements Command.
func (Secondary) Kind() CommandKind { return KindSecondary }

func (Secondary) sealed() {}

// ChangeDirectory changes the process-wide working directory.
// It affects every command executed after it, including commands of other buffers.
type ChangeDirectory struct {
	Path string
}

// Kind implements Command.
func (ChangeDirectory) Kind() CommandKind { return KindChangeDirectory }

func (ChangeDirectory) sealed() {}

// ReplaceExtension replaces the final extension of name with ext.
// A name without an extension gets ext appended.
func ReplaceExtension(name, ext string) string {
	base := filepath.Base(name)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return name[:len(name)-len(base)+i] + ext
	}
	return name + ext
}
