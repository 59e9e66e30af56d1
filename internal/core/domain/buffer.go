package domain

import (
	"iter"
	"slices"
)

// Buffer is an ordered, append-only list of recorded commands.
// It is owned by its creator and is not safe for concurrent use.
type Buffer struct {
	commands  []Command
	destroyed bool
}

// NewBuffer creates an empty Buffer with the default capacity.
func NewBuffer() *Buffer {
	return &Buffer{
		commands: make([]Command, 0, DefaultBufferCapacity),
	}
}

// append records cmd, doubling the capacity when the buffer is full.
func (b *Buffer) append(cmd Command) {
	if b.destroyed {
		return
	}
	if len(b.commands) == cap(b.commands) {
		grown := make([]Command, len(b.commands), max(2*cap(b.commands), DefaultBufferCapacity))
		copy(grown, b.commands)
		b.commands = grown
	}
	b.commands = append(b.commands, cmd)
}

// AddCompilationPass records a compilation pass.
// The file set is copied so later changes by the caller do not alter the recorded command.
func (b *Buffer) AddCompilationPass(pass CompilationPass) {
	pass.Files = slices.Clone(pass.Files)
	b.append(pass)
}

// AddLinkPass records a link pass.
func (b *Buffer) AddLinkPass(pass LinkPass) {
	pass.Files = slices.Clone(pass.Files)
	b.append(pass)
}

// AddSecondary records a nested submission of other.
// The reference is non-owning; other must stay alive while b can be submitted.
func (b *Buffer) AddSecondary(other *Buffer) {
	b.append(Secondary{Buffer: other})
}

// AddChangeDirectory records a change of the process working directory.
func (b *Buffer) AddChangeDirectory(path string) {
	b.append(ChangeDirectory{Path: path})
}

// Len returns the number of recorded commands.
func (b *Buffer) Len() int {
	return len(b.commands)
}

// Commands yields the recorded commands in order.
func (b *Buffer) Commands() iter.Seq2[int, Command] {
	return func(yield func(int, Command) bool) {
		for i, cmd := range b.commands {
			if !yield(i, cmd) {
				return
			}
		}
	}
}

// Destroy releases the recorded commands.
// Appending to a destroyed buffer is a no-op and submitting it fails with ErrBufferDestroyed.
// Destroy does not touch buffers referenced through Secondary commands.
func (b *Buffer) Destroy() {
	b.commands = nil
	b.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (b *Buffer) Destroyed() bool {
	return b.destroyed
}
