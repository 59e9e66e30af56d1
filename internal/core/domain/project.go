package domain

// SelfSpec describes how the build program rebuilds itself.
type SelfSpec struct {
	Compiler string
	Source   string
	Binary   string
}

// DefaultSelfSpec returns the self-rebuild description used when none is configured.
func DefaultSelfSpec() SelfSpec {
	return SelfSpec{
		Compiler: DefaultSelfCompiler,
		Source:   DefaultSelfSource,
		Binary:   DefaultSelfBinary,
	}
}

// CommandLine formats the shell command that rebuilds the binary from its source.
func (s SelfSpec) CommandLine() string {
	return s.Compiler + " -o " + s.Binary + " " + s.Source
}

// Project is a loaded build description: a set of named buffers and the entry to submit.
type Project struct {
	Buffers  map[string]*Buffer
	Entry    string
	PoolSize int
	EnvFiles []string
	Self     SelfSpec
}

// Buffer returns the buffer registered under name.
func (p *Project) Buffer(name string) (*Buffer, bool) {
	buf, ok := p.Buffers[name]
	return buf, ok
}
