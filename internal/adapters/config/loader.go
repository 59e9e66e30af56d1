// Package config provides the kb.yaml build description loader.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ai-kana/kb/internal/core/domain"
	"github.com/ai-kana/kb/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	supportedVersion = "1"
	defaultTool      = "cc"
	defaultBuildDir  = "."
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	Lister ports.FileLister
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger, lister ports.FileLister) *Loader {
	return &Loader{Logger: logger, Lister: lister}
}

// Load reads the build description at path and records every buffer it defines.
//
// Buffers are built so that each one exists before any buffer that nests it,
// which lets Secondary steps hold plain references. Unknown and cyclic
// references are rejected here, before anything runs.
func (l *Loader) Load(path string) (*domain.Project, error) {
	var file Kbfile
	if err := readAndUnmarshalYAML(path, &file); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	if file.Version != "" && file.Version != supportedVersion {
		return nil, zerr.With(domain.ErrUnsupportedVersion, "version", file.Version)
	}

	project := &domain.Project{
		Buffers:  make(map[string]*domain.Buffer, len(file.Buffers)),
		Entry:    file.Entry,
		PoolSize: file.PoolSize,
		EnvFiles: resolveEnvFiles(path, file.EnvFiles),
		Self:     resolveSelf(file.Self),
	}
	if project.Entry == "" {
		project.Entry = domain.DefaultEntryBuffer
	}

	graph := domain.NewBufferGraph()
	for name, steps := range file.Buffers {
		refs, err := validateSteps(name, steps)
		if err != nil {
			return nil, err
		}
		if err := graph.AddBuffer(name, refs); err != nil {
			return nil, err
		}
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}

	for name := range graph.Walk() {
		buf, err := l.record(project, name, file.Buffers[name])
		if err != nil {
			return nil, err
		}
		project.Buffers[name] = buf
	}

	if _, ok := project.Buffer(project.Entry); !ok {
		return nil, zerr.With(zerr.With(domain.ErrBufferNotFound, "buffer", project.Entry), "field", "entry")
	}

	return project, nil
}

// validateSteps checks that every step declares exactly one action and
// returns the names of the buffers nested through secondary steps.
func validateSteps(name string, steps []StepDTO) ([]string, error) {
	var refs []string
	for i, step := range steps {
		actions := 0
		if step.Compile != nil {
			actions++
		}
		if step.Link != nil {
			actions++
		}
		if step.Secondary != "" {
			actions++
			refs = append(refs, step.Secondary)
		}
		if step.Chdir != "" {
			actions++
		}
		if actions != 1 {
			return nil, stepError(domain.ErrInvalidStep, name, i)
		}
	}
	return refs, nil
}

// record turns the steps of one buffer into recorded commands.
// Every buffer referenced by a secondary step must already be in project.
func (l *Loader) record(project *domain.Project, name string, steps []StepDTO) (*domain.Buffer, error) {
	buf := domain.NewBuffer()
	for i, step := range steps {
		switch {
		case step.Compile != nil:
			pass, err := l.compilationPass(project, step.Compile)
			if err != nil {
				return nil, stepError(err, name, i)
			}
			buf.AddCompilationPass(pass)
		case step.Link != nil:
			pass, err := l.linkPass(step.Link)
			if err != nil {
				return nil, stepError(err, name, i)
			}
			buf.AddLinkPass(pass)
		case step.Secondary != "":
			nested, ok := project.Buffer(step.Secondary)
			if !ok {
				return nil, stepError(zerr.With(domain.ErrBufferNotFound, "buffer", step.Secondary), name, i)
			}
			buf.AddSecondary(nested)
		case step.Chdir != "":
			buf.AddChangeDirectory(step.Chdir)
		}
	}
	return buf, nil
}

func (l *Loader) compilationPass(project *domain.Project, dto *CompileDTO) (domain.CompilationPass, error) {
	files, err := l.collect(dto.Files, dto.Sources)
	if err != nil {
		return domain.CompilationPass{}, err
	}

	pass := domain.CompilationPass{
		Files:    files,
		Flags:    dto.Flags,
		Compiler: withDefault(dto.Compiler, defaultTool),
		BuildDir: withDefault(dto.BuildDir, defaultBuildDir),
		PoolSize: dto.PoolSize,
	}
	if pass.PoolSize <= 0 {
		pass.PoolSize = project.PoolSize
	}
	return pass, nil
}

func (l *Loader) linkPass(dto *LinkDTO) (domain.LinkPass, error) {
	if dto.Output == "" {
		return domain.LinkPass{}, zerr.With(domain.ErrMissingField, "field", "output")
	}

	var objects *ListingDTO
	if dto.ObjectsOf != nil {
		objects = &ListingDTO{Dir: dto.ObjectsOf.Dir, Ext: dto.ObjectsOf.Ext}
	}
	files, err := l.collect(dto.Files, objects)
	if err != nil {
		return domain.LinkPass{}, err
	}
	if dto.ObjectsOf != nil {
		// Listed sources are replaced by the objects a compile step writes for them.
		objectPass := domain.CompilationPass{BuildDir: withDefault(dto.ObjectsOf.BuildDir, defaultBuildDir)}
		for i := len(dto.Files); i < len(files); i++ {
			files[i] = objectPass.ObjectPath(files[i])
		}
	}

	return domain.LinkPass{
		Files:      files,
		Flags:      dto.Flags,
		Linker:     withDefault(dto.Linker, defaultTool),
		BuildDir:   withDefault(dto.BuildDir, defaultBuildDir),
		OutputName: dto.Output,
	}, nil
}

// collect returns the explicit files followed by the files of the listing.
func (l *Loader) collect(explicit []string, listing *ListingDTO) (domain.FileSet, error) {
	files := make(domain.FileSet, 0, len(explicit))
	for i, f := range explicit {
		if f == "" {
			return nil, zerr.With(domain.ErrEmptyFileName, "index", i)
		}
		files = append(files, f)
	}

	if listing == nil {
		return files, nil
	}
	if listing.Dir == "" {
		return nil, zerr.With(domain.ErrMissingField, "field", "dir")
	}
	ext := withDefault(listing.Ext, domain.SourceExtension)
	listed, err := l.Lister.ListFiles(listing.Dir, ext)
	if err != nil {
		return nil, err
	}
	if len(listed) == 0 {
		l.Logger.Warn(fmt.Sprintf("no %s files found in %s", ext, listing.Dir))
	}
	return append(files, listed...), nil
}

func resolveSelf(dto *SelfDTO) domain.SelfSpec {
	self := domain.DefaultSelfSpec()
	if dto == nil {
		return self
	}
	self.Compiler = withDefault(dto.Compiler, self.Compiler)
	self.Source = withDefault(dto.Source, self.Source)
	self.Binary = withDefault(dto.Binary, self.Binary)
	return self
}

// resolveEnvFiles makes relative env file paths relative to the config file's directory.
func resolveEnvFiles(configPath string, files []string) []string {
	if len(files) == 0 {
		return nil
	}
	dir := filepath.Dir(configPath)
	resolved := make([]string, 0, len(files))
	for _, f := range files {
		if !filepath.IsAbs(f) {
			f = filepath.Join(dir, f)
		}
		resolved = append(resolved, f)
	}
	return resolved
}

func stepError(err error, buffer string, index int) error {
	return zerr.With(zerr.With(err, "buffer", buffer), "step", strconv.Itoa(index))
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is provided by the user on purpose
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
