package config

// Kbfile represents the structure of the kb.yaml build description.
type Kbfile struct {
	Version  string               `yaml:"version"`
	Entry    string               `yaml:"entry"`
	PoolSize int                  `yaml:"pool_size"`
	EnvFiles []string             `yaml:"env_files"`
	Self     *SelfDTO             `yaml:"self"`
	Buffers  map[string][]StepDTO `yaml:"buffers"`
}

// SelfDTO describes how the build program rebuilds itself.
type SelfDTO struct {
	Compiler string `yaml:"compiler"`
	Source   string `yaml:"source"`
	Binary   string `yaml:"binary"`
}

// StepDTO is one recorded command. Exactly one field must be set.
type StepDTO struct {
	Compile   *CompileDTO `yaml:"compile"`
	Link      *LinkDTO    `yaml:"link"`
	Secondary string      `yaml:"secondary"`
	Chdir     string      `yaml:"chdir"`
}

// ListingDTO selects the files directly inside Dir whose name ends in Ext.
type ListingDTO struct {
	Dir string `yaml:"dir"`
	Ext string `yaml:"ext"`
}

// ObjectsDTO selects the object files a compile step produces for a listing of sources.
type ObjectsDTO struct {
	Dir      string `yaml:"dir"`
	Ext      string `yaml:"ext"`
	BuildDir string `yaml:"build_dir"`
}

// CompileDTO describes a compilation pass.
type CompileDTO struct {
	Files    []string    `yaml:"files"`
	Sources  *ListingDTO `yaml:"sources"`
	Flags    string      `yaml:"flags"`
	Compiler string      `yaml:"compiler"`
	BuildDir string      `yaml:"build_dir"`
	PoolSize int         `yaml:"pool_size"`
}

// LinkDTO describes a link pass.
type LinkDTO struct {
	Files     []string    `yaml:"files"`
	ObjectsOf *ObjectsDTO `yaml:"objects_of"`
	Flags     string      `yaml:"flags"`
	Linker    string      `yaml:"linker"`
	BuildDir  string      `yaml:"build_dir"`
	Output    string      `yaml:"output"`
}
