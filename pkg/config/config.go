package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultFileName is the configuration file looked up in the working directory.
const DefaultFileName = "unused-files-seeker.config.json"

// Config holds all configuration options for unused-files-seeker.
type Config struct {
	// EntryPoint is tried before the built-in entry point names.
	EntryPoint string `koanf:"entryPoint" json:"entryPoint" yaml:"entryPoint" toml:"entryPoint"`

	// ScanFolder is the directory, relative to the project root, whose files form the universe.
	ScanFolder string `koanf:"scanFolder" json:"scanFolder" yaml:"scanFolder" toml:"scanFolder"`

	// IgnorePaths are path fragments; any directory matching one is skipped with everything below it.
	IgnorePaths []string `koanf:"ignorePaths" json:"ignorePaths" yaml:"ignorePaths" toml:"ignorePaths"`

	// Extensions select candidate files and set the resolver's probe order.
	Extensions []string `koanf:"extensions" json:"extensions" yaml:"extensions" toml:"extensions"`

	// DependencyDir is probed for bare references.
	DependencyDir string `koanf:"dependencyDir" json:"dependencyDir" yaml:"dependencyDir" toml:"dependencyDir"`

	// Gitignore additionally skips files ignored by .gitignore.
	Gitignore bool `koanf:"gitignore" json:"gitignore" yaml:"gitignore" toml:"gitignore"`

	Cache CacheConfig `koanf:"cache" json:"cache" yaml:"cache" toml:"cache"`
}

// CacheConfig controls the reference cache.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" json:"enabled" yaml:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" json:"dir" yaml:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" json:"ttl" yaml:"ttl" toml:"ttl"` // TTL in hours
}

// DefaultConfig returns a config with the default values.
func DefaultConfig() *Config {
	return &Config{
		ScanFolder:    "src",
		IgnorePaths:   []string{"node_modules", "dist", "build", ".git"},
		Extensions:    []string{".js", ".ts", ".jsx", ".tsx"},
		DependencyDir: "node_modules",
		Cache: CacheConfig{
			Enabled: false,
			Dir:     ".unused-files-seeker/cache",
			TTL:     168,
		},
	}
}

// Load loads configuration from a file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}

	cfg, err := load(path)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration %s: %w", path, err)
	}
	return cfg, nil
}

func load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, err
	}

	if err := Validate(k.Raw()); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// An explicitly empty ignore list means "ignore nothing"; every other empty field takes its default.
	cfg.applyDefaults(k.Exists("ignorePaths"))
	return cfg, nil
}

// parserFor picks a koanf parser from the file extension, defaulting to JSON.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser()
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return json.Parser()
	}
}

func (c *Config) applyDefaults(ignoreSet bool) {
	def := DefaultConfig()
	if c.ScanFolder == "" {
		c.ScanFolder = def.ScanFolder
	}
	if !ignoreSet {
		c.IgnorePaths = def.IgnorePaths
	}
	if len(c.Extensions) == 0 {
		c.Extensions = def.Extensions
	}
	if c.DependencyDir == "" {
		c.DependencyDir = def.DependencyDir
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = def.Cache.Dir
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = def.Cache.TTL
	}
	if c.IgnorePaths == nil {
		c.IgnorePaths = []string{}
	}
}

// SearchNames are the configuration file names LoadOrDefault looks for, in order.
var SearchNames = []string{
	DefaultFileName,
	"unused-files-seeker.config.yaml",
	"unused-files-seeker.config.yml",
	"unused-files-seeker.config.toml",
}

// LoadOrDefault loads the first configuration file found in dir, or returns defaults.
// It also returns the path that was loaded, empty when none was found.
func LoadOrDefault(dir string) (*Config, string, error) {
	for _, name := range SearchNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			cfg, err := Load(path)
			return cfg, path, err
		}
	}
	return DefaultConfig(), "", nil
}

// HasExtension reports whether path ends in one of the configured extensions.
func (c *Config) HasExtension(path string) bool {
	return slices.ContainsFunc(c.Extensions, func(ext string) bool {
		return strings.HasSuffix(path, ext)
	})
}
