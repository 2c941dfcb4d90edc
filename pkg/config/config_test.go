package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}
	if cfg.EntryPoint != "" {
		t.Errorf("EntryPoint = %q, want empty", cfg.EntryPoint)
	}
	if cfg.ScanFolder != "src" {
		t.Errorf("ScanFolder = %q, want src", cfg.ScanFolder)
	}
	if got := strings.Join(cfg.IgnorePaths, ","); got != "node_modules,dist,build,.git" {
		t.Errorf("IgnorePaths = %s, want node_modules,dist,build,.git", got)
	}
	if got := strings.Join(cfg.Extensions, ","); got != ".js,.ts,.jsx,.tsx" {
		t.Errorf("Extensions = %s, want .js,.ts,.jsx,.tsx", got)
	}
	if cfg.DependencyDir != "node_modules" {
		t.Errorf("DependencyDir = %q, want node_modules", cfg.DependencyDir)
	}
	if cfg.Gitignore {
		t.Error("Gitignore should be false by default")
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false by default")
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, DefaultFileName, `{
  "entryPoint": "src/main.ts",
  "scanFolder": "lib",
  "extensions": [".ts", ".js"],
  "cache": { "enabled": true, "ttl": 12 }
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.EntryPoint != "src/main.ts" {
		t.Errorf("EntryPoint = %q, want src/main.ts", cfg.EntryPoint)
	}
	if cfg.ScanFolder != "lib" {
		t.Errorf("ScanFolder = %q, want lib", cfg.ScanFolder)
	}
	if got := strings.Join(cfg.Extensions, ","); got != ".ts,.js" {
		t.Errorf("Extensions = %s, want .ts,.js (order matters)", got)
	}
	if len(cfg.IgnorePaths) != 4 {
		t.Errorf("IgnorePaths should fall back to defaults, got %v", cfg.IgnorePaths)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != 12 {
		t.Errorf("Cache = %+v, want enabled with ttl 12", cfg.Cache)
	}
	if cfg.Cache.Dir != ".unused-files-seeker/cache" {
		t.Errorf("Cache.Dir = %q, want default", cfg.Cache.Dir)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "unused-files-seeker.config.yaml", `
scanFolder: app
ignorePaths:
  - generated
gitignore: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ScanFolder != "app" {
		t.Errorf("ScanFolder = %q, want app", cfg.ScanFolder)
	}
	if len(cfg.IgnorePaths) != 1 || cfg.IgnorePaths[0] != "generated" {
		t.Errorf("IgnorePaths = %v, want [generated]", cfg.IgnorePaths)
	}
	if !cfg.Gitignore {
		t.Error("Gitignore should be true")
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "unused-files-seeker.config.toml", `
entryPoint = "index.tsx"
dependencyDir = "vendor"

[cache]
enabled = true
ttl = 48
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.EntryPoint != "index.tsx" {
		t.Errorf("EntryPoint = %q, want index.tsx", cfg.EntryPoint)
	}
	if cfg.DependencyDir != "vendor" {
		t.Errorf("DependencyDir = %q, want vendor", cfg.DependencyDir)
	}
	if cfg.Cache.TTL != 48 {
		t.Errorf("Cache.TTL = %d, want 48", cfg.Cache.TTL)
	}
}

func TestLoadEmptyValuesFallBack(t *testing.T) {
	path := writeConfig(t, DefaultFileName, `{"scanFolder": "", "extensions": [], "ignorePaths": []}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ScanFolder != "src" {
		t.Errorf("ScanFolder = %q, want src", cfg.ScanFolder)
	}
	if len(cfg.Extensions) != 4 {
		t.Errorf("Extensions = %v, want defaults", cfg.Extensions)
	}
	if cfg.IgnorePaths == nil || len(cfg.IgnorePaths) != 0 {
		t.Errorf("IgnorePaths = %v, want explicit empty list", cfg.IgnorePaths)
	}
}

func TestLoadNonExistentFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFileName))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ScanFolder != "src" {
		t.Errorf("ScanFolder = %q, want src", cfg.ScanFolder)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeConfig(t, DefaultFileName, `{"scanFolder": "src",`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() should return error for invalid config")
	}
	if !strings.Contains(err.Error(), "error loading configuration") {
		t.Errorf("error = %v, want it to mention loading configuration", err)
	}
}

func TestLoadSchemaViolation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"extensions not a list", `{"extensions": ".ts"}`},
		{"extension without dot", `{"extensions": ["ts"]}`},
		{"scan folder not a string", `{"scanFolder": 3}`},
		{"negative ttl", `{"cache": {"ttl": -1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, DefaultFileName, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() should reject the document")
			}
			if !strings.Contains(err.Error(), "invalid configuration") {
				t.Errorf("error = %v, want schema validation error", err)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	cfg, path, err := LoadOrDefault(dir)
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty when no config exists", path)
	}
	if cfg.ScanFolder != "src" {
		t.Errorf("ScanFolder = %q, want default", cfg.ScanFolder)
	}

	yamlPath := filepath.Join(dir, "unused-files-seeker.config.yml")
	if err := os.WriteFile(yamlPath, []byte("scanFolder: web\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, path, err = LoadOrDefault(dir)
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if path != yamlPath {
		t.Errorf("path = %q, want %q", path, yamlPath)
	}
	if cfg.ScanFolder != "web" {
		t.Errorf("ScanFolder = %q, want web", cfg.ScanFolder)
	}
}

func TestHasExtension(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		path string
		want bool
	}{
		{"src/a.ts", true},
		{"src/a.tsx", true},
		{"src/a.d.ts", true},
		{"src/a.css", false},
		{"src/README", false},
	}
	for _, tt := range tests {
		if got := cfg.HasExtension(tt.path); got != tt.want {
			t.Errorf("HasExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWriteRoundTrip(t *testing.T) {
	for _, name := range []string{DefaultFileName, "cfg.yaml", "cfg.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			want := DefaultConfig()
			want.EntryPoint = "index.js"
			want.Extensions = []string{".ts", ".tsx"}
			want.Gitignore = true

			if err := Write(path, want); err != nil {
				t.Fatalf("Write() error: %v", err)
			}

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if got.EntryPoint != "index.js" {
				t.Errorf("EntryPoint = %q, want index.js", got.EntryPoint)
			}
			if strings.Join(got.Extensions, ",") != ".ts,.tsx" {
				t.Errorf("Extensions = %v, want [.ts .tsx]", got.Extensions)
			}
			if !got.Gitignore {
				t.Error("Gitignore should survive the round trip")
			}
			if got.Cache.TTL != want.Cache.TTL {
				t.Errorf("Cache.TTL = %d, want %d", got.Cache.TTL, want.Cache.TTL)
			}
		})
	}
}

func TestMarshalJSONIsIndented(t *testing.T) {
	data, err := Marshal(DefaultFileName, DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"scanFolder\": \"src\"") {
		t.Errorf("JSON output should be indented with two spaces:\n%s", data)
	}
}
