package unused

import (
	"context"
	"testing"

	"github.com/panbanda/unused-files-seeker/pkg/analyzer"
	"github.com/panbanda/unused-files-seeker/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paths(files []*CandidateFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

func TestNew(t *testing.T) {
	a := New()
	defer a.Close()

	assert.NotNil(t, a.src)
	assert.IsType(t, &PatternExtractor{}, a.extractor)
	assert.Equal(t, DefaultExtensions, a.extensions)
	assert.Equal(t, DefaultDependencyDir, a.dependencyDir)
}

func TestNewWithOptions(t *testing.T) {
	a := New(
		WithFs(afero.NewMemMapFs()),
		WithExtensions([]string{".ts"}),
		WithDependencyDir("vendor"),
		WithExtensions(nil),
		WithDependencyDir(""),
	)

	assert.Equal(t, []string{".ts"}, a.extensions, "empty extensions keep the previous value")
	assert.Equal(t, "vendor", a.dependencyDir, "empty dependency dir keeps the previous value")
}

func TestAnalyze_ConcreteScenario(t *testing.T) {
	fs := testutil.MemFS()
	files := testutil.CreateFileTree(t, fs, "/p/src", map[string]string{
		"index.ts":  `import './a'`,
		"a.ts":      `import './b'`,
		"b.ts":      "",
		"orphan.ts": "",
	})

	a := New(WithFs(fs))
	result, err := a.Analyze(context.Background(), analyzer.Project{
		Root:       "/p",
		EntryPoint: "/p/src/index.ts",
		Files:      files,
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"/p/src/a.ts", "/p/src/b.ts"}, paths(result.Used))
	assert.Equal(t, []string{"/p/src/orphan.ts"}, paths(result.Unused))
	assert.NotContains(t, paths(result.All), "/p/src/index.ts")
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Cycles)

	out := result.Render()
	assert.Contains(t, out, "UNUSED FILES:\n------------------------------\nsrc/orphan.ts\n")
	assert.NotContains(t, out, "src/a.ts")
	assert.NotContains(t, out, "src/b.ts")
}

func TestAnalyze_UnreadableScenario(t *testing.T) {
	mem := testutil.MemFS()
	files := testutil.CreateFileTree(t, mem, "/p/src", map[string]string{
		"index.ts":  `import './a'`,
		"a.ts":      `import './b'`,
		"b.ts":      "",
		"orphan.ts": "",
	})

	a := New(WithFs(testutil.NewUnreadableFs(mem, "/p/src/a.ts")))
	result, err := a.Analyze(context.Background(), analyzer.Project{
		Root:       "/p",
		EntryPoint: "/p/src/index.ts",
		Files:      files,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/p/src/a.ts"}, paths(result.Used))
	assert.ElementsMatch(t, []string{"/p/src/b.ts", "/p/src/orphan.ts"}, paths(result.Unused))
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "/p/src/a.ts", result.Warnings[0].Path)
}

func TestAnalyze_ReachabilityMatchesReferences(t *testing.T) {
	fs := testutil.MemFS()
	files := testutil.CreateFileTree(t, fs, "/p/src", map[string]string{
		"index.js":             "const r = require('./routes')\nimport('./lazy/page')",
		"routes/index.js":      "import { h } from '../handlers/h'",
		"handlers/h.jsx":       "/// <reference path=\"../types.d.ts\" />",
		"types.d.ts":           "",
		"lazy/page.tsx":        "import x from 'fs'",
		"dead/island.js":       "import './other'",
		"dead/other.js":        "import './island'",
		"dead/nested/index.js": "",
	})

	a := New(WithFs(fs))
	result, err := a.Analyze(context.Background(), analyzer.Project{
		Root:       "/p",
		EntryPoint: "/p/src/index.js",
		Files:      files,
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"/p/src/routes/index.js",
		"/p/src/handlers/h.jsx",
		"/p/src/types.d.ts",
		"/p/src/lazy/page.tsx",
	}, paths(result.Used))
	assert.ElementsMatch(t, []string{
		"/p/src/dead/island.js",
		"/p/src/dead/other.js",
		"/p/src/dead/nested/index.js",
	}, paths(result.Unused))

	// Unreachable files were never expanded, so their mutual imports leave no trace.
	for _, f := range result.Unused {
		assert.Empty(t, f.ReferencedBy, f.Path)
		assert.False(t, f.Visited, f.Path)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	fs := testutil.MemFS()
	files := testutil.CreateFileTree(t, fs, "/p/src", map[string]string{
		"index.ts": "import './a'\nimport './b'",
		"a.ts":     "import './b'\nimport './a'",
		"b.ts":     "import './a'",
		"c.ts":     "import './a'",
	})
	project := analyzer.Project{Root: "/p", EntryPoint: "/p/src/index.ts", Files: files}

	a := New(WithFs(fs))
	first, err := a.Analyze(context.Background(), project)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), project)
	require.NoError(t, err)

	assert.Equal(t, paths(first.Used), paths(second.Used))
	assert.Equal(t, paths(first.Unused), paths(second.Unused))
	assert.Equal(t, first.Render(), second.Render())
	assert.Equal(t, []string{"/p/src/c.ts"}, paths(first.Unused))
	assert.Equal(t, [][]string{{"/p/src/a.ts"}, {"/p/src/a.ts", "/p/src/b.ts"}}, first.Cycles)
}

type stubExtractor map[string][]string

func (s stubExtractor) Extract(text string) []string {
	return s[text]
}

func TestAnalyze_CustomExtractor(t *testing.T) {
	fs := testutil.MemFS()
	files := testutil.CreateFileTree(t, fs, "/p/src", map[string]string{
		"index.ts": "ENTRY",
		"a.ts":     "",
	})

	a := New(WithFs(fs), WithExtractor(stubExtractor{"ENTRY": {"./a.ts"}}))
	result, err := a.Analyze(context.Background(), analyzer.Project{
		Root: "/p", EntryPoint: "/p/src/index.ts", Files: files,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/p/src/a.ts"}, paths(result.Used))
}

func TestAnalyze_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New(WithFs(testutil.MemFS()))
	_, err := a.Analyze(ctx, analyzer.Project{Root: "/p", EntryPoint: "/p/src/index.ts"})
	assert.ErrorIs(t, err, context.Canceled)
}
