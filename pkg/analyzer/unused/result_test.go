package unused

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annotated(t *testing.T, refs map[string][]string, order ...string) *Universe {
	t.Helper()
	u := NewUniverse(order)
	for path, from := range refs {
		f, ok := u.lookup(path)
		require.True(t, ok)
		for _, r := range from {
			f.addReferrer(r)
		}
	}
	return u
}

func TestClassify(t *testing.T) {
	u := annotated(t, map[string][]string{
		"/p/src/a.ts":     {"/p/src/index.ts"},
		"/p/src/index.ts": {"/p/src/a.ts"},
	}, "/p/src/z.ts", "/p/src/a.ts", "/p/src/index.ts", "/p/src/b.ts")

	r := Classify(u, "/p/src/index.ts")

	paths := func(files []*CandidateFile) []string {
		var out []string
		for _, f := range files {
			out = append(out, f.Path)
		}
		return out
	}
	assert.Equal(t, []string{"/p/src/z.ts", "/p/src/a.ts", "/p/src/b.ts"}, paths(r.All))
	assert.Equal(t, []string{"/p/src/a.ts"}, paths(r.Used))
	assert.Equal(t, []string{"/p/src/z.ts", "/p/src/b.ts"}, paths(r.Unused), "enumeration order is kept")
	assert.True(t, r.HasUnused())
}

func TestRender_WithUnused(t *testing.T) {
	u := annotated(t, map[string][]string{
		"/p/src/a.ts": {"/p/src/index.ts"},
	}, "/p/src/index.ts", "/p/src/a.ts", "/p/src/orphan.ts", "/p/src/lib/old.ts")
	r := Classify(u, "/p/src/index.ts")
	r.Root = "/p"

	want := "\nSCAN RESULTS\n" +
		"==================================================\n\n" +
		"Total: 3 files\n" +
		"Used: 1 files\n" +
		"Unused: 2 files\n\n" +
		"UNUSED FILES:\n" +
		"------------------------------\n" +
		"src/orphan.ts\n" +
		"src/lib/old.ts\n"
	assert.Equal(t, want, r.Render())
}

func TestRender_NoUnusedOmitsSection(t *testing.T) {
	u := annotated(t, map[string][]string{
		"/p/src/a.ts": {"/p/src/index.ts"},
	}, "/p/src/index.ts", "/p/src/a.ts")
	r := Classify(u, "/p/src/index.ts")
	r.Root = "/p"

	out := r.Render()
	assert.Contains(t, out, "Total: 1 files\n")
	assert.Contains(t, out, "Used: 1 files\n")
	assert.NotContains(t, out, "Unused")
	assert.NotContains(t, out, "UNUSED FILES")
}

func TestRender_Warnings(t *testing.T) {
	u := annotated(t, map[string][]string{
		"/p/src/a.ts": {"/p/src/index.ts"},
	}, "/p/src/index.ts", "/p/src/a.ts")
	r := Classify(u, "/p/src/index.ts")
	r.Root = "/p"
	r.Warnings = []FileError{{Path: "/p/src/a.ts", Err: errors.New("permission denied")}}

	want := "\nSCAN RESULTS\n" +
		"==================================================\n\n" +
		"Total: 1 files\n" +
		"Used: 1 files\n" +
		"\nWARNINGS:\n" +
		"------------------------------\n" +
		"src/a.ts: permission denied\n"
	assert.Equal(t, want, r.Render())

	var buf bytes.Buffer
	require.NoError(t, r.RenderMarkdown(&buf))
	assert.Contains(t, buf.String(), "### Warnings\n\n- `src/a.ts`: permission denied\n")
}

func TestRender_Deterministic(t *testing.T) {
	u := annotated(t, nil, "/p/src/index.ts", "/p/src/b.ts", "/p/src/a.ts")
	r := Classify(u, "/p/src/index.ts")
	r.Root = "/p"
	assert.Equal(t, r.Render(), r.Render())
}

func TestRenderMarkdown(t *testing.T) {
	u := annotated(t, nil, "/p/src/index.ts", "/p/src/orphan.ts")
	r := Classify(u, "/p/src/index.ts")
	r.Root = "/p"

	var buf bytes.Buffer
	require.NoError(t, r.RenderMarkdown(&buf))
	assert.Contains(t, buf.String(), "| Unused | 1 |")
	assert.Contains(t, buf.String(), "- `src/orphan.ts`")
}

func TestReport(t *testing.T) {
	u := annotated(t, map[string][]string{
		"/p/src/a.ts": {"/p/src/index.ts"},
	}, "/p/src/index.ts", "/p/src/a.ts", "/p/src/orphan.ts")
	r := Classify(u, "/p/src/index.ts")
	r.Root = "/p"
	r.Warnings = []FileError{{Path: "/p/src/a.ts", Err: errors.New("permission denied")}}

	rep := r.Report()
	assert.Equal(t, "src/index.ts", rep.EntryPoint)
	assert.Equal(t, Summary{Total: 2, Used: 1, Unused: 1}, rep.Summary)
	assert.Equal(t, []string{"src/orphan.ts"}, rep.UnusedFiles)
	assert.Equal(t, []UsedFile{{Path: "src/a.ts", ReferencedBy: []string{"src/index.ts"}}}, rep.UsedFiles)
	assert.Equal(t, []WarningRow{{Path: "src/a.ts", Error: "permission denied"}}, rep.Warnings)
	assert.Equal(t, rep, r.RenderData())
}

func TestRel(t *testing.T) {
	r := &ScanResult{}
	assert.Equal(t, "/p/src/a.ts", r.Rel("/p/src/a.ts"), "no root keeps absolute paths")

	r.Root = "/p"
	assert.Equal(t, "src/a.ts", r.Rel("/p/src/a.ts"))
}
