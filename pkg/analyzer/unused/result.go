package unused

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// ScanResult partitions the universe, minus the entry point, into used and unused files.
// All three views keep the scanner's enumeration order.
type ScanResult struct {
	Root       string
	EntryPoint string
	All        []*CandidateFile
	Used       []*CandidateFile
	Unused     []*CandidateFile
	// Warnings lists files whose content could not be read during traversal.
	Warnings []FileError
	// Cycles lists import cycles among discovered edges, see ImportCycles.
	Cycles [][]string
}

// Classify removes entry from the universe and partitions the rest by whether
// any incoming reference was recorded.
func Classify(u *Universe, entry string) *ScanResult {
	result := &ScanResult{EntryPoint: entry}
	for _, f := range u.files {
		if f.Path == entry {
			continue
		}
		result.All = append(result.All, f)
		if f.IsUsed() {
			result.Used = append(result.Used, f)
		} else {
			result.Unused = append(result.Unused, f)
		}
	}
	return result
}

// HasUnused reports whether any unused file was found.
func (r *ScanResult) HasUnused() bool {
	return len(r.Unused) > 0
}

// Rel returns path relative to the result's root, or path itself when that fails.
func (r *ScanResult) Rel(path string) string {
	if r.Root == "" {
		return path
	}
	rel, err := filepath.Rel(r.Root, path)
	if err != nil {
		return path
	}
	return rel
}

// Render returns the plain-text summary report.
func (r *ScanResult) Render() string {
	var sb strings.Builder
	_ = r.RenderText(&sb, false)
	return sb.String()
}

// RenderText writes the summary: counts, then every unused file relative to the root,
// then any files that could not be read. Empty sections are omitted.
func (r *ScanResult) RenderText(w io.Writer, colored bool) error {
	used := fmt.Sprintf("Used: %d files", len(r.Used))
	unused := fmt.Sprintf("Unused: %d files", len(r.Unused))
	title := "SCAN RESULTS"
	warnings := "WARNINGS:"
	if colored {
		used = color.GreenString(used)
		unused = color.RedString(unused)
		title = color.New(color.Bold).Sprint(title)
		warnings = color.YellowString(warnings)
	}

	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", 50))
	fmt.Fprintf(w, "Total: %d files\n", len(r.All))
	fmt.Fprintf(w, "%s\n", used)

	if r.HasUnused() {
		fmt.Fprintf(w, "%s\n\n", unused)
		fmt.Fprintln(w, "UNUSED FILES:")
		fmt.Fprintln(w, strings.Repeat("-", 30))
		for _, f := range r.Unused {
			fmt.Fprintln(w, r.Rel(f.Path))
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, warnings)
		fmt.Fprintln(w, strings.Repeat("-", 30))
		for _, fe := range r.Warnings {
			fmt.Fprintf(w, "%s: %v\n", r.Rel(fe.Path), fe.Err)
		}
	}
	return nil
}

// RenderMarkdown writes the summary as a markdown section.
func (r *ScanResult) RenderMarkdown(w io.Writer) error {
	fmt.Fprintln(w, "## Scan Results")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Metric | Files |")
	fmt.Fprintln(w, "| --- | --- |")
	fmt.Fprintf(w, "| Total | %d |\n", len(r.All))
	fmt.Fprintf(w, "| Used | %d |\n", len(r.Used))
	fmt.Fprintf(w, "| Unused | %d |\n", len(r.Unused))

	if r.HasUnused() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "### Unused Files")
		fmt.Fprintln(w)
		for _, f := range r.Unused {
			fmt.Fprintf(w, "- `%s`\n", r.Rel(f.Path))
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "### Warnings")
		fmt.Fprintln(w)
		for _, fe := range r.Warnings {
			fmt.Fprintf(w, "- `%s`: %v\n", r.Rel(fe.Path), fe.Err)
		}
	}
	return nil
}

// Report is the serializable form of a ScanResult.
type Report struct {
	Root        string       `json:"root" toon:"root"`
	EntryPoint  string       `json:"entry_point" toon:"entry_point"`
	Summary     Summary      `json:"summary" toon:"summary"`
	UnusedFiles []string     `json:"unused_files" toon:"unused_files"`
	UsedFiles   []UsedFile   `json:"used_files" toon:"used_files"`
	Warnings    []WarningRow `json:"warnings,omitempty" toon:"warnings,omitempty"`
	Cycles      [][]string   `json:"cycles,omitempty" toon:"cycles,omitempty"`
}

// Summary holds the three partition counts.
type Summary struct {
	Total  int `json:"total" toon:"total"`
	Used   int `json:"used" toon:"used"`
	Unused int `json:"unused" toon:"unused"`
}

// UsedFile is a used file with its importers, all relative to the root.
type UsedFile struct {
	Path         string   `json:"path" toon:"path"`
	ReferencedBy []string `json:"referenced_by" toon:"referenced_by"`
}

// WarningRow is a serializable FileError.
type WarningRow struct {
	Path  string `json:"path" toon:"path"`
	Error string `json:"error" toon:"error"`
}

// RenderData returns the report for JSON and TOON serialization.
func (r *ScanResult) RenderData() any {
	return r.Report()
}

// Report builds the serializable report with root-relative paths.
func (r *ScanResult) Report() *Report {
	rep := &Report{
		Root:       r.Root,
		EntryPoint: r.Rel(r.EntryPoint),
		Summary: Summary{
			Total:  len(r.All),
			Used:   len(r.Used),
			Unused: len(r.Unused),
		},
		UnusedFiles: make([]string, 0, len(r.Unused)),
		UsedFiles:   make([]UsedFile, 0, len(r.Used)),
	}
	for _, f := range r.Unused {
		rep.UnusedFiles = append(rep.UnusedFiles, r.Rel(f.Path))
	}
	for _, f := range r.Used {
		refs := make([]string, len(f.ReferencedBy))
		for i, ref := range f.ReferencedBy {
			refs[i] = r.Rel(ref)
		}
		rep.UsedFiles = append(rep.UsedFiles, UsedFile{Path: r.Rel(f.Path), ReferencedBy: refs})
	}
	for _, w := range r.Warnings {
		rep.Warnings = append(rep.Warnings, WarningRow{Path: r.Rel(w.Path), Error: w.Err.Error()})
	}
	for _, cycle := range r.Cycles {
		rel := make([]string, len(cycle))
		for i, p := range cycle {
			rel[i] = r.Rel(p)
		}
		rep.Cycles = append(rep.Cycles, rel)
	}
	return rep
}
