package unused

import "regexp"

// Extractor finds module references in source text.
type Extractor interface {
	// Extract returns the distinct module references in text.
	// It never fails; malformed input yields an empty or partial result.
	Extract(text string) []string
}

// referencePatterns match a quoted module path in each supported shape.
// Matching is lexical, so references inside comments or strings are also picked up,
// and imports whose specifier list spans several lines are missed.
var referencePatterns = []*regexp.Regexp{
	// import x from './x'
	regexp.MustCompile(`import\s+.*?\s+from\s+['"\x60]([^'"\x60]+)['"\x60]`),
	// import './polyfill'
	regexp.MustCompile(`import\s+['"\x60]([^'"\x60]+)['"\x60]`),
	// require('./x')
	regexp.MustCompile(`require\s*\(\s*['"\x60]([^'"\x60]+)['"\x60]\s*\)`),
	// import('./lazy')
	regexp.MustCompile(`import\s*\(\s*['"\x60]([^'"\x60]+)['"\x60]\s*\)`),
	// /// <reference path="./types.d.ts" />
	regexp.MustCompile(`///\s*<reference\s+path\s*=\s*['"\x60]([^'"\x60]+)['"\x60]\s*/>`),
}

var builtinModules = map[string]bool{
	"fs": true, "path": true, "os": true, "util": true, "crypto": true,
	"stream": true, "events": true, "buffer": true, "url": true, "querystring": true,
	"http": true, "https": true, "net": true, "tls": true, "dns": true,
	"child_process": true, "cluster": true, "worker_threads": true, "readline": true, "repl": true,
	"vm": true, "v8": true, "perf_hooks": true, "async_hooks": true, "timers": true,
	"tty": true, "string_decoder": true, "assert": true, "console": true, "process": true,
	"module": true, "punycode": true, "zlib": true, "http2": true, "inspector": true,
	"trace_events": true, "wasi": true,
}

// IsBuiltin reports whether name is a platform module that never maps to a project file.
func IsBuiltin(name string) bool {
	return builtinModules[name]
}

// PatternExtractor is the regular-expression Extractor.
type PatternExtractor struct {
	patterns []*regexp.Regexp
}

// NewPatternExtractor creates an extractor for import, require, dynamic import
// and triple-slash reference directives.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{patterns: referencePatterns}
}

// Extract implements Extractor. Results keep first-seen order, pattern by pattern.
func (e *PatternExtractor) Extract(text string) []string {
	seen := make(map[string]bool)
	var refs []string
	for _, re := range e.patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			ref := m[1]
			if IsBuiltin(ref) || seen[ref] {
				continue
			}
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return refs
}
