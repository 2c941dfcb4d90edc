package analyzer

import "context"

// Project describes a single reachability run.
type Project struct {
	// Root is the project root; reports print paths relative to it.
	Root string
	// EntryPoint is the absolute path of the file traversal starts from.
	EntryPoint string
	// Files is the candidate universe in enumeration order.
	Files []string
}

// ProjectAnalyzer is the interface implemented by analyzers that work on a whole project.
type ProjectAnalyzer[T any] interface {
	// Analyze runs the analysis for the project. The context is checked between files.
	Analyze(ctx context.Context, p Project) (T, error)

	// Close releases any resources held by the analyzer.
	Close()
}
