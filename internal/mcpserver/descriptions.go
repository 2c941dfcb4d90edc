package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeFindUnusedFiles() string {
	return `Finds JavaScript/TypeScript source files that are never referenced from the project's entry point.

USE WHEN:
- Cleaning up a frontend or Node.js codebase before a refactor
- Checking whether a module can be deleted safely
- Auditing leftovers after a feature was removed

INTERPRETING RESULTS:
- unused_files are not reachable from the entry point through import, require,
  dynamic import() or triple-slash reference directives
- Detection is lexical: references built from variables or template expressions
  are not seen, so confirm before deleting files loaded dynamically
- A file referenced only by other unused files is still unused
- warnings list files that could not be read; their references were not followed

METRICS RETURNED:
- summary: total, used and unused counts (entry point excluded)
- unused_files: paths relative to the project root
- used_files: each used file with the files that reference it
- cycles: groups of files that import each other`
}
