// Package filter implements the gitignore-aware Filter Layer (§4.13):
// path exclusion applied before any directory Structure emits entries.
package filter

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// defaultNoise lists directory basenames excluded regardless of
// gitignore content — build outputs, dependency caches, and
// version-control internals that are never useful to introspect.
var defaultNoise = []string{
	".git", ".hg", ".svn", "vendor", "node_modules", "dist", "build",
	"target", "__pycache__", ".venv", "venv", ".tox", ".mypy_cache",
	".pytest_cache", ".cache", ".idea", ".vscode",
}

// Filter decides whether a path should be visible to a directory
// traversal. It combines the default-noise list and discovered gitignore
// rules by union, with --exclude adding further patterns and
// --no-gitignore removing the gitignore source entirely.
type Filter struct {
	noGitignore  bool
	excludeGlobs []string
	gitignore    *ignore.GitIgnore
	root         string
}

// Options configures a new Filter.
type Options struct {
	Root         string   // directory traversal root, for gitignore discovery
	ExcludeGlobs []string // additional doublestar glob patterns to exclude
	NoGitignore  bool     // disables gitignore-rule discovery entirely
}

// New builds a Filter, discovering .gitignore files by walking upward
// from Root unless NoGitignore is set.
func New(opts Options) *Filter {
	f := &Filter{
		noGitignore:  opts.NoGitignore,
		excludeGlobs: opts.ExcludeGlobs,
		root:         opts.Root,
	}
	if !opts.NoGitignore {
		f.gitignore = discoverGitignore(opts.Root)
	}
	return f
}

// discoverGitignore walks up from dir collecting .gitignore files,
// compiling them root-first so a deeper, more specific .gitignore's
// rules are layered on top of its ancestors', matching git's own
// precedence.
func discoverGitignore(dir string) *ignore.GitIgnore {
	var files []string
	cur := dir
	for {
		candidate := filepath.Join(cur, ".gitignore")
		if _, err := os.Stat(candidate); err == nil {
			files = append(files, candidate)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	if len(files) == 0 {
		return nil
	}
	for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
		files[i], files[j] = files[j], files[i]
	}
	var allLines []string
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		allLines = append(allLines, strings.Split(string(data), "\n")...)
	}
	if len(allLines) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(allLines...)
}

// ShouldSkipDir reports whether a directory (given as a path relative to
// the traversal root) should be pruned entirely, stopping descent.
func (f *Filter) ShouldSkipDir(relPath string) bool {
	base := filepath.Base(relPath)
	for _, noisy := range defaultNoise {
		if base == noisy {
			return true
		}
	}
	if strings.HasPrefix(base, ".") && base != "." {
		return true
	}
	if f.gitignore != nil && f.gitignore.MatchesPath(relPath) {
		return true
	}
	return f.matchesExclude(relPath)
}

// ShouldSkipFile reports whether a file (relative to the traversal root)
// should be excluded from the Structure.
func (f *Filter) ShouldSkipFile(relPath string) bool {
	if f.gitignore != nil && f.gitignore.MatchesPath(relPath) {
		return true
	}
	return f.matchesExclude(relPath)
}

func (f *Filter) matchesExclude(relPath string) bool {
	base := filepath.Base(relPath)
	for _, pattern := range f.excludeGlobs {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
