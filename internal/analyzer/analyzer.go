// Package analyzer is the engine's public entry point: it parses React-family
// source files and derives structured metadata (components, functions, hooks,
// imports, exports, type declarations, dependencies, complexity metrics, and
// heuristic pattern detections) as plain serializable records.
package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/rci/internal/debug"
	rcierrors "github.com/standardbeagle/rci/internal/errors"
	"github.com/standardbeagle/rci/internal/parser"
	"github.com/standardbeagle/rci/internal/types"
)

// DefaultFrameworkModule is the UI-framework root module the pattern
// detector keys on unless configured otherwise.
const DefaultFrameworkModule = "react"

// DefaultGlobs match every parseable source file under a directory.
var DefaultGlobs = []string{"**/*.tsx", "**/*.ts", "**/*.jsx", "**/*.js"}

// Options tune an Analyzer instance.
type Options struct {
	// FrameworkModule is the import specifier treated as the UI framework
	// root. Empty means DefaultFrameworkModule.
	FrameworkModule string
	// Workers bounds concurrent file analysis in AnalyzeDirectory.
	// Zero or negative means GOMAXPROCS.
	Workers int
	// FileTimeout bounds a single file's analysis. Zero disables the bound.
	FileTimeout time.Duration
}

// Analyzer analyzes files and memoizes results by absolute path. The cache
// is owned by the instance; two analyzers never share or race on one map.
// Entries are only dropped by ClearCache or Invalidate, never by staleness.
type Analyzer struct {
	opts Options

	mu    sync.RWMutex
	cache map[string]*types.AnalysisResult
}

// New returns an Analyzer with the given options.
func New(opts Options) *Analyzer {
	if opts.FrameworkModule == "" {
		opts.FrameworkModule = DefaultFrameworkModule
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Analyzer{
		opts:  opts,
		cache: make(map[string]*types.AnalysisResult),
	}
}

// AnalyzeFile analyzes one file, returning the cached result when the path
// was analyzed before. Parse and I/O errors propagate to the caller.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*types.AnalysisResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, rcierrors.NewFileError("resolve", path, err)
	}

	a.mu.RLock()
	cached, ok := a.cache[abs]
	a.mu.RUnlock()
	if ok {
		debug.LogAnalysis("cache hit: %s", abs)
		return cached, nil
	}

	if a.opts.FileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.FileTimeout)
		defer cancel()
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, rcierrors.NewFileError("read", abs, err)
	}

	result, err := a.analyze(ctx, abs, content)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	// Another goroutine may have analyzed the same path concurrently; the
	// first stored result wins so callers always see one object per path.
	if existing, ok := a.cache[abs]; ok {
		a.mu.Unlock()
		return existing, nil
	}
	a.cache[abs] = result
	a.mu.Unlock()

	debug.LogAnalysis("analyzed %s: %d components, %d functions, %d hooks",
		abs, len(result.Components), len(result.Functions), len(result.Hooks))
	return result, nil
}

// analyze runs the full extraction pipeline over one file's content. The
// context is checked between passes so a per-file timeout can cut off a
// pathological input.
func (a *Analyzer) analyze(ctx context.Context, path string, content []byte) (*types.AnalysisResult, error) {
	tree, err := parser.Parse(content, path)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	result := &types.AnalysisResult{
		FilePath:    path,
		ContentHash: xxhash.Sum64(content),
		AnalyzedAt:  time.Now().UTC(),
	}

	components, claimed := extractComponents(tree)
	result.Components = components
	result.Functions = extractFunctions(tree, claimed)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Hooks = extractHooks(tree)
	result.Imports = extractImports(tree)
	result.Exports = extractExports(tree)
	result.Interfaces = extractInterfaces(tree)
	result.Types = extractTypeAliases(tree)
	result.Dependencies = buildDependencies(path, result.Imports)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Complexity = calculateFileComplexity(tree)
	result.Patterns = extractPatterns(tree, a.opts.FrameworkModule, result.Imports)
	return result, nil
}

// AnalyzeDirectory expands each glob pattern under dir and analyzes every
// match. A directory analysis never aborts because one file is unparsable:
// per-file failures are logged, collected into a *rcierrors.MultiError, and
// returned alongside the successful results. Results come back ordered by
// path. Files are analyzed in parallel, bounded by Options.Workers.
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, dir string, patterns []string) ([]*types.AnalysisResult, error) {
	if len(patterns) == 0 {
		patterns = DefaultGlobs
	}

	paths, err := a.matchFiles(dir, patterns)
	if err != nil {
		return nil, err
	}

	results := make([]*types.AnalysisResult, len(paths))
	failures := make([]error, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Workers)
	for i, path := range paths {
		g.Go(func() error {
			res, err := a.AnalyzeFile(gctx, path)
			if err != nil {
				debug.LogAnalysis("skipping %s: %v", path, err)
				failures[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ok := results[:0]
	for _, r := range results {
		if r != nil {
			ok = append(ok, r)
		}
	}
	if merr := rcierrors.NewMultiError(failures); len(merr.Errors) > 0 {
		return ok, merr
	}
	return ok, nil
}

// matchFiles expands glob patterns relative to dir into a sorted, unique
// list of parseable file paths.
func (a *Analyzer) matchFiles(dir string, patterns []string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, rcierrors.NewFileError("stat", dir, err)
	}

	fsys := os.DirFS(dir)
	seen := map[string]bool{}
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, rcierrors.NewFileError("glob "+pattern, dir, err)
		}
		for _, match := range matches {
			full := filepath.Join(dir, filepath.FromSlash(match))
			if seen[full] || !parser.IsSupported(full) {
				continue
			}
			if info, err := os.Stat(full); err != nil || info.IsDir() {
				continue
			}
			seen[full] = true
			paths = append(paths, full)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// ClearCache drops every memoized result.
func (a *Analyzer) ClearCache() {
	a.mu.Lock()
	a.cache = make(map[string]*types.AnalysisResult)
	a.mu.Unlock()
}

// CacheSize reports the number of memoized results.
func (a *Analyzer) CacheSize() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.cache)
}

// Invalidate drops the memoized result for one path, so the next AnalyzeFile
// re-reads and re-analyzes it. Used by the file watcher on change events.
func (a *Analyzer) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	a.mu.Lock()
	delete(a.cache, abs)
	a.mu.Unlock()
}
