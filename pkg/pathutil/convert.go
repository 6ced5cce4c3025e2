// Package pathutil converts between absolute and relative paths.
//
// The analyzer keys its cache on absolute paths to avoid ambiguity, but
// user-facing output (CLI JSON, MCP responses) reads better with paths
// relative to the project root. This package is that conversion layer.
package pathutil

import (
	"path/filepath"
	"strings"

	"github.com/standardbeagle/rci/internal/types"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already
// relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/App.tsx", "/home/user/project") → "src/App.tsx"
//   - ToRelative("/other/location/file.ts", "/home/user/project") → "/other/location/file.ts" (outside root)
//   - ToRelative("src/App.tsx", "/home/user/project") → "src/App.tsx" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}
	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		// Conversion failed (e.g., different drives on Windows).
		return absPath
	}

	// A path outside the root is clearer left absolute.
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}
	return relPath
}

// ToRelativeResult returns a copy of the analysis result with its file path
// made relative to rootDir. The original is never modified: cached results
// are shared and must keep their absolute keys.
func ToRelativeResult(result *types.AnalysisResult, rootDir string) *types.AnalysisResult {
	if result == nil {
		return nil
	}
	converted := *result
	converted.FilePath = ToRelative(result.FilePath, rootDir)
	return &converted
}

// ToRelativeResults converts a batch of results for output, leaving the
// originals untouched.
func ToRelativeResults(results []*types.AnalysisResult, rootDir string) []*types.AnalysisResult {
	if len(results) == 0 {
		return results
	}
	converted := make([]*types.AnalysisResult, len(results))
	for i, r := range results {
		converted[i] = ToRelativeResult(r, rootDir)
	}
	return converted
}
