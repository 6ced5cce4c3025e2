package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	rcierrors "github.com/standardbeagle/rci/internal/errors"
	"github.com/standardbeagle/rci/internal/parser"
	"github.com/standardbeagle/rci/internal/types"
	"github.com/standardbeagle/rci/internal/version"
	"github.com/standardbeagle/rci/pkg/pathutil"
)

// AnalyzeFileParams are the arguments for the analyze_file tool.
type AnalyzeFileParams struct {
	Path  string `json:"path"`
	Kinds string `json:"kinds,omitempty"`
}

// AnalyzeDirectoryParams are the arguments for the analyze_directory tool.
type AnalyzeDirectoryParams struct {
	Path     string   `json:"path"`
	Patterns []string `json:"patterns,omitempty"`
	Kinds    string   `json:"kinds,omitempty"`
}

func (s *Server) handleAnalyzeFile(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params AnalyzeFileParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("analyze_file", err)
	}
	if params.Path == "" {
		return createErrorResponse("analyze_file", errors.New("path is required"))
	}

	kinds, warnings := s.resolver.ResolveAll(params.Kinds)

	result, err := s.analyzer.AnalyzeFile(ctx, params.Path)
	if err != nil {
		return createErrorResponse("analyze_file", err)
	}

	payload := map[string]interface{}{
		"success": true,
		"result":  filterResult(pathutil.ToRelativeResult(result, s.cfg.Project.Root), kinds),
	}
	if len(warnings) > 0 {
		payload["warnings"] = warnings
	}
	return createJSONResponse(payload)
}

func (s *Server) handleAnalyzeDirectory(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params AnalyzeDirectoryParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("analyze_directory", err)
	}
	if params.Path == "" {
		return createErrorResponse("analyze_directory", errors.New("path is required"))
	}

	kinds, warnings := s.resolver.ResolveAll(params.Kinds)

	patterns := params.Patterns
	if len(patterns) == 0 {
		patterns = s.cfg.Include
	}

	results, err := s.analyzer.AnalyzeDirectory(ctx, params.Path, patterns)
	var skipped []string
	if err != nil {
		// Per-file failures are partial: the batch still succeeded.
		var merr *rcierrors.MultiError
		if !errors.As(err, &merr) {
			return createErrorResponse("analyze_directory", err)
		}
		for _, ferr := range merr.Errors {
			skipped = append(skipped, ferr.Error())
		}
	}

	filtered := make([]interface{}, 0, len(results))
	for _, result := range pathutil.ToRelativeResults(results, s.cfg.Project.Root) {
		filtered = append(filtered, filterResult(result, kinds))
	}

	payload := map[string]interface{}{
		"success": true,
		"count":   len(results),
		"results": filtered,
	}
	if len(skipped) > 0 {
		payload["skipped"] = skipped
	}
	if len(warnings) > 0 {
		payload["warnings"] = warnings
	}
	return createJSONResponse(payload)
}

func (s *Server) handleCacheStats(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return createJSONResponse(map[string]interface{}{
		"success":   true,
		"cacheSize": s.analyzer.CacheSize(),
	})
}

func (s *Server) handleClearCache(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cleared := s.analyzer.CacheSize()
	s.analyzer.ClearCache()
	return createJSONResponse(map[string]interface{}{
		"success": true,
		"cleared": cleared,
	})
}

func (s *Server) handleInfo(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return createJSONResponse(map[string]interface{}{
		"success":             true,
		"name":                "rci-mcp-server",
		"version":             version.FullInfo(),
		"supportedExtensions": parser.SupportedExtensions(),
		"entityKinds":         CanonicalEntityKinds,
		"tools":               []string{"analyze_file", "analyze_directory", "cache_stats", "clear_cache", "info"},
	})
}

// filterResult projects an AnalysisResult down to the requested sections.
// No kinds means the full result.
func filterResult(result *types.AnalysisResult, kinds []string) interface{} {
	if len(kinds) == 0 {
		return result
	}

	out := map[string]interface{}{
		"filePath":    result.FilePath,
		"contentHash": result.ContentHash,
		"analyzedAt":  result.AnalyzedAt,
	}
	for _, kind := range kinds {
		switch kind {
		case "components":
			out[kind] = result.Components
		case "functions":
			out[kind] = result.Functions
		case "hooks":
			out[kind] = result.Hooks
		case "imports":
			out[kind] = result.Imports
		case "exports":
			out[kind] = result.Exports
		case "interfaces":
			out[kind] = result.Interfaces
		case "types":
			out[kind] = result.Types
		case "dependencies":
			out[kind] = result.Dependencies
		case "complexity":
			out[kind] = result.Complexity
		case "patterns":
			out[kind] = result.Patterns
		}
	}
	return out
}
