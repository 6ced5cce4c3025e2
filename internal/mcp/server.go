// Package mcp exposes the analysis engine to MCP clients over stdio. The
// protocol layer is a thin consumer: it validates parameters, calls the
// analyzer facade, and serializes results; it never reaches into parsing or
// extraction.
package mcp

import (
	"context"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/rci/internal/analyzer"
	"github.com/standardbeagle/rci/internal/config"
	"github.com/standardbeagle/rci/internal/debug"
	"github.com/standardbeagle/rci/internal/version"
	"github.com/standardbeagle/rci/internal/watcher"
)

// Server wires the analyzer facade to MCP tool handlers.
type Server struct {
	cfg      *config.Config
	analyzer *analyzer.Analyzer
	resolver *EntityKindResolver
	watcher  *watcher.Watcher
	server   *mcp.Server
}

// NewServer builds the MCP server around one analyzer instance. When watch
// mode is configured, changed files are invalidated from the cache so a
// long-running session never serves stale results.
func NewServer(cfg *config.Config) (*Server, error) {
	s := &Server{
		cfg: cfg,
		analyzer: analyzer.New(analyzer.Options{
			FrameworkModule: cfg.Analysis.FrameworkModule,
			Workers:         cfg.Analysis.Workers,
			FileTimeout:     cfg.FileTimeout(),
		}),
		resolver: NewEntityKindResolver(),
	}

	if cfg.Watch.Enabled {
		w, err := watcher.New(s.analyzer, time.Duration(cfg.Watch.DebounceMs)*time.Millisecond, cfg.Exclude)
		if err != nil {
			return nil, err
		}
		if err := w.Start(cfg.Project.Root); err != nil {
			return nil, err
		}
		s.watcher = w
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "rci-mcp-server",
		Version: version.Version,
	}, nil)
	s.registerTools()

	return s, nil
}

// Run serves MCP requests over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	debug.LogMCP("serving over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Close stops the file watcher, if any.
func (s *Server) Close() error {
	if s.watcher != nil {
		return s.watcher.Stop()
	}
	return nil
}

func (s *Server) registerTools() {
	kindsSchema := &jsonschema.Schema{
		Type: "string",
		Description: "Comma-separated result sections to return (components, functions, hooks, " +
			"imports, exports, interfaces, types, dependencies, complexity, patterns). " +
			"Abbreviations and close misspellings resolve fuzzily. Empty returns everything.",
	}

	s.server.AddTool(&mcp.Tool{
		Name:        "analyze_file",
		Description: "Analyze one React/TypeScript/JavaScript source file: components, functions, hooks, imports/exports, type declarations, complexity metrics, and pattern detections.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "Path to the source file (.js, .jsx, .ts, .tsx)",
				},
				"kinds": kindsSchema,
			},
			Required: []string{"path"},
		},
	}, s.handleAnalyzeFile)

	s.server.AddTool(&mcp.Tool{
		Name:        "analyze_directory",
		Description: "Analyze every matching source file under a directory. Files that fail to parse are skipped and reported, never fatal.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "Directory to analyze",
				},
				"patterns": {
					Type:        "array",
					Description: "Glob patterns relative to the directory (default: all supported extensions)",
					Items:       &jsonschema.Schema{Type: "string"},
				},
				"kinds": kindsSchema,
			},
			Required: []string{"path"},
		},
	}, s.handleAnalyzeDirectory)

	s.server.AddTool(&mcp.Tool{
		Name:        "cache_stats",
		Description: "Report how many analysis results are memoized.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleCacheStats)

	s.server.AddTool(&mcp.Tool{
		Name:        "clear_cache",
		Description: "Drop all memoized analysis results, forcing re-analysis on the next request.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleClearCache)

	s.server.AddTool(&mcp.Tool{
		Name:        "info",
		Description: "Server version, supported file extensions, and available tools.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleInfo)
}
