package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/rci/internal/analyzer"
	"github.com/standardbeagle/rci/internal/config"
	"github.com/standardbeagle/rci/internal/debug"
	rcierrors "github.com/standardbeagle/rci/internal/errors"
	"github.com/standardbeagle/rci/internal/mcp"
	"github.com/standardbeagle/rci/internal/version"
	"github.com/standardbeagle/rci/pkg/pathutil"
)

// loadConfigWithOverrides loads .rci.kdl and applies CLI flag overrides.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
	}

	cfg, err := config.Load(absRoot)
	if err != nil {
		return nil, err
	}
	cfg.Project.Root = absRoot

	if include := c.StringSlice("include"); len(include) > 0 {
		cfg.Include = include
	}
	if exclude := c.StringSlice("exclude"); len(exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, exclude...)
	}
	if framework := c.String("framework"); framework != "" {
		cfg.Analysis.FrameworkModule = framework
	}
	if workers := c.Int("workers"); workers > 0 {
		cfg.Analysis.Workers = workers
	}
	if c.Bool("watch") {
		cfg.Watch.Enabled = true
	}
	return cfg, nil
}

func main() {
	app := &cli.App{
		Name:                   "rci",
		Usage:                  "Static analysis for React codebases: components, hooks, types, complexity, and design patterns",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory (location of .rci.kdl)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Include files matching glob patterns (e.g., --include 'src/**/*.tsx')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (e.g., --exclude '**/__tests__/**')",
			},
			&cli.StringFlag{
				Name:  "framework",
				Usage: "UI framework root module for pattern detection (default: react)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent file analysis workers (0 = auto)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Aliases:   []string{"a"},
				Usage:     "Analyze a source file or directory and print results as JSON",
				ArgsUsage: "<path>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "pretty",
						Aliases: []string{"p"},
						Usage:   "Indent JSON output",
					},
				},
				Action: analyzeCommand,
			},
			{
				Name:  "mcp",
				Usage: "Start MCP (Model Context Protocol) server with stdio transport",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Invalidate cached results when watched files change",
					},
				},
				Action: mcpCommand,
			},
			{
				Name:  "version",
				Usage: "Print full version information",
				Action: func(c *cli.Context) error {
					fmt.Println(version.FullInfo())
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "rci: %v\n", err)
		os.Exit(1)
	}
}

func analyzeCommand(c *cli.Context) error {
	target := c.Args().First()
	if target == "" {
		return cli.Exit("analyze requires a file or directory path", 1)
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	eng := analyzer.New(analyzer.Options{
		FrameworkModule: cfg.Analysis.FrameworkModule,
		Workers:         cfg.Analysis.Workers,
		FileTimeout:     cfg.FileTimeout(),
	})

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", target, err)
	}

	var output interface{}
	if info.IsDir() {
		results, err := eng.AnalyzeDirectory(c.Context, target, cfg.Include)
		var merr *rcierrors.MultiError
		if errors.As(err, &merr) {
			for _, skipErr := range merr.Errors {
				fmt.Fprintf(os.Stderr, "rci: skipped: %v\n", skipErr)
			}
		} else if err != nil {
			return err
		}
		output = pathutil.ToRelativeResults(results, cfg.Project.Root)
	} else {
		result, err := eng.AnalyzeFile(c.Context, target)
		if err != nil {
			return err
		}
		output = pathutil.ToRelativeResult(result, cfg.Project.Root)
	}

	enc := json.NewEncoder(os.Stdout)
	if c.Bool("pretty") {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(output)
}

func mcpCommand(c *cli.Context) error {
	// Stdout carries the protocol stream; suppress debug output to stdio.
	debug.SetMCPMode(true)

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		debug.LogMCP("starting MCP server with stdio transport")
		errChan <- server.Run(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		debug.LogMCP("received signal %v, shutting down", sig)
		cancel()
		return <-errChan
	}
}
