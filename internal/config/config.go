// Package config loads analyzer settings from an optional .rci.kdl file in
// the project root. Missing config means defaults; a malformed file is an
// error so misconfiguration never silently degrades analysis.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	rcierrors "github.com/standardbeagle/rci/internal/errors"
)

// ConfigFileName is looked up in the project root.
const ConfigFileName = ".rci.kdl"

type Config struct {
	Project  Project
	Analysis Analysis
	Watch    Watch
	Include  []string
	Exclude  []string
}

type Project struct {
	Root string
	Name string
}

type Analysis struct {
	// FrameworkModule is the UI-framework root import the pattern detector
	// keys on.
	FrameworkModule string
	// Workers bounds concurrent file analysis. 0 = auto-detect (NumCPU).
	Workers int
	// FileTimeoutMs bounds a single file's analysis. 0 disables the bound.
	FileTimeoutMs int
}

type Watch struct {
	Enabled    bool
	DebounceMs int
}

// Default returns the configuration used when no .rci.kdl exists.
func Default(root string) *Config {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return &Config{
		Project: Project{Root: abs},
		Analysis: Analysis{
			FrameworkModule: "react",
			Workers:         0,
			FileTimeoutMs:   0,
		},
		Watch: Watch{
			Enabled:    false,
			DebounceMs: 200,
		},
		Include: []string{},
		Exclude: []string{"**/node_modules/**", "**/dist/**", "**/build/**"},
	}
}

// FileTimeout converts the configured millisecond bound to a duration.
func (c *Config) FileTimeout() time.Duration {
	return time.Duration(c.Analysis.FileTimeoutMs) * time.Millisecond
}

// EffectiveWorkers resolves the auto-detect sentinel.
func (c *Config) EffectiveWorkers() int {
	if c.Analysis.Workers > 0 {
		return c.Analysis.Workers
	}
	return runtime.NumCPU()
}

// Load reads .rci.kdl from projectRoot, returning defaults when the file
// does not exist.
func Load(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, ConfigFileName)

	content, err := os.ReadFile(kdlPath)
	if os.IsNotExist(err) {
		return Default(projectRoot), nil
	}
	if err != nil {
		return nil, rcierrors.NewFileError("read", kdlPath, err)
	}

	cfg, err := parseKDL(string(content), projectRoot)
	if err != nil {
		return nil, err
	}

	// Resolve a relative root against the directory holding the config file.
	if cfg.Project.Root != "" && !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Clean(filepath.Join(projectRoot, cfg.Project.Root))
	}
	return cfg, nil
}
