// Package types defines the serializable result records produced by a single
// analysis pass over one source file. Records are plain data: they hold no
// references into the parse tree, so they can cross a process or protocol
// boundary (MCP, JSON output) without sharing parser state.
package types

import "time"

// Location pinpoints a node span in the source file. Lines are 1-based;
// EndLine is always >= Line.
type Location struct {
	Line      int `json:"line"`
	Column    int `json:"column"`
	EndLine   int `json:"endLine"`
	EndColumn int `json:"endColumn"`
}

// ComponentKind describes how a component was declared.
type ComponentKind string

const (
	ComponentKindFunction ComponentKind = "function"
	ComponentKindClass    ComponentKind = "class"
	ComponentKindArrow    ComponentKind = "arrow"
)

// FunctionKind describes how a plain function was declared.
type FunctionKind string

const (
	FunctionKindFunction FunctionKind = "function"
	FunctionKindArrow    FunctionKind = "arrow"
	FunctionKindMethod   FunctionKind = "method"
)

// ImportKind discriminates the shape of an import statement.
type ImportKind string

const (
	ImportKindNamed      ImportKind = "named"
	ImportKindDefault    ImportKind = "default"
	ImportKindNamespace  ImportKind = "namespace"
	ImportKindSideEffect ImportKind = "side-effect"
)

// ExportKind discriminates the shape of an export statement.
type ExportKind string

const (
	ExportKindNamed     ExportKind = "named"
	ExportKindDefault   ExportKind = "default"
	ExportKindNamespace ExportKind = "namespace"
)

// DependencyKind labels a dependency-graph edge. Only import edges are
// populated today; call/extends/implements are reserved for the graph
// builder planned on top of the per-file results.
type DependencyKind string

const (
	DependencyKindImport     DependencyKind = "import"
	DependencyKindCall       DependencyKind = "call"
	DependencyKindExtends    DependencyKind = "extends"
	DependencyKindImplements DependencyKind = "implements"
)

// PatternType is the fixed taxonomy of heuristic pattern detections.
type PatternType string

const (
	PatternCustomHook   PatternType = "custom-hook"
	PatternHOC          PatternType = "higher-order-component"
	PatternReactContext PatternType = "react-context"
	PatternSingleton    PatternType = "singleton"
	PatternFactory      PatternType = "factory"
)

// AnonymousName is the placeholder recorded for unnamed declarations.
const AnonymousName = "Anonymous"

// UnknownComponent is recorded when a hook call has no enclosing component.
const UnknownComponent = "Unknown"

// ComponentInfo describes one detected UI component. A declaration is
// classified as a component or as a plain function, never both.
type ComponentInfo struct {
	Name           string        `json:"name"`
	Kind           ComponentKind `json:"kind"`
	Props          string        `json:"props,omitempty"`
	Hooks          []string      `json:"hooks"`
	StateVariables []string      `json:"stateVariables"`
	Effects        []string      `json:"effects"`
	Location       Location      `json:"location"`
	Complexity     int           `json:"complexity"`
}

// ParameterInfo describes one declared parameter in order of declaration.
type ParameterInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
	Optional     bool   `json:"optional,omitempty"`
	DefaultValue string `json:"defaultValue,omitempty"`
}

// FunctionInfo describes a plain (non-component) function, arrow binding, or
// class method.
type FunctionInfo struct {
	Name       string          `json:"name"`
	Kind       FunctionKind    `json:"kind"`
	Parameters []ParameterInfo `json:"parameters"`
	ReturnType string          `json:"returnType,omitempty"`
	Async      bool            `json:"async"`
	Generator  bool            `json:"generator"`
	Location   Location        `json:"location"`
	Complexity int             `json:"complexity"`
	CallsTo    []string        `json:"callsTo"`
}

// HookInfo records one hook-style call (callee matching the use* convention)
// anywhere in the file, including module scope and nested hooks.
type HookInfo struct {
	Name         string   `json:"name"`
	Dependencies []string `json:"dependencies"`
	Location     Location `json:"location"`
	Component    string   `json:"component"`
	Violations   []string `json:"violations,omitempty"`
}

// ImportInfo records one import statement.
type ImportInfo struct {
	Module   string     `json:"module"`
	Kind     ImportKind `json:"kind"`
	Location Location   `json:"location"`
}

// ExportInfo records one exported name.
type ExportInfo struct {
	Name     string     `json:"name"`
	Kind     ExportKind `json:"kind"`
	Location Location   `json:"location"`
}

// InterfaceInfo records an interface declaration with its member text.
type InterfaceInfo struct {
	Name     string   `json:"name"`
	Members  string   `json:"members,omitempty"`
	Extends  []string `json:"extends,omitempty"`
	Location Location `json:"location"`
}

// TypeInfo records a type alias declaration with its aliased type text.
type TypeInfo struct {
	Name     string   `json:"name"`
	Alias    string   `json:"alias,omitempty"`
	Location Location `json:"location"`
}

// DependencyInfo is a directed file-to-module dependency edge.
type DependencyInfo struct {
	From string         `json:"from"`
	To   string         `json:"to"`
	Kind DependencyKind `json:"kind"`
}

// ComplexityMetrics holds the file-level complexity scores, computed once per
// analysis. CyclomaticComplexity is always >= 1.
type ComplexityMetrics struct {
	CyclomaticComplexity int `json:"cyclomaticComplexity"`
	CognitiveComplexity  int `json:"cognitiveComplexity"`
	LinesOfCode          int `json:"linesOfCode"`
	NestingDepth         int `json:"nestingDepth"`
	ParameterCount       int `json:"parameterCount"`
}

// PatternInfo is one heuristic design-pattern detection. Confidence is a
// fixed per-heuristic weight in (0,1], not a derived probability.
type PatternInfo struct {
	Type       PatternType `json:"type"`
	Name       string      `json:"name"`
	Confidence float64     `json:"confidence"`
	Evidence   []string    `json:"evidence"`
	Location   Location    `json:"location"`
}

// AnalysisResult is the complete, immutable output of analyzing one file.
// Exactly one result exists per analyzed path; re-analysis without cache
// invalidation returns the same result.
type AnalysisResult struct {
	FilePath     string            `json:"filePath"`
	ContentHash  uint64            `json:"contentHash"`
	AnalyzedAt   time.Time         `json:"analyzedAt"`
	Components   []ComponentInfo   `json:"components"`
	Functions    []FunctionInfo    `json:"functions"`
	Hooks        []HookInfo        `json:"hooks"`
	Imports      []ImportInfo      `json:"imports"`
	Exports      []ExportInfo      `json:"exports"`
	Interfaces   []InterfaceInfo   `json:"interfaces"`
	Types        []TypeInfo        `json:"types"`
	Dependencies []DependencyInfo  `json:"dependencies"`
	Complexity   ComplexityMetrics `json:"complexity"`
	Patterns     []PatternInfo     `json:"patterns"`
}
