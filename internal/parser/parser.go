// Package parser turns React-family source text (.js/.jsx/.ts/.tsx) into
// tree-sitter syntax trees. The TSX grammar covers TypeScript with JSX; plain
// .ts uses the TypeScript grammar and .js/.jsx the JavaScript grammar, which
// carries JSX natively.
package parser

import (
	"path/filepath"
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	rcierrors "github.com/standardbeagle/rci/internal/errors"
	"github.com/standardbeagle/rci/internal/types"
)

type grammar uint8

const (
	grammarJavaScript grammar = iota
	grammarTypeScript
	grammarTSX
)

var (
	langOnce  [3]sync.Once
	languages [3]*tree_sitter.Language
)

func language(g grammar) *tree_sitter.Language {
	langOnce[g].Do(func() {
		switch g {
		case grammarJavaScript:
			languages[g] = tree_sitter.NewLanguage(tree_sitter_javascript.Language())
		case grammarTypeScript:
			languages[g] = tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		case grammarTSX:
			languages[g] = tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
		}
	})
	return languages[g]
}

func grammarForExt(ext string) (grammar, bool) {
	switch strings.ToLower(ext) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return grammarJavaScript, true
	case ".ts", ".mts", ".cts":
		return grammarTypeScript, true
	case ".tsx":
		return grammarTSX, true
	default:
		return 0, false
	}
}

// SupportedExtensions lists the file extensions the engine can parse.
func SupportedExtensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".mts", ".cts", ".tsx"}
}

// IsSupported reports whether path has a parseable extension.
func IsSupported(path string) bool {
	_, ok := grammarForExt(filepath.Ext(path))
	return ok
}

// Per-grammar parser pools. tree-sitter parsers are not safe for concurrent
// use, so parallel directory analysis checks one out per parse.
var parserPools = [3]sync.Pool{}

func acquireParser(g grammar) *tree_sitter.Parser {
	if p, ok := parserPools[g].Get().(*tree_sitter.Parser); ok {
		return p
	}
	p := tree_sitter.NewParser()
	// SetLanguage only fails on ABI version mismatch, which would be a
	// build-time packaging bug.
	_ = p.SetLanguage(language(g))
	return p
}

func releaseParser(g grammar, p *tree_sitter.Parser) {
	parserPools[g].Put(p)
}

// ParseTree owns a parsed syntax tree together with the source bytes it
// indexes into. Callers must Close it when extraction is done; extracted
// records never reference the tree.
type ParseTree struct {
	Path    string
	Content []byte
	tree    *tree_sitter.Tree
}

// Root returns the tree's root node.
func (t *ParseTree) Root() *tree_sitter.Node {
	return t.tree.RootNode()
}

// Text returns the source text of a node.
func (t *ParseTree) Text(n *tree_sitter.Node) string {
	return n.Utf8Text(t.Content)
}

// Close releases the underlying tree-sitter tree.
func (t *ParseTree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Parse parses source text into a syntax tree. Malformed input fails with a
// *rcierrors.ParseError anchored at the first error node; unsupported
// extensions fail the same way since nothing downstream can use them.
func Parse(content []byte, path string) (*ParseTree, error) {
	g, ok := grammarForExt(filepath.Ext(path))
	if !ok {
		return nil, rcierrors.NewParseError(path, 0, 0, "unsupported file extension "+filepath.Ext(path))
	}

	p := acquireParser(g)
	tree := p.Parse(content, nil)
	releaseParser(g, p)

	if tree == nil {
		return nil, rcierrors.NewParseError(path, 0, 0, "parser produced no tree")
	}

	root := tree.RootNode()
	if root.HasError() {
		if errNode := firstErrorNode(root); errNode != nil {
			loc := NodeLocation(errNode)
			text := errNode.Utf8Text(content)
			if len(text) > 40 {
				text = text[:40]
			}
			tree.Close()
			return nil, rcierrors.NewParseError(path, loc.Line, loc.Column, "syntax error near "+strings.TrimSpace(text))
		}
		tree.Close()
		return nil, rcierrors.NewParseError(path, 0, 0, "syntax error")
	}

	return &ParseTree{Path: path, Content: content, tree: tree}, nil
}

// firstErrorNode descends to the shallowest ERROR or MISSING node.
func firstErrorNode(node *tree_sitter.Node) *tree_sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return node
}

// NodeLocation maps a node span to 1-based line/column coordinates.
func NodeLocation(node *tree_sitter.Node) types.Location {
	start := node.StartPosition()
	end := node.EndPosition()
	return types.Location{
		Line:      int(start.Row) + 1,
		Column:    int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndColumn: int(end.Column) + 1,
	}
}
