package analyzer

import (
	"regexp"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/rci/internal/parser"
	"github.com/standardbeagle/rci/internal/types"
)

// Fixed per-heuristic confidence weights. These are design constants, not
// derived from evidence strength; tune them here if a labeled corpus ever
// suggests better values.
const (
	ConfidenceCustomHook = 0.9
	ConfidenceHOC        = 0.8
	ConfidenceContext    = 1.0
	ConfidenceSingleton  = 0.9
	ConfidenceFactory    = 0.7
)

var customHookName = regexp.MustCompile(`^use[A-Z]`)

// hocReturnTypes are substrings of a declared return type that mark a
// component-returning function.
var hocReturnTypes = []string{"Component", "FC", "Element", "ReactNode"}

// extractPatterns runs the five independent pattern heuristics. Each reports
// at most one detection per file, the first qualifying declaration in tree
// order. The custom-hook and higher-order-component heuristics only run when
// the file imports the framework root module; singleton and factory detection
// is framework-agnostic.
func extractPatterns(tree *parser.ParseTree, frameworkModule string, imports []types.ImportInfo) []types.PatternInfo {
	patterns := []types.PatternInfo{}

	hasFramework := false
	for _, imp := range imports {
		if imp.Module == frameworkModule {
			hasFramework = true
			break
		}
	}

	if hasFramework {
		if p, ok := detectCustomHook(tree); ok {
			patterns = append(patterns, p)
		}
		if p, ok := detectHOC(tree); ok {
			patterns = append(patterns, p)
		}
	}
	if ns := frameworkNamespace(tree, frameworkModule); ns != "" {
		if p, ok := detectContext(tree, ns); ok {
			patterns = append(patterns, p)
		}
	}
	if p, ok := detectSingleton(tree); ok {
		patterns = append(patterns, p)
	}
	if p, ok := detectFactory(tree); ok {
		patterns = append(patterns, p)
	}
	return patterns
}

// frameworkNamespace returns the local identifier bound to the framework
// root module's default or namespace import, empty when there is none.
func frameworkNamespace(tree *parser.ParseTree, frameworkModule string) string {
	root := tree.Root()
	for i := uint(0); i < root.NamedChildCount(); i++ {
		stmt := root.NamedChild(i)
		if stmt.Kind() != "import_statement" {
			continue
		}
		source := stmt.ChildByFieldName("source")
		if source == nil || stripQuotes(tree.Text(source)) != frameworkModule {
			continue
		}
		for j := uint(0); j < stmt.NamedChildCount(); j++ {
			clause := stmt.NamedChild(j)
			if clause.Kind() != "import_clause" {
				continue
			}
			for k := uint(0); k < clause.NamedChildCount(); k++ {
				child := clause.NamedChild(k)
				switch child.Kind() {
				case "identifier":
					return tree.Text(child)
				case "namespace_import":
					for l := uint(0); l < child.NamedChildCount(); l++ {
						if ident := child.NamedChild(l); ident.Kind() == "identifier" {
							return tree.Text(ident)
						}
					}
				}
			}
		}
	}
	return ""
}

func detectCustomHook(tree *parser.ParseTree) (types.PatternInfo, bool) {
	var found types.PatternInfo
	ok := false
	walk(tree.Root(), func(node *tree_sitter.Node) bool {
		if ok {
			return false
		}
		var name string
		switch node.Kind() {
		case "function_declaration":
			name = nodeName(tree, node)
		case "variable_declarator":
			value := node.ChildByFieldName("value")
			if value == nil || (value.Kind() != "arrow_function" && value.Kind() != "function_expression") {
				return true
			}
			name = nodeName(tree, node)
		default:
			return true
		}
		if !customHookName.MatchString(name) {
			return true
		}
		found = types.PatternInfo{
			Type:       types.PatternCustomHook,
			Name:       name,
			Confidence: ConfidenceCustomHook,
			Evidence:   []string{"function name matches the use[A-Z] hook convention"},
			Location:   parser.NodeLocation(node),
		}
		ok = true
		return false
	})
	return found, ok
}

func detectHOC(tree *parser.ParseTree) (types.PatternInfo, bool) {
	var found types.PatternInfo
	ok := false
	walk(tree.Root(), func(node *tree_sitter.Node) bool {
		if ok {
			return false
		}
		var name string
		var fn *tree_sitter.Node
		switch node.Kind() {
		case "function_declaration":
			name, fn = nodeName(tree, node), node
		case "variable_declarator":
			value := node.ChildByFieldName("value")
			if value == nil || (value.Kind() != "arrow_function" && value.Kind() != "function_expression") {
				return true
			}
			name, fn = nodeName(tree, node), value
		default:
			return true
		}
		if !strings.HasPrefix(name, "with") {
			return true
		}
		returnType := typeAnnotationText(tree, fn.ChildByFieldName("return_type"))
		if returnType == "" || !containsAny(returnType, hocReturnTypes) {
			return true
		}
		found = types.PatternInfo{
			Type:       types.PatternHOC,
			Name:       name,
			Confidence: ConfidenceHOC,
			Evidence:   []string{"with-prefixed function declares component return type " + returnType},
			Location:   parser.NodeLocation(node),
		}
		ok = true
		return false
	})
	return found, ok
}

func detectContext(tree *parser.ParseTree, namespace string) (types.PatternInfo, bool) {
	target := namespace + ".createContext"
	var found types.PatternInfo
	ok := false
	walk(tree.Root(), func(node *tree_sitter.Node) bool {
		if ok {
			return false
		}
		if node.Kind() != "call_expression" || calleeText(tree, node) != target {
			return true
		}
		name := types.AnonymousName
		if parent := node.Parent(); parent != nil && parent.Kind() == "variable_declarator" {
			name = nodeName(tree, parent)
		}
		found = types.PatternInfo{
			Type:       types.PatternReactContext,
			Name:       name,
			Confidence: ConfidenceContext,
			Evidence:   []string{"call to " + target},
			Location:   parser.NodeLocation(node),
		}
		ok = true
		return false
	})
	return found, ok
}

func detectSingleton(tree *parser.ParseTree) (types.PatternInfo, bool) {
	var found types.PatternInfo
	ok := false
	walk(tree.Root(), func(node *tree_sitter.Node) bool {
		if ok {
			return false
		}
		if node.Kind() != "class_declaration" {
			return true
		}
		body := node.ChildByFieldName("body")
		if body == nil {
			return true
		}
		hasInstance, hasGetInstance := false, false
		for i := uint(0); i < body.NamedChildCount(); i++ {
			member := body.NamedChild(i)
			if !hasKeywordChild(member, "static") {
				continue
			}
			switch member.Kind() {
			case "public_field_definition", "field_definition":
				if nodeName(tree, member) == "instance" {
					hasInstance = true
				}
			case "method_definition":
				if nodeName(tree, member) == "getInstance" {
					hasGetInstance = true
				}
			}
		}
		if !hasInstance || !hasGetInstance {
			return true
		}
		found = types.PatternInfo{
			Type:       types.PatternSingleton,
			Name:       nodeName(tree, node),
			Confidence: ConfidenceSingleton,
			Evidence:   []string{"class declares static instance field and static getInstance method"},
			Location:   parser.NodeLocation(node),
		}
		ok = true
		return false
	})
	return found, ok
}

func detectFactory(tree *parser.ParseTree) (types.PatternInfo, bool) {
	var found types.PatternInfo
	ok := false
	walk(tree.Root(), func(node *tree_sitter.Node) bool {
		if ok {
			return false
		}
		var name string
		var fn *tree_sitter.Node
		switch node.Kind() {
		case "function_declaration":
			name, fn = nodeName(tree, node), node
		case "variable_declarator":
			value := node.ChildByFieldName("value")
			if value == nil || (value.Kind() != "arrow_function" && value.Kind() != "function_expression") {
				return true
			}
			name, fn = nodeName(tree, node), value
		default:
			return true
		}
		if !strings.Contains(strings.ToLower(name), "factory") {
			return true
		}
		body := fn.ChildByFieldName("body")
		if body == nil || countOwnReturns(body) <= 1 {
			return true
		}
		found = types.PatternInfo{
			Type:       types.PatternFactory,
			Name:       name,
			Confidence: ConfidenceFactory,
			Evidence:   []string{"factory-named function with multiple return paths"},
			Location:   parser.NodeLocation(node),
		}
		ok = true
		return false
	})
	return found, ok
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
