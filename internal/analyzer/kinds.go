package analyzer

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Node-kind tables for the TSX/TS/JS grammars. Traversals dispatch on these
// closed sets instead of scattering string comparisons through every
// extractor.

// branchKinds are the constructs counted by cyclomatic complexity.
var branchKinds = map[string]bool{
	"if_statement":       true,
	"while_statement":    true,
	"for_statement":      true,
	"for_in_statement":   true,
	"do_statement":       true,
	"switch_case":        true,
	"ternary_expression": true,
}

// cognitiveKinds are the narrower set scored by cognitive complexity; each
// occurrence contributes 1 + nesting depth at that point.
var cognitiveKinds = map[string]bool{
	"if_statement":     true,
	"while_statement":  true,
	"for_statement":    true,
	"for_in_statement": true,
}

// nestingKinds increment the shared depth counter used by both cognitive
// complexity and the nesting-depth metric.
var nestingKinds = map[string]bool{
	"statement_block":  true,
	"if_statement":     true,
	"while_statement":  true,
	"for_statement":    true,
	"for_in_statement": true,
}

// functionLikeKinds are function boundaries for ancestor walks and the
// parameter-count metric.
var functionLikeKinds = map[string]bool{
	"function_declaration":           true,
	"generator_function_declaration": true,
	"function_expression":            true,
	"generator_function":             true,
	"arrow_function":                 true,
	"method_definition":              true,
}

// conditionalOrLoopKinds flag a hook call as conditional when found between
// the call and its function boundary.
var conditionalOrLoopKinds = map[string]bool{
	"if_statement":       true,
	"while_statement":    true,
	"for_statement":      true,
	"for_in_statement":   true,
	"do_statement":       true,
	"switch_statement":   true,
	"ternary_expression": true,
}

// jsxKinds are the element-tree expression forms a component may return.
var jsxKinds = map[string]bool{
	"jsx_element":              true,
	"jsx_fragment":             true,
	"jsx_self_closing_element": true,
}

func isFunctionLike(node *tree_sitter.Node) bool {
	return functionLikeKinds[node.Kind()]
}

// walk visits node and its descendants depth-first. The visitor returns
// false to prune the subtree below the visited node.
func walk(node *tree_sitter.Node, visit func(*tree_sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walk(node.Child(i), visit)
	}
}
