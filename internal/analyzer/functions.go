package analyzer

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/rci/internal/parser"
	"github.com/standardbeagle/rci/internal/types"
)

// extractFunctions records every function declaration, variable-bound arrow
// or function expression, and class method that was not claimed as a
// component. Nested function expressions that are not bound to a name are
// callsTo territory, not separate FunctionInfo records.
func extractFunctions(tree *parser.ParseTree, claimed map[uintptr]bool) []types.FunctionInfo {
	functions := []types.FunctionInfo{}

	walk(tree.Root(), func(node *tree_sitter.Node) bool {
		switch node.Kind() {
		case "function_declaration", "generator_function_declaration":
			if claimed[node.Id()] {
				return true
			}
			functions = append(functions, buildFunction(tree, node, nodeName(tree, node), types.FunctionKindFunction))

		case "variable_declarator":
			value := node.ChildByFieldName("value")
			if value == nil || claimed[value.Id()] {
				return true
			}
			var kind types.FunctionKind
			switch value.Kind() {
			case "arrow_function":
				kind = types.FunctionKindArrow
			case "function_expression", "generator_function":
				kind = types.FunctionKindFunction
			default:
				return true
			}
			functions = append(functions, buildFunction(tree, value, nodeName(tree, node), kind))

		case "method_definition":
			if claimed[node.Id()] {
				return true
			}
			functions = append(functions, buildFunction(tree, node, nodeName(tree, node), types.FunctionKindMethod))
		}
		return true
	})

	return functions
}

func buildFunction(tree *parser.ParseTree, fn *tree_sitter.Node, name string, kind types.FunctionKind) types.FunctionInfo {
	info := types.FunctionInfo{
		Name:       name,
		Kind:       kind,
		Parameters: extractParameters(tree, fn),
		ReturnType: typeAnnotationText(tree, fn.ChildByFieldName("return_type")),
		Async:      hasKeywordChild(fn, "async"),
		Generator:  isGenerator(fn),
		Location:   parser.NodeLocation(fn),
		Complexity: cyclomaticComplexity(fn),
		CallsTo:    collectCallees(tree, fn),
	}
	if info.Parameters == nil {
		info.Parameters = []types.ParameterInfo{}
	}
	return info
}

func isGenerator(fn *tree_sitter.Node) bool {
	switch fn.Kind() {
	case "generator_function_declaration", "generator_function":
		return true
	}
	return hasKeywordChild(fn, "*")
}

// collectCallees gathers the unique callee texts of every call expression in
// the function body. Uniqueness is the only contract; order follows the walk.
func collectCallees(tree *parser.ParseTree, fn *tree_sitter.Node) []string {
	calls := []string{}
	seen := map[string]bool{}
	walk(fn, func(node *tree_sitter.Node) bool {
		if node.Kind() != "call_expression" {
			return true
		}
		if callee := calleeText(tree, node); callee != "" && !seen[callee] {
			seen[callee] = true
			calls = append(calls, callee)
		}
		return true
	})
	return calls
}
