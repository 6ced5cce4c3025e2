package analyzer

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/rci/internal/parser"
	"github.com/standardbeagle/rci/internal/types"
)

// nodeName returns the text of a node's name field, or the Anonymous
// placeholder when the declaration has no name.
func nodeName(tree *parser.ParseTree, node *tree_sitter.Node) string {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return tree.Text(nameNode)
	}
	return types.AnonymousName
}

// hasKeywordChild reports whether the node carries the given bare keyword
// token (e.g. "async", "static", "*").
func hasKeywordChild(node *tree_sitter.Node, keyword string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		if node.Child(i).Kind() == keyword {
			return true
		}
	}
	return false
}

// unwrapParens strips parenthesized_expression wrappers, common around
// multi-line JSX returns.
func unwrapParens(node *tree_sitter.Node) *tree_sitter.Node {
	for node != nil && node.Kind() == "parenthesized_expression" {
		node = node.NamedChild(0)
	}
	return node
}

// returnsElementTree reports whether the function body has a reachable
// return statement whose expression is a JSX element, fragment, or
// self-closing element. Returns inside nested functions belong to those
// functions and are not considered reachable here.
func returnsElementTree(body *tree_sitter.Node) bool {
	found := false
	walk(body, func(n *tree_sitter.Node) bool {
		if found {
			return false
		}
		if n.Id() != body.Id() && isFunctionLike(n) {
			return false
		}
		if n.Kind() == "return_statement" {
			if expr := unwrapParens(n.NamedChild(0)); expr != nil && jsxKinds[expr.Kind()] {
				found = true
			}
		}
		return true
	})
	return found
}

// countOwnReturns counts return statements belonging to the body itself,
// skipping nested function boundaries.
func countOwnReturns(body *tree_sitter.Node) int {
	count := 0
	walk(body, func(n *tree_sitter.Node) bool {
		if n.Id() != body.Id() && isFunctionLike(n) {
			return false
		}
		if n.Kind() == "return_statement" {
			count++
		}
		return true
	})
	return count
}

// typeAnnotationText returns the annotated type's text without the leading
// colon, e.g. ": string" -> "string".
func typeAnnotationText(tree *parser.ParseTree, annotation *tree_sitter.Node) string {
	if annotation == nil {
		return ""
	}
	if inner := annotation.NamedChild(0); inner != nil {
		return tree.Text(inner)
	}
	return strings.TrimSpace(strings.TrimPrefix(tree.Text(annotation), ":"))
}

// extractParameters reads the ordered parameter list off a function-like
// node, covering both the TypeScript parameter kinds and the plain
// JavaScript binding forms.
func extractParameters(tree *parser.ParseTree, fn *tree_sitter.Node) []types.ParameterInfo {
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		// Arrow function with a single bare parameter.
		if single := fn.ChildByFieldName("parameter"); single != nil {
			return []types.ParameterInfo{{Name: tree.Text(single)}}
		}
		return nil
	}

	result := make([]types.ParameterInfo, 0, params.NamedChildCount())
	for i := uint(0); i < params.NamedChildCount(); i++ {
		child := params.NamedChild(i)
		switch child.Kind() {
		case "required_parameter", "optional_parameter":
			info := types.ParameterInfo{
				Optional: child.Kind() == "optional_parameter",
				Type:     typeAnnotationText(tree, child.ChildByFieldName("type")),
			}
			if pattern := child.ChildByFieldName("pattern"); pattern != nil {
				info.Name = tree.Text(pattern)
			}
			if value := child.ChildByFieldName("value"); value != nil {
				info.DefaultValue = tree.Text(value)
			}
			result = append(result, info)
		case "identifier":
			result = append(result, types.ParameterInfo{Name: tree.Text(child)})
		case "assignment_pattern":
			info := types.ParameterInfo{}
			if left := child.ChildByFieldName("left"); left != nil {
				info.Name = tree.Text(left)
			}
			if right := child.ChildByFieldName("right"); right != nil {
				info.DefaultValue = tree.Text(right)
			}
			result = append(result, info)
		default:
			// Destructuring and rest patterns keep their full text as the name.
			result = append(result, types.ParameterInfo{Name: tree.Text(child)})
		}
	}
	return result
}

// calleeText returns the callee of a call expression when it is a bare
// identifier or property-access chain, empty otherwise.
func calleeText(tree *parser.ParseTree, call *tree_sitter.Node) string {
	callee := call.ChildByFieldName("function")
	if callee == nil {
		return ""
	}
	switch callee.Kind() {
	case "identifier", "member_expression":
		return tree.Text(callee)
	default:
		return ""
	}
}

// callArguments returns the arguments node of a call expression.
func callArguments(call *tree_sitter.Node) *tree_sitter.Node {
	return call.ChildByFieldName("arguments")
}

// stripQuotes removes string literal quoting from module specifiers.
func stripQuotes(s string) string {
	return strings.Trim(s, "\"'`")
}

// isCapitalized reports whether a name starts with an upper-case letter.
func isCapitalized(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}
