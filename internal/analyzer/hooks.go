package analyzer

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/rci/internal/parser"
	"github.com/standardbeagle/rci/internal/types"
)

// Violation messages reported on hook calls that break the rules of hooks.
const (
	ViolationConditionalHook  = "Hook called conditionally"
	ViolationHookOutsideScope = "Hook not called inside function component"
)

// dependencyArrayHooks accept a dependency array as their second argument.
var dependencyArrayHooks = map[string]bool{
	"useEffect":   true,
	"useCallback": true,
	"useMemo":     true,
}

// extractHooks records every call whose callee is a bare identifier starting
// with "use", anywhere in the file. This pass is deliberately not scoped to
// components: hooks called at module scope or inside other hooks still show
// up, flagged with violations where the rules of hooks are broken.
func extractHooks(tree *parser.ParseTree) []types.HookInfo {
	hooks := []types.HookInfo{}

	walk(tree.Root(), func(node *tree_sitter.Node) bool {
		if node.Kind() != "call_expression" {
			return true
		}
		callee := node.ChildByFieldName("function")
		if callee == nil || callee.Kind() != "identifier" {
			return true
		}
		name := tree.Text(callee)
		if !strings.HasPrefix(name, "use") {
			return true
		}

		hooks = append(hooks, types.HookInfo{
			Name:         name,
			Dependencies: hookDependencies(tree, node, name),
			Location:     parser.NodeLocation(node),
			Component:    enclosingComponentName(tree, node),
			Violations:   hookViolations(node),
		})
		return true
	})

	return hooks
}

// hookDependencies reads identifier names out of the literal dependency array
// when the hook convention accepts one.
func hookDependencies(tree *parser.ParseTree, call *tree_sitter.Node, name string) []string {
	deps := []string{}
	if !dependencyArrayHooks[name] {
		return deps
	}
	args := callArguments(call)
	if args == nil || args.NamedChildCount() < 2 {
		return deps
	}
	second := args.NamedChild(1)
	if second.Kind() != "array" {
		return deps
	}
	for i := uint(0); i < second.NamedChildCount(); i++ {
		if elem := second.NamedChild(i); elem.Kind() == "identifier" {
			deps = append(deps, tree.Text(elem))
		}
	}
	return deps
}

// enclosingComponentName walks ancestors outward from the call and returns
// the name of the first component-shaped ancestor: a capitalized function
// declaration, a capitalized variable binding, or a framework class.
func enclosingComponentName(tree *parser.ParseTree, call *tree_sitter.Node) string {
	for node := call.Parent(); node != nil; node = node.Parent() {
		switch node.Kind() {
		case "function_declaration":
			if name := nodeName(tree, node); isCapitalized(name) {
				return name
			}
		case "variable_declarator":
			if name := nodeName(tree, node); isCapitalized(name) {
				return name
			}
		case "class_declaration":
			if heritage := classHeritage(node); heritage != nil {
				text := tree.Text(heritage)
				if strings.Contains(text, "Component") || strings.Contains(text, "PureComponent") {
					return nodeName(tree, node)
				}
			}
		}
	}
	return types.UnknownComponent
}

// hookViolations checks the two rules-of-hooks conditions independently:
// a conditional or loop ancestor inside the nearest function boundary, and
// the absence of any function boundary at all.
func hookViolations(call *tree_sitter.Node) []string {
	var violations []string

	insideFunction := false
	for node := call.Parent(); node != nil; node = node.Parent() {
		if isFunctionLike(node) {
			insideFunction = true
			break
		}
		if conditionalOrLoopKinds[node.Kind()] {
			violations = append(violations, ViolationConditionalHook)
			break
		}
	}

	if !insideFunction {
		insideFunction = hasFunctionAncestor(call)
	}
	if !insideFunction {
		violations = append(violations, ViolationHookOutsideScope)
	}
	return violations
}

func hasFunctionAncestor(call *tree_sitter.Node) bool {
	for node := call.Parent(); node != nil; node = node.Parent() {
		if isFunctionLike(node) {
			return true
		}
	}
	return false
}
