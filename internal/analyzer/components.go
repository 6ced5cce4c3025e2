package analyzer

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/rci/internal/parser"
	"github.com/standardbeagle/rci/internal/types"
)

// extractComponents classifies function, arrow, and class declarations as UI
// components and collects their hook usage and state. It returns the set of
// classified function-like node ids so the function extractor can skip them:
// a declaration is a component or a plain function, never both.
func extractComponents(tree *parser.ParseTree) ([]types.ComponentInfo, map[uintptr]bool) {
	components := []types.ComponentInfo{}
	claimed := map[uintptr]bool{}

	walk(tree.Root(), func(node *tree_sitter.Node) bool {
		switch node.Kind() {
		case "function_declaration":
			name := nodeName(tree, node)
			body := node.ChildByFieldName("body")
			if isCapitalized(name) && body != nil && returnsElementTree(body) {
				claimed[node.Id()] = true
				components = append(components, buildFunctionComponent(tree, node, name, types.ComponentKindFunction))
			}

		case "variable_declarator":
			value := node.ChildByFieldName("value")
			if value == nil {
				return true
			}
			var kind types.ComponentKind
			switch value.Kind() {
			case "arrow_function":
				kind = types.ComponentKindArrow
			case "function_expression":
				kind = types.ComponentKindFunction
			default:
				return true
			}
			name := nodeName(tree, node)
			body := value.ChildByFieldName("body")
			if isCapitalized(name) && body != nil && isElementTreeBody(body) {
				claimed[value.Id()] = true
				components = append(components, buildFunctionComponent(tree, value, name, kind))
			}

		case "class_declaration":
			if heritage := classHeritage(node); heritage != nil {
				text := tree.Text(heritage)
				if strings.Contains(text, "Component") || strings.Contains(text, "PureComponent") {
					claimed[node.Id()] = true
					components = append(components, buildClassComponent(tree, node))
				}
			}
		}
		return true
	})

	return components, claimed
}

// isElementTreeBody reports whether an arrow body is a component body: either
// an expression body that is itself a JSX expression, or a block with a
// reachable JSX return.
func isElementTreeBody(body *tree_sitter.Node) bool {
	if body.Kind() == "statement_block" {
		return returnsElementTree(body)
	}
	expr := unwrapParens(body)
	return expr != nil && jsxKinds[expr.Kind()]
}

func buildFunctionComponent(tree *parser.ParseTree, fn *tree_sitter.Node, name string, kind types.ComponentKind) types.ComponentInfo {
	info := types.ComponentInfo{
		Name:           name,
		Kind:           kind,
		Hooks:          []string{},
		StateVariables: []string{},
		Effects:        []string{},
		Location:       parser.NodeLocation(fn),
		Complexity:     cyclomaticComplexity(fn),
	}

	if params := extractParameters(tree, fn); len(params) > 0 {
		info.Props = params[0].Type
		if info.Props == "" {
			info.Props = params[0].Name
		}
	}

	body := fn.ChildByFieldName("body")
	if body == nil {
		return info
	}

	seen := map[string]bool{}
	walk(body, func(node *tree_sitter.Node) bool {
		switch node.Kind() {
		case "call_expression":
			callee := node.ChildByFieldName("function")
			if callee == nil || callee.Kind() != "identifier" {
				return true
			}
			calleeName := tree.Text(callee)
			if !strings.HasPrefix(calleeName, "use") {
				return true
			}
			if !seen[calleeName] {
				seen[calleeName] = true
				info.Hooks = append(info.Hooks, calleeName)
			}
			if calleeName == "useEffect" {
				info.Effects = append(info.Effects, calleeName)
			}

		case "variable_declarator":
			// const [value, setValue] = useState(...)
			pattern := node.ChildByFieldName("name")
			value := node.ChildByFieldName("value")
			if pattern == nil || value == nil || pattern.Kind() != "array_pattern" || value.Kind() != "call_expression" {
				return true
			}
			if calleeText(tree, value) != "useState" {
				return true
			}
			for i := uint(0); i < pattern.NamedChildCount(); i++ {
				if elem := pattern.NamedChild(i); elem.Kind() == "identifier" {
					info.StateVariables = append(info.StateVariables, tree.Text(elem))
					break
				}
			}
		}
		return true
	})

	return info
}

func buildClassComponent(tree *parser.ParseTree, class *tree_sitter.Node) types.ComponentInfo {
	info := types.ComponentInfo{
		Name:           nodeName(tree, class),
		Kind:           types.ComponentKindClass,
		Hooks:          []string{},
		StateVariables: []string{},
		Effects:        []string{},
		Location:       parser.NodeLocation(class),
		Complexity:     cyclomaticComplexity(class),
	}

	if ctor := findConstructor(tree, class); ctor != nil {
		info.StateVariables = constructorStateNames(tree, ctor)
	}
	return info
}

// classHeritage finds the extends clause of a class declaration. The TSX
// grammar uses class_heritage; the TypeScript grammar nests an extends_clause
// directly.
func classHeritage(class *tree_sitter.Node) *tree_sitter.Node {
	for i := uint(0); i < class.ChildCount(); i++ {
		child := class.Child(i)
		if child.Kind() == "class_heritage" || child.Kind() == "extends_clause" {
			return child
		}
	}
	return nil
}

func findConstructor(tree *parser.ParseTree, class *tree_sitter.Node) *tree_sitter.Node {
	body := class.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		member := body.NamedChild(i)
		if member.Kind() == "method_definition" && nodeName(tree, member) == "constructor" {
			return member
		}
	}
	return nil
}

// constructorStateNames collects the property names of the object literal in
// a `this.state = { ... }` assignment inside the constructor body.
func constructorStateNames(tree *parser.ParseTree, ctor *tree_sitter.Node) []string {
	names := []string{}
	body := ctor.ChildByFieldName("body")
	if body == nil {
		return names
	}
	walk(body, func(node *tree_sitter.Node) bool {
		if node.Kind() != "assignment_expression" {
			return true
		}
		left := node.ChildByFieldName("left")
		right := node.ChildByFieldName("right")
		if left == nil || right == nil || tree.Text(left) != "this.state" || right.Kind() != "object" {
			return true
		}
		for i := uint(0); i < right.NamedChildCount(); i++ {
			if pair := right.NamedChild(i); pair.Kind() == "pair" {
				if key := pair.ChildByFieldName("key"); key != nil {
					names = append(names, tree.Text(key))
				}
			}
		}
		return true
	})
	return names
}
