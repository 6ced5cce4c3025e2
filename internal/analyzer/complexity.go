package analyzer

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/rci/internal/parser"
	"github.com/standardbeagle/rci/internal/types"
)

// calculateFileComplexity computes the four file-level metrics in one pass
// each over the tree. LinesOfCode is the file's last line number.
func calculateFileComplexity(tree *parser.ParseTree) types.ComplexityMetrics {
	root := tree.Root()
	cognitive, nesting := cognitiveComplexity(root)
	return types.ComplexityMetrics{
		CyclomaticComplexity: cyclomaticComplexity(root),
		CognitiveComplexity:  cognitive,
		LinesOfCode:          int(root.EndPosition().Row) + 1,
		NestingDepth:         nesting,
		ParameterCount:       maxParameterCount(root),
	}
}

// cyclomaticComplexity counts decision points in the subtree: if, while,
// for, do, case clauses, and ternary expressions, plus one.
func cyclomaticComplexity(node *tree_sitter.Node) int {
	complexity := 1
	walk(node, func(n *tree_sitter.Node) bool {
		if branchKinds[n.Kind()] {
			complexity++
		}
		return true
	})
	return complexity
}

// cognitiveComplexity scores if/while/for statements weighted by nesting
// depth and returns the maximum depth reached. The depth counter increments
// on blocks, if-statements, and iteration statements; do-statements, switch,
// and ternaries are deliberately excluded from the cognitive score even
// though cyclomatic counts them.
func cognitiveComplexity(node *tree_sitter.Node) (score, maxDepth int) {
	depth := 0
	var visit func(n *tree_sitter.Node)
	visit = func(n *tree_sitter.Node) {
		kind := n.Kind()
		if cognitiveKinds[kind] {
			score += 1 + depth
		}
		nests := nestingKinds[kind]
		if nests {
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			visit(n.Child(i))
		}
		if nests {
			depth--
		}
	}
	visit(node)
	return score, maxDepth
}

// maxParameterCount returns the longest parameter list among all
// function-like declarations in the subtree, 0 when there are none.
func maxParameterCount(node *tree_sitter.Node) int {
	most := 0
	walk(node, func(n *tree_sitter.Node) bool {
		if !isFunctionLike(n) {
			return true
		}
		if params := n.ChildByFieldName("parameters"); params != nil {
			count := int(params.NamedChildCount())
			if count > most {
				most = count
			}
		} else if n.ChildByFieldName("parameter") != nil {
			// Single-parameter arrow function without parentheses.
			if most < 1 {
				most = 1
			}
		}
		return true
	})
	return most
}
