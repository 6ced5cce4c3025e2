package analyzer

import (
	"path/filepath"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/rci/internal/parser"
	"github.com/standardbeagle/rci/internal/types"
)

// extractImports records one ImportInfo per import statement, discriminated
// by the shape of its import clause.
func extractImports(tree *parser.ParseTree) []types.ImportInfo {
	imports := []types.ImportInfo{}

	root := tree.Root()
	for i := uint(0); i < root.NamedChildCount(); i++ {
		node := root.NamedChild(i)
		if node.Kind() != "import_statement" {
			continue
		}
		source := node.ChildByFieldName("source")
		if source == nil {
			continue
		}
		imports = append(imports, types.ImportInfo{
			Module:   stripQuotes(tree.Text(source)),
			Kind:     importKind(node),
			Location: parser.NodeLocation(node),
		})
	}
	return imports
}

func importKind(stmt *tree_sitter.Node) types.ImportKind {
	for i := uint(0); i < stmt.NamedChildCount(); i++ {
		child := stmt.NamedChild(i)
		if child.Kind() != "import_clause" {
			continue
		}
		for j := uint(0); j < child.NamedChildCount(); j++ {
			switch child.NamedChild(j).Kind() {
			case "identifier":
				return types.ImportKindDefault
			case "named_imports":
				return types.ImportKindNamed
			case "namespace_import":
				return types.ImportKindNamespace
			}
		}
	}
	return types.ImportKindSideEffect
}

// extractExports records one ExportInfo per exported name. An export clause
// contributes one entry per specifier; an exported declaration contributes
// its declared name.
func extractExports(tree *parser.ParseTree) []types.ExportInfo {
	exports := []types.ExportInfo{}

	root := tree.Root()
	for i := uint(0); i < root.NamedChildCount(); i++ {
		node := root.NamedChild(i)
		if node.Kind() != "export_statement" {
			continue
		}
		exports = append(exports, exportEntries(tree, node)...)
	}
	return exports
}

func exportEntries(tree *parser.ParseTree, stmt *tree_sitter.Node) []types.ExportInfo {
	loc := parser.NodeLocation(stmt)

	if hasKeywordChild(stmt, "*") {
		return []types.ExportInfo{{Name: "*", Kind: types.ExportKindNamespace, Location: loc}}
	}

	isDefault := hasKeywordChild(stmt, "default")

	if decl := stmt.ChildByFieldName("declaration"); decl != nil {
		kind := types.ExportKindNamed
		if isDefault {
			kind = types.ExportKindDefault
		}
		return []types.ExportInfo{{Name: exportedDeclarationName(tree, decl), Kind: kind, Location: loc}}
	}

	entries := []types.ExportInfo{}
	for i := uint(0); i < stmt.NamedChildCount(); i++ {
		child := stmt.NamedChild(i)
		switch child.Kind() {
		case "export_clause":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				spec := child.NamedChild(j)
				if spec.Kind() != "export_specifier" {
					continue
				}
				// `export { a as b }` exposes b, not a.
				name := nodeName(tree, spec)
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					name = tree.Text(alias)
				}
				entries = append(entries, types.ExportInfo{
					Name:     name,
					Kind:     types.ExportKindNamed,
					Location: loc,
				})
			}
		case "identifier", "expression":
			if isDefault {
				entries = append(entries, types.ExportInfo{
					Name:     tree.Text(child),
					Kind:     types.ExportKindDefault,
					Location: loc,
				})
			}
		default:
			if isDefault {
				entries = append(entries, types.ExportInfo{
					Name:     types.AnonymousName,
					Kind:     types.ExportKindDefault,
					Location: loc,
				})
			}
		}
		if len(entries) > 0 {
			break
		}
	}
	return entries
}

// exportedDeclarationName pulls the primary bound name off an exported
// declaration. Variable declarations take the first declarator's name.
func exportedDeclarationName(tree *parser.ParseTree, decl *tree_sitter.Node) string {
	switch decl.Kind() {
	case "lexical_declaration", "variable_declaration":
		for i := uint(0); i < decl.NamedChildCount(); i++ {
			if d := decl.NamedChild(i); d.Kind() == "variable_declarator" {
				return nodeName(tree, d)
			}
		}
		return types.AnonymousName
	default:
		return nodeName(tree, decl)
	}
}

// extractInterfaces records interface declarations with their member body
// text and extends list.
func extractInterfaces(tree *parser.ParseTree) []types.InterfaceInfo {
	interfaces := []types.InterfaceInfo{}

	walk(tree.Root(), func(node *tree_sitter.Node) bool {
		if node.Kind() != "interface_declaration" {
			return true
		}
		info := types.InterfaceInfo{
			Name:     nodeName(tree, node),
			Location: parser.NodeLocation(node),
		}
		if body := node.ChildByFieldName("body"); body != nil {
			info.Members = tree.Text(body)
		}
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child.Kind() != "extends_type_clause" && child.Kind() != "extends_clause" {
				continue
			}
			for j := uint(0); j < child.NamedChildCount(); j++ {
				info.Extends = append(info.Extends, tree.Text(child.NamedChild(j)))
			}
		}
		interfaces = append(interfaces, info)
		return true
	})
	return interfaces
}

// extractTypeAliases records type alias declarations with their aliased text.
func extractTypeAliases(tree *parser.ParseTree) []types.TypeInfo {
	aliases := []types.TypeInfo{}

	walk(tree.Root(), func(node *tree_sitter.Node) bool {
		if node.Kind() != "type_alias_declaration" {
			return true
		}
		info := types.TypeInfo{
			Name:     nodeName(tree, node),
			Location: parser.NodeLocation(node),
		}
		if value := node.ChildByFieldName("value"); value != nil {
			info.Alias = tree.Text(value)
		}
		aliases = append(aliases, info)
		return true
	})
	return aliases
}

// buildDependencies derives the coarse file-to-module edge list from the
// import records. Call, extends, and implements edges stay reserved for the
// cross-file graph builder.
func buildDependencies(filePath string, imports []types.ImportInfo) []types.DependencyInfo {
	deps := make([]types.DependencyInfo, 0, len(imports))
	from := filepath.Base(filePath)
	for _, imp := range imports {
		deps = append(deps, types.DependencyInfo{
			From: from,
			To:   imp.Module,
			Kind: types.DependencyKindImport,
		})
	}
	return deps
}
