package domain

import (
	"go/ast"
	"go/token"
	"sort"

	m "sabot.dev/pkg/sabot/internal/model"
)

// FindInFunction returns every expression inside the named function that is
// structurally equal to pattern. Traversal is deterministic pre-order over
// the function body only; other top-level functions are never entered, so a
// pattern cannot accidentally match across functions. A match does not prune
// its own subtree, since a pattern can legitimately recur at nested depth.
func FindInFunction(fset *token.FileSet, file *ast.File, functionName string, pattern ast.Expr) []m.MatchSite {
	var sites []m.MatchSite

	index := 0

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name.Name != functionName || fn.Body == nil {
			continue
		}

		ast.Inspect(fn.Body, func(n ast.Node) bool {
			expr, ok := n.(ast.Expr)
			if !ok {
				return true
			}

			if Equal(expr, pattern) {
				pos := fset.Position(expr.Pos())
				sites = append(sites, m.MatchSite{
					Line:   pos.Line,
					Column: pos.Column,
					Index:  index,
				})
				index++
			}

			return true
		})
	}

	return sites
}

// FunctionNames collects the names of every function and method declared in
// the file, in declaration order.
func FunctionNames(file *ast.File) []string {
	var names []string

	seen := make(map[string]struct{})

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}

		if _, dup := seen[fn.Name.Name]; dup {
			continue
		}

		seen[fn.Name.Name] = struct{}{}

		names = append(names, fn.Name.Name)
	}

	return names
}

// HasFunction reports whether the file declares a function or method with
// the given name.
func HasFunction(file *ast.File, name string) bool {
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Name.Name == name {
			return true
		}
	}

	return false
}

// IdentifierHints returns the sorted set of identifiers used inside the named
// function's body. Surfaced in NoMatch errors so the user can see what the
// function actually refers to.
func IdentifierHints(file *ast.File, functionName string) []string {
	seen := make(map[string]struct{})

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name.Name != functionName || fn.Body == nil {
			continue
		}

		ast.Inspect(fn.Body, func(n ast.Node) bool {
			if ident, ok := n.(*ast.Ident); ok {
				seen[ident.Name] = struct{}{}
			}

			return true
		})
	}

	hints := make([]string, 0, len(seen))
	for name := range seen {
		hints = append(hints, name)
	}

	sort.Strings(hints)

	return hints
}
