// Package domain contains the mutation matching-and-application engine and
// the orchestration that drives the apply -> test -> restore cycle.
package domain

import (
	"go/ast"
	"go/printer"
	"go/token"
	"strings"
)

// Equal reports whether two expressions are structurally equal: same node
// kind, same operator/literal value, recursively equal children. Source
// positions and whitespace never participate. Parentheses are transparent on
// either side, so `(a + b)` matches `a + b`.
//
// Node kinds without an explicit case below fall back to printed-source
// comparison with whitespace normalized, which keeps uncommon expression
// shapes matchable without modeling every go/ast variant.
func Equal(a, b ast.Expr) bool {
	if p, ok := a.(*ast.ParenExpr); ok {
		return Equal(p.X, b)
	}

	if p, ok := b.(*ast.ParenExpr); ok {
		return Equal(a, p.X)
	}

	switch x := a.(type) {
	case *ast.Ident:
		y, ok := b.(*ast.Ident)
		return ok && x.Name == y.Name

	case *ast.BasicLit:
		y, ok := b.(*ast.BasicLit)
		return ok && x.Kind == y.Kind && x.Value == y.Value

	case *ast.BinaryExpr:
		y, ok := b.(*ast.BinaryExpr)
		return ok && x.Op == y.Op && Equal(x.X, y.X) && Equal(x.Y, y.Y)

	case *ast.UnaryExpr:
		y, ok := b.(*ast.UnaryExpr)
		return ok && x.Op == y.Op && Equal(x.X, y.X)

	case *ast.CallExpr:
		y, ok := b.(*ast.CallExpr)
		return ok && (x.Ellipsis == token.NoPos) == (y.Ellipsis == token.NoPos) &&
			Equal(x.Fun, y.Fun) && exprListEqual(x.Args, y.Args)

	case *ast.SelectorExpr:
		y, ok := b.(*ast.SelectorExpr)
		return ok && x.Sel.Name == y.Sel.Name && Equal(x.X, y.X)

	case *ast.IndexExpr:
		y, ok := b.(*ast.IndexExpr)
		return ok && Equal(x.X, y.X) && Equal(x.Index, y.Index)

	case *ast.StarExpr:
		y, ok := b.(*ast.StarExpr)
		return ok && Equal(x.X, y.X)

	case *ast.SliceExpr:
		y, ok := b.(*ast.SliceExpr)
		return ok && x.Slice3 == y.Slice3 &&
			optionalEqual(x.Low, y.Low) &&
			optionalEqual(x.High, y.High) &&
			optionalEqual(x.Max, y.Max) &&
			Equal(x.X, y.X)

	case *ast.KeyValueExpr:
		y, ok := b.(*ast.KeyValueExpr)
		return ok && Equal(x.Key, y.Key) && Equal(x.Value, y.Value)

	case *ast.CompositeLit:
		y, ok := b.(*ast.CompositeLit)
		return ok && optionalEqual(x.Type, y.Type) && exprListEqual(x.Elts, y.Elts)
	}

	return opaqueEqual(a, b)
}

func exprListEqual(a, b []ast.Expr) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}

// optionalEqual compares children that may legitimately be absent, such as
// slice bounds or a composite literal's elided type.
func optionalEqual(a, b ast.Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return Equal(a, b)
}

// opaqueEqual compares two expressions by their printed source after
// collapsing whitespace. Types with explicit cases in Equal never reach this
// path against each other, so it only decides shapes we treat as opaque.
func opaqueEqual(a, b ast.Expr) bool {
	pa, pb := printNormalized(a), printNormalized(b)
	if pa == "" || pb == "" {
		return false
	}

	return pa == pb
}

func printNormalized(e ast.Expr) string {
	var buf strings.Builder

	// Printing with an empty file set is fine here: positions only affect
	// layout, which the normalization below discards anyway.
	if err := printer.Fprint(&buf, token.NewFileSet(), e); err != nil {
		return ""
	}

	return strings.Join(strings.Fields(buf.String()), " ")
}
