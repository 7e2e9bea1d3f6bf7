package domain

import (
	"go/ast"
	"go/token"
	"reflect"

	"golang.org/x/tools/go/ast/astutil"

	m "sabot.dev/pkg/sabot/internal/model"
)

// Apply substitutes replacement for the site.Index-th structural match of
// pattern inside the named function, mutating the file's AST in place. It
// returns the number of substitutions performed; callers must treat anything
// other than exactly one as an invariant violation.
//
// The traversal mirrors FindInFunction's pre-order exactly, so a site
// resolved by the matcher addresses the same node here. Once the replacement
// is in place its subtree is not re-scanned, which prevents a replacement
// that happens to match its own pattern from being substituted recursively.
func Apply(file *ast.File, functionName string, pattern, replacement ast.Expr, site m.MatchSite) int {
	applied := 0
	index := 0

	clearPositions(replacement)

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name.Name != functionName || fn.Body == nil {
			continue
		}

		fn.Body = astutil.Apply(fn.Body, func(c *astutil.Cursor) bool {
			if applied > 0 {
				return false
			}

			expr, ok := c.Node().(ast.Expr)
			if !ok {
				return true
			}

			if !Equal(expr, pattern) {
				return true
			}

			if index == site.Index {
				c.Replace(replacement)

				applied++

				return false
			}

			index++

			return true
		}, nil).(*ast.BlockStmt)
	}

	return applied
}

var posType = reflect.TypeOf(token.NoPos)

// clearPositions zeroes every token.Pos in the subtree. Replacement
// expressions are parsed against their own file set, so their positions are
// meaningless inside the target file's set and would confuse the printer.
func clearPositions(root ast.Node) {
	ast.Inspect(root, func(n ast.Node) bool {
		if n == nil {
			return true
		}

		v := reflect.ValueOf(n).Elem()
		if v.Kind() != reflect.Struct {
			return true
		}

		for i := 0; i < v.NumField(); i++ {
			f := v.Field(i)
			if f.Type() == posType && f.CanSet() {
				f.SetInt(int64(token.NoPos))
			}
		}

		return true
	})
}
