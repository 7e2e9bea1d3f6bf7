package domain

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const matcherSource = `package main

func Add(a, b int) int {
	return a + b
}

func Sum3(a, b, c int) int {
	return a + b + (a + b)
}

func Other(a, b int) int {
	return a + b
}

func Declared()

func Nested(a, b int) int {
	if a > 0 {
		return a + b
	}
	return 0
}
`

func parseSource(t *testing.T, src string) (*token.FileSet, *ast.File) {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "main.go", src, parser.ParseComments)
	require.NoError(t, err)

	return fset, file
}

func TestFindInFunction(t *testing.T) {
	fset, file := parseSource(t, matcherSource)

	t.Run("single match", func(t *testing.T) {
		sites := FindInFunction(fset, file, "Add", expr(t, "a + b"))

		require.Len(t, sites, 1)
		assert.Equal(t, 0, sites[0].Index)
		assert.Equal(t, 4, sites[0].Line)
		assert.Positive(t, sites[0].Column)
	})

	t.Run("matches are scoped to the named function", func(t *testing.T) {
		// `a + b` appears in Add, Other and Nested, but only Add is searched.
		sites := FindInFunction(fset, file, "Add", expr(t, "a + b"))
		assert.Len(t, sites, 1)
	})

	t.Run("multiple matches in pre-order with increasing indices", func(t *testing.T) {
		// `a + b` matches three nodes in Sum3: the left operand of the outer
		// sum, the parenthesized right operand (parens are transparent) and
		// the expression inside those parens.
		sites := FindInFunction(fset, file, "Sum3", expr(t, "a + b"))

		require.Len(t, sites, 3)
		for i, site := range sites {
			assert.Equal(t, i, site.Index)
		}
		assert.LessOrEqual(t, sites[0].Column, sites[1].Column)
	})

	t.Run("no match", func(t *testing.T) {
		sites := FindInFunction(fset, file, "Add", expr(t, "a * b"))
		assert.Empty(t, sites)
	})

	t.Run("match inside nested blocks", func(t *testing.T) {
		sites := FindInFunction(fset, file, "Nested", expr(t, "a + b"))
		require.Len(t, sites, 1)
	})

	t.Run("bodyless declaration yields no matches", func(t *testing.T) {
		sites := FindInFunction(fset, file, "Declared", expr(t, "a + b"))
		assert.Empty(t, sites)
	})

	t.Run("unknown function yields no matches", func(t *testing.T) {
		sites := FindInFunction(fset, file, "Missing", expr(t, "a + b"))
		assert.Empty(t, sites)
	})
}

func TestFunctionNames(t *testing.T) {
	_, file := parseSource(t, matcherSource)

	assert.Equal(t, []string{"Add", "Sum3", "Other", "Declared", "Nested"}, FunctionNames(file))
}

func TestHasFunction(t *testing.T) {
	_, file := parseSource(t, matcherSource)

	assert.True(t, HasFunction(file, "Add"))
	assert.True(t, HasFunction(file, "Declared"))
	assert.False(t, HasFunction(file, "Missing"))
}

func TestIdentifierHints(t *testing.T) {
	_, file := parseSource(t, matcherSource)

	hints := IdentifierHints(file, "Add")
	assert.Equal(t, []string{"a", "b"}, hints)

	assert.Empty(t, IdentifierHints(file, "Missing"))
}
