package domain

import (
	"go/ast"
	"go/printer"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "sabot.dev/pkg/sabot/internal/model"
)

func renderFile(t *testing.T, fset *token.FileSet, file *ast.File) string {
	t.Helper()

	var b strings.Builder
	require.NoError(t, printer.Fprint(&b, fset, file))

	return b.String()
}

func TestApplyReplacesTargetedIndex(t *testing.T) {
	src := `package main

func Calc(a, b int) int {
	x := a + b
	y := a + b
	return x + y
}
`

	fset, file := parseSource(t, src)
	pattern := expr(t, "a + b")
	replacement := expr(t, "a * b")

	applied := Apply(file, "Calc", pattern, replacement, m.MatchSite{Index: 1})
	require.Equal(t, 1, applied)

	out := renderFile(t, fset, file)
	assert.Contains(t, out, "x := a + b", "first occurrence untouched")
	assert.Contains(t, out, "y := a * b", "second occurrence replaced")
}

func TestApplyScopedToFunction(t *testing.T) {
	src := `package main

func Target(a, b int) int {
	return a + b
}

func Bystander(a, b int) int {
	return a + b
}
`

	fset, file := parseSource(t, src)

	applied := Apply(file, "Target", expr(t, "a + b"), expr(t, "a - b"), m.MatchSite{Index: 0})
	require.Equal(t, 1, applied)

	out := renderFile(t, fset, file)
	assert.Equal(t, 1, strings.Count(out, "a - b"))
	assert.Equal(t, 1, strings.Count(out, "a + b"), "other function untouched")
}

func TestApplyDoesNotRescanReplacement(t *testing.T) {
	// The replacement contains the pattern as a subexpression. Without the
	// skip after substitution this would recurse.
	src := `package main

func Wrap(a, b int) int {
	return a + b
}
`

	fset, file := parseSource(t, src)

	applied := Apply(file, "Wrap", expr(t, "a + b"), expr(t, "(a + b) * 2"), m.MatchSite{Index: 0})
	require.Equal(t, 1, applied)

	out := renderFile(t, fset, file)
	assert.Contains(t, out, "(a + b) * 2")
	assert.NotContains(t, out, "* 2) * 2")
}

func TestApplyOutOfRangeIndex(t *testing.T) {
	src := `package main

func Add(a, b int) int {
	return a + b
}
`

	_, file := parseSource(t, src)

	applied := Apply(file, "Add", expr(t, "a + b"), expr(t, "a - b"), m.MatchSite{Index: 5})
	assert.Equal(t, 0, applied)
}

func TestApplyMatchesThroughParens(t *testing.T) {
	src := `package main

func Compute(a, b int) int {
	return (a + b)
}
`

	fset, file := parseSource(t, src)

	applied := Apply(file, "Compute", expr(t, "a + b"), expr(t, "a - b"), m.MatchSite{Index: 0})
	require.Equal(t, 1, applied)

	out := renderFile(t, fset, file)
	assert.Contains(t, out, "a - b")
	assert.NotContains(t, out, "a + b")
}
