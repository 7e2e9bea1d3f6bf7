package adapter

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
)

// GoFileAdapter encapsulates Go parsing and printing so the domain layer can
// treat the source text <-> AST conversion as an external capability instead
// of reaching for go/parser directly.
type GoFileAdapter interface {
	// ParseFile builds an AST using the provided file set and source bytes.
	ParseFile(fset *token.FileSet, filename string, src []byte) (*ast.File, error)

	// ParseExpr parses a single expression, e.g. a rule's original pattern.
	ParseExpr(src string) (ast.Expr, error)

	// Render serializes an AST back to source text.
	Render(fset *token.FileSet, file *ast.File) ([]byte, error)
}

// LocalGoFileAdapter provides a concrete GoFileAdapter backed by go/parser
// and go/printer.
type LocalGoFileAdapter struct{}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter.
func NewLocalGoFileAdapter() *LocalGoFileAdapter {
	return &LocalGoFileAdapter{}
}

// ParseFile builds an AST for the provided filename/source pair.
func (a *LocalGoFileAdapter) ParseFile(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	return parser.ParseFile(fset, filename, src, parser.ParseComments)
}

// ParseExpr parses an expression in isolation.
func (a *LocalGoFileAdapter) ParseExpr(src string) (ast.Expr, error) {
	return parser.ParseExpr(src)
}

// Render prints the AST back to source bytes using gofmt-compatible settings.
func (a *LocalGoFileAdapter) Render(fset *token.FileSet, file *ast.File) ([]byte, error) {
	var buf bytes.Buffer

	cfg := printer.Config{Mode: printer.UseSpaces | printer.TabIndent, Tabwidth: 8}
	if err := cfg.Fprint(&buf, fset, file); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
