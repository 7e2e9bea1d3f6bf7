package domain

import (
	"fmt"
	"go/token"

	"sabot.dev/pkg/sabot/internal/adapter"
	m "sabot.dev/pkg/sabot/internal/model"
)

// Prepared is the outcome of resolving one rule against a fresh snapshot of
// its target file: the mutated source text and the single site it touched.
type Prepared struct {
	MutatedSource []byte
	Site          m.MatchSite
}

// Preparer resolves a mutation rule against source bytes. It is pure with
// respect to the file system: parsing, matching and substitution all happen
// on an in-memory snapshot, which makes it equally usable for dry-run
// validation and for the real mutate-and-test cycle.
type Preparer interface {
	Prepare(content []byte, spec m.MutationSpec) (*Prepared, error)
}

type preparer struct {
	goFiles adapter.GoFileAdapter
}

// NewPreparer constructs a Preparer backed by the provided Go file adapter.
func NewPreparer(goFiles adapter.GoFileAdapter) Preparer {
	return &preparer{goFiles: goFiles}
}

// Prepare parses the snapshot and both patterns, resolves exactly one match
// site, applies the substitution and renders the mutated source. Every
// failure mode maps onto the validation taxonomy: ParseError, PatternError,
// FunctionNotFoundError, NoMatchError, AmbiguousMatchError. An ApplyError
// here means the matcher and applier disagreed, which is a bug, not bad input.
func (p *preparer) Prepare(content []byte, spec m.MutationSpec) (*Prepared, error) {
	fset := token.NewFileSet()

	file, err := p.goFiles.ParseFile(fset, string(spec.File), content)
	if err != nil {
		return nil, &ParseError{File: spec.File, Err: err}
	}

	original, err := p.goFiles.ParseExpr(spec.Original)
	if err != nil {
		return nil, &PatternError{Role: RoleOriginal, Source: spec.Original, Err: err}
	}

	replacement, err := p.goFiles.ParseExpr(spec.Replacement)
	if err != nil {
		return nil, &PatternError{Role: RoleReplacement, Source: spec.Replacement, Err: err}
	}

	if !HasFunction(file, spec.Function) {
		return nil, &FunctionNotFoundError{
			File:      spec.File,
			Function:  spec.Function,
			Available: FunctionNames(file),
		}
	}

	sites := FindInFunction(fset, file, spec.Function, original)

	switch len(sites) {
	case 1:
		// Exactly one site: the only case that may proceed to apply.
	case 0:
		return nil, &NoMatchError{
			File:     spec.File,
			Function: spec.Function,
			Original: spec.Original,
			Hints:    IdentifierHints(file, spec.Function),
		}
	default:
		return nil, &AmbiguousMatchError{
			Function:  spec.Function,
			Original:  spec.Original,
			Locations: sites,
		}
	}

	site := sites[0]

	if applied := Apply(file, spec.Function, original, replacement, site); applied != 1 {
		return nil, &ApplyError{
			Reason: fmt.Sprintf("expected exactly one substitution, performed %d", applied),
		}
	}

	mutated, err := p.goFiles.Render(fset, file)
	if err != nil {
		return nil, fmt.Errorf("render mutated source: %w", err)
	}

	return &Prepared{MutatedSource: mutated, Site: site}, nil
}
