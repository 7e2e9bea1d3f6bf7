package domain

import (
	"fmt"
	"strings"

	m "sabot.dev/pkg/sabot/internal/model"
)

// PatternRole identifies which side of a rule failed to parse.
type PatternRole string

const (
	// RoleOriginal marks the expression the rule searches for.
	RoleOriginal PatternRole = "original"
	// RoleReplacement marks the expression the rule substitutes.
	RoleReplacement PatternRole = "replacement"
)

// PatternError reports that a rule's pattern is not a valid Go expression.
type PatternError struct {
	Role   PatternRole
	Source string
	Err    error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid %s expression %q: %v", e.Role, e.Source, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// ParseError reports that the target file is not valid Go source.
type ParseError struct {
	File m.Path
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FileNotFoundError reports a rule whose target file does not exist.
type FileNotFoundError struct {
	File m.Path
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.File)
}

// FunctionNotFoundError carries the function names actually present in the
// file so the rule can be corrected without re-running tests.
type FunctionNotFoundError struct {
	File      m.Path
	Function  string
	Available []string
}

func (e *FunctionNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("function %q not found in %s (file declares no functions)", e.Function, e.File)
	}

	return fmt.Sprintf("function %q not found in %s\n  available functions: %s",
		e.Function, e.File, strings.Join(e.Available, ", "))
}

// NoMatchError reports that the original pattern occurs nowhere in the scoped
// function. Hints lists the identifiers the function actually uses.
type NoMatchError struct {
	File     m.Path
	Function string
	Original string
	Hints    []string
}

func (e *NoMatchError) Error() string {
	msg := fmt.Sprintf("expression %q not found in function %q of %s", e.Original, e.Function, e.File)
	if len(e.Hints) > 0 {
		msg += fmt.Sprintf("\n  identifiers in scope: %s", strings.Join(e.Hints, ", "))
	}

	return msg
}

// AmbiguousMatchError lists every candidate location. Ambiguity is never
// auto-resolved by picking the first match.
type AmbiguousMatchError struct {
	Function  string
	Original  string
	Locations []m.MatchSite
}

func (e *AmbiguousMatchError) Error() string {
	locs := make([]string, 0, len(e.Locations))
	for _, site := range e.Locations {
		locs = append(locs, fmt.Sprintf("line %d, column %d", site.Line, site.Column))
	}

	return fmt.Sprintf("found %d matches for %q in %q\n  locations: %s",
		len(e.Locations), e.Original, e.Function, strings.Join(locs, "; "))
}

// ApplyError is an internal invariant violation: a site that resolved during
// matching could no longer be substituted at apply time.
type ApplyError struct {
	Reason string
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("failed to apply mutation: %s", e.Reason)
}

// RestoreError means the original bytes could not be written back after a
// mutation attempt. It is the one error class that aborts the whole run,
// since later rules would execute against a corrupted baseline.
type RestoreError struct {
	File m.Path
	Err  error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("failed to restore original contents of %s: %v", e.File, e.Err)
}

func (e *RestoreError) Unwrap() error { return e.Err }
