// Package model defines the data structures for mutation testing.
package model

// Path represents a file system path.
type Path string

// MutationSpec is one declarative mutation rule: locate the Original
// expression inside Function in File and substitute Replacement.
type MutationSpec struct {
	ID          string `yaml:"id"`
	File        Path   `yaml:"file"`
	Function    string `yaml:"function"`
	Original    string `yaml:"original"`
	Replacement string `yaml:"replacement"`
	Description string `yaml:"description,omitempty"`

	// Timeout is the per-rule test deadline in seconds. Zero means the
	// document-level default applies.
	Timeout int `yaml:"timeout,omitempty"`
}

// Label returns a short human-readable identity for the rule.
func (s MutationSpec) Label() string {
	if s.Description != "" {
		return s.Description
	}

	return s.Original + " -> " + s.Replacement
}
