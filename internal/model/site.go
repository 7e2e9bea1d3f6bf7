package model

// MatchSite points at one expression occurrence inside a fresh parse of a
// source file. Index is the pre-order ordinal of the match within the target
// function, so it is only meaningful against the snapshot it was resolved
// from; sites are discarded after each mutation attempt.
type MatchSite struct {
	Line   int `yaml:"line"`
	Column int `yaml:"column"`
	Index  int `yaml:"index"`
}
