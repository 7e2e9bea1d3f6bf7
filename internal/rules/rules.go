// Package rules loads the declarative mutation rules consumed by the engine.
package rules

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	m "sabot.dev/pkg/sabot/internal/model"
)

// DefaultTimeout applies when neither the document nor the rule sets one.
const DefaultTimeout = 30 * time.Second

// defaultTestCommand is the argv run against the mutated project when the
// document does not override it.
var defaultTestCommand = []string{"go", "test", "./..."}

// Settings are the document-level knobs shared by every rule.
type Settings struct {
	// Timeout is the per-mutation test deadline in seconds.
	Timeout int `yaml:"timeout"`

	// TestCommand is an argv (not a shell line) replacing `go test ./...`.
	TestCommand []string `yaml:"test_command"`
}

// Document is the top-level mutations.yaml structure.
type Document struct {
	Version   string           `yaml:"version"`
	Settings  Settings         `yaml:"settings"`
	Mutations []m.MutationSpec `yaml:"mutations"`
}

// Timeout returns the document-level test deadline.
func (d *Document) Timeout() time.Duration {
	if d.Settings.Timeout > 0 {
		return time.Duration(d.Settings.Timeout) * time.Second
	}

	return DefaultTimeout
}

// TestCommand returns the build/test command argv for this document.
func (d *Document) TestCommand() []string {
	if len(d.Settings.TestCommand) > 0 {
		return d.Settings.TestCommand
	}

	return defaultTestCommand
}

// Load reads and decodes a mutations document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}

	return doc, nil
}

// Parse decodes a mutations document, assigns mutation_N identifiers to rules
// that omit one, and rejects duplicates and missing required fields.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Mutations))

	for i := range doc.Mutations {
		rule := &doc.Mutations[i]

		if rule.File == "" || rule.Function == "" || rule.Original == "" || rule.Replacement == "" {
			return nil, fmt.Errorf("mutation %d: file, function, original and replacement are required", i+1)
		}

		if rule.Timeout < 0 {
			return nil, fmt.Errorf("mutation %d: timeout must not be negative", i+1)
		}

		if rule.ID == "" {
			rule.ID = fmt.Sprintf("mutation_%d", i+1)
		}

		if _, dup := seen[rule.ID]; dup {
			return nil, fmt.Errorf("duplicate mutation id %q", rule.ID)
		}

		seen[rule.ID] = struct{}{}
	}

	return &doc, nil
}
