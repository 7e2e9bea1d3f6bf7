package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "sabot.dev/pkg/sabot/internal/model"
)

// reportFileName is the file written inside the reports directory.
const reportFileName = "report.yaml"

// ReportStore persists aggregated mutation reports between runs.
type ReportStore interface {
	SaveReport(dir m.Path, report *m.Report) error
	LoadReport(dir m.Path) (*m.Report, error)
}

// YAMLReportStore stores reports as a YAML document in the output directory.
type YAMLReportStore struct{}

// NewReportStore constructs a YAMLReportStore.
func NewReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveReport writes the report to <dir>/report.yaml, creating dir if needed.
func (s *YAMLReportStore) SaveReport(dir m.Path, report *m.Report) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	path := filepath.Join(string(dir), reportFileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// LoadReport reads a previously saved report from <dir>/report.yaml.
func (s *YAMLReportStore) LoadReport(dir m.Path) (*m.Report, error) {
	path := filepath.Join(string(dir), reportFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var report m.Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}

	return &report, nil
}
