package model

import "time"

// Status classifies the outcome of testing a single mutation.
type Status int

const (
	// Killed indicates the test suite failed, detecting the mutation.
	Killed Status = iota
	// Survived indicates the test suite passed, missing the mutation.
	Survived
	// Timeout indicates the test run exceeded its deadline.
	Timeout
	// BuildFailed indicates the mutated code did not compile.
	BuildFailed
	// ConfigError indicates the rule never resolved to exactly one site.
	ConfigError
)

// String returns the display name used in reports and logs.
func (s Status) String() string {
	switch s {
	case Killed:
		return "KILLED"
	case Survived:
		return "SURVIVED"
	case Timeout:
		return "TIMEOUT"
	case BuildFailed:
		return "BUILD FAILED"
	case ConfigError:
		return "CONFIG ERROR"
	}

	return "UNKNOWN"
}

// Run pairs one mutation rule with its resolved site and outcome.
type Run struct {
	Spec     MutationSpec  `yaml:"spec"`
	Site     *MatchSite    `yaml:"site,omitempty"` // nil when validation failed
	Status   Status        `yaml:"status"`
	Duration time.Duration `yaml:"duration"`
	Details  string        `yaml:"details,omitempty"`
	Diff     string        `yaml:"diff,omitempty"`
}

// Report is the ordered collection of runs plus derived counts.
type Report struct {
	Runs []Run `yaml:"runs"`
}

// Count returns the number of runs with the given status.
func (r *Report) Count(status Status) int {
	n := 0

	for _, run := range r.Runs {
		if run.Status == status {
			n++
		}
	}

	return n
}

// Score returns killed / (killed + survived) as a percentage. Timeouts,
// build failures and config errors carry no signal about the test suite and
// stay out of the denominator. An empty denominator scores 100.0.
func (r *Report) Score() float64 {
	killed := r.Count(Killed)

	testable := killed + r.Count(Survived)
	if testable == 0 {
		return 100.0
	}

	return float64(killed) / float64(testable) * 100.0
}

// Clean reports whether the run had no survivors and no error outcomes.
func (r *Report) Clean() bool {
	return r.Count(Survived) == 0 &&
		r.Count(Timeout) == 0 &&
		r.Count(BuildFailed) == 0 &&
		r.Count(ConfigError) == 0
}

// TotalDuration sums the elapsed time of every run.
func (r *Report) TotalDuration() time.Duration {
	var total time.Duration

	for _, run := range r.Runs {
		total += run.Duration
	}

	return total
}

// Surviving returns the runs whose mutation went undetected.
func (r *Report) Surviving() []Run {
	var runs []Run

	for _, run := range r.Runs {
		if run.Status == Survived {
			runs = append(runs, run)
		}
	}

	return runs
}
