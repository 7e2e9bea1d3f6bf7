package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func run(status Status, d time.Duration) Run {
	return Run{Spec: MutationSpec{ID: "m"}, Status: status, Duration: d}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "KILLED", Killed.String())
	assert.Equal(t, "SURVIVED", Survived.String())
	assert.Equal(t, "TIMEOUT", Timeout.String())
	assert.Equal(t, "BUILD FAILED", BuildFailed.String())
	assert.Equal(t, "CONFIG ERROR", ConfigError.String())
	assert.Equal(t, "UNKNOWN", Status(99).String())
}

func TestReportScore(t *testing.T) {
	t.Run("killed over killed plus survived", func(t *testing.T) {
		report := Report{Runs: []Run{
			run(Killed, 0), run(Killed, 0), run(Killed, 0), run(Survived, 0),
		}}

		assert.InDelta(t, 75.0, report.Score(), 0.001)
	})

	t.Run("timeouts and build failures stay out of the denominator", func(t *testing.T) {
		report := Report{Runs: []Run{
			run(Killed, 0), run(Survived, 0),
			run(Timeout, 0), run(BuildFailed, 0), run(ConfigError, 0),
		}}

		assert.InDelta(t, 50.0, report.Score(), 0.001)
	})

	t.Run("empty denominator scores 100", func(t *testing.T) {
		empty := Report{}
		assert.Equal(t, 100.0, empty.Score())

		onlyErrors := Report{Runs: []Run{run(ConfigError, 0), run(Timeout, 0)}}
		assert.Equal(t, 100.0, onlyErrors.Score())
	})
}

func TestReportClean(t *testing.T) {
	assert.True(t, (&Report{Runs: []Run{run(Killed, 0)}}).Clean())
	assert.True(t, (&Report{}).Clean())

	assert.False(t, (&Report{Runs: []Run{run(Survived, 0)}}).Clean())
	assert.False(t, (&Report{Runs: []Run{run(Killed, 0), run(Timeout, 0)}}).Clean())
	assert.False(t, (&Report{Runs: []Run{run(ConfigError, 0)}}).Clean())
}

func TestReportCountsAndDuration(t *testing.T) {
	report := Report{Runs: []Run{
		run(Killed, time.Second),
		run(Survived, 2*time.Second),
		run(Survived, 500*time.Millisecond),
	}}

	assert.Equal(t, 1, report.Count(Killed))
	assert.Equal(t, 2, report.Count(Survived))
	assert.Equal(t, 0, report.Count(Timeout))
	assert.Equal(t, 3500*time.Millisecond, report.TotalDuration())
	assert.Len(t, report.Surviving(), 2)
}

func TestMutationSpecLabel(t *testing.T) {
	withDesc := MutationSpec{Original: "a + b", Replacement: "a - b", Description: "plus to minus"}
	assert.Equal(t, "plus to minus", withDesc.Label())

	withoutDesc := MutationSpec{Original: "a + b", Replacement: "a - b"}
	assert.Equal(t, "a + b -> a - b", withoutDesc.Label())
}
