package reap

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderSummaryCounts(t *testing.T) {
	result := &Result{
		Submitted: 3,
		Rebooted:  2,
		Skipped:   1,
		Duration:  1500 * time.Millisecond,
		HostResults: []HostResult{
			{Host: "a", Outcome: OutcomeRebooted},
			{Host: "tegra-050", Outcome: OutcomeRebooted},
			{Host: "b", Outcome: OutcomeShutdownTimeout},
		},
	}

	var buf bytes.Buffer
	RenderSummaryTo(&buf, result)
	out := buf.String()

	assert.Contains(t, out, "Reap summary")
	assert.Contains(t, out, "2 rebooted")
	assert.Contains(t, out, "1 skipped")
	assert.Contains(t, out, "3 hosts")
	assert.Contains(t, out, "b: shutdown-timeout")
	assert.NotContains(t, out, "a: rebooted")
}

func TestRenderSummaryBugNumber(t *testing.T) {
	result := &Result{
		Submitted: 1,
		Skipped:   1,
		HostResults: []HostResult{
			{Host: "x", Outcome: OutcomeDisabledByBug, Bug: "123456"},
		},
	}

	var buf bytes.Buffer
	RenderSummaryTo(&buf, result)
	assert.Contains(t, buf.String(), "(bug 123456)")
}

func TestRenderSummaryNil(t *testing.T) {
	var buf bytes.Buffer
	RenderSummaryTo(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestRenderSummaryEmptyRun(t *testing.T) {
	var buf bytes.Buffer
	RenderSummaryTo(&buf, &Result{})
	assert.Contains(t, buf.String(), "0 hosts")
}
