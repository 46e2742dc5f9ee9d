package sync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlan(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadPlan(t *testing.T) {
	path := writePlan(t, `
properties:
  - AP01
  - AP02
from: "2026-01-01"
to: "2026-03-01"
dry_run: true
concurrency: 2
`)

	plan, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AP01", "AP02"}, plan.Properties)
	assert.True(t, plan.DryRun)

	planOpts, err := plan.Options()
	require.NoError(t, err)
	opts := Defaults().Apply(planOpts...)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), opts.Range.From)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), opts.Range.To)
	assert.True(t, opts.DryRun)
	assert.Equal(t, 2, opts.Concurrency)
}

func TestLoadPlanEmpty(t *testing.T) {
	plan, err := LoadPlan(writePlan(t, "{}\n"))
	require.NoError(t, err)

	planOpts, err := plan.Options()
	require.NoError(t, err)
	opts := Defaults().Apply(planOpts...)
	assert.Empty(t, opts.Properties)
	assert.True(t, opts.Range.IsZero())
	assert.False(t, opts.DryRun)
}

func TestLoadPlanBadDate(t *testing.T) {
	_, err := LoadPlan(writePlan(t, "from: \"01/02/2026\"\nto: \"2026-02-01\"\n"))
	assert.Error(t, err)
}

func TestLoadPlanHalfWindow(t *testing.T) {
	_, err := LoadPlan(writePlan(t, "from: \"2026-01-01\"\n"))
	assert.Error(t, err)
}

func TestLoadPlanInvertedRange(t *testing.T) {
	_, err := LoadPlan(writePlan(t, "from: \"2026-03-01\"\nto: \"2026-01-01\"\n"))
	assert.Error(t, err)
}

func TestLoadPlanMissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
