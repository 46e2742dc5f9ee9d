package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendizy/channelsync/pkg/sync"
)

func testApp(t *testing.T) *App {
	t.Helper()
	a, err := New("test", "none", "now")
	require.NoError(t, err)
	return a
}

func TestNewApp(t *testing.T) {
	a := testApp(t)
	assert.Equal(t, "test", a.version)
	assert.NotNil(t, a.config)
	assert.NotNil(t, a.Logger())
}

func TestSyncOptionsFromFlags(t *testing.T) {
	a := testApp(t)

	opts, err := a.syncOptions([]string{"AP01"}, "2026-01-01", "2026-02-01", true, 8, "")
	require.NoError(t, err)

	resolved := sync.Defaults().Apply(opts...)
	assert.Equal(t, []string{"AP01"}, resolved.Properties)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), resolved.Range.From)
	assert.True(t, resolved.DryRun)
	assert.Equal(t, 8, resolved.Concurrency)
}

func TestSyncOptionsRequireBothWindowEnds(t *testing.T) {
	a := testApp(t)

	_, err := a.syncOptions(nil, "2026-01-01", "", false, 0, "")
	assert.Error(t, err)

	_, err = a.syncOptions(nil, "", "2026-02-01", false, 0, "")
	assert.Error(t, err)
}

func TestSyncOptionsBadDate(t *testing.T) {
	a := testApp(t)
	_, err := a.syncOptions(nil, "01/02/2026", "2026-02-01", false, 0, "")
	assert.Error(t, err)
}

func TestNewClientRequiresConfig(t *testing.T) {
	a := testApp(t)
	a.config.TenantID = ""

	_, err := a.newClient(nil)
	assert.Error(t, err)

	a.config.TenantID = "org-1"
	a.config.StaysBaseURL = ""
	_, err = a.newClient(nil)
	assert.Error(t, err)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	a := testApp(t)
	root := a.createRootCommand()

	names := make([]string, 0, 3)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "sync")
	assert.Contains(t, names, "migrate")
	assert.Contains(t, names, "version")
}
