package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/imkarma/crmboard/internal/kanban"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(path, DefaultConfig()))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Drag.ActivationDistance)
	assert.Equal(t, 4, cfg.Dispatch.Workers)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "version: 1\ndrag:\n  activation_distance: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Drag.ActivationDistance)
	assert.Equal(t, "crmboard.db", cfg.Database)
	assert.Equal(t, 10*time.Second, cfg.DispatchTimeout())
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"zero distance", "drag:\n  activation_distance: 0\n", "activation_distance"},
		{"zero workers", "dispatch:\n  workers: 0\n", "dispatch.workers"},
		{"unknown board", "boards:\n  invoices:\n    titles: {}\n", "unknown board"},
		{"unknown column", "boards:\n  tasks:\n    titles:\n      archived: Archive\n", "no column"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestVariant_AppliesTitles(t *testing.T) {
	cfg, err := Load(writeConfig(t, "boards:\n  customers:\n    titles:\n      other: Misc\n"))
	require.NoError(t, err)

	v := cfg.Variant(kanban.Customers)
	assert.Equal(t, "Misc", v.Columns[len(v.Columns)-1].Title)
	assert.Equal(t, "To Do", cfg.Variant(kanban.Tasks).Columns[0].Title, "tasks board should be untouched")
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "/a/b/x.db", Resolve("/a/b/config.yaml", "x.db"))
	assert.Equal(t, "/abs.db", Resolve("/a/b/config.yaml", "/abs.db"))
}
