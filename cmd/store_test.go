package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-sdk/internal/model"
	"github.com/sells-group/outreach-sdk/internal/registry"
)

func TestSnapshotRoundTrip(t *testing.T) {
	orig := snapshotPath
	snapshotPath = filepath.Join(t.TempDir(), "leads.json")
	t.Cleanup(func() { snapshotPath = orig })

	reg := registry.New()
	lead, err := reg.Create(model.Company{Name: "Acme"}, nil, "test", []string{"warm"})
	require.NoError(t, err)
	require.NoError(t, saveSnapshot(reg))

	restored := registry.New()
	require.NoError(t, loadSnapshot(restored))

	got := restored.Get(lead.ID)
	require.NotNil(t, got)
	assert.Equal(t, "Acme", got.Company.Name)
	assert.Equal(t, []string{"warm"}, got.Tags)
}

func TestLoadSnapshot_MissingFileIsEmpty(t *testing.T) {
	orig := snapshotPath
	snapshotPath = filepath.Join(t.TempDir(), "absent.json")
	t.Cleanup(func() { snapshotPath = orig })

	reg := registry.New()
	require.NoError(t, loadSnapshot(reg))
	assert.Equal(t, 0, reg.Len())
}
