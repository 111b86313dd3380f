package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	t.Cleanup(func() { Catalog = nil })

	path := filepath.Join(t.TempDir(), "indicators.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
indicators:
  - code: FM-OC-001
    name: Ocean coverage monitored
    unit: percent
    frequency: annual
  - code: EN-CC-003
    name: Greenhouse gas emissions
    unit: tCO2e
    frequency: annual
`), 0o644))

	require.NoError(t, LoadCatalog(path))
	require.Len(t, Catalog, 2)
	assert.Equal(t, "FM-OC-001", Catalog[0].Code)
	assert.Equal(t, "percent", Catalog[0].Unit)

	assert.True(t, KnownIndicator("EN-CC-003"))
	assert.False(t, KnownIndicator("XX-XX-999"))
}

func TestKnownIndicatorWithoutCatalog(t *testing.T) {
	t.Cleanup(func() { Catalog = nil })
	Catalog = nil

	assert.True(t, KnownIndicator("anything"), "no catalog means no validation")
}

func TestLoadCatalogMissingFile(t *testing.T) {
	assert.Error(t, LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml")))
}
