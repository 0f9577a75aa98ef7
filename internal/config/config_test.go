package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 100.0, cfg.Verify.VerifiedMaxMeters, 0.001)
	assert.InDelta(t, 300.0, cfg.Verify.ReviewMaxMeters, 0.001)
	assert.Equal(t, "1", cfg.Verify.ConsentAccepted)
	assert.Equal(t, "Q2", cfg.Input.Columns.Consent)
	assert.Equal(t, "Q2.1", cfg.Input.Columns.Submitter)
	assert.Equal(t, "Q4", cfg.Input.Columns.Site)
	assert.Equal(t, "Q5", cfg.Input.Columns.Hours)
	assert.Equal(t, "LocationLatitude", cfg.Input.Columns.Latitude)
	assert.Equal(t, "LocationLongitude", cfg.Input.Columns.Longitude)
	assert.Equal(t, "RecordedDate", cfg.Input.Columns.Recorded)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
verify:
  verified_max_meters: 150
  review_max_meters: 500
  consent_accepted: "yes"
  sites_path: sites.csv
input:
  columns:
    submitter: StudentID
    hours: HoursLogged
server:
  port: 9090
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 150.0, cfg.Verify.VerifiedMaxMeters, 0.001)
	assert.InDelta(t, 500.0, cfg.Verify.ReviewMaxMeters, 0.001)
	assert.Equal(t, "yes", cfg.Verify.ConsentAccepted)
	assert.Equal(t, "sites.csv", cfg.Verify.SitesPath)
	assert.Equal(t, "StudentID", cfg.Input.Columns.Submitter)
	assert.Equal(t, "HoursLogged", cfg.Input.Columns.Hours)
	// Unset columns keep their defaults.
	assert.Equal(t, "Q4", cfg.Input.Columns.Site)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level", Format: "json"})
	assert.Error(t, err)
}
