package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formcoach/go-formcoach/pkg/reference"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FORMCOACH_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "websocket", cfg.Source.Kind)
	assert.True(t, cfg.Speech.Enabled)

	sess := cfg.SessionConfig()
	assert.Equal(t, reference.OverheadPress, sess.Exercise)
	assert.Equal(t, 1500*time.Millisecond, sess.FeedbackCooldown)
	assert.Equal(t, 30*time.Second, sess.DedupWindow)
	assert.Equal(t, 60, sess.Detector.Capacity)
	assert.Equal(t, 20, sess.Detector.MinFrames)
	assert.Equal(t, 80.0, sess.Detector.ExcursionPx)
	assert.Equal(t, 1000*time.Millisecond, sess.Pace.HardFastBelow)
	assert.Equal(t, 6000*time.Millisecond, sess.Pace.SoftSlowBelow)
	assert.Equal(t, 3, sess.Pace.WarnAfter)
	assert.Equal(t, 5, sess.Pace.RestartAfter)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FORMCOACH_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("FORMCOACH_SERVER_ADDR", ":9999")
	t.Setenv("FORMCOACH_SESSION_EXERCISE", "bicep_curl")
	t.Setenv("FORMCOACH_DETECTOR_EXCURSION_PX", "120")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)

	sess := cfg.SessionConfig()
	assert.Equal(t, reference.BicepCurl, sess.Exercise)
	assert.Equal(t, 120.0, sess.Detector.ExcursionPx)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[server]
addr = ":7070"

[source]
kind = "file"
path = "/var/lib/formcoach/session.jsonl"
replay_interval_ms = 20

[pace]
warn_after = 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("FORMCOACH_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "file", cfg.Source.Kind)
	assert.Equal(t, 20*time.Millisecond, cfg.ReplayInterval())
	assert.Equal(t, 2, cfg.SessionConfig().Pace.WarnAfter)
}
