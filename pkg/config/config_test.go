package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default().Listen, cfg.Listen)
	require.Equal(t, "휴가", cfg.Calendar.VacationLabel)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
listen: ":9000"
upstream:
  url: "http://hr.internal"
calendar:
  vacation_color: "#ff0000"
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	t.Setenv("UPSTREAM_TOKEN", "secret")
	t.Setenv("LISTEN", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Listen)
	require.Equal(t, "http://hr.internal", cfg.Upstream.URL)
	require.Equal(t, "secret", cfg.Upstream.Token)
	require.Equal(t, "#ff0000", cfg.Calendar.VacationColor)
	require.Equal(t, "휴가", cfg.Calendar.VacationLabel)
	require.Equal(t, "0 9 * * *", cfg.ReminderCron)
}

func TestLoadBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [1, 2"), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}
