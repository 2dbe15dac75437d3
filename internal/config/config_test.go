package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	v := New()
	require.NoError(t, ReadFile(v, ""))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 2017, cfg.StartYear)
	assert.Equal(t, 12, cfg.UnscheduledOffset)
	assert.Equal(t, []string{"blue", "green", "red", "black", "orange"}, cfg.Chart.Palette)
	assert.Equal(t, "milestones", cfg.Output.Prefix)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce())
}

func TestLoad_FileAndEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
start_year: 2020
chart:
  axis: calendar
  palette: ["#ff0000", "#00ff00"]
output:
  prefix: plan
`), 0o644))
	t.Setenv("ROADMAP_OUTPUT_PREFIX", "from-env")

	v := New()
	require.NoError(t, ReadFile(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 2020, cfg.StartYear)
	assert.Equal(t, "calendar", cfg.Chart.Axis)
	assert.Equal(t, []string{"#ff0000", "#00ff00"}, cfg.Chart.Palette)
	assert.Equal(t, "from-env", cfg.Output.Prefix)
	// Untouched keys keep their defaults.
	assert.Equal(t, 40, cfg.Chart.Scale)
}

func TestReadFile_ExplicitMissing(t *testing.T) {
	isolate(t)
	err := ReadFile(New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestBindFlags_OverridesConfig(t *testing.T) {
	isolate(t)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("start-year", 0, "")
	fs.String("prefix", "", "")
	require.NoError(t, fs.Parse([]string{"--start-year", "2021"}))

	v := New()
	require.NoError(t, BindFlags(v, fs, map[string]string{
		"start-year": "start_year",
		"prefix":     "output.prefix",
		"absent":     "chart.scale",
	}))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 2021, cfg.StartYear)
	// Unchanged flags do not mask the default.
	assert.Equal(t, "milestones", cfg.Output.Prefix)
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.StartYear = 17
	cfg.Chart.Axis = "sideways"
	cfg.Chart.Palette = nil
	cfg.Log.Level = "loud"

	errs := cfg.Validate()
	require.Len(t, errs, 4)
	assert.Contains(t, errs.Error(), "4 config errors")
	assert.Contains(t, errs.Error(), "chart.axis")
}

func TestValidate_DefaultIsValid(t *testing.T) {
	assert.Empty(t, Default().Validate())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggingConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}
