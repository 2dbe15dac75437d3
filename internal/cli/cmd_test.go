package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/roadmap/internal/catalog"
	"github.com/alexanderramin/roadmap/internal/config"
	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/repository"
	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/alexanderramin/roadmap/internal/testutil"
)

// testApp builds an App with config isolated from the user's environment and
// a snapshot store backed by an in-memory DB.
func testApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	database := testutil.NewTestDB(t)
	return &App{
		IsInteractive: func() bool { return false },
		Now:           func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) },
		OpenSnapshots: func(cfg *config.Config, obs service.UseCaseObserver) (service.SnapshotService, func() error, error) {
			svc := service.NewSnapshotService(
				repository.NewSQLiteSnapshotRepo(database),
				testutil.NewTestUoW(database),
				nil,
				obs,
			)
			return svc, func() error { return nil }, nil
		},
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func seedVendor(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "acme")
	testutil.WriteFile(t, dir, "alpha.yaml", "name: Alpha\ndeadline: 2018 Q1\ninputs:\n  beta: storage api\n")
	testutil.WriteFile(t, dir, "beta.yaml", "name: Beta\ndeadline: 2018 Q3\n")
	return dir
}

// --- render ---

func TestRenderCmd_WritesSVG(t *testing.T) {
	app := testApp(t)
	dir := seedVendor(t)
	prefix := filepath.Join(t.TempDir(), "chart")

	out, err := executeCmd(t, app, "render", dir, "--prefix", prefix, "--axis", "calendar")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+prefix+".svg")
	assert.Contains(t, out, "2 milestones")

	data, err := os.ReadFile(prefix + ".svg")
	require.NoError(t, err)
	assert.Contains(t, string(data), "2018 Q1")
	assert.Contains(t, string(data), `onmouseover="ShowTooltip(this)"`)
}

func TestRenderCmd_BackwardDependency(t *testing.T) {
	app := testApp(t)
	dir := filepath.Join(t.TempDir(), "acme")
	testutil.WriteFile(t, dir, "alpha.yaml", "deadline: 2019 Q1\ninputs:\n  beta: data\n")
	testutil.WriteFile(t, dir, "beta.yaml", "deadline: 2018 Q1\n")

	_, err := executeCmd(t, app, "render", dir, "--prefix", filepath.Join(t.TempDir(), "chart"))
	require.ErrorIs(t, err, domain.ErrBackwardDependency)
}

func TestRenderCmd_RequiresDirectory(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "render")
	assert.Error(t, err)
}

func TestRenderCmd_InvalidAxisRejectedByConfig(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "render", seedVendor(t), "--axis", "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chart.axis")
}

func TestRenderCmd_ConfigFile(t *testing.T) {
	app := testApp(t)
	prefix := filepath.Join(t.TempDir(), "from-config")
	cfgPath := testutil.WriteFile(t, t.TempDir(), "roadmap.yaml", "output:\n  prefix: "+prefix+"\n")

	_, err := executeCmd(t, app, "--config", cfgPath, "render", seedVendor(t))
	require.NoError(t, err)
	assert.FileExists(t, prefix+".svg")
}

// --- table ---

func TestTableCmd_PrintsInputs(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "table", seedVendor(t))
	require.NoError(t, err)
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "beta (storage api)")
}

func TestTableCmd_Matrix(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "table", "--matrix", seedVendor(t))
	require.NoError(t, err)
	assert.Contains(t, out, "components")
	assert.Contains(t, out, "storage api")
}

func TestTableCmd_ReportsSkippedFiles(t *testing.T) {
	dir := seedVendor(t)
	broken := testutil.WriteFile(t, dir, "gamma.yaml", "deadline: someday\n")

	out, err := executeCmd(t, testApp(t), "table", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "failed loading "+broken+": ")
}

// --- new ---

func TestNewCmd_WritesDefinition(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "acme")

	out, err := executeCmd(t, testApp(t), "new", dir,
		"--id", "gamma",
		"--name", "Gamma",
		"--deadline", "2019 q2",
		"--component", "core",
		"--component", "cli",
		"--input", "delta=metrics feed",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	def, err := catalog.LoadFile(filepath.Join(dir, "gamma.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Gamma", def.Name)
	assert.Equal(t, "2019 Q2", def.Deadline)
	assert.Equal(t, []string{"core", "cli"}, def.Components)
	assert.Equal(t, map[string]string{"delta": "metrics feed"}, def.Inputs)
}

func TestNewCmd_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing id", []string{}, "--id is required"},
		{"bad id", []string{"--id", "has space"}, "invalid id"},
		{"bad deadline", []string{"--id", "x", "--deadline", "2018 Q5"}, "deadline"},
		{"self input", []string{"--id", "x", "--input", "x=loop"}, "cannot input to itself"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"new", t.TempDir()}, tt.args...)
			_, err := executeCmd(t, testApp(t), args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewCmd_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "gamma.yaml", "name: Old\n")

	_, err := executeCmd(t, testApp(t), "new", dir, "--id", "gamma")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = executeCmd(t, testApp(t), "new", dir, "--id", "gamma", "--name", "New", "--force")
	require.NoError(t, err)
	def, err := catalog.LoadFile(filepath.Join(dir, "gamma.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "New", def.Name)
}

func TestParseInputs(t *testing.T) {
	got, err := parseInputs("beta=api, gamma = metrics ")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"beta": "api", "gamma": "metrics"}, got)
	assert.Equal(t, "beta=api, gamma=metrics", formatInputs(got))

	_, err = parseInputs("beta")
	assert.Error(t, err)
}

// --- snapshot ---

func TestSnapshotCmd_SaveListDiffRemove(t *testing.T) {
	app := testApp(t)
	dir := seedVendor(t)

	out, err := executeCmd(t, app, "snapshot", "save", dir, "--label", "baseline")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved snapshot")
	assert.Contains(t, out, "2 milestones")

	out, err = executeCmd(t, app, "snapshot", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "baseline")

	testutil.WriteFile(t, dir, "beta.yaml", "name: Beta\ndeadline: 2019 Q1\n")
	out, err = executeCmd(t, app, "snapshot", "diff")
	require.NoError(t, err)
	assert.Contains(t, out, "beta  2018 Q3 -> 2019 Q1")
	assert.Contains(t, out, "+2q")

	snapshots, err := app.Snapshots.List(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshots, 1)

	out, err = executeCmd(t, app, "snapshot", "rm", snapshots[0].ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted snapshot")

	out, err = executeCmd(t, app, "snapshot", "list")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "No snapshots saved."))
}

func TestSnapshotCmd_StartYearFlag(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "snapshot", "save", seedVendor(t), "--start-year", "2018")
	require.NoError(t, err)

	snapshots, err := app.Snapshots.List(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, 2018, snapshots[0].StartYear)
}

func TestSnapshotCmd_DiffWithoutSnapshot(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "snapshot", "diff", seedVendor(t))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSnapshotCmd_UnknownID(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "snapshot", "rm", "deadbeef")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot not found")
}
