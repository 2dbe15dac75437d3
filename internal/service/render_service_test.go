package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/schedule"
)

func TestRenderService_WritesDecoratedSVG(t *testing.T) {
	root := t.TempDir()
	dir := writeVendor(t, root, "acme", map[string]string{
		"alpha.yaml":  alphaYAML,
		"beta.yaml":   betaYAML,
		"_init.yaml":  "name: ignored\n",
		"broken.yaml": "name: [unclosed\n",
	})

	var errOut bytes.Buffer
	obs := &recordingObserver{}
	svc := NewRenderService(&errOut, obs)

	prefix := filepath.Join(root, "out", "milestones")
	result, err := svc.Render(context.Background(), RenderRequest{
		Dirs:   []string{dir},
		Prefix: prefix,
		Layout: schedule.DefaultLayout(),
	})
	require.NoError(t, err)

	assert.Equal(t, prefix+".svg", result.SVGPath)
	assert.Empty(t, result.PNGPath)
	assert.Equal(t, 2, result.Milestones)
	assert.Equal(t, 1, result.Dependencies)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, filepath.Join(dir, "broken.yaml"), result.Issues[0].Path)
	assert.Contains(t, errOut.String(), "failed loading "+filepath.Join(dir, "broken.yaml")+": ")

	data, err := os.ReadFile(result.SVGPath)
	require.NoError(t, err)
	svg := string(data)
	assert.Contains(t, svg, `onload="init(evt)"`)
	for _, id := range []string{"patch_000", "patch_001", "patch_002", "tooltip_002"} {
		assert.Contains(t, svg, `id="`+id+`"`)
	}
	assert.NotContains(t, svg, "patch_003")
	assert.Contains(t, svg, "First public release")

	ev := obs.last(t)
	assert.Equal(t, "render", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, 2, ev.Fields["milestones"])
}

func TestRenderService_WritesPNGPreview(t *testing.T) {
	root := t.TempDir()
	dir := writeVendor(t, root, "acme", map[string]string{"alpha.yaml": alphaYAML, "beta.yaml": betaYAML})

	result, err := NewRenderService(nil).Render(context.Background(), RenderRequest{
		Dirs:   []string{dir},
		Prefix: filepath.Join(root, "chart"),
		PNG:    true,
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "chart.png"), result.PNGPath)

	data, err := os.ReadFile(result.PNGPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestRenderService_BackwardDependencyFails(t *testing.T) {
	root := t.TempDir()
	dir := writeVendor(t, root, "acme", map[string]string{
		"alpha.yaml": "name: Alpha\ndeadline: 2019 Q1\ninputs:\n  beta: late data\n",
		"beta.yaml":  betaYAML,
	})

	obs := &recordingObserver{}
	prefix := filepath.Join(root, "milestones")
	_, err := NewRenderService(nil, obs).Render(context.Background(), RenderRequest{
		Dirs:   []string{dir},
		Prefix: prefix,
	})
	require.ErrorIs(t, err, domain.ErrBackwardDependency)
	assert.Contains(t, err.Error(), "milestone 0 (alpha) inputs to milestone 1 (beta), but comes after")

	_, statErr := os.Stat(prefix + ".svg")
	assert.True(t, os.IsNotExist(statErr))
	assert.False(t, obs.last(t).Success)
}

func TestRenderService_CycleIsFatal(t *testing.T) {
	root := t.TempDir()
	dir := writeVendor(t, root, "acme", map[string]string{
		"alpha.yaml": "deadline: 2018 Q1\ninputs:\n  beta: x\n",
		"beta.yaml":  "deadline: 2018 Q1\ninputs:\n  alpha: y\n",
	})

	_, err := NewRenderService(nil).Render(context.Background(), RenderRequest{
		Dirs:   []string{dir},
		Prefix: filepath.Join(root, "milestones"),
	})
	assert.ErrorIs(t, err, domain.ErrCircularDependency)
}

func TestRenderService_MissingDirectory(t *testing.T) {
	_, err := NewRenderService(nil).Render(context.Background(), RenderRequest{
		Dirs:   []string{filepath.Join(t.TempDir(), "nope")},
		Prefix: "milestones",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading definitions")
}

func TestRenderService_RequiresPrefix(t *testing.T) {
	_, err := NewRenderService(nil).Render(context.Background(), RenderRequest{Dirs: []string{t.TempDir()}})
	assert.Error(t, err)
}

func TestTableService_ReportsWarnings(t *testing.T) {
	root := t.TempDir()
	dir := writeVendor(t, root, "acme", map[string]string{
		"alpha.yaml": "name: Alpha\ndeadline: 2018 Q1\ninputs:\n  ghost: nothing\n  beta: api\n",
		"beta.yaml":  betaYAML,
	})

	var errOut bytes.Buffer
	result, err := NewTableService(&errOut).Table(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "beta"}, result.Table.RowIDs())
	assert.Equal(t, "api", result.Table.Support("alpha", "beta"))
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, errOut.String(), `warning: alpha: input to unknown milestone "ghost" ignored`)
}
