package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenariolab/trajgen"
	"github.com/scenariolab/trajgen/internal/monitoring"
	"github.com/scenariolab/trajgen/xosc"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

func TestPairs(t *testing.T) {
	var p pairs
	require.NoError(t, p.Set("VT1_Trajectory=obu-0005"))
	require.NoError(t, p.Set(" Target = obu-0006 "))
	assert.Equal(t, pairs{{"VT1_Trajectory", "obu-0005"}, {"Target", "obu-0006"}}, p)
	assert.Equal(t, "VT1_Trajectory=obu-0005,Target=obu-0006", p.String())

	for _, bad := range []string{"VT1", "=obu", "VT1="} {
		assert.Error(t, p.Set(bad), bad)
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"161", "162", "163"}, splitList("161, 162,,163 "))
	assert.Nil(t, splitList(" , "))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("TRAJGEN_STEP", "0.05")
	t.Setenv("TRAJGEN_OUT_DIR", "  ")
	assert.Equal(t, 0.05, envFloat("TRAJGEN_STEP"))
	assert.Equal(t, "out", envOr("TRAJGEN_OUT_DIR", "out"))

	t.Setenv("TRAJGEN_STEP", "fast")
	assert.Zero(t, envFloat("TRAJGEN_STEP"))
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "ttc.json")
	cfg := `{
		"name": "VUT",
		"recipe": "circle_ttc",
		"params": {"ttc": 2, "extra_duration": 1},
		"targets": [{"name": "Target", "x": 5, "y": -20, "h": 0}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func TestGenerateAndConvert(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	require.NoError(t, runGenerate([]string{"-config", writeConfig(t, dir), "-out", out, "-json", "-html", "-xosc"}))

	for _, name := range []string{"VUT.txt", "Target.txt", "VUT.json", "Target.json", "VUT.html", "VUT.xosc"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	vs, err := xosc.ReadVerticesFile(filepath.Join(out, "VUT.txt"))
	require.NoError(t, err)
	assert.Len(t, vs, 30)

	casePath := filepath.Join(dir, "case.json")
	require.NoError(t, runConvert([]string{
		"-in", filepath.Join(out, "VUT.xosc"),
		"-out", casePath,
		"-vehicle", "VUT=obu-0005",
		"-scenario-name", "circle",
	}))
	data, err := os.ReadFile(casePath)
	require.NoError(t, err)
	var c xosc.Case
	require.NoError(t, json.Unmarshal(data, &c))
	assert.Equal(t, "circle", c.ScenarioName)
	require.Equal(t, 1, c.VehNum)
	assert.Equal(t, "obu-0005", c.VehContent[0].ID)
	assert.Equal(t, c.VehContent[0].Vel, c.VUTVel)
	assert.NotEmpty(t, c.ID)
}

func TestGenerateStepOverride(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	t.Setenv("TRAJGEN_STEP", "0.2")
	require.NoError(t, runGenerate([]string{"-config", writeConfig(t, dir), "-out", out}))
	vs, err := xosc.ReadVerticesFile(filepath.Join(out, "VUT.txt"))
	require.NoError(t, err)
	assert.Len(t, vs, 15)
}

func TestGenerateLimit(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	require.NoError(t, runGenerate([]string{"-config", writeConfig(t, dir), "-out", out, "-limit", "5"}))
	for _, name := range []string{"VUT.txt", "Target.txt"} {
		vs, err := xosc.ReadVerticesFile(filepath.Join(out, name))
		require.NoError(t, err)
		assert.Len(t, vs, 5, name)
	}

	assert.ErrorContains(t, runGenerate([]string{"-config", writeConfig(t, dir), "-out", out, "-limit", "-1"}), "-limit")
}

func TestGenerateWritesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	// A directory in the way of the last artifact makes its write fail.
	require.NoError(t, os.MkdirAll(filepath.Join(out, "VUT.xosc"), 0o755))

	err := runGenerate([]string{"-config", writeConfig(t, dir), "-out", out, "-json", "-xosc"})
	assert.ErrorIs(t, err, trajgen.ErrIO)
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "VUT.xosc", entries[0].Name())
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeAll(dir, []artifact{{"a.txt", []byte("a")}, {"b.txt", []byte("b")}}))
	data, err := os.ReadFile(filepath.Join(dir, "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))

	err = writeAll(dir, []artifact{{"c.txt", []byte("c")}, {filepath.Join("missing", "d.txt"), nil}})
	assert.ErrorIs(t, err, trajgen.ErrIO)
	assert.NoFileExists(t, filepath.Join(dir, "c.txt"))
}

func TestGenerateErrors(t *testing.T) {
	assert.ErrorContains(t, runGenerate([]string{"-out", t.TempDir()}), "-config")
	err := runGenerate([]string{"-config", filepath.Join(t.TempDir(), "missing.json")})
	assert.ErrorIs(t, err, trajgen.ErrIO)
}

func TestBuildCase(t *testing.T) {
	doc, err := xosc.ParseDocument(strings.NewReader(`<OpenSCENARIO><Storyboard>
		<Trajectory name="VT1">
			<Shape><Polyline>
				<Vertex time="0"><Position><WorldPosition x="0" y="0" h="0"/></Position></Vertex>
				<Vertex time="1"><Position><WorldPosition x="10" y="0" h="0"/></Position></Vertex>
				<Vertex time="2"><Position><WorldPosition x="20" y="0" h="0"/></Position></Vertex>
			</Polyline></Shape>
		</Trajectory>
		<Trajectory name="Target">
			<Shape><Polyline>
				<Vertex time="0"><Position><WorldPosition x="30" y="2" h="0"/></Position></Vertex>
				<Vertex time="2"><Position><WorldPosition x="30" y="2" h="0"/></Position></Vertex>
			</Polyline></Shape>
		</Trajectory>
	</Storyboard></OpenSCENARIO>`))
	require.NoError(t, err)

	now := time.UnixMilli(1700000000000)
	c, err := buildCase(doc, xosc.Meta{ID: "case-1"},
		pairs{{"VT1", "obu-0005"}}, pairs{{"Target", "obu-0006"}}, nil, now)
	require.NoError(t, err)
	assert.Equal(t, "case-1", c.ID)
	assert.Equal(t, int64(1700000000000), c.CreateTime)
	require.Len(t, c.VehContent, 2)
	assert.Equal(t, "36", c.VUTVel)
	assert.Equal(t, "obu-0006", c.ParticipantID)
	assert.Equal(t, "0", c.ParticipantVel)

	_, err = buildCase(doc, xosc.Meta{}, pairs{{"VT9", "obu-0001"}}, nil, nil, now)
	assert.ErrorIs(t, err, trajgen.ErrNotFound)
}

func TestExtract(t *testing.T) {
	out := filepath.Join(t.TempDir(), "subset.xodr")
	require.NoError(t, runExtract([]string{"-in", "../../opendrive/testdata/roundabout.xodr", "-out", out, "-roads", "96"}))
	assert.FileExists(t, out)

	assert.ErrorContains(t, runExtract([]string{"-in", "x.xodr"}), "-roads")
}

func TestSummarize(t *testing.T) {
	vs := []xosc.Vertex{
		{Time: 1, Pose: trajgen.NewPose(0, 0, 0)},
		{Time: 2, Pose: trajgen.NewPose(3, 4, 0)},
		{Time: 3, Pose: trajgen.NewPose(3, 5, 0)},
	}
	s := summarize(vs)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 1.0, s.Start)
	assert.Equal(t, 2.0, s.Duration)
	assert.InDelta(t, 6.0, s.Length, 1e-9)
	assert.InDelta(t, 1.0, s.MinSpeed, 1e-9)
	assert.InDelta(t, 5.0, s.MaxSpeed, 1e-9)

	assert.Equal(t, summary{}, summarize(nil))
}

func TestInspect(t *testing.T) {
	assert.ErrorContains(t, runInspect([]string{"-in", "x.txt", "-units", "knots"}), "knots")
	assert.ErrorIs(t, runInspect([]string{"-in", filepath.Join(t.TempDir(), "none.txt")}), trajgen.ErrIO)
}
