package xosc

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenariolab/trajgen"
	"github.com/scenariolab/trajgen/internal/monitoring"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

func roundabout(t *testing.T) trajgen.Trajectory {
	t.Helper()
	circle := trajgen.Circle{Center: trajgen.Pt(-345.18, 100.73), Radius: 13}
	c := trajgen.Compositor{Step: 0.1, Profile: trajgen.ConstantVelocity{Speed: 30 / 3.6}, IncludeEnd: true}
	tr, err := c.Compose([]trajgen.Primitive{circle.SweepBy(math.Pi, math.Pi)})
	require.NoError(t, err)
	tr.Name = "VUT"
	return tr
}

func TestWriteVerticesFormat(t *testing.T) {
	tr := trajgen.Trajectory{Samples: []trajgen.Sample{
		{Time: 0, Pose: trajgen.NewPose(-332, 118, trajgen.Rad(-135))},
		{Time: 0.1, Pose: trajgen.NewPose(-332.0123456, 117.98765, -2.35619)},
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteVertices(&buf, tr))

	want := `<Vertex time="0.0000">
    <Position><WorldPosition x="-332.0000" y="118.0000" z="0" h="-2.3562"/></Position>
</Vertex>
<Vertex time="0.1000">
    <Position><WorldPosition x="-332.0123" y="117.9877" z="0" h="-2.3562"/></Position>
</Vertex>
`
	assert.Equal(t, want, buf.String())
}

func TestVertexRoundTrip(t *testing.T) {
	tr := roundabout(t)
	var buf bytes.Buffer
	require.NoError(t, WriteVertices(&buf, tr))

	vs, err := ParseVertices(&buf)
	require.NoError(t, err)
	require.Len(t, vs, tr.Len())
	for i, v := range vs {
		s := tr.Samples[i]
		assert.InDelta(t, s.Time, v.Time, 5e-5)
		assert.InDelta(t, s.Pose.X, v.Pose.X, 5e-5)
		assert.InDelta(t, s.Pose.Y, v.Pose.Y, 5e-5)
		assert.InDelta(t, 0, trajgen.AngleDiff(s.Pose.H, v.Pose.H), 5e-5)
	}
}

func TestVertexHeadingAtPi(t *testing.T) {
	// West-facing samples sit on the edge of the heading range. Four-decimal
	// output rounds them just past ±π, which must not flip them to −π.
	tr := trajgen.Trajectory{Samples: []trajgen.Sample{
		{Time: 0, Pose: trajgen.NewPose(0, 0, math.Pi)},
		{Time: 0.1, Pose: trajgen.NewPose(-1, 0, -math.Pi+1e-7)},
		{Time: 0.2, Pose: trajgen.NewPose(-2, 0, math.Pi-0.2)},
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteVertices(&buf, tr))
	assert.Equal(t, 2, strings.Count(buf.String(), `h="3.1416"`)+strings.Count(buf.String(), `h="-3.1416"`))

	vs, err := ParseVertices(&buf)
	require.NoError(t, err)
	require.Len(t, vs, 3)
	assert.Equal(t, math.Pi, vs[0].Pose.H)
	assert.InDelta(t, math.Pi, vs[1].Pose.H, 5e-5)
	assert.InDelta(t, math.Pi-0.2, vs[2].Pose.H, 5e-5)

	recs := RecordsFromVertices(vs, false)
	assert.Equal(t, 180.0, recs[0].Heading)
	assert.Equal(t, 180.0, recs[1].Heading)

	vs, err = ParseVertices(strings.NewReader(`<Vertex time="0"><Position><WorldPosition x="0" y="0" h="3.1416"/></Position></Vertex>`))
	require.NoError(t, err)
	assert.Equal(t, math.Pi, vs[0].Pose.H)
	assert.Equal(t, 180.0, RecordsFromVertices(vs, true)[0].Heading)
}

func TestParseVerticesForeignLayout(t *testing.T) {
	// Six decimals, multi-line position and extra attributes.
	in := `<Vertex time="0.500000">
    <Position>
        <WorldPosition x="-1.250000" y="3.000000" z="0" h="3.141593" p="0" r="0"/>
    </Position>
</Vertex>
<Vertex time="1.0"><Position><WorldPosition x="2" y="4"/></Position></Vertex>
`
	vs, err := ParseVertices(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, 0.5, vs[0].Time)
	assert.Equal(t, -1.25, vs[0].Pose.X)
	assert.InDelta(t, math.Pi, math.Abs(vs[0].Pose.H), 1e-6)
	assert.Equal(t, 0.0, vs[1].Pose.H)
}

func TestParseVerticesErrors(t *testing.T) {
	_, err := ParseVertices(strings.NewReader(`<Vertex time="abc"><Position><WorldPosition x="1" y="2"/></Position></Vertex>`))
	assert.ErrorContains(t, err, "time")

	_, err = ParseVertices(strings.NewReader(`<Vertex><Position><WorldPosition x="1" y="2"/></Position></Vertex>`))
	assert.ErrorContains(t, err, "missing time")

	_, err = ParseVertices(strings.NewReader(`<Vertex time="1">`))
	assert.Error(t, err)
}

func TestWriteVerticesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "VUT.txt")
	tr := roundabout(t)
	require.NoError(t, WriteVerticesFile(path, tr))

	vs, err := ReadVerticesFile(path)
	require.NoError(t, err)
	assert.Len(t, vs, tr.Len())

	err = WriteVerticesFile(filepath.Join(dir, "missing", "VUT.txt"), tr)
	assert.ErrorIs(t, err, trajgen.ErrIO)

	_, err = ReadVerticesFile(filepath.Join(dir, "nope.txt"))
	assert.ErrorIs(t, err, trajgen.ErrIO)
}
