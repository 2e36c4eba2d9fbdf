package scenario

import (
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

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"recipe": "circle_ttc"}`))
	require.NoError(t, err)

	assert.Equal(t, "VUT", cfg.GetName())
	assert.Equal(t, 0.1, cfg.GetStep())
	assert.Equal(t, 0.0, cfg.GetStartTime())
	assert.Equal(t, trajgen.DefaultGapThreshold, cfg.GetGapThreshold())
	assert.Equal(t, trajgen.DefaultBridgeHandle, cfg.GetBridgeHandle())
	assert.False(t, cfg.GetIncludeEnd())
	assert.InDelta(t, 30/3.6, cfg.GetSpeed(), 1e-12)
	assert.IsType(t, &CircleTTC{}, cfg.recipe)
}

func TestParseConfigRecipeDefaultSpeed(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"recipe": "roundabout_exit"}`))
	require.NoError(t, err)
	assert.InDelta(t, 15/3.6, cfg.GetSpeed(), 1e-12)

	cfg, err = ParseConfig([]byte(`{"recipe": "roundabout_exit", "speed": {"value": 20, "unit": "mph"}}`))
	require.NoError(t, err)
	assert.InDelta(t, 8.9408, cfg.GetSpeed(), 1e-4)
}

func TestParseConfigParams(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"name": "VT1",
		"recipe": "straight_roundabout",
		"step": 0.05,
		"include_end": true,
		"params": {"straight_length": 8, "circle": {"center": {"x": 1, "y": 2}, "radius": 9}}
	}`))
	require.NoError(t, err)
	r := cfg.recipe.(*StraightRoundabout)
	assert.Equal(t, 8.0, r.GetStraightLength())
	assert.Equal(t, 9.0, circleOrDefault(r.Circle).Radius)
	assert.Equal(t, 3.42, r.GetEntryAngle())
	assert.Equal(t, 0.05, cfg.GetStep())
	assert.True(t, cfg.GetIncludeEnd())
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		is   error
		msg  string
	}{
		{"syntax", `{`, nil, "parse config"},
		{"missing recipe", `{}`, trajgen.ErrValidation, "recipe"},
		{"unknown recipe", `{"recipe": "drift"}`, trajgen.ErrNotFound, "circle_ttc"},
		{"unknown param", `{"recipe": "circle_ttc", "params": {"radius": 3}}`, nil, "unknown field"},
		{"bad unit", `{"recipe": "circle_ttc", "speed": {"value": 3, "unit": "knots"}}`, trajgen.ErrValidation, "knots"},
		{"zero speed", `{"recipe": "circle_ttc", "speed": {"value": 0, "unit": "mps"}}`, trajgen.ErrValidation, "speed"},
		{"negative step", `{"recipe": "circle_ttc", "step": -0.1}`, trajgen.ErrValidation, "step"},
		{"negative start", `{"recipe": "circle_ttc", "start_time": -1}`, trajgen.ErrValidation, "start_time"},
		{"zero handle", `{"recipe": "circle_ttc", "bridge_handle": 0}`, trajgen.ErrValidation, "bridge_handle"},
		{"unnamed target", `{"recipe": "circle_ttc", "targets": [{"x": 1}]}`, trajgen.ErrValidation, "target 0"},
		{"target clash", `{"recipe": "circle_ttc", "targets": [{"name": "VUT"}]}`, trajgen.ErrValidation, "duplicate"},
		{"recipe params", `{"recipe": "circle_ttc", "params": {"ttc": 0}}`, trajgen.ErrValidation, "ttc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.json))
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"recipe": "road_route", "params": {"xodr": "map.xodr", "route": [{"road": "1"}]}}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "map.xodr"), cfg.resolve("map.xodr"))
	assert.Equal(t, "/abs/map.xodr", cfg.resolve("/abs/map.xodr"))

	_, err = LoadConfig(filepath.Join(dir, "job.yaml"))
	assert.ErrorContains(t, err, ".json extension")

	_, err = LoadConfig(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, trajgen.ErrIO)

	big := filepath.Join(dir, "big.json")
	require.NoError(t, os.WriteFile(big, []byte(strings.Repeat(" ", maxConfigSize+1)), 0o644))
	_, err = LoadConfig(big)
	assert.ErrorContains(t, err, "too large")
}

func TestRecipes(t *testing.T) {
	assert.Equal(t, []string{"accel_rejoin", "circle_ttc", "crossing", "road_route", "roundabout_exit", "straight_roundabout"}, Recipes())
}
