// Package scenario turns a JSON recipe into trajectories. Each recipe names a
// manoeuvre (an acceleration that rejoins a recorded path, a roundabout entry
// and exit, a route along OpenDRIVE roads, a timed collision) together with
// its geometry and kinematics. Build composes the primitives and returns
// sampled trajectories ready to be written out.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scenariolab/trajgen"
	"github.com/scenariolab/trajgen/internal/units"
)

// Speed is a speed with an explicit unit: one of mps, kmph, kph or mph.
type Speed struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// MPS returns the speed in metres per second.
func (s Speed) MPS() (float64, error) {
	return units.ToMPS(s.Value, s.Unit)
}

// KMPH returns a speed given in km/h.
func KMPH(v float64) *Speed { return &Speed{Value: v, Unit: units.KMPH} }

// Position is a point in the world frame.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Position) point() trajgen.Point { return trajgen.Pt(p.X, p.Y) }

// Placement is a position with a heading in radians.
type Placement struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	H float64 `json:"h"`
}

func (p Placement) pose() trajgen.Pose { return trajgen.NewPose(p.X, p.Y, p.H) }

// CircleSpec is a roundabout circle.
type CircleSpec struct {
	Center Position `json:"center"`
	Radius float64  `json:"radius"`
}

func (c CircleSpec) circle() trajgen.Circle {
	return trajgen.Circle{Center: c.Center.point(), Radius: c.Radius}
}

// Target is a stationary companion. It shares the timestamps of the first
// trajectory a recipe produces.
type Target struct {
	Name         string `json:"name"`
	CatalogEntry string `json:"catalog_entry,omitempty"`
	Placement
}

// XOSCOptions describe the scenario document written next to the vertex
// lists.
type XOSCOptions struct {
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	RoadNetwork string `json:"road_network,omitempty"`
	// CatalogEntries maps trajectory names to vehicle catalog entries.
	CatalogEntries map[string]string `json:"catalog_entries,omitempty"`
}

// Config is a generation job. Optional fields are pointers; the Get* methods
// supply defaults. The recipe-specific parameters live under "params" and are
// decoded according to the "recipe" discriminator.
type Config struct {
	Name   string          `json:"name,omitempty"`
	Recipe string          `json:"recipe"`
	Params json.RawMessage `json:"params,omitempty"`

	Step         *float64 `json:"step,omitempty"`
	StartTime    *float64 `json:"start_time,omitempty"`
	Speed        *Speed   `json:"speed,omitempty"`
	GapThreshold *float64 `json:"gap_threshold,omitempty"`
	BridgeHandle *float64 `json:"bridge_handle,omitempty"`
	IncludeEnd   *bool    `json:"include_end,omitempty"`

	Targets []Target     `json:"targets,omitempty"`
	XOSC    *XOSCOptions `json:"xosc,omitempty"`

	// dir resolves relative input paths. It is the directory of the config
	// file, or empty for configs parsed from memory.
	dir    string
	recipe Recipe
}

const maxConfigSize = 1 * 1024 * 1024

// LoadConfig loads a Config from a JSON file. The file must have a .json
// extension and be at most 1 MiB.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, &trajgen.IOError{Op: "stat", Path: cleanPath, Err: err}
	}
	if fileInfo.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxConfigSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, &trajgen.IOError{Op: "read", Path: cleanPath, Err: err}
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	cfg.dir = filepath.Dir(cleanPath)
	return cfg, nil
}

// ParseConfig parses and validates a JSON config.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the shared settings, decodes the recipe parameters and
// validates them.
func (c *Config) Validate() error {
	if c.Step != nil && !(*c.Step > 0) {
		return invalidf("step", "must be positive, got %g", *c.Step)
	}
	if c.StartTime != nil && !(*c.StartTime >= 0) {
		return invalidf("start_time", "must be non-negative, got %g", *c.StartTime)
	}
	if c.Speed != nil {
		v, err := c.Speed.MPS()
		if err != nil {
			return invalidf("speed", "%v", err)
		}
		if !(v > 0) {
			return invalidf("speed", "must be positive, got %g", v)
		}
	}
	if c.GapThreshold != nil && !(*c.GapThreshold > 0) {
		return invalidf("gap_threshold", "must be positive, got %g", *c.GapThreshold)
	}
	if c.BridgeHandle != nil && !(*c.BridgeHandle > 0) {
		return invalidf("bridge_handle", "must be positive, got %g", *c.BridgeHandle)
	}
	seen := map[string]bool{c.GetName(): true}
	for i, t := range c.Targets {
		if t.Name == "" {
			return invalidf("targets", "target %d has no name", i)
		}
		if seen[t.Name] {
			return invalidf("targets", "duplicate name %q", t.Name)
		}
		seen[t.Name] = true
		if !t.pose().IsFinite() {
			return invalidf("targets", "target %q has a non-finite pose", t.Name)
		}
	}

	r, err := decodeRecipe(c.Recipe, c.Params)
	if err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("%s: %w", c.Recipe, err)
	}
	c.recipe = r
	return nil
}

// GetName returns the name of the main trajectory, "VUT" by default.
func (c *Config) GetName() string {
	if c.Name == "" {
		return "VUT"
	}
	return c.Name
}

// GetStep returns the sampling interval in seconds.
func (c *Config) GetStep() float64 {
	if c.Step == nil {
		return 0.1 // default
	}
	return *c.Step
}

// GetStartTime returns the time of the first sample.
func (c *Config) GetStartTime() float64 {
	if c.StartTime == nil {
		return 0 // default
	}
	return *c.StartTime
}

// GetGapThreshold returns the largest gap left unbridged, in metres.
func (c *Config) GetGapThreshold() float64 {
	if c.GapThreshold == nil {
		return trajgen.DefaultGapThreshold
	}
	return *c.GapThreshold
}

// GetBridgeHandle returns the bridge handle factor.
func (c *Config) GetBridgeHandle() float64 {
	if c.BridgeHandle == nil {
		return trajgen.DefaultBridgeHandle
	}
	return *c.BridgeHandle
}

// GetIncludeEnd reports whether the terminal pose is appended.
func (c *Config) GetIncludeEnd() bool {
	if c.IncludeEnd == nil {
		return false // default
	}
	return *c.IncludeEnd
}

// GetSpeed returns the cruise speed in m/s, falling back to the recipe's own
// default.
func (c *Config) GetSpeed() float64 {
	if c.Speed == nil {
		if c.recipe != nil {
			return c.recipe.defaultSpeed()
		}
		return 30 / 3.6
	}
	v, err := c.Speed.MPS()
	if err != nil {
		return 30 / 3.6 // default on unit error; Validate rejects it first
	}
	return v
}

// SetDir sets the directory relative input paths are resolved against.
func (c *Config) SetDir(dir string) { c.dir = dir }

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}

func (c *Config) compositor(p trajgen.Profile) trajgen.Compositor {
	return trajgen.Compositor{
		Step:         c.GetStep(),
		StartTime:    c.GetStartTime(),
		Profile:      p,
		GapThreshold: c.GetGapThreshold(),
		BridgeHandle: c.GetBridgeHandle(),
		IncludeEnd:   c.GetIncludeEnd(),
	}
}

func invalidf(field, format string, args ...any) error {
	return &trajgen.ValidationError{Index: -1, Field: field, Reason: fmt.Sprintf(format, args...)}
}
