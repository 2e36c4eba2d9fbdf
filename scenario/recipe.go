package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/scenariolab/trajgen"
)

// Recipe builds the trajectories of one manoeuvre. The first trajectory
// returned is the main one and is named after Config.Name; recipes with more
// than one moving participant name the others themselves.
type Recipe interface {
	Validate() error
	Build(cfg *Config) ([]trajgen.Trajectory, error)
	defaultSpeed() float64
}

var recipes = map[string]func() Recipe{
	"accel_rejoin":        func() Recipe { return &AccelRejoin{} },
	"straight_roundabout": func() Recipe { return &StraightRoundabout{} },
	"roundabout_exit":     func() Recipe { return &RoundaboutExit{} },
	"road_route":          func() Recipe { return &RoadRoute{} },
	"circle_ttc":          func() Recipe { return &CircleTTC{} },
	"crossing":            func() Recipe { return &Crossing{} },
}

// Recipes returns the known recipe names, sorted.
func Recipes() []string {
	return slices.Sorted(maps.Keys(recipes))
}

func decodeRecipe(name string, params json.RawMessage) (Recipe, error) {
	newRecipe, ok := recipes[name]
	if !ok {
		if name == "" {
			return nil, invalidf("recipe", "missing (one of %s)", strings.Join(Recipes(), ", "))
		}
		return nil, &trajgen.InputNotFoundError{What: "recipe", ID: name, Available: Recipes()}
	}
	r := newRecipe()
	if len(params) > 0 && !bytes.Equal(bytes.TrimSpace(params), []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(params))
		dec.DisallowUnknownFields()
		if err := dec.Decode(r); err != nil {
			return nil, fmt.Errorf("%s params: %w", name, err)
		}
	}
	return r, nil
}

// Build runs the configured recipe and appends the stationary targets.
func Build(cfg *Config) ([]trajgen.Trajectory, error) {
	if cfg.recipe == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	trs, err := cfg.recipe.Build(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Recipe, err)
	}
	if len(trs) == 0 || trs[0].Len() == 0 {
		return nil, fmt.Errorf("%s: produced no samples", cfg.Recipe)
	}
	trs[0].Name = cfg.GetName()
	for _, t := range cfg.Targets {
		trs = append(trs, trs[0].Stationary(t.pose(), t.Name))
	}
	return trs, nil
}

// CatalogEntry returns the vehicle catalog entry used for the named
// trajectory in scenario documents.
func (c *Config) CatalogEntry(name string) string {
	for _, t := range c.Targets {
		if t.Name == name && t.CatalogEntry != "" {
			return t.CatalogEntry
		}
	}
	if c.XOSC != nil {
		if e, ok := c.XOSC.CatalogEntries[name]; ok {
			return e
		}
	}
	return "car_white"
}

func orDefault(p *float64, dflt float64) float64 {
	if p == nil {
		return dflt
	}
	return *p
}

func positive(field string, p *float64) error {
	if p != nil && !(*p > 0) {
		return invalidf(field, "must be positive, got %g", *p)
	}
	return nil
}
