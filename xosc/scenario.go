package xosc

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/scenariolab/trajgen"
)

// DefaultCatalogDirectory is where scenario players look up vehicle models.
const DefaultCatalogDirectory = "Catalogs/Vehicles"

// Entity is one scenario object. Entities with a trajectory follow it; the
// others are teleported to Pose and stay there.
type Entity struct {
	Name         string
	CatalogEntry string
	Trajectory   trajgen.Trajectory
	Pose         trajgen.Pose
	// InitialSpeed in m/s is applied at initialisation so that players do
	// not treat a trajectory-following vehicle as parked.
	InitialSpeed float64
}

func (e Entity) moving() bool { return e.Trajectory.Len() > 0 }

func (e Entity) initialPose() trajgen.Pose {
	if e.moving() {
		return e.Trajectory.Samples[0].Pose
	}
	return e.Pose
}

// Scenario describes a minimal OpenSCENARIO 1.1 document: entities placed at
// initialisation, and one trajectory-following maneuver per moving entity,
// timed absolutely from simulation start.
type Scenario struct {
	Description string
	Author      string
	Date        time.Time
	// RoadNetwork is the OpenDRIVE file referenced by the scenario.
	RoadNetwork string
	// CatalogDirectory defaults to DefaultCatalogDirectory.
	CatalogDirectory string
	Entities         []Entity
}

func fmt4(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

func worldPosition(parent *etree.Element, p trajgen.Pose) {
	wp := parent.CreateElement("WorldPosition")
	wp.CreateAttr("x", fmt4(p.X))
	wp.CreateAttr("y", fmt4(p.Y))
	wp.CreateAttr("h", fmt4(p.H))
}

func simulationStart(parent *etree.Element, name string) {
	cond := parent.CreateElement("StartTrigger").
		CreateElement("ConditionGroup").
		CreateElement("Condition")
	cond.CreateAttr("name", name)
	cond.CreateAttr("delay", "0")
	cond.CreateAttr("conditionEdge", "rising")
	st := cond.CreateElement("ByValueCondition").CreateElement("SimulationTimeCondition")
	st.CreateAttr("value", "0")
	st.CreateAttr("rule", "greaterThan")
}

func (sc Scenario) validate() error {
	seen := make(map[string]bool, len(sc.Entities))
	for i, e := range sc.Entities {
		if e.Name == "" {
			return fmt.Errorf("xosc: entity %d has no name", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("xosc: duplicate entity %q", e.Name)
		}
		seen[e.Name] = true
		if !e.initialPose().IsFinite() {
			return fmt.Errorf("xosc: entity %q has a non-finite initial pose", e.Name)
		}
	}
	return nil
}

// Document builds the scenario as an XML document.
func (sc Scenario) Document() (*etree.Document, error) {
	if err := sc.validate(); err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("OpenSCENARIO")

	hdr := root.CreateElement("FileHeader")
	hdr.CreateAttr("revMajor", "1")
	hdr.CreateAttr("revMinor", "1")
	hdr.CreateAttr("date", sc.Date.UTC().Format("2006-01-02T15:04:05"))
	hdr.CreateAttr("description", sc.Description)
	hdr.CreateAttr("author", sc.Author)
	root.CreateElement("ParameterDeclarations")

	catalog := sc.CatalogDirectory
	if catalog == "" {
		catalog = DefaultCatalogDirectory
	}
	root.CreateElement("CatalogLocations").
		CreateElement("VehicleCatalog").
		CreateElement("Directory").
		CreateAttr("path", catalog)
	root.CreateElement("RoadNetwork").
		CreateElement("LogicFile").
		CreateAttr("filepath", sc.RoadNetwork)

	entities := root.CreateElement("Entities")
	for _, e := range sc.Entities {
		obj := entities.CreateElement("ScenarioObject")
		obj.CreateAttr("name", e.Name)
		ref := obj.CreateElement("CatalogReference")
		ref.CreateAttr("catalogName", "VehicleCatalog")
		ref.CreateAttr("entryName", e.CatalogEntry)
	}

	sb := root.CreateElement("Storyboard")
	actions := sb.CreateElement("Init").CreateElement("Actions")
	for _, e := range sc.Entities {
		priv := actions.CreateElement("Private")
		priv.CreateAttr("entityRef", e.Name)
		pos := priv.CreateElement("PrivateAction").
			CreateElement("TeleportAction").
			CreateElement("Position")
		worldPosition(pos, e.initialPose())
		if e.InitialSpeed > 0 {
			speed := priv.CreateElement("PrivateAction").
				CreateElement("LongitudinalAction").
				CreateElement("SpeedAction")
			dyn := speed.CreateElement("SpeedActionDynamics")
			dyn.CreateAttr("dynamicsShape", "step")
			dyn.CreateAttr("value", "0.0")
			dyn.CreateAttr("dynamicsDimension", "time")
			speed.CreateElement("SpeedActionTarget").
				CreateElement("AbsoluteTargetSpeed").
				CreateAttr("value", fmt4(e.InitialSpeed))
		}
	}

	story := sb.CreateElement("Story")
	story.CreateAttr("name", "MainStory")
	act := story.CreateElement("Act")
	act.CreateAttr("name", "MoveAct")
	for _, e := range sc.Entities {
		if e.moving() {
			maneuverGroup(act, e)
		}
	}
	simulationStart(act, "ActStart")
	sb.CreateElement("StopTrigger")

	doc.Indent(4)
	return doc, nil
}

func maneuverGroup(act *etree.Element, e Entity) {
	mg := act.CreateElement("ManeuverGroup")
	mg.CreateAttr("maximumExecutionCount", "1")
	mg.CreateAttr("name", e.Name+"Seq")
	actors := mg.CreateElement("Actors")
	actors.CreateAttr("selectTriggeringEntities", "false")
	actors.CreateElement("EntityRef").CreateAttr("entityRef", e.Name)

	m := mg.CreateElement("Maneuver")
	m.CreateAttr("name", e.Name+"Maneuver")
	ev := m.CreateElement("Event")
	ev.CreateAttr("name", e.Name+"Event")
	ev.CreateAttr("priority", "overwrite")
	action := ev.CreateElement("Action")
	action.CreateAttr("name", e.Name+"Action")
	fta := action.CreateElement("PrivateAction").
		CreateElement("RoutingAction").
		CreateElement("FollowTrajectoryAction")

	name := e.Trajectory.Name
	if name == "" {
		name = e.Name + "_Trajectory"
	}
	traj := fta.CreateElement("Trajectory")
	traj.CreateAttr("name", name)
	traj.CreateAttr("closed", "false")
	poly := traj.CreateElement("Shape").CreateElement("Polyline")
	for _, s := range e.Trajectory.Samples {
		v := poly.CreateElement("Vertex")
		v.CreateAttr("time", fmt4(s.Time))
		worldPosition(v.CreateElement("Position"), s.Pose)
	}

	timing := fta.CreateElement("TimeReference").CreateElement("Timing")
	timing.CreateAttr("domainAbsoluteRelative", "absolute")
	timing.CreateAttr("scale", "1.0")
	timing.CreateAttr("offset", "0.0")
	fta.CreateElement("TrajectoryFollowingMode").CreateAttr("followingMode", "position")

	simulationStart(ev, "Start")
}

// WriteScenario renders sc to w.
func WriteScenario(w io.Writer, sc Scenario) error {
	doc, err := sc.Document()
	if err != nil {
		return err
	}
	_, err = doc.WriteTo(w)
	return err
}

// WriteScenarioFile renders sc to path. Nothing is written on failure.
func WriteScenarioFile(path string, sc Scenario) error {
	var buf bytes.Buffer
	if err := WriteScenario(&buf, sc); err != nil {
		return err
	}
	return writeFile(path, buf.Bytes())
}
