package main

import (
	"errors"
	"flag"
	"log"
	"time"

	"github.com/scenariolab/trajgen/xosc"
)

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	in := fs.String("in", "", "OpenSCENARIO file")
	out := fs.String("out", "case.json", "case JSON to write")
	var moving, static, pedestrians pairs
	fs.Var(&moving, "vehicle", "trajectory=vehicle-id of a moving vehicle (repeatable)")
	fs.Var(&static, "static", "trajectory=vehicle-id of a parked vehicle (repeatable)")
	fs.Var(&pedestrians, "pedestrian", "trajectory=pedestrian-id (repeatable)")
	var meta xosc.Meta
	fs.StringVar(&meta.ID, "id", "", "case id (random UUID when empty)")
	fs.StringVar(&meta.ScenarioID, "scenario-id", "", "scenario id")
	fs.StringVar(&meta.ScenarioName, "scenario-name", "", "scenario name")
	fs.StringVar(&meta.CaseID, "case-id", "", "case id within the scenario")
	fs.StringVar(&meta.CaseName, "case-name", "", "case name")
	fs.StringVar(&meta.VUTID, "vut", "", "vehicle under test id")
	fs.StringVar(&meta.TTC, "ttc", "", "time to collision in seconds")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("-in is required")
	}
	if len(moving)+len(static)+len(pedestrians) == 0 {
		return errors.New("at least one -vehicle, -static or -pedestrian is required")
	}

	doc, err := xosc.ReadDocument(*in)
	if err != nil {
		return err
	}
	c, err := buildCase(doc, meta, moving, static, pedestrians, time.Now())
	if err != nil {
		return err
	}
	if err := xosc.WriteCaseFile(*out, c); err != nil {
		return err
	}
	log.Printf("wrote %s: %d vehicles, %d pedestrians", *out, c.VehNum, c.PedNum)
	return nil
}

func buildCase(doc *xosc.Document, meta xosc.Meta, moving, static, pedestrians pairs, now time.Time) (xosc.Case, error) {
	var vehicles []xosc.Vehicle
	add := func(ps pairs, parked bool) error {
		for _, p := range ps {
			vs, err := doc.Trajectory(p.Name)
			if err != nil {
				return err
			}
			vehicles = append(vehicles, xosc.NewVehicle(p.Value, xosc.RecordsFromVertices(vs, parked), parked))
		}
		return nil
	}
	if err := add(moving, false); err != nil {
		return xosc.Case{}, err
	}
	if err := add(static, true); err != nil {
		return xosc.Case{}, err
	}

	var peds []xosc.Pedestrian
	for _, p := range pedestrians {
		vs, err := doc.Trajectory(p.Name)
		if err != nil {
			return xosc.Case{}, err
		}
		peds = append(peds, xosc.NewPedestrian(p.Value, xosc.RecordsFromVertices(vs, false)))
	}

	if meta.VUTVel == "" && len(vehicles) > 0 {
		meta.VUTVel = vehicles[0].Vel
	}
	if meta.ParticipantVel == "" {
		switch {
		case len(peds) > 0:
			meta.ParticipantID, meta.ParticipantVel = peds[0].ID, peds[0].Vel
		case len(vehicles) > 1:
			meta.ParticipantID, meta.ParticipantVel = vehicles[1].ID, vehicles[1].Vel
		}
	}
	return xosc.NewCase(meta, now, vehicles, peds), nil
}
