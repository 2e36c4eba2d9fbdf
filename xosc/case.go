package xosc

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/scenariolab/trajgen/internal/units"
)

// Formulas the test-bench evaluates for collision distances. They are stored
// verbatim in every case.
const (
	ParticipantCollisionFormula    = "TTC * participant_vel + (participant_vel^2) / (2 * participant_acc)"
	VUTCollisionFormula            = "TTC * vut_vel + (vut_vel * participant_vel) / participant_acc"
	ParticipantVUTCollisionFormula = "sqrt( participant_collision_dis^2 + vut_collision_dis^2 )"
)

// Meta is the descriptive part of a test case. String-typed numbers mirror
// the test-bench schema.
type Meta struct {
	ID              string `json:"id,omitempty"`
	ScenarioID      string `json:"scenario_id"`
	ScenarioName    string `json:"scenario_name"`
	CaseID          string `json:"case_id"`
	CaseName        string `json:"case_name"`
	VUTID           string `json:"vut_id"`
	VUTVel          string `json:"vut_vel"`
	ParticipantID   string `json:"participant_id"`
	ParticipantVel  string `json:"participant_vel"`
	TTC             string `json:"TTC"`
	ParticipantAcc  string `json:"participant_acc"`
	TriggerDistance string `json:"trigger_distance"`
}

// Vehicle is one entry of a case's veh_content.
type Vehicle struct {
	ID            string   `json:"veh_id"`
	Vel           string   `json:"veh_vel"`
	TrajectoryNum int      `json:"trajectory_num"`
	Trajectory    []Record `json:"trajectory_content"`
}

// Pedestrian is one entry of a case's ped_content.
type Pedestrian struct {
	ID            string   `json:"ped_id"`
	Vel           string   `json:"ped_vel"`
	TrajectoryNum int      `json:"trajectory_num"`
	Trajectory    []Record `json:"trajectory_content"`
}

// Case is a complete JSON test case.
type Case struct {
	ID                         string       `json:"id"`
	ScenarioID                 string       `json:"scenario_id"`
	ScenarioName               string       `json:"scenario_name"`
	CaseID                     string       `json:"case_id"`
	CaseName                   string       `json:"case_name"`
	VUTID                      string       `json:"vut_id"`
	VUTVel                     string       `json:"vut_vel"`
	ParticipantID              string       `json:"participant_id"`
	ParticipantVel             string       `json:"participant_vel"`
	EnableStatus               bool         `json:"enable_status"`
	CreateTime                 int64        `json:"creat_time"`
	UpdateTime                 int64        `json:"update_time"`
	TTC                        string       `json:"TTC"`
	ParticipantAcc             string       `json:"participant_acc"`
	ParticipantCollisionDis    string       `json:"participant_collision_dis"`
	VUTCollisionDis            string       `json:"vut_collision_dis"`
	ParticipantVUTCollisionDis string       `json:"participant_vut_collision_dis"`
	TriggerDistance            string       `json:"trigger_distance"`
	VehNum                     int          `json:"veh_num"`
	VehContent                 []Vehicle    `json:"veh_content"`
	PedNum                     int          `json:"ped_num"`
	PedContent                 []Pedestrian `json:"ped_content"`
}

// NewVehicle wraps records as a vehicle entry. The advertised speed is the
// velocity of the middle record in whole km/h; static vehicles advertise 0.
func NewVehicle(id string, records []Record, static bool) Vehicle {
	return Vehicle{ID: id, Vel: nominalKMPH(records, static), TrajectoryNum: 1, Trajectory: records}
}

// NewPedestrian wraps records as a pedestrian entry.
func NewPedestrian(id string, records []Record) Pedestrian {
	return Pedestrian{ID: id, Vel: nominalKMPH(records, false), TrajectoryNum: 1, Trajectory: records}
}

func nominalKMPH(records []Record, static bool) string {
	if static || len(records) == 0 {
		return "0"
	}
	v := records[len(records)/2].Velocity
	return strconv.Itoa(int(units.ConvertSpeed(v, units.KMPH)))
}

// NewCase assembles a case stamped with now. An empty meta ID is replaced by a
// random UUID.
func NewCase(meta Meta, now time.Time, vehicles []Vehicle, pedestrians []Pedestrian) Case {
	id := meta.ID
	if id == "" {
		id = uuid.New().String()
	}
	if vehicles == nil {
		vehicles = []Vehicle{}
	}
	if pedestrians == nil {
		pedestrians = []Pedestrian{}
	}
	ms := now.UnixMilli()
	return Case{
		ID:                         id,
		ScenarioID:                 meta.ScenarioID,
		ScenarioName:               meta.ScenarioName,
		CaseID:                     meta.CaseID,
		CaseName:                   meta.CaseName,
		VUTID:                      meta.VUTID,
		VUTVel:                     meta.VUTVel,
		ParticipantID:              meta.ParticipantID,
		ParticipantVel:             meta.ParticipantVel,
		EnableStatus:               true,
		CreateTime:                 ms,
		UpdateTime:                 ms,
		TTC:                        meta.TTC,
		ParticipantAcc:             meta.ParticipantAcc,
		ParticipantCollisionDis:    ParticipantCollisionFormula,
		VUTCollisionDis:            VUTCollisionFormula,
		ParticipantVUTCollisionDis: ParticipantVUTCollisionFormula,
		TriggerDistance:            meta.TriggerDistance,
		VehNum:                     len(vehicles),
		VehContent:                 vehicles,
		PedNum:                     len(pedestrians),
		PedContent:                 pedestrians,
	}
}

// MarshalIndent renders c the way the test-bench stores cases: four-space
// indentation, non-ASCII text left unescaped.
func (c Case) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCaseFile writes c to path as indented JSON.
func WriteCaseFile(path string, c Case) error {
	data, err := c.MarshalIndent()
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// WriteRecords renders records to w as an indented JSON array.
func WriteRecords(w io.Writer, records []Record) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteRecordsFile writes records to path as an indented JSON array.
func WriteRecordsFile(path string, records []Record) error {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, records); err != nil {
		return err
	}
	return writeFile(path, buf.Bytes())
}
