package choreo

import (
	"github.com/akoul99/channel-viz/internal/events"
	"github.com/akoul99/channel-viz/internal/geom"
	"github.com/akoul99/channel-viz/internal/topology"
)

// VisitState is one state of the per-(entity, stage-visit) handoff machine.
type VisitState string

const (
	StateScriptedTravel VisitState = "scripted_travel"
	StateScriptedArrive VisitState = "scripted_arrive"
	StateSimulated      VisitState = "simulated"
	StateScriptedDepart VisitState = "scripted_depart"
	StateTerminal       VisitState = "terminal"
)

// Collaborator is the physics collaborator contract. RestingPose reports the
// settled pose of an entity after a simulated dwell; ok is false when the
// collaborator cannot provide one, in which case the engine falls back to the
// stage's nominal resting position.
type Collaborator interface {
	RestingPose(entityID, stageID string, nominal geom.Vec3) (pose geom.Vec3, ok bool)
}

// handoffMachine walks one entity's stage visits, toggling between scripted
// and simulated control. A nil collaborator degrades every eligible stage to
// a scripted hold; this is a recorded fallback, never an error.
type handoffMachine struct {
	entityID    string
	collab      Collaborator
	embellisher *Embellisher
	state       VisitState
}

func newHandoffMachine(entityID string, collab Collaborator, emb *Embellisher) *handoffMachine {
	return &handoffMachine{
		entityID:    entityID,
		collab:      collab,
		embellisher: emb,
		state:       StateScriptedTravel,
	}
}

// visit describes one stage arrival for the machine to run.
type visit struct {
	stage    *topology.Stage
	arrival  int       // frame of arrival
	rest     geom.Vec3 // authored resting position inside the stage
	incoming geom.Vec3 // travel direction into the stage
	dwell    int       // frames spent at the stage
	terminal bool
}

// run executes the state machine for a single stage visit. It returns the
// emitted samples in increasing frame order and the frame at which the
// entity departs (equal to the last emitted frame, or the arrival frame for
// a zero-dwell visit).
func (m *handoffMachine) run(v visit) ([]PoseSample, int) {
	m.state = StateScriptedArrive

	// A handoff needs room for the cede marker one frame after arrival and
	// the resume marker at the dwell deadline.
	eligible := v.stage.PhysicsEligible
	handoff := eligible && m.collab != nil && v.dwell >= 2

	if eligible && m.collab == nil {
		events.Emit("warn", "handoff.fallback", "no physics collaborator, dwell stays scripted", map[string]interface{}{
			"entity_id": m.entityID,
			"stage_id":  v.stage.ID,
			"frame":     v.arrival,
		})
	}

	samples := []PoseSample{{
		Frame:     v.arrival,
		Position:  v.rest,
		Scale:     geom.One,
		Mode:      ControlScripted,
		Kinematic: handoff,
		StageID:   v.stage.ID,
	}}

	depart := v.arrival + v.dwell

	if handoff {
		samples = append(samples, m.simulatedDwell(v, depart)...)
	} else {
		samples = append(samples, m.scriptedDwell(v, depart)...)
	}

	if v.terminal {
		m.state = StateTerminal
	} else {
		m.state = StateScriptedTravel
	}

	return samples, depart
}

// simulatedDwell cedes control to the collaborator for the dwell interval.
// Only the boundary markers are authored; intermediate poses belong to the
// collaborator.
func (m *handoffMachine) simulatedDwell(v visit, depart int) []PoseSample {
	m.state = StateSimulated

	cede := PoseSample{
		Frame:    v.arrival + 1,
		Position: v.rest,
		Scale:    geom.One,
		Mode:     ControlSimulated,
		StageID:  v.stage.ID,
	}
	events.Emit("info", "handoff.ceded", "", map[string]interface{}{
		"entity_id": m.entityID,
		"stage_id":  v.stage.ID,
		"frame":     cede.Frame,
	})

	// The true simulated end pose is unknown to the engine; the collaborator
	// reports it back, or the stage's nominal rest position stands in.
	resting := v.rest
	if pose, ok := m.collab.RestingPose(m.entityID, v.stage.ID, v.rest); ok {
		resting = v.stage.Region.Clamp(pose)
	}

	m.state = StateScriptedDepart
	resume := PoseSample{
		Frame:     depart,
		Position:  resting,
		Scale:     geom.One,
		Mode:      ControlSimulated,
		Kinematic: true,
		StageID:   v.stage.ID,
	}
	events.Emit("info", "handoff.resumed", "", map[string]interface{}{
		"entity_id": m.entityID,
		"stage_id":  v.stage.ID,
		"frame":     resume.Frame,
	})

	return []PoseSample{cede, resume}
}

// scriptedDwell authors a static hold, with the arrival embellishment layered
// inside the dwell window when there is room for it.
func (m *handoffMachine) scriptedDwell(v visit, depart int) []PoseSample {
	var samples []PoseSample

	if m.embellisher != nil && v.dwell > m.embellisher.Window() {
		for _, d := range m.embellisher.Embellish(v.incoming) {
			samples = append(samples, PoseSample{
				Frame:    v.arrival + d.DFrame,
				Position: geom.Add(v.rest, d.Position),
				Scale:    d.Scale,
				Mode:     ControlScripted,
				StageID:  v.stage.ID,
			})
		}
	}

	m.state = StateScriptedDepart
	if v.dwell > 0 {
		samples = append(samples, PoseSample{
			Frame:    depart,
			Position: v.rest,
			Scale:    geom.One,
			Mode:     ControlScripted,
			StageID:  v.stage.ID,
		})
	}

	return samples
}
