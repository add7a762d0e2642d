// Package choreo computes deterministic pose timelines for transaction
// entities moving through a pipeline of stages. It composes the dwell/travel
// policy, the arrival embellishment, and the physics handoff state machine
// into one ordered sample stream per entity.
package choreo

import (
	"github.com/akoul99/channel-viz/internal/geom"
)

// ControlMode states whether the engine or an external physics collaborator
// authors an entity's pose at a sample.
type ControlMode string

const (
	ControlScripted  ControlMode = "scripted"
	ControlSimulated ControlMode = "simulated"
)

// PoseSample is one timed pose record for an entity. Frame numbers start at 1
// and are strictly increasing within an entity's sample list. Kinematic
// mirrors the rigid-body flag a presentation collaborator must apply: true on
// the arrival sample that precedes a handoff and on the resume sample that
// reclaims control.
type PoseSample struct {
	Frame     int         `json:"frame"`
	Position  geom.Vec3   `json:"position"`
	Scale     geom.Vec3   `json:"scale"`
	Mode      ControlMode `json:"mode"`
	Kinematic bool        `json:"kinematic,omitempty"`
	StageID   string      `json:"stage,omitempty"`
}

// Timeline maps entity ids to their ordered sample lists. It is built once
// by Synthesize and read-only afterward.
type Timeline struct {
	entities []string
	samples  map[string][]PoseSample
}

// NewTimeline assembles a timeline from per-entity sample lists, preserving
// the given entity order.
func NewTimeline(entities []string, samples map[string][]PoseSample) *Timeline {
	return &Timeline{
		entities: append([]string{}, entities...),
		samples:  samples,
	}
}

// Entities returns entity ids in scheduling order.
func (tl *Timeline) Entities() []string {
	return append([]string{}, tl.entities...)
}

// Samples returns the ordered sample list for an entity, or nil if the
// entity is unknown.
func (tl *Timeline) Samples(entityID string) []PoseSample {
	return tl.samples[entityID]
}

// FrameEnd returns the highest frame across all entities, or 0 for an empty
// timeline.
func (tl *Timeline) FrameEnd() int {
	end := 0
	for _, list := range tl.samples {
		if n := len(list); n > 0 && list[n-1].Frame > end {
			end = list[n-1].Frame
		}
	}
	return end
}
