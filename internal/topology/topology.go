// Package topology holds the static description of the processing pipeline:
// stages with spatial extents and the directed transitions between them.
// A Topology is immutable once built and safe to share across synthesis
// workers without locking.
package topology

import (
	"github.com/akoul99/channel-viz/internal/geom"
)

// Stage is one named processing unit in the pipeline. Label, Sublabel, and
// Color are presentation metadata passed through to geometry/material
// collaborators; synthesis never reads them.
type Stage struct {
	ID              string
	Region          geom.Box
	Entry           geom.Vec3
	Exit            geom.Vec3
	PhysicsEligible bool

	Label    string
	Sublabel string
	Color    string
}

// Transition is a permitted ordered link between two stages. Curve, when
// non-nil, is a control point for arced pose interpolation during travel.
type Transition struct {
	From  string
	To    string
	Curve *geom.Vec3
}

// Topology is the validated stage graph.
type Topology struct {
	stages   map[string]*Stage
	order    []string
	outgoing map[string]map[string]*Transition
	incoming map[string]int
	entries  []string
	exits    []string
}

// Build validates stage and transition specs and assembles a Topology.
// It returns a *ConfigError if a transition references an unknown stage,
// the graph contains a cycle, no entry or exit stage exists, or a stage is
// unreachable from every entry.
func Build(stages []Stage, transitions []Transition) (*Topology, error) {
	t := &Topology{
		stages:   make(map[string]*Stage, len(stages)),
		outgoing: make(map[string]map[string]*Transition),
		incoming: make(map[string]int),
	}

	for i := range stages {
		s := stages[i]
		if s.ID == "" {
			return nil, &ConfigError{Reason: "stage with empty id"}
		}
		if _, dup := t.stages[s.ID]; dup {
			return nil, &ConfigError{Reason: "duplicate stage id: " + s.ID}
		}
		// Entry/exit default to the region center when unset.
		zero := geom.Vec3{}
		if s.Entry == zero {
			s.Entry = s.Region.Center
		}
		if s.Exit == zero {
			s.Exit = s.Region.Center
		}
		t.stages[s.ID] = &s
		t.order = append(t.order, s.ID)
	}

	if len(t.order) == 0 {
		return nil, &ConfigError{Reason: "topology has no stages"}
	}

	for i := range transitions {
		tr := transitions[i]
		if _, ok := t.stages[tr.From]; !ok {
			return nil, &ConfigError{Reason: "transition from unknown stage: " + tr.From}
		}
		if _, ok := t.stages[tr.To]; !ok {
			return nil, &ConfigError{Reason: "transition to unknown stage: " + tr.To}
		}
		if tr.From == tr.To {
			return nil, &ConfigError{Reason: "self transition on stage: " + tr.From}
		}
		if t.outgoing[tr.From] == nil {
			t.outgoing[tr.From] = make(map[string]*Transition)
		}
		if _, dup := t.outgoing[tr.From][tr.To]; dup {
			return nil, &ConfigError{Reason: "duplicate transition: " + tr.From + " -> " + tr.To}
		}
		t.outgoing[tr.From][tr.To] = &tr
		t.incoming[tr.To]++
	}

	if err := t.checkAcyclic(); err != nil {
		return nil, err
	}

	for _, id := range t.order {
		if t.incoming[id] == 0 {
			t.entries = append(t.entries, id)
		}
		if len(t.outgoing[id]) == 0 {
			t.exits = append(t.exits, id)
		}
	}
	if len(t.entries) == 0 {
		return nil, &ConfigError{Reason: "topology has no entry stage"}
	}
	if len(t.exits) == 0 {
		return nil, &ConfigError{Reason: "topology has no exit stage"}
	}

	if err := t.checkReachable(); err != nil {
		return nil, err
	}

	return t, nil
}

// checkAcyclic runs a depth-first search with a three-color marking to
// detect back edges.
func (t *Topology) checkAcyclic() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(t.order))

	var visit func(id string) error
	visit = func(id string) error {
		color[id] = gray
		for next := range t.outgoing[id] {
			switch color[next] {
			case gray:
				return &ConfigError{Reason: "transition graph contains a cycle through stage: " + next}
			case white:
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		color[id] = black
		return nil
	}

	for _, id := range t.order {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkReachable verifies every stage is reachable from at least one entry.
func (t *Topology) checkReachable() error {
	reached := make(map[string]bool, len(t.order))
	queue := append([]string{}, t.entries...)
	for _, id := range queue {
		reached[id] = true
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for next := range t.outgoing[current] {
			if !reached[next] {
				reached[next] = true
				queue = append(queue, next)
			}
		}
	}
	for _, id := range t.order {
		if !reached[id] {
			return &ConfigError{Reason: "stage unreachable from any entry: " + id}
		}
	}
	return nil
}

// Stage returns the stage with the given id, or nil.
func (t *Topology) Stage(id string) *Stage {
	return t.stages[id]
}

// TransitionBetween returns the transition from one stage to another, or nil
// if the pair is not linked.
func (t *Topology) TransitionBetween(from, to string) *Transition {
	return t.outgoing[from][to]
}

// Stages returns all stages in declaration order.
func (t *Topology) Stages() []*Stage {
	out := make([]*Stage, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.stages[id])
	}
	return out
}

// Entries returns the ids of stages with no incoming transition.
func (t *Topology) Entries() []string {
	return append([]string{}, t.entries...)
}

// Exits returns the ids of stages with no outgoing transition.
func (t *Topology) Exits() []string {
	return append([]string{}, t.exits...)
}
