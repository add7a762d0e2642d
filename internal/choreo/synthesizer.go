package choreo

import (
	"math/rand"
	"runtime"
	"sync"

	"github.com/akoul99/channel-viz/internal/events"
	"github.com/akoul99/channel-viz/internal/geom"
	"github.com/akoul99/channel-viz/internal/policy"
	"github.com/akoul99/channel-viz/internal/topology"
)

// Synthesizer walks each entity's path and emits its ordered sample stream.
// Topology and policy are read-only after construction, and every entity
// carries its own RNG stream, so entities synthesize independently and in
// parallel with byte-identical results across runs.
type Synthesizer struct {
	topo        *topology.Topology
	pol         *policy.Policy
	embellisher *Embellisher
	collab      Collaborator
	workers     int
}

// NewSynthesizer creates a synthesizer with arrival embellishment enabled
// and no physics collaborator.
func NewSynthesizer(topo *topology.Topology, pol *policy.Policy) *Synthesizer {
	return &Synthesizer{
		topo:        topo,
		pol:         pol,
		embellisher: DefaultEmbellisher(),
		workers:     runtime.NumCPU(),
	}
}

// SetCollaborator registers the physics collaborator. A nil collaborator
// leaves every physics-eligible stage on the scripted fallback.
func (s *Synthesizer) SetCollaborator(c Collaborator) {
	s.collab = c
}

// SetEmbellisher overrides the arrival embellishment. Nil disables it.
func (s *Synthesizer) SetEmbellisher(e *Embellisher) {
	s.embellisher = e
}

// SetWorkers overrides the synthesis worker count.
func (s *Synthesizer) SetWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}

// Synthesize computes the complete timeline for the given entities. Each
// entity's synthesis is an atomic unit of work; the timeline is exposed only
// after every entity has finished.
func (s *Synthesizer) Synthesize(entities []Entity) *Timeline {
	events.Emit("info", "synthesis.started", "", map[string]interface{}{
		"entities": len(entities),
		"workers":  s.workers,
	})

	results := make([][]PoseSample, len(entities))

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				results[idx] = s.synthesizeEntity(entities[idx])
			}
		}()
	}
	for idx := range entities {
		indexes <- idx
	}
	close(indexes)
	wg.Wait()

	order := make([]string, 0, len(entities))
	samples := make(map[string][]PoseSample, len(entities))
	for i, e := range entities {
		order = append(order, e.ID)
		samples[e.ID] = results[i]
	}
	tl := NewTimeline(order, samples)

	events.Emit("info", "synthesis.completed", "", map[string]interface{}{
		"entities":  len(entities),
		"frame_end": tl.FrameEnd(),
	})

	return tl
}

// synthesizeEntity produces one entity's full sample stream. It reads only
// the shared immutable configuration and the entity itself.
func (s *Synthesizer) synthesizeEntity(e Entity) []PoseSample {
	rng := rand.New(rand.NewSource(e.RNGSeed))
	machine := newHandoffMachine(e.ID, s.collab, s.embellisher)

	var samples []PoseSample

	clock := e.SpawnTime
	if clock < 1 {
		clock = 1
	}

	var prevRest geom.Vec3
	for i, stageID := range e.Path.Stages {
		stage := s.topo.Stage(stageID)
		rest := s.restPosition(stage, e)

		var incoming geom.Vec3
		if i == 0 {
			incoming = geom.Sub(rest, stage.Entry)
		} else {
			incoming = geom.Sub(rest, prevRest)
		}

		dwell := s.pol.SampleDwell(stageID, rng)
		terminal := i == len(e.Path.Stages)-1

		visitSamples, depart := machine.run(visit{
			stage:    stage,
			arrival:  clock,
			rest:     rest,
			incoming: incoming,
			dwell:    dwell,
			terminal: terminal,
		})
		samples = append(samples, visitSamples...)

		if terminal {
			break
		}

		nextID := e.Path.Stages[i+1]
		travel := s.pol.SampleTravel(stageID, nextID, rng)
		tr := s.topo.TransitionBetween(stageID, nextID)
		nextRest := s.restPosition(s.topo.Stage(nextID), e)

		// A curve hint adds a mid-travel keyframe so consumers interpolating
		// between samples preserve the arc.
		if tr.Curve != nil && travel >= 2 {
			samples = append(samples, PoseSample{
				Frame:    depart + travel/2,
				Position: geom.QuadBezier(rest, *tr.Curve, nextRest, 0.5),
				Scale:    geom.One,
				Mode:     ControlScripted,
			})
		}

		clock = depart + travel
		prevRest = rest
	}

	events.Emit("info", "entity.synthesized", "", map[string]interface{}{
		"entity_id": e.ID,
		"samples":   len(samples),
		"terminal":  e.Path.Terminal(s.topo),
	})

	return samples
}

// restPosition is the authored resting point for an entity inside a stage:
// the region center shifted by the entity's slot offset, kept inside the
// region. It is a pure function, so repeated calls agree.
func (s *Synthesizer) restPosition(stage *topology.Stage, e Entity) geom.Vec3 {
	rest := stage.Region.Center
	rest.X += e.SlotOffset()
	return stage.Region.Clamp(rest)
}
