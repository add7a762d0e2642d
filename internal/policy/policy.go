// Package policy holds the per-stage and per-transition timing parameters:
// dwell durations, travel durations, and physics handoff eligibility.
// Sampling is a pure function of the passed random stream, which is what
// keeps whole-run synthesis reproducible under a fixed seed.
package policy

import (
	"fmt"
	"math/rand"
)

// FrameRange is a fixed or uniform-random integer frame duration.
// Min == Max describes a fixed duration.
type FrameRange struct {
	Min int
	Max int
}

// Sample draws a duration from the range using the supplied stream.
func (r FrameRange) Sample(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

func (r FrameRange) validate(what string) error {
	if r.Min < 0 {
		return fmt.Errorf("%s: negative min duration %d", what, r.Min)
	}
	if r.Max < r.Min {
		return fmt.Errorf("%s: max duration %d below min %d", what, r.Max, r.Min)
	}
	return nil
}

// Policy maps stage ids to dwell ranges and transitions to travel ranges.
// It is read-only after construction.
type Policy struct {
	dwell  map[string]FrameRange
	travel map[string]FrameRange
}

// New builds a Policy from per-stage dwell ranges and per-transition travel
// ranges. Travel keys use the form returned by TravelKey.
func New(dwell map[string]FrameRange, travel map[string]FrameRange) (*Policy, error) {
	for id, r := range dwell {
		if err := r.validate("dwell " + id); err != nil {
			return nil, err
		}
	}
	for key, r := range travel {
		if err := r.validate("travel " + key); err != nil {
			return nil, err
		}
		if r.Min < 1 {
			return nil, fmt.Errorf("travel %s: duration must be at least one frame", key)
		}
	}

	p := &Policy{
		dwell:  make(map[string]FrameRange, len(dwell)),
		travel: make(map[string]FrameRange, len(travel)),
	}
	for id, r := range dwell {
		p.dwell[id] = r
	}
	for key, r := range travel {
		p.travel[key] = r
	}
	return p, nil
}

// TravelKey names the travel range for a transition.
func TravelKey(from, to string) string {
	return from + "->" + to
}

// SampleDwell draws the dwell duration for a stage visit. Stages with no
// configured dwell hold for zero frames.
func (p *Policy) SampleDwell(stageID string, rng *rand.Rand) int {
	return p.dwell[stageID].Sample(rng)
}

// SampleTravel draws the travel duration for a transition. Transitions with
// no configured range take a single frame, the minimum a travel can occupy.
func (p *Policy) SampleTravel(from, to string, rng *rand.Rand) int {
	r, ok := p.travel[TravelKey(from, to)]
	if !ok {
		return 1
	}
	return r.Sample(rng)
}
