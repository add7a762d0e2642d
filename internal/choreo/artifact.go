package choreo

import (
	"encoding/json"
	"fmt"
	"os"
)

// Artifact is the on-disk form of a synthesized run: the timeline plus the
// run metadata a presentation layer needs to play it back.
type Artifact struct {
	RunID    string                  `json:"run_id"`
	Scenario string                  `json:"scenario,omitempty"`
	FPS      int                     `json:"fps"`
	FrameEnd int                     `json:"frame_end"`
	Entities []string                `json:"entities"`
	Samples  map[string][]PoseSample `json:"samples"`
}

// NewArtifact captures a timeline and its run metadata.
func NewArtifact(runID, scenario string, fps int, tl *Timeline) *Artifact {
	entities := tl.Entities()
	samples := make(map[string][]PoseSample, len(entities))
	for _, id := range entities {
		samples[id] = tl.Samples(id)
	}
	return &Artifact{
		RunID:    runID,
		Scenario: scenario,
		FPS:      fps,
		FrameEnd: tl.FrameEnd(),
		Entities: entities,
		Samples:  samples,
	}
}

// Timeline rebuilds the in-memory timeline from the artifact.
func (a *Artifact) Timeline() *Timeline {
	return NewTimeline(a.Entities, a.Samples)
}

// WriteFile writes the artifact as indented JSON.
func (a *Artifact) WriteFile(path string) error {
	b, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal timeline artifact: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("failed to write timeline artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads an artifact written by WriteFile.
func LoadArtifact(path string) (*Artifact, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var a Artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("failed to parse timeline artifact: %w", err)
	}
	return &a, nil
}
