package topology

import (
	"errors"
	"testing"

	"github.com/akoul99/channel-viz/internal/geom"
)

func pipelineStages() []Stage {
	return []Stage{
		{ID: "wcache", Region: geom.Box{Center: geom.Vec3{Z: 3}, Size: geom.Vec3{X: 4, Y: 1, Z: 1.5}}},
		{ID: "write_rs", Region: geom.Box{Center: geom.Vec3{X: -2.5}, Size: geom.Vec3{X: 3, Y: 1, Z: 2}}},
		{ID: "read_rs", Region: geom.Box{Center: geom.Vec3{X: 2.5}, Size: geom.Vec3{X: 3, Y: 1, Z: 2}}},
		{ID: "dram", Region: geom.Box{Center: geom.Vec3{Z: -4}, Size: geom.Vec3{X: 6, Y: 1, Z: 2.5}}, PhysicsEligible: true},
		{ID: "read_return", Region: geom.Box{Center: geom.Vec3{X: 6, Z: -4}, Size: geom.Vec3{X: 2, Y: 1, Z: 2.5}}},
	}
}

func pipelineTransitions() []Transition {
	return []Transition{
		{From: "wcache", To: "write_rs"},
		{From: "write_rs", To: "dram"},
		{From: "read_rs", To: "dram"},
		{From: "dram", To: "read_return"},
	}
}

func TestBuildPipeline(t *testing.T) {
	topo, err := Build(pipelineStages(), pipelineTransitions())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(topo.Stages()) != 5 {
		t.Errorf("expected 5 stages, got %d", len(topo.Stages()))
	}

	entries := topo.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %v", entries)
	}

	exits := topo.Exits()
	if len(exits) != 1 || exits[0] != "read_return" {
		t.Errorf("expected exit [read_return], got %v", exits)
	}

	if topo.TransitionBetween("wcache", "write_rs") == nil {
		t.Error("expected transition wcache -> write_rs")
	}
	if topo.TransitionBetween("write_rs", "wcache") != nil {
		t.Error("transitions are directed; reverse link must not exist")
	}
}

func TestBuildDefaultsEntryExitToCenter(t *testing.T) {
	center := geom.Vec3{X: 1, Y: 2, Z: 3}
	topo, err := Build([]Stage{
		{ID: "only", Region: geom.Box{Center: center, Size: geom.Vec3{X: 1, Y: 1, Z: 1}}},
	}, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	s := topo.Stage("only")
	if s.Entry != center || s.Exit != center {
		t.Errorf("entry/exit should default to center, got %v / %v", s.Entry, s.Exit)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name        string
		stages      []Stage
		transitions []Transition
	}{
		{
			name:   "no stages",
			stages: nil,
		},
		{
			name:   "empty stage id",
			stages: []Stage{{ID: ""}},
		},
		{
			name:   "duplicate stage id",
			stages: []Stage{{ID: "a"}, {ID: "a"}},
		},
		{
			name:        "transition from unknown stage",
			stages:      []Stage{{ID: "a"}},
			transitions: []Transition{{From: "ghost", To: "a"}},
		},
		{
			name:        "transition to unknown stage",
			stages:      []Stage{{ID: "a"}},
			transitions: []Transition{{From: "a", To: "ghost"}},
		},
		{
			name:        "self transition",
			stages:      []Stage{{ID: "a"}},
			transitions: []Transition{{From: "a", To: "a"}},
		},
		{
			name:        "duplicate transition",
			stages:      []Stage{{ID: "a"}, {ID: "b"}},
			transitions: []Transition{{From: "a", To: "b"}, {From: "a", To: "b"}},
		},
		{
			name:   "cycle",
			stages: []Stage{{ID: "a"}, {ID: "b"}, {ID: "c"}},
			transitions: []Transition{
				{From: "a", To: "b"},
				{From: "b", To: "c"},
				{From: "c", To: "a"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.stages, tc.transitions)
			if err == nil {
				t.Fatal("expected error")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected *ConfigError, got %T", err)
			}
		})
	}
}

func TestBuildChainEntries(t *testing.T) {
	topo, err := Build(
		[]Stage{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		[]Transition{{From: "a", To: "b"}, {From: "b", To: "c"}},
	)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := topo.Entries(); len(got) != 1 || got[0] != "a" {
		t.Errorf("expected entries [a], got %v", got)
	}
	if got := topo.Exits(); len(got) != 1 || got[0] != "c" {
		t.Errorf("expected exits [c], got %v", got)
	}
}

func TestAssignPath(t *testing.T) {
	topo, err := Build(pipelineStages(), pipelineTransitions())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	path, err := AssignPath(topo, "read", []string{"read_rs", "dram", "read_return"})
	if err != nil {
		t.Fatalf("AssignPath failed: %v", err)
	}
	if path.Category != "read" {
		t.Errorf("category = %q", path.Category)
	}
	if len(path.Stages) != 3 {
		t.Errorf("stages = %v", path.Stages)
	}
	if !path.Terminal(topo) {
		t.Error("read path ends at an exit stage; Terminal should be true")
	}

	write, err := AssignPath(topo, "write", []string{"wcache", "write_rs", "dram"})
	if err != nil {
		t.Fatalf("AssignPath failed: %v", err)
	}
	if write.Terminal(topo) {
		t.Error("write path ends at dram which has outgoing transitions")
	}
}

func TestAssignPathErrors(t *testing.T) {
	topo, err := Build(pipelineStages(), pipelineTransitions())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	tests := []struct {
		name     string
		sequence []string
	}{
		{"empty sequence", nil},
		{"unknown stage", []string{"read_rs", "l2", "dram"}},
		{"missing transition", []string{"wcache", "read_rs"}},
		{"reversed transition", []string{"dram", "write_rs"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := AssignPath(topo, "read", tc.sequence)
			if err == nil {
				t.Fatal("expected error")
			}
			var pathErr *InvalidPathError
			if !errors.As(err, &pathErr) {
				t.Errorf("expected *InvalidPathError, got %T", err)
			}
		})
	}
}
