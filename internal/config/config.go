// Package config loads and validates the declarative scenario description:
// stages, transitions, entity generation rules, and scene settings.
// Configuration is loaded once per run and never mutated.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/akoul99/channel-viz/internal/choreo"
	"github.com/akoul99/channel-viz/internal/geom"
	"github.com/akoul99/channel-viz/internal/policy"
	"github.com/akoul99/channel-viz/internal/topology"
)

type Scenario struct {
	Version  int `yaml:"version"`
	Scenario struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"scenario"`
	Scene struct {
		FPS      int `yaml:"fps"`
		FrameEnd int `yaml:"frame_end"`
	} `yaml:"scene"`
	Network struct {
		UIPort int `yaml:"ui_port"`
	} `yaml:"network"`
	Seed          int64              `yaml:"seed"`
	Stages        []StageConfig      `yaml:"stages"`
	Transitions   []TransitionConfig `yaml:"transitions"`
	Entities      []EntityRule       `yaml:"entities"`
	Embellishment *EmbellishConfig   `yaml:"embellishment"`
}

// Range is a fixed or uniform-random frame duration. A bare integer in YAML
// also decodes as a fixed range.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// UnmarshalYAML accepts either a scalar (fixed duration) or a min/max map.
func (r *Range) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var fixed int
		if err := value.Decode(&fixed); err != nil {
			return err
		}
		r.Min, r.Max = fixed, fixed
		return nil
	}
	type plain Range
	return value.Decode((*plain)(r))
}

type StageConfig struct {
	ID       string     `yaml:"id"`
	Label    string     `yaml:"label"`
	Sublabel string     `yaml:"sublabel"`
	Color    string     `yaml:"color"`
	Center   geom.Vec3  `yaml:"center"`
	Size     geom.Vec3  `yaml:"size"`
	Entry    *geom.Vec3 `yaml:"entry"`
	Exit     *geom.Vec3 `yaml:"exit"`
	Physics  bool       `yaml:"physics"`
	Dwell    Range      `yaml:"dwell"`
}

type TransitionConfig struct {
	From   string     `yaml:"from"`
	To     string     `yaml:"to"`
	Travel Range      `yaml:"travel"`
	Curve  *geom.Vec3 `yaml:"curve"`
}

type EntityRule struct {
	Category string   `yaml:"category"`
	Count    int      `yaml:"count"`
	Path     []string `yaml:"path"`
	Spawn    struct {
		Start   int `yaml:"start"`
		Stagger int `yaml:"stagger"`
		Jitter  int `yaml:"jitter"`
	} `yaml:"spawn"`
}

type EmbellishConfig struct {
	SquashOffset  int     `yaml:"squash_offset"`
	StretchOffset int     `yaml:"stretch_offset"`
	SettleOffset  int     `yaml:"settle_offset"`
	Overshoot     float64 `yaml:"overshoot"`
	Compression   float64 `yaml:"compression"`
	Disabled      bool    `yaml:"disabled"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, err
	}

	if s.Version != 1 {
		return nil, fmt.Errorf("unsupported scenario version: %d", s.Version)
	}
	if len(s.Stages) == 0 {
		return nil, fmt.Errorf("scenario defines no stages")
	}
	for i, rule := range s.Entities {
		if rule.Category == "" {
			return nil, fmt.Errorf("entity rule %d: category required", i)
		}
		if rule.Count <= 0 {
			return nil, fmt.Errorf("entity rule %q: count must be positive", rule.Category)
		}
		if len(rule.Path) == 0 {
			return nil, fmt.Errorf("entity rule %q: path required", rule.Category)
		}
	}

	if e := s.Embellisher(); e != nil {
		if e.SquashOffset <= 0 || e.SquashOffset >= e.StretchOffset || e.StretchOffset >= e.SettleOffset {
			return nil, fmt.Errorf("embellishment offsets must be strictly increasing")
		}
	}

	return &s, nil
}

// FPS returns the configured frame rate, defaulting to 30.
func (s *Scenario) FPS() int {
	if s.Scene.FPS == 0 {
		return 30
	}
	return s.Scene.FPS
}

// UIPort returns the configured API port, defaulting to 8080 if not set.
func (s *Scenario) UIPort() int {
	if s.Network.UIPort == 0 {
		return 8080
	}
	return s.Network.UIPort
}

// TopologyStages converts stage configs into topology inputs.
func (s *Scenario) TopologyStages() []topology.Stage {
	out := make([]topology.Stage, 0, len(s.Stages))
	for _, sc := range s.Stages {
		stage := topology.Stage{
			ID:              sc.ID,
			Region:          geom.Box{Center: sc.Center, Size: sc.Size},
			PhysicsEligible: sc.Physics,
			Label:           sc.Label,
			Sublabel:        sc.Sublabel,
			Color:           sc.Color,
		}
		if sc.Entry != nil {
			stage.Entry = *sc.Entry
		}
		if sc.Exit != nil {
			stage.Exit = *sc.Exit
		}
		out = append(out, stage)
	}
	return out
}

// TopologyTransitions converts transition configs into topology inputs.
func (s *Scenario) TopologyTransitions() []topology.Transition {
	out := make([]topology.Transition, 0, len(s.Transitions))
	for _, tc := range s.Transitions {
		out = append(out, topology.Transition{
			From:  tc.From,
			To:    tc.To,
			Curve: tc.Curve,
		})
	}
	return out
}

// Policy builds the dwell/travel policy from the scenario.
func (s *Scenario) Policy() (*policy.Policy, error) {
	dwell := make(map[string]policy.FrameRange, len(s.Stages))
	for _, sc := range s.Stages {
		dwell[sc.ID] = policy.FrameRange{Min: sc.Dwell.Min, Max: sc.Dwell.Max}
	}
	travel := make(map[string]policy.FrameRange, len(s.Transitions))
	for _, tc := range s.Transitions {
		travel[policy.TravelKey(tc.From, tc.To)] = policy.FrameRange{Min: tc.Travel.Min, Max: tc.Travel.Max}
	}
	return policy.New(dwell, travel)
}

// GenerationRules converts entity rules into scheduler inputs.
func (s *Scenario) GenerationRules() []choreo.GenerationRule {
	out := make([]choreo.GenerationRule, 0, len(s.Entities))
	for _, rule := range s.Entities {
		out = append(out, choreo.GenerationRule{
			Category:     rule.Category,
			Count:        rule.Count,
			Path:         rule.Path,
			SpawnStart:   rule.Spawn.Start,
			SpawnStagger: rule.Spawn.Stagger,
			SpawnJitter:  rule.Spawn.Jitter,
		})
	}
	return out
}

// Embellisher returns the configured embellishment, the default when the
// section is absent, or nil when disabled.
func (s *Scenario) Embellisher() *choreo.Embellisher {
	if s.Embellishment == nil {
		return choreo.DefaultEmbellisher()
	}
	if s.Embellishment.Disabled {
		return nil
	}
	e := choreo.DefaultEmbellisher()
	if s.Embellishment.SquashOffset > 0 {
		e.SquashOffset = s.Embellishment.SquashOffset
	}
	if s.Embellishment.StretchOffset > 0 {
		e.StretchOffset = s.Embellishment.StretchOffset
	}
	if s.Embellishment.SettleOffset > 0 {
		e.SettleOffset = s.Embellishment.SettleOffset
	}
	if s.Embellishment.Overshoot > 0 {
		e.Overshoot = s.Embellishment.Overshoot
	}
	if s.Embellishment.Compression > 0 {
		e.Compression = s.Embellishment.Compression
	}
	return e
}
