package choreo

import (
	"fmt"
	"math/rand"

	"github.com/akoul99/channel-viz/internal/events"
	"github.com/akoul99/channel-viz/internal/topology"
)

// GenerationRule describes one group of entities to schedule: how many, the
// path they share, and how their spawns are staggered.
type GenerationRule struct {
	Category     string
	Count        int
	Path         []string
	SpawnStart   int
	SpawnStagger int
	SpawnJitter  int
}

// Schedule expands generation rules into concrete entities with validated
// paths, staggered spawn times, and per-entity RNG seeds derived from the
// run seed. Rules sharing a category number their entities consecutively,
// so ids stay unique across rules. An entity whose path is invalid is
// skipped and reported; it never blocks the rest of the batch.
func Schedule(topo *topology.Topology, rules []GenerationRule, runSeed int64) ([]Entity, []error) {
	var entities []Entity
	var skipped []error
	ordinals := make(map[string]int)

	for _, rule := range rules {
		path, err := topology.AssignPath(topo, rule.Category, rule.Path)
		if err != nil {
			events.Emit("error", "entity.invalid", err.Error(), map[string]interface{}{
				"category": rule.Category,
				"count":    rule.Count,
			})
			skipped = append(skipped, fmt.Errorf("rule %q: %w", rule.Category, err))
			continue
		}

		for i := 0; i < rule.Count; i++ {
			id := fmt.Sprintf("%s_%d", rule.Category, ordinals[rule.Category])
			ordinals[rule.Category]++

			// Spawn jitter draws from its own derived stream so it cannot
			// perturb the dwell/travel sequence of the synthesis stream.
			jitter := 0
			if rule.SpawnJitter > 0 {
				jrng := rand.New(rand.NewSource(DeriveSeed(runSeed, id+".spawn")))
				jitter = jrng.Intn(rule.SpawnJitter + 1)
			}

			spawn := rule.SpawnStart + i*rule.SpawnStagger + jitter
			if spawn < 1 {
				spawn = 1
			}

			entities = append(entities, Entity{
				ID:        id,
				Category:  rule.Category,
				Path:      path,
				SpawnTime: spawn,
				RNGSeed:   DeriveSeed(runSeed, id),
				Slot:      i,
			})
		}
	}

	return entities, skipped
}
