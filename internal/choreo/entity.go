package choreo

import (
	"hash/fnv"

	"github.com/akoul99/channel-viz/internal/topology"
)

// Entity is one animated transaction with a fixed path through stages.
// Entities are created by the scheduler and never mutated afterward; the
// synthesizer only reads them.
type Entity struct {
	ID        string
	Category  string
	Path      topology.Path
	SpawnTime int
	RNGSeed   int64

	// Slot is the entity's lateral position index inside each stage, so
	// concurrent dwellers do not overlap.
	Slot int
}

// slotOffsets places up to four entities side by side inside a stage.
var slotOffsets = [4]float64{-0.9, -0.3, 0.3, 0.9}

// SlotOffset returns the entity's lateral offset within a stage region.
func (e Entity) SlotOffset() float64 {
	return slotOffsets[e.Slot%len(slotOffsets)]
}

// DeriveSeed folds the run seed with an entity id into that entity's private
// RNG seed. Each entity gets an independent stream, so entities can be
// synthesized in any order, or concurrently, with identical results.
func DeriveSeed(runSeed int64, entityID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(entityID))
	return runSeed ^ int64(h.Sum64())
}
