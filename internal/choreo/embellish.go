package choreo

import (
	"math"

	"github.com/akoul99/channel-viz/internal/geom"
)

// Embellisher produces the squash/stretch/settle overshoot layered onto a
// stage arrival. It is a pure function of the arrival pose and the travel
// direction; it never changes control mode and is disabled for visits that
// cede control to physics, which supplies its own bounce.
type Embellisher struct {
	// Frame offsets of each phase after the arrival sample. SettleOffset
	// bounds the whole embellishment window.
	SquashOffset  int
	StretchOffset int
	SettleOffset  int

	// Overshoot is how far past the target the squash phase carries the
	// entity along the incoming direction, in scene units.
	Overshoot float64

	// Compression is the scale factor applied along the travel axis during
	// squash; the stretch phase rebounds by the inverse amount.
	Compression float64
}

// DefaultEmbellisher matches the bounce tuning of the richest scene variant.
func DefaultEmbellisher() *Embellisher {
	return &Embellisher{
		SquashOffset:  2,
		StretchOffset: 4,
		SettleOffset:  6,
		Overshoot:     0.25,
		Compression:   0.7,
	}
}

// PoseDelta is one embellishment keyframe relative to the arrival: an
// absolute frame offset, a position offset from the arrival target, and an
// absolute scale.
type PoseDelta struct {
	DFrame   int
	Position geom.Vec3
	Scale    geom.Vec3
}

// Embellish returns the ordered pose deltas for a single arrival. direction
// is the incoming travel direction; a zero direction yields no overshoot but
// still settles scale. The result is independent of entity identity.
func (e *Embellisher) Embellish(direction geom.Vec3) []PoseDelta {
	dir := geom.Normalize(direction)

	return []PoseDelta{
		{
			DFrame:   e.SquashOffset,
			Position: geom.Scale(dir, e.Overshoot),
			Scale:    axisScale(dir, e.Compression),
		},
		{
			DFrame:   e.StretchOffset,
			Position: geom.Scale(dir, -e.Overshoot/2),
			Scale:    axisScale(dir, 1/e.Compression),
		},
		{
			DFrame:   e.SettleOffset,
			Position: geom.Vec3{},
			Scale:    geom.One,
		},
	}
}

// Window returns the frame span of the embellishment. A visit whose dwell is
// not longer than the window skips embellishment entirely.
func (e *Embellisher) Window() int {
	return e.SettleOffset
}

// axisScale blends the factor onto each axis in proportion to how much the
// travel direction lies along it, leaving perpendicular axes at unit scale.
func axisScale(dir geom.Vec3, factor float64) geom.Vec3 {
	blend := func(component float64) float64 {
		w := math.Abs(component)
		return 1 + (factor-1)*w
	}
	return geom.Vec3{X: blend(dir.X), Y: blend(dir.Y), Z: blend(dir.Z)}
}
