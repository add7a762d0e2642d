package geom

// Box is an axis-aligned bounding box described by its center and full extent
// on each axis, matching how stage regions are declared in scenario files.
type Box struct {
	Center Vec3 `json:"center" yaml:"center"`
	Size   Vec3 `json:"size" yaml:"size"`
}

// Contains reports whether p lies inside the box (boundary inclusive).
func (b Box) Contains(p Vec3) bool {
	hx, hy, hz := b.Size.X/2, b.Size.Y/2, b.Size.Z/2
	return p.X >= b.Center.X-hx && p.X <= b.Center.X+hx &&
		p.Y >= b.Center.Y-hy && p.Y <= b.Center.Y+hy &&
		p.Z >= b.Center.Z-hz && p.Z <= b.Center.Z+hz
}

// Clamp returns the closest point to p inside the box.
func (b Box) Clamp(p Vec3) Vec3 {
	return Vec3{
		X: clampRange(p.X, b.Center.X-b.Size.X/2, b.Center.X+b.Size.X/2),
		Y: clampRange(p.Y, b.Center.Y-b.Size.Y/2, b.Center.Y+b.Size.Y/2),
		Z: clampRange(p.Z, b.Center.Z-b.Size.Z/2, b.Center.Z+b.Size.Z/2),
	}
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
