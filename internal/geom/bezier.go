package geom

// QuadBezier evaluates the quadratic Bezier curve from a to b through control
// point c at parameter t in [0,1], by de Casteljau reduction over Lerp.
// Transitions with a curve hint use this for pose interpolation only; it has
// no collision meaning.
func QuadBezier(a, c, b Vec3, t float64) Vec3 {
	return Lerp(Lerp(a, c, t), Lerp(c, b, t), t)
}
