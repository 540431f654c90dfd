package geo

// SegmentIntersect returns the intersection point of segments (p1,p2)
// and (p3,p4), per spec.md 4.2: "standard parametric test returning the
// single intersection point when both parameters lie in [0, 1]."
// Parallel segments (denominator below 1e-10) report no intersection.
func SegmentIntersect(p1, p2, p3, p4 LocalPoint) (LocalPoint, bool) {
	d1 := Sub(p2, p1)
	d2 := Sub(p4, p3)

	denom := d1.X*d2.Y - d1.Y*d2.X
	if denom > -1e-10 && denom < 1e-10 {
		return LocalPoint{}, false
	}

	diff := Sub(p3, p1)
	t := (diff.X*d2.Y - diff.Y*d2.X) / denom
	u := (diff.X*d1.Y - diff.Y*d1.X) / denom

	if t < 0 || t > 1 || u < 0 || u > 1 {
		return LocalPoint{}, false
	}

	return Add(p1, Scale(d1, t)), true
}
