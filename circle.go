package arcwelder

import "math"

// circle is the intermediate result of an arc fit: the circumcircle that
// every buffered point must hug.
type circle struct {
	center Point
	radius float64
}

// tryCreateCircle computes the circle through three points. It fails when
// the points are collinear (or close enough that the center is
// ill-conditioned) or the resulting radius exceeds maxRadius. Very large
// radii indicate a near-linear point set better left as straight moves.
func tryCreateCircle(p1, p2, p3 Point, maxRadius float64) (circle, bool) {
	a := p2.X - p1.X
	b := p2.Y - p1.Y
	c := p3.X - p1.X
	d := p3.Y - p1.Y
	e := a*(p1.X+p2.X) + b*(p1.Y+p2.Y)
	f := c*(p1.X+p3.X) + d*(p1.Y+p3.Y)
	g := 2.0 * (a*(p3.Y-p2.Y) - b*(p3.X-p2.X))
	if isZero(g, zeroTolerance) {
		return circle{}, false
	}
	cx := (d*e - b*f) / g
	cy := (a*f - c*e) / g
	r := math.Hypot(cx-p1.X, cy-p1.Y)
	if r > maxRadius {
		return circle{}, false
	}
	return circle{center: Point{X: cx, Y: cy, Z: p1.Z}, radius: r}, true
}

// fitCircle finds a circle within resolution of every buffered point by
// testing the circumcircle of the first, middle, and last points against the
// whole buffer.
func fitCircle(points []Point, maxRadius, resolution, xyzTolerance float64, allow3D bool) (circle, bool) {
	mid := len(points) / 2
	c, ok := tryCreateCircle(points[0], points[mid], points[len(points)-1], maxRadius)
	if !ok {
		return circle{}, false
	}
	if c.overDeviation(points, resolution, xyzTolerance, allow3D) {
		return circle{}, false
	}
	return c, true
}

// overDeviation reports whether any buffered point, or the midpoint of any
// consecutive pair, strays farther than resolution from the circumference.
// Midpoints catch paths that cut across the circle between on-circle
// samples. When 3D shapes are disallowed every point must share the first
// point's z; otherwise z must ramp at a constant rate per unit of travel so
// the arc stays a clean helix.
func (c circle) overDeviation(points []Point, resolution, xyzTolerance float64, allow3D bool) bool {
	// First and last point fit the circumcircle exactly by construction, but
	// the last point's z still needs the planarity or slope check.
	zSlope := 0.0
	for i := 1; i < len(points); i++ {
		if allow3D {
			slope := (points[i].Z - points[i-1].Z) / points[i].Distance
			if i == 1 {
				zSlope = slope
			} else if !isEqual(zSlope, slope, xyzTolerance) {
				return true
			}
		} else if !isEqual(points[i].Z, points[0].Z, xyzTolerance) {
			return true
		}
		if i < len(points)-1 && math.Abs(c.distanceFromCenter(points[i])-c.radius) > resolution {
			return true
		}
	}
	for i := 0; i < len(points)-1; i++ {
		m := midpoint(points[i], points[i+1])
		if math.Abs(c.distanceFromCenter(m)-c.radius) > resolution {
			return true
		}
	}
	return false
}

// distanceFromCenter measures in the xy plane only; z is handled separately
// by the helix checks.
func (c circle) distanceFromCenter(p Point) float64 {
	return math.Hypot(p.X-c.center.X, p.Y-c.center.Y)
}

// polarRadians returns p's angle about the center, normalized to [0, 2π).
func (c circle) polarRadians(p Point) float64 {
	theta := math.Atan2(p.Y-c.center.Y, p.X-c.center.X)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}
