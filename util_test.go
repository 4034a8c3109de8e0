package arcwelder

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// circlePoints samples n positions along a circle of radius r about
// (cx, cy), sweeping from startAngle by sweep radians, with per-sample
// travel distances filled in. Positive sweep runs counter-clockwise.
func circlePoints(cx, cy, r, startAngle, sweep float64, n int) []Point {
	pts := make([]Point, n)
	for i := range pts {
		theta := startAngle + sweep*float64(i)/float64(n-1)
		pts[i] = Point{
			X: cx + r*math.Cos(theta),
			Y: cy + r*math.Sin(theta),
		}
		if i > 0 {
			pts[i].Distance = pts[i].DistanceTo(pts[i-1])
		}
	}
	return pts
}

// feedAll feeds pts in order and returns the index of the first rejected
// sample, or -1 when every sample is absorbed.
func feedAll(a *Accumulator, pts []Point) int {
	for i, p := range pts {
		if !a.TryAddPoint(p) {
			return i
		}
	}
	return -1
}

func pathLengthOf(pts []Point) float64 {
	total := 0.0
	for _, p := range pts[1:] {
		total += p.Distance
	}
	return total
}
