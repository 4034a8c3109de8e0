package arcwelder

import "math"

// Point is one sampled printer position: the target of a single linear move,
// already resolved to absolute coordinates by the host's position tracker.
// Points are immutable once created.
type Point struct {
	X float64
	Y float64
	Z float64
	// EOffset is the absolute extruder position after the move; ERelative is
	// the extrusion delta of the move itself. IsExtruderRelative records
	// which mode the source command used.
	EOffset            float64
	ERelative          float64
	IsExtruderRelative bool
	// F is the feed rate in effect for the move.
	F float64
	// Distance is the euclidean distance from the previous sample in the
	// same stream.
	Distance float64
}

// DistanceTo returns the euclidean distance between two samples.
func (p Point) DistanceTo(o Point) float64 {
	return math.Sqrt(sq(o.X-p.X) + sq(o.Y-p.Y) + sq(o.Z-p.Z))
}

func midpoint(p1, p2 Point) Point {
	return Point{
		X: 0.5 * (p1.X + p2.X),
		Y: 0.5 * (p1.Y + p2.Y),
		Z: 0.5 * (p1.Z + p2.Z),
	}
}

func sq(v float64) float64 { return v * v }
