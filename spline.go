package arcwelder

import (
	"math"
	"strings"

	"honnef.co/go/curve"
)

// Accuracy targets for the cubic Bézier arclength and nearest-point queries.
// Both are far below the coarsest resolution anyone configures.
const (
	arclenAccuracy  = 1e-6
	nearestAccuracy = 1e-6
)

// Spline is a run of linear moves re-expressed as a single cubic spline
// move (G5). I/J is the first control point as an offset from the start
// point, P/Q the second as an offset from the end point. The fit computes
// both, but the formatter does not yet emit them; there is no settled
// convention for how firmwares want them scaled, so G5 output carries only
// the endpoint for now.
type Spline struct {
	StartPoint Point
	EndPoint   Point
	I, J       float64
	P, Q       float64
	Length     float64
}

// fitSpline attempts to represent the whole buffer as one cubic Bézier. The
// control arms are solved by least squares under a chord-length
// parameterization; every interior sample must then lie within resolution of
// the curve, and the curve length must stay within tolerancePct percent of
// the linear path length. Splines are free to vary all three axes: z is
// treated as a linear lift along the curve parameter.
func fitSpline(points []Point, pathLength, resolution, tolerancePct, xyzTolerance float64) (Spline, bool) {
	n := len(points)
	start := points[0]
	end := points[n-1]

	p0 := curve.Pt(start.X, start.Y)
	p3 := curve.Pt(end.X, end.Y)
	chord := p3.Sub(p0)
	chordLen := chord.Hypot()
	if isZero(chordLen, xyzTolerance) {
		return Spline{}, false
	}

	// A straight run gains nothing from a spline and leaves the control arms
	// undefined; reject when every interior sample hugs the chord.
	straight := true
	for i := 1; i < n-1; i++ {
		d := math.Abs(chord.Cross(curve.Pt(points[i].X, points[i].Y).Sub(p0))) / chordLen
		if d > xyzTolerance {
			straight = false
			break
		}
	}
	if straight {
		return Spline{}, false
	}

	// Chord-length parameters from the per-sample travel distances.
	t := make([]float64, n)
	total := 0.0
	for i := 1; i < n; i++ {
		total += points[i].Distance
		t[i] = total
	}
	if isZero(total, xyzTolerance) {
		return Spline{}, false
	}
	for i := range t {
		t[i] /= total
	}

	tan1 := curve.Pt(points[1].X, points[1].Y).Sub(p0).Normalize()
	tan2 := curve.Pt(points[n-2].X, points[n-2].Y).Sub(p3).Normalize()
	if tan1.IsNaN() || tan2.IsNaN() {
		return Spline{}, false
	}

	// Least squares for the two control arm lengths along the end tangents
	// (Schneider's cubic fitting formulation).
	var c00, c01, c11, x0, x1 float64
	for i := 0; i < n; i++ {
		u := t[i]
		b0 := (1 - u) * (1 - u) * (1 - u)
		b1 := 3 * u * (1 - u) * (1 - u)
		b2 := 3 * u * u * (1 - u)
		b3 := u * u * u
		a1 := tan1.Mul(b1)
		a2 := tan2.Mul(b2)
		c00 += a1.Dot(a1)
		c01 += a1.Dot(a2)
		c11 += a2.Dot(a2)
		base := curve.Vec2(p0).Mul(b0 + b1).Add(curve.Vec2(p3).Mul(b2 + b3))
		d := curve.Pt(points[i].X, points[i].Y).Sub(curve.Point(base))
		x0 += a1.Dot(d)
		x1 += a2.Dot(d)
	}
	det := c00*c11 - c01*c01
	var alpha1, alpha2 float64
	if !isZero(det, 1e-12) {
		alpha1 = (x0*c11 - x1*c01) / det
		alpha2 = (c00*x1 - c01*x0) / det
	}
	if alpha1 <= 0 || alpha2 <= 0 || math.IsNaN(alpha1) || math.IsNaN(alpha2) {
		// Singular or backwards-pointing solution; fall back to arms a third
		// of the chord long (the Wu/Barsky heuristic).
		alpha1 = chordLen / 3
		alpha2 = chordLen / 3
	}

	bez := curve.CubicBez{
		P0: p0,
		P1: p0.Translate(tan1.Mul(alpha1)),
		P2: p3.Translate(tan2.Mul(alpha2)),
		P3: p3,
	}

	resSq := resolution * resolution
	zRange := end.Z - start.Z
	for i := 1; i < n-1; i++ {
		distSq, u := bez.Nearest(curve.Pt(points[i].X, points[i].Y), nearestAccuracy)
		if distSq > resSq {
			return Spline{}, false
		}
		// The sample's z must agree with the linear lift at its projection.
		if !isEqual(points[i].Z, start.Z+zRange*u, math.Max(resolution, xyzTolerance)) {
			return Spline{}, false
		}
	}

	length := bez.Arclen(arclenAccuracy)
	if !isZero(zRange, zeroTolerance) {
		length = math.Hypot(length, zRange)
	}
	if !withinPercent(length, pathLength, tolerancePct) {
		return Spline{}, false
	}

	return Spline{
		StartPoint: start,
		EndPoint:   end,
		I:          tan1.X * alpha1,
		J:          tan1.Y * alpha1,
		P:          tan2.X * alpha2,
		Q:          tan2.Y * alpha2,
		Length:     length,
	}, true
}

func (s Spline) curveLength() float64 { return s.Length }

// degenerate reports whether the fitted spline is too short to mean
// anything.
func (s Spline) degenerate(tolerance float64) bool {
	return s.Length < tolerance
}

// gcode serializes the spline as a G5 command carrying the endpoint and, as
// applicable, Z, E, and F.
func (s Spline) gcode(st emitState) string {
	fl := shapeFields(s.StartPoint, s.EndPoint, st, false)

	var sb strings.Builder
	sb.Grow(64)
	sb.WriteString("G5")
	sb.WriteString(" X")
	sb.WriteString(Format(s.EndPoint.X, st.xyzPrecision))
	sb.WriteString(" Y")
	sb.WriteString(Format(s.EndPoint.Y, st.xyzPrecision))
	if fl.hasZ {
		sb.WriteString(" Z")
		sb.WriteString(Format(s.EndPoint.Z, st.xyzPrecision))
	}
	if fl.hasE {
		sb.WriteString(" E")
		sb.WriteString(Format(fl.e, st.ePrecision))
	}
	if fl.hasF {
		sb.WriteString(" F")
		sb.WriteString(Format(fl.f, 0))
	}
	return sb.String()
}

// gcodeLength predicts len(s.gcode(st)) without building the string, field
// for field in lockstep with gcode.
func (s Spline) gcodeLength(st emitState) int {
	fl := shapeFields(s.StartPoint, s.EndPoint, st, false)

	spaces := 2 + b2i(fl.hasZ) + b2i(fl.hasE) + b2i(fl.hasF)
	letters := 2 + b2i(fl.hasZ) + b2i(fl.hasE) + b2i(fl.hasF)
	decimalPoints := 2 + b2i(fl.hasZ) + b2i(fl.hasE)
	digits := DigitCount(s.EndPoint.X, st.xyzPrecision) +
		DigitCount(s.EndPoint.Y, st.xyzPrecision)
	if fl.hasZ {
		digits += DigitCount(s.EndPoint.Z, st.xyzPrecision)
	}
	if fl.hasE {
		digits += DigitCount(fl.e, st.ePrecision)
	}
	if fl.hasF {
		digits += DigitCount(fl.f, 0)
	}
	minusSigns := b2i(s.EndPoint.X < 0) +
		b2i(s.EndPoint.Y < 0) +
		b2i(fl.hasZ && s.EndPoint.Z < 0) +
		b2i(fl.hasE && fl.e < 0)

	return 2 + spaces + letters + decimalPoints + digits + minusSigns
}
