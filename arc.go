package arcwelder

import (
	"math"
	"strings"
)

// Arc is a run of linear moves re-expressed as a single circular move. The
// sign of AngleRadians selects the command: negative is clockwise (G2),
// positive counter-clockwise (G3).
type Arc struct {
	StartPoint   Point
	EndPoint     Point
	Center       Point
	Radius       float64
	AngleRadians float64
	Length       float64
}

// I and J are the center offsets relative to the arc's start point, the form
// G2/G3 commands expect.
func (a Arc) I() float64 { return a.Center.X - a.StartPoint.X }
func (a Arc) J() float64 { return a.Center.Y - a.StartPoint.Y }

// fitArc attempts to represent the whole buffer as one arc. pathLength is
// the cumulative linear length of the buffered moves; the arc is rejected
// when its own length deviates from it by more than tolerancePct percent,
// which bounds how far the extruder's notion of traveled distance can drift.
func fitArc(points []Point, pathLength, maxRadius, resolution, tolerancePct, xyzTolerance float64, allow3D bool) (Arc, bool) {
	c, ok := fitCircle(points, maxRadius, resolution, xyzTolerance, allow3D)
	if !ok {
		return Arc{}, false
	}
	mid := (len(points)-2)/2 + 1
	return arcFromCircle(c, points[0], points[mid], points[len(points)-1], pathLength, tolerancePct, allow3D)
}

// arcFromCircle derives the direction and included angle from the polar
// angles of the start, an interior, and the end point about the center.
func arcFromCircle(c circle, start, mid, end Point, pathLength, tolerancePct float64, allow3D bool) (Arc, bool) {
	startTheta := c.polarRadians(start)
	midTheta := c.polarRadians(mid)
	endTheta := c.polarRadians(end)

	var angle float64
	var clockwise, determined bool
	switch {
	case endTheta > startTheta:
		if startTheta < midTheta && midTheta < endTheta {
			angle = endTheta - startTheta
			determined = true
		} else if midTheta < startTheta || endTheta < midTheta {
			angle = startTheta + (2*math.Pi - endTheta)
			clockwise = true
			determined = true
		}
	case startTheta > endTheta:
		if startTheta < midTheta || midTheta < endTheta {
			angle = endTheta + (2*math.Pi - startTheta)
			determined = true
		} else if endTheta < midTheta && midTheta < startTheta {
			angle = startTheta - endTheta
			clockwise = true
			determined = true
		}
	}
	if !determined || isZero(angle, zeroTolerance) {
		return Arc{}, false
	}

	length := arcLength(c.radius, angle, start, end, allow3D)
	if !withinPercent(length, pathLength, tolerancePct) {
		// The interior sample can land on the wrong side in rare
		// configurations and flip the direction test; the reversed angle is
		// tried before giving up.
		reversed := 2*math.Pi - angle
		revLength := arcLength(c.radius, reversed, start, end, allow3D)
		if !withinPercent(revLength, pathLength, tolerancePct) {
			return Arc{}, false
		}
		angle = reversed
		clockwise = !clockwise
		length = revLength
	}

	if clockwise {
		angle = -angle
	}
	return Arc{
		StartPoint:   start,
		EndPoint:     end,
		Center:       c.center,
		Radius:       c.radius,
		AngleRadians: angle,
		Length:       length,
	}, true
}

// arcLength is radius*angle in the plane, lifted to a helix when the
// endpoints differ in z and 3D arcs are allowed.
func arcLength(radius, angle float64, start, end Point, allow3D bool) float64 {
	length := radius * angle
	if allow3D {
		if dz := end.Z - start.Z; !isZero(dz, zeroTolerance) {
			length = math.Hypot(length, dz)
		}
	}
	return length
}

func (a Arc) curveLength() float64 { return a.Length }

// degenerate reports whether the fitted arc is meaningless: both center
// offsets indistinguishable from zero (an undefined I/J pair) or a curve
// length below the coordinate tolerance.
func (a Arc) degenerate(tolerance float64) bool {
	if isZero(a.I(), tolerance) && isZero(a.J(), tolerance) {
		return true
	}
	return a.Length < tolerance
}

// gcode serializes the arc as a G2 or G3 command. I and J are emitted even
// when zero: some viewers mishandle arcs with the offset omitted.
func (a Arc) gcode(st emitState) string {
	fl := shapeFields(a.StartPoint, a.EndPoint, st, !st.allow3D)

	var sb strings.Builder
	sb.Grow(96)
	if a.AngleRadians < 0 {
		sb.WriteString("G2")
	} else {
		sb.WriteString("G3")
	}
	sb.WriteString(" X")
	sb.WriteString(Format(a.EndPoint.X, st.xyzPrecision))
	sb.WriteString(" Y")
	sb.WriteString(Format(a.EndPoint.Y, st.xyzPrecision))
	if fl.hasZ {
		sb.WriteString(" Z")
		sb.WriteString(Format(a.EndPoint.Z, st.xyzPrecision))
	}
	sb.WriteString(" I")
	sb.WriteString(Format(a.I(), st.xyzPrecision))
	sb.WriteString(" J")
	sb.WriteString(Format(a.J(), st.xyzPrecision))
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

// gcodeLength predicts len(a.gcode(st)) without building the string. It must
// stay in exact lockstep with gcode; the property tests hold the two against
// each other.
func (a Arc) gcodeLength(st emitState) int {
	fl := shapeFields(a.StartPoint, a.EndPoint, st, !st.allow3D)
	i, j := a.I(), a.J()

	spaces := 4 + b2i(fl.hasZ) + b2i(fl.hasE) + b2i(fl.hasF)
	letters := 4 + b2i(fl.hasZ) + b2i(fl.hasE) + b2i(fl.hasF)
	// F is rendered as an integer and carries no decimal point.
	decimalPoints := 4 + b2i(fl.hasZ) + b2i(fl.hasE)
	digits := DigitCount(a.EndPoint.X, st.xyzPrecision) +
		DigitCount(a.EndPoint.Y, st.xyzPrecision) +
		DigitCount(i, st.xyzPrecision) +
		DigitCount(j, st.xyzPrecision)
	if fl.hasZ {
		digits += DigitCount(a.EndPoint.Z, st.xyzPrecision)
	}
	if fl.hasE {
		digits += DigitCount(fl.e, st.ePrecision)
	}
	if fl.hasF {
		digits += DigitCount(fl.f, 0)
	}
	minusSigns := b2i(a.EndPoint.X < 0) +
		b2i(a.EndPoint.Y < 0) +
		b2i(i < 0) +
		b2i(j < 0) +
		b2i(fl.hasZ && a.EndPoint.Z < 0) +
		b2i(fl.hasE && fl.e < 0)

	return 2 + spaces + letters + decimalPoints + digits + minusSigns
}
