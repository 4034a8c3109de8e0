package arcwelder

import (
	"math"
	"strings"
	"testing"
)

func fitArcDefaults(pts []Point) (Arc, bool) {
	return fitArc(pts, pathLengthOf(pts), DefaultMaxRadiusMM,
		DefaultResolutionMM, DefaultPathTolerancePercent, 0.001, false)
}

func TestFitArcCounterClockwise(t *testing.T) {
	pts := circlePoints(0, 0, 10, 0, math.Pi/2, 16)
	arc, ok := fitArcDefaults(pts)
	if !ok {
		t.Fatal("expected quarter-circle samples to fit")
	}
	if arc.AngleRadians <= 0 {
		t.Errorf("got angle %v, expected positive (counter-clockwise)", arc.AngleRadians)
	}
	if math.Abs(arc.AngleRadians-math.Pi/2) > 1e-6 {
		t.Errorf("got angle %v, expected π/2", arc.AngleRadians)
	}
	if math.Abs(arc.Radius-10) > 1e-6 {
		t.Errorf("got radius %v, expected 10", arc.Radius)
	}
	if math.Abs(arc.Length-10*math.Pi/2) > 1e-6 {
		t.Errorf("got length %v, expected %v", arc.Length, 10*math.Pi/2)
	}
	if math.Abs(arc.I()-(-10)) > 1e-6 || math.Abs(arc.J()) > 1e-6 {
		t.Errorf("got offsets (%v, %v), expected (-10, 0)", arc.I(), arc.J())
	}
}

func TestFitArcClockwise(t *testing.T) {
	pts := circlePoints(0, 0, 10, math.Pi/2, -math.Pi/2, 16)
	arc, ok := fitArcDefaults(pts)
	if !ok {
		t.Fatal("expected clockwise quarter-circle samples to fit")
	}
	if arc.AngleRadians >= 0 {
		t.Errorf("got angle %v, expected negative (clockwise)", arc.AngleRadians)
	}
	if got := arc.gcode(emitState{xyzTolerance: 0.001, xyzPrecision: 3, ePrecision: 5}); !strings.HasPrefix(got, "G2 ") {
		t.Errorf("clockwise arc must serialize as G2, got %q", got)
	}
}

func TestFitArcCollinear(t *testing.T) {
	pts := make([]Point, 4)
	for i := range pts {
		pts[i] = Point{X: float64(i), Y: 2 * float64(i)}
		if i > 0 {
			pts[i].Distance = pts[i].DistanceTo(pts[i-1])
		}
	}
	if _, ok := fitArcDefaults(pts); ok {
		t.Error("collinear samples must never fit an arc")
	}
}

func TestFitArcToleranceBounds(t *testing.T) {
	pts := circlePoints(3, -4, 25, 1, 0.9, 24)
	arc, ok := fitArcDefaults(pts)
	if !ok {
		t.Fatal("expected smooth arc samples to fit")
	}
	// Every absorbed sample stays within the resolution of the fitted
	// circumference.
	for i, p := range pts {
		dev := math.Abs(math.Hypot(p.X-arc.Center.X, p.Y-arc.Center.Y) - arc.Radius)
		if dev > DefaultResolutionMM {
			t.Errorf("sample %d deviates %v, more than the resolution", i, dev)
		}
	}
	// The arc length stays within the path tolerance of the linear length.
	pathLen := pathLengthOf(pts)
	if rel := math.Abs(arc.Length-pathLen) / pathLen; rel > DefaultPathTolerancePercent/100 {
		t.Errorf("length deviates %v relative, more than the path tolerance", rel)
	}
}

func TestFitArcPathTolerance(t *testing.T) {
	pts := circlePoints(0, 0, 10, 0, math.Pi/2, 16)
	// A grossly understated path length must fail the length check even
	// though the geometry is perfect.
	if _, ok := fitArc(pts, pathLengthOf(pts)/2, DefaultMaxRadiusMM,
		DefaultResolutionMM, DefaultPathTolerancePercent, 0.001, false); ok {
		t.Error("arc length far from the path length must be rejected")
	}
}

func TestFitArcHelix(t *testing.T) {
	pts := circlePoints(0, 0, 10, 0, math.Pi/2, 16)
	for i := range pts {
		pts[i].Z = 0.01 * float64(i)
		if i > 0 {
			pts[i].Distance = pts[i].DistanceTo(pts[i-1])
		}
	}
	if _, ok := fitArc(pts, pathLengthOf(pts), DefaultMaxRadiusMM,
		DefaultResolutionMM, DefaultPathTolerancePercent, 0.001, false); ok {
		t.Error("z motion must fail the planar fit")
	}
	arc, ok := fitArc(pts, pathLengthOf(pts), DefaultMaxRadiusMM,
		DefaultResolutionMM, DefaultPathTolerancePercent, 0.001, true)
	if !ok {
		t.Fatal("expected the helix to fit with 3D shapes allowed")
	}
	planar := 10 * math.Pi / 2
	want := math.Hypot(planar, pts[len(pts)-1].Z-pts[0].Z)
	if math.Abs(arc.Length-want) > 1e-6 {
		t.Errorf("got helix length %v, expected %v", arc.Length, want)
	}
	st := emitState{allow3D: true, xyzTolerance: 0.001, xyzPrecision: 3, ePrecision: 5}
	if gcode := arc.gcode(st); !strings.Contains(gcode, " Z") {
		t.Errorf("helical arc must carry Z, got %q", gcode)
	}
}

func TestArcDegenerate(t *testing.T) {
	// Offsets below tolerance: undefined I/J.
	a := Arc{
		StartPoint: Point{X: 0, Y: 0},
		Center:     Point{X: 0.0002, Y: -0.0003},
		Length:     5,
	}
	if !a.degenerate(0.001) {
		t.Error("near-zero center offsets must be degenerate")
	}
	// Near-zero length.
	b := Arc{
		StartPoint: Point{X: 0, Y: 0},
		Center:     Point{X: 5, Y: 5},
		Length:     0.0004,
	}
	if !b.degenerate(0.001) {
		t.Error("near-zero length must be degenerate")
	}
	c := Arc{
		StartPoint: Point{X: 0, Y: 0},
		Center:     Point{X: 5, Y: 5},
		Length:     5,
	}
	if c.degenerate(0.001) {
		t.Error("a healthy arc must not be degenerate")
	}
}

func TestArcGcodeFields(t *testing.T) {
	pts := circlePoints(0, 0, 10, 0, math.Pi/2, 16)
	arc, ok := fitArcDefaults(pts)
	if !ok {
		t.Fatal("expected quarter-circle samples to fit")
	}
	st := emitState{xyzTolerance: 0.001, xyzPrecision: 3, ePrecision: 5}
	gcode := arc.gcode(st)
	want := "G3 X" + Format(arc.EndPoint.X, 3) +
		" Y" + Format(arc.EndPoint.Y, 3) +
		" I" + Format(arc.I(), 3) +
		" J" + Format(arc.J(), 3)
	diff(t, want, gcode)

	// Relative extrusion and a feed change add E and F.
	stE := st
	stE.eRelative = 1.2345
	arcE := arc
	arcE.EndPoint.IsExtruderRelative = true
	arcE.EndPoint.F = 1800
	gcodeE := arcE.gcode(stE)
	if !strings.Contains(gcodeE, " E1.23450") {
		t.Errorf("expected relative E field, got %q", gcodeE)
	}
	if !strings.Contains(gcodeE, " F1800") {
		t.Errorf("expected F field, got %q", gcodeE)
	}
	if strings.HasSuffix(gcodeE, " ") {
		t.Errorf("no trailing whitespace allowed, got %q", gcodeE)
	}
}
