package arcwelder

import (
	"math"
	"testing"
)

// The length oracle and the formatter compute the same quantity by different
// means; they must agree exactly for every shape and precision combination.
func TestGcodeLengthMatchesFormatted(t *testing.T) {
	arcs := []Arc{
		{
			StartPoint:   Point{X: 10, Y: 0},
			EndPoint:     Point{X: 0, Y: 10},
			Center:       Point{},
			Radius:       10,
			AngleRadians: math.Pi / 2,
			Length:       10 * math.Pi / 2,
		},
		{
			StartPoint:   Point{X: -3.25, Y: 4.5, F: 1200},
			EndPoint:     Point{X: -107.6, Y: -0.004, F: 1800.6},
			Center:       Point{X: -55, Y: -92.3},
			Radius:       105.8,
			AngleRadians: -0.8,
			Length:       84.6,
		},
		{
			StartPoint:   Point{X: 0.001, Y: 0.002, Z: 0.2},
			EndPoint:     Point{X: 1999.9, Y: 0.5, Z: 14.75, EOffset: -3.5, IsExtruderRelative: false},
			Center:       Point{X: 1000, Y: -800},
			Radius:       1280.6,
			AngleRadians: 1.2,
			Length:       1536.7,
		},
		{
			// J comes out as a signed negative zero.
			StartPoint:   Point{X: 10, Y: 0},
			EndPoint:     Point{X: -10, Y: 0},
			Center:       Point{X: 0, Y: math.Copysign(0, -1)},
			Radius:       10,
			AngleRadians: math.Pi,
			Length:       10 * math.Pi,
		},
		{
			StartPoint:   Point{X: 5, Y: 5, Z: 1, F: 900},
			EndPoint:     Point{X: 5.004, Y: -5, Z: 3, F: 2400, EOffset: 12.345, IsExtruderRelative: true},
			Center:       Point{X: 0.049, Y: 0},
			Radius:       7.07,
			AngleRadians: -2.2,
			Length:       15.6,
		},
	}
	splines := []Spline{
		{
			StartPoint: Point{X: 0, Y: 0},
			EndPoint:   Point{X: 30, Y: 10},
			I:          9.8, J: 1.9, P: -10.2, Q: -2.1,
			Length: 32.4,
		},
		{
			StartPoint: Point{X: -2, Y: 7, Z: 0.4, F: 1500},
			EndPoint:   Point{X: -48.07, Y: -19.5, Z: 6.8, F: 450, EOffset: -0.0042},
			I:          -12, J: 0.5, P: 4, Q: 8,
			Length: 61.2,
		},
	}

	eRelatives := []float64{0, 1.2345, -0.08251}
	for _, xyzPrecision := range []int{0, 1, 2, 3} {
		for _, ePrecision := range []int{0, 3, 5} {
			for _, allow3D := range []bool{false, true} {
				for _, eRel := range eRelatives {
					st := emitState{
						eRelative:    eRel,
						allow3D:      allow3D,
						xyzTolerance: math.Pow(10, -float64(xyzPrecision)),
						xyzPrecision: xyzPrecision,
						ePrecision:   ePrecision,
					}
					for i, a := range arcs {
						gcode := a.gcode(st)
						if got, want := a.gcodeLength(st), len(gcode); got != want {
							t.Errorf("arc %d, xyz %d, e %d, 3d %v, eRel %v: oracle %d, formatted %q is %d",
								i, xyzPrecision, ePrecision, allow3D, eRel, got, gcode, want)
						}
					}
					for i, s := range splines {
						gcode := s.gcode(st)
						if got, want := s.gcodeLength(st), len(gcode); got != want {
							t.Errorf("spline %d, xyz %d, e %d, 3d %v, eRel %v: oracle %d, formatted %q is %d",
								i, xyzPrecision, ePrecision, allow3D, eRel, got, gcode, want)
						}
					}
				}
			}
		}
	}
}

func TestShapeFields(t *testing.T) {
	st := emitState{eRelative: 0.5, xyzTolerance: 0.001, xyzPrecision: 3, ePrecision: 5}

	// Relative extrusion reports the accumulated delta; absolute reports the
	// final offset.
	rel := shapeFields(Point{}, Point{EOffset: 9.9, IsExtruderRelative: true}, st, false)
	diff(t, 0.5, rel.e)
	abs := shapeFields(Point{}, Point{EOffset: 9.9}, st, false)
	diff(t, 9.9, abs.e)
	if !rel.hasE || !abs.hasE {
		t.Error("non-zero accumulated extrusion must emit E")
	}

	// No accumulated extrusion, no E.
	none := shapeFields(Point{}, Point{EOffset: 9.9}, emitState{xyzTolerance: 0.001}, false)
	if none.hasE {
		t.Error("zero accumulated extrusion must not emit E")
	}

	// F appears only when the feed rate changed and the new rate is at
	// least 1.
	if fl := shapeFields(Point{F: 1200}, Point{F: 1200}, st, false); fl.hasF {
		t.Error("an unchanged feed rate must not emit F")
	}
	if fl := shapeFields(Point{F: 1200}, Point{F: 1800}, st, false); !fl.hasF || fl.f != 1800 {
		t.Errorf("got (%v, %v), expected F 1800 to be emitted", fl.f, fl.hasF)
	}
	if fl := shapeFields(Point{F: 1}, Point{F: 0.4}, st, false); fl.hasF {
		t.Error("a sub-unit feed rate must not emit F")
	}

	// Z appears only when the endpoints differ beyond tolerance, and never
	// when suppressed.
	if fl := shapeFields(Point{Z: 0.2}, Point{Z: 0.2004}, st, false); fl.hasZ {
		t.Error("a z difference below tolerance must not emit Z")
	}
	if fl := shapeFields(Point{Z: 0.2}, Point{Z: 0.4}, st, false); !fl.hasZ {
		t.Error("a z difference beyond tolerance must emit Z")
	}
	if fl := shapeFields(Point{Z: 0.2}, Point{Z: 0.4}, st, true); fl.hasZ {
		t.Error("suppressZ must win over a z difference")
	}
}
