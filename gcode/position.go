package gcode

import (
	"math"

	arcwelder "github.com/kForth/ArcWelderLib"
)

// Tracker resolves the moves of a gcode stream to absolute position samples.
// It follows the mode commands that change how coordinates are interpreted
// (G90/G91, M82/M83) and the logical-position reset (G92).
type Tracker struct {
	x, y, z          float64
	e                float64
	f                float64
	absolutePosition bool
	relativeExtruder bool
}

// NewTracker returns a tracker in the firmware's boot state: absolute
// positioning, absolute extrusion, everything at the origin.
func NewTracker() *Tracker {
	return &Tracker{absolutePosition: true}
}

// AbsolutePositioning reports whether G90 absolute coordinates are in
// effect.
func (t *Tracker) AbsolutePositioning() bool { return t.absolutePosition }

// Position returns the current absolute position as a sample with no travel
// distance; it is what a new accumulation seeds from.
func (t *Tracker) Position() arcwelder.Point {
	return arcwelder.Point{
		X: t.x, Y: t.y, Z: t.z,
		EOffset:            t.e,
		IsExtruderRelative: t.relativeExtruder,
		F:                  t.f,
	}
}

// Observe consumes one parsed command. For linear moves (G0/G1) it applies
// the motion and returns the resulting sample and true. Mode and reset
// commands update the tracker and return false, as does everything the
// tracker does not model.
func (t *Tracker) Observe(cmd Command) (arcwelder.Point, bool) {
	switch cmd.Code {
	case "G90":
		t.absolutePosition = true
	case "G91":
		t.absolutePosition = false
	case "M82":
		t.relativeExtruder = false
	case "M83":
		t.relativeExtruder = true
	case "G92":
		// Redefine the logical position without motion. A bare G92 zeroes
		// every axis.
		if len(cmd.Params) == 0 {
			t.x, t.y, t.z, t.e = 0, 0, 0, 0
			break
		}
		if v, ok := cmd.Params['X']; ok {
			t.x = v
		}
		if v, ok := cmd.Params['Y']; ok {
			t.y = v
		}
		if v, ok := cmd.Params['Z']; ok {
			t.z = v
		}
		if v, ok := cmd.Params['E']; ok {
			t.e = v
		}
	case "G0", "G1":
		return t.move(cmd), true
	}
	return arcwelder.Point{}, false
}

func (t *Tracker) move(cmd Command) arcwelder.Point {
	px, py, pz := t.x, t.y, t.z
	t.x = t.axis(t.x, cmd, 'X')
	t.y = t.axis(t.y, cmd, 'Y')
	t.z = t.axis(t.z, cmd, 'Z')

	var eRelative float64
	if v, ok := cmd.Params['E']; ok {
		if t.relativeExtruder {
			eRelative = v
			t.e += v
		} else {
			eRelative = v - t.e
			t.e = v
		}
	}
	if v, ok := cmd.Params['F']; ok {
		t.f = v
	}

	dx, dy, dz := t.x-px, t.y-py, t.z-pz
	return arcwelder.Point{
		X: t.x, Y: t.y, Z: t.z,
		EOffset:            t.e,
		ERelative:          eRelative,
		IsExtruderRelative: t.relativeExtruder,
		F:                  t.f,
		Distance:           math.Sqrt(dx*dx + dy*dy + dz*dz),
	}
}

func (t *Tracker) axis(current float64, cmd Command, letter byte) float64 {
	v, ok := cmd.Params[letter]
	if !ok {
		return current
	}
	if t.absolutePosition {
		return v
	}
	return current + v
}
