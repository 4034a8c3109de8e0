package arcwelder

import "math"

// Defaults for Options. MaxRadiusMM is additionally clamped to
// maxRadiusHardCap no matter what the caller asks for.
const (
	DefaultMinSegments          = 3
	DefaultMaxSegments          = 50
	DefaultMMPerSegment         = 0
	DefaultResolutionMM         = 0.05
	DefaultPathTolerancePercent = 5.0
	DefaultMaxGcodeLength       = 0
	DefaultXYZPrecision         = 3
	DefaultEPrecision           = 5
	DefaultMaxRadiusMM          = 1000000

	maxRadiusHardCap = 1000000
)

// Options is the full configuration surface of an accumulator.
type Options struct {
	// Allow3DShapes permits arcs whose z ramps uniformly along the path
	// (helixes). Splines may always vary z.
	Allow3DShapes bool
	// MinSegments is the warm-up floor: samples are buffered without fitting
	// until this many are held. It also serves as the firmware interpolation
	// divisor.
	MinSegments int
	// MaxSegments caps the buffer; a full buffer forces a flush. Zero or
	// negative means uncapped.
	MaxSegments int
	// MMPerSegment enables the firmware interpolation gate when positive.
	MMPerSegment float64
	// ResolutionMM is the maximum perpendicular deviation allowed between
	// the original path and the fitted curve.
	ResolutionMM float64
	// PathTolerancePercent bounds the relative difference between the curve
	// length and the linear path length it replaces.
	PathTolerancePercent float64
	// MaxGcodeLength rejects shapes whose serialized command would exceed
	// this many characters. Zero means unlimited.
	MaxGcodeLength int
	// XYZPrecision and EPrecision are the fractional digit counts used when
	// emitting coordinates and extrusion values. The coordinate equality
	// tolerance is derived from XYZPrecision.
	XYZPrecision int
	EPrecision   int
	// MaxRadiusMM rejects near-linear arc fits. Only arcs use it.
	MaxRadiusMM float64
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		MinSegments:          DefaultMinSegments,
		MaxSegments:          DefaultMaxSegments,
		MMPerSegment:         DefaultMMPerSegment,
		ResolutionMM:         DefaultResolutionMM,
		PathTolerancePercent: DefaultPathTolerancePercent,
		MaxGcodeLength:       DefaultMaxGcodeLength,
		XYZPrecision:         DefaultXYZPrecision,
		EPrecision:           DefaultEPrecision,
		MaxRadiusMM:          DefaultMaxRadiusMM,
	}
}

// ShapeKind selects which curved primitive an accumulator fits.
type ShapeKind int

const (
	KindArc ShapeKind = iota
	KindSpline
)

// shape is the capability set shared by the two curve kinds: a tagged
// alternative to subclassing. Arc and Spline are plain values, so "revert to
// the previous shape" is just not assigning the candidate.
type shape interface {
	curveLength() float64
	degenerate(tolerance float64) bool
	gcode(st emitState) string
	gcodeLength(st emitState) int
}

// Accumulator grows a run of linear moves sample by sample and always holds
// the longest prefix of the run that is representable as a single curved
// command within tolerance.
//
// An accumulator is strictly sequential and owns all of its state; feed
// independent motion streams to independent accumulators.
type Accumulator struct {
	opts         Options
	kind         ShapeKind
	xyzTolerance float64

	points              pointBuffer
	originalShapeLength float64
	eRelative           float64
	current             shape
	isShape             bool
	shapePoints         int
	// shapeE is eRelative as of the last acceptance: the extrusion the
	// emitted command must carry. Later gate-rejected samples keep adding to
	// eRelative without being covered by the shape.
	shapeE float64

	gcodeLengthExceptions int
	firmwareCompensations int
}

// NewAccumulator returns an accumulator fitting the given shape kind. A
// MaxRadiusMM beyond the hard cap is clamped, not an error.
func NewAccumulator(kind ShapeKind, opts Options) *Accumulator {
	if opts.MaxRadiusMM > maxRadiusHardCap {
		opts.MaxRadiusMM = maxRadiusHardCap
	}
	return &Accumulator{
		opts:         opts,
		kind:         kind,
		xyzTolerance: math.Pow(10, -float64(opts.XYZPrecision)),
	}
}

// TryAddPoint feeds the next sample. True means the sample now belongs to
// the current accumulation. False means it could not be absorbed: the sample
// was rolled back, whatever shape was accepted before the call is final, and
// the caller must flush and start a new accumulation (typically seeding it
// with the flushed shape's end position and re-feeding the rejected sample).
//
// The first sample of an accumulation seeds the buffer and contributes no
// path length; the move that reached it belongs to whatever came before.
func (a *Accumulator) TryAddPoint(p Point) bool {
	if a.opts.MaxSegments > 0 && a.points.count() >= a.opts.MaxSegments {
		return false
	}
	if a.points.count() == 0 {
		a.points.append(p)
		return true
	}

	a.points.append(p)
	previousLength := a.originalShapeLength
	previousE := a.eRelative
	a.originalShapeLength += p.Distance
	a.eRelative += p.ERelative

	// Below the warm-up floor the fit is under-determined; buffer and move
	// on.
	if a.points.count() < a.opts.MinSegments {
		return true
	}

	candidate, ok := a.fit()
	if !ok {
		a.points.removeLast()
		a.originalShapeLength = previousLength
		a.eRelative = previousE
		return false
	}

	if !a.accept(candidate) {
		// Gated out: the sample stays, the previously accepted shape remains
		// current, and a later sample may still produce an acceptable refit.
		return true
	}

	a.current = candidate
	a.shapePoints = a.points.count()
	a.shapeE = a.eRelative
	a.isShape = true
	return true
}

// fit reruns the kind-specific fit over the entire buffer.
func (a *Accumulator) fit() (shape, bool) {
	switch a.kind {
	case KindSpline:
		s, ok := fitSpline(a.points.points, a.originalShapeLength,
			a.opts.ResolutionMM, a.opts.PathTolerancePercent, a.xyzTolerance)
		if !ok {
			return nil, false
		}
		return s, true
	default:
		arc, ok := fitArc(a.points.points, a.originalShapeLength,
			a.opts.MaxRadiusMM, a.opts.ResolutionMM, a.opts.PathTolerancePercent,
			a.xyzTolerance, a.opts.Allow3DShapes)
		if !ok {
			return nil, false
		}
		return arc, true
	}
}

// accept applies the acceptance gates, in order, to a freshly fit candidate.
func (a *Accumulator) accept(s shape) bool {
	if a.opts.MaxGcodeLength > 0 && s.gcodeLength(a.emitState(a.eRelative)) > a.opts.MaxGcodeLength {
		a.gcodeLengthExceptions++
		return false
	}
	if arc, ok := s.(Arc); ok && a.opts.MinSegments > 0 && a.opts.MMPerSegment > 0 {
		// Estimate how many segments the firmware will interpolate this
		// arc into; too few and it must stay linear.
		circumference := 2 * math.Pi * arc.Radius
		segments := int(math.Floor(circumference / float64(a.opts.MinSegments)))
		if segments < a.opts.MinSegments {
			segments = int(math.Floor(circumference / a.originalShapeLength))
			if segments < a.opts.MinSegments {
				a.firmwareCompensations++
				return false
			}
		}
	}
	return !s.degenerate(a.xyzTolerance)
}

func (a *Accumulator) emitState(eRelative float64) emitState {
	return emitState{
		eRelative:    eRelative,
		allow3D:      a.opts.Allow3DShapes,
		xyzTolerance: a.xyzTolerance,
		xyzPrecision: a.opts.XYZPrecision,
		ePrecision:   a.opts.EPrecision,
	}
}

// IsShape reports whether a shape has been accepted for the current
// accumulation.
func (a *Accumulator) IsShape() bool { return a.isShape }

// Length returns the accepted shape's curve length, or zero when none is
// accepted.
func (a *Accumulator) Length() float64 {
	if a.current == nil {
		return 0
	}
	return a.current.curveLength()
}

// GcodeLength predicts the exact serialized length of Gcode's result without
// building the string.
func (a *Accumulator) GcodeLength() int {
	if a.current == nil {
		return 0
	}
	return a.current.gcodeLength(a.emitState(a.shapeE))
}

// Gcode serializes the accepted shape as a single motion command, with no
// trailing whitespace.
func (a *Accumulator) Gcode() string {
	if a.current == nil {
		return ""
	}
	return a.current.gcode(a.emitState(a.shapeE))
}

// MaxRadius returns the configured arc radius cap after clamping.
func (a *Accumulator) MaxRadius() float64 { return a.opts.MaxRadiusMM }

// SegmentCount returns the number of buffered samples, the seed included.
func (a *Accumulator) SegmentCount() int { return a.points.count() }

// ShapePoints returns how many buffered samples the accepted shape spans,
// the seed included. Samples beyond it were gate-rejected extensions and
// still need to be emitted as linear moves by the caller on flush. Zero when
// no shape is accepted.
func (a *Accumulator) ShapePoints() int {
	if !a.isShape {
		return 0
	}
	return a.shapePoints
}

// FirmwareCompensations counts candidates rejected by the firmware
// interpolation gate. The counter survives Reset.
func (a *Accumulator) FirmwareCompensations() int { return a.firmwareCompensations }

// GcodeLengthExceptions counts candidates rejected by the output length
// gate. The counter survives Reset.
func (a *Accumulator) GcodeLengthExceptions() int { return a.gcodeLengthExceptions }

// Reset clears the accumulation for the next run of moves. Rejection
// counters persist.
func (a *Accumulator) Reset() {
	a.points.clear()
	a.originalShapeLength = 0
	a.eRelative = 0
	a.current = nil
	a.isShape = false
	a.shapePoints = 0
	a.shapeE = 0
}
