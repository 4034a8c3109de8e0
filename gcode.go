package arcwelder

// emitState is the accumulator-side context the formatter and length oracle
// need: accumulated relative extrusion, the configured precisions, and the
// coordinate tolerance derived from them.
type emitState struct {
	eRelative    float64
	allow3D      bool
	xyzTolerance float64
	xyzPrecision int
	ePrecision   int
}

// gcodeFields captures the presence rules shared by the formatter and the
// length oracle of both shape kinds.
type gcodeFields struct {
	e    float64
	f    float64
	hasE bool
	hasF bool
	hasZ bool
}

// shapeFields resolves which optional fields a shape's command carries.
//
// E is present only when the shape extruded at all; its value is the
// accumulated delta in relative mode and the final absolute offset
// otherwise. F is present only when the feed rate changed across the shape
// and the new rate is at least 1. Z is present only when the endpoints
// differ by more than the coordinate tolerance; suppressZ forces it off for
// shapes that must stay planar.
func shapeFields(start, end Point, st emitState, suppressZ bool) gcodeFields {
	var fl gcodeFields
	if end.IsExtruderRelative {
		fl.e = st.eRelative
	} else {
		fl.e = end.EOffset
	}
	fl.hasE = st.eRelative != 0
	if start.F != end.F {
		fl.f = end.F
	}
	fl.hasF = fl.f >= 1
	fl.hasZ = !suppressZ && !isEqual(start.Z, end.Z, st.xyzTolerance)
	return fl
}
