// Package arcwelder compresses runs of linear gcode moves (G0/G1) into
// single curved moves, circular arcs (G2/G3) or cubic splines (G5),
// whenever the replacement stays within a configured tolerance of the
// original tool path. Fewer commands means smaller files and, more
// importantly, fewer per-command stalls in firmware that must interpolate
// each move in real time.
//
// The heart of the package is [Accumulator], a forward-only, greedy fitter.
// The host feeds it one sampled position per linear move via
// [Accumulator.TryAddPoint]. Each call either absorbs the sample into the
// current candidate shape or fails, in which case the sample is rolled back,
// the previously accepted shape is final, and the host is expected to flush
// it (see [Accumulator.Gcode]) and start a new accumulation.
//
// Every successful call refits the entire buffer from scratch, so the
// current shape is always a single consistent curve. A freshly fit candidate must
// then clear three acceptance gates before it replaces the current shape: a
// cap on the serialized command length, a firmware interpolation check that
// rejects arcs the firmware would slice into too few segments, and a
// degeneracy check that rejects undefined or near-zero-length curves. A
// gated-out candidate is not an error; the sample stays buffered and fitting
// continues with the previous shape.
//
// The engine is purely sequential and allocation-light. One accumulator
// serves one motion stream; independent streams want independent
// accumulators.
//
// Parsing and position tracking live in the gcode subpackage; the arcwelder
// command ties the two together into a file-to-file compressor.
package arcwelder
