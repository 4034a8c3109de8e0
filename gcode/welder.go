package gcode

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	arcwelder "github.com/kForth/ArcWelderLib"
)

// Stats summarizes one compression run.
type Stats struct {
	LinesRead     int
	ShapesEmitted int
	MovesAbsorbed int
	LengthRejects int
	FirmwareTrims int
}

// Welder streams gcode through an accumulator, replacing runs of linear
// moves with single curved commands where tolerance allows. Anything it does
// not recognize passes through unchanged, after the pending accumulation is
// flushed so output order matches input order.
type Welder struct {
	acc     *arcwelder.Accumulator
	tracker *Tracker
	out     *bufio.Writer

	// pending holds the original lines buffered during the accumulation, in
	// order, excluding the accumulation's seed position. Inert lines
	// (comments, blanks) ride along without counting as moves.
	pending []pendingLine
	last    arcwelder.Point
	stats   Stats
}

type pendingLine struct {
	text string
	move bool
}

// NewWelder wires an accumulator to an output stream.
func NewWelder(acc *arcwelder.Accumulator, out io.Writer) *Welder {
	return &Welder{
		acc:     acc,
		tracker: NewTracker(),
		out:     bufio.NewWriter(out),
	}
}

// WriteLine feeds one input line through the compressor.
func (w *Welder) WriteLine(line string) error {
	w.stats.LinesRead++
	if cmd, ok := ParseCommand(line); ok {
		// Arc and spline commands carry absolute coordinates, so moves can
		// only be absorbed while absolute positioning is in effect.
		if p, isMove := w.tracker.Observe(cmd); isMove && p.Distance > 0 &&
			w.tracker.AbsolutePositioning() {
			return w.addMove(p, line)
		}
		// A mode change, a G92 rebase, or a no-motion move (pure extrusion,
		// feed change, or repeat) may have shifted the tracker's state; the
		// next accumulation must seed from where the tracker now stands.
		w.last = w.tracker.Position()
	} else if len(w.pending) > 0 && inertLine(line) {
		// Comments and blank lines between moves ride along with the
		// accumulation instead of splitting it.
		w.pending = append(w.pending, pendingLine{text: line})
		return nil
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return w.writeRaw(line)
}

func (w *Welder) addMove(p arcwelder.Point, line string) error {
	if w.acc.SegmentCount() == 0 {
		w.acc.TryAddPoint(w.last)
	}
	if w.acc.TryAddPoint(p) {
		w.pending = append(w.pending, pendingLine{text: line, move: true})
		w.last = p
		return nil
	}
	// p ends the current accumulation; flush it and retry p against the
	// fresh one, seeded at the position the flushed output left off.
	if err := w.Flush(); err != nil {
		return err
	}
	if w.acc.SegmentCount() == 0 {
		w.acc.TryAddPoint(w.last)
	}
	if w.acc.TryAddPoint(p) {
		w.pending = append(w.pending, pendingLine{text: line, move: true})
		w.last = p
		return nil
	}
	w.last = p
	return w.writeRaw(line)
}

// Flush finalizes the pending accumulation: the accepted shape becomes one
// curved command (with any gate-rejected trailing moves replayed as-is), or
// the buffered moves are replayed unchanged. Inert lines that rode along are
// always written back out, after the shape that subsumed their neighbors.
func (w *Welder) Flush() error {
	covered := 0
	if w.acc.IsShape() {
		covered = w.acc.ShapePoints() - 1
		w.stats.ShapesEmitted++
		w.stats.MovesAbsorbed += covered
		if err := w.writeRaw(w.acc.Gcode()); err != nil {
			return err
		}
	}
	moves := 0
	for _, ln := range w.pending {
		if ln.move {
			moves++
			if moves <= covered {
				continue
			}
		}
		if err := w.writeRaw(ln.text); err != nil {
			return err
		}
	}
	w.pending = w.pending[:0]
	w.acc.Reset()
	return nil
}

// Close flushes the pending accumulation and the output buffer, and fills
// in the accumulator's rejection counters.
func (w *Welder) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	w.stats.LengthRejects = w.acc.GcodeLengthExceptions()
	w.stats.FirmwareTrims = w.acc.FirmwareCompensations()
	if err := w.out.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}

// Stats returns the run summary; call after Close.
func (w *Welder) Stats() Stats { return w.stats }

// inertLine reports whether line carries no command at all: blank, or a
// standalone comment.
func inertLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || trimmed[0] == ';'
}

func (w *Welder) writeRaw(line string) error {
	if _, err := w.out.WriteString(line); err != nil {
		return err
	}
	return w.out.WriteByte('\n')
}
