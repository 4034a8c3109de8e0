// arcwelder compresses linear G0/G1 runs in a gcode stream into single
// G2/G3 arc or G5 spline commands within a configurable tolerance.
// It reads a file (or stdin), welds eligible move runs, and writes the
// compressed stream to a file (or stdout).
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/kForth/ArcWelderLib"
	"github.com/kForth/ArcWelderLib/gcode"
)

var version = "dev"

var (
	outputPath     string
	shapeName      string
	allow3D        bool
	minSegments    int
	maxSegments    int
	mmPerSegment   float64
	resolutionMM   float64
	pathTolerance  float64
	maxGcodeLength int
	xyzPrecision   int
	ePrecision     int
	maxRadiusMM    float64
	quiet          bool
)

func main() {
	root := &cobra.Command{
		Use:   "arcwelder [file]",
		Short: "Compress linear gcode moves into arcs and splines",
		Long: `arcwelder replaces runs of short G0/G1 moves that trace a circular arc
(or a smooth curve) with a single G2/G3 or G5 command, within the given
resolution. Reads the named file, or stdin when no file is given.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE:         run,
	}

	flags := root.Flags()
	flags.StringVarP(&outputPath, "output", "o", "", "output file (default stdout)")
	flags.StringVar(&shapeName, "shape", "arc", "shape to fit: arc or spline")
	flags.BoolVar(&allow3D, "allow-3d", false, "permit shapes with a uniform z ramp (vase mode)")
	flags.IntVar(&minSegments, "min-segments", arcwelder.DefaultMinSegments, "minimum moves before a shape may be emitted")
	flags.IntVar(&maxSegments, "max-segments", arcwelder.DefaultMaxSegments, "maximum moves absorbed into one shape (0 = unlimited)")
	flags.Float64Var(&mmPerSegment, "mm-per-segment", arcwelder.DefaultMMPerSegment, "firmware arc interpolation length; 0 disables the check")
	flags.Float64Var(&resolutionMM, "resolution", arcwelder.DefaultResolutionMM, "maximum deviation from the original toolpath in mm")
	flags.Float64Var(&pathTolerance, "path-tolerance", arcwelder.DefaultPathTolerancePercent, "allowed difference between shape and path length, percent")
	flags.IntVar(&maxGcodeLength, "max-gcode-length", arcwelder.DefaultMaxGcodeLength, "reject shape commands longer than this many characters (0 = unlimited)")
	flags.IntVar(&xyzPrecision, "xyz-precision", arcwelder.DefaultXYZPrecision, "decimal places for X, Y, Z, I and J")
	flags.IntVar(&ePrecision, "e-precision", arcwelder.DefaultEPrecision, "decimal places for E")
	flags.Float64Var(&maxRadiusMM, "max-radius", arcwelder.DefaultMaxRadiusMM, "largest arc radius to consider, in mm")
	flags.BoolVarP(&quiet, "quiet", "q", false, "suppress the summary on stderr")

	if err := fang.Execute(context.Background(), root); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	kind := arcwelder.KindArc
	switch shapeName {
	case "arc":
	case "spline":
		kind = arcwelder.KindSpline
	default:
		return fmt.Errorf("unknown shape %q (want arc or spline)", shapeName)
	}

	in := io.Reader(os.Stdin)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	out := io.Writer(os.Stdout)
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	opts := arcwelder.Options{
		Allow3DShapes:        allow3D,
		MinSegments:          minSegments,
		MaxSegments:          maxSegments,
		MMPerSegment:         mmPerSegment,
		ResolutionMM:         resolutionMM,
		PathTolerancePercent: pathTolerance,
		MaxGcodeLength:       maxGcodeLength,
		XYZPrecision:         xyzPrecision,
		EPrecision:           ePrecision,
		MaxRadiusMM:          maxRadiusMM,
	}

	w := gcode.NewWelder(arcwelder.NewAccumulator(kind, opts), out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := w.WriteLine(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	if !quiet {
		st := w.Stats()
		fmt.Fprintf(cmd.ErrOrStderr(),
			"read %d lines, emitted %d shapes covering %d moves (%d length rejects, %d firmware trims)\n",
			st.LinesRead, st.ShapesEmitted, st.MovesAbsorbed, st.LengthRejects, st.FirmwareTrims)
	}
	return nil
}
