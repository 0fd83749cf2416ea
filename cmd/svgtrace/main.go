package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/esimov/svgtrace"
	"github.com/esimov/svgtrace/imop"
	"github.com/esimov/svgtrace/utils"
)

const HelpBanner = `
┌─┐┬  ┬┌─┐┌┬┐┬─┐┌─┐┌─┐┌─┐
└─┐└┐┌┘│ ┬ │ ├┬┘├─┤│  ├┤
└─┘ └┘ └─┘ ┴ ┴└─┴ ┴└─┘└─┘

Raster to vector image tracer.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source        = flag.String("in", pipeName, "Source image, directory or URL")
	destination   = flag.String("out", pipeName, "Destination svg file or directory")
	lineTolerance = flag.Float64("ltres", 1, "Line tolerance in pixels")
	colorSampling = flag.Bool("sampling", true, "Reduce the colors of the image")
	colorCount    = flag.Int("colors", 8, "Number of colors used with color sampling (min 2)")
	strokeWidth   = flag.Float64("stroke", 1, "Stroke width, 0 disables the stroke")
	lineFilter    = flag.Bool("filter", false, "Remove the small, noisy shapes")
	blurRadius    = flag.Float64("blur", 0, "Gaussian blur applied before tracing")
	quantCycles   = flag.Int("cycles", 3, "Color quantization cycles (1-16)")
	precision     = flag.Int("precision", svgtrace.DefaultPrecision, "Decimal places of the svg coordinates (0-6)")
	scale         = flag.Float64("scale", 1, "Scale factor of the svg dimensions")
	background    = flag.String("bg", "", "Background color for transparent pixels, e.g. #ffffff")
	composite     = flag.String("composite", imop.SrcOver, "Operation mixing the image with the background: src_over, dst_over, copy or xor")
	preview       = flag.String("preview", "", "Render the traced image into a png, jpg, bmp or tiff file")
	workers       = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	debug         = flag.Bool("debug", false, "Log the tracing statistics")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *debug {
		svgtrace.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	proc := &svgtrace.Processor{
		LineTolerance: *lineTolerance,
		ColorSampling: *colorSampling,
		ColorCount:    *colorCount,
		StrokeWidth:   *strokeWidth,
		LineFilter:    *lineFilter,
		BlurRadius:    *blurRadius,
		QuantCycles:   *quantCycles,
		Precision:     *precision,
		Scale:         *scale,
		Composite:     *composite,
	}

	if *background != "" {
		bg, err := utils.HexToRGBA(*background)
		if err != nil {
			log.Fatal(errorText("Invalid background color: %v", err))
		}
		proc.Background = &bg
	}

	if _, err := proc.Params(); err != nil {
		flag.Usage()
		log.Fatal(errorText("\n%v", err))
	}

	op := &svgtrace.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Preview:  *preview,
		Workers:  *workers,
	}
	if err := proc.Execute(op); err != nil {
		log.Fatal(errorText("\nError tracing the image: %v", err))
	}
}

// errorText formats an error message in the error color of the terminal.
func errorText(format string, args ...any) string {
	return utils.DecorateText(fmt.Sprintf(format, args...), utils.ErrorMessage) + utils.DefaultColor
}
