package svgtrace

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/esimov/svgtrace/imop"
	"github.com/esimov/svgtrace/utils"
)

const (
	// MinColorCount is the smallest palette size used when color sampling is enabled.
	MinColorCount = 2

	minQuantCycles = 1
	maxQuantCycles = 16
	maxPrecision   = 6
)

// Processor options
type Processor struct {
	// LineTolerance is the maximum distance, in pixels, a removed vertex may lie from the simplified outline.
	LineTolerance float64
	// ColorSampling enables the palette quantization. Without it every distinct color is traced.
	ColorSampling bool
	// ColorCount is the maximum palette size with color sampling enabled. Values below 2 count as 2.
	ColorCount int
	// StrokeWidth of the path outlines, 0 disables the stroke.
	StrokeWidth float64
	// LineFilter drops the contours enclosing less than four square pixels.
	LineFilter bool

	// BlurRadius is the sigma of the Gaussian blur applied before the palette reduction.
	BlurRadius float64
	// QuantCycles is the number of k-means refinement passes, between 1 and 16.
	QuantCycles int
	// Precision is the number of decimals of the emitted numbers, between 0 and 6.
	Precision int
	// Scale multiplies the width and height of the document. 0 means 1.
	Scale float64
	// Background, when set, is the color transparent pixels are flattened onto.
	Background *color.NRGBA
	// Composite is the operation mixing the image with the Background:
	// src_over (default), dst_over, copy or xor.
	Composite string
}

// DefaultProcessor returns a processor with the recommended settings.
func DefaultProcessor() *Processor {
	return &Processor{
		LineTolerance: 1,
		ColorSampling: true,
		ColorCount:    8,
		StrokeWidth:   1,
		LineFilter:    false,
		QuantCycles:   3,
		Precision:     DefaultPrecision,
		Scale:         1,
	}
}

// Params is the immutable parameter set handed to the pipeline stages.
type Params struct {
	LineTolerance float64
	ColorSampling bool
	ColorCount    int
	StrokeWidth   float64
	LineFilter    bool
	BlurRadius    float64
	QuantCycles   int
	Precision     int
	Scale         float64
	Background    *color.NRGBA
	Composite     string
}

// Params clamps the processor options to their ranges and validates the result.
// It returns an InvalidParameter error for negative, NaN or infinite values.
func (p *Processor) Params() (Params, error) {
	params := Params{
		LineTolerance: p.LineTolerance,
		ColorSampling: p.ColorSampling,
		ColorCount:    utils.Max(p.ColorCount, MinColorCount),
		StrokeWidth:   p.StrokeWidth,
		LineFilter:    p.LineFilter,
		BlurRadius:    p.BlurRadius,
		QuantCycles:   utils.Clamp(p.QuantCycles, minQuantCycles, maxQuantCycles),
		Precision:     utils.Clamp(p.Precision, 0, maxPrecision),
		Scale:         p.Scale,
		Composite:     p.Composite,
	}
	if params.Scale == 0 {
		params.Scale = 1
	}
	if params.Composite == "" {
		params.Composite = imop.SrcOver
	}
	if p.Background != nil {
		bg := *p.Background
		params.Background = &bg
	}
	if err := params.validate(); err != nil {
		return Params{}, err
	}
	return params, nil
}

func (p Params) validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"line tolerance", p.LineTolerance},
		{"stroke width", p.StrokeWidth},
		{"blur radius", p.BlurRadius},
		{"scale", p.Scale},
	} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) || v.value < 0 {
			return newError(InvalidParameter, "params", "%s must be a finite non-negative number, got %v", v.name, v.value)
		}
	}
	if p.Scale == 0 {
		return newError(InvalidParameter, "params", "scale must be positive")
	}
	if err := imop.InitOp().Set(p.Composite); err != nil {
		return &Error{Kind: InvalidParameter, Op: "params", Err: err}
	}
	return nil
}

// Trace converts the image into a vector document.
//
// The image goes through the palette reduction, the region segmentation,
// the contour tracing and the path simplification; every region whose outline
// survives the simplification becomes a shape of the document.
func (p *Processor) Trace(img image.Image) (*SVG, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	params, err := p.Params()
	if err != nil {
		return nil, err
	}
	log := Logger()

	src := imgToNRGBA(img)
	if params.Background != nil {
		cop := imop.InitOp()
		if err := cop.Set(params.Composite); err != nil {
			return nil, &Error{Kind: InvalidParameter, Op: "trace", Err: err}
		}
		src = cop.Flatten(src, *params.Background)
		log.Debug("background composited", "op", cop.Get())
	}
	if params.BlurRadius > 0 {
		src = imaging.Blur(src, params.BlurRadius)
	}

	palette, index := ReducePalette(src, params.ColorSampling, params.ColorCount, params.QuantCycles)
	log.Debug("palette reduced", "colors", len(palette), "sampling", params.ColorSampling)

	seg := Segment(index)
	log.Debug("image segmented", "regions", len(seg.Regions))

	doc := &SVG{
		Width:       index.Width,
		Height:      index.Height,
		StrokeWidth: params.StrokeWidth,
		Precision:   params.Precision,
		Scale:       params.Scale,
		Palette:     palette,
		Regions:     len(seg.Regions),
	}

	for _, r := range seg.Regions {
		outer, holes, err := seg.Trace(r.ID)
		if err != nil {
			return nil, err
		}
		path, ok := Simplify(outer, params.LineTolerance, params.LineFilter)
		if !ok {
			continue
		}
		shape := Shape{
			Region: r.ID,
			Color:  palette[r.Color],
			Outer:  path,
		}
		for _, h := range holes {
			if hole, ok := Simplify(h, params.LineTolerance, params.LineFilter); ok {
				shape.Holes = append(shape.Holes, hole)
			}
		}
		doc.Shapes = append(doc.Shapes, shape)
	}
	log.Debug("paths emitted", "paths", len(doc.Shapes), "vertices", doc.Vertices())

	return doc, nil
}

// Convert traces the image and returns the SVG markup.
func (p *Processor) Convert(img image.Image) (string, error) {
	doc, err := p.Trace(img)
	if err != nil {
		return "", err
	}
	return doc.String(), nil
}

// Process decodes the image read from r and writes the traced SVG document into w.
// We are using the io package, since we can provide different input and output types,
// as long as they implement the io.Reader and io.Writer interface.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	img, err := decodeImg(r)
	if err != nil {
		return err
	}
	doc, err := p.Trace(img)
	if err != nil {
		return fmt.Errorf("could not trace the image: %w", err)
	}
	return doc.Encode(w)
}
