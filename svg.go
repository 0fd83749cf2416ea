package svgtrace

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultPrecision is the number of decimals used for the emitted coordinates.
const DefaultPrecision = 2

// Shape is the vector counterpart of a region: a filled outer subpath
// with its holes cut out by the even-odd fill rule.
type Shape struct {
	Region int
	Color  color.NRGBA
	Outer  Subpath
	Holes  []Subpath
}

// Vertices returns the number of path vertices of the shape, holes included.
func (s Shape) Vertices() int {
	n := s.Outer.Vertices()
	for _, h := range s.Holes {
		n += h.Vertices()
	}
	return n
}

// SVG is the traced vector document. Shapes are painted in slice order.
type SVG struct {
	// Width and Height are the dimensions of the source bitmap, which is also the viewBox.
	Width  int
	Height int
	Shapes []Shape

	StrokeWidth float64
	Precision   int
	// Scale multiplies the width and height attributes of the document.
	Scale float64

	// Palette and Regions describe the intermediate stages the document was built from.
	Palette Palette
	Regions int
}

// Serialize renders the shapes into an SVG document using the default precision.
func Serialize(width, height int, shapes []Shape, strokeWidth float64) string {
	doc := &SVG{
		Width:       width,
		Height:      height,
		Shapes:      shapes,
		StrokeWidth: strokeWidth,
		Precision:   DefaultPrecision,
		Scale:       1,
	}
	return doc.String()
}

// Vertices returns the total number of path vertices emitted in the document.
func (s *SVG) Vertices() int {
	var n int
	for _, sh := range s.Shapes {
		n += sh.Vertices()
	}
	return n
}

// Encode writes the document to w.
func (s *SVG) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, s.String()); err != nil {
		return fmt.Errorf("svgtrace: could not write the svg document: %w", err)
	}
	return nil
}

// String returns the SVG markup. The output depends only on the document
// content, so equal documents always produce the same bytes.
func (s *SVG) String() string {
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	prec := s.Precision

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%s" height="%s" viewBox="0 0 %d %d">`,
		formatNumber(float64(s.Width)*scale, prec),
		formatNumber(float64(s.Height)*scale, prec),
		s.Width, s.Height,
	)
	b.WriteByte('\n')

	for _, sh := range s.Shapes {
		hex := hexColor(sh.Color)
		b.WriteString(`<path fill="`)
		b.WriteString(hex)
		b.WriteString(`" fill-rule="evenodd"`)
		if sh.Color.A < 0xff {
			fmt.Fprintf(&b, ` fill-opacity="%s"`, formatNumber(float64(sh.Color.A)/0xff, 3))
		}
		if s.StrokeWidth > 0 {
			fmt.Fprintf(&b, ` stroke="%s" stroke-width="%s"`, hex, formatNumber(s.StrokeWidth, prec))
			if sh.Color.A < 0xff {
				fmt.Fprintf(&b, ` stroke-opacity="%s"`, formatNumber(float64(sh.Color.A)/0xff, 3))
			}
		}
		b.WriteString(` d="`)
		writeSubpath(&b, sh.Outer, prec)
		for _, h := range sh.Holes {
			b.WriteByte(' ')
			writeSubpath(&b, h, prec)
		}
		b.WriteString("\"/>\n")
	}
	b.WriteString("</svg>\n")
	return b.String()
}

// writeSubpath emits the path data of a closed subpath. The closing line
// back to the start point is implied by Z and is therefore omitted.
func writeSubpath(b *strings.Builder, sp Subpath, prec int) {
	b.WriteByte('M')
	writePoint(b, sp.Start, prec)
	for i, seg := range sp.Segments {
		switch seg.Kind {
		case QuadTo:
			b.WriteByte('Q')
			writePoint(b, seg.Ctrl, prec)
			b.WriteByte(' ')
			writePoint(b, seg.To, prec)
		default:
			if i == len(sp.Segments)-1 && seg.To == sp.Start {
				continue
			}
			b.WriteByte('L')
			writePoint(b, seg.To, prec)
		}
	}
	b.WriteByte('Z')
}

func writePoint(b *strings.Builder, p r2.Vec, prec int) {
	b.WriteString(formatNumber(p.X, prec))
	b.WriteByte(' ')
	b.WriteString(formatNumber(p.Y, prec))
}

// formatNumber rounds v to prec decimals and prints it in its shortest form.
func formatNumber(v float64, prec int) string {
	pow := math.Pow10(prec)
	r := math.Round(v*pow) / pow
	if r == 0 {
		// Avoid printing negative zero.
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
