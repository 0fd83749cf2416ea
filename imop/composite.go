// Package imop implements the Porter-Duff composition operations used for
// mixing a source image with its backdrop.
//
// The tracer works on flat colors, so semi-transparent pixels produce a large
// number of near duplicate palette entries. When a background color is provided
// the source image is composited with it, using the active operation, before
// the palette is reduced.
package imop

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

const (
	Copy    = "copy"
	SrcOver = "src_over"
	DstOver = "dst_over"
	Xor     = "xor"
)

// Composite holds the currently active composition operation.
type Composite struct {
	current string
	ops     []string
}

// InitOp initializes a new Composite with the source-over operation activated.
func InitOp() *Composite {
	return &Composite{
		current: SrcOver,
		ops:     []string{Copy, SrcOver, DstOver, Xor},
	}
}

// Set activates one of the supported composition operations.
func (op *Composite) Set(cop string) error {
	for _, o := range op.ops {
		if o == cop {
			op.current = cop
			return nil
		}
	}
	return fmt.Errorf("unsupported composite operation: %q", cop)
}

// Get returns the currently active composition operation.
func (op *Composite) Get() string {
	return op.current
}

// Draw composites src with the dst backdrop and returns the result as a new image.
// Both images must have the same dimensions; the inputs are left untouched.
func (op *Composite) Draw(src, dst *image.NRGBA) *image.NRGBA {
	bounds := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	db := dst.Bounds()

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			s := src.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			b := dst.NRGBAAt(db.Min.X+x, db.Min.Y+y)
			out.SetNRGBA(x, y, op.compose(s, b))
		}
	}
	return out
}

// compose applies the alpha composition formula to a single pixel pair.
func (op *Composite) compose(s, b color.NRGBA) color.NRGBA {
	as := float64(s.A) / 255
	ab := float64(b.A) / 255

	// Fs and Fb are the Porter-Duff fractions of source and backdrop.
	var fs, fb float64
	switch op.current {
	case Copy:
		return s
	case SrcOver:
		fs, fb = 1, 1-as
	case DstOver:
		fs, fb = 1-ab, 1
	case Xor:
		fs, fb = 1-ab, 1-as
	}

	ao := as*fs + ab*fb
	if ao == 0 {
		return color.NRGBA{}
	}
	mix := func(cs, cb uint8) uint8 {
		v := (float64(cs)*as*fs + float64(cb)*ab*fb) / ao
		return uint8(math.Min(255, math.Round(v)))
	}
	return color.NRGBA{
		R: mix(s.R, b.R),
		G: mix(s.G, b.G),
		B: mix(s.B, b.B),
		A: uint8(math.Round(ao * 255)),
	}
}

// Flatten composites src with a uniform background color using the active operation.
func (op *Composite) Flatten(src *image.NRGBA, bg color.NRGBA) *image.NRGBA {
	bounds := src.Bounds()
	backdrop := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for i := 0; i < len(backdrop.Pix); i += 4 {
		backdrop.Pix[i+0] = bg.R
		backdrop.Pix[i+1] = bg.G
		backdrop.Pix[i+2] = bg.B
		backdrop.Pix[i+3] = bg.A
	}
	return op.Draw(src, backdrop)
}
