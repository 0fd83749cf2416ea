package imop

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComp_Basic(t *testing.T) {
	assert := assert.New(t)

	op := InitOp()
	assert.Equal(SrcOver, op.Get())

	assert.NoError(op.Set(DstOver))
	assert.Equal(DstOver, op.Get())

	assert.Error(op.Set("unsupported_composite_operation"))
	assert.Equal(DstOver, op.Get())
}

func TestComp_Ops(t *testing.T) {
	assert := assert.New(t)
	op := InitOp()

	transparent := color.NRGBA{R: 0, G: 0, B: 0, A: 0}
	cyan := color.NRGBA{R: 33, G: 150, B: 243, A: 255}
	magenta := color.NRGBA{R: 233, G: 30, B: 99, A: 255}

	rect := image.Rect(0, 0, 10, 10)
	source := image.NewNRGBA(rect)
	backdrop := image.NewNRGBA(rect)

	draw.Draw(source, image.Rect(0, 4, 6, 10), &image.Uniform{cyan}, image.Point{}, draw.Src)
	draw.Draw(backdrop, image.Rect(4, 0, 10, 6), &image.Uniform{magenta}, image.Point{}, draw.Src)

	// Source over destination: the overlapping area keeps the source color.
	res := op.Draw(source, backdrop)
	assert.Equal(cyan, res.NRGBAAt(5, 5))
	assert.Equal(magenta, res.NRGBAAt(9, 0))
	assert.Equal(cyan, res.NRGBAAt(0, 9))
	assert.Equal(transparent, res.NRGBAAt(0, 0))

	// Destination over source: the overlapping area keeps the backdrop color.
	assert.NoError(op.Set(DstOver))
	res = op.Draw(source, backdrop)
	assert.Equal(magenta, res.NRGBAAt(5, 5))
	assert.Equal(cyan, res.NRGBAAt(0, 9))

	// Xor: the overlapping area becomes transparent.
	assert.NoError(op.Set(Xor))
	res = op.Draw(source, backdrop)
	assert.Equal(transparent, res.NRGBAAt(5, 5))
	assert.Equal(magenta, res.NRGBAAt(9, 0))

	// The inputs are never modified.
	assert.Equal(transparent, source.NRGBAAt(9, 0))
	assert.Equal(transparent, backdrop.NRGBAAt(0, 9))
}

func TestComp_Flatten(t *testing.T) {
	assert := assert.New(t)

	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 0})
	src.SetNRGBA(1, 0, color.NRGBA{R: 255, A: 128})

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	res := InitOp().Flatten(src, white)

	assert.Equal(white, res.NRGBAAt(0, 0))
	half := res.NRGBAAt(1, 0)
	assert.Equal(uint8(255), half.A)
	assert.Equal(uint8(255), half.R)
	assert.InDelta(127, int(half.G), 1)
	assert.InDelta(127, int(half.B), 1)
}

func TestComp_FlattenOps(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{})
	src.SetNRGBA(1, 0, red)

	testCases := []struct {
		op          string
		clear, full color.NRGBA
	}{
		{SrcOver, white, red},
		{Copy, color.NRGBA{}, red},
		{DstOver, white, white},
		{Xor, white, color.NRGBA{}},
	}
	for _, tc := range testCases {
		t.Run(tc.op, func(t *testing.T) {
			assert := assert.New(t)

			op := InitOp()
			assert.NoError(op.Set(tc.op))

			res := op.Flatten(src, white)
			assert.Equal(tc.clear, res.NRGBAAt(0, 0))
			assert.Equal(tc.full, res.NRGBAAt(1, 0))
		})
	}
}
