package svgtrace

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func assertColor(t *testing.T, want, got color.NRGBA, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, 2, msgAndArgs...)
	assert.InDelta(t, want.G, got.G, 2, msgAndArgs...)
	assert.InDelta(t, want.B, got.B, 2, msgAndArgs...)
	assert.InDelta(t, want.A, got.A, 2, msgAndArgs...)
}

func TestRender_Ring(t *testing.T) {
	hole := Subpath{
		Start: r2.Vec{X: 5, Y: 5},
		Segments: []PathSegment{
			{Kind: LineTo, To: r2.Vec{X: 5, Y: 15}},
			{Kind: LineTo, To: r2.Vec{X: 15, Y: 15}},
			{Kind: LineTo, To: r2.Vec{X: 15, Y: 5}},
			{Kind: LineTo, To: r2.Vec{X: 5, Y: 5}},
		},
	}
	shapes := []Shape{{Color: red, Outer: square(0, 0, 20, 20), Holes: []Subpath{hole}}}

	img, err := Render(strings.NewReader(Serialize(20, 20, shapes, 0)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 20), img.Bounds())

	assertColor(t, red, img.NRGBAAt(1, 1))
	assertColor(t, red, img.NRGBAAt(18, 10))
	// Nothing is painted inside the hole.
	assert.Equal(t, uint8(0), img.NRGBAAt(10, 10).A)
}

func TestRender_TracedImage(t *testing.T) {
	p := DefaultProcessor()
	p.ColorSampling = false
	p.StrokeWidth = 0

	svg, err := p.Convert(ringImage())
	require.NoError(t, err)

	img, err := Render(strings.NewReader(svg))
	require.NoError(t, err)
	assertColor(t, red, img.NRGBAAt(1, 1))
	assertColor(t, blue, img.NRGBAAt(10, 10))
	assertColor(t, red, img.NRGBAAt(2, 17))
}

func TestRender_Invalid(t *testing.T) {
	_, err := Render(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))
	assert.Error(t, err)

	_, err = Render(strings.NewReader(""))
	assert.Error(t, err)
}
