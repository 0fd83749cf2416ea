package svgtrace

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContour_Rectangle(t *testing.T) {
	assert := assert.New(t)

	seg := segmentImage(solidImage(10, 10, red))
	outer, holes, err := seg.Trace(0)
	require.NoError(t, err)

	assert.Equal(Contour{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, outer)
	assert.Empty(holes)
	assert.Equal(100.0, outer.Area())
	assert.Equal(image.Rect(0, 0, 10, 10), outer.Bounds())
}

func TestContour_SinglePixel(t *testing.T) {
	assert := assert.New(t)

	img := solidImage(3, 3, white)
	img.SetNRGBA(1, 1, black)
	seg := segmentImage(img)
	require.Len(t, seg.Regions, 2)

	outer, holes, err := seg.Trace(0)
	require.NoError(t, err)
	assert.Equal(Contour{{0, 0}, {3, 0}, {3, 3}, {0, 3}}, outer)
	if assert.Len(holes, 1) {
		assert.Equal(Contour{{1, 1}, {1, 2}, {2, 2}, {2, 1}}, holes[0])
		assert.Equal(-1.0, holes[0].Area())
	}

	pixel, holes, err := seg.Trace(1)
	require.NoError(t, err)
	assert.Equal(Contour{{1, 1}, {2, 1}, {2, 2}, {1, 2}}, pixel)
	assert.Equal(1.0, pixel.Area())
	assert.Empty(holes)
}

func TestContour_RingHole(t *testing.T) {
	assert := assert.New(t)

	seg := segmentImage(ringImage())

	outer, holes, err := seg.Trace(0)
	require.NoError(t, err)
	assert.Equal(Contour{{0, 0}, {20, 0}, {20, 20}, {0, 20}}, outer)
	require.Len(t, holes, 1)
	assert.Equal(Contour{{5, 5}, {5, 15}, {15, 15}, {15, 5}}, holes[0])

	// Holes are wound opposite to the outer boundaries.
	assert.Greater(outer.Area(), 0.0)
	assert.Equal(-100.0, holes[0].Area())

	inner, innerHoles, err := seg.Trace(1)
	require.NoError(t, err)
	assert.Equal(Contour{{5, 5}, {15, 5}, {15, 15}, {5, 15}}, inner)
	assert.Empty(innerHoles)
}

func TestContour_MultipleHoles(t *testing.T) {
	img := solidImage(5, 3, white)
	img.SetNRGBA(1, 1, black)
	img.SetNRGBA(3, 1, black)

	seg := segmentImage(img)
	_, holes, err := seg.Trace(0)
	require.NoError(t, err)
	require.Len(t, holes, 2)
	assert.Equal(t, image.Pt(1, 1), holes[0][0])
	assert.Equal(t, image.Pt(3, 1), holes[1][0])
}

func TestContour_Staircase(t *testing.T) {
	assert := assert.New(t)

	img := solidImage(2, 2, red)
	img.SetNRGBA(1, 0, blue)

	seg := segmentImage(img)
	outer, holes, err := seg.Trace(0)
	require.NoError(t, err)
	assert.Equal(Contour{{0, 0}, {1, 0}, {1, 1}, {2, 1}, {2, 2}, {0, 2}}, outer)
	assert.Equal(3.0, outer.Area())
	assert.Empty(holes)
}

func TestContour_DiagonalNeighbours(t *testing.T) {
	img := solidImage(2, 2, white)
	img.SetNRGBA(0, 0, black)
	img.SetNRGBA(1, 1, black)

	seg := segmentImage(img)
	for id := range seg.Regions {
		outer, holes, err := seg.Trace(id)
		require.NoError(t, err)
		assert.Len(t, outer, 4)
		assert.Equal(t, 1.0, outer.Area())
		assert.Empty(t, holes)
	}
}

func TestContour_ClockwiseFromTopLeft(t *testing.T) {
	img := solidImage(12, 12, white)
	fillRect(img, image.Rect(2, 3, 9, 5), red)
	fillRect(img, image.Rect(4, 5, 6, 10), red)

	seg := segmentImage(img)
	require.Len(t, seg.Regions, 2)

	outer, _, err := seg.Trace(1)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(2, 3), outer[0])
	assert.Equal(t, image.Pt(9, 3), outer[1])
	assert.Equal(t, float64(7*2+2*5), outer.Area())
}

func TestContour_InvalidRegion(t *testing.T) {
	seg := segmentImage(solidImage(2, 2, red))

	for _, id := range []int{-1, 1, 10} {
		_, _, err := seg.Trace(id)
		assert.ErrorIs(t, err, ErrTracingFailure)

		var terr *Error
		if assert.ErrorAs(t, err, &terr) {
			assert.Equal(t, TracingFailure, terr.Kind)
			assert.Equal(t, "trace", terr.Op)
		}
	}
}

func TestContour_CorruptedSegmentation(t *testing.T) {
	seg := segmentImage(solidImage(2, 2, red))
	seg.Regions[0].Start = image.Pt(5, 5)

	_, _, err := seg.Trace(0)
	assert.ErrorIs(t, err, ErrTracingFailure)
}
