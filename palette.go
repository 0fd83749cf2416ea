package svgtrace

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/esimov/svgtrace/utils"
	"gonum.org/v1/gonum/spatial/r3"
)

// Palette is the ordered list of unique colors used by a traced image.
type Palette []color.NRGBA

// IndexMap holds for every pixel of the bitmap the index of its palette color.
type IndexMap struct {
	Width  int
	Height int
	Index  []int
}

// At returns the palette index of the pixel at (x, y).
func (m *IndexMap) At(x, y int) int {
	return m.Index[y*m.Width+x]
}

// swatch is a distinct input color together with the number of pixels using it.
type swatch struct {
	color color.NRGBA
	count int
}

// ReducePalette maps every pixel of img to a palette entry.
//
// Without sampling every distinct color becomes a palette entry, in the order
// of its first occurrence. With sampling the colors are quantized to at most
// count entries (count is clamped to a minimum of 2): median cut provides the
// initial clusters, which are refined with up to cycles k-means iterations.
// Pixels are assigned to the nearest palette color by euclidean distance in RGB
// space, ties going to the lowest palette index. Unused entries are dropped.
func ReducePalette(img *image.NRGBA, sampling bool, count, cycles int) (Palette, *IndexMap) {
	count = utils.Max(count, MinColorCount)
	cycles = utils.Max(cycles, 0)

	b := img.Bounds()
	m := &IndexMap{
		Width:  b.Dx(),
		Height: b.Dy(),
		Index:  make([]int, b.Dx()*b.Dy()),
	}

	var swatches []swatch
	lookup := make(map[color.NRGBA]int)
	for y := 0; y < m.Height; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < m.Width; x++ {
			px := img.Pix[off : off+4 : off+4]
			c := color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
			idx, ok := lookup[c]
			if !ok {
				idx = len(swatches)
				lookup[c] = idx
				swatches = append(swatches, swatch{color: c})
			}
			swatches[idx].count++
			m.Index[y*m.Width+x] = idx
			off += 4
		}
	}

	if !sampling || len(swatches) <= count {
		palette := make(Palette, len(swatches))
		for i, s := range swatches {
			palette[i] = s.color
		}
		return palette, m
	}

	centers, alphas := medianCut(swatches, count)
	kmeans(swatches, centers, alphas, cycles)

	candidates := make(Palette, len(centers))
	vecs := make([]r3.Vec, len(centers))
	for i := range centers {
		candidates[i] = toNRGBA(centers[i], alphas[i])
		vecs[i] = rgbVec(candidates[i])
	}

	// Final assignment against the rounded colors, then drop the entries nobody uses.
	nearestOf := make([]int, len(swatches))
	used := make([]int, len(candidates))
	for i, s := range swatches {
		nearestOf[i] = nearest(rgbVec(s.color), vecs)
		used[nearestOf[i]] += s.count
	}

	remap := make([]int, len(candidates))
	palette := make(Palette, 0, len(candidates))
	for i, c := range candidates {
		remap[i] = -1
		if used[i] > 0 {
			remap[i] = len(palette)
			palette = append(palette, c)
		}
	}

	for i, idx := range m.Index {
		m.Index[i] = remap[nearestOf[idx]]
	}
	return palette, m
}

// medianCut splits the color space into at most n boxes and returns the
// weighted mean color and alpha of each box.
func medianCut(swatches []swatch, n int) ([]r3.Vec, []float64) {
	type box struct {
		members []int
		pixels  int
		channel int
		span    uint8
	}

	measure := func(members []int) box {
		bx := box{members: members}
		lo := [3]uint8{255, 255, 255}
		hi := [3]uint8{}
		for _, m := range members {
			s := swatches[m]
			bx.pixels += s.count
			for ch, v := range [3]uint8{s.color.R, s.color.G, s.color.B} {
				lo[ch] = utils.Min(lo[ch], v)
				hi[ch] = utils.Max(hi[ch], v)
			}
		}
		for ch := 0; ch < 3; ch++ {
			if span := hi[ch] - lo[ch]; span > bx.span {
				bx.span = span
				bx.channel = ch
			}
		}
		return bx
	}

	all := make([]int, len(swatches))
	for i := range all {
		all[i] = i
	}
	boxes := []box{measure(all)}

	for len(boxes) < n {
		// Pick the box with the widest channel span, then the most pixels.
		pick := -1
		for i, bx := range boxes {
			if bx.span == 0 {
				continue
			}
			if pick < 0 || bx.span > boxes[pick].span ||
				(bx.span == boxes[pick].span && bx.pixels > boxes[pick].pixels) {
				pick = i
			}
		}
		if pick < 0 {
			break
		}

		bx := boxes[pick]
		members := append([]int(nil), bx.members...)
		sort.SliceStable(members, func(i, j int) bool {
			return channelOf(swatches[members[i]].color, bx.channel) <
				channelOf(swatches[members[j]].color, bx.channel)
		})

		// Split at the weighted median, keeping both halves non-empty.
		k, acc := 1, 0
		for i, m := range members {
			acc += swatches[m].count
			if 2*acc >= bx.pixels {
				k = i + 1
				break
			}
		}
		k = utils.Clamp(k, 1, len(members)-1)

		boxes[pick] = measure(members[:k])
		boxes = append(boxes, measure(members[k:]))
	}

	centers := make([]r3.Vec, len(boxes))
	alphas := make([]float64, len(boxes))
	for i, bx := range boxes {
		var sum r3.Vec
		var alpha float64
		for _, m := range bx.members {
			s := swatches[m]
			w := float64(s.count)
			sum = r3.Add(sum, r3.Scale(w, rgbVec(s.color)))
			alpha += w * float64(s.color.A)
		}
		centers[i] = r3.Scale(1/float64(bx.pixels), sum)
		alphas[i] = alpha / float64(bx.pixels)
	}
	return centers, alphas
}

// kmeans refines the cluster centers in place. It stops early once the
// assignment of the input colors does not change anymore.
func kmeans(swatches []swatch, centers []r3.Vec, alphas []float64, cycles int) {
	assign := make([]int, len(swatches))
	for i := range assign {
		assign[i] = -1
	}

	for cycle := 0; cycle < cycles; cycle++ {
		changed := false
		for i, s := range swatches {
			k := nearest(rgbVec(s.color), centers)
			if k != assign[i] {
				assign[i] = k
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([]r3.Vec, len(centers))
		alpha := make([]float64, len(centers))
		weights := make([]float64, len(centers))
		for i, s := range swatches {
			k := assign[i]
			w := float64(s.count)
			sums[k] = r3.Add(sums[k], r3.Scale(w, rgbVec(s.color)))
			alpha[k] += w * float64(s.color.A)
			weights[k] += w
		}
		for k := range centers {
			// An empty cluster keeps its previous center.
			if weights[k] == 0 {
				continue
			}
			centers[k] = r3.Scale(1/weights[k], sums[k])
			alphas[k] = alpha[k] / weights[k]
		}
	}
}

// nearest returns the index of the closest center, the first one on ties.
func nearest(v r3.Vec, centers []r3.Vec) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range centers {
		if d := r3.Norm2(r3.Sub(v, c)); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func rgbVec(c color.NRGBA) r3.Vec {
	return r3.Vec{X: float64(c.R), Y: float64(c.G), Z: float64(c.B)}
}

func toNRGBA(v r3.Vec, alpha float64) color.NRGBA {
	round := func(f float64) uint8 {
		return uint8(utils.Clamp(math.Round(f), 0, 255))
	}
	return color.NRGBA{R: round(v.X), G: round(v.Y), B: round(v.Z), A: round(alpha)}
}

func channelOf(c color.NRGBA, ch int) uint8 {
	switch ch {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}
