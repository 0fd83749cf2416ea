package svgtrace

import "image"

// Region is a maximal 4-connected set of pixels sharing the same palette index.
// Regions live in the arena of their Segmentation and are referenced by ID.
type Region struct {
	ID     int
	Color  int             // palette index
	Start  image.Point     // first pixel of the region in raster-scan order
	Bounds image.Rectangle // bounding box of the region pixels
	Area   int             // number of pixels
}

// Segmentation is the arena holding the regions of an index map.
// Labels stores for every pixel the ID of the region it belongs to.
type Segmentation struct {
	Width   int
	Height  int
	Labels  []int
	Regions []Region
}

// Segment labels the 4-connected components of the index map.
// Regions are numbered in raster-scan order of their first pixel,
// which is also the order in which they are painted in the output.
func Segment(m *IndexMap) *Segmentation {
	s := &Segmentation{
		Width:  m.Width,
		Height: m.Height,
		Labels: make([]int, len(m.Index)),
	}
	for i := range s.Labels {
		s.Labels[i] = -1
	}

	var stack []int
	for seed := range m.Index {
		if s.Labels[seed] >= 0 {
			continue
		}
		id := len(s.Regions)
		col := m.Index[seed]
		sx, sy := seed%m.Width, seed/m.Width
		r := Region{
			ID:     id,
			Color:  col,
			Start:  image.Pt(sx, sy),
			Bounds: image.Rect(sx, sy, sx+1, sy+1),
		}

		s.Labels[seed] = id
		stack = append(stack[:0], seed)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			x, y := i%m.Width, i/m.Width
			r.Area++
			r.Bounds = r.Bounds.Union(image.Rect(x, y, x+1, y+1))

			push := func(j int) {
				if s.Labels[j] < 0 && m.Index[j] == col {
					s.Labels[j] = id
					stack = append(stack, j)
				}
			}
			if x > 0 {
				push(i - 1)
			}
			if x < m.Width-1 {
				push(i + 1)
			}
			if y > 0 {
				push(i - m.Width)
			}
			if y < m.Height-1 {
				push(i + m.Width)
			}
		}
		s.Regions = append(s.Regions, r)
	}
	return s
}

// contains reports whether the pixel (x, y) belongs to the region id.
// Pixels outside of the image never do.
func (s *Segmentation) contains(id, x, y int) bool {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return false
	}
	return s.Labels[y*s.Width+x] == id
}
