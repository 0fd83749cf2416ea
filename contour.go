package svgtrace

import "image"

// Contour is a closed polygon on the pixel corner grid. Only the corners
// where the boundary changes direction are stored; the last vertex connects
// back to the first one.
type Contour []image.Point

// Area returns the signed area enclosed by the contour. With the y axis
// pointing down, outer boundaries (clockwise on screen) have a positive area
// and holes a negative one.
func (c Contour) Area() float64 {
	var sum int
	for i, p := range c {
		q := c[(i+1)%len(c)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return float64(sum) / 2
}

// Bounds returns the bounding box of the contour vertices.
func (c Contour) Bounds() image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: c[0], Max: c[0]}
	for _, p := range c[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}

// direction of a boundary step. The order makes (d+1)%4 a clockwise turn on screen.
type direction int

const (
	east direction = iota
	south
	west
	north
)

var steps = [4]image.Point{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

func (d direction) right() direction { return (d + 1) % 4 }
func (d direction) left() direction  { return (d + 3) % 4 }

// tracer follows the pixel cracks around a single region,
// keeping the region on its right-hand side.
type tracer struct {
	seg    *Segmentation
	id     int
	bounds image.Rectangle
	// visited marks the horizontal cracks already walked, indexed relative to bounds.
	visited []bool
}

// Trace returns the outer boundary of region id and the boundaries of its holes.
//
// The outer contour starts at the top-left corner of the first pixel of the
// region and runs clockwise on screen. Holes run counter-clockwise, so both
// the even-odd and the nonzero fill rule render them as cutouts. Every contour
// is rotated to start at its topmost-then-leftmost vertex. Holes are returned in
// raster-scan order of their topmost edge.
func (s *Segmentation) Trace(id int) (Contour, []Contour, error) {
	if id < 0 || id >= len(s.Regions) {
		return nil, nil, newError(TracingFailure, "trace", "region %d does not exist", id)
	}
	r := s.Regions[id]
	if !s.contains(id, r.Start.X, r.Start.Y) {
		return nil, nil, newError(TracingFailure, "trace",
			"region %d: start pixel %v is not part of the region", id, r.Start)
	}

	t := &tracer{
		seg:     s,
		id:      id,
		bounds:  r.Bounds,
		visited: make([]bool, r.Bounds.Dx()*(r.Bounds.Dy()+1)),
	}
	// Every crack of the region is walked at most once per loop.
	limit := 4*r.Area + 4

	outer, err := t.walk(r.Start, east, limit)
	if err != nil {
		return nil, nil, err
	}

	var holes []Contour
	for y := r.Bounds.Min.Y; y < r.Bounds.Max.Y; y++ {
		for x := r.Bounds.Min.X; x < r.Bounds.Max.X; x++ {
			// An unvisited crack below a region pixel can only belong to a hole.
			if !s.contains(id, x, y) || s.contains(id, x, y+1) || t.isVisited(x, y+1) {
				continue
			}
			hole, err := t.walk(image.Pt(x+1, y+1), west, limit)
			if err != nil {
				return nil, nil, err
			}
			holes = append(holes, hole)
		}
	}
	return outer, holes, nil
}

// walk follows the boundary from the start corner until it gets back to the
// same corner heading in the same direction.
func (t *tracer) walk(start image.Point, dir direction, limit int) (Contour, error) {
	var c Contour
	p, d := start, dir

	for n := 0; ; n++ {
		if n > limit {
			return nil, newError(TracingFailure, "trace",
				"region %d: boundary starting at %v does not close after %d steps", t.id, start, limit)
		}
		t.mark(p, d)
		p = p.Add(steps[d])
		nd := t.turn(p, d)
		if nd != d {
			c = append(c, p)
		}
		d = nd
		if p == start && d == dir {
			break
		}
	}

	if len(c) < 4 {
		return nil, newError(TracingFailure, "trace",
			"region %d: degenerate boundary with %d vertices at %v", t.id, len(c), start)
	}
	return c.normalize(), nil
}

// turn decides the next direction at corner p when arriving with direction d,
// by looking at the two pixels ahead of the corner. Pixels touching only at a
// corner are not connected, so a diagonal neighbour makes the walk turn right.
func (t *tracer) turn(p image.Point, d direction) direction {
	var ar, al image.Point
	switch d {
	case east:
		ar, al = image.Pt(p.X, p.Y), image.Pt(p.X, p.Y-1)
	case south:
		ar, al = image.Pt(p.X-1, p.Y), image.Pt(p.X, p.Y)
	case west:
		ar, al = image.Pt(p.X-1, p.Y-1), image.Pt(p.X-1, p.Y)
	case north:
		ar, al = image.Pt(p.X, p.Y-1), image.Pt(p.X-1, p.Y-1)
	}

	switch {
	case !t.seg.contains(t.id, ar.X, ar.Y):
		return d.right()
	case t.seg.contains(t.id, al.X, al.Y):
		return d.left()
	default:
		return d
	}
}

// mark records the horizontal crack walked from corner p in direction d.
func (t *tracer) mark(p image.Point, d direction) {
	switch d {
	case east:
		t.visited[t.crack(p.X, p.Y)] = true
	case west:
		t.visited[t.crack(p.X-1, p.Y)] = true
	}
}

func (t *tracer) isVisited(x, y int) bool {
	return t.visited[t.crack(x, y)]
}

// crack returns the index of the horizontal crack between corners (x, y) and (x+1, y).
func (t *tracer) crack(x, y int) int {
	return (y-t.bounds.Min.Y)*t.bounds.Dx() + (x - t.bounds.Min.X)
}

// normalize rotates the contour to start at its topmost-then-leftmost vertex.
func (c Contour) normalize() Contour {
	first := 0
	for i, p := range c {
		q := c[first]
		if p.Y < q.Y || (p.Y == q.Y && p.X < q.X) {
			first = i
		}
	}
	out := make(Contour, 0, len(c))
	out = append(out, c[first:]...)
	return append(out, c[:first]...)
}
