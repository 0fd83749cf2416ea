package svgtrace

import (
	"math"

	"github.com/esimov/svgtrace/utils"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// smoothAngle is the turning angle below which a corner is rounded off with a curve.
	smoothAngle = math.Pi / 3
	// noiseArea is the enclosed area, in square pixels, below which the
	// line filter treats a contour as noise.
	noiseArea = 4
	// noiseVertices is the simplified vertex count below which the line
	// filter treats a contour as noise.
	noiseVertices = 4
)

// SegmentKind tells how a path segment is drawn.
type SegmentKind int

const (
	LineTo SegmentKind = iota
	QuadTo
)

// PathSegment is a single drawing command of a subpath. Ctrl is only used by QuadTo.
type PathSegment struct {
	Kind SegmentKind
	Ctrl r2.Vec
	To   r2.Vec
}

// Subpath is a closed sequence of segments starting and ending at Start.
type Subpath struct {
	Start    r2.Vec
	Segments []PathSegment
}

// Vertices returns the number of vertices of the simplified polygon the
// subpath was fitted on. Every vertex produces exactly one segment.
func (s Subpath) Vertices() int {
	return len(s.Segments)
}

// Simplify reduces a contour to a smoothed subpath.
//
// The vertex count is reduced with a Douglas-Peucker pass: a vertex is kept
// only when its perpendicular distance from the chord exceeds tolerance.
// Corners turning by less than 60 degrees are then replaced by quadratic curves.
// The second return value is false when the contour is discarded: when it is
// reduced below three vertices or encloses no area, or, with the line filter
// enabled, when it encloses less than four square pixels or is reduced to a
// triangle.
func Simplify(c Contour, tolerance float64, filter bool) (Subpath, bool) {
	if len(c) < 3 {
		return Subpath{}, false
	}
	if filter && utils.Abs(c.Area()) < noiseArea {
		return Subpath{}, false
	}

	pts := make([]r2.Vec, len(c))
	for i, p := range c {
		pts[i] = r2.Vec{X: float64(p.X), Y: float64(p.Y)}
	}

	reduced := reducePolygon(pts, tolerance)
	if len(reduced) < 3 || polygonArea(reduced) == 0 {
		return Subpath{}, false
	}
	if filter && len(reduced) < noiseVertices {
		return Subpath{}, false
	}
	return fitCurves(reduced), true
}

// reducePolygon applies Douglas-Peucker on a closed polygon.
//
// The polygon is cut into two chains at the first vertex and the vertex the
// farthest from it. Each chain keeps its farthest-from-chord vertex regardless
// of the tolerance, so even a single pixel keeps its four corners. Since the
// split points never depend on the tolerance, the set of kept vertices can only
// shrink when the tolerance grows.
func reducePolygon(pts []r2.Vec, tolerance float64) []r2.Vec {
	n := len(pts)
	at := func(i int) r2.Vec { return pts[i%n] }

	far, farDist := 0, -1.0
	for i := 1; i < n; i++ {
		if d := r2.Norm2(r2.Sub(pts[i], pts[0])); d > farDist {
			far, farDist = i, d
		}
	}

	keep := make([]bool, n)
	keep[0], keep[far] = true, true

	var simplify func(lo, hi int, force bool)
	simplify = func(lo, hi int, force bool) {
		if hi-lo < 2 {
			return
		}
		index, dmax := lo, -1.0
		for i := lo + 1; i < hi; i++ {
			if d := perpendicularDistance(at(i), at(lo), at(hi)); d > dmax {
				index, dmax = i, d
			}
		}
		if force || dmax > tolerance {
			keep[index%n] = true
			simplify(lo, index, false)
			simplify(index, hi, false)
		}
	}
	simplify(0, far, true)
	simplify(far, n, true)

	out := make([]r2.Vec, 0, n)
	for i, p := range pts {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// perpendicularDistance calculates the perpendicular distance from point p to line a-b.
func perpendicularDistance(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	l := r2.Norm(ab)
	if l == 0 {
		return r2.Norm(r2.Sub(p, a))
	}
	return math.Abs(r2.Cross(ab, r2.Sub(p, a))) / l
}

func polygonArea(pts []r2.Vec) float64 {
	var sum float64
	for i, p := range pts {
		sum += r2.Cross(p, pts[(i+1)%len(pts)])
	}
	return sum / 2
}

// fitCurves turns the reduced polygon into a subpath. A sharp vertex is
// reached with a straight line, a smooth one becomes a quadratic curve using
// the vertex as control point and ending halfway along its outgoing edge.
func fitCurves(v []r2.Vec) Subpath {
	n := len(v)
	smooth := make([]bool, n)
	start := -1
	for i := range v {
		smooth[i] = turnAngle(v[(i+n-1)%n], v[i], v[(i+1)%n]) < smoothAngle
		if !smooth[i] && start < 0 {
			start = i
		}
	}

	midpoint := func(i int) r2.Vec {
		return r2.Scale(0.5, r2.Add(v[i], v[(i+1)%n]))
	}

	sp := Subpath{Segments: make([]PathSegment, 0, n)}
	first := 0
	if start >= 0 {
		sp.Start = v[start]
		first = start + 1
	} else {
		sp.Start = midpoint(n - 1)
	}

	for k := 0; k < n; k++ {
		i := (first + k) % n
		if smooth[i] {
			sp.Segments = append(sp.Segments, PathSegment{Kind: QuadTo, Ctrl: v[i], To: midpoint(i)})
		} else {
			sp.Segments = append(sp.Segments, PathSegment{Kind: LineTo, To: v[i]})
		}
	}
	return sp
}

// turnAngle returns the change of heading at b, in radians, when walking a -> b -> c.
func turnAngle(a, b, c r2.Vec) float64 {
	u, w := r2.Sub(b, a), r2.Sub(c, b)
	lu, lw := r2.Norm(u), r2.Norm(w)
	if lu == 0 || lw == 0 {
		return math.Pi
	}
	cos := r2.Dot(u, w) / (lu * lw)
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}
