package geo

import (
	"container/heap"
	"math"

	"github.com/ctessum/geom"
)

// PoleOfInaccessibility returns the interior point of poly that lies
// farthest from any of its edges, found to within precision. The first ring
// is the outer boundary, the rest are holes.
func PoleOfInaccessibility(poly geom.Polygon, precision float64) geom.Point {
	if len(poly) == 0 || len(poly[0]) == 0 {
		return geom.Point{}
	}

	b := geom.Polygon{poly[0]}.Bounds()
	minX, minY := b.Min.X, b.Min.Y
	maxX, maxY := b.Max.X, b.Max.Y

	width, height := maxX-minX, maxY-minY
	cellSize := min(width, height)
	if cellSize == 0 {
		return geom.Point{X: minX, Y: minY}
	}
	h := cellSize / 2

	queue := &cellQueue{}
	for x := minX; x < maxX; x += cellSize {
		for y := minY; y < maxY; y += cellSize {
			heap.Push(queue, newCell(x+h, y+h, h, poly))
		}
	}

	best := centroidCell(poly)
	if bbox := newCell(minX+width/2, minY+height/2, 0, poly); bbox.d > best.d {
		best = bbox
	}

	for queue.Len() > 0 {
		c := heap.Pop(queue).(*cell)
		if c.d > best.d {
			best = c
		}
		if c.max-best.d <= precision {
			continue
		}
		h = c.h / 2
		heap.Push(queue, newCell(c.x-h, c.y-h, h, poly))
		heap.Push(queue, newCell(c.x+h, c.y-h, h, poly))
		heap.Push(queue, newCell(c.x-h, c.y+h, h, poly))
		heap.Push(queue, newCell(c.x+h, c.y+h, h, poly))
	}

	return geom.Point{X: best.x, Y: best.y}
}

// cell is a square search cell centred on (x, y) with half size h.
type cell struct {
	x, y float64
	h    float64
	// d is the signed distance from the centre to the polygon outline,
	// positive inside.
	d float64
	// max bounds the distance reachable anywhere in the cell.
	max float64
}

func newCell(x, y, h float64, poly geom.Polygon) *cell {
	d := signedDistance(x, y, poly)
	return &cell{x: x, y: y, h: h, d: d, max: d + h*math.Sqrt2}
}

func centroidCell(poly geom.Polygon) *cell {
	c := geom.Polygon{poly[0]}.Centroid()
	if math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsInf(c.X, 0) || math.IsInf(c.Y, 0) {
		c = poly[0][0]
	}
	return newCell(c.X, c.Y, 0, poly)
}

// signedDistance is the distance from (x, y) to the nearest ring edge,
// negated when the point is outside the polygon.
func signedDistance(x, y float64, poly geom.Polygon) float64 {
	minDistSq := math.Inf(1)
	for _, ring := range poly {
		for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
			minDistSq = min(minDistSq, segmentDistSq(x, y, ring[i], ring[j]))
		}
	}

	if minDistSq == math.Inf(1) {
		return 0
	}
	d := math.Sqrt(minDistSq)
	if (geom.Point{X: x, Y: y}).Within(poly) != geom.Inside {
		return -d
	}
	return d
}

func segmentDistSq(px, py float64, a, b geom.Point) float64 {
	x, y := a.X, a.Y
	dx, dy := b.X-x, b.Y-y

	if dx != 0 || dy != 0 {
		t := ((px-x)*dx + (py-y)*dy) / (dx*dx + dy*dy)
		switch {
		case t > 1:
			x, y = b.X, b.Y
		case t > 0:
			x += dx * t
			y += dy * t
		}
	}

	dx, dy = px-x, py-y
	return dx*dx + dy*dy
}

// cellQueue is a max-heap on cell.max.
type cellQueue []*cell

func (q cellQueue) Len() int           { return len(q) }
func (q cellQueue) Less(i, j int) bool { return q[i].max > q[j].max }
func (q cellQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *cellQueue) Push(x any) { *q = append(*q, x.(*cell)) }

func (q *cellQueue) Pop() any {
	old := *q
	n := len(old)
	c := old[n-1]
	*q = old[:n-1]
	return c
}
