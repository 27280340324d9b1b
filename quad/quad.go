/*
DESCRIPTION
  quad.go discovers quadrilateral vertices on a closed contour by
  recursive furthest-point subdivision, rejecting shapes that are not
  near-convex quadrilaterals.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package quad finds and refines quadrilaterals on region contours.
package quad

import (
	"errors"
	"sort"

	"github.com/ausocean/fiducial/geom"
)

// Rejection reasons, distinguishable for diagnostics and tests.
var (
	ErrTooShort    = errors.New("quad: contour too short")
	ErrVertexCount = errors.New("quad: vertex discovery did not yield four corners")
	ErrNonConvex   = errors.New("quad: vertices form a non-convex shape")
)

// Quad is a candidate marker outline: four vertices in clockwise order
// starting at the contour seed, each paired with the index of the
// originating contour point so edges can be refined later.
type Quad struct {
	Vertices [4]geom.Point2DF
	Links    [4]int
}

// straightnessDivisor scales the squared chord length into the minimum
// squared perpendicular distance a point must reach to count as a
// vertex.
const straightnessDivisor = 300

// furthest returns the index in c of the point with the greatest squared
// distance from c[from], scanning indices from+1 onward.
func furthest(c []geom.Point2DI, from int) int {
	s := c[from]
	best, bestD := from, int32(0)
	for i := from + 1; i < len(c); i++ {
		dx := int32(c[i].X) - int32(s.X)
		dy := int32(c[i].Y) - int32(s.Y)
		if d := dx*dx + dy*dy; d > bestD {
			bestD = d
			best = i
		}
	}
	return best
}

// furthestFromLine finds the point strictly between indices start and
// end whose perpendicular distance to the line through them is greatest,
// provided that distance is large enough for the chain to count as bent
// rather than straight. It returns the index and whether the threshold
// was met.
func furthestFromLine(c []geom.Point2DI, start, end int) (int, bool) {
	sp, ep := c[start], c[end]

	dxe := int32(ep.X) - int32(sp.X) // x: end minus start
	dys := int32(sp.Y) - int32(ep.Y) // y: start minus end

	if dxe == 0 && dys == 0 {
		return 0, false
	}

	threshold := (dxe*dxe+dys*dys)/straightnessDivisor + 1

	best, bestD := -1, int32(-1)
	for i := start + 1; i < end; i++ {
		xt := int32(c[i].X) - int32(sp.X)
		yt := int32(c[i].Y) - int32(sp.Y)

		// Scale factor along the edge normal to the foot of the
		// perpendicular.
		k := float32(dys*xt+dxe*yt) / float32(-(dxe*dxe)-(dys*dys))

		xd := float32(dys) * k
		yd := float32(dxe) * k
		if d := int32(xd*xd + yd*yd); d > bestD {
			bestD = d
			best = i
		}
	}

	if bestD < threshold {
		return 0, false
	}
	return best, true
}

// intermediateVertices recursively collects vertex indices between start
// and end, bounded by the shared vertex counter so over-subdivided
// shapes stop early.
func intermediateVertices(c []geom.Point2DI, start, end int, out *[]int, found *int) {
	p, ok := furthestFromLine(c, start, end)
	if !ok {
		return
	}

	*found++
	*out = append(*out, p)

	if *found > 4 {
		return
	}
	intermediateVertices(c, start, p, out, found)
	if *found > 4 {
		return
	}
	intermediateVertices(c, p, end, out, found)
}

// FindVertices locates four corner candidates on the contour. The
// contour must be the closed clockwise walk from the tracer; the first
// point becomes the first vertex.
func FindVertices(c []geom.Point2DI) (*Quad, error) {
	if len(c) < 5 {
		return nil, ErrTooShort
	}

	// v1 is the seed; v2 is the contour point furthest from it. For a
	// quad they land on or near opposite corners.
	v1 := 0
	v2 := furthest(c, 0)
	end := len(c) - 1

	found := 2
	var pts1, pts2 []int
	intermediateVertices(c, v1, v2, &pts1, &found)
	intermediateVertices(c, v2, end, &pts2, &found)

	var v3, v4 int
	switch {
	case len(pts1) == 1 && len(pts2) == 1:
		// v1 and v2 are opposite corners; one vertex on each chain.
		v3, v4 = pts1[0], pts2[0]

	case len(pts1) == 0 && len(pts2) > 1:
		// Both remaining corners are on the v2->end chain; split it
		// and require exactly one vertex per half.
		var ok bool
		v3, v4, ok = splitAndRecurse(c, v2, end)
		if !ok {
			return nil, ErrVertexCount
		}

	case len(pts1) > 1 && len(pts2) == 0:
		var ok bool
		v3, v4, ok = splitAndRecurse(c, v1, v2)
		if !ok {
			return nil, ErrVertexCount
		}

	default:
		return nil, ErrVertexCount
	}

	return quadFromVertices(c, v1, v2, v3, v4)
}

// splitAndRecurse halves the chain start..end and demands one vertex
// from each half.
func splitAndRecurse(c []geom.Point2DI, start, end int) (int, int, bool) {
	mid := start + (end-start)/2

	found := 2
	var pts1, pts2 []int
	intermediateVertices(c, start, mid, &pts1, &found)
	intermediateVertices(c, mid, end, &pts2, &found)

	if len(pts1) == 1 && len(pts2) == 1 {
		return pts1[0], pts2[0], true
	}
	return 0, 0, false
}

// quadFromVertices orders the four vertex indices clockwise along the
// contour starting at v1 and rejects bowtie shapes.
func quadFromVertices(c []geom.Point2DI, v1, v2, v3, v4 int) (*Quad, error) {
	rest := []int{v2, v3, v4}
	sort.Ints(rest)

	q := &Quad{}
	q.Links[0] = v1
	copy(q.Links[1:], rest)

	for i, l := range q.Links {
		q.Vertices[i] = geom.Point2DF{X: float32(c[l].X), Y: float32(c[l].Y)}
	}

	// A convex quad has vertices 1 and 3 on opposite sides of the
	// 0-2 diagonal's midpoint.
	cx := (q.Vertices[0].X + q.Vertices[2].X) / 2
	if (cx-q.Vertices[1].X)*(cx-q.Vertices[3].X) > 0 {
		return nil, ErrNonConvex
	}

	return q, nil
}
