/*
DESCRIPTION
  refine.go sharpens the coarse quad vertices to sub-pixel accuracy.
  Each edge's contour points are fitted with a line by principal
  component analysis and consecutive fitted lines are intersected
  algebraically.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package quad

import (
	"image"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/fiducial/geom"
)

// edgeFit is a fitted edge line: a point on the line (the segment mean)
// and its direction (the dominant eigenvector).
type edgeFit struct {
	mean geom.Point2DF
	dir  geom.Point2DF
	ok   bool
}

// fitEdge runs 2-D PCA over the contour points in [start,end] and
// returns the dominant direction and the mean. Fewer than two points
// cannot be fitted.
func fitEdge(c []geom.Point2DI, start, end int) edgeFit {
	n := end - start + 1
	if n < 2 {
		return edgeFit{}
	}

	data := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		data.Set(i, 0, float64(c[start+i].X))
		data.Set(i, 1, float64(c[start+i].Y))
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, data, nil)

	var es mat.EigenSym
	if !es.Factorize(&cov, true) {
		return edgeFit{}
	}

	var vecs mat.Dense
	es.VectorsTo(&vecs)
	vals := es.Values(nil)

	// Eigenvalues come back ascending; the dominant direction is the
	// last column.
	major := 1
	if vals[0] > vals[1] {
		major = 0
	}

	return edgeFit{
		mean: geom.Point2DF{
			X: float32(stat.Mean(mat.Col(nil, 0, data), nil)),
			Y: float32(stat.Mean(mat.Col(nil, 1, data), nil)),
		},
		dir: geom.Point2DF{
			X: float32(vecs.At(0, major)),
			Y: float32(vecs.At(1, major)),
		},
		ok: true,
	}
}

// intersect returns the intersection of lines a and b, each given as a
// point and direction.
func intersect(a, b edgeFit) geom.Point2DF {
	k := b.dir.Y*(b.mean.X-a.mean.X) - b.dir.X*(b.mean.Y-a.mean.Y)
	k /= b.dir.Y*a.dir.X - b.dir.X*a.dir.Y

	return geom.Point2DF{
		X: a.mean.X + a.dir.X*k,
		Y: a.mean.Y + a.dir.Y*k,
	}
}

// centreSection trims 5% from each end of the sub-chain [start,end],
// keeping the middle 90% so the fit is not polluted by the rounded
// corners.
func centreSection(start, end int) (int, int) {
	n := end - start + 1
	off := n * 5 / 100
	keep := n * 90 / 100
	if keep < 1 {
		keep = 1
	}
	return start + off, start + off + keep - 1
}

// RefineVertices replaces the quad's coarse vertex positions with the
// intersections of PCA line fits over the middle of each edge's contour
// section. An edge whose section is too short to fit leaves its
// adjoining vertices at their coarse positions.
func RefineVertices(q *Quad, c []geom.Point2DI) {
	if q == nil {
		return
	}

	var fits [4]edgeFit
	for i := 0; i < 4; i++ {
		start := q.Links[i]
		end := len(c) - 1
		if i < 3 {
			end = q.Links[i+1]
		}
		s, e := centreSection(start, end)
		fits[i] = fitEdge(c, s, e)
	}

	// Vertex i is the meet of the edge arriving at it and the edge
	// leaving it.
	for i := 0; i < 4; i++ {
		prev := fits[(i+3)%4]
		next := fits[i]
		if prev.ok && next.ok {
			q.Vertices[i] = intersect(prev, next)
		}
	}
}

// Draw marks each quad vertex with a small green cross, for diagnostic
// snapshots.
func Draw(dst *image.RGBA, q *Quad) {
	green := color.RGBA{G: 0xFF, A: 0xFF}
	b := dst.Bounds()
	for _, v := range q.Vertices {
		x, y := int(v.X), int(v.Y)
		if x <= b.Min.X || y <= b.Min.Y || x >= b.Max.X-1 || y >= b.Max.Y-1 {
			continue
		}
		dst.SetRGBA(x, y, green)
		dst.SetRGBA(x, y-1, green)
		dst.SetRGBA(x, y+1, green)
		dst.SetRGBA(x-1, y, green)
		dst.SetRGBA(x+1, y, green)
	}
}
