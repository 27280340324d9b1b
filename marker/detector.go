/*
DESCRIPTION
  detector.go runs the detection pipeline over a frame: fused adaptive
  threshold and labelling, then per region contour tracing, quad
  discovery, vertex refinement, unwarping, code recovery and pose
  estimation. Individual region failures are skipped; only fully
  decoded markers are reported.

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

package marker

import (
	"fmt"
	"image"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/fiducial/contour"
	"github.com/ausocean/fiducial/geom"
	"github.com/ausocean/fiducial/grid"
	"github.com/ausocean/fiducial/labeling"
	"github.com/ausocean/fiducial/quad"
	"github.com/ausocean/fiducial/warp"
)

// Pipeline defaults.
const (
	defaultThresholdWindow = 11
	defaultThresholdMargin = 5
	defaultUnwarpedSize    = 100

	// The unwarped marker is re-thresholded adaptively before
	// gridding, with a wider window since cells are ten pixels.
	unwarpThresholdWindow = 21
	unwarpThresholdMargin = 3

	// The re-thresholded image is black and white, so the cell
	// average threshold just needs to split the two.
	cellThreshold = 127
)

// WidthFunc returns the physical side length, in metres, of the marker
// carrying the given user code.
type WidthFunc func(code int16) float32

// Detector holds the per-context state of the detection pipeline: the
// structured logger, the optional snapshot sink and the threshold
// parameters.
type Detector struct {
	log    logging.Logger
	sink   Sink
	window int
	margin int
	size   int
}

// Option configures a Detector.
type Option func(*Detector)

// WithSink directs stage snapshots to s; its Init is called once,
// immediately.
func WithSink(s Sink) Option {
	return func(d *Detector) { d.sink = s }
}

// WithThresholdWindow sets the adaptive threshold window side, which
// must be odd.
func WithThresholdWindow(w int) Option {
	return func(d *Detector) { d.window = w }
}

// WithThresholdMargin sets the margin subtracted from the windowed mean
// before classification.
func WithThresholdMargin(c int) Option {
	return func(d *Detector) { d.margin = c }
}

// WithUnwarpedSize sets the side of the canonical unwarped marker
// image; it must be a positive multiple of 10.
func WithUnwarpedSize(s int) Option {
	return func(d *Detector) { d.size = s }
}

// New returns a Detector logging through l.
func New(l logging.Logger, opts ...Option) *Detector {
	d := &Detector{
		log:    l,
		window: defaultThresholdWindow,
		margin: defaultThresholdMargin,
		size:   defaultUnwarpedSize,
	}
	for _, o := range opts {
		o(d)
	}
	if d.window%2 != 1 {
		panic("marker: threshold window must be odd")
	}
	if d.size <= 0 || d.size%10 != 0 {
		panic("marker: unwarped size must be a positive multiple of 10")
	}
	if d.sink != nil {
		d.sink.Init()
	}
	return d
}

// snapshot sends text and an optional image to the sink, if any.
func (d *Detector) snapshot(text string, img image.Image) {
	if d.sink != nil {
		d.sink.Log(text, img)
	}
}

// FindMarkers detects markers in frame, taking every marker to have
// the given physical side length in metres. The returned slice is owned
// by the caller; it is empty when nothing decodes.
func (d *Detector) FindMarkers(frame *image.Gray, width float32, cam geom.CameraParams) ([]*Marker, error) {
	if width <= 0 {
		panic("marker: marker width must be positive")
	}
	return d.findMarkers(frame, func(int16) float32 { return width }, cam)
}

// FindMarkersWidthFunc is FindMarkers with a per-code side length,
// for scenes mixing marker sizes.
func (d *Detector) FindMarkersWidthFunc(frame *image.Gray, wf WidthFunc, cam geom.CameraParams) ([]*Marker, error) {
	if wf == nil {
		panic("marker: nil width function")
	}
	return d.findMarkers(frame, wf, cam)
}

func (d *Detector) findMarkers(frame *image.Gray, wf WidthFunc, cam geom.CameraParams) ([]*Marker, error) {
	if frame == nil {
		panic("marker: nil frame")
	}
	if err := cam.Validate(); err != nil {
		return nil, fmt.Errorf("invalid camera parameters: %w", err)
	}

	b := frame.Bounds()
	d.snapshot("input frame", frame)

	var thresh *image.Gray
	if d.sink != nil {
		thresh = image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	li := labeling.LabelAdaptive(frame, d.window, d.margin, thresh)
	if thresh != nil {
		d.snapshot("thresholded frame", thresh)
	}
	d.log.Debug("frame labelled", "labels", len(li.Aliases))

	var kept, discarded *image.RGBA
	if d.sink != nil {
		kept = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		discarded = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}

	markers := []*Marker{}

	for i := 1; i <= len(li.Aliases); i++ {
		l := labeling.Label(i)
		if !li.Usable(l) {
			continue
		}

		c := contour.Find(li, l)

		q, err := quad.FindVertices(c)
		if err != nil {
			d.log.Debug("region rejected", "label", l, "reason", err.Error())
			if discarded != nil {
				contour.Draw(discarded, c)
			}
			continue
		}
		if kept != nil {
			contour.Draw(kept, c)
		}

		quad.RefineVertices(q, c)

		m := newMarker(q)

		if !d.recoverCode(m, frame) {
			continue
		}

		size := wf(m.Code)
		if err := m.estimatePose(size, cam); err != nil {
			d.log.Debug("pose estimation failed", "label", l, "reason", err.Error())
			continue
		}
		m.estimateRotation()
		m.estimateBearing()

		markers = append(markers, m)
	}

	if kept != nil {
		d.snapshot("contours", kept)
	}
	if discarded != nil {
		d.snapshot("discarded contours", discarded)
	}
	d.log.Debug("frame processed", "markers", len(markers))

	return markers, nil
}

// recoverCode unwarps the marker interior, re-thresholds it, grids it
// and attempts the four-orientation decode. It reports whether m now
// carries a valid, assigned code.
func (d *Detector) recoverCode(m *Marker, frame *image.Gray) bool {
	var vertices [4]geom.Point2DF
	for i, v := range m.Vertices {
		vertices[i] = v.Image
	}

	unwarped, err := warp.Unwarp(frame, vertices, d.size)
	if err != nil {
		d.log.Debug("unwarp failed", "reason", err.Error())
		return false
	}
	d.snapshot("unwarped marker", unwarped)

	bw := labeling.ThresholdAdaptive(unwarped, unwarpThresholdWindow, unwarpThresholdMargin)
	d.snapshot("unwarped and thresholded marker", bw)

	g, err := grid.FromImage(bw, cellThreshold)
	if err != nil {
		d.log.Debug("gridding failed", "reason", err.Error())
		return false
	}

	raw, offset, ok := g.RecoverCode()
	if !ok {
		d.snapshot("failed to recover code from unwarped marker -- discarding", nil)
		return false
	}

	code := grid.Translate(raw)
	if code == grid.Unassigned {
		d.log.Debug("decoded reserved marker number", "raw", raw)
		return false
	}

	m.Code = code
	m.RawCode = raw
	m.RotationOffset = offset
	return true
}
