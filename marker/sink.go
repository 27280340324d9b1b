/*
DESCRIPTION
  sink.go defines the snapshot sink contract used for pipeline
  diagnostics and the plain text reference sink. Sinks receive text
  messages and intermediate images at fixed points in the pipeline.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

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
	"io"
)

// Sink receives diagnostic snapshots from the pipeline. Init is called
// once when the detector is created. Log is called from a single
// goroutine; either argument may be empty/nil, and any image is only
// valid for the duration of the call.
type Sink interface {
	Init()
	Log(text string, img image.Image)
}

// TextSink writes snapshot text to a stream. Images cannot be
// represented and are reported by size only.
type TextSink struct {
	W io.Writer
}

// NewTextSink returns a text sink writing to w.
func NewTextSink(w io.Writer) *TextSink { return &TextSink{W: w} }

// Init implements Sink.
func (s *TextSink) Init() {}

// Log implements Sink.
func (s *TextSink) Log(text string, img image.Image) {
	if text != "" {
		fmt.Fprintln(s.W, text)
	}
	if img != nil {
		b := img.Bounds()
		fmt.Fprintf(s.W, "%dx%d image (text sink cannot output images)\n", b.Dx(), b.Dy())
	}
}
