/*
DESCRIPTION
  marker-bench synthesises frames containing a marker over a sweep of
  distances, runs the detector on each, and reports the recovered range
  against the truth, plotting the error curve. Useful for checking a
  calibration before a deployment.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/ausocean/utils/logging"
	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ausocean/fiducial/geom"
	"github.com/ausocean/fiducial/grid"
	"github.com/ausocean/fiducial/marker"
)

// Sweep and frame parameters.
const (
	frameWidth  = 640
	frameHeight = 480
)

func main() {
	var (
		num    = flag.Int("code", 17, "raw marker number to synthesise")
		width  = flag.Float64("width", 0.11, "marker side length in metres")
		focal  = flag.Float64("focal", 571, "focal length in pixels")
		from   = flag.Float64("from", 0.5, "nearest distance in metres")
		to     = flag.Float64("to", 4.0, "farthest distance in metres")
		steps  = flag.Int("steps", 15, "number of sweep steps")
		out    = flag.String("plot", "marker-bench.png", "output plot path")
		silent = flag.Bool("q", false, "suppress per-step output")
	)
	flag.Parse()

	log := logging.New(logging.Warning, os.Stderr, true)

	if *num < 0 || *num > 255 || !grid.Assigned(uint8(*num)) {
		log.Fatal("marker number is reserved or out of range", "code", *num)
	}
	if *steps < 2 {
		log.Fatal("sweep needs at least 2 steps", "steps", *steps)
	}

	cam := geom.NewCameraParams(frameWidth, frameHeight, float32(*focal), float32(*focal))
	d := marker.New(log)

	pts := make(plotter.XYs, 0, *steps)
	var missed int

	for i := 0; i < *steps; i++ {
		z := *from + (*to-*from)*float64(i)/float64(*steps-1)
		frame := synthesise(uint8(*num), *width, *focal, z)

		markers, err := d.FindMarkers(frame, float32(*width), cam)
		if err != nil {
			log.Fatal("detection failed", "error", err.Error())
		}

		if len(markers) != 1 {
			missed++
			if !*silent {
				fmt.Printf("z=%.2fm: %d detections\n", z, len(markers))
			}
			continue
		}

		errM := float64(markers[0].Distance) - z
		pts = append(pts, plotter.XY{X: z, Y: errM * 1000})
		if !*silent {
			fmt.Printf("z=%.2fm: recovered %.3fm (error %+.1fmm)\n",
				z, markers[0].Distance, errM*1000)
		}
	}

	fmt.Printf("sweep complete: %d/%d detected\n", *steps-missed, *steps)

	p := plot.New()
	p.Title.Text = "Range error"
	p.X.Label.Text = "true distance (m)"
	p.Y.Label.Text = "error (mm)"
	if err := plotutil.AddLinePoints(p, "range error", pts); err != nil {
		log.Fatal("could not build plot", "error", err.Error())
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, *out); err != nil {
		log.Fatal("could not save plot", "error", err.Error())
	}
	fmt.Printf("plot written to %s\n", *out)
}

// synthesise renders a frontal marker centred in a white frame at the
// given distance.
func synthesise(num uint8, width, focal, z float64) *image.Gray {
	frame := image.NewGray(image.Rect(0, 0, frameWidth, frameHeight))
	draw.Draw(frame, frame.Bounds(), &image.Uniform{C: color.Gray{Y: 0xFF}}, image.Point{}, draw.Src)

	side := int(focal * width / z)
	x0 := (frameWidth - side) / 2
	y0 := (frameHeight - side) / 2

	xdraw.NearestNeighbor.Scale(frame, image.Rect(x0, y0, x0+side, y0+side),
		grid.Encode(num).Image(), image.Rect(0, 0, grid.MarkerGridWidth, grid.MarkerGridWidth),
		xdraw.Src, nil)
	return frame
}
