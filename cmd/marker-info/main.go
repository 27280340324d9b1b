/*
DESCRIPTION
  marker-info detects markers in a single image file and prints a
  report of each detection: code, centre, distance, rotation and
  bearing. Optionally writes an HTML log of the pipeline stages.

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
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/fiducial/geom"
	"github.com/ausocean/fiducial/labeling"
	"github.com/ausocean/fiducial/marker"
)

// Logging configuration.
const (
	logVerbosity = logging.Info
	logSuppress  = true
)

func main() {
	var (
		imagePath    = flag.String("image", "", "image file to process (png or jpeg)")
		width        = flag.Float64("width", 0.11, "marker side length in metres")
		focal        = flag.Float64("focal", 571, "focal length in pixels")
		logDir       = flag.String("log-dir", "", "write an HTML pipeline log to this directory")
		suggestThres = flag.Bool("suggest-threshold", false, "print the global threshold search result and exit")
	)
	flag.Parse()

	log := logging.New(logVerbosity, os.Stderr, logSuppress)

	if *imagePath == "" {
		log.Fatal("no image provided; use -image")
	}

	frame, err := loadGray(*imagePath)
	if err != nil {
		log.Fatal("could not load image", "error", err.Error())
	}

	if *suggestThres {
		fmt.Printf("suggested global threshold: %d\n", labeling.GlobalThreshold(frame))
		return
	}

	var opts []marker.Option
	if *logDir != "" {
		sink, err := marker.NewHTMLSink(*logDir)
		if err != nil {
			log.Fatal("could not create HTML log", "error", err.Error())
		}
		defer sink.Close()
		opts = append(opts, marker.WithSink(sink))
	}

	b := frame.Bounds()
	cam := geom.NewCameraParams(b.Dx(), b.Dy(), float32(*focal), float32(*focal))

	d := marker.New(log, opts...)
	markers, err := d.FindMarkers(frame, float32(*width), cam)
	if err != nil {
		log.Fatal("detection failed", "error", err.Error())
	}

	fmt.Printf("%d marker(s) found\n", len(markers))
	for _, m := range markers {
		fmt.Printf("marker %d:\n", m.Code)
		fmt.Printf("  centre (image): (%.1f, %.1f)\n", m.Centre.Image.X, m.Centre.Image.Y)
		fmt.Printf("  centre (world): (%.3f, %.3f, %.3f) m\n",
			m.Centre.World.X, m.Centre.World.Y, m.Centre.World.Z)
		fmt.Printf("  distance: %.3f m\n", m.Distance)
		fmt.Printf("  rotation: (%.1f, %.1f, %.1f) deg\n",
			m.Rotation.X, m.Rotation.Y, m.Rotation.Z)
		fmt.Printf("  bearing:  (%.1f, %.1f) deg\n", m.Bearing.X, m.Bearing.Y)
	}
}

// loadGray decodes the image at path and converts it to grayscale.
func loadGray(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", path, err)
	}

	if g, ok := img.(*image.Gray); ok {
		return g, nil
	}
	g := image.NewGray(img.Bounds())
	draw.Draw(g, g.Bounds(), img, img.Bounds().Min, draw.Src)
	return g, nil
}
