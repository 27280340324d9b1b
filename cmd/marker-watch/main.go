/*
DESCRIPTION
  marker-watch watches a directory for new frame images and runs marker
  detection on each as it appears, logging detections to a rotating
  file log. This stands in for a live capture pipeline; frames can be
  dropped into the directory by any camera process.

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

package main

import (
	"flag"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ausocean/utils/logging"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/fiducial/geom"
	"github.com/ausocean/fiducial/marker"
)

// Logging configuration.
const (
	logPath      = "/var/log/marker-watch/marker-watch.log"
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

func main() {
	var (
		dir   = flag.String("dir", ".", "directory to watch for frames")
		width = flag.Float64("width", 0.11, "marker side length in metres")
		focal = flag.Float64("focal", 571, "focal length in pixels")
	)
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}

	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)
	log.Info("starting marker-watch", "dir", *dir)

	d := marker.New(log)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal("could not create watcher", "error", err.Error())
	}
	defer watcher.Close()

	if err := watcher.Add(*dir); err != nil {
		log.Fatal("could not watch directory", "dir", *dir, "error", err.Error())
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !isFrame(ev.Name) {
				continue
			}
			process(log, d, ev.Name, float32(*width), float32(*focal))

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error("watcher error", "error", err.Error())
		}
	}
}

// isFrame reports whether the file looks like a frame image.
func isFrame(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

// process runs detection over one frame file and logs the results.
func process(log logging.Logger, d *marker.Detector, path string, width, focal float32) {
	frame, err := loadGray(path)
	if err != nil {
		log.Warning("could not load frame", "path", path, "error", err.Error())
		return
	}

	b := frame.Bounds()
	cam := geom.NewCameraParams(b.Dx(), b.Dy(), focal, focal)

	markers, err := d.FindMarkers(frame, width, cam)
	if err != nil {
		log.Error("detection failed", "path", path, "error", err.Error())
		return
	}

	log.Info("frame processed", "path", path, "markers", len(markers))
	for _, m := range markers {
		log.Info("marker detected",
			"code", m.Code,
			"distance", m.Distance,
			"bearingX", m.Bearing.X,
			"bearingY", m.Bearing.Y,
		)
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
		return nil, err
	}

	if g, ok := img.(*image.Gray); ok {
		return g, nil
	}
	g := image.NewGray(img.Bounds())
	draw.Draw(g, g.Bounds(), img, img.Bounds().Min, draw.Src)
	return g, nil
}
