/*
DESCRIPTION
  html.go implements the directory-based HTML snapshot sink: an
  index document interleaving text with sequentially numbered PNG
  images of each pipeline stage.

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
	"html"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// HTMLSink writes snapshots into a directory as log.html plus numbered
// PNGs. Close finishes the document.
type HTMLSink struct {
	dir string
	f   *os.File
	idx int
}

// NewHTMLSink creates dir and the HTML index within it. The directory
// must not already exist.
func NewHTMLSink(dir string) (*HTMLSink, error) {
	if err := os.Mkdir(dir, 0770); err != nil {
		return nil, errors.Wrap(err, "could not create log directory")
	}

	f, err := os.Create(filepath.Join(dir, "log.html"))
	if err != nil {
		return nil, errors.Wrap(err, "could not create log index")
	}

	fmt.Fprint(f, "<html>\n<body>\n")
	return &HTMLSink{dir: dir, f: f}, nil
}

// Init implements Sink.
func (s *HTMLSink) Init() {}

// Log implements Sink, writing any image to the next numbered PNG and
// the text into the index.
func (s *HTMLSink) Log(text string, img image.Image) {
	fmt.Fprint(s.f, "<div>\n")

	if img != nil {
		name := fmt.Sprintf("%06d.png", s.idx)
		if err := s.writePNG(name, img); err == nil {
			fmt.Fprintf(s.f, "<img src='%s' /> ", name)
			s.idx++
		}
	}

	if text != "" {
		fmt.Fprint(s.f, html.EscapeString(text))
	}

	fmt.Fprint(s.f, "</div>\n")
}

func (s *HTMLSink) writePNG(name string, img image.Image) error {
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return errors.Wrap(err, "could not create snapshot file")
	}
	defer f.Close()
	return png.Encode(f, img)
}

// Close terminates the HTML document and closes the index file.
func (s *HTMLSink) Close() error {
	fmt.Fprint(s.f, "</body>\n</html>\n")
	return s.f.Close()
}
