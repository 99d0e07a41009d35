// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package capture writes frames read back from a glrender target to disk.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gogpu/glrender"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned for file names whose extension names no
// supported image format.
var ErrUnknownFormat = errors.New("capture: unknown image format")

// Format is an output image encoding.
type Format int

const (
	PNG Format = iota
	BMP
	TIFF
)

// String returns the canonical file extension without the dot.
func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}
}

// Save writes img to path, creating parent directories as needed. The
// format follows the file extension.
func Save(path string, img image.Image) (err error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("capture: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("capture: %w", cerr)
		}
	}()
	if err := Encode(out, img, f); err != nil {
		return fmt.Errorf("capture: encode %s: %w", path, err)
	}
	return nil
}

// PixelReader reads the color contents of a render target.
// *glrender.Context implements it.
type PixelReader interface {
	ReadPixels(target glrender.RenderTarget) (*image.RGBA, error)
}

var _ PixelReader = (*glrender.Context)(nil)

// Saver writes numbered captures into a directory:
// <Dir>/<Prefix>-0001.<format>, <Dir>/<Prefix>-0002.<format> and so on.
type Saver struct {
	Dir    string
	Prefix string
	Format Format
	Logger *slog.Logger

	mu   sync.Mutex
	next int
}

// NewSaver returns a Saver writing PNG files named frame-NNNN.png to dir.
func NewSaver(dir string) *Saver {
	return &Saver{Dir: dir, Prefix: "frame", Format: PNG}
}

func (s *Saver) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return glrender.Logger()
}

// Save writes img under the next sequence number and returns the path.
func (s *Saver) Save(img image.Image) (string, error) {
	s.mu.Lock()
	s.next++
	n := s.next
	s.mu.Unlock()

	path := filepath.Join(s.Dir, fmt.Sprintf("%s-%04d.%s", s.Prefix, n, s.Format))
	if err := Save(path, img); err != nil {
		return "", err
	}
	b := img.Bounds()
	s.log().Info("capture: saved frame", "path", path, "width", b.Dx(), "height", b.Dy())
	return path, nil
}

// Capture reads target back through r and saves it. A nil target reads the
// default surface. It must run on the render goroutine.
func (s *Saver) Capture(r PixelReader, target glrender.RenderTarget) (string, error) {
	img, err := r.ReadPixels(target)
	if err != nil {
		return "", fmt.Errorf("capture: read pixels: %w", err)
	}
	return s.Save(img)
}
