// Package raster renders a single PDF page to PNG bytes. The underlying
// MuPDF binding is not reentrant, so every render call is serialized
// through a package-level mutex regardless of which document is open.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"github.com/gen2brain/go-fitz"
)

const (
	// DPI is the rendering resolution. Some deployments run at 300; the
	// default here matches the resolved Open Question in DESIGN.md.
	DPI = 150
)

// mu serializes all calls into the MuPDF binding across every open
// document, mirroring the non-reentrant raster library the spec
// describes.
var mu sync.Mutex

// Render opens path, rasterizes the zero-based page pageIndex at DPI
// onto a white background, and returns PNG bytes. MuPDF's antialiasing
// level is not changed; pages render with the library default.
func Render(path string, pageIndex int) ([]byte, error) {
	mu.Lock()
	defer mu.Unlock()

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("raster: open %s: %w", path, err)
	}
	defer doc.Close()

	numPage := doc.NumPage()
	if pageIndex < 0 || pageIndex >= numPage {
		return nil, fmt.Errorf("raster: page %d out of range [0,%d) in %s", pageIndex, numPage, path)
	}

	img, err := doc.ImageDPI(pageIndex, DPI)
	if err != nil {
		return nil, fmt.Errorf("raster: render page %d of %s: %w", pageIndex, path, err)
	}

	flattened := flattenOnWhite(img)

	var buf bytes.Buffer

	if err := png.Encode(&buf, flattened); err != nil {
		return nil, fmt.Errorf("raster: encode page %d of %s: %w", pageIndex, path, err)
	}

	return buf.Bytes(), nil
}

// flattenOnWhite composites img over an opaque white background,
// matching the "white background" requirement; MuPDF's rendered images
// are already opaque in the common case, but a transparent page
// background (rare, e.g. some vector-only pages) would otherwise show
// through as black once re-encoded without an alpha channel.
func flattenOnWhite(img image.Image) image.Image {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)

	draw.Draw(out, bounds, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(out, bounds, img, bounds.Min, draw.Over)

	return out
}
