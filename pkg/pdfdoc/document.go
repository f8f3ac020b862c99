// Package pdfdoc wraps the PDF parsing library behind the small
// interface the rest of the system depends on: open a file, count
// pages, and extract a page's raw text. Rasterization is a separate
// concern, handled by pkg/raster.
package pdfdoc

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// Document is an open PDF file positioned for page-by-page text
// extraction. It is not safe for concurrent use; callers that need
// concurrent access open their own Document per goroutine (mirroring
// the one-storage-handle-per-worker rule applied to PDF files).
type Document struct {
	path    string
	file    *os.File
	reader  *pdf.Reader
	numPage int
}

// Open parses path's PDF structure and returns a Document positioned at
// the start. The caller must call Close when done.
func Open(path string) (*Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdfdoc: open %s: %w", path, err)
	}

	return &Document{
		path:    path,
		file:    f,
		reader:  reader,
		numPage: reader.NumPage(),
	}, nil
}

// Close releases the underlying file handle.
func (d *Document) Close() error {
	if d.file == nil {
		return nil
	}

	return d.file.Close()
}

// PageCount returns the document's page count.
func (d *Document) PageCount() int {
	return d.numPage
}

// PageText returns the raw extracted text of the 1-based page pageNum.
// The text is not cleaned; callers run it through pkg/textclean.Clean.
func (d *Document) PageText(pageNum int) (string, error) {
	if pageNum < 1 || pageNum > d.numPage {
		return "", fmt.Errorf("pdfdoc: page %d out of range [1,%d] in %s", pageNum, d.numPage, d.path)
	}

	page := d.reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("pdfdoc: extract text page %d of %s: %w", pageNum, d.path, err)
	}

	return text, nil
}
