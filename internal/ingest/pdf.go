package ingest

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageExtractor returns the plain text of each page of a document, in page
// order. Implementations decide which file formats they understand.
type PageExtractor interface {
	Pages(path string) ([]string, error)
}

// PDFExtractor reads PDF files page by page.
type PDFExtractor struct{}

func (PDFExtractor) Pages(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("open PDF %s: %w", path, err)
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d of %s: %w", i, path, err)
		}
		pages = append(pages, strings.TrimSpace(text))
	}
	return pages, nil
}
