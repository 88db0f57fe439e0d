// Package extract provides plain-text extraction from document payloads.
// All failures degrade to partial or empty text; nothing propagates to callers.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts plain text from PDF documents page by page.
type PDFExtractor struct {
	logger *slog.Logger
}

// NewPDFExtractor creates a PDF text extractor.
func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PDFExtractor{logger: logger.With("component", "pdf_extractor")}
}

// Text extracts the concatenated plain text of all pages, in page order.
// A page that fails to yield text contributes an empty string; a document
// that cannot be opened or parsed at all yields "". The distinction between
// "unreadable document" and "document with no text" is visible only in the
// logs; both map to an empty result.
func (e *PDFExtractor) Text(data []byte) string {
	reader, err := e.open(data)
	if err != nil {
		e.logger.Error("Failed to open PDF document", "error", err, "size", len(data))
		return ""
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		text, err := e.pageText(reader, i)
		if err != nil {
			e.logger.Warn("Failed to extract text from PDF page", "page", i, "error", err)
			continue
		}
		sb.WriteString(text)
	}

	e.logger.Debug("Extracted text from PDF", "pages", numPages, "text_length", sb.Len())
	return sb.String()
}

// open parses the document. The pdf library panics on some malformed files,
// so the recover guard converts those into an open failure.
func (e *PDFExtractor) open(data []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader = nil
			err = &parsePanicError{value: r}
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

func (e *PDFExtractor) pageText(reader *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &parsePanicError{value: r}
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

type parsePanicError struct {
	value any
}

func (p *parsePanicError) Error() string {
	return fmt.Sprintf("pdf parser panic: %v", p.value)
}
