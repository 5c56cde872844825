package pdfdoc

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/avilov/docsearch/internal/core/domain"
	"github.com/avilov/docsearch/internal/core/ports"
	"github.com/avilov/docsearch/internal/infrastructure/pdfpage"
)

// Extractor walks a PDF page by page, reading the embedded text layer where
// one exists and falling back to optical recognition for pages without one.
// Mixed documents come out as a mix of both per page.
type Extractor struct {
	ocr ports.OpticalRecognizer
}

func New(ocr ports.OpticalRecognizer) *Extractor {
	return &Extractor{ocr: ocr}
}

func (e *Extractor) Extract(ctx context.Context, artifact domain.Artifact) (text string, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.WrapError(domain.ErrExtraction, "parse pdf", fmt.Errorf("pdf parser panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(artifact.Data), int64(len(artifact.Data)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "open pdf", err)
	}

	var builder strings.Builder
	for pageNr := 1; pageNr <= reader.NumPage(); pageNr++ {
		pageText := directPageText(reader.Page(pageNr))
		if strings.TrimSpace(pageText) == "" {
			pageText, err = e.recognizePage(ctx, artifact.Data, pageNr)
			if err != nil {
				return "", domain.WrapError(domain.ErrExtraction, fmt.Sprintf("ocr page %d", pageNr), err)
			}
		}
		builder.WriteString(pageText)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// directPageText reads the embedded text layer. A page that cannot yield
// text reads as empty, which routes it to recognition.
func directPageText(page pdf.Page) string {
	if page.V.IsNull() {
		return ""
	}
	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return content
}

func (e *Extractor) recognizePage(ctx context.Context, data []byte, pageNr int) (string, error) {
	pageData, err := pdfpage.Carve(data, pageNr)
	if err != nil {
		return "", err
	}
	return e.ocr.Recognize(ctx, pageData, "application/pdf")
}
