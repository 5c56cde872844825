package pdfdoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/avilov/docsearch/internal/core/domain"
)

type ocrFake struct {
	text  string
	err   error
	calls int
}

func (f *ocrFake) Recognize(context.Context, []byte, string) (string, error) {
	f.calls++
	return f.text, f.err
}

// buildPDF assembles a minimal well-formed PDF from numbered object bodies,
// computing the xref offsets so parsers accept it.
func buildPDF(objects ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func contentStream(body string) string {
	return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(body), body)
}

const helveticaFont = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>"

func textPagePDF() []byte {
	return buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		helveticaFont,
		contentStream("BT /F1 12 Tf 72 720 Td (hello direct) Tj ET"),
	)
}

func blankPagePDF() []byte {
	return buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	)
}

func mixedPagesPDF() []byte {
	return buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R 6 0 R] /Count 2 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		helveticaFont,
		contentStream("BT /F1 12 Tf 72 720 Td (hello direct) Tj ET"),
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	)
}

func TestExtractTextLayerPageSkipsRecognition(t *testing.T) {
	ocr := &ocrFake{text: "should not appear"}

	text, err := New(ocr).Extract(context.Background(), domain.Artifact{Data: textPagePDF()})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(text, "hello direct") {
		t.Fatalf("expected embedded text, got %q", text)
	}
	if ocr.calls != 0 {
		t.Fatalf("expected no recognition calls for text-layer page, got %d", ocr.calls)
	}
}

func TestExtractBlankPageInvokesRecognition(t *testing.T) {
	ocr := &ocrFake{text: "scanned content"}

	text, err := New(ocr).Extract(context.Background(), domain.Artifact{Data: blankPagePDF()})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(text, "scanned content") {
		t.Fatalf("expected recognized text, got %q", text)
	}
	if ocr.calls != 1 {
		t.Fatalf("expected one recognition call, got %d", ocr.calls)
	}
}

func TestExtractMixedPagesKeepsPageOrder(t *testing.T) {
	ocr := &ocrFake{text: "scanned content"}

	text, err := New(ocr).Extract(context.Background(), domain.Artifact{Data: mixedPagesPDF()})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	direct := strings.Index(text, "hello direct")
	scanned := strings.Index(text, "scanned content")
	if direct < 0 || scanned < 0 {
		t.Fatalf("expected both page texts, got %q", text)
	}
	if direct > scanned {
		t.Fatalf("expected direct text before recognized text, got %q", text)
	}
	if ocr.calls != 1 {
		t.Fatalf("expected one recognition call, got %d", ocr.calls)
	}
}

func TestExtractBlankPageRecognitionFailure(t *testing.T) {
	ocr := &ocrFake{err: errors.New("sidecar down")}

	_, err := New(ocr).Extract(context.Background(), domain.Artifact{Data: blankPagePDF()})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	ocr := &ocrFake{}
	_, err := New(ocr).Extract(context.Background(), domain.Artifact{Data: []byte("%PDF-garbage")})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
	if ocr.calls != 0 {
		t.Fatalf("expected no recognition calls, got %d", ocr.calls)
	}
}

func TestExtractGarbageBytes(t *testing.T) {
	_, err := New(&ocrFake{err: errors.New("unreachable")}).Extract(context.Background(), domain.Artifact{Data: []byte{0x00, 0x01, 0x02}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}
