package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/avilov/docsearch/internal/core/domain"
)

const documentEntry = "word/document.xml"

// Extractor reads paragraph text out of the main document part of a DOCX
// archive. Paragraphs are joined with newlines, empty ones included, so the
// original vertical layout survives into the stored text.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, artifact domain.Artifact) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(artifact.Data), int64(len(artifact.Data)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "open docx archive", err)
	}

	var part *zip.File
	for _, f := range reader.File {
		if f.Name == documentEntry {
			part = f
			break
		}
	}
	if part == nil {
		return "", domain.WrapError(domain.ErrExtraction, "locate document part", errors.New(documentEntry+" missing"))
	}

	rc, err := part.Open()
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "open document part", err)
	}
	defer rc.Close()

	text, err := collectParagraphs(rc)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "parse document xml", err)
	}
	return text, nil
}

func collectParagraphs(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
		inPara     bool
	)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "t":
				inText = true
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inPara {
					paragraphs = append(paragraphs, current.String())
					inPara = false
				}
			}
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}
