package imagefile

import (
	"context"

	"github.com/avilov/docsearch/internal/core/domain"
	"github.com/avilov/docsearch/internal/core/ports"
)

// Extractor hands raster images straight to optical recognition.
type Extractor struct {
	ocr ports.OpticalRecognizer
}

func New(ocr ports.OpticalRecognizer) *Extractor {
	return &Extractor{ocr: ocr}
}

func (e *Extractor) Extract(ctx context.Context, artifact domain.Artifact) (string, error) {
	text, err := e.ocr.Recognize(ctx, artifact.Data, artifact.ContentType)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "recognize image", err)
	}
	return text, nil
}
