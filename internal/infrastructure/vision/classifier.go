package vision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/panjf2000/ants/v2"

	"github.com/avilov/docsearch/internal/core/domain"
	"github.com/avilov/docsearch/internal/infrastructure/pdfpage"
)

// inferenceAPI is the slice of the sidecar client the classifier needs.
type inferenceAPI interface {
	Classify(ctx context.Context, payload []byte, contentType string) (string, error)
}

// Classifier assigns document-type labels through the vision sidecar. It
// never fails an upload: any internal error, panic, or empty answer yields
// domain.LabelUnclassified. Inference calls run on a bounded worker pool so
// a flood of uploads cannot pile unbounded load onto the sidecar.
type Classifier struct {
	api  inferenceAPI
	pool *ants.Pool
}

func NewClassifier(api inferenceAPI, workers int) (*Classifier, error) {
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create inference pool: %w", err)
	}
	return &Classifier{api: api, pool: pool}, nil
}

func (c *Classifier) Close() {
	c.pool.Release()
}

func (c *Classifier) Classify(ctx context.Context, artifact domain.Artifact, extractedText string) (label string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("classification panic", "filename", artifact.Filename, "panic", r)
			label = domain.LabelUnclassified
		}
	}()

	payload, contentType, err := c.preparePayload(artifact, extractedText)
	if err != nil {
		slog.Warn("prepare classification payload", "filename", artifact.Filename, "error", err)
		return domain.LabelUnclassified
	}
	if payload == nil {
		return domain.LabelUnclassified
	}

	label, err = c.classifyBounded(ctx, payload, contentType)
	if err != nil {
		slog.Warn("classification call", "filename", artifact.Filename, "error", err)
		return domain.LabelUnclassified
	}
	if strings.TrimSpace(label) == "" {
		slog.Warn("classification returned empty label", "filename", artifact.Filename)
		return domain.LabelUnclassified
	}
	return label
}

// preparePayload shapes the artifact into what the sidecar can look at. A
// nil payload with nil error means there is nothing worth classifying.
func (c *Classifier) preparePayload(artifact domain.Artifact, extractedText string) ([]byte, string, error) {
	switch artifact.Strategy {
	case domain.StrategyImage:
		return artifact.Data, artifact.ContentType, nil
	case domain.StrategyPDF:
		// The first page carries the letterhead and title block.
		page, err := pdfpage.Carve(artifact.Data, 1)
		if err != nil {
			return nil, "", err
		}
		return page, "application/pdf", nil
	case domain.StrategyDOCX:
		if strings.TrimSpace(extractedText) == "" {
			return nil, "", nil
		}
		page, err := renderTextPage(extractedText)
		if err != nil {
			return nil, "", err
		}
		return page, "image/png", nil
	default:
		return nil, "", fmt.Errorf("no classification payload for strategy %s", artifact.Strategy)
	}
}

// classifyBounded runs the sidecar call on the worker pool and waits for
// the result or context cancellation.
func (c *Classifier) classifyBounded(ctx context.Context, payload []byte, contentType string) (string, error) {
	type result struct {
		label string
		err   error
	}
	done := make(chan result, 1)

	err := c.pool.Submit(func() {
		label, err := c.api.Classify(ctx, payload, contentType)
		done <- result{label: label, err: err}
	})
	if err != nil {
		return "", fmt.Errorf("submit inference task: %w", err)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.label, res.err
	}
}
