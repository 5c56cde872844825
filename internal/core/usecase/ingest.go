package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/avilov/docsearch/internal/core/domain"
	"github.com/avilov/docsearch/internal/core/ports"
)

// IngestDocumentUseCase runs the upload pipeline: reject unsupported media,
// persist the artifact, extract text, classify, commit. Any failure after
// the artifact hits storage deletes it again, so a record exists if and
// only if its backing file does.
type IngestDocumentUseCase struct {
	repo       ports.DocumentRepository
	storage    ports.ObjectStorage
	extractors map[domain.Strategy]ports.TextExtractor
	classifier ports.TypeClassifier
	events     ports.EventPublisher
}

func NewIngestDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	extractors map[domain.Strategy]ports.TextExtractor,
	classifier ports.TypeClassifier,
	events ports.EventPublisher,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		repo:       repo,
		storage:    storage,
		extractors: extractors,
		classifier: classifier,
		events:     events,
	}
}

func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	filename, mediaType string,
	body io.Reader,
) (*domain.Document, error) {
	strategy := domain.SelectStrategy(mediaType)
	if strategy == domain.StrategyUnsupported {
		return nil, domain.WrapError(domain.ErrUnsupportedMedia, "select strategy", fmt.Errorf("media type %q", mediaType))
	}
	extractor, ok := uc.extractors[strategy]
	if !ok {
		return nil, domain.WrapError(domain.ErrProcessing, "select extractor", fmt.Errorf("no extractor registered for strategy %s", strategy))
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read upload body", err)
	}

	// Filename-keyed: a same-named upload overwrites the previous artifact.
	key := sanitizeFilename(filename)
	if err := uc.storage.Save(ctx, key, bytes.NewReader(raw)); err != nil {
		return nil, domain.WrapError(domain.ErrProcessing, "persist artifact", err)
	}

	artifact := domain.Artifact{
		Filename:    filename,
		ContentType: mediaType,
		Strategy:    strategy,
		Data:        raw,
	}

	text, err := extractor.Extract(ctx, artifact)
	if err != nil {
		uc.discard(ctx, key)
		return nil, domain.WrapError(domain.ErrProcessing, "extract text", err)
	}

	label := domain.LabelSpreadsheet
	if strategy != domain.StrategySpreadsheet {
		label = uc.classifier.Classify(ctx, artifact, text)
	}

	doc := &domain.Document{
		Filename:    filename,
		ContentType: mediaType,
		TextContent: fmt.Sprintf("%s\n\n%s", filename, text),
		StoragePath: key,
		DocType:     label,
		CreatedAt:   time.Now().UTC(),
	}

	id, err := uc.repo.Create(ctx, doc)
	if err != nil {
		uc.discard(ctx, key)
		return nil, domain.WrapError(domain.ErrProcessing, "commit document", err)
	}
	doc.ID = id

	// The record is durable at this point; downstream indexing is advisory.
	if uc.events != nil {
		if err := uc.events.PublishDocumentCommitted(ctx, id); err != nil {
			slog.Warn("publish committed event", "document_id", id, "error", err)
		}
	}

	return doc, nil
}

// discard removes a persisted artifact after a failed pipeline stage so no
// orphan outlives the upload call.
func (uc *IngestDocumentUseCase) discard(ctx context.Context, key string) {
	if err := uc.storage.Delete(ctx, key); err != nil {
		slog.Warn("delete artifact after failed ingestion", "key", key, "error", err)
	}
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}
