package usecase

import (
	"context"
	"fmt"

	"github.com/avilov/docsearch/internal/core/ports"
)

// IndexDocumentUseCase forwards a committed document's text to the external
// semantic index. Runs in the worker, driven by committed events.
type IndexDocumentUseCase struct {
	repo  ports.DocumentRepository
	index ports.SemanticIndex
}

func NewIndexDocumentUseCase(repo ports.DocumentRepository, index ports.SemanticIndex) *IndexDocumentUseCase {
	return &IndexDocumentUseCase{repo: repo, index: index}
}

func (uc *IndexDocumentUseCase) IndexByID(ctx context.Context, documentID int64) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}
	if err := uc.index.Index(ctx, doc.ID, doc.TextContent); err != nil {
		return fmt.Errorf("index document text: %w", err)
	}
	return nil
}
