package ports

import (
	"context"
	"io"

	"github.com/avilov/docsearch/internal/core/domain"
)

// DocumentIngestor is the inbound contract for the upload pipeline.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mediaType string, body io.Reader) (*domain.Document, error)
}

// DocumentQueryService is the inbound contract for retrieval over committed
// documents.
type DocumentQueryService interface {
	SearchKeyword(ctx context.Context, keyword string, limit int) ([]domain.SearchResult, error)
	SearchSemantic(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
	GetByID(ctx context.Context, id int64) (*domain.Document, error)
	OpenArtifact(ctx context.Context, id int64) (*domain.Document, io.ReadCloser, error)
}

// DocumentIndexer forwards a committed document to the semantic index.
type DocumentIndexer interface {
	IndexByID(ctx context.Context, documentID int64) error
}
