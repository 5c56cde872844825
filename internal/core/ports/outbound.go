package ports

import (
	"context"
	"io"

	"github.com/avilov/docsearch/internal/core/domain"
)

// DocumentRepository persists and reads committed documents. Create assigns
// the record identifier on insert.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Document, error)
	SearchText(ctx context.Context, keyword string, limit int) ([]domain.Document, error)
}

// ObjectStorage stores original artifacts under the upload root.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// TextExtractor turns artifact bytes into plain text. Expected malformed
// input surfaces as a domain.ErrExtraction kind, never a crash.
type TextExtractor interface {
	Extract(ctx context.Context, artifact domain.Artifact) (string, error)
}

// OpticalRecognizer derives text from a raster image or a single-page PDF
// with no embedded text layer.
type OpticalRecognizer interface {
	Recognize(ctx context.Context, payload []byte, contentType string) (string, error)
}

// TypeClassifier assigns a document-type label. It is total: every call
// returns a label, falling back to domain.LabelUnclassified on any internal
// failure.
type TypeClassifier interface {
	Classify(ctx context.Context, artifact domain.Artifact, extractedText string) string
}

// EventPublisher announces committed documents to downstream consumers.
type EventPublisher interface {
	PublishDocumentCommitted(ctx context.Context, documentID int64) error
}

// SemanticIndex is the external embedding-based search collaborator.
type SemanticIndex interface {
	Index(ctx context.Context, documentID int64, text string) error
	Query(ctx context.Context, query string, limit int) ([]int64, error)
}
