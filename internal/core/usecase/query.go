package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/avilov/docsearch/internal/core/domain"
	"github.com/avilov/docsearch/internal/core/ports"
)

const (
	// snippetRadius is the window of surrounding text returned on either
	// side of a keyword match.
	snippetRadius = 100

	// snippetFallbackLen caps the leading-text snippet used when no match
	// position can be located in the stored text.
	snippetFallbackLen = 200

	defaultSearchLimit = 5
	maxSearchLimit     = 50
)

// QueryUseCase serves retrieval over committed documents: keyword scan with
// snippet windows, semantic lookup via the external index, and artifact
// streaming by id.
type QueryUseCase struct {
	repo     ports.DocumentRepository
	storage  ports.ObjectStorage
	semantic ports.SemanticIndex
}

func NewQueryUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	semantic ports.SemanticIndex,
) *QueryUseCase {
	return &QueryUseCase{
		repo:     repo,
		storage:  storage,
		semantic: semantic,
	}
}

func (uc *QueryUseCase) SearchKeyword(ctx context.Context, keyword string, limit int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search keyword", errors.New("keyword must not be blank"))
	}

	docs, err := uc.repo.SearchText(ctx, keyword, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, domain.SearchResult{
			ID:          doc.ID,
			Filename:    doc.Filename,
			ContentType: doc.ContentType,
			DocType:     doc.DocType,
			Snippet:     buildSnippet(doc.TextContent, keyword),
		})
	}
	return results, nil
}

func (uc *QueryUseCase) SearchSemantic(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "semantic query", errors.New("query must not be blank"))
	}

	ids, err := uc.semantic.Query(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("semantic query: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(ids))
	for _, id := range ids {
		doc, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			// The index can lag behind administrative deletions.
			if domain.IsKind(err, domain.ErrDocumentNotFound) {
				continue
			}
			return nil, fmt.Errorf("hydrate semantic hit %d: %w", id, err)
		}
		results = append(results, domain.SearchResult{
			ID:          doc.ID,
			Filename:    doc.Filename,
			ContentType: doc.ContentType,
			DocType:     doc.DocType,
			Snippet:     leadingSnippet(doc.TextContent),
		})
	}
	return results, nil
}

func (uc *QueryUseCase) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	return uc.repo.GetByID(ctx, id)
}

// OpenArtifact returns the record and a stream of its stored artifact. A
// missing backing file is a lookup miss, not a processing failure.
func (uc *QueryUseCase) OpenArtifact(ctx context.Context, id int64) (*domain.Document, io.ReadCloser, error) {
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	reader, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, domain.WrapError(domain.ErrDocumentNotFound, "open artifact", err)
	}
	return doc, reader, nil
}

// buildSnippet returns a window around the first case-insensitive match,
// with ellipses on edges that do not reach the text boundary. Window edges
// are clamped outward to rune boundaries so the snippet stays valid UTF-8.
func buildSnippet(text, keyword string) string {
	pos := strings.Index(strings.ToLower(text), strings.ToLower(keyword))
	if pos < 0 {
		return leadingSnippet(text)
	}

	start := pos - snippetRadius
	if start < 0 {
		start = 0
	}
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	end := pos + len(keyword) + snippetRadius
	if end > len(text) {
		end = len(text)
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}

	snippet := text[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet += "..."
	}
	return snippet
}

func leadingSnippet(text string) string {
	if len(text) <= snippetFallbackLen {
		return text
	}
	cut := snippetFallbackLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultSearchLimit
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}
