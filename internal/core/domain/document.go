package domain

import "time"

const (
	// LabelUnclassified is the sentinel label meaning classification was
	// unavailable or unconfident. It is always a valid outcome.
	LabelUnclassified = "others"

	// LabelSpreadsheet is the fixed label for spreadsheet uploads, which
	// never go through the image-classification model.
	LabelSpreadsheet = "spreadsheet"
)

// Document is the durable record of one successful ingestion. It is created
// once per upload and never updated in place.
type Document struct {
	ID          int64     `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	TextContent string    `json:"text_content"`
	StoragePath string    `json:"storage_path"`
	DocType     string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}

// Artifact is one uploaded file, owned by the ingestion pipeline for the
// duration of a single upload call.
type Artifact struct {
	Filename    string
	ContentType string
	Strategy    Strategy
	Data        []byte
}

// SearchResult is the caller-facing projection of a matched document.
type SearchResult struct {
	ID          int64  `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	DocType     string `json:"type"`
	Snippet     string `json:"snippet"`
}
