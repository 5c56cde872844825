package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avilov/docsearch/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &DocumentRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestCreateReturnsAssignedID(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO documents").
		WithArgs("scan.pdf", "application/pdf", "scan.pdf\n\nbody", "scan.pdf", "others", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := repo.Create(context.Background(), &domain.Document{
		Filename:    "scan.pdf",
		ContentType: "application/pdf",
		TextContent: "scan.pdf\n\nbody",
		StoragePath: "scan.pdf",
		DocType:     "others",
		CreatedAt:   now,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, filename, content_type, text_content").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSearchTextScansRows(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "filename", "content_type", "text_content", "storage_path", "doc_type", "created_at"}).
		AddRow(int64(1), "a.pdf", "application/pdf", "a.pdf\n\nreport text", "a.pdf", "report", now).
		AddRow(int64(2), "b.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "b.docx\n\nreport draft", "b.docx", "others", now)

	mock.ExpectQuery("SELECT id, filename, content_type, text_content").
		WithArgs("report", 5).
		WillReturnRows(rows)

	docs, err := repo.SearchText(context.Background(), "report", 5)
	if err != nil {
		t.Fatalf("SearchText() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID != 1 || docs[1].ID != 2 {
		t.Fatalf("unexpected ids: %d, %d", docs[0].ID, docs[1].ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
