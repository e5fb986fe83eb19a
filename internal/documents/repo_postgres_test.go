package documents

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

func newMockRepository(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PostgresRepository{DB: db}, mock
}

func TestPostgresRepositoryCreate(t *testing.T) {
	repository, mock := newMockRepository(t)
	document := resume.NewDocument("Resume", resume.TemplateModern)
	document.ID = "doc-1"
	document.OwnerID = "user-1"
	document.CreatedAt = testEpoch
	document.UpdatedAt = testEpoch

	mock.ExpectExec("INSERT INTO resume_documents").
		WithArgs(
			document.ID,
			document.OwnerID,
			document.Title,
			"modern",
			sqlmock.AnyArg(), // content
			document.CreatedAt,
			document.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repository.Create(context.Background(), document); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPostgresRepositoryGetDecodesContent(t *testing.T) {
	repository, mock := newMockRepository(t)
	rows := sqlmock.NewRows([]string{"id", "owner_id", "title", "template", "content", "created_at", "updated_at"}).
		AddRow("doc-1", "user-1", "Resume", "classic", []byte(`{"summary":"hello","sectionOrder":["personal","summary"]}`), testEpoch, testEpoch.Add(time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("FROM resume_documents")).
		WithArgs("doc-1").
		WillReturnRows(rows)

	document, err := repository.Get(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if document.Content.Summary != "hello" {
		t.Fatalf("expected summary to decode, got %q", document.Content.Summary)
	}
	if document.Content.Experience == nil {
		t.Fatalf("expected missing collections to decode as empty slices")
	}
	if !document.UpdatedAt.Equal(testEpoch.Add(time.Hour)) {
		t.Fatalf("unexpected updatedAt %v", document.UpdatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPostgresRepositoryGetMissing(t *testing.T) {
	repository, mock := newMockRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM resume_documents")).
		WithArgs("doc-404").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repository.Get(context.Background(), "doc-404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresRepositoryUpdateWithoutRowsIsNotFound(t *testing.T) {
	repository, mock := newMockRepository(t)
	document := resume.NewDocument("Resume", resume.TemplateClassic)
	document.ID = "doc-1"
	document.UpdatedAt = testEpoch

	mock.ExpectExec("UPDATE resume_documents").
		WithArgs(document.ID, document.Title, "classic", sqlmock.AnyArg(), document.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repository.Update(context.Background(), document); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPostgresRepositoryListByOwner(t *testing.T) {
	repository, mock := newMockRepository(t)
	rows := sqlmock.NewRows([]string{"id", "title", "template", "created_at", "updated_at"}).
		AddRow("doc-2", "Newer", "modern", testEpoch, testEpoch.Add(2*time.Hour)).
		AddRow("doc-1", "Older", "classic", testEpoch, testEpoch.Add(time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY updated_at DESC")).
		WithArgs("user-1").
		WillReturnRows(rows)

	summaries, err := repository.ListByOwner(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(summaries) != 2 || summaries[0].ID != "doc-2" || summaries[1].Template != resume.TemplateClassic {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPostgresRepositoryDelete(t *testing.T) {
	repository, mock := newMockRepository(t)
	mock.ExpectExec("DELETE FROM resume_documents").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repository.Delete(context.Background(), "doc-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
