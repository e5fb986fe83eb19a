package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

// PostgresRepository stores documents in Postgres with a jsonb content column.
type PostgresRepository struct {
	DB *sql.DB
}

func (r *PostgresRepository) Get(ctx context.Context, id DocumentID) (resume.Document, error) {
	const query = `
SELECT id, owner_id, title, template, content, created_at, updated_at
FROM resume_documents
WHERE id = $1`
	var (
		document resume.Document
		template string
		content  []byte
	)
	err := r.DB.QueryRowContext(ctx, query, id.String()).Scan(
		&document.ID,
		&document.OwnerID,
		&document.Title,
		&template,
		&content,
		&document.CreatedAt,
		&document.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resume.Document{}, ErrNotFound
		}
		return resume.Document{}, err
	}
	document.Template = resume.Template(template)
	document.Content = resume.NewContent()
	if len(content) > 0 {
		if err := json.Unmarshal(content, &document.Content); err != nil {
			return resume.Document{}, err
		}
	}
	document.Content = document.Content.Normalize()
	document.CreatedAt = document.CreatedAt.UTC()
	document.UpdatedAt = document.UpdatedAt.UTC()
	return document, nil
}

func (r *PostgresRepository) Create(ctx context.Context, document resume.Document) error {
	const query = `
INSERT INTO resume_documents (
    id,
    owner_id,
    title,
    template,
    content,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	content, err := json.Marshal(document.Content)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(
		ctx,
		query,
		document.ID,
		document.OwnerID,
		document.Title,
		document.Template.String(),
		content,
		document.CreatedAt,
		document.UpdatedAt,
	)
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, document resume.Document) error {
	const query = `
UPDATE resume_documents
SET title = $2, template = $3, content = $4, updated_at = $5
WHERE id = $1`
	content, err := json.Marshal(document.Content)
	if err != nil {
		return err
	}
	result, err := r.DB.ExecContext(
		ctx,
		query,
		document.ID,
		document.Title,
		document.Template.String(),
		content,
		document.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *PostgresRepository) Delete(ctx context.Context, id DocumentID) error {
	const query = `DELETE FROM resume_documents WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id.String())
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, owner OwnerID) ([]Summary, error) {
	const query = `
SELECT id, title, template, created_at, updated_at
FROM resume_documents
WHERE owner_id = $1
ORDER BY updated_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, owner.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]Summary, 0)
	for rows.Next() {
		var (
			summary   Summary
			template  string
			createdAt time.Time
			updatedAt time.Time
		)
		if err := rows.Scan(&summary.ID, &summary.Title, &template, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		summary.Template = resume.Template(template)
		summary.CreatedAt = createdAt.UTC()
		summary.UpdatedAt = updatedAt.UTC()
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
