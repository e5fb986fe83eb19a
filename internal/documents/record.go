package documents

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

// Record is the SQLite row for a document. Content is stored as JSON.
type Record struct {
	DocumentID  string         `gorm:"column:document_id;primaryKey;size:190;not null"`
	OwnerID     string         `gorm:"column:owner_id;size:190;not null;index:idx_documents_owner_updated,priority:1"`
	Title       string         `gorm:"column:title;not null"`
	Template    string         `gorm:"column:template;size:32;not null"`
	Content     datatypes.JSON `gorm:"column:content;not null"`
	CreatedAtMs int64          `gorm:"column:created_at_ms;not null"`
	UpdatedAtMs int64          `gorm:"column:updated_at_ms;not null;index:idx_documents_owner_updated,priority:2"`
}

func (Record) TableName() string {
	return "resume_documents"
}

func recordFromDocument(document resume.Document) (Record, error) {
	content, err := json.Marshal(document.Content)
	if err != nil {
		return Record{}, err
	}
	return Record{
		DocumentID:  document.ID,
		OwnerID:     document.OwnerID,
		Title:       document.Title,
		Template:    document.Template.String(),
		Content:     datatypes.JSON(content),
		CreatedAtMs: document.CreatedAt.UTC().UnixMilli(),
		UpdatedAtMs: document.UpdatedAt.UTC().UnixMilli(),
	}, nil
}

func (r Record) document() (resume.Document, error) {
	content := resume.NewContent()
	if len(r.Content) > 0 {
		if err := json.Unmarshal(r.Content, &content); err != nil {
			return resume.Document{}, err
		}
	}
	return resume.Document{
		ID:        r.DocumentID,
		OwnerID:   r.OwnerID,
		Title:     r.Title,
		Template:  resume.Template(r.Template),
		Content:   content.Normalize(),
		CreatedAt: time.UnixMilli(r.CreatedAtMs).UTC(),
		UpdatedAt: time.UnixMilli(r.UpdatedAtMs).UTC(),
	}, nil
}

func (r Record) summary() Summary {
	return Summary{
		ID:        r.DocumentID,
		Title:     r.Title,
		Template:  resume.Template(r.Template),
		CreatedAt: time.UnixMilli(r.CreatedAtMs).UTC(),
		UpdatedAt: time.UnixMilli(r.UpdatedAtMs).UTC(),
	}
}
