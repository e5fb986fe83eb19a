package documents

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

// GormRepository stores documents through gorm (SQLite in practice).
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) (*GormRepository, error) {
	if db == nil {
		return nil, errors.New("database handle is required")
	}
	return &GormRepository{db: db}, nil
}

func (r *GormRepository) Get(ctx context.Context, id DocumentID) (resume.Document, error) {
	var record Record
	err := r.db.WithContext(ctx).Where("document_id = ?", id.String()).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return resume.Document{}, ErrNotFound
	}
	if err != nil {
		return resume.Document{}, err
	}
	return record.document()
}

func (r *GormRepository) Create(ctx context.Context, document resume.Document) error {
	record, err := recordFromDocument(document)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *GormRepository) Update(ctx context.Context, document resume.Document) error {
	record, err := recordFromDocument(document)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&Record{}).
		Where("document_id = ?", record.DocumentID).
		Updates(map[string]any{
			"title":         record.Title,
			"template":      record.Template,
			"content":       record.Content,
			"updated_at_ms": record.UpdatedAtMs,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id DocumentID) error {
	result := r.db.WithContext(ctx).Where("document_id = ?", id.String()).Delete(&Record{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) ListByOwner(ctx context.Context, owner OwnerID) ([]Summary, error) {
	var records []Record
	err := r.db.WithContext(ctx).
		Select("document_id", "title", "template", "created_at_ms", "updated_at_ms").
		Where("owner_id = ?", owner.String()).
		Order("updated_at_ms DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, record.summary())
	}
	return summaries, nil
}

var _ Repository = (*GormRepository)(nil)
