package database

import (
	"encoding/json"
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/documents"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

const migrationRepairSectionOrder = "2024-06-01_repair_section_order"

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationRepairSectionOrder, apply: repairSectionOrder},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// repairSectionOrder rewrites stored documents whose section order is empty,
// names unknown sections or lacks a mandatory one.
func repairSectionOrder(db *gorm.DB) error {
	var records []documents.Record
	if err := db.Select("document_id", "content").Find(&records).Error; err != nil {
		return err
	}
	for _, record := range records {
		var content resume.Content
		if len(record.Content) > 0 {
			if err := json.Unmarshal(record.Content, &content); err != nil {
				return err
			}
		}
		repaired := resume.RepairSectionOrder(content.SectionOrder)
		if slices.Equal(repaired, content.SectionOrder) {
			continue
		}
		content.SectionOrder = repaired
		encoded, err := json.Marshal(content)
		if err != nil {
			return err
		}
		err = db.Model(&documents.Record{}).
			Where("document_id = ?", record.DocumentID).
			Update("content", datatypes.JSON(encoded)).Error
		if err != nil {
			return err
		}
	}
	return nil
}
