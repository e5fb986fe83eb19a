package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

var (
	errMissingRepository = errors.New("repository is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

// ServiceError carries a stable code of the form "<operation>.<reason>".
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

const (
	opServiceNew = "documents.service.new"
	opLoad       = "documents.load"
	opCreate     = "documents.create"
	opSave       = "documents.save"
	opDelete     = "documents.delete"
	opList       = "documents.list"
	opDuplicate  = "documents.duplicate"

	copySuffix = " (Copy)"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

type ServiceConfig struct {
	Repository Repository
	Clock      func() time.Time
	IDProvider resume.IDProvider
	Publisher  EventPublisher
	Logger     *zap.Logger
}

// Service is the persistence boundary for resume documents.
type Service struct {
	repository Repository
	clock      func() time.Time
	idProvider resume.IDProvider
	factory    *resume.Factory
	publisher  EventPublisher
	logger     *zap.Logger
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Repository == nil {
		return nil, newServiceError(opServiceNew, "missing_repository", errMissingRepository)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}
	factory, err := resume.NewFactory(cfg.IDProvider)
	if err != nil {
		return nil, newServiceError(opServiceNew, "factory_failed", err)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{
		repository: cfg.Repository,
		clock:      clock,
		idProvider: cfg.IDProvider,
		factory:    factory,
		publisher:  cfg.Publisher,
		logger:     logger,
	}, nil
}

// Load returns the stored document. A document owned by someone else is
// reported as ErrNotFound.
func (s *Service) Load(ctx context.Context, owner OwnerID, id DocumentID) (resume.Document, error) {
	document, err := s.repository.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return resume.Document{}, ErrNotFound
		}
		s.logError(opLoad, "get_failed", err, zap.String("document_id", id.String()))
		return resume.Document{}, newServiceError(opLoad, "get_failed", err)
	}
	if document.OwnerID != owner.String() {
		return resume.Document{}, ErrNotFound
	}
	document.Content = document.Content.Normalize()
	return document, nil
}

// Create stores a new document for owner and returns its identifier. Supplied
// content with an invalid section order is rejected.
func (s *Service) Create(ctx context.Context, owner OwnerID, input CreateInput) (DocumentID, error) {
	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opCreate, "id_generation_failed", err)
		return "", newServiceError(opCreate, "id_generation_failed", err)
	}

	template := input.Template
	if template == "" {
		template = resume.DefaultTemplate
	}
	document := resume.NewDocument(input.Title, template)
	if input.Content != nil {
		document.Content = input.Content.Clone().Normalize()
		if err := resume.ValidateSectionOrder(document.Content.SectionOrder); err != nil {
			return "", err
		}
		if err := s.factory.AssignIDs(&document.Content); err != nil {
			s.logError(opCreate, "id_generation_failed", err)
			return "", newServiceError(opCreate, "id_generation_failed", err)
		}
	}
	now := s.clock().UTC()
	document.ID = id
	document.OwnerID = owner.String()
	document.CreatedAt = now
	document.UpdatedAt = now

	if err := s.repository.Create(ctx, document); err != nil {
		s.logError(opCreate, "insert_failed", err, zap.String("owner_id", owner.String()))
		return "", newServiceError(opCreate, "insert_failed", err)
	}
	s.publish(owner, DocumentID(id), EventCreated, now)
	return DocumentID(id), nil
}

// Save overwrites the document and returns the new updatedAt. The last
// writer wins. The section order is repaired before writing.
func (s *Service) Save(ctx context.Context, owner OwnerID, id DocumentID, input SaveInput) (time.Time, error) {
	existing, err := s.repository.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return time.Time{}, ErrNotFound
		}
		s.logError(opSave, "get_failed", err, zap.String("document_id", id.String()))
		return time.Time{}, newServiceError(opSave, "get_failed", err)
	}
	if existing.OwnerID != owner.String() {
		return time.Time{}, ErrPermissionDenied
	}

	title := input.Title
	if strings.TrimSpace(title) == "" {
		title = resume.DefaultTitle
	}
	template := input.Template
	if template == "" {
		template = existing.Template
	}

	updatedAt := s.clock().UTC()
	existing.Title = title
	existing.Template = template
	existing.Content = input.Content.Clone().Normalize()
	existing.Content.SectionOrder = resume.RepairSectionOrder(existing.Content.SectionOrder)
	existing.UpdatedAt = updatedAt

	if err := s.repository.Update(ctx, existing); err != nil {
		if errors.Is(err, ErrNotFound) {
			return time.Time{}, ErrNotFound
		}
		s.logError(opSave, "update_failed", err, zap.String("document_id", id.String()))
		return time.Time{}, newServiceError(opSave, "update_failed", err)
	}
	s.publish(owner, id, EventSaved, updatedAt)
	return updatedAt, nil
}

func (s *Service) Delete(ctx context.Context, owner OwnerID, id DocumentID) error {
	existing, err := s.repository.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		s.logError(opDelete, "get_failed", err, zap.String("document_id", id.String()))
		return newServiceError(opDelete, "get_failed", err)
	}
	if existing.OwnerID != owner.String() {
		return ErrPermissionDenied
	}
	if err := s.repository.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		s.logError(opDelete, "delete_failed", err, zap.String("document_id", id.String()))
		return newServiceError(opDelete, "delete_failed", err)
	}
	s.publish(owner, id, EventDeleted, s.clock().UTC())
	return nil
}

// List returns the owner's documents, most recently updated first.
func (s *Service) List(ctx context.Context, owner OwnerID) ([]Summary, error) {
	summaries, err := s.repository.ListByOwner(ctx, owner)
	if err != nil {
		s.logError(opList, "query_failed", err, zap.String("owner_id", owner.String()))
		return nil, newServiceError(opList, "query_failed", err)
	}
	return summaries, nil
}

// Duplicate copies the document under a new identifier. Create assigns
// fresh item ids to the copied content.
func (s *Service) Duplicate(ctx context.Context, owner OwnerID, id DocumentID) (DocumentID, error) {
	source, err := s.Load(ctx, owner, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		return "", newServiceError(opDuplicate, "load_failed", err)
	}

	content := source.Content.Clone()
	return s.Create(ctx, owner, CreateInput{
		Title:    source.Title + copySuffix,
		Template: source.Template,
		Content:  &content,
	})
}

func (s *Service) publish(owner OwnerID, id DocumentID, eventType EventType, at time.Time) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(Event{
		OwnerID:    owner.String(),
		DocumentID: id.String(),
		Type:       eventType,
		Timestamp:  at,
	})
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	if s.logger == nil || err == nil {
		return
	}
	allFields := append([]zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.Error(err),
	}, fields...)
	s.logger.Error("documents service failure", allFields...)
}
