package documents

import (
	"context"
	"sort"
	"sync"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

// Repository is the at-rest document store.
type Repository interface {
	Get(ctx context.Context, id DocumentID) (resume.Document, error)
	Create(ctx context.Context, document resume.Document) error
	// Update overwrites title, template, content and updatedAt.
	Update(ctx context.Context, document resume.Document) error
	Delete(ctx context.Context, id DocumentID) error
	// ListByOwner returns the owner's documents, most recently updated first.
	ListByOwner(ctx context.Context, owner OwnerID) ([]Summary, error)
}

// MemoryRepository keeps documents in process memory.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[DocumentID]resume.Document
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[DocumentID]resume.Document)}
}

func (r *MemoryRepository) Get(ctx context.Context, id DocumentID) (resume.Document, error) {
	if err := ctx.Err(); err != nil {
		return resume.Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	document, ok := r.data[id]
	if !ok {
		return resume.Document{}, ErrNotFound
	}
	return document.Clone(), nil
}

func (r *MemoryRepository) Create(ctx context.Context, document resume.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[DocumentID(document.ID)] = document.Clone()
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, document resume.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[DocumentID(document.ID)]
	if !ok {
		return ErrNotFound
	}
	existing.Title = document.Title
	existing.Template = document.Template
	existing.Content = document.Content.Clone()
	existing.UpdatedAt = document.UpdatedAt
	r.data[DocumentID(document.ID)] = existing
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id DocumentID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *MemoryRepository) ListByOwner(ctx context.Context, owner OwnerID) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	summaries := make([]Summary, 0)
	for _, document := range r.data {
		if document.OwnerID != owner.String() {
			continue
		}
		summaries = append(summaries, summaryOf(document))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

func summaryOf(document resume.Document) Summary {
	return Summary{
		ID:        document.ID,
		Title:     document.Title,
		Template:  document.Template,
		CreatedAt: document.CreatedAt,
		UpdatedAt: document.UpdatedAt,
	}
}

var _ Repository = (*MemoryRepository)(nil)
