package documents

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

const maxIdentifierLength = 190

var (
	// ErrNotFound indicates the document does not exist or belongs to another owner.
	ErrNotFound = errors.New("documents: not found")
	// ErrPermissionDenied indicates a write against a document owned by someone else.
	ErrPermissionDenied = errors.New("documents: permission denied")
	// ErrInvalidDocumentID indicates that a document identifier is empty or too long.
	ErrInvalidDocumentID = errors.New("documents: invalid document id")
	// ErrInvalidOwnerID indicates that an owner identifier is empty or too long.
	ErrInvalidOwnerID = errors.New("documents: invalid owner id")
)

// DocumentID represents a validated document identifier.
type DocumentID string

// NewDocumentID validates raw input and returns a DocumentID.
func NewDocumentID(rawInput string) (DocumentID, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidDocumentID)
	}
	if len(trimmed) > maxIdentifierLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidDocumentID, maxIdentifierLength)
	}
	return DocumentID(trimmed), nil
}

func (id DocumentID) String() string {
	return string(id)
}

// OwnerID represents a validated owner identifier.
type OwnerID string

// NewOwnerID validates raw input and returns an OwnerID.
func NewOwnerID(rawInput string) (OwnerID, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidOwnerID)
	}
	if len(trimmed) > maxIdentifierLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidOwnerID, maxIdentifierLength)
	}
	return OwnerID(trimmed), nil
}

func (id OwnerID) String() string {
	return string(id)
}

// Summary is the dashboard view of a document.
type Summary struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Template  resume.Template `json:"template"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CreateInput carries the initial fields of a new document. Zero values
// fall back to the blank default document.
type CreateInput struct {
	Title    string
	Template resume.Template
	Content  *resume.Content
}

// SaveInput carries the fields overwritten by a save.
type SaveInput struct {
	Title    string
	Template resume.Template
	Content  resume.Content
}

// EventType names a document lifecycle event.
type EventType string

const (
	EventCreated EventType = "document-created"
	EventSaved   EventType = "document-saved"
	EventDeleted EventType = "document-deleted"
)

// Event is published after a successful write.
type Event struct {
	OwnerID    string    `json:"-"`
	DocumentID string    `json:"documentId"`
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventPublisher receives document events. Publish must not block.
type EventPublisher interface {
	Publish(event Event)
}
