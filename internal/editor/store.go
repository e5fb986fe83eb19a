package editor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
	"go.uber.org/zap"
)

var (
	errMissingFactory = errors.New("editor: item factory is required")
	noOpLogger        = zap.NewNop()
)

// ChangeKind classifies a store change.
type ChangeKind string

const (
	// ChangeContent follows any named content mutation.
	ChangeContent ChangeKind = "content"
	// ChangeLoaded follows LoadResume.
	ChangeLoaded ChangeKind = "loaded"
	// ChangeReset follows ResetResume.
	ChangeReset ChangeKind = "reset"
	// ChangeMeta follows save bookkeeping that leaves the document untouched.
	ChangeMeta ChangeKind = "meta"
)

// Meta tracks persistence state for the document held by a Store.
type Meta struct {
	IsDirty   bool       `json:"isDirty"`
	IsSaving  bool       `json:"isSaving"`
	LastSaved *time.Time `json:"lastSaved"`
}

// Change is delivered to listeners after every store transition.
type Change struct {
	Kind     ChangeKind `json:"kind"`
	Revision uint64     `json:"revision"`
	Meta     Meta       `json:"meta"`
}

// Snapshot is a deep copy of the store state at one revision.
type Snapshot struct {
	Document resume.Document `json:"document"`
	Meta     Meta            `json:"meta"`
	Revision uint64          `json:"revision"`
}

// Listener observes store changes. Listeners run synchronously in mutation
// order and must not mutate the store from StoreChanged.
type Listener interface {
	StoreChanged(change Change)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(change Change)

// StoreChanged calls f.
func (f ListenerFunc) StoreChanged(change Change) {
	f(change)
}

// StoreConfig describes the dependencies of a Store.
type StoreConfig struct {
	Factory *resume.Factory
	Logger  *zap.Logger
}

// Store is the single writable source of truth for one editing session.
type Store struct {
	factory *resume.Factory
	logger  *zap.Logger

	// dispatchMu orders notifications; stateMu guards the fields below.
	dispatchMu sync.Mutex
	stateMu    sync.RWMutex
	document   resume.Document
	meta       Meta
	revision   uint64
	// boundID and boundOwner survive LoadResume and ResetResume once set.
	boundID    string
	boundOwner string

	subscribers    []subscriber
	nextListenerID int64
}

type subscriber struct {
	id       int64
	listener Listener
}

// NewStore constructs a Store holding a blank default document.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Factory == nil {
		return nil, errMissingFactory
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Store{
		factory:  cfg.Factory,
		logger:   logger,
		document: resume.NewDocument("", ""),
	}, nil
}

// Subscribe registers listener and returns a function that removes it.
func (s *Store) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	s.stateMu.Lock()
	s.nextListenerID++
	id := s.nextListenerID
	s.subscribers = append(s.subscribers, subscriber{id: id, listener: listener})
	s.stateMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.stateMu.Lock()
			defer s.stateMu.Unlock()
			for index, candidate := range s.subscribers {
				if candidate.id == id {
					s.subscribers = append(s.subscribers[:index:index], s.subscribers[index+1:]...)
					return
				}
			}
		})
	}
}

// Snapshot returns a deep copy of the current document and meta-state.
func (s *Store) Snapshot() Snapshot {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return Snapshot{
		Document: s.document.Clone(),
		Meta:     copyMeta(s.meta),
		Revision: s.revision,
	}
}

// Meta returns the current persistence state.
func (s *Store) Meta() Meta {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return copyMeta(s.meta)
}

// Revision returns the number of document transitions applied so far.
func (s *Store) Revision() uint64 {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.revision
}

// LoadInput carries a persisted snapshot into the store.
type LoadInput struct {
	ID       string          `json:"id"`
	OwnerID  string          `json:"userId,omitempty"`
	Title    string          `json:"title"`
	Template resume.Template `json:"template"`
	Content  resume.Content  `json:"content"`
}

// LoadResume replaces the whole document. A freshly loaded document is never
// dirty. A bound store keeps its document and owner ids.
func (s *Store) LoadResume(input LoadInput) {
	s.apply(ChangeLoaded, func(state *storeState) transition {
		state.document.ID = input.ID
		state.document.OwnerID = input.OwnerID
		state.document.Title = input.Title
		state.document.Template = input.Template
		state.document.Content = input.Content.Clone()
		state.meta.IsDirty = false
		s.restoreBindingLocked(state.document)
		return documentChanged
	})
}

// ResetResume restores the blank default document and clears meta-state. A
// bound store keeps its document and owner ids.
func (s *Store) ResetResume() {
	s.apply(ChangeReset, func(state *storeState) transition {
		*state.document = resume.NewDocument("", "")
		*state.meta = Meta{}
		s.restoreBindingLocked(state.document)
		return documentChanged
	})
}

// BindDocument pins the store to a persisted document. Later loads and
// resets cannot change its identity.
func (s *Store) BindDocument(id, ownerID string) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.boundID = id
	s.boundOwner = ownerID
	s.restoreBindingLocked(&s.document)
}

func (s *Store) restoreBindingLocked(document *resume.Document) {
	if s.boundID == "" {
		return
	}
	document.ID = s.boundID
	document.OwnerID = s.boundOwner
}

func (s *Store) SetTitle(title string) {
	s.mutate(func(document *resume.Document) {
		document.Title = title
	})
}

func (s *Store) SetTemplate(template resume.Template) {
	s.mutate(func(document *resume.Document) {
		document.Template = template
	})
}

// SetContent replaces the content wholesale.
func (s *Store) SetContent(content resume.Content) {
	s.mutate(func(document *resume.Document) {
		document.Content = content.Clone()
	})
}

// MarkDirty flags unsaved changes as if the document had been edited.
func (s *Store) MarkDirty() {
	s.mutate(func(*resume.Document) {})
}

// MarkSaving records whether a persist call is in flight.
func (s *Store) MarkSaving(saving bool) {
	s.setMeta(func(meta *Meta, _ uint64) {
		meta.IsSaving = saving
	})
}

// MarkSaved records a successful persist of the current state.
func (s *Store) MarkSaved(at time.Time) {
	s.setMeta(func(meta *Meta, _ uint64) {
		savedAt := at
		meta.IsDirty = false
		meta.IsSaving = false
		meta.LastSaved = &savedAt
	})
}

// MarkSavedAt records a successful persist of the snapshot taken at revision.
// The store stays dirty when it changed after that snapshot.
func (s *Store) MarkSavedAt(revision uint64, at time.Time) {
	s.setMeta(func(meta *Meta, current uint64) {
		savedAt := at
		meta.IsSaving = false
		meta.LastSaved = &savedAt
		if current == revision {
			meta.IsDirty = false
		}
	})
}

// storeState exposes the mutable fields to apply callbacks.
type storeState struct {
	document *resume.Document
	meta     *Meta
}

// transition reports what an apply callback changed.
type transition int

const (
	unchanged transition = iota
	metaChanged
	documentChanged
)

// mutate applies a document change and flags the store dirty.
func (s *Store) mutate(change func(document *resume.Document)) {
	s.apply(ChangeContent, func(state *storeState) transition {
		change(state.document)
		state.meta.IsDirty = true
		return documentChanged
	})
}

func (s *Store) setMeta(change func(meta *Meta, revision uint64)) {
	s.apply(ChangeMeta, func(state *storeState) transition {
		change(state.meta, s.revision)
		return metaChanged
	})
}

// apply runs change under the state lock, then notifies listeners unless
// nothing changed.
func (s *Store) apply(kind ChangeKind, change func(state *storeState) transition) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.stateMu.Lock()
	result := change(&storeState{document: &s.document, meta: &s.meta})
	if result == unchanged {
		s.stateMu.Unlock()
		return
	}
	if result == documentChanged {
		s.revision++
	}
	event := Change{Kind: kind, Revision: s.revision, Meta: copyMeta(s.meta)}
	listeners := make([]Listener, 0, len(s.subscribers))
	for _, candidate := range s.subscribers {
		listeners = append(listeners, candidate.listener)
	}
	s.stateMu.Unlock()

	for _, listener := range listeners {
		listener.StoreChanged(event)
	}
}

func (s *Store) logAddFailure(kind string, err error) error {
	s.logger.Error("editor store error",
		zap.String("operation", "editor.add_"+kind),
		zap.String("reason", "id_generation_failed"),
		zap.Error(err))
	return fmt.Errorf("editor: add %s: %w", kind, err)
}

func copyMeta(meta Meta) Meta {
	copied := meta
	if meta.LastSaved != nil {
		savedAt := *meta.LastSaved
		copied.LastSaved = &savedAt
	}
	return copied
}
