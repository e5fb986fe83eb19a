package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/autosave"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/documents"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/editor"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/render"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	errMissingDocuments  = errors.New("session: document service is required")
	errMissingFactory    = errors.New("session: item factory is required")
	errMissingIDProvider = errors.New("session: id provider is required")
)

// DocumentService loads and saves the documents sessions edit.
type DocumentService interface {
	Load(ctx context.Context, owner documents.OwnerID, id documents.DocumentID) (resume.Document, error)
	Save(ctx context.Context, owner documents.OwnerID, id documents.DocumentID, input documents.SaveInput) (time.Time, error)
}

// ManagerConfig describes the dependencies of a Manager.
type ManagerConfig struct {
	Documents  DocumentService
	Factory    *resume.Factory
	IDProvider resume.IDProvider
	Scheduler  autosave.Scheduler
	Debounce   time.Duration
	// SaveTimeout bounds each debounce-triggered save.
	SaveTimeout time.Duration
	Logger      *zap.Logger
}

// Manager owns the open editing sessions. A document has at most one open
// session per owner.
type Manager struct {
	documents   DocumentService
	factory     *resume.Factory
	idProvider  resume.IDProvider
	scheduler   autosave.Scheduler
	debounce    time.Duration
	saveTimeout time.Duration
	logger      *zap.Logger

	mu       sync.Mutex
	sessions map[sessionKey]*Session
	scratch  map[string]*Session
}

type sessionKey struct {
	owner documents.OwnerID
	id    documents.DocumentID
}

// NewManager validates cfg.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Documents == nil {
		return nil, errMissingDocuments
	}
	if cfg.Factory == nil {
		return nil, errMissingFactory
	}
	if cfg.IDProvider == nil {
		return nil, errMissingIDProvider
	}
	scheduler := cfg.Scheduler
	if scheduler == nil {
		scheduler = autosave.SystemScheduler{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		documents:   cfg.Documents,
		factory:     cfg.Factory,
		idProvider:  cfg.IDProvider,
		scheduler:   scheduler,
		debounce:    cfg.Debounce,
		saveTimeout: cfg.SaveTimeout,
		logger:      logger,
		sessions:    make(map[sessionKey]*Session),
		scratch:     make(map[string]*Session),
	}, nil
}

// Open loads the document into a new session, or returns the session already
// open for it. documents.ErrNotFound propagates unchanged.
func (m *Manager) Open(ctx context.Context, owner documents.OwnerID, id documents.DocumentID) (*Session, error) {
	key := sessionKey{owner: owner, id: id}
	if existing := m.lookup(key); existing != nil {
		return existing, nil
	}

	document, err := m.documents.Load(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	opened, err := m.build(owner, document)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if existing, ok := m.sessions[key]; ok {
		m.mu.Unlock()
		opened.discard()
		return existing, nil
	}
	m.sessions[key] = opened
	m.mu.Unlock()

	m.logger.Debug("session opened",
		zap.String("owner_id", owner.String()),
		zap.String("document_id", id.String()))
	return opened, nil
}

// Get returns the open session for the document.
func (m *Manager) Get(owner documents.OwnerID, id documents.DocumentID) (*Session, error) {
	if existing := m.lookup(sessionKey{owner: owner, id: id}); existing != nil {
		return existing, nil
	}
	return nil, ErrSessionNotFound
}

// Close flushes and removes the document's session.
func (m *Manager) Close(ctx context.Context, owner documents.OwnerID, id documents.DocumentID) error {
	key := sessionKey{owner: owner, id: id}
	m.mu.Lock()
	existing, ok := m.sessions[key]
	delete(m.sessions, key)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	if err := existing.Close(ctx); err != nil {
		m.logError("session.close", "flush_failed", err,
			zap.String("document_id", id.String()))
		return err
	}
	return nil
}

// Discard drops the document's session without saving. Used after the
// document itself is deleted.
func (m *Manager) Discard(owner documents.OwnerID, id documents.DocumentID) {
	key := sessionKey{owner: owner, id: id}
	m.mu.Lock()
	existing, ok := m.sessions[key]
	delete(m.sessions, key)
	m.mu.Unlock()
	if ok {
		existing.discard()
	}
}

// OpenScratch starts an unsaved session on a blank document.
func (m *Manager) OpenScratch() (*Session, error) {
	id, err := m.idProvider.NewID()
	if err != nil {
		m.logError("session.open_scratch", "id_generation_failed", err)
		return nil, fmt.Errorf("session: scratch id: %w", err)
	}
	store, err := editor.NewStore(editor.StoreConfig{Factory: m.factory, Logger: m.logger})
	if err != nil {
		return nil, err
	}
	scratch := &Session{
		id:        id,
		store:     store,
		projector: render.NewProjector(store),
	}

	m.mu.Lock()
	m.scratch[id] = scratch
	m.mu.Unlock()
	return scratch, nil
}

func (m *Manager) Scratch(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.scratch[id]; ok {
		return existing, nil
	}
	return nil, ErrSessionNotFound
}

func (m *Manager) CloseScratch(id string) error {
	m.mu.Lock()
	existing, ok := m.scratch[id]
	delete(m.scratch, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	existing.discard()
	return nil
}

// Unsaved lists the documents whose sessions hold edits not yet persisted.
func (m *Manager) Unsaved() []documents.DocumentID {
	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for _, candidate := range m.sessions {
		open = append(open, candidate)
	}
	m.mu.Unlock()

	var dirty []documents.DocumentID
	for _, candidate := range open {
		if candidate.isDirty() {
			dirty = append(dirty, documents.DocumentID(candidate.id))
		}
	}
	return dirty
}

// CloseAll flushes every document session concurrently and drops scratch
// sessions. It returns the first flush error.
func (m *Manager) CloseAll(ctx context.Context) error {
	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for key, candidate := range m.sessions {
		open = append(open, candidate)
		delete(m.sessions, key)
	}
	scratch := make([]*Session, 0, len(m.scratch))
	for id, candidate := range m.scratch {
		scratch = append(scratch, candidate)
		delete(m.scratch, id)
	}
	m.mu.Unlock()

	for _, candidate := range scratch {
		candidate.discard()
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, candidate := range open {
		candidate := candidate
		group.Go(func() error {
			if err := candidate.Close(groupCtx); err != nil {
				m.logError("session.close_all", "flush_failed", err,
					zap.String("document_id", candidate.id))
				return err
			}
			return nil
		})
	}
	return group.Wait()
}

func (m *Manager) lookup(key sessionKey) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[key]
}

func (m *Manager) build(owner documents.OwnerID, document resume.Document) (*Session, error) {
	store, err := editor.NewStore(editor.StoreConfig{Factory: m.factory, Logger: m.logger})
	if err != nil {
		return nil, err
	}
	store.LoadResume(editor.LoadInput{
		ID:       document.ID,
		OwnerID:  document.OwnerID,
		Title:    document.Title,
		Template: document.Template,
		Content:  document.Content,
	})
	store.BindDocument(document.ID, document.OwnerID)

	opened := &Session{
		id:        document.ID,
		owner:     owner,
		store:     store,
		projector: render.NewProjector(store),
	}
	coordinator, err := autosave.NewCoordinator(autosave.CoordinatorConfig{
		Store:       store,
		Persister:   documentPersister{documents: m.documents, owner: owner, id: documents.DocumentID(document.ID)},
		Scheduler:   m.scheduler,
		Debounce:    m.debounce,
		SaveTimeout: m.saveTimeout,
		Logger:      m.logger,
	})
	if err != nil {
		opened.projector.Close()
		return nil, err
	}
	opened.coordinator = coordinator
	return opened, nil
}

func (m *Manager) logError(operation, reason string, err error, fields ...zap.Field) {
	allFields := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	allFields = append(allFields, fields...)
	allFields = append(allFields, zap.Error(err))
	m.logger.Error("session manager error", allFields...)
}

// documentPersister saves store snapshots through the document service. The
// target is fixed when the session opens; the snapshot's own id is ignored.
type documentPersister struct {
	documents DocumentService
	owner     documents.OwnerID
	id        documents.DocumentID
}

func (p documentPersister) Persist(ctx context.Context, snapshot editor.Snapshot) (time.Time, error) {
	return p.documents.Save(ctx, p.owner, p.id, documents.SaveInput{
		Title:    snapshot.Document.Title,
		Template: snapshot.Document.Template,
		Content:  snapshot.Document.Content,
	})
}
