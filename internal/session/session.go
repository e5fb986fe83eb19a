package session

import (
	"context"
	"errors"
	"sync"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/autosave"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/documents"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/editor"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/render"
)

var (
	// ErrScratchSession indicates a save was requested for a session that has
	// no backing document.
	ErrScratchSession = errors.New("session: scratch sessions are never saved")
	// ErrSessionNotFound indicates no open session matches the request.
	ErrSessionNotFound = errors.New("session: not found")
	// ErrSessionClosed indicates the session was closed.
	ErrSessionClosed = errors.New("session: closed")
)

// Update is pushed to session subscribers after every store change.
type Update struct {
	Kind     editor.ChangeKind `json:"kind"`
	Revision uint64            `json:"revision"`
	Meta     editor.Meta       `json:"meta"`
	Preview  render.Preview    `json:"preview"`
}

// Session binds one store to its autosave coordinator and projection.
type Session struct {
	id          string
	owner       documents.OwnerID
	store       *editor.Store
	coordinator *autosave.Coordinator
	projector   *render.Projector

	mu     sync.Mutex
	closed bool
}

// ID returns the document identifier, or the scratch identifier.
func (s *Session) ID() string {
	return s.id
}

// OwnerID returns the owner; empty for scratch sessions.
func (s *Session) OwnerID() documents.OwnerID {
	return s.owner
}

// IsScratch reports whether the session is never persisted.
func (s *Session) IsScratch() bool {
	return s.coordinator == nil
}

// Store returns the mutation store.
func (s *Session) Store() *editor.Store {
	return s.store
}

func (s *Session) Snapshot() editor.Snapshot {
	return s.store.Snapshot()
}

// Preview returns the latest projected layout with its revision.
func (s *Session) Preview() render.Preview {
	return s.projector.Current()
}

func (s *Session) Layout() render.Layout {
	return s.projector.Current().Layout
}

// SaveState reports the autosave cycle position.
func (s *Session) SaveState() autosave.State {
	if s.coordinator == nil {
		return autosave.StateIdle
	}
	return s.coordinator.State()
}

// LastSaveError returns the error of the most recent persist attempt.
func (s *Session) LastSaveError() error {
	if s.coordinator == nil {
		return nil
	}
	return s.coordinator.LastError()
}

// ForceSave persists pending edits now.
func (s *Session) ForceSave(ctx context.Context) error {
	if s.coordinator == nil {
		return ErrScratchSession
	}
	if s.isClosed() {
		return ErrSessionClosed
	}
	return s.coordinator.ForceSave(ctx)
}

// Subscribe registers listener for updates. Listeners run on the mutating
// goroutine and must not block.
func (s *Session) Subscribe(listener func(Update)) func() {
	return s.store.Subscribe(editor.ListenerFunc(func(change editor.Change) {
		listener(Update{
			Kind:     change.Kind,
			Revision: change.Revision,
			Meta:     change.Meta,
			Preview:  s.projector.Current(),
		})
	}))
}

// Close flushes unsaved edits and detaches the coordinator and projection.
// Detaching happens even when the flush fails.
func (s *Session) Close(ctx context.Context) error {
	return s.shutdown(ctx, true)
}

func (s *Session) discard() {
	_ = s.shutdown(context.Background(), false)
}

func (s *Session) shutdown(ctx context.Context, flush bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	var flushErr error
	if s.coordinator != nil {
		if flush && s.store.Meta().IsDirty {
			flushErr = s.coordinator.ForceSave(ctx)
		}
		s.coordinator.Close()
	}
	s.projector.Close()
	return flushErr
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) isDirty() bool {
	return s.store.Meta().IsDirty
}
