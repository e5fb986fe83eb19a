package render

import (
	"sync"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/editor"
)

// Preview is a layout tagged with the store revision it was built from.
type Preview struct {
	Revision uint64 `json:"revision"`
	Layout   Layout `json:"layout"`
}

// Projector keeps a layout in step with a store and fans it out to its own
// listeners. It never mutates the store.
type Projector struct {
	store       *editor.Store
	unsubscribe func()

	mu        sync.RWMutex
	current   Preview
	listeners map[int64]func(Preview)
	nextID    int64
}

// NewProjector builds the initial layout and subscribes to store.
func NewProjector(store *editor.Store) *Projector {
	projector := &Projector{
		store:     store,
		listeners: make(map[int64]func(Preview)),
	}
	projector.current = projector.build()
	projector.unsubscribe = store.Subscribe(projector)
	return projector
}

// StoreChanged rebuilds the layout unless only save bookkeeping changed.
func (p *Projector) StoreChanged(change editor.Change) {
	if change.Kind == editor.ChangeMeta {
		return
	}
	preview := p.build()

	p.mu.Lock()
	p.current = preview
	listeners := make([]func(Preview), 0, len(p.listeners))
	for _, listener := range p.listeners {
		listeners = append(listeners, listener)
	}
	p.mu.Unlock()

	for _, listener := range listeners {
		listener(preview)
	}
}

// Current returns the latest preview.
func (p *Projector) Current() Preview {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Subscribe registers listener for future previews.
func (p *Projector) Subscribe(listener func(Preview)) func() {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.listeners[id] = listener
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// Close detaches the projector from its store.
func (p *Projector) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
}

func (p *Projector) build() Preview {
	snapshot := p.store.Snapshot()
	return Preview{Revision: snapshot.Revision, Layout: Project(snapshot.Document)}
}
