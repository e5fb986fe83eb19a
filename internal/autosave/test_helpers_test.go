package autosave

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/editor"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

var testEpoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type sequenceIDProvider struct {
	mu   sync.Mutex
	next int
}

func (p *sequenceIDProvider) NewID() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	return fmt.Sprintf("item-%d", p.next), nil
}

func mustStore(t *testing.T) *editor.Store {
	t.Helper()
	factory, err := resume.NewFactory(&sequenceIDProvider{})
	if err != nil {
		t.Fatalf("unexpected factory error: %v", err)
	}
	store, err := editor.NewStore(editor.StoreConfig{Factory: factory})
	if err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	return store
}

// fakePersister records every snapshot it is asked to persist.
type fakePersister struct {
	mu        sync.Mutex
	clock     func() time.Time
	snapshots []editor.Snapshot
	failures  int
	err       error
	onPersist func(snapshot editor.Snapshot)
}

func (p *fakePersister) Persist(_ context.Context, snapshot editor.Snapshot) (time.Time, error) {
	p.mu.Lock()
	hook := p.onPersist
	p.snapshots = append(p.snapshots, snapshot)
	var err error
	if p.failures > 0 {
		p.failures--
		err = p.err
	}
	p.mu.Unlock()
	if hook != nil {
		hook(snapshot)
	}
	if err != nil {
		return time.Time{}, err
	}
	return p.clock(), nil
}

func (p *fakePersister) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.snapshots)
}

func (p *fakePersister) last() editor.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshots[len(p.snapshots)-1]
}

type harness struct {
	store       *editor.Store
	scheduler   *ManualScheduler
	persister   *fakePersister
	coordinator *Coordinator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := mustStore(t)
	scheduler := NewManualScheduler(testEpoch)
	persister := &fakePersister{clock: scheduler.Now}
	coordinator, err := NewCoordinator(CoordinatorConfig{
		Store:     store,
		Persister: persister,
		Scheduler: scheduler,
	})
	if err != nil {
		t.Fatalf("unexpected coordinator error: %v", err)
	}
	t.Cleanup(coordinator.Close)
	return &harness{store: store, scheduler: scheduler, persister: persister, coordinator: coordinator}
}

func stringPtr(value string) *string {
	return &value
}
