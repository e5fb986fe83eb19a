package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/editor"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last mutation before a save.
const DefaultDebounce = 2 * time.Second

var (
	errMissingStore     = errors.New("autosave: store is required")
	errMissingPersister = errors.New("autosave: persister is required")
	// ErrClosed indicates the coordinator no longer accepts save requests.
	ErrClosed = errors.New("autosave: coordinator closed")
)

const (
	triggerDebounce = "debounce"
	triggerForce    = "force"
)

// Persister writes a snapshot to durable storage and reports the save time.
type Persister interface {
	Persist(ctx context.Context, snapshot editor.Snapshot) (time.Time, error)
}

// PersisterFunc adapts a function to Persister.
type PersisterFunc func(ctx context.Context, snapshot editor.Snapshot) (time.Time, error)

// Persist calls f.
func (f PersisterFunc) Persist(ctx context.Context, snapshot editor.Snapshot) (time.Time, error) {
	return f(ctx, snapshot)
}

// State is the coordinator's position in the save cycle.
type State string

const (
	StateIdle        State = "idle"
	StatePendingSave State = "pending_save"
	StateSaving      State = "saving"
)

// CoordinatorConfig describes the dependencies of a Coordinator.
type CoordinatorConfig struct {
	Store     *editor.Store
	Persister Persister
	Scheduler Scheduler
	Debounce  time.Duration
	// SaveTimeout bounds debounce-triggered persist calls; zero means no bound.
	SaveTimeout time.Duration
	Logger      *zap.Logger
}

// Coordinator persists a store's document after edits pause, and on demand.
// Persist calls for one coordinator never overlap.
type Coordinator struct {
	store       *editor.Store
	persister   Persister
	scheduler   Scheduler
	debounce    time.Duration
	saveTimeout time.Duration
	logger      *zap.Logger

	mu          sync.Mutex
	timer       Timer
	pending     bool
	saving      bool
	closed      bool
	lastErr     error
	unsubscribe func()

	saveMu sync.Mutex
}

// NewCoordinator subscribes a coordinator to cfg.Store.
func NewCoordinator(cfg CoordinatorConfig) (*Coordinator, error) {
	if cfg.Store == nil {
		return nil, errMissingStore
	}
	if cfg.Persister == nil {
		return nil, errMissingPersister
	}
	scheduler := cfg.Scheduler
	if scheduler == nil {
		scheduler = SystemScheduler{}
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	coordinator := &Coordinator{
		store:       cfg.Store,
		persister:   cfg.Persister,
		scheduler:   scheduler,
		debounce:    debounce,
		saveTimeout: cfg.SaveTimeout,
		logger:      logger,
	}
	coordinator.unsubscribe = cfg.Store.Subscribe(coordinator)
	return coordinator, nil
}

// StoreChanged re-arms the debounce timer on every edit and disarms it when
// the document is replaced.
func (c *Coordinator) StoreChanged(change editor.Change) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	switch change.Kind {
	case editor.ChangeContent:
		if change.Meta.IsDirty {
			c.armLocked()
		}
	case editor.ChangeLoaded, editor.ChangeReset:
		c.disarmLocked()
	}
}

func (c *Coordinator) armLocked() {
	if c.timer == nil {
		c.timer = c.scheduler.AfterFunc(c.debounce, c.onTimer)
	} else {
		c.timer.Reset(c.debounce)
	}
	c.pending = true
}

func (c *Coordinator) disarmLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.pending = false
}

func (c *Coordinator) onTimer() {
	c.mu.Lock()
	if c.closed || !c.pending {
		c.mu.Unlock()
		return
	}
	c.pending = false
	c.mu.Unlock()

	ctx := context.Background()
	if c.saveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.saveTimeout)
		defer cancel()
	}
	_ = c.save(ctx, triggerDebounce)
}

// ForceSave persists immediately when the store is dirty. It leaves any
// pending debounce timer armed; a later redundant save is harmless.
func (c *Coordinator) ForceSave(ctx context.Context) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return c.save(ctx, triggerForce)
}

// save persists the newest snapshot. Callers queue on saveMu, so a request
// arriving during an in-flight save writes the state as of its own turn.
func (c *Coordinator) save(ctx context.Context, trigger string) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	snapshot := c.store.Snapshot()
	if !snapshot.Meta.IsDirty {
		return nil
	}

	c.setSaving(true)
	c.store.MarkSaving(true)

	savedAt, err := c.persister.Persist(ctx, snapshot)
	if err != nil {
		c.store.MarkSaving(false)
		c.finishSave(err)
		c.logger.Error("autosave error",
			zap.String("operation", "autosave.persist"),
			zap.String("reason", "persist_failed"),
			zap.String("trigger", trigger),
			zap.String("document_id", snapshot.Document.ID),
			zap.Uint64("revision", snapshot.Revision),
			zap.Error(err))
		return err
	}

	c.store.MarkSavedAt(snapshot.Revision, savedAt)
	c.finishSave(nil)
	c.logger.Debug("document saved",
		zap.String("trigger", trigger),
		zap.String("document_id", snapshot.Document.ID),
		zap.Uint64("revision", snapshot.Revision))
	return nil
}

func (c *Coordinator) setSaving(saving bool) {
	c.mu.Lock()
	c.saving = saving
	c.mu.Unlock()
}

func (c *Coordinator) finishSave(err error) {
	c.mu.Lock()
	c.saving = false
	c.lastErr = err
	c.mu.Unlock()
}

// State reports where the coordinator is in the save cycle.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.saving:
		return StateSaving
	case c.pending:
		return StatePendingSave
	default:
		return StateIdle
	}
}

// LastError returns the error of the most recent persist call, or nil after a success.
func (c *Coordinator) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Close stops the timer, detaches from the store and waits for an in-flight save.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.disarmLocked()
	unsubscribe := c.unsubscribe
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	c.saveMu.Lock()
	c.saveMu.Unlock() //nolint:staticcheck
}
