package documents

import (
	"fmt"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var testEpoch = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

type sequenceIDProvider struct {
	mu   sync.Mutex
	next int
}

func (p *sequenceIDProvider) NewID() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	return fmt.Sprintf("id-%d", p.next), nil
}

type failingIDProvider struct{}

func (failingIDProvider) NewID() (string, error) {
	return "", fmt.Errorf("entropy exhausted")
}

// steppingClock advances one minute per call.
type steppingClock struct {
	mu      sync.Mutex
	current time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(time.Minute)
	return c.current
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]EventType, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.Type)
	}
	return types
}

func mustOwnerID(t *testing.T, value string) OwnerID {
	t.Helper()
	id, err := NewOwnerID(value)
	if err != nil {
		t.Fatalf("unexpected owner id error: %v", err)
	}
	return id
}

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:documents_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

type repositoryFactory struct {
	name string
	open func(t *testing.T) Repository
}

func repositoryFactories() []repositoryFactory {
	return []repositoryFactory{
		{name: "memory", open: func(t *testing.T) Repository { return NewMemoryRepository() }},
		{name: "gorm", open: func(t *testing.T) Repository {
			repository, err := NewGormRepository(openTestDatabase(t))
			if err != nil {
				t.Fatalf("failed to construct gorm repository: %v", err)
			}
			return repository
		}},
	}
}

func newTestService(t *testing.T, repository Repository) (*Service, *recordingPublisher) {
	t.Helper()
	clock := &steppingClock{current: testEpoch}
	publisher := &recordingPublisher{}
	service, err := NewService(ServiceConfig{
		Repository: repository,
		Clock:      clock.Now,
		IDProvider: &sequenceIDProvider{},
		Publisher:  publisher,
	})
	if err != nil {
		t.Fatalf("failed to construct documents service: %v", err)
	}
	return service, publisher
}
