package editor

import (
	"fmt"
	"testing"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

type sequenceIDProvider struct {
	next int
}

func (p *sequenceIDProvider) NewID() (string, error) {
	p.next++
	return fmt.Sprintf("item-%d", p.next), nil
}

func mustStore(t *testing.T) *Store {
	t.Helper()
	factory, err := resume.NewFactory(&sequenceIDProvider{})
	if err != nil {
		t.Fatalf("unexpected factory error: %v", err)
	}
	store, err := NewStore(StoreConfig{Factory: factory})
	if err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	return store
}

func stringPtr(value string) *string {
	return &value
}

func boolPtr(value bool) *bool {
	return &value
}

type recordingListener struct {
	changes []Change
}

func (l *recordingListener) StoreChanged(change Change) {
	l.changes = append(l.changes, change)
}
