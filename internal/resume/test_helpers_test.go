package resume

import (
	"fmt"
	"testing"
)

type sequenceIDProvider struct {
	next int
}

func (p *sequenceIDProvider) NewID() (string, error) {
	p.next++
	return fmt.Sprintf("id-%d", p.next), nil
}

func mustFactory(t *testing.T) *Factory {
	t.Helper()
	factory, err := NewFactory(&sequenceIDProvider{})
	if err != nil {
		t.Fatalf("unexpected factory error: %v", err)
	}
	return factory
}
