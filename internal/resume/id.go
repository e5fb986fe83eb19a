package resume

import "github.com/google/uuid"

// IDProvider issues locally-unique identifiers for collection items.
type IDProvider interface {
	NewID() (string, error)
}

// IDProviderFunc adapts a function to IDProvider.
type IDProviderFunc func() (string, error)

// NewID calls f.
func (f IDProviderFunc) NewID() (string, error) {
	return f()
}

type uuidProvider struct{}

// NewUUIDProvider constructs an IDProvider that issues random (version 4) UUIDs.
func NewUUIDProvider() IDProvider {
	return &uuidProvider{}
}

func (p *uuidProvider) NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return value.String(), nil
}
