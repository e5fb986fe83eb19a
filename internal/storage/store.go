package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	// ErrInvalidKey indicates a storage key that escapes the store root.
	ErrInvalidKey = errors.New("storage: invalid key")
	// ErrObjectNotFound indicates a missing object.
	ErrObjectNotFound = errors.New("storage: object not found")
)

// ObjectStore persists exported artifacts under caller-chosen keys.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// ArtifactKey builds the key an export is archived under.
func ArtifactKey(ownerID string, documentID string, fileName string) string {
	return path.Join("exports", ownerID, documentID, fileName)
}

func cleanKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", ErrInvalidKey
	}
	for _, segment := range strings.Split(trimmed, "/") {
		if segment == ".." {
			return "", ErrInvalidKey
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+trimmed), "/")
	if cleaned == "" {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
