package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestCleanKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{name: "plain", key: "exports/a/b.pdf", want: "exports/a/b.pdf"},
		{name: "leading slash", key: "/exports/b.pdf", want: "exports/b.pdf"},
		{name: "double slash", key: "exports//b.pdf", want: "exports/b.pdf"},
		{name: "dots in name", key: "exports/my..resume.pdf", want: "exports/my..resume.pdf"},
		{name: "traversal", key: "../etc/passwd", wantErr: true},
		{name: "nested traversal", key: "exports/../../x", wantErr: true},
		{name: "empty", key: "  ", wantErr: true},
		{name: "root", key: "/", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := cleanKey(tt.key)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKey) {
					t.Fatalf("expected ErrInvalidKey, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("cleanKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "exports/a.pdf", want: "exports/a.pdf"},
		{name: "prefix", prefix: "resumes", key: "exports/a.pdf", want: "resumes/exports/a.pdf"},
		{name: "slashes trimmed", prefix: "/resumes/", key: "/exports/a.pdf", want: "resumes/exports/a.pdf"},
		{name: "empty key", prefix: "resumes", key: "", want: "resumes"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(normalizePrefix(tt.prefix), tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestArtifactKey(t *testing.T) {
	if got := ArtifactKey("user-1", "doc-1", "Resume.pdf"); got != "exports/user-1/doc-1/Resume.pdf" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()

	written, err := store.Put(ctx, "exports/u/d/resume.txt", "text/plain", strings.NewReader("hello resume"))
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if written != int64(len("hello resume")) {
		t.Fatalf("expected %d bytes written, got %d", len("hello resume"), written)
	}

	reader, err := store.Open(ctx, "exports/u/d/resume.txt")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "hello resume" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestLocalStoreRejectsTraversalAndMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Put(ctx, "../escape.txt", "text/plain", strings.NewReader("x")); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if _, err := store.Open(ctx, "exports/missing.txt"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestNewLocalStoreRequiresDirectory(t *testing.T) {
	if _, err := NewLocalStore(""); err == nil {
		t.Fatalf("expected error for empty base directory")
	}
}

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	lastPut *s3.PutObjectInput
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.lastPut = params
	f.objects[aws.ToString(params.Key)] = data
	f.types[aws.ToString(params.Key)] = aws.ToString(params.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3StorePutAppliesPrefixAndEncryption(t *testing.T) {
	client := newFakeS3()
	store := NewS3StoreWithClient(client, S3Config{Bucket: "bucket", Prefix: "/archive/"})

	written, err := store.Put(context.Background(), "exports/u/d/resume.pdf", "application/pdf", strings.NewReader("%PDF"))
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if written != 4 {
		t.Fatalf("expected 4 bytes, got %d", written)
	}
	if _, ok := client.objects["archive/exports/u/d/resume.pdf"]; !ok {
		t.Fatalf("expected prefixed key, got %v", client.objects)
	}
	if client.types["archive/exports/u/d/resume.pdf"] != "application/pdf" {
		t.Fatalf("unexpected content type %q", client.types["archive/exports/u/d/resume.pdf"])
	}
	if client.lastPut.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256 encryption, got %q", client.lastPut.ServerSideEncryption)
	}
}

func TestS3StoreUsesKMSWhenConfigured(t *testing.T) {
	client := newFakeS3()
	store := NewS3StoreWithClient(client, S3Config{Bucket: "bucket", KMSKeyID: " key-1 "})

	if _, err := store.Put(context.Background(), "exports/a.txt", "text/plain", strings.NewReader("a")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if client.lastPut.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms {
		t.Fatalf("expected KMS encryption, got %q", client.lastPut.ServerSideEncryption)
	}
	if aws.ToString(client.lastPut.SSEKMSKeyId) != "key-1" {
		t.Fatalf("unexpected kms key %q", aws.ToString(client.lastPut.SSEKMSKeyId))
	}
}

func TestS3StoreOpen(t *testing.T) {
	client := newFakeS3()
	store := NewS3StoreWithClient(client, S3Config{Bucket: "bucket", Prefix: "archive"})
	ctx := context.Background()

	if _, err := store.Put(ctx, "exports/a.txt", "text/plain", strings.NewReader("body")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	reader, err := store.Open(ctx, "exports/a.txt")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer reader.Close()
	data, _ := io.ReadAll(reader)
	if string(data) != "body" {
		t.Fatalf("unexpected body %q", data)
	}

	if _, err := store.Open(ctx, "exports/missing.txt"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestS3StoreWrapsPutFailure(t *testing.T) {
	client := newFakeS3()
	client.putErr = errors.New("denied")
	store := NewS3StoreWithClient(client, S3Config{Bucket: "bucket"})

	_, err := store.Put(context.Background(), "exports/a.txt", "text/plain", strings.NewReader("a"))
	if err == nil || !strings.Contains(err.Error(), "denied") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	if _, err := NewS3Store(context.Background(), S3Config{Region: "us-east-1"}); err == nil {
		t.Fatalf("expected error for missing bucket")
	}
}
