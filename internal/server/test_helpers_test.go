package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/assist"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/auth"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/autosave"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/documents"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/export"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/session"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	testSigningSecret = "test-signing-secret"
	testCookieName    = "resume_session"
)

var testEpoch = time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)

type sequenceIDProvider struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func (p *sequenceIDProvider) NewID() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	return fmt.Sprintf("%s-%d", p.prefix, p.next), nil
}

type testServerConfig struct {
	completer assist.Completer
	artifacts storage.ObjectStore
	heartbeat time.Duration
}

type testServer struct {
	handler   http.Handler
	documents *documents.Service
	sessions  *session.Manager
	scheduler *autosave.ManualScheduler
	realtime  *RealtimeDispatcher
	issuer    *auth.TokenIssuer
}

func newTestServer(t *testing.T, cfg testServerConfig) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	scheduler := autosave.NewManualScheduler(testEpoch)
	realtime := NewRealtimeDispatcher()
	documentService, err := documents.NewService(documents.ServiceConfig{
		Repository: documents.NewMemoryRepository(),
		Clock:      scheduler.Now,
		IDProvider: &sequenceIDProvider{prefix: "doc"},
		Publisher:  realtime,
	})
	if err != nil {
		t.Fatalf("failed to construct documents service: %v", err)
	}
	factory, err := resume.NewFactory(&sequenceIDProvider{prefix: "item"})
	if err != nil {
		t.Fatalf("failed to construct factory: %v", err)
	}
	manager, err := session.NewManager(session.ManagerConfig{
		Documents:  documentService,
		Factory:    factory,
		IDProvider: &sequenceIDProvider{prefix: "scratch"},
		Scheduler:  scheduler,
		Debounce:   2 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to construct session manager: %v", err)
	}
	t.Cleanup(func() {
		_ = manager.CloseAll(context.Background())
	})
	assistService, err := assist.NewService(assist.ServiceConfig{
		Completer: cfg.completer,
		Factory:   factory,
	})
	if err != nil {
		t.Fatalf("failed to construct assist service: %v", err)
	}
	validator, err := auth.NewSessionValidator(auth.SessionValidatorConfig{
		SigningSecret: []byte(testSigningSecret),
		CookieName:    testCookieName,
	})
	if err != nil {
		t.Fatalf("failed to construct validator: %v", err)
	}
	issuer, err := auth.NewTokenIssuer(auth.TokenIssuerConfig{SigningSecret: []byte(testSigningSecret)})
	if err != nil {
		t.Fatalf("failed to construct issuer: %v", err)
	}

	heartbeat := cfg.heartbeat
	if heartbeat <= 0 {
		heartbeat = time.Hour
	}
	handler, err := NewHTTPHandler(Dependencies{
		Validator: validator,
		Documents: documentService,
		Sessions:  manager,
		Assist:    assistService,
		Exporter:  export.NewExporter(nil, nil),
		Artifacts: cfg.artifacts,
		Realtime:  realtime,
		Heartbeat: heartbeat,
		Logger:    zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("failed to construct http handler: %v", err)
	}
	return &testServer{
		handler:   handler,
		documents: documentService,
		sessions:  manager,
		scheduler: scheduler,
		realtime:  realtime,
		issuer:    issuer,
	}
}

func (s *testServer) token(t *testing.T, subject string) string {
	t.Helper()
	token, _, err := s.issuer.Issue(context.Background(), auth.Identity{Subject: subject})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

// do sends a request with an optional JSON body and bearer token.
func (s *testServer) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	request := httptest.NewRequest(method, target, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	s.handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeJSON(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
}

func expectStatus(t *testing.T, recorder *httptest.ResponseRecorder, want int) {
	t.Helper()
	if recorder.Code != want {
		t.Fatalf("unexpected status: got %d, want %d (body %s)", recorder.Code, want, recorder.Body.String())
	}
}

func expectErrorCode(t *testing.T, recorder *httptest.ResponseRecorder, want string) {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
	}
	decodeJSON(t, recorder, &payload)
	if payload.Error != want {
		t.Fatalf("unexpected error code: got %q, want %q", payload.Error, want)
	}
}
