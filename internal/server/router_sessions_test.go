package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/assist"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/documents"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/render"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/storage"
)

func openSession(t *testing.T, server *testServer, token, id string) sessionSnapshotPayload {
	t.Helper()
	recorder := server.do(t, http.MethodPost, "/sessions/"+id, token, nil)
	expectStatus(t, recorder, http.StatusOK)
	var snapshot sessionSnapshotPayload
	decodeJSON(t, recorder, &snapshot)
	return snapshot
}

func mutate(t *testing.T, server *testServer, token, target string, command map[string]any) mutationResponsePayload {
	t.Helper()
	recorder := server.do(t, http.MethodPost, target+"/mutations", token, command)
	expectStatus(t, recorder, http.StatusOK)
	var response mutationResponsePayload
	decodeJSON(t, recorder, &response)
	return response
}

func TestSessionEditAndSave(t *testing.T) {
	server := newTestServer(t, testServerConfig{})
	token := server.token(t, "owner-1")
	id := createDocument(t, server, token, map[string]any{"title": "Backend Resume"})

	snapshot := openSession(t, server, token, id)
	if snapshot.Document.Title != "Backend Resume" || snapshot.Meta.IsDirty || snapshot.Scratch {
		t.Fatalf("unexpected opened snapshot %+v", snapshot)
	}

	response := mutate(t, server, token, "/sessions/"+id, map[string]any{"op": "updateSummary", "value": "Ships reliable services."})
	if !response.Meta.IsDirty || response.Revision <= snapshot.Revision {
		t.Fatalf("expected dirty state after mutation, got %+v", response)
	}

	recorder := server.do(t, http.MethodPost, "/sessions/"+id+"/save", token, nil)
	expectStatus(t, recorder, http.StatusOK)
	var saved mutationResponsePayload
	decodeJSON(t, recorder, &saved)
	if saved.Meta.IsDirty || saved.Meta.LastSaved == nil {
		t.Fatalf("expected clean state after save, got %+v", saved.Meta)
	}

	stored, err := server.documents.Load(context.Background(), "owner-1", documents.DocumentID(id))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if stored.Content.Summary != "Ships reliable services." {
		t.Fatalf("expected saved summary, got %q", stored.Content.Summary)
	}
}

func TestSessionRejectsBadCommands(t *testing.T) {
	server := newTestServer(t, testServerConfig{})
	token := server.token(t, "owner-1")
	id := createDocument(t, server, token, nil)
	openSession(t, server, token, id)

	recorder := server.do(t, http.MethodPost, "/sessions/"+id+"/mutations", token, map[string]any{"op": "explode"})
	expectStatus(t, recorder, http.StatusBadRequest)
	expectErrorCode(t, recorder, "unknown_operation")

	recorder = server.do(t, http.MethodPost, "/sessions/"+id+"/mutations", token, map[string]any{"op": "setTemplate", "value": "fancy"})
	expectStatus(t, recorder, http.StatusBadRequest)
	expectErrorCode(t, recorder, "invalid_command")

	recorder = server.do(t, http.MethodPost, "/sessions/"+id+"/mutations", token, map[string]any{"op": "reorderSections", "order": []string{"skills", "summary"}})
	expectStatus(t, recorder, http.StatusBadRequest)
	expectErrorCode(t, recorder, "invalid_command")
}

func TestSessionLookupRequiresOpenSession(t *testing.T) {
	server := newTestServer(t, testServerConfig{})
	token := server.token(t, "owner-1")
	id := createDocument(t, server, token, nil)

	recorder := server.do(t, http.MethodGet, "/sessions/"+id, token, nil)
	expectStatus(t, recorder, http.StatusNotFound)
	expectErrorCode(t, recorder, "session_not_found")

	recorder = server.do(t, http.MethodPost, "/sessions/missing", token, nil)
	expectStatus(t, recorder, http.StatusNotFound)
	expectErrorCode(t, recorder, "document_not_found")
}

func TestCloseSessionFlushesEdits(t *testing.T) {
	server := newTestServer(t, testServerConfig{})
	token := server.token(t, "owner-1")
	id := createDocument(t, server, token, nil)
	openSession(t, server, token, id)
	mutate(t, server, token, "/sessions/"+id, map[string]any{"op": "setTitle", "value": "Renamed"})

	recorder := server.do(t, http.MethodDelete, "/sessions/"+id, token, nil)
	expectStatus(t, recorder, http.StatusNoContent)

	stored, err := server.documents.Load(context.Background(), "owner-1", documents.DocumentID(id))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if stored.Title != "Renamed" {
		t.Fatalf("expected flushed title, got %q", stored.Title)
	}
	if unsaved := server.sessions.Unsaved(); len(unsaved) != 0 {
		t.Fatalf("expected no unsaved sessions, got %v", unsaved)
	}
}

func TestDeleteDocumentDiscardsSession(t *testing.T) {
	server := newTestServer(t, testServerConfig{})
	token := server.token(t, "owner-1")
	id := createDocument(t, server, token, nil)
	openSession(t, server, token, id)
	mutate(t, server, token, "/sessions/"+id, map[string]any{"op": "setTitle", "value": "Doomed"})

	recorder := server.do(t, http.MethodDelete, "/documents/"+id, token, nil)
	expectStatus(t, recorder, http.StatusNoContent)

	recorder = server.do(t, http.MethodGet, "/sessions/"+id, token, nil)
	expectStatus(t, recorder, http.StatusNotFound)
	if unsaved := server.sessions.Unsaved(); len(unsaved) != 0 {
		t.Fatalf("expected discarded session, got %v", unsaved)
	}
}

func TestSessionLayoutAndPreview(t *testing.T) {
	server := newTestServer(t, testServerConfig{})
	token := server.token(t, "owner-1")
	id := createDocument(t, server, token, nil)
	openSession(t, server, token, id)
	mutate(t, server, token, "/sessions/"+id, map[string]any{"op": "updatePersonalInfo", "patch": map[string]any{"name": "Grace Hopper"}})

	recorder := server.do(t, http.MethodGet, "/sessions/"+id+"/layout", token, nil)
	expectStatus(t, recorder, http.StatusOK)
	var preview render.Preview
	decodeJSON(t, recorder, &preview)
	if preview.Layout.Header.Name != "Grace Hopper" {
		t.Fatalf("expected projected name, got %q", preview.Layout.Header.Name)
	}

	recorder = server.do(t, http.MethodGet, "/sessions/"+id+"/preview", token, nil)
	expectStatus(t, recorder, http.StatusOK)
	if !strings.HasPrefix(recorder.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected content type %q", recorder.Header().Get("Content-Type"))
	}
	if !strings.Contains(recorder.Body.String(), "Grace Hopper") {
		t.Fatalf("expected preview to contain the name")
	}
}

func TestSessionExport(t *testing.T) {
	server := newTestServer(t, testServerConfig{})
	token := server.token(t, "owner-1")
	id := createDocument(t, server, token, map[string]any{"title": "Backend Resume"})
	openSession(t, server, token, id)
	mutate(t, server, token, "/sessions/"+id, map[string]any{"op": "updateSummary", "value": "Unsaved summary"})

	recorder := server.do(t, http.MethodGet, "/sessions/"+id+"/export/txt", token, nil)
	expectStatus(t, recorder, http.StatusOK)
	if got := recorder.Header().Get("Content-Disposition"); got != `attachment; filename="Backend Resume.txt"` {
		t.Fatalf("unexpected content disposition %q", got)
	}
	if !strings.Contains(recorder.Body.String(), "Unsaved summary") {
		t.Fatalf("expected export to reflect the live state, got %q", recorder.Body.String())
	}

	recorder = server.do(t, http.MethodGet, "/sessions/"+id+"/export/pdf", token, nil)
	expectStatus(t, recorder, http.StatusServiceUnavailable)
	expectErrorCode(t, recorder, "pdf_unavailable")

	recorder = server.do(t, http.MethodGet, "/sessions/"+id+"/export/rtf", token, nil)
	expectStatus(t, recorder, http.StatusBadRequest)
	expectErrorCode(t, recorder, "unknown_format")

	recorder = server.do(t, http.MethodGet, "/sessions/"+id+"/export/txt?archive=true", token, nil)
	expectStatus(t, recorder, http.StatusServiceUnavailable)
	expectErrorCode(t, recorder, "archive_unavailable")
}

func TestSessionExportArchive(t *testing.T) {
	artifacts, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to construct local store: %v", err)
	}
	server := newTestServer(t, testServerConfig{artifacts: artifacts})
	token := server.token(t, "owner-1")
	id := createDocument(t, server, token, map[string]any{"title": "Backend Resume"})
	openSession(t, server, token, id)

	recorder := server.do(t, http.MethodGet, "/sessions/"+id+"/export/docx?archive=true", token, nil)
	expectStatus(t, recorder, http.StatusOK)
	wantKey := "exports/owner-1/" + id + "/Backend Resume.docx"
	if got := recorder.Header().Get(artifactKeyHeader); got != wantKey {
		t.Fatalf("unexpected artifact key %q, want %q", got, wantKey)
	}
	exported := recorder.Body.Bytes()

	download := server.do(t, http.MethodGet, "/exports/"+id+"/Backend%20Resume.docx", token, nil)
	expectStatus(t, download, http.StatusOK)
	if download.Body.String() != string(exported) {
		t.Fatalf("downloaded artifact differs from export")
	}
	if got := download.Header().Get("Content-Type"); !strings.Contains(got, "wordprocessingml") {
		t.Fatalf("unexpected download content type %q", got)
	}

	intruder := server.do(t, http.MethodGet, "/exports/"+id+"/Backend%20Resume.docx", server.token(t, "owner-2"), nil)
	expectStatus(t, intruder, http.StatusNotFound)
	expectErrorCode(t, intruder, "artifact_not_found")
}

func TestScratchSessionFlow(t *testing.T) {
	artifacts, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to construct local store: %v", err)
	}
	server := newTestServer(t, testServerConfig{artifacts: artifacts})

	recorder := server.do(t, http.MethodPost, "/scratch", "", nil)
	expectStatus(t, recorder, http.StatusCreated)
	var snapshot sessionSnapshotPayload
	decodeJSON(t, recorder, &snapshot)
	if !snapshot.Scratch || snapshot.ID == "" {
		t.Fatalf("unexpected scratch snapshot %+v", snapshot)
	}
	target := "/scratch/" + snapshot.ID

	mutate(t, server, "", target, map[string]any{"op": "updatePersonalInfo", "patch": map[string]any{"name": "Guest"}})

	recorder = server.do(t, http.MethodGet, target+"/export/txt", "", nil)
	expectStatus(t, recorder, http.StatusOK)
	if !strings.HasPrefix(recorder.Body.String(), "Guest\n") {
		t.Fatalf("expected transcript to start with the name, got %q", recorder.Body.String())
	}

	recorder = server.do(t, http.MethodGet, target+"/export/txt?archive=true", "", nil)
	expectStatus(t, recorder, http.StatusServiceUnavailable)
	expectErrorCode(t, recorder, "archive_unavailable")

	if unsaved := server.sessions.Unsaved(); len(unsaved) != 0 {
		t.Fatalf("scratch edits must not count as unsaved documents, got %v", unsaved)
	}

	recorder = server.do(t, http.MethodDelete, target, "", nil)
	expectStatus(t, recorder, http.StatusNoContent)

	recorder = server.do(t, http.MethodGet, target, "", nil)
	expectStatus(t, recorder, http.StatusNotFound)
	expectErrorCode(t, recorder, "session_not_found")
}

func TestAssistWithoutProvider(t *testing.T) {
	server := newTestServer(t, testServerConfig{})
	token := server.token(t, "owner-1")

	recorder := server.do(t, http.MethodPost, "/assist/rewrite", token, map[string]any{"section": "summary", "text": "did stuff"})
	expectStatus(t, recorder, http.StatusServiceUnavailable)
	expectErrorCode(t, recorder, "ai_not_configured")

	recorder = server.do(t, http.MethodPost, "/assist/rewrite", token, map[string]any{"section": "summary", "text": " "})
	expectStatus(t, recorder, http.StatusBadRequest)
	expectErrorCode(t, recorder, "empty_input")

	recorder = server.do(t, http.MethodPost, "/assist/parse", token, map[string]any{"text": "Linus\nlinus@example.com"})
	expectStatus(t, recorder, http.StatusOK)
	var parsed assist.ParseResult
	decodeJSON(t, recorder, &parsed)
	if !parsed.Fallback || parsed.Content.Personal.Name != "Linus" {
		t.Fatalf("unexpected parse result %+v", parsed)
	}
}

func TestAssistWithProvider(t *testing.T) {
	completer := assist.CompleterFunc(func(_ context.Context, prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "did stuff"):
			return "Delivered measurable results.", nil
		case strings.Contains(prompt, "Kubernetes"):
			return "```json\n{\"score\": 140, \"strengths\": [\"Go\"]}\n```", nil
		default:
			return "", errors.New("upstream timeout")
		}
	})
	server := newTestServer(t, testServerConfig{completer: completer})
	token := server.token(t, "owner-1")

	recorder := server.do(t, http.MethodPost, "/assist/rewrite", token, map[string]any{"section": "summary", "text": "did stuff"})
	expectStatus(t, recorder, http.StatusOK)
	var rewritten struct {
		Text string `json:"text"`
	}
	decodeJSON(t, recorder, &rewritten)
	if rewritten.Text != "Delivered measurable results." {
		t.Fatalf("unexpected rewrite %q", rewritten.Text)
	}

	recorder = server.do(t, http.MethodPost, "/assist/score", token, map[string]any{"jobDescription": "Kubernetes operator"})
	expectStatus(t, recorder, http.StatusOK)
	var match assist.Match
	decodeJSON(t, recorder, &match)
	if match.Score != 100 || len(match.Strengths) != 1 || match.Gaps == nil {
		t.Fatalf("unexpected match %+v", match)
	}

	recorder = server.do(t, http.MethodPost, "/assist/summary", token, map[string]any{})
	expectStatus(t, recorder, http.StatusBadGateway)
	expectErrorCode(t, recorder, "ai_unavailable")
}
