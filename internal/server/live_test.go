package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/documents"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/editor"
	"github.com/gorilla/websocket"
)

const liveTestTimeout = 5 * time.Second

func dialWebsocket(t *testing.T, httpServer *httptest.Server, path, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + path
	if token != "" {
		url += "?access_token=" + token
	}
	conn, response, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		status := 0
		if response != nil {
			status = response.StatusCode
		}
		t.Fatalf("dial %s failed (status %d): %v", path, status, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) liveMessage {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(liveTestTimeout)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	var message liveMessage
	if err := conn.ReadJSON(&message); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return message
}

func TestLiveSessionStreamsUpdatesAndAcceptsCommands(t *testing.T) {
	server := newTestServer(t, testServerConfig{})
	httpServer := httptest.NewServer(server.handler)
	t.Cleanup(httpServer.Close)

	token := server.token(t, "owner-1")
	id := createDocument(t, server, token, nil)
	openSession(t, server, token, id)

	conn := dialWebsocket(t, httpServer, "/sessions/"+id+"/live", token)

	initial := readFrame(t, conn)
	if initial.Type != liveMessageUpdate || initial.Update == nil || initial.Update.Kind != editor.ChangeLoaded {
		t.Fatalf("unexpected initial frame %+v", initial)
	}

	if err := conn.WriteJSON(map[string]any{"op": "updatePersonalInfo", "patch": map[string]any{"name": "Live Name"}}); err != nil {
		t.Fatalf("write command: %v", err)
	}
	update := readFrame(t, conn)
	if update.Type != liveMessageUpdate || update.Update == nil {
		t.Fatalf("unexpected update frame %+v", update)
	}
	if update.Update.Kind != editor.ChangeContent || !update.Update.Meta.IsDirty {
		t.Fatalf("expected dirty content change, got %+v", update.Update)
	}
	if update.Update.Preview.Layout.Header.Name != "Live Name" {
		t.Fatalf("expected preview to follow the edit, got %q", update.Update.Preview.Layout.Header.Name)
	}

	if err := conn.WriteJSON(map[string]any{"op": "explode"}); err != nil {
		t.Fatalf("write command: %v", err)
	}
	failure := readFrame(t, conn)
	if failure.Type != liveMessageError || failure.Error != "unknown_operation" {
		t.Fatalf("unexpected failure frame %+v", failure)
	}
}

func TestLiveRequiresToken(t *testing.T) {
	server := newTestServer(t, testServerConfig{})
	httpServer := httptest.NewServer(server.handler)
	t.Cleanup(httpServer.Close)

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/events"
	_, response, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatalf("expected handshake to fail without a token")
	}
	if response == nil || response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", response)
	}
}

func TestEventsStreamOwnerDocumentEvents(t *testing.T) {
	server := newTestServer(t, testServerConfig{})
	httpServer := httptest.NewServer(server.handler)
	t.Cleanup(httpServer.Close)

	token := server.token(t, "owner-1")
	conn := dialWebsocket(t, httpServer, "/events", token)

	deadline := time.Now().Add(liveTestTimeout)
	for server.realtime.SubscriberCount("owner-1") == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber was never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	createDocument(t, server, server.token(t, "owner-2"), nil)
	id := createDocument(t, server, token, map[string]any{"title": "Watched"})

	frame := readFrame(t, conn)
	if frame.Type != liveMessageEvent || frame.Event == nil {
		t.Fatalf("unexpected frame %+v", frame)
	}
	if frame.Event.DocumentID != id || frame.Event.Type != documents.EventCreated {
		t.Fatalf("unexpected event %+v", frame.Event)
	}
}

func TestEventsDropsPeerThatStopsAnsweringPings(t *testing.T) {
	server := newTestServer(t, testServerConfig{heartbeat: 20 * time.Millisecond})
	httpServer := httptest.NewServer(server.handler)
	t.Cleanup(httpServer.Close)

	// The client never reads, so pings go unanswered.
	dialWebsocket(t, httpServer, "/events", server.token(t, "owner-1"))

	deadline := time.Now().Add(liveTestTimeout)
	for server.realtime.SubscriberCount("owner-1") == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber was never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	for server.realtime.SubscriberCount("owner-1") != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("silent peer was never dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLiveSessionKeepsPeerThatAnswersPings(t *testing.T) {
	server := newTestServer(t, testServerConfig{heartbeat: 20 * time.Millisecond})
	httpServer := httptest.NewServer(server.handler)
	t.Cleanup(httpServer.Close)

	token := server.token(t, "owner-1")
	id := createDocument(t, server, token, map[string]any{"title": "Pinged"})
	openSession(t, server, token, id)
	conn := dialWebsocket(t, httpServer, "/sessions/"+id+"/live", token)

	// A running reader answers pings.
	frames := make(chan liveMessage, 8)
	go func() {
		defer close(frames)
		for {
			var frame liveMessage
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
			frames <- frame
		}
	}()

	time.Sleep(10 * 20 * time.Millisecond)
	if err := conn.WriteJSON(editor.Command{Op: "updateSummary", Value: "still here"}); err != nil {
		t.Fatalf("write command: %v", err)
	}

	timeout := time.After(liveTestTimeout)
	for {
		select {
		case frame, open := <-frames:
			if !open {
				t.Fatalf("connection dropped while answering pings")
			}
			if frame.Type == liveMessageUpdate && frame.Update != nil && frame.Update.Meta.IsDirty {
				return
			}
		case <-timeout:
			t.Fatalf("no update after the command")
		}
	}
}
