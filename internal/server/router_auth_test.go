package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubValidator struct {
	claims      auth.SessionClaims
	validateErr error
}

func (s stubValidator) ValidateRequest(*http.Request) (auth.SessionClaims, error) {
	return s.claims, s.validateErr
}

func (s stubValidator) ValidateToken(string) (auth.SessionClaims, error) {
	return s.claims, s.validateErr
}

type stubOwnerResolver struct {
	ownerID string
	err     error
}

func (s stubOwnerResolver) ResolveOwnerID(context.Context, auth.SessionClaims) (string, error) {
	return s.ownerID, s.err
}

func newAuthTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	request := httptest.NewRequest(http.MethodGet, "/documents", http.NoBody)
	request.Header.Set("Authorization", "Bearer some-token")
	ctx.Request = request
	return ctx, recorder
}

func TestAuthorizeRequestLogsExpiredTokenAtInfoLevel(t *testing.T) {
	ctx, recorder := newAuthTestContext(t)

	core, logs := observer.New(zapcore.DebugLevel)
	handler := &httpHandler{
		validator: stubValidator{
			validateErr: fmt.Errorf("%w: %w", auth.ErrExpiredSessionToken, jwt.ErrTokenExpired),
		},
		logger: zap.New(core),
	}

	handler.authorizeRequest(ctx)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status code: got %d, want %d", recorder.Code, http.StatusUnauthorized)
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected exactly one log entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Level != zapcore.InfoLevel {
		t.Fatalf("expected info level for expired token, got %s", entry.Level)
	}
	if entry.Message != "token validation failed" {
		t.Fatalf("unexpected log message: %q", entry.Message)
	}
	hasExpired := false
	for _, field := range entry.Context {
		if field.Type == zapcore.ErrorType && errors.Is(field.Interface.(error), jwt.ErrTokenExpired) {
			hasExpired = true
			break
		}
	}
	if !hasExpired {
		t.Fatalf("expected expired token error context, got %v", entry.Context)
	}
}

func TestAuthorizeRequestLogsUnexpectedTokenErrorAtWarnLevel(t *testing.T) {
	ctx, recorder := newAuthTestContext(t)

	core, logs := observer.New(zapcore.DebugLevel)
	handler := &httpHandler{
		validator: stubValidator{validateErr: errors.New("signature mismatch")},
		logger:    zap.New(core),
	}

	handler.authorizeRequest(ctx)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status code: got %d, want %d", recorder.Code, http.StatusUnauthorized)
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected exactly one log entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected warn level for unexpected error, got %s", entries[0].Level)
	}
}

func TestAuthorizeRequestUsesSubjectWithoutResolver(t *testing.T) {
	ctx, _ := newAuthTestContext(t)
	handler := &httpHandler{
		validator: stubValidator{claims: auth.SessionClaims{
			UserID:           "google:1",
			RegisteredClaims: jwt.RegisteredClaims{Subject: "owner-42"},
		}},
		logger: zap.NewNop(),
	}

	handler.authorizeRequest(ctx)

	if got := ctx.GetString(ownerIDContextKey); got != "owner-42" {
		t.Fatalf("expected owner-42, got %q", got)
	}
}

func TestAuthorizeRequestUsesResolver(t *testing.T) {
	ctx, _ := newAuthTestContext(t)
	handler := &httpHandler{
		validator: stubValidator{claims: auth.SessionClaims{UserID: "google:1"}},
		owners:    stubOwnerResolver{ownerID: "canonical-1"},
		logger:    zap.NewNop(),
	}

	handler.authorizeRequest(ctx)

	if got := ctx.GetString(ownerIDContextKey); got != "canonical-1" {
		t.Fatalf("expected canonical-1, got %q", got)
	}
}

func TestAuthorizeRequestRejectsResolverFailure(t *testing.T) {
	ctx, recorder := newAuthTestContext(t)
	handler := &httpHandler{
		validator: stubValidator{claims: auth.SessionClaims{UserID: "x"}},
		owners:    stubOwnerResolver{err: errors.New("database down")},
		logger:    zap.NewNop(),
	}

	handler.authorizeRequest(ctx)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
	if !ctx.IsAborted() {
		t.Fatalf("expected request to be aborted")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	server := newTestServer(t, testServerConfig{})

	recorder := server.do(t, http.MethodGet, "/documents", "", nil)
	expectStatus(t, recorder, http.StatusUnauthorized)
	expectErrorCode(t, recorder, "unauthorized")

	recorder = server.do(t, http.MethodGet, "/documents", "not-a-token", nil)
	expectStatus(t, recorder, http.StatusUnauthorized)
}

func TestProtectedRoutesAcceptCookie(t *testing.T) {
	server := newTestServer(t, testServerConfig{})

	request := httptest.NewRequest(http.MethodGet, "/documents", http.NoBody)
	request.AddCookie(&http.Cookie{Name: testCookieName, Value: server.token(t, "owner-1")})
	recorder := httptest.NewRecorder()
	server.handler.ServeHTTP(recorder, request)

	expectStatus(t, recorder, http.StatusOK)
}

func TestNewHTTPHandlerRequiresDependencies(t *testing.T) {
	if _, err := NewHTTPHandler(Dependencies{}); !errors.Is(err, errMissingValidator) {
		t.Fatalf("expected errMissingValidator, got %v", err)
	}
	if _, err := NewHTTPHandler(Dependencies{Validator: stubValidator{}}); !errors.Is(err, errMissingDocuments) {
		t.Fatalf("expected errMissingDocuments, got %v", err)
	}
}
