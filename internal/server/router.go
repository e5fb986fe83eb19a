package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/assist"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/auth"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/documents"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/export"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/session"
	"github.com/borisdouon/ResumeBuilder-WebApp/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	ownerIDContextKey     = "resume_owner_id"
	accessTokenQueryParam = "access_token"
	defaultHeartbeat      = 25 * time.Second
	maxUploadBytes        = 10 << 20
)

var (
	errMissingValidator = errors.New("session validator dependency required")
	errMissingDocuments = errors.New("documents service dependency required")
	errMissingSessions  = errors.New("session manager dependency required")
	errMissingAssist    = errors.New("assist service dependency required")
	errMissingExporter  = errors.New("exporter dependency required")
)

// SessionValidator authenticates requests.
type SessionValidator interface {
	ValidateRequest(r *http.Request) (auth.SessionClaims, error)
	ValidateToken(token string) (auth.SessionClaims, error)
}

// OwnerResolver maps validated claims to the owner id documents are stored under.
type OwnerResolver interface {
	ResolveOwnerID(ctx context.Context, claims auth.SessionClaims) (string, error)
}

type Dependencies struct {
	Validator SessionValidator
	// Owners is optional; without it the token subject is the owner id.
	Owners    OwnerResolver
	Documents *documents.Service
	Sessions  *session.Manager
	Assist    *assist.Service
	Exporter  *export.Exporter
	// Artifacts is optional; archiving is refused without it.
	Artifacts      storage.ObjectStore
	Realtime       *RealtimeDispatcher
	AllowedOrigins []string
	Heartbeat      time.Duration
	Logger         *zap.Logger
}

// NewHTTPHandler wires the API routes.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Validator == nil {
		return nil, errMissingValidator
	}
	if deps.Documents == nil {
		return nil, errMissingDocuments
	}
	if deps.Sessions == nil {
		return nil, errMissingSessions
	}
	if deps.Assist == nil {
		return nil, errMissingAssist
	}
	if deps.Exporter == nil {
		return nil, errMissingExporter
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	realtime := deps.Realtime
	if realtime == nil {
		realtime = NewRealtimeDispatcher()
	}
	heartbeat := deps.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(deps.AllowedOrigins...))

	handler := &httpHandler{
		validator: deps.Validator,
		owners:    deps.Owners,
		documents: deps.Documents,
		sessions:  deps.Sessions,
		assist:    deps.Assist,
		exporter:  deps.Exporter,
		artifacts: deps.Artifacts,
		realtime:  realtime,
		heartbeat: heartbeat,
		logger:    logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(deps.AllowedOrigins),
		},
	}

	router.GET("/healthz", handler.handleHealth)

	scratch := router.Group("/scratch")
	scratch.POST("", handler.handleOpenScratch)
	handler.registerSessionRoutes(scratch.Group("/:id"), handler.lookupScratch)
	scratch.DELETE("/:id", handler.handleCloseScratch)

	protected := router.Group("/")
	protected.Use(handler.authorizeRequest)

	protected.GET("/documents", handler.handleListDocuments)
	protected.POST("/documents", handler.handleCreateDocument)
	protected.POST("/documents/import", handler.handleImportDocument)
	protected.GET("/documents/:id", handler.handleGetDocument)
	protected.DELETE("/documents/:id", handler.handleDeleteDocument)
	protected.POST("/documents/:id/duplicate", handler.handleDuplicateDocument)

	protected.POST("/sessions/:id", handler.handleOpenSession)
	protected.DELETE("/sessions/:id", handler.handleCloseSession)
	sessions := protected.Group("/sessions/:id")
	handler.registerSessionRoutes(sessions, handler.lookupSession)
	sessions.POST("/save", handler.handleSaveSession)

	protected.GET("/exports/:documentId/:fileName", handler.handleDownloadArchive)

	protected.POST("/assist/parse", handler.handleAssistParse)
	protected.POST("/assist/rewrite", handler.handleAssistRewrite)
	protected.POST("/assist/score", handler.handleAssistScore)
	protected.POST("/assist/summary", handler.handleAssistSummary)

	protected.GET("/events", handler.handleEvents)

	return router, nil
}

type httpHandler struct {
	validator SessionValidator
	owners    OwnerResolver
	documents *documents.Service
	sessions  *session.Manager
	assist    *assist.Service
	exporter  *export.Exporter
	artifacts storage.ObjectStore
	realtime  *RealtimeDispatcher
	heartbeat time.Duration
	logger    *zap.Logger
	upgrader  websocket.Upgrader
}

func corsMiddleware(allowedOrigins ...string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Disposition", artifactKeyHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		config.AllowOriginFunc = func(string) bool { return true }
	} else {
		config.AllowOrigins = allowedOrigins
	}
	return cors.New(config)
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	if len(allowedOrigins) == 0 {
		return func(*http.Request) bool { return true }
	}
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimRight(origin, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[strings.TrimRight(origin, "/")]
		return ok
	}
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"aiConfigured":    h.assist.Configured(),
		"unsavedSessions": len(h.sessions.Unsaved()),
	})
}

// authorizeRequest accepts a bearer header, the session cookie, or an
// access_token query parameter for websocket clients.
func (h *httpHandler) authorizeRequest(c *gin.Context) {
	var (
		claims auth.SessionClaims
		err    error
	)
	if token := c.Query(accessTokenQueryParam); token != "" && c.GetHeader("Authorization") == "" {
		claims, err = h.validator.ValidateToken(token)
	} else {
		claims, err = h.validator.ValidateRequest(c.Request)
	}
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, auth.ErrExpiredSessionToken) {
			h.logger.Info("token validation failed", zap.Error(err))
		} else {
			h.logger.Warn("token validation failed", zap.Error(err))
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ownerID := strings.TrimSpace(claims.Subject)
	if ownerID == "" {
		ownerID = strings.TrimSpace(claims.UserID)
	}
	if h.owners != nil {
		resolved, resolveErr := h.owners.ResolveOwnerID(c.Request.Context(), claims)
		if resolveErr != nil {
			h.logger.Error("owner resolution failed",
				zap.String("operation", "server.authorize"),
				zap.String("reason", "resolve_failed"),
				zap.Error(resolveErr))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		ownerID = resolved
	}
	c.Set(ownerIDContextKey, ownerID)
	c.Next()
}

func (h *httpHandler) ownerID(c *gin.Context) (documents.OwnerID, bool) {
	owner, err := documents.NewOwnerID(c.GetString(ownerIDContextKey))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return owner, true
}

func (h *httpHandler) documentID(c *gin.Context, param string) (documents.DocumentID, bool) {
	id, err := documents.NewDocumentID(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_document_id"})
		return "", false
	}
	return id, true
}
